// gestion-multi-profs/internal/handlers/import_handler.go
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/alibelharet/gestion-multi-profs/config"
	"github.com/alibelharet/gestion-multi-profs/internal/importer"
)

// Staging holds the process-wide preview staging store. InitStaging wires
// it against Redis when available, memory otherwise.
var Staging *importer.StagingStore

func InitStaging(dir string) error {
	var meta importer.MetaStore
	if config.RDB != nil {
		meta = &importer.RedisMetaStore{RDB: config.RDB, Ctx: config.Ctx}
	} else {
		meta = importer.NewMemoryMetaStore()
	}
	store, err := importer.NewStagingStore(dir, meta)
	if err != nil {
		return err
	}
	Staging = store
	return nil
}

// ImportExcelHandler is phase one of the two-phase import: stage the
// uploaded workbook, guess a column mapping from the first usable sheet
// and return it with sample rows for the user to confirm or correct.
func ImportExcelHandler(c *gin.Context) {
	userID := currentUserID(c)
	trimester := parseTrimester(c.PostForm("trimestre_import"))
	schoolYear := resolveSchoolYear(config.DB, c.PostForm("school_year"), isAdmin(c))

	scope := unrestrictedScope()
	if !isAdmin(c) {
		scope = userAssignmentScope(config.DB, userID, schoolYear)
	}

	fileHeader, err := c.FormFile("fichier_excel")
	if err != nil || fileHeader == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier Excel manquant."})
		return
	}

	subjects := ensureSubjects(config.DB, userID)
	subjectID := selectSubjectID(subjects, c.PostForm("subject"))
	if scope.Restricted && !scope.SubjectIDs[subjectID] {
		c.JSON(http.StatusForbidden, gin.H{"error": "Matiere non autorisee pour ce compte."})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier Excel illisible."})
		return
	}
	defer src.Close()

	token, path, err := Staging.Stage(userID, src, fileHeader.Filename)
	if err != nil {
		slog.Error("failed to stage import upload", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Impossible d'enregistrer le fichier."})
		return
	}

	sheets, err := importer.ReadWorkbook(path)
	if err != nil {
		os.Remove(path)
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Erreur lecture Excel: %v", err)})
		return
	}

	// Pick the first sheet holding usable data; the apply step will walk
	// all of them with the confirmed mapping.
	var selected *importer.Sheet
	headerDetected := false
	for _, raw := range sheets {
		sheet, detected := importer.PrepareSheet(raw.Name, raw.Rows)
		if sheet == nil {
			continue
		}
		selected = sheet
		headerDetected = detected
		break
	}
	if selected == nil {
		os.Remove(path)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucune ligne exploitable detectee dans le fichier."})
		return
	}

	meta := &importer.PreviewMeta{
		Token:      token,
		Path:       path,
		Trimester:  trimester,
		SubjectID:  subjectID,
		SchoolYear: schoolYear,
		SheetName:  selected.Name,
	}
	if err := Staging.Bind(userID, meta); err != nil {
		os.Remove(path)
		slog.Error("failed to bind preview metadata", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Impossible d'enregistrer la session d'import."})
		return
	}

	response := gin.H{
		"token":          token,
		"mappingFields":  importer.MappingFields,
		"columns":        selected.Columns,
		"defaults":       importer.DefaultMapping(selected.Columns),
		"sampleRows":     selected.SampleRows(8),
		"sourceSheet":    selected.Name,
		"headerDetected": headerDetected,
		"trimester":      trimester,
		"subjectId":      subjectID,
		"schoolYear":     schoolYear,
	}
	if !headerDetected {
		response["warning"] = "Entete non detectee automatiquement: verifiez bien la correspondance des colonnes."
	}
	c.JSON(http.StatusOK, response)
}

// ImportApplyHandler is phase two: re-read the staged workbook with the
// confirmed mapping, merge every sheet into the gradebook and consume the
// preview.
func ImportApplyHandler(c *gin.Context) {
	userID := currentUserID(c)

	token := c.PostForm("token")
	meta := Staging.Get(userID, token)
	if meta == nil {
		c.JSON(http.StatusGone, gin.H{"error": "Session d'import expiree. Recommencez l'import."})
		return
	}

	schoolYear := resolveSchoolYear(config.DB, meta.SchoolYear, isAdmin(c))
	scope := unrestrictedScope()
	if !isAdmin(c) {
		scope = userAssignmentScope(config.DB, userID, schoolYear)
	}

	subjects := ensureSubjects(config.DB, userID)
	subjectID := meta.SubjectID
	known := false
	for _, s := range subjects {
		if s.ID == subjectID {
			known = true
			break
		}
	}
	if !known {
		subjectID = selectSubjectID(subjects, c.PostForm("subject"))
	}
	if scope.Restricted && !scope.SubjectIDs[subjectID] {
		Staging.Discard(userID, meta)
		c.JSON(http.StatusForbidden, gin.H{"error": "Matiere non autorisee pour ce compte."})
		return
	}

	mapping := make(map[string]string, len(importer.MappingFields))
	for _, field := range importer.MappingFields {
		mapping[field.Key] = c.PostForm("map_" + field.Key)
	}

	sheets, err := importer.ReadWorkbook(meta.Path)
	if err != nil {
		Staging.Discard(userID, meta)
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Lecture impossible pendant validation: %v", err)})
		return
	}

	reconciler := importer.Reconciler{DB: config.DB}
	summary := reconciler.Apply(sheets, mapping, applyOptions(userID, subjectID, meta.Trimester, schoolYear, scope))

	Staging.Discard(userID, meta)

	details := fmt.Sprintf("%s: %d lignes (new %d, upd %d, sheets %d, rows %d)",
		schoolYear, summary.Total(), summary.Inserted, summary.Updated, summary.SkippedSheets, summary.SkippedRows)
	logChange(userID, "import_excel", details, &subjectID)

	c.JSON(http.StatusOK, gin.H{
		"message": summary.Message(),
		"summary": summary,
	})
}

// ImportCancelHandler discards a staged preview without merging anything.
// Safe to call at any time before apply.
func ImportCancelHandler(c *gin.Context) {
	userID := currentUserID(c)
	meta := Staging.Get(userID, c.Param("token"))
	if meta != nil {
		Staging.Discard(userID, meta)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Import annule."})
}
