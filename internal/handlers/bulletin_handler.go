// gestion-multi-profs/internal/handlers/bulletin_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/alibelharet/gestion-multi-profs/config"
	"github.com/alibelharet/gestion-multi-profs/models"
)

// Column synonyms of the official bulletin template. These sheets come
// from the ministry software, so the labels are short codes or Arabic.
var bulletinSynonyms = map[string][]string{
	"nom":    {"nom", "اللقب"},
	"prenom": {"prenom", "الاسم"},
	"act":    {"01", "1", "act", "النشاط", "النشاطات"},
	"dev":    {"04", "4", "dev", "الفرض", "الواجب"},
	"compo":  {"09", "9", "compo", "الاختبار"},
	"rem":    {"obs", "rem", "remarques", "التقديرات", "ملاحظات"},
}

func matchBulletinColumn(label string) string {
	v := strings.ToLower(strings.TrimSpace(label))
	if v == "" {
		return ""
	}
	for key, synonyms := range bulletinSynonyms {
		for _, s := range synonyms {
			if v == s {
				return key
			}
		}
	}
	return ""
}

// FillBulletinHandler takes an empty official bulletin workbook and fills
// its mark columns from the gradebook, matching students by "nom prenom".
// The filled workbook is streamed back as an attachment; nothing is
// persisted.
func FillBulletinHandler(c *gin.Context) {
	userID := currentUserID(c)
	trimester := parseTrimester(c.PostForm("trimestre_fill"))
	schoolYear := resolveSchoolYear(config.DB, c.PostForm("school_year"), isAdmin(c))

	scope := unrestrictedScope()
	if !isAdmin(c) {
		scope = userAssignmentScope(config.DB, userID, schoolYear)
	}

	fileHeader, err := c.FormFile("fichier_vide")
	if err != nil || fileHeader == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier bulletin manquant."})
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
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier bulletin illisible."})
		return
	}
	defer src.Close()

	wb, err := excelize.OpenReader(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Erreur lecture Excel: %v", err)})
		return
	}
	defer wb.Close()

	for _, sheetName := range wb.GetSheetList() {
		fillBulletinSheet(wb, sheetName, userID, subjectID, trimester, schoolYear)
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=Bulletin_Rempli.xlsx")
	if err := wb.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Impossible d'ecrire le fichier rempli."})
	}
}

// fillBulletinSheet locates the template's header row within the first 20
// rows and writes each matched student's marks into the mapped columns.
// Sheets without a recognizable name column are left untouched.
func fillBulletinSheet(wb *excelize.File, sheetName string, userID, subjectID uint, trimester int, schoolYear string) {
	rows, err := wb.GetRows(sheetName)
	if err != nil {
		return
	}

	headerRow := -1
	colMap := map[string]int{}
	limit := len(rows)
	if limit > 20 {
		limit = 20
	}
	for i := 0; i < limit; i++ {
		for j, cell := range rows[i] {
			if key := matchBulletinColumn(cell); key != "" {
				if _, taken := colMap[key]; !taken {
					colMap[key] = j + 1
				}
			}
		}
		if _, ok := colMap["nom"]; ok {
			headerRow = i + 1
			break
		}
		colMap = map[string]int{}
	}
	if headerRow < 0 {
		return
	}

	for r := headerRow + 1; r <= len(rows); r++ {
		nom := cellAt(rows, r-1, colMap["nom"]-1)
		if nom == "" {
			continue
		}
		full := nom
		if col, ok := colMap["prenom"]; ok {
			if prenom := cellAt(rows, r-1, col-1); prenom != "" {
				full = strings.TrimSpace(nom + " " + prenom)
			}
		}

		marks, ok := lookupMarks(userID, subjectID, trimester, schoolYear, full)
		if !ok {
			continue
		}
		setBulletinCell(wb, sheetName, colMap, "act", r, marks.activite)
		setBulletinCell(wb, sheetName, colMap, "dev", r, marks.devoir)
		setBulletinCell(wb, sheetName, colMap, "compo", r, marks.compo)
		if col, ok := colMap["rem"]; ok && marks.remarques != "" {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			wb.SetCellValue(sheetName, cell, marks.remarques)
		}
	}
}

type bulletinMarks struct {
	activite  float64
	devoir    float64
	compo     float64
	remarques string
}

// lookupMarks reads a student's marks, preferring the grade record and
// falling back to the legacy per-trimester columns for pre-migration
// databases.
func lookupMarks(userID, subjectID uint, trimester int, schoolYear, fullName string) (bulletinMarks, bool) {
	var student models.Student
	err := config.DB.Where(
		"user_id = ? AND full_name = ? AND school_year = ?",
		userID, fullName, schoolYear,
	).First(&student).Error
	if err != nil {
		return bulletinMarks{}, false
	}

	var record models.GradeRecord
	err = config.DB.Where(
		"user_id = ? AND student_id = ? AND subject_id = ? AND trimester = ?",
		userID, student.ID, subjectID, trimester,
	).First(&record).Error
	if err == nil {
		return bulletinMarks{
			activite:  record.Activite,
			devoir:    record.Devoir,
			compo:     record.Compo,
			remarques: record.Remarques,
		}, true
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return bulletinMarks{}, false
	}

	marks := bulletinMarks{}
	switch trimester {
	case 1:
		marks = bulletinMarks{student.ActiviteT1, student.DevoirT1, student.CompoT1, student.RemarquesT1}
	case 2:
		marks = bulletinMarks{student.ActiviteT2, student.DevoirT2, student.CompoT2, student.RemarquesT2}
	case 3:
		marks = bulletinMarks{student.ActiviteT3, student.DevoirT3, student.CompoT3, student.RemarquesT3}
	}
	return marks, true
}

func setBulletinCell(wb *excelize.File, sheetName string, colMap map[string]int, key string, row int, value float64) {
	col, ok := colMap[key]
	if !ok {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return
	}
	wb.SetCellValue(sheetName, cell, value)
}

func cellAt(rows [][]string, r, c int) string {
	if r < 0 || r >= len(rows) || c < 0 || c >= len(rows[r]) {
		return ""
	}
	return strings.TrimSpace(rows[r][c])
}
