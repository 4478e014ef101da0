// gestion-multi-profs/internal/handlers/grade_handler.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alibelharet/gestion-multi-profs/config"
	"github.com/alibelharet/gestion-multi-profs/internal/importer"
	"github.com/alibelharet/gestion-multi-profs/models"
)

// gradeRowInput carries one grid row from the grade entry screen. Marks
// arrive as raw strings because the grid accepts the same dirty input as
// the spreadsheets ("14,5", blanks, stray text).
type gradeRowInput struct {
	StudentID       uint   `json:"studentId" binding:"required"`
	Devoir          string `json:"devoir"`
	Activite        string `json:"activite"`
	Compo           string `json:"compo"`
	Participation   string `json:"participation"`
	Comportement    string `json:"comportement"`
	Cahier          string `json:"cahier"`
	Projet          string `json:"projet"`
	AssiduiteOutils string `json:"assiduiteOutils"`
}

func (in *gradeRowInput) hasComponents() bool {
	return in.Participation != "" || in.Comportement != "" || in.Cahier != "" ||
		in.Projet != "" || in.AssiduiteOutils != ""
}

// SaveAllGradesHandler persists a whole grid of marks through the same
// codec and upsert path as the Excel import. Rows that fail are skipped
// individually; the grid is dirty-input territory just like spreadsheets.
func SaveAllGradesHandler(c *gin.Context) {
	userID := currentUserID(c)

	var body struct {
		Trimester  string          `json:"trimester"`
		Subject    string          `json:"subject"`
		SchoolYear string          `json:"schoolYear"`
		Rows       []gradeRowInput `json:"rows"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Donnees invalides: " + err.Error()})
		return
	}

	trimester := parseTrimester(body.Trimester)
	schoolYear := resolveSchoolYear(config.DB, body.SchoolYear, isAdmin(c))
	scope := unrestrictedScope()
	if !isAdmin(c) {
		scope = userAssignmentScope(config.DB, userID, schoolYear)
	}

	subjects := ensureSubjects(config.DB, userID)
	subjectID := selectSubjectID(subjects, body.Subject)
	if scope.Restricted && !scope.SubjectIDs[subjectID] {
		c.JSON(http.StatusForbidden, gin.H{"error": "Matiere non autorisee pour ce compte."})
		return
	}

	useComponents := false
	for i := range body.Rows {
		if body.Rows[i].hasComponents() {
			useComponents = true
			break
		}
	}

	reconciler := importer.Reconciler{DB: config.DB}
	opts := applyOptions(userID, subjectID, trimester, schoolYear, scope)

	updated := 0
	for _, row := range body.Rows {
		var student models.Student
		if err := config.DB.Where("id = ? AND user_id = ?", row.StudentID, userID).First(&student).Error; err != nil {
			continue
		}
		if student.SchoolYear != schoolYear {
			continue
		}
		if scope.Restricted && !scope.Classes[student.Niveau] {
			continue
		}

		devoir := importer.CleanNote(row.Devoir)
		compo := importer.CleanNote(row.Compo)

		var comps importer.Components
		if useComponents {
			comps = importer.Components{
				Participation:   importer.CleanComponent(row.Participation, 3),
				Comportement:    importer.CleanComponent(row.Comportement, 6),
				Cahier:          importer.CleanComponent(row.Cahier, 5),
				Projet:          importer.CleanComponent(row.Projet, 4),
				AssiduiteOutils: importer.CleanComponent(row.AssiduiteOutils, 2),
			}
		} else {
			comps = importer.SplitActiviteComponents(importer.CleanNote(row.Activite))
		}
		activite := importer.SumActiviteComponents(comps)

		average := importer.TrimesterAverage(devoir, activite, compo)
		remark := importer.AppreciationForAverage(config.DB, userID, average)

		if err := reconciler.UpsertGrade(student.ID, comps, activite, devoir, compo, remark, opts); err != nil {
			continue
		}
		updated++
	}

	logChange(userID, "update_notes", fmt.Sprintf("%s: %d lignes", schoolYear, updated), &subjectID)
	c.JSON(http.StatusOK, gin.H{"message": "Notes enregistrees.", "updated": updated})
}

// ListGradesHandler returns the grade records of one trimester/subject,
// joined with the owning students, for the grid screen.
func ListGradesHandler(c *gin.Context) {
	userID := currentUserID(c)
	trimester := parseTrimester(c.Query("trimester"))
	schoolYear := resolveSchoolYear(config.DB, c.Query("school_year"), isAdmin(c))

	subjects := ensureSubjects(config.DB, userID)
	subjectID := selectSubjectID(subjects, c.Query("subject"))

	var records []models.GradeRecord
	query := config.DB.
		Preload("Student").
		Joins("JOIN students ON students.id = grade_records.student_id").
		Where("grade_records.user_id = ? AND grade_records.subject_id = ? AND grade_records.trimester = ?",
			userID, subjectID, trimester).
		Where("students.school_year = ?", schoolYear)

	if niveau := c.Query("niveau"); niveau != "" {
		query = query.Where("students.niveau = ?", niveau)
	}

	if err := query.Order("students.full_name").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Impossible de charger les notes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": records, "trimester": trimester, "subjectId": subjectID, "schoolYear": schoolYear})
}
