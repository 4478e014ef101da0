// gestion-multi-profs/internal/handlers/student_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/alibelharet/gestion-multi-profs/config"
	"github.com/alibelharet/gestion-multi-profs/models"
)

// ListStudentsHandler returns the teacher's students for the resolved
// school year, paginated, with optional search and class filters.
func ListStudentsHandler(c *gin.Context) {
	userID := currentUserID(c)
	schoolYear := resolveSchoolYear(config.DB, c.Query("school_year"), isAdmin(c))

	var students []models.Student
	var totalRows int64

	baseQuery := config.DB.Model(&models.Student{}).
		Where("user_id = ? AND school_year = ?", userID, schoolYear)

	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		baseQuery = baseQuery.Where("LOWER(full_name) LIKE ?", pattern)
	}
	if niveau := c.Query("niveau"); niveau != "" {
		baseQuery = baseQuery.Where("niveau = ?", niveau)
	}

	if c.Query("all") == "true" {
		if err := baseQuery.Order("niveau, full_name").Find(&students).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Impossible de charger les eleves"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": students})
		return
	}

	if err := baseQuery.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Impossible de compter les eleves"})
		return
	}
	if err := baseQuery.Scopes(Paginate(c)).Order("niveau, full_name").Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Impossible de charger les eleves"})
		return
	}
	if students == nil {
		students = make([]models.Student, 0)
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, students, totalRows))
}

func GetStudentHandler(c *gin.Context) {
	userID := currentUserID(c)
	id, ok := parseUintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant eleve invalide"})
		return
	}

	var student models.Student
	err := config.DB.Where("id = ? AND user_id = ?", id, userID).First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Eleve introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de chargement de l'eleve"})
		return
	}

	var records []models.GradeRecord
	config.DB.Preload("Subject").
		Where("user_id = ? AND student_id = ?", userID, student.ID).
		Order("subject_id, trimester").
		Find(&records)

	c.JSON(http.StatusOK, gin.H{"student": student, "grades": records})
}

type studentInput struct {
	FullName    string `json:"fullName" binding:"required"`
	Niveau      string `json:"niveau" binding:"required"`
	SchoolYear  string `json:"schoolYear"`
	ParentPhone string `json:"parentPhone"`
	ParentEmail string `json:"parentEmail"`
}

func CreateStudentHandler(c *gin.Context) {
	userID := currentUserID(c)

	var input studentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Donnees invalides: " + err.Error()})
		return
	}
	schoolYear := resolveSchoolYear(config.DB, input.SchoolYear, isAdmin(c))

	student := models.Student{
		UserID:      userID,
		SchoolYear:  schoolYear,
		FullName:    strings.TrimSpace(input.FullName),
		Niveau:      strings.TrimSpace(input.Niveau),
		ParentPhone: strings.TrimSpace(input.ParentPhone),
		ParentEmail: strings.TrimSpace(input.ParentEmail),
	}

	var existing models.Student
	err := config.DB.Where(
		"user_id = ? AND full_name = ? AND niveau = ? AND school_year = ?",
		userID, student.FullName, student.Niveau, schoolYear,
	).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Un eleve avec ce nom existe deja dans cette classe."})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de verification d'unicite"})
		return
	}

	if err := config.DB.Create(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Impossible de creer l'eleve"})
		return
	}
	c.JSON(http.StatusCreated, student)
}

func UpdateStudentHandler(c *gin.Context) {
	userID := currentUserID(c)
	id, ok := parseUintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant eleve invalide"})
		return
	}

	var student models.Student
	if err := config.DB.Where("id = ? AND user_id = ?", id, userID).First(&student).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Eleve introuvable"})
		return
	}

	var input studentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Donnees invalides: " + err.Error()})
		return
	}

	student.FullName = strings.TrimSpace(input.FullName)
	student.Niveau = strings.TrimSpace(input.Niveau)
	if input.ParentPhone != "" {
		student.ParentPhone = strings.TrimSpace(input.ParentPhone)
	}
	if input.ParentEmail != "" {
		student.ParentEmail = strings.TrimSpace(input.ParentEmail)
	}

	if err := config.DB.Save(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Impossible de modifier l'eleve"})
		return
	}
	c.JSON(http.StatusOK, student)
}

// DeleteStudentHandler removes a student and their grade records in one
// transaction.
func DeleteStudentHandler(c *gin.Context) {
	userID := currentUserID(c)
	id, ok := parseUintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant eleve invalide"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Student{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("user_id = ? AND student_id = ?", userID, id).Delete(&models.GradeRecord{}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Eleve introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Impossible de supprimer l'eleve"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Eleve supprime"})
}
