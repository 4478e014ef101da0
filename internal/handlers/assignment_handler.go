// gestion-multi-profs/internal/handlers/assignment_handler.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alibelharet/gestion-multi-profs/config"
	"github.com/alibelharet/gestion-multi-profs/models"
)

// Assignment management is admin-only; a teacher with no assignment rows
// stays unrestricted.

func ListAssignmentsHandler(c *gin.Context) {
	schoolYear := resolveSchoolYear(config.DB, c.Query("school_year"), true)

	query := config.DB.Where("school_year = ?", schoolYear)
	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var rows []models.TeacherAssignment
	if err := query.Order("user_id, subject_id, class_name").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Impossible de charger les affectations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows, "schoolYear": schoolYear})
}

func CreateAssignmentHandler(c *gin.Context) {
	var input struct {
		UserID     uint   `json:"userId" binding:"required"`
		SubjectID  uint   `json:"subjectId" binding:"required"`
		ClassName  string `json:"className"`
		SchoolYear string `json:"schoolYear"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Donnees invalides: " + err.Error()})
		return
	}

	var subject models.Subject
	if err := config.DB.Where("id = ? AND user_id = ?", input.SubjectID, input.UserID).First(&subject).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cette matiere n'appartient pas a ce compte."})
		return
	}

	row := models.TeacherAssignment{
		UserID:     input.UserID,
		SubjectID:  input.SubjectID,
		ClassName:  strings.TrimSpace(input.ClassName),
		SchoolYear: resolveSchoolYear(config.DB, input.SchoolYear, true),
	}
	if err := config.DB.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Impossible de creer l'affectation"})
		return
	}
	c.JSON(http.StatusCreated, row)
}

func DeleteAssignmentHandler(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant invalide"})
		return
	}
	result := config.DB.Delete(&models.TeacherAssignment{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Impossible de supprimer l'affectation"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Affectation introuvable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Affectation supprimee"})
}
