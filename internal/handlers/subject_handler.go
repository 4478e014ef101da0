// gestion-multi-profs/internal/handlers/subject_handler.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alibelharet/gestion-multi-profs/config"
	"github.com/alibelharet/gestion-multi-profs/models"
)

func ListSubjectsHandler(c *gin.Context) {
	userID := currentUserID(c)
	subjects := ensureSubjects(config.DB, userID)
	c.JSON(http.StatusOK, gin.H{"data": subjects})
}

func CreateSubjectHandler(c *gin.Context) {
	userID := currentUserID(c)

	var input struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nom de matiere requis"})
		return
	}

	subject := models.Subject{UserID: userID, Name: strings.TrimSpace(input.Name)}
	if err := config.DB.Create(&subject).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Cette matiere existe deja."})
		return
	}
	c.JSON(http.StatusCreated, subject)
}

func DeleteSubjectHandler(c *gin.Context) {
	userID := currentUserID(c)
	id, ok := parseUintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant invalide"})
		return
	}

	var count int64
	config.DB.Model(&models.GradeRecord{}).Where("user_id = ? AND subject_id = ?", userID, id).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Des notes existent pour cette matiere."})
		return
	}

	result := config.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Subject{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Impossible de supprimer la matiere"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Matiere introuvable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Matiere supprimee"})
}
