// gestion-multi-profs/internal/handlers/appreciation_handler.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/alibelharet/gestion-multi-profs/config"
	"github.com/alibelharet/gestion-multi-profs/internal/importer"
	"github.com/alibelharet/gestion-multi-profs/models"
)

// ListAppreciationsHandler returns the owner's bands, seeding the seven
// defaults first if the owner has none.
func ListAppreciationsHandler(c *gin.Context) {
	userID := currentUserID(c)
	if err := importer.EnsureDefaultAppreciations(config.DB, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Impossible de preparer les appreciations"})
		return
	}
	var bands []models.Appreciation
	if err := config.DB.Where("user_id = ?", userID).Order("min_val").Find(&bands).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Impossible de charger les appreciations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": bands})
}

type appreciationInput struct {
	MinVal  *float64 `json:"minVal" binding:"required"`
	MaxVal  *float64 `json:"maxVal" binding:"required"`
	Message string   `json:"message" binding:"required"`
}

func (in *appreciationInput) validate() string {
	if *in.MinVal < 0 || *in.MaxVal > 20 || *in.MinVal > *in.MaxVal {
		return "Intervalle invalide: attendu 0 <= min <= max <= 20."
	}
	if strings.TrimSpace(in.Message) == "" {
		return "Message requis."
	}
	return ""
}

// ReplaceAppreciationsHandler overwrites the owner's whole scale. Bands
// are free-form by design; only the [0,20] bounds are enforced, overlap
// is resolved by first-match-wins at lookup time.
func ReplaceAppreciationsHandler(c *gin.Context) {
	userID := currentUserID(c)

	var inputs []appreciationInput
	if err := c.ShouldBindJSON(&inputs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Donnees invalides: " + err.Error()})
		return
	}
	if len(inputs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Au moins une appreciation est requise."})
		return
	}
	for _, in := range inputs {
		if msg := in.validate(); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
	}

	bands := make([]models.Appreciation, len(inputs))
	for i, in := range inputs {
		bands[i] = models.Appreciation{
			UserID:  userID,
			MinVal:  *in.MinVal,
			MaxVal:  *in.MaxVal,
			Message: strings.TrimSpace(in.Message),
		}
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Unscoped().Delete(&models.Appreciation{}).Error; err != nil {
			return err
		}
		return tx.Create(&bands).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Impossible d'enregistrer les appreciations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": bands, "message": "Appreciations enregistrees."})
}
