// gestion-multi-profs/internal/handlers/school_year.go
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/alibelharet/gestion-multi-profs/config"
	"github.com/alibelharet/gestion-multi-profs/models"
)

// currentSchoolYearLabel derives the "2025/2026"-style label: the school
// year rolls over in September.
func currentSchoolYearLabel(now time.Time) string {
	if now.Month() >= time.September {
		return fmt.Sprintf("%d/%d", now.Year(), now.Year()+1)
	}
	return fmt.Sprintf("%d/%d", now.Year()-1, now.Year())
}

// ensureSchoolYears guarantees the current calendar-derived year exists
// and that exactly one year is active, and returns the active label.
func ensureSchoolYears(db *gorm.DB) string {
	label := currentSchoolYearLabel(time.Now())
	db.Where(models.SchoolYear{Label: label}).FirstOrCreate(&models.SchoolYear{Label: label})

	var active models.SchoolYear
	if err := db.Where("is_active = ?", true).Order("id").First(&active).Error; err == nil {
		return active.Label
	}

	// No active year yet: promote the most recent label.
	var latest models.SchoolYear
	if err := db.Order("label desc, id desc").First(&latest).Error; err != nil {
		return label
	}
	db.Model(&models.SchoolYear{}).Where("1 = 1").Update("is_active", false)
	db.Model(&latest).Update("is_active", true)
	return latest.Label
}

// resolveSchoolYear maps a requested label to a usable one. Unknown labels
// fall back to the active year, and non-admin accounts are always pinned
// to the active year.
func resolveSchoolYear(db *gorm.DB, requested string, admin bool) string {
	active := ensureSchoolYears(db)
	if requested == "" {
		return active
	}
	var year models.SchoolYear
	if err := db.Where("label = ?", requested).First(&year).Error; err != nil {
		return active
	}
	if admin {
		return year.Label
	}
	return active
}

func ListSchoolYearsHandler(c *gin.Context) {
	ensureSchoolYears(config.DB)
	var years []models.SchoolYear
	if err := config.DB.Order("label desc, id desc").Find(&years).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Impossible de lister les annees scolaires"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": years, "active": ensureSchoolYears(config.DB)})
}

// ActivateSchoolYearHandler switches the active year (admin only; the
// route group enforces it).
func ActivateSchoolYearHandler(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant invalide"})
		return
	}
	var year models.SchoolYear
	if err := config.DB.First(&year, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Annee scolaire introuvable"})
		return
	}
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.SchoolYear{}).Where("1 = 1").Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&year).Update("is_active", true).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Impossible d'activer cette annee"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Annee scolaire activee", "active": year.Label})
}
