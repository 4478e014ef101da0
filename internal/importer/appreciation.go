// gestion-multi-profs/internal/importer/appreciation.go
package importer

import (
	"gorm.io/gorm"

	"github.com/alibelharet/gestion-multi-profs/models"
)

// defaultAppreciations are the seven bands seeded for owners that have
// not customized their scale. Messages are in Arabic because that is what
// goes on the printed bulletin.
var defaultAppreciations = []models.Appreciation{
	{MinVal: 0, MaxVal: 4.99, Message: "ضاعف المجهود"},
	{MinVal: 5, MaxVal: 9.99, Message: "لديك قدرات يمكنك العمل أكثر"},
	{MinVal: 10, MaxVal: 11.99, Message: "نتائج متوسطة"},
	{MinVal: 12, MaxVal: 13.99, Message: "نتائج حسنة"},
	{MinVal: 14, MaxVal: 15.99, Message: "نتائج جيدة"},
	{MinVal: 16, MaxVal: 17.99, Message: "جيد جدا"},
	{MinVal: 18, MaxVal: 20, Message: "ممتاز"},
}

// EnsureDefaultAppreciations seeds the default bands for an owner that has
// none. Idempotent.
func EnsureDefaultAppreciations(db *gorm.DB, ownerID uint) error {
	var count int64
	if err := db.Model(&models.Appreciation{}).Where("user_id = ?", ownerID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	bands := make([]models.Appreciation, len(defaultAppreciations))
	for i, b := range defaultAppreciations {
		b.UserID = ownerID
		bands[i] = b
	}
	return db.Create(&bands).Error
}

// AppreciationForAverage resolves the remark text for a computed average:
// ensure-defaults-then-query, bands scanned in ascending min order, first
// band containing the average wins, "" when none match.
func AppreciationForAverage(db *gorm.DB, ownerID uint, average float64) string {
	if err := EnsureDefaultAppreciations(db, ownerID); err != nil {
		return ""
	}
	var bands []models.Appreciation
	if err := db.Where("user_id = ?", ownerID).Order("min_val").Find(&bands).Error; err != nil {
		return ""
	}
	for _, band := range bands {
		if band.MinVal <= average && average <= band.MaxVal {
			return band.Message
		}
	}
	return ""
}
