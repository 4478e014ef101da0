// gestion-multi-profs/models/appreciation.go
package models

import "gorm.io/gorm"

// Appreciation is one (min, max, message) band of a teacher's appreciation
// scale over [0, 20]. Bands are matched in ascending min order, first match
// wins. Seven default bands are seeded lazily for owners that have none.
type Appreciation struct {
	gorm.Model
	UserID  uint    `json:"userId" gorm:"not null;index"`
	MinVal  float64 `json:"minVal" gorm:"not null"`
	MaxVal  float64 `json:"maxVal" gorm:"not null"`
	Message string  `json:"message" gorm:"not null"`
}
