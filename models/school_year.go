// gestion-multi-profs/models/school_year.go
package models

import "gorm.io/gorm"

// SchoolYear is a "2025/2026"-style label. Exactly one year is active at a
// time; non-admin accounts are always pinned to the active one.
type SchoolYear struct {
	gorm.Model
	Label    string `json:"label" gorm:"unique;not null"`
	IsActive bool   `json:"isActive" gorm:"default:false"`
}
