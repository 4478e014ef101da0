// gestion-multi-profs/models/subject.go
package models

import "gorm.io/gorm"

// Subject represents a taught subject, scoped per owning teacher.
type Subject struct {
	gorm.Model
	UserID uint   `json:"userId" gorm:"not null;uniqueIndex:idx_subjects_owner_name"`
	Name   string `json:"name" gorm:"not null;uniqueIndex:idx_subjects_owner_name"`
}
