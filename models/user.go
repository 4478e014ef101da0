// gestion-multi-profs/models/user.go
package models

import "gorm.io/gorm"

// User represents a teacher account. Every student, subject and grade
// record is owned by exactly one user.
type User struct {
	gorm.Model
	Username     string `json:"username" gorm:"unique;not null"`
	PasswordHash string `json:"-" gorm:"not null"`
	FullName     string `json:"fullName"`
	IsAdmin      bool   `json:"isAdmin" gorm:"default:false"`
	CanWrite     *bool  `json:"canWrite" gorm:"default:true"`

	// Optional default subject pinning for single-subject accounts.
	DefaultSubject string `json:"defaultSubject"`
	LockSubject    bool   `json:"lockSubject" gorm:"default:false"`
}
