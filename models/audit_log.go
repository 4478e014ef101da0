// gestion-multi-profs/models/audit_log.go
package models

import "gorm.io/gorm"

// AuditLog records one business action (import applied, bulk save, ...).
type AuditLog struct {
	gorm.Model
	UserID    uint   `json:"userId" gorm:"not null;index"`
	Action    string `json:"action" gorm:"not null"`
	Details   string `json:"details"`
	SubjectID *uint  `json:"subjectId"`
}
