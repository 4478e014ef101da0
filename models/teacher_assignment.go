// gestion-multi-profs/models/teacher_assignment.go
package models

import "gorm.io/gorm"

// TeacherAssignment restricts a non-admin account to a (subject, class)
// pair for a given school year. An account with no assignments at all is
// unrestricted.
type TeacherAssignment struct {
	gorm.Model
	UserID     uint   `json:"userId" gorm:"not null;index"`
	SubjectID  uint   `json:"subjectId" gorm:"not null"`
	ClassName  string `json:"className" gorm:"not null"`
	SchoolYear string `json:"schoolYear" gorm:"not null"`
}
