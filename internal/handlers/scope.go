// gestion-multi-profs/internal/handlers/scope.go
package handlers

import (
	"log/slog"
	"strconv"

	"gorm.io/gorm"

	"github.com/alibelharet/gestion-multi-profs/internal/importer"
	"github.com/alibelharet/gestion-multi-profs/models"
)

// assignmentScope describes what a non-admin account may touch for one
// school year. An account with no assignment rows is unrestricted.
type assignmentScope struct {
	Restricted bool
	SubjectIDs map[uint]bool
	Classes    map[string]bool
}

func unrestrictedScope() assignmentScope {
	return assignmentScope{SubjectIDs: map[uint]bool{}, Classes: map[string]bool{}}
}

func userAssignmentScope(db *gorm.DB, userID uint, schoolYear string) assignmentScope {
	var rows []models.TeacherAssignment
	if err := db.Where("user_id = ? AND school_year = ?", userID, schoolYear).Find(&rows).Error; err != nil {
		slog.Warn("failed to load teacher assignments", "user_id", userID, "error", err)
		return unrestrictedScope()
	}
	scope := assignmentScope{
		Restricted: len(rows) > 0,
		SubjectIDs: make(map[uint]bool, len(rows)),
		Classes:    make(map[string]bool, len(rows)),
	}
	for _, row := range rows {
		scope.SubjectIDs[row.SubjectID] = true
		if row.ClassName != "" {
			scope.Classes[row.ClassName] = true
		}
	}
	return scope
}

// ensureSubjects returns the teacher's subjects, creating a default one
// for brand-new accounts so imports always have a target. Accounts with a
// locked default subject are pinned to that single subject.
func ensureSubjects(db *gorm.DB, userID uint) []models.Subject {
	var user models.User
	db.First(&user, userID)

	var subjects []models.Subject
	db.Where("user_id = ?", userID).Order("name").Find(&subjects)

	if len(subjects) == 0 {
		name := user.DefaultSubject
		if name == "" {
			name = "Sciences"
		}
		subject := models.Subject{UserID: userID, Name: name}
		if err := db.Create(&subject).Error; err == nil {
			subjects = []models.Subject{subject}
		}
	}

	if user.LockSubject && user.DefaultSubject != "" {
		for _, s := range subjects {
			if s.Name == user.DefaultSubject {
				return []models.Subject{s}
			}
		}
		subject := models.Subject{UserID: userID, Name: user.DefaultSubject}
		if err := db.Create(&subject).Error; err == nil {
			return []models.Subject{subject}
		}
	}
	return subjects
}

// selectSubjectID resolves a raw subject form value against the teacher's
// subjects, defaulting to the first one.
func selectSubjectID(subjects []models.Subject, raw string) uint {
	if len(subjects) == 0 {
		return 0
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err == nil {
		for _, s := range subjects {
			if s.ID == uint(id) {
				return s.ID
			}
		}
	}
	return subjects[0].ID
}

// applyOptions assembles the reconciler options for one import run.
func applyOptions(ownerID, subjectID uint, trimester int, schoolYear string, scope assignmentScope) importer.ApplyOptions {
	return importer.ApplyOptions{
		OwnerID:        ownerID,
		SubjectID:      subjectID,
		Trimester:      trimester,
		SchoolYear:     schoolYear,
		Restricted:     scope.Restricted,
		AllowedClasses: scope.Classes,
	}
}
