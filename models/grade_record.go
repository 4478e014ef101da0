// gestion-multi-profs/models/grade_record.go
package models

import "gorm.io/gorm"

// GradeRecord holds one trimester of marks for a (student, subject) pair.
// It is the upsert target of the Excel import: the composite key below is
// what ON CONFLICT resolves against.
type GradeRecord struct {
	gorm.Model
	UserID    uint `json:"userId" gorm:"not null;uniqueIndex:idx_notes_owner_student_subject_trim"`
	StudentID uint `json:"studentId" gorm:"not null;uniqueIndex:idx_notes_owner_student_subject_trim"`
	SubjectID uint `json:"subjectId" gorm:"not null;uniqueIndex:idx_notes_owner_student_subject_trim"`
	Trimester int  `json:"trimester" gorm:"not null;uniqueIndex:idx_notes_owner_student_subject_trim"`

	// The five weighted sub-components of the "activité" mark.
	Participation   float64 `json:"participation"`   // /3
	Comportement    float64 `json:"comportement"`    // /6
	Cahier          float64 `json:"cahier"`          // /5
	Projet          float64 `json:"projet"`          // /4
	AssiduiteOutils float64 `json:"assiduiteOutils"` // /2

	Activite  float64 `json:"activite"` // recomputed sum of the five components
	Devoir    float64 `json:"devoir"`
	Compo     float64 `json:"compo"`
	Remarques string  `json:"remarques"`

	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Subject *Subject `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
}
