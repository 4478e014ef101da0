// gestion-multi-profs/models/student.go
package models

import "gorm.io/gorm"

// Student represents one pupil inside a teacher's gradebook. A student is
// identified by (owner, school year, full name, class), which is also the
// dedup key used by the Excel import.
type Student struct {
	gorm.Model
	UserID     uint   `json:"userId" gorm:"not null;uniqueIndex:idx_students_owner_year_name_class"`
	SchoolYear string `json:"schoolYear" gorm:"not null;uniqueIndex:idx_students_owner_year_name_class"`
	FullName   string `json:"fullName" gorm:"not null;uniqueIndex:idx_students_owner_year_name_class"`
	Niveau     string `json:"niveau" gorm:"not null;uniqueIndex:idx_students_owner_year_name_class"`

	ParentPhone string `json:"parentPhone"`
	ParentEmail string `json:"parentEmail"`

	// Legacy per-trimester columns. Grade records are the source of truth;
	// these are still seeded on insert so exports built before the notes
	// table keep working against old databases.
	DevoirT1    float64 `json:"devoirT1"`
	ActiviteT1  float64 `json:"activiteT1"`
	CompoT1     float64 `json:"compoT1"`
	RemarquesT1 string  `json:"remarquesT1"`

	DevoirT2    float64 `json:"devoirT2"`
	ActiviteT2  float64 `json:"activiteT2"`
	CompoT2     float64 `json:"compoT2"`
	RemarquesT2 string  `json:"remarquesT2"`

	DevoirT3    float64 `json:"devoirT3"`
	ActiviteT3  float64 `json:"activiteT3"`
	CompoT3     float64 `json:"compoT3"`
	RemarquesT3 string  `json:"remarquesT3"`
}

// SeedLegacyMarks fills the legacy columns of one trimester on a freshly
// imported student. Unknown trimester values are ignored.
func (s *Student) SeedLegacyMarks(trimester int, devoir, activite, compo float64, remarques string) {
	switch trimester {
	case 1:
		s.DevoirT1, s.ActiviteT1, s.CompoT1, s.RemarquesT1 = devoir, activite, compo, remarques
	case 2:
		s.DevoirT2, s.ActiviteT2, s.CompoT2, s.RemarquesT2 = devoir, activite, compo, remarques
	case 3:
		s.DevoirT3, s.ActiviteT3, s.CompoT3, s.RemarquesT3 = devoir, activite, compo, remarques
	}
}
