// gestion-multi-profs/internal/importer/reconciler.go
package importer

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alibelharet/gestion-multi-profs/models"
)

// ApplyOptions carries the import parameters confirmed on the mapping
// screen plus the caller's authorization scope.
type ApplyOptions struct {
	OwnerID    uint
	SubjectID  uint
	Trimester  int
	SchoolYear string

	// Restricted accounts may only import rows whose class is in
	// AllowedClasses; other rows are skipped, not rejected.
	Restricted     bool
	AllowedClasses map[string]bool
}

// Summary aggregates the per-row outcomes of one import run.
type Summary struct {
	Inserted      int `json:"inserted"`
	Updated       int `json:"updated"`
	SkippedSheets int `json:"skippedSheets"`
	SkippedRows   int `json:"skippedRows"`
}

// Total returns the number of rows that changed the database.
func (s Summary) Total() int { return s.Inserted + s.Updated }

// Message renders the user-facing French summary line.
func (s Summary) Message() string {
	return fmt.Sprintf(
		"Import termine: %d lignes (nouveaux %d, maj %d, onglets ignores %d, lignes ignorees %d)",
		s.Total(), s.Inserted, s.Updated, s.SkippedSheets, s.SkippedRows,
	)
}

// RowError marks a parse or validation failure on a single row. Rows that
// fail this way are counted as skipped and the import continues; anything
// else (a database failure, a programming bug) is logged loudly before
// being counted, so real defects still surface.
type RowError struct {
	Reason string
}

func (e *RowError) Error() string { return e.Reason }

type rowAction int

const (
	rowSkipped rowAction = iota
	rowInserted
	rowUpdated
)

// Reconciler merges parsed spreadsheet rows into students and grade
// records. Every row upsert is independently idempotent: re-running the
// same import converges instead of duplicating, which is also why no
// transaction wraps the whole run.
type Reconciler struct {
	DB *gorm.DB
}

// Apply runs the confirmed mapping over every worksheet, in workbook
// order. Spreadsheets from different schools vary wildly in layout, so
// every stage degrades gracefully: an unusable sheet or row is counted
// and skipped, never fatal to the import.
func (r *Reconciler) Apply(sheets []*NamedSheet, mapping map[string]string, opts ApplyOptions) Summary {
	var summary Summary

	// If the confirmed mapping names any explicit sub-component column,
	// components are parsed directly for the whole import; otherwise they
	// are derived from the legacy aggregate activité column.
	useComponents := false
	for _, key := range ComponentFields {
		if mapping[key] != "" {
			useComponents = true
			break
		}
	}

	for _, raw := range sheets {
		sheet, _ := PrepareSheet(raw.Name, raw.Rows)
		if sheet == nil {
			summary.SkippedSheets++
			continue
		}

		resolved := ResolveMapping(sheet.Columns, mapping)
		if resolved[FieldFullName] == "" && resolved[FieldLastName] == "" && resolved[FieldFirstName] == "" {
			summary.SkippedSheets++
			continue
		}

		for row := 0; row < sheet.Len(); row++ {
			action, err := r.processRow(sheet, row, resolved, useComponents, opts)
			if err != nil {
				if _, ok := err.(*RowError); !ok {
					slog.Warn("import row failed", "sheet", sheet.Name, "row", row, "error", err)
				}
				summary.SkippedRows++
				continue
			}
			switch action {
			case rowInserted:
				summary.Inserted++
			case rowUpdated:
				summary.Updated++
			default:
				summary.SkippedRows++
			}
		}
	}
	return summary
}

func (r *Reconciler) processRow(sheet *Sheet, row int, resolved map[string]string, useComponents bool, opts ApplyOptions) (rowAction, error) {
	full := sheet.Value(row, resolved[FieldFullName])
	if full == "" {
		last := sheet.Value(row, resolved[FieldLastName])
		first := sheet.Value(row, resolved[FieldFirstName])
		full = strings.TrimSpace(last + " " + first)
	}
	if full == "" {
		return rowSkipped, &RowError{Reason: "ligne sans nom"}
	}

	niveau := sheet.Value(row, resolved[FieldClasse])
	if niveau == "" {
		niveau = strings.TrimSpace(sheet.Name)
	}
	if niveau == "" {
		niveau = "Global"
	}
	if opts.Restricted && !opts.AllowedClasses[niveau] {
		return rowSkipped, &RowError{Reason: "classe hors affectation"}
	}

	phone := sheet.Value(row, resolved[FieldPhone])
	email := sheet.Value(row, resolved[FieldEmail])

	devoir := CleanNote(sheet.Value(row, resolved[FieldDevoir]))
	compo := CleanNote(sheet.Value(row, resolved[FieldCompo]))

	var comps Components
	if useComponents {
		comps = Components{
			Participation:   CleanComponent(sheet.Value(row, resolved[FieldParticipation]), 3),
			Comportement:    CleanComponent(sheet.Value(row, resolved[FieldComportement]), 6),
			Cahier:          CleanComponent(sheet.Value(row, resolved[FieldCahier]), 5),
			Projet:          CleanComponent(sheet.Value(row, resolved[FieldProjet]), 4),
			AssiduiteOutils: CleanComponent(sheet.Value(row, resolved[FieldAssiduiteOutils]), 2),
		}
	} else {
		comps = SplitActiviteComponents(CleanNote(sheet.Value(row, resolved[FieldActivite])))
	}
	activite := SumActiviteComponents(comps)

	average := TrimesterAverage(devoir, activite, compo)
	remark := AppreciationForAverage(r.DB, opts.OwnerID, average)
	if custom := sheet.Value(row, resolved[FieldRemarques]); custom != "" {
		remark = custom
	}

	var student models.Student
	err := r.DB.Where(
		"user_id = ? AND full_name = ? AND niveau = ? AND school_year = ?",
		opts.OwnerID, full, niveau, opts.SchoolYear,
	).First(&student).Error

	switch {
	case err == nil:
		if err := r.upsertContact(&student, phone, email); err != nil {
			return rowSkipped, err
		}
		if err := r.UpsertGrade(student.ID, comps, activite, devoir, compo, remark, opts); err != nil {
			return rowSkipped, err
		}
		return rowUpdated, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		student = models.Student{
			UserID:      opts.OwnerID,
			SchoolYear:  opts.SchoolYear,
			FullName:    full,
			Niveau:      niveau,
			ParentPhone: phone,
			ParentEmail: email,
		}
		student.SeedLegacyMarks(opts.Trimester, devoir, activite, compo, remark)
		if err := r.DB.Create(&student).Error; err != nil {
			return rowSkipped, err
		}
		if err := r.UpsertGrade(student.ID, comps, activite, devoir, compo, remark, opts); err != nil {
			return rowSkipped, err
		}
		return rowInserted, nil

	default:
		return rowSkipped, err
	}
}

// upsertContact keeps any existing contact value when the imported one is
// blank (COALESCE semantics).
func (r *Reconciler) upsertContact(student *models.Student, phone, email string) error {
	updates := map[string]interface{}{}
	if phone != "" {
		updates["parent_phone"] = phone
	}
	if email != "" {
		updates["parent_email"] = email
	}
	if len(updates) == 0 {
		return nil
	}
	return r.DB.Model(student).Updates(updates).Error
}

// UpsertGrade inserts or updates the grade record keyed by (owner,
// student, subject, trimester).
func (r *Reconciler) UpsertGrade(studentID uint, comps Components, activite, devoir, compo float64, remark string, opts ApplyOptions) error {
	record := models.GradeRecord{
		UserID:          opts.OwnerID,
		StudentID:       studentID,
		SubjectID:       opts.SubjectID,
		Trimester:       opts.Trimester,
		Participation:   comps.Participation,
		Comportement:    comps.Comportement,
		Cahier:          comps.Cahier,
		Projet:          comps.Projet,
		AssiduiteOutils: comps.AssiduiteOutils,
		Activite:        activite,
		Devoir:          devoir,
		Compo:           compo,
		Remarques:       remark,
	}
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"}, {Name: "student_id"}, {Name: "subject_id"}, {Name: "trimester"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"participation", "comportement", "cahier", "projet", "assiduite_outils",
			"activite", "devoir", "compo", "remarques",
		}),
	}).Create(&record).Error
}
