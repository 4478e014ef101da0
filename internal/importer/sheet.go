// gestion-multi-profs/internal/importer/sheet.go
package importer

import (
	"fmt"
	"strings"
)

// headerScanLimit bounds the header search: real files bury the label row
// under title banners and merged cells, but never this deep.
const headerScanLimit = 30

// nameTokens are the normalized forms that identify a name column.
var nameTokens = map[string]bool{
	"nom":        true,
	"prenom":     true,
	"nomcomplet": true,
	"nomprenom":  true,
	"fullname":   true,
}

// nameMarkers are raw substrings searched in the joined row text, covering
// files whose label cells carry extra decoration ("Nom de l'élève").
var nameMarkers = []string{"Nom", "Prenom", "اللقب", "الاسم"}

// NamedSheet is one worksheet as raw rows, before any header handling.
type NamedSheet struct {
	Name string
	Rows [][]string
}

// Sheet is a worksheet normalized into a row-iterable table: a detected
// header row turned into unique column labels, empty rows dropped.
type Sheet struct {
	Name    string
	Columns []string

	rows  [][]string
	index map[string]int
}

// FindHeaderRow scans the first rows of a raw sheet for the row most
// likely to contain column labels. The boolean is false when nothing
// matched and the caller fell back to row 0; that is a normal outcome
// (the UI warns the user to double-check the mapping), not an error.
func FindHeaderRow(rows [][]string) (int, bool) {
	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}

	for i := 0; i < limit; i++ {
		joined := strings.Join(rows[i], " ")
		for _, marker := range nameMarkers {
			if strings.Contains(joined, marker) {
				return i, true
			}
		}

		var allNorm strings.Builder
		for _, cell := range rows[i] {
			n := NormalizeHeader(cell)
			if nameTokens[n] {
				return i, true
			}
			allNorm.WriteString(n)
		}
		if strings.Contains(allNorm.String(), "nomcomplet") {
			return i, true
		}
	}
	return 0, false
}

// PrepareSheet turns a raw worksheet into a Sheet: locate the header row,
// derive unique non-empty column labels from it, and keep only non-empty
// data rows below it. Returns nil when the sheet holds no usable data.
// The boolean reports header detection confidence (see FindHeaderRow).
func PrepareSheet(name string, rows [][]string) (*Sheet, bool) {
	if len(rows) == 0 {
		return nil, false
	}

	headerRow, detected := FindHeaderRow(rows)

	columns := uniqueColumns(rows[headerRow])
	if len(columns) == 0 {
		return nil, detected
	}

	var data [][]string
	for _, raw := range rows[headerRow+1:] {
		row := make([]string, len(columns))
		empty := true
		for i := range columns {
			if i < len(raw) {
				row[i] = strings.TrimSpace(raw[i])
				if row[i] != "" {
					empty = false
				}
			}
		}
		if !empty {
			data = append(data, row)
		}
	}
	if len(data) == 0 {
		return nil, detected
	}

	index := make(map[string]int, len(columns))
	for i, col := range columns {
		index[col] = i
	}
	return &Sheet{Name: name, Columns: columns, rows: data, index: index}, detected
}

// uniqueColumns renames blank and repeated header labels deterministically
// so column mapping stays unambiguous ("", "Note", "Note" -> "col",
// "Note", "Note_2").
func uniqueColumns(header []string) []string {
	seen := make(map[string]bool, len(header))
	columns := make([]string, 0, len(header))
	for _, cell := range header {
		label := strings.TrimSpace(cell)
		if label == "" {
			label = "col"
		}
		base := label
		for idx := 2; seen[label]; idx++ {
			label = fmt.Sprintf("%s_%d", base, idx)
		}
		seen[label] = true
		columns = append(columns, label)
	}
	return columns
}

// Len reports the number of data rows.
func (s *Sheet) Len() int { return len(s.rows) }

// Value returns the trimmed cell at (row, column label), or "" when the
// column is unmapped or absent from this sheet.
func (s *Sheet) Value(row int, column string) string {
	if column == "" {
		return ""
	}
	i, ok := s.index[column]
	if !ok || row < 0 || row >= len(s.rows) {
		return ""
	}
	return s.rows[row][i]
}

// SampleRows returns up to n leading data rows keyed by column label, for
// the mapping preview screen.
func (s *Sheet) SampleRows(n int) []map[string]string {
	if n > len(s.rows) {
		n = len(s.rows)
	}
	samples := make([]map[string]string, 0, n)
	for r := 0; r < n; r++ {
		current := make(map[string]string, len(s.Columns))
		for _, col := range s.Columns {
			current[col] = s.Value(r, col)
		}
		samples = append(samples, current)
	}
	return samples
}
