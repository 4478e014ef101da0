// gestion-multi-profs/internal/importer/excel.go
package importer

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadWorkbook loads every worksheet of a staged spreadsheet as raw rows,
// in workbook order. An unreadable or corrupt file is the one file-level
// failure of the import pipeline; it surfaces here, once, before any
// state is created.
func ReadWorkbook(path string) ([]*NamedSheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return readSheets(f)
}

func readSheets(f *excelize.File) ([]*NamedSheet, error) {
	names := f.GetSheetList()
	sheets := make([]*NamedSheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		sheets = append(sheets, &NamedSheet{Name: name, Rows: rows})
	}
	return sheets, nil
}
