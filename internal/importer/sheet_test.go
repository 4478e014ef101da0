// gestion-multi-profs/internal/importer/sheet_test.go
package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindHeaderRowSkipsBanner(t *testing.T) {
	rows := [][]string{
		{"Lycée El Idrissi", "", ""},
		{"Trimestre 1", "", ""},
		{"Nom", "Prénom", "Devoir"},
		{"Benali", "Samir", "14"},
	}
	idx, detected := FindHeaderRow(rows)
	assert.Equal(t, 2, idx)
	assert.True(t, detected)
}

func TestFindHeaderRowArabicLabels(t *testing.T) {
	rows := [][]string{
		{"ثانوية الإدريسي"},
		{"اللقب", "الاسم", "الفرض"},
		{"بن علي", "سمير", "12"},
	}
	idx, detected := FindHeaderRow(rows)
	assert.Equal(t, 1, idx)
	assert.True(t, detected)
}

func TestFindHeaderRowNoConfidence(t *testing.T) {
	rows := [][]string{
		{"1", "14.5", "12"},
		{"2", "10", "9.5"},
	}
	idx, detected := FindHeaderRow(rows)
	assert.Equal(t, 0, idx)
	assert.False(t, detected)
}

func TestPrepareSheet(t *testing.T) {
	rows := [][]string{
		{"Classement T1"},
		{"Nom complet", "Classe", "Devoir", "Compo"},
		{"Benali Samir", "3AS1", "14", "12,5"},
		{"", "", "", ""},
		{"Cherif Lina", "3AS1", "16", "15"},
	}
	sheet, detected := PrepareSheet("3AS1", rows)
	require.NotNil(t, sheet)
	assert.True(t, detected)
	assert.Equal(t, []string{"Nom complet", "Classe", "Devoir", "Compo"}, sheet.Columns)
	assert.Equal(t, 2, sheet.Len())
	assert.Equal(t, "Cherif Lina", sheet.Value(1, "Nom complet"))
	assert.Equal(t, "", sheet.Value(0, "Absente"))
	assert.Equal(t, "", sheet.Value(0, ""))
}

func TestPrepareSheetEmpty(t *testing.T) {
	sheet, _ := PrepareSheet("vide", nil)
	assert.Nil(t, sheet)

	sheet, _ = PrepareSheet("entete seule", [][]string{{"Nom", "Devoir"}})
	assert.Nil(t, sheet)
}

func TestUniqueColumns(t *testing.T) {
	got := uniqueColumns([]string{"", "Note", "Note", " Note "})
	assert.Equal(t, []string{"col", "Note", "Note_2", "Note_3"}, got)
}

func TestSampleRows(t *testing.T) {
	rows := [][]string{
		{"Nom", "Devoir"},
		{"Benali", "14"},
		{"Cherif", "16"},
		{"Dahmani", "11"},
	}
	sheet, _ := PrepareSheet("3AS1", rows)
	require.NotNil(t, sheet)

	samples := sheet.SampleRows(2)
	require.Len(t, samples, 2)
	assert.Equal(t, "Benali", samples[0]["Nom"])
	assert.Equal(t, "16", samples[1]["Devoir"])

	assert.Len(t, sheet.SampleRows(10), 3)
}
