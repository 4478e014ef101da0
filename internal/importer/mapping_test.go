// gestion-multi-profs/internal/importer/mapping_test.go
package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultMapping(t *testing.T) {
	columns := []string{"Nom", "Prénom", "Classe", "04", "01", "09", "Remarques"}
	mapping := DefaultMapping(columns)

	assert.Equal(t, "Nom", mapping[FieldLastName])
	assert.Equal(t, "Prénom", mapping[FieldFirstName])
	assert.Equal(t, "Classe", mapping[FieldClasse])
	assert.Equal(t, "04", mapping[FieldDevoir])
	assert.Equal(t, "01", mapping[FieldActivite])
	assert.Equal(t, "09", mapping[FieldCompo])
	assert.Equal(t, "Remarques", mapping[FieldRemarques])
	assert.Equal(t, "", mapping[FieldFullName])
	assert.Equal(t, "", mapping[FieldParticipation])
}

func TestDefaultMappingFirstMatchWins(t *testing.T) {
	// Two columns normalize to the same token; the field binds to the
	// first one and the second stays free for later fields.
	mapping := DefaultMapping([]string{"Compo", "Composition"})
	assert.Equal(t, "Compo", mapping[FieldCompo])
}

func TestDefaultMappingFullName(t *testing.T) {
	mapping := DefaultMapping([]string{"Nom complet", "Niveau", "Devoir"})
	assert.Equal(t, "Nom complet", mapping[FieldFullName])
	assert.Equal(t, "Niveau", mapping[FieldClasse])
	assert.Equal(t, "Devoir", mapping[FieldDevoir])
}

func TestResolveColumn(t *testing.T) {
	columns := []string{"Nom Complet", "Devoir", "Compo"}

	assert.Equal(t, "Devoir", ResolveColumn(columns, "Devoir"))
	// Normalized match across differing case and spacing.
	assert.Equal(t, "Nom Complet", ResolveColumn(columns, "nom-complet"))
	assert.Equal(t, "", ResolveColumn(columns, "Projet"))
	assert.Equal(t, "", ResolveColumn(columns, ""))
}

func TestResolveMappingPerSheet(t *testing.T) {
	mapping := map[string]string{
		FieldFullName: "Nom complet",
		FieldDevoir:   "DEVOIR",
		FieldProjet:   "Projet",
	}
	resolved := ResolveMapping([]string{"Nom complet", "Devoir"}, mapping)

	assert.Equal(t, "Nom complet", resolved[FieldFullName])
	assert.Equal(t, "Devoir", resolved[FieldDevoir])
	assert.Equal(t, "", resolved[FieldProjet])
}
