// gestion-multi-profs/internal/importer/mapping.go
package importer

// The fields a column can be mapped to. Name fields come in two flavours:
// either a single full-name column, or separate last/first name columns
// that get concatenated. Everything else is optional.
const (
	FieldFullName        = "full_name"
	FieldLastName        = "last_name"
	FieldFirstName       = "first_name"
	FieldClasse          = "classe"
	FieldDevoir          = "devoir"
	FieldActivite        = "activite"
	FieldCompo           = "compo"
	FieldParticipation   = "participation"
	FieldComportement    = "comportement"
	FieldCahier          = "cahier"
	FieldProjet          = "projet"
	FieldAssiduiteOutils = "assiduite_outils"
	FieldRemarques       = "remarques"
	FieldPhone           = "phone"
	FieldEmail           = "email"
)

// MappingField pairs a mapping key with the label shown on the mapping
// confirmation screen.
type MappingField struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// MappingFields lists the recognized fields in display order.
var MappingFields = []MappingField{
	{FieldFullName, "Nom complet"},
	{FieldLastName, "Nom"},
	{FieldFirstName, "Prenom"},
	{FieldClasse, "Classe"},
	{FieldDevoir, "Devoir (/20)"},
	{FieldActivite, "Activite (/20)"},
	{FieldCompo, "Compo (/20)"},
	{FieldParticipation, "Participation (/3)"},
	{FieldComportement, "Comportement (/6)"},
	{FieldCahier, "Cahier (/5)"},
	{FieldProjet, "Projet (/4)"},
	{FieldAssiduiteOutils, "Absences/Outils (/2)"},
	{FieldRemarques, "Remarques"},
	{FieldPhone, "Telephone parent"},
	{FieldEmail, "Email parent"},
}

// ComponentFields are the five weighted sub-components of the activité
// mark, in cap order.
var ComponentFields = []string{
	FieldParticipation,
	FieldComportement,
	FieldCahier,
	FieldProjet,
	FieldAssiduiteOutils,
}

// fieldSynonyms maps each field to the normalized header tokens that
// identify it. French, English and transliterated-Arabic terms live side
// by side because real files mix all three; the bare digit codes ("01",
// "04", "09") are the column numbers of the official bulletin template.
// New languages or spellings are added here, nowhere else.
var fieldSynonyms = map[string][]string{
	FieldFullName:        {"nomcomplet", "nomprenom", "fullname"},
	FieldLastName:        {"nom", "lastname", "surname"},
	FieldFirstName:       {"prenom", "firstname"},
	FieldClasse:          {"classe", "niveau", "class"},
	FieldDevoir:          {"devoir", "dev", "homework", "04", "4"},
	FieldActivite:        {"activite", "act", "activity", "01", "1"},
	FieldCompo:           {"compo", "composition", "exam", "test", "09", "9"},
	FieldParticipation:   {"participation", "moucharaka", "moucharakah"},
	FieldComportement:    {"comportement", "souk", "conduite", "behavior"},
	FieldCahier:          {"cahier", "korras", "kras", "copybook"},
	FieldProjet:          {"projet", "project"},
	FieldAssiduiteOutils: {"absencesoutils", "assiduiteoutils", "absoutils", "outils"},
	FieldRemarques:       {"remarques", "appreciation", "rem", "obs", "commentaire"},
	FieldPhone:           {"telephone", "tel", "phone", "mobile"},
	FieldEmail:           {"email", "mail"},
}

// DefaultMapping proposes a field -> column assignment for the given
// header labels. For every column the fields are tried in display order
// and the first still-unassigned field whose synonym set contains the
// normalized label wins; a field nothing matched stays "".
func DefaultMapping(columns []string) map[string]string {
	mapping := make(map[string]string, len(MappingFields))
	for _, f := range MappingFields {
		mapping[f.Key] = ""
	}

	for _, col := range columns {
		norm := NormalizeHeader(col)
		if norm == "" {
			continue
		}
		for _, f := range MappingFields {
			if mapping[f.Key] != "" {
				continue
			}
			if containsToken(fieldSynonyms[f.Key], norm) {
				mapping[f.Key] = col
				break
			}
		}
	}
	return mapping
}

// ResolveColumn matches a user-chosen column label against the current
// sheet's actual columns: exact match first, then normalized match, else
// "" (the field is treated as absent for this sheet). Multi-sheet
// workbooks rarely share identical casing or order across tabs, so
// resolution has to be per-sheet and tolerant.
func ResolveColumn(columns []string, selected string) string {
	if selected == "" {
		return ""
	}
	for _, col := range columns {
		if col == selected {
			return col
		}
	}
	target := NormalizeHeader(selected)
	for _, col := range columns {
		if NormalizeHeader(col) == target {
			return col
		}
	}
	return ""
}

// ResolveMapping resolves every mapped field against one sheet's columns.
func ResolveMapping(columns []string, mapping map[string]string) map[string]string {
	resolved := make(map[string]string, len(mapping))
	for key, selected := range mapping {
		resolved[key] = ResolveColumn(columns, selected)
	}
	return resolved
}

func containsToken(tokens []string, norm string) bool {
	for _, t := range tokens {
		if t == norm {
			return true
		}
	}
	return false
}
