// gestion-multi-profs/internal/importer/grades.go
package importer

import (
	"math"
	"strconv"
	"strings"
)

// Components holds the five weighted sub-components of the activité mark.
type Components struct {
	Participation   float64 `json:"participation"`
	Comportement    float64 `json:"comportement"`
	Cahier          float64 `json:"cahier"`
	Projet          float64 `json:"projet"`
	AssiduiteOutils float64 `json:"assiduiteOutils"`
}

// componentCaps are the per-component maxima, in the fixed fill order used
// by SplitActiviteComponents: participation /3, comportement /6, cahier /5,
// projet /4, absences-outils /2. They sum to 20.
var componentCaps = [5]float64{3.0, 6.0, 5.0, 4.0, 2.0}

// ComponentCap returns the maximum for one component field key, 0 for an
// unknown key.
func ComponentCap(field string) float64 {
	for i, key := range ComponentFields {
		if key == field {
			return componentCaps[i]
		}
	}
	return 0
}

// CleanNote parses a locale-tolerant mark out of a raw cell value: both
// comma and dot decimal separators are accepted, blank / unparseable / NaN
// input yields 0, and the result is clamped to [0, 20]. It never fails;
// dirty cells become a zero mark, not an error.
func CleanNote(value string) float64 {
	s := strings.TrimSpace(strings.ReplaceAll(value, ",", "."))
	if s == "" || strings.EqualFold(s, "nan") {
		return 0.0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) {
		return 0.0
	}
	if n < 0 {
		return 0.0
	}
	if n > 20 {
		return 20.0
	}
	return n
}

// CleanComponent is CleanNote clamped to the component's own cap, rounded
// to 2 decimals.
func CleanComponent(value string, cap float64) float64 {
	score := CleanNote(value)
	if score > cap {
		score = cap
	}
	return round2(score)
}

// SplitActiviteComponents projects a legacy aggregate activité mark onto
// the five capped components by greedy fill in cap order: participation is
// filled first up to /3, the remainder spills into comportement up to /6,
// and so on. This is a lossy backward-compatibility projection for files
// that only carry the aggregate; it is not an inverse of any recorded
// breakdown. The only guarantee is that summing the result restores the
// clamped total.
func SplitActiviteComponents(total float64) Components {
	remaining := clampNote(total)
	var values [5]float64
	for i, cap := range componentCaps {
		take := math.Min(remaining, cap)
		values[i] = round2(take)
		remaining = round2(math.Max(0.0, remaining-take))
	}
	return Components{
		Participation:   values[0],
		Comportement:    values[1],
		Cahier:          values[2],
		Projet:          values[3],
		AssiduiteOutils: values[4],
	}
}

// SumActiviteComponents recomputes the aggregate activité mark from
// explicit components, rounded to 2 decimals.
func SumActiviteComponents(c Components) float64 {
	return round2(c.Participation + c.Comportement + c.Cahier + c.Projet + c.AssiduiteOutils)
}

// TrimesterAverage computes the official weighted trimester average:
// ((devoir + activité)/2 + compo×2) / 3.
func TrimesterAverage(devoir, activite, compo float64) float64 {
	return ((devoir+activite)/2 + compo*2) / 3
}

func clampNote(n float64) float64 {
	if math.IsNaN(n) || n < 0 {
		return 0.0
	}
	if n > 20 {
		return 20.0
	}
	return n
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
