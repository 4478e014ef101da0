// gestion-multi-profs/internal/importer/grades_test.go
package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanNote(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"14.5", 14.5},
		{"14,5", 14.5},
		{" 12 ", 12},
		{"", 0},
		{"nan", 0},
		{"NaN", 0},
		{"absent", 0},
		{"-3", 0},
		{"25", 20},
		{"20", 20},
		{"0", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CleanNote(tc.in), "input %q", tc.in)
	}
}

func TestCleanComponent(t *testing.T) {
	assert.Equal(t, 2.5, CleanComponent("2,5", 3))
	assert.Equal(t, 3.0, CleanComponent("5", 3))
	assert.Equal(t, 0.0, CleanComponent("", 6))
	assert.Equal(t, 2.0, CleanComponent("19", 2))
}

func TestComponentCap(t *testing.T) {
	assert.Equal(t, 3.0, ComponentCap(FieldParticipation))
	assert.Equal(t, 6.0, ComponentCap(FieldComportement))
	assert.Equal(t, 5.0, ComponentCap(FieldCahier))
	assert.Equal(t, 4.0, ComponentCap(FieldProjet))
	assert.Equal(t, 2.0, ComponentCap(FieldAssiduiteOutils))
	assert.Equal(t, 0.0, ComponentCap("devoir"))
}

func TestSplitActiviteComponents(t *testing.T) {
	full := SplitActiviteComponents(20)
	assert.Equal(t, Components{3, 6, 5, 4, 2}, full)

	zero := SplitActiviteComponents(0)
	assert.Equal(t, Components{}, zero)

	partial := SplitActiviteComponents(5)
	assert.Equal(t, Components{Participation: 3, Comportement: 2}, partial)

	clamped := SplitActiviteComponents(35)
	assert.Equal(t, Components{3, 6, 5, 4, 2}, clamped)

	negative := SplitActiviteComponents(-4)
	assert.Equal(t, Components{}, negative)
}

func TestSplitSumRoundTrip(t *testing.T) {
	// Summing the greedy split must restore the clamped total for every
	// representable mark on the 0.25 grid.
	for i := 0; i <= 80; i++ {
		total := float64(i) * 0.25
		sum := SumActiviteComponents(SplitActiviteComponents(total))
		assert.InDelta(t, total, sum, 0.01, "total %v", total)
	}
}

func TestSumActiviteComponents(t *testing.T) {
	sum := SumActiviteComponents(Components{1.5, 4, 2.25, 3, 0.5})
	assert.Equal(t, 11.25, sum)
}

func TestTrimesterAverage(t *testing.T) {
	// ((devoir + activité)/2 + compo*2) / 3
	assert.InDelta(t, 12.0, TrimesterAverage(12, 12, 12), 1e-9)
	assert.InDelta(t, 20.0, TrimesterAverage(20, 20, 20), 1e-9)
	assert.InDelta(t, 0.0, TrimesterAverage(0, 0, 0), 1e-9)
	assert.InDelta(t, ((14+10)/2.0+16*2)/3, TrimesterAverage(14, 10, 16), 1e-9)
}
