package exposure

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/************************************************************************************************
** Option tables
************************************************************************************************/

func TestTablesAreStrictlyMonotonic(t *testing.T) {
	for i := 1; i < len(Apertures); i++ {
		assert.Less(t, Apertures[i-1], Apertures[i], "aperture %d", i)
	}
	for _, table := range [][]string{ShutterSpeeds, FullStopShutterSpeeds} {
		for i := 1; i < len(table); i++ {
			assert.Less(t, ShutterLabelToSeconds(table[i-1]), ShutterLabelToSeconds(table[i]), "shutter %s", table[i])
		}
	}
	for i := 1; i < len(ISOs); i++ {
		assert.Less(t, ISOs[i-1], ISOs[i], "iso %d", i)
	}
}

func TestFullStopIsSubsetOfShutterSpeeds(t *testing.T) {
	for _, label := range FullStopShutterSpeeds {
		assert.True(t, slices.Contains(ShutterSpeeds, label), label)
	}
}

func TestSuggestionAperturesAreInTable(t *testing.T) {
	for _, f := range SuggestionApertures {
		assert.True(t, slices.Contains(Apertures, f), "f/%v", f)
	}
}

func TestTablesValidate(t *testing.T) {
	require.NoError(t, DefaultTables().Validate())

	tables := DefaultTables()
	tables.ISOs = nil
	assert.ErrorIs(t, tables.Validate(), ErrEmptyTable)

	tables = DefaultTables()
	tables.FullStopShutterSpeeds = []string{}
	assert.ErrorIs(t, tables.Validate(), ErrEmptyTable)
}

func TestDefaultTablesAreCopies(t *testing.T) {
	tables := DefaultTables()
	tables.Apertures[0] = 99

	assert.Equal(t, 1.0, Apertures[0])
}

/************************************************************************************************
** Label conversion
************************************************************************************************/

func TestShutterLabelToSeconds(t *testing.T) {
	tests := []struct {
		label string
		want  float64
	}{
		{"1/125", 0.008},
		{"1/8000", 1.0 / 8000},
		{"2", 2},
		{"0.3", 0.3},
		{"2s", 2},
		{`15"`, 15},
		{" 1/60 ", 1.0 / 60},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.InDelta(t, tt.want, ShutterLabelToSeconds(tt.label), 1e-12)
		})
	}

	assert.True(t, math.IsInf(ShutterLabelToSeconds("Auto"), 1))
	assert.True(t, math.IsInf(ShutterLabelToSeconds("auto"), 1))
	for _, malformed := range []string{"", "fast", "1/0", "1/x", "a/125"} {
		assert.True(t, math.IsNaN(ShutterLabelToSeconds(malformed)), malformed)
	}
}

func TestSecondsToLabel(t *testing.T) {
	assert.Equal(t, "1/61", SecondsToLabel(0.0163))
	assert.Equal(t, "1/1000", SecondsToLabel(0.001))
	assert.Equal(t, "0.5", SecondsToLabel(0.5))
	assert.Equal(t, "2", SecondsToLabel(2))
	assert.Equal(t, "Auto", SecondsToLabel(math.Inf(1)))
	assert.Equal(t, "?", SecondsToLabel(math.NaN()))
}

func TestParseAperture(t *testing.T) {
	tests := []struct {
		label  string
		want   float64
		wantOK bool
	}{
		{"2.8", 2.8, true},
		{"f/2.8", 2.8, true},
		{"F/11", 11, true},
		{"f8", 8, true},
		{"ƒ/1.4", 1.4, true},
		{"", 0, false},
		{"f/", 0, false},
		{"-2", 0, false},
		{"wide", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := ParseAperture(tt.label)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

/************************************************************************************************
** Tie-break bias: a near-tie resolves toward more exposure
************************************************************************************************/

func TestFindClosestApertureTieBreak(t *testing.T) {
	tests := []struct {
		name   string
		target float64
		want   float64
	}{
		{name: "equidistant prefers the wider opening", target: 2.1, want: 2},
		{name: "equidistant between 5.6 and 6.3", target: 5.95, want: 5.6},
		{name: "near-tie within 15 percent prefers wider", target: 2.105, want: 2},
		{name: "clear winner is kept", target: 2.15, want: 2.2},
		{name: "exact entry", target: 8, want: 8},
		{name: "below the table", target: 0.5, want: 1},
		{name: "above the table", target: 45, want: 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindClosestAperture(Apertures, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindClosestShutterTieBreak(t *testing.T) {
	tests := []struct {
		name   string
		table  []string
		target float64
		want   string
	}{
		{name: "equidistant prefers the longer duration", table: ShutterSpeeds, target: (1.0/60 + 1.0/50) / 2, want: "1/50"},
		{name: "full-stop equidistant prefers longer", table: FullStopShutterSpeeds, target: (1.0/30 + 1.0/60) / 2, want: "1/30"},
		{name: "clear winner is kept", table: FullStopShutterSpeeds, target: 0.0019141, want: "1/500"},
		{name: "restricted table", table: FullStopShutterSpeeds, target: 0.01, want: "1/125"},
		{name: "Auto snaps to the longest", table: ShutterSpeeds, target: math.Inf(1), want: "30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindClosestShutter(tt.table, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindClosestISOTieBreak(t *testing.T) {
	got, err := FindClosestISO(ISOs, 112.5)
	require.NoError(t, err)
	assert.Equal(t, 125, got)

	got, err = FindClosestISO(ISOs, 420)
	require.NoError(t, err)
	assert.Equal(t, 400, got)
}

func TestNearestShutterIsUnbiased(t *testing.T) {
	// 0.0183 is slightly closer to 1/60 than to 1/50, well inside the near-tie band.
	got, err := NearestShutter(ShutterSpeeds, 0.0183)
	require.NoError(t, err)
	assert.Equal(t, "1/60", got)

	biased, err := FindClosestShutter(ShutterSpeeds, 0.0183)
	require.NoError(t, err)
	assert.Equal(t, "1/50", biased)
}

func TestFindClosestErrors(t *testing.T) {
	_, err := FindClosestAperture(nil, 2.8)
	assert.ErrorIs(t, err, ErrEmptyTable)

	_, err = FindClosestShutter(ShutterSpeeds, math.NaN())
	assert.ErrorIs(t, err, ErrInvalidTarget)

	_, err = FindClosestShutter([]string{"bad", "worse"}, 0.01)
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

/************************************************************************************************
** Normalizing a table entry is the identity
************************************************************************************************/

func TestNormalizationIsIdempotent(t *testing.T) {
	for _, f := range Apertures {
		got, err := FindClosestAperture(Apertures, f)
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	for _, label := range ShutterSpeeds {
		got, err := FindClosestShutter(ShutterSpeeds, ShutterLabelToSeconds(label))
		require.NoError(t, err)
		assert.Equal(t, label, got)
	}
	for _, label := range FullStopShutterSpeeds {
		got, err := FindClosestShutter(FullStopShutterSpeeds, ShutterLabelToSeconds(label))
		require.NoError(t, err)
		assert.Equal(t, label, got)
	}
	for _, iso := range ISOs {
		got, err := FindClosestISO(ISOs, float64(iso))
		require.NoError(t, err)
		assert.Equal(t, iso, got)
	}
}

func TestNormalizeRawInput(t *testing.T) {
	tables := DefaultTables()

	tests := []struct {
		name         string
		aperture     string
		shutter      string
		fullStopOnly bool
		iso          string
		wantAperture float64
		wantShutter  string
		wantISO      int
	}{
		{name: "valid entries", aperture: "5.6", shutter: "1/250", iso: "400", wantAperture: 5.6, wantShutter: "1/250", wantISO: 400},
		{name: "off-table values snap", aperture: "f/2.9", shutter: "0.0041", iso: "420", wantAperture: 2.8, wantShutter: "1/250", wantISO: 400},
		{name: "malformed input falls back to defaults", aperture: "wide", shutter: "fast", iso: "high", wantAperture: 2.8, wantShutter: "1/125", wantISO: 100},
		{name: "Auto shutter falls back to default", aperture: "", shutter: "Auto", iso: "0", wantAperture: 2.8, wantShutter: "1/125", wantISO: 100},
		{name: "full-stop table restricts the shutter", aperture: "8", shutter: "1/100", fullStopOnly: true, iso: "100", wantAperture: 8, wantShutter: "1/125", wantISO: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aperture, err := tables.NormalizeAperture(tt.aperture)
			require.NoError(t, err)
			shutter, err := tables.NormalizeShutter(tt.shutter, tt.fullStopOnly)
			require.NoError(t, err)
			iso, err := tables.NormalizeISO(tt.iso)
			require.NoError(t, err)

			assert.Equal(t, tt.wantAperture, aperture)
			assert.Equal(t, tt.wantShutter, shutter)
			assert.Equal(t, tt.wantISO, iso)
		})
	}
}
