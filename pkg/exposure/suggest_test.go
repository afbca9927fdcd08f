package exposure

import (
	"math"
	"testing"

	"github.com/majorfi/filmroll/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggest(t *testing.T) {
	exif := utils.TExifData{FNumber: 2, ExposureTime: 1.0 / 250, ISO: 100}

	set, err := Suggest(exif, 400, DefaultTables())
	require.NoError(t, err)

	assert.InDelta(t, math.Log2(1000), set.EV100, 1e-9)
	assert.InDelta(t, math.Log2(1000)+2, set.TargetEV, 1e-9)
	assert.Equal(t, 400, set.FilmISO)
	require.Len(t, set.Suggestions, len(SuggestionApertures))

	for i, s := range set.Suggestions {
		assert.Equal(t, SuggestionApertures[i], s.Aperture, "candidate order")
		assert.Equal(t, FormatAperture(s.Aperture), s.ApertureLabel)
		assert.InDelta(t, math.Log2(s.ShutterSeconds/s.TheoreticalSeconds), s.DeviationStops, 1e-12)
	}

	tests := []struct {
		aperture        string
		wantShutter     string
		wantTheoretical float64
		wantDeviation   float64
	}{
		{aperture: "1.4", wantShutter: "1/2000", wantTheoretical: 0.00049, wantDeviation: math.Log2(0.0005 / 0.00049)},
		{aperture: "2", wantShutter: "1/1000", wantTheoretical: 0.001, wantDeviation: 0},
		{aperture: "8", wantShutter: "1/60", wantTheoretical: 0.016, wantDeviation: math.Log2((1.0 / 60) / 0.016)},
		{aperture: "22", wantShutter: "1/8", wantTheoretical: 0.121, wantDeviation: math.Log2(0.125 / 0.121)},
	}
	for _, tt := range tests {
		t.Run("f/"+tt.aperture, func(t *testing.T) {
			var got *Suggestion
			for i := range set.Suggestions {
				if set.Suggestions[i].ApertureLabel == tt.aperture {
					got = &set.Suggestions[i]
				}
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantShutter, got.ShutterLabel)
			assert.InDelta(t, tt.wantTheoretical, got.TheoreticalSeconds, 1e-9)
			assert.InDelta(t, tt.wantDeviation, got.DeviationStops, 1e-6)
		})
	}

	best, ok := set.Closest()
	require.True(t, ok)
	// f/2 at 1/1000 and f/4 at 1/250 both land exactly on the dial.
	assert.Contains(t, []string{"2", "4"}, best.ApertureLabel)
	assert.InDelta(t, 0, best.DeviationStops, 1e-9)
}

func TestSuggestSameISOReproducesTheShot(t *testing.T) {
	exif := utils.TExifData{FNumber: 5.6, ExposureTime: 1.0 / 125, ISO: 200}

	set, err := Suggest(exif, 200, DefaultTables())
	require.NoError(t, err)

	assert.InDelta(t, set.EV100+1, set.TargetEV, 1e-9)
	for _, s := range set.Suggestions {
		if s.ApertureLabel == "5.6" {
			assert.Equal(t, "1/125", s.ShutterLabel)
			assert.InDelta(t, 0.008, s.TheoreticalSeconds, 1e-12)
		}
	}
}

func TestSuggestMissingExifData(t *testing.T) {
	tests := []struct {
		name string
		exif utils.TExifData
	}{
		{name: "no aperture", exif: utils.TExifData{ExposureTime: 0.004, ISO: 100}},
		{name: "no exposure time", exif: utils.TExifData{FNumber: 2, ISO: 100}},
		{name: "no iso", exif: utils.TExifData{FNumber: 2, ExposureTime: 0.004}},
		{name: "nothing", exif: utils.TExifData{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := Suggest(tt.exif, 400, DefaultTables())
			assert.ErrorIs(t, err, ErrMissingExifData)
			assert.Empty(t, set.Suggestions)
			_, ok := set.Closest()
			assert.False(t, ok)
		})
	}
}

func TestSuggestArgumentErrors(t *testing.T) {
	exif := utils.TExifData{FNumber: 2, ExposureTime: 0.004, ISO: 100}

	_, err := Suggest(exif, 0, DefaultTables())
	assert.ErrorIs(t, err, ErrInvalidTarget)

	tables := DefaultTables()
	tables.SuggestionApertures = nil
	_, err = Suggest(exif, 400, tables)
	assert.ErrorIs(t, err, ErrEmptyTable)
}
