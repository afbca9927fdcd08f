package exposure

import (
	"fmt"
	"math"

	"github.com/majorfi/filmroll/pkg/utils"
)

/**************************************************************************************************
** Suggest turns a photo's EXIF exposure into aperture/shutter pairs for a film speed.
**
** The scene is metered as EV100 = log2(N²/t) − log2(iso/100) and re-based to the film as
** TargetEV = EV100 + log2(filmISO/100). For every candidate aperture the exact shutter is
** N² / 2^TargetEV (the same as ShutterFor(N, filmISO, EV100)); it is matched to the nearest shutter
** label without any exposure bias and the error is reported in stops.
**
** Missing EXIF fields are a normal condition: the set comes back empty with ErrMissingExifData.
**
** @param exif - Exposure triple read from the photo
** @param filmISO - Speed the film is shot at
** @param tables - Option tables, SuggestionApertures and ShutterSpeeds are used
** @return SuggestionSet - Metered values and suggestions in candidate order
** @return error - ErrMissingExifData, or ErrInvalidTarget/ErrEmptyTable for bad arguments
**************************************************************************************************/
func Suggest(exif utils.TExifData, filmISO int, tables Tables) (SuggestionSet, error) {
	set := SuggestionSet{FilmISO: filmISO}
	if !exif.HasExposure() {
		return set, ErrMissingExifData
	}
	if filmISO <= 0 {
		return set, fmt.Errorf("film iso %d: %w", filmISO, ErrInvalidTarget)
	}
	if len(tables.SuggestionApertures) == 0 {
		return set, emptyTableError("suggestion apertures")
	}
	if len(tables.ShutterSpeeds) == 0 {
		return set, emptyTableError("shutter speeds")
	}

	set.EV100 = EV(exif.FNumber, exif.ExposureTime, float64(exif.ISO))
	set.TargetEV = set.EV100 + math.Log2(float64(filmISO)/100)

	set.Suggestions = make([]Suggestion, 0, len(tables.SuggestionApertures))
	for _, aperture := range tables.SuggestionApertures {
		theoretical := ShutterFor(aperture, float64(filmISO), set.EV100)
		label, err := NearestShutter(tables.ShutterSpeeds, theoretical)
		if err != nil {
			return SuggestionSet{FilmISO: filmISO}, fmt.Errorf("aperture %s: %w", FormatAperture(aperture), err)
		}
		actual := ShutterLabelToSeconds(label)
		set.Suggestions = append(set.Suggestions, Suggestion{
			ApertureLabel:      FormatAperture(aperture),
			Aperture:           aperture,
			ShutterLabel:       label,
			ShutterSeconds:     actual,
			DeviationStops:     math.Log2(actual / theoretical),
			TheoreticalSeconds: theoretical,
		})
	}
	return set, nil
}

/**************************************************************************************************
** Closest returns the suggestion with the smallest absolute deviation. Ties keep the earlier
** (wider) aperture.
**************************************************************************************************/
func (s SuggestionSet) Closest() (Suggestion, bool) {
	if len(s.Suggestions) == 0 {
		return Suggestion{}, false
	}
	best := s.Suggestions[0]
	for _, candidate := range s.Suggestions[1:] {
		if math.Abs(candidate.DeviationStops) < math.Abs(best.DeviationStops) {
			best = candidate
		}
	}
	return best, true
}
