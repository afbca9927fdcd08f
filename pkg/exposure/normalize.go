package exposure

import (
	"math"
	"strconv"
	"strings"

	"github.com/majorfi/filmroll/pkg/utils"
)

// NearTieRatio is the share of the best deviation under which two entries count as a tie.
const NearTieRatio = 0.15

/**************************************************************************************************
** ShutterLabelToSeconds converts a shutter label to seconds. "Auto" means no constraint and
** returns +Inf. Fractions ("1/125") are divided out, anything else is read as decimal seconds.
** A trailing "s" or '"' is accepted ("2s", `2"`). Malformed labels return NaN, callers guard.
**
** @param label - The shutter label
** @return float64 - Duration in seconds, +Inf for Auto, NaN when unparseable
**************************************************************************************************/
func ShutterLabelToSeconds(label string) float64 {
	label = strings.TrimSpace(label)
	if strings.EqualFold(label, utils.AutoShutterLabel) {
		return math.Inf(1)
	}
	label = strings.TrimRight(label, `s"`)

	if numerator, denominator, found := strings.Cut(label, "/"); found {
		n, errN := strconv.ParseFloat(strings.TrimSpace(numerator), 64)
		d, errD := strconv.ParseFloat(strings.TrimSpace(denominator), 64)
		if errN != nil || errD != nil || d == 0 {
			return math.NaN()
		}
		return n / d
	}

	seconds, err := strconv.ParseFloat(label, 64)
	if err != nil {
		return math.NaN()
	}
	return seconds
}

/**************************************************************************************************
** SecondsToLabel renders a raw duration the way shutter dials do: fractions of a second below
** 0.3s, decimal seconds above. It is used for theoretical values that are not table entries.
**************************************************************************************************/
func SecondsToLabel(seconds float64) string {
	switch {
	case math.IsInf(seconds, 1):
		return utils.AutoShutterLabel
	case math.IsNaN(seconds) || seconds <= 0:
		return "?"
	case seconds < 0.3:
		return "1/" + strconv.FormatFloat(math.Round(1/seconds), 'f', -1, 64)
	default:
		return strconv.FormatFloat(math.Round(seconds*10)/10, 'f', -1, 64)
	}
}

// FormatAperture renders an f-number without trailing zeros ("2.8", "11").
func FormatAperture(fNumber float64) string {
	return strconv.FormatFloat(fNumber, 'f', -1, 64)
}

/**************************************************************************************************
** FindClosest returns the table entry whose key is nearest to target.
**
** When prefer is nil the search is plain nearest distance and the first entry in table order wins
** an exact tie. When prefer is set, every entry whose deviation is within NearTieRatio of the best
** deviation is a candidate, and the candidate prefer ranks first (the one giving more exposure)
** wins. An exact match has no tolerance, so normalizing a table entry returns that entry.
**
** An infinite target snaps to the matching end of the table.
**
** @param table - The option table to search
** @param target - The value to match
** @param key - Maps an entry to the numeric scale target lives on
** @param prefer - Reports whether a should be chosen over b on a near-tie, or nil
** @return T - The closest entry
** @return error - ErrEmptyTable or ErrInvalidTarget
**************************************************************************************************/
func FindClosest[T any](table []T, target float64, key func(T) float64, prefer func(a, b T) bool) (T, error) {
	var zero T
	if len(table) == 0 {
		return zero, ErrEmptyTable
	}
	if math.IsNaN(target) {
		return zero, ErrInvalidTarget
	}

	if math.IsInf(target, 0) {
		best := -1
		for i, entry := range table {
			k := key(entry)
			if math.IsNaN(k) {
				continue
			}
			if best == -1 || (target > 0 && k > key(table[best])) || (target < 0 && k < key(table[best])) {
				best = i
			}
		}
		if best == -1 {
			return zero, ErrInvalidTarget
		}
		return table[best], nil
	}

	best := -1
	bestDiff := math.Inf(1)
	for i, entry := range table {
		diff := math.Abs(key(entry) - target)
		if math.IsNaN(diff) {
			continue
		}
		if best == -1 || diff < bestDiff {
			best = i
			bestDiff = diff
		}
	}
	if best == -1 {
		return zero, ErrInvalidTarget
	}
	if prefer == nil {
		return table[best], nil
	}

	threshold := bestDiff * NearTieRatio
	chosen := best
	for i, entry := range table {
		diff := math.Abs(key(entry) - target)
		if diff-bestDiff <= threshold && prefer(entry, table[chosen]) {
			chosen = i
		}
	}
	return table[chosen], nil
}

func identity(v float64) float64 { return v }

func isoKey(v int) float64 { return float64(v) }

// FindClosestAperture snaps an f-number, preferring the wider opening on a near-tie.
func FindClosestAperture(table []float64, fNumber float64) (float64, error) {
	return FindClosest(table, fNumber, identity, func(a, b float64) bool { return a < b })
}

/**************************************************************************************************
** FindClosestShutter snaps a duration to a shutter label, preferring the longer duration on a
** near-tie. Pass FullStopShutterSpeeds (or Tables.ActiveShutters) to restrict the search.
**************************************************************************************************/
func FindClosestShutter(table []string, seconds float64) (string, error) {
	return FindClosest(table, seconds, ShutterLabelToSeconds, func(a, b string) bool {
		return ShutterLabelToSeconds(a) > ShutterLabelToSeconds(b)
	})
}

// FindClosestISO snaps a film speed, preferring the faster speed on a near-tie.
func FindClosestISO(table []int, iso float64) (int, error) {
	return FindClosest(table, iso, isoKey, func(a, b int) bool { return a > b })
}

// NearestShutter is the unbiased shutter search used for offline suggestions.
func NearestShutter(table []string, seconds float64) (string, error) {
	return FindClosest(table, seconds, ShutterLabelToSeconds, nil)
}

/**************************************************************************************************
** ParseAperture reads an aperture label such as "2.8", "f/2.8", "F2.8" or "ƒ/2.8".
**
** @return float64 - The f-number
** @return bool - False when the label is not a positive number
**************************************************************************************************/
func ParseAperture(label string) (float64, bool) {
	label = strings.TrimSpace(label)
	for _, prefix := range []string{"f/", "F/", "ƒ/", "f", "F", "ƒ"} {
		if strings.HasPrefix(label, prefix) {
			label = strings.TrimPrefix(label, prefix)
			break
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(label), 64)
	if err != nil || v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

/**************************************************************************************************
** NormalizeAperture snaps a raw aperture (label or number as text) to the aperture table. Input
** that cannot be read falls back to DefaultApertureLabel.
**************************************************************************************************/
func (t Tables) NormalizeAperture(raw string) (float64, error) {
	v, ok := ParseAperture(raw)
	if !ok {
		v, _ = ParseAperture(utils.DefaultApertureLabel)
	}
	return FindClosestAperture(t.Apertures, v)
}

/**************************************************************************************************
** NormalizeShutter snaps a raw shutter label or decimal seconds to the active shutter table. Input
** that cannot be read, and the "Auto" sentinel, fall back to DefaultShutterLabel.
**************************************************************************************************/
func (t Tables) NormalizeShutter(raw string, fullStopOnly bool) (string, error) {
	seconds := ShutterLabelToSeconds(raw)
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		seconds = ShutterLabelToSeconds(utils.DefaultShutterLabel)
	}
	return FindClosestShutter(t.ActiveShutters(fullStopOnly), seconds)
}

/**************************************************************************************************
** NormalizeISO snaps a raw ISO to the ISO table. Input that cannot be read falls back to
** DefaultISO.
**************************************************************************************************/
func (t Tables) NormalizeISO(raw string) (int, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		v = utils.DefaultISO
	}
	return FindClosestISO(t.ISOs, v)
}
