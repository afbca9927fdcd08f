package exposure

/**************************************************************************************************
** Apertures lists the third-stop f-numbers offered by the aperture control, ascending (less
** light as the index grows).
**************************************************************************************************/
var Apertures = []float64{
	1, 1.1, 1.2, 1.4, 1.6, 1.8, 2, 2.2, 2.5, 2.8, 3.2, 3.5, 4, 4.5, 5, 5.6,
	6.3, 7.1, 8, 9, 10, 11, 13, 14, 16, 18, 20, 22, 25, 29, 32,
}

/**************************************************************************************************
** ShutterSpeeds lists the third-stop shutter labels, ordered by ascending duration (more light
** as the index grows). Fractions are written as labels the way they are engraved on dials.
**************************************************************************************************/
var ShutterSpeeds = []string{
	"1/8000", "1/6400", "1/5000", "1/4000", "1/3200", "1/2500", "1/2000", "1/1600", "1/1250",
	"1/1000", "1/800", "1/640", "1/500", "1/400", "1/320", "1/250", "1/200", "1/160",
	"1/125", "1/100", "1/80", "1/60", "1/50", "1/40", "1/30", "1/25", "1/20",
	"1/15", "1/13", "1/10", "1/8", "1/6", "1/5", "1/4", "0.3", "0.4",
	"1/2", "0.6", "0.8", "1", "1.3", "1.6", "2", "2.5", "3.2",
	"4", "5", "6", "8", "10", "13", "15", "20", "25", "30",
}

/**************************************************************************************************
** FullStopShutterSpeeds is the canonical full-stop subset of ShutterSpeeds, used when the meter
** is restricted to full stops.
**************************************************************************************************/
var FullStopShutterSpeeds = []string{
	"1/8000", "1/4000", "1/2000", "1/1000", "1/500", "1/250", "1/125", "1/60", "1/30",
	"1/15", "1/8", "1/4", "1/2", "1", "2", "4", "8", "15", "30",
}

// ISOs lists the third-stop film speeds, ascending.
var ISOs = []int{
	25, 32, 40, 50, 64, 80, 100, 125, 160, 200, 250, 320, 400, 500, 640, 800,
	1000, 1250, 1600, 2000, 2500, 3200, 4000, 5000, 6400,
}

// SuggestionApertures is the curated aperture set the EXIF suggester walks.
var SuggestionApertures = []float64{1.4, 1.8, 2, 2.8, 4, 5.6, 8, 11, 16, 22}

/**************************************************************************************************
** Tables groups the option tables an editing session works against. Sessions hold their own
** copy so tests and callers can narrow a table without touching the package defaults.
**************************************************************************************************/
type Tables struct {
	Apertures             []float64
	ShutterSpeeds         []string
	FullStopShutterSpeeds []string
	ISOs                  []int
	SuggestionApertures   []float64
}

/**************************************************************************************************
** DefaultTables returns a copy of the package-level option tables.
**************************************************************************************************/
func DefaultTables() Tables {
	return Tables{
		Apertures:             append([]float64(nil), Apertures...),
		ShutterSpeeds:         append([]string(nil), ShutterSpeeds...),
		FullStopShutterSpeeds: append([]string(nil), FullStopShutterSpeeds...),
		ISOs:                  append([]int(nil), ISOs...),
		SuggestionApertures:   append([]float64(nil), SuggestionApertures...),
	}
}

/**************************************************************************************************
** Validate fails fast on empty tables. An empty table is a programming error, never a
** photographic condition.
**
** @return error - ErrEmptyTable wrapped with the name of the first empty table
**************************************************************************************************/
func (t Tables) Validate() error {
	switch {
	case len(t.Apertures) == 0:
		return emptyTableError("apertures")
	case len(t.ShutterSpeeds) == 0:
		return emptyTableError("shutter speeds")
	case len(t.FullStopShutterSpeeds) == 0:
		return emptyTableError("full-stop shutter speeds")
	case len(t.ISOs) == 0:
		return emptyTableError("ISOs")
	}
	return nil
}

// ActiveShutters returns the shutter table in effect for the given mode.
func (t Tables) ActiveShutters(fullStopOnly bool) []string {
	if fullStopOnly {
		return t.FullStopShutterSpeeds
	}
	return t.ShutterSpeeds
}

/**************************************************************************************************
** Bounds helpers. Tables are ordered, so the ends are the first and last entries; they are still
** computed over the whole table so a hand-built table in the wrong order cannot widen the range.
**************************************************************************************************/
func apertureBounds(table []float64) (float64, float64) {
	lo, hi := table[0], table[0]
	for _, v := range table[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

func shutterBounds(table []string) (float64, float64) {
	lo, hi := ShutterLabelToSeconds(table[0]), ShutterLabelToSeconds(table[0])
	for _, label := range table[1:] {
		s := ShutterLabelToSeconds(label)
		lo = min(lo, s)
		hi = max(hi, s)
	}
	return lo, hi
}

func isoBounds(table []int) (float64, float64) {
	lo, hi := table[0], table[0]
	for _, v := range table[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return float64(lo), float64(hi)
}
