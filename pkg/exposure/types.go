package exposure

import (
	"fmt"
	"strings"
)

/**************************************************************************************************
** Variable identifies one of the three linked exposure controls. The zero value, None, is used
** for "no lock".
**************************************************************************************************/
type Variable int

const (
	None Variable = iota
	Aperture
	Shutter
	ISO
)

// String returns the lower-case control name.
func (v Variable) String() string {
	switch v {
	case None:
		return "none"
	case Aperture:
		return "aperture"
	case Shutter:
		return "shutter"
	case ISO:
		return "iso"
	default:
		return fmt.Sprintf("variable(%d)", int(v))
	}
}

func (v Variable) valid() bool {
	return v == Aperture || v == Shutter || v == ISO
}

/**************************************************************************************************
** ParseVariable reads a control name as given on the command line ("aperture", "f", "shutter",
** "speed", "iso", "none").
**************************************************************************************************/
func ParseVariable(name string) (Variable, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return None, nil
	case "aperture", "f", "fnumber":
		return Aperture, nil
	case "shutter", "speed", "time":
		return Shutter, nil
	case "iso":
		return ISO, nil
	}
	return None, fmt.Errorf("%q: %w", name, ErrUnknownVariable)
}

/**************************************************************************************************
** Locks is the set of controls the resolver must not touch. Editing sessions hold at most one
** lock; the set form lets Resolve express the case where both dependents are pinned.
**************************************************************************************************/
type Locks uint8

// LockOf builds a lock set. None entries are ignored.
func LockOf(vars ...Variable) Locks {
	var l Locks
	for _, v := range vars {
		if v.valid() {
			l |= 1 << uint(v)
		}
	}
	return l
}

// Has reports whether v is locked.
func (l Locks) Has(v Variable) bool {
	return v.valid() && l&(1<<uint(v)) != 0
}

/**************************************************************************************************
** ExposureState is the aperture/shutter/ISO triple being edited. The shutter is kept as its table
** label so the exact dial value survives a round trip to the roll log.
**************************************************************************************************/
type ExposureState struct {
	Aperture float64 `json:"aperture"` // f-number from the aperture table
	Shutter  string  `json:"shutter"`  // label from the active shutter table
	ISO      int     `json:"iso"`      // speed from the ISO table
}

// ShutterSeconds converts the shutter label to seconds.
func (s ExposureState) ShutterSeconds() float64 {
	return ShutterLabelToSeconds(s.Shutter)
}

// EV returns the exposure value of the triple, relative to ISO 100.
func (s ExposureState) EV() float64 {
	return EV(s.Aperture, s.ShutterSeconds(), float64(s.ISO))
}

// Label returns the display label of one control.
func (s ExposureState) Label(v Variable) string {
	switch v {
	case Aperture:
		return FormatAperture(s.Aperture)
	case Shutter:
		return s.Shutter
	case ISO:
		return fmt.Sprintf("%d", s.ISO)
	}
	return ""
}

// String renders the triple as "f/2.8 1/125s ISO 100".
func (s ExposureState) String() string {
	return fmt.Sprintf("f/%s %ss ISO %d", FormatAperture(s.Aperture), s.Shutter, s.ISO)
}

/**************************************************************************************************
** Adjustment is one value the resolver changed, in the order it was applied. A caller drawing
** pickers scrolls each adjusted control into view.
**************************************************************************************************/
type Adjustment struct {
	Variable Variable `json:"variable"`
	From     string   `json:"from"`
	To       string   `json:"to"`
	HitLimit bool     `json:"hitLimit"` // ideal value was outside the table and got clamped
}

/**************************************************************************************************
** Resolution describes what one resolver pass, or one session event, did.
**************************************************************************************************/
type Resolution struct {
	Changed     Variable     // control the user moved
	Adjustments []Adjustment // values changed by the resolver, in order
	Clamped     []Variable   // controls whose ideal value fell outside their table
	NoOp        bool         // both dependents locked, the target EV cannot be honored
	Deferred    bool         // gesture still moving, no cascade yet
	Ignored     bool         // event arrived during a programmatic update
}

// Adjusted reports whether the resolver changed v.
func (r Resolution) Adjusted(v Variable) bool {
	for _, a := range r.Adjustments {
		if a.Variable == v {
			return true
		}
	}
	return false
}

// HitLimit reports whether any solved value was clamped to a table end.
func (r Resolution) HitLimit() bool {
	return len(r.Clamped) > 0
}

/**************************************************************************************************
** Suggestion is one aperture/shutter pair approximating a photo's exposure on film.
**************************************************************************************************/
type Suggestion struct {
	ApertureLabel      string  `json:"apertureLabel"`
	Aperture           float64 `json:"aperture"`
	ShutterLabel       string  `json:"shutterLabel"`
	ShutterSeconds     float64 `json:"shutterSeconds"`
	DeviationStops     float64 `json:"deviationStops"`     // log2(actual/theoretical), positive = more light
	TheoreticalSeconds float64 `json:"theoreticalSeconds"` // exact duration before snapping
}

/**************************************************************************************************
** SuggestionSet is the output of Suggest: the metered scene and its suggestions in candidate
** aperture order.
**************************************************************************************************/
type SuggestionSet struct {
	EV100       float64      `json:"ev100"`
	TargetEV    float64      `json:"targetEv"` // EV100 re-based to the film speed
	FilmISO     int          `json:"filmIso"`
	Suggestions []Suggestion `json:"suggestions"`
}
