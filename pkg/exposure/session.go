package exposure

import (
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"

	"github.com/majorfi/filmroll/pkg/utils"
	"github.com/sirupsen/logrus"
)

// ErrVariableLocked is returned when a gesture targets a locked control.
var ErrVariableLocked = errors.New("control is locked")

/**************************************************************************************************
** SessionConfig holds the raw inputs an editing session starts from. Aperture, Shutter and ISO
** may be anything an upstream meter or a user typed; they are normalized to table entries.
**************************************************************************************************/
type SessionConfig struct {
	TargetEV     float64 // scene EV at ISO 100, fixed for the session
	Aperture     string  // raw aperture, e.g. "2.8" or "f/2.8"
	Shutter      string  // raw shutter label or decimal seconds
	ISO          string  // raw film speed
	FullStopOnly bool    // restrict the shutter control to full stops
	Tables       *Tables // option tables, DefaultTables() when nil
}

/**************************************************************************************************
** Session is one light-meter editing session: the exposure triple, the lock, the target EV, the
** shutter mode and the selected film. All state lives here and is changed only through the
** methods below, one event at a time.
**
** OnProgrammaticUpdate is called whenever the session moves a control by itself (a resolver
** adjustment or a full-stop snap) so the caller can scroll the matching picker. While it runs the
** programmatic flag is set and any gesture the caller reports back is ignored, so a picker settling
** on its new position cannot start another cascade.
**************************************************************************************************/
type Session struct {
	tables       Tables
	state        ExposureState
	lock         Variable
	targetEV     float64
	fullStopOnly bool
	film         *utils.TFilm
	programmatic bool
	logger       *logrus.Logger

	OnProgrammaticUpdate func(v Variable, index int)
}

/**************************************************************************************************
** NewSession normalizes the raw inputs and returns a ready session. A NaN or infinite target EV
** and empty tables are rejected.
**
** @param cfg - Raw session inputs
** @param logger - Logger for debug traces, a discarding logger is used when nil
** @return *Session - The session
** @return error - ErrInvalidTarget or ErrEmptyTable
**************************************************************************************************/
func NewSession(cfg SessionConfig, logger *logrus.Logger) (*Session, error) {
	if math.IsNaN(cfg.TargetEV) || math.IsInf(cfg.TargetEV, 0) {
		return nil, fmt.Errorf("target EV %v: %w", cfg.TargetEV, ErrInvalidTarget)
	}
	tables := DefaultTables()
	if cfg.Tables != nil {
		tables = *cfg.Tables
	}
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	aperture, err := tables.NormalizeAperture(cfg.Aperture)
	if err != nil {
		return nil, fmt.Errorf("normalize aperture: %w", err)
	}
	shutter, err := tables.NormalizeShutter(cfg.Shutter, cfg.FullStopOnly)
	if err != nil {
		return nil, fmt.Errorf("normalize shutter: %w", err)
	}
	iso, err := tables.NormalizeISO(cfg.ISO)
	if err != nil {
		return nil, fmt.Errorf("normalize iso: %w", err)
	}

	s := &Session{
		tables:       tables,
		state:        ExposureState{Aperture: aperture, Shutter: shutter, ISO: iso},
		targetEV:     cfg.TargetEV,
		fullStopOnly: cfg.FullStopOnly,
		logger:       logger,
	}
	logger.WithFields(logrus.Fields{
		"targetEV":     cfg.TargetEV,
		"state":        s.state.String(),
		"fullStopOnly": cfg.FullStopOnly,
	}).Debugf("Session started")
	return s, nil
}

// State returns the current triple.
func (s *Session) State() ExposureState { return s.state }

// Lock returns the locked control, or None.
func (s *Session) Lock() Variable { return s.lock }

// TargetEV returns the session's target EV.
func (s *Session) TargetEV() float64 { return s.targetEV }

// FullStopOnly reports whether the shutter is restricted to full stops.
func (s *Session) FullStopOnly() bool { return s.fullStopOnly }

// Film returns the selected film, or nil.
func (s *Session) Film() *utils.TFilm { return s.film }

// Deviation returns targetEV − EV(state) in stops, positive = overexposed.
func (s *Session) Deviation() float64 { return Deviation(s.targetEV, s.state) }

/**************************************************************************************************
** Options returns the display labels of a control's active table, in picker order.
**************************************************************************************************/
func (s *Session) Options(v Variable) []string {
	switch v {
	case Aperture:
		labels := make([]string, len(s.tables.Apertures))
		for i, f := range s.tables.Apertures {
			labels[i] = FormatAperture(f)
		}
		return labels
	case Shutter:
		return slices.Clone(s.tables.ActiveShutters(s.fullStopOnly))
	case ISO:
		labels := make([]string, len(s.tables.ISOs))
		for i, iso := range s.tables.ISOs {
			labels[i] = strconv.Itoa(iso)
		}
		return labels
	}
	return nil
}

// IndexOf returns the picker index of a control's current value, or -1.
func (s *Session) IndexOf(v Variable) int {
	return slices.Index(s.Options(v), s.state.Label(v))
}

/**************************************************************************************************
** Scroll applies a live picker position. The value is shown immediately but nothing is linked
** until the gesture ends.
**************************************************************************************************/
func (s *Session) Scroll(v Variable, index int) error {
	if s.programmatic {
		return nil
	}
	return s.setIndex(v, index)
}

/**************************************************************************************************
** EndGesture reports the end of a drag or of the momentum that followed it. The cascade runs once
** per gesture: on momentum end, or on a drag that ends without velocity (no momentum will follow).
** A drag released with velocity only updates the value and returns a Deferred resolution.
**
** @param v - Control the gesture moved
** @param index - Picker index the control came to rest on
** @param velocity - Release velocity of a drag, ignored for momentum ends
** @param momentum - True for momentum-scroll-end events
** @return Resolution - What the resolver did
** @return error - ErrVariableLocked, ErrInvalidIndex or a resolver error
**************************************************************************************************/
func (s *Session) EndGesture(v Variable, index int, velocity float64, momentum bool) (Resolution, error) {
	if s.programmatic {
		s.logger.Debugf("Ignoring %s gesture during programmatic update", v)
		return Resolution{Changed: v, Ignored: true}, nil
	}
	if err := s.setIndex(v, index); err != nil {
		return Resolution{Changed: v}, err
	}
	if !momentum && velocity != 0 {
		return Resolution{Changed: v, Deferred: true}, nil
	}
	return s.resolve(v)
}

/**************************************************************************************************
** Select sets a control from a raw value (as typed on the command line) and completes the gesture
** at once. The value is snapped to the control's active table first. "Auto" is not a shutter
** position and is rejected with ErrInvalidTarget.
**************************************************************************************************/
func (s *Session) Select(v Variable, raw string) (Resolution, error) {
	var label string
	switch v {
	case Aperture:
		f, ok := ParseAperture(raw)
		if !ok {
			return Resolution{Changed: v}, fmt.Errorf("aperture %q: %w", raw, ErrInvalidTarget)
		}
		snapped, err := FindClosestAperture(s.tables.Apertures, f)
		if err != nil {
			return Resolution{Changed: v}, err
		}
		label = FormatAperture(snapped)
	case Shutter:
		seconds := ShutterLabelToSeconds(raw)
		if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
			return Resolution{Changed: v}, fmt.Errorf("shutter %q: %w", raw, ErrInvalidTarget)
		}
		snapped, err := FindClosestShutter(s.tables.ActiveShutters(s.fullStopOnly), seconds)
		if err != nil {
			return Resolution{Changed: v}, err
		}
		label = snapped
	case ISO:
		iso, err := strconv.ParseFloat(raw, 64)
		if err != nil || iso <= 0 {
			return Resolution{Changed: v}, fmt.Errorf("iso %q: %w", raw, ErrInvalidTarget)
		}
		snapped, err := FindClosestISO(s.tables.ISOs, iso)
		if err != nil {
			return Resolution{Changed: v}, err
		}
		label = strconv.Itoa(snapped)
	default:
		return Resolution{Changed: v}, fmt.Errorf("%v: %w", v, ErrUnknownVariable)
	}
	return s.EndGesture(v, slices.Index(s.Options(v), label), 0, false)
}

/**************************************************************************************************
** SetLock locks one control (or None to unlock). While a film is selected the ISO lock belongs
** to the film and user lock changes are rejected.
**************************************************************************************************/
func (s *Session) SetLock(v Variable) error {
	if s.film != nil {
		return ErrLockHeldByFilm
	}
	if v != None && !v.valid() {
		return fmt.Errorf("%v: %w", v, ErrUnknownVariable)
	}
	s.lock = v
	s.logger.Debugf("Lock set to %s", v)
	return nil
}

/**************************************************************************************************
** SetFullStopOnly switches the active shutter table. A shutter value missing from the new table
** is snapped to its closest entry with the exposure-biased tie-break. The snap is a programmatic
** update and never runs the linked cascade.
**
** The snap applies to a locked shutter too: the locked value does not exist on the full-stop dial.
** The lock itself stays on the shutter and holds the snapped value from then on.
**************************************************************************************************/
func (s *Session) SetFullStopOnly(on bool) error {
	if s.fullStopOnly == on {
		return nil
	}
	s.fullStopOnly = on
	active := s.tables.ActiveShutters(on)
	if slices.Contains(active, s.state.Shutter) {
		return nil
	}

	snapped, err := FindClosestShutter(active, s.state.ShutterSeconds())
	if err != nil {
		return fmt.Errorf("snap shutter: %w", err)
	}
	s.logger.Debugf("Full-stop=%s, shutter %s snapped to %s", utils.BoolToString(on), s.state.Shutter, snapped)
	s.state.Shutter = snapped
	s.notify(Shutter)
	return nil
}

/**************************************************************************************************
** SelectFilm selects a film roll: the ISO is pinned to the film speed (snapped to the ISO table)
** and locked. When that changes the ISO, one resolver pass runs as if the user had moved the ISO
** control. Passing nil clears the selection and releases the lock.
**
** @param film - The selected roll, or nil
** @return Resolution - The pass triggered by the ISO change, if any
** @return error - A resolver or table error
**************************************************************************************************/
func (s *Session) SelectFilm(film *utils.TFilm) (Resolution, error) {
	if film == nil {
		if s.film != nil {
			s.logger.Debugf("Film %q cleared, ISO unlocked", s.film.Name)
			s.film = nil
			s.lock = None
		}
		return Resolution{Changed: ISO}, nil
	}

	iso, err := FindClosestISO(s.tables.ISOs, float64(film.ISO))
	if err != nil {
		return Resolution{Changed: ISO}, fmt.Errorf("film iso: %w", err)
	}
	selected := *film
	s.film = &selected
	s.lock = ISO
	s.logger.WithFields(logrus.Fields{"film": film.Name, "iso": iso}).Debugf("Film selected")

	if iso == s.state.ISO {
		return Resolution{Changed: ISO}, nil
	}
	s.state.ISO = iso
	s.notify(ISO)
	return s.resolve(ISO)
}

/**************************************************************************************************
** Snapshot converts the current triple to a frame record ready for the roll log.
**************************************************************************************************/
func (s *Session) Snapshot() utils.TFrame {
	frame := utils.TFrame{
		Aperture: FormatAperture(s.state.Aperture),
		Shutter:  s.state.Shutter,
		ISO:      s.state.ISO,
		EV:       s.state.EV(),
	}
	if s.film != nil {
		frame.RollID = s.film.ID
	}
	return frame
}

func (s *Session) setIndex(v Variable, index int) error {
	if !v.valid() {
		return fmt.Errorf("%v: %w", v, ErrUnknownVariable)
	}
	if v == s.lock {
		return fmt.Errorf("%v: %w", v, ErrVariableLocked)
	}
	options := s.Options(v)
	if index < 0 || index >= len(options) {
		return fmt.Errorf("%v index %d of %d: %w", v, index, len(options), ErrInvalidIndex)
	}
	switch v {
	case Aperture:
		s.state.Aperture = s.tables.Apertures[index]
	case Shutter:
		s.state.Shutter = options[index]
	case ISO:
		s.state.ISO = s.tables.ISOs[index]
	}
	return nil
}

func (s *Session) resolve(changed Variable) (Resolution, error) {
	next, res, err := Resolve(s.state, changed, LockOf(s.lock), s.targetEV, s.tables, s.fullStopOnly)
	if err != nil {
		return res, err
	}
	s.state = next

	fields := logrus.Fields{"changed": changed, "state": next.String(), "deviation": utils.FormatStops(s.Deviation())}
	switch {
	case res.NoOp:
		s.logger.WithFields(fields).Debugf("No adjustment: %s", utils.CONDITION_TARGET_UNREACHABLE)
	case res.HitLimit():
		s.logger.WithFields(fields).Debugf("Resolved, %s: %v", utils.CONDITION_LIMIT_REACHED, res.Clamped)
	default:
		s.logger.WithFields(fields).Debugf("Resolved")
	}

	for _, adj := range res.Adjustments {
		s.notify(adj.Variable)
	}
	return res, nil
}

// notify reports a programmatic move of v with the reentrancy flag held.
func (s *Session) notify(v Variable) {
	if s.OnProgrammaticUpdate == nil {
		return
	}
	s.programmatic = true
	defer func() { s.programmatic = false }()
	s.OnProgrammaticUpdate(v, s.IndexOf(v))
}
