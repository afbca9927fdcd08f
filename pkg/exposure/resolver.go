package exposure

import (
	"fmt"
	"math"
)

/**************************************************************************************************
** linkOrder maps the control the user moved to the control adjusted first (primary) and the one
** adjusted when the primary runs out of range or is locked (secondary).
**************************************************************************************************/
var linkOrder = map[Variable][2]Variable{
	Aperture: {Shutter, ISO},
	Shutter:  {Aperture, ISO},
	ISO:      {Shutter, Aperture},
}

/**************************************************************************************************
** Resolve brings the two controls linked to `changed` back to targetEV after the user moved it.
**
** The primary is solved first, clamped to its table and snapped with the exposure-biased
** tie-break. If it had to be clamped and the secondary is free, the secondary is solved against
** the new values. A locked primary hands the whole job to the secondary; with both locked nothing
** moves and Resolution.NoOp is set. The changed control itself is never modified.
**
** @param state - Triple holding the user's new value for `changed`
** @param changed - The control the user moved
** @param locks - Controls the resolver must not modify
** @param targetEV - Scene EV at ISO 100 the triple should match
** @param tables - Option tables to clamp and snap against
** @param fullStopOnly - Whether the shutter is restricted to full stops
** @return ExposureState - The resolved triple
** @return Resolution - What was adjusted
** @return error - Only for programming errors: NaN target, empty table, unknown variable
**************************************************************************************************/
func Resolve(state ExposureState, changed Variable, locks Locks, targetEV float64, tables Tables, fullStopOnly bool) (ExposureState, Resolution, error) {
	res := Resolution{Changed: changed}
	if math.IsNaN(targetEV) || math.IsInf(targetEV, 0) {
		return state, res, fmt.Errorf("target EV %v: %w", targetEV, ErrInvalidTarget)
	}
	if err := tables.Validate(); err != nil {
		return state, res, err
	}
	order, ok := linkOrder[changed]
	if !ok {
		return state, res, fmt.Errorf("%v: %w", changed, ErrUnknownVariable)
	}
	primary, secondary := order[0], order[1]

	if locks.Has(primary) {
		if locks.Has(secondary) {
			res.NoOp = true
			return state, res, nil
		}
		if err := solveInto(&state, &res, secondary, targetEV, tables, fullStopOnly); err != nil {
			return state, res, err
		}
		return state, res, nil
	}

	if err := solveInto(&state, &res, primary, targetEV, tables, fullStopOnly); err != nil {
		return state, res, err
	}
	if res.HitLimit() && !locks.Has(secondary) {
		if err := solveInto(&state, &res, secondary, targetEV, tables, fullStopOnly); err != nil {
			return state, res, err
		}
	}
	return state, res, nil
}

/**************************************************************************************************
** solveInto solves v from the two other values of state, applies it when it differs and records
** the adjustment and clamping on res.
**************************************************************************************************/
func solveInto(state *ExposureState, res *Resolution, v Variable, targetEV float64, tables Tables, fullStopOnly bool) error {
	from := state.Label(v)
	var hitLimit bool

	switch v {
	case Aperture:
		ideal := ApertureFor(state.ShutterSeconds(), float64(state.ISO), targetEV)
		lo, hi := apertureBounds(tables.Apertures)
		var clamped float64
		clamped, hitLimit = clamp(ideal, lo, hi)
		snapped, err := FindClosestAperture(tables.Apertures, clamped)
		if err != nil {
			return fmt.Errorf("solve aperture: %w", err)
		}
		state.Aperture = snapped
	case Shutter:
		active := tables.ActiveShutters(fullStopOnly)
		ideal := ShutterFor(state.Aperture, float64(state.ISO), targetEV)
		lo, hi := shutterBounds(active)
		var clamped float64
		clamped, hitLimit = clamp(ideal, lo, hi)
		snapped, err := FindClosestShutter(active, clamped)
		if err != nil {
			return fmt.Errorf("solve shutter: %w", err)
		}
		state.Shutter = snapped
	case ISO:
		ideal := ISOFor(state.Aperture, state.ShutterSeconds(), targetEV)
		lo, hi := isoBounds(tables.ISOs)
		var clamped float64
		clamped, hitLimit = clamp(ideal, lo, hi)
		snapped, err := FindClosestISO(tables.ISOs, clamped)
		if err != nil {
			return fmt.Errorf("solve iso: %w", err)
		}
		state.ISO = snapped
	default:
		return fmt.Errorf("%v: %w", v, ErrUnknownVariable)
	}

	if hitLimit {
		res.Clamped = append(res.Clamped, v)
	}
	if to := state.Label(v); to != from {
		res.Adjustments = append(res.Adjustments, Adjustment{Variable: v, From: from, To: to, HitLimit: hitLimit})
	}
	return nil
}

// clamp limits v to [lo, hi] and reports whether it was outside.
func clamp(v, lo, hi float64) (float64, bool) {
	switch {
	case v < lo:
		return lo, true
	case v > hi:
		return hi, true
	}
	return v, false
}
