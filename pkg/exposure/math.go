package exposure

import "math"

/**************************************************************************************************
** Exposure math on the APEX scale. EV is relative to ISO 100: a higher EV means a brighter scene,
** needing less light. All functions expect positive inputs and have no error path; validation
** happens where raw values enter the engine.
**************************************************************************************************/

// EV returns log2(N²/t) − log2(iso/100).
func EV(aperture, shutterSeconds float64, iso float64) float64 {
	return math.Log2(aperture*aperture/shutterSeconds) - math.Log2(iso/100)
}

// ShutterFor solves EV for the shutter duration in seconds.
func ShutterFor(aperture, iso, targetEV float64) float64 {
	return aperture * aperture / math.Pow(2, targetEV+math.Log2(iso/100))
}

// ApertureFor solves EV for the f-number.
func ApertureFor(shutterSeconds, iso, targetEV float64) float64 {
	return math.Sqrt(shutterSeconds * math.Pow(2, targetEV+math.Log2(iso/100)))
}

// ISOFor solves EV for the film speed.
func ISOFor(aperture, shutterSeconds, targetEV float64) float64 {
	return 100 * math.Pow(2, math.Log2(aperture*aperture/shutterSeconds)-targetEV)
}

/**************************************************************************************************
** Deviation is the signed exposure error of a state against a target, in stops. Positive means
** the settings let in more light than the target asks for (overexposed).
**************************************************************************************************/
func Deviation(targetEV float64, state ExposureState) float64 {
	return targetEV - state.EV()
}
