package combat

import "math"

// Tactical rounding. AP is quoted up so a declared cost never
// undercharges the actor; distance and position are quoted down so a
// declared move never oversells how far the actor got. Both disciplines
// favor the house, never the player.

const precisionEpsilon = 1e-3

// TacticalAPPrecisionFactor is the scale factor for the 0.1 AP grid
// (1 / MinAPIncrement).
const TacticalAPPrecisionFactor = 1 / MinAPIncrement

// RoundAPUp rounds x up to the nearest 0.1, guaranteeing the quoted AP
// cost is never less than the precise cost.
func RoundAPUp(x float64) float64 {
	return math.Ceil(x*TacticalAPPrecisionFactor) / TacticalAPPrecisionFactor
}

// RoundDistanceDown floors x to the nearest meter, snapping to the
// nearest integer first if x is within precisionEpsilon of one (kills
// floating point artifacts from repeated physics conversions).
func RoundDistanceDown(x float64) float64 {
	if r := math.Round(x); math.Abs(x-r) < precisionEpsilon {
		x = r
	}
	return math.Floor(x)
}

// RoundPosition applies RoundDistanceDown's policy to a coordinate,
// which may be negative.
func RoundPosition(x float64) float64 {
	if r := math.Round(x); math.Abs(x-r) < precisionEpsilon {
		x = r
	}
	if x >= 0 {
		return math.Floor(x)
	}
	return -math.Floor(-x)
}

// CleanAPPrecision reconciles subtraction drift after repeated AP
// deductions. It must never be used to justify rounding in the actor's
// favor, only to re-snap a value that should already be a multiple of
// 0.1 back onto the grid.
func CleanAPPrecision(x float64) float64 {
	return math.Round(x*TacticalAPPrecisionFactor) / TacticalAPPrecisionFactor
}

// CheckAPPrecision panics with a PrecisionViolation if x is not within
// precisionEpsilon of a clean 0.1 grid point. Call after every AP
// mutation.
func CheckAPPrecision(trace string, x float64) {
	clean := CleanAPPrecision(x)
	if math.Abs(x-clean) >= precisionEpsilon {
		PrecisionViolation(trace, "ap value %.6f is not on the 0.1 grid (clean=%.6f)", x, clean)
	}
}
