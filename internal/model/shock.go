package model

import "math"

// Productivity returns the TFP level in period t for a shock hitting at onset.
//
// Before onset the level is the steady state (1.0). From onset on the excess
// starts at size and decays geometrically: 1 + size*persistence^(t-onset).
// Persistence 1 makes the shock permanent, 0 makes it a one-period impulse.
func Productivity(t, onset int, size, persistence float64) float64 {
	if t < onset {
		return SteadyState.Productivity
	}
	return SteadyState.Productivity + size*math.Pow(persistence, float64(t-onset))
}

// At evaluates the schedule described by p.
func (p ShockParameters) At(t int) float64 {
	return Productivity(t, p.Onset, p.ShockSize, p.Persistence)
}
