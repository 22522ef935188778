package model

// Structure holds the structural constants of the simplified model.
// A Structure is built once (DefaultStructure) and shared by pointer; nothing mutates it.
type Structure struct {
	// Calibration constants carried for reference by downstream consumers.
	Beta  float64 // discount factor
	Sigma float64 // intertemporal elasticity
	Alpha float64 // capital share
	Delta float64 // depreciation rate
	RhoA  float64 // technology persistence

	// Taylor rule sensitivities, both scaled by PolicyParameters.MonetaryResponse.
	PhiPi float64
	PhiY  float64

	// Output gap: gap = GapPersistence*prevGap + TFPPassThrough*tfp
	GapPersistence float64
	TFPPassThrough float64

	// Phillips curve: inertia on lagged inflation, the remainder anchors to steady state.
	InflationInertia float64
	GapInflation     float64
	TFPInflation     float64

	// Okun's law proxy on annualized output growth.
	OkunCoefficient   float64
	TrendGrowth       float64
	UnemploymentFloor float64
	UnemploymentCap   float64
}

func DefaultStructure() Structure {
	return Structure{
		Beta:  0.99,
		Sigma: 1.5,
		Alpha: 0.33,
		Delta: 0.025,
		RhoA:  0.95,

		PhiPi: 1.5,
		PhiY:  0.5,

		GapPersistence: 0.8,
		TFPPassThrough: 0.3,

		InflationInertia: 0.7,
		GapInflation:     0.1,
		TFPInflation:     0.05,

		OkunCoefficient:   0.5,
		TrendGrowth:       2.0,
		UnemploymentFloor: 1.0,
		UnemploymentCap:   10.0,
	}
}

// ClampUnemployment bounds a rate to [UnemploymentFloor, UnemploymentCap].
func (s *Structure) ClampUnemployment(u float64) float64 {
	return max(s.UnemploymentFloor, min(s.UnemploymentCap, u))
}
