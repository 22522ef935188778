package model

// SteadyStateValues is the reference point every deviation series is measured against.
// Units:
// - Output: index level
// - Inflation, InterestRate, Unemployment: percent
// - Productivity: TFP level (1.0 = baseline)
type SteadyStateValues struct {
	Output       float64
	Inflation    float64
	InterestRate float64
	Unemployment float64
	Productivity float64
}

// SteadyState is period 0 of every simulated path.
var SteadyState = SteadyStateValues{
	Output:       100.0,
	Inflation:    2.0,
	InterestRate: 2.5,
	Unemployment: 4.0,
	Productivity: 1.0,
}
