package scenario

// Result is one grid point of a sweep. Field names and JSON keys are the
// artifact format consumed by the dashboard; keep them stable.
type Result struct {
	SimulationID      int     `json:"simulation_id"`
	ProductivityShock float64 `json:"productivity_shock"`
	Persistence       float64 `json:"persistence"`
	MonetaryResponse  float64 `json:"monetary_response"`

	// Error is set only on placeholder results whose backend failed.
	Error string `json:"error,omitempty"`

	Data    Data    `json:"data"`
	Summary Summary `json:"summary"`
}

// Data holds the period-indexed series. Every slice has n_periods elements.
type Data struct {
	Periods               []int     `json:"periods"`
	GDPLevel              []float64 `json:"gdp_level"`
	GDPDeviation          []float64 `json:"gdp_deviation"`
	InflationLevel        []float64 `json:"inflation_level"`
	InflationDeviation    []float64 `json:"inflation_deviation"`
	UnemploymentLevel     []float64 `json:"unemployment_level"`
	UnemploymentDeviation []float64 `json:"unemployment_deviation"`
	InterestRateLevel     []float64 `json:"interest_rate_level"`
	InterestRateDeviation []float64 `json:"interest_rate_deviation"`
	Productivity          []float64 `json:"productivity"`
}

// Summary contains the scalar statistics of one scenario.
type Summary struct {
	AvgGDPImpact          float64 `json:"avg_gdp_impact"`
	MaxGDPImpact          float64 `json:"max_gdp_impact"`
	FinalGDPImpact        float64 `json:"final_gdp_impact"`
	AvgInflationImpact    float64 `json:"avg_inflation_impact"`
	AvgUnemploymentImpact float64 `json:"avg_unemployment_impact"`
	PeakInterestRate      float64 `json:"peak_interest_rate"`
}

func (r Result) Failed() bool { return r.Error != "" }

// LookupRow is the projection written to the lookup artifact.
type LookupRow struct {
	SimulationID      int     `json:"simulation_id"`
	ProductivityShock float64 `json:"productivity_shock"`
	Persistence       float64 `json:"persistence"`
	MonetaryResponse  float64 `json:"monetary_response"`
	AvgGDPImpact      float64 `json:"avg_gdp_impact"`
	MaxGDPImpact      float64 `json:"max_gdp_impact"`
}

func (r Result) Lookup() LookupRow {
	return LookupRow{
		SimulationID:      r.SimulationID,
		ProductivityShock: r.ProductivityShock,
		Persistence:       r.Persistence,
		MonetaryResponse:  r.MonetaryResponse,
		AvgGDPImpact:      r.Summary.AvgGDPImpact,
		MaxGDPImpact:      r.Summary.MaxGDPImpact,
	}
}
