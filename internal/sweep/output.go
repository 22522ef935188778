package sweep

import "frbus-sweep/internal/scenario"

// Output is the root of the full-data artifact.
type Output struct {
	Metadata    Metadata          `json:"metadata"`
	Simulations []scenario.Result `json:"simulations"`
}

type Metadata struct {
	Date              string     `json:"date"`
	Model             string     `json:"model"`
	Description       string     `json:"description"`
	RunID             string     `json:"run_id"`
	Backend           string     `json:"backend"`
	StartPeriod       string     `json:"start_period,omitempty"`
	TotalSimulations  int        `json:"total_simulations"`
	FailedSimulations int        `json:"failed_simulations"`
	NPeriods          int        `json:"n_periods"`
	ShockPeriod       int        `json:"shock_period"`
	Parameters        Parameters `json:"parameters"`
}

// Parameters echoes the grid that produced the run.
type Parameters struct {
	ProductivityShockSizes []float64 `json:"productivity_shock_sizes"`
	ShockPersistence       []float64 `json:"shock_persistence"`
	MonetaryResponse       []float64 `json:"monetary_response"`
}

func (p Parameters) Grid() Grid {
	return Grid{
		ProductivityShocks: p.ProductivityShockSizes,
		Persistence:        p.ShockPersistence,
		MonetaryResponse:   p.MonetaryResponse,
	}
}

// Lookup projects the output onto its lookup rows, in id order.
func (o *Output) Lookup() []scenario.LookupRow {
	out := make([]scenario.LookupRow, len(o.Simulations))
	for i, r := range o.Simulations {
		out[i] = r.Lookup()
	}
	return out
}

// Find returns the scenario with the given id.
func (o *Output) Find(id int) (scenario.Result, bool) {
	// Simulations are stored in id order starting at 1.
	if id >= 1 && id <= len(o.Simulations) && o.Simulations[id-1].SimulationID == id {
		return o.Simulations[id-1], true
	}
	for _, r := range o.Simulations {
		if r.SimulationID == id {
			return r, true
		}
	}
	return scenario.Result{}, false
}
