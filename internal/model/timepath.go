package model

import "fmt"

// TimePath is one simulation run: five index-aligned series over periods 0..N-1.
// It is produced whole by a backend and not modified afterwards.
type TimePath struct {
	Output       []float64
	Inflation    []float64
	InterestRate []float64
	Unemployment []float64
	Productivity []float64
}

// NewTimePath allocates a path of n periods with period 0 seeded at the steady state.
func NewTimePath(n int) TimePath {
	p := TimePath{
		Output:       make([]float64, n),
		Inflation:    make([]float64, n),
		InterestRate: make([]float64, n),
		Unemployment: make([]float64, n),
		Productivity: make([]float64, n),
	}
	if n > 0 {
		p.Output[0] = SteadyState.Output
		p.Inflation[0] = SteadyState.Inflation
		p.InterestRate[0] = SteadyState.InterestRate
		p.Unemployment[0] = SteadyState.Unemployment
		p.Productivity[0] = SteadyState.Productivity
	}
	return p
}

func (p TimePath) Len() int { return len(p.Output) }

// Validate checks that all five series share one positive length.
func (p TimePath) Validate() error {
	n := len(p.Output)
	if n == 0 {
		return fmt.Errorf("time path is empty")
	}
	for name, s := range map[string][]float64{
		"inflation":     p.Inflation,
		"interest_rate": p.InterestRate,
		"unemployment":  p.Unemployment,
		"productivity":  p.Productivity,
	} {
		if len(s) != n {
			return fmt.Errorf("time path %s has %d periods, output has %d", name, len(s), n)
		}
	}
	return nil
}
