package engine

import (
	"context"
	"fmt"
	"math"

	"frbus-sweep/internal/model"
)

// Solver is the full-model collaborator: it takes a tracked dataset and returns
// the solved dataset of the same shape for rows start..end (inclusive).
// Errors signal malformed input or a diverged solution.
type Solver interface {
	Solve(ctx context.Context, start, end int, data *Dataset) (*Dataset, error)
}

// Dataset variables read and written by the solvers.
const (
	VarOutput       = "xgdp"
	VarInflation    = "pcxfe"
	VarRate         = "rff"
	VarUnemployment = "lur"

	VarTFPAddFactor    = "xgap_aerr"
	VarPolicyGen       = "rffgen"
	VarTaylorAddFactor = "rffintay_aerr"
	VarDebtTargeting   = "dfpdbt"
	VarSurplusTarget   = "dfpsrp"
)

// ReducedFormSolver solves a dataset with the closed-form recursions. The TFP
// add factor is read in percent (xgap_aerr = 100*excess) and rffgen scales the
// Taylor rule; a missing rffgen means 1.
type ReducedFormSolver struct {
	engine *Engine
}

func NewReducedFormSolver(e *Engine) *ReducedFormSolver {
	if e == nil {
		e = New(nil)
	}
	return &ReducedFormSolver{engine: e}
}

func (s *ReducedFormSolver) Solve(ctx context.Context, start, end int, data *Dataset) (*Dataset, error) {
	if data == nil {
		return nil, fmt.Errorf("dataset is nil")
	}
	if start < 0 || end < start || end >= data.Len() {
		return nil, fmt.Errorf("solve range [%d, %d] outside dataset of %d periods", start, end, data.Len())
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := data.Clone()
	ss := model.SteadyState
	prev := state{
		output:       data.ValueOr(VarOutput, start, ss.Output),
		inflation:    data.ValueOr(VarInflation, start, ss.Inflation),
		rate:         data.ValueOr(VarRate, start, ss.InterestRate),
		unemployment: data.ValueOr(VarUnemployment, start, ss.Unemployment),
	}
	writeState(out, start, prev)

	for t := start + 1; t <= end; t++ {
		tfp := data.ValueOr(VarTFPAddFactor, t, 0) / 100
		m := data.ValueOr(VarPolicyGen, t, 1)
		cur := s.engine.advance(prev, tfp, m)
		if !cur.finite() {
			return nil, fmt.Errorf("solution diverged at %s", data.Periods[t])
		}
		writeState(out, t, cur)
		prev = cur
	}
	return out, nil
}

func writeState(d *Dataset, row int, st state) {
	d.Set(VarOutput, row, st.output)
	d.Set(VarInflation, row, st.inflation)
	d.Set(VarRate, row, st.rate)
	d.Set(VarUnemployment, row, st.unemployment)
}

func (st state) finite() bool {
	for _, v := range []float64{st.output, st.inflation, st.rate, st.unemployment} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
