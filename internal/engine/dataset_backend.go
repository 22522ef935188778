package engine

import (
	"context"
	"fmt"
	"math"

	"frbus-sweep/internal/model"
)

// DatasetBackend runs each scenario through a Solver: it solves a baseline,
// applies the shock as a TFP add factor, solves again and reports the
// difference. Levels are expressed as steady state plus that difference.
type DatasetBackend struct {
	solver    Solver
	data      *Dataset
	start     int
	label     string
	structure *model.Structure
}

// NewDatasetBackend anchors the simulation window at the period labeled startPeriod.
// s bounds reported unemployment and should be the structure the solver runs
// with; nil selects model.DefaultStructure.
func NewDatasetBackend(solver Solver, data *Dataset, startPeriod string, s *model.Structure) (*DatasetBackend, error) {
	if solver == nil {
		return nil, fmt.Errorf("solver is nil")
	}
	if data == nil || data.Len() == 0 {
		return nil, fmt.Errorf("dataset is empty")
	}
	start, ok := data.Index(startPeriod)
	if !ok {
		return nil, fmt.Errorf("start period %q not in dataset (%s..%s)", startPeriod, data.Periods[0], data.Periods[data.Len()-1])
	}
	if s == nil {
		def := model.DefaultStructure()
		s = &def
	}
	return &DatasetBackend{solver: solver, data: data, start: start, label: startPeriod, structure: s}, nil
}

func (b *DatasetBackend) Name() string { return "dataset" }

// StartPeriod is the dataset label of simulation period 0.
func (b *DatasetBackend) StartPeriod() string { return b.label }

func (b *DatasetBackend) Run(ctx context.Context, nPeriods int, shock model.ShockParameters, policy model.PolicyParameters) Outcome {
	if nPeriods < 1 {
		return Failed(fmt.Errorf("nPeriods must be >= 1, got %d", nPeriods))
	}
	end := b.start + nPeriods - 1
	if end >= b.data.Len() {
		return Failed(fmt.Errorf("dataset ends at %s, need %d periods from %s",
			b.data.Periods[b.data.Len()-1], nPeriods, b.label))
	}

	tracked := b.data.Clone()
	tracked.Fill(VarDebtTargeting, b.start, end, 0)
	tracked.Fill(VarSurplusTarget, b.start, end, 1)

	baseline, err := b.solver.Solve(ctx, b.start, end, tracked)
	if err != nil {
		return Failed(fmt.Errorf("baseline solve: %w", err))
	}

	shocked := tracked.Clone()
	for i := shock.Onset; i < nPeriods; i++ {
		decay := math.Pow(shock.Persistence, float64(i-shock.Onset))
		shocked.Set(VarTFPAddFactor, b.start+i, shock.ShockSize*100*decay)
	}
	if shocked.Has(VarTaylorAddFactor) {
		shocked.Fill(VarPolicyGen, b.start, end, policy.MonetaryResponse)
	}

	solved, err := b.solver.Solve(ctx, b.start, end, shocked)
	if err != nil {
		return Failed(fmt.Errorf("shock solve: %w", err))
	}

	ss := model.SteadyState
	path := model.NewTimePath(nPeriods)
	gdp, err := b.deviation(solved, baseline, VarOutput, nPeriods)
	if err != nil {
		return Failed(err)
	}
	infl, err := b.deviation(solved, baseline, VarInflation, nPeriods)
	if err != nil {
		return Failed(err)
	}
	unemp, err := b.deviation(solved, baseline, VarUnemployment, nPeriods)
	if err != nil {
		return Failed(err)
	}
	rate, err := b.deviation(solved, baseline, VarRate, nPeriods)
	if err != nil {
		return Failed(err)
	}

	// Period 0 keeps the seeded steady state.
	for i := 1; i < nPeriods; i++ {
		path.Output[i] = ss.Output + gdp[i]
		path.Inflation[i] = ss.Inflation + infl[i]
		path.InterestRate[i] = ss.InterestRate + rate[i]
		path.Unemployment[i] = b.structure.ClampUnemployment(ss.Unemployment + unemp[i])
		path.Productivity[i] = shock.At(i)
	}
	return Succeeded(path)
}

// deviation is solved minus baseline for one variable over the window. A
// variable absent from both tables contributes zero.
func (b *DatasetBackend) deviation(solved, baseline *Dataset, name string, n int) ([]float64, error) {
	out := make([]float64, n)
	sc, okS := solved.Column(name)
	bc, okB := baseline.Column(name)
	if !okS && !okB {
		return out, nil
	}
	if !okS || !okB {
		return nil, fmt.Errorf("%s present in only one solution", name)
	}
	if len(sc) < b.start+n || len(bc) < b.start+n {
		return nil, fmt.Errorf("%s: %w", name, ErrColumnLength)
	}
	for i := 0; i < n; i++ {
		d := sc[b.start+i] - bc[b.start+i]
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return nil, fmt.Errorf("%s deviation not finite at %s", name, solved.Periods[b.start+i])
		}
		out[i] = d
	}
	return out, nil
}
