package engine

import (
	"context"
	"fmt"

	"frbus-sweep/internal/model"
)

// Engine is the closed-form recursive model. It holds no mutable state and is
// safe to share between goroutines.
type Engine struct {
	structure *model.Structure
}

// New returns an engine over s. A nil structure selects model.DefaultStructure.
func New(s *model.Structure) *Engine {
	if s == nil {
		def := model.DefaultStructure()
		s = &def
	}
	return &Engine{structure: s}
}

func (e *Engine) Structure() *model.Structure { return e.structure }

func (e *Engine) Name() string { return "closed_form" }

// state is one period of the endogenous variables.
type state struct {
	output       float64
	inflation    float64
	rate         float64
	unemployment float64
}

func steadyState() state {
	ss := model.SteadyState
	return state{
		output:       ss.Output,
		inflation:    ss.Inflation,
		rate:         ss.InterestRate,
		unemployment: ss.Unemployment,
	}
}

// advance computes period t from period t-1 given the period-t TFP excess and
// the monetary response multiplier.
func (e *Engine) advance(prev state, tfp, monetaryResponse float64) state {
	s := e.structure
	ss := model.SteadyState

	prevGap := (prev.output - ss.Output) / ss.Output
	gap := s.GapPersistence*prevGap + s.TFPPassThrough*tfp

	var next state
	next.output = ss.Output * (1 + gap)

	// Backward-looking Phillips curve; productivity is disinflationary net of the gap channel.
	next.inflation = s.InflationInertia*prev.inflation +
		(1-s.InflationInertia)*ss.Inflation +
		s.GapInflation*gap -
		s.TFPInflation*tfp

	next.rate = ss.InterestRate +
		monetaryResponse*s.PhiPi*(next.inflation-ss.Inflation) +
		monetaryResponse*s.PhiY*gap

	// Annualized quarterly growth, percent.
	growth := (next.output/prev.output - 1) * 400
	next.unemployment = s.ClampUnemployment(ss.Unemployment - s.OkunCoefficient*(growth-s.TrendGrowth))
	return next
}

// Simulate runs the model for nPeriods quarters. Period 0 is the steady state.
// nPeriods < 1 is a caller bug and panics.
func (e *Engine) Simulate(nPeriods int, shock model.ShockParameters, policy model.PolicyParameters) model.TimePath {
	if nPeriods < 1 {
		panic(fmt.Sprintf("engine: nPeriods must be >= 1, got %d", nPeriods))
	}

	path := model.NewTimePath(nPeriods)
	prev := steadyState()
	for t := 1; t < nPeriods; t++ {
		path.Productivity[t] = shock.At(t)
		tfp := path.Productivity[t] - model.SteadyState.Productivity

		cur := e.advance(prev, tfp, policy.MonetaryResponse)
		path.Output[t] = cur.output
		path.Inflation[t] = cur.inflation
		path.InterestRate[t] = cur.rate
		path.Unemployment[t] = cur.unemployment
		prev = cur
	}
	return path
}

// Run implements Backend. The closed-form model only fails when ctx is already done.
func (e *Engine) Run(ctx context.Context, nPeriods int, shock model.ShockParameters, policy model.PolicyParameters) Outcome {
	if err := ctx.Err(); err != nil {
		return Failed(err)
	}
	return Succeeded(e.Simulate(nPeriods, shock, policy))
}
