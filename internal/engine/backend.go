package engine

import (
	"context"

	"frbus-sweep/internal/model"
)

// Backend produces a time path for one grid point.
// Implementations must be safe for concurrent use.
type Backend interface {
	Name() string
	Run(ctx context.Context, nPeriods int, shock model.ShockParameters, policy model.PolicyParameters) Outcome
}

// Outcome is either a path or the error that prevented one.
type Outcome struct {
	Path model.TimePath
	Err  error
}

func Succeeded(p model.TimePath) Outcome { return Outcome{Path: p} }

func Failed(err error) Outcome { return Outcome{Err: err} }

func (o Outcome) OK() bool { return o.Err == nil }
