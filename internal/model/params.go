package model

import "errors"

// ShockParameters fully determine the productivity path.
// - ShockSize: fraction (0.03 = 3% TFP boost at onset)
// - Onset: period index at which the shock hits
// - Persistence: per-period geometric decay factor, 0..1
type ShockParameters struct {
	ShockSize   float64
	Onset       int
	Persistence float64
}

func (p ShockParameters) Validate() error {
	if p.Onset < 0 {
		return errors.New("shock onset must be >= 0")
	}
	if p.Persistence < 0 || p.Persistence > 1 {
		return errors.New("persistence must be in [0, 1]")
	}
	return nil
}

// PolicyParameters scale the Taylor rule.
// MonetaryResponse multiplies both the inflation and the output-gap legs.
type PolicyParameters struct {
	MonetaryResponse float64
}

func (p PolicyParameters) Validate() error {
	if p.MonetaryResponse <= 0 {
		return errors.New("monetary response must be > 0")
	}
	return nil
}
