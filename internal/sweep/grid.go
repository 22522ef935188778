package sweep

import (
	"errors"
	"fmt"

	"frbus-sweep/internal/model"
)

// Grid is the three swept parameter axes.
type Grid struct {
	ProductivityShocks []float64
	Persistence        []float64
	MonetaryResponse   []float64
}

// Point is one grid combination with its simulation id.
type Point struct {
	ID     int
	Shock  model.ShockParameters
	Policy model.PolicyParameters
}

func (g Grid) Size() int {
	return len(g.ProductivityShocks) * len(g.Persistence) * len(g.MonetaryResponse)
}

func (g Grid) Validate() error {
	if len(g.ProductivityShocks) == 0 || len(g.Persistence) == 0 || len(g.MonetaryResponse) == 0 {
		return errors.New("every grid axis needs at least one value")
	}
	for _, p := range g.Persistence {
		if err := (model.ShockParameters{Persistence: p}).Validate(); err != nil {
			return fmt.Errorf("persistence %v: %w", p, err)
		}
	}
	for _, m := range g.MonetaryResponse {
		if err := (model.PolicyParameters{MonetaryResponse: m}).Validate(); err != nil {
			return fmt.Errorf("monetary response %v: %w", m, err)
		}
	}
	return nil
}

// Points enumerates the grid: productivity shock outermost, then persistence,
// then monetary response. IDs start at 1 and follow this order; lookup
// consumers depend on it.
func (g Grid) Points(onset int) []Point {
	out := make([]Point, 0, g.Size())
	id := 0
	for _, size := range g.ProductivityShocks {
		for _, rho := range g.Persistence {
			for _, m := range g.MonetaryResponse {
				id++
				out = append(out, Point{
					ID:     id,
					Shock:  model.ShockParameters{ShockSize: size, Onset: onset, Persistence: rho},
					Policy: model.PolicyParameters{MonetaryResponse: m},
				})
			}
		}
	}
	return out
}
