package scenario

import (
	"math"

	"frbus-sweep/internal/model"
)

// Evaluate turns a time path into a Result: deviations from the steady state
// plus summary statistics. path must be non-empty and length-consistent.
func Evaluate(path model.TimePath, shock model.ShockParameters, policy model.PolicyParameters, id int) Result {
	ss := model.SteadyState
	n := path.Len()

	d := Data{
		Periods:               periods(n),
		GDPLevel:              clone(path.Output),
		GDPDeviation:          deviation(path.Output, ss.Output),
		InflationLevel:        clone(path.Inflation),
		InflationDeviation:    deviation(path.Inflation, ss.Inflation),
		UnemploymentLevel:     clone(path.Unemployment),
		UnemploymentDeviation: deviation(path.Unemployment, ss.Unemployment),
		InterestRateLevel:     clone(path.InterestRate),
		InterestRateDeviation: deviation(path.InterestRate, ss.InterestRate),
		Productivity:          clone(path.Productivity),
	}

	return Result{
		SimulationID:      id,
		ProductivityShock: shock.ShockSize,
		Persistence:       shock.Persistence,
		MonetaryResponse:  policy.MonetaryResponse,
		Data:              d,
		Summary: Summary{
			AvgGDPImpact:          mean(d.GDPDeviation),
			MaxGDPImpact:          maxOf(d.GDPDeviation),
			FinalGDPImpact:        d.GDPDeviation[n-1],
			AvgInflationImpact:    mean(d.InflationDeviation),
			AvgUnemploymentImpact: mean(d.UnemploymentDeviation),
			PeakInterestRate:      maxOf(d.InterestRateLevel),
		},
	}
}

// Placeholder records a grid point whose backend failed: every series and
// statistic is zero and err is attached.
func Placeholder(shock model.ShockParameters, policy model.PolicyParameters, id, nPeriods int, err error) Result {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Result{
		SimulationID:      id,
		ProductivityShock: shock.ShockSize,
		Persistence:       shock.Persistence,
		MonetaryResponse:  policy.MonetaryResponse,
		Error:             msg,
		Data: Data{
			Periods:               periods(nPeriods),
			GDPLevel:              make([]float64, nPeriods),
			GDPDeviation:          make([]float64, nPeriods),
			InflationLevel:        make([]float64, nPeriods),
			InflationDeviation:    make([]float64, nPeriods),
			UnemploymentLevel:     make([]float64, nPeriods),
			UnemploymentDeviation: make([]float64, nPeriods),
			InterestRateLevel:     make([]float64, nPeriods),
			InterestRateDeviation: make([]float64, nPeriods),
			Productivity:          make([]float64, nPeriods),
		},
	}
}

func periods(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func clone(xs []float64) []float64 {
	return append([]float64(nil), xs...)
}

func deviation(xs []float64, base float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = x - base
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func maxOf(xs []float64) float64 {
	m := math.Inf(-1)
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}
