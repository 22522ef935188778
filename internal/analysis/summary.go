package analysis

import (
	"math"
	"sort"

	"frbus-sweep/internal/scenario"
)

// Stats summarizes avg_gdp_impact over a set of scenarios.
type Stats struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// GroupStats is Stats for one value of a swept parameter.
type GroupStats struct {
	Value float64 `json:"value"`
	Stats
}

// Report is the aggregate printed after a sweep.
// Failed scenarios are excluded from every figure and counted separately.
type Report struct {
	Overall            Stats        `json:"overall"`
	Failed             int          `json:"failed"`
	ByShockSize        []GroupStats `json:"by_shock_size"`
	ByPersistence      []GroupStats `json:"by_persistence"`
	ByMonetaryResponse []GroupStats `json:"by_monetary_response"`
}

func Summarize(results []scenario.Result) Report {
	var rep Report
	ok := make([]scenario.Result, 0, len(results))
	for _, r := range results {
		if r.Failed() {
			rep.Failed++
			continue
		}
		ok = append(ok, r)
	}

	rep.Overall = statsOf(ok)
	rep.ByShockSize = groupBy(ok, func(r scenario.Result) float64 { return r.ProductivityShock })
	rep.ByPersistence = groupBy(ok, func(r scenario.Result) float64 { return r.Persistence })
	rep.ByMonetaryResponse = groupBy(ok, func(r scenario.Result) float64 { return r.MonetaryResponse })
	return rep
}

func statsOf(results []scenario.Result) Stats {
	s := Stats{Count: len(results)}
	if len(results) == 0 {
		return s
	}
	sum := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	for _, r := range results {
		v := r.Summary.AvgGDPImpact
		sum += v
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
	}
	s.Mean = sum / float64(len(results))
	s.Min = minv
	s.Max = maxv
	return s
}

// groupBy buckets results by an exact parameter value, ascending.
func groupBy(results []scenario.Result, key func(scenario.Result) float64) []GroupStats {
	buckets := map[float64][]scenario.Result{}
	for _, r := range results {
		k := key(r)
		buckets[k] = append(buckets[k], r)
	}
	out := make([]GroupStats, 0, len(buckets))
	for v, rs := range buckets {
		out = append(out, GroupStats{Value: v, Stats: statsOf(rs)})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Value < out[j].Value
	})
	return out
}
