package scenario

import (
	"encoding/json"
	"errors"
	"testing"

	"frbus-sweep/internal/engine"
	"frbus-sweep/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reference() (model.TimePath, model.ShockParameters, model.PolicyParameters) {
	sh := model.ShockParameters{ShockSize: 0.03, Onset: 6, Persistence: 0.95}
	pol := model.PolicyParameters{MonetaryResponse: 1.5}
	return engine.New(nil).Simulate(40, sh, pol), sh, pol
}

func TestEvaluate_DeviationsAreExactDifferences(t *testing.T) {
	path, sh, pol := reference()
	r := Evaluate(path, sh, pol, 7)

	ss := model.SteadyState
	require.Len(t, r.Data.Periods, 40)
	for i := 0; i < 40; i++ {
		assert.Equal(t, i, r.Data.Periods[i])
		assert.Equal(t, path.Output[i]-ss.Output, r.Data.GDPDeviation[i])
		assert.Equal(t, path.Inflation[i]-ss.Inflation, r.Data.InflationDeviation[i])
		assert.Equal(t, path.Unemployment[i]-ss.Unemployment, r.Data.UnemploymentDeviation[i])
		assert.Equal(t, path.InterestRate[i]-ss.InterestRate, r.Data.InterestRateDeviation[i])
	}
	assert.Equal(t, path.Output, r.Data.GDPLevel)
	assert.Equal(t, path.Productivity, r.Data.Productivity)

	assert.Equal(t, 7, r.SimulationID)
	assert.Equal(t, 0.03, r.ProductivityShock)
	assert.Equal(t, 0.95, r.Persistence)
	assert.Equal(t, 1.5, r.MonetaryResponse)
	assert.False(t, r.Failed())
}

func TestEvaluate_Summary(t *testing.T) {
	path := model.NewTimePath(4)
	path.Output = []float64{100, 101, 103, 102}
	path.Inflation = []float64{2, 2.5, 2, 1.5}
	path.InterestRate = []float64{2.5, 3, 4.25, 3}
	path.Unemployment = []float64{4, 3, 5, 4}
	path.Productivity = []float64{1, 1.1, 1.05, 1.02}

	r := Evaluate(path, model.ShockParameters{}, model.PolicyParameters{MonetaryResponse: 1}, 1)
	assert.Equal(t, 1.5, r.Summary.AvgGDPImpact)
	assert.Equal(t, 3.0, r.Summary.MaxGDPImpact)
	assert.Equal(t, 2.0, r.Summary.FinalGDPImpact)
	assert.Equal(t, 0.0, r.Summary.AvgInflationImpact)
	assert.Equal(t, 0.0, r.Summary.AvgUnemploymentImpact)
	assert.Equal(t, 4.25, r.Summary.PeakInterestRate)
}

func TestEvaluate_DoesNotAliasPath(t *testing.T) {
	path, sh, pol := reference()
	r := Evaluate(path, sh, pol, 1)
	r.Data.GDPLevel[3] = -1
	assert.Equal(t, 100.0, path.Output[3])
}

func TestPlaceholder(t *testing.T) {
	sh := model.ShockParameters{ShockSize: 0.08, Onset: 6, Persistence: 0.98}
	pol := model.PolicyParameters{MonetaryResponse: 2.5}
	r := Placeholder(sh, pol, 125, 40, errors.New("solve failed"))

	assert.True(t, r.Failed())
	assert.Equal(t, "solve failed", r.Error)
	assert.Equal(t, 125, r.SimulationID)
	assert.Equal(t, 0.08, r.ProductivityShock)
	assert.Equal(t, Summary{}, r.Summary)
	for _, s := range [][]float64{
		r.Data.GDPLevel, r.Data.GDPDeviation, r.Data.InflationLevel, r.Data.InflationDeviation,
		r.Data.UnemploymentLevel, r.Data.UnemploymentDeviation, r.Data.InterestRateLevel,
		r.Data.InterestRateDeviation, r.Data.Productivity,
	} {
		assert.Len(t, s, 40)
		for _, v := range s {
			assert.Zero(t, v)
		}
	}
	assert.Len(t, r.Data.Periods, 40)
}

func TestResult_JSONShape(t *testing.T) {
	path, sh, pol := reference()
	raw, err := json.Marshal(Evaluate(path, sh, pol, 3))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.NotContains(t, m, "error")
	for _, k := range []string{"simulation_id", "productivity_shock", "persistence", "monetary_response", "data", "summary"} {
		assert.Contains(t, m, k)
	}
	data := m["data"].(map[string]any)
	for _, k := range []string{
		"periods", "gdp_level", "gdp_deviation", "inflation_level", "inflation_deviation",
		"unemployment_level", "unemployment_deviation", "interest_rate_level",
		"interest_rate_deviation", "productivity",
	} {
		assert.Contains(t, data, k)
	}
	summary := m["summary"].(map[string]any)
	for _, k := range []string{
		"avg_gdp_impact", "max_gdp_impact", "final_gdp_impact",
		"avg_inflation_impact", "avg_unemployment_impact", "peak_interest_rate",
	} {
		assert.Contains(t, summary, k)
	}
}

func TestLookup(t *testing.T) {
	path, sh, pol := reference()
	r := Evaluate(path, sh, pol, 9)
	row := r.Lookup()
	assert.Equal(t, LookupRow{
		SimulationID:      9,
		ProductivityShock: 0.03,
		Persistence:       0.95,
		MonetaryResponse:  1.5,
		AvgGDPImpact:      r.Summary.AvgGDPImpact,
		MaxGDPImpact:      r.Summary.MaxGDPImpact,
	}, row)
}
