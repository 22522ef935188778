package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductivity_BeforeOnsetIsBaseline(t *testing.T) {
	for _, onset := range []int{0, 1, 6, 20} {
		for tt := 0; tt < onset; tt++ {
			assert.Equal(t, 1.0, Productivity(tt, onset, 0.08, 0.95), "t=%d onset=%d", tt, onset)
		}
	}
}

func TestProductivity_OnsetIsFullShock(t *testing.T) {
	for _, size := range []float64{0, 0.01, 0.03, 0.08} {
		for _, rho := range []float64{0, 0.5, 0.9, 1} {
			assert.Equal(t, 1.0+size, Productivity(6, 6, size, rho), "size=%v rho=%v", size, rho)
		}
	}
}

func TestProductivity_DecaysMonotonically(t *testing.T) {
	for _, rho := range []float64{0.1, 0.5, 0.9, 0.98} {
		prev := Productivity(6, 6, 0.05, rho)
		for tt := 7; tt < 60; tt++ {
			cur := Productivity(tt, 6, 0.05, rho)
			assert.LessOrEqual(t, cur, prev, "rho=%v t=%d", rho, tt)
			assert.GreaterOrEqual(t, cur, 1.0)
			prev = cur
		}
	}
}

func TestProductivity_PersistenceEdges(t *testing.T) {
	// Permanent shock.
	for tt := 3; tt < 40; tt++ {
		assert.Equal(t, 1.03, Productivity(tt, 3, 0.03, 1))
	}
	// One-period impulse.
	assert.Equal(t, 1.03, Productivity(3, 3, 0.03, 0))
	for tt := 4; tt < 40; tt++ {
		assert.Equal(t, 1.0, Productivity(tt, 3, 0.03, 0))
	}
}

func TestShockParameters_At(t *testing.T) {
	p := ShockParameters{ShockSize: 0.02, Onset: 2, Persistence: 0.5}
	assert.Equal(t, 1.0, p.At(1))
	assert.Equal(t, 1.02, p.At(2))
	assert.InDelta(t, 1.01, p.At(3), 1e-15)
}

func TestParams_Validate(t *testing.T) {
	require.NoError(t, ShockParameters{ShockSize: 0.03, Onset: 6, Persistence: 0.95}.Validate())
	assert.Error(t, ShockParameters{Onset: -1}.Validate())
	assert.Error(t, ShockParameters{Persistence: 1.01}.Validate())
	assert.Error(t, ShockParameters{Persistence: -0.1}.Validate())

	require.NoError(t, PolicyParameters{MonetaryResponse: 0.5}.Validate())
	assert.Error(t, PolicyParameters{MonetaryResponse: 0}.Validate())
}

func TestTimePath_SeededAndValidated(t *testing.T) {
	p := NewTimePath(3)
	require.NoError(t, p.Validate())
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, SteadyState.Output, p.Output[0])
	assert.Equal(t, SteadyState.Inflation, p.Inflation[0])
	assert.Equal(t, SteadyState.InterestRate, p.InterestRate[0])
	assert.Equal(t, SteadyState.Unemployment, p.Unemployment[0])
	assert.Equal(t, SteadyState.Productivity, p.Productivity[0])

	p.Inflation = p.Inflation[:2]
	assert.Error(t, p.Validate())
	assert.Error(t, NewTimePath(0).Validate())
}

func TestStructure_ClampUnemployment(t *testing.T) {
	s := DefaultStructure()
	assert.Equal(t, 1.0, s.ClampUnemployment(-3))
	assert.Equal(t, 10.0, s.ClampUnemployment(42))
	assert.Equal(t, 4.5, s.ClampUnemployment(4.5))
}
