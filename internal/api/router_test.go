package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"frbus-sweep/internal/api/models"
	"frbus-sweep/internal/engine"
	"frbus-sweep/internal/scenario"
	"frbus-sweep/internal/store"
	"frbus-sweep/internal/sweep"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testSweep(t *testing.T) *sweep.Output {
	t.Helper()
	grid := sweep.Grid{
		ProductivityShocks: []float64{0.01, 0.03},
		Persistence:        []float64{0.9, 0.95},
		MonetaryResponse:   []float64{0.5, 1.5},
	}
	out, err := sweep.NewDriver(engine.New(nil), sweep.Options{Workers: 2}).Run(context.Background(), grid, 12, 2)
	require.NoError(t, err)
	return out
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	r := NewRouter(Deps{Logger: zaptest.NewLogger(t)})
	w := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sweep_loaded":false`)
}

func TestNoSweepLoaded(t *testing.T) {
	r := NewRouter(Deps{})
	for _, path := range []string{"/api/v1/metadata", "/api/v1/simulations", "/api/v1/simulations/1", "/api/v1/summary"} {
		w := do(t, r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		resp := decode[models.ErrorResponse](t, w)
		assert.Equal(t, "NO_SWEEP_LOADED", resp.Error.Code, path)
	}
}

func TestMetadata(t *testing.T) {
	out := testSweep(t)
	r := NewRouter(Deps{Output: out})

	w := do(t, r, http.MethodGet, "/api/v1/metadata", nil)
	require.Equal(t, http.StatusOK, w.Code)
	md := decode[sweep.Metadata](t, w)
	assert.Equal(t, 8, md.TotalSimulations)
	assert.Equal(t, out.Metadata.RunID, md.RunID)
	assert.Equal(t, 12, md.NPeriods)
}

func TestListSimulations(t *testing.T) {
	r := NewRouter(Deps{Output: testSweep(t)})

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"all", "", 8},
		{"by monetary response", "?monetary_response=0.5", 4},
		{"two filters", "?monetary_response=0.5&productivity_shock=0.03", 2},
		{"limit", "?limit=3", 3},
		{"no match", "?persistence=0.5", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodGet, "/api/v1/simulations"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code)
			resp := decode[models.SimulationsResponse](t, w)
			assert.Equal(t, tt.want, resp.Count)
			assert.Len(t, resp.Simulations, tt.want)
		})
	}

	w := do(t, r, http.MethodGet, "/api/v1/simulations?limit=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListSimulations_FromIndex(t *testing.T) {
	out := testSweep(t)
	ix, err := store.OpenIndex(filepath.Join(t.TempDir(), store.IndexFile))
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })
	require.NoError(t, ix.Replace(context.Background(), out.Metadata.RunID, out.Simulations))

	r := NewRouter(Deps{Output: out, Index: ix})
	w := do(t, r, http.MethodGet, "/api/v1/simulations?persistence=0.95", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.SimulationsResponse](t, w)
	assert.Equal(t, 4, resp.Count)
	for _, row := range resp.Simulations {
		assert.Equal(t, 0.95, row.Persistence)
	}
}

func TestListSimulations_StaleIndex(t *testing.T) {
	previous := testSweep(t)
	current := testSweep(t)
	require.NotEqual(t, previous.Metadata.RunID, current.Metadata.RunID)

	ix, err := store.OpenIndex(filepath.Join(t.TempDir(), store.IndexFile))
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })
	require.NoError(t, ix.Replace(context.Background(), previous.Metadata.RunID, previous.Simulations))

	r := NewRouter(Deps{Output: current, Index: ix, Logger: zaptest.NewLogger(t)})
	w := do(t, r, http.MethodGet, "/api/v1/simulations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.SimulationsResponse](t, w)
	assert.Equal(t, current.Metadata.RunID, resp.RunID)
	assert.Equal(t, 8, resp.Count)

	w = do(t, r, http.MethodGet, "/api/v1/simulations?monetary_response=1.5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, decode[models.SimulationsResponse](t, w).Count)
}

func TestGetSimulation(t *testing.T) {
	out := testSweep(t)
	r := NewRouter(Deps{Output: out})

	w := do(t, r, http.MethodGet, "/api/v1/simulations/3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[scenario.Result](t, w)
	assert.Equal(t, 3, res.SimulationID)
	assert.Len(t, res.Data.Periods, 12)

	w = do(t, r, http.MethodGet, "/api/v1/simulations/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode[models.ErrorResponse](t, w).Error.Code)

	w = do(t, r, http.MethodGet, "/api/v1/simulations/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSummary(t *testing.T) {
	r := NewRouter(Deps{Output: testSweep(t)})
	w := do(t, r, http.MethodGet, "/api/v1/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rep struct {
		Overall struct {
			Count int `json:"count"`
		} `json:"overall"`
		Failed        int               `json:"failed"`
		ByShockSize   []json.RawMessage `json:"by_shock_size"`
		ByPersistence []json.RawMessage `json:"by_persistence"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rep))
	assert.Equal(t, 8, rep.Overall.Count)
	assert.Zero(t, rep.Failed)
	assert.Len(t, rep.ByShockSize, 2)
	assert.Len(t, rep.ByPersistence, 2)
}

func TestSimulate_Caches(t *testing.T) {
	r := NewRouter(Deps{Cache: store.NewResultCache(time.Minute)})
	body := map[string]any{
		"productivity_shock": 0.03,
		"persistence":        0.95,
		"monetary_response":  1.0,
		"n_periods":          20,
	}

	w := do(t, r, http.MethodPost, "/api/v1/simulate", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := decode[models.SimulateResponse](t, w)
	assert.False(t, first.Cached)
	assert.Len(t, first.Result.Data.Periods, 20)
	assert.Greater(t, first.Result.Summary.MaxGDPImpact, 0.0)

	w = do(t, r, http.MethodPost, "/api/v1/simulate", body)
	require.Equal(t, http.StatusOK, w.Code)
	second := decode[models.SimulateResponse](t, w)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Result, second.Result)
}

func TestSimulate_Defaults(t *testing.T) {
	r := NewRouter(Deps{})
	w := do(t, r, http.MethodPost, "/api/v1/simulate", map[string]any{
		"productivity_shock": 0.0,
		"persistence":        0.9,
		"monetary_response":  1.0,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[models.SimulateResponse](t, w)
	assert.False(t, resp.Cached)
	require.Len(t, resp.Result.Data.Periods, 40)
	for _, d := range resp.Result.Data.GDPDeviation {
		assert.InDelta(t, 0, d, 1e-12)
	}
}

func TestSimulate_Invalid(t *testing.T) {
	r := NewRouter(Deps{})
	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing monetary response", map[string]any{"productivity_shock": 0.03, "persistence": 0.9}},
		{"persistence above one", map[string]any{"productivity_shock": 0.03, "persistence": 1.5, "monetary_response": 1.0}},
		{"negative onset", map[string]any{"productivity_shock": 0.03, "persistence": 0.9, "monetary_response": 1.0, "shock_period": -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/api/v1/simulate", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestModel(t *testing.T) {
	r := NewRouter(Deps{})
	w := do(t, r, http.MethodGet, "/api/v1/model", nil)
	require.Equal(t, http.StatusOK, w.Code)
	info := decode[models.ModelInfo](t, w)
	assert.Equal(t, 4.0, info.SteadyState.Unemployment)

	byName := map[string]float64{}
	for _, p := range info.Parameters {
		byName[p.Name] = p.Value
	}
	assert.Equal(t, 1.5, byName["phi_pi"])
	assert.Equal(t, 0.8, byName["gap_persistence"])
}

func TestMetricsEndpoint(t *testing.T) {
	r := NewRouter(Deps{})
	w := do(t, r, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestCORSPreflight(t *testing.T) {
	r := NewRouter(Deps{})
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/simulate", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPanicRecovery(t *testing.T) {
	r := NewRouter(Deps{Logger: zaptest.NewLogger(t)})
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := do(t, r, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode[models.ErrorResponse](t, w)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	assert.Equal(t, "boom", resp.Error.Message)
}
