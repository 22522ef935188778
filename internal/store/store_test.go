package store

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"frbus-sweep/internal/engine"
	"frbus-sweep/internal/scenario"
	"frbus-sweep/internal/sweep"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallSweep(t *testing.T) *sweep.Output {
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

func TestWriteAndLoadFull(t *testing.T) {
	out := smallSweep(t)
	path := filepath.Join(t.TempDir(), "nested", FullFile)
	require.NoError(t, WriteFull(path, out))

	loaded, err := LoadFull(path)
	require.NoError(t, err)
	assert.Equal(t, out.Metadata, loaded.Metadata)
	assert.Equal(t, out.Simulations, loaded.Simulations)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	md := m["metadata"].(map[string]any)
	assert.EqualValues(t, 8, md["total_simulations"])
	assert.Contains(t, md, "parameters")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestWriteLookup(t *testing.T) {
	out := smallSweep(t)
	path := filepath.Join(t.TempDir(), LookupFile)
	require.NoError(t, WriteLookup(path, out))

	lt, err := LoadLookup(path)
	require.NoError(t, err)
	require.Len(t, lt.Simulations, 8)
	for i, row := range lt.Simulations {
		assert.Equal(t, out.Simulations[i].Lookup(), row)
	}

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var m map[string][]map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Len(t, m["simulations"][0], 6)
}

func TestWriteFull_Nil(t *testing.T) {
	assert.Error(t, WriteFull(filepath.Join(t.TempDir(), FullFile), nil))
	assert.Error(t, WriteLookup(filepath.Join(t.TempDir(), LookupFile), nil))
}

func TestWriteFull_UnwritableDir(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	err := WriteFull(filepath.Join(blocker, FullFile), smallSweep(t))
	assert.Error(t, err)
}

func TestWriteLookupCSV(t *testing.T) {
	out := smallSweep(t)
	path := filepath.Join(t.TempDir(), CSVFile)
	require.NoError(t, WriteLookupCSV(path, out.Lookup()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 9)
	assert.Equal(t, "simulation_id", recs[0][0])
	assert.Equal(t, []string{"1", "0.01", "0.9", "0.5"}, recs[1][:4])
	assert.Equal(t, "8", recs[8][0])
}

func TestIndex_ReplaceAndQuery(t *testing.T) {
	out := smallSweep(t)
	ix, err := OpenIndex(filepath.Join(t.TempDir(), IndexFile))
	require.NoError(t, err)
	defer ix.Close()
	ctx := context.Background()

	require.NoError(t, ix.Replace(ctx, out.Metadata.RunID, out.Simulations))
	// Replacing the same run does not duplicate rows.
	require.NoError(t, ix.Replace(ctx, out.Metadata.RunID, out.Simulations))

	all, err := ix.Query(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, out.Lookup(), all)

	shock := 0.03
	m := 1.5
	rows, err := ix.Query(ctx, Filter{RunID: out.Metadata.RunID, ProductivityShock: &shock, MonetaryResponse: &m})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []int{6, 8}, []int{rows[0].SimulationID, rows[1].SimulationID})

	limited, err := ix.Query(ctx, Filter{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, limited, 3)

	assert.Error(t, ix.Replace(ctx, " ", out.Simulations))

	ok, err := ix.HasRun(ctx, out.Metadata.RunID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = ix.HasRun(ctx, "some-other-run")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpenIndex_EmptyPath(t *testing.T) {
	_, err := OpenIndex("  ")
	assert.Error(t, err)
}

func TestResultCache(t *testing.T) {
	c := NewResultCache(time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	key := CacheKey(40, 6, 0.03, 0.95, 1.5)
	assert.Equal(t, "40:6:0.03:0.95:1.5", key)

	_, ok := c.Get(key)
	assert.False(t, ok)

	c.Set(key, scenario.Result{SimulationID: 1})
	r, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, 1, r.SimulationID)
	assert.Equal(t, 1, c.Len())

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(key)
	assert.False(t, ok)
	assert.Equal(t, 1, c.Prune())
	assert.Equal(t, 0, c.Len())
}

func TestResultCache_Disabled(t *testing.T) {
	c := NewResultCache(0)
	assert.Nil(t, c)
	c.Set("k", scenario.Result{})
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Prune())
	c.RunCleanup(context.Background(), time.Second)
}

func TestResultCache_RunCleanupStops(t *testing.T) {
	c := NewResultCache(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.RunCleanup(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup did not stop")
	}
}
