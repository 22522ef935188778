package sweep

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"frbus-sweep/internal/engine"
	"frbus-sweep/internal/scenario"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	modelClosedForm  = "FRB/US-Style Model (Federal Reserve Board US Model)"
	modelFull        = "FRB/US (Federal Reserve Board US Model)"
	descriptionSweep = "Simplified macro model capturing FRB/US-like dynamics"
)

// Options configure a Driver. Zero values pick defaults.
type Options struct {
	// Workers bounds concurrent scenarios; 0 means GOMAXPROCS.
	Workers int
	// ProgressEvery logs progress after this many completed scenarios; 0 means 25.
	ProgressEvery int
	Logger        *zap.Logger
	// Now stamps the metadata; defaults to time.Now.
	Now func() time.Time
}

// Driver evaluates a backend over every point of a grid.
type Driver struct {
	backend       engine.Backend
	workers       int
	progressEvery int
	log           *zap.Logger
	now           func() time.Time
}

func NewDriver(backend engine.Backend, opts Options) *Driver {
	d := &Driver{
		backend:       backend,
		workers:       opts.Workers,
		progressEvery: opts.ProgressEvery,
		log:           opts.Logger,
		now:           opts.Now,
	}
	if d.workers <= 0 {
		d.workers = runtime.GOMAXPROCS(0)
	}
	if d.progressEvery <= 0 {
		d.progressEvery = 25
	}
	if d.log == nil {
		d.log = zap.NewNop()
	}
	if d.now == nil {
		d.now = time.Now
	}
	return d
}

// Run sweeps the grid. A failing backend call never aborts the sweep: the
// point is recorded as a placeholder carrying the error. Run itself fails
// only on invalid input or when ctx is cancelled.
func (d *Driver) Run(ctx context.Context, grid Grid, nPeriods, onset int) (*Output, error) {
	if d.backend == nil {
		return nil, errors.New("backend is nil")
	}
	if err := grid.Validate(); err != nil {
		return nil, fmt.Errorf("invalid grid: %w", err)
	}
	if nPeriods < 1 {
		return nil, fmt.Errorf("n_periods must be >= 1, got %d", nPeriods)
	}
	if onset < 0 {
		return nil, fmt.Errorf("shock period must be >= 0, got %d", onset)
	}

	points := grid.Points(onset)
	total := len(points)
	results := make([]scenario.Result, total)
	backendName := d.backend.Name()

	d.log.Info("sweep starting",
		zap.String("backend", backendName),
		zap.Int("total", total),
		zap.Int("n_periods", nPeriods),
		zap.Int("shock_period", onset),
		zap.Int("workers", d.workers))
	SweepProgress.Set(0)

	var done, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	for _, pt := range points {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Each point owns its slot, so results stay in id order without locking.
			r := d.runPoint(gctx, pt, nPeriods, backendName)
			results[pt.ID-1] = r
			if r.Failed() {
				failed.Add(1)
			}
			n := done.Add(1)
			SweepProgress.Set(float64(n) / float64(total))
			if n%int64(d.progressEvery) == 0 || n == int64(total) {
				d.log.Info("progress", zap.Int64("completed", n), zap.Int("total", total))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("sweep aborted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("sweep aborted: %w", err)
	}

	out := &Output{
		Metadata: Metadata{
			Date:              d.now().Format(time.RFC3339),
			Model:             modelClosedForm,
			Description:       descriptionSweep,
			RunID:             uuid.NewString(),
			Backend:           backendName,
			TotalSimulations:  total,
			FailedSimulations: int(failed.Load()),
			NPeriods:          nPeriods,
			ShockPeriod:       onset,
			Parameters: Parameters{
				ProductivityShockSizes: grid.ProductivityShocks,
				ShockPersistence:       grid.Persistence,
				MonetaryResponse:       grid.MonetaryResponse,
			},
		},
		Simulations: results,
	}
	if sp, ok := d.backend.(interface{ StartPeriod() string }); ok {
		out.Metadata.Model = modelFull
		out.Metadata.StartPeriod = sp.StartPeriod()
	}

	d.log.Info("sweep complete",
		zap.String("run_id", out.Metadata.RunID),
		zap.Int("total", total),
		zap.Int("failed", out.Metadata.FailedSimulations))
	return out, nil
}

func (d *Driver) runPoint(ctx context.Context, pt Point, nPeriods int, backendName string) scenario.Result {
	start := time.Now()
	res := d.backend.Run(ctx, nPeriods, pt.Shock, pt.Policy)
	ScenarioDuration.WithLabelValues(backendName).Observe(time.Since(start).Seconds())

	err := res.Err
	if err == nil {
		err = checkPath(res, nPeriods)
	}
	if err != nil && ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		// The sweep is aborting; this point is not a backend failure.
		return scenario.Placeholder(pt.Shock, pt.Policy, pt.ID, nPeriods, err)
	}
	if err != nil {
		ScenariosTotal.WithLabelValues(backendName, "failed").Inc()
		d.log.Warn("simulation failed",
			zap.Int("simulation_id", pt.ID),
			zap.Float64("productivity_shock", pt.Shock.ShockSize),
			zap.Float64("persistence", pt.Shock.Persistence),
			zap.Float64("monetary_response", pt.Policy.MonetaryResponse),
			zap.Error(err))
		return scenario.Placeholder(pt.Shock, pt.Policy, pt.ID, nPeriods, err)
	}

	ScenariosTotal.WithLabelValues(backendName, "ok").Inc()
	return scenario.Evaluate(res.Path, pt.Shock, pt.Policy, pt.ID)
}

func checkPath(res engine.Outcome, nPeriods int) error {
	if err := res.Path.Validate(); err != nil {
		return fmt.Errorf("backend returned malformed path: %w", err)
	}
	if res.Path.Len() != nPeriods {
		return fmt.Errorf("backend returned %d periods, want %d", res.Path.Len(), nPeriods)
	}
	return nil
}
