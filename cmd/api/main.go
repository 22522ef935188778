package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"frbus-sweep/internal/api"
	"frbus-sweep/internal/config"
	"frbus-sweep/internal/engine"
	"frbus-sweep/internal/store"
	"frbus-sweep/internal/sweep"

	"github.com/caarlos0/env/v11"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// serverEnv is the process environment of the API server. Model and artifact
// settings come from the sweep config (FRBUS_CONFIG plus FRBUS_* overrides).
type serverEnv struct {
	Port           string        `env:"API_PORT" envDefault:"8080"`
	Mode           string        `env:"API_ENV" envDefault:"development"`
	ConfigPath     string        `env:"FRBUS_CONFIG"`
	CacheTTL       time.Duration `env:"FRBUS_CACHE_TTL" envDefault:"10m"`
	AllowedOrigins []string      `env:"API_CORS_ORIGINS" envSeparator:","`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	var se serverEnv
	if err := env.Parse(&se); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	var log *zap.Logger
	var err error
	if se.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(se.ConfigPath)
	if err != nil {
		return err
	}
	s := cfg.ModelStructure()

	out, err := loadSweep(cfg.OutputDir, log)
	if err != nil {
		return err
	}
	index, err := openIndex(cfg.OutputDir, log)
	if err != nil {
		return err
	}
	if index != nil {
		defer index.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cache := store.NewResultCache(se.CacheTTL)
	go cache.RunCleanup(ctx, time.Minute)

	router := api.NewRouter(api.Deps{
		Output:         out,
		Index:          index,
		Engine:         engine.New(&s),
		Cache:          cache,
		Logger:         log,
		AllowedOrigins: se.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + se.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting API server", zap.String("addr", srv.Addr), zap.String("output_dir", cfg.OutputDir))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// loadSweep returns nil without error when no sweep has been written yet.
func loadSweep(dir string, log *zap.Logger) (*sweep.Output, error) {
	path := filepath.Join(dir, store.FullFile)
	out, err := store.LoadFull(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn("no sweep results found; sweep endpoints will return 404", zap.String("path", path))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	log.Info("sweep loaded",
		zap.String("path", path),
		zap.String("run_id", out.Metadata.RunID),
		zap.Int("simulations", len(out.Simulations)))
	return out, nil
}

func openIndex(dir string, log *zap.Logger) (*store.Index, error) {
	path := filepath.Join(dir, store.IndexFile)
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}
	ix, err := store.OpenIndex(path)
	if err != nil {
		return nil, err
	}
	log.Info("lookup index opened", zap.String("path", path))
	return ix, nil
}
