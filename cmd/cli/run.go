package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"frbus-sweep/internal/analysis"
	"frbus-sweep/internal/config"
	"frbus-sweep/internal/store"
	"frbus-sweep/internal/sweep"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runFlags struct {
	config  string
	out     string
	backend string
	workers int
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full parameter sweep and write the result artifacts",
	Long: `Runs every combination of shock size, persistence and monetary response,
then writes the full-data and lookup JSON files into the output directory.
Optional CSV and SQLite lookup exports are controlled by the config file.`,
	Args: cobra.NoArgs,
	RunE: runSweep,
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runFlags.config, "config", "c", "", "Path to YAML config (defaults apply when empty)")
	f.StringVarP(&runFlags.out, "out", "o", "", "Output directory (overrides config)")
	f.StringVar(&runFlags.backend, "backend", "", "Simulation backend: closed_form or dataset (overrides config)")
	f.IntVarP(&runFlags.workers, "workers", "w", 0, "Concurrent scenarios (overrides config)")
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadUnchecked(runFlags.config)
	if err != nil {
		return err
	}
	if runFlags.out != "" {
		cfg.OutputDir = runFlags.out
	}
	if runFlags.backend != "" {
		cfg.Backend.Name = runFlags.backend
	}
	if runFlags.workers > 0 {
		cfg.Workers = runFlags.workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	backend, err := cfg.NewBackend(logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := cmd.OutOrStdout()
	grid := cfg.Grid()
	printHeader(w, grid, cfg.NPeriods, cfg.ShockPeriod)

	driver := sweep.NewDriver(backend, sweep.Options{
		Workers:       cfg.Workers,
		ProgressEvery: cfg.ProgressEvery,
		Logger:        logger,
	})
	out, err := driver.Run(ctx, grid, cfg.NPeriods, cfg.ShockPeriod)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "All simulations complete!")
	fmt.Fprintln(w)

	if err := writeArtifacts(ctx, w, cfg, out); err != nil {
		return err
	}
	printSummary(w, analysis.Summarize(out.Simulations))
	return nil
}

func writeArtifacts(ctx context.Context, w io.Writer, cfg *config.Config, out *sweep.Output) error {
	fullPath := filepath.Join(cfg.OutputDir, store.FullFile)
	if err := store.WriteFull(fullPath, out); err != nil {
		return err
	}
	size := int64(0)
	if info, err := os.Stat(fullPath); err == nil {
		size = info.Size()
	}
	fmt.Fprintf(w, "Saved: %s (%.1f MB)\n", fullPath, float64(size)/1024/1024)

	lookupPath := filepath.Join(cfg.OutputDir, store.LookupFile)
	if err := store.WriteLookup(lookupPath, out); err != nil {
		return err
	}
	fmt.Fprintf(w, "Saved: %s\n", lookupPath)

	if cfg.Exports.LookupCSV {
		p := filepath.Join(cfg.OutputDir, store.CSVFile)
		if err := store.WriteLookupCSV(p, out.Lookup()); err != nil {
			return err
		}
		fmt.Fprintf(w, "Saved: %s\n", p)
	}
	if cfg.Exports.SQLiteIndex {
		p := filepath.Join(cfg.OutputDir, store.IndexFile)
		if err := buildIndex(ctx, p, out); err != nil {
			return err
		}
		fmt.Fprintf(w, "Saved: %s\n", p)
	} else if err := removeIndex(filepath.Join(cfg.OutputDir, store.IndexFile)); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}

// removeIndex deletes an index left by an earlier run so it cannot be served
// alongside newer artifacts.
func removeIndex(path string) error {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove stale index: %w", err)
		}
	}
	logger.Debug("stale lookup index removed", zap.String("path", path))
	return nil
}

func buildIndex(ctx context.Context, path string, out *sweep.Output) error {
	ix, err := store.OpenIndex(path)
	if err != nil {
		return err
	}
	defer ix.Close()
	if err := ix.Replace(ctx, out.Metadata.RunID, out.Simulations); err != nil {
		return err
	}
	logger.Debug("lookup index written", zap.String("path", path), zap.Int("rows", len(out.Simulations)))
	return nil
}
