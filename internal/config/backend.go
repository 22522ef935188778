package config

import (
	"errors"
	"fmt"
	"io/fs"

	"frbus-sweep/internal/engine"

	"go.uber.org/zap"
)

// NewBackend builds the configured simulation backend. A dataset backend whose
// file does not exist runs on a synthetic baseline instead.
func (c *Config) NewBackend(log *zap.Logger) (engine.Backend, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := c.ModelStructure()
	e := engine.New(&s)

	switch c.Backend.Name {
	case BackendClosedForm, "":
		return e, nil
	case BackendDataset:
		data, err := c.loadDataset(log)
		if err != nil {
			return nil, err
		}
		return engine.NewDatasetBackend(engine.NewReducedFormSolver(e), data, c.Backend.StartPeriod, e.Structure())
	default:
		return nil, fmt.Errorf("%w: unsupported backend %q", ErrInvalid, c.Backend.Name)
	}
}

func (c *Config) loadDataset(log *zap.Logger) (*engine.Dataset, error) {
	b := c.Backend
	if b.DatasetPath != "" {
		data, err := engine.LoadDatasetCSV(b.DatasetPath)
		if err == nil {
			log.Info("dataset loaded",
				zap.String("path", b.DatasetPath),
				zap.Int("periods", data.Len()),
				zap.Strings("columns", data.Columns()))
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load dataset: %w", err)
		}
		log.Warn("dataset not found, using synthetic baseline", zap.String("path", b.DatasetPath))
	}
	first, n := b.SyntheticFirstYear, b.SyntheticPeriods
	if first == 0 {
		first = 2020
	}
	if n <= 0 {
		n = 100
	}
	return engine.SyntheticDataset(first, n), nil
}
