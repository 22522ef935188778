package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"frbus-sweep/internal/model"
	"frbus-sweep/internal/sweep"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Backend names.
const (
	BackendClosedForm = "closed_form"
	BackendDataset    = "dataset"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	OutputDir     string          `yaml:"output_dir" env:"FRBUS_OUTPUT_DIR"`
	NPeriods      int             `yaml:"n_periods" env:"FRBUS_N_PERIODS"`
	ShockPeriod   int             `yaml:"shock_period" env:"FRBUS_SHOCK_PERIOD"`
	Workers       int             `yaml:"workers" env:"FRBUS_WORKERS"`
	ProgressEvery int             `yaml:"progress_every"`
	Grids         GridConfig      `yaml:"grids"`
	Backend       BackendConfig   `yaml:"backend"`
	Structure     StructureConfig `yaml:"structure"`
	Exports       ExportsConfig   `yaml:"exports"`
}

type GridConfig struct {
	ProductivityShockSizes []float64 `yaml:"productivity_shock_sizes"`
	ShockPersistence       []float64 `yaml:"shock_persistence"`
	MonetaryResponse       []float64 `yaml:"monetary_response"`
}

// BackendConfig selects how each scenario is simulated.
// dataset runs the tracked-dataset solver; DatasetPath empty (or missing on
// disk) falls back to a synthetic flat baseline starting SyntheticFirstYear.
type BackendConfig struct {
	Name               string `yaml:"name" env:"FRBUS_BACKEND"`
	DatasetPath        string `yaml:"dataset_path" env:"FRBUS_DATASET_PATH"`
	StartPeriod        string `yaml:"start_period"`
	SyntheticFirstYear int    `yaml:"synthetic_first_year"`
	SyntheticPeriods   int    `yaml:"synthetic_periods"`
}

// StructureConfig overrides structural constants; unset fields keep defaults.
type StructureConfig struct {
	Beta              *float64 `yaml:"beta"`
	Sigma             *float64 `yaml:"sigma"`
	Alpha             *float64 `yaml:"alpha"`
	Delta             *float64 `yaml:"delta"`
	RhoA              *float64 `yaml:"rho_a"`
	PhiPi             *float64 `yaml:"phi_pi"`
	PhiY              *float64 `yaml:"phi_y"`
	GapPersistence    *float64 `yaml:"gap_persistence"`
	TFPPassThrough    *float64 `yaml:"tfp_pass_through"`
	InflationInertia  *float64 `yaml:"inflation_inertia"`
	GapInflation      *float64 `yaml:"gap_inflation"`
	TFPInflation      *float64 `yaml:"tfp_inflation"`
	OkunCoefficient   *float64 `yaml:"okun_coefficient"`
	TrendGrowth       *float64 `yaml:"trend_growth"`
	UnemploymentFloor *float64 `yaml:"unemployment_floor"`
	UnemploymentCap   *float64 `yaml:"unemployment_cap"`
}

type ExportsConfig struct {
	LookupCSV   bool `yaml:"lookup_csv"`
	SQLiteIndex bool `yaml:"sqlite_index"`
}

// Default reproduces the reference sweep: 5x5x5 grid, 40 quarters, shock in period 6.
func Default() *Config {
	return &Config{
		OutputDir:     "frbus_simulations",
		NPeriods:      40,
		ShockPeriod:   6,
		Workers:       0,
		ProgressEvery: 25,
		Grids: GridConfig{
			ProductivityShockSizes: []float64{0.01, 0.02, 0.03, 0.05, 0.08},
			ShockPersistence:       []float64{0.90, 0.93, 0.95, 0.97, 0.98},
			MonetaryResponse:       []float64{0.5, 1.0, 1.5, 2.0, 2.5},
		},
		Backend: BackendConfig{
			Name:               BackendClosedForm,
			DatasetPath:        "pyfrbus/data/LONGBASE.TXT",
			StartPeriod:        "2025Q1",
			SyntheticFirstYear: 2020,
			SyntheticPeriods:   100,
		},
	}
}

// Load reads path over the defaults, applies environment overrides and validates.
// An empty path means defaults plus environment.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		// Relative dataset paths are resolved against the config file when that file exists.
		if p := c.Backend.DatasetPath; p != "" && !filepath.IsAbs(p) {
			cand := filepath.Join(filepath.Dir(path), p)
			if _, err := os.Stat(cand); err == nil {
				c.Backend.DatasetPath = cand
			}
		}
	}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalid)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output_dir is required", ErrInvalid)
	}
	if c.NPeriods < 1 {
		return fmt.Errorf("%w: n_periods must be >= 1", ErrInvalid)
	}
	if c.ShockPeriod < 0 {
		return fmt.Errorf("%w: shock_period must be >= 0", ErrInvalid)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0", ErrInvalid)
	}
	if err := c.Grid().Validate(); err != nil {
		return fmt.Errorf("%w: grids: %v", ErrInvalid, err)
	}
	switch c.Backend.Name {
	case BackendClosedForm:
	case BackendDataset:
		if c.Backend.StartPeriod == "" {
			return fmt.Errorf("%w: backend.start_period is required for the dataset backend", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unsupported backend %q", ErrInvalid, c.Backend.Name)
	}
	s := c.ModelStructure()
	if s.UnemploymentFloor > s.UnemploymentCap {
		return fmt.Errorf("%w: structure.unemployment_floor exceeds unemployment_cap", ErrInvalid)
	}
	return nil
}

func (c *Config) Grid() sweep.Grid {
	return sweep.Grid{
		ProductivityShocks: c.Grids.ProductivityShockSizes,
		Persistence:        c.Grids.ShockPersistence,
		MonetaryResponse:   c.Grids.MonetaryResponse,
	}
}

// ModelStructure is the default structure with configured overrides applied.
func (c *Config) ModelStructure() model.Structure {
	return MergeStructure(model.DefaultStructure(), c.Structure)
}

// MergeStructure overlays the fields set in o onto base. An explicit zero is kept.
func MergeStructure(base model.Structure, o StructureConfig) model.Structure {
	out := base
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&out.Beta, o.Beta)
	set(&out.Sigma, o.Sigma)
	set(&out.Alpha, o.Alpha)
	set(&out.Delta, o.Delta)
	set(&out.RhoA, o.RhoA)
	set(&out.PhiPi, o.PhiPi)
	set(&out.PhiY, o.PhiY)
	set(&out.GapPersistence, o.GapPersistence)
	set(&out.TFPPassThrough, o.TFPPassThrough)
	set(&out.InflationInertia, o.InflationInertia)
	set(&out.GapInflation, o.GapInflation)
	set(&out.TFPInflation, o.TFPInflation)
	set(&out.OkunCoefficient, o.OkunCoefficient)
	set(&out.TrendGrowth, o.TrendGrowth)
	set(&out.UnemploymentFloor, o.UnemploymentFloor)
	set(&out.UnemploymentCap, o.UnemploymentCap)
	return out
}
