// SPDX-License-Identifier: MIT

// Package config loads the knockout CLI configuration: defaults, then a YAML
// file, then environment overrides, then validation.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/knockout/knockout"
	"github.com/katalvlaran/knockout/lp"
)

// Environment variables that override the file.
const (
	EnvModel    = "KNOCKOUT_MODEL"
	EnvLogLevel = "KNOCKOUT_LOG_LEVEL"
	EnvWorkers  = "KNOCKOUT_WORKERS"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

var validate = newValidator()

// newValidator builds the validator with the custom "finite" tag.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("finite", validateFinite)

	return v
}

// validateFinite rejects NaN and ±Inf, which YAML spells .nan and .inf.
func validateFinite(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Config is the complete CLI configuration.
type Config struct {
	Model           string             `yaml:"model"`
	CarbonSource    CarbonSourceConfig `yaml:"carbon_source"`
	ReferenceGrowth float64            `yaml:"reference_growth" validate:"finite,gt=0"`
	KillThreshold   float64            `yaml:"kill_threshold" validate:"finite,gte=0"`
	Organism        string             `yaml:"organism" validate:"required"`
	Solver          SolverConfig       `yaml:"solver"`
	Sweep           SweepConfig        `yaml:"sweep"`
	Log             LogConfig          `yaml:"log"`
}

// CarbonSourceConfig names the exchange reaction opened at start. An empty
// reaction leaves the model's bounds as loaded.
type CarbonSourceConfig struct {
	Reaction string  `yaml:"reaction"`
	Uptake   float64 `yaml:"uptake" validate:"finite,gte=0"`
}

// SolverConfig configures lp.Simplex.
type SolverConfig struct {
	Presolve  bool    `yaml:"presolve"`
	Tolerance float64 `yaml:"tolerance" validate:"finite,gt=0,lt=1"`
}

// SweepConfig configures knockout.Sweep.
type SweepConfig struct {
	Workers int `yaml:"workers" validate:"gte=1,lte=1024"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// DefaultConfig returns the configuration of the classic E. coli core demo.
func DefaultConfig() *Config {
	return &Config{
		CarbonSource: CarbonSourceConfig{
			Reaction: knockout.DefaultCarbonSource,
			Uptake:   knockout.DefaultUptake,
		},
		ReferenceGrowth: knockout.DefaultReferenceGrowth,
		KillThreshold:   knockout.DefaultKillThreshold,
		Organism:        knockout.DefaultOrganism,
		Solver: SolverConfig{
			Presolve:  lp.DefaultPresolve,
			Tolerance: lp.DefaultTolerance,
		},
		Sweep: SweepConfig{Workers: 4},
		Log:   LogConfig{Level: "info"},
	}
}

// Load reads configuration from a YAML file. A missing file (or an empty
// path) yields the defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks the struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: %s", strings.TrimPrefix(fe.Namespace(), "Config."), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(EnvModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, EnvWorkers, v, err)
		}
		c.Sweep.Workers = n
	}

	return nil
}

// SolverOptions maps the solver section to lp options.
func (c *Config) SolverOptions() []lp.Option {
	return []lp.Option{
		lp.WithPresolve(c.Solver.Presolve),
		lp.WithTolerance(c.Solver.Tolerance),
	}
}

// SessionOptions maps the configuration to knockout options. The solver is
// built from the solver section with the given logger.
func (c *Config) SessionOptions(opts ...lp.Option) []knockout.Option {
	solver := lp.NewSimplex(append(c.SolverOptions(), opts...)...)

	return []knockout.Option{
		knockout.WithCarbonSource(c.CarbonSource.Reaction, c.CarbonSource.Uptake),
		knockout.WithReferenceGrowth(c.ReferenceGrowth),
		knockout.WithKillThreshold(c.KillThreshold),
		knockout.WithOrganism(c.Organism),
		knockout.WithSolver(solver),
		knockout.WithWorkers(c.Sweep.Workers),
	}
}
