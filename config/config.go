// SPDX-License-Identifier: MIT

// Package config loads the YAML configuration of the oed command.
package config

import (
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/oed/doe"
	"github.com/katalvlaran/oed/fim"
	"github.com/katalvlaran/oed/nlp"
	"github.com/katalvlaran/oed/scenario"
	"github.com/katalvlaran/oed/sensitivity"
)

// Config is the whole oed configuration.
type Config struct {
	Design    DesignConfig    `yaml:"design"`
	Factorial FactorialConfig `yaml:"factorial"`
	Solver    SolverConfig    `yaml:"solver"`
	Reactor   ReactorConfig   `yaml:"reactor"`
	Logging   LoggingConfig   `yaml:"logging"`

	// ResultsFile is where optimize writes its report (.json, .yaml or .yml).
	ResultsFile string `yaml:"results_file"`
	Timeout     string `yaml:"timeout"`
}

// DesignConfig mirrors the doe.Design options.
type DesignConfig struct {
	Formula            string      `yaml:"formula"`
	Step               float64     `yaml:"step"`
	RelativeStep       bool        `yaml:"relative_step"`
	Objective          string      `yaml:"objective"`
	ScaleConstant      float64     `yaml:"scale_constant_value"`
	ScaleNominalParams bool        `yaml:"scale_nominal_param_value"`
	Cholesky           bool        `yaml:"cholesky"`
	LowerOnly          bool        `yaml:"only_compute_fim_lower"`
	LLowerBound        float64     `yaml:"L_LB"`
	PriorFIM           [][]float64 `yaml:"prior_fim"`
	PriorMerge         string      `yaml:"prior_merge"` // replace, add
	Method             string      `yaml:"method"`      // sequential, simultaneous
}

// FactorialConfig configures a factorial scan and its figure.
type FactorialConfig struct {
	Ranges      map[string]Range   `yaml:"design_ranges"`
	Sensitivity []string           `yaml:"sensitivity_design_variables"`
	Fixed       map[string]float64 `yaml:"fixed_design_variables"`
	Title       string             `yaml:"title"`
}

// SolverConfig configures the reference solver.
type SolverConfig struct {
	Tolerance         float64 `yaml:"tolerance"`
	MaxIterations     int     `yaml:"max_iterations"`
	Workers           int     `yaml:"workers"` // 0: one per CPU
	DesignEvaluations int     `yaml:"design_evaluations"`
}

// ReactorConfig holds the nominal conditions of the reference reactor.
type ReactorConfig struct {
	CA0              float64 `yaml:"ca0"`
	T0               float64 `yaml:"t0"`
	T1               float64 `yaml:"t1"`
	MeasurementError float64 `yaml:"measurement_error"`
	Substeps         int     `yaml:"substeps"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() *Config {
	return &Config{
		Design: DesignConfig{
			Formula:       string(doe.DefaultFormula),
			Step:          doe.DefaultStep,
			RelativeStep:  true,
			Objective:     string(doe.DefaultObjective),
			ScaleConstant: doe.DefaultScaleConstant,
			Cholesky:      doe.DefaultCholesky,
			LowerOnly:     doe.DefaultLowerOnly,
			LLowerBound:   doe.DefaultLLowerBound,
			PriorMerge:    doe.PriorReplace.String(),
			Method:        string(sensitivity.Sequential),
		},
		Solver: SolverConfig{
			Tolerance:         nlp.DefaultTolerance,
			MaxIterations:     nlp.DefaultMaxIterations,
			DesignEvaluations: nlp.DefaultDesignEvaluations,
		},
		Reactor: ReactorConfig{
			CA0:              5,
			T0:               500,
			T1:               300,
			MeasurementError: 1e-2,
			Substeps:         4,
		},
		Logging: LoggingConfig{Level: "info"},
		Timeout: "10m",
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err = yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()

	return cfg, nil
}

// applyEnvOverrides lets the environment redirect results and logging.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("OED_RESULTS_FILE"); v != "" {
		c.ResultsFile = v
	}
	if v := os.Getenv("OED_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks every value before anything is built. The first problem
// is reported.
func (c *Config) Validate() error {
	d := c.Design
	if !scenario.Formula(d.Formula).Valid() {
		return fmt.Errorf("%w: formula %q, want one of %v", ErrInvalid, d.Formula, scenario.Formulas())
	}
	if d.Step <= 0 || math.IsNaN(d.Step) || math.IsInf(d.Step, 0) {
		return fmt.Errorf("%w: step %g", ErrInvalid, d.Step)
	}
	if _, err := fim.ParseCriterion(d.Objective); err != nil {
		return err
	}
	if _, err := sensitivity.ParseMethod(d.Method); err != nil {
		return err
	}
	if d.ScaleConstant == 0 || math.IsNaN(d.ScaleConstant) {
		return fmt.Errorf("%w: scale_constant_value must be non-zero", ErrInvalid)
	}
	if !(d.LLowerBound >= 0) {
		return fmt.Errorf("%w: L_LB %g", ErrInvalid, d.LLowerBound)
	}
	if _, err := d.merge(); err != nil {
		return err
	}
	for i, row := range d.PriorFIM {
		if len(row) != len(d.PriorFIM) {
			return fmt.Errorf("%w: prior_fim row %d has %d entries, want %d", ErrInvalid, i, len(row), len(d.PriorFIM))
		}
	}

	for _, name := range sortedKeys(c.Factorial.Ranges) {
		if _, err := c.Factorial.Ranges[name].Range().Values(); err != nil {
			return fmt.Errorf("design_ranges %q: %w", name, err)
		}
	}

	s := c.Solver
	if !(s.Tolerance > 0) || math.IsInf(s.Tolerance, 0) || s.MaxIterations <= 0 || s.Workers < 0 || s.DesignEvaluations <= 0 {
		return fmt.Errorf("%w: solver tolerance %g, max_iterations %d, workers %d, design_evaluations %d",
			ErrInvalid, s.Tolerance, s.MaxIterations, s.Workers, s.DesignEvaluations)
	}
	if c.Reactor.Substeps <= 0 {
		return fmt.Errorf("%w: reactor substeps %d", ErrInvalid, c.Reactor.Substeps)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging level: %w", ErrInvalid, err)
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}

	return nil
}

func (d DesignConfig) merge() (doe.PriorMerge, error) {
	switch d.PriorMerge {
	case "", doe.PriorReplace.String():
		return doe.PriorReplace, nil
	case doe.PriorAdd.String():
		return doe.PriorAdd, nil
	}

	return 0, fmt.Errorf("%w: prior_merge %q, want replace or add", ErrInvalid, d.PriorMerge)
}

// Options translates the design section into doe options. The solver and
// logger are attached as given.
func (c *Config) Options(solver nlp.Solver, logger *zap.Logger) []doe.Option {
	d := c.Design
	merge, _ := d.merge()
	opts := []doe.Option{
		doe.WithFormula(d.Formula),
		doe.WithStep(d.Step),
		doe.WithRelativeStep(d.RelativeStep),
		doe.WithObjective(d.Objective),
		doe.WithScaleConstant(d.ScaleConstant),
		doe.WithScaleNominalParams(d.ScaleNominalParams),
		doe.WithCholesky(d.Cholesky),
		doe.WithLowerOnly(d.LowerOnly),
		doe.WithLLowerBound(d.LLowerBound),
		doe.WithPriorMerge(merge),
		doe.WithSolver(solver),
		doe.WithLogger(logger),
	}
	if n := len(d.PriorFIM); n > 0 {
		prior := mat.NewDense(n, n, nil)
		for i, row := range d.PriorFIM {
			prior.SetRow(i, row)
		}
		opts = append(opts, doe.WithPriorFIM(prior))
	}

	return opts
}

// NewSolver builds the reference solver from the solver section.
func (c *Config) NewSolver(logger *zap.Logger) *nlp.Local {
	opts := []nlp.LocalOption{
		nlp.WithTolerance(c.Solver.Tolerance),
		nlp.WithMaxIterations(c.Solver.MaxIterations),
		nlp.WithDesignEvaluations(c.Solver.DesignEvaluations),
		nlp.WithLogger(logger),
	}
	if c.Solver.Workers > 0 {
		opts = append(opts, nlp.WithWorkers(c.Solver.Workers))
	}

	return nlp.NewLocal(opts...)
}

// Ranges returns the factorial ranges in doe form.
func (c *Config) Ranges() map[string]doe.Range {
	out := make(map[string]doe.Range, len(c.Factorial.Ranges))
	for name, r := range c.Factorial.Ranges {
		out[name] = r.Range()
	}

	return out
}

// TimeoutDuration parses Timeout; an empty value means no timeout.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: timeout %q", ErrInvalid, c.Timeout)
	}

	return d, nil
}

// NewLogger builds a production zap logger at the configured level
// (development encoder when asked). verbose forces debug.
func (c *Config) NewLogger(verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Logging.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: logging level: %w", ErrInvalid, err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("config: build logger: %w", err)
	}

	return logger, nil
}

func sortedKeys(m map[string]Range) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
