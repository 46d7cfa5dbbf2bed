// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/oed/config"
	"github.com/katalvlaran/oed/doe"
	"github.com/katalvlaran/oed/examples/reactor"
)

// app is the state shared by the subcommands of one invocation.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCommand returns the oed command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "oed",
		Short: "Optimal experimental design for the reference batch reactor",
		Long: `oed estimates how informative a batch-reactor experiment is about its
kinetic parameters (A1, A2, E1, E2) through the Fisher information matrix.

  fim        FIM and its metrics at the configured conditions
  factorial  FIM metrics over a grid of design conditions
  optimize   search the conditions that maximize the design criterion`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML configuration file (defaults when empty)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newFIMCommand(a),
		newFactorialCommand(a),
		newOptimizeCommand(a),
	)

	return root
}

// setup loads and validates the configuration and builds the logger.
func (a *app) setup(*cobra.Command, []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	if a.logger, err = cfg.NewLogger(a.verbose); err != nil {
		return err
	}
	a.cfg = cfg
	a.logger.Debug("configuration loaded", zap.String("path", a.configPath))

	return nil
}

// design builds the reactor experiment and its design context; figures
// are printed to out.
func (a *app) design(out io.Writer) (*doe.Design, error) {
	r := a.cfg.Reactor
	exp := reactor.New(
		reactor.WithInitialConcentration(r.CA0),
		reactor.WithTemperatures(r.T0, r.T1),
		reactor.WithMeasurementError(r.MeasurementError),
		reactor.WithSubsteps(r.Substeps),
	)
	solver := a.cfg.NewSolver(a.logger.Named("nlp"))

	return doe.New(exp, append(a.cfg.Options(solver, a.logger.Named("doe")), doe.WithPlotter(&tablePlotter{w: out}))...)
}

// runContext applies the configured timeout to the command context.
func (a *app) runContext(cmd *cobra.Command) (context.Context, context.CancelFunc, error) {
	timeout, err := a.cfg.TimeoutDuration()
	if err != nil {
		return nil, nil, err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout == 0 {
		ctx, cancel := context.WithCancel(ctx)
		return ctx, cancel, nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)

	return ctx, cancel, nil
}

func elapsed(start time.Time) string {
	return fmt.Sprintf("%.3fs", time.Since(start).Seconds())
}
