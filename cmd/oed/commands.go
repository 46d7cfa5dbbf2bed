// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/oed/doe"
	"github.com/katalvlaran/oed/fim"
)

func newFIMCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fim",
		Short: "Compute the FIM at the configured conditions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel, err := a.runContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			d, err := a.design(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			start := time.Now()
			if err = d.ComputeFIM(ctx, a.cfg.Design.Method); err != nil {
				return err
			}
			F, err := d.FIM()
			if err != nil {
				return err
			}
			params, err := d.UnknownParameterValues()
			if err != nil {
				return err
			}
			metrics, err := fim.Evaluate(F)
			if err != nil {
				return err
			}
			a.logger.Info("fim done", zap.String("elapsed", elapsed(start)))

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "FIM (%s differences, %s)\n", a.cfg.Design.Formula, a.cfg.Design.Method)
			if err = writeMatrix(w, parameterNames(len(params)), F.RowsCopy()); err != nil {
				return err
			}
			return writeMetrics(w, metrics)
		},
	}
}

func newFactorialCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "factorial",
		Short: "Scan FIM metrics over the configured design ranges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ranges := a.cfg.Ranges()
			if len(ranges) == 0 {
				return fmt.Errorf("%w: factorial.design_ranges is empty", doe.ErrBadRange)
			}
			ctx, cancel, err := a.runContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			d, err := a.design(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			res, err := d.ComputeFIMFullFactorial(ctx, ranges, a.cfg.Design.Method)
			if err != nil {
				return err
			}
			if err = writeFactorial(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			f := a.cfg.Factorial
			if len(f.Sensitivity) == 0 {
				return nil
			}
			fixed := f.Fixed
			if fixed == nil {
				fixed = map[string]float64{}
			}
			_, err = d.DrawFactorialFigure(doe.FigureOptions{
				SensitivityDesignVariables: f.Sensitivity,
				FixedDesignVariables:       fixed,
				Title:                      f.Title,
			})
			return err
		},
	}
}

func newOptimizeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "optimize",
		Short: "Optimize CA[0], T[0] and T[1] for the configured criterion",
		Long: `optimize maximizes the design criterion over the bounded reactor inputs.
The report goes to results_file (JSON, or YAML for .yaml/.yml), or as JSON to
standard output when no file is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel, err := a.runContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			d, err := a.design(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			var dst any = cmd.OutOrStdout()
			if a.cfg.ResultsFile != "" {
				dst = a.cfg.ResultsFile
			}
			if err = d.RunDOE(ctx, dst); err != nil {
				return err
			}
			res, err := d.Results()
			if err != nil {
				return err
			}
			if a.cfg.ResultsFile != "" {
				return writeSummary(cmd.OutOrStdout(), res, a.cfg.ResultsFile)
			}
			return nil
		},
	}
}
