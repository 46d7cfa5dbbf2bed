// SPDX-License-Identifier: MIT

package doe

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/oed/experiment"
	"github.com/katalvlaran/oed/nlp"
)

// RunDOE optimizes the design:
//   - Stage 1: check the results destination (nil, a path string or an
//     io.Writer) before anything is built.
//   - Stage 2: CreateModel (initial Jacobian, FIM and L).
//   - Stage 3: assemble an nlp.Problem: inputs with finite bounds are free
//     design variables, the others are fixed; one block per scenario; the
//     objective is the criterion of the FIM implied by the block outputs;
//     the initial Jacobian, FIM and L are the seeds.
//   - Stage 4: solve, then recompute Jacobian, FIM and L at the returned
//     design and commit DesignOptimized.
//   - Stage 5: write the results (JSON, or YAML for .yaml/.yml paths).
//
// Errors:
//   - ErrResultsFile; every CreateModel error; ErrDesignFailed when the
//     solver returns no usable point; write errors.
func (d *Design) RunDOE(ctx context.Context, resultsFile any) error {
	if err := checkDestination(resultsFile); err != nil {
		return err
	}
	start := time.Now()

	init, err := d.createModel(ctx)
	if err != nil {
		return err
	}

	model := init.model
	inputs := model.ExperimentInputs.Labels()
	vars := make([]nlp.Variable, len(inputs))
	for i, in := range inputs {
		b := model.Bounds(in.Name)
		vars[i] = nlp.Variable{Name: in.Name, Value: in.Value, Lower: b.Lower, Upper: b.Upper, Fixed: !b.Finite()}
	}
	blocks := make([]nlp.Block, init.set.Len())
	for i, sc := range init.set.Scenarios {
		blocks[i] = nlp.Block{Name: sc.Name, Model: sc.Model}
	}
	obj := &designObjective{
		set:       init.set,
		sigma:     model.MeasurementError.Values(),
		prior:     d.priorMatrix(),
		criterion: d.criterion,
		cholesky:  d.opts.cholesky,
		lb:        d.opts.lLowerBound,
		scaling:   d.scaling(),
		mopts:     d.opts.matrixOptions(),
	}
	seeds := nlp.Seeds{Jacobian: init.jac, FIM: init.fim}
	if init.factor != nil {
		seeds.L = init.factor.L
	}

	solveStart := time.Now()
	sol, err := d.engine.Solver().Solve(ctx, &nlp.Problem{
		Name:      model.Name,
		Design:    vars,
		Blocks:    blocks,
		Objective: obj,
		Seeds:     seeds,
	})
	if err != nil {
		return fmt.Errorf("doe: design solve: %w", err)
	}
	solveTime := time.Since(solveStart)
	if !sol.OK() {
		d.logger.Warn("design optimization not solved", zap.Stringer("status", sol.Status), zap.String("message", sol.Message))
		return fmt.Errorf("%w: %s %s", ErrDesignFailed, sol.Status, sol.Message)
	}

	final, err := d.finalize(init, vars, sol, obj)
	if err != nil {
		return err
	}
	report := d.report(final, sol, solveTime)
	if err = writeResults(resultsFile, report); err != nil {
		return err
	}
	d.commit(final)
	d.results = report
	d.logger.Info("design optimized",
		zap.String("model", model.Name),
		zap.String("run_id", report.RunID),
		zap.Float64("objective", report.Objective),
		zap.Any("design", report.Design),
		zap.Duration("elapsed", time.Since(start)))

	return nil
}

// finalize moves the baseline to the solved design and recomputes the
// Jacobian, FIM and factor from the solution outputs.
func (d *Design) finalize(init *build, vars []nlp.Variable, sol *nlp.Solution, obj *designObjective) (*build, error) {
	if len(sol.Design) != len(vars) || len(sol.Outputs) != init.set.Len() {
		return nil, fmt.Errorf("%w: solution has %d design values and %d blocks", ErrDesignFailed, len(sol.Design), len(sol.Outputs))
	}
	model := init.model.Clone()
	if err := model.ExperimentInputs.SetValues(sol.Design); err != nil {
		return nil, err
	}
	set, err := d.scenarios(model)
	if err != nil {
		return nil, err
	}
	obj.set = set
	_, jac, F, factor, err := obj.evaluate(sol.Outputs)
	if err != nil {
		return nil, err
	}
	if err = model.ExperimentOutputs.SetValues(sol.Outputs[0]); err != nil {
		return nil, err
	}

	return &build{phase: DesignOptimized, model: model, set: set, jac: jac, fim: F, factor: factor}, nil
}

// checkDestination accepts nil, a non-empty path string or an io.Writer.
func checkDestination(dst any) error {
	switch v := dst.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return fmt.Errorf("%w: empty path", ErrResultsFile)
		}
		return nil
	case io.Writer:
		return nil
	}

	return fmt.Errorf("%w: got %T", ErrResultsFile, dst)
}

// designValues maps input names to values in model order.
func designValues(m *experiment.LabeledModel) map[string]float64 { return m.ExperimentInputs.Map() }
