// SPDX-License-Identifier: MIT

package sensitivity

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/oed/nlp"
	"github.com/katalvlaran/oed/scenario"
)

// Result holds the solved outputs and states of every scenario, in set order.
type Result struct {
	Outputs [][]float64
	States  [][]float64
	Elapsed time.Duration
}

// Engine drives scenario solves through a Solver.
type Engine struct {
	solver nlp.Solver
	logger *zap.Logger
}

// New returns an Engine. A nil solver selects nlp.NewLocal, a nil logger
// the no-op logger.
func New(solver nlp.Solver, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if solver == nil {
		solver = nlp.NewLocal(nlp.WithLogger(logger))
	}

	return &Engine{solver: solver, logger: logger}
}

// Solver returns the solver the engine drives.
func (e *Engine) Solver() nlp.Solver { return e.solver }

// Compute solves every scenario of set.
// Implementation:
//   - Stage 1: re-check the formula (internal error, identical for both methods),
//     then the method (configuration error).
//   - Stage 2 (sequential): one Solve per scenario in set order; the first
//     unsolved scenario stops the computation.
//   - Stage 2 (simultaneous): one Solve with every scenario as a block.
//
// Errors:
//   - scenario.ErrUnknownFormula, ErrUnknownMethod, ErrScenarioFailed,
//     solver errors (wrapped), context errors.
func (e *Engine) Compute(ctx context.Context, set *scenario.Set, method Method) (*Result, error) {
	if err := scenario.Check(set.Formula); err != nil {
		return nil, err
	}
	if _, err := ParseMethod(string(method)); err != nil {
		return nil, err
	}

	start := time.Now()
	var (
		res *Result
		err error
	)
	switch method {
	case Sequential:
		res, err = e.sequential(ctx, set)
	case Simultaneous:
		res, err = e.simultaneous(ctx, set)
	}
	if err != nil {
		return nil, err
	}
	res.Elapsed = time.Since(start)
	e.logger.Debug("sensitivity computed",
		zap.String("method", string(method)),
		zap.String("formula", string(set.Formula)),
		zap.Int("scenarios", set.Len()),
		zap.Duration("elapsed", res.Elapsed))

	return res, nil
}

func (e *Engine) sequential(ctx context.Context, set *scenario.Set) (*Result, error) {
	res := &Result{
		Outputs: make([][]float64, set.Len()),
		States:  make([][]float64, set.Len()),
	}
	for i, sc := range set.Scenarios {
		sol, err := e.solver.Solve(ctx, &nlp.Problem{
			Name:   sc.Name,
			Blocks: []nlp.Block{{Name: sc.Name, Model: sc.Model}},
		})
		if err != nil {
			return nil, fmt.Errorf("sensitivity: scenario %q: %w", sc.Name, err)
		}
		if !sol.OK() {
			e.logger.Warn("scenario not solved",
				zap.String("scenario", sc.Name), zap.Stringer("status", sol.Status), zap.String("message", sol.Message))
			return nil, fmt.Errorf("%w: %q (%s) %s", ErrScenarioFailed, sc.Name, sol.Status, sol.Message)
		}
		if len(sol.Outputs) != 1 {
			return nil, fmt.Errorf("%w: scenario %q returned %d blocks", ErrOutputShape, sc.Name, len(sol.Outputs))
		}
		res.Outputs[i] = sol.Outputs[0]
		if len(sol.States) == 1 {
			res.States[i] = sol.States[0]
		}
	}

	return res, nil
}

func (e *Engine) simultaneous(ctx context.Context, set *scenario.Set) (*Result, error) {
	blocks := make([]nlp.Block, set.Len())
	for i, sc := range set.Scenarios {
		blocks[i] = nlp.Block{Name: sc.Name, Model: sc.Model}
	}
	sol, err := e.solver.Solve(ctx, &nlp.Problem{Name: "simultaneous", Blocks: blocks})
	if err != nil {
		return nil, fmt.Errorf("sensitivity: simultaneous: %w", err)
	}
	if !sol.OK() {
		e.logger.Warn("simultaneous problem not solved",
			zap.Stringer("status", sol.Status), zap.String("message", sol.Message))
		return nil, fmt.Errorf("%w: simultaneous problem (%s) %s", ErrScenarioFailed, sol.Status, sol.Message)
	}
	if len(sol.Outputs) != set.Len() {
		return nil, fmt.Errorf("%w: %d blocks for %d scenarios", ErrOutputShape, len(sol.Outputs), set.Len())
	}
	res := &Result{Outputs: sol.Outputs, States: sol.States}
	if len(res.States) != set.Len() {
		res.States = make([][]float64, set.Len())
	}

	return res, nil
}
