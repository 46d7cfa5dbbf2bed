// SPDX-License-Identifier: MIT

package nlp

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/optimize"
)

// Local is the reference solver. Model blocks are solved by damped Newton
// in lockstep; free design variables are searched by Nelder–Mead with every
// objective evaluation re-solving all blocks at the candidate design.
//
// Local never carries the FIM or its factor as variables: the objective
// recomputes them from block outputs, so Seeds other than States are only
// reported in the log.
type Local struct {
	tol     float64
	maxIter int
	workers int
	evals   int
	logger  *zap.Logger
}

var _ Solver = (*Local)(nil)

// Solve implements Solver. Block models are cloned; the caller's models are
// never modified.
//
// Errors:
//   - ErrBadProblem for structural problems.
//   - the context error on cancellation.
//
// Non-convergence is reported through Solution.Status, not as an error.
func (l *Local) Solve(ctx context.Context, p *Problem) (*Solution, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	blocks := make([]*block, len(p.Blocks))
	for i, b := range p.Blocks {
		var seed []float64
		if p.Seeds.States != nil {
			seed = p.Seeds.States[i]
		}
		blk := b
		blk.Model = b.Model.Clone()
		blocks[i] = newBlock(blk, seed)
		for _, v := range p.Design {
			blocks[i].setInput(v.Name, v.Value)
		}
	}
	l.logger.Debug("solve",
		zap.String("problem", p.Name),
		zap.Int("blocks", len(blocks)),
		zap.Int("design", len(p.Design)),
		zap.Bool("jacobian_seed", p.Seeds.Jacobian != nil),
		zap.Bool("fim_seed", p.Seeds.FIM != nil),
		zap.Bool("l_seed", p.Seeds.L != nil))

	design := make([]float64, len(p.Design))
	for i, v := range p.Design {
		design[i] = v.Value
	}

	var (
		sol *Solution
		err error
	)
	if free := p.Free(); len(free) == 0 || p.Objective == nil {
		sol, err = l.square(ctx, p, blocks, design)
	} else {
		sol, err = l.search(ctx, p, blocks, design, free)
	}
	if err != nil {
		return nil, err
	}
	l.logger.Debug("solved",
		zap.String("problem", p.Name),
		zap.Stringer("status", sol.Status),
		zap.Int("iterations", sol.Iterations),
		zap.Duration("elapsed", time.Since(start)))

	return sol, nil
}

// square solves the blocks at a fixed design.
func (l *Local) square(ctx context.Context, p *Problem, blocks []*block, design []float64) (*Solution, error) {
	status, iters, err := l.simulate(ctx, p.Name, blocks)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	sol := &Solution{Status: status, Design: design, Iterations: iters}
	if status != Optimal {
		if err != nil {
			sol.Message = err.Error()
		}
		return sol, nil
	}
	if err = collect(sol, blocks); err != nil {
		return nil, err
	}
	if p.Objective != nil {
		sol.Objective, err = p.Objective.Evaluate(sol.Outputs)
		if err != nil {
			sol.Status, sol.Message = Failed, err.Error()
		}
	}

	return sol, nil
}

// collect copies states and outputs of converged blocks into sol.
func collect(sol *Solution, blocks []*block) error {
	sol.States = make([][]float64, len(blocks))
	sol.Outputs = make([][]float64, len(blocks))
	for i, b := range blocks {
		sol.States[i] = append([]float64(nil), b.x...)
		y, err := b.model.Outputs(b.x)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBadProblem, err)
		}
		sol.Outputs[i] = y
	}

	return nil
}

// transform maps an unconstrained z to a bounded design value.
// Finite bounds use x = lo + (hi−lo)·(sin z + 1)/2; otherwise x = z.
type transform struct{ lo, hi float64 }

func (t transform) bounded() bool {
	return !math.IsInf(t.lo, 0) && !math.IsInf(t.hi, 0) && t.hi > t.lo
}

func (t transform) forward(z float64) float64 {
	if !t.bounded() {
		return math.Max(t.lo, math.Min(t.hi, z))
	}

	return t.lo + (t.hi-t.lo)*(math.Sin(z)+1)/2
}

func (t transform) inverse(x float64) float64 {
	if !t.bounded() {
		return x
	}
	s := 2*(x-t.lo)/(t.hi-t.lo) - 1

	return math.Asin(math.Max(-1, math.Min(1, s)))
}

// ctxRecorder stops the optimizer once ctx is done.
type ctxRecorder struct{ ctx context.Context }

func (r ctxRecorder) Init() error { return r.ctx.Err() }

func (r ctxRecorder) Record(*optimize.Location, optimize.Operation, *optimize.Stats) error {
	return r.ctx.Err()
}

// search runs Nelder–Mead over the free design variables.
func (l *Local) search(ctx context.Context, p *Problem, blocks []*block, design []float64, free []int) (*Solution, error) {
	// Start point must be feasible: it seeds every later Newton solve.
	first, err := l.square(ctx, p, blocks, design)
	if err != nil || first.Status != Optimal {
		return first, err
	}
	warm := first.States
	sign := 1.0
	if p.Objective.Sense() == Maximize {
		sign = -1
	}

	tr := make([]transform, len(free))
	z0 := make([]float64, len(free))
	for k, i := range free {
		tr[k] = transform{lo: p.Design[i].Lower, hi: p.Design[i].Upper}
		z0[k] = tr[k].inverse(design[i])
	}

	best := first
	bestScore := sign * first.Objective
	if math.IsNaN(bestScore) {
		bestScore = math.Inf(1)
	}
	evals := 0
	candidate := make([]float64, len(design))
	f := func(z []float64) float64 {
		evals++
		copy(candidate, design)
		for k, i := range free {
			candidate[i] = tr[k].forward(z[k])
		}
		for bi, b := range blocks {
			b.reset(warm[bi])
			for _, i := range free {
				b.setInput(p.Design[i].Name, candidate[i])
			}
		}
		status, iters, serr := l.simulate(ctx, p.Name, blocks)
		if serr != nil || status != Optimal {
			return math.Inf(1)
		}
		sol := &Solution{Status: Optimal, Design: append([]float64(nil), candidate...), Iterations: iters}
		if collect(sol, blocks) != nil {
			return math.Inf(1)
		}
		v, oerr := p.Objective.Evaluate(sol.Outputs)
		score := sign * v
		if oerr != nil || math.IsNaN(score) {
			return math.Inf(1)
		}
		warm = sol.States
		if score < bestScore {
			sol.Objective = v
			best, bestScore = sol, score
		}

		return score
	}

	settings := &optimize.Settings{
		FuncEvaluations: l.evals,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Relative:   1e-8,
			Iterations: 40,
		},
		Recorder: ctxRecorder{ctx: ctx},
	}
	res, err := optimize.Minimize(optimize.Problem{Func: f}, z0, settings, &optimize.NelderMead{SimplexSize: 0.25})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	out := *best
	out.Iterations = evals
	switch {
	case err != nil:
		out.Message = fmt.Sprintf("design search stopped early: %v", err)
	case res != nil:
		out.Message = fmt.Sprintf("design search: %s", res.Status)
	}
	l.logger.Debug("design search",
		zap.String("problem", p.Name),
		zap.Int("evaluations", evals),
		zap.Float64("objective", out.Objective),
		zap.Float64s("design", out.Design))

	return &out, nil
}
