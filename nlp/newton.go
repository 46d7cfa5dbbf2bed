// SPDX-License-Identifier: MIT

package nlp

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/oed/experiment"
)

// blockError is a block that cannot continue; its status becomes the
// status of the whole problem.
type blockError struct {
	block  string
	status Status
	err    error
}

func (e *blockError) Error() string {
	return fmt.Sprintf("block %q: %s: %v", e.block, e.status, e.err)
}

func (e *blockError) Unwrap() error { return e.err }

var (
	errNonFinite = errors.New("non-finite residual")
	errSingular  = errors.New("singular Newton matrix")
)

// block is the Newton state of one model instance.
type block struct {
	name  string
	model *experiment.LabeledModel
	in    experiment.Values
	theta experiment.Values

	x, r, trial, rt []float64
	jac             *mat.Dense
	norm            float64
	done            bool
}

func newBlock(b Block, seed []float64) *block {
	in := b.Model.ExperimentInputs.Map()
	theta := b.Model.UnknownParameters.Map()
	x := seed
	if len(x) != len(b.Model.System.States()) {
		x = b.Model.System.Guess(in, theta)
	}
	n := len(x)

	return &block{
		name:  b.Name,
		model: b.Model,
		in:    in,
		theta: theta,
		x:     append([]float64(nil), x...),
		r:     make([]float64, n),
		trial: make([]float64, n),
		rt:    make([]float64, n),
		jac:   mat.NewDense(n, n, nil),
	}
}

// setInput moves an input and reopens the block.
func (b *block) setInput(name string, v float64) {
	b.in[name] = v
	b.done = false
}

// reset restarts the block from x0.
func (b *block) reset(x0 []float64) {
	copy(b.x, x0)
	b.done = false
}

func (b *block) residual(dst, x []float64) (float64, error) {
	if err := b.model.System.Residual(dst, x, b.in, b.theta); err != nil {
		return math.Inf(1), err
	}
	norm := floats.Norm(dst, math.Inf(1))
	if math.IsNaN(norm) || math.IsInf(norm, 0) {
		return norm, errNonFinite
	}

	return norm, nil
}

// step performs one damped Newton iteration:
//   - r = F(x); done when ‖r‖∞ <= tol.
//   - J = ∂F/∂x by central differences; solve J·dx = −r (LU).
//   - halve α from 1 until ‖F(x+α·dx)‖∞ decreases (or the halvings run out).
func (b *block) step(tol float64) error {
	var err error
	if b.norm, err = b.residual(b.r, b.x); err != nil {
		return &blockError{block: b.name, status: Infeasible, err: err}
	}
	if b.norm <= tol {
		b.done = true
		return nil
	}

	var ferr error
	fd.Jacobian(b.jac, func(y, x []float64) {
		if _, e := b.residual(y, x); e != nil && ferr == nil {
			ferr = e
		}
	}, b.x, &fd.JacobianSettings{Formula: fd.Central})
	if ferr != nil {
		return &blockError{block: b.name, status: Infeasible, err: ferr}
	}

	rhs := mat.NewVecDense(len(b.r), nil)
	rhs.ScaleVec(-1, mat.NewVecDense(len(b.r), b.r))
	var dx mat.VecDense
	if err = dx.SolveVec(b.jac, rhs); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return &blockError{block: b.name, status: Failed, err: errSingular}
		}
	}

	alpha := 1.0
	var tnorm float64
	for h := 0; h < DefaultLineSearchHalving; h++ {
		for i := range b.trial {
			b.trial[i] = b.x[i] + alpha*dx.AtVec(i)
		}
		tnorm, err = b.residual(b.rt, b.trial)
		if err == nil && tnorm < b.norm {
			break
		}
		alpha /= 2
	}
	if err != nil {
		return &blockError{block: b.name, status: Infeasible, err: err}
	}
	copy(b.x, b.trial)
	b.norm = tnorm

	return nil
}

// simulate drives every block to convergence in lockstep: each iteration
// steps the open blocks concurrently (bounded by the worker limit) and any
// failing block fails the whole set.
func (l *Local) simulate(ctx context.Context, name string, blocks []*block) (Status, int, error) {
	for k := 0; k < l.maxIter; k++ {
		if err := ctx.Err(); err != nil {
			return Failed, k, err
		}
		var g errgroup.Group
		g.SetLimit(l.workers)
		open := 0
		for _, b := range blocks {
			if b.done {
				continue
			}
			open++
			b := b
			g.Go(func() error { return b.step(l.tol) })
		}
		if open == 0 {
			l.logger.Debug("newton converged",
				zap.String("problem", name), zap.Int("blocks", len(blocks)), zap.Int("iterations", k))
			return Optimal, k, nil
		}
		if err := g.Wait(); err != nil {
			var be *blockError
			if errors.As(err, &be) {
				l.logger.Debug("newton failed", zap.String("problem", name), zap.Error(err))
				return be.status, k, err
			}
			return Failed, k, err
		}
	}
	for _, b := range blocks {
		if !b.done && b.norm > l.tol {
			return IterationLimit, l.maxIter, fmt.Errorf("block %q: residual %g after %d iterations", b.name, b.norm, l.maxIter)
		}
	}

	return Optimal, l.maxIter, nil
}
