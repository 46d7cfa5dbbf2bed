// SPDX-License-Identifier: MIT

package doe

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/oed/experiment"
	"github.com/katalvlaran/oed/fim"
	"github.com/katalvlaran/oed/matrix"
	"github.com/katalvlaran/oed/sensitivity"
)

// GenerateScenarios loads the labeled model and builds the scenario set of
// the current formula. A computed FIM is dropped: the next FIM comes from
// the new scenarios.
//
// Errors:
//   - experiment load errors (structural/configuration), seed shape errors,
//     scenario.ErrUnknownFormula (internal).
func (d *Design) GenerateScenarios() error {
	m, err := d.load()
	if err != nil {
		return err
	}
	set, err := d.scenarios(m)
	if err != nil {
		return err
	}
	d.commit(&build{phase: ScenariosBuilt, model: m, set: set})

	return nil
}

// ComputeFIM builds scenarios, solves them with method (sequential or
// simultaneous), forms the Jacobian and assembles FIM = JᵀWJ + prior.
// Nothing is committed unless every step succeeds.
func (d *Design) ComputeFIM(ctx context.Context, method string) error {
	b, err := d.computeFIM(ctx, method)
	if err != nil {
		return err
	}
	d.commit(b)

	return nil
}

func (d *Design) computeFIM(ctx context.Context, method string) (*build, error) {
	m, err := d.load()
	if err != nil {
		return nil, err
	}
	set, err := d.scenarios(m)
	if err != nil {
		return nil, err
	}
	res, err := d.engine.Compute(ctx, set, sensitivity.Method(method))
	if err != nil {
		return nil, err
	}
	jac, err := sensitivity.Jacobian(set, res.Outputs, d.scaling())
	if err != nil {
		return nil, err
	}
	F, err := fim.Assemble(jac, m.MeasurementError.Values(), d.priorMatrix(), d.opts.matrixOptions()...)
	if err != nil {
		return nil, err
	}
	if err = m.ExperimentOutputs.SetValues(res.Outputs[0]); err != nil {
		return nil, err
	}
	d.logger.Info("FIM computed",
		zap.String("model", m.Name),
		zap.String("method", method),
		zap.Int("parameters", F.SymmetricDim()),
		zap.Float64("trace", matrix.Trace(F)),
		zap.Duration("elapsed", res.Elapsed))

	return &build{phase: FIMComputed, model: m, set: set, jac: jac, fim: F}, nil
}

// CreateModel builds the design model: scenarios, the initial Jacobian
// (the seed, or a sequential finite-difference solve), the initial FIM
// (the seed, or the assembled one) and, with the Cholesky reformulation,
// the initial factor L. It ends in FIMComputed.
func (d *Design) CreateModel(ctx context.Context) error {
	b, err := d.createModel(ctx)
	if err != nil {
		return err
	}
	d.commit(b)

	return nil
}

func (d *Design) createModel(ctx context.Context) (*build, error) {
	start := time.Now()
	var (
		b   *build
		err error
	)
	if matrix.IsNil(d.opts.jacInitial) {
		if b, err = d.computeFIM(ctx, string(sensitivity.Sequential)); err != nil {
			return nil, err
		}
	} else {
		m, lerr := d.load()
		if lerr != nil {
			return nil, lerr
		}
		set, serr := d.scenarios(m)
		if serr != nil {
			return nil, serr
		}
		b = &build{phase: FIMComputed, model: m, set: set, jac: mat.DenseCopyOf(d.opts.jacInitial)}
		b.fim, err = fim.Assemble(b.jac, m.MeasurementError.Values(), d.priorMatrix(), d.opts.matrixOptions()...)
		if err != nil {
			return nil, err
		}
	}
	if !matrix.IsNil(d.opts.fimInitial) {
		if b.fim, err = matrix.SymFrom(d.opts.fimInitial, d.opts.matrixOptions()...); err != nil {
			return nil, fmt.Errorf("%w: FIM seed: %w", ErrBadOption, err)
		}
	}
	if d.opts.cholesky {
		if b.factor, err = d.initialFactor(b.fim); err != nil {
			return nil, err
		}
	}
	d.logger.Info("design model created",
		zap.String("model", b.model.Name),
		zap.Int("scenarios", b.set.Len()),
		zap.Bool("cholesky", d.opts.cholesky),
		zap.Duration("elapsed", time.Since(start)))

	return b, nil
}

// initialFactor returns the L seed (lower triangle, diagonal floored) or
// the floored factorization of F.
func (d *Design) initialFactor(F *matrix.Sym) (*fim.Factor, error) {
	if matrix.IsNil(d.opts.lInitial) {
		return fim.Reformulate(F, d.opts.lLowerBound)
	}
	n := F.SymmetricDim()
	L := mat.NewTriDense(n, mat.Lower, nil)
	floored := 0
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			v := d.opts.lInitial.At(i, j)
			if i == j && v < d.opts.lLowerBound {
				v = d.opts.lLowerBound
				floored++
			}
			L.SetTri(i, j, v)
		}
	}
	res, err := matrix.LinkResidual(L, F)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fim.ErrFactor, err)
	}

	return &fim.Factor{L: L, Floored: floored, Residual: res}, nil
}

// UpdatePriorFIM merges m into the prior used by later builds, according to
// the prior-merge policy (replace by default, add with WithPriorMerge(PriorAdd)).
// Checks, in order: m is a 2D square matrix (configuration), a FIM exists
// (structural), m matches the parameter count and is symmetric (configuration).
func (d *Design) UpdatePriorFIM(m mat.Matrix) error {
	if err := fim.CheckSquare(m); err != nil {
		return err
	}
	if d.phase < FIMComputed || d.fim == nil {
		return ErrNoFIM
	}
	if err := fim.CheckPrior(m, d.fim.SymmetricDim()); err != nil {
		return err
	}
	P, err := matrix.SymFrom(m, d.opts.matrixOptions()...)
	if err != nil {
		return fmt.Errorf("%w: prior update: %w", ErrBadOption, err)
	}
	if d.opts.merge == PriorAdd && d.prior != nil {
		if P, err = d.prior.Add(P); err != nil {
			return fmt.Errorf("%w: prior update: %w", ErrBadOption, err)
		}
	}
	d.prior = P
	d.logger.Info("prior FIM updated", zap.Stringer("merge", d.opts.merge), zap.Float64("trace", matrix.Trace(P)))

	return nil
}

// Prior returns a copy of the current prior, or nil.
func (d *Design) Prior() *matrix.Sym {
	if d.prior == nil {
		return nil
	}

	return d.prior.Clone()
}

// baselineModel returns the committed baseline model, or ErrNotBuilt.
func (d *Design) baselineModel(accessor string) (*experiment.LabeledModel, error) {
	if d.phase < ScenariosBuilt || d.model == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotBuilt, accessor)
	}

	return d.model, nil
}
