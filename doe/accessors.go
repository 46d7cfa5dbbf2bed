// SPDX-License-Identifier: MIT

package doe

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/oed/experiment"
	"github.com/katalvlaran/oed/matrix"
)

// FIM returns a copy of the current FIM (FIMComputed or later).
func (d *Design) FIM() (*matrix.Sym, error) {
	if d.phase < FIMComputed || d.fim == nil {
		return nil, fmt.Errorf("%w: FIM", ErrNotBuilt)
	}

	return d.fim.Clone(), nil
}

// SensitivityMatrix returns a copy of the current Jacobian (FIMComputed or later).
func (d *Design) SensitivityMatrix() (*mat.Dense, error) {
	if d.phase < FIMComputed || d.jac == nil {
		return nil, fmt.Errorf("%w: sensitivity matrix", ErrNotBuilt)
	}

	return mat.DenseCopyOf(d.jac), nil
}

// CholeskyFactor returns a copy of L (CreateModel or RunDOE with the
// Cholesky reformulation on).
func (d *Design) CholeskyFactor() (*mat.TriDense, error) {
	if d.phase < FIMComputed || d.factor == nil {
		return nil, fmt.Errorf("%w: Cholesky factor", ErrNotBuilt)
	}
	n, _ := d.factor.L.Triangle()
	L := mat.NewTriDense(n, mat.Lower, nil)
	L.Copy(d.factor.L)

	return L, nil
}

// ExperimentInputValues returns the design values of the built model.
func (d *Design) ExperimentInputValues() ([]float64, error) {
	return d.suffixValues("experiment input values", func(m *experiment.LabeledModel) *experiment.Suffix { return m.ExperimentInputs })
}

// ExperimentOutputValues returns the baseline outputs (solved once a FIM is computed).
func (d *Design) ExperimentOutputValues() ([]float64, error) {
	return d.suffixValues("experiment output values", func(m *experiment.LabeledModel) *experiment.Suffix { return m.ExperimentOutputs })
}

// UnknownParameterValues returns the nominal parameter values.
func (d *Design) UnknownParameterValues() ([]float64, error) {
	return d.suffixValues("unknown parameter values", func(m *experiment.LabeledModel) *experiment.Suffix { return m.UnknownParameters })
}

// MeasurementErrorValues returns the per-output measurement errors.
func (d *Design) MeasurementErrorValues() ([]float64, error) {
	return d.suffixValues("measurement error values", func(m *experiment.LabeledModel) *experiment.Suffix { return m.MeasurementError })
}

func (d *Design) suffixValues(accessor string, pick func(*experiment.LabeledModel) *experiment.Suffix) ([]float64, error) {
	m, err := d.baselineModel(accessor)
	if err != nil {
		return nil, err
	}

	return pick(m).Values(), nil
}

// Results returns the report of the last RunDOE (DesignOptimized).
func (d *Design) Results() (*Results, error) {
	if d.phase < DesignOptimized || d.results == nil {
		return nil, fmt.Errorf("%w: results", ErrNotBuilt)
	}

	return d.results, nil
}

// FactorialResults returns the last factorial scan.
func (d *Design) FactorialResults() (*FactorialResult, error) {
	if d.factorial == nil {
		return nil, ErrNoFactorial
	}

	return d.factorial, nil
}

// RunMultiDOESequential is not supported.
func (d *Design) RunMultiDOESequential(_ context.Context, _ ...experiment.Experiment) error {
	return ErrMultiExperiment
}

// RunMultiDOESimultaneous is not supported.
func (d *Design) RunMultiDOESimultaneous(_ context.Context, _ ...experiment.Experiment) error {
	return ErrMultiExperiment
}
