// SPDX-License-Identifier: MIT

package doe_test

import (
	"context"

	"github.com/katalvlaran/oed/experiment"
	"github.com/katalvlaran/oed/nlp"
)

// lineSystem is y_i = a·u·i + b; the input w is carried but unused.
type lineSystem struct{}

func (lineSystem) States() []string { return []string{"y1", "y2", "y3"} }

func (lineSystem) Guess(_, _ experiment.Values) []float64 { return []float64{0, 0, 0} }

func (lineSystem) Residual(dst, x []float64, in, theta experiment.Values) error {
	for i := range x {
		dst[i] = x[i] - (theta["a"]*in["u"]*float64(i+1) + theta["b"])
	}

	return nil
}

// lineModel has u ∈ [0.5, 3] as its only free design variable. At u the FIM
// is [[14u², 6u], [6u, 3]] and det F = 6u².
func lineModel() *experiment.LabeledModel {
	return &experiment.LabeledModel{
		Name:             "line",
		System:           lineSystem{},
		ExperimentInputs: experiment.NewSuffix(experiment.Label{Name: "u", Value: 2}, experiment.Label{Name: "w", Value: 7}),
		ExperimentOutputs: experiment.NewSuffix(
			experiment.Label{Name: "y1"}, experiment.Label{Name: "y2"}, experiment.Label{Name: "y3"}),
		MeasurementError: experiment.NewSuffix(
			experiment.Label{Name: "y1", Value: 1}, experiment.Label{Name: "y2", Value: 1}, experiment.Label{Name: "y3", Value: 1}),
		UnknownParameters: experiment.NewSuffix(experiment.Label{Name: "a", Value: 1.5}, experiment.Label{Name: "b", Value: 0.5}),
		InputBounds:       map[string]experiment.Bounds{"u": {Lower: 0.5, Upper: 3}},
	}
}

func lineExperiment() experiment.Experiment {
	return experiment.Func(func() (*experiment.LabeledModel, error) { return lineModel(), nil })
}

// lineFIM is the FIM of lineModel at u.
func lineFIM(u float64) [][]float64 {
	return [][]float64{{14 * u * u, 6 * u}, {6 * u, 3}}
}

// gated delegates to the reference solver and declares every problem
// infeasible once fail reports true for it.
type gated struct {
	inner nlp.Solver
	fail  func(p *nlp.Problem) bool
}

func (g gated) Solve(ctx context.Context, p *nlp.Problem) (*nlp.Solution, error) {
	if g.fail(p) {
		return &nlp.Solution{Status: nlp.Infeasible, Message: "gated"}, nil
	}

	return g.inner.Solve(ctx, p)
}
