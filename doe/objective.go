// SPDX-License-Identifier: MIT

package doe

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/oed/fim"
	"github.com/katalvlaran/oed/matrix"
	"github.com/katalvlaran/oed/nlp"
	"github.com/katalvlaran/oed/scenario"
	"github.com/katalvlaran/oed/sensitivity"
)

// designObjective scores block outputs by the criterion of the FIM they
// imply: outputs → Jacobian → FIM (+ prior) → optional factor L → criterion.
type designObjective struct {
	set       *scenario.Set
	sigma     []float64
	prior     mat.Matrix
	criterion fim.Criterion
	cholesky  bool
	lb        float64
	scaling   sensitivity.Scaling
	mopts     []matrix.Option
}

var _ nlp.Objective = (*designObjective)(nil)

func (o *designObjective) Sense() nlp.Sense { return nlp.Maximize }

func (o *designObjective) Evaluate(outputs [][]float64) (float64, error) {
	v, _, _, _, err := o.evaluate(outputs)

	return v, err
}

// evaluate returns the criterion with the intermediate Jacobian, FIM and factor.
func (o *designObjective) evaluate(outputs [][]float64) (float64, *mat.Dense, *matrix.Sym, *fim.Factor, error) {
	jac, err := sensitivity.Jacobian(o.set, outputs, o.scaling)
	if err != nil {
		return 0, nil, nil, nil, err
	}
	F, err := fim.Assemble(jac, o.sigma, o.prior, o.mopts...)
	if err != nil {
		return 0, nil, nil, nil, err
	}
	var factor *fim.Factor
	var L mat.Triangular
	if o.cholesky {
		if factor, err = fim.Reformulate(F, o.lb); err != nil {
			return 0, nil, nil, nil, err
		}
		L = factor.L
	}
	v, err := fim.Objective(o.criterion, F, L)
	if err != nil {
		return 0, nil, nil, nil, err
	}

	return v, jac, F, factor, nil
}
