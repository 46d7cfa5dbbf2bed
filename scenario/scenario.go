// SPDX-License-Identifier: MIT

package scenario

import (
	"fmt"
	"math"

	"github.com/katalvlaran/oed/experiment"
)

// DefaultStep is the default relative perturbation.
const DefaultStep = 1e-3

// BaselineParam marks the unperturbed scenario.
const BaselineParam = -1

// Scenario is one replica of the labeled model with at most one parameter
// moved off its nominal value.
type Scenario struct {
	Index int
	Name  string
	Param int     // parameter index, BaselineParam for the baseline
	Loc   float64 // stencil location (−1, +1)
	Delta float64 // perturbation size δ_p
	Model *experiment.LabeledModel
}

// Term is one (scenario, coefficient) pair of a parameter's stencil.
type Term struct {
	Scenario int
	Coeff    float64
}

// Set is the ordered scenario list of one build: baseline first, then per
// parameter the stencil points with a non-zero location.
type Set struct {
	Formula   Formula
	Step      float64
	Relative  bool
	Scenarios []Scenario
	deltas    []float64
	terms     [][]Term
}

// Baseline returns the unperturbed scenario.
func (s *Set) Baseline() *Scenario { return &s.Scenarios[0] }

// Len returns the number of scenarios.
func (s *Set) Len() int { return len(s.Scenarios) }

// NumParams returns the number of perturbed parameters.
func (s *Set) NumParams() int { return len(s.terms) }

// Terms returns the stencil terms of parameter p. Forward and backward
// stencils refer to the baseline for their zero-location point.
func (s *Set) Terms(p int) []Term { return s.terms[p] }

// Delta returns δ_p.
func (s *Set) Delta(p int) float64 { return s.deltas[p] }

// Build creates the scenario set of model for formula and step.
// Implementation:
//   - Stage 1: resolve the stencil (ErrUnknownFormula) and check the step.
//   - Stage 2: clone the baseline; for each parameter in model order compute
//     δ_p = step·|θ_p| (relative, falling back to step when θ_p == 0) or step,
//     and clone one replica per stencil point with Loc != 0.
//
// Behavior highlights:
//   - Every scenario owns its model; nothing is shared but the System.
//   - The input model is not mutated.
func Build(model *experiment.LabeledModel, formula Formula, step float64, relative bool) (*Set, error) {
	stencil, err := formula.Stencil()
	if err != nil {
		return nil, err
	}
	if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return nil, fmt.Errorf("%w: %g", ErrBadStep, step)
	}
	if model == nil || model.UnknownParameters == nil {
		return nil, ErrNilModel
	}

	params := model.UnknownParameters.Labels()
	set := &Set{
		Formula:   formula,
		Step:      step,
		Relative:  relative,
		Scenarios: make([]Scenario, 0, 1+len(params)*len(stencil.Stencil)),
		deltas:    make([]float64, len(params)),
		terms:     make([][]Term, len(params)),
	}
	set.Scenarios = append(set.Scenarios, Scenario{
		Name:  "baseline",
		Param: BaselineParam,
		Model: model.Clone(),
	})

	for p, theta := range params {
		delta := step
		if relative && theta.Value != 0 {
			delta = step * math.Abs(theta.Value)
		}
		set.deltas[p] = delta
		for _, pt := range stencil.Stencil {
			if pt.Loc == 0 {
				set.terms[p] = append(set.terms[p], Term{Scenario: 0, Coeff: pt.Coeff})
				continue
			}
			replica := model.Clone()
			if err = replica.UnknownParameters.Set(theta.Name, theta.Value+pt.Loc*delta); err != nil {
				return nil, err
			}
			idx := len(set.Scenarios)
			set.Scenarios = append(set.Scenarios, Scenario{
				Index: idx,
				Name:  fmt.Sprintf("%s[%+g]", theta.Name, pt.Loc),
				Param: p,
				Loc:   pt.Loc,
				Delta: delta,
				Model: replica,
			})
			set.terms[p] = append(set.terms[p], Term{Scenario: idx, Coeff: pt.Coeff})
		}
	}

	return set, nil
}
