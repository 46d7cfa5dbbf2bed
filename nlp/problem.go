// SPDX-License-Identifier: MIT

package nlp

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/oed/experiment"
)

// Status is the outcome of a solve.
type Status int

const (
	Optimal Status = iota
	Infeasible
	IterationLimit
	Failed
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Optimal:
		return "optimal"
	case Infeasible:
		return "infeasible"
	case IterationLimit:
		return "iteration limit"
	case Failed:
		return "failed"
	}

	return fmt.Sprintf("status(%d)", int(s))
}

// Sense is the direction of an objective.
type Sense int

const (
	Minimize Sense = iota
	Maximize
)

// Variable is a design decision variable bound to an experiment input of
// every block. Fixed variables keep Value.
type Variable struct {
	Name  string
	Value float64
	Lower float64
	Upper float64
	Fixed bool
}

// Block is one square model instance of the problem (a scenario).
type Block struct {
	Name  string
	Model *experiment.LabeledModel
}

// Objective scores a design from the experiment outputs of every block,
// outputs[b] in block order.
type Objective interface {
	Sense() Sense
	Evaluate(outputs [][]float64) (float64, error)
}

// Seeds are warm starts. States seed the block equations; the Jacobian,
// FIM and factor seed solvers that carry them as decision variables.
type Seeds struct {
	States   [][]float64
	Jacobian mat.Matrix
	FIM      mat.Symmetric
	L        mat.Triangular
}

// Problem couples design variables, model blocks and an objective.
// With no free design variable or no objective it is a square simulation.
//
// The FIM and its factor L are not decision variables here: Objective
// recomputes them from block outputs, so L·Lᵀ = FIM holds by construction.
// An adapter for an equation-based NLP solver must add the FIM and L entries
// as variables itself, seeded from Seeds.FIM and Seeds.L, together with the
// linking equality L·Lᵀ = FIM.
type Problem struct {
	Name      string
	Design    []Variable
	Blocks    []Block
	Objective Objective
	Seeds     Seeds
}

// Solution is what a solver hands back. Design is in Problem.Design order;
// Outputs and States are in block order.
type Solution struct {
	Status     Status
	Design     []float64
	Outputs    [][]float64
	States     [][]float64
	Objective  float64
	Iterations int
	Message    string
}

// OK reports whether the solve reached Optimal.
func (s *Solution) OK() bool { return s != nil && s.Status == Optimal }

// Solver is the nonlinear programming collaborator.
type Solver interface {
	Solve(ctx context.Context, p *Problem) (*Solution, error)
}

// Free returns the indices of the non-fixed design variables.
func (p *Problem) Free() []int {
	var idx []int
	for i, v := range p.Design {
		if !v.Fixed {
			idx = append(idx, i)
		}
	}

	return idx
}

// Validate checks the problem structure.
//
// Errors:
//   - ErrBadProblem wrapped with the offending block or variable.
func (p *Problem) Validate() error {
	if p == nil || len(p.Blocks) == 0 {
		return fmt.Errorf("%w: no blocks", ErrBadProblem)
	}
	for _, b := range p.Blocks {
		if b.Model == nil || b.Model.System == nil || b.Model.ExperimentInputs == nil ||
			b.Model.UnknownParameters == nil || b.Model.ExperimentOutputs == nil {
			return fmt.Errorf("%w: block %q has an incomplete model", ErrBadProblem, b.Name)
		}
		for _, v := range p.Design {
			if b.Model.ExperimentInputs.Index(v.Name) < 0 {
				return fmt.Errorf("%w: design variable %q is not an input of block %q", ErrBadProblem, v.Name, b.Name)
			}
		}
	}
	for _, v := range p.Design {
		if math.IsNaN(v.Value) || math.IsNaN(v.Lower) || math.IsNaN(v.Upper) || v.Lower > v.Upper {
			return fmt.Errorf("%w: design variable %q bounds [%g, %g] value %g",
				ErrBadProblem, v.Name, v.Lower, v.Upper, v.Value)
		}
	}
	if s := p.Seeds.States; s != nil && len(s) != len(p.Blocks) {
		return fmt.Errorf("%w: %d state seeds for %d blocks", ErrBadProblem, len(s), len(p.Blocks))
	}

	return nil
}
