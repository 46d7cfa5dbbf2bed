// SPDX-License-Identifier: MIT

package doe

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/oed/experiment"
	"github.com/katalvlaran/oed/fim"
	"github.com/katalvlaran/oed/matrix"
	"github.com/katalvlaran/oed/scenario"
	"github.com/katalvlaran/oed/sensitivity"
)

// Phase is the build state of a Design.
type Phase int

const (
	Unbuilt Phase = iota
	ScenariosBuilt
	FIMComputed
	DesignOptimized
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p {
	case Unbuilt:
		return "unbuilt"
	case ScenariosBuilt:
		return "scenarios built"
	case FIMComputed:
		return "FIM computed"
	case DesignOptimized:
		return "design optimized"
	}

	return fmt.Sprintf("phase(%d)", int(p))
}

// Design is the design context of one experiment. It is not safe for
// overlapping calls; callers serialize them.
type Design struct {
	exp       experiment.Experiment
	opts      options
	formula   scenario.Formula
	criterion fim.Criterion
	prior     *matrix.Sym
	engine    *sensitivity.Engine
	logger    *zap.Logger

	// committed build state
	phase     Phase
	model     *experiment.LabeledModel
	set       *scenario.Set
	jac       *mat.Dense
	fim       *matrix.Sym
	factor    *fim.Factor
	results   *Results
	factorial *FactorialResult
}

// build is the uncommitted state of one build call.
type build struct {
	phase  Phase
	model  *experiment.LabeledModel
	set    *scenario.Set
	jac    *mat.Dense
	fim    *matrix.Sym
	factor *fim.Factor
}

// New returns a Design for exp.
//
// Errors (configuration):
//   - experiment.ErrNoLabeledModel for a nil experiment.
//   - ErrBadOption for an unknown formula, non-positive step, bad floor or epsilon,
//     or a prior that is not a finite symmetric square matrix.
//   - fim.ErrUnknownObjective for an objective outside trace/determinant/det.
func New(exp experiment.Experiment, opts ...Option) (*Design, error) {
	if exp == nil {
		return nil, fmt.Errorf("doe: %w", experiment.ErrNoLabeledModel)
	}
	o := defaultOptions()
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	if !o.formula.Valid() {
		return nil, fmt.Errorf("%w: finite difference formula %q, want one of %v", ErrBadOption, string(o.formula), scenario.Formulas())
	}
	if !positive(o.step) {
		return nil, fmt.Errorf("%w: step %g", ErrBadOption, o.step)
	}
	if o.lLowerBound < 0 || !finite(o.lLowerBound) {
		return nil, fmt.Errorf("%w: L lower bound %g", ErrBadOption, o.lLowerBound)
	}
	if o.eps < 0 || !finite(o.eps) {
		return nil, fmt.Errorf("%w: epsilon %g", ErrBadOption, o.eps)
	}
	if !finite(o.scaleConstant) || o.scaleConstant == 0 {
		return nil, fmt.Errorf("%w: scale constant %g", ErrBadOption, o.scaleConstant)
	}
	criterion, err := fim.ParseCriterion(o.objective)
	if err != nil {
		return nil, err
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	d := &Design{
		exp:       exp,
		opts:      o,
		formula:   o.formula,
		criterion: criterion,
		engine:    sensitivity.New(o.solver, o.logger),
		logger:    o.logger,
	}
	if !matrix.IsNil(o.prior) {
		if err = fim.CheckSquare(o.prior); err != nil {
			return nil, fmt.Errorf("%w: prior: %w", ErrBadOption, err)
		}
		if d.prior, err = matrix.SymFrom(o.prior, o.matrixOptions()...); err != nil {
			return nil, fmt.Errorf("%w: prior: %w", ErrBadOption, err)
		}
	}

	return d, nil
}

// SetFormula stores a finite-difference selector as given. It is validated
// when scenarios are generated.
func (d *Design) SetFormula(f string) { d.formula = scenario.Formula(f) }

// SetObjective selects the criterion used by RunDOE.
func (d *Design) SetObjective(name string) error {
	c, err := fim.ParseCriterion(name)
	if err != nil {
		return err
	}
	d.criterion = c

	return nil
}

// Phase returns the current build phase.
func (d *Design) Phase() Phase { return d.phase }

// Criterion returns the active optimality criterion.
func (d *Design) Criterion() fim.Criterion { return d.criterion }

// commit installs a finished build.
func (d *Design) commit(b *build) {
	d.phase = b.phase
	d.model = b.model
	d.set = b.set
	d.jac = b.jac
	d.fim = b.fim
	d.factor = b.factor
	if b.phase < DesignOptimized {
		d.results = nil
	}
	d.logger.Debug("phase committed", zap.Stringer("phase", b.phase))
}

// load retrieves and validates the labeled model, then checks the seeds
// and the prior against its sizes.
func (d *Design) load() (*experiment.LabeledModel, error) {
	m, err := experiment.Load(d.exp)
	if err != nil {
		return nil, err
	}
	nOut, nParam := m.ExperimentOutputs.Len(), m.UnknownParameters.Len()
	if d.prior != nil {
		if err = fim.CheckPrior(d.prior, nParam); err != nil {
			return nil, err
		}
	}
	if err = fim.CheckJacobian(d.opts.jacInitial, nOut, nParam); err != nil {
		return nil, err
	}
	if err = fim.CheckPrior(d.opts.fimInitial, nParam); err != nil {
		return nil, fmt.Errorf("FIM seed: %w", err)
	}
	if err = fim.CheckPrior(d.opts.lInitial, nParam); err != nil {
		return nil, fmt.Errorf("L seed: %w", err)
	}

	return m, nil
}

// scenarios builds the scenario set of m with the current formula.
func (d *Design) scenarios(m *experiment.LabeledModel) (*scenario.Set, error) {
	return scenario.Build(m, d.formula, d.opts.step, d.opts.relative)
}

func (d *Design) scaling() sensitivity.Scaling {
	return sensitivity.Scaling{Constant: d.opts.scaleConstant, NominalParams: d.opts.scaleNominal}
}

// priorMatrix returns the prior as a gonum matrix, nil when there is none.
func (d *Design) priorMatrix() mat.Matrix {
	if d.prior == nil {
		return nil
	}

	return d.prior
}

func positive(v float64) bool { return v > 0 && finite(v) }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
