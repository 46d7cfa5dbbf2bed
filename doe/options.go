// SPDX-License-Identifier: MIT

package doe

import (
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/oed/fim"
	"github.com/katalvlaran/oed/matrix"
	"github.com/katalvlaran/oed/nlp"
	"github.com/katalvlaran/oed/scenario"
)

// Defaults of a Design.
const (
	DefaultFormula       = scenario.Central
	DefaultStep          = scenario.DefaultStep
	DefaultObjective     = fim.Determinant
	DefaultScaleConstant = 1.0
	DefaultLLowerBound   = 1e-7
	DefaultCholesky      = true
	DefaultLowerOnly     = true
)

// PriorMerge selects how UpdatePriorFIM combines a new prior with the current one.
type PriorMerge int

const (
	// PriorReplace discards the current prior.
	PriorReplace PriorMerge = iota
	// PriorAdd accumulates information: prior ← prior + update.
	PriorAdd
)

// String implements fmt.Stringer.
func (p PriorMerge) String() string {
	if p == PriorAdd {
		return "add"
	}

	return "replace"
}

// Option configures a Design.
type Option func(*options)

type options struct {
	formula       scenario.Formula
	step          float64
	relative      bool
	objective     string
	scaleConstant float64
	scaleNominal  bool
	prior         mat.Matrix
	jacInitial    mat.Matrix
	fimInitial    mat.Matrix
	lInitial      mat.Matrix
	lLowerBound   float64
	cholesky      bool
	lowerOnly     bool
	eps           float64
	merge         PriorMerge
	solver        nlp.Solver
	logger        *zap.Logger
	plotter       Plotter
}

func defaultOptions() options {
	return options{
		formula:       DefaultFormula,
		step:          DefaultStep,
		relative:      true,
		objective:     string(DefaultObjective),
		scaleConstant: DefaultScaleConstant,
		lLowerBound:   DefaultLLowerBound,
		cholesky:      DefaultCholesky,
		lowerOnly:     DefaultLowerOnly,
		eps:           matrix.DefaultEpsilon,
		merge:         PriorReplace,
	}
}

// WithFormula selects the finite-difference stencil (central, forward, backward).
func WithFormula(f string) Option { return func(o *options) { o.formula = scenario.Formula(f) } }

// WithStep sets the perturbation step.
func WithStep(step float64) Option { return func(o *options) { o.step = step } }

// WithRelativeStep selects δ = step·|θ| (true, default) or δ = step (false).
func WithRelativeStep(relative bool) Option { return func(o *options) { o.relative = relative } }

// WithObjective selects the criterion: trace, determinant or det.
func WithObjective(name string) Option { return func(o *options) { o.objective = name } }

// WithScaleConstant multiplies every Jacobian entry by c.
func WithScaleConstant(c float64) Option { return func(o *options) { o.scaleConstant = c } }

// WithScaleNominalParams multiplies each Jacobian column by its nominal parameter value.
func WithScaleNominalParams(on bool) Option { return func(o *options) { o.scaleNominal = on } }

// WithPriorFIM sets the prior information added to every assembled FIM.
func WithPriorFIM(m mat.Matrix) Option { return func(o *options) { o.prior = m } }

// WithJacobianInitial seeds the design model with a Jacobian (n_output × n_param).
func WithJacobianInitial(m mat.Matrix) Option { return func(o *options) { o.jacInitial = m } }

// WithFIMInitial seeds the design model with a FIM (n_param × n_param).
func WithFIMInitial(m mat.Matrix) Option { return func(o *options) { o.fimInitial = m } }

// WithLInitial seeds the Cholesky factor; only its lower triangle is read.
func WithLInitial(m mat.Matrix) Option { return func(o *options) { o.lInitial = m } }

// WithLLowerBound sets the floor of the Cholesky diagonal (0 = strict factorization).
func WithLLowerBound(lb float64) Option { return func(o *options) { o.lLowerBound = lb } }

// WithCholesky toggles the Cholesky reformulation.
func WithCholesky(on bool) Option { return func(o *options) { o.cholesky = on } }

// WithLowerOnly toggles lower-triangle-only FIM assembly.
func WithLowerOnly(on bool) Option { return func(o *options) { o.lowerOnly = on } }

// WithEpsilon sets the symmetry tolerance of full-product assembly and priors.
func WithEpsilon(eps float64) Option { return func(o *options) { o.eps = eps } }

// WithPriorMerge selects how UpdatePriorFIM merges.
func WithPriorMerge(m PriorMerge) Option { return func(o *options) { o.merge = m } }

// WithSolver sets the nonlinear programming solver (default nlp.NewLocal).
func WithSolver(s nlp.Solver) Option { return func(o *options) { o.solver = s } }

// WithLogger sets the logger (default no-op).
func WithLogger(l *zap.Logger) Option { return func(o *options) { o.logger = l } }

// WithPlotter sets the collaborator DrawFactorialFigure hands figures to.
func WithPlotter(p Plotter) Option { return func(o *options) { o.plotter = p } }

// matrixOptions maps the design flags onto the matrix kernels.
func (o options) matrixOptions() []matrix.Option {
	opts := []matrix.Option{matrix.WithEpsilon(o.eps)}
	if o.lowerOnly {
		return append(opts, matrix.WithLowerOnly())
	}

	return append(opts, matrix.WithFullProduct())
}
