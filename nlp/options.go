// SPDX-License-Identifier: MIT

package nlp

import (
	"math"
	"runtime"

	"go.uber.org/zap"
)

// Defaults of the Local solver.
const (
	DefaultTolerance         = 1e-10
	DefaultMaxIterations     = 100
	DefaultDesignEvaluations = 400
	DefaultLineSearchHalving = 12
)

const (
	panicToleranceInvalid   = "nlp: WithTolerance: tol must be finite and > 0"
	panicIterationsInvalid  = "nlp: WithMaxIterations: n must be > 0"
	panicWorkersInvalid     = "nlp: WithWorkers: n must be > 0"
	panicEvaluationsInvalid = "nlp: WithDesignEvaluations: n must be > 0"
)

// LocalOption configures a Local solver.
type LocalOption func(*Local)

// WithTolerance sets the max-norm residual tolerance of the Newton iterations.
func WithTolerance(tol float64) LocalOption {
	if tol <= 0 || math.IsNaN(tol) || math.IsInf(tol, 0) {
		panic(panicToleranceInvalid)
	}

	return func(l *Local) { l.tol = tol }
}

// WithMaxIterations caps the Newton iterations of one simulation.
func WithMaxIterations(n int) LocalOption {
	if n <= 0 {
		panic(panicIterationsInvalid)
	}

	return func(l *Local) { l.maxIter = n }
}

// WithWorkers bounds how many blocks are stepped concurrently.
func WithWorkers(n int) LocalOption {
	if n <= 0 {
		panic(panicWorkersInvalid)
	}

	return func(l *Local) { l.workers = n }
}

// WithDesignEvaluations caps the objective evaluations of the design search.
func WithDesignEvaluations(n int) LocalOption {
	if n <= 0 {
		panic(panicEvaluationsInvalid)
	}

	return func(l *Local) { l.evals = n }
}

// WithLogger sets the solver logger (nil keeps the no-op logger).
func WithLogger(logger *zap.Logger) LocalOption {
	return func(l *Local) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLocal returns the reference solver with opts applied over the defaults.
func NewLocal(opts ...LocalOption) *Local {
	l := &Local{
		tol:     DefaultTolerance,
		maxIter: DefaultMaxIterations,
		workers: runtime.GOMAXPROCS(0),
		evals:   DefaultDesignEvaluations,
		logger:  zap.NewNop(),
	}
	for _, fn := range opts {
		if fn != nil {
			fn(l)
		}
	}

	return l
}
