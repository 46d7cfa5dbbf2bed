// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for the symmetric kernels.
// This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal) that resolves a slice of Option.
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - No dead switches: each flag impacts behavior and is covered by tests.
//   - Safe by construction: panic only on invalid parameters (programmer error).
//
// Notes:
//   - lowerOnly is the "exploit symmetry" switch of the Gram kernel: only the
//     i >= j half of JᵀWJ is computed and the upper half is never materialized.
//     With lowerOnly=false the full product is formed and must agree with its
//     transpose within eps before it is packed into a Sym.
//   - validateNaNInf rejects non-finite Jacobian entries and weights on ingestion.
package matrix

import "math"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultEpsilon defines the non-negative tolerance used by symmetry checks.
	DefaultEpsilon = 1e-9

	// DefaultLowerOnly computes only the lower triangle in WeightedGram.
	DefaultLowerOnly = true

	// DefaultValidateNaNInf toggles strict finite-value validation on ingestion.
	DefaultValidateNaNInf = true
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicEpsilonInvalid = "matrix: WithEpsilon: eps must be finite, non-negative"
)

// Option mutates internal options. Safe to apply repeatedly (idempotent).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Fields are unexported; public entry points accept `...Option`.
type Options struct {
	eps            float64 // >= 0; DefaultEpsilon
	lowerOnly      bool    // DefaultLowerOnly
	validateNaNInf bool    // DefaultValidateNaNInf
}

// WithEpsilon sets the numeric tolerance used by symmetry checks.
// Panics when eps is negative or non-finite (programmer error).
func WithEpsilon(eps float64) Option {
	if math.IsNaN(eps) || math.IsInf(eps, 0) || eps < 0 {
		panic(panicEpsilonInvalid)
	}

	return func(o *Options) { o.eps = eps }
}

// WithLowerOnly selects the lower-triangle Gram path (the default).
func WithLowerOnly() Option {
	return func(o *Options) { o.lowerOnly = true }
}

// WithFullProduct selects the full Gram product followed by a symmetry check.
//
// AI-Hints:
//   - Useful as a cross-check of the lower-only path in tests; costs ~2x.
func WithFullProduct() Option {
	return func(o *Options) { o.lowerOnly = false }
}

// WithNoValidateNaNInf disables finite-value validation (use with care).
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

// NewOptions resolves opts on top of the documented defaults.
// Exposed so callers can inspect the effective policy in tests.
func NewOptions(opts ...Option) Options { return gatherOptions(opts...) }

// Epsilon reports the resolved symmetry tolerance.
func (o Options) Epsilon() float64 { return o.eps }

// LowerOnly reports whether the lower-triangle path is active.
func (o Options) LowerOnly() bool { return o.lowerOnly }

// gatherOptions applies opts in order over defaults; later options win.
func gatherOptions(opts ...Option) Options {
	o := Options{
		eps:            DefaultEpsilon,
		lowerOnly:      DefaultLowerOnly,
		validateNaNInf: DefaultValidateNaNInf,
	}
	for _, fn := range opts {
		if fn != nil { // tolerate nil entries from conditional option lists
			fn(&o)
		}
	}

	return o
}
