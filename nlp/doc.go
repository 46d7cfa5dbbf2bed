// Package nlp defines the nonlinear programming contract of the design
// engine and ships Local, a small reference solver for it.
//
// A Problem is a set of square model blocks (one per scenario) sharing a
// vector of design variables, plus an optional objective scored from the
// block outputs. A Solver returns a Solution whose Status tells whether the
// point is usable; errors are reserved for malformed problems and
// cancellation.
//
// Local:
//   - Blocks: damped Newton with central-difference Jacobians (gonum diff/fd)
//     and LU solves (gonum mat); all blocks advance in lockstep and are
//     stepped concurrently through an errgroup with a bounded worker limit.
//     One failing block fails the whole problem.
//   - Design: Nelder–Mead (gonum optimize) over the free design variables,
//     with a sine transform keeping finitely bounded variables in range.
//   - Cancellation: the context is checked between Newton iterations and by
//     the optimizer's recorder.
package nlp
