// Package sensitivity solves the scenarios of a finite-difference stencil
// and turns their outputs into the output/parameter Jacobian.
//
// Two strategies are offered:
//   - sequential: one solver call per scenario, baseline first; a single
//     unsolved scenario stops the computation and is named in the error.
//   - simultaneous: one solver call with every scenario as a block; any
//     infeasible block fails the whole computation.
package sensitivity
