// Package scenario builds the perturbed model replicas of a finite-difference
// stencil. The stencils are gonum's first-derivative formulas:
//
//	forward   f'(θ) ≈ (f(θ+δ) − f(θ)) / δ
//	backward  f'(θ) ≈ (f(θ) − f(θ−δ)) / δ
//	central   f'(θ) ≈ (f(θ+δ) − f(θ−δ)) / 2δ
//
// A Set always starts with the unperturbed baseline; one-sided stencils reuse
// it for their zero-location point, so forward and backward need 1+n scenarios
// and central needs 1+2n for n unknown parameters.
package scenario
