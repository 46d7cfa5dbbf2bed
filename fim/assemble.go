// SPDX-License-Identifier: MIT

package fim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/oed/matrix"
)

// Weights returns W = 1/σ² for per-output standard deviations σ.
func Weights(sigma []float64) ([]float64, error) {
	w := make([]float64, len(sigma))
	for i, s := range sigma {
		if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("%w: measurement error %d = %g", ErrAssembly, i, s)
		}
		w[i] = 1 / (s * s)
	}

	return w, nil
}

// Assemble computes FIM = Jᵀ·diag(1/σ²)·J + prior.
// Implementation:
//   - Stage 1: weights from σ; prior shape check against n_param.
//   - Stage 2: matrix.WeightedGram (lower-only unless opts select the full
//     product, which must then be symmetric within epsilon).
//   - Stage 3: add the packed prior.
//
// Errors:
//   - ErrAssembly wrapping the matrix sentinel; ErrPriorShape.
func Assemble(jac mat.Matrix, sigma []float64, prior mat.Matrix, opts ...matrix.Option) (*matrix.Sym, error) {
	w, err := Weights(sigma)
	if err != nil {
		return nil, err
	}
	if matrix.IsNil(jac) {
		return nil, fmt.Errorf("%w: %w", ErrAssembly, matrix.ErrNilMatrix)
	}
	_, nParam := jac.Dims()
	if err = CheckPrior(prior, nParam); err != nil {
		return nil, err
	}

	F, err := matrix.WeightedGram(jac, w, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAssembly, err)
	}
	if matrix.IsNil(prior) {
		return F, nil
	}
	P, err := matrix.SymFrom(prior, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: prior: %w", ErrAssembly, err)
	}
	if F, err = F.Add(P); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAssembly, err)
	}

	return F, nil
}

// Factor is the Cholesky reformulation of a FIM.
type Factor struct {
	L        *mat.TriDense
	Floored  int     // pivots raised to the lower bound
	Residual float64 // max |L·Lᵀ − FIM| over the lower triangle
}

// Reformulate factors F into L·Lᵀ with every diagonal entry of L >= lb.
// Only the lower triangle of F is read.
//
// Errors:
//   - ErrFactor wrapping the matrix sentinel.
func Reformulate(F mat.Symmetric, lb float64) (*Factor, error) {
	L, floored, err := matrix.CholeskyFloor(F, lb)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFactor, err)
	}
	res, err := matrix.LinkResidual(L, F)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFactor, err)
	}

	return &Factor{L: L, Floored: floored, Residual: res}, nil
}
