// SPDX-License-Identifier: MIT

package matrix

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const opGram = "WeightedGram"

// WeightedGram computes G = Jᵀ·diag(w)·J for an m×n matrix J and m weights.
// Implementation:
//   - Stage 1: ValidateNotNil(J), ValidateVecLen(w, m), finite checks (policy).
//   - Stage 2 (lowerOnly): for i>=j accumulate Σ_k J[k,i]·w[k]·J[k,j] straight
//     into the packed triangle; the upper half is never formed.
//   - Stage 2 (full): scale rows of a copy of J by w, multiply Jᵀ·(WJ) with
//     gonum, verify symmetry within eps, then pack.
//
// Behavior highlights:
//   - Deterministic k-loop order in the lower path; J and w are not mutated.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrNaNInf, ErrAsymmetry (full path only).
//
// Complexity:
//   - Time O(m·n²/2) lower-only, O(m·n²) full. Space O(n²/2) (+O(m·n) full).
func WeightedGram(J mat.Matrix, w []float64, opts ...Option) (*Sym, error) {
	o := gatherOptions(opts...)
	if err := ValidateNotNil(J); err != nil {
		return nil, matrixErrorf(opGram, err)
	}
	rows, cols := J.Dims()
	if err := ValidateVecLen(w, rows); err != nil {
		return nil, matrixErrorf(opGram, err)
	}
	if o.validateNaNInf {
		if err := ValidateFinite(J); err != nil {
			return nil, matrixErrorf(opGram, err)
		}
		for _, v := range w {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, matrixErrorf(opGram, ErrNaNInf)
			}
		}
	}

	if !o.lowerOnly {
		return fullGram(J, w, o)
	}

	G, err := NewSym(cols)
	if err != nil {
		return nil, matrixErrorf(opGram, err)
	}
	var i, j, k int // loop iterators (fixed order)
	var sum float64
	for i = 0; i < cols; i++ {
		for j = 0; j <= i; j++ {
			sum = 0
			for k = 0; k < rows; k++ {
				sum += J.At(k, i) * w[k] * J.At(k, j)
			}
			G.data[offset(i, j)] = sum
		}
	}

	return G, nil
}

// fullGram forms the whole product and packs it after a symmetry check.
func fullGram(J mat.Matrix, w []float64, o Options) (*Sym, error) {
	WJ := mat.DenseCopyOf(J)
	WJ.Apply(func(i, _ int, v float64) float64 { return w[i] * v }, WJ)

	var full mat.Dense
	full.Mul(J.T(), WJ)
	if err := ValidateSymmetric(&full, o.eps); err != nil {
		return nil, matrixErrorf(opGram, err)
	}

	n, _ := full.Dims()
	G, err := NewSym(n)
	if err != nil {
		return nil, matrixErrorf(opGram, err)
	}
	var i, j int
	for i = 0; i < n; i++ {
		for j = 0; j <= i; j++ {
			G.data[offset(i, j)] = full.At(i, j)
		}
	}

	return G, nil
}
