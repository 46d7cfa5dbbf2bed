// SPDX-License-Identifier: MIT

package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	opEigen  = "Eigenvalues"
	opLogDet = "LogDetFactor"
)

// Trace returns Σ S[i,i].
// Complexity: O(n).
func Trace(S mat.Symmetric) float64 {
	var sum float64
	n := S.SymmetricDim()
	for i := 0; i < n; i++ {
		sum += S.At(i, i)
	}

	return sum
}

// SumSquares returns Σ L[i,j]² over the stored triangle, which equals
// trace(L·Lᵀ) for a lower factor L.
// Complexity: O(n²/2).
func SumSquares(L mat.Triangular) float64 {
	n, kind := L.Triangle()
	var sum, v float64
	var i, j int
	for i = 0; i < n; i++ {
		if kind == mat.Lower {
			for j = 0; j <= i; j++ {
				v = L.At(i, j)
				sum += v * v
			}
			continue
		}
		for j = i; j < n; j++ {
			v = L.At(i, j)
			sum += v * v
		}
	}

	return sum
}

// LogDetFactor returns log det(L·Lᵀ) = 2·Σ log L[i,i].
// The determinant itself is never formed, so no overflow for large FIMs.
//
// Errors:
//   - ErrNotPositiveDefinite if a diagonal entry is <= 0.
//
// Complexity: O(n).
func LogDetFactor(L mat.Triangular) (float64, error) {
	n, _ := L.Triangle()
	var sum, d float64
	for i := 0; i < n; i++ {
		d = L.At(i, i)
		if d <= 0 || math.IsNaN(d) {
			return 0, matrixErrorf(opLogDet, fmt.Errorf("L[%d,%d] = %g: %w", i, i, d, ErrNotPositiveDefinite))
		}
		sum += math.Log(d)
	}

	return 2 * sum, nil
}

// Eigenvalues returns the eigenvalues of S in ascending order (gonum EigenSym).
//
// Errors:
//   - ErrNilMatrix, ErrEigenFailed.
//
// Complexity: O(n³).
func Eigenvalues(S mat.Symmetric) ([]float64, error) {
	if IsNil(S) {
		return nil, matrixErrorf(opEigen, ErrNilMatrix)
	}
	var es mat.EigenSym
	if ok := es.Factorize(S, false); !ok {
		return nil, matrixErrorf(opEigen, ErrEigenFailed)
	}

	return es.Values(nil), nil
}
