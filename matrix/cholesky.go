// SPDX-License-Identifier: MIT

package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ZeroSum is the initial value of the inner products in the factorization loops.
const ZeroSum = 0.0

const (
	opCholesky = "CholeskyFloor"
	opLink     = "LinkResidual"
)

// CholeskyFloor computes a lower-triangular L with L·Lᵀ = S where every
// diagonal entry of L is at least floor.
// Implementation (Cholesky–Banachiewicz, row by row):
//   - Stage 1: validate S (non-nil, finite) and floor (finite, >= 0).
//   - Stage 2: for i=0..n-1, j=0..i:
//     sum = Σ_{k<j} L[i,k]·L[j,k]
//     i==j: d = S[i,i] − sum; if d < floor² then d = floor² (counted as floored)
//     L[i,i] = √d
//     i>j:  L[i,j] = (S[i,j] − sum) / L[j,j]
//
// Behavior highlights:
//   - floor == 0 is the strict factorization: a pivot d <= 0 returns
//     ErrNotPositiveDefinite instead of flooring.
//   - When no pivot is floored the factorization is exact (up to rounding);
//     otherwise L·Lᵀ differs from S and LinkResidual measures by how much.
//   - S is read through At only, so a packed *Sym is consumed through its
//     triangular view without materializing the upper half.
//
// Returns:
//   - *mat.TriDense (mat.Lower), the number of floored pivots, error.
//
// Errors:
//   - ErrNilMatrix, ErrNaNInf, ErrBadFloor, ErrNotPositiveDefinite.
//
// Determinism:
//   - Fixed i→j→k loop order.
//
// Complexity:
//   - Time O(n³/6), Space O(n²/2).
func CholeskyFloor(S mat.Symmetric, floor float64) (*mat.TriDense, int, error) {
	// Stage 1: validate the input matrix and the floor.
	if IsNil(S) {
		return nil, 0, matrixErrorf(opCholesky, ErrNilMatrix)
	}
	if math.IsNaN(floor) || math.IsInf(floor, 0) || floor < 0 {
		return nil, 0, matrixErrorf(opCholesky, ErrBadFloor)
	}
	if err := ValidateFinite(S); err != nil {
		return nil, 0, matrixErrorf(opCholesky, err)
	}

	n := S.SymmetricDim()
	L := mat.NewTriDense(n, mat.Lower, nil)
	floorSq := floor * floor // pivots are compared before the square root
	floored := 0

	var i, j, k int // loop iterators
	var sum, d float64
	// Stage 2: row-by-row factorization.
	for i = 0; i < n; i++ {
		for j = 0; j <= i; j++ {
			// Inner product of the already computed parts of rows i and j.
			sum = ZeroSum
			for k = 0; k < j; k++ {
				sum += L.At(i, k) * L.At(j, k)
			}
			if i == j {
				d = S.At(i, i) - sum
				if floor == 0 {
					if d <= 0 || math.IsNaN(d) {
						return nil, 0, matrixErrorf(opCholesky,
							fmt.Errorf("pivot %d = %g: %w", i, d, ErrNotPositiveDefinite))
					}
				} else if d < floorSq || math.IsNaN(d) {
					d = floorSq
					floored++
				}
				L.SetTri(i, i, math.Sqrt(d))
				continue
			}
			// L[j,j] > 0 here: it is either a checked pivot or at least floor.
			L.SetTri(i, j, (S.At(i, j)-sum)/L.At(j, j))
		}
	}

	return L, floored, nil
}

// LinkResidual returns max_{i>=j} |(L·Lᵀ)[i,j] − S[i,j]|, the violation of
// the linking equality between a factor and the matrix it stands for.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(n³/6).
func LinkResidual(L mat.Triangular, S mat.Symmetric) (float64, error) {
	if IsNil(L) || IsNil(S) {
		return 0, matrixErrorf(opLink, ErrNilMatrix)
	}
	n, _ := L.Triangle()
	if n != S.SymmetricDim() {
		return 0, matrixErrorf(opLink, ErrDimensionMismatch)
	}

	var worst, sum float64
	var i, j, k int
	for i = 0; i < n; i++ {
		for j = 0; j <= i; j++ {
			sum = ZeroSum
			for k = 0; k <= j; k++ { // (L·Lᵀ)[i,j]
				sum += L.At(i, k) * L.At(j, k)
			}
			worst = math.Max(worst, math.Abs(sum-S.At(i, j)))
		}
	}

	return worst, nil
}
