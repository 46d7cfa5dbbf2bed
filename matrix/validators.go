// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single, canonical source of truth for common validation checks
//    on gonum matrices (nil, shape, finiteness, symmetry).
//  - Keep kernels minimal by delegating guards here.
//  - Return sentinel errors wrapped with a validator tag so call sites can wrap
//    again uniformly and callers match with errors.Is.
//
// Determinism & Performance:
//  - All checks are pure, deterministic and allocate nothing.
//  - Symmetry check runs O(n²) over the strict upper triangle only.
//
// AI-Hints:
//  - Call ValidateNotNil first; the other validators assume a non-nil argument.
//  - Use ValidateFinite before CholeskyFloor so NaN never reaches a pivot.
//  - Use ValidateVecLen for weight vectors instead of ad hoc length code.
//
// Note:
//  - Each composite validator follows a fixed sequence (NotNil → Shape → values).
//  - Validators other than ValidateNotNil assume a non-nil argument.

package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// matrixErrorf wraps err with an operation tag, preserving the sentinel via %w.
// Use only when err != nil to avoid a non-nil wrapper around a nil cause.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// IsNil reports whether m is nil, including typed nil pointers of the
// concrete types this module passes around (a typed nil inside a mat.Matrix
// interface would otherwise panic on Dims()).
func IsNil(m mat.Matrix) bool {
	// An untyped nil and a typed nil pointer are both "no matrix".
	switch v := m.(type) {
	case nil:
		return true
	case *mat.Dense:
		return v == nil
	case *mat.SymDense:
		return v == nil
	case *mat.TriDense:
		return v == nil
	case *mat.VecDense:
		return v == nil
	case *Sym:
		return v == nil
	}

	return false
}

// ValidateNotNil ensures the matrix reference is non-nil.
// Complexity: O(1).
func ValidateNotNil(m mat.Matrix) error {
	// If the matrix is nil, fail with the unified sentinel.
	if IsNil(m) {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix) // single source of truth for "nil argument"
	}

	return nil
}

// ValidateSquare checks that m is square (rows == cols).
// Complexity: O(1).
func ValidateSquare(m mat.Matrix) error {
	// Compare rows and columns once.
	r, c := m.Dims()
	if r != c {
		return validatorErrorf("ValidateSquare", ErrNonSquare)
	}

	return nil
}

// ValidateShape checks that m is exactly rows×cols.
// Complexity: O(1).
func ValidateShape(m mat.Matrix, rows, cols int) error {
	// Both dimensions must match exactly; no broadcasting.
	r, c := m.Dims()
	if r != rows || c != cols {
		return validatorErrorf("ValidateShape", ErrDimensionMismatch)
	}

	return nil
}

// ValidateVecLen ensures the vector length matches the required size n.
// Complexity: O(1).
func ValidateVecLen(x []float64, n int) error {
	// A nil slice is a missing vector, not an empty one.
	if x == nil {
		return validatorErrorf("ValidateVecLen", ErrNilMatrix)
	}
	if len(x) != n {
		return validatorErrorf("ValidateVecLen", ErrDimensionMismatch)
	}

	return nil
}

// ValidateFinite rejects NaN and ±Inf entries.
// Complexity: O(r*c).
func ValidateFinite(m mat.Matrix) error {
	r, c := m.Dims()
	var i, j int
	var v float64
	for i = 0; i < r; i++ { // fixed row loop
		for j = 0; j < c; j++ {
			v = m.At(i, j)
			// First offending cell wins; its position goes into the tag.
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return validatorErrorf(fmt.Sprintf("ValidateFinite(%d,%d)", i, j), ErrNaNInf)
			}
		}
	}

	return nil
}

// ValidateSymmetric checks |m[i,j] − m[j,i]| <= eps·max(1, |m[i,j]|, |m[j,i]|)
// for i < j. The relative scale keeps large FIM entries (1e8 and beyond) from
// failing on rounding alone.
// Complexity: O(n²/2).
func ValidateSymmetric(m mat.Matrix, eps float64) error {
	// Check the square condition explicitly.
	if err := ValidateSquare(m); err != nil {
		return validatorErrorf("ValidateSymmetric", err)
	}
	// Symmetric types store one triangle only.
	if _, ok := m.(mat.Symmetric); ok {
		return nil // symmetric by construction
	}
	n, _ := m.Dims()
	var i, j int
	var a, b float64
	for i = 0; i < n; i++ { // fixed row loop
		for j = i + 1; j < n; j++ { // scan only the strict upper triangle
			a, b = m.At(i, j), m.At(j, i)
			scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
			// Fail on the first pair outside the scaled tolerance.
			if math.Abs(a-b) > eps*scale {
				return validatorErrorf(fmt.Sprintf("ValidateSymmetric(%d,%d)", i, j), ErrAsymmetry)
			}
		}
	}

	return nil
}
