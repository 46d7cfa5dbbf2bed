// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set (unified, consistent).
// This file defines ONLY package-level sentinel errors used across the matrix
// package. All kernels MUST return these sentinels and tests MUST check them
// via errors.Is. No kernel should panic on user-triggered error conditions;
// the only panics are gonum-style index panics of Sym.At (mat.Matrix contract).

package matrix

import "errors"

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "matrix: ..." for consistency and to allow
// easy grepping across logs. Kernels wrap these sentinels with an operation
// tag via matrixErrorf; callers still match them with errors.Is.
//
// ERROR PRIORITY (documented, enforced in tests):
// nil -> shape/dimension -> NaN/Inf -> structural (asymmetry, negative floor).

var (
	// ErrNilMatrix indicates that a nil matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil matrix")

	// ErrInvalidDimensions indicates that requested dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	// Safe accessors (Get/SetSym) return this instead of panicking.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible dimensions between operands,
	// e.g. a weight vector whose length differs from the Jacobian row count.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required but the input wasn't.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrAsymmetry signals that a matrix expected to be symmetric violated symmetry
	// within the configured numeric policy (epsilon).
	ErrAsymmetry = errors.New("matrix: matrix is not symmetric within eps")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrBadFloor signals a Cholesky diagonal floor that is negative or non-finite.
	ErrBadFloor = errors.New("matrix: diagonal floor must be finite and >= 0")

	// ErrNotPositiveDefinite is returned by the strict (zero-floor) Cholesky path
	// when a pivot is not strictly positive.
	ErrNotPositiveDefinite = errors.New("matrix: matrix is not positive definite")

	// ErrEigenFailed indicates that the symmetric eigen-decomposition did not converge.
	ErrEigenFailed = errors.New("matrix: eigen decomposition failed")
)
