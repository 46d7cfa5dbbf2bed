// Package matrix provides the symmetric-matrix building blocks of the FIM
// pipeline on top of gonum/mat.
//
// The matrix package provides:
//
//   - Sym: packed lower-triangle storage that implements mat.Symmetric, the
//     single storage-and-access discipline for Fisher information matrices.
//   - WeightedGram: JᵀWJ with a lower-only path that never materializes the
//     upper triangle, and a full path that verifies symmetry.
//   - CholeskyFloor: a lower factor with a bounded-below diagonal, plus
//     LinkResidual to measure ‖L·Lᵀ − S‖.
//   - Trace, SumSquares, LogDetFactor, Eigenvalues: the scalar summaries the
//     optimality criteria are built from.
//   - Validators returning sentinel errors (errors.go) wrapped with a tag.
//
// Dense, general-purpose algebra is left to gonum; this package only adds
// the invariants the design engine relies on.
package matrix
