// Package fim assembles Fisher Information Matrices and the quantities built
// on them.
//
//	FIM = Jᵀ · diag(1/σ²) · J + prior
//
// J is the n_output × n_param sensitivity matrix and σ the per-output
// measurement error (a standard deviation). The result is a *matrix.Sym, so
// only the lower triangle is ever stored.
//
// Also here: shape checks for priors and Jacobian seeds, the Cholesky
// reformulation with a floored diagonal, the trace and determinant criteria,
// and the metrics reported by factorial scans.
package fim
