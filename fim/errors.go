// SPDX-License-Identifier: MIT

package fim

import "github.com/katalvlaran/oed"

var (
	// ErrPriorShape is returned for a prior FIM that is not n_param × n_param.
	ErrPriorShape = oed.Sentinel(oed.ErrConfiguration, "fim: prior FIM has the wrong shape")

	// ErrJacobianShape is returned for a Jacobian seed that is not n_output × n_param.
	ErrJacobianShape = oed.Sentinel(oed.ErrConfiguration, "fim: Jacobian has the wrong shape")

	// ErrNotSquare is returned when a prior update is not a 2D, square matrix.
	ErrNotSquare = oed.Sentinel(oed.ErrConfiguration, "fim: FIM input for prior update must be a 2D, square matrix")

	// ErrUnknownObjective is returned for a criterion outside trace/determinant.
	ErrUnknownObjective = oed.Sentinel(oed.ErrConfiguration, "fim: objective option not supported")

	// ErrAssembly is returned when the FIM cannot be formed from its inputs.
	ErrAssembly = oed.Sentinel(oed.ErrConfiguration, "fim: cannot assemble FIM")

	// ErrFactor is returned when the Cholesky reformulation fails.
	ErrFactor = oed.Sentinel(oed.ErrConfiguration, "fim: cannot factor FIM")
)
