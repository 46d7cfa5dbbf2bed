// SPDX-License-Identifier: MIT

package fim

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/oed/matrix"
)

// CheckPrior verifies that prior is n × n. A nil prior is accepted.
func CheckPrior(prior mat.Matrix, n int) error {
	if matrix.IsNil(prior) {
		return nil
	}
	r, c := prior.Dims()
	if r != n || c != n {
		return fmt.Errorf("%w: shape of FIM provided should be n parameters by n parameters, or %d by %d; FIM provided has shape %d by %d",
			ErrPriorShape, n, n, r, c)
	}

	return nil
}

// CheckJacobian verifies that jac is nOut × nParam. A nil Jacobian is accepted.
func CheckJacobian(jac mat.Matrix, nOut, nParam int) error {
	if matrix.IsNil(jac) {
		return nil
	}
	r, c := jac.Dims()
	if r != nOut || c != nParam {
		return fmt.Errorf("%w: shape of Jacobian provided should be n experiment outputs by n parameters, or %d by %d; Jacobian provided has shape %d by %d",
			ErrJacobianShape, nOut, nParam, r, c)
	}

	return nil
}

// CheckSquare verifies that m is a non-nil square matrix, regardless of size.
func CheckSquare(m mat.Matrix) error {
	if matrix.IsNil(m) {
		return fmt.Errorf("%w: got nil", ErrNotSquare)
	}
	if err := matrix.ValidateSquare(m); err != nil {
		r, c := m.Dims()
		return fmt.Errorf("%w: got %d by %d", ErrNotSquare, r, c)
	}

	return nil
}
