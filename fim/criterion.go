// SPDX-License-Identifier: MIT

package fim

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/oed/matrix"
)

// Criterion is an optimality criterion; both are maximized.
type Criterion string

const (
	// Trace is A-optimality on the FIM: Σ F_ii.
	Trace Criterion = "trace"
	// Determinant is D-optimality: log det F.
	Determinant Criterion = "determinant"
)

// ParseCriterion accepts "trace", "determinant" and the alias "det".
func ParseCriterion(s string) (Criterion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(Trace):
		return Trace, nil
	case string(Determinant), "det":
		return Determinant, nil
	}

	return "", fmt.Errorf("%w: objective option %q is not supported", ErrUnknownObjective, s)
}

// Objective evaluates criterion c. With a factor L (Cholesky mode) the
// trace is Σ L_ij² and the log-determinant 2·Σ log L_ii; without one they
// are read from F directly (gonum LogDet). A singular F scores −Inf for the
// determinant.
//
// Errors:
//   - ErrUnknownObjective; ErrFactor for a factor with a non-positive diagonal.
func Objective(c Criterion, F mat.Symmetric, L mat.Triangular) (float64, error) {
	useL := !matrix.IsNil(L)
	switch c {
	case Trace:
		if useL {
			return matrix.SumSquares(L), nil
		}
		return matrix.Trace(F), nil
	case Determinant:
		if useL {
			v, err := matrix.LogDetFactor(L)
			if err != nil {
				return 0, fmt.Errorf("%w: %w", ErrFactor, err)
			}
			return v, nil
		}
		logDet, sign := mat.LogDet(F)
		if sign <= 0 {
			return math.Inf(-1), nil
		}
		return logDet, nil
	}

	return 0, fmt.Errorf("%w: objective option %q is not supported", ErrUnknownObjective, string(c))
}
