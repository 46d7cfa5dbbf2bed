// SPDX-License-Identifier: MIT

package sensitivity

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/oed/scenario"
)

// Scaling post-multiplies Jacobian columns.
type Scaling struct {
	// Constant multiplies every entry (1 when zero).
	Constant float64
	// NominalParams multiplies column p by the nominal value θ_p.
	NominalParams bool
}

// Jacobian forms the n_output × n_param sensitivity matrix from scenario
// outputs (outputs[i] belongs to set.Scenarios[i]):
//
//	J[:,p] = Σ_k c_k · y(scenario_k) / δ_p   (× θ_p) (× constant)
//
// Errors:
//   - ErrOutputShape when outputs do not cover the set or differ in length.
//   - ErrNonFinite for NaN or Inf entries.
//
// Complexity: O(n_output · n_param · stencil width).
func Jacobian(set *scenario.Set, outputs [][]float64, scaling Scaling) (*mat.Dense, error) {
	if len(outputs) != set.Len() {
		return nil, fmt.Errorf("%w: %d outputs for %d scenarios", ErrOutputShape, len(outputs), set.Len())
	}
	rows := len(outputs[0])
	for i, y := range outputs {
		if len(y) != rows || rows == 0 {
			return nil, fmt.Errorf("%w: scenario %d has %d outputs, baseline %d", ErrOutputShape, i, len(y), rows)
		}
	}
	scale := scaling.Constant
	if scale == 0 {
		scale = 1
	}
	theta := set.Baseline().Model.UnknownParameters.Values()

	cols := set.NumParams()
	J := mat.NewDense(rows, cols, nil)
	col := make([]float64, rows)
	var p, r int
	for p = 0; p < cols; p++ {
		for r = range col {
			col[r] = 0
		}
		for _, term := range set.Terms(p) {
			y := outputs[term.Scenario]
			for r = range col {
				col[r] += term.Coeff * y[r]
			}
		}
		factor := scale / set.Delta(p)
		if scaling.NominalParams {
			factor *= theta[p]
		}
		for r = range col {
			v := col[r] * factor
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: J[%d,%d] = %g", ErrNonFinite, r, p, v)
			}
			J.Set(r, p, v)
		}
	}

	return J, nil
}
