// SPDX-License-Identifier: MIT

package fim

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/oed/matrix"
)

// Metrics are the scalar summaries reported per factorial point.
type Metrics struct {
	Trace   float64 `json:"trace_FIM" yaml:"trace_FIM"`
	Det     float64 `json:"det_FIM" yaml:"det_FIM"`
	LogDet  float64 `json:"log_det" yaml:"log_det"`
	MinEig  float64 `json:"eigval_min" yaml:"eigval_min"`
	MaxEig  float64 `json:"eigval_max" yaml:"eigval_max"`
	Cond    float64 `json:"cond" yaml:"cond"`
	Log10A  float64 `json:"log10 A-opt" yaml:"log10 A-opt"`
	Log10D  float64 `json:"log10 D-opt" yaml:"log10 D-opt"`
	Log10E  float64 `json:"log10 E-opt" yaml:"log10 E-opt"`
	Log10ME float64 `json:"log10 ME-opt" yaml:"log10 ME-opt"`
}

// Evaluate computes the metrics of F:
//   - A: log10 trace, D: log10 det (from the log-determinant, so no overflow),
//     E: log10 of the smallest eigenvalue, ME: log10 of the condition number.
//
// Non-positive quantities give NaN logarithms, as a singular FIM should.
//
// Errors:
//   - matrix.ErrNilMatrix, matrix.ErrEigenFailed.
func Evaluate(F mat.Symmetric) (Metrics, error) {
	eig, err := matrix.Eigenvalues(F)
	if err != nil {
		return Metrics{}, err
	}
	m := Metrics{
		Trace:  matrix.Trace(F),
		MinEig: eig[0],
		MaxEig: eig[len(eig)-1],
	}
	logDet, sign := mat.LogDet(F)
	m.LogDet = logDet
	m.Det = sign * math.Exp(logDet)
	m.Log10D = math.NaN()
	if sign > 0 {
		m.Log10D = logDet / math.Ln10
	}
	m.Cond = math.Abs(m.MaxEig) / math.Abs(m.MinEig)
	m.Log10A = math.Log10(m.Trace)
	m.Log10E = math.Log10(m.MinEig)
	m.Log10ME = math.Log10(m.Cond)

	return m, nil
}
