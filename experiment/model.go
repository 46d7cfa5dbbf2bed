// SPDX-License-Identifier: MIT

package experiment

import (
	"fmt"
	"math"
)

// Values maps component names to values (inputs or parameters).
type Values map[string]float64

// System is the equation set of a labeled model: a square system of
// residuals in its states, parameterized by experiment inputs and unknown
// parameters. Implementations must be stateless; scenario replicas share it.
type System interface {
	// States returns the state names in vector order.
	States() []string
	// Guess returns an initial state vector for the given inputs and parameters.
	Guess(in, theta Values) []float64
	// Residual writes the residuals at x into dst (len(dst) == len(x)).
	Residual(dst, x []float64, in, theta Values) error
}

// Bounds is a closed interval; infinite ends mean unbounded.
type Bounds struct {
	Lower float64
	Upper float64
}

// Finite reports whether both ends are finite.
func (b Bounds) Finite() bool {
	return !math.IsInf(b.Lower, 0) && !math.IsInf(b.Upper, 0)
}

// Contains reports whether v lies inside the interval.
func (b Bounds) Contains(v float64) bool { return v >= b.Lower && v <= b.Upper }

// LabeledModel is the concrete model an experiment hands to the engine.
// A nil suffix pointer means the suffix is absent.
type LabeledModel struct {
	Name              string
	System            System
	ExperimentInputs  *Suffix
	ExperimentOutputs *Suffix
	UnknownParameters *Suffix
	MeasurementError  *Suffix
	InputBounds       map[string]Bounds
}

// Clone returns an independent copy. The System is shared.
func (m *LabeledModel) Clone() *LabeledModel {
	if m == nil {
		return nil
	}
	cp := &LabeledModel{
		Name:              m.Name,
		System:            m.System,
		ExperimentInputs:  m.ExperimentInputs.Clone(),
		ExperimentOutputs: m.ExperimentOutputs.Clone(),
		UnknownParameters: m.UnknownParameters.Clone(),
		MeasurementError:  m.MeasurementError.Clone(),
	}
	if m.InputBounds != nil {
		cp.InputBounds = make(map[string]Bounds, len(m.InputBounds))
		for k, v := range m.InputBounds {
			cp.InputBounds[k] = v
		}
	}

	return cp
}

// Bounds returns the bounds of input name, unbounded when none are declared.
func (m *LabeledModel) Bounds(name string) Bounds {
	if b, ok := m.InputBounds[name]; ok {
		return b
	}

	return Bounds{Lower: math.Inf(-1), Upper: math.Inf(1)}
}

// OutputStates maps each experiment output to its position in the state vector.
func (m *LabeledModel) OutputStates() ([]int, error) {
	states := m.System.States()
	pos := make(map[string]int, len(states))
	for i, s := range states {
		pos[s] = i
	}
	out := make([]int, m.ExperimentOutputs.Len())
	for i, name := range m.ExperimentOutputs.Names() {
		j, ok := pos[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownState, name)
		}
		out[i] = j
	}

	return out, nil
}

// Outputs picks the experiment outputs out of a state vector.
func (m *LabeledModel) Outputs(x []float64) ([]float64, error) {
	idx, err := m.OutputStates()
	if err != nil {
		return nil, err
	}
	y := make([]float64, len(idx))
	for i, j := range idx {
		if j >= len(x) {
			return nil, fmt.Errorf("%w: state vector has %d entries", ErrUnknownState, len(x))
		}
		y[i] = x[j]
	}

	return y, nil
}
