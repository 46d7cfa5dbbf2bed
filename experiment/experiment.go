// SPDX-License-Identifier: MIT

package experiment

import (
	"fmt"
	"math"
)

// Experiment is the capability every experiment provides to the engine.
type Experiment interface {
	LabeledModel() (*LabeledModel, error)
}

// Func adapts a plain function to Experiment.
type Func func() (*LabeledModel, error)

// LabeledModel implements Experiment.
func (f Func) LabeledModel() (*LabeledModel, error) { return f() }

// Load retrieves the labeled model of exp, validates it and returns a private
// copy the engine may mutate.
//
// Errors:
//   - ErrNoLabeledModel when exp is nil or returns no model.
//   - everything Validate reports.
func Load(exp Experiment) (*LabeledModel, error) {
	if exp == nil {
		return nil, ErrNoLabeledModel
	}
	m, err := exp.LabeledModel()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoLabeledModel, err)
	}
	if m == nil {
		return nil, ErrNoLabeledModel
	}
	if err = Validate(m); err != nil {
		return nil, err
	}

	return m.Clone(), nil
}

// Validate checks a labeled model in a fixed order: presence of outputs,
// measurement error, inputs and parameters (the first missing one is
// reported), then the system, duplicate labels, output/measurement-error
// agreement, output states and measurement-error values.
func Validate(m *LabeledModel) error {
	present := []struct {
		name string
		s    *Suffix
	}{
		{SuffixOutputs, m.ExperimentOutputs},
		{SuffixMeasurementError, m.MeasurementError},
		{SuffixInputs, m.ExperimentInputs},
		{SuffixParameters, m.UnknownParameters},
	}
	for _, p := range present {
		if p.s == nil {
			return fmt.Errorf("%w %q", ErrMissingSuffix, p.name)
		}
	}
	if m.System == nil {
		return ErrNoSystem
	}
	for _, p := range present {
		if name, dup := p.s.duplicate(); dup {
			return fmt.Errorf("%w: %q in %s", ErrDuplicateLabel, name, p.name)
		}
	}
	if m.ExperimentOutputs.Len() == 0 {
		return fmt.Errorf("%w: %s", ErrEmptySuffix, SuffixOutputs)
	}
	if m.UnknownParameters.Len() == 0 {
		return fmt.Errorf("%w: %s", ErrEmptySuffix, SuffixParameters)
	}

	nOut, nErr := m.ExperimentOutputs.Len(), m.MeasurementError.Len()
	if nOut != nErr {
		return fmt.Errorf("%w: number of experiment outputs, %d, and length of measurement error, %d, do not match; check model labeling",
			ErrLengthMismatch, nOut, nErr)
	}
	outNames, errNames := m.ExperimentOutputs.Names(), m.MeasurementError.Names()
	for i := range outNames {
		if outNames[i] != errNames[i] {
			return fmt.Errorf("%w: position %d has output %q and measurement error %q",
				ErrLabelMismatch, i, outNames[i], errNames[i])
		}
	}
	if _, err := m.OutputStates(); err != nil {
		return err
	}
	for _, l := range m.MeasurementError.labels {
		if l.Value <= 0 || math.IsNaN(l.Value) || math.IsInf(l.Value, 0) {
			return fmt.Errorf("%w: %q = %g", ErrBadMeasurementError, l.Name, l.Value)
		}
	}
	for name, b := range m.InputBounds {
		if math.IsNaN(b.Lower) || math.IsNaN(b.Upper) || b.Lower > b.Upper {
			return fmt.Errorf("%w: %q [%g, %g]", ErrBadBounds, name, b.Lower, b.Upper)
		}
	}

	return nil
}
