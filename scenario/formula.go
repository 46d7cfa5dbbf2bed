// SPDX-License-Identifier: MIT

package scenario

import (
	"fmt"

	"gonum.org/v1/gonum/diff/fd"
)

// Formula selects the finite-difference stencil.
type Formula string

const (
	Central  Formula = "central"
	Forward  Formula = "forward"
	Backward Formula = "backward"
)

// Formulas lists the supported selectors.
func Formulas() []Formula { return []Formula{Central, Forward, Backward} }

// Valid reports whether f names a supported stencil.
func (f Formula) Valid() bool {
	switch f {
	case Central, Forward, Backward:
		return true
	}

	return false
}

// Stencil returns the first-derivative stencil of f.
func (f Formula) Stencil() (fd.Formula, error) {
	switch f {
	case Central:
		return fd.Central, nil
	case Forward:
		return fd.Forward, nil
	case Backward:
		return fd.Backward, nil
	}

	return fd.Formula{}, fmt.Errorf("%w: %q", ErrUnknownFormula, string(f))
}

// Check returns ErrUnknownFormula for unsupported selectors.
func Check(f Formula) error {
	_, err := f.Stencil()

	return err
}
