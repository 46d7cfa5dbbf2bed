// SPDX-License-Identifier: MIT

package sensitivity

import "fmt"

// Method selects how scenarios are handed to the solver.
type Method string

const (
	// Sequential solves one problem per scenario, baseline first.
	Sequential Method = "sequential"
	// Simultaneous solves every scenario as a block of one problem.
	Simultaneous Method = "simultaneous"
)

// ParseMethod validates a method selector.
func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case Sequential, Simultaneous:
		return m, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}
