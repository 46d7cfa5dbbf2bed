// SPDX-License-Identifier: MIT

package oed

import "errors"

// Error kinds shared by every package of the engine. Package-level sentinels
// wrap exactly one of them, so errors.Is matches both the precise sentinel and
// its kind.
//
// ERROR PRIORITY (enforced by the design context):
// configuration -> structural -> internal -> solver failure.
var (
	// ErrConfiguration reports malformed or mismatched shapes, types or names
	// supplied at call time. It is raised before any solve is attempted and the
	// design state is left untouched.
	ErrConfiguration = errors.New("oed: configuration error")

	// ErrStructural reports that a required build step has not happened yet
	// (missing labeled suffix, FIM not computed, factorial results absent).
	ErrStructural = errors.New("oed: structural precondition failed")

	// ErrNotImplemented marks intentionally unsupported features such as
	// multi-experiment design optimization.
	ErrNotImplemented = errors.New("oed: not implemented")

	// ErrInternal reports a state that normal configuration cannot reach,
	// e.g. an unknown finite-difference formula at scenario generation.
	ErrInternal = errors.New("oed: internal invariant violated")

	// ErrSolverFailure reports that the external solver did not return a
	// usable solution (infeasible, iteration limit, numerical failure).
	ErrSolverFailure = errors.New("oed: solver failure")
)

// Sentinel returns a package-level sentinel error that reads as msg and
// unwraps to kind. Packages declare their sentinels with it:
//
//	var ErrMissingSuffix = oed.Sentinel(oed.ErrStructural, "experiment: missing labeled suffix")
//
// and attach call-site detail with fmt.Errorf("%w: ...", ErrMissingSuffix).
func Sentinel(kind error, msg string) error {
	return &sentinel{msg: msg, kind: kind}
}

// sentinel is a message bound to an error kind.
type sentinel struct {
	msg  string
	kind error
}

func (e *sentinel) Error() string { return e.msg }

func (e *sentinel) Unwrap() error { return e.kind }
