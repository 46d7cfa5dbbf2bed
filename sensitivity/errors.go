// SPDX-License-Identifier: MIT

package sensitivity

import "github.com/katalvlaran/oed"

var (
	// ErrUnknownMethod is returned for a method other than sequential/simultaneous.
	ErrUnknownMethod = oed.Sentinel(oed.ErrConfiguration, "sensitivity: method option not recognized")

	// ErrScenarioFailed is returned when the solver cannot solve a scenario.
	ErrScenarioFailed = oed.Sentinel(oed.ErrSolverFailure, "sensitivity: scenario not solved")

	// ErrOutputShape is returned when solved outputs do not match the scenario set.
	ErrOutputShape = oed.Sentinel(oed.ErrInternal, "sensitivity: solved outputs do not match the scenario set")

	// ErrNonFinite is returned when solved outputs give a NaN or Inf sensitivity.
	ErrNonFinite = oed.Sentinel(oed.ErrSolverFailure, "sensitivity: non-finite sensitivity")
)
