// SPDX-License-Identifier: MIT

package scenario

import "github.com/katalvlaran/oed"

var (
	// ErrUnknownFormula is returned when a formula selector outside
	// central/forward/backward reaches scenario generation.
	ErrUnknownFormula = oed.Sentinel(oed.ErrInternal,
		"scenario: finite difference option not recognized; this state should be unreachable, please report it")

	// ErrBadStep is returned for a non-positive or non-finite step.
	ErrBadStep = oed.Sentinel(oed.ErrConfiguration, "scenario: step must be finite and > 0")

	// ErrNilModel is returned when Build receives no labeled model.
	ErrNilModel = oed.Sentinel(oed.ErrConfiguration, "scenario: nil labeled model")
)
