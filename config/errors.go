// SPDX-License-Identifier: MIT

package config

import "github.com/katalvlaran/oed"

var (
	// ErrInvalid is returned by Validate for values the engine cannot use.
	ErrInvalid = oed.Sentinel(oed.ErrConfiguration, "config: invalid configuration")

	// ErrRange is returned when a design range is neither [start, stop, points] nor a mapping.
	ErrRange = oed.Sentinel(oed.ErrConfiguration, "config: design range must be [start, stop, points] or a start/stop/points mapping")
)
