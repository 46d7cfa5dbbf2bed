// SPDX-License-Identifier: MIT

package nlp

import "github.com/katalvlaran/oed"

var (
	// ErrBadProblem is returned for problems a solver cannot even start on.
	ErrBadProblem = oed.Sentinel(oed.ErrConfiguration, "nlp: malformed problem")
)
