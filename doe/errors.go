// SPDX-License-Identifier: MIT

package doe

import "github.com/katalvlaran/oed"

var (
	// ErrBadOption is returned by New for option values it cannot use.
	ErrBadOption = oed.Sentinel(oed.ErrConfiguration, "doe: invalid design option")

	// ErrNotBuilt is returned by accessors called before the required phase.
	ErrNotBuilt = oed.Sentinel(oed.ErrStructural, "doe: model has not been built; build the model first")

	// ErrNoFIM is returned by UpdatePriorFIM before any FIM exists.
	ErrNoFIM = oed.Sentinel(oed.ErrStructural, "doe: `fim` is not defined on the model; build the model first")

	// ErrResultsFile is returned by RunDOE for a destination that is neither a path nor a writer.
	ErrResultsFile = oed.Sentinel(oed.ErrConfiguration, "doe: results file must be either a path or a string")

	// ErrRangeKeys is returned when factorial ranges name unknown design variables.
	ErrRangeKeys = oed.Sentinel(oed.ErrConfiguration, "doe: design ranges keys must be a subset of experimental design names")

	// ErrBadRange is returned for a malformed (start, stop, points) range.
	ErrBadRange = oed.Sentinel(oed.ErrConfiguration, "doe: invalid design range")

	// ErrNoFactorial is returned when a figure is requested without factorial results.
	ErrNoFactorial = oed.Sentinel(oed.ErrStructural, "doe: factorial results not found; compute the full factorial or supply results")

	// ErrFigureNames is returned when explicit results come without design variable names.
	ErrFigureNames = oed.Sentinel(oed.ErrConfiguration, "doe: design variable names must be supplied with results")

	// ErrNoSensitivityVars is returned when no swept variables are given.
	ErrNoSensitivityVars = oed.Sentinel(oed.ErrConfiguration, "doe: sensitivity_design_variables must be included")

	// ErrNoFixedVars is returned when the pinned variables are not given.
	ErrNoFixedVars = oed.Sentinel(oed.ErrConfiguration, "doe: fixed_design_variables must be included")

	// ErrFixedNotInResults is returned when a pinned variable is not a results column.
	ErrFixedNotInResults = oed.Sentinel(oed.ErrConfiguration, "doe: fixed design variables do not all appear in the results object keys")

	// ErrSensitivityNotInResults is returned when a swept variable is not a results column.
	ErrSensitivityNotInResults = oed.Sentinel(oed.ErrConfiguration, "doe: sensitivity design variables do not all appear in the results object keys")

	// ErrFigureDims is returned for more than two swept variables.
	ErrFigureDims = oed.Sentinel(oed.ErrNotImplemented, "doe: only 1D and 2D sensitivity figures are supported")

	// ErrFigurePartition is returned when swept and pinned variables do not cover the design.
	ErrFigurePartition = oed.Sentinel(oed.ErrConfiguration, "doe: all design variables must be either sensitivity or fixed")

	// ErrFigureRows is returned when a results row does not fit its columns.
	ErrFigureRows = oed.Sentinel(oed.ErrConfiguration, "doe: results rows do not match the results columns")

	// ErrDesignFailed is returned when the solver cannot optimize the design.
	ErrDesignFailed = oed.Sentinel(oed.ErrSolverFailure, "doe: design optimization not solved")

	// ErrMultiExperiment is returned by the multi-experiment entry points.
	ErrMultiExperiment = oed.Sentinel(oed.ErrNotImplemented, "doe: multiple experiment optimization not yet supported")
)
