// SPDX-License-Identifier: MIT

package experiment

import "github.com/katalvlaran/oed"

// Suffix names as they appear in error messages and configuration.
const (
	SuffixInputs           = "experiment_inputs"
	SuffixOutputs          = "experiment_outputs"
	SuffixParameters       = "unknown_parameters"
	SuffixMeasurementError = "measurement_error"
)

var (
	// ErrNoLabeledModel is returned when an experiment cannot provide a labeled model.
	ErrNoLabeledModel = oed.Sentinel(oed.ErrConfiguration, "experiment: experiment must provide a labeled model")

	// ErrMissingSuffix reports the first absent suffix, in validation order.
	ErrMissingSuffix = oed.Sentinel(oed.ErrStructural, "experiment: experiment model does not have suffix")

	// ErrNoSystem is returned when the labeled model carries no equations.
	ErrNoSystem = oed.Sentinel(oed.ErrConfiguration, "experiment: labeled model has no system")

	// ErrEmptySuffix is returned when outputs or parameters are empty.
	ErrEmptySuffix = oed.Sentinel(oed.ErrConfiguration, "experiment: suffix is empty")

	// ErrDuplicateLabel is returned when a suffix names the same component twice.
	ErrDuplicateLabel = oed.Sentinel(oed.ErrConfiguration, "experiment: duplicate label")

	// ErrLengthMismatch is returned when outputs and measurement errors differ in count.
	ErrLengthMismatch = oed.Sentinel(oed.ErrConfiguration, "experiment: outputs and measurement error differ in length")

	// ErrLabelMismatch is returned when measurement-error labels are not the output labels.
	ErrLabelMismatch = oed.Sentinel(oed.ErrConfiguration, "experiment: measurement error labels do not match outputs")

	// ErrUnknownState is returned when an output is not a state of the system.
	ErrUnknownState = oed.Sentinel(oed.ErrConfiguration, "experiment: output is not a system state")

	// ErrBadMeasurementError is returned for non-positive or non-finite errors.
	ErrBadMeasurementError = oed.Sentinel(oed.ErrConfiguration, "experiment: measurement error must be finite and > 0")

	// ErrUnknownLabel is returned by Suffix.Set for names it does not carry.
	ErrUnknownLabel = oed.Sentinel(oed.ErrConfiguration, "experiment: unknown label")

	// ErrBadBounds is returned for bounds with Lower > Upper or NaN ends.
	ErrBadBounds = oed.Sentinel(oed.ErrConfiguration, "experiment: invalid input bounds")
)
