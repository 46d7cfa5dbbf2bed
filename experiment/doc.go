// Package experiment defines the labeled-model capability the design engine
// consumes: an Experiment hands over a LabeledModel whose four suffixes name
// the experiment inputs, the measured outputs, the unknown parameters and the
// per-output measurement error (a standard deviation).
//
// Load validates eagerly and in a fixed order, so the first problem found is
// the one reported:
//
//	experiment_outputs → measurement_error → experiment_inputs → unknown_parameters
//
// followed by the consistency checks (system present, unique labels, one
// measurement error per output with matching names, outputs that are system
// states, strictly positive errors).
package experiment
