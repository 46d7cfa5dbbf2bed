// Package oed is an optimal-experimental-design engine: it measures how much a
// proposed experiment can teach about the unknown parameters of a nonlinear
// model, and searches or scans experimental conditions for the most
// informative one.
//
// What is inside?
//
//	The informativeness measure is the Fisher Information Matrix (FIM), built
//	from finite-difference sensitivities of the model outputs to its parameters:
//		• experiment/ : the labeled-model capability every experiment provides
//		• scenario/ : perturbed model replicas for a finite-difference stencil
//		• sensitivity/ : scenario solves and the output/parameter Jacobian
//		• fim/ : FIM assembly, prior checks, Cholesky reformulation, criteria
//		• doe/ : the design context (phases, optimization, factorial scans)
//		• nlp/ : the solver contract plus a reference Newton/Nelder–Mead solver
//		• matrix/ : packed symmetric storage and the floored Cholesky kernel
//		• config/ : YAML design configuration
//		• examples/reactor : a reference A → B → C batch-reactor experiment
//		• cmd/oed : fim, factorial and optimize from the command line
//
// Pipeline (leaf-first):
//
//	Experiment → Scenarios → Jacobian → FIM → {L, criterion} → design problem → solver
//
// The root package only carries the shared error kinds; every package wraps
// one of them so callers can branch on the kind with errors.Is:
//
//	if errors.Is(err, oed.ErrStructural) {
//		// build the model first
//	}
//
//	go get github.com/katalvlaran/oed
package oed
