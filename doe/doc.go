// Package doe is the design context of the engine: it owns one experiment,
// its finite-difference configuration and criterion, and drives the build
// pipeline through an explicit phase machine.
//
//	Unbuilt ──GenerateScenarios──▶ ScenariosBuilt
//	   │                               │
//	   └──ComputeFIM / CreateModel──▶ FIMComputed ──RunDOE──▶ DesignOptimized
//
// ComputeFIMFullFactorial is independent of the phases; its result feeds
// DrawFactorialFigure. Every build works on locals and commits only when it
// succeeds, so a failed call leaves the previous state in place.
//
// Accessors fail with a structural error (oed.ErrStructural) until the phase
// they need has been reached; option and argument problems are configuration
// errors (oed.ErrConfiguration) raised before any solve.
//
// Typical use:
//
//	d, err := doe.New(exp, doe.WithObjective("determinant"), doe.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	if err = d.ComputeFIM(ctx, "sequential"); err != nil {
//		return err
//	}
//	F, _ := d.FIM()
package doe
