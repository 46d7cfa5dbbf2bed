// SPDX-License-Identifier: MIT

package sensitivity_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/oed"
	"github.com/katalvlaran/oed/experiment"
	"github.com/katalvlaran/oed/nlp"
	"github.com/katalvlaran/oed/scenario"
	"github.com/katalvlaran/oed/sensitivity"
)

// lineSystem is y_i = a·u·i + b.
type lineSystem struct{}

func (lineSystem) States() []string { return []string{"y1", "y2", "y3"} }

func (lineSystem) Guess(_, _ experiment.Values) []float64 { return []float64{0, 0, 0} }

func (lineSystem) Residual(dst, x []float64, in, theta experiment.Values) error {
	for i := range x {
		dst[i] = x[i] - (theta["a"]*in["u"]*float64(i+1) + theta["b"])
	}

	return nil
}

func lineModel() *experiment.LabeledModel {
	return &experiment.LabeledModel{
		System:            lineSystem{},
		ExperimentInputs:  experiment.NewSuffix(experiment.Label{Name: "u", Value: 2}),
		ExperimentOutputs: experiment.NewSuffix(experiment.Label{Name: "y1"}, experiment.Label{Name: "y2"}, experiment.Label{Name: "y3"}),
		MeasurementError: experiment.NewSuffix(
			experiment.Label{Name: "y1", Value: 1}, experiment.Label{Name: "y2", Value: 1}, experiment.Label{Name: "y3", Value: 1}),
		UnknownParameters: experiment.NewSuffix(experiment.Label{Name: "a", Value: 1.5}, experiment.Label{Name: "b", Value: 0.5}),
	}
}

// analytic is ∂y/∂(a, b) at u = 2.
var analytic = mat.NewDense(3, 2, []float64{
	2, 1,
	4, 1,
	6, 1,
})

func TestEngine_JacobianMatchesAnalytic(t *testing.T) {
	t.Parallel()

	for _, f := range scenario.Formulas() {
		for _, m := range []sensitivity.Method{sensitivity.Sequential, sensitivity.Simultaneous} {
			f, m := f, m
			t.Run(string(f)+"/"+string(m), func(t *testing.T) {
				t.Parallel()
				set, err := scenario.Build(lineModel(), f, 1e-4, true)
				require.NoError(t, err)

				res, err := sensitivity.New(nil, nil).Compute(context.Background(), set, m)
				require.NoError(t, err)
				require.Len(t, res.Outputs, set.Len())

				J, err := sensitivity.Jacobian(set, res.Outputs, sensitivity.Scaling{})
				require.NoError(t, err)
				assert.True(t, mat.EqualApprox(J, analytic, 1e-5), "J = %v", mat.Formatted(J))
			})
		}
	}
}

func TestJacobian_Scaling(t *testing.T) {
	t.Parallel()

	set, err := scenario.Build(lineModel(), scenario.Central, 1e-4, true)
	require.NoError(t, err)
	res, err := sensitivity.New(nil, nil).Compute(context.Background(), set, sensitivity.Sequential)
	require.NoError(t, err)

	J, err := sensitivity.Jacobian(set, res.Outputs, sensitivity.Scaling{Constant: 10, NominalParams: true})
	require.NoError(t, err)
	want := mat.NewDense(3, 2, []float64{
		2 * 1.5 * 10, 1 * 0.5 * 10,
		4 * 1.5 * 10, 1 * 0.5 * 10,
		6 * 1.5 * 10, 1 * 0.5 * 10,
	})
	assert.True(t, mat.EqualApprox(J, want, 1e-4))

	_, err = sensitivity.Jacobian(set, res.Outputs[:2], sensitivity.Scaling{})
	require.ErrorIs(t, err, sensitivity.ErrOutputShape)
}

// scripted fails every call from failAt on and counts calls.
type scripted struct {
	calls  int
	failAt int
}

func (s *scripted) Solve(_ context.Context, p *nlp.Problem) (*nlp.Solution, error) {
	s.calls++
	if s.failAt > 0 && s.calls >= s.failAt {
		return &nlp.Solution{Status: nlp.Infeasible, Message: "scripted"}, nil
	}
	out := make([][]float64, len(p.Blocks))
	for i := range out {
		out[i] = []float64{1, 2, 3}
	}

	return &nlp.Solution{Status: nlp.Optimal, Outputs: out}, nil
}

func TestEngine_SequentialFailsFast(t *testing.T) {
	t.Parallel()

	set, err := scenario.Build(lineModel(), scenario.Central, 1e-3, true)
	require.NoError(t, err)
	s := &scripted{failAt: 2}
	_, err = sensitivity.New(s, nil).Compute(context.Background(), set, sensitivity.Sequential)
	require.ErrorIs(t, err, sensitivity.ErrScenarioFailed)
	require.ErrorIs(t, err, oed.ErrSolverFailure)
	assert.Contains(t, err.Error(), `"a[-1]"`)
	assert.Equal(t, 2, s.calls)
}

func TestEngine_SimultaneousSingleCall(t *testing.T) {
	t.Parallel()

	set, err := scenario.Build(lineModel(), scenario.Forward, 1e-3, true)
	require.NoError(t, err)

	ok := &scripted{}
	res, err := sensitivity.New(ok, nil).Compute(context.Background(), set, sensitivity.Simultaneous)
	require.NoError(t, err)
	assert.Equal(t, 1, ok.calls)
	assert.Len(t, res.Outputs, 3)

	bad := &scripted{failAt: 1}
	_, err = sensitivity.New(bad, nil).Compute(context.Background(), set, sensitivity.Simultaneous)
	require.ErrorIs(t, err, oed.ErrSolverFailure)
}

// TestEngine_FormulaBeforeMethod checks that a bad formula fails the same
// way under both methods and before any solve.
func TestEngine_FormulaBeforeMethod(t *testing.T) {
	t.Parallel()

	set, err := scenario.Build(lineModel(), scenario.Central, 1e-3, true)
	require.NoError(t, err)
	set.Formula = "bad things"

	s := &scripted{}
	for _, m := range []sensitivity.Method{sensitivity.Sequential, sensitivity.Simultaneous, "bogus"} {
		_, err = sensitivity.New(s, nil).Compute(context.Background(), set, m)
		require.ErrorIs(t, err, scenario.ErrUnknownFormula)
		require.ErrorIs(t, err, oed.ErrInternal)
	}
	assert.Zero(t, s.calls)

	set.Formula = scenario.Central
	_, err = sensitivity.New(s, nil).Compute(context.Background(), set, "bogus")
	require.ErrorIs(t, err, sensitivity.ErrUnknownMethod)
	require.ErrorIs(t, err, oed.ErrConfiguration)

	m, err := sensitivity.ParseMethod("simultaneous")
	require.NoError(t, err)
	assert.Equal(t, sensitivity.Simultaneous, m)
}

func TestJacobian_ErrorKinds(t *testing.T) {
	t.Parallel()

	set, err := scenario.Build(lineModel(), scenario.Central, 1e-3, true)
	require.NoError(t, err)
	good := func() [][]float64 {
		out := make([][]float64, set.Len())
		for i := range out {
			out[i] = []float64{1, 2, 3}
		}
		return out
	}

	nan := good()
	nan[1][2] = math.NaN()
	short := good()
	short[2] = short[2][:1]

	tests := []struct {
		name    string
		outputs [][]float64
		want    error
		kind    error
	}{
		{"non-finite output", nan, sensitivity.ErrNonFinite, oed.ErrSolverFailure},
		{"ragged outputs", short, sensitivity.ErrOutputShape, oed.ErrInternal},
		{"missing scenario", good()[1:], sensitivity.ErrOutputShape, oed.ErrInternal},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := sensitivity.Jacobian(set, tc.outputs, sensitivity.Scaling{})
			require.ErrorIs(t, err, tc.want)
			require.ErrorIs(t, err, tc.kind)
		})
	}
}
