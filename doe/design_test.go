// SPDX-License-Identifier: MIT

package doe_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/oed"
	"github.com/katalvlaran/oed/doe"
	"github.com/katalvlaran/oed/examples/reactor"
	"github.com/katalvlaran/oed/experiment"
	"github.com/katalvlaran/oed/fim"
	"github.com/katalvlaran/oed/scenario"
)

var approx = cmpopts.EquateApprox(0, 1e-6)

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := doe.New(nil)
	require.ErrorIs(t, err, experiment.ErrNoLabeledModel)
	require.ErrorIs(t, err, oed.ErrConfiguration)

	cases := []struct {
		name string
		opts []doe.Option
		want error
	}{
		{"bad formula", []doe.Option{doe.WithFormula("upwind")}, doe.ErrBadOption},
		{"zero step", []doe.Option{doe.WithStep(0)}, doe.ErrBadOption},
		{"negative floor", []doe.Option{doe.WithLLowerBound(-1)}, doe.ErrBadOption},
		{"zero scale", []doe.Option{doe.WithScaleConstant(0)}, doe.ErrBadOption},
		{"objective", []doe.Option{doe.WithObjective("x")}, fim.ErrUnknownObjective},
		{"non-square prior", []doe.Option{doe.WithPriorFIM(mat.NewDense(2, 3, nil))}, doe.ErrBadOption},
		{"asymmetric prior", []doe.Option{doe.WithPriorFIM(mat.NewDense(2, 2, []float64{1, 2, 3, 4}))}, doe.ErrBadOption},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := doe.New(lineExperiment(), tc.opts...)
			require.ErrorIs(t, err, tc.want)
			require.ErrorIs(t, err, oed.ErrConfiguration)
		})
	}

	_, err = doe.New(lineExperiment(), doe.WithObjective("x"))
	assert.Contains(t, err.Error(), `objective option "x" is not supported`)

	d, err := doe.New(lineExperiment(), doe.WithObjective("det"))
	require.NoError(t, err)
	assert.Equal(t, fim.Determinant, d.Criterion())
	assert.Equal(t, doe.Unbuilt, d.Phase())
	require.NoError(t, d.SetObjective("trace"))
	assert.Equal(t, fim.Trace, d.Criterion())
	require.ErrorIs(t, d.SetObjective("E"), fim.ErrUnknownObjective)
}

func TestGenerateScenarios_MissingSuffix(t *testing.T) {
	t.Parallel()

	exp := experiment.Func(func() (*experiment.LabeledModel, error) {
		m := lineModel()
		m.MeasurementError = nil
		return m, nil
	})
	d, err := doe.New(exp)
	require.NoError(t, err)

	err = d.GenerateScenarios()
	require.ErrorIs(t, err, experiment.ErrMissingSuffix)
	require.ErrorIs(t, err, oed.ErrStructural)
	assert.Equal(t, doe.Unbuilt, d.Phase())
}

// TestShapeMessages checks the reported sizes against the reactor
// (27 outputs, 4 parameters).
func TestShapeMessages(t *testing.T) {
	t.Parallel()

	ones := mat.NewDense(5, 5, nil)
	ones.Apply(func(_, _ int, _ float64) float64 { return 1 }, ones)

	d, err := doe.New(reactor.New(), doe.WithPriorFIM(ones))
	require.NoError(t, err)
	err = d.GenerateScenarios()
	require.ErrorIs(t, err, fim.ErrPriorShape)
	require.ErrorIs(t, err, oed.ErrConfiguration)
	assert.Contains(t, err.Error(), "4 by 4")
	assert.Contains(t, err.Error(), "5 by 5")

	d, err = doe.New(reactor.New(), doe.WithJacobianInitial(ones))
	require.NoError(t, err)
	err = d.GenerateScenarios()
	require.ErrorIs(t, err, fim.ErrJacobianShape)
	assert.Contains(t, err.Error(), "27 by 4")
	assert.Contains(t, err.Error(), "5 by 5")

	shortError := experiment.Func(func() (*experiment.LabeledModel, error) {
		m, err := reactor.New().LabeledModel()
		if err != nil {
			return nil, err
		}
		m.MeasurementError = experiment.NewSuffix(m.MeasurementError.Labels()[0])
		return m, nil
	})
	d, err = doe.New(shortError)
	require.NoError(t, err)
	err = d.GenerateScenarios()
	require.ErrorIs(t, err, experiment.ErrLengthMismatch)
	require.ErrorIs(t, err, oed.ErrConfiguration)
	assert.Contains(t, err.Error(), "27")
	assert.Contains(t, err.Error(), "length of measurement error, 1")
}

func TestUnknownFormula_IsInternal(t *testing.T) {
	t.Parallel()

	d, err := doe.New(lineExperiment())
	require.NoError(t, err)
	d.SetFormula("bad things")

	err = d.GenerateScenarios()
	require.ErrorIs(t, err, scenario.ErrUnknownFormula)
	require.ErrorIs(t, err, oed.ErrInternal)

	err = d.ComputeFIM(context.Background(), "sequential")
	require.ErrorIs(t, err, oed.ErrInternal)
	assert.Equal(t, doe.Unbuilt, d.Phase())
}

func TestComputeFIM_Line(t *testing.T) {
	t.Parallel()

	for _, method := range []string{"sequential", "simultaneous"} {
		for _, f := range scenario.Formulas() {
			method, f := method, f
			t.Run(method+"/"+string(f), func(t *testing.T) {
				t.Parallel()
				d, err := doe.New(lineExperiment(), doe.WithFormula(string(f)))
				require.NoError(t, err)
				require.NoError(t, d.ComputeFIM(context.Background(), method))
				assert.Equal(t, doe.FIMComputed, d.Phase())

				F, err := d.FIM()
				require.NoError(t, err)
				if diff := cmp.Diff(lineFIM(2), F.RowsCopy(), approx); diff != "" {
					t.Errorf("FIM mismatch (-want +got):\n%s", diff)
				}

				J, err := d.SensitivityMatrix()
				require.NoError(t, err)
				r, c := J.Dims()
				assert.Equal(t, []int{3, 2}, []int{r, c})

				y, err := d.ExperimentOutputValues()
				require.NoError(t, err)
				assert.InDeltaSlice(t, []float64{3.5, 6.5, 9.5}, y, 1e-8)

				// no factor without CreateModel
				_, err = d.CholeskyFactor()
				require.ErrorIs(t, err, doe.ErrNotBuilt)
			})
		}
	}
}

func TestComputeFIM_FailureKeepsState(t *testing.T) {
	t.Parallel()

	d, err := doe.New(lineExperiment())
	require.NoError(t, err)
	require.NoError(t, d.ComputeFIM(context.Background(), "sequential"))
	before, err := d.FIM()
	require.NoError(t, err)

	require.ErrorIs(t, d.ComputeFIM(context.Background(), "parallel"), oed.ErrConfiguration)
	d.SetFormula("bad things")
	require.ErrorIs(t, d.ComputeFIM(context.Background(), "sequential"), oed.ErrInternal)

	assert.Equal(t, doe.FIMComputed, d.Phase())
	after, err := d.FIM()
	require.NoError(t, err)
	assert.Equal(t, before.RowsCopy(), after.RowsCopy())
}

func TestAccessors_BeforeBuild(t *testing.T) {
	t.Parallel()

	d, err := doe.New(lineExperiment())
	require.NoError(t, err)

	_, err = d.FIM()
	require.ErrorIs(t, err, doe.ErrNotBuilt)
	require.ErrorIs(t, err, oed.ErrStructural)
	_, err = d.SensitivityMatrix()
	require.ErrorIs(t, err, doe.ErrNotBuilt)
	_, err = d.ExperimentInputValues()
	require.ErrorIs(t, err, doe.ErrNotBuilt)
	_, err = d.Results()
	require.ErrorIs(t, err, doe.ErrNotBuilt)
	_, err = d.FactorialResults()
	require.ErrorIs(t, err, doe.ErrNoFactorial)

	require.NoError(t, d.GenerateScenarios())
	assert.Equal(t, doe.ScenariosBuilt, d.Phase())
	in, err := d.ExperimentInputValues()
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 7}, in)
	p, err := d.UnknownParameterValues()
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 0.5}, p)
	s, err := d.MeasurementErrorValues()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1}, s)
	_, err = d.FIM()
	require.ErrorIs(t, err, doe.ErrNotBuilt)
}

func TestCreateModel(t *testing.T) {
	t.Parallel()

	t.Run("computed", func(t *testing.T) {
		t.Parallel()
		d, err := doe.New(lineExperiment())
		require.NoError(t, err)
		require.NoError(t, d.CreateModel(context.Background()))
		assert.Equal(t, doe.FIMComputed, d.Phase())

		F, err := d.FIM()
		require.NoError(t, err)
		L, err := d.CholeskyFactor()
		require.NoError(t, err)
		var LLt mat.Dense
		LLt.Mul(L, L.T())
		assert.True(t, mat.EqualApprox(&LLt, F, 1e-6))
	})

	t.Run("jacobian seed", func(t *testing.T) {
		t.Parallel()
		J := mat.NewDense(3, 2, []float64{1, 0, 0, 1, 1, 1})
		d, err := doe.New(lineExperiment(), doe.WithJacobianInitial(J), doe.WithCholesky(false))
		require.NoError(t, err)
		require.NoError(t, d.CreateModel(context.Background()))

		F, err := d.FIM()
		require.NoError(t, err)
		assert.Equal(t, [][]float64{{2, 1}, {1, 2}}, F.RowsCopy())
		_, err = d.CholeskyFactor()
		require.ErrorIs(t, err, doe.ErrNotBuilt)
	})

	t.Run("fim and L seeds", func(t *testing.T) {
		t.Parallel()
		tiny := mat.NewDense(2, 2, []float64{1e-9, 0, 0, 1e-9})
		d, err := doe.New(lineExperiment(),
			doe.WithFIMInitial(mat.NewSymDense(2, []float64{4, 0, 0, 9})),
			doe.WithLInitial(tiny),
			doe.WithLLowerBound(1e-3))
		require.NoError(t, err)
		require.NoError(t, d.CreateModel(context.Background()))

		F, err := d.FIM()
		require.NoError(t, err)
		assert.Equal(t, [][]float64{{4, 0}, {0, 9}}, F.RowsCopy())
		L, err := d.CholeskyFactor()
		require.NoError(t, err)
		assert.Equal(t, 1e-3, L.At(0, 0))
		assert.Equal(t, 1e-3, L.At(1, 1))
	})
}

func TestUpdatePriorFIM(t *testing.T) {
	t.Parallel()

	d, err := doe.New(lineExperiment())
	require.NoError(t, err)

	err = d.UpdatePriorFIM(nil)
	require.ErrorIs(t, err, fim.ErrNotSquare)
	require.ErrorIs(t, err, oed.ErrConfiguration)
	require.ErrorIs(t, d.UpdatePriorFIM(mat.NewDense(2, 3, nil)), oed.ErrConfiguration)

	err = d.UpdatePriorFIM(mat.NewDiagDense(2, []float64{1, 1}))
	require.ErrorIs(t, err, doe.ErrNoFIM)
	require.ErrorIs(t, err, oed.ErrStructural)

	require.NoError(t, d.ComputeFIM(context.Background(), "sequential"))
	err = d.UpdatePriorFIM(mat.NewDiagDense(3, []float64{1, 1, 1}))
	require.ErrorIs(t, err, fim.ErrPriorShape)

	require.NoError(t, d.UpdatePriorFIM(mat.NewDiagDense(2, []float64{1, 1})))
	require.NoError(t, d.UpdatePriorFIM(mat.NewDiagDense(2, []float64{2, 2})))
	assert.Equal(t, [][]float64{{2, 0}, {0, 2}}, d.Prior().RowsCopy(), "replace is the default")

	require.NoError(t, d.ComputeFIM(context.Background(), "sequential"))
	F, err := d.FIM()
	require.NoError(t, err)
	want := lineFIM(2)
	want[0][0] += 2
	want[1][1] += 2
	if diff := cmp.Diff(want, F.RowsCopy(), approx); diff != "" {
		t.Errorf("FIM with prior mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdatePriorFIM_Add(t *testing.T) {
	t.Parallel()

	d, err := doe.New(lineExperiment(),
		doe.WithPriorFIM(mat.NewDiagDense(2, []float64{1, 1})),
		doe.WithPriorMerge(doe.PriorAdd))
	require.NoError(t, err)
	require.NoError(t, d.ComputeFIM(context.Background(), "sequential"))
	require.NoError(t, d.UpdatePriorFIM(mat.NewDiagDense(2, []float64{2, 2})))
	assert.Equal(t, [][]float64{{3, 0}, {0, 3}}, d.Prior().RowsCopy())
}

func TestMultiExperiment_NotImplemented(t *testing.T) {
	t.Parallel()

	d, err := doe.New(lineExperiment())
	require.NoError(t, err)
	err = d.RunMultiDOESequential(context.Background(), lineExperiment(), lineExperiment())
	require.ErrorIs(t, err, doe.ErrMultiExperiment)
	require.ErrorIs(t, err, oed.ErrNotImplemented)
	require.ErrorIs(t, d.RunMultiDOESimultaneous(context.Background()), oed.ErrNotImplemented)
}

func TestPhase_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "unbuilt", doe.Unbuilt.String())
	assert.Equal(t, "design optimized", doe.DesignOptimized.String())
	assert.Equal(t, "phase(9)", doe.Phase(9).String())
	assert.Equal(t, "add", doe.PriorAdd.String())
}
