// SPDX-License-Identifier: MIT

package doe_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/oed"
	"github.com/katalvlaran/oed/doe"
	"github.com/katalvlaran/oed/fim"
)

// grid3 is a hand-made scan over x ∈ {1, 2}, y ∈ {10, 20}, z = 0 with
// trace = x + y; the (2, 20) point failed.
func grid3() *doe.FactorialResult {
	res := &doe.FactorialResult{Columns: []string{"x", "y", "z"}}
	for _, x := range []float64{1, 2} {
		for _, y := range []float64{10, 20} {
			row := doe.FactorialRow{
				Point:   []float64{x, y, 0},
				Metrics: fim.Metrics{Trace: x + y},
				Status:  doe.StatusSolved,
			}
			if x == 2 && y == 20 {
				row.Status = doe.StatusFailed
			}
			res.Rows = append(res.Rows, row)
		}
	}

	return res
}

type recordingPlotter struct {
	figures []*doe.Figure
	err     error
}

func (p *recordingPlotter) Plot(fig *doe.Figure) error {
	p.figures = append(p.figures, fig)
	return p.err
}

func TestDrawFactorialFigure_Checks(t *testing.T) {
	t.Parallel()

	names := []string{"x", "y", "z"}
	cases := []struct {
		name string
		opts doe.FigureOptions
		want error
		kind error
	}{
		{"no results", doe.FigureOptions{}, doe.ErrNoFactorial, oed.ErrStructural},
		{"no names", doe.FigureOptions{Results: grid3()}, doe.ErrFigureNames, oed.ErrConfiguration},
		{"no sensitivity", doe.FigureOptions{Results: grid3(), DesignVariableNames: names},
			doe.ErrNoSensitivityVars, oed.ErrConfiguration},
		{"no fixed", doe.FigureOptions{Results: grid3(), DesignVariableNames: names,
			SensitivityDesignVariables: []string{"x"}}, doe.ErrNoFixedVars, oed.ErrConfiguration},
		{"fixed before sensitivity", doe.FigureOptions{Results: grid3(), DesignVariableNames: names,
			SensitivityDesignVariables: []string{"q"}, FixedDesignVariables: map[string]float64{"p": 1}},
			doe.ErrFixedNotInResults, oed.ErrConfiguration},
		{"sensitivity not in results", doe.FigureOptions{Results: grid3(), DesignVariableNames: names,
			SensitivityDesignVariables: []string{"q"}, FixedDesignVariables: map[string]float64{}},
			doe.ErrSensitivityNotInResults, oed.ErrConfiguration},
		{"three axes", doe.FigureOptions{Results: grid3(), DesignVariableNames: names,
			SensitivityDesignVariables: names, FixedDesignVariables: map[string]float64{}},
			doe.ErrFigureDims, oed.ErrNotImplemented},
		{"uncovered", doe.FigureOptions{Results: grid3(), DesignVariableNames: names,
			SensitivityDesignVariables: []string{"x"}, FixedDesignVariables: map[string]float64{"y": 10}},
			doe.ErrFigurePartition, oed.ErrConfiguration},
		{"overlap", doe.FigureOptions{Results: grid3(), DesignVariableNames: names,
			SensitivityDesignVariables: []string{"x"}, FixedDesignVariables: map[string]float64{"x": 1, "y": 10, "z": 0}},
			doe.ErrFigurePartition, oed.ErrConfiguration},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			d, err := doe.New(lineExperiment())
			require.NoError(t, err)
			_, err = d.DrawFactorialFigure(tc.opts)
			require.ErrorIs(t, err, tc.want)
			require.ErrorIs(t, err, tc.kind)
		})
	}
}

func TestDrawFactorialFigure_1D(t *testing.T) {
	t.Parallel()

	p := &recordingPlotter{}
	d, err := doe.New(lineExperiment(), doe.WithPlotter(p))
	require.NoError(t, err)
	fig, err := d.DrawFactorialFigure(doe.FigureOptions{
		Results:                    grid3(),
		DesignVariableNames:        []string{"x", "y", "z"},
		SensitivityDesignVariables: []string{"y"},
		FixedDesignVariables:       map[string]float64{"x": 1, "z": 0},
		Title:                      "x = 1",
	})
	require.NoError(t, err)
	require.Len(t, p.figures, 1)
	assert.Same(t, fig, p.figures[0])

	assert.Equal(t, "x = 1", fig.Title)
	assert.Equal(t, [][]float64{{10, 20}}, fig.Axes)
	assert.Len(t, fig.Rows, 2)
	assert.Equal(t, []float64{11, 21}, fig.Series["trace_FIM"])
	assert.Nil(t, fig.Grid)
}

func TestDrawFactorialFigure_2D(t *testing.T) {
	t.Parallel()

	d, err := doe.New(lineExperiment())
	require.NoError(t, err)
	fig, err := d.DrawFactorialFigure(doe.FigureOptions{
		Results:                    grid3(),
		DesignVariableNames:        []string{"x", "y", "z"},
		SensitivityDesignVariables: []string{"x", "y"},
		FixedDesignVariables:       map[string]float64{"z": 0},
	})
	require.NoError(t, err)

	assert.Equal(t, [][]float64{{1, 2}, {10, 20}}, fig.Axes)
	g := fig.Grid["trace_FIM"]
	require.Len(t, g, 2)
	assert.Equal(t, 11.0, g[0][0])
	assert.Equal(t, 21.0, g[0][1])
	assert.Equal(t, 12.0, g[1][0])
	assert.True(t, math.IsNaN(g[1][1]), "failed rows plot as NaN")
	assert.Len(t, fig.Grid, len(doe.MetricNames))
}

func TestDrawFactorialFigure_PlotterError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	d, err := doe.New(lineExperiment(), doe.WithPlotter(&recordingPlotter{err: boom}))
	require.NoError(t, err)
	_, err = d.DrawFactorialFigure(doe.FigureOptions{
		Results:                    grid3(),
		DesignVariableNames:        []string{"x", "y", "z"},
		SensitivityDesignVariables: []string{"x", "y"},
		FixedDesignVariables:       map[string]float64{"z": 0},
	})
	require.ErrorIs(t, err, boom)
}

func TestDrawFactorialFigure_MalformedRows(t *testing.T) {
	t.Parallel()

	short := grid3()
	short.Rows[1].Point = []float64{1}
	nan := grid3()
	nan.Rows[2].Point[1] = math.NaN()

	for name, res := range map[string]*doe.FactorialResult{"short point": short, "NaN point": nan} {
		res := res
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			d, err := doe.New(lineExperiment())
			require.NoError(t, err)
			_, err = d.DrawFactorialFigure(doe.FigureOptions{
				Results:                    res,
				DesignVariableNames:        []string{"x", "y", "z"},
				SensitivityDesignVariables: []string{"x", "y"},
				FixedDesignVariables:       map[string]float64{"z": 0},
			})
			require.ErrorIs(t, err, doe.ErrFigureRows)
			require.ErrorIs(t, err, oed.ErrConfiguration)
		})
	}
}

// TestDrawFactorialFigure_UnsweptInput scans u only; w is still a design
// variable and has to be pinned.
func TestDrawFactorialFigure_UnsweptInput(t *testing.T) {
	t.Parallel()

	d, err := doe.New(lineExperiment())
	require.NoError(t, err)
	res, err := d.ComputeFIMFullFactorial(context.Background(), map[string]doe.Range{"u": {Start: 1, Stop: 3, Points: 3}}, "sequential")
	require.NoError(t, err)
	assert.Equal(t, []string{"u", "w"}, res.Columns)
	assert.Equal(t, []float64{2, 7}, res.Rows[1].Point)

	_, err = d.DrawFactorialFigure(doe.FigureOptions{
		SensitivityDesignVariables: []string{"u"},
		FixedDesignVariables:       map[string]float64{},
	})
	require.ErrorIs(t, err, doe.ErrFigurePartition)
	assert.Contains(t, err.Error(), `"w"`)

	fig, err := d.DrawFactorialFigure(doe.FigureOptions{
		SensitivityDesignVariables: []string{"u"},
		FixedDesignVariables:       map[string]float64{"w": 7},
	})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2, 3}}, fig.Axes)
	assert.Len(t, fig.Rows, 3)
}
