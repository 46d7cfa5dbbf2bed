// SPDX-License-Identifier: MIT

package doe

import (
	"fmt"
	"math"
	"sort"
)

// Plotter renders factorial figures.
type Plotter interface {
	Plot(fig *Figure) error
}

// FigureOptions selects the slice of a factorial result to draw.
// A nil FixedDesignVariables means "not given"; an empty map pins nothing.
type FigureOptions struct {
	Results                    *FactorialResult
	DesignVariableNames        []string
	SensitivityDesignVariables []string
	FixedDesignVariables       map[string]float64
	Title                      string
	// Tolerance is the relative tolerance used to match pinned values (default 1e-8).
	Tolerance float64
}

// Figure is a 1D or 2D slice of a factorial result.
// Axes[k] holds the sorted distinct values of Sensitivity[k]. For one axis
// Series[metric][i] is the metric at Axes[0][i]; for two axes
// Grid[metric][i][j] is the metric at (Axes[0][i], Axes[1][j]). Missing
// combinations are NaN.
type Figure struct {
	Title       string
	Sensitivity []string
	Fixed       map[string]float64
	Axes        [][]float64
	Rows        []FactorialRow
	Series      map[string][]float64
	Grid        map[string][][]float64
}

// DrawFactorialFigure slices a factorial result and hands the figure to the
// configured Plotter, if any.
// Checks, in order:
//   - results: given, or computed earlier (structural); given results need
//     design variable names (configuration).
//   - sensitivity variables, then fixed variables, must be given.
//   - fixed names, then sensitivity names, must be result columns.
//   - at most two sensitivity variables (not implemented beyond).
//   - sensitivity and fixed variables together cover every design variable.
//   - every row has one finite value per column.
func (d *Design) DrawFactorialFigure(opts FigureOptions) (*Figure, error) {
	res, names := opts.Results, opts.DesignVariableNames
	if res == nil {
		if d.factorial == nil {
			return nil, ErrNoFactorial
		}
		res = d.factorial
		if len(names) == 0 {
			names = res.Columns
		}
	} else if len(names) == 0 {
		return nil, ErrFigureNames
	}
	if len(opts.SensitivityDesignVariables) == 0 {
		return nil, ErrNoSensitivityVars
	}
	if opts.FixedDesignVariables == nil {
		return nil, ErrNoFixedVars
	}
	for name := range opts.FixedDesignVariables {
		if res.Column(name) < 0 {
			return nil, fmt.Errorf("%w: %q", ErrFixedNotInResults, name)
		}
	}
	for _, name := range opts.SensitivityDesignVariables {
		if res.Column(name) < 0 {
			return nil, fmt.Errorf("%w: %q", ErrSensitivityNotInResults, name)
		}
	}
	if n := len(opts.SensitivityDesignVariables); n > 2 {
		return nil, fmt.Errorf("%w: got %d", ErrFigureDims, n)
	}
	if err := checkPartition(names, opts.SensitivityDesignVariables, opts.FixedDesignVariables); err != nil {
		return nil, err
	}
	if err := checkRows(res); err != nil {
		return nil, err
	}

	fig := slice(res, opts)
	if d.opts.plotter != nil {
		if err := d.opts.plotter.Plot(fig); err != nil {
			return nil, fmt.Errorf("doe: plot: %w", err)
		}
	}

	return fig, nil
}

// checkPartition requires sens ∪ fixed == names with no overlap.
func checkPartition(names, sens []string, fixed map[string]float64) error {
	covered := make(map[string]bool, len(names))
	for _, s := range sens {
		if _, dup := fixed[s]; dup {
			return fmt.Errorf("%w: %q is both", ErrFigurePartition, s)
		}
		covered[s] = true
	}
	for f := range fixed {
		covered[f] = true
	}
	for _, n := range names {
		if !covered[n] {
			return fmt.Errorf("%w: %q is neither", ErrFigurePartition, n)
		}
	}
	if len(covered) != len(names) {
		return fmt.Errorf("%w: %d variables given for %d design variables", ErrFigurePartition, len(covered), len(names))
	}

	return nil
}

// checkRows rejects rows whose point does not fit the columns.
func checkRows(res *FactorialResult) error {
	for i, row := range res.Rows {
		// Slicing indexes Point by column and positions values on sorted axes.
		if len(row.Point) != len(res.Columns) {
			return fmt.Errorf("%w: row %d has %d values for %d columns", ErrFigureRows, i, len(row.Point), len(res.Columns))
		}
		for j, v := range row.Point {
			if !finite(v) {
				return fmt.Errorf("%w: row %d %s = %g", ErrFigureRows, i, res.Columns[j], v)
			}
		}
	}

	return nil
}

// slice keeps the rows matching the pinned values and lays the metrics out
// on the sensitivity axes.
func slice(res *FactorialResult, opts FigureOptions) *Figure {
	tol := opts.Tolerance
	if tol <= 0 {
		tol = 1e-8
	}
	fig := &Figure{
		Title:       opts.Title,
		Sensitivity: append([]string(nil), opts.SensitivityDesignVariables...),
		Fixed:       make(map[string]float64, len(opts.FixedDesignVariables)),
	}
	for k, v := range opts.FixedDesignVariables {
		fig.Fixed[k] = v
	}
	for _, row := range res.Rows {
		keep := true
		for name, v := range opts.FixedDesignVariables {
			x := row.Point[res.Column(name)]
			if math.Abs(x-v) > tol*math.Max(1, math.Abs(v)) {
				keep = false
				break
			}
		}
		if keep {
			fig.Rows = append(fig.Rows, row)
		}
	}

	cols := make([]int, len(fig.Sensitivity))
	fig.Axes = make([][]float64, len(fig.Sensitivity))
	for k, name := range fig.Sensitivity {
		cols[k] = res.Column(name)
		fig.Axes[k] = distinct(fig.Rows, cols[k])
	}

	if len(cols) == 1 {
		fig.Series = make(map[string][]float64, len(MetricNames))
		for _, metric := range MetricNames {
			s := nanSlice(len(fig.Axes[0]))
			for _, row := range fig.Rows {
				s[position(fig.Axes[0], row.Point[cols[0]])] = row.Metric(metric)
			}
			fig.Series[metric] = s
		}
		return fig
	}

	fig.Grid = make(map[string][][]float64, len(MetricNames))
	for _, metric := range MetricNames {
		g := make([][]float64, len(fig.Axes[0]))
		for i := range g {
			g[i] = nanSlice(len(fig.Axes[1]))
		}
		for _, row := range fig.Rows {
			i := position(fig.Axes[0], row.Point[cols[0]])
			j := position(fig.Axes[1], row.Point[cols[1]])
			g[i][j] = row.Metric(metric)
		}
		fig.Grid[metric] = g
	}

	return fig
}

// distinct returns the sorted distinct values of column c.
func distinct(rows []FactorialRow, c int) []float64 {
	seen := make(map[float64]struct{}, len(rows))
	var out []float64
	for _, r := range rows {
		v := r.Point[c]
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Float64s(out)

	return out
}

// position finds v in the sorted axis (v is always present).
func position(axis []float64, v float64) int { return sort.SearchFloat64s(axis, v) }

func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}

	return s
}
