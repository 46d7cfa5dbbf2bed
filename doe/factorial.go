// SPDX-License-Identifier: MIT

package doe

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/oed"
	"github.com/katalvlaran/oed/experiment"
	"github.com/katalvlaran/oed/fim"
	"github.com/katalvlaran/oed/matrix"
	"github.com/katalvlaran/oed/scenario"
	"github.com/katalvlaran/oed/sensitivity"
)

// Range is a linearly spaced grid: Points values from Start to Stop inclusive.
type Range struct {
	Start  float64 `json:"start" yaml:"start"`
	Stop   float64 `json:"stop" yaml:"stop"`
	Points int     `json:"points" yaml:"points"`
}

// Values returns the grid of r.
func (r Range) Values() ([]float64, error) {
	if r.Points < 1 || !finite(r.Start) || !finite(r.Stop) {
		return nil, fmt.Errorf("%w: (%g, %g, %d)", ErrBadRange, r.Start, r.Stop, r.Points)
	}
	if r.Points == 1 {
		return []float64{r.Start}, nil
	}

	return floats.Span(make([]float64, r.Points), r.Start, r.Stop), nil
}

// Factorial row statuses.
const (
	StatusSolved = "solved"
	StatusFailed = "failed"
)

// MetricNames lists the per-row metrics in report order.
var MetricNames = []string{
	"log10 D-opt", "log10 A-opt", "log10 E-opt", "log10 ME-opt",
	"eigval_min", "eigval_max", "det_FIM", "trace_FIM", "solve_time",
}

// FactorialRow is one design point of a factorial scan.
type FactorialRow struct {
	Point     []float64   `json:"point" yaml:"point"`
	FIM       [][]float64 `json:"fim,omitempty" yaml:"fim,omitempty"`
	Metrics   fim.Metrics `json:"metrics" yaml:"metrics"`
	Status    string      `json:"status" yaml:"status"`
	Error     string      `json:"error,omitempty" yaml:"error,omitempty"`
	SolveTime float64     `json:"solve_time" yaml:"solve_time"`
}

// Metric returns the named metric of the row (NaN for unknown names or failed rows).
func (r FactorialRow) Metric(name string) float64 {
	if r.Status != StatusSolved && name != "solve_time" {
		return math.NaN()
	}
	m := r.Metrics
	switch name {
	case "log10 D-opt":
		return m.Log10D
	case "log10 A-opt":
		return m.Log10A
	case "log10 E-opt":
		return m.Log10E
	case "log10 ME-opt":
		return m.Log10ME
	case "eigval_min":
		return m.MinEig
	case "eigval_max":
		return m.MaxEig
	case "det_FIM":
		return m.Det
	case "trace_FIM":
		return m.Trace
	case "solve_time":
		return r.SolveTime
	}

	return math.NaN()
}

// FactorialResult is the table of a factorial scan. Columns are all model
// inputs in model input order; Point values follow Columns, with inputs that
// were not swept held at their nominal value.
type FactorialResult struct {
	Columns []string       `json:"columns" yaml:"columns"`
	Rows    []FactorialRow `json:"rows" yaml:"rows"`
}

// Column returns the index of a design variable column, or -1.
func (f *FactorialResult) Column(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}

	return -1
}

// Failed returns the number of rows without a FIM.
func (f *FactorialResult) Failed() int {
	n := 0
	for _, r := range f.Rows {
		if r.Status != StatusSolved {
			n++
		}
	}

	return n
}

// ComputeFIMFullFactorial evaluates the FIM over the Cartesian product of
// ranges.
// Implementation:
//   - Stage 1 (before any solve): load the model, check that every range key
//     is a design variable, the grids, the formula and the method.
//   - Stage 2: enumerate points in model input order, last variable fastest
//     (inputs without a range form a single-value grid at their nominal value);
//     per point clone the model, fix the inputs, build scenarios, solve,
//     assemble the FIM and its metrics.
//
// Behavior highlights:
//   - Solver failures are recorded on the row and the scan goes on;
//     configuration and internal errors abort it.
//   - The result is kept for DrawFactorialFigure.
func (d *Design) ComputeFIMFullFactorial(ctx context.Context, ranges map[string]Range, method string) (*FactorialResult, error) {
	m, err := d.load()
	if err != nil {
		return nil, err
	}
	var unknown []string
	for name := range ranges {
		if m.ExperimentInputs.Index(name) < 0 {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: %s not in %v", ErrRangeKeys, strings.Join(unknown, ", "), m.ExperimentInputs.Names())
	}

	columns := m.ExperimentInputs.Names()
	nominal := m.ExperimentInputs.Values()
	grids := make([][]float64, len(columns))
	for i, name := range columns {
		r, ok := ranges[name]
		if !ok {
			// unswept inputs stay at their nominal value
			grids[i] = []float64{nominal[i]}
			continue
		}
		g, gerr := r.Values()
		if gerr != nil {
			return nil, fmt.Errorf("%s: %w", name, gerr)
		}
		grids[i] = g
	}
	if err = scenario.Check(d.formula); err != nil {
		return nil, err
	}
	meth, err := sensitivity.ParseMethod(method)
	if err != nil {
		return nil, err
	}

	total := 1
	for _, g := range grids {
		total *= len(g)
	}
	result := &FactorialResult{Columns: columns, Rows: make([]FactorialRow, 0, total)}
	idx := make([]int, len(grids))
	start := time.Now()
	for k := 0; k < total; k++ {
		point := make([]float64, len(grids))
		for i, g := range grids {
			point[i] = g[idx[i]]
		}
		row, rerr := d.factorialPoint(ctx, m, columns, point, meth)
		if rerr != nil {
			return nil, rerr
		}
		result.Rows = append(result.Rows, row)
		d.logger.Info("factorial point",
			zap.Int("point", k+1),
			zap.Int("total", total),
			zap.Float64s("design", point),
			zap.String("status", row.Status))

		// odometer: last variable fastest
		for i := len(idx) - 1; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(grids[i]) {
				break
			}
			idx[i] = 0
		}
	}
	d.factorial = result
	d.logger.Info("factorial scan finished",
		zap.Int("points", total),
		zap.Int("failed", result.Failed()),
		zap.Duration("elapsed", time.Since(start)))

	return result, nil
}

// factorialPoint evaluates one grid point; solver failures become a failed row.
func (d *Design) factorialPoint(ctx context.Context, base *experiment.LabeledModel, columns []string, point []float64, meth sensitivity.Method) (FactorialRow, error) {
	row := FactorialRow{Point: point, Status: StatusSolved}
	start := time.Now()
	m := base.Clone()
	for i, name := range columns {
		if err := m.ExperimentInputs.Set(name, point[i]); err != nil {
			return row, err
		}
	}
	set, err := d.scenarios(m)
	if err != nil {
		return row, err
	}
	res, err := d.engine.Compute(ctx, set, meth)
	if err == nil {
		var F *matrix.Sym
		F, err = d.assemble(set, m, res.Outputs)
		if err == nil {
			row.FIM = F.RowsCopy()
			row.Metrics, err = fim.Evaluate(F)
		}
	}
	if err != nil {
		if !errors.Is(err, oed.ErrSolverFailure) || ctx.Err() != nil {
			return row, err
		}
		row.Status, row.Error, row.FIM = StatusFailed, err.Error(), nil
	}
	row.SolveTime = time.Since(start).Seconds()

	return row, nil
}

// assemble forms the FIM of m from the solved outputs of set.
func (d *Design) assemble(set *scenario.Set, m *experiment.LabeledModel, outputs [][]float64) (*matrix.Sym, error) {
	jac, err := sensitivity.Jacobian(set, outputs, d.scaling())
	if err != nil {
		return nil, err
	}

	return fim.Assemble(jac, m.MeasurementError.Values(), d.priorMatrix(), d.opts.matrixOptions()...)
}
