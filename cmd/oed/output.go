// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/katalvlaran/oed/doe"
	"github.com/katalvlaran/oed/examples/reactor"
	"github.com/katalvlaran/oed/fim"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
}

func parameterNames(n int) []string {
	if n == len(reactor.Parameters) {
		return reactor.Parameters
	}
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("p%d", i)
	}

	return names
}

func writeMatrix(w io.Writer, names []string, rows [][]float64) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "\t%s\t\n", strings.Join(names, "\t"))
	for i, row := range rows {
		fmt.Fprintf(tw, "%s\t", names[i])
		for _, v := range row {
			fmt.Fprintf(tw, "%.6g\t", v)
		}
		fmt.Fprintln(tw)
	}

	return tw.Flush()
}

func writeMetrics(w io.Writer, m fim.Metrics) error {
	tw := newTable(w)
	for _, kv := range []struct {
		name string
		v    float64
	}{
		{"trace_FIM", m.Trace},
		{"det_FIM", m.Det},
		{"eigval_min", m.MinEig},
		{"eigval_max", m.MaxEig},
		{"log10 A-opt", m.Log10A},
		{"log10 D-opt", m.Log10D},
		{"log10 E-opt", m.Log10E},
		{"log10 ME-opt", m.Log10ME},
	} {
		fmt.Fprintf(tw, "%s\t%.6g\t\n", kv.name, kv.v)
	}

	return tw.Flush()
}

func writeFactorial(w io.Writer, res *doe.FactorialResult) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "%s\t%s\tstatus\t\n", strings.Join(res.Columns, "\t"), strings.Join(doe.MetricNames, "\t"))
	for _, row := range res.Rows {
		for _, v := range row.Point {
			fmt.Fprintf(tw, "%g\t", v)
		}
		for _, name := range doe.MetricNames {
			fmt.Fprintf(tw, "%s\t", number(row.Metric(name)))
		}
		fmt.Fprintf(tw, "%s\t\n", row.Status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if n := res.Failed(); n > 0 {
		fmt.Fprintf(w, "%d of %d points failed\n", n, len(res.Rows))
	}

	return nil
}

func writeSummary(w io.Writer, r *doe.Results, path string) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "run\t%s\t\n", r.RunID)
	fmt.Fprintf(tw, "status\t%s\t\n", r.SolverStatus)
	fmt.Fprintf(tw, "%s\t%.6g\t\n", r.Settings.Objective, r.Objective)
	for _, name := range r.DesignNames {
		fmt.Fprintf(tw, "%s\t%.6g\t\n", name, r.Design[name])
	}
	fmt.Fprintf(tw, "results\t%s\t\n", path)

	return tw.Flush()
}

func number(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}

	return fmt.Sprintf("%.4g", v)
}

// tablePlotter prints factorial figures as text tables.
type tablePlotter struct{ w io.Writer }

var _ doe.Plotter = (*tablePlotter)(nil)

func (p *tablePlotter) Plot(fig *doe.Figure) error {
	title := fig.Title
	if title == "" {
		title = "sensitivity of " + strings.Join(fig.Sensitivity, ", ")
	}
	fmt.Fprintln(p.w, title)
	if len(fig.Fixed) > 0 {
		pins := make([]string, 0, len(fig.Fixed))
		for name, v := range fig.Fixed {
			pins = append(pins, fmt.Sprintf("%s=%g", name, v))
		}
		sort.Strings(pins)
		fmt.Fprintf(p.w, "fixed: %s\n", strings.Join(pins, ", "))
	}

	tw := newTable(p.w)
	if fig.Series != nil {
		fmt.Fprintf(tw, "%s\t%s\t\n", fig.Sensitivity[0], strings.Join(doe.MetricNames, "\t"))
		for i, x := range fig.Axes[0] {
			fmt.Fprintf(tw, "%g\t", x)
			for _, name := range doe.MetricNames {
				fmt.Fprintf(tw, "%s\t", number(fig.Series[name][i]))
			}
			fmt.Fprintln(tw)
		}
		return tw.Flush()
	}

	// 2D: one grid of log10 D-opt, rows along the first axis.
	const metric = "log10 D-opt"
	fmt.Fprintf(tw, "%s \\ %s\t", fig.Sensitivity[0], fig.Sensitivity[1])
	for _, y := range fig.Axes[1] {
		fmt.Fprintf(tw, "%g\t", y)
	}
	fmt.Fprintln(tw)
	for i, x := range fig.Axes[0] {
		fmt.Fprintf(tw, "%g\t", x)
		for j := range fig.Axes[1] {
			fmt.Fprintf(tw, "%s\t", number(fig.Grid[metric][i][j]))
		}
		fmt.Fprintln(tw)
	}
	fmt.Fprintf(tw, "(%s)\t\n", metric)

	return tw.Flush()
}
