// SPDX-License-Identifier: MIT

package doe

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/oed/nlp"
)

// Settings records the design configuration of a run.
type Settings struct {
	Formula            string  `json:"formula" yaml:"formula"`
	Step               float64 `json:"step" yaml:"step"`
	RelativeStep       bool    `json:"relative_step" yaml:"relative_step"`
	Objective          string  `json:"objective" yaml:"objective"`
	ScaleConstant      float64 `json:"scale_constant_value" yaml:"scale_constant_value"`
	ScaleNominalParams bool    `json:"scale_nominal_param_value" yaml:"scale_nominal_param_value"`
	Cholesky           bool    `json:"cholesky" yaml:"cholesky"`
	LowerOnly          bool    `json:"only_compute_fim_lower" yaml:"only_compute_fim_lower"`
	LLowerBound        float64 `json:"L_LB" yaml:"L_LB"`
	PriorMerge         string  `json:"prior_merge" yaml:"prior_merge"`
}

// Results is the report of one RunDOE call.
type Results struct {
	RunID          string             `json:"run_id" yaml:"run_id"`
	Created        time.Time          `json:"created" yaml:"created"`
	Model          string             `json:"model" yaml:"model"`
	Settings       Settings           `json:"settings" yaml:"settings"`
	DesignNames    []string           `json:"design_names" yaml:"design_names"`
	Design         map[string]float64 `json:"design" yaml:"design"`
	ParameterNames []string           `json:"parameter_names" yaml:"parameter_names"`
	Parameters     []float64          `json:"parameters" yaml:"parameters"`
	OutputNames    []string           `json:"output_names" yaml:"output_names"`
	Outputs        []float64          `json:"outputs" yaml:"outputs"`
	FIM            [][]float64        `json:"fim" yaml:"fim"`
	L              [][]float64        `json:"L,omitempty" yaml:"L,omitempty"`
	Floored        int                `json:"floored_pivots" yaml:"floored_pivots"`
	LinkResidual   float64            `json:"link_residual" yaml:"link_residual"`
	Jacobian       [][]float64        `json:"jacobian" yaml:"jacobian"`
	Objective      float64            `json:"objective" yaml:"objective"`
	SolverStatus   string             `json:"solver_status" yaml:"solver_status"`
	SolverMessage  string             `json:"solver_message,omitempty" yaml:"solver_message,omitempty"`
	Iterations     int                `json:"iterations" yaml:"iterations"`
	SolveTime      float64            `json:"solve_time" yaml:"solve_time"`
}

// report builds the Results of a finished build.
func (d *Design) report(b *build, sol *nlp.Solution, solveTime time.Duration) *Results {
	r := &Results{
		RunID:   uuid.NewString(),
		Created: time.Now().UTC(),
		Model:   b.model.Name,
		Settings: Settings{
			Formula:            string(d.formula),
			Step:               d.opts.step,
			RelativeStep:       d.opts.relative,
			Objective:          string(d.criterion),
			ScaleConstant:      d.opts.scaleConstant,
			ScaleNominalParams: d.opts.scaleNominal,
			Cholesky:           d.opts.cholesky,
			LowerOnly:          d.opts.lowerOnly,
			LLowerBound:        d.opts.lLowerBound,
			PriorMerge:         d.opts.merge.String(),
		},
		DesignNames:    b.model.ExperimentInputs.Names(),
		Design:         designValues(b.model),
		ParameterNames: b.model.UnknownParameters.Names(),
		Parameters:     b.model.UnknownParameters.Values(),
		OutputNames:    b.model.ExperimentOutputs.Names(),
		Outputs:        b.model.ExperimentOutputs.Values(),
		FIM:            b.fim.RowsCopy(),
		Jacobian:       denseRows(b.jac),
		Objective:      sol.Objective,
		SolverStatus:   sol.Status.String(),
		SolverMessage:  sol.Message,
		Iterations:     sol.Iterations,
		SolveTime:      solveTime.Seconds(),
	}
	if b.factor != nil {
		r.L = denseRows(b.factor.L)
		r.Floored = b.factor.Floored
		r.LinkResidual = b.factor.Residual
	}

	return r
}

// denseRows copies m into nested slices.
func denseRows(m mat.Matrix) [][]float64 {
	r, c := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = make([]float64, c)
		for j := range out[i] {
			out[i][j] = m.At(i, j)
		}
	}

	return out
}

// writeResults persists r to dst: nothing for nil, JSON for writers and
// paths, YAML for paths ending in .yaml or .yml.
func writeResults(dst any, r *Results) error {
	switch v := dst.(type) {
	case nil:
		return nil
	case io.Writer:
		enc := json.NewEncoder(v)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("doe: write results: %w", err)
		}
		return nil
	case string:
		var (
			data []byte
			err  error
		)
		switch strings.ToLower(filepath.Ext(v)) {
		case ".yaml", ".yml":
			data, err = yaml.Marshal(r)
		default:
			data, err = json.MarshalIndent(r, "", "  ")
		}
		if err != nil {
			return fmt.Errorf("doe: encode results: %w", err)
		}
		if err = os.WriteFile(v, data, 0o644); err != nil {
			return fmt.Errorf("doe: write results: %w", err)
		}
		return nil
	}

	return fmt.Errorf("%w: got %T", ErrResultsFile, dst)
}
