// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/oed/doe"
)

// Range is a design range as written in YAML, either
//
//	T[0]: [300, 700, 5]
//
// or
//
//	T[0]: {start: 300, stop: 700, points: 5}
type Range struct {
	Start  float64 `yaml:"start"`
	Stop   float64 `yaml:"stop"`
	Points int     `yaml:"points"`
}

// Range converts r to its doe form.
func (r Range) Range() doe.Range { return doe.Range{Start: r.Start, Stop: r.Stop, Points: r.Points} }

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *Range) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var tuple []float64
		if err := value.Decode(&tuple); err != nil {
			return fmt.Errorf("%w: line %d: %w", ErrRange, value.Line, err)
		}
		if len(tuple) != 3 {
			return fmt.Errorf("%w: line %d: got %d values", ErrRange, value.Line, len(tuple))
		}
		if tuple[2] != math.Trunc(tuple[2]) {
			return fmt.Errorf("%w: line %d: points %g is not an integer", ErrRange, value.Line, tuple[2])
		}
		r.Start, r.Stop, r.Points = tuple[0], tuple[1], int(tuple[2])
		return nil
	case yaml.MappingNode:
		type plain Range
		var p plain
		if err := value.Decode(&p); err != nil {
			return fmt.Errorf("%w: line %d: %w", ErrRange, value.Line, err)
		}
		*r = Range(p)
		return nil
	}

	return fmt.Errorf("%w: line %d", ErrRange, value.Line)
}
