// SPDX-License-Identifier: MIT

package experiment

import "fmt"

// Label is one named component of a suffix with its current value.
type Label struct {
	Name  string
	Value float64
}

// Suffix is an ordered, named collection of labels. Order is significant:
// Jacobian rows follow the output order and columns the parameter order.
type Suffix struct {
	labels []Label
	index  map[string]int // first occurrence of each name
}

// NewSuffix builds a suffix from labels in the given order. Duplicate names
// are kept so that validation can report them.
func NewSuffix(labels ...Label) *Suffix {
	s := &Suffix{
		labels: make([]Label, len(labels)),
		index:  make(map[string]int, len(labels)),
	}
	copy(s.labels, labels)
	for i, l := range s.labels {
		if _, ok := s.index[l.Name]; !ok {
			s.index[l.Name] = i
		}
	}

	return s
}

// Len returns the number of labels.
func (s *Suffix) Len() int { return len(s.labels) }

// Names returns the label names in order.
func (s *Suffix) Names() []string {
	out := make([]string, len(s.labels))
	for i, l := range s.labels {
		out[i] = l.Name
	}

	return out
}

// Values returns the label values in order.
func (s *Suffix) Values() []float64 {
	out := make([]float64, len(s.labels))
	for i, l := range s.labels {
		out[i] = l.Value
	}

	return out
}

// Labels returns a copy of the labels.
func (s *Suffix) Labels() []Label {
	out := make([]Label, len(s.labels))
	copy(out, s.labels)

	return out
}

// Map returns the labels as a name → value map.
func (s *Suffix) Map() Values {
	out := make(Values, len(s.labels))
	for _, l := range s.labels {
		out[l.Name] = l.Value
	}

	return out
}

// Index returns the position of name, or -1.
func (s *Suffix) Index(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}

	return -1
}

// Value returns the value stored under name.
func (s *Suffix) Value(name string) (float64, bool) {
	i, ok := s.index[name]
	if !ok {
		return 0, false
	}

	return s.labels[i].Value, true
}

// Set overwrites the value stored under name.
func (s *Suffix) Set(name string, v float64) error {
	i, ok := s.index[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLabel, name)
	}
	s.labels[i].Value = v

	return nil
}

// SetValues overwrites every value in order; len(v) must equal Len().
func (s *Suffix) SetValues(v []float64) error {
	if len(v) != len(s.labels) {
		return fmt.Errorf("%w: got %d values for %d labels", ErrLengthMismatch, len(v), len(s.labels))
	}
	for i := range s.labels {
		s.labels[i].Value = v[i]
	}

	return nil
}

// Clone returns an independent copy; a nil suffix clones to nil.
func (s *Suffix) Clone() *Suffix {
	if s == nil {
		return nil
	}

	return NewSuffix(s.labels...)
}

// duplicate returns the first repeated name, if any.
func (s *Suffix) duplicate() (string, bool) {
	if len(s.index) == len(s.labels) {
		return "", false
	}
	seen := make(map[string]struct{}, len(s.labels))
	for _, l := range s.labels {
		if _, ok := seen[l.Name]; ok {
			return l.Name, true
		}
		seen[l.Name] = struct{}{}
	}

	return "", false
}
