// SPDX-License-Identifier: MIT

// Package matrix - Sym: packed lower-triangle symmetric storage.
//
// Purpose:
//   - Provide ONE storage-and-access discipline for symmetric matrices (FIM,
//     priors): only the lower triangle (i >= j) is stored, and every read of an
//     upper entry is served from its mirrored lower entry.
//   - Satisfy gonum's mat.Symmetric so spectral routines (mat.EigenSym) and
//     formatting (mat.Formatted) consume the same view without copies.
//
// Layout:
//   - Row i holds columns 0..i at offset i*(i+1)/2 + j; len(data) == n*(n+1)/2.
//
// AI-Hints:
//   - Use Get/SetSym at API boundaries (errors, no panics); At is the gonum
//     interface method and panics on bad indices like every gonum matrix.
//   - Dense() materializes an explicit full copy; nothing else ever does.
//
// Complexity quicksheet:
//   - NewSym: O(n²/2) zero-init; At/Get/SetSym: O(1); Clone/Add: O(n²/2).

package matrix

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// ---------- error context tags ----------

const (
	ctxGet  = "Get"
	ctxSet  = "SetSym"
	ctxAdd  = "Add"
	ctxFrom = "SymFrom"
)

// symErrorf wraps an error with a uniform Sym context and callsite indices.
func symErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Sym.%s(%d,%d): %w", method, row, col, err)
}

// Sym is a symmetric n×n matrix stored as its packed lower triangle.
type Sym struct {
	n    int       // order of the matrix
	data []float64 // packed lower triangle, row-major, len == n*(n+1)/2
}

// Compile-time assertions for gonum interface & fmt.Stringer conformance.
var (
	_ mat.Symmetric = (*Sym)(nil)
	_ fmt.Stringer  = (*Sym)(nil)
)

// NewSym creates an n×n zero symmetric matrix.
//
// Errors:
//   - ErrInvalidDimensions when n <= 0.
//
// Complexity:
//   - Time O(n²/2), Space O(n²/2).
func NewSym(n int) (*Sym, error) {
	if n <= 0 {
		return nil, ErrInvalidDimensions
	}

	return &Sym{n: n, data: make([]float64, n*(n+1)/2)}, nil
}

// SymFrom packs a square, symmetric gonum matrix into a Sym.
// Implementation:
//   - Stage 1: ValidateNotNil → ValidateSquare → ValidateFinite → ValidateSymmetric(eps).
//   - Stage 2: copy the lower triangle in fixed i→j order.
//
// Behavior highlights:
//   - A *Sym input is cloned (no aliasing with the caller).
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrNaNInf, ErrAsymmetry (wrapped with "SymFrom").
func SymFrom(m mat.Matrix, opts ...Option) (*Sym, error) {
	if s, ok := m.(*Sym); ok && s != nil {
		return s.Clone(), nil
	}
	o := gatherOptions(opts...)
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(ctxFrom, err)
	}
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(ctxFrom, err)
	}
	if o.validateNaNInf {
		if err := ValidateFinite(m); err != nil {
			return nil, matrixErrorf(ctxFrom, err)
		}
	}
	if err := ValidateSymmetric(m, o.eps); err != nil {
		return nil, matrixErrorf(ctxFrom, err)
	}

	n, _ := m.Dims()
	s, err := NewSym(n)
	if err != nil {
		return nil, matrixErrorf(ctxFrom, err)
	}
	var i, j int // loop iterators (deterministic order)
	for i = 0; i < n; i++ {
		for j = 0; j <= i; j++ {
			s.data[offset(i, j)] = m.At(i, j)
		}
	}

	return s, nil
}

// offset maps (i, j) with i >= j to the packed index.
func offset(i, j int) int { return i*(i+1)/2 + j }

// Dims returns the matrix shape (n, n). Part of mat.Matrix.
func (s *Sym) Dims() (r, c int) { return s.n, s.n }

// SymmetricDim returns n. Part of mat.Symmetric.
func (s *Sym) SymmetricDim() int { return s.n }

// T returns the receiver: a symmetric matrix is its own transpose.
func (s *Sym) T() mat.Matrix { return s }

// At returns element (i, j), reading the upper half through the lower one.
// Panics with mat.ErrRowAccess / mat.ErrColAccess on bad indices (mat.Matrix contract).
func (s *Sym) At(i, j int) float64 {
	if uint(i) >= uint(s.n) {
		panic(mat.ErrRowAccess)
	}
	if uint(j) >= uint(s.n) {
		panic(mat.ErrColAccess)
	}
	if i < j {
		i, j = j, i // mirror into the stored triangle
	}

	return s.data[offset(i, j)]
}

// Get is the error-returning counterpart of At.
func (s *Sym) Get(i, j int) (float64, error) {
	if i < 0 || i >= s.n || j < 0 || j >= s.n {
		return 0, symErrorf(ctxGet, i, j, ErrOutOfRange)
	}
	if i < j {
		i, j = j, i
	}

	return s.data[offset(i, j)], nil
}

// SetSym assigns v to both (i, j) and (j, i); only one cell is written.
func (s *Sym) SetSym(i, j int, v float64) error {
	if i < 0 || i >= s.n || j < 0 || j >= s.n {
		return symErrorf(ctxSet, i, j, ErrOutOfRange)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return symErrorf(ctxSet, i, j, ErrNaNInf)
	}
	if i < j {
		i, j = j, i
	}
	s.data[offset(i, j)] = v

	return nil
}

// Diag returns a copy of the diagonal.
func (s *Sym) Diag() []float64 {
	d := make([]float64, s.n)
	for i := 0; i < s.n; i++ {
		d[i] = s.data[offset(i, i)]
	}

	return d
}

// Clone returns a deep copy.
func (s *Sym) Clone() *Sym {
	cp := make([]float64, len(s.data))
	copy(cp, s.data)

	return &Sym{n: s.n, data: cp}
}

// Add returns s + o as a new Sym (packed loop; both stay immutable).
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (wrapped with "Add").
func (s *Sym) Add(o *Sym) (*Sym, error) {
	if o == nil {
		return nil, matrixErrorf(ctxAdd, ErrNilMatrix)
	}
	if o.n != s.n {
		return nil, matrixErrorf(ctxAdd, ErrDimensionMismatch)
	}
	out := s.Clone()
	for k := range out.data {
		out.data[k] += o.data[k]
	}

	return out, nil
}

// Dense materializes the full symmetric matrix as an explicit copy.
func (s *Sym) Dense() *mat.Dense {
	d := mat.NewDense(s.n, s.n, nil)
	var i, j int
	for i = 0; i < s.n; i++ {
		for j = 0; j <= i; j++ {
			v := s.data[offset(i, j)]
			d.Set(i, j, v)
			d.Set(j, i, v)
		}
	}

	return d
}

// RowsCopy returns the full matrix as nested slices (for encoders).
func (s *Sym) RowsCopy() [][]float64 {
	out := make([][]float64, s.n)
	for i := 0; i < s.n; i++ {
		out[i] = make([]float64, s.n)
		for j := 0; j < s.n; j++ {
			out[i][j] = s.At(i, j)
		}
	}

	return out
}

// String implements fmt.Stringer, printing the lower triangle only.
func (s *Sym) String() string {
	var b strings.Builder
	var i, j int
	for i = 0; i < s.n; i++ {
		b.WriteString("[")
		for j = 0; j <= i; j++ {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%g", s.data[offset(i, j)])
		}
		b.WriteString("]\n")
	}

	return b.String()
}
