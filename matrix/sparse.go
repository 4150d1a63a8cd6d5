// SPDX-License-Identifier: MIT

// Package matrix - Sparse storage (coordinate list) & safe accessors.
//
// Purpose:
//   - Store only the nonzero coefficients of a mostly-empty matrix (stoichiometry).
//   - Guarantee safety at the public surface: Get/Set return errors instead of panicking.
//   - Keep algorithmic determinism: entries are visited in insertion order, never map order.
//   - Expose a gonum mat.Matrix view so gonum kernels (CloneFrom, Equal) consume it directly.
//   - Support copy-based submatrix extraction (Induced) for presolve reductions.
//
// AI-Hints:
//   - Build column by column (one reaction at a time) to get a column-major entry order.
//   - Call ToDense once per solve; At on Sparse is a hash lookup, not a slice index.
//
// Complexity quicksheet:
//   - NewSparse: O(1); Get/Set/At: O(1) expected; Set(…, 0) on an existing entry: O(nnz);
//     Induced: O(nnz); ToDense: O(r*c + nnz).

package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ---------- error context tags ----------

const (
	ctxGet    = "Get"     // method tag used in error wrappers
	ctxSet    = "Set"     // method tag used in error wrappers
	ctxInduce = "Induced" // ctor/tag for Sparse.Induced
)

// sparseErrorf wraps an error with a uniform Sparse context and callsite indices.
// Format: "Sparse.<method>(row,col): %w"; preserves the sentinel via %w.
func sparseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Sparse.%s(%d,%d): %w", method, row, col, err)
}

// Entry is one stored coefficient at (Row, Col).
type Entry struct {
	Row   int
	Col   int
	Value float64
}

// cell is the hash key of a coordinate.
type cell struct{ i, j int }

// Sparse is a coordinate-list matrix.
//   - r,c hold dimensions (rows, cols); zero is legal on either axis.
//   - entries holds nonzeros in insertion order (determinism).
//   - index maps a coordinate to its position in entries.
type Sparse struct {
	r, c    int
	entries []Entry
	index   map[cell]int
}

// Compile-time assertion: *Sparse is consumable by gonum kernels.
var _ mat.Matrix = (*Sparse)(nil)

// NewSparse creates an r×c empty matrix.
// MAIN DESCRIPTION:
//   - Public constructor with shape validation.
//
// Implementation:
//   - Stage 1: validate rows>=0 && cols>=0; else ErrInvalidDimensions.
//   - Stage 2: allocate an empty index.
//
// Errors:
//   - ErrInvalidDimensions (shape contract violation).
//
// Complexity:
//   - Time O(1), Space O(1).
func NewSparse(rows, cols int) (*Sparse, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("NewSparse(%d,%d): %w", rows, cols, ErrInvalidDimensions)
	}

	return &Sparse{
		r:     rows,
		c:     cols,
		index: make(map[cell]int),
	}, nil
}

// Rows returns the number of rows.
func (s *Sparse) Rows() int { return s.r }

// Cols returns the number of columns.
func (s *Sparse) Cols() int { return s.c }

// NNZ returns the number of stored (nonzero) entries.
func (s *Sparse) NNZ() int { return len(s.entries) }

// inBounds reports whether (i,j) addresses a cell of s.
func (s *Sparse) inBounds(i, j int) bool {
	return i >= 0 && i < s.r && j >= 0 && j < s.c
}

// Get returns the coefficient at (i,j), 0 for an empty cell.
// Errors: ErrOutOfRange.
func (s *Sparse) Get(i, j int) (float64, error) {
	if !s.inBounds(i, j) {
		return 0, sparseErrorf(ctxGet, i, j, ErrOutOfRange)
	}
	if k, ok := s.index[cell{i, j}]; ok {
		return s.entries[k].Value, nil
	}

	return 0, nil
}

// Set stores v at (i,j), overwriting any previous value.
// Setting exactly 0 removes the entry, so NNZ always counts true nonzeros.
//
// Errors:
//   - ErrOutOfRange for invalid indices.
//   - ErrNaNInf for NaN or ±Inf; a coefficient must be finite.
func (s *Sparse) Set(i, j int, v float64) error {
	if !s.inBounds(i, j) {
		return sparseErrorf(ctxSet, i, j, ErrOutOfRange)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sparseErrorf(ctxSet, i, j, ErrNaNInf)
	}

	key := cell{i, j}
	k, exists := s.index[key]
	switch {
	case v == 0 && exists:
		s.remove(k)
	case v == 0:
		// nothing stored, nothing to do
	case exists:
		s.entries[k].Value = v
	default:
		s.index[key] = len(s.entries)
		s.entries = append(s.entries, Entry{Row: i, Col: j, Value: v})
	}

	return nil
}

// remove deletes entries[k] keeping insertion order, then reindexes the tail.
func (s *Sparse) remove(k int) {
	delete(s.index, cell{s.entries[k].Row, s.entries[k].Col})
	s.entries = append(s.entries[:k], s.entries[k+1:]...)
	for p := k; p < len(s.entries); p++ {
		s.index[cell{s.entries[p].Row, s.entries[p].Col}] = p
	}
}

// Do calls fn for each stored entry in insertion order.
func (s *Sparse) Do(fn func(e Entry)) {
	for _, e := range s.entries {
		fn(e)
	}
}

// RowNNZ returns the number of stored entries per row.
// Complexity: O(r + nnz).
func (s *Sparse) RowNNZ() []int {
	counts := make([]int, s.r)
	for _, e := range s.entries {
		counts[e.Row]++
	}

	return counts
}

// ColNNZ returns the number of stored entries per column.
// Complexity: O(c + nnz).
func (s *Sparse) ColNNZ() []int {
	counts := make([]int, s.c)
	for _, e := range s.entries {
		counts[e.Col]++
	}

	return counts
}

// Induced materializes the submatrix selected by explicit index sets.
// Row i of the result is rowsIdx[i] of s; column j is colsIdx[j].
// Entries keep their relative insertion order.
//
// Errors:
//   - ErrOutOfRange if any index is outside s.
//
// Complexity:
//   - Time O(r' + c' + nnz), Space O(r + c + nnz').
func (s *Sparse) Induced(rowsIdx, colsIdx []int) (*Sparse, error) {
	rowMap := make([]int, s.r)
	colMap := make([]int, s.c)
	for i := range rowMap {
		rowMap[i] = -1
	}
	for j := range colMap {
		colMap[j] = -1
	}
	for i, ri := range rowsIdx {
		if ri < 0 || ri >= s.r {
			return nil, fmt.Errorf("Sparse.%s: row index %d: %w", ctxInduce, ri, ErrOutOfRange)
		}
		rowMap[ri] = i
	}
	for j, cj := range colsIdx {
		if cj < 0 || cj >= s.c {
			return nil, fmt.Errorf("Sparse.%s: col index %d: %w", ctxInduce, cj, ErrOutOfRange)
		}
		colMap[cj] = j
	}

	out := &Sparse{
		r:     len(rowsIdx),
		c:     len(colsIdx),
		index: make(map[cell]int),
	}
	for _, e := range s.entries {
		i, j := rowMap[e.Row], colMap[e.Col]
		if i < 0 || j < 0 {
			continue
		}
		out.index[cell{i, j}] = len(out.entries)
		out.entries = append(out.entries, Entry{Row: i, Col: j, Value: e.Value})
	}

	return out, nil
}

// ToDense materializes s as a gonum *mat.Dense.
// gonum forbids zero-length dimensions, so an empty shape yields nil.
func (s *Sparse) ToDense() *mat.Dense {
	if s.r == 0 || s.c == 0 {
		return nil
	}
	d := mat.NewDense(s.r, s.c, nil)
	for _, e := range s.entries {
		d.Set(e.Row, e.Col, e.Value)
	}

	return d
}

// ---------- gonum mat.Matrix view ----------

// Dims returns (rows, cols); part of mat.Matrix.
func (s *Sparse) Dims() (r, c int) { return s.r, s.c }

// At returns the coefficient at (i,j); part of mat.Matrix.
// Unlike Get it panics on invalid indices, as gonum matrices do.
func (s *Sparse) At(i, j int) float64 {
	if i < 0 || i >= s.r {
		panic(mat.ErrRowAccess)
	}
	if j < 0 || j >= s.c {
		panic(mat.ErrColAccess)
	}
	if k, ok := s.index[cell{i, j}]; ok {
		return s.entries[k].Value
	}

	return 0
}

// T returns the implicit transpose; part of mat.Matrix.
func (s *Sparse) T() mat.Matrix { return mat.Transpose{Matrix: s} }
