// SPDX-License-Identifier: MIT

// Package lp - presolve reductions.
//
// Purpose:
//   - Shrink the problem before simplex: fewer rows and columns mean a smaller
//     dense tableau, and full row rank leaves no artificial stuck in the basis.
//
// Reductions (single pass, in this order):
//  1. Fixed columns (knockouts, pinned maintenance fluxes) are substituted
//     into the row bounds and removed.
//  2. Rows left without entries are dropped; their shifted bound must contain
//     0, otherwise the problem is infeasible.
//  3. Columns without entries are set to their objective-optimal bound (0 when
//     the objective ignores them); an infinite optimal bound means unbounded.
//  4. Linearly dependent equality rows are dropped; a dependent row whose
//     right-hand side contradicts its basis means infeasible.
//
// Removing an empty column cannot empty a row, and removing an empty row
// cannot empty a column, so one pass reaches a fixed point.

package lp

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/knockout/matrix"
)

// reduced is the outcome of presolve: which rows and columns survive, the
// adjusted bounds of surviving rows, and the values of eliminated columns.
type reduced struct {
	rows       []int     // surviving original row indices, ascending
	rowBound   []Bound   // bound of each surviving row, parallel to rows
	cols       []int     // surviving original column indices, ascending
	value      []float64 // value of every original column (meaningful if eliminated)
	eliminated []bool    // per original column
	offset     float64   // Σ objective·value over eliminated columns

	fixedCols     int
	emptyRows     int
	emptyCols     int
	dependentRows int
}

// identity is the no-presolve reduction: everything survives.
func identity(p *Problem) *reduced {
	red := &reduced{
		rows:       make([]int, len(p.Rows)),
		rowBound:   make([]Bound, len(p.Rows)),
		cols:       make([]int, len(p.Cols)),
		value:      make([]float64, len(p.Cols)),
		eliminated: make([]bool, len(p.Cols)),
	}
	for i := range p.Rows {
		red.rows[i] = i
		red.rowBound[i] = p.Rows[i].Bound
	}
	for j := range p.Cols {
		red.cols[j] = j
	}

	return red
}

// presolve applies the reductions documented at the top of this file.
// Errors: ErrInfeasible, ErrUnbounded (unwrapped; Solve wraps them).
func presolve(p *Problem, tol float64) (*reduced, error) {
	nr, nc := len(p.Rows), len(p.Cols)
	red := &reduced{
		value:      make([]float64, nc),
		eliminated: make([]bool, nc),
	}

	// --- Stage 1: substitute fixed columns into row bounds ---
	shift := make([]float64, nr)
	for j := range p.Cols {
		if p.Cols[j].Bound.Kind == Fixed {
			red.eliminated[j] = true
			red.value[j] = p.Cols[j].Bound.Lo
			red.fixedCols++
		}
	}
	rowLive := p.A.RowNNZ() // entries per row over non-eliminated columns
	colLive := p.A.ColNNZ() // entries per column (all rows)
	p.A.Do(func(e matrix.Entry) {
		if red.eliminated[e.Col] {
			shift[e.Row] += e.Value * red.value[e.Col]
			rowLive[e.Row]--
		}
	})

	// --- Stage 2: drop empty rows (feasibility check on the shifted bound) ---
	var eqRows, otherRows []int
	bounds := make([]Bound, nr)
	for i := range p.Rows {
		bounds[i] = p.Rows[i].Bound.Shift(shift[i])
		if rowLive[i] == 0 {
			if !bounds[i].Contains(0, tol*math.Max(1, math.Abs(shift[i]))) {
				return nil, fmt.Errorf("row %q needs %g from fixed fluxes: %w", p.Rows[i].Name, -shift[i], ErrInfeasible)
			}
			red.emptyRows++
			continue
		}
		if bounds[i].Kind == Fixed {
			eqRows = append(eqRows, i)
		} else {
			otherRows = append(otherRows, i)
		}
	}

	// --- Stage 3: resolve columns no row touches ---
	for j := range p.Cols {
		if red.eliminated[j] || colLive[j] > 0 {
			if !red.eliminated[j] {
				red.cols = append(red.cols, j)
			}
			continue
		}
		v, err := bestBound(p.Cols[j], p.Sense)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", p.Cols[j].Name, err)
		}
		red.eliminated[j] = true
		red.value[j] = v
		red.emptyCols++
	}

	// --- Stage 4: drop dependent equality rows ---
	if len(eqRows) > 0 && len(red.cols) > 0 {
		sub, err := p.A.Induced(eqRows, red.cols)
		if err != nil {
			return nil, err
		}
		rhs := make([]float64, len(eqRows))
		for k, i := range eqRows {
			rhs[k] = bounds[i].Lo
		}
		keep, err := matrix.IndependentRows(sub, rhs, matrix.WithEpsilon(tol))
		if errors.Is(err, matrix.ErrInconsistent) {
			return nil, fmt.Errorf("dependent mass balance: %v: %w", err, ErrInfeasible)
		}
		if err != nil {
			return nil, err
		}
		red.dependentRows = len(eqRows) - len(keep)
		kept := make([]int, len(keep))
		for k, pos := range keep {
			kept[k] = eqRows[pos]
		}
		eqRows = kept
	}

	// Merge surviving rows back into ascending original order.
	red.rows = mergeSorted(eqRows, otherRows)
	red.rowBound = make([]Bound, len(red.rows))
	for k, i := range red.rows {
		red.rowBound[k] = bounds[i]
	}

	for j := range p.Cols {
		if red.eliminated[j] {
			red.offset += p.Cols[j].Objective * red.value[j]
		}
	}

	return red, nil
}

// bestBound returns the objective-optimal value of an unconstrained column.
func bestBound(c Column, sense Sense) (float64, error) {
	dir := c.Objective
	if sense == Minimize {
		dir = -dir
	}
	switch {
	case dir > 0:
		if !c.Bound.HasUp() {
			return 0, ErrUnbounded
		}
		return c.Bound.Up, nil
	case dir < 0:
		if !c.Bound.HasLo() {
			return 0, ErrUnbounded
		}
		return c.Bound.Lo, nil
	default:
		return clamp(0, c.Bound), nil
	}
}

// clamp projects v onto the bound.
func clamp(v float64, b Bound) float64 {
	if b.HasLo() && v < b.Lo {
		return b.Lo
	}
	if b.HasUp() && v > b.Up {
		return b.Up
	}
	return v
}

// mergeSorted merges two ascending index slices.
func mergeSorted(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] < b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)

	return append(out, b[j:]...)
}
