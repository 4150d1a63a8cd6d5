// SPDX-License-Identifier: MIT

// Package matrix - row basis selection.
//
// Purpose:
//   - Pick a maximal linearly independent subset of the rows of A, so an
//     equality system A·x = b can be reduced to full row rank before simplex.
//   - Detect inconsistency: a dependent row whose right-hand side does not
//     follow from the rows it depends on makes A·x = b unsolvable.
//
// Determinism:
//   - Rows are examined top to bottom; the first independent row of each
//     dependent group is kept. Ties in pivot magnitude pick the lowest column.

package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// IndependentRows returns, in ascending order, the indices of a maximal set of
// linearly independent rows of a.
// MAIN DESCRIPTION:
//   - Incremental Gaussian elimination with partial pivoting per row: each
//     candidate row is reduced against the basis collected so far; it joins
//     the basis when its largest remaining entry exceeds eps·scale.
//
// Implementation:
//   - Stage 1: validate a (non-nil) and len(rhs) (nil rhs means "no check").
//   - Stage 2: for each row, subtract the projections on earlier pivots.
//   - Stage 3: pick the pivot (max |v|); normalize and store, or test the
//     residual right-hand side of a dependent row.
//
// Inputs:
//   - a:    any gonum matrix (e.g. *Sparse or *mat.Dense).
//   - rhs:  optional right-hand side; len(rhs) must equal rows when non-nil.
//   - opts: WithEpsilon tunes the relative pivot tolerance.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrInconsistent.
//
// Complexity:
//   - Time O(r·k·c) for rank k, Space O(k·c).
//
// AI-Hints:
//   - Stoichiometric matrices lose rank through conserved moieties
//     (NAD/NADH, ATP/ADP pools); expect rank < rows on real models.
func IndependentRows(a mat.Matrix, rhs []float64, opts ...Option) ([]int, error) {
	if a == nil {
		return nil, fmt.Errorf("IndependentRows: %w", ErrNilMatrix)
	}
	r, c := a.Dims()
	if rhs != nil && len(rhs) != r {
		return nil, fmt.Errorf("IndependentRows: rhs length %d for %d rows: %w", len(rhs), r, ErrDimensionMismatch)
	}
	eps := gatherOptions(opts...).eps

	// basis[k] is a reduced row with basis[k][pivots[k]] == 1 and zeros at all
	// earlier pivots; rhsBasis[k] is its reduced right-hand side.
	var (
		basis    [][]float64
		rhsBasis []float64
		pivots   []int
		keep     []int
	)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		scale := 0.0
		for j := 0; j < c; j++ {
			row[j] = a.At(i, j)
			scale = math.Max(scale, math.Abs(row[j]))
		}
		var b float64
		if rhs != nil {
			b = rhs[i]
		}

		// Reduce against earlier pivots, in basis order.
		for k, p := range pivots {
			f := row[p]
			if f == 0 {
				continue
			}
			for j := 0; j < c; j++ {
				row[j] -= f * basis[k][j]
			}
			b -= f * rhsBasis[k]
		}

		// Partial pivoting: largest remaining magnitude, lowest column on ties.
		piv, best := -1, 0.0
		for j := 0; j < c; j++ {
			if v := math.Abs(row[j]); v > best {
				piv, best = j, v
			}
		}
		tol := eps * math.Max(1, scale)
		if piv < 0 || best <= tol {
			if rhs != nil && math.Abs(b) > tol*math.Max(1, math.Abs(rhs[i])) {
				return nil, fmt.Errorf("IndependentRows: row %d residual %g: %w", i, b, ErrInconsistent)
			}
			continue // dependent row: drop
		}

		inv := 1 / row[piv]
		stored := make([]float64, c)
		for j := 0; j < c; j++ {
			stored[j] = row[j] * inv
		}
		stored[piv] = 1
		basis = append(basis, stored)
		rhsBasis = append(rhsBasis, b*inv)
		pivots = append(pivots, piv)
		keep = append(keep, i)
	}

	return keep, nil
}
