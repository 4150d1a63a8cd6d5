// SPDX-License-Identifier: MIT

package lp

// Test bridge: exposes presolve counters to lp_test. Compiled only by go test.

// PresolveStats is a read-only snapshot of one presolve pass.
type PresolveStats struct {
	FixedCols     int
	EmptyRows     int
	EmptyCols     int
	DependentRows int
	Rows          []int
	Cols          []int
	Offset        float64
}

// ExportedPresolve runs presolve and returns its counters.
func ExportedPresolve(p *Problem, tol float64) (PresolveStats, error) {
	red, err := presolve(p, tol)
	if err != nil {
		return PresolveStats{}, err
	}

	return PresolveStats{
		FixedCols:     red.fixedCols,
		EmptyRows:     red.emptyRows,
		EmptyCols:     red.emptyCols,
		DependentRows: red.dependentRows,
		Rows:          red.rows,
		Cols:          red.cols,
		Offset:        red.offset,
	}, nil
}
