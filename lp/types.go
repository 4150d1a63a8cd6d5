// SPDX-License-Identifier: MIT

package lp

import (
	"fmt"
	"math"

	"github.com/katalvlaran/knockout/matrix"
)

// Sense is the optimization direction.
type Sense int

const (
	// Maximize the objective (flux balance analysis default).
	Maximize Sense = iota
	// Minimize the objective.
	Minimize
)

func (s Sense) String() string {
	if s == Minimize {
		return "min"
	}
	return "max"
}

// BoundKind classifies a row or column bound pair.
type BoundKind int

const (
	// Free: -Inf < x < +Inf.
	Free BoundKind = iota
	// Lower: lo <= x < +Inf.
	Lower
	// Upper: -Inf < x <= up.
	Upper
	// Double: lo <= x <= up, lo < up.
	Double
	// Fixed: x == lo == up.
	Fixed
)

var boundNames = [...]string{"free", "lower", "upper", "double", "fixed"}

func (k BoundKind) String() string {
	if k < 0 || int(k) >= len(boundNames) {
		return fmt.Sprintf("BoundKind(%d)", int(k))
	}
	return boundNames[k]
}

// Bound is a typed [Lo, Up] interval. Sides that the kind leaves open hold ±Inf.
type Bound struct {
	Kind BoundKind
	Lo   float64
	Up   float64
}

// NewBound classifies [lo, up]: equal finite ends make a Fixed bound, infinite
// ends open the corresponding side. Callers guarantee lo <= up.
func NewBound(lo, up float64) Bound {
	loInf, upInf := math.IsInf(lo, -1), math.IsInf(up, 1)
	switch {
	case loInf && upInf:
		return Bound{Kind: Free, Lo: math.Inf(-1), Up: math.Inf(1)}
	case upInf:
		return Bound{Kind: Lower, Lo: lo, Up: math.Inf(1)}
	case loInf:
		return Bound{Kind: Upper, Lo: math.Inf(-1), Up: up}
	case lo == up:
		return Bound{Kind: Fixed, Lo: lo, Up: up}
	default:
		return Bound{Kind: Double, Lo: lo, Up: up}
	}
}

// HasLo reports whether the lower side is finite.
func (b Bound) HasLo() bool { return b.Kind == Lower || b.Kind == Double || b.Kind == Fixed }

// HasUp reports whether the upper side is finite.
func (b Bound) HasUp() bool { return b.Kind == Upper || b.Kind == Double || b.Kind == Fixed }

// Contains reports whether v lies within the bound, up to tol.
func (b Bound) Contains(v, tol float64) bool {
	return (!b.HasLo() || v >= b.Lo-tol) && (!b.HasUp() || v <= b.Up+tol)
}

// Shift returns the bound of x - d, given that b bounds x.
func (b Bound) Shift(d float64) Bound {
	return NewBound(b.Lo-d, b.Up-d)
}

// Row is one constraint: Bound.Lo <= A[i]·x <= Bound.Up.
type Row struct {
	Name  string
	Bound Bound
}

// Column is one decision variable.
type Column struct {
	Name      string
	Bound     Bound
	Objective float64
}

// Problem is a linear program in row/column form:
//
//	max|min  Σ Cols[j].Objective · x[j]
//	s.t.     Rows[i].Bound.Lo <= Σ A[i][j] · x[j] <= Rows[i].Bound.Up
//	         Cols[j].Bound.Lo <= x[j] <= Cols[j].Bound.Up
//
// A has len(Rows) rows and len(Cols) columns.
type Problem struct {
	Name  string
	Sense Sense
	Rows  []Row
	Cols  []Column
	A     *matrix.Sparse
}

// ColIndex returns the position of the column with the given name, or -1.
func (p *Problem) ColIndex(name string) int {
	for j := range p.Cols {
		if p.Cols[j].Name == name {
			return j
		}
	}
	return -1
}

// Status is the outcome of a solve.
type Status int

const (
	// Optimal: an optimal basic solution was found.
	Optimal Status = iota
	// Infeasible: no point satisfies all constraints.
	Infeasible
	// Unbounded: the objective improves without limit.
	Unbounded
	// Failed: the external solver could not complete (numerical or structural).
	Failed
)

var statusNames = [...]string{"optimal", "infeasible", "unbounded", "failed"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// Result is the outcome of an optimal solve.
//   - Objective is expressed in the problem's own sense (a maximum for Maximize).
//   - Primal[j] is the value of column j.
//   - Fluxes maps column name to its primal value.
type Result struct {
	Status    Status
	Objective float64
	Primal    []float64
	Fluxes    map[string]float64
}
