// SPDX-License-Identifier: MIT

// Package lp - model → linear program compilation.
//
// Layout:
//   - Rows: one per metabolite, in model order, Fixed at [0,0] (steady-state
//     mass balance: production − consumption = 0).
//   - Cols: one per reaction, in model order; Fixed when lower == upper,
//     Double otherwise; objective from the reaction's objective coefficient.
//   - A:    one entry per (metabolite row, reaction column) with a nonzero
//     stoichiometric coefficient, written column by column.
//
// Determinism:
//   - Within a reaction, metabolites are visited in sorted ID order, so the
//     entry order of A never depends on map iteration.

package lp

import (
	"fmt"
	"math"

	"github.com/katalvlaran/knockout/matrix"
	"github.com/katalvlaran/knockout/model"
)

// ProblemName is the name Compile gives every problem.
const ProblemName = "knockout FBA"

// Compile translates m into a maximization Problem.
// The model is only read; the Problem shares no storage with it.
//
// Errors:
//   - ErrNilModel for a nil model.
//   - model.ErrDuplicateID for duplicate metabolite IDs.
//   - model.ErrUnknownMetabolite when a reaction references a metabolite that
//     is not in m.Metabolites; no matrix entry is produced for it.
//   - ErrBadProblem for inverted or NaN reaction bounds.
//
// Complexity: O(M + R + nnz·log k) for k metabolites per reaction.
func Compile(m *model.Model) (*Problem, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	rowOf, err := m.MetaboliteIndex()
	if err != nil {
		return nil, fmt.Errorf("lp: Compile: %w", err)
	}

	a, err := matrix.NewSparse(len(m.Metabolites), len(m.Reactions))
	if err != nil {
		return nil, fmt.Errorf("lp: Compile: %w", err)
	}
	p := &Problem{
		Name:  ProblemName,
		Sense: Maximize,
		Rows:  make([]Row, len(m.Metabolites)),
		Cols:  make([]Column, len(m.Reactions)),
		A:     a,
	}

	// metabolites → rows
	for i := range m.Metabolites {
		p.Rows[i] = Row{Name: m.Metabolites[i].ID, Bound: NewBound(0, 0)}
	}

	// reactions → columns + S matrix values
	for j := range m.Reactions {
		r := &m.Reactions[j]
		if math.IsNaN(r.LowerBound) || math.IsNaN(r.UpperBound) || r.LowerBound > r.UpperBound {
			return nil, fmt.Errorf("lp: Compile: reaction %q bounds [%g, %g]: %w",
				r.ID, r.LowerBound, r.UpperBound, ErrBadProblem)
		}
		p.Cols[j] = Column{
			Name:      r.ID,
			Bound:     NewBound(r.LowerBound, r.UpperBound),
			Objective: r.ObjectiveCoefficient,
		}

		for _, met := range r.MetaboliteIDs() {
			i, ok := rowOf[met]
			if !ok {
				return nil, fmt.Errorf("lp: Compile: reaction %q references metabolite %q: %w",
					r.ID, met, model.ErrUnknownMetabolite)
			}
			if err = a.Set(i, j, r.Metabolites[met]); err != nil {
				return nil, fmt.Errorf("lp: Compile: reaction %q, metabolite %q: %w", r.ID, met, err)
			}
		}
	}

	return p, nil
}
