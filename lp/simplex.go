// SPDX-License-Identifier: MIT

// Package lp - the Simplex solver.
//
// Pipeline of one Solve:
//  1. Validate the problem shape and bounds.
//  2. Presolve (optional): substitute fixed columns, drop empty and dependent
//     rows, settle columns no row touches.
//  3. Bounded-variable two-phase simplex on what is left (tableau.go).
//  4. Clamp the primal onto the column bounds and check every original row
//     against its bound; a violation is a numerical failure, not an optimum.

package lp

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/knockout/matrix"
)

// residualTol is the relative tolerance of the final row check:
// |violation| <= residualTol · max(1, Σ|a_ij·x_j|).
const residualTol = 1e-7

// Solver is the solver collaborator: it turns a Problem into a Result or a
// typed failure.
type Solver interface {
	Solve(ctx context.Context, p *Problem) (*Result, error)
}

// Simplex is a Solver running a bounded-variable primal simplex with an
// optional presolve. It holds only configuration and is safe for concurrent use.
type Simplex struct {
	presolve bool
	tol      float64
	maxIter  int // 0: sized from the problem
	log      *zap.Logger
}

var _ Solver = (*Simplex)(nil)

// NewSimplex returns a solver with presolve on and DefaultTolerance.
func NewSimplex(opts ...Option) *Simplex {
	s := &Simplex{
		presolve: DefaultPresolve,
		tol:      DefaultTolerance,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Solve optimizes p with a default Simplex (presolve on).
func Solve(ctx context.Context, p *Problem) (*Result, error) {
	return NewSimplex().Solve(ctx, p)
}

// Solve optimizes p.
//
// Errors:
//   - ctx.Err() if ctx is already done.
//   - ErrBadProblem for shape or bound violations in p.
//   - ctx.Err() if ctx ends during the simplex iterations.
//   - *SolverError matching ErrInfeasible, ErrUnbounded, or only ErrSolver
//     for an iteration limit or a numerical failure. All of them match ErrSolver.
func (s *Simplex) Solve(ctx context.Context, p *Problem) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkProblem(p); err != nil {
		return nil, err
	}

	red := identity(p)
	if s.presolve {
		var err error
		if red, err = presolve(p, s.tol); err != nil {
			return nil, s.fail(p, err)
		}
		s.log.Debug("presolve",
			zap.String("problem", p.Name),
			zap.Int("rows", len(p.Rows)),
			zap.Int("cols", len(p.Cols)),
			zap.Int("fixed_cols", red.fixedCols),
			zap.Int("empty_rows", red.emptyRows),
			zap.Int("empty_cols", red.emptyCols),
			zap.Int("dependent_rows", red.dependentRows),
			zap.Int("rows_left", len(red.rows)),
			zap.Int("cols_left", len(red.cols)),
		)
	}

	primal := make([]float64, len(p.Cols))
	for j := range p.Cols {
		if red.eliminated[j] {
			primal[j] = red.value[j]
		}
	}

	if len(red.cols) > 0 || len(red.rows) > 0 {
		x, err := s.simplex(ctx, p, red)
		if err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				return nil, err
			}
			return nil, s.fail(p, err)
		}
		for k, j := range red.cols {
			primal[j] = clamp(x[k], p.Cols[j].Bound)
		}
	}
	if err := checkRows(p, primal); err != nil {
		return nil, s.fail(p, err)
	}

	objective := red.offset
	for _, j := range red.cols {
		objective += p.Cols[j].Objective * primal[j]
	}
	if math.IsNaN(objective) || math.IsInf(objective, 0) {
		return nil, s.fail(p, fmt.Errorf("objective is %g: %w", objective, errNumerical))
	}

	res := &Result{
		Status:    Optimal,
		Objective: objective,
		Primal:    primal,
		Fluxes:    make(map[string]float64, len(p.Cols)),
	}
	for j := range p.Cols {
		res.Fluxes[p.Cols[j].Name] = primal[j]
	}

	return res, nil
}

// simplex solves the reduced problem and returns the surviving columns'
// values, indexed like red.cols.
func (s *Simplex) simplex(ctx context.Context, p *Problem, red *reduced) ([]float64, error) {
	tb, err := newTableau(p, red, s.tol, s.maxIter)
	if err != nil {
		return nil, err
	}
	c := make([]float64, tb.n+tb.m)
	for k, j := range red.cols {
		c[k] = p.Cols[j].Objective
		if p.Sense == Maximize {
			c[k] = -c[k]
		}
	}

	err = tb.solve(ctx, c)
	s.log.Debug("simplex",
		zap.String("problem", p.Name),
		zap.Int("rows", tb.m),
		zap.Int("cols", tb.n),
		zap.Int("iterations", tb.iters),
		zap.Error(err),
	)
	if err != nil {
		return nil, err
	}

	return tb.x[:len(red.cols)], nil
}

// checkRows verifies every original row of p at primal.
// Errors: errNumerical naming the first violated row.
func checkRows(p *Problem, primal []float64) error {
	act := make([]float64, len(p.Rows))
	scale := make([]float64, len(p.Rows))
	p.A.Do(func(e matrix.Entry) {
		v := e.Value * primal[e.Col]
		act[e.Row] += v
		scale[e.Row] += math.Abs(v)
	})
	for i := range p.Rows {
		bd := p.Rows[i].Bound
		if !bd.Contains(act[i], residualTol*math.Max(1, scale[i])) {
			return fmt.Errorf("row %q activity %g outside [%g, %g]: %w", p.Rows[i].Name, act[i], bd.Lo, bd.Up, errNumerical)
		}
	}

	return nil
}

// fail wraps a cause into a *SolverError with the matching status and logs it.
func (s *Simplex) fail(p *Problem, err error) error {
	status := Failed
	switch {
	case errors.Is(err, ErrInfeasible):
		status = Infeasible
	case errors.Is(err, ErrUnbounded):
		status = Unbounded
	}
	s.log.Debug("solve failed", zap.String("problem", p.Name), zap.Stringer("status", status), zap.Error(err))

	return &SolverError{Problem: p.Name, Status: status, Err: err}
}

// checkProblem validates shapes and bounds before any reduction.
func checkProblem(p *Problem) error {
	if p == nil || p.A == nil {
		return fmt.Errorf("lp: Solve: nil problem or matrix: %w", ErrBadProblem)
	}
	if r, c := p.A.Dims(); r != len(p.Rows) || c != len(p.Cols) {
		return fmt.Errorf("lp: Solve: matrix %dx%d for %d rows, %d cols: %w", r, c, len(p.Rows), len(p.Cols), ErrBadProblem)
	}
	for j := range p.Cols {
		if bd := p.Cols[j].Bound; bd.Lo > bd.Up || math.IsNaN(bd.Lo) || math.IsNaN(bd.Up) {
			return fmt.Errorf("lp: Solve: column %q bounds [%g, %g]: %w", p.Cols[j].Name, bd.Lo, bd.Up, ErrBadProblem)
		}
	}
	for i := range p.Rows {
		if bd := p.Rows[i].Bound; bd.Lo > bd.Up || math.IsNaN(bd.Lo) || math.IsNaN(bd.Up) {
			return fmt.Errorf("lp: Solve: row %q bounds [%g, %g]: %w", p.Rows[i].Name, bd.Lo, bd.Up, ErrBadProblem)
		}
	}

	return nil
}
