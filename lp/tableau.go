// SPDX-License-Identifier: MIT

// Package lp - bounded-variable primal simplex.
//
// Form solved (after presolve, with the sense folded into c):
//
//	min  cᵀx   s.t.  A x = b,  lo <= x <= up
//
// Columns keep their own bounds: nothing is split into x⁺/x⁻ and no bound
// becomes a row. A ranged or one-sided row i enters A as an equality through a
// slack column s_i bounded by the row's interval (A_i·x − s_i = 0). Free rows
// constrain nothing and are left out. For m rows and n columns (slacks
// included) the tableau is m × (n + m): m artificial columns follow the n real
// ones.
//
// Method:
//   - Every nonbasic variable sits on a finite bound (0 when free).
//   - Phase 1 starts from the all-artificial basis. Artificial i carries the
//     residual |b_i − A_i·x_N| and its column is sign(residual)·e_i, so the
//     start is feasible. The sum of artificials is minimized.
//   - Phase 2 fixes the artificials at 0, pivots basic ones out wherever a
//     usable structural pivot exists, then minimizes cᵀx.
//   - Pricing is Dantzig's largest reduced cost. After a run of more than m
//     degenerate pivots it switches to Bland's rule until a pivot makes
//     progress again.
//   - The ratio test honors both bounds of every basic variable and lets the
//     entering variable move to its opposite bound without a pivot.
//   - At the end of each phase the basic values are recomputed as
//     B⁻¹(b − N·x_N). B⁻¹ is read off the artificial columns of the tableau.
//
// Complexity: O(m·(n+m)) per iteration, dense.

package lp

import (
	"context"
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// ctxCheckEvery is the number of iterations between context checks.
	ctxCheckEvery = 64

	// minIterations and iterationsPerVar size the default iteration limit:
	// max(minIterations, iterationsPerVar·(columns + rows)).
	minIterations    = 10000
	iterationsPerVar = 50

	// artPivotTol is the smallest entry accepted to pivot a leftover
	// artificial out of the basis after phase 1.
	artPivotTol = 1e-7
)

var (
	errIterationLimit = errors.New("lp: simplex iteration limit reached")
	errNumerical      = errors.New("lp: simplex lost numerical accuracy")
)

// tableau is the dense working state of one simplex run.
//   - t holds B⁻¹·[A | D], one row per constraint; D = diag(sgn).
//   - a holds the original [A | D], for recomputing basic values.
//   - basis[i] is the variable basic in row i; pos is its inverse (-1: nonbasic).
type tableau struct {
	m, n   int
	t      *mat.Dense
	a      *mat.Dense
	b      []float64
	sgn    []float64
	lo, up []float64
	x      []float64
	basis  []int
	pos    []int

	tol     float64
	iters   int
	maxIter int
}

// newTableau lays out the reduced problem as an equality system with slacks
// and artificials. Structural column k is red.cols[k]; slacks follow.
func newTableau(p *Problem, red *reduced, tol float64, maxIter int) (*tableau, error) {
	nc := len(red.cols)

	// Rows that constrain anything; the ranged ones get a slack.
	var (
		rows    []int
		rhs     []float64
		slackOf []int // slack column per kept row, -1 for an equality
		lo, up  []float64
	)
	for _, j := range red.cols {
		bd := p.Cols[j].Bound
		lo, up = append(lo, bd.Lo), append(up, bd.Up)
	}
	nSlack := 0
	for k, bd := range red.rowBound {
		if bd.Kind == Free {
			continue
		}
		rows = append(rows, red.rows[k])
		if bd.Kind == Fixed {
			rhs = append(rhs, bd.Lo)
			slackOf = append(slackOf, -1)
			continue
		}
		rhs = append(rhs, 0)
		slackOf = append(slackOf, nc+nSlack)
		lo, up = append(lo, bd.Lo), append(up, bd.Up)
		nSlack++
	}

	m, n := len(rows), nc+nSlack
	tb := &tableau{
		m:       m,
		n:       n,
		b:       rhs,
		sgn:     make([]float64, m),
		lo:      append(lo, make([]float64, m)...),
		up:      up,
		x:       make([]float64, n+m),
		basis:   make([]int, m),
		pos:     make([]int, n+m),
		tol:     tol,
		maxIter: maxIter,
	}
	for i := 0; i < m; i++ {
		tb.up = append(tb.up, math.Inf(1))
	}
	if tb.maxIter <= 0 {
		tb.maxIter = max(minIterations, iterationsPerVar*(n+m))
	}

	// Nonbasic start: lower bound, else upper bound, else 0.
	for j := 0; j < n; j++ {
		tb.pos[j] = -1
		switch {
		case !math.IsInf(tb.lo[j], -1):
			tb.x[j] = tb.lo[j]
		case !math.IsInf(tb.up[j], 1):
			tb.x[j] = tb.up[j]
		}
	}
	if m == 0 {
		return tb, nil
	}

	tb.a = mat.NewDense(m, n+m, nil)
	if nc > 0 {
		sub, err := p.A.Induced(rows, red.cols)
		if err != nil {
			return nil, err
		}
		if d := sub.ToDense(); d != nil {
			tb.a.Slice(0, m, 0, nc).(*mat.Dense).Copy(d)
		}
	}
	for i, s := range slackOf {
		if s >= 0 {
			tb.a.Set(i, s, -1)
		}
	}

	// Artificial basis carrying the residual of the nonbasic start.
	for i := 0; i < m; i++ {
		row := tb.a.RawRowView(i)
		r := tb.b[i] - floats.Dot(row[:n], tb.x[:n])
		tb.sgn[i] = 1
		if r < 0 {
			tb.sgn[i] = -1
		}
		row[n+i] = tb.sgn[i]
		tb.x[n+i] = math.Abs(r)
		tb.basis[i] = n + i
		tb.pos[n+i] = i
	}
	tb.t = mat.DenseCopyOf(tb.a)
	for i := 0; i < m; i++ {
		floats.Scale(tb.sgn[i], tb.t.RawRowView(i))
	}

	return tb, nil
}

// solve runs both phases. On success x[:n] holds an optimal vertex.
// Errors: ErrInfeasible, ErrUnbounded, errIterationLimit, errNumerical, ctx.Err().
func (tb *tableau) solve(ctx context.Context, c []float64) error {
	m, n := tb.m, tb.n

	// --- Phase 1: minimize the sum of artificials ---
	cost := make([]float64, n+m)
	start := 0.0
	for i := 0; i < m; i++ {
		cost[n+i] = 1
		start += tb.x[n+i]
	}
	if err := tb.run(ctx, cost); err != nil {
		if errors.Is(err, ErrUnbounded) {
			return errNumerical // the phase-1 objective is bounded below by 0
		}
		return err
	}
	tb.refresh()
	left := 0.0
	for i := 0; i < m; i++ {
		left += tb.x[n+i]
	}
	if left > tb.tol*math.Max(1, start) { // relative to the starting residual
		return ErrInfeasible
	}

	// --- Phase 2: artificials fixed at 0 ---
	for i := 0; i < m; i++ {
		tb.up[n+i] = 0
	}
	tb.evict()
	tb.refresh()
	clear(cost)
	copy(cost, c)
	if err := tb.run(ctx, cost); err != nil {
		return err
	}
	tb.refresh()

	for _, v := range tb.x[:n] {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errNumerical
		}
	}

	return nil
}

// run iterates from the current basis until no reduced cost prices out.
func (tb *tableau) run(ctx context.Context, cost []float64) error {
	m, total := tb.m, tb.n+tb.m
	d := make([]float64, total)
	streak, bland := 0, false

	for {
		tb.iters++
		if tb.iters > tb.maxIter {
			return errIterationLimit
		}
		if tb.iters%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		// Reduced costs d = c − c_Bᵀ·T.
		copy(d, cost)
		for i := 0; i < m; i++ {
			if cb := cost[tb.basis[i]]; cb != 0 {
				floats.AddScaled(d, -cb, tb.t.RawRowView(i))
			}
		}

		q, dir := tb.price(d, bland)
		if q < 0 {
			return nil
		}

		r, theta := tb.ratio(q, dir, bland)
		move := tb.up[q] - tb.x[q]
		if dir < 0 {
			move = tb.x[q] - tb.lo[q]
		}
		if r < 0 && math.IsInf(move, 1) {
			return ErrUnbounded
		}

		if move <= theta {
			// Bound flip: q crosses to its other bound, the basis stays.
			tb.step(q, float64(dir)*move)
			if dir > 0 {
				tb.x[q] = tb.up[q]
			} else {
				tb.x[q] = tb.lo[q]
			}
			streak, bland = 0, false
			continue
		}

		alpha := tb.t.At(r, q) * float64(dir)
		tb.step(q, float64(dir)*theta)
		tb.x[q] += float64(dir) * theta
		leave := tb.basis[r]
		if alpha > 0 {
			tb.x[leave] = tb.lo[leave]
		} else {
			tb.x[leave] = tb.up[leave]
		}
		tb.pivot(r, q)

		if theta <= tb.tol {
			streak++
			bland = streak > m
		} else {
			streak, bland = 0, false
		}
	}
}

// price picks the entering variable and its direction (+1 up, −1 down).
// Dantzig: largest |d_j|. Bland: lowest eligible index. Returns -1 at optimum.
func (tb *tableau) price(d []float64, bland bool) (int, int) {
	q, dir, best := -1, 0, 0.0
	for j, dj := range d {
		if tb.pos[j] >= 0 || tb.lo[j] == tb.up[j] {
			continue
		}
		var move int
		switch {
		case dj < -tb.tol && tb.x[j] < tb.up[j]:
			move = 1
		case dj > tb.tol && tb.x[j] > tb.lo[j]:
			move = -1
		default:
			continue
		}
		if bland {
			return j, move
		}
		if a := math.Abs(dj); a > best {
			q, dir, best = j, move, a
		}
	}

	return q, dir
}

// ratio finds the row whose basic variable blocks q first, and the step.
// Ties prefer the largest pivot magnitude (lowest variable index under Bland).
// Returns -1 and +Inf when no basic variable limits q.
func (tb *tableau) ratio(q, dir int, bland bool) (int, float64) {
	r, theta, mag := -1, math.Inf(1), 0.0
	for i := 0; i < tb.m; i++ {
		alpha := tb.t.At(i, q) * float64(dir)
		if math.Abs(alpha) <= tb.tol {
			continue
		}
		bv := tb.basis[i]
		var lim float64
		if alpha > 0 {
			if math.IsInf(tb.lo[bv], -1) {
				continue
			}
			lim = (tb.x[bv] - tb.lo[bv]) / alpha
		} else {
			if math.IsInf(tb.up[bv], 1) {
				continue
			}
			lim = (tb.up[bv] - tb.x[bv]) / -alpha
		}
		lim = math.Max(lim, 0)

		switch {
		case r < 0 || lim < theta-tb.tol:
			r, theta, mag = i, lim, math.Abs(alpha)
		case lim <= theta+tb.tol:
			if bland && bv < tb.basis[r] || !bland && math.Abs(alpha) > mag {
				r, theta, mag = i, math.Min(lim, theta), math.Abs(alpha)
			}
		}
	}

	return r, theta
}

// step moves every basic variable for an entering change of delta in q.
func (tb *tableau) step(q int, delta float64) {
	for i := 0; i < tb.m; i++ {
		tb.x[tb.basis[i]] -= tb.t.At(i, q) * delta
	}
}

// pivot makes q basic in row r by row operations on t.
func (tb *tableau) pivot(r, q int) {
	pr := tb.t.RawRowView(r)
	floats.Scale(1/pr[q], pr)
	pr[q] = 1
	for i := 0; i < tb.m; i++ {
		if i == r {
			continue
		}
		row := tb.t.RawRowView(i)
		if f := row[q]; f != 0 {
			floats.AddScaled(row, -f, pr)
			row[q] = 0
		}
	}
	leave := tb.basis[r]
	tb.pos[leave] = -1
	tb.pos[q] = r
	tb.basis[r] = q
}

// evict pivots basic artificials out on the largest usable entry of their
// row. An artificial left in place marks a redundant row and stays at 0.
func (tb *tableau) evict() {
	for r := 0; r < tb.m; r++ {
		art := tb.basis[r]
		if art < tb.n {
			continue
		}
		row := tb.t.RawRowView(r)
		q, best := -1, artPivotTol
		for j := 0; j < tb.n; j++ {
			if tb.pos[j] < 0 && math.Abs(row[j]) > best {
				q, best = j, math.Abs(row[j])
			}
		}
		if q >= 0 {
			tb.pivot(r, q)
			tb.x[art] = 0
		}
	}
}

// refresh recomputes the basic values as B⁻¹(b − N·x_N).
// Column n+i of t is sgn_i·B⁻¹e_i, so B⁻¹ = t[:, n:]·D.
func (tb *tableau) refresh() {
	m, n := tb.m, tb.n
	if m == 0 {
		return
	}
	xn := mat.NewVecDense(n+m, nil)
	for j, v := range tb.x {
		if tb.pos[j] < 0 {
			xn.SetVec(j, v)
		}
	}
	var ax mat.VecDense
	ax.MulVec(tb.a, xn)
	w := mat.NewVecDense(m, nil)
	for i := 0; i < m; i++ {
		w.SetVec(i, tb.sgn[i]*(tb.b[i]-ax.AtVec(i)))
	}
	var xb mat.VecDense
	xb.MulVec(tb.t.Slice(0, m, n, n+m), w)
	for i, j := range tb.basis {
		tb.x[j] = xb.AtVec(i)
	}
}
