package lp_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/katalvlaran/knockout/internal/testutil"
	"github.com/katalvlaran/knockout/lp"
	"github.com/katalvlaran/knockout/matrix"
	"github.com/katalvlaran/knockout/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const solveTol = 1e-6

// solveToy compiles the toy model with the test uptake and the given knockouts.
func solveToy(t *testing.T, knockouts ...string) (*lp.Result, error) {
	t.Helper()
	m := testutil.Toy(t)
	require.NoError(t, m.SetCarbonSource(testutil.ToyCarbonSource, testutil.ToyUptake))
	for _, id := range knockouts {
		require.NoError(t, m.KnockOut(id))
	}
	p, err := lp.Compile(m)
	require.NoError(t, err)

	return lp.Solve(context.Background(), p)
}

// pipe is IN -> a -> OUT, with IN capped at inCap and OUT the objective.
func pipe(inCap float64) *model.Model {
	return &model.Model{
		ID:          "pipe",
		Metabolites: []model.Metabolite{{ID: "a"}},
		Reactions: []model.Reaction{
			{ID: "IN", UpperBound: inCap, Metabolites: map[string]float64{"a": 1}},
			{ID: "OUT", UpperBound: 1000, ObjectiveCoefficient: 1, Metabolites: map[string]float64{"a": -1}},
		},
	}
}

func TestSolveToyBaseline(t *testing.T) {
	res, err := solveToy(t)
	require.NoError(t, err)
	require.Equal(t, lp.Optimal, res.Status)
	require.InDelta(t, testutil.ToyMaxGrowth, res.Objective, solveTol)
	require.InDelta(t, testutil.ToyMaxGrowth, res.Fluxes["BIOMASS"], solveTol)
	require.InDelta(t, -testutil.ToyUptake, res.Fluxes["EX_glc_e"], solveTol) // full uptake
	require.Len(t, res.Primal, 9)
	require.Len(t, res.Fluxes, 9)
	for j, v := range res.Primal {
		require.GreaterOrEqual(t, v, -1000-solveTol, j)
		require.LessOrEqual(t, v, 1000+solveTol, j)
	}
}

func TestSolveToyKnockouts(t *testing.T) {
	cases := []struct {
		name      string
		knockouts []string
		want      float64
	}{
		{"GAPD leaves only the capped bypass", []string{"GAPD"}, testutil.ToyBypassGrowth},
		{"NADH16 starves GAPD of NAD", []string{"NADH16"}, testutil.ToyBypassGrowth},
		{"EDA alone is redundant", []string{"EDA"}, testutil.ToyMaxGrowth},
		{"O2t is uncoupled", []string{"O2t"}, testutil.ToyMaxGrowth},
		{"GLCpts blocks all uptake", []string{"GLCpts"}, 0},
		{"both routes", []string{"GAPD", "EDA"}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := solveToy(t, tc.knockouts...)
			require.NoError(t, err)
			require.InDelta(t, tc.want, res.Objective, solveTol)
			for _, id := range tc.knockouts {
				require.Zero(t, res.Fluxes[id]) // fixed columns are reported exactly
			}
		})
	}
}

// TestSolveWithoutPresolve hands the unreduced problem to the simplex.
func TestSolveWithoutPresolve(t *testing.T) {
	p, err := lp.Compile(pipe(7))
	require.NoError(t, err)

	res, err := lp.NewSimplex(lp.WithPresolve(false)).Solve(context.Background(), p)
	require.NoError(t, err)
	require.InDelta(t, 7, res.Objective, solveTol)
	require.InDelta(t, 7, res.Fluxes["IN"], solveTol)
}

func TestSolveMinimize(t *testing.T) {
	m := pipe(10)
	m.Reactions[0].ObjectiveCoefficient = 1
	m.Reactions[1].ObjectiveCoefficient = 0
	m.Reactions[1].LowerBound = 3 // something must flow
	p, err := lp.Compile(m)
	require.NoError(t, err)
	p.Sense = lp.Minimize

	res, err := lp.Solve(context.Background(), p)
	require.NoError(t, err)
	require.InDelta(t, 3, res.Objective, solveTol)
}

// TestSolveToyWithoutPresolve: the rank-deficient toy (NAD/NADH pair) and its
// knockouts solve the same with and without presolve.
func TestSolveToyWithoutPresolve(t *testing.T) {
	raw := lp.NewSimplex(lp.WithPresolve(false))
	for _, tc := range []struct {
		knockout string
		want     float64
	}{
		{"", testutil.ToyMaxGrowth},
		{"GAPD", testutil.ToyBypassGrowth},
		{"GLCpts", 0},
	} {
		m := testutil.Toy(t)
		require.NoError(t, m.SetCarbonSource(testutil.ToyCarbonSource, testutil.ToyUptake))
		if tc.knockout != "" {
			require.NoError(t, m.KnockOut(tc.knockout))
		}
		p, err := lp.Compile(m)
		require.NoError(t, err)
		res, err := raw.Solve(context.Background(), p)
		require.NoError(t, err, tc.knockout)
		require.InDelta(t, tc.want, res.Objective, solveTol, tc.knockout)
	}
}

// rangedProblem is max|min x + y s.t. 2 <= x + y <= 5, x - z = 0,
// x in [0, 4], y in [0, 4], z free.
func rangedProblem(t *testing.T, sense lp.Sense) *lp.Problem {
	t.Helper()
	a, err := matrix.NewSparse(2, 3)
	require.NoError(t, err)
	require.NoError(t, a.Set(0, 0, 1))
	require.NoError(t, a.Set(0, 1, 1))
	require.NoError(t, a.Set(1, 0, 1))
	require.NoError(t, a.Set(1, 2, -1))

	return &lp.Problem{
		Name:  "ranged",
		Sense: sense,
		Rows: []lp.Row{
			{Name: "sum", Bound: lp.NewBound(2, 5)},
			{Name: "link", Bound: lp.NewBound(0, 0)},
		},
		Cols: []lp.Column{
			{Name: "x", Bound: lp.NewBound(0, 4), Objective: 1},
			{Name: "y", Bound: lp.NewBound(0, 4), Objective: 1},
			{Name: "z", Bound: lp.NewBound(math.Inf(-1), math.Inf(1))},
		},
		A: a,
	}
}

// TestSolveRangedRows covers slack rows and a free column in both senses.
func TestSolveRangedRows(t *testing.T) {
	for _, presolve := range []bool{true, false} {
		s := lp.NewSimplex(lp.WithPresolve(presolve))

		res, err := s.Solve(context.Background(), rangedProblem(t, lp.Maximize))
		require.NoError(t, err)
		require.InDelta(t, 5, res.Objective, solveTol)
		require.InDelta(t, res.Fluxes["x"], res.Fluxes["z"], solveTol)

		res, err = s.Solve(context.Background(), rangedProblem(t, lp.Minimize))
		require.NoError(t, err)
		require.InDelta(t, 2, res.Objective, solveTol)
		require.InDelta(t, res.Fluxes["x"], res.Fluxes["z"], solveTol)
	}

	// A row [-Inf, -1] on nonnegative columns cannot hold.
	p := rangedProblem(t, lp.Maximize)
	p.Rows[0].Bound = lp.NewBound(math.Inf(-1), -1)
	_, err := lp.Solve(context.Background(), p)
	require.ErrorIs(t, err, lp.ErrInfeasible)
}

// TestSolveUnboundedFreeColumn: a free column on a ray the rows allow.
func TestSolveUnboundedFreeColumn(t *testing.T) {
	p := rangedProblem(t, lp.Maximize)
	p.Cols[2].Objective = -1
	p.Rows[1].Bound = lp.NewBound(0, math.Inf(1)) // x - z >= 0 lets z fall without limit

	for _, presolve := range []bool{true, false} {
		_, err := lp.NewSimplex(lp.WithPresolve(presolve)).Solve(context.Background(), p)
		require.ErrorIs(t, err, lp.ErrUnbounded)
	}
}

// TestSolveInfeasible covers infeasibility found by presolve and by simplex.
func TestSolveInfeasible(t *testing.T) {
	// OUT must run but nothing produces a.
	m := pipe(0)
	m.Reactions = m.Reactions[1:]
	m.Reactions[0].LowerBound = 5
	p, err := lp.Compile(m)
	require.NoError(t, err)

	_, err = lp.Solve(context.Background(), p)
	require.ErrorIs(t, err, lp.ErrInfeasible)
	require.ErrorIs(t, err, lp.ErrSolver)
	var se *lp.SolverError
	require.True(t, errors.As(err, &se))
	require.Equal(t, lp.Infeasible, se.Status)
	require.Equal(t, lp.ProblemName, se.Problem)

	// Pinning OUT at 5 turns the same contradiction into a presolve finding.
	m.Reactions[0].UpperBound = 5
	p, err = lp.Compile(m)
	require.NoError(t, err)
	_, err = lp.ExportedPresolve(p, lp.DefaultTolerance)
	require.ErrorIs(t, err, lp.ErrInfeasible)
	_, err = lp.Solve(context.Background(), p)
	require.ErrorIs(t, err, lp.ErrInfeasible)
	require.True(t, errors.As(err, &se))
	require.Equal(t, lp.Infeasible, se.Status)
}

// TestSolveUnbounded: an objective column no row constrains.
func TestSolveUnbounded(t *testing.T) {
	a, err := matrix.NewSparse(0, 1)
	require.NoError(t, err)
	p := &lp.Problem{
		Name: "ray",
		Cols: []lp.Column{{Name: "x", Bound: lp.NewBound(0, math.Inf(1)), Objective: 1}},
		A:    a,
	}

	_, err = lp.Solve(context.Background(), p)
	require.ErrorIs(t, err, lp.ErrUnbounded)
	require.ErrorIs(t, err, lp.ErrSolver)
	var se *lp.SolverError
	require.True(t, errors.As(err, &se))
	require.Equal(t, lp.Unbounded, se.Status)
	require.Contains(t, se.Error(), `"ray"`)
}

// TestSolveEmptyColumnsOnly: presolve eliminates everything; the objective is the offset.
func TestSolveEmptyColumnsOnly(t *testing.T) {
	a, err := matrix.NewSparse(0, 2)
	require.NoError(t, err)
	p := &lp.Problem{
		Cols: []lp.Column{
			{Name: "x", Bound: lp.NewBound(0, 4), Objective: 2},
			{Name: "y", Bound: lp.NewBound(-1, 1)},
		},
		A: a,
	}
	res, err := lp.Solve(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, 8.0, res.Objective)
	require.Equal(t, map[string]float64{"x": 4, "y": 0}, res.Fluxes)
}

func TestSolveBadProblem(t *testing.T) {
	ctx := context.Background()
	_, err := lp.Solve(ctx, nil)
	require.ErrorIs(t, err, lp.ErrBadProblem)

	a, err := matrix.NewSparse(1, 1)
	require.NoError(t, err)
	_, err = lp.Solve(ctx, &lp.Problem{A: a}) // 1x1 matrix, no rows or cols
	require.ErrorIs(t, err, lp.ErrBadProblem)
	require.False(t, errors.Is(err, lp.ErrSolver))
}

func TestSolveCancelled(t *testing.T) {
	p, err := lp.Compile(pipe(1))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = lp.Solve(ctx, p)
	require.ErrorIs(t, err, context.Canceled)
}

// TestPresolveToy checks the reductions on the toy model.
func TestPresolveToy(t *testing.T) {
	m := testutil.Toy(t)
	p, err := lp.Compile(m)
	require.NoError(t, err)

	st, err := lp.ExportedPresolve(p, lp.DefaultTolerance)
	require.NoError(t, err)
	require.Equal(t, 1, st.DependentRows) // nad_c / nadh_c
	require.Zero(t, st.FixedCols)
	require.Equal(t, []int{0, 1, 2, 4, 5, 6}, st.Rows)
	require.Len(t, st.Cols, 9)

	require.NoError(t, m.KnockOut("GAPD"))
	require.NoError(t, m.KnockOut("NADH16"))
	p, err = lp.Compile(m)
	require.NoError(t, err)
	st, err = lp.ExportedPresolve(p, lp.DefaultTolerance)
	require.NoError(t, err)
	require.Equal(t, 2, st.FixedCols)
	require.Equal(t, 2, st.EmptyRows) // the cofactor pair loses every entry
	require.Zero(t, st.DependentRows)
	require.Equal(t, []int{0, 1, 4, 5, 6}, st.Rows)
	require.Zero(t, st.Offset)
}

// TestSolveLogsPresolve: presolve statistics go to the attached logger.
func TestSolveLogsPresolve(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	p, err := lp.Compile(pipe(1))
	require.NoError(t, err)

	_, err = lp.NewSimplex(lp.WithLogger(zap.New(core))).Solve(context.Background(), p)
	require.NoError(t, err)
	entries := logs.FilterMessage("presolve").All()
	require.Len(t, entries, 1)
	require.Equal(t, int64(2), entries[0].ContextMap()["cols_left"])
}

func TestOptionsPanic(t *testing.T) {
	require.Panics(t, func() { lp.WithTolerance(0) })
	require.Panics(t, func() { lp.WithTolerance(math.Inf(1)) })
	require.Panics(t, func() { lp.WithTolerance(math.NaN()) })
	require.Panics(t, func() { lp.WithIterationLimit(0) })
	require.NotPanics(t, func() { lp.NewSimplex(lp.WithTolerance(1e-8), lp.WithIterationLimit(10), lp.WithLogger(nil)) })
}
