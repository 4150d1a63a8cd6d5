package lp_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/katalvlaran/knockout/internal/testutil"
	"github.com/katalvlaran/knockout/lp"
	"github.com/katalvlaran/knockout/matrix"
	"github.com/katalvlaran/knockout/model"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

const (
	// coreBudget bounds every solve against core-sized networks.
	coreBudget = 30 * time.Second
	// balanceTol is the largest |S·v| accepted on any metabolite.
	balanceTol = 1e-6
)

// coreContext returns a context that ends after coreBudget, skipping the
// test under -short.
func coreContext(t *testing.T) context.Context {
	t.Helper()
	if testing.Short() {
		t.Skip("core-sized network")
	}
	ctx, cancel := context.WithTimeout(context.Background(), coreBudget)
	t.Cleanup(cancel)

	return ctx
}

// compileCore compiles the core fixture at CoreUptake after apply.
func compileCore(t *testing.T, apply func(m *model.Model)) *lp.Problem {
	t.Helper()
	m := testutil.Core(t)
	require.NoError(t, m.SetCarbonSource(testutil.CoreCarbonSource, testutil.CoreUptake))
	if apply != nil {
		apply(m)
	}
	p, err := lp.Compile(m)
	require.NoError(t, err)

	return p
}

// requireSteadyState checks mass balance and column bounds of res on p.
func requireSteadyState(t *testing.T, p *lp.Problem, res *lp.Result) {
	t.Helper()
	balance := make([]float64, len(p.Rows))
	p.A.Do(func(e matrix.Entry) { balance[e.Row] += e.Value * res.Primal[e.Col] })
	for i, v := range balance {
		require.LessOrEqual(t, math.Abs(v), balanceTol, "metabolite %s", p.Rows[i].Name)
	}
	for j, v := range res.Primal {
		require.True(t, p.Cols[j].Bound.Contains(v, balanceTol), "reaction %s = %g", p.Cols[j].Name, v)
	}
}

func TestSolveCoreBaseline(t *testing.T) {
	ctx := coreContext(t)
	p := compileCore(t, nil)
	require.Len(t, p.Rows, 72)
	require.Len(t, p.Cols, 95)

	for _, presolve := range []bool{true, false} {
		t.Run(fmt.Sprintf("presolve=%v", presolve), func(t *testing.T) {
			res, err := lp.NewSimplex(lp.WithPresolve(presolve)).Solve(ctx, p)
			require.NoError(t, err)
			require.Equal(t, lp.Optimal, res.Status)
			require.InDelta(t, testutil.CoreMaxGrowth, res.Objective, solveTol)
			require.InDelta(t, res.Objective, res.Fluxes[testutil.CoreObjective], solveTol)
			require.InDelta(t, -testutil.CoreUptake, res.Fluxes[testutil.CoreCarbonSource], solveTol)
			require.GreaterOrEqual(t, res.Fluxes["ATPM"], 8.39-solveTol)
			requireSteadyState(t, p, res)
		})
	}
}

func TestSolveCoreAnaerobic(t *testing.T) {
	ctx := coreContext(t)
	p := compileCore(t, func(m *model.Model) {
		require.NoError(t, m.SetBounds("EX_o2_e", 0, 1000))
	})

	res, err := lp.Solve(ctx, p)
	require.NoError(t, err)
	require.InDelta(t, testutil.CoreAnaerobicGrowth, res.Objective, solveTol)
	require.InDelta(t, 0, res.Fluxes["CYTBD"], solveTol)
	requireSteadyState(t, p, res)
}

func TestSolveCoreKnockouts(t *testing.T) {
	ctx := coreContext(t)
	for id, want := range testutil.CoreKnockoutGrowth {
		t.Run(id, func(t *testing.T) {
			p := compileCore(t, func(m *model.Model) { require.NoError(t, m.KnockOut(id)) })
			res, err := lp.Solve(ctx, p)
			require.NoError(t, err)
			require.InDelta(t, want, res.Objective, solveTol)
			require.Zero(t, res.Fluxes[id])
			requireSteadyState(t, p, res)
		})
	}
	for _, id := range testutil.CoreInfeasible {
		t.Run(id, func(t *testing.T) {
			p := compileCore(t, func(m *model.Model) { require.NoError(t, m.KnockOut(id)) })
			_, err := lp.Solve(ctx, p)
			require.ErrorIs(t, err, lp.ErrInfeasible)
		})
	}
}

// TestSolveCoreEveryKnockout: no single knockout raises growth, and every
// feasible one is a steady state.
func TestSolveCoreEveryKnockout(t *testing.T) {
	ctx := coreContext(t)
	ids := testutil.Core(t).ReactionIDs()
	for _, id := range ids {
		p := compileCore(t, func(m *model.Model) { require.NoError(t, m.KnockOut(id)) })
		res, err := lp.Solve(ctx, p)
		if errors.Is(err, lp.ErrInfeasible) {
			continue
		}
		require.NoError(t, err, id)
		require.LessOrEqual(t, res.Objective, testutil.CoreMaxGrowth+solveTol, id)
		requireSteadyState(t, p, res)
	}
}

// TestSolveCoreIterationLimit: a cap far below what the network needs fails
// with status Failed.
func TestSolveCoreIterationLimit(t *testing.T) {
	p := compileCore(t, nil)

	_, err := lp.NewSimplex(lp.WithIterationLimit(5)).Solve(context.Background(), p)
	require.ErrorIs(t, err, lp.ErrSolver)
	require.False(t, errors.Is(err, lp.ErrInfeasible))
	require.False(t, errors.Is(err, lp.ErrUnbounded))
	var se *lp.SolverError
	require.True(t, errors.As(err, &se))
	require.Equal(t, lp.Failed, se.Status)
}

// randomNetwork builds a core-sized random network: 70 metabolites, 95
// reactions, bounds [0, 1000] or [-1000, 1000], a glucose exchange capped at
// 20, an NAD/NADH pair shuttled by several reactions and a biomass drain as
// the objective. Zero flux is always feasible and every flux is bounded.
func randomNetwork(seed uint64) *model.Model {
	const nMets, nRxns = 70, 95
	rnd := rand.New(rand.NewPCG(seed, 0x5eed))
	m := &model.Model{ID: fmt.Sprintf("random_%d", seed)}
	inner := make([]string, 0, nMets-3)
	m.Metabolites = append(m.Metabolites, model.Metabolite{ID: "glc_c"}, model.Metabolite{ID: "nad_c"}, model.Metabolite{ID: "nadh_c"})
	for i := 0; i < nMets-3; i++ {
		id := fmt.Sprintf("m%02d_c", i)
		inner = append(inner, id)
		m.Metabolites = append(m.Metabolites, model.Metabolite{ID: id})
	}
	add := func(id string, lo float64, st map[string]float64) {
		m.Reactions = append(m.Reactions, model.Reaction{ID: id, LowerBound: lo, UpperBound: 1000, Metabolites: st})
	}

	add("EX_glc", -20, map[string]float64{"glc_c": -1})
	for k, i := range rnd.Perm(len(inner))[:8] {
		add(fmt.Sprintf("EX_%d", k), 0, map[string]float64{inner[i]: -1})
	}
	add("NADH16", 0, map[string]float64{"nadh_c": -1, "nad_c": 1, inner[0]: -1})
	coeffs := []float64{1, 1, 1, 2, 0.5}
	pool := append([]string{"glc_c"}, inner...)
	for len(m.Reactions) < nRxns-1 {
		n := 2 + rnd.IntN(3)
		st := make(map[string]float64, n+2)
		for k, i := range rnd.Perm(len(pool))[:n] {
			sign := 1.0
			if k < n/2 {
				sign = -1
			}
			st[pool[i]] = sign * coeffs[rnd.IntN(len(coeffs))]
		}
		if rnd.Float64() < 0.2 {
			dir := 1.0
			if rnd.IntN(2) == 0 {
				dir = -1
			}
			st["nad_c"], st["nadh_c"] = -dir, dir
		}
		lo := 0.0
		if rnd.Float64() < 0.4 {
			lo = -1000
		}
		add(fmt.Sprintf("R%02d", len(m.Reactions)), lo, st)
	}
	bio := make(map[string]float64, 6)
	for _, i := range rnd.Perm(len(inner))[:6] {
		bio[inner[i]] = -[]float64{0.5, 1, 1.5}[rnd.IntN(3)]
	}
	add("BIOMASS", 0, bio)
	m.Reactions[len(m.Reactions)-1].ObjectiveCoefficient = 1

	return m
}

// TestSolveRandomNetworks: random core-sized networks always solve to a
// bounded steady state, and a knockout never raises the optimum.
func TestSolveRandomNetworks(t *testing.T) {
	ctx := coreContext(t)
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 25

	properties := gopter.NewProperties(parameters)
	properties.Property("optimal, balanced and monotone under knockout", prop.ForAll(
		func(seed uint64, pick int) bool {
			m := randomNetwork(seed)
			p, err := lp.Compile(m)
			if err != nil {
				return false
			}
			res, err := lp.Solve(ctx, p)
			if err != nil || res.Status != lp.Optimal {
				return false
			}
			if res.Objective < -solveTol || res.Objective > 1000+solveTol {
				return false
			}
			balance := make([]float64, len(p.Rows))
			p.A.Do(func(e matrix.Entry) { balance[e.Row] += e.Value * res.Primal[e.Col] })
			for _, v := range balance {
				if math.Abs(v) > balanceTol {
					return false
				}
			}

			if err = m.KnockOut(m.Reactions[pick%len(m.Reactions)].ID); err != nil {
				return false
			}
			if p, err = lp.Compile(m); err != nil {
				return false
			}
			ko, err := lp.Solve(ctx, p)
			return err == nil && ko.Objective <= res.Objective+solveTol
		},
		gen.UInt64(),
		gen.IntRange(0, 94),
	))

	properties.TestingRun(t)
}
