// SPDX-License-Identifier: MIT

package knockout

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/knockout/model"
)

// SweepResult is the outcome of knocking out one reaction from the start state.
type SweepResult struct {
	Reaction string
	Payload  Payload
	Err      error // per-reaction failure; the sweep itself continues
}

// Sweep knocks out each reaction of ids, one at a time, on a fresh copy of m
// with the carbon source open, and evaluates every copy. A nil ids sweeps
// every reaction of m. Results are in the order of ids.
//
// Work runs on up to Workers goroutines (WithWorkers; GOMAXPROCS by default).
// Each goroutine owns its clone and its problem; the solver is shared and
// must be stateless, as lp.Simplex is.
//
// Errors: ErrNilModel, a carbon source failure (before any work starts), or
// ctx.Err() if the context ends during the run. Unknown reactions and solver
// failures land in SweepResult.Err instead.
func Sweep(ctx context.Context, m *model.Model, ids []string, opts ...Option) ([]SweepResult, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	o := gatherOptions(opts...)

	base := m.Clone()
	if id, uptake := o.CarbonSource(); id != "" {
		if err := base.SetCarbonSource(id, uptake); err != nil {
			return nil, fmt.Errorf("knockout: Sweep: %w", err)
		}
	}
	if ids == nil {
		ids = base.ReactionIDs()
	}

	results := make([]SweepResult, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, id := range ids {
		results[i].Reaction = id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i].Payload, results[i].Err = o.single(gctx, base.Clone(), id)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	o.log.Debug("sweep done", zap.Int("reactions", len(ids)), zap.Int("workers", o.workers))

	return results, nil
}

// single evaluates m with reaction id knocked out.
func (o Options) single(ctx context.Context, m *model.Model, id string) (Payload, error) {
	if err := m.KnockOut(id); err != nil {
		return Payload{}, fmt.Errorf("knockout: Sweep: %w", err)
	}

	return o.evaluate(ctx, m, []string{id}, o.solver)
}
