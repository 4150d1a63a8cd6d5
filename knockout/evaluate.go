// SPDX-License-Identifier: MIT

package knockout

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/katalvlaran/knockout/lp"
	"github.com/katalvlaran/knockout/model"
)

const (
	nbsp         = "\u00a0"
	promptStatus = "Click a reaction to knock it out. "
)

// Payload is what one optimize cycle hands to the renderer.
type Payload struct {
	Knockouts  []string           // knocked-out reactions in click order
	Objective  float64            // optimal objective value
	GrowthRate float64            // Objective / reference growth · 100; 0 when killed
	Killed     bool               // Objective below the kill threshold
	Fluxes     map[string]float64 // reaction ID → flux; nil when killed
	Status     string             // status line
}

// Evaluate runs one optimize cycle on m.
//
// knockouts lists the reactions already knocked out in m, for the status
// line; Evaluate does not modify m. A nil solver selects the one configured
// by opts (by default a presolving lp.Simplex).
//
// Steps:
//  1. Compile m into an LP (lp.Compile).
//  2. Solve it.
//  3. Below the kill threshold: Killed, no fluxes.
//  4. Otherwise: growth rate as a percentage of the reference growth, with
//     the full flux mapping.
//
// Errors: compile errors (model.ErrUnknownMetabolite, ...), solver errors
// (matching lp.ErrSolver), or ctx.Err().
func Evaluate(ctx context.Context, m *model.Model, knockouts []string, solver lp.Solver, opts ...Option) (Payload, error) {
	o := gatherOptions(opts...)
	if solver == nil {
		solver = o.solver
	}

	return o.evaluate(ctx, m, knockouts, solver)
}

func (o Options) evaluate(ctx context.Context, m *model.Model, knockouts []string, solver lp.Solver) (Payload, error) {
	if m == nil {
		return Payload{}, ErrNilModel
	}
	p, err := lp.Compile(m)
	if err != nil {
		return Payload{}, fmt.Errorf("knockout: Evaluate: %w", err)
	}
	res, err := solver.Solve(ctx, p)
	if err != nil {
		return Payload{}, fmt.Errorf("knockout: Evaluate: %w", err)
	}

	out := Payload{
		Knockouts: append([]string(nil), knockouts...),
		Objective: res.Objective,
	}
	if res.Objective < o.killThreshold {
		out.Killed = true
	} else {
		out.GrowthRate = res.Objective / o.referenceGrowth * 100
		out.Fluxes = res.Fluxes
	}
	out.Status = StatusText(out.Knockouts, out.Killed, out.GrowthRate, o.organism)
	o.log.Debug("cycle",
		zap.Strings("knockouts", out.Knockouts),
		zap.Float64("objective", out.Objective),
		zap.Bool("killed", out.Killed),
	)

	return out, nil
}

// StatusText formats the status line of a cycle:
//
//	"Click a reaction to knock it out. Growth rate: 100.0%"
//	"ΔGAPD ΔEDA: You killed E. coli!"
//
// Spaces inside "Growth rate:" and inside the organism name are non-breaking.
func StatusText(knockouts []string, killed bool, growthRate float64, organism string) string {
	var b strings.Builder
	if len(knockouts) == 0 {
		b.WriteString(promptStatus)
	} else {
		for i, id := range knockouts {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString("Δ")
			b.WriteString(id)
		}
		b.WriteString(": ")
	}

	if killed {
		b.WriteString("You killed ")
		b.WriteString(strings.ReplaceAll(organism, " ", nbsp))
		b.WriteString("!")
		return b.String()
	}
	fmt.Fprintf(&b, "Growth%srate:%s%.1f%%", nbsp, nbsp, growthRate)

	return b.String()
}

// errorStatus is the status line of an aborted cycle.
func errorStatus(err error) string {
	return "Error: " + err.Error()
}
