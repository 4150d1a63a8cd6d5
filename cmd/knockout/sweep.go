// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/knockout/knockout"
)

var errBadWorkers = errors.New("--workers must be at least 1")

func newSweepCmd(a *app) *cobra.Command {
	var (
		workers    int
		onlyLethal bool
	)
	cmd := &cobra.Command{
		Use:   "sweep [reaction...]",
		Short: "Knock out every reaction (or the given ones) one at a time",
		Long: `sweep evaluates single-reaction knockouts in parallel and prints them from
most to least harmful. Reactions that cannot be knocked out are reported with
their error instead of aborting the sweep.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := cmd.Flags().Changed("workers")
			if changed && workers < 1 {
				return fmt.Errorf("%w, got %d", errBadWorkers, workers)
			}
			m, err := a.loadModel()
			if err != nil {
				return err
			}
			opts := a.options()
			if changed {
				opts = append(opts, knockout.WithWorkers(workers))
			}
			var ids []string
			if len(args) > 0 {
				ids = args
			}

			results, err := knockout.Sweep(cmd.Context(), m, ids, opts...)
			if err != nil {
				return err
			}
			sortSweep(results)

			w := cmd.OutOrStdout()
			lethal := 0
			for _, r := range results {
				switch {
				case r.Err != nil:
					fmt.Fprintf(w, "%-16s %10s  %v\n", r.Reaction, "error", r.Err)
				case r.Payload.Killed:
					lethal++
					fmt.Fprintf(w, "%-16s %10s\n", r.Reaction, "lethal")
				case !onlyLethal:
					fmt.Fprintf(w, "%-16s %9.1f%%\n", r.Reaction, r.Payload.GrowthRate)
				}
			}
			fmt.Fprintf(w, "%d of %d knockouts are lethal\n", lethal, len(results))
			a.logger.Info("sweep finished", zap.Int("reactions", len(results)), zap.Int("lethal", lethal))

			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "parallel solves (default from config)")
	cmd.Flags().BoolVar(&onlyLethal, "only-lethal", false, "print lethal knockouts only")

	return cmd
}

// sortSweep orders failures first, then by ascending growth, then by ID.
func sortSweep(results []knockout.SweepResult) {
	sort.SliceStable(results, func(i, j int) bool {
		ri, rj := results[i], results[j]
		if (ri.Err != nil) != (rj.Err != nil) {
			return ri.Err != nil
		}
		if ri.Payload.GrowthRate != rj.Payload.GrowthRate {
			return ri.Payload.GrowthRate < rj.Payload.GrowthRate
		}
		return ri.Reaction < rj.Reaction
	})
}
