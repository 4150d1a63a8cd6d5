// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/knockout/knockout"
)

// latest keeps only the most recent frame, so solve prints the final state.
type latest struct {
	fluxes map[string]float64
	status string
}

func (l *latest) SetReactionData(f map[string]float64) { l.fluxes = f }
func (l *latest) SetStatus(s string) { l.status = s }

func newSolveCmd(a *app) *cobra.Command {
	var (
		knockouts []string
		showZero  bool
	)
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Knock out the given reactions and print growth and fluxes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadModel()
			if err != nil {
				return err
			}
			frame := &latest{}
			s, err := knockout.NewSession(m, frame, a.options()...)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			_, err = s.Start(ctx)
			for _, id := range knockouts {
				if err != nil {
					break
				}
				_, err = s.Click(ctx, id)
			}

			out := knockout.NewWriterRenderer(cmd.OutOrStdout())
			out.ShowZero = showZero
			out.SetStatus(frame.status)
			if err == nil {
				out.SetReactionData(frame.fluxes)
			}
			return err
		},
	}
	cmd.Flags().StringArrayVarP(&knockouts, "knockout", "k", nil, "reaction to knock out (repeatable)")
	cmd.Flags().BoolVar(&showZero, "all", false, "print zero fluxes too")

	return cmd
}
