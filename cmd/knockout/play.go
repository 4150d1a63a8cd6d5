// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/knockout/knockout"
)

func newPlayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Read reaction IDs from stdin and knock them out one click at a time",
		Long: `play starts a session and treats every input line as a click on a reaction.
"reset" restores the loaded model, "quit" ends the session. Unknown
reactions are reported and the session continues.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadModel()
			if err != nil {
				return err
			}
			r := knockout.NewWriterRenderer(cmd.OutOrStdout())
			s, err := knockout.NewSession(m, r, a.options()...)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if _, err = s.Start(ctx); err != nil {
				return err
			}
			sc := bufio.NewScanner(cmd.InOrStdin())
			for sc.Scan() {
				if err = ctx.Err(); err != nil {
					return err
				}
				line := strings.TrimSpace(sc.Text())
				switch {
				case line == "" || strings.HasPrefix(line, "#"):
					continue
				case line == "quit" || line == "exit":
					return nil
				case line == "reset":
					_, _ = s.Reset(ctx) // failures are on the status line
				default:
					_, _ = s.Click(ctx, line)
				}
			}

			return sc.Err()
		},
	}
}
