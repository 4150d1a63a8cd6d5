// SPDX-License-Identifier: MIT

// Command knockout knocks reactions out of a COBRA model and reports the
// recomputed optimal growth rate.
//
//	knockout solve --model e_coli_core.json -k PGI -k ENO
//	knockout sweep --model e_coli_core.json --only-lethal
//	knockout play  --model e_coli_core.json   # one reaction ID per line
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
