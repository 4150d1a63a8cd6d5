// SPDX-License-Identifier: MIT

// Package knockout runs the optimize cycle of an interactive knockout session.
//
// One cycle is: compile the live model into an LP, solve it, and turn the
// optimum into a display Payload. An objective below the kill threshold means
// the organism died and no flux data is shown. Otherwise the growth rate is
// reported as a percentage of a reference wild-type growth.
//
// The package provides:
//
//   - Evaluate: a single cycle on a given model. It has no state of its own.
//   - Session: owns a pristine snapshot and a live model, applies clicks
//     (knockouts) and resets, and pushes every payload to a Renderer.
//   - Renderer: the display collaborator (flux data plus a status line).
//     WriterRenderer renders to any io.Writer.
//   - Sweep: scripted single-reaction knockouts over many reactions, in
//     parallel, each on its own clone.
//
// Failures never crash a session: the cycle is aborted, the renderer gets an
// error status with the data cleared, and the error is returned to the caller.
//
// Quick example:
//
//	s, _ := knockout.NewSession(m, knockout.NewWriterRenderer(os.Stdout))
//	_, _ = s.Start(ctx)          // EX_glc_e uptake 20, baseline growth
//	_, _ = s.Click(ctx, "GAPD")  // ΔGAPD: Growth rate: ...
//	_, _ = s.Reset(ctx)          // back to the pristine model
package knockout
