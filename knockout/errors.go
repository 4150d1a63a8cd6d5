// SPDX-License-Identifier: MIT

package knockout

import "errors"

// Sentinel errors of the knockout package, prefixed with "knockout: ...".
// Model and solver failures pass through wrapped, so model.ErrUnknownReaction
// and lp.ErrSolver keep matching with errors.Is.
var (
	// ErrNilModel indicates a nil model was handed to a session or sweep.
	ErrNilModel = errors.New("knockout: nil model")

	// ErrNotStarted indicates Click was called before Start.
	ErrNotStarted = errors.New("knockout: session not started")
)
