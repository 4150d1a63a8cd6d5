// SPDX-License-Identifier: MIT

package lp

import (
	"errors"
	"fmt"
)

// Sentinel errors of the lp package. Every message is prefixed with "lp: ...".
// Solver failures are returned as *SolverError and match both their specific
// sentinel (ErrInfeasible, ErrUnbounded) and the umbrella ErrSolver.
var (
	// ErrNilModel indicates Compile received a nil model.
	ErrNilModel = errors.New("lp: nil model")

	// ErrBadProblem indicates a Problem whose matrix shape disagrees with its
	// rows/columns, or whose bounds are inverted.
	ErrBadProblem = errors.New("lp: malformed problem")

	// ErrSolver is the umbrella for every failure to produce an optimum.
	ErrSolver = errors.New("lp: solver failed")

	// ErrInfeasible indicates no flux distribution satisfies the constraints.
	ErrInfeasible = errors.New("lp: problem is infeasible")

	// ErrUnbounded indicates the objective can grow without limit.
	ErrUnbounded = errors.New("lp: problem is unbounded")
)

// SolverError reports that the solver could not produce an optimal solution.
type SolverError struct {
	Problem string // problem name
	Status  Status // Infeasible, Unbounded or Failed
	Err     error  // underlying cause (a sentinel above or a numerical failure)
}

func (e *SolverError) Error() string {
	return fmt.Sprintf("lp: solve %q: %s: %v", e.Problem, e.Status, e.Err)
}

// Unwrap exposes the cause to errors.Is / errors.As.
func (e *SolverError) Unwrap() error { return e.Err }

// Is makes every SolverError match ErrSolver.
func (e *SolverError) Is(target error) bool { return target == ErrSolver }
