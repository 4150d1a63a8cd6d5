// SPDX-License-Identifier: MIT

package lp

import (
	"math"

	"go.uber.org/zap"
)

const (
	// DefaultTolerance is the simplex pricing and pivot tolerance; presolve
	// uses it as the rank epsilon too.
	DefaultTolerance = 1e-9

	// DefaultPresolve enables the presolve reductions before simplex.
	DefaultPresolve = true
)

const (
	panicToleranceInvalid = "lp: WithTolerance: tol must be finite, positive"
	panicIterationInvalid = "lp: WithIterationLimit: n must be >= 1"
)

// Option configures a Simplex solver.
type Option func(*Simplex)

// WithPresolve toggles presolve. Without it the raw problem goes to the
// simplex unreduced; results are the same, the tableau is larger.
func WithPresolve(on bool) Option {
	return func(s *Simplex) { s.presolve = on }
}

// WithTolerance sets the simplex tolerance. Panics on non-positive or
// non-finite values (programmer error).
func WithTolerance(tol float64) Option {
	if !(tol > 0) || math.IsInf(tol, 0) {
		panic(panicToleranceInvalid)
	}
	return func(s *Simplex) { s.tol = tol }
}

// WithIterationLimit caps the simplex iterations of one solve (both phases).
// Reaching the cap fails the solve with status Failed. The default scales with
// the problem size. Panics if n < 1 (programmer error).
func WithIterationLimit(n int) Option {
	if n < 1 {
		panic(panicIterationInvalid)
	}
	return func(s *Simplex) { s.maxIter = n }
}

// WithLogger attaches a logger; presolve and simplex statistics go out at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(s *Simplex) {
		if l != nil {
			s.log = l
		}
	}
}
