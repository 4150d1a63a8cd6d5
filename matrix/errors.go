// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set (unified, consistent).
// This file defines ONLY package-level sentinel errors used across the matrix
// package. All kernels MUST return these sentinels and tests MUST check them
// via errors.Is. No kernel should panic on user-triggered error conditions,
// with the single exception of the gonum-facing At, which follows the
// mat.Matrix contract.

package matrix

import "errors"

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "matrix: ..." for consistency and to allow
// easy grepping across logs. Wrap with fmt.Errorf("ctx: %w", ErrX) at the
// detection site; callers still match with errors.Is.
//
// ERROR PRIORITY (documented, enforced in tests):
// shape -> index -> NaN/Inf -> dimension mismatch -> numeric consistency.

var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are negative.
	// Zero rows or zero columns are legal for Sparse (an LP may have no rows).
	ErrInvalidDimensions = errors.New("matrix: dimensions must be >= 0")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	// Get/Set MUST return this, not panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrNaNInf signals a NaN or ±Inf value was encountered where finite values
	// are required by the numeric policy.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrDimensionMismatch indicates incompatible operand sizes,
	// e.g. a right-hand side whose length differs from the row count.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNilMatrix indicates that a nil matrix argument was used.
	ErrNilMatrix = errors.New("matrix: nil matrix")

	// ErrInconsistent signals that a linearly dependent row carries a
	// right-hand side that contradicts the rows it depends on (Ax=b has no solution).
	ErrInconsistent = errors.New("matrix: inconsistent right-hand side")
)
