// SPDX-License-Identifier: MIT

// Package matrix provides the sparse coefficient storage and the small set of
// linear-algebra kernels the LP layer needs on top of gonum.
//
// The matrix package provides:
//
//   - Sparse: a coordinate-format (COO) matrix with deterministic insertion
//     order, safe Get/Set accessors, and a gonum mat.Matrix view (Dims/At/T),
//     so it can be handed to gonum routines without materializing first.
//   - IndependentRows: a row-basis selector (Gaussian elimination with partial
//     pivoting) used by presolve to drop linearly dependent equality rows,
//     e.g. conserved moieties in a stoichiometric matrix.
//   - Functional Options for the numeric policy (the elimination epsilon).
//
// A stoichiometric matrix is a weighted incidence matrix: one row per
// metabolite, one column per reaction, signed coefficients for consumption (−)
// and production (+). Realistic models are very sparse (a few entries per
// column), which is why storage is COO and densification is explicit (ToDense).
//
// Quick example:
//
//	s, _ := matrix.NewSparse(2, 3)
//	_ = s.Set(0, 0, -1) // A consumed by R0
//	_ = s.Set(1, 0, +1) // B produced by R0
//	d := s.ToDense()    // *mat.Dense for gonum kernels
package matrix
