// SPDX-License-Identifier: MIT

package model

import "errors"

// Sentinel errors for model operations. Every message is prefixed with
// "model: ..."; call sites wrap with the offending identifier and callers
// match with errors.Is.
var (
	// ErrUnknownReaction indicates an operation referenced a non-existent reaction.
	ErrUnknownReaction = errors.New("model: unknown reaction")

	// ErrUnknownMetabolite indicates a reaction references a metabolite that is
	// absent from the model's metabolite list.
	ErrUnknownMetabolite = errors.New("model: unknown metabolite")

	// ErrDuplicateID indicates two metabolites or two reactions share an ID.
	ErrDuplicateID = errors.New("model: duplicate id")

	// ErrInvalidBounds indicates lower > upper, or a NaN bound.
	ErrInvalidBounds = errors.New("model: invalid flux bounds")

	// ErrInvalidModel indicates the document violates the COBRA JSON schema
	// (missing ids, malformed JSON, non-finite coefficients).
	ErrInvalidModel = errors.New("model: invalid model document")
)
