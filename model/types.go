// SPDX-License-Identifier: MIT

// Package model defines the constraint-based metabolic model: Metabolite,
// Reaction and Model, plus the in-place edits the knockout cycle performs on a
// live copy (carbon-source uptake, reaction knockout, explicit bounds) and the
// deep Clone used to keep a pristine snapshot for reset.
//
// Models are plain values without internal locking. A Model is owned by one
// goroutine at a time; concurrent work (see knockout.Sweep) clones first.
//
// Errors:
//
//	ErrUnknownReaction   - a reaction identifier is not present in the model.
//	ErrUnknownMetabolite - a reaction references a metabolite the model lacks.
//	ErrDuplicateID       - two metabolites or two reactions share an identifier.
//	ErrInvalidBounds     - lower bound exceeds upper bound, or a bound is NaN.
//	ErrInvalidModel      - the decoded document violates the COBRA JSON schema.
package model

// Metabolite is one chemical species; one LP row per metabolite.
type Metabolite struct {
	// ID is unique within a model (e.g. "glc__D_e").
	ID string `json:"id" validate:"required"`

	// Name is a human-readable label; informational only.
	Name string `json:"name,omitempty"`

	// Compartment is the compartment code (e.g. "c", "e"); informational only.
	Compartment string `json:"compartment,omitempty"`

	// Formula is the chemical formula; informational only.
	Formula string `json:"formula,omitempty"`

	// Charge is the formal charge; informational only.
	Charge int `json:"charge,omitempty"`
}

// Reaction is one flux-carrying transformation; one LP column per reaction.
//
// Convention: a negative lower bound on an exchange reaction permits uptake.
type Reaction struct {
	// ID is unique within a model (e.g. "PGI", "EX_glc__D_e").
	ID string `json:"id" validate:"required"`

	// Name is a human-readable label; informational only.
	Name string `json:"name,omitempty"`

	// Subsystem groups reactions into pathways; informational only.
	Subsystem string `json:"subsystem,omitempty"`

	// GeneReactionRule is the boolean gene rule; informational only.
	GeneReactionRule string `json:"gene_reaction_rule,omitempty"`

	// LowerBound and UpperBound bound the flux; LowerBound <= UpperBound.
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`

	// ObjectiveCoefficient weights this flux in the (maximized) objective.
	ObjectiveCoefficient float64 `json:"objective_coefficient,omitempty"`

	// Metabolites maps metabolite ID to its signed stoichiometric coefficient:
	// negative = consumed, positive = produced.
	Metabolites map[string]float64 `json:"metabolites"`
}

// Model is an ordered set of metabolites and reactions.
// Order is significant: it fixes LP row and column order.
type Model struct {
	// ID names the model (e.g. "e_coli_core").
	ID string `json:"id,omitempty"`

	// Version is the document version string, if any.
	Version string `json:"version,omitempty"`

	// Metabolites in row order.
	Metabolites []Metabolite `json:"metabolites" validate:"dive"`

	// Reactions in column order.
	Reactions []Reaction `json:"reactions" validate:"dive"`
}
