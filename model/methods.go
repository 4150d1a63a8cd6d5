// SPDX-License-Identifier: MIT

// Package model: in-place edits and lookups on a live Model.
//
// All finders are linear scans over the reaction slice in model order; IDs are
// expected to be unique (Validate enforces it), and on duplicates the first
// match wins. Every edit returns ErrUnknownReaction for a bad identifier
// instead of panicking, so scripted sweeps can keep going.

package model

import (
	"fmt"
	"math"
	"sort"
)

// Reaction returns a pointer to the first reaction with the given ID.
// The pointer aliases the model; edits through it are edits to m.
// Complexity: O(R).
func (m *Model) Reaction(id string) (*Reaction, error) {
	for i := range m.Reactions {
		if m.Reactions[i].ID == id {
			return &m.Reactions[i], nil
		}
	}

	return nil, fmt.Errorf("model: reaction %q: %w", id, ErrUnknownReaction)
}

// MetaboliteIDs returns the IDs of the metabolites r touches, sorted, so that
// callers never depend on map iteration order.
func (r *Reaction) MetaboliteIDs() []string {
	ids := make([]string, 0, len(r.Metabolites))
	for id := range r.Metabolites {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

// HasReaction reports whether a reaction with the given ID exists.
func (m *Model) HasReaction(id string) bool {
	_, err := m.Reaction(id)
	return err == nil
}

// ReactionIDs returns reaction IDs in model (column) order.
func (m *Model) ReactionIDs() []string {
	ids := make([]string, len(m.Reactions))
	for i := range m.Reactions {
		ids[i] = m.Reactions[i].ID
	}

	return ids
}

// MetaboliteIndex maps metabolite ID to its row position in model order.
// Errors: ErrDuplicateID when two metabolites share an ID.
// Complexity: O(M).
func (m *Model) MetaboliteIndex() (map[string]int, error) {
	idx := make(map[string]int, len(m.Metabolites))
	for i := range m.Metabolites {
		id := m.Metabolites[i].ID
		if _, dup := idx[id]; dup {
			return nil, fmt.Errorf("model: metabolite %q: %w", id, ErrDuplicateID)
		}
		idx[id] = i
	}

	return idx, nil
}

// SetCarbonSource permits uptake of up to uptake units through reaction id by
// setting its lower bound to -uptake. The upper bound is left untouched.
func (m *Model) SetCarbonSource(id string, uptake float64) error {
	r, err := m.Reaction(id)
	if err != nil {
		return fmt.Errorf("SetCarbonSource(%q): %w", id, ErrUnknownReaction)
	}
	r.LowerBound = -uptake

	return nil
}

// KnockOut disables reaction id by fixing both bounds at zero.
// Knocking out an already knocked-out reaction is a no-op.
func (m *Model) KnockOut(id string) error {
	r, err := m.Reaction(id)
	if err != nil {
		return fmt.Errorf("KnockOut(%q): %w", id, ErrUnknownReaction)
	}
	r.LowerBound = 0.0
	r.UpperBound = 0.0

	return nil
}

// SetBounds replaces both flux bounds of reaction id.
// Errors: ErrUnknownReaction, ErrInvalidBounds (lower > upper or NaN).
func (m *Model) SetBounds(id string, lower, upper float64) error {
	if math.IsNaN(lower) || math.IsNaN(upper) || lower > upper {
		return fmt.Errorf("SetBounds(%q, %g, %g): %w", id, lower, upper, ErrInvalidBounds)
	}
	r, err := m.Reaction(id)
	if err != nil {
		return fmt.Errorf("SetBounds(%q): %w", id, ErrUnknownReaction)
	}
	r.LowerBound, r.UpperBound = lower, upper

	return nil
}

// IsKnockedOut reports whether reaction id has both bounds at zero.
func (m *Model) IsKnockedOut(id string) (bool, error) {
	r, err := m.Reaction(id)
	if err != nil {
		return false, err
	}

	return r.LowerBound == 0 && r.UpperBound == 0, nil
}

// SetCarbonSource is the chaining form of (*Model).SetCarbonSource: it mutates
// m in place and returns it.
func SetCarbonSource(m *Model, id string, uptake float64) (*Model, error) {
	if err := m.SetCarbonSource(id, uptake); err != nil {
		return nil, err
	}

	return m, nil
}

// KnockOutReaction is the chaining form of (*Model).KnockOut: it mutates m in
// place and returns it.
func KnockOutReaction(m *Model, id string) (*Model, error) {
	if err := m.KnockOut(id); err != nil {
		return nil, err
	}

	return m, nil
}

// Validate checks the structural invariants the LP compiler relies on:
// unique metabolite and reaction IDs, non-empty IDs, lower <= upper without
// NaN, finite stoichiometry, and no dangling metabolite references.
// It stops at the first violation.
func (m *Model) Validate() error {
	idx, err := m.MetaboliteIndex()
	if err != nil {
		return err
	}
	for i := range m.Metabolites {
		if m.Metabolites[i].ID == "" {
			return fmt.Errorf("model: metabolite #%d has empty id: %w", i, ErrInvalidModel)
		}
	}

	seen := make(map[string]struct{}, len(m.Reactions))
	for i := range m.Reactions {
		r := &m.Reactions[i]
		if r.ID == "" {
			return fmt.Errorf("model: reaction #%d has empty id: %w", i, ErrInvalidModel)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("model: reaction %q: %w", r.ID, ErrDuplicateID)
		}
		seen[r.ID] = struct{}{}

		if math.IsNaN(r.LowerBound) || math.IsNaN(r.UpperBound) || r.LowerBound > r.UpperBound {
			return fmt.Errorf("model: reaction %q bounds [%g, %g]: %w", r.ID, r.LowerBound, r.UpperBound, ErrInvalidBounds)
		}
		if math.IsNaN(r.ObjectiveCoefficient) || math.IsInf(r.ObjectiveCoefficient, 0) {
			return fmt.Errorf("model: reaction %q objective %g: %w", r.ID, r.ObjectiveCoefficient, ErrInvalidModel)
		}
		for _, met := range r.MetaboliteIDs() {
			coef := r.Metabolites[met]
			if _, ok := idx[met]; !ok {
				return fmt.Errorf("model: reaction %q references %q: %w", r.ID, met, ErrUnknownMetabolite)
			}
			if math.IsNaN(coef) || math.IsInf(coef, 0) {
				return fmt.Errorf("model: reaction %q coefficient of %q is %g: %w", r.ID, met, coef, ErrInvalidModel)
			}
		}
	}

	return nil
}
