// SPDX-License-Identifier: MIT

// File: clone.go
// Role: deep copies of a Model.
// Identity:
//   - The clone shares no slices or maps with the source; editing bounds or
//     stoichiometry on one never shows through on the other.

package model

// Clone returns a deep copy of m: metabolites, reactions and every reaction's
// stoichiometry map. A nil receiver yields nil.
// Complexity: O(M + R + nnz).
func (m *Model) Clone() *Model {
	if m == nil {
		return nil
	}
	out := &Model{
		ID:          m.ID,
		Version:     m.Version,
		Metabolites: make([]Metabolite, len(m.Metabolites)),
		Reactions:   make([]Reaction, len(m.Reactions)),
	}
	copy(out.Metabolites, m.Metabolites) // Metabolite holds only values

	for i := range m.Reactions {
		out.Reactions[i] = m.Reactions[i] // copies scalar fields
		if m.Reactions[i].Metabolites != nil {
			mets := make(map[string]float64, len(m.Reactions[i].Metabolites))
			for id, coef := range m.Reactions[i].Metabolites {
				mets[id] = coef
			}
			out.Reactions[i].Metabolites = mets
		}
	}

	return out
}
