// SPDX-License-Identifier: MIT

// Package model: COBRA JSON codec.
//
// The accepted document is the COBRA-style constraint-based model schema:
//
//	{
//	  "id": "e_coli_core",
//	  "metabolites": [{"id": "glc__D_e", ...}],
//	  "reactions": [{"id": "EX_glc__D_e", "lower_bound": -10, "upper_bound": 1000,
//	                 "objective_coefficient": 0, "metabolites": {"glc__D_e": -1}}]
//	}
//
// Fields outside the Model types (genes, compartments, notes, annotations)
// are ignored on decode and not written back on encode.

package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the shared struct-tag validator; validator.Validate caches
// struct metadata and is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode reads a COBRA JSON model from r and validates it.
// Errors: ErrInvalidModel (malformed JSON or schema violation) or any
// sentinel reported by Validate.
func Decode(r io.Reader) (*Model, error) {
	var m Model
	dec := json.NewDecoder(r)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("model: decode: %v: %w", err, ErrInvalidModel)
	}
	if err := validate.Struct(&m); err != nil {
		return nil, fmt.Errorf("model: %s: %w", formatValidationError(err), ErrInvalidModel)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// Load opens path and decodes it with Decode.
func Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("model: open %s: %w", path, err)
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

// Encode writes m as indented COBRA JSON.
// Infinite bounds are not representable in JSON and make Encode fail.
func (m *Model) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("model: encode: %w", err)
	}

	return nil
}

// formatValidationError flattens validator field errors into one line,
// e.g. "Reactions[2].ID: required".
func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		ns := fe.Namespace()
		ns = strings.TrimPrefix(ns, "Model.")
		parts = append(parts, fmt.Sprintf("%s: %s", ns, fe.Tag()))
	}

	return strings.Join(parts, "; ")
}
