// Package testutil ships a small COBRA model shared by package tests.
//
// The toy network takes glucose up through EX_glc_e and GLCpts.
// Two routes lead from glc_c to pyr_c:
//   - GAPD: unbounded, but needs NAD regenerated by NADH16.
//   - EDA: capped at 5.
//
// BIOMASS drains pyr_c and is the objective. An oxygen branch
// (EX_o2_e, O2t, DM_o2_c) is not coupled to the objective at all.
// nad_c and nadh_c form a conserved pair, so the stoichiometric matrix is
// rank-deficient by one, as real models are.
//
// With 20 units of glucose uptake:
//   - baseline growth is 20
//   - without GAPD or NADH16, growth is 5
//   - without GLCpts, or without both GAPD and EDA, growth is 0
package testutil

import (
	"bytes"
	_ "embed"
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/knockout/model"
)

// ToyJSON is the raw COBRA JSON of the toy model.
//
//go:embed testdata/toy.json
var ToyJSON []byte

const (
	// ToyCarbonSource is the glucose exchange reaction of the toy model.
	ToyCarbonSource = "EX_glc_e"
	// ToyUptake is the uptake rate the tests apply.
	ToyUptake = 20.0
	// ToyMaxGrowth is the optimal objective at ToyUptake with no knockouts.
	ToyMaxGrowth = 20.0
	// ToyBypassGrowth is the optimum when only the EDA bypass (cap 5) remains.
	ToyBypassGrowth = 5.0
)

// Toy decodes a fresh copy of the toy model, failing t on error.
func Toy(t testing.TB) *model.Model {
	t.Helper()
	m, err := model.Decode(bytes.NewReader(ToyJSON))
	if err != nil {
		t.Fatalf("decode toy model: %v", err)
	}

	return m
}

// ToyFile writes the toy model into a temp dir and returns its path.
func ToyFile(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "toy.json")
	if err := os.WriteFile(path, ToyJSON, 0o644); err != nil {
		t.Fatalf("write toy model: %v", err)
	}

	return path
}
