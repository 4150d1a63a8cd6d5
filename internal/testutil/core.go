package testutil

import (
	"bytes"
	_ "embed"
	"testing"

	"github.com/katalvlaran/knockout/model"
)

// CoreJSON is the raw COBRA JSON of the central-carbon fixture: the E. coli
// core network with 72 metabolites and 95 reactions. Every flux is bounded
// by ±1000 or tighter, ATPM carries a non-growth maintenance floor of 8.39 and
// the matrix has several conserved pools (NAD/NADH, NADP/NADPH, Q8/Q8H2,
// the CoA and adenylate moieties), so it is rank-deficient.
//
//go:embed testdata/core.json
var CoreJSON []byte

const (
	// CoreCarbonSource is the glucose exchange of the core fixture.
	CoreCarbonSource = "EX_glc__D_e"
	// CoreObjective is the biomass reaction of the core fixture.
	CoreObjective = "BIOMASS_Ecoli_core_w_GAM"
	// CoreUptake is the glucose uptake the tests apply.
	CoreUptake = 10.0
	// CoreMaxGrowth is the aerobic optimum at CoreUptake.
	CoreMaxGrowth = 0.873921506968431
	// CoreAnaerobicGrowth is the optimum at CoreUptake with oxygen uptake closed.
	CoreAnaerobicGrowth = 0.21166294973530994
)

// CoreKnockoutGrowth lists single-knockout optima at CoreUptake.
var CoreKnockoutGrowth = map[string]float64{
	"TPI":    0.7040369478590008,
	"PGI":    0.8631595522084067,
	"PDH":    0.7966959254309357,
	"ATPS4r": 0.3742298749331032,
	"CYTBD":  0.21166294973530816,
	"ENO":    0,
	"GAPD":   0,
	"CS":     0,
}

// CoreLethal counts the feasible single knockouts at CoreUptake whose optimum
// falls below the default kill threshold.
const CoreLethal = 16

// CoreInfeasible lists knockouts that leave ATPM's floor unreachable.
var CoreInfeasible = []string{"EX_glc__D_e", "GLCpts"}

// Core decodes a fresh copy of the core fixture, failing t on error.
func Core(t testing.TB) *model.Model {
	t.Helper()
	m, err := model.Decode(bytes.NewReader(CoreJSON))
	if err != nil {
		t.Fatalf("decode core model: %v", err)
	}

	return m
}
