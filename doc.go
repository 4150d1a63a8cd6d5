// Package knockout is an in-memory playground for flux-balance knockouts:
// load a constraint-based metabolic model, knock reactions out, and watch the
// optimal growth rate change.
//
// What is in the box?
//
//	A small, deterministic pipeline from COBRA JSON to a solved LP:
//		• model/   : metabolites, reactions, bounds; knockout, carbon source, clone; COBRA JSON codec
//		• matrix/  : sparse stoichiometric storage (gonum mat.Matrix view) + row-basis kernel
//		• lp/      : model → LP compiler, presolve, bounded-variable simplex, typed solver errors
//		• knockout/: optimize cycle, interactive Session, Renderer contract, parallel Sweep
//		• cmd/knockout: solve / sweep / play CLI over the same session
//
// The optimize cycle:
//
//	model ──Compile──▶ Problem ──presolve──▶ reduced LP ──simplex──▶ Result
//	  ▲                                                                 │
//	  └──── Click (knock out) / Reset ◀── Session ◀── Payload ◀─────────┘
//
// A knockout fixes a reaction's flux at 0. If the optimum then drops below the
// kill threshold the organism is dead; otherwise growth is reported against a
// wild-type reference.
//
//	go install github.com/katalvlaran/knockout/cmd/knockout@latest
package knockout
