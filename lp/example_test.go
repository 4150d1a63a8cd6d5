package lp_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/knockout/lp"
	"github.com/katalvlaran/knockout/model"
)

// ExampleSolve compiles a two-reaction pipe and maximizes its output.
func ExampleSolve() {
	m := &model.Model{
		Metabolites: []model.Metabolite{{ID: "a"}},
		Reactions: []model.Reaction{
			{ID: "IN", UpperBound: 7, Metabolites: map[string]float64{"a": 1}},
			{ID: "OUT", UpperBound: 1000, ObjectiveCoefficient: 1, Metabolites: map[string]float64{"a": -1}},
		},
	}
	p, err := lp.Compile(m)
	if err != nil {
		fmt.Println(err)
		return
	}
	res, err := lp.Solve(context.Background(), p)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%s %.1f (OUT=%.1f)\n", res.Status, res.Objective, res.Fluxes["OUT"])
	// Output: optimal 7.0 (OUT=7.0)
}
