// SPDX-License-Identifier: MIT

// Package knockout: functional configuration of the optimize cycle.
// Defaults reproduce the classic E. coli core demo: 20 units of glucose
// uptake, a wild-type reference growth of 1.791 and a kill threshold of 1e-3.
package knockout

import (
	"math"
	"runtime"

	"go.uber.org/zap"

	"github.com/katalvlaran/knockout/lp"
)

const (
	// DefaultCarbonSource is the exchange reaction opened at session start.
	DefaultCarbonSource = "EX_glc_e"

	// DefaultUptake is the carbon source uptake rate.
	DefaultUptake = 20.0

	// DefaultReferenceGrowth is the unconstrained wild-type growth that maps to 100%.
	DefaultReferenceGrowth = 1.791

	// DefaultKillThreshold is the objective below which the organism is dead.
	DefaultKillThreshold = 1e-3

	// DefaultOrganism is named in the "killed" status line.
	DefaultOrganism = "E. coli"
)

const (
	panicUptakeInvalid    = "knockout: WithCarbonSource: uptake must be finite"
	panicReferenceInvalid = "knockout: WithReferenceGrowth: growth must be finite, positive"
	panicThresholdInvalid = "knockout: WithKillThreshold: threshold must be finite, non-negative"
	panicWorkersInvalid   = "knockout: WithWorkers: n must be >= 1"
)

// Option mutates internal options.
type Option func(*Options)

// Options is the effective configuration of sessions, sweeps and Evaluate.
type Options struct {
	carbonSource    string
	uptake          float64
	referenceGrowth float64
	killThreshold   float64
	organism        string
	solver          lp.Solver
	log             *zap.Logger
	workers         int
}

// WithCarbonSource selects the reaction opened at start and its uptake rate.
// An empty id leaves every bound as loaded. Panics on a non-finite rate.
func WithCarbonSource(id string, uptake float64) Option {
	if math.IsNaN(uptake) || math.IsInf(uptake, 0) {
		panic(panicUptakeInvalid)
	}

	return func(o *Options) {
		o.carbonSource = id
		o.uptake = uptake
	}
}

// WithReferenceGrowth sets the growth reported as 100%.
func WithReferenceGrowth(g float64) Option {
	if !(g > 0) || math.IsInf(g, 0) {
		panic(panicReferenceInvalid)
	}

	return func(o *Options) { o.referenceGrowth = g }
}

// WithKillThreshold sets the objective below which the organism counts as killed.
func WithKillThreshold(t float64) Option {
	if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		panic(panicThresholdInvalid)
	}

	return func(o *Options) { o.killThreshold = t }
}

// WithOrganism names the organism in the status line.
func WithOrganism(name string) Option {
	return func(o *Options) {
		if name != "" {
			o.organism = name
		}
	}
}

// WithSolver replaces the default presolving simplex. Nil is ignored.
func WithSolver(s lp.Solver) Option {
	return func(o *Options) {
		if s != nil {
			o.solver = s
		}
	}
}

// WithLogger attaches a logger. Nil is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithWorkers bounds the parallelism of Sweep.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = n }
}

// CarbonSource reports the carbon source reaction and uptake rate.
func (o Options) CarbonSource() (string, float64) { return o.carbonSource, o.uptake }

// Workers reports the sweep parallelism.
func (o Options) Workers() int { return o.workers }

// NewOptions resolves opts on top of the defaults.
func NewOptions(opts ...Option) Options {
	return gatherOptions(opts...)
}

func gatherOptions(user ...Option) Options {
	o := Options{
		carbonSource:    DefaultCarbonSource,
		uptake:          DefaultUptake,
		referenceGrowth: DefaultReferenceGrowth,
		killThreshold:   DefaultKillThreshold,
		organism:        DefaultOrganism,
		workers:         runtime.GOMAXPROCS(0),
	}
	for _, set := range user {
		set(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	if o.solver == nil {
		o.solver = lp.NewSimplex(lp.WithLogger(o.log))
	}

	return o
}
