package flock

import (
	"fmt"
	"math"

	"go.uber.org/multierr"
)

// Default tuning. Factors are small so velocities change over many ticks.
const (
	DefaultFlockingRange      = 100.0
	DefaultSeparationDistance = 30.0
	DefaultCenteringFactor    = 0.005
	DefaultAlignmentFactor    = 0.05
	DefaultSeparationFactor   = 0.05
	DefaultLowSpeed           = 500.0
	DefaultHighSpeed          = 800.0
	DefaultRegulationFactor   = 0.01
	DefaultTickRate           = 60
)

// RuleSet toggles the optional pipeline stages. Bounds refresh and
// integration always run.
type RuleSet struct {
	Centering  bool
	Alignment  bool
	Separation bool
	Regulation bool
	Orient     bool
}

// AllRules enables every stage.
func AllRules() RuleSet {
	return RuleSet{Centering: true, Alignment: true, Separation: true, Regulation: true, Orient: true}
}

// Params holds every simulation constant used by a tick.
type Params struct {
	FlockingRange      float64
	SeparationDistance float64
	CenteringFactor    float64
	AlignmentFactor    float64
	SeparationFactor   float64
	Regulation         RegulationParams
	Timestep           float64 // simulated seconds per tick
	Rules              RuleSet
}

// DefaultParams returns the reference tuning at 60 ticks per second.
func DefaultParams() Params {
	return Params{
		FlockingRange:      DefaultFlockingRange,
		SeparationDistance: DefaultSeparationDistance,
		CenteringFactor:    DefaultCenteringFactor,
		AlignmentFactor:    DefaultAlignmentFactor,
		SeparationFactor:   DefaultSeparationFactor,
		Regulation: RegulationParams{
			Low:    DefaultLowSpeed,
			High:   DefaultHighSpeed,
			Factor: DefaultRegulationFactor,
		},
		Timestep: 1.0 / DefaultTickRate,
		Rules:    AllRules(),
	}
}

// Validate reports every unusable value at once.
func (p Params) Validate() error {
	var err error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			err = multierr.Append(err, fmt.Errorf("%w: "+format, append([]any{ErrInvalidParams}, args...)...))
		}
	}
	check(nonNegative(p.FlockingRange), "flocking range %v", p.FlockingRange)
	check(nonNegative(p.SeparationDistance), "separation distance %v", p.SeparationDistance)
	check(finite(p.CenteringFactor), "centering factor %v", p.CenteringFactor)
	check(finite(p.AlignmentFactor), "alignment factor %v", p.AlignmentFactor)
	check(finite(p.SeparationFactor), "separation factor %v", p.SeparationFactor)
	check(nonNegative(p.Regulation.Low), "low speed %v", p.Regulation.Low)
	check(nonNegative(p.Regulation.High) && p.Regulation.High >= p.Regulation.Low,
		"high speed %v must be >= low speed %v", p.Regulation.High, p.Regulation.Low)
	check(finite(p.Regulation.Factor), "regulation factor %v", p.Regulation.Factor)
	check(p.Timestep > 0 && finite(p.Timestep), "timestep %v", p.Timestep)
	return err
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func nonNegative(v float64) bool {
	return finite(v) && v >= 0
}
