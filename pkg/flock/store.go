package flock

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/lao-tseu-is-alive/go-squirrel-flock/pkg/geometry"
)

// Agent is one squirrel. Pos is only changed by the integrator, Vel by the
// rules, the regulator and edge reflection.
type Agent struct {
	ID       uint32
	Pos      geometry.Vector2D
	Vel      geometry.Vector2D
	Rotation float64 // radians, counter-clockwise from Up
}

// Speed returns the magnitude of the agent velocity.
func (a Agent) Speed() float64 {
	return a.Vel.Len()
}

// SpawnParams controls the initial population.
type SpawnParams struct {
	Count    int
	MinSpeed float64
	MaxSpeed float64
}

// Validate checks that every spawned agent gets a non-zero heading.
func (p SpawnParams) Validate() error {
	switch {
	case p.Count < 0:
		return fmt.Errorf("%w: negative count %d", ErrInvalidSpawn, p.Count)
	case !(p.MinSpeed > 0):
		return fmt.Errorf("%w: min speed %v must be > 0", ErrInvalidSpawn, p.MinSpeed)
	case p.MaxSpeed < p.MinSpeed || math.IsInf(p.MaxSpeed, 0):
		return fmt.Errorf("%w: max speed %v must be finite and >= min speed %v", ErrInvalidSpawn, p.MaxSpeed, p.MinSpeed)
	}
	return nil
}

// Store is the live collection of agents. Its size is fixed once populated
// and the order of agents never changes during a run.
type Store struct {
	agents []Agent
}

// NewStore returns a store holding a copy of the given agents.
func NewStore(agents ...Agent) *Store {
	return &Store{agents: slices.Clone(agents)}
}

// Len returns the number of agents.
func (s *Store) Len() int {
	return len(s.agents)
}

// At returns the agent at index i.
func (s *Store) At(i int) Agent {
	return s.agents[i]
}

// Agents returns a copy of every agent, safe to hand to another goroutine.
func (s *Store) Agents() []Agent {
	return slices.Clone(s.agents)
}

// snapshot is the read-only view a rule scans while it computes its deltas.
func (s *Store) snapshot() []Agent {
	return slices.Clone(s.agents)
}

// apply adds one velocity delta per agent, in store order.
func (s *Store) apply(deltas []geometry.Vector2D) {
	for i := range s.agents {
		s.agents[i].Vel = s.agents[i].Vel.Add(deltas[i])
	}
}

func (s *Store) clone() *Store {
	return &Store{agents: slices.Clone(s.agents)}
}

// Populate spawns p.Count agents uniformly inside b, each with a uniform
// heading and a speed drawn from [p.MinSpeed, p.MaxSpeed]. Agent ids start at 1.
func (s *Store) Populate(b Bounds, p SpawnParams, src rand.Source) error {
	if len(s.agents) > 0 {
		return ErrAlreadyPopulated
	}
	if err := p.Validate(); err != nil {
		return err
	}

	var (
		xs      = distuv.Uniform{Min: -b.HalfWidth, Max: b.HalfWidth, Src: src}
		ys      = distuv.Uniform{Min: -b.HalfHeight, Max: b.HalfHeight, Src: src}
		speeds  = distuv.Uniform{Min: p.MinSpeed, Max: p.MaxSpeed, Src: src}
		heading = distuv.Uniform{Min: 0, Max: 2 * math.Pi, Src: src}
	)

	s.agents = make([]Agent, 0, p.Count)
	for i := 0; i < p.Count; i++ {
		vel := geometry.NewVectorPolar(speeds.Rand(), heading.Rand())
		if vel.IsZero() {
			return fmt.Errorf("%w: agent %d spawned without heading", ErrZeroVelocity, i+1)
		}
		s.agents = append(s.agents, Agent{
			ID:  uint32(i + 1),
			Pos: geometry.Vector2D{X: xs.Rand(), Y: ys.Rand()},
			Vel: vel,
		})
	}
	return nil
}
