package flock

import "github.com/lao-tseu-is-alive/go-squirrel-flock/pkg/geometry"

// minNeighbors is the neighborhood size (self included) below which
// centering and alignment do nothing.
const minNeighbors = 2

// Every rule below follows the same two passes: scan a snapshot taken before
// the rule starts, then add all the deltas at once. No agent ever sees a
// velocity written by the same rule.

// Centering pulls each agent toward the mean position of the agents within
// flockingRange of it, itself included.
func Centering(s *Store, flockingRange, factor float64) {
	snap := s.snapshot()
	deltas := make([]geometry.Vector2D, len(snap))
	for i, me := range snap {
		sum, n := neighborSum(snap, me, flockingRange, func(a Agent) geometry.Vector2D { return a.Pos })
		if n < minNeighbors {
			continue
		}
		deltas[i] = mean(sum, n).Sub(me.Pos).Mul(factor)
	}
	s.apply(deltas)
}

// Alignment steers each agent toward the mean velocity of the agents within
// flockingRange of it, itself included.
func Alignment(s *Store, flockingRange, factor float64) {
	snap := s.snapshot()
	deltas := make([]geometry.Vector2D, len(snap))
	for i, me := range snap {
		sum, n := neighborSum(snap, me, flockingRange, func(a Agent) geometry.Vector2D { return a.Vel })
		if n < minNeighbors {
			continue
		}
		deltas[i] = mean(sum, n).Sub(me.Vel).Mul(factor)
	}
	s.apply(deltas)
}

// Separation pushes each agent away from every other agent closer than
// separationDistance. A single close neighbor is enough.
func Separation(s *Store, separationDistance, factor float64) {
	snap := s.snapshot()
	deltas := make([]geometry.Vector2D, len(snap))
	for i, me := range snap {
		var away geometry.Vector2D
		for _, other := range snap {
			if other.ID == me.ID {
				continue
			}
			if me.Pos.DistanceTo(other.Pos) < separationDistance {
				away = away.Add(me.Pos.Sub(other.Pos))
			}
		}
		deltas[i] = away.Mul(factor)
	}
	s.apply(deltas)
}

// neighborSum adds field(a) over every agent strictly closer than radius to me.
// me itself is at distance zero and is always counted.
func neighborSum(snap []Agent, me Agent, radius float64, field func(Agent) geometry.Vector2D) (geometry.Vector2D, int) {
	var sum geometry.Vector2D
	n := 0
	for _, other := range snap {
		if me.Pos.DistanceTo(other.Pos) < radius {
			sum = sum.Add(field(other))
			n++
		}
	}
	return sum, n
}

func mean(sum geometry.Vector2D, n int) geometry.Vector2D {
	return geometry.Vector2D{X: sum.X / float64(n), Y: sum.Y / float64(n)}
}
