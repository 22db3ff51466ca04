package flock

import (
	"fmt"
	"math"

	"github.com/lao-tseu-is-alive/go-squirrel-flock/pkg/geometry"
)

// Reflect flips the velocity component of an agent leaving the bounds.
// The y axis is only checked when x did not reflect, so an agent leaving
// through a corner bounces on x first and on y a later tick.
func Reflect(a *Agent, b Bounds) {
	switch {
	case a.Pos.X > b.HalfWidth && a.Vel.X > 0, a.Pos.X < -b.HalfWidth && a.Vel.X < 0:
		a.Vel.X = -a.Vel.X
	case a.Pos.Y > b.HalfHeight && a.Vel.Y > 0, a.Pos.Y < -b.HalfHeight && a.Vel.Y < 0:
		a.Vel.Y = -a.Vel.Y
	}
}

// Integrate reflects every agent at the bounds, then advances it by Vel*dt.
func Integrate(s *Store, b Bounds, dt float64) {
	for i := range s.agents {
		a := &s.agents[i]
		Reflect(a, b)
		a.Pos = a.Pos.Add(a.Vel.Mul(dt))
	}
}

// Rotation returns the facing angle for a velocity: the angle between vel and
// geometry.Up, negated when vel points right so that the result turns
// counter-clockwise from Up.
func Rotation(vel geometry.Vector2D) (float64, error) {
	angle, err := vel.AngleBetween(geometry.Up)
	if err != nil {
		return 0, ErrZeroVelocity
	}
	return -math.Copysign(1, vel.X) * angle, nil
}

// Orient updates the Rotation of every agent from its velocity.
// Nothing is written when one of the agents has lost its heading.
func Orient(s *Store) error {
	rotations := make([]float64, len(s.agents))
	for i, a := range s.agents {
		r, err := Rotation(a.Vel)
		if err != nil {
			return fmt.Errorf("agent %d: %w", a.ID, err)
		}
		rotations[i] = r
	}
	for i := range s.agents {
		s.agents[i].Rotation = rotations[i]
	}
	return nil
}
