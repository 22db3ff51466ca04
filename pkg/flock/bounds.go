// Package flock implements the squirrel flocking simulation: the agent store,
// the neighbor rules (centering, alignment, separation), speed regulation,
// edge reflection and the fixed-timestep pipeline that runs them in order.
package flock

import (
	"math"

	"github.com/lao-tseu-is-alive/go-squirrel-flock/pkg/geometry"
)

// Bounds is the half extent of the viewport. The simulation area is
// [-HalfWidth, HalfWidth] x [-HalfHeight, HalfHeight], centered on the origin.
type Bounds struct {
	HalfWidth  float64
	HalfHeight float64
}

// Viewport is implemented by the host window. It is queried once per tick.
type Viewport interface {
	Size() (width, height float64)
}

// FixedViewport is a Viewport with a constant size, used by headless runs.
type FixedViewport struct {
	Width, Height float64
}

// Size implements Viewport.
func (v FixedViewport) Size() (float64, float64) { return v.Width, v.Height }

// UpdateBounds derives the bounds from a viewport size.
// A missing or degenerate size yields zero bounds, which is not an error:
// every agent is then out of bounds on that axis.
func UpdateBounds(width, height float64) Bounds {
	return Bounds{
		HalfWidth:  halfExtent(width),
		HalfHeight: halfExtent(height),
	}
}

func halfExtent(size float64) float64 {
	if !(size > 0) || math.IsInf(size, 0) {
		return 0
	}
	return size / 2
}

// Contains reports whether p lies inside the closed bounds rectangle.
func (b Bounds) Contains(p geometry.Vector2D) bool {
	return p.X >= -b.HalfWidth && p.X <= b.HalfWidth &&
		p.Y >= -b.HalfHeight && p.Y <= b.HalfHeight
}

// Tracker holds the bounds of the current tick. It is the only writer of Bounds.
type Tracker struct {
	bounds Bounds
}

// Refresh reads the viewport and stores the resulting bounds.
// A nil viewport is treated as a zero-size one.
func (t *Tracker) Refresh(vp Viewport) Bounds {
	if vp == nil {
		t.bounds = Bounds{}
		return t.bounds
	}
	t.bounds = UpdateBounds(vp.Size())
	return t.bounds
}

// Bounds returns the bounds computed by the last Refresh.
func (t *Tracker) Bounds() Bounds {
	return t.bounds
}
