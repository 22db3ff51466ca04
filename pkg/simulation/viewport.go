package simulation

import (
	"go.uber.org/atomic"

	"github.com/lao-tseu-is-alive/go-squirrel-flock/pkg/flock"
)

// SharedViewport carries the window size from the ebiten goroutine, which
// learns it in Layout, to the world actor, which reads it once per tick.
// Width and height are published together so a reader never mixes two sizes.
type SharedViewport struct {
	size *atomic.Pointer[flock.FixedViewport]
}

var _ flock.Viewport = (*SharedViewport)(nil)

func NewSharedViewport(width, height float64) *SharedViewport {
	return &SharedViewport{
		size: atomic.NewPointer(&flock.FixedViewport{Width: width, Height: height}),
	}
}

// Set publishes a new window size. It reports whether the size changed.
func (v *SharedViewport) Set(width, height float64) bool {
	cur := v.size.Load()
	if cur != nil && cur.Width == width && cur.Height == height {
		return false
	}
	v.size.Store(&flock.FixedViewport{Width: width, Height: height})
	return true
}

// Size implements flock.Viewport.
func (v *SharedViewport) Size() (float64, float64) {
	cur := v.size.Load()
	if cur == nil {
		return 0, 0
	}
	return cur.Width, cur.Height
}
