package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	checkboxBorder = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	checkboxFill   = color.RGBA{R: 100, G: 200, B: 100, A: 255}
)

// Checkbox toggles a boolean, once per mouse press.
type Checkbox struct {
	Label string
	Value bool
	X, Y  float64
	Size  float64
	held  bool
}

func NewCheckbox(x, y float64, label string, value bool) *Checkbox {
	return &Checkbox{Label: label, Value: value, X: x, Y: y, Size: 16}
}

// Press handles one frame of mouse input and reports whether Value flipped.
func (c *Checkbox) Press(mx, my float64, down bool) bool {
	if !down || !hit(c.X, c.Y, c.Size, c.Size, mx, my) {
		c.held = false
		return false
	}
	if c.held {
		return false
	}
	c.held = true
	c.Value = !c.Value
	return true
}

func (c *Checkbox) Update() {
	mx, my := ebiten.CursorPosition()
	c.Press(float64(mx), float64(my), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
}

func (c *Checkbox) Draw(screen *ebiten.Image) {
	vector.StrokeRect(screen, float32(c.X), float32(c.Y), float32(c.Size), float32(c.Size), 2, checkboxBorder, true)
	if c.Value {
		vector.FillRect(screen, float32(c.X+2), float32(c.Y+2), float32(c.Size-4), float32(c.Size-4), checkboxFill, true)
	}
}

// hit reports whether (mx, my) lies in the closed rectangle at (x, y).
func hit(x, y, w, h, mx, my float64) bool {
	return mx >= x && mx <= x+w && my >= y && my <= y+h
}
