package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	titleHeight   = 30.0
	headerHeight  = 25.0
	labelHeight   = 15.0
	widgetPadding = 10.0
	wheelStep     = 20.0
)

var (
	panelBackground = color.RGBA{R: 40, G: 40, B: 45, A: 230}
	panelBorder     = color.RGBA{R: 100, G: 100, B: 110, A: 255}
	headerBG        = color.RGBA{R: 60, G: 60, B: 70, A: 255}
)

// Widget is anything the panel can stack.
type Widget interface {
	Update()
	Draw(screen *ebiten.Image)
}

// row is one line of the panel: a section header or a labeled widget.
type row struct {
	header string
	label  string
	widget Widget
	height float64
	place  func(y float64)
	y      float64
}

// UIPanel stacks sliders, checkboxes and buttons under section headers in a
// scrollable box. Widget positions are recomputed from the scroll offset
// before each Update and Draw, so clicks always land on what is drawn.
type UIPanel struct {
	Title         string
	X, Y          float64
	Width, Height float64
	ScrollOffset  float64

	rows []row
}

func NewUIPanel(x, y, width, height float64) *UIPanel {
	return &UIPanel{Title: "Configuration", X: x, Y: y, Width: width, Height: height}
}

// AddSection starts a new titled group of widgets.
func (p *UIPanel) AddSection(title string) {
	p.add(row{header: title, height: headerHeight})
}

// EndSection closes the current group. Sections are delimited by their
// headers, so it only exists to keep call sites readable.
func (p *UIPanel) EndSection() {}

func (p *UIPanel) AddSlider(label string, min, max, value float64) *Slider {
	s := NewSlider(p.X+widgetPadding, 0, p.Width-2*widgetPadding, label, min, max, value)
	p.add(row{label: label, widget: s, height: labelHeight + s.H + widgetPadding, place: func(y float64) { s.Y = y }})
	return s
}

func (p *UIPanel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(p.X+widgetPadding, 0, label, value)
	p.add(row{label: label, widget: c, height: labelHeight + c.Size + 5, place: func(y float64) { c.Y = y }})
	return c
}

// AddButton adds a full-width push button. Its label is drawn on the button.
func (p *UIPanel) AddButton(label string, onClick func()) *Button {
	b := NewButton(p.X+widgetPadding, 0, p.Width-2*widgetPadding, 20, label, onClick)
	p.add(row{widget: b, height: b.Height + widgetPadding, place: func(y float64) { b.Y = y }})
	return b
}

func (p *UIPanel) add(r row) {
	p.rows = append(p.rows, r)
	p.layout()
}

// layout assigns each row its screen y for the current scroll offset.
func (p *UIPanel) layout() {
	y := p.Y + titleHeight - p.ScrollOffset
	for i := range p.rows {
		r := &p.rows[i]
		r.y = y
		if r.place != nil {
			top := y
			if r.label != "" {
				top += labelHeight
			}
			r.place(top)
		}
		y += r.height
	}
}

// contentHeight is the height of everything inside the panel, title included.
func (p *UIPanel) contentHeight() float64 {
	h := titleHeight
	for _, r := range p.rows {
		h += r.height
	}
	return h
}

// Scroll moves the content by dy wheel notches, clamped to the content.
func (p *UIPanel) Scroll(dy float64) {
	maxScroll := max(p.contentHeight()-p.Height+40, 0)
	p.ScrollOffset = min(max(p.ScrollOffset-dy*wheelStep, 0), maxScroll)
	p.layout()
}

func (p *UIPanel) visible(r row) bool {
	return r.y+r.height >= p.Y+titleHeight && r.y <= p.Y+p.Height
}

func (p *UIPanel) Update() {
	if _, dy := ebiten.Wheel(); dy != 0 {
		p.Scroll(dy)
	}
	for _, r := range p.rows {
		if r.widget != nil && p.visible(r) {
			r.widget.Update()
		}
	}
}

func (p *UIPanel) Draw(screen *ebiten.Image) {
	x, y, w, h := float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height)
	vector.FillRect(screen, x, y, w, h, panelBackground, true)
	vector.StrokeRect(screen, x, y, w, h, 2, panelBorder, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+widgetPadding), int(p.Y+5))

	for _, r := range p.rows {
		if !p.visible(r) {
			continue
		}
		switch {
		case r.header != "":
			vector.FillRect(screen, x+5, float32(r.y), w-10, 20, headerBG, true)
			ebitenutil.DebugPrintAt(screen, r.header, int(p.X+widgetPadding), int(r.y+5))
		case r.widget != nil:
			if r.label != "" {
				ebitenutil.DebugPrintAt(screen, r.label, int(p.X+widgetPadding), int(r.y))
			}
			r.widget.Draw(screen)
		}
	}
}
