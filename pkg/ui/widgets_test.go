package ui

import "testing"

func TestNewSliderClampsValue(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  float64
	}{
		{"inside", 0.5, 0.5},
		{"below", -3, 0},
		{"above", 7, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSlider(0, 0, 100, tt.name, 0, 1, tt.value)
			if s.Value != tt.want {
				t.Errorf("Value = %v; want %v", s.Value, tt.want)
			}
		})
	}
}

func TestSliderValueAt(t *testing.T) {
	s := NewSlider(10, 0, 200, "range", 0, 100, 50)
	tests := []struct {
		mx   float64
		want float64
	}{
		{10, 0},
		{110, 50},
		{210, 100},
		{0, 0},
		{500, 100},
	}
	for _, tt := range tests {
		if got := s.ValueAt(tt.mx); got != tt.want {
			t.Errorf("ValueAt(%v) = %v; want %v", tt.mx, got, tt.want)
		}
	}
}

func TestPanelLayout(t *testing.T) {
	p := NewUIPanel(10, 10, 200, 400)
	p.AddSection("Rules")
	s := p.AddSlider("Centering", 0, 0.05, 0.005)
	c := p.AddCheckbox("Alignment", true)
	p.EndSection()
	p.AddSection("Population")
	b := p.AddButton("Reset", nil)
	p.EndSection()

	if len(p.rows) != 5 {
		t.Fatalf("got %d rows; want 2 headers + 3 widgets", len(p.rows))
	}
	if !(p.Y < s.Y && s.Y < c.Y && c.Y < b.Y) {
		t.Errorf("widgets not stacked: slider %v, checkbox %v, button %v", s.Y, c.Y, b.Y)
	}
	if s.Value != 0.005 || !c.Value || b.Label != "Reset" {
		t.Errorf("unexpected widget state: slider %v, checkbox %v, button %q", s.Value, c.Value, b.Label)
	}
}

func TestPanelScroll(t *testing.T) {
	p := NewUIPanel(0, 0, 200, 100)
	var sliders []*Slider
	for i := 0; i < 10; i++ {
		sliders = append(sliders, p.AddSlider("s", 0, 1, 0))
	}
	first := sliders[0].Y

	p.Scroll(-1) // wheel down
	if p.ScrollOffset != wheelStep {
		t.Fatalf("ScrollOffset = %v; want %v", p.ScrollOffset, wheelStep)
	}
	if got := sliders[0].Y; got != first-wheelStep {
		t.Errorf("widgets did not follow the scroll: y = %v; want %v", got, first-wheelStep)
	}

	p.Scroll(10) // far up
	if p.ScrollOffset != 0 {
		t.Errorf("scrolled above the top: %v", p.ScrollOffset)
	}
	p.Scroll(-1000) // far down
	if want := p.contentHeight() - p.Height + 40; p.ScrollOffset != want {
		t.Errorf("ScrollOffset = %v; want clamped to %v", p.ScrollOffset, want)
	}
}

func TestCheckboxTogglesOncePerPress(t *testing.T) {
	c := NewCheckbox(0, 0, "rule", false)

	if !c.Press(5, 5, true) || !c.Value {
		t.Fatal("first press should toggle on")
	}
	if c.Press(5, 5, true) || !c.Value {
		t.Fatal("holding the button must not toggle again")
	}
	c.Press(5, 5, false)
	if !c.Press(5, 5, true) || c.Value {
		t.Fatal("second press should toggle off")
	}
	c.Press(5, 5, false)
	if c.Press(50, 50, true) || c.Value {
		t.Error("press outside the box toggled it")
	}
}
