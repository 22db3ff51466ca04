package simulation

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// squirrelDesign faces up, the zero rotation of an agent.
// Legend: . transparent, B body, D dark fur, T tail, E eye, N nose
var squirrelDesign = []string{
	".....N.....",
	"....BBB....",
	"...EBBBE...",
	"...DBBBD...",
	"..DBBBBBD..",
	"..BBBBBBB..",
	"...BBBBB...",
	"...D.B.D...",
	"....TTT....",
	"...TTTTT...",
	"..TTT.TTT..",
	"..TT...TT..",
}

var squirrelPalette = map[rune]color.RGBA{
	'B': {R: 176, G: 101, B: 46, A: 255},
	'D': {R: 110, G: 60, B: 25, A: 255},
	'T': {R: 205, G: 133, B: 63, A: 255},
	'E': {R: 20, G: 20, B: 20, A: 255},
	'N': {R: 60, G: 30, B: 20, A: 255},
}

// generateSprite converts an ASCII grid into an Ebiten image
func generateSprite(design []string, palette map[rune]color.RGBA) *ebiten.Image {
	h := len(design)
	w := 0
	for _, row := range design {
		w = max(w, len(row))
	}
	img := ebiten.NewImage(w, h)

	for y, row := range design {
		for x, char := range row {
			if col, ok := palette[char]; ok {
				img.Set(x, y, col)
			}
		}
	}
	return img
}
