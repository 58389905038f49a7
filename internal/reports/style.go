package reports

import (
	"image/color"
	"math"

	"gonum.org/v1/plot/vg"
)

// Style holds every visual setting of a chart. It is passed to Render
// explicitly; there is no package-level style.
type Style struct {
	Width  vg.Length
	Height vg.Length

	Palette    []color.Color
	Background color.Color
	GridColor  color.Color
	BarOutline color.Color

	TitleSize vg.Length
	LabelSize vg.Length
	TickSize  vg.Length
	ValueSize vg.Length

	// TickRotation applies to category labels of vertical charts, in radians.
	TickRotation float64
	// BarFill is the share of each category slot covered by its bar.
	BarFill float64
}

// pastel is a fixed ten-colour pastel palette.
var pastel = []color.Color{
	color.RGBA{R: 0xa1, G: 0xc9, B: 0xf4, A: 0xff},
	color.RGBA{R: 0xff, G: 0xb4, B: 0x82, A: 0xff},
	color.RGBA{R: 0x8d, G: 0xe5, B: 0xa1, A: 0xff},
	color.RGBA{R: 0xff, G: 0x9f, B: 0x9b, A: 0xff},
	color.RGBA{R: 0xd0, G: 0xbb, B: 0xff, A: 0xff},
	color.RGBA{R: 0xde, G: 0xbb, B: 0x9b, A: 0xff},
	color.RGBA{R: 0xfa, G: 0xb0, B: 0xe4, A: 0xff},
	color.RGBA{R: 0xcf, G: 0xcf, B: 0xcf, A: 0xff},
	color.RGBA{R: 0xff, G: 0xfe, B: 0xa3, A: 0xff},
	color.RGBA{R: 0xb9, G: 0xf2, B: 0xf0, A: 0xff},
}

// DefaultStyle is a white background with a light grid and pastel bars.
func DefaultStyle() Style {
	palette := make([]color.Color, len(pastel))
	copy(palette, pastel)
	return Style{
		Width:        10 * vg.Inch,
		Height:       6 * vg.Inch,
		Palette:      palette,
		Background:   color.White,
		GridColor:    color.Gray{Y: 0xdd},
		BarOutline:   color.Gray{Y: 0x66},
		TitleSize:    vg.Points(14),
		LabelSize:    vg.Points(11),
		TickSize:     vg.Points(9),
		ValueSize:    vg.Points(9),
		TickRotation: math.Pi / 4,
		BarFill:      0.8,
	}
}

// ColorAt cycles through the palette.
func (s Style) ColorAt(i int) color.Color {
	if len(s.Palette) == 0 {
		return color.Gray{Y: 0x99}
	}
	return s.Palette[i%len(s.Palette)]
}
