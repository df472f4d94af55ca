package pane

import (
	"math"

	"github.com/1broseidon/raylock/internal/render"
)

const (
	DefaultGap       = 6.0
	DefaultTitleSize = 25.0
	DefaultTextSize  = 16.0

	// BorderWidth and InnerWidth are the stroke widths of the pane outline
	// and of the widget rectangle.
	BorderWidth = 0.5
	InnerWidth  = 0.25
)

// DefaultCornerCut is the length of a unit corner template once scaled.
var DefaultCornerCut = 50 * math.Sqrt2

// Theme carries everything the layout and render passes need besides the
// tree itself. It is passed by value and never mutated.
type Theme struct {
	Gap       float64
	CornerCut float64
	TitleSize float64
	TextSize  float64
	Palette   render.Palette
}

// DefaultTheme returns the stock look.
func DefaultTheme() Theme {
	return Theme{
		Gap:       DefaultGap,
		CornerCut: DefaultCornerCut,
		TitleSize: DefaultTitleSize,
		TextSize:  DefaultTextSize,
		Palette:   render.DefaultPalette(),
	}
}
