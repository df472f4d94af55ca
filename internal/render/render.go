package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/1broseidon/raylock/internal/geom"
	"github.com/lucasb-eyer/go-colorful"
)

// Stroke describes an outline.
type Stroke struct {
	Width float64
	Color color.Color
}

// Anchor positions text relative to its reference point. X=0 puts the point at
// the left edge of the text, X=1 at the right edge. Y=0 puts the point on the
// baseline, Y=1 at the top of the text.
type Anchor struct {
	X float64
	Y float64
}

var (
	AnchorCenter     = Anchor{X: 0.5, Y: 0.5}
	AnchorLeftTop    = Anchor{X: 0, Y: 1}
	AnchorLeftCenter = Anchor{X: 0, Y: 0.5}
	AnchorRightTop   = Anchor{X: 1, Y: 1}
)

// TextStyle controls how a string is drawn. Angle is in radians, applied
// around the reference point.
type TextStyle struct {
	Size   float64
	Color  color.Color
	Anchor Anchor
	Angle  float64
}

// Painter is the drawing surface handed to the pane tree and widgets.
// Implementations clip nothing; callers keep to the rectangle they were given.
type Painter interface {
	FillPolygon(points []geom.Point, fill color.Color)
	StrokePolygon(points []geom.Point, stroke Stroke)
	FillRect(r geom.Rect, fill color.Color)
	StrokeRect(r geom.Rect, stroke Stroke)
	Line(a, b geom.Point, stroke Stroke)
	Polyline(points []geom.Point, stroke Stroke)
	FillCircle(center geom.Point, radius float64, fill color.Color)
	StrokeCircle(center geom.Point, radius float64, stroke Stroke)
	Text(s string, at geom.Point, style TextStyle)
	MeasureText(s string, size float64) (width, height float64)
}

// Palette is the set of colors used for a frame.
type Palette struct {
	Background color.Color
	Dots       color.Color
	PaneFill   color.Color
	Stroke     color.Color
	Title      color.Color
	Text       color.Color
	Muted      color.Color
	Grid       color.Color
	Panel      color.Color
	PanelAlt   color.Color
	Bar        color.Color
	Accent     color.Color
	Fail       color.Color
	Lines      []color.Color
}

// DefaultPalette returns the stock dark theme.
func DefaultPalette() Palette {
	return Palette{
		Background: color.RGBA{A: 0xff},
		Dots:       color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		PaneFill:   color.NRGBA{R: 10, G: 10, B: 10, A: 230},
		Stroke:     color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Title:      color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Text:       color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Muted:      color.RGBA{R: 0xc8, G: 0xc8, B: 0xc8, A: 0xff},
		Grid:       color.Gray{Y: 40},
		Panel:      color.Gray{Y: 30},
		PanelAlt:   color.Gray{Y: 20},
		Bar:        color.Gray{Y: 40},
		Accent:     color.RGBA{R: 0x00, G: 0xff, B: 0xff, A: 0xff},
		Fail:       color.RGBA{R: 184, G: 41, B: 11, A: 0xff},
		Lines: []color.Color{
			color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 200},
			color.RGBA{R: 0x00, G: 0xff, B: 0xff, A: 0xff},
			color.RGBA{R: 0xff, G: 0x40, B: 0x04, A: 0xff},
			color.RGBA{R: 0x7f, G: 0xd9, B: 0x62, A: 0xff},
		},
	}
}

// LineColor returns the i-th series color, cycling through Lines.
func (p Palette) LineColor(i int) color.Color {
	if len(p.Lines) == 0 {
		return p.Stroke
	}
	return p.Lines[i%len(p.Lines)]
}

// ParseColor accepts "#rgb", "#rrggbb" and "#rrggbbaa".
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	alpha := uint8(0xff)
	if len(s) == 9 && strings.HasPrefix(s, "#") {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid alpha in color %q", s)
		}
		alpha = uint8(a)
		s = s[:7]
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// FormatColor is the inverse of ParseColor. The alpha suffix is omitted for
// opaque colors.
func FormatColor(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}
