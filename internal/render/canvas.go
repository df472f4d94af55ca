package render

import (
	"image"
	"image/color"
	"math"

	"github.com/1broseidon/raylock/internal/geom"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
)

// Canvas is a Painter that rasterizes into an RGBA buffer.
type Canvas struct {
	img   *image.RGBA
	dc    *gg.Context
	mono  *opentype.Font
	faces map[float64]font.Face
}

var _ Painter = (*Canvas)(nil)

// NewCanvas allocates a width x height frame buffer.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{faces: make(map[float64]font.Face)}
	if f, err := opentype.Parse(gomono.TTF); err == nil {
		c.mono = f
	}
	c.Resize(width, height)
	return c
}

// Resize reallocates the frame buffer. Cached font faces are kept.
func (c *Canvas) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	c.img = image.NewRGBA(image.Rect(0, 0, width, height))
	c.dc = gg.NewContextForRGBA(c.img)
}

// Image returns the backing buffer. It is reused between frames.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Bounds returns the canvas extent in layout coordinates.
func (c *Canvas) Bounds() geom.Rect {
	b := c.img.Bounds()
	return geom.RectXYWH(0, 0, float64(b.Dx()), float64(b.Dy()))
}

// Clear fills the whole canvas.
func (c *Canvas) Clear(col color.Color) {
	c.dc.SetColor(col)
	c.dc.Clear()
}

func (c *Canvas) path(points []geom.Point) {
	c.dc.NewSubPath()
	for i, p := range points {
		if i == 0 {
			c.dc.MoveTo(p.X, p.Y)
			continue
		}
		c.dc.LineTo(p.X, p.Y)
	}
}

func (c *Canvas) stroke(s Stroke) {
	c.dc.SetColor(s.Color)
	c.dc.SetLineWidth(s.Width)
	c.dc.Stroke()
}

func (c *Canvas) FillPolygon(points []geom.Point, fill color.Color) {
	if len(points) < 3 {
		return
	}
	c.path(points)
	c.dc.ClosePath()
	c.dc.SetColor(fill)
	c.dc.Fill()
}

func (c *Canvas) StrokePolygon(points []geom.Point, s Stroke) {
	if len(points) < 2 {
		return
	}
	c.path(points)
	c.dc.ClosePath()
	c.stroke(s)
}

func (c *Canvas) FillRect(r geom.Rect, fill color.Color) {
	if r.Empty() {
		return
	}
	c.dc.DrawRectangle(r.Min.X, r.Min.Y, r.Width(), r.Height())
	c.dc.SetColor(fill)
	c.dc.Fill()
}

func (c *Canvas) StrokeRect(r geom.Rect, s Stroke) {
	c.dc.DrawRectangle(r.Min.X, r.Min.Y, r.Width(), r.Height())
	c.stroke(s)
}

func (c *Canvas) Line(a, b geom.Point, s Stroke) {
	c.dc.DrawLine(a.X, a.Y, b.X, b.Y)
	c.stroke(s)
}

func (c *Canvas) Polyline(points []geom.Point, s Stroke) {
	if len(points) < 2 {
		return
	}
	c.path(points)
	c.stroke(s)
}

func (c *Canvas) FillCircle(center geom.Point, radius float64, fill color.Color) {
	c.dc.DrawCircle(center.X, center.Y, radius)
	c.dc.SetColor(fill)
	c.dc.Fill()
}

func (c *Canvas) StrokeCircle(center geom.Point, radius float64, s Stroke) {
	c.dc.DrawCircle(center.X, center.Y, radius)
	c.stroke(s)
}

func (c *Canvas) Text(s string, at geom.Point, style TextStyle) {
	if s == "" {
		return
	}
	c.dc.SetFontFace(c.face(style.Size))
	c.dc.SetColor(style.Color)

	if style.Angle == 0 {
		c.dc.DrawStringAnchored(s, at.X, at.Y, style.Anchor.X, style.Anchor.Y)
		return
	}

	c.dc.Push()
	c.dc.RotateAbout(style.Angle, at.X, at.Y)
	c.dc.DrawStringAnchored(s, at.X, at.Y, style.Anchor.X, style.Anchor.Y)
	c.dc.Pop()
}

func (c *Canvas) MeasureText(s string, size float64) (float64, float64) {
	c.dc.SetFontFace(c.face(size))
	return c.dc.MeasureString(s)
}

// face returns a monospace face for size, falling back to the fixed 7x13
// bitmap face when the embedded font could not be parsed.
func (c *Canvas) face(size float64) font.Face {
	if c.mono == nil || size <= 0 {
		return basicfont.Face7x13
	}
	size = math.Round(size*2) / 2
	if f, ok := c.faces[size]; ok {
		return f
	}
	f, err := opentype.NewFace(c.mono, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	c.faces[size] = f
	return f
}
