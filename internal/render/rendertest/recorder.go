// Package rendertest provides a Painter that records draw calls instead of
// rasterizing them.
package rendertest

import (
	"image/color"

	"github.com/1broseidon/raylock/internal/geom"
	"github.com/1broseidon/raylock/internal/render"
)

// OpKind names a recorded draw call.
type OpKind string

const (
	OpFillPolygon   OpKind = "fill_polygon"
	OpStrokePolygon OpKind = "stroke_polygon"
	OpFillRect      OpKind = "fill_rect"
	OpStrokeRect    OpKind = "stroke_rect"
	OpLine          OpKind = "line"
	OpPolyline      OpKind = "polyline"
	OpFillCircle    OpKind = "fill_circle"
	OpStrokeCircle  OpKind = "stroke_circle"
	OpText          OpKind = "text"
)

// Op is one recorded call. Only the fields relevant to Kind are set.
type Op struct {
	Kind   OpKind
	Points []geom.Point
	Rect   geom.Rect
	Center geom.Point
	Radius float64
	Color  color.Color
	Width  float64
	Text   string
	Style  render.TextStyle
}

// Recorder implements render.Painter. Text is measured as a fixed-width
// face: each rune is 0.6*size wide and the line is size tall.
type Recorder struct {
	Ops []Op
}

var _ render.Painter = (*Recorder)(nil)

func (r *Recorder) FillPolygon(points []geom.Point, fill color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpFillPolygon, Points: clone(points), Color: fill})
}

func (r *Recorder) StrokePolygon(points []geom.Point, s render.Stroke) {
	r.Ops = append(r.Ops, Op{Kind: OpStrokePolygon, Points: clone(points), Color: s.Color, Width: s.Width})
}

func (r *Recorder) FillRect(rect geom.Rect, fill color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpFillRect, Rect: rect, Color: fill})
}

func (r *Recorder) StrokeRect(rect geom.Rect, s render.Stroke) {
	r.Ops = append(r.Ops, Op{Kind: OpStrokeRect, Rect: rect, Color: s.Color, Width: s.Width})
}

func (r *Recorder) Line(a, b geom.Point, s render.Stroke) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, Points: []geom.Point{a, b}, Color: s.Color, Width: s.Width})
}

func (r *Recorder) Polyline(points []geom.Point, s render.Stroke) {
	r.Ops = append(r.Ops, Op{Kind: OpPolyline, Points: clone(points), Color: s.Color, Width: s.Width})
}

func (r *Recorder) FillCircle(center geom.Point, radius float64, fill color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpFillCircle, Center: center, Radius: radius, Color: fill})
}

func (r *Recorder) StrokeCircle(center geom.Point, radius float64, s render.Stroke) {
	r.Ops = append(r.Ops, Op{Kind: OpStrokeCircle, Center: center, Radius: radius, Color: s.Color, Width: s.Width})
}

func (r *Recorder) Text(s string, at geom.Point, style render.TextStyle) {
	r.Ops = append(r.Ops, Op{Kind: OpText, Text: s, Center: at, Style: style, Color: style.Color})
}

func (r *Recorder) MeasureText(s string, size float64) (float64, float64) {
	return float64(len([]rune(s))) * size * 0.6, size
}

// Filter returns the ops of the given kind in call order.
func (r *Recorder) Filter(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Texts returns the strings passed to Text in call order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Filter(OpText) {
		out = append(out, op.Text)
	}
	return out
}

// Reset drops all recorded ops.
func (r *Recorder) Reset() {
	r.Ops = nil
}

func clone(points []geom.Point) []geom.Point {
	return append([]geom.Point(nil), points...)
}
