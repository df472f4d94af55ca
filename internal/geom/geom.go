package geom

import "fmt"

// Point is a position (or offset) in screen coordinates. Y grows downwards.
type Point struct {
	X float64
	Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Mul returns p scaled by k.
func (p Point) Mul(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

func (p Point) String() string {
	return fmt.Sprintf("(%.1f,%.1f)", p.X, p.Y)
}

// Rect is an axis-aligned rectangle described by its min (top-left) and max
// (bottom-right) corners.
type Rect struct {
	Min Point
	Max Point
}

// RectFromMinMax builds a rectangle from two corners.
func RectFromMinMax(min, max Point) Rect {
	return Rect{Min: min, Max: max}
}

// RectXYWH builds a rectangle from an origin and a size.
func RectXYWH(x, y, w, h float64) Rect {
	return Rect{Min: Point{X: x, Y: y}, Max: Point{X: x + w, Y: y + h}}
}

func (r Rect) Left() float64   { return r.Min.X }
func (r Rect) Right() float64  { return r.Max.X }
func (r Rect) Top() float64    { return r.Min.Y }
func (r Rect) Bottom() float64 { return r.Max.Y }

// Width returns the horizontal extent.
func (r Rect) Width() float64 {
	return r.Max.X - r.Min.X
}

// Height returns the vertical extent.
func (r Rect) Height() float64 {
	return r.Max.Y - r.Min.Y
}

// Area returns Width*Height. Inverted rectangles have a non-positive area.
func (r Rect) Area() float64 {
	return r.Width() * r.Height()
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// Empty reports whether the rectangle has no positive area.
func (r Rect) Empty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Inset shrinks the rectangle by d on every side. Negative d grows it.
func (r Rect) Inset(d float64) Rect {
	return Rect{
		Min: Point{X: r.Min.X + d, Y: r.Min.Y + d},
		Max: Point{X: r.Max.X - d, Y: r.Max.Y - d},
	}
}

// Corners returns the four corners clockwise from top-left.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{X: r.Min.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Max.Y},
		{X: r.Min.X, Y: r.Max.Y},
	}
}

// Intersects reports whether two rectangles overlap with positive area.
func (r Rect) Intersects(o Rect) bool {
	return r.Min.X < o.Max.X &&
		r.Max.X > o.Min.X &&
		r.Min.Y < o.Max.Y &&
		r.Max.Y > o.Min.Y
}

func (r Rect) String() string {
	return fmt.Sprintf("[%s-%s %.1fx%.1f]", r.Min, r.Max, r.Width(), r.Height())
}

// Union returns the smallest rectangle covering all rects. ok is false for an
// empty input.
func Union(rects []Rect) (Rect, bool) {
	if len(rects) == 0 {
		return Rect{}, false
	}

	out := rects[0]
	for _, r := range rects[1:] {
		if r.Min.X < out.Min.X {
			out.Min.X = r.Min.X
		}
		if r.Min.Y < out.Min.Y {
			out.Min.Y = r.Min.Y
		}
		if r.Max.X > out.Max.X {
			out.Max.X = r.Max.X
		}
		if r.Max.Y > out.Max.Y {
			out.Max.Y = r.Max.Y
		}
	}
	return out, true
}

// Bounds returns the bounding box of points. ok is false for an empty input.
func Bounds(points []Point) (Rect, bool) {
	if len(points) == 0 {
		return Rect{}, false
	}

	out := Rect{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		if p.X < out.Min.X {
			out.Min.X = p.X
		}
		if p.Y < out.Min.Y {
			out.Min.Y = p.Y
		}
		if p.X > out.Max.X {
			out.Max.X = p.X
		}
		if p.Y > out.Max.Y {
			out.Max.Y = p.Y
		}
	}
	return out, true
}
