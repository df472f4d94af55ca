package auth

import (
	"math"

	"github.com/1broseidon/raylock/internal/geom"
	"github.com/1broseidon/raylock/internal/render"
)

// StartAngle is where the first dot of a ring sits, in radians.
const StartAngle = -math.Pi / 4

const (
	dotStroke  = 2.0
	lineStroke = 2.0
	failStroke = 5.0
)

// Radii sizes the password ring.
type Radii struct {
	Login    float64 // circle the character dots sit on
	FailDots float64 // circle the failure dots sit on
	Dot      float64 // radius of a single dot
}

func DefaultRadii() Radii {
	return Radii{Login: 50, FailDots: 15, Dot: 4}
}

// RingShape is the resolved geometry of the password ring.
type RingShape struct {
	Center     geom.Point
	Dots       []geom.Point
	Links      [][2]geom.Point
	FailRing   bool
	FailRadius float64
	FailDots   []geom.Point
	DotRadius  float64
}

// Ring places one dot per typed character around the login circle and one
// per failed attempt around the inner circle. A single dot sits at the
// centre. With two or more characters consecutive dots are joined into a
// closed chain.
func Ring(v View, center geom.Point, r Radii) RingShape {
	shape := RingShape{
		Center:     center,
		DotRadius:  r.Dot,
		FailRing:   v.Failures > 0,
		FailRadius: r.Login - failStroke,
	}

	shape.FailDots = around(center, v.Failures, r.FailDots)
	shape.Dots = around(center, v.Length, r.Login)

	if n := len(shape.Dots); n > 1 {
		shape.Links = make([][2]geom.Point, 0, n)
		last := shape.Dots[n-1]
		for _, p := range shape.Dots {
			shape.Links = append(shape.Links, [2]geom.Point{last, p})
			last = p
		}
	}
	return shape
}

func around(center geom.Point, n int, radius float64) []geom.Point {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []geom.Point{center}
	}
	step := 2 * math.Pi / float64(n)
	out := make([]geom.Point, n)
	for i := range out {
		a := StartAngle + float64(i)*step
		out[i] = geom.Pt(center.X+radius*math.Cos(a), center.Y+radius*math.Sin(a))
	}
	return out
}

// Draw paints the ring.
func (s RingShape) Draw(p render.Painter, pal render.Palette) {
	if s.FailRing {
		p.StrokeCircle(s.Center, s.FailRadius, render.Stroke{Width: failStroke, Color: pal.Fail})
	}
	for _, d := range s.FailDots {
		p.StrokeCircle(d, s.DotRadius, render.Stroke{Width: dotStroke, Color: pal.Fail})
	}
	for i, d := range s.Dots {
		p.StrokeCircle(d, s.DotRadius, render.Stroke{Width: dotStroke, Color: pal.Stroke})
		if i < len(s.Links) {
			l := s.Links[i]
			p.Line(l[0], l[1], render.Stroke{Width: lineStroke, Color: pal.Text})
		}
	}
}
