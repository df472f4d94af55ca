package geom

import (
	"math"
	"sort"
)

// InscribeMargin is how far candidate rectangles are pulled inwards from the
// polygon vertices so that their corners land strictly inside the outline.
const InscribeMargin = 1.0

// Centroid returns the vertex average of points.
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}
	var c Point
	for _, p := range points {
		c.X += p.X
		c.Y += p.Y
	}
	n := float64(len(points))
	return Point{X: c.X / n, Y: c.Y / n}
}

// SortClockwise returns a copy of points ordered by angle around their
// centroid. With Y growing downwards increasing angle is clockwise on screen.
// Equal angles keep their input order.
func SortClockwise(points []Point) []Point {
	out := append([]Point(nil), points...)
	c := Centroid(out)
	sort.SliceStable(out, func(i, j int) bool {
		ai := math.Atan2(out[i].Y-c.Y, out[i].X-c.X)
		aj := math.Atan2(out[j].Y-c.Y, out[j].X-c.X)
		return ai < aj
	})
	return out
}

// PointInPolygon applies the even-odd ray casting rule. Points exactly on an
// edge may land on either side.
func PointInPolygon(p Point, polygon []Point) bool {
	n := len(polygon)
	if n < 3 {
		return false
	}

	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		a, b := polygon[i], polygon[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			crossX := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < crossX {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// LargestInscribedRect searches for the largest axis-aligned rectangle inside
// the polygon outlined by points. Every 4-vertex subset spans a candidate (its
// bounding box shrunk by InscribeMargin); a candidate is kept when all of its
// corners pass PointInPolygon. Ties keep the first candidate found.
//
// The search is O(n^4) in the vertex count. Border outlines have at most 8
// vertices; larger polygons need a different algorithm.
func LargestInscribedRect(points []Point) (Rect, bool) {
	n := len(points)
	if n < 4 {
		return Rect{}, false
	}

	polygon := SortClockwise(points)

	var best Rect
	bestArea := 0.0
	found := false

	subset := make([]Point, 4)
	for i := 0; i < n-3; i++ {
		for j := i + 1; j < n-2; j++ {
			for k := j + 1; k < n-1; k++ {
				for l := k + 1; l < n; l++ {
					subset[0], subset[1], subset[2], subset[3] = points[i], points[j], points[k], points[l]

					box, _ := Bounds(subset)
					candidate := box.Inset(InscribeMargin)
					if candidate.Empty() {
						continue
					}
					if !cornersInside(candidate, polygon) {
						continue
					}

					if area := candidate.Area(); !found || area > bestArea {
						best = candidate
						bestArea = area
						found = true
					}
				}
			}
		}
	}

	return best, found
}

func cornersInside(r Rect, polygon []Point) bool {
	for _, c := range r.Corners() {
		if !PointInPolygon(c, polygon) {
			return false
		}
	}
	return true
}
