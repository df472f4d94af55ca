package geom

// Translate returns points shifted by offset.
func Translate(points []Point, offset Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = p.Add(offset)
	}
	return out
}

// Scale returns points multiplied by factor around the origin.
func Scale(points []Point, factor float64) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = p.Mul(factor)
	}
	return out
}

// Rotate90 rotates points a quarter turn about the origin: (x,y) -> (-y,x).
// In screen coordinates this turns the top-left corner template into the
// top-right one.
func Rotate90(points []Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{X: -p.Y, Y: p.X}
	}
	return out
}

// Rotate180 rotates points half a turn about the origin: (x,y) -> (-x,-y).
func Rotate180(points []Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{X: -p.X, Y: -p.Y}
	}
	return out
}

// Rotate270 rotates points three quarter turns about the origin: (x,y) -> (y,-x).
func Rotate270(points []Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{X: p.Y, Y: -p.X}
	}
	return out
}
