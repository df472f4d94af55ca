package geom

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CornerStyle selects the cut applied to one corner of a pane border.
type CornerStyle int

const (
	Square CornerStyle = iota
	Ang30
	Ang45
	Ang60
)

var cornerNames = map[CornerStyle]string{
	Square: "SQUARE",
	Ang30:  "Ang30",
	Ang45:  "Ang45",
	Ang60:  "Ang60",
}

// String returns the configuration tag of the style.
func (c CornerStyle) String() string {
	if name, ok := cornerNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CornerStyle(%d)", int(c))
}

// ParseCornerStyle maps a configuration tag to a style. Tags are matched
// exactly; the square style is spelled "SQUARE".
func ParseCornerStyle(tag string) (CornerStyle, error) {
	for style, name := range cornerNames {
		if name == tag {
			return style, nil
		}
	}
	return Square, fmt.Errorf("unknown corner style %q (want one of SQUARE, Ang30, Ang45, Ang60)", tag)
}

// MarshalJSON encodes the style as its tag.
func (c CornerStyle) MarshalJSON() ([]byte, error) {
	name, ok := cornerNames[c]
	if !ok {
		return nil, fmt.Errorf("invalid corner style %d", int(c))
	}
	return json.Marshal(name)
}

// UnmarshalJSON decodes a style tag.
func (c *CornerStyle) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return fmt.Errorf("corner style must be a string: %w", err)
	}
	style, err := ParseCornerStyle(tag)
	if err != nil {
		return err
	}
	*c = style
	return nil
}

// FormatCorners renders a corner set the way it is written in configuration.
func FormatCorners(corners [4]CornerStyle) string {
	parts := make([]string, len(corners))
	for i, c := range corners {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Corner templates are unit shapes for the top-left corner. The other corners
// reuse them through Rotate90/180/270.
var (
	cornerSquare = []Point{{X: 0, Y: 0}}
	corner45     = []Point{{X: 0, Y: 1}, {X: 1, Y: 0}}
	corner30     = []Point{{X: 0, Y: 0.5}, {X: 1, Y: 0}}
	corner60     = []Point{{X: 0, Y: 1}, {X: 0.5, Y: 0}}
)

// CornerTemplate returns a fresh copy of the unit template for style.
// Unknown styles fall back to a square corner.
func CornerTemplate(style CornerStyle) []Point {
	var src []Point
	switch style {
	case Ang30:
		src = corner30
	case Ang45:
		src = corner45
	case Ang60:
		src = corner60
	default:
		src = cornerSquare
	}
	return append([]Point(nil), src...)
}

// BuildBorder returns the decorated outline of rect: the rectangle is inset by
// gap and each corner is replaced by its template, rotated into place and
// scaled by cut. Points are ordered clockwise starting at the top-left corner.
func BuildBorder(rect Rect, corners [4]CornerStyle, gap, cut float64) []Point {
	left := rect.Left() + gap
	right := rect.Right() - gap
	top := rect.Top() + gap
	bottom := rect.Bottom() - gap

	placements := [4]struct {
		rotate func([]Point) []Point
		origin Point
	}{
		{rotate: nil, origin: Point{X: left, Y: top}},
		{rotate: Rotate90, origin: Point{X: right, Y: top}},
		{rotate: Rotate180, origin: Point{X: right, Y: bottom}},
		{rotate: Rotate270, origin: Point{X: left, Y: bottom}},
	}

	points := make([]Point, 0, 8)
	for i, place := range placements {
		shape := CornerTemplate(corners[i])
		if place.rotate != nil {
			shape = place.rotate(shape)
		}
		points = append(points, Translate(Scale(shape, cut), place.origin)...)
	}
	return points
}
