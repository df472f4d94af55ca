package geom

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func assertPointsInDelta(t *testing.T, want, got []Point) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i].X, got[i].X, eps, "point %d x", i)
		assert.InDelta(t, want[i].Y, got[i].Y, eps, "point %d y", i)
	}
}

func TestRotate90_FourTimesIsIdentity(t *testing.T) {
	for _, style := range []CornerStyle{Square, Ang30, Ang45, Ang60} {
		t.Run(style.String(), func(t *testing.T) {
			tmpl := CornerTemplate(style)
			got := Rotate90(Rotate90(Rotate90(Rotate90(tmpl))))
			assertPointsInDelta(t, tmpl, got)
		})
	}
}

func TestRotations_Compose(t *testing.T) {
	pts := []Point{{X: 0.25, Y: 1}, {X: -3, Y: 0.5}}
	assertPointsInDelta(t, Rotate180(pts), Rotate90(Rotate90(pts)))
	assertPointsInDelta(t, Rotate270(pts), Rotate90(Rotate180(pts)))
	assertPointsInDelta(t, pts, Rotate270(Rotate90(pts)))
}

func TestTransforms_DoNotMutateInput(t *testing.T) {
	pts := []Point{{X: 1, Y: 2}}
	_ = Translate(pts, Pt(5, 5))
	_ = Scale(pts, 3)
	_ = Rotate90(pts)
	assert.Equal(t, []Point{{X: 1, Y: 2}}, pts)
}

func TestCornerTemplate_ReturnsCopy(t *testing.T) {
	a := CornerTemplate(Ang45)
	a[0].X = 99
	b := CornerTemplate(Ang45)
	assert.Equal(t, []Point{{X: 0, Y: 1}, {X: 1, Y: 0}}, b)
}

func TestCornerTemplate_Shapes(t *testing.T) {
	assert.Equal(t, []Point{{X: 0, Y: 0}}, CornerTemplate(Square))
	assert.Equal(t, []Point{{X: 0, Y: 0.5}, {X: 1, Y: 0}}, CornerTemplate(Ang30))
	assert.Equal(t, []Point{{X: 0, Y: 1}, {X: 0.5, Y: 0}}, CornerTemplate(Ang60))
}

func TestBuildBorder_AllSquareIsInsetRect(t *testing.T) {
	rect := RectXYWH(10, 20, 300, 200)
	got := BuildBorder(rect, [4]CornerStyle{Square, Square, Square, Square}, 6, 70)

	want := []Point{{X: 16, Y: 26}, {X: 304, Y: 26}, {X: 304, Y: 214}, {X: 16, Y: 214}}
	assertPointsInDelta(t, want, got)
}

func TestBuildBorder_Ang45Octagon(t *testing.T) {
	rect := RectXYWH(0, 0, 200, 100)
	got := BuildBorder(rect, [4]CornerStyle{Ang45, Ang45, Ang45, Ang45}, 0, 10)

	want := []Point{
		{X: 0, Y: 10}, {X: 10, Y: 0}, // top-left
		{X: 190, Y: 0}, {X: 200, Y: 10}, // top-right
		{X: 200, Y: 90}, {X: 190, Y: 100}, // bottom-right
		{X: 10, Y: 100}, {X: 0, Y: 90}, // bottom-left
	}
	assertPointsInDelta(t, want, got)
}

func TestBuildBorder_MixedCorners(t *testing.T) {
	rect := RectXYWH(0, 0, 100, 100)
	got := BuildBorder(rect, [4]CornerStyle{Ang30, Square, Ang60, Square}, 0, 20)

	want := []Point{
		{X: 0, Y: 10}, {X: 20, Y: 0},
		{X: 100, Y: 0},
		{X: 100, Y: 80}, {X: 90, Y: 100},
		{X: 0, Y: 100},
	}
	assertPointsInDelta(t, want, got)
}

func TestPointInPolygon(t *testing.T) {
	square := []Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}

	assert.True(t, PointInPolygon(Pt(5, 5), square))
	assert.True(t, PointInPolygon(Pt(1, 9), square))
	assert.False(t, PointInPolygon(Pt(-1, 5), square))
	assert.False(t, PointInPolygon(Pt(5, 11), square))
	assert.False(t, PointInPolygon(Pt(5, 5), square[:2]))
}

func TestSortClockwise_RecoversOutline(t *testing.T) {
	shuffled := []Point{{X: 10, Y: 10}, {X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 0}}
	got := SortClockwise(shuffled)

	// Angles around (5,5): (0,0) -135deg, (10,0) -45deg, (10,10) 45deg, (0,10) 135deg.
	assert.Equal(t, []Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}, got)
	assert.Equal(t, Point{X: 10, Y: 10}, shuffled[0], "input must not be reordered")
}

func TestLargestInscribedRect_TooFewPoints(t *testing.T) {
	_, ok := LargestInscribedRect([]Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}})
	assert.False(t, ok)

	_, ok = LargestInscribedRect(nil)
	assert.False(t, ok)
}

func TestLargestInscribedRect_SquareOutline(t *testing.T) {
	outline := BuildBorder(RectXYWH(0, 0, 100, 50), [4]CornerStyle{}, 0, 30)

	got, ok := LargestInscribedRect(outline)
	require.True(t, ok)
	assert.Equal(t, RectXYWH(1, 1, 98, 48), got)
}

func TestLargestInscribedRect_ContainedInOutline(t *testing.T) {
	rect := RectXYWH(0, 0, 960, 540)
	cornerSets := [][4]CornerStyle{
		{Square, Square, Square, Square},
		{Ang30, Ang30, Ang30, Ang30},
		{Ang45, Ang45, Ang45, Ang45},
		{Ang60, Ang60, Ang60, Ang60},
		{Ang30, Ang60, Ang60, Ang30},
		{Ang60, Ang30, Ang60, Ang30},
		{Ang30, Ang60, Square, Square},
		{Ang60, Square, Square, Ang30},
	}

	for _, corners := range cornerSets {
		outline := BuildBorder(rect, corners, 6, 50*math.Sqrt2)

		inner, ok := LargestInscribedRect(outline)
		require.True(t, ok, "corners %s", FormatCorners(corners))

		polygon := SortClockwise(outline)
		for _, c := range inner.Corners() {
			assert.True(t, PointInPolygon(c, polygon), "corner %s of %s outside for %s", c, inner, FormatCorners(corners))
		}
	}
}

func TestLargestInscribedRect_OppositeCutsAroundSquareCornersAreDegenerate(t *testing.T) {
	// Cutting only the top-right and bottom-left corners leaves no 4-vertex
	// box that avoids both cuts.
	outline := BuildBorder(RectXYWH(0, 0, 960, 540), [4]CornerStyle{Square, Ang45, Square, Ang45}, 6, 50*math.Sqrt2)
	_, ok := LargestInscribedRect(outline)
	assert.False(t, ok)
}

func TestLargestInscribedRect_SymmetricOctagonIsCenteredAndDeterministic(t *testing.T) {
	rect := RectXYWH(0, 0, 400, 300)
	outline := BuildBorder(rect, [4]CornerStyle{Ang45, Ang45, Ang45, Ang45}, 0, 40)

	first, ok := LargestInscribedRect(outline)
	require.True(t, ok)
	second, ok := LargestInscribedRect(outline)
	require.True(t, ok)

	assert.Equal(t, first, second)
	assert.InDelta(t, rect.Center().X, first.Center().X, eps)
	assert.InDelta(t, rect.Center().Y, first.Center().Y, eps)

	// For a wide octagon the full-height band wins: 318x298 beats 398x218.
	assert.Equal(t, RectFromMinMax(Pt(41, 1), Pt(359, 299)), first)
}

func TestLargestInscribedRect_RejectsCornersOutside(t *testing.T) {
	// A sliver outline leaves nothing once the margin is applied.
	outline := []Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 50, Y: 1}, {X: 50, Y: 0.5}}
	_, ok := LargestInscribedRect(outline)
	assert.False(t, ok)
}

func TestUnionAndBounds(t *testing.T) {
	u, ok := Union([]Rect{RectXYWH(0, 0, 10, 10), RectXYWH(20, 5, 10, 10)})
	require.True(t, ok)
	assert.Equal(t, RectFromMinMax(Pt(0, 0), Pt(30, 15)), u)

	_, ok = Union(nil)
	assert.False(t, ok)

	b, ok := Bounds([]Point{{X: 3, Y: -1}, {X: -2, Y: 4}})
	require.True(t, ok)
	assert.Equal(t, RectFromMinMax(Pt(-2, -1), Pt(3, 4)), b)
}

func TestCornerStyle_JSON(t *testing.T) {
	var corners [4]CornerStyle
	require.NoError(t, json.Unmarshal([]byte(`["SQUARE","Ang30","Ang45","Ang60"]`), &corners))
	assert.Equal(t, [4]CornerStyle{Square, Ang30, Ang45, Ang60}, corners)

	data, err := json.Marshal(corners)
	require.NoError(t, err)
	assert.JSONEq(t, `["SQUARE","Ang30","Ang45","Ang60"]`, string(data))

	var bad CornerStyle
	err = json.Unmarshal([]byte(`"Ang90"`), &bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Ang90")
}
