package locker

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/1broseidon/raylock/internal/auth"
	"github.com/1broseidon/raylock/internal/geom"
	"github.com/1broseidon/raylock/internal/pane"
	"github.com/1broseidon/raylock/internal/render/rendertest"
	"github.com/1broseidon/raylock/internal/widget"
	"github.com/1broseidon/raylock/internal/x11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var square4 = [4]geom.CornerStyle{geom.Square, geom.Square, geom.Square, geom.Square}

func twoSquares(t *testing.T) *pane.Node {
	t.Helper()
	root, err := pane.Build(pane.Split(pane.Vertical, 0.5,
		pane.Leaf(widget.KindCPUGraph, square4),
		pane.Leaf(widget.KindMemGraph, square4),
	), nil)
	require.NoError(t, err)
	return root
}

func TestDotGrid_CentredOnBounds(t *testing.T) {
	dots := DotGrid(geom.RectXYWH(0, 0, 100, 50))
	assert.Len(t, dots, 15)
	assert.Contains(t, dots, geom.Pt(50, 25))
	assert.Contains(t, dots, geom.Pt(0, 0))
	assert.Contains(t, dots, geom.Pt(100, 50))

	assert.Len(t, DotGrid(geom.RectXYWH(0, 0, 10, 10)), 1)
}

func TestScene_DrawOrder(t *testing.T) {
	root := twoSquares(t)
	theme := pane.DefaultTheme()
	bounds := geom.RectXYWH(0, 0, 200, 100)
	require.NoError(t, root.Precalc(bounds, theme))

	state := auth.NewState()
	for _, r := range "abc" {
		state.Append(r)
	}
	scene := &Scene{Tree: root, Theme: theme, State: state, Radii: auth.DefaultRadii()}

	rec := &rendertest.Recorder{}
	scene.Draw(rec, bounds, bounds.Center())

	require.NotEmpty(t, rec.Ops)
	assert.Equal(t, rendertest.OpFillRect, rec.Ops[0].Kind)
	assert.Equal(t, bounds, rec.Ops[0].Rect)
	assert.Equal(t, theme.Palette.Background, rec.Ops[0].Color)

	dots := len(DotGrid(bounds))
	for i := 1; i <= dots; i++ {
		assert.Equal(t, rendertest.OpFillCircle, rec.Ops[i].Kind)
		assert.InDelta(t, DotRadius, rec.Ops[i].Radius, 1e-9)
	}
	assert.Equal(t, rendertest.OpFillPolygon, rec.Ops[dots+1].Kind, "panes follow the dots")

	// Three characters: three dots and three links, drawn last.
	tail := rec.Ops[len(rec.Ops)-6:]
	var circles, lines int
	for _, op := range tail {
		switch op.Kind {
		case rendertest.OpStrokeCircle:
			circles++
		case rendertest.OpLine:
			lines++
		}
	}
	assert.Equal(t, 3, circles)
	assert.Equal(t, 3, lines)
	assert.Equal(t, []string{"CPU", "MEM"}, rec.Texts())
}

func TestResize_PublishesLayoutAndStatus(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	now := t0
	state := auth.NewState()
	l := New(Options{
		Tree:  twoSquares(t),
		Theme: pane.DefaultTheme(),
		State: state,
		Now:   func() time.Time { return now },
	})

	require.NoError(t, l.Resize(image.Rect(0, 0, 1920, 1080), nil))

	layout := l.Layout()
	require.Len(t, layout.Leaves, 2)
	assert.Equal(t, 1920.0, layout.Viewport.Width)
	assert.Equal(t, "root.a", layout.Leaves[0].Path)
	assert.Equal(t, "CpuGraph", layout.Leaves[0].PaneType)
	assert.Equal(t, [4]string{"SQUARE", "SQUARE", "SQUARE", "SQUARE"}, layout.Leaves[0].Corners)
	assert.Equal(t, 960.0, layout.Leaves[1].Outer.X)
	assert.Equal(t, "top", layout.Leaves[1].Title)
	assert.True(t, layout.Leaves[1].Computed)

	state.Append('x')
	state.Append('y')
	state.Fail()
	state.Append('z')
	now = t0.Add(90 * time.Second)

	status := l.Status()
	assert.Equal(t, t0, status.LockedSince)
	assert.Equal(t, int64(90), status.UptimeSeconds)
	assert.Equal(t, 1, status.FailedAttempts)
	assert.Equal(t, 1, status.PasswordLength)
	assert.Equal(t, 2, status.LeafCount)

	img := l.Frame()
	require.NotNil(t, img)
	assert.Equal(t, image.Rect(0, 0, 1920, 1080), img.Bounds())
}

func TestResize_DegenerateLayoutFails(t *testing.T) {
	bad := [4]geom.CornerStyle{geom.Square, geom.Ang45, geom.Square, geom.Ang45}
	root, err := pane.Build(pane.Leaf(widget.KindInfo, bad), nil)
	require.NoError(t, err)

	l := New(Options{Tree: root, Theme: pane.DefaultTheme()})
	err = l.Resize(image.Rect(0, 0, 800, 600), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pane.ErrDegenerateOutline))
	assert.Nil(t, l.Frame())
	assert.Empty(t, l.Layout().Leaves)
}

func TestResize_MonitorsAndRingCenter(t *testing.T) {
	l := New(Options{Theme: pane.DefaultTheme()})
	monitors := []x11.Monitor{
		{ID: 1, Name: "HDMI-1", X: 1920, Y: 0, Width: 1280, Height: 1024},
		{ID: 0, Name: "DP-1", X: 0, Y: 0, Width: 1920, Height: 1080},
	}
	require.NoError(t, l.Resize(image.Rect(0, 0, 3200, 1080), monitors))

	assert.Equal(t, geom.Pt(2560, 512), l.ringCenter)

	got, err := l.Monitors()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "HDMI-1", got[0].Name)
	assert.Equal(t, 1280, got[0].Width)
}

func TestRingCenter_WithoutMonitorsUsesViewport(t *testing.T) {
	assert.Equal(t, geom.Pt(400, 300), ringCenter(image.Rect(0, 0, 800, 600), nil))
}

func TestHandleKey_EditsState(t *testing.T) {
	state := auth.NewState()
	l := New(Options{State: state})

	for _, k := range []x11.Key{
		{Action: x11.KeyAppend, Rune: 'a'},
		{Action: x11.KeyAppend, Rune: 'b'},
		{Action: x11.KeyErase},
		{Action: x11.KeyAppend, Rune: 'c'},
	} {
		l.HandleKey(k)
	}
	assert.Equal(t, 2, state.Snapshot().Length)

	l.HandleKey(x11.Key{Action: x11.KeySubmit})
	pw, ok := state.TakeSubmission()
	require.True(t, ok)
	assert.Equal(t, "ac", pw)
	state.Reset()

	l.HandleKey(x11.Key{Action: x11.KeyAppend, Rune: 'q'})
	l.HandleKey(x11.Key{Action: x11.KeyClear})
	assert.Equal(t, 0, state.Snapshot().Length)
}
