package pane

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/1broseidon/raylock/internal/geom"
	"github.com/1broseidon/raylock/internal/render"
	"github.com/1broseidon/raylock/internal/render/rendertest"
	"github.com/1broseidon/raylock/internal/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

var square4 = [4]geom.CornerStyle{geom.Square, geom.Square, geom.Square, geom.Square}

type stubWidget struct {
	updates  int
	rendered []geom.Rect
	resized  []geom.Rect
}

func (w *stubWidget) Update()                              { w.updates++ }
func (w *stubWidget) Render(_ render.Painter, r geom.Rect) { w.rendered = append(w.rendered, r) }
func (w *stubWidget) Resize(inner geom.Rect)               { w.resized = append(w.resized, inner) }

func stubFactory(created map[widget.Kind]*stubWidget) Factory {
	return func(kind widget.Kind) widget.Widget {
		w := &stubWidget{}
		created[kind] = w
		return w
	}
}

func twoSquares() *Config {
	return Split(Vertical, 0.5,
		Leaf(widget.KindCPUGraph, square4),
		Leaf(widget.KindMemGraph, square4),
	)
}

func TestPrecalc_TwoSquareLeavesSideBySide(t *testing.T) {
	created := map[widget.Kind]*stubWidget{}
	root, err := Build(twoSquares(), stubFactory(created))
	require.NoError(t, err)

	theme := DefaultTheme()
	require.NoError(t, root.Precalc(geom.RectXYWH(0, 0, 1920, 1080), theme))

	leaves := root.Leaves()
	require.Len(t, leaves, 2)
	assert.Equal(t, "root.a", leaves[0].Path)
	assert.Equal(t, "root.b", leaves[1].Path)

	wantOuter := []geom.Rect{geom.RectXYWH(0, 0, 960, 1080), geom.RectXYWH(960, 0, 960, 1080)}
	for i, leaf := range leaves {
		g := leaf.Geometry
		assert.True(t, g.Computed)
		assert.Equal(t, wantOuter[i], g.Outer)
		assert.Equal(t, g.Outer.Inset(theme.Gap+geom.InscribeMargin), g.Inner)
		assert.Equal(t, TitleTop, g.Title, "equal margins keep the title on top")
		assert.Len(t, g.Border, 4)
	}
	assert.Equal(t, "CPU", leaves[0].Geometry.Label)
	assert.Equal(t, "MEM", leaves[1].Geometry.Label)

	require.Len(t, created[widget.KindCPUGraph].resized, 1)
	assert.Equal(t, leaves[0].Geometry.Inner, created[widget.KindCPUGraph].resized[0])
}

func TestSplitRect_PartitionsTheParent(t *testing.T) {
	rect := geom.RectXYWH(10, 20, 300, 200)

	a, b := SplitRect(rect, Vertical, 0.25)
	assert.Equal(t, geom.RectXYWH(10, 20, 75, 200), a)
	assert.Equal(t, geom.RectXYWH(85, 20, 225, 200), b)

	a, b = SplitRect(rect, Horizontal, 0.5)
	assert.Equal(t, geom.RectXYWH(10, 20, 300, 100), a)
	assert.Equal(t, geom.RectXYWH(10, 120, 300, 100), b)

	a, b = SplitRect(rect, Horizontal, 0)
	assert.True(t, a.Empty())
	assert.Equal(t, rect, b)
}

func TestChooseTitle(t *testing.T) {
	outer := geom.RectXYWH(0, 0, 100, 100)
	assert.Equal(t, TitleSide, ChooseTitle(outer, geom.RectFromMinMax(geom.Pt(20, 10), geom.Pt(90, 90))))
	assert.Equal(t, TitleTop, ChooseTitle(outer, geom.RectFromMinMax(geom.Pt(10, 20), geom.Pt(90, 90))))
	assert.Equal(t, TitleTop, ChooseTitle(outer, outer.Inset(7)))

	// Right and bottom margins count as much as left and top.
	assert.Equal(t, TitleSide, ChooseTitle(outer, geom.RectFromMinMax(geom.Pt(5, 5), geom.Pt(60, 95))))
	assert.Equal(t, TitleTop, ChooseTitle(outer, geom.RectFromMinMax(geom.Pt(5, 5), geom.Pt(95, 60))))
	assert.Equal(t, TitleTop, ChooseTitle(outer, geom.RectFromMinMax(geom.Pt(5, 10), geom.Pt(85, 90))))
}

func TestPrecalc_RightCutCornersPutTitleOnTheSide(t *testing.T) {
	rightCut := [4]geom.CornerStyle{geom.Square, geom.Ang45, geom.Ang45, geom.Square}
	cfg := Split(Vertical, 0.5,
		Leaf(widget.KindCPUGraph, rightCut),
		Leaf(widget.KindMemGraph, square4),
	)
	root, err := Build(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, root.Precalc(geom.RectXYWH(0, 0, 1920, 540), DefaultTheme()))

	leaves := root.Leaves()
	require.Len(t, leaves, 2)

	g := leaves[0].Geometry
	assert.Equal(t, geom.RectXYWH(0, 0, 960, 540), g.Outer)
	left := g.Inner.Min.X - g.Outer.Min.X
	right := g.Outer.Max.X - g.Inner.Max.X
	assert.Greater(t, right, left, "the cut corners eat into the right edge")
	assert.Equal(t, TitleSide, g.Title)

	assert.Equal(t, TitleTop, leaves[1].Geometry.Title)
}

func TestTitleAnchor(t *testing.T) {
	outer := geom.RectXYWH(0, 0, 200, 100)
	inner := geom.RectFromMinMax(geom.Pt(30, 20), geom.Pt(190, 90))

	at, angle := TitleAnchor(outer, inner, TitleTop, 6)
	assert.InDelta(t, 110, at.X, eps)
	assert.InDelta(t, 13, at.Y, eps)
	assert.InDelta(t, 0, angle, eps)

	at, angle = TitleAnchor(outer, inner, TitleSide, 6)
	assert.InDelta(t, 18, at.X, eps)
	assert.InDelta(t, 55, at.Y, eps)
	assert.InDelta(t, -math.Pi/2, angle, eps)
}

func TestPrecalc_DegenerateCornersReportLeafAndKeepOldGeometry(t *testing.T) {
	bad := [4]geom.CornerStyle{geom.Square, geom.Ang45, geom.Square, geom.Ang45}
	cfg := Split(Vertical, 0.5,
		Leaf(widget.KindInfo, square4),
		Split(Horizontal, 0.5,
			Leaf(widget.KindNetGraph, square4),
			Leaf(widget.KindDiskGraph, bad),
		),
	)
	root, err := Build(cfg, nil)
	require.NoError(t, err)

	err = root.Precalc(geom.RectXYWH(0, 0, 1920, 1080), DefaultTheme())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDegenerateOutline))

	var lerr *LayoutError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, "root.b.b", lerr.Path)
	assert.Equal(t, bad, lerr.Corners)
	assert.Contains(t, err.Error(), "root.b.b")
	assert.Contains(t, err.Error(), "Ang45")

	for _, leaf := range root.Leaves() {
		assert.False(t, leaf.Geometry.Computed, "%s must stay uncomputed", leaf.Path)
	}
}

func TestPrecalc_RerunRecomputesOnResize(t *testing.T) {
	root, err := Build(twoSquares(), nil)
	require.NoError(t, err)
	theme := DefaultTheme()

	require.NoError(t, root.Precalc(geom.RectXYWH(0, 0, 1920, 1080), theme))
	require.NoError(t, root.Precalc(geom.RectXYWH(0, 0, 1280, 720), theme))

	leaves := root.Leaves()
	assert.Equal(t, geom.RectXYWH(640, 0, 640, 720), leaves[1].Geometry.Outer)
}

func TestExample_ResolvesAtFullHD(t *testing.T) {
	cfg, err := Example()
	require.NoError(t, err)
	leaves, splits := cfg.Count()
	assert.Equal(t, 6, leaves)
	assert.Equal(t, 5, splits)

	root, err := Build(cfg, func(kind widget.Kind) widget.Widget {
		return widget.New(kind, widget.Deps{})
	})
	require.NoError(t, err)
	require.NoError(t, root.Precalc(geom.RectXYWH(0, 0, 1920, 1080), DefaultTheme()))

	var kinds []widget.Kind
	for _, leaf := range root.Leaves() {
		kinds = append(kinds, leaf.PaneType)
		g := leaf.Geometry
		require.True(t, g.Computed, leaf.Path)
		assert.False(t, g.Inner.Empty(), leaf.Path)
		for _, c := range g.Inner.Corners() {
			assert.True(t, geom.PointInPolygon(c, geom.SortClockwise(g.Border)), "%s corner %v", leaf.Path, c)
		}
	}
	assert.Equal(t, []widget.Kind{
		widget.KindInfo, widget.KindProcTable,
		widget.KindCPUGraph, widget.KindMemGraph, widget.KindNetGraph, widget.KindDiskGraph,
	}, kinds)

	root.Walk(func(n *Node) {
		table, ok := n.Widget().(*widget.ProcTable)
		if !ok {
			return
		}
		assert.Equal(t, widget.VisibleRows(n.Geometry().Inner.Height()), table.Rows())
		assert.Positive(t, table.Rows())
	})
}

func TestRender_DrawsBorderTitleInnerThenWidget(t *testing.T) {
	created := map[widget.Kind]*stubWidget{}
	root, err := Build(twoSquares(), stubFactory(created))
	require.NoError(t, err)
	theme := DefaultTheme()
	require.NoError(t, root.Precalc(geom.RectXYWH(0, 0, 1920, 1080), theme))

	rec := &rendertest.Recorder{}
	root.Render(rec, theme)

	var kinds []rendertest.OpKind
	for _, op := range rec.Ops {
		kinds = append(kinds, op.Kind)
	}
	leafOps := []rendertest.OpKind{rendertest.OpFillPolygon, rendertest.OpStrokePolygon, rendertest.OpText, rendertest.OpStrokeRect}
	assert.Equal(t, append(append([]rendertest.OpKind{}, leafOps...), leafOps...), kinds)

	assert.Equal(t, []string{"CPU", "MEM"}, rec.Texts())
	title := rec.Filter(rendertest.OpText)[0]
	assert.Equal(t, render.AnchorCenter, title.Style.Anchor)
	assert.InDelta(t, theme.TitleSize, title.Style.Size, eps)
	assert.InDelta(t, 480, title.Center.X, eps)
	assert.InDelta(t, 6.5, title.Center.Y, eps)

	strokes := rec.Filter(rendertest.OpStrokePolygon)
	assert.InDelta(t, BorderWidth, strokes[0].Width, eps)
	inner := rec.Filter(rendertest.OpStrokeRect)
	assert.InDelta(t, InnerWidth, inner[0].Width, eps)

	cpu := created[widget.KindCPUGraph]
	assert.Equal(t, 1, cpu.updates)
	require.Len(t, cpu.rendered, 1)
	assert.Equal(t, inner[0].Rect, cpu.rendered[0])
}

func TestRender_SkipsUncomputedLeaves(t *testing.T) {
	created := map[widget.Kind]*stubWidget{}
	root, err := Build(twoSquares(), stubFactory(created))
	require.NoError(t, err)

	rec := &rendertest.Recorder{}
	assert.NotPanics(t, func() { root.Render(rec, DefaultTheme()) })
	assert.Empty(t, rec.Ops)
	assert.Zero(t, created[widget.KindCPUGraph].updates)
}

func TestParse_AcceptsLayoutDocument(t *testing.T) {
	doc := `{
	  "kind": "Split", "direction": "H", "bias": 0.3,
	  "a": {"kind": "Leaf", "pane_type": "Info", "corners": ["Ang45", "Ang45", "Ang45", "Ang45"]},
	  "b": {"kind": "Leaf", "pane_type": "No", "corners": ["SQUARE", "SQUARE", "SQUARE", "SQUARE"]}
	}`
	cfg, err := Parse([]byte(doc), "layout.json")
	require.NoError(t, err)
	assert.Equal(t, KindSplit, cfg.Kind)
	assert.Equal(t, Horizontal, cfg.Direction)
	assert.InDelta(t, 0.3, cfg.Bias, eps)
	assert.Equal(t, widget.KindInfo, cfg.A.PaneType)
	assert.Equal(t, geom.Ang45, cfg.A.Corners[2])
	assert.Equal(t, widget.KindNone, cfg.B.PaneType)
}

func TestParse_Rejections(t *testing.T) {
	cases := []struct {
		name     string
		doc      string
		contains []string
	}{
		{
			name:     "unknown pane type",
			doc:      `{"kind":"Split","direction":"V","bias":0.5,"a":{"kind":"Leaf","pane_type":"GpuGraph","corners":["SQUARE","SQUARE","SQUARE","SQUARE"]},"b":{"kind":"Leaf","pane_type":"Info","corners":["SQUARE","SQUARE","SQUARE","SQUARE"]}}`,
			contains: []string{"layout.json", "root.a.pane_type", "GpuGraph"},
		},
		{
			name:     "unknown corner",
			doc:      `{"kind":"Leaf","pane_type":"Info","corners":["SQUARE","Ang15","SQUARE","SQUARE"]}`,
			contains: []string{"root.corners[1]", "Ang15"},
		},
		{
			name:     "missing child",
			doc:      `{"kind":"Split","direction":"V","bias":0.5,"a":{"kind":"Leaf","pane_type":"Info","corners":["SQUARE","SQUARE","SQUARE","SQUARE"]}}`,
			contains: []string{"missing", "b"},
		},
		{
			name:     "three corners",
			doc:      `{"kind":"Leaf","pane_type":"Info","corners":["SQUARE","SQUARE","SQUARE"]}`,
			contains: []string{"root.corners"},
		},
		{
			name:     "bias out of range",
			doc:      `{"kind":"Split","direction":"V","bias":1.5,"a":{"kind":"Leaf","pane_type":"Info","corners":["SQUARE","SQUARE","SQUARE","SQUARE"]},"b":{"kind":"Leaf","pane_type":"Info","corners":["SQUARE","SQUARE","SQUARE","SQUARE"]}}`,
			contains: []string{"root.bias", "1.5"},
		},
		{
			name:     "unknown key",
			doc:      `{"kind":"Leaf","pane_type":"Info","corners":["SQUARE","SQUARE","SQUARE","SQUARE"],"color":"red"}`,
			contains: []string{"color"},
		},
		{
			name:     "not json",
			doc:      `{"kind":`,
			contains: []string{"invalid JSON"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc), "layout.json")
			require.Error(t, err)
			var cerr *ConfigError
			require.True(t, errors.As(err, &cerr), "got %T", err)
			assert.Equal(t, "layout.json", cerr.Source)
			for _, s := range tc.contains {
				assert.Contains(t, err.Error(), s)
			}
		})
	}
}

func TestConfig_StrictDecodingWithoutSchema(t *testing.T) {
	var cfg Config
	err := json.Unmarshal([]byte(`{"kind":"Leaf","pane_type":"Info","corners":["SQUARE","SQUARE","SQUARE","SQUARE"],"bias":0.5}`), &cfg)
	require.Error(t, err)

	err = json.Unmarshal([]byte(`{"kind":"Split","direction":"V","bias":0.5,"a":{"kind":"Leaf","pane_type":"Info","corners":["SQUARE","SQUARE","SQUARE","SQUARE"]}}`), &cfg)
	require.Error(t, err)

	err = json.Unmarshal([]byte(`{"kind":"Pane"}`), &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Pane")
}

func TestConfig_MarshalRoundTripsExample(t *testing.T) {
	cfg, err := Example()
	require.NoError(t, err)

	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	again, err := Parse(data, "roundtrip")
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
	assert.JSONEq(t, string(ExampleJSON()), string(data))
}

func TestLoad_EmptyPathUsesExampleAndMissingFileFails(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	leaves, _ := cfg.Count()
	assert.Equal(t, 6, leaves)

	_, err = Load(t.TempDir() + "/nope.json")
	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr))
}

func TestBuild_RejectsInvalidTree(t *testing.T) {
	_, err := Build(&Config{Kind: KindSplit, Direction: "X", Bias: 0.5, A: Leaf(widget.KindInfo, square4), B: Leaf(widget.KindInfo, square4)}, nil)
	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "root.direction", cerr.Path)

	_, err = Build(&Config{Kind: KindSplit, Direction: Vertical, Bias: 0.5, A: Leaf(widget.KindInfo, square4)}, nil)
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "root.b", cerr.Path)
}
