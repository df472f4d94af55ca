// Package pane holds the layout tree: the JSON configuration, the runtime
// nodes built from it, the geometry pass that resolves every leaf and the
// render pass that draws borders, titles and widgets.
package pane

import (
	"fmt"
	"math"

	"github.com/1broseidon/raylock/internal/geom"
	"github.com/1broseidon/raylock/internal/render"
	"github.com/1broseidon/raylock/internal/widget"
)

// TitlePlacement says where a leaf draws its label.
type TitlePlacement int

const (
	TitleTop TitlePlacement = iota
	TitleSide
)

func (t TitlePlacement) String() string {
	if t == TitleSide {
		return "side"
	}
	return "top"
}

func (t TitlePlacement) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Geometry is the resolved layout of a leaf.
type Geometry struct {
	Outer    geom.Rect
	Border   []geom.Point
	Inner    geom.Rect
	Title    TitlePlacement
	Label    string
	Computed bool
}

// Factory creates the widget hosted by a leaf.
type Factory func(kind widget.Kind) widget.Widget

// Node is a runtime pane. A split owns its two children; a leaf owns its
// widget and geometry.
type Node struct {
	path string
	kind NodeKind

	dir    Direction
	bias   float64
	first  *Node
	second *Node

	paneType widget.Kind
	corners  [4]geom.CornerStyle
	widget   widget.Widget
	geo      Geometry
}

// Build creates the runtime tree for cfg. factory is called once per leaf;
// a nil factory gives every leaf a blank widget.
func Build(cfg *Config, factory Factory) (*Node, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if factory == nil {
		factory = func(widget.Kind) widget.Widget { return widget.Blank{} }
	}
	return build(cfg, "root", factory), nil
}

func build(cfg *Config, path string, factory Factory) *Node {
	if cfg.Kind == KindLeaf {
		w := factory(cfg.PaneType)
		if w == nil {
			w = widget.Blank{}
		}
		return &Node{
			path:     path,
			kind:     KindLeaf,
			paneType: cfg.PaneType,
			corners:  cfg.Corners,
			widget:   w,
		}
	}
	return &Node{
		path:   path,
		kind:   KindSplit,
		dir:    cfg.Direction,
		bias:   cfg.Bias,
		first:  build(cfg.A, path+".a", factory),
		second: build(cfg.B, path+".b", factory),
	}
}

func (n *Node) Path() string                 { return n.path }
func (n *Node) IsLeaf() bool                 { return n.kind == KindLeaf }
func (n *Node) PaneType() widget.Kind        { return n.paneType }
func (n *Node) Corners() [4]geom.CornerStyle { return n.corners }
func (n *Node) Direction() Direction         { return n.dir }
func (n *Node) Bias() float64                { return n.bias }
func (n *Node) Widget() widget.Widget        { return n.widget }

// Children returns the two children of a split, or nils for a leaf.
func (n *Node) Children() (*Node, *Node) { return n.first, n.second }

// Geometry returns a copy of the leaf's resolved geometry.
func (n *Node) Geometry() Geometry {
	g := n.geo
	g.Border = append([]geom.Point(nil), n.geo.Border...)
	return g
}

// Walk visits every node depth-first, first child before second.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	if n.kind == KindSplit {
		n.first.Walk(fn)
		n.second.Walk(fn)
	}
}

// LeafInfo is a snapshot of one resolved leaf.
type LeafInfo struct {
	Path     string
	PaneType widget.Kind
	Corners  [4]geom.CornerStyle
	Geometry Geometry
}

// Leaves returns the leaves in render order.
func (n *Node) Leaves() []LeafInfo {
	var out []LeafInfo
	n.Walk(func(c *Node) {
		if c.IsLeaf() {
			out = append(out, LeafInfo{Path: c.path, PaneType: c.paneType, Corners: c.corners, Geometry: c.Geometry()})
		}
	})
	return out
}

// SplitRect divides rect at bias. V places the halves side by side, H stacks
// them.
func SplitRect(rect geom.Rect, dir Direction, bias float64) (geom.Rect, geom.Rect) {
	if dir == Vertical {
		x := rect.Min.X + rect.Width()*bias
		return geom.RectFromMinMax(rect.Min, geom.Pt(x, rect.Max.Y)),
			geom.RectFromMinMax(geom.Pt(x, rect.Min.Y), rect.Max)
	}
	y := rect.Min.Y + rect.Height()*bias
	return geom.RectFromMinMax(rect.Min, geom.Pt(rect.Max.X, y)),
		geom.RectFromMinMax(geom.Pt(rect.Min.X, y), rect.Max)
}

// ChooseTitle compares the combined left and right margins between outer and
// inner with the combined top and bottom margins. The title goes on the side
// only when the horizontal room is strictly larger.
func ChooseTitle(outer, inner geom.Rect) TitlePlacement {
	horizontal := (inner.Min.X - outer.Min.X) + (outer.Max.X - inner.Max.X)
	vertical := (inner.Min.Y - outer.Min.Y) + (outer.Max.Y - inner.Max.Y)
	if horizontal > vertical {
		return TitleSide
	}
	return TitleTop
}

// TitleAnchor returns the centre of the label and its rotation in radians.
func TitleAnchor(outer, inner geom.Rect, placement TitlePlacement, gap float64) (geom.Point, float64) {
	if placement == TitleSide {
		x := (outer.Min.X + gap + inner.Min.X) / 2
		return geom.Pt(x, inner.Center().Y), -math.Pi / 2
	}
	y := (outer.Min.Y + gap + inner.Min.Y) / 2
	return geom.Pt(inner.Center().X, y), 0
}

type resolved struct {
	node *Node
	geo  Geometry
}

// Precalc resolves the geometry of every leaf inside rect. Either every leaf
// is updated or, on error, none is. Sizers are resized after the commit.
func (n *Node) Precalc(rect geom.Rect, theme Theme) error {
	var pending []resolved
	if err := n.resolve(rect, theme, &pending); err != nil {
		return err
	}
	for _, r := range pending {
		r.node.geo = r.geo
		if s, ok := r.node.widget.(widget.Sizer); ok {
			s.Resize(r.geo.Inner)
		}
	}
	return nil
}

func (n *Node) resolve(rect geom.Rect, theme Theme, out *[]resolved) error {
	if n.kind == KindSplit {
		a, b := SplitRect(rect, n.dir, n.bias)
		if err := n.first.resolve(a, theme, out); err != nil {
			return err
		}
		return n.second.resolve(b, theme, out)
	}

	border := geom.BuildBorder(rect, n.corners, theme.Gap, theme.CornerCut)
	inner, ok := geom.LargestInscribedRect(border)
	if !ok {
		return &LayoutError{Path: n.path, Corners: n.corners, Outer: rect, Err: ErrDegenerateOutline}
	}
	*out = append(*out, resolved{node: n, geo: Geometry{
		Outer:    rect,
		Border:   border,
		Inner:    inner,
		Title:    ChooseTitle(rect, inner),
		Label:    n.paneType.Label(),
		Computed: true,
	}})
	return nil
}

// Render draws the tree. Leaves that were never resolved are skipped.
func (n *Node) Render(p render.Painter, theme Theme) {
	if n.kind == KindSplit {
		n.first.Render(p, theme)
		n.second.Render(p, theme)
		return
	}
	if !n.geo.Computed {
		return
	}

	pal := theme.Palette
	g := n.geo
	p.FillPolygon(g.Border, pal.PaneFill)
	p.StrokePolygon(g.Border, render.Stroke{Width: BorderWidth, Color: pal.Stroke})

	at, angle := TitleAnchor(g.Outer, g.Inner, g.Title, theme.Gap)
	p.Text(g.Label, at, render.TextStyle{
		Size:   theme.TitleSize,
		Color:  pal.Title,
		Anchor: render.AnchorCenter,
		Angle:  angle,
	})
	p.StrokeRect(g.Inner, render.Stroke{Width: InnerWidth, Color: pal.Stroke})

	n.widget.Update()
	n.widget.Render(p, g.Inner)
}

func (n *Node) String() string {
	if n.kind == KindSplit {
		return fmt.Sprintf("%s: Split %s %.2f", n.path, n.dir, n.bias)
	}
	return fmt.Sprintf("%s: Leaf %s %s", n.path, n.paneType, geom.FormatCorners(n.corners))
}
