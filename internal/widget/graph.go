package widget

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/1broseidon/raylock/internal/geom"
	"github.com/1broseidon/raylock/internal/render"
)

const (
	// HistorySize is the number of samples kept per line.
	HistorySize = 100
	// AnimationDuration is how long the newest sample takes to slide into place.
	AnimationDuration = 200 * time.Millisecond

	graphRows    = 4
	graphPadding = 5.0
)

type series struct {
	name    string
	color   color.Color
	history []float64
	from    float64
	to      float64
	changed time.Time
}

// Graph is a multi-line history plot shared by the resource widgets.
type Graph struct {
	min    float64
	max    float64
	format func(float64) string
	now    func() time.Time
	lines  []*series
}

// NewGraph creates an empty graph plotting values in [min, max].
func NewGraph(min, max float64, now func() time.Time) *Graph {
	if now == nil {
		now = time.Now
	}
	return &Graph{
		min:    min,
		max:    max,
		now:    now,
		format: func(v float64) string { return fmt.Sprintf("%.1f", v) },
	}
}

// SetFormat changes how values are printed in labels.
func (g *Graph) SetFormat(format func(float64) string) {
	if format != nil {
		g.format = format
	}
}

// AddLine appends a line and returns its index.
func (g *Graph) AddLine(name string, c color.Color) int {
	g.lines = append(g.lines, &series{name: name, color: c})
	return len(g.lines) - 1
}

// Lines returns the number of lines.
func (g *Graph) Lines() int {
	return len(g.lines)
}

// Push records a sample for line i and starts animating towards it.
func (g *Graph) Push(i int, v float64) {
	if i < 0 || i >= len(g.lines) {
		return
	}
	s := g.lines[i]
	now := g.now()
	s.from = s.valueAt(now)
	s.to = v
	s.changed = now

	s.history = append(s.history, v)
	if len(s.history) > HistorySize {
		s.history = append(s.history[:0], s.history[len(s.history)-HistorySize:]...)
	}
}

// History returns a copy of the samples of line i, oldest first.
func (g *Graph) History(i int) []float64 {
	if i < 0 || i >= len(g.lines) {
		return nil
	}
	return append([]float64(nil), g.lines[i].history...)
}

// Value returns the animated current value of line i.
func (g *Graph) Value(i int) float64 {
	if i < 0 || i >= len(g.lines) {
		return 0
	}
	return g.lines[i].valueAt(g.now())
}

func (s *series) valueAt(now time.Time) float64 {
	if s.changed.IsZero() {
		return s.to
	}
	progress := float64(now.Sub(s.changed)) / float64(AnimationDuration)
	if progress >= 1 {
		return s.to
	}
	if progress < 0 {
		progress = 0
	}
	return s.from + (s.to-s.from)*progress
}

// Range returns the plotted value range.
func (g *Graph) Range() (float64, float64) {
	return g.min, g.max
}

// SetRange changes the plotted value range.
func (g *Graph) SetRange(min, max float64) {
	g.min, g.max = min, max
}

// RedoMax fits the upper bound to the largest sample in the history. The
// range never collapses: an all-zero history keeps a span of 1.
func (g *Graph) RedoMax() {
	top := math.Inf(-1)
	for _, s := range g.lines {
		for _, v := range s.history {
			top = math.Max(top, v)
		}
	}
	if math.IsInf(top, -1) || top <= g.min {
		top = g.min + 1
	}
	g.max = top
}

func (g *Graph) norm(v float64) float64 {
	span := g.max - g.min
	if span <= 0 {
		return 0
	}
	n := (v - g.min) / span
	return math.Max(0, math.Min(1, n))
}

// Render draws the grid, the lines, the range labels and a legend.
func (g *Graph) Render(p render.Painter, r geom.Rect, pal render.Palette, textSize float64) {
	if r.Empty() {
		return
	}
	p.FillRect(r, pal.PanelAlt)

	grid := render.Stroke{Width: 1, Color: pal.Grid}
	for i := 0; i <= graphRows; i++ {
		y := r.Min.Y + r.Height()*float64(i)/graphRows
		p.Line(geom.Pt(r.Min.X, y), geom.Pt(r.Max.X, y), grid)
	}

	now := g.now()
	for _, s := range g.lines {
		if len(s.history) < 2 {
			continue
		}
		points := make([]geom.Point, len(s.history))
		for i, v := range s.history {
			x := r.Min.X + r.Width()*float64(i)/float64(HistorySize-1)
			points[i] = geom.Pt(x, r.Max.Y-r.Height()*g.norm(v))
		}
		last := &points[len(points)-1]
		last.Y = r.Max.Y - r.Height()*g.norm(s.valueAt(now))
		p.Polyline(points, render.Stroke{Width: 1.5, Color: s.color})
	}

	small := textSize * 0.75
	labelStyle := render.TextStyle{Size: small, Color: pal.Muted, Anchor: render.AnchorRightTop}
	p.Text(g.format(g.max), geom.Pt(r.Max.X-graphPadding, r.Min.Y+graphPadding), labelStyle)
	labelStyle.Anchor = render.Anchor{X: 1, Y: 0}
	p.Text(g.format(g.min), geom.Pt(r.Max.X-graphPadding, r.Max.Y-graphPadding), labelStyle)

	lineHeight := textSize * 1.25
	for i, s := range g.lines {
		y := r.Min.Y + graphPadding + float64(i)*lineHeight
		if y+lineHeight > r.Max.Y {
			break
		}
		label := fmt.Sprintf("%s %s", s.name, g.format(s.valueAt(now)))
		p.Text(label, geom.Pt(r.Min.X+graphPadding, y), render.TextStyle{Size: textSize, Color: s.color, Anchor: render.AnchorLeftTop})
	}
}
