// Package locker runs the lock screen: it owns the pane tree, the frame
// buffer and the overlay window, and publishes a summary for IPC clients.
package locker

import (
	"github.com/1broseidon/raylock/internal/auth"
	"github.com/1broseidon/raylock/internal/geom"
	"github.com/1broseidon/raylock/internal/pane"
	"github.com/1broseidon/raylock/internal/render"
)

const (
	DotSpacing = 25.0
	DotRadius  = 0.7
)

// DotGrid returns the background dots, centred on bounds.
func DotGrid(bounds geom.Rect) []geom.Point {
	nx := int(bounds.Width()/DotSpacing) / 2
	ny := int(bounds.Height()/DotSpacing) / 2
	c := bounds.Center()

	out := make([]geom.Point, 0, (2*nx+1)*(2*ny+1))
	for x := -nx; x <= nx; x++ {
		for y := -ny; y <= ny; y++ {
			out = append(out, geom.Pt(c.X+float64(x)*DotSpacing, c.Y+float64(y)*DotSpacing))
		}
	}
	return out
}

// Scene is everything drawn in one frame.
type Scene struct {
	Tree  *pane.Node
	Theme pane.Theme
	State *auth.State
	Radii auth.Radii
}

// Draw paints a frame: background, dot grid, panes and the password ring
// around ringCenter.
func (s *Scene) Draw(p render.Painter, bounds geom.Rect, ringCenter geom.Point) {
	pal := s.Theme.Palette
	p.FillRect(bounds, pal.Background)
	for _, d := range DotGrid(bounds) {
		p.FillCircle(d, DotRadius, pal.Dots)
	}

	if s.Tree != nil {
		s.Tree.Render(p, s.Theme)
	}

	if s.State != nil {
		auth.Ring(s.State.Snapshot(), ringCenter, s.Radii).Draw(p, pal)
	}
}
