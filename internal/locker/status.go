package locker

import (
	"github.com/1broseidon/raylock/internal/geom"
	"github.com/1broseidon/raylock/internal/ipc"
	"github.com/1broseidon/raylock/internal/pane"
)

func rectData(r geom.Rect) ipc.RectData {
	return ipc.RectData{X: r.Min.X, Y: r.Min.Y, Width: r.Width(), Height: r.Height()}
}

func layoutData(viewport geom.Rect, leaves []pane.LeafInfo) ipc.LayoutData {
	out := ipc.LayoutData{
		Viewport: rectData(viewport),
		Leaves:   make([]ipc.LeafData, 0, len(leaves)),
	}
	for _, leaf := range leaves {
		var corners [4]string
		for i, c := range leaf.Corners {
			corners[i] = c.String()
		}
		out.Leaves = append(out.Leaves, ipc.LeafData{
			Path:     leaf.Path,
			PaneType: leaf.PaneType.String(),
			Corners:  corners,
			Outer:    rectData(leaf.Geometry.Outer),
			Inner:    rectData(leaf.Geometry.Inner),
			Title:    leaf.Geometry.Title.String(),
			Computed: leaf.Geometry.Computed,
		})
	}
	return out
}

// Status implements ipc.Provider.
func (l *Locker) Status() ipc.StatusData {
	view := l.scene.State.Snapshot()

	l.mu.Lock()
	defer l.mu.Unlock()
	return ipc.StatusData{
		LockedSince:    l.since,
		UptimeSeconds:  int64(l.now().Sub(l.since).Seconds()),
		FailedAttempts: view.Failures,
		PasswordLength: view.Length,
		Verifying:      view.Verifying,
		LeafCount:      len(l.layout.Leaves),
		Viewport:       l.layout.Viewport,
	}
}

// Layout implements ipc.Provider.
func (l *Locker) Layout() ipc.LayoutData {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.layout
	out.Leaves = append([]ipc.LeafData(nil), l.layout.Leaves...)
	return out
}

// Monitors implements ipc.Provider.
func (l *Locker) Monitors() ([]ipc.MonitorInfo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]ipc.MonitorInfo, len(l.monitors))
	for i, m := range l.monitors {
		out[i] = ipc.MonitorInfo{
			ID:     m.ID,
			Name:   m.Name,
			X:      m.X,
			Y:      m.Y,
			Width:  m.Width,
			Height: m.Height,
		}
	}
	return out, nil
}
