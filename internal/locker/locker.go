package locker

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/raylock/internal/auth"
	"github.com/1broseidon/raylock/internal/geom"
	"github.com/1broseidon/raylock/internal/ipc"
	"github.com/1broseidon/raylock/internal/pane"
	"github.com/1broseidon/raylock/internal/render"
	"github.com/1broseidon/raylock/internal/x11"
)

// DefaultFrameInterval is the delay between two frames.
const DefaultFrameInterval = 50 * time.Millisecond

// ErrEventLoopStopped is returned by Run when the X connection goes away.
var ErrEventLoopStopped = errors.New("X event loop stopped")

// Options configures a Locker.
type Options struct {
	Tree          *pane.Node
	Theme         pane.Theme
	State         *auth.State
	FrameInterval time.Duration
	Logger        *slog.Logger
	Now           func() time.Time
}

// Locker drives the frame loop. Only the goroutine inside Run touches the
// tree and the canvas; the summary served to IPC clients is guarded by mu.
type Locker struct {
	scene    Scene
	canvas   *render.Canvas
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	bounds     image.Rectangle
	ringCenter geom.Point
	blitFailed bool

	mu       sync.Mutex
	since    time.Time
	layout   ipc.LayoutData
	monitors []x11.Monitor
}

var _ ipc.Provider = (*Locker)(nil)

// New creates a locker. Nothing touches the X server until Run.
func New(opts Options) *Locker {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.State == nil {
		opts.State = auth.NewState()
	}
	return &Locker{
		scene: Scene{
			Tree:  opts.Tree,
			Theme: opts.Theme,
			State: opts.State,
			Radii: auth.DefaultRadii(),
		},
		interval: opts.FrameInterval,
		logger:   opts.Logger,
		now:      opts.Now,
		since:    opts.Now(),
	}
}

// Resize lays the tree out for a viewport and reallocates the frame buffer.
// On a layout error the previous layout and buffer are kept.
func (l *Locker) Resize(bounds image.Rectangle, monitors []x11.Monitor) error {
	rect := geom.RectXYWH(0, 0, float64(bounds.Dx()), float64(bounds.Dy()))
	if l.scene.Tree != nil {
		if err := l.scene.Tree.Precalc(rect, l.scene.Theme); err != nil {
			return err
		}
	}

	if l.canvas == nil {
		l.canvas = render.NewCanvas(bounds.Dx(), bounds.Dy())
	} else {
		l.canvas.Resize(bounds.Dx(), bounds.Dy())
	}
	l.bounds = bounds
	l.ringCenter = ringCenter(bounds, monitors)

	var leaves []pane.LeafInfo
	if l.scene.Tree != nil {
		leaves = l.scene.Tree.Leaves()
	}

	l.mu.Lock()
	l.layout = layoutData(rect, leaves)
	l.monitors = append([]x11.Monitor(nil), monitors...)
	l.mu.Unlock()

	l.logger.Debug("layout resolved", "width", bounds.Dx(), "height", bounds.Dy(), "leaves", len(leaves))
	return nil
}

// ringCenter is the centre of the first monitor in window coordinates, or
// of the whole viewport without monitors.
func ringCenter(bounds image.Rectangle, monitors []x11.Monitor) geom.Point {
	r := bounds
	if len(monitors) > 0 {
		r = monitors[0].Rect().Sub(bounds.Min)
	}
	return geom.Pt(float64(r.Min.X+r.Max.X)/2, float64(r.Min.Y+r.Max.Y)/2)
}

// Frame draws one frame into the canvas and returns it.
func (l *Locker) Frame() *image.RGBA {
	if l.canvas == nil {
		return nil
	}
	l.scene.Draw(l.canvas, l.canvas.Bounds(), l.ringCenter)
	return l.canvas.Image()
}

// HandleKey applies a translated key press to the password buffer.
func (l *Locker) HandleKey(k x11.Key) {
	st := l.scene.State
	switch k.Action {
	case x11.KeyAppend:
		st.Append(k.Rune)
	case x11.KeyErase:
		st.Backspace()
	case x11.KeyClear:
		st.Clear()
	case x11.KeySubmit:
		st.Submit()
	}
}

// Run maps the overlay, grabs input and renders frames until ctx is done.
// X callbacks and frames are serialized on the calling goroutine.
func (l *Locker) Run(ctx context.Context, conn *x11.Connection, viewport image.Rectangle) error {
	monitors, err := conn.GetMonitors()
	if err != nil {
		l.logger.Debug("monitor query failed", "err", err)
	}
	if viewport.Empty() {
		viewport = conn.Viewport()
	}
	if err := l.Resize(viewport, pointerFirst(conn, monitors)); err != nil {
		return err
	}

	overlay, err := x11.NewOverlay(conn, viewport, l.logger)
	if err != nil {
		return err
	}
	defer overlay.Close()

	if err := overlay.Grab(x11.DefaultGrabTimeout); err != nil {
		return err
	}
	overlay.OnKey(l.HandleKey)

	if err := conn.WatchRoot(func(w, h int) {
		bounds := image.Rect(0, 0, w, h)
		mons, _ := conn.GetMonitors()
		if err := l.Resize(bounds, pointerFirst(conn, mons)); err != nil {
			l.logger.Warn("layout failed after resize; keeping previous layout", "err", err)
			return
		}
		overlay.Resize(bounds)
	}); err != nil {
		l.logger.Warn("resize tracking unavailable", "err", err)
	}

	before, after, quit := conn.Ping()
	defer conn.Quit()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.draw(overlay)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-before:
			<-after
		case <-ticker.C:
			l.draw(overlay)
		case <-quit:
			return ErrEventLoopStopped
		}
	}
}

func (l *Locker) draw(overlay *x11.Overlay) {
	img := l.Frame()
	if img == nil {
		return
	}
	if err := overlay.Blit(img); err != nil {
		if !l.blitFailed {
			l.logger.Warn("frame upload failed", "err", err)
			l.blitFailed = true
		}
		return
	}
	l.blitFailed = false
}

// pointerFirst moves the monitor under the pointer to the front.
func pointerFirst(conn *x11.Connection, monitors []x11.Monitor) []x11.Monitor {
	mon, ok := conn.PointerMonitor(monitors)
	if !ok {
		return monitors
	}
	out := []x11.Monitor{mon}
	for _, m := range monitors {
		if m.ID != mon.ID {
			out = append(out, m)
		}
	}
	return out
}
