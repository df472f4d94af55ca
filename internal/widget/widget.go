// Package widget implements the telemetry panels hosted by leaf panes.
package widget

import (
	"io"
	"log/slog"
	"time"

	"github.com/1broseidon/raylock/internal/geom"
	"github.com/1broseidon/raylock/internal/render"
)

// UpdateInterval is how often graphs and the info pane poll their source.
const UpdateInterval = 500 * time.Millisecond

// Widget is the content of a leaf pane. Update is called once per frame and
// rate-limits itself; Render draws inside r only.
type Widget interface {
	Update()
	Render(p render.Painter, r geom.Rect)
}

// Sizer is implemented by widgets whose content depends on the size of their
// rectangle. Resize is called from the layout pass, not every frame.
type Sizer interface {
	Resize(inner geom.Rect)
}

// Deps carries what every widget needs from its host.
type Deps struct {
	Source   Source
	Palette  render.Palette
	TextSize float64
	Now      func() time.Time
	Logger   *slog.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Source == nil {
		d.Source = SystemSource{}
	}
	if d.Palette.Text == nil {
		d.Palette = render.DefaultPalette()
	}
	if d.TextSize <= 0 {
		d.TextSize = 16
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Logger == nil {
		d.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return d
}

// New creates the widget for kind. KindNone and unknown kinds get a Blank.
func New(kind Kind, deps Deps) Widget {
	deps = deps.withDefaults()
	switch kind {
	case KindInfo:
		return NewInfoPane(deps)
	case KindCPUGraph:
		return NewCPUGraph(deps)
	case KindMemGraph:
		return NewMemGraph(deps)
	case KindNetGraph:
		return NewNetGraph(deps)
	case KindDiskGraph:
		return NewDiskGraph(deps)
	case KindProcTable:
		return NewProcTable(deps)
	default:
		return Blank{}
	}
}

// Blank draws nothing.
type Blank struct{}

func (Blank) Update()                          {}
func (Blank) Render(render.Painter, geom.Rect) {}

// throttle gates work to at most once per interval. The first call is
// always due.
type throttle struct {
	every  time.Duration
	last   time.Time
	primed bool
}

func (t *throttle) due(now time.Time) bool {
	if t.primed && now.Sub(t.last) < t.every {
		return false
	}
	t.last = now
	t.primed = true
	return true
}

// failOnce logs the first telemetry failure of a widget at debug level.
type failOnce struct {
	logged bool
}

func (f *failOnce) report(logger *slog.Logger, widget string, err error) {
	if f.logged {
		return
	}
	f.logged = true
	logger.Debug("telemetry unavailable", "widget", widget, "error", err)
}

// rateMeter turns monotonically increasing counters into per-second rates.
type rateMeter struct {
	prev   IOCounters
	at     time.Time
	primed bool
}

// rates returns the in/out byte rates since the previous sample. ok is false
// for the first sample. Counters that went backwards yield zero.
func (m *rateMeter) rates(c IOCounters, now time.Time) (in, out float64, ok bool) {
	prev, at, primed := m.prev, m.at, m.primed
	m.prev, m.at, m.primed = c, now, true
	if !primed {
		return 0, 0, false
	}
	dt := now.Sub(at).Seconds()
	if dt <= 0 {
		return 0, 0, false
	}
	if c.In >= prev.In {
		in = float64(c.In-prev.In) / dt
	}
	if c.Out >= prev.Out {
		out = float64(c.Out-prev.Out) / dt
	}
	return in, out, true
}
