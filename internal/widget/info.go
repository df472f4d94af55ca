package widget

import (
	"fmt"
	"time"

	"github.com/1broseidon/raylock/internal/geom"
	"github.com/1broseidon/raylock/internal/render"
)

// InfoPane shows the wall clock, battery state and the OS description.
type InfoPane struct {
	deps     Deps
	tick     throttle
	battery  Battery
	platform string
	fail     failOnce
}

func NewInfoPane(deps Deps) *InfoPane {
	return &InfoPane{deps: deps.withDefaults(), tick: throttle{every: UpdateInterval}}
}

func (w *InfoPane) Update() {
	if !w.tick.due(w.deps.Now()) {
		return
	}
	if w.platform == "" {
		if platform, err := w.deps.Source.Platform(); err == nil {
			w.platform = platform
		} else {
			w.fail.report(w.deps.Logger, "info", err)
		}
	}
	bat, err := w.deps.Source.Battery()
	if err != nil {
		w.fail.report(w.deps.Logger, "info", err)
		return
	}
	w.battery = bat
}

// Lines returns the text rows drawn by Render.
func (w *InfoPane) Lines() []string {
	now := w.deps.Now()
	lines := []string{
		"TIME: " + now.Format("15:04:05 MST (2006-01-02)"),
		"BAT:  " + formatBattery(w.battery),
	}
	platform := w.platform
	if platform == "" {
		platform = "unknown"
	}
	return append(lines, "OS:   "+platform)
}

func formatBattery(b Battery) string {
	if !b.Present {
		return "none"
	}
	out := fmt.Sprintf("%.0f%% %s", b.Percent, b.State)
	if b.Remaining > 0 {
		out += fmt.Sprintf(" (%s)", b.Remaining.Round(time.Minute))
	}
	if b.RateWatts > 0 {
		out += fmt.Sprintf(" (%.1f W)", b.RateWatts)
	}
	return out
}

func (w *InfoPane) Render(p render.Painter, r geom.Rect) {
	size := w.deps.TextSize
	lineHeight := size * 1.25
	style := render.TextStyle{Size: size, Color: w.deps.Palette.Text, Anchor: render.AnchorLeftTop}
	for i, line := range w.Lines() {
		y := r.Min.Y + graphPadding + float64(i)*lineHeight
		if y+size > r.Max.Y {
			break
		}
		p.Text(fitText(p, line, r.Width()-2*graphPadding, size), geom.Pt(r.Min.X+graphPadding, y), style)
	}
}
