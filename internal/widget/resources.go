package widget

import (
	"fmt"

	"github.com/1broseidon/raylock/internal/geom"
	"github.com/1broseidon/raylock/internal/render"
	"github.com/dustin/go-humanize"
)

const (
	kib = 1024.0
	mib = 1024.0 * 1024.0
	gib = 1024.0 * 1024.0 * 1024.0
)

// CPUGraph plots per-CPU utilisation in percent.
type CPUGraph struct {
	deps  Deps
	graph *Graph
	tick  throttle
	fail  failOnce
}

func NewCPUGraph(deps Deps) *CPUGraph {
	deps = deps.withDefaults()
	g := NewGraph(0, 100, deps.Now)
	g.SetFormat(func(v float64) string { return fmt.Sprintf("%.0f%%", v) })
	return &CPUGraph{deps: deps, graph: g, tick: throttle{every: UpdateInterval}}
}

func (w *CPUGraph) Update() {
	if !w.tick.due(w.deps.Now()) {
		return
	}
	pcts, err := w.deps.Source.CPUPercents()
	if err != nil {
		w.fail.report(w.deps.Logger, "cpu", err)
		return
	}
	for w.graph.Lines() < len(pcts) {
		i := w.graph.Lines()
		w.graph.AddLine(fmt.Sprintf("CPU %d", i), w.deps.Palette.LineColor(i))
	}
	for i, v := range pcts {
		w.graph.Push(i, v)
	}
}

func (w *CPUGraph) Render(p render.Painter, r geom.Rect) {
	w.graph.Render(p, r, w.deps.Palette, w.deps.TextSize)
}

// Graph exposes the underlying plot.
func (w *CPUGraph) Graph() *Graph { return w.graph }

// MemGraph plots used and cached memory in GiB against total memory.
type MemGraph struct {
	deps  Deps
	graph *Graph
	tick  throttle
	fail  failOnce
}

func NewMemGraph(deps Deps) *MemGraph {
	deps = deps.withDefaults()
	g := NewGraph(0, 1, deps.Now)
	g.SetFormat(func(v float64) string { return humanize.IBytes(uint64(v * gib)) })
	g.AddLine("Used", deps.Palette.LineColor(0))
	g.AddLine("Cached", deps.Palette.LineColor(1))
	return &MemGraph{deps: deps, graph: g, tick: throttle{every: UpdateInterval}}
}

func (w *MemGraph) Update() {
	if !w.tick.due(w.deps.Now()) {
		return
	}
	stats, err := w.deps.Source.Memory()
	if err != nil {
		w.fail.report(w.deps.Logger, "mem", err)
		return
	}
	if stats.Total > 0 {
		w.graph.SetRange(0, float64(stats.Total)/gib)
	}
	w.graph.Push(0, float64(stats.Used)/gib)
	w.graph.Push(1, float64(stats.Cached)/gib)
}

func (w *MemGraph) Render(p render.Painter, r geom.Rect) {
	w.graph.Render(p, r, w.deps.Palette, w.deps.TextSize)
}

func (w *MemGraph) Graph() *Graph { return w.graph }

// ioGraph plots two counter rates with a self-fitting upper bound.
type ioGraph struct {
	deps  Deps
	name  string
	unit  float64
	read  func() (IOCounters, error)
	graph *Graph
	meter rateMeter
	tick  throttle
	fail  failOnce
}

func newIOGraph(deps Deps, name string, unit float64, inName, outName string, read func() (IOCounters, error)) *ioGraph {
	g := NewGraph(0, 1, deps.Now)
	g.SetFormat(func(v float64) string { return humanize.IBytes(uint64(v*unit)) + "/s" })
	g.AddLine(outName, deps.Palette.LineColor(1))
	g.AddLine(inName, deps.Palette.LineColor(2))
	return &ioGraph{
		deps:  deps,
		name:  name,
		unit:  unit,
		read:  read,
		graph: g,
		tick:  throttle{every: UpdateInterval},
	}
}

func (w *ioGraph) Update() {
	now := w.deps.Now()
	if !w.tick.due(now) {
		return
	}
	counters, err := w.read()
	if err != nil {
		w.fail.report(w.deps.Logger, w.name, err)
		return
	}
	in, out, ok := w.meter.rates(counters, now)
	if !ok {
		return
	}
	w.graph.Push(0, out/w.unit)
	w.graph.Push(1, in/w.unit)
	w.graph.RedoMax()
}

func (w *ioGraph) Render(p render.Painter, r geom.Rect) {
	w.graph.Render(p, r, w.deps.Palette, w.deps.TextSize)
}

func (w *ioGraph) Graph() *Graph { return w.graph }

// NetGraph plots upload and download rates in KiB/s.
type NetGraph struct{ *ioGraph }

func NewNetGraph(deps Deps) *NetGraph {
	deps = deps.withDefaults()
	return &NetGraph{newIOGraph(deps, "net", kib, "Down", "Up", deps.Source.NetIO)}
}

// DiskGraph plots read and write rates in MiB/s.
type DiskGraph struct{ *ioGraph }

func NewDiskGraph(deps Deps) *DiskGraph {
	deps = deps.withDefaults()
	return &DiskGraph{newIOGraph(deps, "disk", mib, "Read", "Write", deps.Source.DiskIO)}
}
