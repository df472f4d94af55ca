package widget

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/1broseidon/raylock/internal/geom"
	"github.com/1broseidon/raylock/internal/render"
	"github.com/dustin/go-humanize"
)

const (
	// BarHeight is the height of the column header bar.
	BarHeight = 16.0
	// RowHeight is the height of one process row.
	RowHeight = 24.0

	tableRefresh    = 500 * time.Millisecond
	tableSortSwap   = 5 * time.Second
	columnPadding   = 10.0
	percentBarInset = 3.0
)

// SortKey orders the process table.
type SortKey int

const (
	SortCPU SortKey = iota
	SortMemory
)

func (k SortKey) String() string {
	if k == SortMemory {
		return "memory"
	}
	return "cpu"
}

type column struct {
	title string
	start float64 // fraction of the table width
	width float64
}

var tableColumns = []column{
	{title: "PID", start: 0, width: 0.1},
	{title: "Name", start: 0.1, width: 0.2},
	{title: "Command", start: 0.3, width: 0.5},
	{title: "CPU %", start: 0.8, width: 0.1},
	{title: "Mem %", start: 0.9, width: 0.1},
}

// ProcTable lists the top processes, alternating between CPU and memory
// ordering every few seconds.
type ProcTable struct {
	deps     Deps
	tick     throttle
	lastSwap time.Time
	sortBy   SortKey
	rows     int
	procs    []Process
	fail     failOnce
}

func NewProcTable(deps Deps) *ProcTable {
	return &ProcTable{deps: deps.withDefaults(), tick: throttle{every: tableRefresh}}
}

// VisibleRows returns how many rows fit in the table height, never negative.
func VisibleRows(innerHeight float64) int {
	rows := math.Floor((innerHeight - BarHeight) / RowHeight)
	if rows < 0 || math.IsNaN(rows) {
		return 0
	}
	return int(rows)
}

// Resize recomputes the number of visible rows.
func (t *ProcTable) Resize(inner geom.Rect) {
	t.rows = VisibleRows(inner.Height())
	if len(t.procs) > t.rows {
		t.procs = t.procs[:t.rows]
	}
}

// Rows returns the number of visible rows.
func (t *ProcTable) Rows() int { return t.rows }

// SortKey returns the current ordering.
func (t *ProcTable) SortKey() SortKey { return t.sortBy }

// Processes returns the rows shown on the next render.
func (t *ProcTable) Processes() []Process {
	return append([]Process(nil), t.procs...)
}

func (t *ProcTable) Update() {
	now := t.deps.Now()
	if !t.tick.due(now) {
		return
	}
	if t.lastSwap.IsZero() {
		t.lastSwap = now
	} else if now.Sub(t.lastSwap) > tableSortSwap {
		if t.sortBy == SortCPU {
			t.sortBy = SortMemory
		} else {
			t.sortBy = SortCPU
		}
		t.lastSwap = now
	}

	procs, err := t.deps.Source.Processes()
	if err != nil {
		t.fail.report(t.deps.Logger, "proc", err)
		return
	}
	sortProcesses(procs, t.sortBy)
	if len(procs) > t.rows {
		procs = procs[:t.rows]
	}
	t.procs = procs
}

func sortProcesses(procs []Process, by SortKey) {
	sort.SliceStable(procs, func(i, j int) bool {
		a, b := procs[i], procs[j]
		switch by {
		case SortMemory:
			if a.RSS != b.RSS {
				return a.RSS > b.RSS
			}
		default:
			if a.CPUPercent != b.CPUPercent {
				return a.CPUPercent > b.CPUPercent
			}
		}
		return a.PID < b.PID
	})
}

func (t *ProcTable) Render(p render.Painter, r geom.Rect) {
	if r.Empty() {
		return
	}
	pal := t.deps.Palette
	size := t.deps.TextSize * 0.8

	header := geom.RectFromMinMax(r.Min, geom.Pt(r.Max.X, r.Min.Y+BarHeight))
	p.FillRect(header, pal.Panel)
	for i, col := range tableColumns {
		title := col.title
		if (i == 3 && t.sortBy == SortCPU) || (i == 4 && t.sortBy == SortMemory) {
			title += " *"
		}
		x := r.Min.X + r.Width()*col.start + columnPadding
		p.Text(title, geom.Pt(x, header.Center().Y), render.TextStyle{Size: size * 0.85, Color: pal.Muted, Anchor: render.AnchorLeftCenter})
	}

	for i, proc := range t.procs {
		top := header.Max.Y + float64(i)*RowHeight
		if top+RowHeight > r.Max.Y {
			break
		}
		row := geom.RectFromMinMax(geom.Pt(r.Min.X, top), geom.Pt(r.Max.X, top+RowHeight))
		fill := pal.Panel
		if i%2 == 1 {
			fill = pal.PanelAlt
		}
		p.FillRect(row, fill)

		cells := []string{
			strconv.Itoa(int(proc.PID)),
			fmt.Sprintf("%s (%s)", proc.Name, humanize.IBytes(proc.RSS)),
			proc.Command,
		}
		style := render.TextStyle{Size: size, Color: pal.Text, Anchor: render.AnchorLeftCenter}
		for c, text := range cells {
			col := tableColumns[c]
			x := r.Min.X + r.Width()*col.start + columnPadding
			maxWidth := r.Width()*col.width - columnPadding
			p.Text(fitText(p, text, maxWidth, size), geom.Pt(x, row.Center().Y), style)
		}

		t.drawBar(p, t.cell(row, tableColumns[3]), proc.CPUPercent)
		t.drawBar(p, t.cell(row, tableColumns[4]), proc.MemoryPercent)
	}
}

func (t *ProcTable) cell(row geom.Rect, col column) geom.Rect {
	x0 := row.Min.X + row.Width()*col.start
	x1 := x0 + row.Width()*col.width
	return geom.RectFromMinMax(
		geom.Pt(x0+percentBarInset, row.Min.Y+percentBarInset),
		geom.Pt(x1-percentBarInset, row.Max.Y-percentBarInset),
	)
}

func (t *ProcTable) drawBar(p render.Painter, r geom.Rect, pct float64) {
	if r.Empty() {
		return
	}
	pal := t.deps.Palette
	p.FillRect(r, pal.Bar)
	frac := math.Max(0, math.Min(pct/100, 1))
	if frac > 0 {
		p.FillRect(geom.RectFromMinMax(r.Min, geom.Pt(r.Min.X+r.Width()*frac, r.Max.Y)), pal.Accent)
	}
	p.Text(fmt.Sprintf("%.1f%%", pct), r.Center(), render.TextStyle{Size: t.deps.TextSize * 0.7, Color: pal.Text, Anchor: render.AnchorCenter})
}

// fitText cuts s so that it measures at most maxWidth.
func fitText(p render.Painter, s string, maxWidth, size float64) string {
	if maxWidth <= 0 {
		return ""
	}
	if w, _ := p.MeasureText(s, size); w <= maxWidth {
		return s
	}
	runes := []rune(s)
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if w, _ := p.MeasureText(string(runes[:mid]), size); w <= maxWidth {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return string(runes[:lo])
}
