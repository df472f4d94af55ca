package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/1broseidon/raylock/internal/geom"
	"github.com/1broseidon/raylock/internal/pane"
)

type boxRunes struct {
	h, v, tl, tr, bl, br rune
}

var (
	lightBox = boxRunes{'─', '│', '┌', '┐', '└', '┘'}
	heavyBox = boxRunes{'━', '┃', '┏', '┓', '┗', '┛'}
)

// cell is a leaf outline in canvas coordinates.
type cell struct {
	x1, y1, x2, y2 int
}

// renderMiniMap draws the resolved leaves scaled into a width x height
// character canvas. Leaves are numbered from 1 in render order; the selected
// leaf is drawn last with heavy lines.
func renderMiniMap(leaves []pane.LeafInfo, viewport geom.Rect, selected, width, height int) []string {
	if len(leaves) == 0 || width < 5 || height < 3 || viewport.Empty() {
		return emptyCanvas(width, height)
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for i, leaf := range leaves {
		if i == selected || !leaf.Geometry.Computed {
			continue
		}
		drawTile(canvas, toCell(leaf.Geometry.Outer, viewport, width, height), i+1, lightBox)
	}
	if selected >= 0 && selected < len(leaves) && leaves[selected].Geometry.Computed {
		drawTile(canvas, toCell(leaves[selected].Geometry.Outer, viewport, width, height), selected+1, heavyBox)
	}

	drawBorder(canvas, width, height)

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

func toCell(outer, viewport geom.Rect, canvasW, canvasH int) cell {
	sx := float64(canvasW-1) / viewport.Width()
	sy := float64(canvasH-1) / viewport.Height()
	return cell{
		x1: int(math.Round((outer.Min.X - viewport.Min.X) * sx)),
		y1: int(math.Round((outer.Min.Y - viewport.Min.Y) * sy)),
		x2: int(math.Round((outer.Max.X - viewport.Min.X) * sx)),
		y2: int(math.Round((outer.Max.Y - viewport.Min.Y) * sy)),
	}
}

func drawTile(canvas [][]rune, c cell, num int, box boxRunes) {
	canvasH := len(canvas)
	canvasW := len(canvas[0])

	x1, y1, x2, y2 := c.x1, c.y1, c.x2, c.y2
	if x1 < 1 {
		x1 = 1
	}
	if y1 < 1 {
		y1 = 1
	}
	if x2 >= canvasW-1 {
		x2 = canvasW - 2
	}
	if y2 >= canvasH-1 {
		y2 = canvasH - 2
	}
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for x := x1; x <= x2; x++ {
		canvas[y1][x] = box.h
		canvas[y2][x] = box.h
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = box.v
		canvas[y][x2] = box.v
	}
	canvas[y1][x1] = box.tl
	canvas[y1][x2] = box.tr
	canvas[y2][x1] = box.bl
	canvas[y2][x2] = box.br

	centerY := (y1 + y2) / 2
	centerX := (x1 + x2) / 2
	if centerY > y1 && centerY < y2 && centerX > x1 && centerX < x2 {
		label := fmt.Sprintf("%d", num)
		startX := centerX - len(label)/2
		for i, r := range label {
			if startX+i > x1 && startX+i < x2 {
				canvas[centerY][startX+i] = r
			}
		}
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}
	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}

func emptyCanvas(width, height int) []string {
	if height < 0 {
		height = 0
	}
	if width < 0 {
		width = 0
	}
	lines := make([]string, height)
	empty := strings.Repeat(" ", width)
	for i := range lines {
		lines[i] = empty
	}
	return lines
}

// renderTree prints the runtime tree one node per line, children indented
// under their split.
func renderTree(root *pane.Node) []string {
	if root == nil {
		return nil
	}
	var lines []string
	var walk func(n *pane.Node, depth int)
	walk = func(n *pane.Node, depth int) {
		lines = append(lines, strings.Repeat("  ", depth)+n.String())
		if n.IsLeaf() {
			return
		}
		a, b := n.Children()
		walk(a, depth+1)
		walk(b, depth+1)
	}
	walk(root, 0)
	return lines
}
