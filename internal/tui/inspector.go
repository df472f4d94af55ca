// Package tui is the terminal side of raylock: the layout inspector and the
// interactive config form.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/raylock/internal/geom"
	"github.com/1broseidon/raylock/internal/pane"
)

const (
	scaleStep = 1.1
	minScale  = 0.1
	maxScale  = 4.0
)

// leafItem implements list.Item for the leaf sidebar.
type leafItem struct {
	index int
	leaf  pane.LeafInfo
}

func (i leafItem) Title() string {
	return fmt.Sprintf("%d %s", i.index+1, i.leaf.Geometry.Label)
}

func (i leafItem) Description() string {
	return i.leaf.Path + " " + geom.FormatCorners(i.leaf.Corners)
}

func (i leafItem) FilterValue() string { return i.leaf.Path }

// statusMsg is shown in the tab status line until a clearStatusMsg arrives.
type statusMsg struct {
	text string
}

type clearStatusMsg struct{}

// model is the root bubbletea model of the inspector.
type model struct {
	tree   *pane.Node
	theme  pane.Theme
	base   geom.Rect
	scale  float64
	source string

	viewport geom.Rect
	leaves   []pane.LeafInfo
	list     list.Model

	activeTab  Tab
	statusText string

	width  int
	height int
}

// newModel resolves tree inside viewport and builds the inspector around it.
func newModel(tree *pane.Node, theme pane.Theme, viewport geom.Rect, source string) (model, error) {
	if err := tree.Precalc(viewport, theme); err != nil {
		return model{}, err
	}

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Leaves"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	m := model{
		tree:     tree,
		theme:    theme,
		base:     viewport,
		scale:    1,
		source:   source,
		viewport: viewport,
		list:     l,
	}
	m.refreshLeaves()
	return m, nil
}

// Inspect runs the inspector until the user quits.
func Inspect(tree *pane.Node, theme pane.Theme, viewport geom.Rect, source string) error {
	m, err := newModel(tree, theme, viewport, source)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m *model) refreshLeaves() {
	m.leaves = m.tree.Leaves()
	items := make([]list.Item, len(m.leaves))
	for i, leaf := range m.leaves {
		items[i] = leafItem{index: i, leaf: leaf}
	}
	m.list.SetItems(items)
}

// rescale resolves the tree again at base*scale. A failed pass leaves the
// previous geometry in place.
func (m model) rescale(scale float64) (model, tea.Cmd) {
	if scale < minScale || scale > maxScale {
		return m, showStatus(fmt.Sprintf("scale limited to %.1f-%.1f", minScale, maxScale))
	}
	vp := geom.RectXYWH(m.base.Min.X, m.base.Min.Y, m.base.Width()*scale, m.base.Height()*scale)
	if err := m.tree.Precalc(vp, m.theme); err != nil {
		return m, showStatus("error: " + err.Error())
	}
	m.scale = scale
	m.viewport = vp
	m.refreshLeaves()
	return m, showStatus(fmt.Sprintf("viewport %.0f×%.0f", vp.Width(), vp.Height()))
}

func showStatus(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func (m model) selected() int {
	if _, ok := m.list.SelectedItem().(leafItem); !ok {
		return -1
	}
	return m.list.Index()
}

// contentHeight is the height left between the bars.
func (m model) contentHeight() int {
	// status bar (1) + tab bar (2 with margin) + help bar (1)
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

func (m model) sidebarWidth() int {
	sw := m.width * 35 / 100
	if sw < 20 {
		sw = 20
	}
	if sw > 40 {
		sw = 40
	}
	return sw
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		listHeight := m.contentHeight() - 1
		if listHeight < 1 {
			listHeight = 1
		}
		m.list.SetSize(m.sidebarWidth(), listHeight)
		return m, nil

	case statusMsg:
		m.statusText = msg.text
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusText = ""
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case "1":
			m.activeTab = TabLeaves
			return m, nil
		case "2":
			m.activeTab = TabTree
			return m, nil
		case "+", "=":
			return m.rescale(m.scale * scaleStep)
		case "-":
			return m.rescale(m.scale / scaleStep)
		case "0":
			return m.rescale(1)
		}
	}

	if m.activeTab != TabLeaves {
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.viewport, len(m.leaves), m.source, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.width)

	usedHeight := lipgloss.Height(statusBar) + lipgloss.Height(tabBar) + lipgloss.Height(helpBar)
	contentHeight := m.height - usedHeight
	if contentHeight < 2 {
		contentHeight = 2
	}

	var content string
	switch m.activeTab {
	case TabTree:
		content = m.viewTree(contentHeight)
	default:
		content = m.viewLeaves(contentHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}

func (m model) viewLeaves(height int) string {
	bodyHeight := height - 1
	sidebarWidth := m.sidebarWidth()
	detailWidth := m.width - sidebarWidth - 3
	if detailWidth < 10 {
		detailWidth = 10
	}

	sidebar := lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(bodyHeight).
		Render(m.list.View())

	sep := lipgloss.NewStyle().
		Foreground(lipgloss.Color("238")).
		Render(strings.TrimSuffix(strings.Repeat("│\n", bodyHeight), "\n"))

	columns := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " "+sep, m.renderDetail(detailWidth, bodyHeight))
	return lipgloss.JoinVertical(lipgloss.Left, columns, m.renderTabStatus())
}

func (m model) renderDetail(width, height int) string {
	idx := m.selected()
	if idx < 0 {
		return ""
	}
	leaf := m.leaves[idx]
	g := leaf.Geometry

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Render(fmt.Sprintf(" %s  [%s]", g.Label, leaf.Path))

	ratio := 0.0
	if a := g.Outer.Area(); a > 0 {
		ratio = g.Inner.Area() / a * 100
	}
	rows := detailRows(leaf, ratio)
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, " "+labelStyle.Render(r[0])+valueStyle.Render(r[1]))
	}

	mapHeight := height - len(lines) - 2
	if mapHeight < 3 {
		mapHeight = 3
	}
	miniMap := lipgloss.NewStyle().
		Foreground(lipgloss.Color("247")).
		Render(strings.Join(renderMiniMap(m.leaves, m.viewport, idx, width-2, mapHeight), "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n"), "", miniMap)
}

// detailRows lists the label/value pairs of the detail panel.
func detailRows(leaf pane.LeafInfo, ratio float64) [][2]string {
	g := leaf.Geometry
	return [][2]string{
		{"pane", leaf.PaneType.String()},
		{"corners", geom.FormatCorners(leaf.Corners)},
		{"outer", g.Outer.String()},
		{"inner", g.Inner.String()},
		{"coverage", fmt.Sprintf("%.1f%%", ratio)},
		{"title", g.Title.String()},
		{"border", fmt.Sprintf("%d points", len(g.Border))},
	}
}

func (m model) viewTree(height int) string {
	lines := renderTree(m.tree)
	if len(lines) > height {
		lines = lines[:height]
	}
	return lipgloss.NewStyle().
		Width(m.width).
		Height(height).
		Padding(0, 1).
		Foreground(lipgloss.Color("250")).
		Render(strings.Join(lines, "\n"))
}

func (m model) renderTabStatus() string {
	left := ""
	if m.statusText != "" {
		color := lipgloss.Color("42")
		if strings.HasPrefix(m.statusText, "error:") {
			color = lipgloss.Color("196")
		}
		left = lipgloss.NewStyle().Foreground(color).Render(m.statusText)
	}

	right := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render(fmt.Sprintf("scale:%.2f  j/k:select", m.scale))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", gap) + right)
}
