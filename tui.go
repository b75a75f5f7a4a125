package main

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type Mode int

const (
	ModeNormal Mode = iota
	ModeEdit
	ModeInsert
	ModeConfirm
)

// tickMsg drives change polling and the debounced rebuild.
type tickMsg time.Time

const tickInterval = 100 * time.Millisecond

type uiModel struct {
	width  int
	height int

	provider *FileProvider
	funcName string
	cfg      *Config
	theme    Theme

	root    *Node
	layout  *Layout
	hit     HitIndex
	view    ViewTransform
	measure cellMeasurer

	cursorX int
	cursorY int
	zPan    bool

	mode       Mode
	input      textinput.Model
	selected   *Node
	confirmRef Ref

	refresh *refresher
	stamp   Stamp

	help           bool
	errorMessage   string
	successMessage string

	canvas *cellCanvas
}

func newUIModel(provider *FileProvider, funcName string, cfg *Config) (*uiModel, error) {
	theme, err := ParseTheme(cfg.Theme)
	if err != nil {
		theme = ThemeAuto
	}
	stamp, _ := provider.Stamp()

	input := textinput.New()
	input.CharLimit = 0
	input.Prompt = "> "

	m := &uiModel{
		provider: provider,
		funcName: funcName,
		cfg:      cfg,
		theme:    theme,
		view:     NewViewTransform(),
		input:    input,
		refresh:  newRefresher(cfg.Debounce()),
		stamp:    stamp,
	}
	if err := m.rebuild(); err != nil {
		return nil, err
	}
	return m, nil
}

// rebuild replaces the diagram tree wholesale from a fresh snapshot.
// The view transform is untouched, so pan and zoom survive; the
// selection is dropped if its source statement is gone.
func (m *uiModel) rebuild() error {
	fn, err := m.provider.Snapshot(m.funcName)
	if err != nil {
		return err
	}
	m.funcName = fn.Name
	m.root = BuildFunc(fn)
	m.layout = MeasureNode(m.root, m.measure)
	m.layout.Place(Rect{X: 0, Y: 0, W: round(m.layout.Box.W), H: round(m.layout.Box.H)})
	if m.selected != nil && !m.provider.Valid(m.selected.Ref) {
		m.selected = nil
	}
	return nil
}

func (m *uiModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorInBounds()
		return m, nil

	case tickMsg:
		now := time.Time(msg)
		if stamp, err := m.provider.Stamp(); err == nil && stamp != m.stamp {
			m.stamp = stamp
			m.refresh.Notify(now)
		}
		if m.refresh.Due(now) {
			if err := m.provider.Reload(); err != nil {
				m.errorMessage = err.Error()
			} else if err := m.rebuild(); err != nil {
				m.errorMessage = err.Error()
			} else {
				m.successMessage = "reloaded"
			}
		}
		return m, tick()

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case tea.KeyMsg:
		if m.help {
			m.help = false
			return m, nil
		}
		switch m.mode {
		case ModeEdit, ModeInsert:
			return m.handleInputKey(msg)
		case ModeConfirm:
			return m.handleConfirmKey(msg), nil
		}
		return m.handleNormalKey(msg)
	}
	return m, nil
}

func (m *uiModel) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	speed := 1
	switch key {
	case "H", "J", "K", "L", "shift+left", "shift+right", "shift+up", "shift+down":
		speed = 4
	}

	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "?":
		m.help = true
	case "z":
		m.zPan = !m.zPan
	case "h", "left", "H", "shift+left":
		m.moveOrPan(-speed, 0)
	case "l", "right", "L", "shift+right":
		m.moveOrPan(speed, 0)
	case "k", "up", "K", "shift+up":
		m.moveOrPan(0, -speed)
	case "j", "down", "J", "shift+down":
		m.moveOrPan(0, speed)
	case "+", "=":
		m.zoomAtCursor(true)
	case "-", "_":
		m.zoomAtCursor(false)
	case "0":
		m.view.Reset()
	case "enter", " ":
		m.selectUnderCursor()
	case "g":
		m.showSourceLocation()
	case "y":
		m.yankSelected()
	case "e":
		m.startEdit()
	case "i":
		m.startInsert()
	case "x", "d":
		m.startDelete()
	case "t":
		m.cycleTheme()
	case "r":
		m.refresh.Notify(time.Now().Add(-m.cfg.Debounce()))
	case "esc":
		m.selected = nil
		m.zPan = false
		m.errorMessage = ""
		m.successMessage = ""
	}
	return m, nil
}

func (m *uiModel) moveOrPan(dx, dy int) {
	if m.zPan {
		m.view.Pan(float64(-dx)*cellWidth, float64(-dy)*cellHeight)
		return
	}
	m.cursorX += dx
	m.cursorY += dy
	m.ensureCursorInBounds()
}

func (m *uiModel) ensureCursorInBounds() {
	if m.cursorX < 0 {
		m.cursorX = 0
	}
	if m.cursorY < 0 {
		m.cursorY = 0
	}
	if m.width > 0 && m.cursorX >= m.width {
		m.cursorX = m.width - 1
	}
	if m.height > 1 && m.cursorY >= m.height-1 {
		m.cursorY = m.height - 2
	}
}

func (m *uiModel) zoomAtCursor(in bool) {
	sx := (float64(m.cursorX) + 0.5) * cellWidth
	sy := (float64(m.cursorY) + 0.5) * cellHeight
	m.view.ZoomAt(sx, sy, in)
}

// nodeUnderCursor maps the cursor cell through the view transform into
// logical coordinates and asks the hit index.
func (m *uiModel) nodeUnderCursor() *Node {
	if m.canvas == nil {
		return nil
	}
	lx, ly := m.canvas.cellToLogical(m.cursorX, m.cursorY)
	return m.hit.Resolve(lx, ly)
}

func (m *uiModel) selectUnderCursor() {
	node := m.nodeUnderCursor()
	if node == nil {
		m.errorMessage = "nothing here"
		return
	}
	m.selected = node
	m.errorMessage = ""
	if node.Ref.IsZero() {
		m.successMessage = "selected (no source statement)"
		return
	}
	m.successMessage = fmt.Sprintf("line %d: %s", m.provider.Line(node.Ref), firstLine(m.provider.Text(node.Ref)))
}

func (m *uiModel) showSourceLocation() {
	node := m.currentTarget()
	if node == nil {
		return
	}
	m.successMessage = fmt.Sprintf("%s:%d", m.provider.path, m.provider.Line(node.Ref))
}

// currentTarget is the selected node, falling back to the node under
// the cursor. Stale references are rejected before any action runs.
func (m *uiModel) currentTarget() *Node {
	node := m.selected
	if node == nil {
		node = m.nodeUnderCursor()
	}
	if node == nil || node.Ref.IsZero() {
		m.errorMessage = "no statement selected"
		return nil
	}
	if !m.provider.Valid(node.Ref) {
		m.errorMessage = "statement changed under you, waiting for reload"
		return nil
	}
	return node
}

func (m *uiModel) yankSelected() {
	node := m.currentTarget()
	if node == nil {
		return
	}
	if err := clipboard.WriteAll(m.provider.Text(node.Ref)); err != nil {
		m.errorMessage = "clipboard: " + err.Error()
		return
	}
	m.successMessage = "yanked statement"
}

func (m *uiModel) startEdit() {
	node := m.currentTarget()
	if node == nil {
		return
	}
	m.selected = node
	m.input.SetValue(m.provider.Text(node.Ref))
	m.input.CursorEnd()
	m.input.Focus()
	m.mode = ModeEdit
	m.errorMessage = ""
}

func (m *uiModel) startInsert() {
	node := m.currentTarget()
	if node == nil {
		return
	}
	m.selected = node
	m.input.SetValue("")
	m.input.Focus()
	m.mode = ModeInsert
	m.errorMessage = ""
}

func (m *uiModel) startDelete() {
	node := m.currentTarget()
	if node == nil {
		return
	}
	m.confirmRef = node.Ref
	m.mode = ModeConfirm
}

func (m *uiModel) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil
	case "enter":
		text := m.input.Value()
		wasInsert := m.mode == ModeInsert
		m.mode = ModeNormal
		m.input.Blur()
		m.applyInput(text, wasInsert)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// applyInput runs the pending edit or insert through the provider. A
// rejected edit reports the offending text and leaves the source
// untouched; a successful one rebuilds immediately.
func (m *uiModel) applyInput(text string, insert bool) {
	if m.selected == nil {
		return
	}
	if text == "" {
		m.errorMessage = "empty statement, nothing applied"
		return
	}
	ref := m.selected.Ref
	var err error
	if insert {
		err = m.provider.InsertAfter(ref, text)
	} else {
		err = m.provider.Replace(ref, text)
	}
	if err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.afterMutation("applied")
}

func (m *uiModel) handleConfirmKey(msg tea.KeyMsg) tea.Model {
	switch msg.String() {
	case "y", "enter":
		m.mode = ModeNormal
		if err := m.provider.Delete(m.confirmRef); err != nil {
			m.errorMessage = err.Error()
			return m
		}
		m.selected = nil
		m.afterMutation("deleted")
	case "n", "esc", "q":
		m.mode = ModeNormal
	}
	return m
}

// afterMutation rebuilds right away instead of waiting out the
// debounce: our own writes are not an external edit storm.
func (m *uiModel) afterMutation(what string) {
	if stamp, err := m.provider.Stamp(); err == nil {
		m.stamp = stamp
	}
	if err := m.rebuild(); err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.successMessage = what
}

func (m *uiModel) cycleTheme() {
	switch m.theme {
	case ThemeAuto:
		m.theme = ThemeLight
	case ThemeLight:
		m.theme = ThemeDark
	default:
		m.theme = ThemeAuto
	}
	m.successMessage = "theme: " + m.theme.String()
}

func (m *uiModel) handleMouse(msg tea.MouseMsg) tea.Model {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.cursorX, m.cursorY = msg.X, msg.Y
		m.zoomAtCursor(true)
	case tea.MouseButtonWheelDown:
		m.cursorX, m.cursorY = msg.X, msg.Y
		m.zoomAtCursor(false)
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress {
			m.cursorX, m.cursorY = msg.X, msg.Y
			m.ensureCursorInBounds()
			m.selectUnderCursor()
		}
	}
	return m
}

func (m *uiModel) View() string {
	if m.width < 1 || m.height < 2 {
		return "loading..."
	}
	if m.help {
		return m.helpView()
	}

	m.canvas = newCellCanvas(m.width, m.height-1, &m.view)
	RenderDiagram(m.layout, m.canvas, m.measure, &m.hit)

	// Cursor overlay goes on after the diagram so it is always visible.
	if m.mode == ModeNormal {
		m.canvas.set(m.cursorX, m.cursorY, '█')
	}

	style := m.diagramStyle()
	lines := m.canvas.Lines()
	for i, line := range lines {
		lines[i] = style.Render(line)
	}

	out := ""
	for _, line := range lines {
		out += line + "\n"
	}
	return out + m.statusBar()
}

func (m *uiModel) diagramStyle() lipgloss.Style {
	dark := m.theme == ThemeDark
	if m.theme == ThemeAuto {
		dark = lipgloss.HasDarkBackground()
	}
	if dark {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("235"))
}

func (m *uiModel) statusBar() string {
	barStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("57")).
		Foreground(lipgloss.Color("231")).
		Width(m.width)

	switch m.mode {
	case ModeEdit:
		return barStyle.Render("EDIT " + m.input.View())
	case ModeInsert:
		return barStyle.Render("INSERT " + m.input.View())
	case ModeConfirm:
		return barStyle.Render("delete statement? (y/n)")
	}

	status := fmt.Sprintf("strukt · %s · %d%%", m.funcName, int(m.view.Scale*100+0.5))
	if m.zPan {
		status += " · PAN"
	}
	if m.errorMessage != "" {
		status += " · ✗ " + m.errorMessage
	} else if m.successMessage != "" {
		status += " · " + m.successMessage
	}
	return barStyle.Render(status)
}

func (m *uiModel) helpView() string {
	return `strukt help
===========

Navigation:
  h/j/k/l, arrows   Move cursor (Shift = faster)
  z                 Toggle pan mode (then h/j/k/l pans)
  +/-               Zoom in/out at cursor
  0                 Reset pan and zoom
  mouse wheel       Zoom at pointer, left click selects

Diagram:
  enter/space       Select block under cursor
  g                 Show source location of selection
  y                 Yank raw statement to clipboard
  e                 Edit statement in place
  i                 Insert statement after selection
  x/d               Delete statement (asks first)
  r                 Force reload

Other:
  t                 Cycle theme (auto/light/dark)
  ?                 This help (any key closes)
  q/Ctrl+C          Quit
`
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i] + "…"
		}
	}
	return s
}
