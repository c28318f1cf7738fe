// Package ui is the interactive terminal viewer. It lays out a rendered
// viewer document as text and turns key presses into clicks on its
// toggles, while bubbletea ticks run the chunks still queued on the
// instance.
package ui

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/jsonview/internal/formatter"
	"github.com/oakwood-commons/jsonview/internal/theme"
	"github.com/oakwood-commons/jsonview/pkg/viewer"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Options configures the terminal viewer.
type Options struct {
	Title     string
	Styles    theme.Styles
	KeyMode   KeyMode
	MaxString int
	Logger    logr.Logger
}

// turnMsg runs the next queued chunk of the instance.
type turnMsg struct{}

// Model is the bubbletea model of the viewer.
type Model struct {
	inst *viewer.Instance
	opts Options
	log  logr.Logger

	lines  []formatter.Line
	cursor int
	offset int

	width  int
	height int

	spinner  spinner.Model
	showHelp bool
	err      error
	quitting bool
}

// New returns a model for inst. Chunks still queued on inst are run by
// the program started from the model.
func New(inst *viewer.Instance, opts Options) *Model {
	if opts.KeyMode == "" {
		opts.KeyMode = DefaultKeyMode
	}
	if opts.Logger.GetSink() == nil {
		opts.Logger = logr.Discard()
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	m := &Model{
		inst:    inst,
		opts:    opts,
		log:     opts.Logger.WithName("ui"),
		width:   defaultWidth,
		height:  defaultHeight,
		spinner: s,
	}
	m.refresh()
	return m
}

// Init starts the spinner and the chunk ticks.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.scheduleTurn()}
	if m.inst.Pending() > 0 {
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// scheduleTurn waits for the next chunk's delay, or returns nil when the
// instance has nothing queued.
func (m *Model) scheduleTurn() tea.Cmd {
	delay, ok := m.inst.Next()
	if !ok {
		return nil
	}
	if delay <= 0 {
		return func() tea.Msg { return turnMsg{} }
	}
	return tea.Tick(delay, func(time.Time) tea.Msg { return turnMsg{} })
}

// Update handles window, tick and key messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.refresh()
		return m, nil
	case turnMsg:
		if m.inst.Turn() {
			m.refresh()
		}
		return m, m.scheduleTurn()
	case spinner.TickMsg:
		if m.inst.Pending() == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyPressMsg:
		return m, m.handleAction(ActionFor(m.opts.KeyMode, msg.String()))
	}
	return m, nil
}

func (m *Model) handleAction(action Action) tea.Cmd {
	switch action {
	case ActionDown:
		m.move(1)
	case ActionUp:
		m.move(-1)
	case ActionPageDown:
		m.move(m.bodyHeight())
	case ActionPageUp:
		m.move(-m.bodyHeight())
	case ActionTop:
		m.move(-len(m.lines))
	case ActionBottom:
		m.move(len(m.lines))
	case ActionToggle:
		if line, ok := m.current(); ok && line.Toggle != nil {
			m.inst.Click(line.Toggle)
			m.refresh()
		}
	case ActionCollapse:
		m.collapse()
	case ActionExpand:
		m.expand()
	case ActionCollapseAll:
		m.setErr(m.inst.CollapseAll())
		m.refresh()
	case ActionExpandAll:
		m.setErr(m.inst.ExpandAll())
		m.refresh()
	case ActionHelp:
		m.showHelp = !m.showHelp
		m.clamp()
	case ActionQuit:
		m.quitting = true
		return tea.Quit
	}
	return nil
}

func (m *Model) setErr(err error) {
	m.err = err
	if err != nil {
		m.log.Error(err, "viewer action failed")
	}
}

// collapse closes the node on the cursor line, or moves to the line
// opening the enclosing node.
func (m *Model) collapse() {
	line, ok := m.current()
	if !ok {
		return
	}
	if line.Toggle != nil && !m.collapsed(line) {
		m.inst.Click(line.Toggle)
		m.refresh()
		return
	}
	if i := m.opener(); i >= 0 {
		m.cursor = i
		m.clamp()
	}
}

// expand opens the node on the cursor line, or steps down.
func (m *Model) expand() {
	line, ok := m.current()
	if !ok {
		return
	}
	if line.Toggle != nil && m.collapsed(line) {
		m.inst.Click(line.Toggle)
		m.refresh()
		return
	}
	m.move(1)
}

func (m *Model) collapsed(line formatter.Line) bool {
	id, ok := m.inst.Lookup(line.Toggle)
	if !ok {
		return false
	}
	st, err := m.inst.State(id)
	return err == nil && st == viewer.Collapsed
}

// opener returns the index of the line opening the node that holds the
// cursor line, or -1.
func (m *Model) opener() int {
	cur := m.lines[m.cursor]
	depth := cur.Depth - 1
	if t := strings.TrimSpace(cur.Plain); strings.HasPrefix(t, "]") || strings.HasPrefix(t, "}") {
		depth = cur.Depth
	}
	for i := m.cursor - 1; i >= 0; i-- {
		if l := m.lines[i]; l.Toggle != nil && l.Depth <= depth {
			return i
		}
	}
	return -1
}

func (m *Model) current() (formatter.Line, bool) {
	if m.cursor < 0 || m.cursor >= len(m.lines) {
		return formatter.Line{}, false
	}
	return m.lines[m.cursor], true
}

func (m *Model) move(delta int) {
	m.cursor += delta
	m.clamp()
}

// refresh lays the document out again, keeping the cursor on the same
// toggle when it is still visible.
func (m *Model) refresh() {
	var keep *formatter.Line
	if line, ok := m.current(); ok && line.Toggle != nil {
		keep = &line
	}
	m.lines = formatter.Lines(m.inst.Container(), formatter.TextOptions{
		Styles:    m.opts.Styles,
		Width:     m.width,
		MaxString: m.opts.MaxString,
	})
	if keep != nil {
		for i, l := range m.lines {
			if l.Toggle == keep.Toggle {
				m.cursor = i
				break
			}
		}
	}
	m.clamp()
}

// clamp keeps the cursor on a line and the line on screen.
func (m *Model) clamp() {
	if m.cursor >= len(m.lines) {
		m.cursor = len(m.lines) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	body := m.bodyHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+body {
		m.offset = m.cursor - body + 1
	}
	if maxOffset := len(m.lines) - body; m.offset > maxOffset {
		m.offset = maxOffset
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// bodyHeight is the number of document lines on screen: the window minus
// the title and status lines.
func (m *Model) bodyHeight() int {
	h := m.height - 2
	if h < 1 {
		h = 1
	}
	return h
}

// View renders the title line, the visible document lines and the status
// line.
func (m *Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteByte('\n')
	body := m.bodyHeight()
	for row := 0; row < body; row++ {
		i := m.offset + row
		if i < len(m.lines) {
			if i == m.cursor {
				b.WriteString(m.opts.Styles.Selected.Render(m.lines[i].Plain))
			} else {
				b.WriteString(m.lines[i].Styled)
			}
		}
		b.WriteByte('\n')
	}
	b.WriteString(m.footer())
	v := tea.NewView(b.String())
	v.AltScreen = true
	return v
}

func (m *Model) header() string {
	title := m.opts.Title
	if title == "" {
		title = "JSON"
	}
	pos := "0/0"
	if len(m.lines) > 0 {
		pos = fmt.Sprintf("%d/%d", m.cursor+1, len(m.lines))
	}
	return m.opts.Styles.Status.Render(title + "  " + pos)
}

func (m *Model) footer() string {
	switch {
	case m.inst.Pending() > 0:
		return m.spinner.View() + m.opts.Styles.Status.Render(fmt.Sprintf(" loading (%d pending)", m.inst.Pending()))
	case m.err != nil:
		return m.opts.Styles.Status.Render("error: " + m.err.Error())
	case m.showHelp:
		return m.opts.Styles.Status.Render(helpText(m.opts.KeyMode))
	}
	hint := "F1 help"
	if m.opts.KeyMode == KeyModeVim {
		hint = "? help"
	}
	return m.opts.Styles.Status.Render(hint)
}
