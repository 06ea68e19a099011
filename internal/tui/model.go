package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tickscope/internal/config"
	"tickscope/internal/layout"
	"tickscope/internal/render"
	"tickscope/internal/session"
	"tickscope/internal/vcd"
	"tickscope/internal/watch"
	"tickscope/internal/wave"
	"tickscope/pkg/timeunit"
)

// ────────────────────────────────────────────────────────────
// Input modes
// ────────────────────────────────────────────────────────────

// inputMode says which surface currently receives keystrokes.
type inputMode int

const (
	modeWave inputMode = iota
	modeBrowser
	modePrompt
)

// ────────────────────────────────────────────────────────────
// Model
// ────────────────────────────────────────────────────────────

// Model is the root BubbleTea model for the tickscope TUI.
// State is organized by concern; rendering is delegated
// to component functions in separate files.
type Model struct {
	cfg        *config.Config
	watcher    *watch.Watcher // nil when live reload is off
	tracePath  string
	layoutPath string

	// Navigation state over the loaded trace.
	sess   *session.Session
	glyphs render.GlyphSet

	// UI state
	mode         inputMode
	selectedRow  int
	browserIndex int
	promptInput  string
	width        int
	height       int

	// Status
	statusMsg string
	err       error
}

// NewModel creates the TUI model around an already loaded session.
// watcher may be nil; layoutPath names where "w" saves (derived from
// the trace path when empty).
func NewModel(cfg *config.Config, sess *session.Session, tracePath, layoutPath string, watcher *watch.Watcher) Model {
	glyphs := render.Unicode
	if cfg.UI.ASCIIOnly {
		glyphs = render.ASCII
	}
	return Model{
		cfg:        cfg,
		watcher:    watcher,
		tracePath:  tracePath,
		layoutPath: layoutPath,
		sess:       sess,
		glyphs:     glyphs,
		statusMsg:  fmt.Sprintf("%d signals", len(sess.DB().Signals())),
	}
}

// Session exposes the navigation state, read by main after the program
// exits to persist the final view.
func (m Model) Session() *session.Session { return m.sess }

// ────────────────────────────────────────────────────────────
// Messages
// ────────────────────────────────────────────────────────────

type traceChangedMsg struct{}
type traceLoadedMsg struct{ db *wave.Database }
type watchFailedMsg struct{ err error }
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

// ────────────────────────────────────────────────────────────
// Init
// ────────────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return m.waitForChange()
}

// waitForChange blocks on the watcher's channels and resolves to one
// message; Update re-issues it after every delivery.
func (m Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case _, ok := <-m.watcher.Events():
			if !ok {
				return nil
			}
			return traceChangedMsg{}
		case err, ok := <-m.watcher.Errors():
			if !ok {
				return nil
			}
			return watchFailedMsg{err}
		}
	}
}

// reloadTrace parses the trace file off the update loop and delivers
// a fresh immutable database (or the load error) as a message.
func (m Model) reloadTrace() tea.Cmd {
	path := m.tracePath
	return func() tea.Msg {
		db, err := vcd.Load(path)
		if err != nil {
			return errMsg{err}
		}
		return traceLoadedMsg{db: db}
	}
}

// ────────────────────────────────────────────────────────────
// Update
// ────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case traceChangedMsg:
		m.statusMsg = "trace changed, reloading..."
		return m, tea.Batch(m.reloadTrace(), m.waitForChange())

	case traceLoadedMsg:
		m.adoptDatabase(msg.db)
		m.err = nil
		m.statusMsg = fmt.Sprintf("reloaded, %d signals", len(msg.db.Signals()))
		return m, nil

	case watchFailedMsg:
		m.statusMsg = fmt.Sprintf("watch: %v", msg.err)
		return m, m.waitForChange()

	case errMsg:
		m.err = msg.err
		m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		return m, nil
	}

	return m, nil
}

// adoptDatabase swaps in a freshly loaded database, carrying the
// selection, window and cursor over from the old session and clamping
// them against the new bounds.
func (m *Model) adoptDatabase(db *wave.Database) {
	old := m.sess
	next := session.New(db)
	layout.Apply(layout.FromSession(old), next)
	if len(next.Rows()) == 0 {
		// Every carried signal is gone from the new trace; start over
		// with the default selection.
		next = session.New(db)
	}
	cursor := old.Cursor()
	if cursor < db.GlobalStart() {
		cursor = db.GlobalStart()
	}
	if cursor > db.GlobalEnd() {
		cursor = db.GlobalEnd()
	}
	_ = next.JumpToTime(cursor)
	// Window after cursor: JumpToTime may recenter, SetWindow wins.
	next.Viewport.SetWindow(old.Viewport.Start(), old.Viewport.End())

	m.sess = next
	m.selectedRow = clamp(m.selectedRow, 0, maxInt(len(next.Rows())-1, 0))
	m.browserIndex = clamp(m.browserIndex, 0, maxInt(len(db.Signals())-1, 0))
}

// ────────────────────────────────────────────────────────────
// Key handling
// ────────────────────────────────────────────────────────────

// handleKey routes keyboard input based on current mode.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// ── Global ──

	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if m.mode != modePrompt {
			return m, tea.Quit
		}
	}

	switch m.mode {
	case modePrompt:
		return m.handlePromptKey(key)
	case modeBrowser:
		return m.handleBrowserKey(key)
	default:
		return m.handleWaveKey(key)
	}
}

func (m Model) handlePromptKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc":
		m.mode = modeWave
		m.promptInput = ""
	case "enter":
		m.mode = modeWave
		input := strings.TrimSpace(m.promptInput)
		m.promptInput = ""
		if input == "" {
			return m, nil
		}
		t, err := timeunit.ParseTicks(m.sess.DB().Timescale(), input)
		if err != nil {
			m.statusMsg = fmt.Sprintf("bad time %q: %v", input, err)
			return m, nil
		}
		if err := m.sess.JumpToTime(t); err != nil {
			m.statusMsg = err.Error()
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("cursor at %s", m.formatTime(m.sess.Cursor()))
	case "backspace":
		if len(m.promptInput) > 0 {
			m.promptInput = m.promptInput[:len(m.promptInput)-1]
		}
	default:
		if len(key) == 1 {
			m.promptInput += key
		}
	}
	return m, nil
}

func (m Model) handleBrowserKey(key string) (tea.Model, tea.Cmd) {
	sigs := m.sess.DB().Signals()
	switch key {
	case "esc", "a":
		m.mode = modeWave
		m.selectedRow = clamp(m.selectedRow, 0, maxInt(len(m.sess.Rows())-1, 0))
	case "j", "down":
		m.browserIndex = clamp(m.browserIndex+1, 0, len(sigs)-1)
	case "k", "up":
		m.browserIndex = clamp(m.browserIndex-1, 0, len(sigs)-1)
	case "enter", " ":
		if m.browserIndex < len(sigs) {
			id := sigs[m.browserIndex].ID
			if err := m.sess.ToggleVisible(id); err != nil {
				m.statusMsg = err.Error()
			} else {
				m.statusMsg = fmt.Sprintf("toggled %s", id)
			}
		}
	}
	return m, nil
}

func (m Model) handleWaveKey(key string) (tea.Model, tea.Cmd) {
	rows := m.sess.Rows()
	switch key {

	case "a":
		m.mode = modeBrowser

	case "t":
		m.mode = modePrompt
		m.promptInput = ""

	case "+", "=":
		m.sess.Viewport.Zoom(2, m.sess.Cursor())

	case "-":
		m.sess.Viewport.Zoom(0.5, m.sess.Cursor())

	case "h", "left":
		m.sess.Viewport.Pan(-m.panStep())

	case "l", "right":
		m.sess.Viewport.Pan(m.panStep())

	case "0":
		m.sess.Viewport.FitToFullRange()

	case "j", "down":
		m.selectedRow = clamp(m.selectedRow+1, 0, maxInt(len(rows)-1, 0))

	case "k", "up":
		m.selectedRow = clamp(m.selectedRow-1, 0, maxInt(len(rows)-1, 0))

	case "J":
		m.moveSelected(1)

	case "K":
		m.moveSelected(-1)

	case "d":
		if row, ok := m.selected(); ok {
			if err := m.sess.ToggleVisible(row.SignalID); err != nil {
				m.statusMsg = err.Error()
			} else {
				m.statusMsg = fmt.Sprintf("hid %s", row.SignalID)
				m.selectedRow = clamp(m.selectedRow, 0, maxInt(len(m.sess.Rows())-1, 0))
			}
		}

	case "enter", " ":
		m.toggleExpand()

	case "n":
		m.jump(session.Forward, session.AnyChange)
	case "N":
		m.jump(session.Backward, session.AnyChange)
	case "r":
		m.jump(session.Forward, session.Rising)
	case "R":
		m.jump(session.Backward, session.Rising)
	case "f":
		m.jump(session.Forward, session.Falling)
	case "F":
		m.jump(session.Backward, session.Falling)

	case "w":
		m.saveLayout()
	}
	return m, nil
}

// ────────────────────────────────────────────────────────────
// Commands on the selected row
// ────────────────────────────────────────────────────────────

// selected returns the row under the selection bar.
func (m *Model) selected() (session.Row, bool) {
	rows := m.sess.Rows()
	if len(rows) == 0 || m.selectedRow >= len(rows) {
		return session.Row{}, false
	}
	return rows[m.selectedRow], true
}

// panStep is the pan distance for one keypress: a fraction of the
// window, never less than one tick.
func (m *Model) panStep() int64 {
	step := m.sess.Viewport.Width() / int64(m.cfg.UI.PanFraction)
	if step < 1 {
		step = 1
	}
	return step
}

func (m *Model) jump(dir session.Direction, kind session.EdgeKind) {
	row, ok := m.selected()
	if !ok {
		m.statusMsg = "no signal selected"
		return
	}
	t, err := m.sess.JumpToEdge(row.ID, dir, kind)
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.statusMsg = fmt.Sprintf("%s: %s at %s", row.ID, kind, m.formatTime(t))
}

// toggleExpand expands the selected vector into bit rows, or collapses
// the expansion when a bit row is selected.
func (m *Model) toggleExpand() {
	row, ok := m.selected()
	if !ok {
		return
	}
	if row.IsBit() {
		if err := m.sess.CollapseVector(row.SignalID); err != nil {
			m.statusMsg = err.Error()
			return
		}
		m.selectedRow = m.rowIndex(row.SignalID)
		m.statusMsg = fmt.Sprintf("collapsed %s", row.SignalID)
		return
	}
	ids, err := m.sess.ExpandVector(row.SignalID)
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.statusMsg = fmt.Sprintf("expanded %s into %d bits", row.SignalID, len(ids))
}

// rowIndex returns the first display index of the signal's rows.
func (m *Model) rowIndex(signalID string) int {
	for i, r := range m.sess.Rows() {
		if r.SignalID == signalID {
			return i
		}
	}
	return 0
}

// displayUnit is a run of adjacent rows belonging to one signal: a
// single whole-signal row or an expansion's bit rows.
type displayUnit struct {
	signalID string
	lo, hi   int
}

func displayUnits(rows []session.Row) []displayUnit {
	var units []displayUnit
	for i := 0; i < len(rows); {
		j := i
		for j < len(rows) && rows[j].SignalID == rows[i].SignalID {
			j++
		}
		units = append(units, displayUnit{signalID: rows[i].SignalID, lo: i, hi: j})
		i = j
	}
	return units
}

// moveSelected swaps the selected signal with its display neighbor,
// moving expansions as one block so bit runs stay contiguous.
func (m *Model) moveSelected(delta int) {
	row, ok := m.selected()
	if !ok {
		return
	}
	units := displayUnits(m.sess.Rows())
	at := -1
	for i, u := range units {
		if u.signalID == row.SignalID {
			at = i
			break
		}
	}
	to := at + delta
	if at < 0 || to < 0 || to >= len(units) {
		return
	}

	// Target index in the list with our unit removed: the neighbor's
	// start when moving up, just past the neighbor when moving down.
	newIndex := units[to].lo
	if delta > 0 {
		newIndex = units[at].lo + (units[to].hi - units[to].lo)
	}
	offset := m.selectedRow - units[at].lo

	if err := m.sess.Reorder(row.SignalID, newIndex); err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.selectedRow = newIndex + offset
}

// saveLayout writes the current selection to the layout file, deriving
// a path next to the trace when none was given.
func (m *Model) saveLayout() {
	path := m.layoutPath
	if path == "" {
		ext := filepath.Ext(m.tracePath)
		path = strings.TrimSuffix(m.tracePath, ext) + ".layout.yaml"
	}
	if err := layout.Save(path, layout.FromSession(m.sess)); err != nil {
		m.statusMsg = fmt.Sprintf("layout save failed: %v", err)
		return
	}
	m.layoutPath = path
	m.statusMsg = fmt.Sprintf("layout saved to %s", path)
}

func (m *Model) formatTime(t int64) string {
	return timeunit.FormatTicks(m.sess.DB().Timescale(), t)
}

// ────────────────────────────────────────────────────────────
// View
// ────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	header := renderHeader(&m)
	footer := renderFooter(&m)

	bodyHeight := m.height - 2 // header + footer

	var body string
	if m.mode == modeBrowser {
		body = renderBrowser(&m, bodyHeight)
	} else {
		body = renderWaveform(&m, bodyHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
