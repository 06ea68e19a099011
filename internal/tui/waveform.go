package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tickscope/internal/render"
	"tickscope/internal/session"
	"tickscope/internal/wave"
)

// renderWaveform draws the ruler plus one trace track per visible row.
// The left gutter shows each row's label and its value at the cursor;
// the grid to the right is the projected waveform with the cursor
// column highlighted.
func renderWaveform(m *Model, height int) string {
	rows := m.sess.Rows()
	if len(rows) == 0 {
		return emptyStateStyle.Render(
			"No signals in view.\n\n" +
				"Press a to open the signal browser and pick some.")
	}

	gutter := m.gutterWidth()
	gridWidth := maxInt(m.width-gutter-1, 16)

	grid := render.Project(m.sess.DB(), rows, m.sess.Viewport, m.sess.Cursor(),
		gridWidth, m.cfg.UI.RulerInterval)

	var lines []string
	lines = append(lines,
		strings.Repeat(" ", gutter+1)+styleRuler(render.Ruler(grid, m.sess.DB().Timescale()), grid.CursorCol))

	avail := height - 1
	start := m.scrollStart(grid.Rows, avail)

	used := 0
	for i := start; i < len(grid.Rows); i++ {
		h := rowHeight(grid.Rows[i])
		if used+h > avail {
			break
		}
		lines = append(lines, m.rowLines(grid.Rows[i], rows[i], gutter, grid.CursorCol, i == m.selectedRow)...)
		used += h
	}

	return strings.Join(lines, "\n")
}

// rowHeight is the number of terminal lines a row occupies.
func rowHeight(r render.GridRow) int {
	if r.Vector {
		return 3
	}
	return 2
}

// scrollStart picks the first visible row so the selected one fits in
// avail lines.
func (m *Model) scrollStart(rows []render.GridRow, avail int) int {
	start := 0
	for start < m.selectedRow {
		total := 0
		for i := start; i <= m.selectedRow && i < len(rows); i++ {
			total += rowHeight(rows[i])
		}
		if total <= avail {
			break
		}
		start++
	}
	return start
}

// rowLines assembles one row: the gutter (label, then cursor value)
// and the styled track lines.
func (m *Model) rowLines(gr render.GridRow, row session.Row, gutter, cursorCol int, selected bool) []string {
	track := render.RowLines(gr, m.glyphs)

	marker := "  "
	labelSt := labelStyle
	if selected {
		marker = "▸ "
		labelSt = labelSelectedStyle
	}
	label := labelSt.Render(padRight(marker+gr.Label, gutter))
	value := labelValueStyle.Render(padRight("  ="+m.cursorValue(row), gutter))
	blank := strings.Repeat(" ", gutter)

	out := make([]string, 0, len(track))
	for i, line := range track {
		g := blank
		switch i {
		case 0:
			g = label
		case 1:
			g = value
		}
		out = append(out, g+" "+styleTrack(line, gr.Cells, gr.Vector, cursorCol))
	}
	return out
}

// cursorValue formats the row's value at the cursor for the gutter.
func (m *Model) cursorValue(row session.Row) string {
	tr, err := m.sess.DB().ValueAt(row.SignalID, m.sess.Cursor())
	if err != nil {
		return "?"
	}
	sig, _ := m.sess.DB().Signal(row.SignalID)
	switch {
	case row.IsBit():
		return tr.Vector.Bit(row.Bit).String()
	case sig.Kind == wave.KindVector:
		return render.VectorLabel(tr.Vector)
	default:
		return tr.Scalar.String()
	}
}

// gutterWidth sizes the label gutter to the longest visible label,
// within sane bounds.
func (m *Model) gutterWidth() int {
	w := 10
	for _, row := range m.sess.Rows() {
		sig, ok := m.sess.DB().Signal(row.SignalID)
		if !ok {
			continue
		}
		w = maxInt(w, len(render.RowLabel(sig, row))+2)
	}
	return minInt(w, 28)
}

// styleTrack colors one track line cell by cell, batching runs of the
// same style and highlighting the cursor column.
func styleTrack(line string, cells []render.Cell, vector bool, cursorCol int) string {
	runes := []rune(line)
	var b strings.Builder

	for start := 0; start < len(runes); {
		end := start + 1
		if start != cursorCol {
			for end < len(runes) && end != cursorCol &&
				trackCategory(cells[end], vector) == trackCategory(cells[start], vector) {
				end++
			}
		}
		st := trackStyle(cells[start], vector)
		if start == cursorCol {
			st = st.Background(colorHighlight)
		}
		b.WriteString(st.Render(string(runes[start:end])))
		start = end
	}
	return b.String()
}

// Track style categories, one per visual treatment.
const (
	trackLine = iota
	trackVector
	trackUnknown
	trackHighZ
	trackDense
)

func trackCategory(c render.Cell, vector bool) int {
	switch {
	case c.Event == render.EventDense:
		return trackDense
	case vector && c.Vec.HasUnknown():
		return trackUnknown
	case vector:
		return trackVector
	case c.Cur == wave.VX:
		return trackUnknown
	case c.Cur == wave.VZ:
		return trackHighZ
	default:
		return trackLine
	}
}

func trackStyle(c render.Cell, vector bool) lipgloss.Style {
	switch trackCategory(c, vector) {
	case trackDense:
		return traceDenseStyle
	case trackUnknown:
		return traceUnknownStyle
	case trackHighZ:
		return traceHighZStyle
	case trackVector:
		return traceVectorStyle
	default:
		return traceScalarStyle
	}
}

// styleRuler dims the ruler line and marks the cursor column.
func styleRuler(line string, cursorCol int) string {
	runes := []rune(line)
	if cursorCol < 0 || cursorCol >= len(runes) {
		return rulerStyle.Render(line)
	}
	return rulerStyle.Render(string(runes[:cursorCol])) +
		rulerStyle.Background(colorHighlight).Render(string(runes[cursorCol])) +
		rulerStyle.Render(string(runes[cursorCol+1:]))
}
