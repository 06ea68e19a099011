package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader produces the top bar:
//
//	TICKSCOPE  |  counter.vcd  |  12 signals  |  1ns/tick  |  t=1.5us
func renderHeader(m *Model) string {
	brand := headerBrandStyle.Render("TICKSCOPE")
	sep := headerSepStyle.Render(" │ ")

	db := m.sess.DB()

	var parts []string
	parts = append(parts, brand)
	parts = append(parts, sep)
	parts = append(parts, headerMetaStyle.Render(filepath.Base(m.tracePath)))
	parts = append(parts, sep)
	parts = append(parts, headerMetaStyle.Render(fmt.Sprintf("%d signals", len(db.Signals()))))

	if ts := db.Timescale(); !ts.IsZero() {
		parts = append(parts, sep)
		parts = append(parts, headerMetaStyle.Render(ts.String()+"/tick"))
	}

	parts = append(parts, sep)
	parts = append(parts, headerCursorStyle.Render("t="+m.formatTime(m.sess.Cursor())))
	parts = append(parts, sep)
	parts = append(parts, headerMetaStyle.Render(fmt.Sprintf("[%s .. %s]",
		m.formatTime(m.sess.Viewport.Start()), m.formatTime(m.sess.Viewport.End()))))

	content := strings.Join(parts, "")

	return headerBarStyle.Width(m.width).Render(content)
}

// renderFooter produces the bottom status bar with keyboard hints, or
// the goto-time input line while the prompt is open.
func renderFooter(m *Model) string {
	var left, right string

	switch m.mode {
	case modePrompt:
		cursor := promptCursorStyle.Render(" ")
		left = promptStyle.Render(fmt.Sprintf("goto time: %s%s", m.promptInput, cursor))
		right = renderHints([]hint{
			{"enter", "jump"},
			{"esc", "cancel"},
		})

	case modeBrowser:
		if m.statusMsg != "" {
			left = statusStyle.Render(m.statusMsg)
		}
		right = renderHints([]hint{
			{"↑↓", "navigate"},
			{"enter", "show/hide"},
			{"esc", "close"},
			{"q", "quit"},
		})

	default:
		if m.err != nil {
			left = statusErrorStyle.Render(m.statusMsg)
		} else if m.statusMsg != "" {
			left = statusStyle.Render(m.statusMsg)
		}
		right = renderHints([]hint{
			{"h/l", "pan"},
			{"+/-", "zoom"},
			{"n/r/f", "edge"},
			{"t", "goto"},
			{"enter", "bits"},
			{"a", "signals"},
			{"q", "quit"},
		})
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return lipgloss.NewStyle().
		Background(colorBgSurface).
		Width(m.width).
		Render(bar)
}

type hint struct {
	key  string
	desc string
}

func renderHints(hints []hint) string {
	var parts []string
	for _, h := range hints {
		parts = append(parts,
			hintKeyStyle.Render(h.key)+" "+hintDescStyle.Render(h.desc))
	}
	return strings.Join(parts, hintDescStyle.Render("  "))
}
