package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tickscope/internal/session"
	"tickscope/internal/wave"
)

// renderBrowser renders the signal browser: every signal in the
// database with its width, sample count, and whether it is currently
// shown in the waveform view.
func renderBrowser(m *Model, height int) string {
	sigs := m.sess.DB().Signals()
	if len(sigs) == 0 {
		empty := emptyStateStyle.Render("Trace declares no signals.")
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, empty)
	}

	title := browserTitleStyle.Render("Signals")
	count := browserDimStyle.Render(fmt.Sprintf("  %d total", len(sigs)))
	heading := title + count

	var lines []string
	lines = append(lines, heading)
	lines = append(lines, browserDividerStyle.Render(strings.Repeat("─", maxInt(m.width-4, 1))))

	// Visible range for scrolling
	maxVisible := height - 2
	if maxVisible < 5 {
		maxVisible = 5
	}

	startIdx := 0
	if m.browserIndex >= maxVisible {
		startIdx = m.browserIndex - maxVisible + 1
	}
	endIdx := minInt(startIdx+maxVisible, len(sigs))

	shown := visibleSignalSet(m.sess.Rows())
	for i := startIdx; i < endIdx; i++ {
		sig := sigs[i]

		dot := browserHiddenStyle.Render("○")
		if shown[sig.ID] {
			dot = browserVisibleStyle.Render("●")
		}

		width := "1 bit"
		if sig.Kind == wave.KindVector {
			width = fmt.Sprintf("%d bits", sig.Width)
		}
		samples := ""
		if tl, err := m.sess.DB().Timeline(sig.ID); err == nil {
			samples = fmt.Sprintf("%d samples", tl.Len())
		}

		content := fmt.Sprintf("%s  %s  %s  %s",
			dot, sig.Label(), browserDimStyle.Render(width), browserDimStyle.Render(samples))

		if i == m.browserIndex {
			lines = append(lines, browserSelectedStyle.Width(m.width-4).Render(content))
		} else {
			lines = append(lines, browserItemStyle.Width(m.width-4).Render(content))
		}
	}

	return strings.Join(lines, "\n")
}

// visibleSignalSet maps each signal id shown in the row list, whether
// as a whole row or an expansion.
func visibleSignalSet(rows []session.Row) map[string]bool {
	set := make(map[string]bool, len(rows))
	for _, r := range rows {
		set[r.SignalID] = true
	}
	return set
}
