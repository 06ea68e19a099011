package tui

import "github.com/charmbracelet/lipgloss"

// ────────────────────────────────────────────────────────────
// Color Palette — GitHub Dark aesthetic
// ────────────────────────────────────────────────────────────
//
// All colors are defined here. No ad-hoc color literals anywhere.
// Designed for readability in dark terminals (iTerm2, Windows
// Terminal, Ghostty, Alacritty) and comfortable for long sessions
// staring at clock edges.

var (
	// Base
	colorBg        = lipgloss.Color("#0d1117")
	colorBgSurface = lipgloss.Color("#1c2128")

	// Text
	colorText      = lipgloss.Color("#e6edf3")
	colorTextDim   = lipgloss.Color("#8b949e")
	colorTextMuted = lipgloss.Color("#484f58")

	// Accents
	colorBlue   = lipgloss.Color("#58a6ff")
	colorGreen  = lipgloss.Color("#3fb950")
	colorRed    = lipgloss.Color("#f85149")
	colorYellow = lipgloss.Color("#d29922")
	colorPurple = lipgloss.Color("#bc8cff")
	colorCyan   = lipgloss.Color("#76e3ea")

	// Structural
	colorDivider   = lipgloss.Color("#30363d")
	colorHighlight = lipgloss.Color("#1f6feb")
)

// ────────────────────────────────────────────────────────────
// Component Styles
// ────────────────────────────────────────────────────────────

// Header bar
var (
	headerBarStyle = lipgloss.NewStyle().
			Background(colorBgSurface).
			Foreground(colorText).
			Padding(0, 1)

	headerBrandStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorBlue)

	headerSepStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)

	headerMetaStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	headerCursorStyle = lipgloss.NewStyle().
				Foreground(colorYellow).
				Bold(true)
)

// Waveform pane
var (
	rulerStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	labelSelectedStyle = lipgloss.NewStyle().
				Foreground(colorText).
				Bold(true)

	labelValueStyle = lipgloss.NewStyle().
			Foreground(colorCyan)

	traceScalarStyle = lipgloss.NewStyle().
				Foreground(colorGreen)

	traceVectorStyle = lipgloss.NewStyle().
				Foreground(colorPurple)

	traceUnknownStyle = lipgloss.NewStyle().
				Foreground(colorRed)

	traceHighZStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	traceDenseStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)

	emptyStateStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted).
			Padding(2, 4)
)

// Signal browser
var (
	browserTitleStyle = lipgloss.NewStyle().
				Foreground(colorBlue).
				Bold(true)

	browserItemStyle = lipgloss.NewStyle().
				Foreground(colorText).
				Padding(0, 1)

	browserSelectedStyle = lipgloss.NewStyle().
				Background(colorHighlight).
				Foreground(colorText).
				Bold(true).
				Padding(0, 1)

	browserVisibleStyle = lipgloss.NewStyle().
				Foreground(colorGreen)

	browserHiddenStyle = lipgloss.NewStyle().
				Foreground(colorTextMuted)

	browserDimStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	browserDividerStyle = lipgloss.NewStyle().
				Foreground(colorDivider)
)

// Footer / status bar
var (
	statusStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorBgSurface).
			Padding(0, 1)

	statusErrorStyle = lipgloss.NewStyle().
				Foreground(colorRed).
				Background(colorBgSurface).
				Padding(0, 1)

	hintKeyStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	hintDescStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)
)

// Goto-time prompt
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorBgSurface).
			Padding(0, 1)

	promptCursorStyle = lipgloss.NewStyle().
				Background(colorBlue).
				Foreground(colorBg)
)
