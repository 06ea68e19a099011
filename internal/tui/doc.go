// Package tui implements the tickscope terminal user interface.
//
// A waveform viewer in the terminal, built with Charmbracelet's
// BubbleTea and Lipgloss libraries.
//
// Component architecture:
//
//	model.go    — root model, message routing, Init/Update, key binds
//	theme.go    — centralized color + style definitions
//	header.go   — top bar with trace context, footer with hints/prompt
//	waveform.go — waveform pane: label gutter + styled trace grid
//	browser.go  — signal browser overlay (toggle signals in/out)
//	helpers.go  — truncation, clamping, small utilities
package tui
