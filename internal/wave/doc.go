// Package wave holds the immutable waveform data model.
//
// A trace is loaded once through a Builder into a Database: a set of
// signals (scalars and fixed-width vectors) each with a time-ordered
// Timeline of value transitions. After Build the database never
// changes; navigation and rendering read it concurrently-safely
// because nothing mutates.
//
// Component layout:
//
//	value.go    — four-valued logic (0/1/X/Z) and vector Bits
//	signal.go   — signal identity and kind
//	timeline.go — Transition, Timeline, restartable Span views
//	database.go — Database: value queries + global time bounds
//	builder.go  — all-or-nothing load with validation
//	errors.go   — sentinel errors for the load/query taxonomy
package wave
