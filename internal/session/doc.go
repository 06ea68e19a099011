// Package session holds the mutable per-view state around one
// immutable waveform database: the visible time window, the cursor,
// and the ordered list of displayed signal rows.
//
// All state lives in one explicit Session struct so a redraw is a
// deterministic function of (database, session); nothing here is
// global. The database is never mutated.
//
// Component layout:
//
//	viewport.go — visible window with zoom/pan clamping
//	session.go  — Session, cursor, time/edge navigation
//	selector.go — row list: visibility, order, vector expansion
//	errors.go   — sentinel errors for navigation outcomes
package session
