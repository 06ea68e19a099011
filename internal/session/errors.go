package session

import "errors"

// Navigation and selection outcomes callers match with errors.Is.
var (
	// ErrNoEdge reports that no qualifying edge exists in the searched
	// direction. It is an expected outcome, not a failure: the cursor
	// stays put and the UI shows a status message.
	ErrNoEdge = errors.New("no edge found")

	// ErrNotAVector is returned when a vector-only operation names a
	// scalar signal.
	ErrNotAVector = errors.New("not a vector signal")

	// ErrNotScalar is returned when a rising/falling edge search names
	// a whole vector; directional edges are defined on single bits.
	ErrNotScalar = errors.New("not a scalar signal")

	// ErrNotExpanded is returned by collapse when the vector has no
	// matching expansion in the row list.
	ErrNotExpanded = errors.New("vector not expanded")
)
