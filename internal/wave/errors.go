package wave

import "errors"

// Sentinel errors for trace loading and value queries. Callers match
// them with errors.Is; builder and database methods wrap them with
// context via fmt.Errorf("...: %w", ...).
var (
	// ErrCorruptTrace marks malformed input at load time: unsorted or
	// negative times, width mismatches, changes for undeclared signals,
	// or an empty trace. Loading is all-or-nothing, so a corrupt trace
	// never yields a partial database.
	ErrCorruptTrace = errors.New("corrupt trace")

	// ErrUnknownSignal is returned by queries naming a signal id that
	// is not in the database.
	ErrUnknownSignal = errors.New("unknown signal")

	// ErrTimeOutOfRange is returned when a query time lies before the
	// first sample (no value is defined there) or a jump target lies
	// outside the trace's global bounds.
	ErrTimeOutOfRange = errors.New("time out of range")
)
