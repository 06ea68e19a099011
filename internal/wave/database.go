package wave

import (
	"fmt"

	"tickscope/pkg/timeunit"
)

// Database is the read-only store of every loaded signal and its
// timeline, plus the derived global time bounds. Built once by a
// Builder; shared by navigation and rendering without locking because
// nothing mutates it after Build.
type Database struct {
	signals   []Signal
	index     map[string]int
	timelines []*Timeline
	start     int64
	end       int64
	timescale timeunit.Timescale
}

// Signals returns every signal in load order. The slice is shared;
// callers must not modify it.
func (db *Database) Signals() []Signal { return db.signals }

// Signal looks up a signal by id.
func (db *Database) Signal(id string) (Signal, bool) {
	i, ok := db.index[id]
	if !ok {
		return Signal{}, false
	}
	return db.signals[i], true
}

// Timeline returns the transition history for a signal.
func (db *Database) Timeline(id string) (*Timeline, error) {
	i, ok := db.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSignal, id)
	}
	return db.timelines[i], nil
}

// GlobalStart returns the earliest transition time across all signals.
func (db *Database) GlobalStart() int64 { return db.start }

// GlobalEnd returns the latest transition time across all signals.
func (db *Database) GlobalEnd() int64 { return db.end }

// Timescale returns the declared unit per tick, or the zero value when
// the trace declared none.
func (db *Database) Timescale() timeunit.Timescale { return db.timescale }

// ValueAt returns the transition holding at time t: the one with the
// greatest time <= t (step-hold semantics). Values after the last
// transition hold indefinitely. Fails with ErrUnknownSignal for an
// absent id and ErrTimeOutOfRange for t before the global start, where
// no value is defined.
func (db *Database) ValueAt(id string, t int64) (Transition, error) {
	tl, err := db.Timeline(id)
	if err != nil {
		return Transition{}, err
	}
	if t < db.start {
		return Transition{}, fmt.Errorf("%w: t=%d precedes first sample at %d", ErrTimeOutOfRange, t, db.start)
	}
	i := tl.IndexAt(t)
	if i < 0 {
		// Build backfills every timeline to the global start, so a
		// miss here means t < GlobalStart, handled above.
		return Transition{}, fmt.Errorf("%w: t=%d", ErrTimeOutOfRange, t)
	}
	return tl.At(i), nil
}

// TransitionsIn returns the signal's transitions with time in
// [from, to), ascending. The span views the timeline in place and may
// be re-scanned freely. An empty or inverted range yields an empty
// span.
func (db *Database) TransitionsIn(id string, from, to int64) (Span, error) {
	tl, err := db.Timeline(id)
	if err != nil {
		return nil, err
	}
	return tl.Span(from, to), nil
}
