package wave

import (
	"fmt"

	"tickscope/pkg/timeunit"
)

// Builder accumulates signals and transitions during load and
// validates them into an immutable Database. Loading is all-or-
// nothing: the first malformed input poisons the builder and Build
// returns that error, never a partial database.
//
// The loader contract: declare every signal first, then append its
// transitions in non-decreasing time order. An append at exactly the
// previous time replaces the previous value (last write wins); a
// decreasing time is corrupt input.
type Builder struct {
	signals   []Signal
	index     map[string]int
	pending   [][]Transition
	timescale timeunit.Timescale
	err       error
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{index: make(map[string]int)}
}

// SetTimescale records the trace's declared unit per tick.
func (b *Builder) SetTimescale(ts timeunit.Timescale) {
	b.timescale = ts
}

// AddScalar declares a single-bit signal.
func (b *Builder) AddScalar(id, name string) error {
	return b.addSignal(Signal{ID: id, Name: name, Kind: KindScalar, Width: 1})
}

// AddVector declares a multi-bit signal of the given width.
func (b *Builder) AddVector(id, name string, width int) error {
	if width < 1 {
		return b.fail(fmt.Errorf("%w: vector %q has width %d", ErrCorruptTrace, id, width))
	}
	return b.addSignal(Signal{ID: id, Name: name, Kind: KindVector, Width: width})
}

func (b *Builder) addSignal(s Signal) error {
	if b.err != nil {
		return b.err
	}
	if s.ID == "" {
		return b.fail(fmt.Errorf("%w: signal with empty id", ErrCorruptTrace))
	}
	if _, dup := b.index[s.ID]; dup {
		return b.fail(fmt.Errorf("%w: duplicate signal id %q", ErrCorruptTrace, s.ID))
	}
	b.index[s.ID] = len(b.signals)
	b.signals = append(b.signals, s)
	b.pending = append(b.pending, nil)
	return nil
}

// AppendScalar records a scalar value change.
func (b *Builder) AppendScalar(id string, t int64, v Value) error {
	return b.appendTransition(id, KindScalar, Transition{Time: t, Scalar: v})
}

// AppendVector records a vector value change. The bit count must match
// the declared width.
func (b *Builder) AppendVector(id string, t int64, bits Bits) error {
	return b.appendTransition(id, KindVector, Transition{Time: t, Vector: bits})
}

func (b *Builder) appendTransition(id string, kind Kind, tr Transition) error {
	if b.err != nil {
		return b.err
	}
	i, ok := b.index[id]
	if !ok {
		return b.fail(fmt.Errorf("%w: change for undeclared signal %q", ErrCorruptTrace, id))
	}
	sig := b.signals[i]
	if sig.Kind != kind {
		return b.fail(fmt.Errorf("%w: %s change for %s signal %q", ErrCorruptTrace, kind, sig.Kind, id))
	}
	if kind == KindVector && len(tr.Vector) != sig.Width {
		return b.fail(fmt.Errorf("%w: signal %q width %d got %d bits", ErrCorruptTrace, id, sig.Width, len(tr.Vector)))
	}
	if tr.Time < 0 {
		return b.fail(fmt.Errorf("%w: signal %q change at negative time %d", ErrCorruptTrace, id, tr.Time))
	}
	ts := b.pending[i]
	if n := len(ts); n > 0 {
		last := ts[n-1].Time
		switch {
		case tr.Time < last:
			return b.fail(fmt.Errorf("%w: signal %q time %d after %d (unsorted)", ErrCorruptTrace, id, tr.Time, last))
		case tr.Time == last:
			ts[n-1] = tr
			return nil
		}
	}
	b.pending[i] = append(ts, tr)
	return nil
}

// Build validates the accumulated data and returns the immutable
// database. Every timeline is backfilled to the global start with an
// unknown (X) sample so that value queries are total from the first
// tick of the trace onward. A trace with no signals is corrupt; a
// trace whose signals never change gets the bounds [0, 0].
func (b *Builder) Build() (*Database, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.signals) == 0 {
		return nil, fmt.Errorf("%w: no signals", ErrCorruptTrace)
	}

	start, end := int64(0), int64(0)
	sampled := false
	for _, ts := range b.pending {
		if len(ts) == 0 {
			continue
		}
		first, last := ts[0].Time, ts[len(ts)-1].Time
		if !sampled || first < start {
			start = first
		}
		if !sampled || last > end {
			end = last
		}
		sampled = true
	}

	db := &Database{
		signals:   b.signals,
		index:     b.index,
		timelines: make([]*Timeline, len(b.signals)),
		start:     start,
		end:       end,
		timescale: b.timescale,
	}
	for i, ts := range b.pending {
		if len(ts) == 0 || ts[0].Time > start {
			initial := Transition{Time: start, Scalar: VX}
			if b.signals[i].Kind == KindVector {
				initial.Vector = AllX(b.signals[i].Width)
			}
			ts = append([]Transition{initial}, ts...)
		}
		db.timelines[i] = &Timeline{transitions: ts}
	}

	b.err = fmt.Errorf("%w: builder already consumed", ErrCorruptTrace)
	return db, nil
}

func (b *Builder) fail(err error) error {
	b.err = err
	return err
}
