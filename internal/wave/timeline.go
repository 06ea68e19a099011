package wave

import "sort"

// Transition records a change of a signal's value at one tick.
// Exactly one payload field is meaningful, per the owning signal's
// kind: Vector is nil for scalar signals.
type Transition struct {
	// Time is the tick of the change, non-negative.
	Time int64
	// Scalar is the new value for scalar signals.
	Scalar Value
	// Vector is the new value for vector signals; nil otherwise.
	Vector Bits
}

// SameValue reports whether two transitions carry the same value,
// ignoring time. Used to classify whether a recorded change is an
// actual edge.
func (t Transition) SameValue(o Transition) bool {
	if t.Vector == nil && o.Vector == nil {
		return t.Scalar == o.Scalar
	}
	return t.Vector.Equal(o.Vector)
}

// Timeline is the time-ordered transition history of one signal:
// strictly increasing times, never empty once the database is built.
// Immutable after load.
type Timeline struct {
	transitions []Transition
}

// Len returns the number of transitions.
func (tl *Timeline) Len() int { return len(tl.transitions) }

// At returns the i-th transition.
func (tl *Timeline) At(i int) Transition { return tl.transitions[i] }

// First returns the earliest transition.
func (tl *Timeline) First() Transition { return tl.transitions[0] }

// Last returns the latest transition.
func (tl *Timeline) Last() Transition { return tl.transitions[len(tl.transitions)-1] }

// SearchTime returns the index of the first transition with time >= t,
// or Len() if every transition is earlier.
func (tl *Timeline) SearchTime(t int64) int {
	return sort.Search(len(tl.transitions), func(i int) bool {
		return tl.transitions[i].Time >= t
	})
}

// IndexAt returns the index of the last transition with time <= t, or
// -1 when t precedes the first transition. This is the step-hold
// lookup: the value at t is the value of the transition at IndexAt(t).
func (tl *Timeline) IndexAt(t int64) int {
	i := tl.SearchTime(t + 1)
	return i - 1
}

// Span returns the transitions with time in the half-open range
// [from, to), ascending. The result views the timeline's backing
// array without copying, so callers may re-range over it any number
// of times without side effects.
func (tl *Timeline) Span(from, to int64) Span {
	if from >= to {
		return nil
	}
	lo := tl.SearchTime(from)
	hi := tl.SearchTime(to)
	return Span(tl.transitions[lo:hi])
}

// Span is a restartable read-only view of consecutive transitions,
// produced by Timeline.Span. Callers must not modify the elements.
type Span []Transition
