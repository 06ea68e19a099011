package session

import "math"

// Viewport is the visible time window over a trace. Start is
// inclusive, End marks the window edge; rendering treats the window as
// half-open with the final column also covering End itself. Every
// operation preserves Start < End with both bounds inside the trace's
// global range.
type Viewport struct {
	start, end int64
	// Dataset bounds the window clamps into. For a single-instant
	// trace max is forced one past min so the window keeps width.
	min, max int64
}

// NewViewport returns a viewport spanning the full trace range.
func NewViewport(globalStart, globalEnd int64) Viewport {
	if globalEnd <= globalStart {
		globalEnd = globalStart + 1
	}
	return Viewport{start: globalStart, end: globalEnd, min: globalStart, max: globalEnd}
}

// Start returns the first visible tick.
func (v *Viewport) Start() int64 { return v.start }

// End returns the window's right edge.
func (v *Viewport) End() int64 { return v.end }

// Width returns the window size in ticks.
func (v *Viewport) Width() int64 { return v.end - v.start }

// Contains reports whether t is visible, edges included.
func (v *Viewport) Contains(t int64) bool {
	return t >= v.start && t <= v.end
}

// Zoom scales the window width by 1/factor (factor > 1 zooms in,
// 0 < factor < 1 zooms out), keeping anchor at the same relative
// position inside the window. The width is clamped to [1, full range]
// and the window slides back inside the dataset bounds rather than
// shrinking at an edge. Non-positive factors are ignored.
func (v *Viewport) Zoom(factor float64, anchor int64) {
	if factor <= 0 {
		return
	}
	oldWidth := v.Width()
	newWidth := int64(math.Round(float64(oldWidth) / factor))
	if newWidth < 1 {
		newWidth = 1
	}
	if full := v.max - v.min; newWidth > full {
		newWidth = full
	}

	rel := float64(anchor-v.start) / float64(oldWidth)
	if rel < 0 {
		rel = 0
	} else if rel > 1 {
		rel = 1
	}
	start := anchor - int64(math.Round(rel*float64(newWidth)))
	v.place(start, newWidth)
}

// Pan slides the window by delta ticks. The width never changes: at a
// dataset boundary the window pins instead of shrinking.
func (v *Viewport) Pan(delta int64) {
	v.place(v.start+delta, v.Width())
}

// FitToFullRange shows the whole trace.
func (v *Viewport) FitToFullRange() {
	v.start, v.end = v.min, v.max
}

// CenterOn recenters the window on t preserving the width, sliding at
// the dataset bounds. Used by jumps that land outside the window.
func (v *Viewport) CenterOn(t int64) {
	w := v.Width()
	v.place(t-w/2, w)
}

// SetWindow restores explicit bounds (session resume, startup flags),
// clamping them into the dataset range. Inverted or empty input falls
// back to the full range.
func (v *Viewport) SetWindow(start, end int64) {
	if start >= end {
		v.FitToFullRange()
		return
	}
	w := end - start
	if full := v.max - v.min; w > full {
		w = full
	}
	v.place(start, w)
}

// place positions a window of the given width at start, sliding it
// back inside [min, max].
func (v *Viewport) place(start, width int64) {
	if start < v.min {
		start = v.min
	}
	if start+width > v.max {
		start = v.max - width
	}
	v.start = start
	v.end = start + width
}
