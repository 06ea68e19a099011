// Package render projects a time window of waveform data onto a
// fixed-width terminal column grid.
//
// Project is a pure function of (database, rows, viewport, cursor):
// it touches no state and projecting twice yields an identical Grid,
// so a redraw is always safe to repeat. Glyph mapping is kept out of
// the projection — cells carry event kinds and values, and sketch.go
// turns them into runes.
package render

import (
	"fmt"
	"math"

	"tickscope/internal/session"
	"tickscope/internal/wave"
)

// DefaultRulerInterval is the column spacing of time marks on the
// ruler when the caller does not choose one.
const DefaultRulerInterval = 10

// Event classifies what one column of one row contains.
type Event uint8

const (
	// EventHold means no transition falls inside the column; the cell
	// shows the held value.
	EventHold Event = iota
	// EventChange means exactly one transition falls inside the column.
	EventChange
	// EventDense means more than one transition falls inside the
	// column: the zoom level is coarser than the data, and the cell is
	// flagged rather than pretending the value was steady.
	EventDense
)

// Cell is one column of one waveform row. For scalar and bit rows
// Prev and Cur carry the value before and after the column's events
// (equal for holds). For vector rows Vec carries the value in effect
// after the column and Prev/Cur are unused.
type Cell struct {
	Event Event
	Prev  wave.Value
	Cur   wave.Value
	Vec   wave.Bits
}

// GridRow is the projection of one display row.
type GridRow struct {
	// ID is the row id: a signal id or an expanded bit id.
	ID string
	// Label is the display name, e.g. "top.bus[3:0]" or "top.bus[3]".
	Label string
	// Vector reports vector-style rendering (value track) as opposed
	// to the two-band scalar shape.
	Vector bool
	// Cells holds one entry per grid column.
	Cells []Cell
}

// Mark is a ruler time label anchored at a column.
type Mark struct {
	Col  int
	Time int64
}

// Grid is the complete projection handed to the drawing layer each
// redraw: all rows, the ruler marks, and where the cursor column is
// (-1 when the cursor lies outside the window).
type Grid struct {
	Rows          []GridRow
	Marks         []Mark
	Width         int
	CursorCol     int
	TimePerColumn float64
}

// Project maps the viewport's time window across width columns for
// the given rows. Each column covers the half-open tick range
// [start + c*tpc, start + (c+1)*tpc); the final column additionally
// covers the window's right edge so the trace's last transition stays
// visible at full zoom. rulerEvery <= 0 selects the default interval.
func Project(db *wave.Database, rows []session.Row, vp session.Viewport, cursor int64, width, rulerEvery int) Grid {
	if width < 1 {
		width = 1
	}
	if rulerEvery <= 0 {
		rulerEvery = DefaultRulerInterval
	}
	tpc := float64(vp.Width()) / float64(width)

	g := Grid{
		Rows:          make([]GridRow, 0, len(rows)),
		Width:         width,
		CursorCol:     ColumnOf(vp, width, cursor),
		TimePerColumn: tpc,
	}
	for c := 0; c < width; c += rulerEvery {
		g.Marks = append(g.Marks, Mark{Col: c, Time: TimeOf(vp, width, c)})
	}
	for _, row := range rows {
		g.Rows = append(g.Rows, projectRow(db, row, vp, width, tpc))
	}
	return g
}

// ColumnOf maps a tick to its grid column, or -1 when the tick is
// outside the window. The window's right edge maps to the last
// column. Every tick maps to exactly one column.
func ColumnOf(vp session.Viewport, width int, t int64) int {
	if t < vp.Start() || t > vp.End() {
		return -1
	}
	tpc := float64(vp.Width()) / float64(width)
	c := int(math.Floor(float64(t-vp.Start()) / tpc))
	if c >= width {
		c = width - 1
	}
	return c
}

// TimeOf maps a grid column to the first tick it covers, the inverse
// of ColumnOf up to column granularity.
func TimeOf(vp session.Viewport, width, c int) int64 {
	if c < 0 {
		c = 0
	}
	if c >= width {
		c = width - 1
	}
	tpc := float64(vp.Width()) / float64(width)
	return vp.Start() + int64(math.Ceil(float64(c)*tpc))
}

func projectRow(db *wave.Database, row session.Row, vp session.Viewport, width int, tpc float64) GridRow {
	sig, _ := db.Signal(row.SignalID)
	out := GridRow{
		ID:     row.ID,
		Label:  RowLabel(sig, row),
		Vector: sig.Kind == wave.KindVector && !row.IsBit(),
		Cells:  make([]Cell, width),
	}

	held, err := db.ValueAt(row.SignalID, vp.Start())
	if err != nil {
		// Defensive: rows come from the session over the same
		// database, so the start value is always defined.
		held = wave.Transition{Time: vp.Start(), Scalar: wave.VX, Vector: wave.AllX(sig.Width)}
	}

	for c := 0; c < width; c++ {
		from := vp.Start() + int64(math.Ceil(float64(c)*tpc))
		to := vp.Start() + int64(math.Ceil(float64(c+1)*tpc))
		if c == width-1 {
			to = vp.End() + 1
		}
		span, _ := db.TransitionsIn(row.SignalID, from, to)

		switch {
		case row.IsBit():
			out.Cells[c], held = bitCell(row.Bit, held, span)
		case out.Vector:
			out.Cells[c], held = vectorCell(held, span)
		default:
			out.Cells[c], held = scalarCell(held, span)
		}
	}
	return out
}

func scalarCell(held wave.Transition, span wave.Span) (Cell, wave.Transition) {
	switch len(span) {
	case 0:
		return Cell{Event: EventHold, Prev: held.Scalar, Cur: held.Scalar}, held
	case 1:
		return Cell{Event: EventChange, Prev: held.Scalar, Cur: span[0].Scalar}, span[0]
	default:
		last := span[len(span)-1]
		return Cell{Event: EventDense, Prev: held.Scalar, Cur: last.Scalar}, last
	}
}

func vectorCell(held wave.Transition, span wave.Span) (Cell, wave.Transition) {
	switch len(span) {
	case 0:
		return Cell{Event: EventHold, Vec: held.Vector}, held
	case 1:
		return Cell{Event: EventChange, Vec: span[0].Vector}, span[0]
	default:
		last := span[len(span)-1]
		return Cell{Event: EventDense, Vec: last.Vector}, last
	}
}

// bitCell classifies a column of an expanded bit row. The derived bit
// timeline transitions only where the bit itself changes, so vector
// writes that leave this bit alone do not count as events here.
func bitCell(bit int, held wave.Transition, span wave.Span) (Cell, wave.Transition) {
	prev := held.Vector.Bit(bit)
	cur := prev
	changes := 0
	for _, tr := range span {
		if b := tr.Vector.Bit(bit); b != cur {
			changes++
			cur = b
		}
	}
	next := held
	if len(span) > 0 {
		next = span[len(span)-1]
	}
	switch changes {
	case 0:
		return Cell{Event: EventHold, Prev: prev, Cur: prev}, next
	case 1:
		return Cell{Event: EventChange, Prev: prev, Cur: cur}, next
	default:
		return Cell{Event: EventDense, Prev: prev, Cur: cur}, next
	}
}

// RowLabel is the display name of a row: the signal's label, or
// "name[i]" for an expanded bit.
func RowLabel(sig wave.Signal, row session.Row) string {
	if row.IsBit() {
		return fmt.Sprintf("%s[%d]", sig.Name, row.Bit)
	}
	return sig.Label()
}
