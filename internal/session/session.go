package session

import (
	"fmt"

	"tickscope/internal/wave"
)

// Direction selects which way an edge search walks from the cursor.
type Direction uint8

const (
	Forward Direction = iota
	Backward
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// EdgeKind selects which transitions qualify as search targets.
type EdgeKind uint8

const (
	// AnyChange matches every transition whose value differs from its
	// predecessor, on scalars, vectors and single bits alike.
	AnyChange EdgeKind = iota
	// Rising matches strict 0 to 1 transitions on scalars and bits.
	Rising
	// Falling matches strict 1 to 0 transitions on scalars and bits.
	Falling
)

// String implements fmt.Stringer.
func (k EdgeKind) String() string {
	switch k {
	case Rising:
		return "rising edge"
	case Falling:
		return "falling edge"
	default:
		return "change"
	}
}

// Session is the mutable navigation state over one immutable
// database: viewport, cursor, and the displayed row list. One session
// serves one view; it is not safe for concurrent use and never needs
// to be — input events are applied one at a time.
type Session struct {
	db       *wave.Database
	Viewport Viewport
	cursor   int64
	rows     []Row
}

// New returns a session showing the full trace range with every
// signal visible in load order and the cursor at the first sample.
func New(db *wave.Database) *Session {
	s := &Session{
		db:       db,
		Viewport: NewViewport(db.GlobalStart(), db.GlobalEnd()),
		cursor:   db.GlobalStart(),
	}
	for _, sig := range db.Signals() {
		s.rows = append(s.rows, wholeRow(sig.ID))
	}
	return s
}

// DB returns the database this session navigates.
func (s *Session) DB() *wave.Database { return s.db }

// Cursor returns the current cursor time.
func (s *Session) Cursor() int64 { return s.cursor }

// JumpToTime moves the cursor to t. When t lies outside the viewport
// the window recenters on it, preserving the zoom width. Fails with
// wave.ErrTimeOutOfRange when t is outside the trace bounds; the
// cursor and viewport are left unchanged.
func (s *Session) JumpToTime(t int64) error {
	if t < s.db.GlobalStart() || t > s.db.GlobalEnd() {
		return fmt.Errorf("%w: t=%d outside [%d, %d]",
			wave.ErrTimeOutOfRange, t, s.db.GlobalStart(), s.db.GlobalEnd())
	}
	s.cursor = t
	if !s.Viewport.Contains(t) {
		s.Viewport.CenterOn(t)
	}
	return nil
}

// JumpToEdge searches the signal's timeline for the nearest
// qualifying transition strictly after (Forward) or strictly before
// (Backward) the cursor, moves the cursor there, and scrolls the
// viewport only if the target falls outside it. The id may name a
// database signal or an expanded bit row. Rising and Falling require
// a scalar or a bit (ErrNotScalar on whole vectors). When no edge
// qualifies the cursor stays and ErrNoEdge is returned.
func (s *Session) JumpToEdge(id string, dir Direction, kind EdgeKind) (int64, error) {
	row, err := s.resolveRow(id)
	if err != nil {
		return 0, err
	}
	sig, _ := s.db.Signal(row.SignalID)
	if kind != AnyChange && sig.Kind == wave.KindVector && !row.IsBit() {
		return 0, fmt.Errorf("%w: %s on vector %q", ErrNotScalar, kind, id)
	}
	tl, err := s.db.Timeline(row.SignalID)
	if err != nil {
		return 0, err
	}

	var found int64
	ok := false
	switch dir {
	case Forward:
		for i := tl.SearchTime(s.cursor + 1); i < tl.Len(); i++ {
			if qualifies(tl, i, row, kind) {
				found, ok = tl.At(i).Time, true
				break
			}
		}
	case Backward:
		for i := tl.SearchTime(s.cursor) - 1; i >= 1; i-- {
			if qualifies(tl, i, row, kind) {
				found, ok = tl.At(i).Time, true
				break
			}
		}
	}
	if !ok {
		return 0, fmt.Errorf("%w: no %s %s of %q from t=%d",
			ErrNoEdge, dir, kind, id, s.cursor)
	}

	s.cursor = found
	if !s.Viewport.Contains(found) {
		s.Viewport.CenterOn(found)
	}
	return found, nil
}

// resolveRow maps an id to a row descriptor: a database signal id, or
// the synthetic id of an expanded bit currently in the row list.
func (s *Session) resolveRow(id string) (Row, error) {
	if _, ok := s.db.Signal(id); ok {
		return wholeRow(id), nil
	}
	for _, r := range s.rows {
		if r.ID == id && r.IsBit() {
			return r, nil
		}
	}
	return Row{}, fmt.Errorf("%w: %q", wave.ErrUnknownSignal, id)
}

// qualifies reports whether transition i is an edge of the requested
// kind for the given row. The first transition of a timeline has no
// predecessor and never qualifies.
func qualifies(tl *wave.Timeline, i int, row Row, kind EdgeKind) bool {
	if i < 1 {
		return false
	}
	prev, cur := tl.At(i-1), tl.At(i)

	if row.IsBit() {
		pv, cv := prev.Vector.Bit(row.Bit), cur.Vector.Bit(row.Bit)
		switch kind {
		case Rising:
			return pv == wave.V0 && cv == wave.V1
		case Falling:
			return pv == wave.V1 && cv == wave.V0
		default:
			return pv != cv
		}
	}

	switch kind {
	case Rising:
		return prev.Scalar == wave.V0 && cur.Scalar == wave.V1
	case Falling:
		return prev.Scalar == wave.V1 && cur.Scalar == wave.V0
	default:
		return !cur.SameValue(prev)
	}
}
