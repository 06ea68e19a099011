package session

import (
	"fmt"

	"tickscope/internal/wave"
)

// Row is one visible line of the waveform view: a whole signal, or
// one bit of an expanded vector. Bit rows carry a synthetic id in the
// form "name[i]" and reference the vector's timeline; they own no
// data of their own.
type Row struct {
	// ID is the row identity: the signal id, or "signalID[bit]".
	ID string
	// SignalID is the owning database signal.
	SignalID string
	// Bit is the bit index for bit rows, 0 = least significant;
	// -1 for whole-signal rows.
	Bit int
}

// IsBit reports whether the row shows a single bit of a vector.
func (r Row) IsBit() bool { return r.Bit >= 0 }

func wholeRow(id string) Row {
	return Row{ID: id, SignalID: id, Bit: -1}
}

func bitRow(signalID string, bit int) Row {
	return Row{ID: fmt.Sprintf("%s[%d]", signalID, bit), SignalID: signalID, Bit: bit}
}

// Rows returns the display list in order. The slice is shared;
// callers must not modify it.
func (s *Session) Rows() []Row { return s.rows }

// ClearSelection empties the row list, used before restoring a saved
// layout.
func (s *Session) ClearSelection() { s.rows = nil }

// ToggleVisible hides the signal if it is currently shown (removing a
// whole expansion run along with it) and appends it at the end
// otherwise. Fails with wave.ErrUnknownSignal for ids not in the
// database.
func (s *Session) ToggleVisible(signalID string) error {
	if _, ok := s.db.Signal(signalID); !ok {
		return fmt.Errorf("%w: %q", wave.ErrUnknownSignal, signalID)
	}
	lo, hi := s.unitRange(signalID)
	if lo < 0 {
		s.rows = append(s.rows, wholeRow(signalID))
		return nil
	}
	s.rows = append(s.rows[:lo], s.rows[hi:]...)
	return nil
}

// Reorder moves the signal's rows (the whole bit run when expanded)
// so they start at newIndex, clamped to the list bounds. Fails with
// wave.ErrUnknownSignal when the signal is not in the list.
func (s *Session) Reorder(signalID string, newIndex int) error {
	lo, hi := s.unitRange(signalID)
	if lo < 0 {
		return fmt.Errorf("%w: %q not in view", wave.ErrUnknownSignal, signalID)
	}
	unit := append([]Row(nil), s.rows[lo:hi]...)
	rest := append(s.rows[:lo], s.rows[hi:]...)
	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex > len(rest) {
		newIndex = len(rest)
	}
	s.rows = make([]Row, 0, len(rest)+len(unit))
	s.rows = append(s.rows, rest[:newIndex]...)
	s.rows = append(s.rows, unit...)
	s.rows = append(s.rows, rest[newIndex:]...)
	return nil
}

// ExpandVector replaces the vector's row with one row per bit at the
// same position, most significant bit first, and returns the new row
// ids in display order. Expanding an already expanded vector is a
// no-op returning the existing ids. Fails with ErrNotAVector on
// scalars and wave.ErrUnknownSignal on absent ids.
func (s *Session) ExpandVector(signalID string) ([]string, error) {
	sig, ok := s.db.Signal(signalID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", wave.ErrUnknownSignal, signalID)
	}
	if sig.Kind != wave.KindVector {
		return nil, fmt.Errorf("%w: %q", ErrNotAVector, signalID)
	}

	lo, hi := s.unitRange(signalID)
	if lo >= 0 && s.rows[lo].IsBit() {
		ids := make([]string, 0, hi-lo)
		for _, r := range s.rows[lo:hi] {
			ids = append(ids, r.ID)
		}
		return ids, nil
	}

	bits := make([]Row, 0, sig.Width)
	ids := make([]string, 0, sig.Width)
	for bit := sig.Width - 1; bit >= 0; bit-- {
		r := bitRow(signalID, bit)
		bits = append(bits, r)
		ids = append(ids, r.ID)
	}

	if lo < 0 {
		// Not in view: expansion also makes it visible.
		s.rows = append(s.rows, bits...)
		return ids, nil
	}
	expanded := make([]Row, 0, len(s.rows)-1+len(bits))
	expanded = append(expanded, s.rows[:lo]...)
	expanded = append(expanded, bits...)
	expanded = append(expanded, s.rows[hi:]...)
	s.rows = expanded
	return ids, nil
}

// CollapseVector is the exact inverse of ExpandVector: the contiguous
// bit run is replaced by the whole-vector row at the run's position.
// Fails with ErrNotExpanded when no expansion exists.
func (s *Session) CollapseVector(signalID string) error {
	lo, hi := s.unitRange(signalID)
	if lo < 0 || !s.rows[lo].IsBit() {
		return fmt.Errorf("%w: %q", ErrNotExpanded, signalID)
	}
	collapsed := make([]Row, 0, len(s.rows)-(hi-lo)+1)
	collapsed = append(collapsed, s.rows[:lo]...)
	collapsed = append(collapsed, wholeRow(signalID))
	collapsed = append(collapsed, s.rows[hi:]...)
	s.rows = collapsed
	return nil
}

// unitRange returns the half-open row index range occupied by the
// signal: a single whole row or its contiguous bit run. lo is -1 when
// the signal is not in view.
func (s *Session) unitRange(signalID string) (lo, hi int) {
	lo = -1
	for i, r := range s.rows {
		if r.SignalID != signalID {
			if lo >= 0 {
				return lo, i
			}
			continue
		}
		if lo < 0 {
			lo = i
		}
	}
	if lo >= 0 {
		return lo, len(s.rows)
	}
	return -1, -1
}
