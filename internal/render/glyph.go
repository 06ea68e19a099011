package render

import "tickscope/internal/wave"

// GlyphSet maps cell events to terminal runes. Scalar rows draw two
// lines (high band, low band); vector rows draw three (top rail,
// value track, bottom rail). Each entry holds one rune per line.
type GlyphSet struct {
	Rising  [2]string // scalar 0 -> 1
	Falling [2]string // scalar 1 -> 0
	High    [2]string // steady 1
	Low     [2]string // steady 0
	Unknown [2]string // steady x
	HighZ   [2]string // steady z
	Dense   [2]string // more than one event in the column

	VecChange [3]string
	VecHold   [3]string // middle entry is the fill between value labels
	VecDense  [3]string
}

// Unicode is the default box-drawing glyph set.
var Unicode = GlyphSet{
	Rising:  [2]string{"┌", "┘"},
	Falling: [2]string{"┐", "└"},
	High:    [2]string{"─", " "},
	Low:     [2]string{" ", "─"},
	Unknown: [2]string{"x", "x"},
	HighZ:   [2]string{"z", "z"},
	Dense:   [2]string{"␩", "␩"},

	VecChange: [3]string{"┬", "│", "┴"},
	VecHold:   [3]string{"─", " ", "─"},
	VecDense:  [3]string{"␩", "␩", "␩"},
}

// ASCII is a plain-terminal fallback with no box drawing.
var ASCII = GlyphSet{
	Rising:  [2]string{"/", "/"},
	Falling: [2]string{"\\", "\\"},
	High:    [2]string{"-", " "},
	Low:     [2]string{" ", "-"},
	Unknown: [2]string{"x", "x"},
	HighZ:   [2]string{"z", "z"},
	Dense:   [2]string{"*", "*"},

	VecChange: [3]string{"|", "|", "|"},
	VecHold:   [3]string{"-", " ", "-"},
	VecDense:  [3]string{"*", "*", "*"},
}

// scalarGlyph picks the two-line shape for a scalar or bit cell.
// A recorded change that lands on the same value renders as a hold so
// the trace stays a clean line.
func (gs *GlyphSet) scalarGlyph(c Cell) [2]string {
	if c.Event == EventDense {
		return gs.Dense
	}
	if c.Event == EventChange && c.Prev != c.Cur {
		switch {
		case c.Prev == wave.V0 && c.Cur == wave.V1:
			return gs.Rising
		case c.Prev == wave.V1 && c.Cur == wave.V0:
			return gs.Falling
		}
		// Changes touching x or z have no edge shape; fall through to
		// the new value's hold.
	}
	switch c.Cur {
	case wave.V1:
		return gs.High
	case wave.V0:
		return gs.Low
	case wave.VZ:
		return gs.HighZ
	default:
		return gs.Unknown
	}
}
