package render

import (
	"strconv"
	"strings"

	"tickscope/internal/wave"
	"tickscope/pkg/timeunit"
)

// Sketch renders a Grid as plain text: one ruler line followed by two
// lines per scalar row and three per vector row, each exactly
// Grid.Width cells wide. No color, no labels — the TUI adds those;
// the dump CLI and golden tests use the sketch as-is.
func Sketch(g Grid, glyphs GlyphSet, ts timeunit.Timescale) string {
	var lines []string
	lines = append(lines, Ruler(g, ts))
	for _, row := range g.Rows {
		lines = append(lines, RowLines(row, glyphs)...)
	}
	return strings.Join(lines, "\n")
}

// Ruler places "|<time>" at each mark column, dropping labels that
// would collide with the next mark.
func Ruler(g Grid, ts timeunit.Timescale) string {
	cells := make([]string, g.Width)
	for i := range cells {
		cells[i] = " "
	}
	for _, m := range g.Marks {
		if m.Col >= g.Width {
			continue
		}
		cells[m.Col] = "|"
		label := timeunit.FormatTicks(ts, m.Time)
		for i, r := range label {
			at := m.Col + 1 + i
			if at >= g.Width || cells[at] != " " {
				break
			}
			cells[at] = string(r)
		}
	}
	return strings.Join(cells, "")
}

// RowLines renders one grid row with the given glyphs: two lines for
// scalar and bit rows, three for vector rows. Column c of every line
// is exactly one cell wide, so callers can restyle single columns.
func RowLines(row GridRow, glyphs GlyphSet) []string {
	if row.Vector {
		return vectorLines(row, glyphs)
	}
	return scalarLines(row, glyphs)
}

func scalarLines(row GridRow, glyphs GlyphSet) []string {
	var hi, lo strings.Builder
	for _, c := range row.Cells {
		shape := glyphs.scalarGlyph(c)
		hi.WriteString(shape[0])
		lo.WriteString(shape[1])
	}
	return []string{hi.String(), lo.String()}
}

// vectorLines draws the three-line vector track: rails on top and
// bottom with change markers, and the value centered in each steady
// run on the middle line.
func vectorLines(row GridRow, glyphs GlyphSet) []string {
	n := len(row.Cells)
	top := make([]string, n)
	mid := make([]string, n)
	bot := make([]string, n)

	for i, c := range row.Cells {
		switch c.Event {
		case EventChange:
			top[i], mid[i], bot[i] = glyphs.VecChange[0], glyphs.VecChange[1], glyphs.VecChange[2]
		case EventDense:
			top[i], mid[i], bot[i] = glyphs.VecDense[0], glyphs.VecDense[1], glyphs.VecDense[2]
		default:
			top[i], mid[i], bot[i] = glyphs.VecHold[0], glyphs.VecHold[1], glyphs.VecHold[2]
		}
	}

	// Center a value label inside every run of hold cells.
	for start := 0; start < n; {
		if row.Cells[start].Event != EventHold {
			start++
			continue
		}
		end := start
		for end < n && row.Cells[end].Event == EventHold {
			end++
		}
		label := VectorLabel(row.Cells[start].Vec)
		if len(label) > end-start {
			label = label[:end-start]
		}
		at := start + (end-start-len(label))/2
		for i, r := range label {
			mid[at+i] = string(r)
		}
		start = end
	}

	return []string{
		strings.Join(top, ""),
		strings.Join(mid, ""),
		strings.Join(bot, ""),
	}
}

// VectorLabel formats a vector value for the value track: decimal
// when every bit is 0 or 1, the raw bit string otherwise ("xx01").
func VectorLabel(b wave.Bits) string {
	if n, ok := b.Uint(); ok {
		return strconv.FormatUint(n, 10)
	}
	return b.String()
}
