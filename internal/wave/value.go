package wave

import "strings"

// Value is one symbol of four-valued logic.
type Value uint8

const (
	// V0 is logic low.
	V0 Value = iota
	// V1 is logic high.
	V1
	// VX is unknown (uninitialized or conflicting drivers).
	VX
	// VZ is high impedance (undriven).
	VZ
)

// Rune returns the display rune for the value: '0', '1', 'x' or 'z'.
func (v Value) Rune() rune {
	switch v {
	case V0:
		return '0'
	case V1:
		return '1'
	case VZ:
		return 'z'
	default:
		return 'x'
	}
}

// String implements fmt.Stringer.
func (v Value) String() string {
	return string(v.Rune())
}

// ParseValue maps a trace character to a Value. Both cases of x and z
// are accepted; anything else reports ok=false.
func ParseValue(r rune) (Value, bool) {
	switch r {
	case '0':
		return V0, true
	case '1':
		return V1, true
	case 'x', 'X':
		return VX, true
	case 'z', 'Z':
		return VZ, true
	default:
		return VX, false
	}
}

// Bits is the value of a vector signal: a fixed-length sequence of
// Values stored most-significant bit first, the order vector literals
// are written in traces. Bits are immutable by convention once a
// transition owns them.
type Bits []Value

// AllX returns a width-long vector with every bit unknown.
func AllX(width int) Bits {
	b := make(Bits, width)
	for i := range b {
		b[i] = VX
	}
	return b
}

// Bit addresses bit i with zero = least significant.
func (b Bits) Bit(i int) Value {
	return b[len(b)-1-i]
}

// Equal reports whether two vectors have identical width and bits.
func (b Bits) Equal(o Bits) bool {
	if len(b) != len(o) {
		return false
	}
	for i := range b {
		if b[i] != o[i] {
			return false
		}
	}
	return true
}

// HasUnknown reports whether any bit is X or Z.
func (b Bits) HasUnknown() bool {
	for _, v := range b {
		if v == VX || v == VZ {
			return true
		}
	}
	return false
}

// Uint interprets the vector as an unsigned integer. It reports
// ok=false when any bit is X or Z (the numeric value is undefined)
// or the vector is wider than 64 bits.
func (b Bits) Uint() (uint64, bool) {
	if len(b) > 64 {
		return 0, false
	}
	var n uint64
	for _, v := range b {
		switch v {
		case V0:
			n <<= 1
		case V1:
			n = n<<1 | 1
		default:
			return 0, false
		}
	}
	return n, true
}

// String renders the bits most-significant first, e.g. "1010" or "xxxx".
func (b Bits) String() string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, v := range b {
		sb.WriteRune(v.Rune())
	}
	return sb.String()
}

// ParseBits parses a vector literal such as "1010" or "xx01". Short
// literals are extended on the left to width following trace
// convention: a leading '0' or '1' extends with zeros, a leading 'x'
// or 'z' extends with itself. Literals longer than width or containing
// invalid characters report ok=false.
func ParseBits(s string, width int) (Bits, bool) {
	runes := []rune(s)
	if len(runes) == 0 || len(runes) > width {
		return nil, false
	}
	b := make(Bits, 0, width)
	pad := width - len(runes)
	if pad > 0 {
		fill := V0
		switch runes[0] {
		case 'x', 'X':
			fill = VX
		case 'z', 'Z':
			fill = VZ
		}
		for i := 0; i < pad; i++ {
			b = append(b, fill)
		}
	}
	for _, r := range runes {
		v, ok := ParseValue(r)
		if !ok {
			return nil, false
		}
		b = append(b, v)
	}
	return b, true
}
