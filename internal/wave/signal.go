package wave

import "fmt"

// Kind distinguishes the two signal shapes. The set is closed: every
// consumer switches over both cases exhaustively.
type Kind uint8

const (
	// KindScalar is a single-bit signal.
	KindScalar Kind = iota
	// KindVector is a fixed-width multi-bit signal.
	KindVector
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k == KindVector {
		return "vector"
	}
	return "scalar"
}

// Signal identifies one trace variable. Immutable after load.
type Signal struct {
	// ID is the stable identity used in every query.
	ID string
	// Name is the display name, usually scope-qualified ("top.cpu.clk").
	Name string
	// Kind is scalar or vector.
	Kind Kind
	// Width is the bit width: 1 for scalars, >= 1 for vectors.
	Width int
}

// Label returns the name with a width suffix for vectors, the form the
// UI lists signals in: "bus[3:0]".
func (s Signal) Label() string {
	if s.Kind == KindVector {
		return fmt.Sprintf("%s[%d:0]", s.Name, s.Width-1)
	}
	return s.Name
}
