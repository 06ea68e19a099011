// Package timeunit converts between simulation ticks and human time
// strings using a trace's declared timescale.
//
// All times in a trace are integer ticks. A timescale declares the
// real duration of one tick ("100ns" = one tick is 100 nanoseconds).
// This package handles parsing the declaration, formatting tick
// values for display, and parsing user-entered times back to ticks.
package timeunit

import (
	"fmt"
	"strings"
)

// Unit is a simulation time unit, femtoseconds through seconds.
type Unit int

const (
	Femtosecond Unit = iota
	Picosecond
	Nanosecond
	Microsecond
	Millisecond
	Second
)

var unitNames = [...]string{"fs", "ps", "ns", "us", "ms", "s"}

// femtoseconds per unit, for cross-unit conversion.
var unitFemtos = [...]int64{1, 1e3, 1e6, 1e9, 1e12, 1e15}

// String implements fmt.Stringer.
func (u Unit) String() string {
	if u < Femtosecond || u > Second {
		return "?"
	}
	return unitNames[u]
}

// ParseUnit maps a unit suffix ("ns", "us", ...) to a Unit.
func ParseUnit(s string) (Unit, bool) {
	for u, name := range unitNames {
		if s == name {
			return Unit(u), true
		}
	}
	return 0, false
}

// Timescale declares the real duration of one tick: Factor Units,
// e.g. {100, Nanosecond} for "one tick = 100ns". The zero value means
// the trace declared no timescale and times display as bare ticks.
type Timescale struct {
	Factor int64
	Unit   Unit
}

// IsZero reports whether no timescale was declared.
func (ts Timescale) IsZero() bool { return ts.Factor == 0 }

// String renders the declaration form, e.g. "100ns"; empty when zero.
func (ts Timescale) String() string {
	if ts.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d%s", ts.Factor, ts.Unit)
}

// ParseTimescale parses a timescale declaration such as "1ns",
// "10 ps" or "100us".
func ParseTimescale(s string) (Timescale, error) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return Timescale{}, fmt.Errorf("timescale %q: missing magnitude", s)
	}
	var factor int64
	for _, c := range s[:i] {
		factor = factor*10 + int64(c-'0')
	}
	if factor == 0 {
		return Timescale{}, fmt.Errorf("timescale %q: zero magnitude", s)
	}
	unit, ok := ParseUnit(strings.TrimSpace(s[i:]))
	if !ok {
		return Timescale{}, fmt.Errorf("timescale %q: unknown unit", s)
	}
	return Timescale{Factor: factor, Unit: unit}, nil
}

// FormatTicks renders a tick count for display, promoting to a larger
// unit while the value divides evenly by 1000: 1500 ticks at 100ns is
// "150us". With a zero timescale the bare tick count is returned.
func FormatTicks(ts Timescale, t int64) string {
	if ts.IsZero() {
		return fmt.Sprintf("%d", t)
	}
	v := t * ts.Factor
	if ts.Factor != 0 && v/ts.Factor != t {
		// Overflow; fall back to raw ticks.
		return fmt.Sprintf("%d", t)
	}
	u := ts.Unit
	for v != 0 && v%1000 == 0 && u < Second {
		v /= 1000
		u++
	}
	return fmt.Sprintf("%d%s", v, u)
}

// ParseTicks parses a user-entered time into ticks. Accepted forms:
// a bare tick count ("1500"), or a magnitude with unit suffix
// ("200ns", "1.5us"). Unit-suffixed values need a declared timescale
// and round to the nearest tick. Negative times are rejected.
func ParseTicks(ts Timescale, s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty time")
	}

	// Split into numeric prefix (with optional fraction) and suffix.
	i := 0
	dot := -1
	for i < len(s) {
		c := s[i]
		if c >= '0' && c <= '9' {
			i++
			continue
		}
		if c == '.' && dot < 0 {
			dot = i
			i++
			continue
		}
		break
	}
	if i == 0 || dot == i-1 {
		return 0, fmt.Errorf("time %q: missing magnitude", s)
	}
	suffix := strings.TrimSpace(s[i:])

	intPart := s[:i]
	fracPart := ""
	if dot >= 0 {
		intPart = s[:dot]
		fracPart = s[dot+1 : i]
	}
	var whole, frac int64
	fracDigits := 0
	for _, c := range intPart {
		whole = whole*10 + int64(c-'0')
	}
	for _, c := range fracPart {
		frac = frac*10 + int64(c-'0')
		fracDigits++
	}

	if suffix == "" {
		if fracDigits > 0 {
			return 0, fmt.Errorf("time %q: fractional ticks", s)
		}
		return whole, nil
	}

	unit, ok := ParseUnit(suffix)
	if !ok {
		return 0, fmt.Errorf("time %q: unknown unit %q", s, suffix)
	}
	if ts.IsZero() {
		return 0, fmt.Errorf("time %q: trace declares no timescale", s)
	}

	// Work in femtoseconds: value = (whole + frac/10^fracDigits) * unitFemtos.
	unitFs := unitFemtos[unit]
	tickFs := ts.Factor * unitFemtos[ts.Unit]
	valueFs := whole * unitFs
	if whole != 0 && valueFs/whole != unitFs {
		return 0, fmt.Errorf("time %q: too large", s)
	}
	if fracDigits > 15 {
		return 0, fmt.Errorf("time %q: too many fractional digits", s)
	}
	if fracDigits > 0 {
		scale := int64(1)
		for j := 0; j < fracDigits; j++ {
			scale *= 10
		}
		valueFs += frac * (unitFs / scale)
	}
	// Round to the nearest tick.
	return (valueFs + tickFs/2) / tickFs, nil
}
