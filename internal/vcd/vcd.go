// Package vcd reads Value Change Dump files into a waveform database.
//
// It speaks the common dialect simulators emit: a header of
// $timescale/$scope/$var declarations closed by $enddefinitions,
// then #time stamps with scalar changes ("0!", "x!") and binary
// vector changes ("b1010 !"). Identifier codes may alias several
// declared variables; each alias gets its own signal fed from the
// same changes. Variables of unsupported types (real, string, event)
// are skipped along with their changes.
//
// Any structural violation (a change before the header ends, an
// undeclared identifier code, a malformed literal, time running
// backwards) fails the whole load with wave.ErrCorruptTrace and line
// context. Loading never yields a partial database.
package vcd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"tickscope/internal/wave"
	"tickscope/pkg/timeunit"
)

// Load reads the VCD file at path into a database.
func Load(path string) (*wave.Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	defer f.Close()
	db, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return db, nil
}

// Parse reads VCD text from r into a database.
func Parse(r io.Reader) (*wave.Database, error) {
	p := &parser{
		tok:     newTokenizer(r),
		builder: wave.NewBuilder(),
		vars:    make(map[string][]varDecl),
		skipped: make(map[string]bool),
	}
	if err := p.parseHeader(); err != nil {
		return nil, err
	}
	if err := p.parseChanges(); err != nil {
		return nil, err
	}
	if err := p.tok.scanner.Err(); err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	db, err := p.builder.Build()
	if err != nil {
		return nil, err
	}
	return db, nil
}

// varDecl is one declared variable: the signal it was registered as
// plus its width, kept per identifier code so aliased codes fan out.
type varDecl struct {
	id    string
	width int
}

type parser struct {
	tok     *tokenizer
	builder *wave.Builder
	scope   []string
	vars    map[string][]varDecl // identifier code -> declared signals
	skipped map[string]bool      // codes of unsupported variable types
	now     int64
}

func (p *parser) corrupt(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("line %d: %w: %s", p.tok.line, wave.ErrCorruptTrace, msg)
}

// ── Header ──

func (p *parser) parseHeader() error {
	for {
		t, ok := p.tok.next()
		if !ok {
			return p.corrupt("header not closed by $enddefinitions")
		}
		switch t {
		case "$enddefinitions":
			return p.skipToEnd(t)
		case "$timescale":
			if err := p.parseTimescale(); err != nil {
				return err
			}
		case "$scope":
			if err := p.parseScope(); err != nil {
				return err
			}
		case "$upscope":
			if len(p.scope) == 0 {
				return p.corrupt("$upscope without open scope")
			}
			p.scope = p.scope[:len(p.scope)-1]
			if err := p.skipToEnd(t); err != nil {
				return err
			}
		case "$var":
			if err := p.parseVar(); err != nil {
				return err
			}
		case "$date", "$version", "$comment":
			if err := p.skipToEnd(t); err != nil {
				return err
			}
		default:
			return p.corrupt("unexpected token %q in header", t)
		}
	}
}

func (p *parser) parseTimescale() error {
	var parts []string
	for {
		t, ok := p.tok.next()
		if !ok {
			return p.corrupt("$timescale not closed")
		}
		if t == "$end" {
			break
		}
		parts = append(parts, t)
	}
	ts, err := timeunit.ParseTimescale(strings.Join(parts, ""))
	if err != nil {
		return p.corrupt("%v", err)
	}
	p.builder.SetTimescale(ts)
	return nil
}

func (p *parser) parseScope() error {
	// $scope <type> <identifier> $end — the type (module, task, ...)
	// only matters for display nesting, which we flatten to dots.
	kind, ok := p.tok.next()
	if !ok {
		return p.corrupt("$scope missing type")
	}
	_ = kind
	name, ok := p.tok.next()
	if !ok {
		return p.corrupt("$scope missing identifier")
	}
	p.scope = append(p.scope, name)
	return p.skipToEnd("$scope")
}

func (p *parser) parseVar() error {
	// $var <type> <size> <code> <reference> [<range>] $end
	var fields []string
	for {
		t, ok := p.tok.next()
		if !ok {
			return p.corrupt("$var not closed")
		}
		if t == "$end" {
			break
		}
		fields = append(fields, t)
	}
	if len(fields) < 4 {
		return p.corrupt("$var with %d fields", len(fields))
	}
	typ, sizeStr, code := fields[0], fields[1], fields[2]
	ref := strings.Join(fields[3:], "")

	switch typ {
	case "real", "realtime", "string", "event":
		p.skipped[code] = true
		return nil
	}

	size, err := strconv.Atoi(sizeStr)
	if err != nil || size < 1 {
		return p.corrupt("$var %q has size %q", ref, sizeStr)
	}

	name := ref
	if len(p.scope) > 0 {
		name = strings.Join(p.scope, ".") + "." + ref
	}
	if size == 1 {
		err = p.builder.AddScalar(name, name)
	} else {
		err = p.builder.AddVector(name, name, size)
	}
	if err != nil {
		return fmt.Errorf("line %d: %w", p.tok.line, err)
	}
	p.vars[code] = append(p.vars[code], varDecl{id: name, width: size})
	return nil
}

// skipToEnd consumes tokens through the closing $end of a command.
func (p *parser) skipToEnd(cmd string) error {
	for {
		t, ok := p.tok.next()
		if !ok {
			return p.corrupt("%s not closed", cmd)
		}
		if t == "$end" {
			return nil
		}
	}
}

// ── Value changes ──

func (p *parser) parseChanges() error {
	for {
		t, ok := p.tok.next()
		if !ok {
			return nil
		}
		switch {
		case t == "$end":
			// Closes a $dumpvars-style block; the contained changes
			// were already applied.
		case t == "$dumpvars", t == "$dumpall", t == "$dumpon", t == "$dumpoff":
			// Changes inside these blocks are ordinary changes.
		case t == "$comment":
			if err := p.skipToEnd(t); err != nil {
				return err
			}
		case t[0] == '#':
			n, err := strconv.ParseInt(t[1:], 10, 64)
			if err != nil {
				return p.corrupt("bad timestamp %q", t)
			}
			if n < p.now {
				return p.corrupt("time runs backwards: #%d after #%d", n, p.now)
			}
			p.now = n
		case t[0] == 'b' || t[0] == 'B':
			code, ok := p.tok.next()
			if !ok {
				return p.corrupt("vector change %q missing identifier", t)
			}
			if err := p.applyVector(t[1:], code); err != nil {
				return err
			}
		case t[0] == 'r' || t[0] == 'R', t[0] == 's' || t[0] == 'S':
			// Real and string changes carry a value token then the
			// code; both are unsupported, skip the code too.
			if _, ok := p.tok.next(); !ok {
				return p.corrupt("change %q missing identifier", t)
			}
		default:
			if err := p.applyScalar(t); err != nil {
				return err
			}
		}
	}
}

func (p *parser) applyScalar(t string) error {
	runes := []rune(t)
	if len(runes) < 2 {
		return p.corrupt("malformed change %q", t)
	}
	v, ok := wave.ParseValue(runes[0])
	if !ok {
		return p.corrupt("malformed change %q", t)
	}
	code := string(runes[1:])
	decls, err := p.lookup(code)
	if err != nil || decls == nil {
		return err
	}
	for _, d := range decls {
		if d.width != 1 {
			return p.corrupt("scalar change for %d-bit %q", d.width, d.id)
		}
		if err := p.builder.AppendScalar(d.id, p.now, v); err != nil {
			return fmt.Errorf("line %d: %w", p.tok.line, err)
		}
	}
	return nil
}

func (p *parser) applyVector(lit, code string) error {
	decls, err := p.lookup(code)
	if err != nil || decls == nil {
		return err
	}
	for _, d := range decls {
		bits, ok := wave.ParseBits(lit, d.width)
		if !ok {
			return p.corrupt("vector literal %q does not fit %d-bit %q", lit, d.width, d.id)
		}
		if d.width == 1 {
			err = p.builder.AppendScalar(d.id, p.now, bits[0])
		} else {
			err = p.builder.AppendVector(d.id, p.now, bits)
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", p.tok.line, err)
		}
	}
	return nil
}

// lookup resolves an identifier code. Skipped codes return (nil, nil)
// so their changes are dropped; unknown codes are corrupt input.
func (p *parser) lookup(code string) ([]varDecl, error) {
	if p.skipped[code] {
		return nil, nil
	}
	decls, ok := p.vars[code]
	if !ok {
		return nil, p.corrupt("change for undeclared identifier %q", code)
	}
	return decls, nil
}

// ── Tokenizer ──

// tokenizer yields whitespace-separated tokens and tracks the current
// line for error context.
type tokenizer struct {
	scanner *bufio.Scanner
	pending []string
	line    int
}

func newTokenizer(r io.Reader) *tokenizer {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &tokenizer{scanner: sc}
}

func (t *tokenizer) next() (string, bool) {
	for len(t.pending) == 0 {
		if !t.scanner.Scan() {
			return "", false
		}
		t.line++
		t.pending = strings.Fields(t.scanner.Text())
	}
	tok := t.pending[0]
	t.pending = t.pending[1:]
	return tok, true
}
