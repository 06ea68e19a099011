// Tickscope Dump — non-interactive inspection of Value Change Dump traces.
//
// Usage:
//
//	tickscope-dump <command> [flags] <trace.vcd>
//
// Commands:
//
//	info      Print trace summary (timescale, bounds, signal count)
//	signals   List declared signals
//	value     Print a signal's value at a time
//	edges     List edge times of a signal
//	render    Print a plain-text waveform sketch
//	version   Print version information
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"tickscope/internal/render"
	"tickscope/internal/session"
	"tickscope/internal/vcd"
	"tickscope/internal/wave"
	"tickscope/pkg/timeunit"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "info":
		cmdInfo()
	case "signals":
		cmdSignals()
	case "value":
		cmdValue()
	case "edges":
		cmdEdges()
	case "render":
		cmdRender()
	case "version":
		fmt.Printf("tickscope-dump v%s (commit: %s)\n", Version, GitCommit)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(2)
	}
}

func printUsage() {
	fmt.Println(`Tickscope Dump — inspect VCD traces without the TUI

Usage:
  tickscope-dump <command> [flags] <trace.vcd>

Commands:
  info      Print trace summary (timescale, bounds, signal count)
  signals   List declared signals
  value     Print a signal's value at a time      (--signal, --at)
  edges     List edge times of a signal           (--signal, --kind, --from, --to)
  render    Print a plain-text waveform sketch    (--width, --from, --to, --ascii)
  version   Print version information

Run 'tickscope-dump <command> --help' for details on each command.`)
}

// loadArg parses the flag set against the remaining arguments and
// loads the single positional trace path.
func loadArg(fs *flag.FlagSet) *wave.Database {
	fs.Parse(os.Args[2:])
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected one trace path\n")
		fs.Usage()
		os.Exit(2)
	}
	db, err := vcd.Load(fs.Arg(0))
	if err != nil {
		log.Fatalf("Failed to load %s: %v", fs.Arg(0), err)
	}
	return db
}

// cmdInfo prints the trace summary block.
func cmdInfo() {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	db := loadArg(fs)

	ts := db.Timescale()
	scale := "(none declared)"
	if !ts.IsZero() {
		scale = ts.String() + "/tick"
	}
	samples := 0
	for _, sig := range db.Signals() {
		tl, _ := db.Timeline(sig.ID)
		samples += tl.Len()
	}

	fmt.Printf("  Signals:     %d\n", len(db.Signals()))
	fmt.Printf("  Samples:     %d\n", samples)
	fmt.Printf("  Timescale:   %s\n", scale)
	fmt.Printf("  Range:       [%s .. %s]\n",
		timeunit.FormatTicks(ts, db.GlobalStart()), timeunit.FormatTicks(ts, db.GlobalEnd()))
	fmt.Printf("  Ticks:       %d\n", db.GlobalEnd()-db.GlobalStart())
}

// cmdSignals lists every declared signal with width and sample count.
func cmdSignals() {
	fs := flag.NewFlagSet("signals", flag.ExitOnError)
	db := loadArg(fs)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SIGNAL\tKIND\tWIDTH\tSAMPLES")
	for _, sig := range db.Signals() {
		tl, _ := db.Timeline(sig.ID)
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", sig.Label(), sig.Kind, sig.Width, tl.Len())
	}
	w.Flush()
}

// cmdValue prints a signal's value at one point in time.
func cmdValue() {
	fs := flag.NewFlagSet("value", flag.ExitOnError)
	signal := fs.String("signal", "", "signal id (required)")
	at := fs.String("at", "", "time, e.g. \"1.5us\" or bare ticks (required)")
	db := loadArg(fs)

	if *signal == "" || *at == "" {
		fmt.Fprintln(os.Stderr, "Error: --signal and --at are required")
		fs.Usage()
		os.Exit(2)
	}

	t, err := timeunit.ParseTicks(db.Timescale(), *at)
	if err != nil {
		log.Fatalf("Bad --at value %q: %v", *at, err)
	}
	tr, err := db.ValueAt(*signal, t)
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}

	sig, _ := db.Signal(*signal)
	value := tr.Scalar.String()
	if sig.Kind == wave.KindVector {
		value = tr.Vector.String()
		if n, ok := tr.Vector.Uint(); ok {
			value = fmt.Sprintf("%s (%d)", value, n)
		}
	}
	fmt.Printf("%s @ %s = %s\n", sig.Label(), timeunit.FormatTicks(db.Timescale(), t), value)
}

// cmdEdges lists qualifying edges of one signal, one time per line.
func cmdEdges() {
	fs := flag.NewFlagSet("edges", flag.ExitOnError)
	signal := fs.String("signal", "", "signal id (required)")
	kindName := fs.String("kind", "any", "edge kind: rising, falling, any")
	from := fs.String("from", "", "list edges strictly after this time (default: trace start)")
	to := fs.String("to", "", "stop after this time (default: trace end)")
	db := loadArg(fs)

	if *signal == "" {
		fmt.Fprintln(os.Stderr, "Error: --signal is required")
		fs.Usage()
		os.Exit(2)
	}
	kind, err := parseKind(*kindName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fs.Usage()
		os.Exit(2)
	}

	ts := db.Timescale()
	start, end := db.GlobalStart(), db.GlobalEnd()
	if *from != "" {
		if start, err = timeunit.ParseTicks(ts, *from); err != nil {
			log.Fatalf("Bad --from value %q: %v", *from, err)
		}
	}
	if *to != "" {
		if end, err = timeunit.ParseTicks(ts, *to); err != nil {
			log.Fatalf("Bad --to value %q: %v", *to, err)
		}
	}

	// Walk the trace with the same search the TUI uses.
	s := session.New(db)
	if err := s.JumpToTime(clampTime(start, db)); err != nil {
		log.Fatalf("Bad range: %v", err)
	}
	count := 0
	for {
		t, err := s.JumpToEdge(*signal, session.Forward, kind)
		if errors.Is(err, session.ErrNoEdge) {
			break
		}
		if err != nil {
			log.Fatalf("Search failed: %v", err)
		}
		if t > end {
			break
		}
		fmt.Println(timeunit.FormatTicks(ts, t))
		count++
	}
	fmt.Fprintf(os.Stderr, "%d %s edge(s)\n", count, kind)
}

// cmdRender prints the plain-text sketch of a time window.
func cmdRender() {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	width := fs.Int("width", 80, "grid width in columns")
	from := fs.String("from", "", "window start (default: trace start)")
	to := fs.String("to", "", "window end (default: trace end)")
	ascii := fs.Bool("ascii", false, "use ASCII glyphs instead of box drawing")
	db := loadArg(fs)

	if *width < 1 {
		fmt.Fprintln(os.Stderr, "Error: --width must be at least 1")
		fs.Usage()
		os.Exit(2)
	}

	ts := db.Timescale()
	s := session.New(db)
	start, end := s.Viewport.Start(), s.Viewport.End()
	var err error
	if *from != "" {
		if start, err = timeunit.ParseTicks(ts, *from); err != nil {
			log.Fatalf("Bad --from value %q: %v", *from, err)
		}
	}
	if *to != "" {
		if end, err = timeunit.ParseTicks(ts, *to); err != nil {
			log.Fatalf("Bad --to value %q: %v", *to, err)
		}
	}
	s.Viewport.SetWindow(start, end)

	glyphs := render.Unicode
	if *ascii {
		glyphs = render.ASCII
	}
	grid := render.Project(db, s.Rows(), s.Viewport, s.Cursor(), *width, render.DefaultRulerInterval)
	fmt.Println(render.Sketch(grid, glyphs, ts))
}

func parseKind(name string) (session.EdgeKind, error) {
	switch name {
	case "rising", "r":
		return session.Rising, nil
	case "falling", "f":
		return session.Falling, nil
	case "any", "change":
		return session.AnyChange, nil
	default:
		return session.AnyChange, fmt.Errorf("unknown edge kind %q", name)
	}
}

func clampTime(t int64, db *wave.Database) int64 {
	if t < db.GlobalStart() {
		return db.GlobalStart()
	}
	if t > db.GlobalEnd() {
		return db.GlobalEnd()
	}
	return t
}
