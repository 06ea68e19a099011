// Tickscope — a terminal waveform viewer for Value Change Dump traces.
//
// Usage:
//
//	tickscope [flags] <trace.vcd>
//
// Flags:
//
//	--goto       Initial cursor time ("1.5us" or bare ticks)
//	--zoom       Initial window width in ticks (0 = full range)
//	--layout     Signal layout file to apply (YAML)
//	--config     Config file path (default: user config dir)
//	--no-session Do not restore or save per-trace view state
//	--no-watch   Do not reload when the trace file changes
//	--version    Print version information
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tickscope/internal/config"
	"tickscope/internal/layout"
	"tickscope/internal/session"
	"tickscope/internal/store"
	"tickscope/internal/tui"
	"tickscope/internal/vcd"
	"tickscope/internal/watch"
	"tickscope/pkg/timeunit"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

func main() {
	gotoTime := flag.String("goto", "", "initial cursor time, e.g. \"1.5us\" or bare ticks")
	zoomTicks := flag.Int64("zoom", 0, "initial window width in ticks (0 = full range)")
	layoutPath := flag.String("layout", "", "signal layout file to apply (YAML)")
	configPath := flag.String("config", "", "config file path")
	noSession := flag.Bool("no-session", false, "do not restore or save per-trace view state")
	noWatch := flag.Bool("no-watch", false, "do not reload when the trace file changes")
	showVersion := flag.Bool("version", false, "print version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("tickscope v%s (commit: %s)\n", Version, GitCommit)
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: tickscope [flags] <trace.vcd>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	tracePath := flag.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	db, err := vcd.Load(tracePath)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", tracePath, err)
	}
	sess := session.New(db)

	// Saved per-trace view state. The store failing to open degrades to
	// a stateless run rather than refusing to start.
	var st *store.DBService
	if cfg.Session.Enabled && !*noSession {
		st, err = store.NewDBService(cfg.Session.Path)
		if err != nil {
			log.Printf("[WARN] Session store unavailable: %v", err)
			st = nil
		} else {
			defer st.Close()
			restoreView(st, tracePath, sess)
		}
	}

	if *layoutPath != "" {
		f, err := layout.Load(*layoutPath)
		if err != nil {
			log.Fatalf("Failed to load layout %s: %v", *layoutPath, err)
		}
		if skipped := layout.Apply(f, sess); len(skipped) > 0 {
			log.Printf("[WARN] Layout names %d signal(s) not in this trace: %v",
				len(skipped), skipped)
		}
	}

	if *gotoTime != "" {
		t, err := timeunit.ParseTicks(db.Timescale(), *gotoTime)
		if err != nil {
			log.Fatalf("Bad --goto value %q: %v", *gotoTime, err)
		}
		if err := sess.JumpToTime(t); err != nil {
			log.Fatalf("Bad --goto value %q: %v", *gotoTime, err)
		}
	}
	if *zoomTicks > 0 {
		start := sess.Cursor() - *zoomTicks/2
		sess.Viewport.SetWindow(start, start+*zoomTicks)
	}

	var watcher *watch.Watcher
	if cfg.Watch.Enabled && !*noWatch {
		w, werr := watch.New(tracePath, time.Duration(cfg.Watch.DebounceMs)*time.Millisecond)
		if werr == nil {
			werr = w.Start()
		}
		if werr != nil {
			log.Printf("[WARN] Live reload unavailable: %v", werr)
		} else {
			watcher = w
			defer watcher.Stop()
		}
	}

	model := tui.NewModel(cfg, sess, tracePath, *layoutPath, watcher)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	if st != nil {
		if m, ok := final.(tui.Model); ok {
			if err := st.SaveView(viewFromSession(tracePath, m.Session())); err != nil {
				log.Printf("[WARN] Failed to save view: %v", err)
			}
		}
	}
}

// restoreView applies the saved view for this trace, if one exists.
// The saved selection goes through the same tolerant path as layout
// files so signals that vanished from the trace are skipped.
func restoreView(st store.Store, tracePath string, sess *session.Session) {
	v, err := st.LoadView(tracePath)
	if err != nil {
		log.Printf("[WARN] Failed to load saved view: %v", err)
		return
	}
	if v == nil {
		return
	}

	f := &layout.File{Version: layout.Version}
	for _, ref := range v.Signals {
		f.Signals = append(f.Signals, layout.Entry{ID: ref.ID, Expanded: ref.Expanded})
	}
	layout.Apply(f, sess)
	if len(sess.Rows()) == 0 {
		// Nothing from the saved selection survived; show everything.
		for _, sig := range sess.DB().Signals() {
			_ = sess.ToggleVisible(sig.ID)
		}
	}

	cursor := v.Cursor
	if cursor < sess.DB().GlobalStart() {
		cursor = sess.DB().GlobalStart()
	}
	if cursor > sess.DB().GlobalEnd() {
		cursor = sess.DB().GlobalEnd()
	}
	_ = sess.JumpToTime(cursor)
	sess.Viewport.SetWindow(v.VisibleStart, v.VisibleEnd)
}

// viewFromSession snapshots the session for persistence.
func viewFromSession(tracePath string, sess *session.Session) *store.View {
	v := &store.View{
		TracePath:    tracePath,
		VisibleStart: sess.Viewport.Start(),
		VisibleEnd:   sess.Viewport.End(),
		Cursor:       sess.Cursor(),
	}
	for _, e := range layout.FromSession(sess).Signals {
		v.Signals = append(v.Signals, store.SignalRef{ID: e.ID, Expanded: e.Expanded})
	}
	return v
}
