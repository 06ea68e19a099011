// Package layout reads and writes signal layout files: a versioned
// YAML list of which signals a view shows, in what order, and which
// vectors are expanded. Layouts are meant to be shared (checked into
// a repo next to the testbench), so loading tolerates signals that no
// longer exist in the trace and reports them instead of failing.
package layout

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tickscope/internal/session"
)

// Version is the current layout schema version.
const Version = 1

// File is a parsed layout document.
type File struct {
	Version int     `yaml:"version"`
	Signals []Entry `yaml:"signals"`
}

// Entry names one displayed signal.
type Entry struct {
	// ID is the scope-qualified signal id, e.g. "top.cpu.bus".
	ID string `yaml:"id"`
	// Expanded shows the vector as per-bit rows.
	Expanded bool `yaml:"expanded,omitempty"`
}

// Load reads and validates a layout file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	if f.Version != Version {
		return nil, fmt.Errorf("layout version %d not supported (want %d)", f.Version, Version)
	}
	for i, e := range f.Signals {
		if e.ID == "" {
			return nil, fmt.Errorf("layout entry %d has no id", i)
		}
	}
	return &f, nil
}

// Save writes a layout file.
func Save(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write layout: %w", err)
	}
	return nil
}

// FromSession captures the session's current row list as a layout:
// one entry per signal, with expanded vectors collapsed to a single
// flagged entry.
func FromSession(s *session.Session) *File {
	f := &File{Version: Version}
	for _, row := range s.Rows() {
		if row.IsBit() {
			n := len(f.Signals)
			if n > 0 && f.Signals[n-1].ID == row.SignalID {
				continue // part of the run already captured
			}
			f.Signals = append(f.Signals, Entry{ID: row.SignalID, Expanded: true})
			continue
		}
		f.Signals = append(f.Signals, Entry{ID: row.SignalID})
	}
	return f
}

// Apply replaces the session's selection with the layout's, in order.
// Entries naming signals absent from the trace are skipped and their
// ids returned, so a stale layout still loads.
func Apply(f *File, s *session.Session) (skipped []string) {
	s.ClearSelection()
	for _, e := range f.Signals {
		if err := s.ToggleVisible(e.ID); err != nil {
			skipped = append(skipped, e.ID)
			continue
		}
		if e.Expanded {
			// A layout can mark a scalar expanded if the trace
			// changed shape; showing it un-expanded is close enough.
			_, _ = s.ExpandVector(e.ID)
		}
	}
	return skipped
}
