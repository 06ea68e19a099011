// Package store persists per-trace view state in SQLite.
//
// Saving is best effort from the UI's point of view (a failed save
// never interrupts viewing), but the schema and access go through the
// same WAL-mode, single-writer setup as any durable store so state
// survives crashes.
package store

import (
	"database/sql"
	"embed"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaFS embed.FS

// Store defines the interface for view-state persistence. The
// abstraction keeps the TUI testable without a database file.
type Store interface {
	// SaveView persists the view for its trace path, replacing any
	// previous state.
	SaveView(v *View) error
	// LoadView returns the saved view for a trace path, or nil when
	// none exists.
	LoadView(tracePath string) (*View, error)
	// DeleteView removes a saved view.
	DeleteView(tracePath string) error
	// Close gracefully shuts down the database connection.
	Close() error
}

// ============================================================
// View model
// ============================================================

// View is the saved navigation state of one trace.
type View struct {
	TracePath    string
	VisibleStart int64
	VisibleEnd   int64
	Cursor       int64
	SavedAt      int64
	Signals      []SignalRef
}

// SignalRef is one entry of the saved selection, in display order.
type SignalRef struct {
	ID       string
	Expanded bool
}

// ============================================================
// DBService implementation
// ============================================================

// DBService implements Store using SQLite.
type DBService struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string

	stmtLoadView    *sql.Stmt
	stmtLoadSignals *sql.Stmt
}

// NewDBService opens (creating if needed) the view database at path.
// Use ":memory:" for tests.
func NewDBService(path string) (*DBService, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=ON&_cache_size=-64000", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database at %s: %w", path, err)
	}

	// SQLite supports one writer at a time; a single connection keeps
	// the in-memory case correct too.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	svc := &DBService{db: db, path: path}

	if err := svc.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	if err := svc.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing statements: %w", err)
	}
	return svc, nil
}

func (s *DBService) initSchema() error {
	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("reading embedded schema: %w", err)
	}
	if _, err := s.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

func (s *DBService) prepareStatements() error {
	var err error

	s.stmtLoadView, err = s.db.Prepare(`
		SELECT visible_start, visible_end, cursor, saved_at
		FROM views WHERE trace_path = ?
	`)
	if err != nil {
		return fmt.Errorf("preparing LoadView: %w", err)
	}

	s.stmtLoadSignals, err = s.db.Prepare(`
		SELECT signal_id, expanded
		FROM view_signals WHERE trace_path = ?
		ORDER BY position
	`)
	if err != nil {
		return fmt.Errorf("preparing LoadSignals: %w", err)
	}
	return nil
}

// SaveView persists the view in one transaction, replacing the old
// selection wholesale.
func (s *DBService) SaveView(v *View) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning save: %w", err)
	}
	defer tx.Rollback()

	savedAt := v.SavedAt
	if savedAt == 0 {
		savedAt = time.Now().Unix()
	}

	_, err = tx.Exec(`
		INSERT INTO views (trace_path, visible_start, visible_end, cursor, saved_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(trace_path) DO UPDATE SET
			visible_start = excluded.visible_start,
			visible_end = excluded.visible_end,
			cursor = excluded.cursor,
			saved_at = excluded.saved_at
	`, v.TracePath, v.VisibleStart, v.VisibleEnd, v.Cursor, savedAt)
	if err != nil {
		return fmt.Errorf("upserting view: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM view_signals WHERE trace_path = ?`, v.TracePath); err != nil {
		return fmt.Errorf("clearing selection: %w", err)
	}
	for i, ref := range v.Signals {
		_, err := tx.Exec(`
			INSERT INTO view_signals (trace_path, position, signal_id, expanded)
			VALUES (?, ?, ?, ?)
		`, v.TracePath, i, ref.ID, ref.Expanded)
		if err != nil {
			return fmt.Errorf("inserting selection entry %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}
	return nil
}

// LoadView returns the saved view for a trace path, or nil when the
// trace has never been saved.
func (s *DBService) LoadView(tracePath string) (*View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := &View{TracePath: tracePath}
	err := s.stmtLoadView.QueryRow(tracePath).Scan(
		&v.VisibleStart, &v.VisibleEnd, &v.Cursor, &v.SavedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading view: %w", err)
	}

	rows, err := s.stmtLoadSignals.Query(tracePath)
	if err != nil {
		return nil, fmt.Errorf("loading selection: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ref SignalRef
		if err := rows.Scan(&ref.ID, &ref.Expanded); err != nil {
			return nil, fmt.Errorf("scanning selection entry: %w", err)
		}
		v.Signals = append(v.Signals, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating selection: %w", err)
	}
	return v, nil
}

// DeleteView removes a saved view; deleting an absent view is a no-op.
func (s *DBService) DeleteView(tracePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM views WHERE trace_path = ?`, tracePath); err != nil {
		return fmt.Errorf("deleting view: %w", err)
	}
	return nil
}

// Close releases prepared statements and the connection.
func (s *DBService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stmtLoadView != nil {
		s.stmtLoadView.Close()
	}
	if s.stmtLoadSignals != nil {
		s.stmtLoadSignals.Close()
	}
	return s.db.Close()
}
