package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func createExport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			t.Fatalf("close: %v", cerr)
		}
	}()
	stmts := []string{
		`CREATE TABLE data (
			id INTEGER PRIMARY KEY,
			session_id TEXT NOT NULL,
			player_id TEXT,
			final_level INTEGER NOT NULL,
			rounds TEXT NOT NULL,
			visual_condition BOOLEAN
		);`,
		`INSERT INTO data (session_id, player_id, final_level, rounds, visual_condition)
		 VALUES ('a', 'p1', 7, '[]', 1), ('b', 'p2', 3, '[{"level":1}]', NULL);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec: %v", err)
		}
	}
	return path
}

func TestListSessions(t *testing.T) {
	s, err := Open(createExport(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			t.Fatalf("Close: %v", cerr)
		}
	}()

	ctx := context.Background()
	cols, err := s.Columns(ctx, DefaultTable)
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	if len(cols) != 6 || cols[1] != "session_id" || cols[5] != "visual_condition" {
		t.Fatalf("unexpected columns %v", cols)
	}

	got, err := s.ListSessions(ctx, DefaultTable, SessionColumns{
		ID:         "session_id",
		FinalLevel: "final_level",
		Rounds:     "rounds",
		Condition:  "visual_condition",
	})
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(got))
	}
	if got[0].ID != "a" || got[0].FinalLevel != "7" || got[0].Rounds != "[]" || got[0].Condition != "1" {
		t.Fatalf("unexpected first row %+v", got[0])
	}
	if got[1].ID != "b" || got[1].Condition != "" {
		t.Fatalf("unexpected second row %+v", got[1])
	}
}

func TestListSessionsMissingColumn(t *testing.T) {
	s, err := Open(createExport(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() {
		_ = s.Close() // Best-effort close.
	}()
	got, err := s.ListSessions(context.Background(), DefaultTable, SessionColumns{ID: "session_id", Rounds: "rounds"})
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if got[0].FinalLevel != "" || got[0].Condition != "" {
		t.Fatalf("expected empty values, got %+v", got[0])
	}
}

func TestStoreIsReadOnly(t *testing.T) {
	s, err := Open(createExport(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() {
		_ = s.Close() // Best-effort close.
	}()
	if _, err := s.db.Exec(`DELETE FROM data`); err == nil {
		t.Fatalf("expected write to fail on read-only store")
	}
}

func TestIdentifierValidation(t *testing.T) {
	s, err := Open(createExport(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() {
		_ = s.Close() // Best-effort close.
	}()
	ctx := context.Background()
	if _, err := s.Columns(ctx, "data; DROP TABLE data"); !errors.Is(err, ErrIdentifier) {
		t.Fatalf("expected ErrIdentifier, got %v", err)
	}
	if _, err := s.ListSessions(ctx, DefaultTable, SessionColumns{ID: `x"`}); !errors.Is(err, ErrIdentifier) {
		t.Fatalf("expected ErrIdentifier, got %v", err)
	}
	if _, err := s.Columns(ctx, "missing"); err == nil {
		t.Fatalf("expected error for missing table")
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Fatalf("expected error for missing database")
	}
}
