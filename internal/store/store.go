// Package store reads exported game sessions from SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/verte-zerg/huepattern/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// DefaultTable is the table the game exports sessions into.
const DefaultTable = "data"

// ErrIdentifier is returned for table or column names that are not plain identifiers.
var ErrIdentifier = errors.New("invalid identifier")

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Store wraps read-only SQLite access to an exported session table.
type Store struct {
	db *sql.DB
}

// Open opens an existing SQLite database. The connection refuses writes.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// query_only is per connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA query_only = ON`); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on setup failure.
			_ = cerr
		}
		return nil, fmt.Errorf("failed to set read-only mode: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Columns returns the column names of table in declaration order.
func (s *Store) Columns(ctx context.Context, table string) ([]string, error) {
	if !identRe.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrIdentifier, table)
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT name FROM pragma_table_info('%s')`, table))
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %q not found", table)
	}
	return cols, nil
}

// SessionColumns names the table columns holding each session field. An
// empty name reads as an empty value.
type SessionColumns struct {
	ID         string
	FinalLevel string
	Rounds     string
	Condition  string
}

// ListSessions returns every row of table as an undecoded session, in rowid
// order. Values of any SQLite type are read as text.
func (s *Store) ListSessions(ctx context.Context, table string, cols SessionColumns) ([]model.RawSession, error) {
	if !identRe.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrIdentifier, table)
	}
	exprs := make([]string, 0, 4)
	for _, c := range []string{cols.ID, cols.FinalLevel, cols.Rounds, cols.Condition} {
		if c == "" {
			exprs = append(exprs, "NULL")
			continue
		}
		if !identRe.MatchString(c) {
			return nil, fmt.Errorf("%w: %q", ErrIdentifier, c)
		}
		exprs = append(exprs, `"`+c+`"`)
	}
	query := fmt.Sprintf(`SELECT %s FROM "%s" ORDER BY rowid ASC`, strings.Join(exprs, ", "), table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.RawSession
	for rows.Next() {
		var id, level, rounds, cond sql.NullString
		if err := rows.Scan(&id, &level, &rounds, &cond); err != nil {
			return nil, err
		}
		sessions = append(sessions, model.RawSession{
			ID:         id.String,
			FinalLevel: level.String,
			Rounds:     rounds.String,
			Condition:  cond.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}
