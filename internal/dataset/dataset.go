// Package dataset loads exported game sessions and groups their stimulus
// midpoints per colour model.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/verte-zerg/huepattern/internal/model"
	"github.com/verte-zerg/huepattern/internal/store"
)

// ErrNoRows is returned when the input holds no usable session.
var ErrNoRows = errors.New("no usable rows")

// Default column positions of the game export, used when the header does not
// name a column.
const (
	DefaultSessionColumn   = 1
	DefaultLevelColumn     = 4
	DefaultRoundsColumn    = 5
	DefaultConditionColumn = 7
	DefaultMistakeMinLevel = 6
)

// Header names recognised for each column, lower case.
var (
	sessionHeaders   = []string{"session_id", "session", "id"}
	levelHeaders     = []string{"final_level", "level"}
	roundsHeaders    = []string{"rounds"}
	conditionHeaders = []string{"visual_condition", "condition", "visual"}
)

// ctxCheckEvery is how many rows are read between cancellation checks.
const ctxCheckEvery = 1024

// DefaultConfig returns the loader settings for the standard export.
func DefaultConfig() model.DataConfig {
	return model.DataConfig{
		Models:          append([]model.ColorModel(nil), model.DefaultColorModels...),
		MistakeMinLevel: DefaultMistakeMinLevel,
		SessionColumn:   DefaultSessionColumn,
		LevelColumn:     DefaultLevelColumn,
		RoundsColumn:    DefaultRoundsColumn,
		ConditionColumn: DefaultConditionColumn,
		Table:           store.DefaultTable,
	}
}

// LoadStats counts what the loader kept and skipped.
type LoadStats struct {
	Rows          int
	Sessions      int
	Duplicates    int
	SkippedRows   int
	Rounds        int
	SkippedRounds int
}

// Skipped reports whether anything was dropped.
func (s LoadStats) Skipped() bool {
	return s.SkippedRows > 0 || s.SkippedRounds > 0 || s.Duplicates > 0
}

// IsSQLite reports whether path names a SQLite export.
func IsSQLite(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// Load reads sessions from cfg.Path, a CSV file or a SQLite database.
func Load(ctx context.Context, cfg model.DataConfig) ([]model.Session, LoadStats, error) {
	if cfg.Path == "" {
		return nil, LoadStats{}, fmt.Errorf("data path is empty")
	}
	if IsSQLite(cfg.Path) {
		return loadSQLite(ctx, cfg)
	}
	file, err := os.Open(cfg.Path)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("failed to open data: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only input.
			_ = cerr
		}
	}()
	return ReadCSV(ctx, file, cfg)
}

// ReadCSV reads a CSV export with a header row. Short rows, rows whose rounds
// do not decode and rows with a non-integer final level are skipped.
func ReadCSV(ctx context.Context, r io.Reader, cfg model.DataConfig) ([]model.Session, LoadStats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, LoadStats{}, ErrNoRows
		}
		return nil, LoadStats{}, fmt.Errorf("failed to read header: %w", err)
	}
	cols := resolveColumns(header, cfg)

	dec := newDecoder()
	for line := 0; ; line++ {
		if line%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, dec.stats, err
			}
		}
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				dec.stats.Rows++
				dec.stats.SkippedRows++
				continue
			}
			return nil, dec.stats, fmt.Errorf("failed to read data: %w", err)
		}
		raw, ok := cols.extract(rec)
		if !ok {
			dec.stats.Rows++
			dec.stats.SkippedRows++
			continue
		}
		dec.add(raw)
	}
	return dec.finish()
}

// Decode turns raw rows into sessions with the same rules as ReadCSV.
func Decode(raws []model.RawSession) ([]model.Session, LoadStats, error) {
	dec := newDecoder()
	for _, raw := range raws {
		dec.add(raw)
	}
	return dec.finish()
}

func loadSQLite(ctx context.Context, cfg model.DataConfig) ([]model.Session, LoadStats, error) {
	s, err := store.Open(cfg.Path)
	if err != nil {
		return nil, LoadStats{}, err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			// Best-effort close for read-only input.
			_ = cerr
		}
	}()
	table := cfg.Table
	if table == "" {
		table = store.DefaultTable
	}
	names, err := s.Columns(ctx, table)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("failed to read columns: %w", err)
	}
	cols := resolveColumns(names, cfg)
	raws, err := s.ListSessions(ctx, table, store.SessionColumns{
		ID:         cols.name(names, cols.id),
		FinalLevel: cols.name(names, cols.level),
		Rounds:     cols.name(names, cols.rounds),
		Condition:  cols.name(names, cols.cond),
	})
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("failed to list sessions: %w", err)
	}
	return Decode(raws)
}

// columns holds resolved field positions; -1 means absent.
type columns struct {
	id, level, rounds, cond int
}

func resolveColumns(header []string, cfg model.DataConfig) columns {
	find := func(names []string, fallback int) int {
		for _, name := range names {
			for i, h := range header {
				if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")), name) {
					return i
				}
			}
		}
		if fallback < 0 || fallback >= len(header) {
			return -1
		}
		return fallback
	}
	return columns{
		id:     find(sessionHeaders, cfg.SessionColumn),
		level:  find(levelHeaders, cfg.LevelColumn),
		rounds: find(roundsHeaders, cfg.RoundsColumn),
		cond:   find(conditionHeaders, cfg.ConditionColumn),
	}
}

// extract picks the session fields from a record. Records too short to hold
// the rounds or level column are rejected.
func (c columns) extract(rec []string) (model.RawSession, bool) {
	get := func(i int) (string, bool) {
		if i < 0 {
			return "", true
		}
		if i >= len(rec) {
			return "", false
		}
		return rec[i], true
	}
	rounds, ok := get(c.rounds)
	if !ok || c.rounds < 0 {
		return model.RawSession{}, false
	}
	level, ok := get(c.level)
	if !ok {
		return model.RawSession{}, false
	}
	id, _ := get(c.id)
	cond, _ := get(c.cond)
	return model.RawSession{ID: id, FinalLevel: level, Rounds: rounds, Condition: cond}, true
}

func (c columns) name(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return ""
	}
	return names[i]
}

type decoder struct {
	stats    LoadStats
	seen     map[uuid.UUID]struct{}
	sessions []model.Session
}

func newDecoder() *decoder {
	return &decoder{seen: map[uuid.UUID]struct{}{}}
}

func (d *decoder) add(raw model.RawSession) {
	d.stats.Rows++
	id := strings.TrimSpace(raw.ID)
	if u, err := uuid.Parse(id); err == nil {
		if _, dup := d.seen[u]; dup {
			d.stats.Duplicates++
			return
		}
		d.seen[u] = struct{}{}
		id = u.String()
	}
	level, err := parseLevel(raw.FinalLevel)
	if err != nil {
		d.stats.SkippedRows++
		return
	}
	rounds, skipped, err := DecodeRounds(raw.Rounds)
	if err != nil {
		d.stats.SkippedRows++
		return
	}
	visual, _ := parseBool(raw.Condition)
	d.stats.Rounds += len(rounds)
	d.stats.SkippedRounds += skipped
	d.sessions = append(d.sessions, model.Session{
		ID:              id,
		FinalLevel:      level,
		VisualCondition: visual,
		Rounds:          rounds,
	})
}

func (d *decoder) finish() ([]model.Session, LoadStats, error) {
	d.stats.Sessions = len(d.sessions)
	if len(d.sessions) == 0 {
		return nil, d.stats, ErrNoRows
	}
	return d.sessions, d.stats, nil
}

// parseLevel accepts an integer in [0, MaxLevel], possibly written as a float
// such as "7.0". An empty value reads as level 0.
func parseLevel(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid level %q", s)
	}
	if err := checkLevel(f); err != nil {
		return 0, err
	}
	return int(f), nil
}
