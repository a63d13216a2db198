package dataset

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/huepattern/internal/model"
)

const (
	uuidA = "6f1c2a8e-4b1e-4c8e-9a56-0d7c1f3b2a10"
	uuidB = "0b7e4d22-93f4-4d0a-8a3c-5f2e1d6c7b89"
)

func exportCSV(t *testing.T, header []string, rows ...[]string) string {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if header != nil {
		require.NoError(t, w.Write(header))
	}
	for _, r := range rows {
		require.NoError(t, w.Write(r))
	}
	w.Flush()
	require.NoError(t, w.Error())
	return buf.String()
}

func row(id, session, level, rounds, visual string) []string {
	return []string{id, session, "player", "1000", level, rounds, "{}", visual}
}

const twoRounds = `[
	{"level": 7, "base_color": [10, 20, 30], "changed_color": [20, 30, 40], "color_model": "RGB", "correct": false},
	{"level": "3", "base_color": [0, 0, 0], "changed_color": [2, 2, 2], "color_model": "Oklab", "correct": true}
]`

func TestReadCSVExport(t *testing.T) {
	data := exportCSV(t, exportHeader,
		row("1", uuidA, "9", twoRounds, "true"),
		row("2", uuidB, "4", `[]`, "false"),
	)
	sessions, stats, err := ReadCSV(context.Background(), strings.NewReader(data), DefaultConfig())
	require.NoError(t, err)

	want := []model.Session{
		{
			ID:              uuidA,
			FinalLevel:      9,
			VisualCondition: true,
			Rounds: []model.Round{
				{Level: 7, Base: [3]float64{10, 20, 30}, Changed: [3]float64{20, 30, 40}, Model: "RGB", Correct: false},
				{Level: 3, Base: [3]float64{0, 0, 0}, Changed: [3]float64{2, 2, 2}, Model: "Oklab", Correct: true},
			},
		},
		{ID: uuidB, FinalLevel: 4, Rounds: []model.Round{}},
	}
	if diff := cmp.Diff(want, sessions); diff != "" {
		t.Fatalf("sessions mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, LoadStats{Rows: 2, Sessions: 2, Rounds: 2}, stats)
	assert.False(t, stats.Skipped())
}

func TestReadCSVSkipsMalformed(t *testing.T) {
	badRounds := `[
		{"level": 8, "base_color": [1, 2], "changed_color": [1, 2, 3], "color_model": "RGB", "correct": false},
		{"level": 8, "base_color": [1, 2, 300], "changed_color": [1, 2, 3], "color_model": "RGB", "correct": false},
		{"level": 8, "base_color": [1, 2, 3], "changed_color": [1, 2, 3], "correct": false},
		{"level": "high", "base_color": [1, 2, 3], "changed_color": [1, 2, 3], "color_model": "RGB", "correct": false},
		{"level": 90000000000000, "base_color": [1, 2, 3], "changed_color": [1, 2, 3], "color_model": "RGB", "correct": false},
		"nonsense",
		{"level": 8, "base_color": [1, 2, 3], "changed_color": [3, 4, 5], "color_model": "RGB", "correct": "false"}
	]`
	data := exportCSV(t, exportHeader,
		row("1", uuidA, "9", badRounds, "false"),
		[]string{"2", "short"},
		row("3", "plain-id", "5", `{not json`, "false"),
		row("4", "plain-id-2", "x", `[]`, "false"),
		row("5", "plain-id-3", "90000000000000", `[]`, "false"),
		row("6", "plain-id-4", "-1", `[]`, "false"),
	)
	sessions, stats, err := ReadCSV(context.Background(), strings.NewReader(data), DefaultConfig())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Len(t, sessions[0].Rounds, 1)
	assert.Equal(t, [3]float64{3, 4, 5}, sessions[0].Rounds[0].Changed)

	assert.Equal(t, 6, stats.Rows)
	assert.Equal(t, 5, stats.SkippedRows)
	assert.Equal(t, 6, stats.SkippedRounds)
	assert.Equal(t, 1, stats.Rounds)
	assert.True(t, stats.Skipped())
}

func TestReadCSVDeduplicatesUUIDs(t *testing.T) {
	data := exportCSV(t, exportHeader,
		row("1", uuidA, "9", `[]`, "false"),
		row("2", strings.ToUpper(uuidA), "9", `[]`, "false"),
		row("3", "not-a-uuid", "2", `[]`, "false"),
		row("4", "not-a-uuid", "2", `[]`, "false"),
	)
	sessions, stats, err := ReadCSV(context.Background(), strings.NewReader(data), DefaultConfig())
	require.NoError(t, err)
	assert.Len(t, sessions, 3)
	assert.Equal(t, 1, stats.Duplicates)
}

func TestReadCSVFallsBackToIndices(t *testing.T) {
	header := []string{"c0", "c1", "c2", "c3", "c4", "c5", "c6", "c7"}
	data := exportCSV(t, header, row("1", uuidA, "9", twoRounds, "true"))
	sessions, _, err := ReadCSV(context.Background(), strings.NewReader(data), DefaultConfig())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 9, sessions[0].FinalLevel)
	assert.True(t, sessions[0].VisualCondition)
	assert.Len(t, sessions[0].Rounds, 2)
}

func TestReadCSVResolvesReorderedHeader(t *testing.T) {
	header := []string{"rounds", "visual_condition", "final_level", "session_id"}
	data := exportCSV(t, header, []string{twoRounds, "1", "12", uuidB})
	sessions, _, err := ReadCSV(context.Background(), strings.NewReader(data), DefaultConfig())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, uuidB, sessions[0].ID)
	assert.Equal(t, 12, sessions[0].FinalLevel)
	assert.True(t, sessions[0].VisualCondition)
}

func TestReadCSVNoRows(t *testing.T) {
	_, _, err := ReadCSV(context.Background(), strings.NewReader(""), DefaultConfig())
	assert.ErrorIs(t, err, ErrNoRows)

	data := exportCSV(t, exportHeader)
	_, _, err = ReadCSV(context.Background(), strings.NewReader(data), DefaultConfig())
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestReadCSVHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	data := exportCSV(t, exportHeader, row("1", uuidA, "9", `[]`, "false"))
	_, _, err := ReadCSV(ctx, strings.NewReader(data), DefaultConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	data := exportCSV(t, exportHeader, row("1", uuidA, "9", twoRounds, "false"))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg := DefaultConfig()
	cfg.Path = path
	sessions, _, err := Load(context.Background(), cfg)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)

	cfg.Path = filepath.Join(t.TempDir(), "missing.csv")
	_, _, err = Load(context.Background(), cfg)
	assert.Error(t, err)
}

func TestLoadSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.sqlite")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE data (id INTEGER PRIMARY KEY, session_id TEXT, final_level INTEGER, rounds TEXT, visual_condition BOOLEAN)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO data (session_id, final_level, rounds, visual_condition) VALUES (?, ?, ?, ?), (?, ?, ?, ?)`,
		uuidA, 9, twoRounds, true,
		uuidB, 2, `[]`, false)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	cfg := DefaultConfig()
	cfg.Path = path
	sessions, stats, err := Load(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, 9, sessions[0].FinalLevel)
	assert.True(t, sessions[0].VisualCondition)
	assert.False(t, sessions[1].VisualCondition)
	assert.Equal(t, 2, stats.Rounds)
}

func TestIsSQLite(t *testing.T) {
	assert.True(t, IsSQLite("x.db"))
	assert.True(t, IsSQLite("x.SQLITE3"))
	assert.False(t, IsSQLite("x.csv"))
}

func TestDecodeRoundsLevelForms(t *testing.T) {
	rounds, skipped, err := DecodeRounds(`[
		{"level": 7.0, "base_color": [0,0,0], "changed_color": [0,0,0], "color_model": "RGB", "correct": true},
		{"level": " 8 ", "base_color": [0,0,0], "changed_color": [0,0,0], "color_model": "RGB", "correct": true},
		{"level": 7.5, "base_color": [0,0,0], "changed_color": [0,0,0], "color_model": "RGB", "correct": true}
	]`)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, rounds, 2)
	assert.Equal(t, 7, rounds[0].Level)
	assert.Equal(t, 8, rounds[1].Level)

	_, skipped, err = DecodeRounds(`[
		{"level": -2, "base_color": [0,0,0], "changed_color": [0,0,0], "color_model": "RGB", "correct": false},
		{"level": "20000", "base_color": [0,0,0], "changed_color": [0,0,0], "color_model": "RGB", "correct": false}
	]`)
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)

	_, _, err = DecodeRounds(`{"level": 1}`)
	assert.Error(t, err)
}
