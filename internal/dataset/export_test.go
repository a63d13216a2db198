package dataset

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/huepattern/internal/model"
)

func TestWriteCSVRoundTrip(t *testing.T) {
	sessions := []model.Session{
		{
			ID:         uuidA,
			FinalLevel: 2,
			Rounds: []model.Round{
				{Level: 1, Base: [3]float64{1.5, 2, 3}, Changed: [3]float64{9.5, 2, 3}, Model: "RGB", Correct: true},
				{Level: 2, Base: [3]float64{100, 200, 0}, Changed: [3]float64{100, 208, 0}, Model: "Oklab"},
			},
		},
		{
			ID:              "plain-id",
			FinalLevel:      1,
			VisualCondition: true,
			Rounds: []model.Round{
				{Level: 1, Base: [3]float64{50, 50, 50}, Changed: [3]float64{50, 50, 58}, Model: "CIELAB"},
			},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sessions))

	got, stats, err := ReadCSV(context.Background(), &buf, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Sessions)
	assert.False(t, stats.Skipped())
	if diff := cmp.Diff(sessions, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCSVHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "id,session_id,player_id,total_time,final_level,rounds,device_info,visual_condition\n", buf.String())
}
