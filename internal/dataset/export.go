package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/verte-zerg/huepattern/internal/model"
)

// exportHeader matches the column layout of the game export.
var exportHeader = []string{"id", "session_id", "player_id", "total_time", "final_level", "rounds", "device_info", "visual_condition"}

type exportRound struct {
	Level        int        `json:"level"`
	BaseColor    [3]float64 `json:"base_color"`
	ChangedColor [3]float64 `json:"changed_color"`
	ColorModel   string     `json:"color_model"`
	Correct      bool       `json:"correct"`
}

// WriteCSV writes sessions in the export layout ReadCSV understands.
// Columns the analysis does not use are left empty.
func WriteCSV(w io.Writer, sessions []model.Session) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, s := range sessions {
		rounds := make([]exportRound, len(s.Rounds))
		for j, r := range s.Rounds {
			rounds[j] = exportRound{
				Level:        r.Level,
				BaseColor:    r.Base,
				ChangedColor: r.Changed,
				ColorModel:   string(r.Model),
				Correct:      r.Correct,
			}
		}
		raw, err := json.Marshal(rounds)
		if err != nil {
			return fmt.Errorf("failed to encode rounds of %s: %w", s.ID, err)
		}
		rec := []string{
			strconv.Itoa(i + 1),
			s.ID,
			"",
			"",
			strconv.Itoa(s.FinalLevel),
			string(raw),
			"",
			strconv.FormatBool(s.VisualCondition),
		}
		if err := writer.Write(rec); err != nil {
			return fmt.Errorf("failed to write session %s: %w", s.ID, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush export: %w", err)
	}
	return nil
}
