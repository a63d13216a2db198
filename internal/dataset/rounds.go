package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/verte-zerg/huepattern/internal/model"
)

// maxCoord is the upper bound of every colour coordinate.
const maxCoord = 255.0

// MaxLevel is the highest level a session or round may report. Larger values
// are treated as malformed.
const MaxLevel = 10000

func checkLevel(v float64) error {
	if v < 0 || v > MaxLevel {
		return fmt.Errorf("level %g out of range [0, %d]", v, MaxLevel)
	}
	return nil
}

// flexInt accepts a JSON number or a numeric string.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(strings.TrimSpace(s))
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("invalid level %q", b)
	}
	if v != math.Trunc(v) {
		return fmt.Errorf("level %g is not an integer", v)
	}
	if err := checkLevel(v); err != nil {
		return err
	}
	*f = flexInt(v)
	return nil
}

// flexBool accepts a JSON boolean or the strings "true"/"false".
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, ok := parseBool(s)
		if !ok {
			return fmt.Errorf("invalid correct flag %q", s)
		}
		*f = flexBool(v)
		return nil
	}
	var v bool
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexBool(v)
	return nil
}

type roundJSON struct {
	Level        *flexInt  `json:"level"`
	BaseColor    []float64 `json:"base_color"`
	ChangedColor []float64 `json:"changed_color"`
	ColorModel   string    `json:"color_model"`
	Correct      *flexBool `json:"correct"`
}

// DecodeRounds decodes a JSON array of rounds. A malformed array is an error;
// malformed elements are dropped and counted in skipped.
func DecodeRounds(raw string) (rounds []model.Round, skipped int, err error) {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		return nil, 0, fmt.Errorf("failed to decode rounds: %w", err)
	}
	rounds = make([]model.Round, 0, len(elems))
	for _, elem := range elems {
		r, ok := decodeRound(elem)
		if !ok {
			skipped++
			continue
		}
		rounds = append(rounds, r)
	}
	return rounds, skipped, nil
}

func decodeRound(elem json.RawMessage) (model.Round, bool) {
	var rj roundJSON
	if err := json.Unmarshal(elem, &rj); err != nil {
		return model.Round{}, false
	}
	if rj.Level == nil || rj.Correct == nil || rj.ColorModel == "" {
		return model.Round{}, false
	}
	base, ok := triple(rj.BaseColor)
	if !ok {
		return model.Round{}, false
	}
	changed, ok := triple(rj.ChangedColor)
	if !ok {
		return model.Round{}, false
	}
	return model.Round{
		Level:   int(*rj.Level),
		Base:    base,
		Changed: changed,
		Model:   model.ColorModel(rj.ColorModel),
		Correct: bool(*rj.Correct),
	}, true
}

func triple(v []float64) ([3]float64, bool) {
	var out [3]float64
	if len(v) != 3 {
		return out, false
	}
	for i, c := range v {
		if math.IsNaN(c) || c < 0 || c > maxCoord {
			return out, false
		}
		out[i] = c
	}
	return out, true
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "1", "yes":
		return true, true
	case "false", "f", "0", "no", "":
		return false, true
	default:
		return false, false
	}
}
