package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/verte-zerg/huepattern/internal/dataset"
	"github.com/verte-zerg/huepattern/internal/model"
)

// Histogram holds one value per consecutive level starting at First.
type Histogram struct {
	First  int
	Values []float64
}

// Levels returns the level of every bucket.
func (h Histogram) Levels() []int {
	out := make([]int, len(h.Values))
	for i := range out {
		out[i] = h.First + i
	}
	return out
}

// Total sums the buckets.
func (h Histogram) Total() float64 {
	return floats.Sum(h.Values)
}

// GamesByLevel counts sessions per final level 0..max. Levels outside
// [0, dataset.MaxLevel] are ignored.
func GamesByLevel(sessions []model.Session) Histogram {
	maxLevel := -1
	for _, s := range sessions {
		if s.FinalLevel > maxLevel && s.FinalLevel <= dataset.MaxLevel {
			maxLevel = s.FinalLevel
		}
	}
	h := Histogram{First: 0}
	if maxLevel < 0 {
		return h
	}
	h.Values = make([]float64, maxLevel+1)
	for _, s := range sessions {
		if s.FinalLevel >= 0 && s.FinalLevel <= maxLevel {
			h.Values[s.FinalLevel]++
		}
	}
	return h
}

// MistakesByLevel counts incorrect rounds per round level 1..max, across all
// colour models. Levels above dataset.MaxLevel are ignored.
func MistakesByLevel(sessions []model.Session) Histogram {
	maxLevel := 0
	for _, s := range sessions {
		for _, r := range s.Rounds {
			if !r.Correct && r.Level > maxLevel && r.Level <= dataset.MaxLevel {
				maxLevel = r.Level
			}
		}
	}
	h := Histogram{First: 1}
	if maxLevel < 1 {
		return h
	}
	h.Values = make([]float64, maxLevel)
	for _, s := range sessions {
		for _, r := range s.Rounds {
			if !r.Correct && r.Level >= 1 && r.Level <= maxLevel {
				h.Values[r.Level-1]++
			}
		}
	}
	return h
}

// SurvivalByLevel turns per-level counts into y[n] = Σ_{k>=n} counts[k]: the
// number of games that reached at least level n.
func SurvivalByLevel(counts Histogram) Histogram {
	out := Histogram{First: counts.First, Values: make([]float64, len(counts.Values))}
	var run float64
	for i := len(counts.Values) - 1; i >= 0; i-- {
		run += counts.Values[i]
		out.Values[i] = run
	}
	return out
}

// ConditionCurves compares how far regular and visual-condition games got.
type ConditionCurves struct {
	Regular Histogram
	// Visual is rescaled so its first bucket equals Regular's.
	Visual Histogram
	// Scale is the factor applied to Visual, 0 when it has no games.
	Scale float64
	// RegularGames and VisualGames are the unscaled session counts.
	RegularGames int
	VisualGames  int
}

// ConditionComparison builds survival curves of regular and visual-condition
// sessions over the same level range.
func ConditionComparison(sessions []model.Session) ConditionCurves {
	var regular, visual []model.Session
	for _, s := range sessions {
		if s.VisualCondition {
			visual = append(visual, s)
		} else {
			regular = append(regular, s)
		}
	}
	n := len(GamesByLevel(sessions).Values)
	out := ConditionCurves{
		Regular:      SurvivalByLevel(padHistogram(GamesByLevel(regular), n)),
		Visual:       SurvivalByLevel(padHistogram(GamesByLevel(visual), n)),
		RegularGames: len(regular),
		VisualGames:  len(visual),
	}
	if len(out.Visual.Values) > 0 && out.Visual.Values[0] > 0 && len(out.Regular.Values) > 0 {
		out.Scale = out.Regular.Values[0] / out.Visual.Values[0]
		for i := range out.Visual.Values {
			out.Visual.Values[i] *= out.Scale
		}
	}
	return out
}

func padHistogram(h Histogram, n int) Histogram {
	if len(h.Values) >= n {
		return h
	}
	values := make([]float64, n)
	copy(values, h.Values)
	return Histogram{First: h.First, Values: values}
}

// RenderHistogram prints one horizontal bar per level, scaled to width.
func RenderHistogram(w io.Writer, title string, h Histogram, width int) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if len(h.Values) == 0 {
		_, err := fmt.Fprintln(w, "No data.")
		return err
	}
	if width <= 0 {
		width = 40
	}
	maxVal := 0.0
	for _, v := range h.Values {
		maxVal = math.Max(maxVal, v)
	}
	levelWidth := len(fmt.Sprintf("%d", h.First+len(h.Values)-1))
	for i, v := range h.Values {
		bar := 0
		if maxVal > 0 {
			bar = int(math.Round(v / maxVal * float64(width)))
		}
		line := fmt.Sprintf("%*d │%s %s", levelWidth, h.First+i, strings.Repeat("█", bar), formatCount(v))
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func formatCount(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
