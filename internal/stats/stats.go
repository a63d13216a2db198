// Package stats compares colour-model point patterns and renders the results.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/huepattern/internal/model"
	"github.com/verte-zerg/huepattern/internal/pattern"
)

const sparkChars = " .:-=+*#%@"

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// FormatScore renders a score or, when it could not be computed, its status.
func FormatScore(s model.ModelScore) string {
	if s.Status != model.StatusOK {
		return string(s.Status)
	}
	return fmt.Sprintf("%.6g", s.Score)
}

// RenderScores prints one "<model>: <score>" line per model.
func RenderScores(w io.Writer, scores []model.ModelScore) error {
	for _, s := range scores {
		if _, err := fmt.Fprintf(w, "%s: %s\n", s.Model, FormatScore(s)); err != nil {
			return err
		}
	}
	return nil
}

// RenderScoreTable prints the per-model point counts, score, status and a
// sparkline of the mistakes curve.
func RenderScoreTable(w io.Writer, scores []model.ModelScore) error {
	if len(scores) == 0 {
		_, err := fmt.Fprintln(w, "No models configured.")
		return err
	}
	headers := []string{"Model", "Mistakes", "All", "Score", "Status", "Curve"}
	rows := make([][]string, 0, len(scores))
	for _, s := range scores {
		score := "-"
		if s.Status == model.StatusOK {
			score = fmt.Sprintf("%.6g", s.Score)
		}
		rows = append(rows, []string{
			string(s.Model),
			fmt.Sprintf("%d", s.MistakesCount),
			fmt.Sprintf("%d", s.AllCount),
			score,
			string(s.Status),
			Sparkline(resampleSeries(s.Mistakes.Y, sparkWidth(len(s.Mistakes.Y)))),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func sparkWidth(n int) int {
	if n > 24 {
		return 24
	}
	return n
}

// CurveOptions controls RenderCurves.
type CurveOptions struct {
	Width  int
	Height int
	Color  bool
	XName  string
	// Baseline, when set, adds the expected curve as a third series.
	Baseline pattern.Baseline
}

// RenderCurves plots the mistakes curve against the all curve of every model
// that could be evaluated.
func RenderCurves(w io.Writer, scores []model.ModelScore, opts CurveOptions) error {
	width := 0
	if opts.Width > 0 {
		width = PlotWidthFor(opts.Width)
	}
	for _, s := range scores {
		if len(s.Mistakes.Y) == 0 || len(s.All.Y) == 0 {
			continue
		}
		series := []Series{
			{Name: "mistakes", Values: s.Mistakes.Y},
			{Name: "all", Values: s.All.Y},
		}
		if opts.Baseline != nil {
			expected := make([]float64, len(s.All.X))
			for i, x := range s.All.X {
				expected[i] = opts.Baseline.Expected(x)
			}
			series = append(series, Series{Name: "expected", Values: expected})
		}
		var axis Axis
		if len(s.All.X) > 0 {
			axis = Axis{Name: opts.XName, Min: s.All.X[0], Max: s.All.X[len(s.All.X)-1]}
		}
		title := fmt.Sprintf("%s (%s)", s.Model, FormatScore(s))
		if err := PlotCurves(w, title, axis, series, width, opts.Height, opts.Color); err != nil {
			return err
		}
	}
	return nil
}

// RenderResults prints K and L per model and radius.
func RenderResults(w io.Writer, results []model.StatisticResult) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}
	headers := []string{"Model", "t", "K", "L"}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			string(r.Model),
			fmt.Sprintf("%g", r.T),
			fmt.Sprintf("%.6g", r.K),
			fmt.Sprintf("%.6g", r.L),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
