// Package chart writes report figures as PNG images and HTML pages.
package chart

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/verte-zerg/huepattern/internal/model"
	"github.com/verte-zerg/huepattern/internal/pattern"
	"github.com/verte-zerg/huepattern/internal/stats"
)

const (
	figureWidth  = 10 * vg.Inch
	figureHeight = 5 * vg.Inch
)

var (
	mistakesColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	allColor      = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	expectedColor = color.RGBA{R: 127, G: 127, B: 127, A: 255}
	visualColor   = color.RGBA{R: 44, G: 160, B: 44, A: 255}
)

// SaveCurves writes one "<metric>_<model>.png" per scored model into dir and
// returns the written paths.
func SaveCurves(dir string, report stats.Report, xName string) ([]string, error) {
	var paths []string
	for _, s := range report.Scores {
		if len(s.Mistakes.Y) == 0 || len(s.All.Y) == 0 {
			continue
		}
		p := plot.New()
		p.Title.Text = fmt.Sprintf("%s %s (%s)", report.Metric, s.Model, stats.FormatScore(s))
		p.X.Label.Text = xName
		p.Y.Label.Text = report.Metric
		if err := addLine(p, "mistakes", s.Mistakes, mistakesColor, false); err != nil {
			return paths, err
		}
		if err := addLine(p, "all", s.All, allColor, false); err != nil {
			return paths, err
		}
		if report.Baseline != nil {
			if err := addLine(p, "expected", expectedCurve(report.Baseline, s.All.X), expectedColor, true); err != nil {
				return paths, err
			}
		}
		p.Legend.Top = true
		p.Legend.Left = false
		p.Legend.XOffs = -10
		p.Legend.YOffs = -10

		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", report.Metric, fileName(string(s.Model))))
		if err := p.Save(figureWidth, figureHeight, path); err != nil {
			return paths, fmt.Errorf("failed to save %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// SaveHistogram writes a bar chart of h to path.
func SaveHistogram(path, title, yName string, h stats.Histogram) error {
	if len(h.Values) == 0 {
		return fmt.Errorf("failed to save %s: no data", path)
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "level"
	p.Y.Label.Text = yName
	bars, err := plotter.NewBarChart(plotter.Values(h.Values), vg.Points(12))
	if err != nil {
		return fmt.Errorf("failed to build bars: %w", err)
	}
	bars.Color = allColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(levelLabels(h)...)
	if err := p.Save(figureWidth, figureHeight, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// SaveCondition writes the regular and rescaled visual survival curves to path.
func SaveCondition(path string, c stats.ConditionCurves) error {
	if len(c.Regular.Values) == 0 {
		return fmt.Errorf("failed to save %s: no data", path)
	}
	p := plot.New()
	p.Title.Text = "Games reaching each level"
	p.X.Label.Text = "level"
	p.Y.Label.Text = "games"
	if err := addLine(p, fmt.Sprintf("regular (%d)", c.RegularGames), histogramCurve(c.Regular), allColor, false); err != nil {
		return err
	}
	if c.VisualGames > 0 {
		name := fmt.Sprintf("visual (%d, x%.3g)", c.VisualGames, c.Scale)
		if err := addLine(p, name, histogramCurve(c.Visual), visualColor, false); err != nil {
			return err
		}
	}
	p.Legend.Top = true
	p.Legend.Left = false
	if err := p.Save(figureWidth, figureHeight, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func addLine(p *plot.Plot, name string, c model.Curve, col color.Color, dashed bool) error {
	pts := make(plotter.XYs, 0, len(c.Y))
	for i, y := range c.Y {
		if i >= len(c.X) || !finite(y) || !finite(c.X[i]) {
			continue
		}
		pts = append(pts, plotter.XY{X: c.X[i], Y: y})
	}
	if len(pts) == 0 {
		return nil
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("failed to build %s line: %w", name, err)
	}
	line.Color = col
	line.Width = vg.Points(1.5)
	if dashed {
		line.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	}
	p.Add(line)
	p.Legend.Add(name, line)
	return nil
}

func expectedCurve(b pattern.Baseline, xs []float64) model.Curve {
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = b.Expected(x)
	}
	return model.Curve{X: xs, Y: ys}
}

func histogramCurve(h stats.Histogram) model.Curve {
	xs := make([]float64, len(h.Values))
	for i, l := range h.Levels() {
		xs[i] = float64(l)
	}
	return model.Curve{X: xs, Y: h.Values}
}

func levelLabels(h stats.Histogram) []string {
	levels := h.Levels()
	out := make([]string, len(levels))
	for i, l := range levels {
		out[i] = fmt.Sprintf("%d", l)
	}
	return out
}

func fileName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
