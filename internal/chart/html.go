package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/verte-zerg/huepattern/internal/model"
	"github.com/verte-zerg/huepattern/internal/stats"
)

// WriteHTML renders every curve and level chart of report as one page.
func WriteHTML(w io.Writer, report stats.Report, xName string) error {
	page := components.NewPage()
	page.PageTitle = "huepattern"
	if report.Metric != "" {
		page.PageTitle = "huepattern " + report.Metric
	}
	for _, s := range report.Scores {
		if len(s.Mistakes.Y) == 0 || len(s.All.Y) == 0 {
			continue
		}
		page.AddCharts(curveChart(report, s, xName))
	}
	if len(report.Games.Values) > 0 {
		page.AddCharts(histogramChart("Games by final level", "games", report.Games))
	}
	if len(report.Mistakes.Values) > 0 {
		page.AddCharts(histogramChart("Mistakes by level", "mistakes", report.Mistakes))
	}
	if len(report.Condition.Regular.Values) > 0 {
		page.AddCharts(conditionChart(report.Condition))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

func curveChart(report stats.Report, s model.ModelScore, xName string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("%s %s", report.Metric, s.Model), Subtitle: "score " + stats.FormatScore(s)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: xName, NameLocation: "middle", NameGap: 25}),
	)
	line.AddSeries("mistakes", lineData(s.Mistakes)).
		AddSeries("all", lineData(s.All))
	if report.Baseline != nil {
		line.AddSeries("expected", lineData(expectedCurve(report.Baseline, s.All.X)),
			charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"}))
	}
	return line
}

func histogramChart(title, name string, h stats.Histogram) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "360px"}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "level", NameLocation: "middle", NameGap: 25}),
	)
	data := make([]opts.BarData, len(h.Values))
	for i, v := range h.Values {
		data[i] = opts.BarData{Value: v}
	}
	bar.SetXAxis(levelLabels(h)).AddSeries(name, data)
	return bar
}

func conditionChart(c stats.ConditionCurves) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "360px"}),
		charts.WithTitleOpts(opts.Title{Title: "Games reaching each level", Subtitle: fmt.Sprintf("regular %d, visual %d", c.RegularGames, c.VisualGames)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "level", NameLocation: "middle", NameGap: 25}),
	)
	line.AddSeries("regular", lineData(histogramCurve(c.Regular)))
	if c.VisualGames > 0 {
		line.AddSeries("visual (rescaled)", lineData(histogramCurve(c.Visual)))
	}
	return line
}

// lineData turns c into [x, y] pairs for a value axis. Non-finite points are
// dropped; the JSON encoder rejects them.
func lineData(c model.Curve) []opts.LineData {
	out := make([]opts.LineData, 0, len(c.Y))
	for i, y := range c.Y {
		if i >= len(c.X) || !finite(y) || !finite(c.X[i]) {
			continue
		}
		out = append(out, opts.LineData{Value: []interface{}{c.X[i], y}})
	}
	return out
}
