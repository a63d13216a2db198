package stats

import (
	"context"

	"github.com/verte-zerg/huepattern/internal/dataset"
	"github.com/verte-zerg/huepattern/internal/model"
	"github.com/verte-zerg/huepattern/internal/pattern"
)

// Report contains precomputed data for rendering and the viewer.
type Report struct {
	Metric    string
	Scores    []model.ModelScore
	Baseline  pattern.Baseline
	Games     Histogram
	Mistakes  Histogram
	Condition ConditionCurves
}

// BuildReport groups sessions per model, scores them with stat and prepares
// the level histograms.
func BuildReport(ctx context.Context, sessions []model.Session, stat pattern.Statistic, cfg model.DataConfig, workers int) (Report, error) {
	groups := dataset.Aggregate(sessions, cfg.Models, cfg.MistakeMinLevel)
	scores, err := Compare(ctx, stat, groups, cfg.Models, workers)
	if err != nil {
		return Report{}, err
	}
	report := BuildLevels(sessions)
	report.Metric = stat.Name()
	report.Scores = scores
	if b, ok := stat.(pattern.Baseline); ok {
		report.Baseline = b
	}
	return report, nil
}

// BuildLevels prepares a report holding only the level histograms.
func BuildLevels(sessions []model.Session) Report {
	return Report{
		Games:     GamesByLevel(sessions),
		Mistakes:  MistakesByLevel(sessions),
		Condition: ConditionComparison(sessions),
	}
}
