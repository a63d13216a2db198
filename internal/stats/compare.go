package stats

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/huepattern/internal/model"
	"github.com/verte-zerg/huepattern/internal/pattern"
)

// ErrUndefinedRatio marks a score whose reference is near zero.
var ErrUndefinedRatio = pattern.ErrUndefinedRatio

// Compare scores the mistakes set against the all set of every model with
// stat. Models run concurrently on at most workers goroutines; the result
// keeps the order of models. Insufficient data and undefined ratios become
// per-model statuses; any other failure aborts the comparison.
func Compare(ctx context.Context, stat pattern.Statistic, groups map[model.ColorModel]model.Groups, models []model.ColorModel, workers int) ([]model.ModelScore, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	scores := make([]model.ModelScore, len(models))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, m := range models {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			score, err := scoreModel(stat, m, groups[m])
			if err != nil {
				return fmt.Errorf("failed to score %s: %w", m, err)
			}
			scores[i] = score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return scores, nil
}

func scoreModel(stat pattern.Statistic, m model.ColorModel, g model.Groups) (model.ModelScore, error) {
	out := model.ModelScore{
		Model:         m,
		MistakesCount: len(g.Mistakes),
		AllCount:      len(g.All),
		Score:         math.NaN(),
	}
	mistakes, err := stat.Evaluate(g.Mistakes)
	if errors.Is(err, pattern.ErrInsufficientData) {
		out.Status = model.StatusInsufficient
		return out, nil
	}
	if err != nil {
		return out, err
	}
	out.Mistakes = mistakes
	all, err := stat.Evaluate(g.All)
	if errors.Is(err, pattern.ErrInsufficientData) {
		out.Status = model.StatusInsufficient
		return out, nil
	}
	if err != nil {
		return out, err
	}
	out.All = all
	score, err := stat.Score(mistakes, all)
	if err != nil && !errors.Is(err, pattern.ErrUndefinedRatio) {
		return out, err
	}
	if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
		out.Status = model.StatusUndefined
		return out, nil
	}
	out.Score = score
	out.Status = model.StatusOK
	return out, nil
}
