package stats

import (
	"sort"

	"github.com/verte-zerg/huepattern/internal/model"
)

// RankScores returns the scores ordered by value, highest first, followed by
// the models without a score in their original order. scores is not modified.
func RankScores(scores []model.ModelScore) []model.ModelScore {
	out := make([]model.ModelScore, len(scores))
	copy(out, scores)
	sort.SliceStable(out, func(i, j int) bool {
		oi := out[i].Status == model.StatusOK
		oj := out[j].Status == model.StatusOK
		if oi != oj {
			return oi
		}
		if !oi {
			return false
		}
		return out[i].Score > out[j].Score
	})
	return out
}
