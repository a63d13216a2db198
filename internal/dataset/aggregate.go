package dataset

import (
	"strings"

	"github.com/verte-zerg/huepattern/internal/model"
)

// ParseModels splits a comma separated model list, dropping blanks and
// repeats. An empty list selects the default models.
func ParseModels(s string) []model.ColorModel {
	var out []model.ColorModel
	seen := map[model.ColorModel]bool{}
	for _, part := range strings.Split(s, ",") {
		m := model.ColorModel(strings.TrimSpace(part))
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	if len(out) == 0 {
		return append([]model.ColorModel(nil), model.DefaultColorModels...)
	}
	return out
}

// IsMistake reports whether a round counts towards the mistakes set.
func IsMistake(r model.Round, minLevel int) bool {
	return !r.Correct && r.Level > minLevel
}

// Aggregate groups round midpoints per configured model. Every configured
// model has an entry, possibly empty; rounds of other models are ignored.
func Aggregate(sessions []model.Session, models []model.ColorModel, minLevel int) map[model.ColorModel]model.Groups {
	out := make(map[model.ColorModel]model.Groups, len(models))
	for _, m := range models {
		out[m] = model.Groups{}
	}
	for _, s := range sessions {
		for _, r := range s.Rounds {
			g, ok := out[r.Model]
			if !ok {
				continue
			}
			p := r.Midpoint()
			g.All = append(g.All, p)
			if IsMistake(r, minLevel) {
				g.Mistakes = append(g.Mistakes, p)
			}
			out[r.Model] = g
		}
	}
	return out
}
