package pattern

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/huepattern/internal/geom"
	"github.com/verte-zerg/huepattern/internal/model"
)

// Names lists the statistics New can build, in display order.
var Names = []string{"ripley", "nnd", "jindex", "quadrat", "voronoi"}

// New builds the named statistic from cfg. Zero values in cfg select the
// statistic's defaults.
func New(name string, cfg model.AnalysisConfig) (Statistic, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ripley":
		r := NewRipley(cfg.RipleyRadii)
		r.Deviation = cfg.RipleyDeviates
		return r, nil
	case "nnd":
		return NND{Side: geom.DefaultSide}, nil
	case "jindex":
		return JIndex{Side: geom.DefaultSide, Radii: cfg.JIndexRadii, GridStep: cfg.JIndexStep}, nil
	case "quadrat":
		return Quadrat{Side: geom.DefaultSide, MaxRes: cfg.QuadratMaxRes}, nil
	case "voronoi":
		metric, err := ParseMetric(cfg.VoronoiMetric)
		if err != nil {
			return nil, err
		}
		return Voronoi{Side: geom.DefaultSide, GridStep: cfg.VoronoiStep, Metric: metric}, nil
	default:
		return nil, fmt.Errorf("unknown statistic %q (available: %s)", name, strings.Join(Names, ", "))
	}
}

// AxisName labels the curve X values of the named statistic.
func AxisName(name string) string {
	switch name {
	case "ripley":
		return "t"
	case "nnd":
		return "distance"
	case "jindex":
		return "r"
	case "quadrat":
		return "resolution"
	case "voronoi":
		return "rank"
	default:
		return "x"
	}
}
