package pattern

import (
	"fmt"
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"

	"github.com/verte-zerg/huepattern/internal/geom"
	"github.com/verte-zerg/huepattern/internal/model"
	"github.com/verte-zerg/huepattern/internal/spatial"
)

// NND measures how far nearest-neighbour distances stray from the spacing
// S/cbrt(n) of a regular lattice with the same number of points.
type NND struct {
	Side float64
}

// Name implements Statistic.
func (NND) Name() string { return "nnd" }

// Evaluate implements Statistic. The curve is the empirical distribution of
// nearest-neighbour distances: X holds the sorted distances and Y the
// cumulative fraction.
func (s NND) Evaluate(ps model.PointSet) (model.Curve, error) {
	if err := checkSize(ps); err != nil {
		return model.Curve{}, err
	}
	d := spatial.NearestNeighborDistances(ps)
	sort.Float64s(d)
	c := model.Curve{X: d, Y: make([]float64, len(d))}
	for i := range d {
		c.Y[i] = float64(i+1) / float64(len(d))
	}
	return c, nil
}

// Uniformity is mean_i |1 - d_i/u| with u = S/cbrt(n).
func (s NND) Uniformity(c model.Curve) float64 {
	n := len(c.X)
	if n == 0 {
		return math.NaN()
	}
	u := s.side() / math.Cbrt(float64(n))
	var sum float64
	for _, d := range c.X {
		sum += math.Abs(1 - d/u)
	}
	return sum / float64(n)
}

// Score implements Statistic: 1 / |1 - U_m/U_a|.
func (s NND) Score(mistakes, all model.Curve) (float64, error) {
	r, err := ratio(s.Uniformity(mistakes), s.Uniformity(all))
	if err != nil {
		return r, err
	}
	return ratio(1, math.Abs(1-r))
}

func (s NND) side() float64 {
	if s.Side <= 0 {
		return geom.DefaultSide
	}
	return s.Side
}

// NNTest runs a two-sided Mann-Whitney U-test on the nearest-neighbour
// distances of the two sets.
func NNTest(mistakes, all model.PointSet) (*stats.MannWhitneyUTestResult, error) {
	if len(mistakes) < 2 || len(all) < 2 {
		return nil, ErrInsufficientData
	}
	res, err := stats.MannWhitneyUTest(
		spatial.NearestNeighborDistances(mistakes),
		spatial.NearestNeighborDistances(all),
		stats.LocationDiffers,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to run Mann-Whitney U-test: %w", err)
	}
	return res, nil
}
