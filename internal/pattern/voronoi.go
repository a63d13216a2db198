package pattern

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/verte-zerg/huepattern/internal/geom"
	"github.com/verte-zerg/huepattern/internal/model"
	"github.com/verte-zerg/huepattern/internal/spatial"
)

// Voronoi uniformity metrics.
const (
	MetricAbsDev = "absdev"
	MetricStdDev = "stddev"
)

// Voronoi estimates the cube-clipped Voronoi cell volume of every point by
// assigning lattice voxels to their nearest point, then measures the spread
// of the cell sizes.
type Voronoi struct {
	Side     float64
	GridStep float64
	Metric   string
}

// ParseMetric validates a Voronoi metric name; empty selects absdev.
func ParseMetric(s string) (string, error) {
	switch s {
	case "", MetricAbsDev:
		return MetricAbsDev, nil
	case MetricStdDev:
		return MetricStdDev, nil
	default:
		return "", fmt.Errorf("unknown voronoi metric %q (want %s or %s)", s, MetricAbsDev, MetricStdDev)
	}
}

// Name implements Statistic.
func (Voronoi) Name() string { return "voronoi" }

// Evaluate implements Statistic. Y holds the cube roots of the cell volumes
// in ascending order; X is the rank.
func (v Voronoi) Evaluate(ps model.PointSet) (model.Curve, error) {
	if err := checkSize(ps); err != nil {
		return model.Curve{}, err
	}
	vols := v.CellVolumes(ps)
	y := make([]float64, len(vols))
	for i, vol := range vols {
		y[i] = math.Cbrt(vol)
	}
	sort.Float64s(y)
	c := model.Curve{X: make([]float64, len(y)), Y: y}
	for i := range c.X {
		c.X[i] = float64(i + 1)
	}
	return c, nil
}

// CellVolumes returns the estimated cell volume of each point of ps, in
// order. Coincident points share one cell; the duplicates get zero.
func (v Voronoi) CellVolumes(ps model.PointSet) []float64 {
	side := v.Side
	if side <= 0 {
		side = geom.DefaultSide
	}
	step := v.GridStep
	if step <= 0 {
		step = DefaultGridStep
	}
	owner := make(map[model.Point]int, len(ps))
	for i, p := range ps {
		if _, ok := owner[p]; !ok {
			owner[p] = i
		}
	}
	ix := spatial.New(ps)
	vols := make([]float64, len(ps))
	n := int(math.Ceil(side/step - 1e-9))
	extent := func(i int) (mid, width float64) {
		lo := float64(i) * step
		hi := math.Min(lo+step, side)
		return (lo + hi) / 2, hi - lo
	}
	for i := 0; i < n; i++ {
		x, wx := extent(i)
		for j := 0; j < n; j++ {
			y, wy := extent(j)
			for k := 0; k < n; k++ {
				z, wz := extent(k)
				p, _ := ix.Nearest(model.Point{X: x, Y: y, Z: z})
				vols[owner[p]] += wx * wy * wz
			}
		}
	}
	return vols
}

// Uniformity applies the configured metric to cube-root cell sizes.
func (v Voronoi) Uniformity(c model.Curve) float64 {
	if len(c.Y) == 0 {
		return math.NaN()
	}
	if v.Metric == MetricStdDev {
		if len(c.Y) < 2 {
			return 0
		}
		return stat.StdDev(c.Y, nil)
	}
	mean := stat.Mean(c.Y, nil)
	var sum float64
	for _, y := range c.Y {
		sum += math.Abs(y - mean)
	}
	return sum
}

// Score implements Statistic: U_m / U_a.
func (v Voronoi) Score(mistakes, all model.Curve) (float64, error) {
	return ratio(v.Uniformity(mistakes), v.Uniformity(all))
}
