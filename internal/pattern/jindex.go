package pattern

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/verte-zerg/huepattern/internal/geom"
	"github.com/verte-zerg/huepattern/internal/model"
	"github.com/verte-zerg/huepattern/internal/spatial"
)

// DefaultJIndexRadii is 1, 2, ..., 64.
var DefaultJIndexRadii = Arange(1, 65, 1)

// DefaultGridStep is the lattice spacing for empty-space and voxel sampling.
const DefaultGridStep = 5.0

// fCap keeps the empty-space function below one.
const fCap = 1 - 1e-10

// JIndex compares the empty-space function F with the nearest-neighbour
// function G: J(r) = |F(r) - G(r)|.
type JIndex struct {
	Side     float64
	Radii    []float64
	GridStep float64
}

// Name implements Statistic.
func (JIndex) Name() string { return "jindex" }

// Evaluate implements Statistic with X = radii and Y = J(r).
func (j JIndex) Evaluate(ps model.PointSet) (model.Curve, error) {
	if err := checkSize(ps); err != nil {
		return model.Curve{}, err
	}
	g := spatial.NearestNeighborDistances(ps)
	sort.Float64s(g)
	f := j.emptySpace(spatial.New(ps))

	radii := j.radii()
	c := model.Curve{X: append([]float64(nil), radii...), Y: make([]float64, len(radii))}
	for i, r := range radii {
		fr := math.Min(stat.CDF(r, stat.Empirical, f, nil), fCap)
		gr := stat.CDF(r, stat.Empirical, g, nil)
		c.Y[i] = math.Abs(fr - gr)
	}
	return c, nil
}

// Score implements Statistic: 1 - ΣJ_m/ΣJ_a.
func (j JIndex) Score(mistakes, all model.Curve) (float64, error) {
	r, err := ratio(mistakes.Sum(), all.Sum())
	if err != nil {
		return r, err
	}
	return 1 - r, nil
}

// emptySpace returns the sorted distances from every lattice node of the
// cube to its nearest indexed point.
func (j JIndex) emptySpace(ix *spatial.Index) []float64 {
	axis := lattice(j.side(), j.step())
	out := make([]float64, 0, len(axis)*len(axis)*len(axis))
	for _, x := range axis {
		for _, y := range axis {
			for _, z := range axis {
				_, d := ix.Nearest(model.Point{X: x, Y: y, Z: z})
				out = append(out, d)
			}
		}
	}
	sort.Float64s(out)
	return out
}

func (j JIndex) radii() []float64 {
	if len(j.Radii) == 0 {
		return DefaultJIndexRadii
	}
	return j.Radii
}

func (j JIndex) side() float64 {
	if j.Side <= 0 {
		return geom.DefaultSide
	}
	return j.Side
}

func (j JIndex) step() float64 {
	if j.GridStep <= 0 {
		return DefaultGridStep
	}
	return j.GridStep
}

// lattice returns 0, step, 2·step, ... up to and including side.
func lattice(side, step float64) []float64 {
	n := int(math.Floor(side/step + 1e-9))
	out := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, float64(i)*step)
	}
	return out
}
