package pattern

import (
	"math"

	"github.com/verte-zerg/huepattern/internal/geom"
	"github.com/verte-zerg/huepattern/internal/model"
)

// DefaultQuadratMaxRes evaluates resolutions 1..254.
const DefaultQuadratMaxRes = 254

// quadratFloor replaces a dispersion of exactly zero.
const quadratFloor = 1e-16

// Quadrat splits the cube into res³ cells and measures how far the cell
// counts stray from the uniform expectation.
type Quadrat struct {
	Side   float64
	MaxRes int
}

// Name implements Statistic.
func (Quadrat) Name() string { return "quadrat" }

// Evaluate implements Statistic with X = resolution and Y = Q(res).
func (q Quadrat) Evaluate(ps model.PointSet) (model.Curve, error) {
	if err := checkSize(ps); err != nil {
		return model.Curve{}, err
	}
	maxRes := q.MaxRes
	if maxRes <= 0 {
		maxRes = DefaultQuadratMaxRes
	}
	c := model.Curve{X: make([]float64, maxRes), Y: make([]float64, maxRes)}
	for res := 1; res <= maxRes; res++ {
		c.X[res-1] = float64(res)
		c.Y[res-1] = q.Dispersion(ps, res)
	}
	return c, nil
}

// Dispersion is Σ|count - n/res³| / n over all res³ cells. Only occupied
// cells are stored; empty cells each contribute n/res³.
func (q Quadrat) Dispersion(ps model.PointSet, res int) float64 {
	n := float64(len(ps))
	if n == 0 || res <= 0 {
		return quadratFloor
	}
	counts := make(map[[3]int]int)
	for _, p := range ps {
		counts[[3]int{q.cell(p.X, res), q.cell(p.Y, res), q.cell(p.Z, res)}]++
	}
	cells := float64(res) * float64(res) * float64(res)
	mean := n / cells
	var sum float64
	for _, c := range counts {
		sum += math.Abs(float64(c) - mean)
	}
	sum += (cells - float64(len(counts))) * mean
	d := sum / n
	if d < quadratFloor {
		return quadratFloor
	}
	return d
}

// Score implements Statistic: Σ_res |Q_m(res) / Q_a(res)|. Dispersions are
// floored, so only a missing or non-finite term is undefined.
func (q Quadrat) Score(mistakes, all model.Curve) (float64, error) {
	n := len(mistakes.Y)
	if len(all.Y) < n {
		n = len(all.Y)
	}
	if n == 0 {
		return math.NaN(), ErrUndefinedRatio
	}
	var sum float64
	for i := 0; i < n; i++ {
		if !(all.Y[i] > 0) {
			return math.NaN(), ErrUndefinedRatio
		}
		sum += math.Abs(mistakes.Y[i] / all.Y[i])
	}
	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		return math.NaN(), ErrUndefinedRatio
	}
	return sum, nil
}

// cell maps a coordinate to a right-closed bin; 0 falls into the first one.
func (q Quadrat) cell(v float64, res int) int {
	side := q.Side
	if side <= 0 {
		side = geom.DefaultSide
	}
	i := int(math.Ceil(v*float64(res)/side)) - 1
	if i < 0 {
		return 0
	}
	if i >= res {
		return res - 1
	}
	return i
}
