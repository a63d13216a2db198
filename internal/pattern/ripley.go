package pattern

import (
	"fmt"
	"math"

	"github.com/verte-zerg/huepattern/internal/geom"
	"github.com/verte-zerg/huepattern/internal/model"
	"github.com/verte-zerg/huepattern/internal/spatial"
)

// DefaultRipleyRadii is 5, 6, ..., 64.
var DefaultRipleyRadii = Arange(5, 65, 1)

// Ripley computes the edge-corrected K function and its L transform.
type Ripley struct {
	Box   geom.Box
	Radii []float64
	// Deviation scores |1 - ΣL_m/ΣL_a| instead of the plain ratio.
	Deviation bool
}

// NewRipley returns a Ripley over the default cube. Empty radii select
// DefaultRipleyRadii.
func NewRipley(radii []float64) Ripley {
	if len(radii) == 0 {
		radii = DefaultRipleyRadii
	}
	return Ripley{Box: geom.NewBox(geom.DefaultSide), Radii: radii}
}

// Name implements Statistic.
func (r Ripley) Name() string { return "ripley" }

// Expected implements Baseline: L is zero under complete spatial randomness.
func (r Ripley) Expected(float64) float64 { return 0 }

// K returns the edge-corrected K(t) of ps.
func (r Ripley) K(ps model.PointSet, t float64) (float64, error) {
	if err := r.check(ps, []float64{t}); err != nil {
		return 0, err
	}
	return r.k(spatial.New(ps), ps, t)
}

// L returns |t - cbrt(3K(t)/4π)|.
func (r Ripley) L(ps model.PointSet, t float64) (float64, error) {
	k, err := r.K(ps, t)
	if err != nil {
		return 0, err
	}
	return LFromK(k, t), nil
}

// LFromK is the variance-stabilising transform of K at radius t.
func LFromK(k, t float64) float64 {
	return math.Abs(t - math.Cbrt(3*k/(4*math.Pi)))
}

// Results evaluates K and L at every radius. The index is built once and
// shared across radii; ps is left untouched.
func (r Ripley) Results(m model.ColorModel, ps model.PointSet, radii []float64) ([]model.StatisticResult, error) {
	if err := r.check(ps, radii); err != nil {
		return nil, err
	}
	ix := spatial.New(ps)
	out := make([]model.StatisticResult, 0, len(radii))
	for _, t := range radii {
		k, err := r.k(ix, ps, t)
		if err != nil {
			return nil, err
		}
		out = append(out, model.StatisticResult{Model: m, T: t, K: k, L: LFromK(k, t)})
	}
	return out, nil
}

// Evaluate implements Statistic with X = radii and Y = L(t).
func (r Ripley) Evaluate(ps model.PointSet) (model.Curve, error) {
	res, err := r.Results("", ps, r.radii())
	if err != nil {
		return model.Curve{}, err
	}
	c := model.Curve{X: make([]float64, len(res)), Y: make([]float64, len(res))}
	for i, v := range res {
		c.X[i] = v.T
		c.Y[i] = v.L
	}
	return c, nil
}

// Score implements Statistic: ΣL(mistakes) / ΣL(all).
func (r Ripley) Score(mistakes, all model.Curve) (float64, error) {
	s, err := ratio(mistakes.Sum(), all.Sum())
	if err != nil {
		return s, err
	}
	if r.Deviation {
		return math.Abs(1 - s), nil
	}
	return s, nil
}

func (r Ripley) radii() []float64 {
	if len(r.Radii) == 0 {
		return DefaultRipleyRadii
	}
	return r.Radii
}

func (r Ripley) check(ps model.PointSet, radii []float64) error {
	if err := checkSize(ps); err != nil {
		return err
	}
	for _, t := range radii {
		if !(t > 0) {
			return fmt.Errorf("%w: %g", geom.ErrRadius, t)
		}
	}
	for _, p := range ps {
		if !r.Box.Contains(p) {
			return fmt.Errorf("%w: %+v", geom.ErrOutsideBox, p)
		}
	}
	return nil
}

// k sums count_i / e(t, p_i) over ps, where count_i excludes p_i itself.
// Points without neighbours contribute nothing and skip the edge term.
func (r Ripley) k(ix *spatial.Index, ps model.PointSet, t float64) (float64, error) {
	var sum float64
	for _, p := range ps {
		count := ix.CountWithin(p, t) - 1
		if count <= 0 {
			continue
		}
		e, err := r.Box.EdgeCorrection(t, p)
		if err != nil {
			return 0, err
		}
		sum += float64(count) / e
	}
	n := float64(len(ps))
	return r.Box.Volume() / (n * n) * sum, nil
}
