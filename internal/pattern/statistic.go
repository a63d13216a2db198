// Package pattern implements point-pattern statistics over the colour cube.
//
// Every metric evaluates a PointSet into a Curve and scores a mistakes curve
// against an all-points curve of the same colour model.
package pattern

import (
	"errors"
	"math"

	"github.com/verte-zerg/huepattern/internal/model"
)

var (
	// ErrInsufficientData is returned for point sets with fewer than two points.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrUndefinedRatio is returned when a score divides by a near-zero reference.
	ErrUndefinedRatio = errors.New("undefined ratio")
)

// ratioEpsilon is the smallest reference value a score may divide by.
const ratioEpsilon = 1e-12

// Statistic is a uniformity metric comparable across point sets.
type Statistic interface {
	Name() string
	Evaluate(ps model.PointSet) (model.Curve, error)
	Score(mistakes, all model.Curve) (float64, error)
}

// Baseline is implemented by statistics with a known value under complete
// spatial randomness, drawn as a reference line.
type Baseline interface {
	Expected(x float64) float64
}

func checkSize(ps model.PointSet) error {
	if len(ps) < 2 {
		return ErrInsufficientData
	}
	return nil
}

// ratio divides num by den, failing when den is near zero or the result is
// not finite.
func ratio(num, den float64) (float64, error) {
	if math.Abs(den) < ratioEpsilon {
		return math.NaN(), ErrUndefinedRatio
	}
	r := num / den
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return math.NaN(), ErrUndefinedRatio
	}
	return r, nil
}
