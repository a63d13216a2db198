package pattern

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/huepattern/internal/geom"
	"github.com/verte-zerg/huepattern/internal/model"
)

func uniformPoints(seed int64, n int) model.PointSet {
	rnd := rand.New(rand.NewSource(seed))
	ps := make(model.PointSet, n)
	for i := range ps {
		ps[i] = model.Point{X: rnd.Float64() * 255, Y: rnd.Float64() * 255, Z: rnd.Float64() * 255}
	}
	return ps
}

func TestRipleyTwoPoints(t *testing.T) {
	r := NewRipley(nil)
	ps := model.PointSet{{X: 0, Y: 0, Z: 0}, {X: 10, Y: 0, Z: 0}}

	k, err := r.K(ps, 20)
	require.NoError(t, err)
	side := geom.DefaultSide
	want := side * side * side / 4 * (8 + 128.0/27.0)
	assert.InEpsilon(t, want, k, 1e-9)

	l, err := r.L(ps, 20)
	require.NoError(t, err)
	assert.InDelta(t, LFromK(want, 20), l, 1e-9)
	assert.GreaterOrEqual(t, l, 0.0)
}

func TestRipleyNoNeighbours(t *testing.T) {
	r := NewRipley(nil)
	ps := model.PointSet{{X: 10, Y: 10, Z: 10}, {X: 200, Y: 200, Z: 200}}
	k, err := r.K(ps, 30)
	require.NoError(t, err)
	assert.Equal(t, 0.0, k)

	l, err := r.L(ps, 30)
	require.NoError(t, err)
	assert.Equal(t, 30.0, l)
}

func TestLFromKZeroAtExpectation(t *testing.T) {
	for _, radius := range []float64{1, 5, 20, 64} {
		k := 4 * math.Pi * radius * radius * radius / 3
		assert.InDelta(t, 0, LFromK(k, radius), 1e-9)
	}
}

func TestRipleyInsufficientData(t *testing.T) {
	r := NewRipley(nil)
	_, err := r.K(nil, 10)
	assert.True(t, errors.Is(err, ErrInsufficientData))

	_, err = r.Evaluate(model.PointSet{{X: 1, Y: 2, Z: 3}})
	assert.True(t, errors.Is(err, ErrInsufficientData))
}

func TestRipleyRejectsBadInput(t *testing.T) {
	r := NewRipley(nil)
	ps := model.PointSet{{X: 1, Y: 1, Z: 1}, {X: 300, Y: 1, Z: 1}}
	_, err := r.K(ps, 10)
	assert.ErrorIs(t, err, geom.ErrOutsideBox)

	_, err = r.Results("RGB", uniformPoints(1, 10), []float64{5, -1})
	assert.ErrorIs(t, err, geom.ErrRadius)
}

func TestRipleyIdempotent(t *testing.T) {
	r := NewRipley(nil)
	ps := uniformPoints(11, 200)
	before := ps.Clone()
	radii := []float64{5, 15, 35}

	first, err := r.Results("CIELAB", ps, radii)
	require.NoError(t, err)
	second, err := r.Results("CIELAB", ps, radii)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("results differ between runs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(before, ps); diff != "" {
		t.Fatalf("input mutated (-want +got):\n%s", diff)
	}
	for _, res := range first {
		assert.Equal(t, model.ColorModel("CIELAB"), res.Model)
		assert.GreaterOrEqual(t, res.K, 0.0)
		assert.GreaterOrEqual(t, res.L, 0.0)
	}
}

func TestRipleyCompleteSpatialRandomness(t *testing.T) {
	r := NewRipley(nil)
	radii := []float64{15, 20, 25, 30}
	var total float64
	var count int
	for seed := int64(1); seed <= 3; seed++ {
		res, err := r.Results("RGB", uniformPoints(seed, 1000), radii)
		require.NoError(t, err)
		for _, v := range res {
			rel := v.L / v.T
			assert.Less(t, rel, 0.1, "seed=%d t=%g", seed, v.T)
			total += rel
			count++
		}
	}
	assert.Less(t, total/float64(count), 0.05)
}

func TestRipleyEvaluateCurve(t *testing.T) {
	r := NewRipley([]float64{10, 20})
	ps := uniformPoints(4, 50)
	c, err := r.Evaluate(ps)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20}, c.X)

	res, err := r.Results("", ps, []float64{10, 20})
	require.NoError(t, err)
	assert.Equal(t, []float64{res[0].L, res[1].L}, c.Y)
}

func TestRipleyScore(t *testing.T) {
	r := NewRipley(nil)
	m := model.Curve{Y: []float64{1, 2, 3}}
	a := model.Curve{Y: []float64{2, 4, 6}}

	s, err := r.Score(m, a)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, s, 1e-12)

	r.Deviation = true
	s, err = r.Score(m, a)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, s, 1e-12)

	_, err = r.Score(m, model.Curve{Y: []float64{0, 1e-14}})
	assert.ErrorIs(t, err, ErrUndefinedRatio)
}

func TestParseGrid(t *testing.T) {
	got, err := ParseGrid("5:65:1")
	require.NoError(t, err)
	assert.Len(t, got, 60)
	assert.Equal(t, 5.0, got[0])
	assert.Equal(t, 64.0, got[59])

	got, err = ParseGrid("1:4")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, got)

	got, err = ParseGrid("10, 20,40")
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20, 40}, got)

	for _, bad := range []string{"", "0:10", "5:1", "1:10:0", "a,b", "-3", "1:2:3:4"} {
		_, err := ParseGrid(bad)
		assert.ErrorIs(t, err, ErrGrid, "input %q", bad)
	}
}

func TestFormatGrid(t *testing.T) {
	assert.Equal(t, "5:65:1", FormatGrid(DefaultRipleyRadii))
	assert.Equal(t, "10,20,40", FormatGrid([]float64{10, 20, 40}))
	assert.Equal(t, "", FormatGrid(nil))
}
