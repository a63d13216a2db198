package spatial

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/huepattern/internal/model"
)

func randomPoints(seed int64, n int) model.PointSet {
	rnd := rand.New(rand.NewSource(seed))
	ps := make(model.PointSet, n)
	for i := range ps {
		ps[i] = model.Point{X: rnd.Float64() * 255, Y: rnd.Float64() * 255, Z: rnd.Float64() * 255}
	}
	return ps
}

func TestCountWithinMatchesBruteForce(t *testing.T) {
	ps := randomPoints(3, 400)
	ix := New(ps)
	for _, r := range []float64{0, 5, 20, 60} {
		for _, p := range ps[:50] {
			want := 0
			for _, q := range ps {
				if p.Dist(q) <= r {
					want++
				}
			}
			assert.Equal(t, want, ix.CountWithin(p, r), "r=%g p=%+v", r, p)
		}
	}
}

func TestNewDoesNotReorderInput(t *testing.T) {
	ps := randomPoints(5, 64)
	before := ps.Clone()
	New(ps)
	if diff := cmp.Diff(before, ps); diff != "" {
		t.Fatalf("input reordered (-want +got):\n%s", diff)
	}
}

func TestNearestNeighborDistances(t *testing.T) {
	ps := model.PointSet{
		{X: 0, Y: 0, Z: 0},
		{X: 3, Y: 4, Z: 0},
		{X: 100, Y: 100, Z: 100},
		{X: 100, Y: 100, Z: 100},
	}
	got := NearestNeighborDistances(ps)
	assert.InDeltaSlice(t, []float64{5, 5, 0, 0}, got, 1e-12)
}

func TestNearestNeighborMatchesBruteForce(t *testing.T) {
	ps := randomPoints(9, 300)
	got := NearestNeighborDistances(ps)
	for i, p := range ps {
		best := math.Inf(1)
		for j, q := range ps {
			if i != j {
				best = math.Min(best, p.Dist(q))
			}
		}
		assert.InDelta(t, best, got[i], 1e-9)
	}
}

func TestEmptyIndex(t *testing.T) {
	ix := New(nil)
	assert.Equal(t, 0, ix.Len())
	assert.Equal(t, 0, ix.CountWithin(model.Point{}, 10))
	_, d := ix.Nearest(model.Point{})
	assert.True(t, math.IsInf(d, 1))
	assert.True(t, math.IsInf(New(model.PointSet{{X: 1}}).NearestOther(model.Point{X: 1}), 1))
}

func TestNearestAndCountWithin(t *testing.T) {
	ps := model.PointSet{{X: 10, Y: 10, Z: 10}, {X: 20, Y: 10, Z: 10}, {X: 200, Y: 10, Z: 10}}
	ix := New(ps)
	p, d := ix.Nearest(model.Point{X: 18, Y: 10, Z: 10})
	assert.Equal(t, ps[1], p)
	assert.InDelta(t, 2.0, d, 1e-12)

	assert.Equal(t, 2, ix.CountWithin(model.Point{X: 12, Y: 10, Z: 10}, 9))
	assert.Equal(t, 1, ix.CountWithin(model.Point{X: 12, Y: 10, Z: 10}, 5))
}
