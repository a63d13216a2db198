package geom

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/huepattern/internal/model"
)

func TestEdgeCorrectionInterior(t *testing.T) {
	box := NewBox(DefaultSide)
	e, err := box.EdgeCorrection(50, model.Point{X: 127.5, Y: 127.5, Z: 127.5})
	require.NoError(t, err)
	assert.Equal(t, 1.0, e)

	// Touching a face without crossing it is still fully inside.
	e, err = box.EdgeCorrection(40, model.Point{X: 40, Y: 100, Z: 200})
	require.NoError(t, err)
	assert.Equal(t, 1.0, e)
}

func TestEdgeCorrectionFace(t *testing.T) {
	box := NewBox(DefaultSide)
	e, err := box.EdgeCorrection(50, model.Point{X: 0, Y: 127.5, Z: 127.5})
	require.NoError(t, err)
	want := 1 - CapVolume(0, 50)/SphereVolume(50)
	assert.InDelta(t, want, e, 1e-12)
	assert.InDelta(t, 0.5, e, 1e-12)
}

func TestEdgeCorrectionEdgeAndCorner(t *testing.T) {
	box := NewBox(DefaultSide)

	e, err := box.EdgeCorrection(50, model.Point{X: 0, Y: 0, Z: 127.5})
	require.NoError(t, err)
	assert.InDelta(t, 0.25, e, 1e-9)

	e, err = box.EdgeCorrection(50, model.Point{X: 0, Y: 0, Z: 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.125, e, 1e-9)

	e, err = box.EdgeCorrection(50, model.Point{X: 255, Y: 255, Z: 255})
	require.NoError(t, err)
	assert.InDelta(t, 0.125, e, 1e-9)
}

func TestEdgeCorrectionNearCorner(t *testing.T) {
	box := NewBox(DefaultSide)
	e, err := box.EdgeCorrection(20, model.Point{X: 10, Y: 0, Z: 0})
	require.NoError(t, err)
	assert.InDelta(t, 27.0/128.0, e, 1e-9)
}

func TestEdgeCorrectionMatchesMonteCarlo(t *testing.T) {
	box := NewBox(DefaultSide)
	p := model.Point{X: 5, Y: 12, Z: 30}
	const radius = 40.0

	e, err := box.EdgeCorrection(radius, p)
	require.NoError(t, err)

	rnd := rand.New(rand.NewSource(7))
	const samples = 200000
	inside, total := 0, 0
	for total < samples {
		x := (rnd.Float64()*2 - 1) * radius
		y := (rnd.Float64()*2 - 1) * radius
		z := (rnd.Float64()*2 - 1) * radius
		if x*x+y*y+z*z > radius*radius {
			continue
		}
		total++
		if box.Contains(model.Point{X: p.X + x, Y: p.Y + y, Z: p.Z + z}) {
			inside++
		}
	}
	assert.InDelta(t, float64(inside)/float64(total), e, 0.01)
}

func TestEdgeCorrectionRange(t *testing.T) {
	box := NewBox(DefaultSide)
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 300; i++ {
		p := model.Point{
			X: rnd.Float64() * 255,
			Y: rnd.Float64() * 255,
			Z: rnd.Float64() * 255,
		}
		radius := 1 + rnd.Float64()*120
		e, err := box.EdgeCorrection(radius, p)
		require.NoError(t, err)
		if !(e > 0 && e <= 1) {
			t.Fatalf("correction %g out of range for t=%g p=%+v", e, radius, p)
		}
	}
}

func TestEdgeCorrectionErrors(t *testing.T) {
	box := NewBox(DefaultSide)
	_, err := box.EdgeCorrection(0, model.Point{X: 1, Y: 1, Z: 1})
	assert.ErrorIs(t, err, ErrRadius)

	_, err = box.EdgeCorrection(10, model.Point{X: -1, Y: 1, Z: 1})
	assert.ErrorIs(t, err, ErrOutsideBox)
}

func TestWedgeVolumesClosedForms(t *testing.T) {
	const radius = 30.0
	cube := radius * radius * radius
	assert.InDelta(t, math.Pi*cube/3, EdgeVolume(0, 0, radius, nil), 1e-6)
	assert.InDelta(t, math.Pi*cube/6, CornerVolume(0, 0, 0, radius, nil), 1e-6)
	assert.Equal(t, 0.0, EdgeVolume(20, 25, radius, nil))
	assert.Equal(t, 0.0, CornerVolume(10, 15, 25, radius, nil))
	assert.Equal(t, 0.0, CapVolume(radius, radius))
}

func TestIntegratorsAgree(t *testing.T) {
	fixed := GaussLegendre{N: 400}
	adaptive := Adaptive{Tol: 1e-12, N: 24, MaxDepth: 14}

	edgeFixed := EdgeVolume(10, 20, 50, fixed)
	edgeAdaptive := EdgeVolume(10, 20, 50, adaptive)
	assert.InEpsilon(t, edgeFixed, edgeAdaptive, 1e-6)

	cornerFixed := CornerVolume(5, 10, 15, 40, fixed)
	cornerAdaptive := CornerVolume(5, 10, 15, 40, adaptive)
	assert.InEpsilon(t, cornerFixed, cornerAdaptive, 1e-6)
}
