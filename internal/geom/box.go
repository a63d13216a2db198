package geom

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/huepattern/internal/model"
)

// DefaultSide is the side length of the 8-bit colour cube.
const DefaultSide = 255.0

// minFraction keeps the correction strictly positive.
const minFraction = 1e-12

var (
	// ErrRadius is returned for a non-positive radius.
	ErrRadius = errors.New("radius must be positive")
	// ErrOutsideBox is returned when the sphere centre lies outside the cube.
	ErrOutsideBox = errors.New("point outside box")
)

// Box is the cube [0, Side]^3. Quad integrates the edge and corner terms;
// nil selects DefaultIntegrator.
type Box struct {
	Side float64
	Quad Integrator
}

// NewBox returns a Box of the given side using the default integrator.
func NewBox(side float64) Box {
	if side <= 0 {
		side = DefaultSide
	}
	return Box{Side: side}
}

func (b Box) side() float64 {
	if b.Side <= 0 {
		return DefaultSide
	}
	return b.Side
}

func (b Box) integrator() Integrator {
	if b.Quad == nil {
		return DefaultIntegrator
	}
	return b.Quad
}

// Volume returns Side³.
func (b Box) Volume() float64 {
	s := b.side()
	return s * s * s
}

// Contains reports whether p lies in the closed cube.
func (b Box) Contains(p model.Point) bool {
	s := b.side()
	for d := 0; d < 3; d++ {
		v := p.Coord(d)
		if v < 0 || v > s {
			return false
		}
	}
	return true
}

// faceDistances returns, per axis, the distances to the low and high faces.
func (b Box) faceDistances(p model.Point) [3][2]float64 {
	s := b.side()
	var out [3][2]float64
	for d := 0; d < 3; d++ {
		v := p.Coord(d)
		out[d] = [2]float64{v, s - v}
	}
	return out
}

// Exclusion breaks down the ball volume lying outside the cube.
type Exclusion struct {
	Caps    float64
	Edges   float64
	Corners float64
}

// Total is the excluded volume by inclusion–exclusion.
func (e Exclusion) Total() float64 {
	return e.Caps - e.Edges + e.Corners
}

// Exclusion returns the per-term volumes of the radius-t ball centred at p
// that fall outside the cube. Opposite faces never overlap, so the 6 caps,
// 12 edge wedges and 8 corner pieces are exact.
func (b Box) Exclusion(t float64, p model.Point) Exclusion {
	q := b.integrator()
	fd := b.faceDistances(p)
	var ex Exclusion
	for d := 0; d < 3; d++ {
		for _, a := range fd[d] {
			ex.Caps += CapVolume(a, t)
		}
	}
	for d1 := 0; d1 < 3; d1++ {
		for d2 := d1 + 1; d2 < 3; d2++ {
			for _, a := range fd[d1] {
				for _, c := range fd[d2] {
					ex.Edges += EdgeVolume(a, c, t, q)
				}
			}
		}
	}
	for _, a := range fd[0] {
		for _, c := range fd[1] {
			for _, e := range fd[2] {
				ex.Corners += CornerVolume(a, c, e, t, q)
			}
		}
	}
	return ex
}

// EdgeCorrection returns the fraction of the radius-t ball centred at p that
// lies inside the cube. The result is in (0, 1] and is exactly 1 when the
// ball does not cross any face.
func (b Box) EdgeCorrection(t float64, p model.Point) (float64, error) {
	if !(t > 0) {
		return 0, fmt.Errorf("%w: %g", ErrRadius, t)
	}
	if !b.Contains(p) {
		return 0, fmt.Errorf("%w: %+v", ErrOutsideBox, p)
	}
	if t <= b.nearestFace(p) {
		return 1, nil
	}
	e := 1 - b.Exclusion(t, p).Total()/SphereVolume(t)
	if e > 1 {
		e = 1
	}
	if !(e > minFraction) {
		e = minFraction
	}
	return e, nil
}

func (b Box) nearestFace(p model.Point) float64 {
	fd := b.faceDistances(p)
	m := fd[0][0]
	for d := 0; d < 3; d++ {
		for _, v := range fd[d] {
			if v < m {
				m = v
			}
		}
	}
	return m
}
