// Package geom computes the isotropic edge correction for spheres clipped by a cube.
package geom

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

// Integrator approximates the definite integral of f over [min, max].
// Implementations must be stateless so they can be shared between goroutines.
type Integrator interface {
	Integrate(f func(float64) float64, min, max float64) float64
}

// GaussLegendre is a fixed N-point Gauss–Legendre rule.
type GaussLegendre struct {
	N int
}

// Integrate implements Integrator.
func (g GaussLegendre) Integrate(f func(float64) float64, min, max float64) float64 {
	n := g.N
	if n <= 0 {
		n = 64
	}
	if max <= min {
		return 0
	}
	return quad.Fixed(f, min, max, n, quad.Legendre{}, 0)
}

// Adaptive bisects the interval until two Gauss–Legendre panels agree with
// their parent panel to within Tol (relative) or MaxDepth is reached.
type Adaptive struct {
	Tol      float64
	N        int
	MaxDepth int
}

// DefaultIntegrator is used when a Box carries no integrator.
var DefaultIntegrator Integrator = Adaptive{Tol: 1e-10, N: 24, MaxDepth: 12}

// Integrate implements Integrator.
func (a Adaptive) Integrate(f func(float64) float64, min, max float64) float64 {
	if max <= min {
		return 0
	}
	rule := GaussLegendre{N: a.N}
	if rule.N <= 0 {
		rule.N = 24
	}
	tol := a.Tol
	if tol <= 0 {
		tol = 1e-10
	}
	depth := a.MaxDepth
	if depth <= 0 {
		depth = 12
	}
	whole := rule.Integrate(f, min, max)
	return refine(rule, f, min, max, whole, tol, depth)
}

func refine(rule GaussLegendre, f func(float64) float64, lo, hi, whole, tol float64, depth int) float64 {
	mid := lo + (hi-lo)/2
	left := rule.Integrate(f, lo, mid)
	right := rule.Integrate(f, mid, hi)
	sum := left + right
	if depth <= 0 || math.Abs(sum-whole) <= tol*math.Max(math.Abs(sum), 1e-300) {
		return sum
	}
	return refine(rule, f, lo, mid, left, tol, depth-1) +
		refine(rule, f, mid, hi, right, tol, depth-1)
}
