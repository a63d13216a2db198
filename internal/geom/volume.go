package geom

import "math"

// SphereVolume returns 4πt³/3.
func SphereVolume(t float64) float64 {
	return 4 * math.Pi * t * t * t / 3
}

// CapVolume is the volume of a radius-t ball beyond a plane at distance a
// from its centre. It is zero when the plane does not cut the ball.
func CapVolume(a, t float64) float64 {
	if a >= t {
		return 0
	}
	h := t - a
	return math.Pi * h * h * (3*t - h) / 3
}

// EdgeVolume is the volume of a radius-t ball beyond two perpendicular planes
// at distances a and b from its centre (x > a and y > b). It is zero unless
// a²+b² < t².
//
// The cross-section at fixed x is the circular segment of radius
// R = sqrt(t²-x²) beyond the chord y = b, integrated in closed form; the
// x direction is integrated with q.
func EdgeVolume(a, b, t float64, q Integrator) float64 {
	if a*a+b*b >= t*t {
		return 0
	}
	if q == nil {
		q = DefaultIntegrator
	}
	hi := sqrtClamp(t*t - b*b)
	return q.Integrate(func(x float64) float64 {
		return segmentArea(sqrtClamp(t*t-x*x), b)
	}, a, hi)
}

// CornerVolume is the volume of a radius-t ball beyond three mutually
// perpendicular planes at distances a, b and c (x > a, y > b, z > c). It is
// zero unless a²+b²+c² < t².
func CornerVolume(a, b, c, t float64, q Integrator) float64 {
	if a*a+b*b+c*c >= t*t {
		return 0
	}
	if q == nil {
		q = DefaultIntegrator
	}
	hi := sqrtClamp(t*t - b*b - c*c)
	return q.Integrate(func(x float64) float64 {
		return quadrantArea(sqrtClamp(t*t-x*x), b, c)
	}, a, hi)
}

// segmentArea is the area of a disc of radius r with y > b.
func segmentArea(r, b float64) float64 {
	if b >= r {
		return 0
	}
	return r*r*math.Acos(clampUnit(b/r)) - b*sqrtClamp(r*r-b*b)
}

// quadrantArea is the area of a disc of radius r with y > b and z > c:
// the integral over y in [b, sqrt(r²-c²)] of sqrt(r²-y²) - c.
func quadrantArea(r, b, c float64) float64 {
	if b*b+c*c >= r*r {
		return 0
	}
	ymax := sqrtClamp(r*r - c*c)
	prim := func(y float64) float64 {
		return 0.5*(y*sqrtClamp(r*r-y*y)+r*r*math.Asin(clampUnit(y/r))) - c*y
	}
	area := prim(ymax) - prim(b)
	if area < 0 {
		return 0
	}
	return area
}

// sqrtClamp treats negative radicands from rounding as zero.
func sqrtClamp(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Sqrt(v)
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
