// Package model defines shared data structures.
package model

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// ColorModel labels the colour space a round was generated in.
type ColorModel string

// DefaultColorModels lists the models analysed when none are configured.
var DefaultColorModels = []ColorModel{"RGB", "CIELAB", "JzAzBz", "Oklab"}

// Point is a stimulus position in the [0,255]^3 colour cube.
type Point struct {
	X, Y, Z float64
}

// Coord returns the coordinate along dimension d (0, 1 or 2).
func (p Point) Coord(d int) float64 {
	switch d {
	case 0:
		return p.X
	case 1:
		return p.Y
	case 2:
		return p.Z
	default:
		panic("model: illegal dimension")
	}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Sqrt(p.Distance(q))
}

// Compare implements kdtree.Comparable.
func (p Point) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(Point)
	return p.Coord(int(d)) - q.Coord(int(d))
}

// Dims implements kdtree.Comparable.
func (p Point) Dims() int { return 3 }

// Distance implements kdtree.Comparable and returns the squared distance.
func (p Point) Distance(c kdtree.Comparable) float64 {
	q := c.(Point)
	dx := p.X - q.X
	dy := p.Y - q.Y
	dz := p.Z - q.Z
	return dx*dx + dy*dy + dz*dz
}

// PointSet is an ordered collection of points. It is built once and then only read.
type PointSet []Point

// Clone returns a copy that can be reordered without touching ps.
func (ps PointSet) Clone() PointSet {
	return append(PointSet(nil), ps...)
}

// Round is one recorded trial within a game session.
type Round struct {
	Level   int
	Base    [3]float64
	Changed [3]float64
	Model   ColorModel
	Correct bool
}

// Midpoint returns the point halfway between the base and changed colours.
func (r Round) Midpoint() Point {
	return Point{
		X: (r.Base[0] + r.Changed[0]) / 2,
		Y: (r.Base[1] + r.Changed[1]) / 2,
		Z: (r.Base[2] + r.Changed[2]) / 2,
	}
}

// Session is one exported game.
type Session struct {
	ID              string
	FinalLevel      int
	VisualCondition bool
	Rounds          []Round
}

// RawSession is one exported row before decoding, as read from CSV or SQLite.
type RawSession struct {
	ID         string
	FinalLevel string
	Rounds     string
	Condition  string
}

// Groups holds the two point sets compared for a colour model.
type Groups struct {
	Mistakes PointSet
	All      PointSet
}

// DataConfig controls how sessions are read and grouped.
type DataConfig struct {
	Path            string
	Models          []ColorModel
	MistakeMinLevel int
	SessionColumn   int
	LevelColumn     int
	RoundsColumn    int
	ConditionColumn int
	Table           string
}

// AnalysisConfig holds the per-metric settings.
type AnalysisConfig struct {
	Workers        int
	RipleyRadii    []float64
	JIndexRadii    []float64
	JIndexStep     float64
	QuadratMaxRes  int
	VoronoiStep    float64
	VoronoiMetric  string
	RipleyDeviates bool
}

// StatisticResult is K and L for one model at one radius.
type StatisticResult struct {
	Model ColorModel
	T     float64
	K     float64
	L     float64
}

// Curve is a metric evaluated over its grid.
type Curve struct {
	X []float64
	Y []float64
}

// Sum returns the sum of the curve values.
func (c Curve) Sum() float64 {
	return floats.Sum(c.Y)
}

// ScoreStatus describes whether a model score could be computed.
type ScoreStatus string

const (
	StatusOK           ScoreStatus = "ok"
	StatusInsufficient ScoreStatus = "insufficient data"
	StatusUndefined    ScoreStatus = "undefined ratio"
)

// ModelScore is the comparison of mistakes against all points for one model.
type ModelScore struct {
	Model         ColorModel
	MistakesCount int
	AllCount      int
	Mistakes      Curve
	All           Curve
	Score         float64
	Status        ScoreStatus
}
