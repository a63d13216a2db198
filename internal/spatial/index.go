// Package spatial answers range and nearest-neighbour queries over colour points.
package spatial

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/verte-zerg/huepattern/internal/model"
)

// pivotSamples bounds the number of elements sampled when choosing a split.
const pivotSamples = 100

// points adapts a PointSet to kdtree.Interface.
type points model.PointSet

func (p points) Index(i int) kdtree.Comparable         { return p[i] }
func (p points) Len() int                              { return len(p) }
func (p points) Slice(start, end int) kdtree.Interface { return p[start:end] }

func (p points) Pivot(d kdtree.Dim) int {
	pl := plane{points: p, Dim: d}
	return kdtree.Partition(pl, kdtree.MedianOfRandoms(pl, pivotSamples))
}

// plane sorts points along one dimension while the tree is built.
type plane struct {
	points
	kdtree.Dim
}

func (p plane) Less(i, j int) bool {
	return p.points[i].Coord(int(p.Dim)) < p.points[j].Coord(int(p.Dim))
}

func (p plane) Swap(i, j int) { p.points[i], p.points[j] = p.points[j], p.points[i] }

func (p plane) Slice(start, end int) kdtree.SortSlicer {
	return plane{points: p.points[start:end], Dim: p.Dim}
}

// Index is an immutable k-d tree over a point set. It is safe for concurrent
// queries once built.
type Index struct {
	tree *kdtree.Tree
	n    int
}

// New builds an index over a copy of ps; ps itself is never reordered.
func New(ps model.PointSet) *Index {
	if len(ps) == 0 {
		return &Index{}
	}
	return &Index{
		tree: kdtree.New(points(ps.Clone()), false),
		n:    len(ps),
	}
}

// Len returns the number of indexed points.
func (ix *Index) Len() int { return ix.n }

// CountWithin returns the number of indexed points q with |p-q| <= r,
// including p itself when it is a member.
func (ix *Index) CountWithin(p model.Point, r float64) int {
	if ix.tree == nil || r < 0 {
		return 0
	}
	keep := kdtree.NewDistKeeper(r * r)
	ix.tree.NearestSet(keep, p)
	return keep.Len()
}

// Nearest returns the indexed point closest to q and its Euclidean distance.
// An empty index returns +Inf.
func (ix *Index) Nearest(q model.Point) (model.Point, float64) {
	if ix.tree == nil {
		return model.Point{}, math.Inf(1)
	}
	c, d2 := ix.tree.Nearest(q)
	if c == nil {
		return model.Point{}, math.Inf(1)
	}
	return c.(model.Point), math.Sqrt(d2)
}

// NearestOther returns the distance from member p to its nearest other
// member. Coincident points are at distance 0. With fewer than two points the
// result is +Inf.
func (ix *Index) NearestOther(p model.Point) float64 {
	if ix.tree == nil || ix.n < 2 {
		return math.Inf(1)
	}
	keep := kdtree.NewNKeeper(2)
	ix.tree.NearestSet(keep, p)
	if keep.Len() < 2 {
		return math.Inf(1)
	}
	return math.Sqrt(keep.Heap[1].Dist)
}

// NearestNeighborDistances returns, for every point of ps in order, the
// distance to its nearest other point.
func NearestNeighborDistances(ps model.PointSet) []float64 {
	ix := New(ps)
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = ix.NearestOther(p)
	}
	return out
}
