package order

import (
	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/curvelab/arclength/internal/geom"
)

// kdPoint wraps a cloud point with its index so neighbour queries can be
// mapped back to adjacency lists.
type kdPoint struct {
	geom.Point2D
	idx int
}

func (p kdPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(kdPoint)
	switch d {
	case 0:
		return p.X - q.X
	default:
		return p.Y - q.Y
	}
}

func (p kdPoint) Dims() int { return 2 }

// Distance returns the squared Euclidean distance, the metric the kd-tree
// keepers operate in.
func (p kdPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(kdPoint)
	return p.DistanceSquared(q.Point2D)
}

type kdPoints []kdPoint

func (p kdPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p kdPoints) Len() int                              { return len(p) }
func (p kdPoints) Pivot(d kdtree.Dim) int                { return kdPlane{Dim: d, kdPoints: p}.Pivot() }
func (p kdPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

type kdPlane struct {
	kdtree.Dim
	kdPoints
}

func (p kdPlane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.kdPoints[i].X < p.kdPoints[j].X
	default:
		return p.kdPoints[i].Y < p.kdPoints[j].Y
	}
}

func (p kdPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }

func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.kdPoints = p.kdPoints[start:end]
	return p
}

func (p kdPlane) Swap(i, j int) {
	p.kdPoints[i], p.kdPoints[j] = p.kdPoints[j], p.kdPoints[i]
}

// neighbours returns, for every point, the indices of all other points
// within maxGap, nearest first. Ties are broken by index so adjacency is
// deterministic across runs.
func neighbours(pts []geom.Point2D, maxGap float64) [][]int {
	data := make(kdPoints, len(pts))
	for i, p := range pts {
		data[i] = kdPoint{Point2D: p, idx: i}
	}
	tree := kdtree.New(data, false)

	gapSq := maxGap * maxGap
	adj := make([][]int, len(pts))
	for i, p := range pts {
		keep := kdtree.NewDistKeeper(gapSq)
		tree.NearestSet(keep, kdPoint{Point2D: p, idx: i})

		hits := make([]neighbourHit, 0, len(keep.Heap))
		for _, c := range keep.Heap {
			if c.Comparable == nil {
				continue
			}
			n := c.Comparable.(kdPoint)
			if n.idx == i {
				continue
			}
			hits = append(hits, neighbourHit{idx: n.idx, dist: c.Dist})
		}
		sortHits(hits)
		ids := make([]int, len(hits))
		for k, h := range hits {
			ids[k] = h.idx
		}
		adj[i] = ids
	}
	return adj
}

type neighbourHit struct {
	idx  int
	dist float64
}

func sortHits(hits []neighbourHit) {
	// Insertion sort: neighbour lists under a sane maxGap are short.
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0; j-- {
			a, b := hits[j-1], hits[j]
			if b.dist < a.dist || (b.dist == a.dist && b.idx < a.idx) {
				hits[j-1], hits[j] = b, a
			} else {
				break
			}
		}
	}
}
