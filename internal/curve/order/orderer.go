// Package order turns an unordered point cloud into ordered polylines.
//
// A proximity graph links points closer than the configured maximum gap
// (kd-tree range queries), the graph is partitioned into connected
// components, and each component is traced by a greedy nearest-successor
// walk starting from its leftmost point. Equidistant successors are
// disambiguated by the smallest turning angle to avoid zig-zag artifacts.
package order

import (
	"sort"

	"github.com/curvelab/arclength/internal/curve"
	"github.com/curvelab/arclength/internal/geom"
)

// Result is the outcome of ordering a cloud. Primary is the longest trace
// found; Candidates are traces of the remaining components, longest first.
type Result struct {
	Primary    geom.Polyline
	Candidates []geom.Polyline
	// Components is the number of connected components in the proximity
	// graph; 1 for a fully connected cloud.
	Components int
	// Coverage is the fraction of (deduplicated) input points visited by
	// the primary trace.
	Coverage float64
}

// Order orders cloud into polylines under opts.MaxGap.
//
// It fails with *curve.InsufficientPointsError when fewer than two
// distinct points are present. When no component covers
// opts.MinComponentFraction of the points it returns a populated Result
// together with a *curve.DisconnectedCurveError; callers may proceed
// with the primary trace and a quality warning.
func Order(cloud geom.PointCloud, opts curve.Options) (Result, error) {
	pts := cloud.Dedupe()
	if len(pts) < 2 {
		return Result{}, &curve.InsufficientPointsError{Got: len(pts)}
	}

	adj := neighbours(pts, opts.MaxGap)
	comps := components(adj)

	traces := make([]geom.Polyline, 0, len(comps))
	for _, comp := range comps {
		traces = append(traces, walkComponent(pts, adj, comp)...)
	}
	// Longest trace first; ties by point count then by first point for
	// deterministic output.
	sort.SliceStable(traces, func(i, j int) bool {
		li, lj := traces[i].ChordLength(), traces[j].ChordLength()
		if li != lj {
			return li > lj
		}
		return len(traces[i]) > len(traces[j])
	})

	res := Result{
		Primary:    traces[0],
		Candidates: traces[1:],
		Components: len(comps),
		Coverage:   float64(len(traces[0])) / float64(len(pts)),
	}
	if res.Coverage < opts.MinComponentFraction {
		return res, &curve.DisconnectedCurveError{
			Components: len(comps),
			Coverage:   res.Coverage,
		}
	}
	return res, nil
}

// components partitions the proximity graph into connected components by
// breadth-first search. Component order and membership order follow point
// indices, keeping the partition deterministic.
func components(adj [][]int) [][]int {
	visited := make([]bool, len(adj))
	var comps [][]int
	for start := range adj {
		if visited[start] {
			continue
		}
		visited[start] = true
		comp := []int{start}
		queue := []int{start}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, n := range adj[cur] {
				if visited[n] {
					continue
				}
				visited[n] = true
				comp = append(comp, n)
				queue = append(queue, n)
			}
		}
		comps = append(comps, comp)
	}
	return comps
}

// walkComponent traces one connected component into one or more
// polylines. The main walk starts at the component's leftmost point and
// grows greedily from both ends, so an extremal point in the middle of
// the curve (a C-shape opening rightward) still yields a single trace.
// Points stranded by branches are traced again as secondary polylines.
func walkComponent(pts []geom.Point2D, adj [][]int, comp []int) []geom.Polyline {
	visited := make(map[int]bool, len(comp))
	var out []geom.Polyline

	remaining := func() (int, bool) {
		best := -1
		for _, i := range comp {
			if visited[i] {
				continue
			}
			if best == -1 {
				best = i
				continue
			}
			p, q := pts[i], pts[best]
			if p.X < q.X || (p.X == q.X && p.Y < q.Y) {
				best = i
			}
		}
		return best, best != -1
	}

	for {
		start, ok := remaining()
		if !ok {
			return out
		}
		trace := walkFrom(pts, adj, visited, start)
		out = append(out, trace)
	}
}

// walkFrom runs the greedy nearest-successor walk from start, extending
// forward until stuck, then reversing to extend from the other end. The
// final reversal restores the first extension's orientation, so a walk
// from an extremal point begins at that point.
func walkFrom(pts []geom.Point2D, adj [][]int, visited map[int]bool, start int) geom.Polyline {
	path := []int{start}
	visited[start] = true

	extend := func() {
		for {
			tail := path[len(path)-1]
			var prev *geom.Point2D
			if len(path) > 1 {
				p := pts[path[len(path)-2]]
				prev = &p
			}
			next, ok := pickSuccessor(pts, adj[tail], visited, pts[tail], prev)
			if !ok {
				return
			}
			visited[next] = true
			path = append(path, next)
		}
	}

	extend()
	reverseInts(path)
	extend()
	reverseInts(path)

	poly := make(geom.Polyline, len(path))
	for i, idx := range path {
		poly[i] = pts[idx]
	}
	return poly
}

// pickSuccessor selects the nearest unvisited neighbour of cur. Among
// neighbours whose distance ties with the nearest (within a relative
// epsilon), the one with the smallest turning angle relative to the
// incoming direction wins.
func pickSuccessor(pts []geom.Point2D, neigh []int, visited map[int]bool, cur geom.Point2D, prev *geom.Point2D) (int, bool) {
	const tieEps = 1e-9

	best := -1
	bestDist := 0.0
	bestAngle := 0.0
	for _, n := range neigh {
		if visited[n] {
			continue
		}
		d := cur.Distance(pts[n])
		angle := 0.0
		if prev != nil {
			angle = geom.TurningAngle(*prev, cur, pts[n])
		}
		if best == -1 {
			best, bestDist, bestAngle = n, d, angle
			continue
		}
		switch {
		case d < bestDist*(1-tieEps):
			best, bestDist, bestAngle = n, d, angle
		case d <= bestDist*(1+tieEps) && angle < bestAngle:
			best, bestDist, bestAngle = n, d, angle
		}
	}
	return best, best != -1
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
