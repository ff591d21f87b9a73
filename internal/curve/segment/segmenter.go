// Package segment splits an ordered polyline into sub-ranges suitable
// for stable local fitting.
//
// Split points are introduced where a segment would exceed the maximum
// point count, where the polygon turning angle exceeds the curvature
// threshold, and where the local tangent crosses the near-vertical limit
// (steep runs are tagged for fitting with Y as the independent variable).
// Adjacent segments always share their boundary point.
package segment

import (
	"math"

	"github.com/curvelab/arclength/internal/curve"
	"github.com/curvelab/arclength/internal/geom"
)

// Split partitions poly into ordered segments under opts. It fails with
// *curve.InsufficientPointsError when poly has fewer than two points.
func Split(poly geom.Polyline, opts curve.Options) ([]curve.Segment, error) {
	poly = poly.CompactAdjacent()
	if len(poly) < 2 {
		return nil, &curve.InsufficientPointsError{Got: len(poly)}
	}

	var cuts []int
	count := 1 // points in the segment being built, including its start
	for i := 1; i < len(poly)-1; i++ {
		count++
		switch {
		case count >= opts.MaxSegmentLength:
			cuts = append(cuts, i)
			count = 1
		case geom.TurningAngle(poly[i-1], poly[i], poly[i+1]) > opts.CurvatureThreshold:
			cuts = append(cuts, i)
			count = 1
		case steepnessChanges(poly, i, opts.VerticalSlopeLimit):
			cuts = append(cuts, i)
			count = 1
		}
	}

	segs := make([]curve.Segment, 0, len(cuts)+1)
	start := 0
	for _, cut := range append(cuts, len(poly)-1) {
		if cut == start {
			continue
		}
		// Boundary points are shared: the slice is [start, cut] inclusive
		// and the next segment begins at cut.
		pts := poly[start : cut+1]
		segs = append(segs, curve.Segment{
			Points: pts,
			Param:  classify(pts, opts.VerticalSlopeLimit),
		})
		start = cut
	}
	return segs, nil
}

// SplitArc partitions poly into segments parametrized by cumulative chord
// length. It is the fallback used after a DegenerateFitError, where
// neither coordinate is usable as a strictly increasing abscissa. Only
// the point-count rule applies: arclength is monotone by construction,
// so curvature and steepness no longer force cuts.
func SplitArc(poly geom.Polyline, opts curve.Options) ([]curve.Segment, error) {
	poly = poly.CompactAdjacent()
	if len(poly) < 2 {
		return nil, &curve.InsufficientPointsError{Got: len(poly)}
	}

	segs := make([]curve.Segment, 0, len(poly)/opts.MaxSegmentLength+1)
	start := 0
	for start < len(poly)-1 {
		end := start + opts.MaxSegmentLength - 1
		if end > len(poly)-1 {
			end = len(poly) - 1
		}
		segs = append(segs, curve.Segment{
			Points: poly[start : end+1],
			Param:  curve.ParamArc,
		})
		start = end
	}
	return segs, nil
}

// steepnessChanges reports whether the chord entering point i and the
// chord leaving it fall on opposite sides of the vertical slope limit.
// Such transitions separate x-monotone runs from near-vertical runs.
func steepnessChanges(poly geom.Polyline, i int, limit float64) bool {
	return chordSteep(poly[i-1], poly[i], limit) != chordSteep(poly[i], poly[i+1], limit)
}

// chordSteep reports whether the chord a→b is steeper than limit.
func chordSteep(a, b geom.Point2D, limit float64) bool {
	dx := math.Abs(b.X - a.X)
	dy := math.Abs(b.Y - a.Y)
	if dx == 0 {
		return dy > 0
	}
	return dy/dx > limit
}

// classify picks the independent variable for a segment. A majority of
// steep chords selects Y; otherwise X. The fitter promotes segments to
// arclength parametrization if the chosen abscissa turns out not to be
// strictly increasing.
func classify(pts geom.Polyline, limit float64) curve.Parametrization {
	steep := 0
	for i := 1; i < len(pts); i++ {
		if chordSteep(pts[i-1], pts[i], limit) {
			steep++
		}
	}
	if steep*2 > len(pts)-1 {
		return curve.ParamY
	}
	return curve.ParamX
}
