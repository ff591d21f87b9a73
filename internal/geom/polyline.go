package geom

// Polyline is an ordered sequence of points approximating a curve's path.
// Invariants: no two adjacent points are identical, and consecutive points
// are within the maximum gap distance used to build the polyline.
type Polyline []Point2D

// ChordLength returns the total length of the polyline measured along its
// straight chords. This is the model-free lower bound used as a sanity
// reference for the fitted arc length.
func (pl Polyline) ChordLength() float64 {
	var sum float64
	for i := 1; i < len(pl); i++ {
		sum += pl[i].Distance(pl[i-1])
	}
	return sum
}

// MaxGap returns the largest distance between consecutive points, or 0
// for polylines with fewer than two points.
func (pl Polyline) MaxGap() float64 {
	var max float64
	for i := 1; i < len(pl); i++ {
		if d := pl[i].Distance(pl[i-1]); d > max {
			max = d
		}
	}
	return max
}

// CompactAdjacent returns a copy with identical adjacent points collapsed
// to a single occurrence, restoring the adjacency invariant after noisy
// extraction stages.
func (pl Polyline) CompactAdjacent() Polyline {
	if len(pl) == 0 {
		return Polyline{}
	}
	out := make(Polyline, 0, len(pl))
	out = append(out, pl[0])
	for _, p := range pl[1:] {
		if p == out[len(out)-1] {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ArcLengthParams returns the cumulative chord-length parameter for each
// point, starting at 0. Used when a segment is parametrized by arclength
// instead of by X.
func (pl Polyline) ArcLengthParams() []float64 {
	ts := make([]float64, len(pl))
	for i := 1; i < len(pl); i++ {
		ts[i] = ts[i-1] + pl[i].Distance(pl[i-1])
	}
	return ts
}
