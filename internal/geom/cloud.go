package geom

// PointCloud is an unordered set of candidate curve points produced by an
// upstream edge-extraction collaborator. It may contain duplicates and
// outliers; the ordering stage is responsible for making sense of it.
type PointCloud []Point2D

// Dedupe returns a copy of the cloud with exact duplicate points removed.
// Order of first occurrence is preserved.
func (c PointCloud) Dedupe() PointCloud {
	seen := make(map[Point2D]struct{}, len(c))
	out := make(PointCloud, 0, len(c))
	for _, p := range c {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Bounds returns the axis-aligned bounding box of the cloud as
// (minX, minY, maxX, maxY). An empty cloud returns all zeros.
func (c PointCloud) Bounds() (minX, minY, maxX, maxY float64) {
	if len(c) == 0 {
		return 0, 0, 0, 0
	}
	minX, maxX = c[0].X, c[0].X
	minY, maxY = c[0].Y, c[0].Y
	for _, p := range c[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return minX, minY, maxX, maxY
}

// Leftmost returns the index of the leftmost point, breaking ties by the
// lower Y coordinate. Returns -1 for an empty cloud.
func (c PointCloud) Leftmost() int {
	if len(c) == 0 {
		return -1
	}
	best := 0
	for i, p := range c[1:] {
		q := c[best]
		if p.X < q.X || (p.X == q.X && p.Y < q.Y) {
			best = i + 1
		}
	}
	return best
}
