// Package geom provides the basic geometric types shared by the curve
// pipeline: points, point clouds and ordered polylines, all in pixel
// coordinates.
package geom

import "math"

// Point2D represents a 2D point with floating-point pixel coordinates.
// Values are immutable; operations return new points.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt creates a new Point2D.
func Pt(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceSquared returns the squared Euclidean distance to another point.
// Used for neighbour comparisons where the square root is not needed.
func (p Point2D) DistanceSquared(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// Sub returns the vector from other to p.
func (p Point2D) Sub(other Point2D) Point2D {
	return Point2D{X: p.X - other.X, Y: p.Y - other.Y}
}

// Dot returns the dot product of p and other treated as vectors.
func (p Point2D) Dot(other Point2D) float64 {
	return p.X*other.X + p.Y*other.Y
}

// Norm returns the vector length of p treated as a vector.
func (p Point2D) Norm() float64 {
	return math.Hypot(p.X, p.Y)
}

// TurningAngle returns the absolute change of direction, in radians, at
// point b when travelling a → b → c. Straight continuation yields 0;
// a full reversal yields π. Degenerate (zero-length) legs yield 0.
func TurningAngle(a, b, c Point2D) float64 {
	u := b.Sub(a)
	v := c.Sub(b)
	nu := u.Norm()
	nv := v.Norm()
	if nu == 0 || nv == 0 {
		return 0
	}
	cos := u.Dot(v) / (nu * nv)
	// Clamp against rounding before acos.
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos)
}
