// Command gen-cloud generates synthetic noisy point clouds for testing
// the curve-length pipeline: a known shape with a known true length,
// jittered, shuffled and optionally salted with outliers.
package main

import (
	"flag"
	"log"
	"math"
	"math/rand"

	"github.com/curvelab/arclength/internal/geom"
)

func main() {
	output := flag.String("o", "cloud.csv", "output CSV path")
	shape := flag.String("shape", "arc", "shape to generate: line, arc or sine")
	n := flag.Int("n", 200, "number of points on the curve")
	noise := flag.Float64("noise", 0.5, "gaussian jitter stddev in pixels")
	outliers := flag.Int("outliers", 0, "number of far-off outlier points to add")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	var pts []geom.Point2D
	var trueLen float64
	switch *shape {
	case "line":
		pts, trueLen = genLine(*n)
	case "arc":
		pts, trueLen = genArc(*n)
	case "sine":
		pts, trueLen = genSine(*n)
	default:
		log.Fatalf("unknown shape %q (valid: line, arc, sine)", *shape)
	}

	for i := range pts {
		pts[i].X += rng.NormFloat64() * *noise
		pts[i].Y += rng.NormFloat64() * *noise
	}

	minX, minY, maxX, maxY := geom.PointCloud(pts).Bounds()
	for i := 0; i < *outliers; i++ {
		pts = append(pts, geom.Pt(
			minX+rng.Float64()*(maxX-minX),
			minY+rng.Float64()*(maxY-minY)+100,
		))
	}

	rng.Shuffle(len(pts), func(i, j int) { pts[i], pts[j] = pts[j], pts[i] })

	if err := geom.WritePointsFile(*output, pts); err != nil {
		log.Fatalf("failed to write %s: %v", *output, err)
	}
	log.Printf("wrote %d points to %s (true length %.3f px)", len(pts), *output, trueLen)
}

// genLine produces a straight segment from (0,0) to (200,100).
func genLine(n int) ([]geom.Point2D, float64) {
	pts := make([]geom.Point2D, n)
	for i := range pts {
		t := float64(i) / float64(n-1)
		pts[i] = geom.Pt(200*t, 100*t)
	}
	return pts, math.Hypot(200, 100)
}

// genArc produces a quarter circle of radius 100 centred at the origin.
func genArc(n int) ([]geom.Point2D, float64) {
	const r = 100.0
	pts := make([]geom.Point2D, n)
	for i := range pts {
		theta := (math.Pi / 2) * float64(i) / float64(n-1)
		pts[i] = geom.Pt(r*math.Cos(theta), r*math.Sin(theta))
	}
	return pts, math.Pi * r / 2
}

// genSine produces one period of a sine wave, with the true length
// computed by fine chord summation.
func genSine(n int) ([]geom.Point2D, float64) {
	const (
		width = 300.0
		amp   = 50.0
	)
	f := func(x float64) float64 { return amp * math.Sin(2*math.Pi*x/width) }

	pts := make([]geom.Point2D, n)
	for i := range pts {
		x := width * float64(i) / float64(n-1)
		pts[i] = geom.Pt(x, f(x))
	}

	var trueLen float64
	const steps = 100000
	prev := geom.Pt(0, f(0))
	for i := 1; i <= steps; i++ {
		x := width * float64(i) / steps
		cur := geom.Pt(x, f(x))
		trueLen += prev.Distance(cur)
		prev = cur
	}
	return pts, trueLen
}
