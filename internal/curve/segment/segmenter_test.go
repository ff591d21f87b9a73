package segment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curvelab/arclength/internal/curve"
	"github.com/curvelab/arclength/internal/geom"
)

func line(n int) geom.Polyline {
	poly := make(geom.Polyline, n)
	for i := range poly {
		poly[i] = geom.Pt(float64(i), 0)
	}
	return poly
}

func TestSplitShortPolylineIsOneSegment(t *testing.T) {
	segs, err := Split(line(10), curve.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Len(t, segs[0].Points, 10)
	assert.Equal(t, curve.ParamX, segs[0].Param)
}

func TestSplitByCount(t *testing.T) {
	opts := curve.DefaultOptions()
	opts.MaxSegmentLength = 10

	segs, err := Split(line(25), curve.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, segs, 1)

	segs, err = Split(line(25), opts)
	require.NoError(t, err)
	require.True(t, len(segs) >= 3)
	for _, s := range segs {
		assert.LessOrEqual(t, len(s.Points), opts.MaxSegmentLength)
	}
}

func TestSplitSharesBoundaryPoints(t *testing.T) {
	opts := curve.DefaultOptions()
	opts.MaxSegmentLength = 8

	segs, err := Split(line(30), opts)
	require.NoError(t, err)
	require.True(t, len(segs) > 1)

	for i := 1; i < len(segs); i++ {
		prev := segs[i-1].Points
		assert.Equal(t, prev[len(prev)-1], segs[i].Points[0],
			"segment %d must start at segment %d's last point", i, i-1)
	}

	// Interior points are covered exactly once; boundaries exactly twice.
	counts := make(map[geom.Point2D]int)
	for _, s := range segs {
		for _, p := range s.Points {
			counts[p]++
		}
	}
	doubles := 0
	for _, n := range counts {
		if n == 2 {
			doubles++
		} else {
			assert.Equal(t, 1, n)
		}
	}
	assert.Equal(t, len(segs)-1, doubles)
}

func TestSplitAtSharpCorner(t *testing.T) {
	// An L-shape: right angle at (10,0) exceeds the curvature threshold.
	var poly geom.Polyline
	for i := 0; i <= 10; i++ {
		poly = append(poly, geom.Pt(float64(i), 0))
	}
	for i := 1; i <= 10; i++ {
		poly = append(poly, geom.Pt(10, float64(i)))
	}

	segs, err := Split(poly, curve.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, geom.Pt(10, 0), segs[0].Points[len(segs[0].Points)-1])
	assert.Equal(t, geom.Pt(10, 0), segs[1].Points[0])

	// The vertical arm is classified for fitting with Y independent.
	assert.Equal(t, curve.ParamX, segs[0].Param)
	assert.Equal(t, curve.ParamY, segs[1].Param)
}

func TestSplitSteepRun(t *testing.T) {
	// A gentle run followed by a near-vertical run, with no sharp corner:
	// the steepness transition alone must force a cut.
	var poly geom.Polyline
	for i := 0; i <= 20; i++ {
		poly = append(poly, geom.Pt(float64(i), float64(i)*0.1))
	}
	last := poly[len(poly)-1]
	for i := 1; i <= 20; i++ {
		poly = append(poly, geom.Pt(last.X+float64(i)*0.05, last.Y+float64(i)))
	}

	opts := curve.DefaultOptions()
	opts.CurvatureThreshold = math.Pi // disable curvature cuts
	segs, err := Split(poly, opts)
	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, curve.ParamX, segs[0].Param)
	assert.Equal(t, curve.ParamY, segs[1].Param)
}

func TestSplitInsufficientPoints(t *testing.T) {
	_, err := Split(geom.Polyline{geom.Pt(1, 1)}, curve.DefaultOptions())
	var insuf *curve.InsufficientPointsError
	require.ErrorAs(t, err, &insuf)

	// Coincident points collapse before the length check.
	_, err = Split(geom.Polyline{geom.Pt(1, 1), geom.Pt(1, 1)}, curve.DefaultOptions())
	require.ErrorAs(t, err, &insuf)
}

func TestSplitArc(t *testing.T) {
	opts := curve.DefaultOptions()
	opts.MaxSegmentLength = 10

	segs, err := SplitArc(line(25), opts)
	require.NoError(t, err)
	require.Len(t, segs, 3)
	for i, s := range segs {
		assert.Equal(t, curve.ParamArc, s.Param, "segment %d", i)
		assert.LessOrEqual(t, len(s.Points), opts.MaxSegmentLength)
	}
	// Boundary sharing holds for arclength segmentation too.
	assert.Equal(t, segs[0].Points[len(segs[0].Points)-1], segs[1].Points[0])
}

func TestSplitArcIgnoresCurvature(t *testing.T) {
	// A zig-zag violates every turning-angle rule, but arclength
	// segmentation only cuts by count.
	var poly geom.Polyline
	for i := 0; i < 20; i++ {
		poly = append(poly, geom.Pt(float64(i), float64(i%2)))
	}
	segs, err := SplitArc(poly, curve.DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, segs, 1)
}
