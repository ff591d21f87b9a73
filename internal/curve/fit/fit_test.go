package fit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curvelab/arclength/internal/curve"
	"github.com/curvelab/arclength/internal/geom"
)

func TestFitPolynomialRecoversLine(t *testing.T) {
	abs := []float64{0, 1, 2, 3, 4}
	ord := []float64{1, 3, 5, 7, 9} // y = 2x + 1

	m, score, err := fitPolynomial(abs, ord, 3)
	require.NoError(t, err)
	assert.InDelta(t, 0, score, 1e-18)

	for _, x := range []float64{0, 0.5, 2.5, 4} {
		assert.InDelta(t, 2*x+1, m.Eval(x), 1e-9, "x=%g", x)
		assert.InDelta(t, 2, m.Deriv(x), 1e-9, "x=%g", x)
	}
}

func TestFitPolynomialRecoversQuadratic(t *testing.T) {
	f := func(x float64) float64 { return 0.5*x*x - 3*x + 2 }
	var abs, ord []float64
	for i := 0; i <= 10; i++ {
		x := float64(i)
		abs = append(abs, x)
		ord = append(ord, f(x))
	}

	m, score, err := fitPolynomial(abs, ord, 2)
	require.NoError(t, err)
	assert.InDelta(t, 0, score, 1e-15)
	assert.InDelta(t, f(3.7), m.Eval(3.7), 1e-9)
	assert.InDelta(t, 3.7-3, m.Deriv(3.7), 1e-9)
}

func TestFitPolynomialDegreeCap(t *testing.T) {
	// Two points cannot carry a cubic; the fit degrades to a line through
	// both points.
	m, score, err := fitPolynomial([]float64{0, 2}, []float64{1, 5}, 3)
	require.NoError(t, err)
	assert.InDelta(t, 0, score, 1e-18)
	assert.InDelta(t, 3, m.Eval(1), 1e-12)
}

func TestFitPolynomialWellConditionedFarFromOrigin(t *testing.T) {
	// Centering the basis keeps large pixel abscissae harmless.
	f := func(x float64) float64 { return 0.001*x*x - x }
	var abs, ord []float64
	for i := 0; i <= 20; i++ {
		x := 5000 + float64(i)
		abs = append(abs, x)
		ord = append(ord, f(x))
	}
	m, _, err := fitPolynomial(abs, ord, 2)
	require.NoError(t, err)
	assert.InDelta(t, f(5010.5), m.Eval(5010.5), 1e-6)
}

func TestFitSplineInterpolatesWithoutSmoothing(t *testing.T) {
	abs := []float64{0, 1, 2, 3, 4, 5}
	ord := []float64{0, 1, 0, -1, 0, 1}

	m, score, err := fitSpline(abs, ord, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0, score, 1e-18)
	for i, x := range abs {
		assert.InDelta(t, ord[i], m.Eval(x), 1e-12, "knot %d", i)
	}
}

func TestFitSplineSmoothingReducesOscillation(t *testing.T) {
	// Alternating ordinates; smoothing pulls interior values toward their
	// neighbour mean, so the smoothed spline scores worse against the raw
	// ordinates than the interpolating one.
	abs := make([]float64, 11)
	ord := make([]float64, 11)
	for i := range abs {
		abs[i] = float64(i)
		ord[i] = float64(i%2)*2 - 1
	}

	_, interpScore, err := fitSpline(abs, ord, 0)
	require.NoError(t, err)
	_, smoothScore, err := fitSpline(abs, ord, 0.5)
	require.NoError(t, err)

	assert.InDelta(t, 0, interpScore, 1e-18)
	assert.Greater(t, smoothScore, 0.1)
}

func TestFitSplineFewPointsFallsBackToLine(t *testing.T) {
	m, _, err := fitSpline([]float64{0, 1, 2}, []float64{0, 2, 4}, 0)
	require.NoError(t, err)
	_, ok := m.(curve.Polynomial)
	assert.True(t, ok, "three points should fit a line, got %T", m)
	assert.InDelta(t, 3, m.Eval(1.5), 1e-9)
}

func TestFitSegmentParamX(t *testing.T) {
	var pts geom.Polyline
	for i := 0; i <= 10; i++ {
		x := float64(i)
		pts = append(pts, geom.Pt(x, 0.5*x+2))
	}

	fc, err := Fit(curve.Segment{Points: pts, Param: curve.ParamX}, curve.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, curve.ParamX, fc.Param)
	assert.Nil(t, fc.G)
	a, b := fc.Domain()
	assert.Equal(t, 0.0, a)
	assert.Equal(t, 10.0, b)
	assert.InDelta(t, 0.5*4+2, fc.F.Eval(4), 1e-9)
}

func TestFitSegmentParamXReversedWalk(t *testing.T) {
	// A walk that ran right to left still fits: the series is reversed to
	// ascend before the monotonicity check.
	var pts geom.Polyline
	for i := 10; i >= 0; i-- {
		x := float64(i)
		pts = append(pts, geom.Pt(x, 3*x))
	}
	fc, err := Fit(curve.Segment{Points: pts, Param: curve.ParamX}, curve.DefaultOptions())
	require.NoError(t, err)
	assert.InDelta(t, 15, fc.F.Eval(5), 1e-9)
}

func TestFitSegmentParamY(t *testing.T) {
	// Near-vertical run: x = 0.1y.
	var pts geom.Polyline
	for i := 0; i <= 10; i++ {
		y := float64(i)
		pts = append(pts, geom.Pt(0.1*y, y))
	}
	fc, err := Fit(curve.Segment{Points: pts, Param: curve.ParamY}, curve.DefaultOptions())
	require.NoError(t, err)
	assert.InDelta(t, 0.5, fc.F.Eval(5), 1e-9)
	assert.InDelta(t, 0.5, fc.Point(5).X, 1e-9)
}

func TestFitDegenerateAbscissa(t *testing.T) {
	// The polyline doubles back in X, so y=f(x) is impossible.
	pts := geom.Polyline{geom.Pt(0, 0), geom.Pt(2, 1), geom.Pt(1, 2), geom.Pt(3, 3)}
	_, err := Fit(curve.Segment{Points: pts, Param: curve.ParamX}, curve.DefaultOptions())

	var degen *curve.DegenerateFitError
	require.ErrorAs(t, err, &degen)
}

func TestFitSegmentParamArc(t *testing.T) {
	// A half circle is degenerate in both graph forms but fits cleanly
	// under arclength parametrization.
	var pts geom.Polyline
	for i := 0; i <= 60; i++ {
		theta := math.Pi * float64(i) / 60
		pts = append(pts, geom.Pt(30*math.Cos(theta), 30*math.Sin(theta)))
	}

	opts := curve.DefaultOptions()
	opts.PolynomialDegree = 5
	fc, err := Fit(curve.Segment{Points: pts, Param: curve.ParamArc}, opts)
	require.NoError(t, err)
	require.NotNil(t, fc.G)

	a, b := fc.Domain()
	assert.Equal(t, 0.0, a)
	// The domain spans the cumulative chord length, slightly under the
	// true arc length of pi*30.
	assert.InDelta(t, math.Pi*30, b, 0.5)

	// The fitted curve stays near the circle.
	mid := fc.Point((a + b) / 2)
	assert.InDelta(t, 30, mid.Norm(), 0.5)
}

func TestFitAllAbortsOnDegenerate(t *testing.T) {
	good := curve.Segment{
		Points: geom.Polyline{geom.Pt(0, 0), geom.Pt(1, 1), geom.Pt(2, 2)},
		Param:  curve.ParamX,
	}
	bad := curve.Segment{
		Points: geom.Polyline{geom.Pt(0, 0), geom.Pt(2, 1), geom.Pt(1, 2)},
		Param:  curve.ParamX,
	}

	_, err := FitAll([]curve.Segment{good, bad}, curve.DefaultOptions())
	var degen *curve.DegenerateFitError
	require.ErrorAs(t, err, &degen)
	assert.Contains(t, err.Error(), "segment 1")
}

func TestReconcileNoOpWhenContinuous(t *testing.T) {
	// Two collinear segments fit the same line; no correction needed.
	left := mustFit(t, geom.Polyline{geom.Pt(0, 0), geom.Pt(1, 1), geom.Pt(2, 2)})
	right := mustFit(t, geom.Polyline{geom.Pt(2, 2), geom.Pt(3, 3), geom.Pt(4, 4)})

	model := curve.PiecewiseModel{Curves: []curve.FittedCurve{left, right}}
	warnings := Reconcile(&model, curve.DefaultOptions())
	assert.Empty(t, warnings)
	assert.InDelta(t, 2, model.Curves[1].F.Eval(2), 1e-9)
}

func TestReconcileBlendsBoundaryMismatch(t *testing.T) {
	left := mustFit(t, geom.Polyline{geom.Pt(0, 0), geom.Pt(1, 0), geom.Pt(2, 0)})
	right := mustFit(t, geom.Polyline{geom.Pt(2, 0), geom.Pt(3, 5), geom.Pt(4, 10)})
	// Force a visible mismatch at x=2: replace the right fit with a line
	// offset by 5 at the boundary.
	right.F = curve.Polynomial{Coeffs: []float64{5, 5}, T0: 2, A: 2, B: 4}

	opts := curve.DefaultOptions()
	model := curve.PiecewiseModel{Curves: []curve.FittedCurve{left, right}}
	warnings := Reconcile(&model, opts)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "blended")

	// After blending, the right curve meets the left at the boundary...
	assert.InDelta(t, 0, model.Curves[1].F.Eval(2), 1e-9)
	// ...and is untouched at its far end.
	assert.InDelta(t, 15, model.Curves[1].F.Eval(4), 1e-9)
	// The left curve is never modified.
	assert.InDelta(t, 0, model.Curves[0].F.Eval(2), 1e-9)
}

func TestReconcileMixedParametrizationWarnsOnly(t *testing.T) {
	left := mustFit(t, geom.Polyline{geom.Pt(0, 0), geom.Pt(1, 0), geom.Pt(2, 0)})

	vertical := geom.Polyline{geom.Pt(2, 0), geom.Pt(2.1, 5), geom.Pt(2.2, 10)}
	fc, err := Fit(curve.Segment{Points: vertical, Param: curve.ParamY}, curve.DefaultOptions())
	require.NoError(t, err)
	// Shift the vertical fit so the boundary gap exceeds the tolerance.
	fc.F = curve.Polynomial{Coeffs: []float64{5}, A: 0, B: 10}

	model := curve.PiecewiseModel{Curves: []curve.FittedCurve{left, fc}}
	warnings := Reconcile(&model, curve.DefaultOptions())

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "parametrization change")
	// The mismatched model is left alone.
	assert.Equal(t, 5.0, model.Curves[1].F.Eval(0))
}

func mustFit(t *testing.T, pts geom.Polyline) curve.FittedCurve {
	t.Helper()
	fc, err := Fit(curve.Segment{Points: pts, Param: curve.ParamX}, curve.DefaultOptions())
	require.NoError(t, err)
	return fc
}
