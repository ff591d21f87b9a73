package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/curvelab/arclength/internal/geom"
)

func TestPolynomialEvalDeriv(t *testing.T) {
	// p(t) = 2 + 3(t-1) + (t-1)^2 centred at T0=1.
	p := Polynomial{Coeffs: []float64{2, 3, 1}, T0: 1, A: 0, B: 2}

	assert.InDelta(t, 2.0, p.Eval(1), 1e-12)
	assert.InDelta(t, 6.0, p.Eval(2), 1e-12)  // 2 + 3 + 1
	assert.InDelta(t, 0.0, p.Eval(0), 1e-12)  // 2 - 3 + 1
	assert.InDelta(t, 3.0, p.Deriv(1), 1e-12) // 3 + 2(t-1) at t=1
	assert.InDelta(t, 5.0, p.Deriv(2), 1e-12)

	a, b := p.Domain()
	assert.Equal(t, 0.0, a)
	assert.Equal(t, 2.0, b)
}

func TestPolynomialConstant(t *testing.T) {
	p := Polynomial{Coeffs: []float64{7}, A: 0, B: 1}
	assert.Equal(t, 7.0, p.Eval(0.5))
	assert.Equal(t, 0.0, p.Deriv(0.5))
}

func TestSplineEvalDeriv(t *testing.T) {
	// Two intervals of the cubic h^3 translated per knot so the pieces are
	// easy to verify by hand.
	s := Spline{
		Knots: []float64{0, 1, 2},
		Coeffs: [][4]float64{
			{0, 0, 0, 1}, // h^3 on [0,1]
			{1, 3, 3, 1}, // (1+h)^3 on [1,2]
		},
	}

	assert.InDelta(t, 0.125, s.Eval(0.5), 1e-12)
	assert.InDelta(t, 1.0, s.Eval(1), 1e-12)
	assert.InDelta(t, 8.0, s.Eval(2), 1e-12)
	assert.InDelta(t, 0.75, s.Deriv(0.5), 1e-12) // 3h^2
	assert.InDelta(t, 12.0, s.Deriv(2), 1e-12)   // 3(1+h)^2 at h=1

	// Out-of-domain parameters clamp to the end intervals.
	assert.InDelta(t, -0.001, s.Eval(-0.1), 1e-12)

	a, b := s.Domain()
	assert.Equal(t, 0.0, a)
	assert.Equal(t, 2.0, b)
}

func TestSplineIntervalLookup(t *testing.T) {
	s := Spline{
		Knots:  []float64{0, 1, 2, 3},
		Coeffs: [][4]float64{{0, 0, 0, 0}, {1, 0, 0, 0}, {2, 0, 0, 0}},
	}
	tests := []struct {
		t    float64
		want float64
	}{
		{-5, 0}, {0, 0}, {0.99, 0}, {1, 1}, {1.5, 1}, {2, 2}, {2.5, 2}, {3, 2}, {9, 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.Eval(tt.t), "t=%g", tt.t)
	}
}

func TestFittedCurvePoint(t *testing.T) {
	line := Polynomial{Coeffs: []float64{1, 2}, A: 0, B: 10}

	fx := FittedCurve{Param: ParamX, F: line}
	assert.Equal(t, geom.Pt(3, 7), fx.Point(3))

	fy := FittedCurve{Param: ParamY, F: line}
	assert.Equal(t, geom.Pt(7, 3), fy.Point(3))

	fa := FittedCurve{Param: ParamArc, F: line, G: Polynomial{Coeffs: []float64{0, 1}, A: 0, B: 10}}
	assert.Equal(t, geom.Pt(7, 3), fa.Point(3))
}

func TestQualityWorse(t *testing.T) {
	assert.Equal(t, QualityDegraded, QualityOK.Worse(QualityDegraded))
	assert.Equal(t, QualityDegraded, QualityDegraded.Worse(QualityOK))
	assert.Equal(t, QualityFailed, QualityDegraded.Worse(QualityFailed))
	assert.Equal(t, QualityOK, QualityOK.Worse(QualityOK))
}

func TestErrorMessages(t *testing.T) {
	assert.Contains(t, (&InsufficientPointsError{Got: 1}).Error(), "got 1")
	assert.Contains(t, (&DisconnectedCurveError{Components: 3, Coverage: 0.5}).Error(), "3 components")
	assert.Contains(t, (&DegenerateFitError{Index: 4, Value: 2.5}).Error(), "point 4")
	assert.Contains(t, (&InvalidScaleError{Scale: -1}).Error(), "-1")
}
