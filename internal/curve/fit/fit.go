// Package fit produces continuous models for polyline segments.
//
// Two model families are supported: least-squares polynomials (gonum/mat
// QR over a Vandermonde matrix) and smoothing natural cubic splines. Both
// expose closed-form derivatives through the curve.Model capability, so
// the integration stage never falls back to finite differences on the
// noisy source samples.
package fit

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/curvelab/arclength/internal/curve"
	"github.com/curvelab/arclength/internal/geom"
)

// Fit fits one model to seg under opts.
//
// For graph-form segments (ParamX, ParamY) it fails with
// *curve.DegenerateFitError when the chosen abscissa is not strictly
// increasing; callers should re-segment with arclength parametrization
// and retry. Arclength segments fit two component models, x(t) and y(t).
func Fit(seg curve.Segment, opts curve.Options) (curve.FittedCurve, error) {
	pts := seg.Points
	if len(pts) < 2 {
		return curve.FittedCurve{}, &curve.InsufficientPointsError{Got: len(pts)}
	}

	switch seg.Param {
	case curve.ParamArc:
		ts := pts.ArcLengthParams()
		fx, sx, err := fitSeries(ts, coords(pts, func(p geom.Point2D) float64 { return p.X }), opts)
		if err != nil {
			return curve.FittedCurve{}, err
		}
		fy, sy, err := fitSeries(ts, coords(pts, func(p geom.Point2D) float64 { return p.Y }), opts)
		if err != nil {
			return curve.FittedCurve{}, err
		}
		return curve.FittedCurve{
			Param:  curve.ParamArc,
			F:      fx,
			G:      fy,
			Points: pts,
			Score:  sx + sy,
		}, nil

	case curve.ParamY:
		ys, xs := graphSeries(pts, false)
		m, score, err := fitMonotone(ys, xs, opts)
		if err != nil {
			return curve.FittedCurve{}, err
		}
		return curve.FittedCurve{Param: curve.ParamY, F: m, Points: pts, Score: score}, nil

	case curve.ParamX:
		xs, ys := graphSeries(pts, true)
		m, score, err := fitMonotone(xs, ys, opts)
		if err != nil {
			return curve.FittedCurve{}, err
		}
		return curve.FittedCurve{Param: curve.ParamX, F: m, Points: pts, Score: score}, nil

	default:
		return curve.FittedCurve{}, fmt.Errorf("unknown parametrization %q", seg.Param)
	}
}

// FitAll fits every segment, returning the piecewise model. The first
// degenerate segment aborts the whole fit so the caller can re-segment
// once instead of mixing parametrizations mid-stream.
func FitAll(segs []curve.Segment, opts curve.Options) (curve.PiecewiseModel, error) {
	curves := make([]curve.FittedCurve, 0, len(segs))
	for i, seg := range segs {
		fc, err := Fit(seg, opts)
		if err != nil {
			return curve.PiecewiseModel{}, fmt.Errorf("segment %d: %w", i, err)
		}
		curves = append(curves, fc)
	}
	return curve.PiecewiseModel{Curves: curves}, nil
}

// graphSeries extracts (abscissa, ordinate) slices from the points. When
// byX is true the abscissa is X, otherwise Y. A walk that ran against the
// abscissa direction is reversed so the series ascends.
func graphSeries(pts geom.Polyline, byX bool) (abs, ord []float64) {
	abs = make([]float64, len(pts))
	ord = make([]float64, len(pts))
	for i, p := range pts {
		if byX {
			abs[i], ord[i] = p.X, p.Y
		} else {
			abs[i], ord[i] = p.Y, p.X
		}
	}
	if abs[0] > abs[len(abs)-1] {
		floats.Reverse(abs)
		floats.Reverse(ord)
	}
	return abs, ord
}

// fitMonotone checks strict monotonicity of the abscissa and fits the
// configured model family.
func fitMonotone(abs, ord []float64, opts curve.Options) (curve.Model, float64, error) {
	for i := 1; i < len(abs); i++ {
		if abs[i] <= abs[i-1] {
			return nil, 0, &curve.DegenerateFitError{Index: i, Value: abs[i]}
		}
	}
	return fitSeriesChecked(abs, ord, opts)
}

// fitSeries fits ordinates against an abscissa already known to ascend
// (arclength parameters).
func fitSeries(abs, ord []float64, opts curve.Options) (curve.Model, float64, error) {
	return fitSeriesChecked(abs, ord, opts)
}

func fitSeriesChecked(abs, ord []float64, opts curve.Options) (curve.Model, float64, error) {
	switch opts.Model {
	case curve.ModelSpline:
		return fitSpline(abs, ord, opts.SplineSmoothing)
	default:
		return fitPolynomial(abs, ord, opts.PolynomialDegree)
	}
}

func coords(pts geom.Polyline, get func(geom.Point2D) float64) []float64 {
	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = get(p)
	}
	return out
}
