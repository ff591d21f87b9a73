package curve

import (
	"github.com/curvelab/arclength/internal/geom"
)

// Parametrization selects the independent variable a segment is fitted
// against.
type Parametrization string

const (
	// ParamX fits y = f(x); requires strictly increasing X.
	ParamX Parametrization = "x"
	// ParamY fits x = f(y); chosen when the local tangent is near
	// vertical, where X is degenerate as the independent variable.
	ParamY Parametrization = "y"
	// ParamArc fits both coordinates against cumulative chord length:
	// x = f(t), y = g(t). Always well defined; used as the fallback when
	// graph-form fitting is degenerate.
	ParamArc Parametrization = "arclength"
)

// Segment is a contiguous sub-range of an ordered polyline together with
// the parametrization its points should be fitted under. Adjacent
// segments share their boundary point.
type Segment struct {
	Points geom.Polyline   `json:"points"`
	Param  Parametrization `json:"param"`
}

// Model is the evaluate/derivative capability shared by the fitted model
// variants. Deriv must be the closed-form derivative of the model, never
// a finite difference over the original samples.
type Model interface {
	// Eval evaluates the model at parameter t within its domain.
	Eval(t float64) float64
	// Deriv evaluates the analytic first derivative at t.
	Deriv(t float64) float64
	// Domain returns the model's domain interval [a, b].
	Domain() (a, b float64)
}

// Polynomial is a fitted polynomial with coefficients in ascending order
// of power: Coeffs[i] multiplies (t−T0)^i. T0 centers the basis on the
// fitted interval, which keeps the Vandermonde system well conditioned
// for pixel-scale abscissae.
type Polynomial struct {
	Coeffs []float64 `json:"coeffs"`
	T0     float64   `json:"t0"`
	A      float64   `json:"a"`
	B      float64   `json:"b"`
}

// Eval evaluates the polynomial at t using Horner's scheme.
func (p Polynomial) Eval(t float64) float64 {
	u := t - p.T0
	var v float64
	for i := len(p.Coeffs) - 1; i >= 0; i-- {
		v = v*u + p.Coeffs[i]
	}
	return v
}

// Deriv evaluates the closed-form derivative at t.
func (p Polynomial) Deriv(t float64) float64 {
	u := t - p.T0
	var v float64
	for i := len(p.Coeffs) - 1; i >= 1; i-- {
		v = v*u + float64(i)*p.Coeffs[i]
	}
	return v
}

// Domain returns the fitted interval.
func (p Polynomial) Domain() (float64, float64) { return p.A, p.B }

// Spline is a fitted natural cubic spline stored as an ordered knot
// sequence and per-interval cubic coefficients: on [Knots[i], Knots[i+1]]
// the spline is c[0] + c[1]·h + c[2]·h² + c[3]·h³ with h = t − Knots[i].
type Spline struct {
	Knots  []float64    `json:"knots"`
	Coeffs [][4]float64 `json:"coeffs"`
}

// interval locates the knot interval containing t, clamping to the first
// or last interval for out-of-domain parameters.
func (s Spline) interval(t float64) int {
	lo, hi := 0, len(s.Coeffs)-1
	if t <= s.Knots[0] {
		return 0
	}
	if t >= s.Knots[len(s.Knots)-1] {
		return hi
	}
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if s.Knots[mid] <= t {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// Eval evaluates the spline at t.
func (s Spline) Eval(t float64) float64 {
	i := s.interval(t)
	h := t - s.Knots[i]
	c := s.Coeffs[i]
	return c[0] + h*(c[1]+h*(c[2]+h*c[3]))
}

// Deriv evaluates the closed-form derivative at t.
func (s Spline) Deriv(t float64) float64 {
	i := s.interval(t)
	h := t - s.Knots[i]
	c := s.Coeffs[i]
	return c[1] + h*(2*c[2]+h*3*c[3])
}

// Domain returns the knot span.
func (s Spline) Domain() (float64, float64) {
	return s.Knots[0], s.Knots[len(s.Knots)-1]
}

// Compile-time checks that both variants satisfy the Model capability.
var (
	_ Model = Polynomial{}
	_ Model = Spline{}
)

// FittedCurve is one fitted model per segment. For graph-form
// parametrizations (ParamX, ParamY) only F is set and represents the
// dependent coordinate as a function of the independent one. For ParamArc
// both components are set: F is x(t) and G is y(t).
type FittedCurve struct {
	Param Parametrization `json:"param"`
	F     Model           `json:"-"`
	G     Model           `json:"-"`
	// Points is the source sub-polyline the curve was fitted to, kept
	// for boundary reconciliation and overlay rendering.
	Points geom.Polyline `json:"-"`
	// Score is the normalized residual sum of squares of the fit
	// (RSS divided by point count), lower is better.
	Score float64 `json:"score"`
}

// Domain returns the curve's parameter interval.
func (fc FittedCurve) Domain() (float64, float64) {
	return fc.F.Domain()
}

// Point evaluates the curve at parameter t in pixel coordinates.
func (fc FittedCurve) Point(t float64) geom.Point2D {
	switch fc.Param {
	case ParamY:
		return geom.Point2D{X: fc.F.Eval(t), Y: t}
	case ParamArc:
		return geom.Point2D{X: fc.F.Eval(t), Y: fc.G.Eval(t)}
	default:
		return geom.Point2D{X: t, Y: fc.F.Eval(t)}
	}
}

// PiecewiseModel is the ordered sequence of fitted curves covering the
// whole polyline, each on a disjoint parameter interval. Consecutive
// curves agree at shared boundary points within the continuity tolerance
// after reconciliation.
type PiecewiseModel struct {
	Curves []FittedCurve `json:"curves"`
}

// SegmentLength is the per-segment contribution to a length estimate.
type SegmentLength struct {
	Index      int     `json:"index"`
	Length     float64 `json:"length_px"`
	ErrorBound float64 `json:"error_bound_px"`
	Converged  bool    `json:"converged"`
	FitScore   float64 `json:"fit_score"`
}

// LengthEstimate is the integrated pixel length of a piecewise model.
// The total error bound is the conservative sum of per-segment absolute
// bounds: segment errors share the same fitted model and are not assumed
// independent.
type LengthEstimate struct {
	Total      float64         `json:"total_px"`
	ErrorBound float64         `json:"error_bound_px"`
	Segments   []SegmentLength `json:"segments"`
	// Incomplete marks an estimate cut short by cancellation; the totals
	// cover only the segments integrated before the cancel.
	Incomplete bool     `json:"incomplete,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}

// CalibratedResult is the final output record: the length estimate
// converted to real-world units with propagated uncertainty.
type CalibratedResult struct {
	Length      float64        `json:"length"`
	Uncertainty float64        `json:"uncertainty"`
	Unit        string         `json:"unit"`
	Pixels      LengthEstimate `json:"pixels"`
	Quality     Quality        `json:"quality"`
	Warnings    []string       `json:"warnings,omitempty"`
}
