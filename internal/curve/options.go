package curve

import (
	"fmt"
	"math"
)

// ModelKind selects the fitted model family.
type ModelKind string

const (
	// ModelPolynomial fits a least-squares polynomial per segment.
	ModelPolynomial ModelKind = "polynomial"
	// ModelSpline fits a smoothing natural cubic spline per segment.
	ModelSpline ModelKind = "spline"
)

// Options is the explicit per-invocation configuration surface of the
// pipeline. There is no module-level state: every run receives its own
// Options value, so batch tasks can run concurrently without locking.
type Options struct {
	// MaxGap is the largest pixel distance at which two points are
	// considered connected when ordering the cloud.
	MaxGap float64 `json:"max_gap"`
	// MinComponentFraction is the fraction of all points the largest
	// connected component must cover before the cloud counts as a single
	// curve. Below it, ordering reports DisconnectedCurveError.
	MinComponentFraction float64 `json:"min_component_fraction"`

	// MaxSegmentLength caps the number of points per fitted segment.
	MaxSegmentLength int `json:"max_segment_length"`
	// CurvatureThreshold is the polygon turning angle, in radians, above
	// which the polyline is split for stable local fitting.
	CurvatureThreshold float64 `json:"curvature_threshold"`
	// VerticalSlopeLimit is the |dy/dx| above which the local tangent
	// counts as near vertical and the segment switches to Y as the
	// independent variable.
	VerticalSlopeLimit float64 `json:"vertical_slope_limit"`

	// Model selects polynomial or spline fitting.
	Model ModelKind `json:"model"`
	// PolynomialDegree is the requested degree for polynomial fits. It is
	// capped below each segment's point count minus one.
	PolynomialDegree int `json:"polynomial_degree"`
	// SplineSmoothing trades fit fidelity against curvature noise for
	// spline fits; 0 interpolates the points exactly.
	SplineSmoothing float64 `json:"spline_smoothing"`
	// ContinuityTolerance is the allowed pixel mismatch between adjacent
	// fitted curves at their shared boundary after reconciliation.
	ContinuityTolerance float64 `json:"continuity_tolerance"`

	// IntegrationTolerance is the absolute error target of the adaptive
	// quadrature per segment.
	IntegrationTolerance float64 `json:"integration_tolerance"`
	// MaxRecursionDepth bounds quadrature subdivision; intervals that
	// still miss the tolerance at the bound contribute their best
	// estimate with a convergence warning.
	MaxRecursionDepth int `json:"max_recursion_depth"`

	// Scale converts pixels to real-world units (units per pixel).
	Scale float64 `json:"scale"`
	// ScaleUncertainty is the absolute uncertainty of Scale.
	ScaleUncertainty float64 `json:"scale_uncertainty"`
	// Unit names the real-world unit of Scale, e.g. "m".
	Unit string `json:"unit"`
}

// DefaultOptions returns the tuning defaults. MaxGap suits clouds from a
// thresholded edge map at roughly one point per pixel; the defaults for
// fitting keep degrees low to avoid overfitting short segments.
func DefaultOptions() Options {
	return Options{
		MaxGap:               5.0,
		MinComponentFraction: 0.8,
		MaxSegmentLength:     64,
		CurvatureThreshold:   0.35,
		VerticalSlopeLimit:   8.0,
		Model:                ModelPolynomial,
		PolynomialDegree:     3,
		SplineSmoothing:      0.1,
		ContinuityTolerance:  1.0,
		IntegrationTolerance: 1e-6,
		MaxRecursionDepth:    24,
		Scale:                1.0,
		ScaleUncertainty:     0.0,
		Unit:                 "px",
	}
}

// Validate checks the options for values the pipeline cannot run with.
// Scale is validated separately by the calibration stage so that
// pixel-only runs (Scale left at 1) remain possible.
func (o Options) Validate() error {
	if o.MaxGap <= 0 || math.IsNaN(o.MaxGap) {
		return fmt.Errorf("max_gap must be > 0, got %g", o.MaxGap)
	}
	if o.MinComponentFraction <= 0 || o.MinComponentFraction > 1 {
		return fmt.Errorf("min_component_fraction must be in (0, 1], got %g", o.MinComponentFraction)
	}
	if o.MaxSegmentLength < 2 {
		return fmt.Errorf("max_segment_length must be >= 2, got %d", o.MaxSegmentLength)
	}
	if o.CurvatureThreshold <= 0 {
		return fmt.Errorf("curvature_threshold must be > 0, got %g", o.CurvatureThreshold)
	}
	if o.VerticalSlopeLimit <= 0 {
		return fmt.Errorf("vertical_slope_limit must be > 0, got %g", o.VerticalSlopeLimit)
	}
	switch o.Model {
	case ModelPolynomial, ModelSpline:
	default:
		return fmt.Errorf("unknown model kind %q", o.Model)
	}
	if o.PolynomialDegree < 1 {
		return fmt.Errorf("polynomial_degree must be >= 1, got %d", o.PolynomialDegree)
	}
	if o.SplineSmoothing < 0 {
		return fmt.Errorf("spline_smoothing must be >= 0, got %g", o.SplineSmoothing)
	}
	if o.ContinuityTolerance <= 0 {
		return fmt.Errorf("continuity_tolerance must be > 0, got %g", o.ContinuityTolerance)
	}
	if o.IntegrationTolerance <= 0 {
		return fmt.Errorf("integration_tolerance must be > 0, got %g", o.IntegrationTolerance)
	}
	if o.MaxRecursionDepth < 1 {
		return fmt.Errorf("max_recursion_depth must be >= 1, got %d", o.MaxRecursionDepth)
	}
	return nil
}
