package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultOptionsValidate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr string
	}{
		{"zero max gap", func(o *Options) { o.MaxGap = 0 }, "max_gap"},
		{"negative max gap", func(o *Options) { o.MaxGap = -1 }, "max_gap"},
		{"component fraction zero", func(o *Options) { o.MinComponentFraction = 0 }, "min_component_fraction"},
		{"component fraction above one", func(o *Options) { o.MinComponentFraction = 1.5 }, "min_component_fraction"},
		{"segment length too small", func(o *Options) { o.MaxSegmentLength = 1 }, "max_segment_length"},
		{"curvature threshold", func(o *Options) { o.CurvatureThreshold = 0 }, "curvature_threshold"},
		{"vertical slope limit", func(o *Options) { o.VerticalSlopeLimit = -2 }, "vertical_slope_limit"},
		{"unknown model", func(o *Options) { o.Model = "bezier" }, "model"},
		{"degree zero", func(o *Options) { o.PolynomialDegree = 0 }, "polynomial_degree"},
		{"negative smoothing", func(o *Options) { o.SplineSmoothing = -0.1 }, "spline_smoothing"},
		{"continuity tolerance", func(o *Options) { o.ContinuityTolerance = 0 }, "continuity_tolerance"},
		{"integration tolerance", func(o *Options) { o.IntegrationTolerance = 0 }, "integration_tolerance"},
		{"recursion depth", func(o *Options) { o.MaxRecursionDepth = 0 }, "max_recursion_depth"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			err := opts.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateAllowsPixelOnlyScale(t *testing.T) {
	// Scale is checked at calibration time, not here, so a zero scale must
	// not fail option validation.
	opts := DefaultOptions()
	opts.Scale = 0
	assert.NoError(t, opts.Validate())
}
