// Package config loads pipeline tuning parameters from JSON files.
//
// The on-disk schema mirrors the fields of curve.Options so the same
// JSON can configure the CLI, the batch runner and the HTTP service.
// All fields are optional: a partial file overlays the built-in defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/curvelab/arclength/internal/curve"
)

// TuningConfig represents the optional overrides for pipeline tuning
// parameters. Pointer fields distinguish "not set" from zero values, so
// partial configs are safe.
type TuningConfig struct {
	MaxGap               *float64 `json:"max_gap,omitempty"`
	MinComponentFraction *float64 `json:"min_component_fraction,omitempty"`

	MaxSegmentLength   *int     `json:"max_segment_length,omitempty"`
	CurvatureThreshold *float64 `json:"curvature_threshold,omitempty"`
	VerticalSlopeLimit *float64 `json:"vertical_slope_limit,omitempty"`

	Model               *string  `json:"model,omitempty"` // "polynomial" or "spline"
	PolynomialDegree    *int     `json:"polynomial_degree,omitempty"`
	SplineSmoothing     *float64 `json:"spline_smoothing,omitempty"`
	ContinuityTolerance *float64 `json:"continuity_tolerance,omitempty"`

	IntegrationTolerance *float64 `json:"integration_tolerance,omitempty"`
	MaxRecursionDepth    *int     `json:"max_recursion_depth,omitempty"`

	Scale            *float64 `json:"scale,omitempty"`
	ScaleUncertainty *float64 `json:"scale_uncertainty,omitempty"`
	Unit             *string  `json:"unit,omitempty"`
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The file must
// have a .json extension and stay under the size cap; fields omitted
// from the file retain their defaults when applied.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &TuningConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return cfg, nil
}

// Apply overlays the set fields of c onto base and validates the result.
func (c *TuningConfig) Apply(base curve.Options) (curve.Options, error) {
	if c.MaxGap != nil {
		base.MaxGap = *c.MaxGap
	}
	if c.MinComponentFraction != nil {
		base.MinComponentFraction = *c.MinComponentFraction
	}
	if c.MaxSegmentLength != nil {
		base.MaxSegmentLength = *c.MaxSegmentLength
	}
	if c.CurvatureThreshold != nil {
		base.CurvatureThreshold = *c.CurvatureThreshold
	}
	if c.VerticalSlopeLimit != nil {
		base.VerticalSlopeLimit = *c.VerticalSlopeLimit
	}
	if c.Model != nil {
		base.Model = curve.ModelKind(*c.Model)
	}
	if c.PolynomialDegree != nil {
		base.PolynomialDegree = *c.PolynomialDegree
	}
	if c.SplineSmoothing != nil {
		base.SplineSmoothing = *c.SplineSmoothing
	}
	if c.ContinuityTolerance != nil {
		base.ContinuityTolerance = *c.ContinuityTolerance
	}
	if c.IntegrationTolerance != nil {
		base.IntegrationTolerance = *c.IntegrationTolerance
	}
	if c.MaxRecursionDepth != nil {
		base.MaxRecursionDepth = *c.MaxRecursionDepth
	}
	if c.Scale != nil {
		base.Scale = *c.Scale
	}
	if c.ScaleUncertainty != nil {
		base.ScaleUncertainty = *c.ScaleUncertainty
	}
	if c.Unit != nil {
		base.Unit = *c.Unit
	}

	if err := base.Validate(); err != nil {
		return curve.Options{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return base, nil
}

// LoadOptions is the common path for callers: defaults, overlaid by the
// file at path when path is non-empty.
func LoadOptions(path string) (curve.Options, error) {
	opts := curve.DefaultOptions()
	if path == "" {
		return opts, nil
	}
	cfg, err := LoadTuningConfig(path)
	if err != nil {
		return curve.Options{}, err
	}
	return cfg.Apply(opts)
}
