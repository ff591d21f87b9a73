// Package calibrate converts pixel length estimates to real-world units.
package calibrate

import (
	"math"

	"github.com/curvelab/arclength/internal/curve"
)

// Calibrate applies the linear pixel-to-unit transform to est:
// realLength = pixelLength × scale.
//
// Uncertainty is propagated to first order by summing relative errors;
// the scale measurement and the numerical error bound are not assumed
// independent, so no quadrature sum is taken:
//
//	Δreal/real = Δscale/scale + Δpixels/pixels
//
// It fails with *curve.InvalidScaleError when scale ≤ 0 or NaN.
func Calibrate(est curve.LengthEstimate, scale, scaleUncertainty float64, unit string) (curve.CalibratedResult, error) {
	if scale <= 0 || math.IsNaN(scale) {
		return curve.CalibratedResult{}, &curve.InvalidScaleError{Scale: scale}
	}

	length := est.Total * scale

	var relErr float64
	if est.Total > 0 {
		relErr += est.ErrorBound / est.Total
	}
	if scaleUncertainty > 0 {
		relErr += scaleUncertainty / scale
	}

	quality := curve.QualityOK
	if len(est.Warnings) > 0 {
		quality = quality.Worse(curve.QualityDegraded)
	}
	if est.Incomplete {
		quality = quality.Worse(curve.QualityDegraded)
	}

	return curve.CalibratedResult{
		Length:      length,
		Uncertainty: length * relErr,
		Unit:        unit,
		Pixels:      est,
		Quality:     quality,
		Warnings:    append([]string(nil), est.Warnings...),
	}, nil
}
