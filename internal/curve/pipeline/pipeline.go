// Package pipeline composes the curve-length stages into a single run.
//
// It is the composition root: it imports the stage packages (order,
// segment, fit, arclen, calibrate) and wires one stage's output record
// into the next, but owns no numerical logic itself. Recoverable stage
// conditions become warnings on the output record; invalid inputs abort
// the run with a distinct error.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/curvelab/arclength/internal/curve"
	"github.com/curvelab/arclength/internal/curve/arclen"
	"github.com/curvelab/arclength/internal/curve/calibrate"
	"github.com/curvelab/arclength/internal/curve/fit"
	"github.com/curvelab/arclength/internal/curve/order"
	"github.com/curvelab/arclength/internal/curve/segment"
	"github.com/curvelab/arclength/internal/geom"
)

// Output bundles everything downstream collaborators consume: the final
// calibrated record, the fitted model for overlay rendering, and the
// ordered trace for visualization.
type Output struct {
	Result     curve.CalibratedResult
	Model      curve.PiecewiseModel
	Trace      geom.Polyline
	Candidates []geom.Polyline
}

// Run executes the full pipeline on one point cloud.
//
// Fatal errors (too few points, invalid options, non-positive scale) are
// returned as errors. A disconnected cloud is not fatal: the best
// component is processed and the result is flagged degraded. A
// degenerate graph-form fit triggers one re-segmentation under arclength
// parametrization before giving up.
func Run(ctx context.Context, cloud geom.PointCloud, opts curve.Options) (Output, error) {
	if err := opts.Validate(); err != nil {
		return Output{}, fmt.Errorf("invalid options: %w", err)
	}

	var warnings []string

	ordered, err := order.Order(cloud, opts)
	if err != nil {
		var disc *curve.DisconnectedCurveError
		if !errors.As(err, &disc) {
			return Output{}, err
		}
		warnings = append(warnings, disc.Error())
	}

	segs, err := segment.Split(ordered.Primary, opts)
	if err != nil {
		return Output{}, err
	}

	model, err := fit.FitAll(segs, opts)
	if err != nil {
		var degen *curve.DegenerateFitError
		if !errors.As(err, &degen) {
			return Output{}, err
		}
		// Graph-form fitting failed; re-segment by arclength and retry
		// once. Arclength is monotone by construction, so a second
		// degenerate failure is a genuine error.
		warnings = append(warnings, fmt.Sprintf("refit under arclength parametrization: %v", degen))
		segs, err = segment.SplitArc(ordered.Primary, opts)
		if err != nil {
			return Output{}, err
		}
		model, err = fit.FitAll(segs, opts)
		if err != nil {
			return Output{}, err
		}
	}

	warnings = append(warnings, fit.Reconcile(&model, opts)...)

	est := arclen.Integrate(ctx, model, opts)
	est.Warnings = append(warnings, est.Warnings...)

	result, err := calibrate.Calibrate(est, opts.Scale, opts.ScaleUncertainty, opts.Unit)
	if err != nil {
		return Output{}, err
	}

	return Output{
		Result:     result,
		Model:      model,
		Trace:      ordered.Primary,
		Candidates: ordered.Candidates,
	}, nil
}
