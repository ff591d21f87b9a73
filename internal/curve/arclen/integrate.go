// Package arclen computes the arc length of a fitted piecewise model.
//
// Each curve contributes ∫√(1+f′(t)²)dt over its domain (√(x′²+y′²) for
// arclength-parametrized curves), evaluated by adaptive Simpson
// quadrature. The recursion is expressed as an explicit worklist with a
// depth counter, which both guarantees termination and provides natural
// points to honour cancellation. Derivatives come from the fitted models
// in closed form, never from finite differences over the samples.
package arclen

import (
	"context"
	"fmt"
	"math"

	"github.com/curvelab/arclength/internal/curve"
)

// segmentResult is the quadrature outcome for a single curve.
type segmentResult struct {
	length     float64
	errorBound float64
	converged  bool
	cancelled  bool
}

// Integrate computes the pixel arc length of model with the per-segment
// absolute tolerance opts.IntegrationTolerance.
//
// Segments whose quadrature hits opts.MaxRecursionDepth contribute their
// best estimate and a convergence warning instead of failing the run.
// When ctx is cancelled the estimate returned covers the work done so
// far and is flagged Incomplete. The total error bound is the
// conservative sum of per-segment bounds: the per-segment errors share
// one fitted model and are not assumed independent.
func Integrate(ctx context.Context, model curve.PiecewiseModel, opts curve.Options) curve.LengthEstimate {
	est := curve.LengthEstimate{
		Segments: make([]curve.SegmentLength, 0, len(model.Curves)),
	}

	for i, fc := range model.Curves {
		if ctx.Err() != nil {
			est.Incomplete = true
			est.Warnings = append(est.Warnings,
				fmt.Sprintf("cancelled before segment %d", i))
			break
		}

		f := integrand(fc)
		a, b := fc.Domain()
		res := adaptiveSimpson(ctx, f, a, b, opts.IntegrationTolerance, opts.MaxRecursionDepth)

		est.Segments = append(est.Segments, curve.SegmentLength{
			Index:      i,
			Length:     res.length,
			ErrorBound: res.errorBound,
			Converged:  res.converged,
			FitScore:   fc.Score,
		})
		est.Total += res.length
		est.ErrorBound += res.errorBound

		if !res.converged {
			est.Warnings = append(est.Warnings,
				fmt.Sprintf("segment %d: quadrature did not converge within depth %d", i, opts.MaxRecursionDepth))
		}
		if res.cancelled {
			est.Incomplete = true
			est.Warnings = append(est.Warnings,
				fmt.Sprintf("cancelled during segment %d", i))
			break
		}
	}
	return est
}

// integrand builds the arc-length integrand for one fitted curve.
func integrand(fc curve.FittedCurve) func(float64) float64 {
	if fc.Param == curve.ParamArc {
		return func(t float64) float64 {
			dx := fc.F.Deriv(t)
			dy := fc.G.Deriv(t)
			return math.Hypot(dx, dy)
		}
	}
	return func(t float64) float64 {
		d := fc.F.Deriv(t)
		return math.Sqrt(1 + d*d)
	}
}

// workItem is one pending interval of the adaptive quadrature.
type workItem struct {
	a, b       float64
	fa, fm, fb float64
	whole      float64 // Simpson estimate over [a, b]
	tol        float64
	depth      int
}

// adaptiveSimpson integrates f over [a, b] by interval subdivision until
// the Richardson error estimate of each interval is within its share of
// tol, or the depth bound is hit. Processing is last-in-first-out, which
// keeps evaluation order (and therefore the result) deterministic.
func adaptiveSimpson(ctx context.Context, f func(float64) float64, a, b, tol float64, maxDepth int) segmentResult {
	if b <= a {
		return segmentResult{converged: true}
	}

	fa, fm, fb := f(a), f((a+b)/2), f(b)
	stack := []workItem{{
		a: a, b: b,
		fa: fa, fm: fm, fb: fb,
		whole: simpson(a, b, fa, fm, fb),
		tol:   tol,
		depth: 0,
	}}

	res := segmentResult{converged: true}
	for len(stack) > 0 {
		// Cooperative cancellation between subdivisions.
		if ctx.Err() != nil {
			res.cancelled = true
			res.converged = false
			return res
		}

		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		m := (it.a + it.b) / 2
		fml := f((it.a + m) / 2)
		fmr := f((m + it.b) / 2)
		left := simpson(it.a, m, it.fa, fml, it.fm)
		right := simpson(m, it.b, it.fm, fmr, it.fb)
		delta := left + right - it.whole

		if math.Abs(delta) <= 15*it.tol {
			// Accept with Richardson extrapolation.
			res.length += left + right + delta/15
			res.errorBound += math.Abs(delta) / 15
			continue
		}
		if it.depth >= maxDepth {
			// Best estimate for an interval that refuses to settle.
			res.length += left + right
			res.errorBound += math.Abs(delta) / 15
			res.converged = false
			continue
		}

		stack = append(stack,
			workItem{
				a: m, b: it.b,
				fa: it.fm, fm: fmr, fb: it.fb,
				whole: right,
				tol:   it.tol / 2,
				depth: it.depth + 1,
			},
			workItem{
				a: it.a, b: m,
				fa: it.fa, fm: fml, fb: it.fm,
				whole: left,
				tol:   it.tol / 2,
				depth: it.depth + 1,
			},
		)
	}
	return res
}

func simpson(a, b, fa, fm, fb float64) float64 {
	return (b - a) / 6 * (fa + 4*fm + fb)
}
