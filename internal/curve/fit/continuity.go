package fit

import (
	"fmt"
	"math"

	"github.com/curvelab/arclength/internal/curve"
	"github.com/curvelab/arclength/internal/geom"
)

// Reconcile enforces the continuity invariant on a fitted piecewise
// model: adjacent curves must agree at their shared boundary point within
// opts.ContinuityTolerance.
//
// Where the mismatch exceeds the tolerance, the later (lower-priority)
// curve receives an additive correction that is the full mismatch at the
// boundary and decays linearly to zero at the curve's far end. This is a
// post-fit reconciliation, not a re-fit: the earlier curve is never
// touched. Returned warnings describe each correction applied; pairs
// fitted under different parametrizations cannot be blended and only
// produce a warning when they disagree.
func Reconcile(model *curve.PiecewiseModel, opts curve.Options) []string {
	var warnings []string
	for i := 0; i+1 < len(model.Curves); i++ {
		left := model.Curves[i]
		right := &model.Curves[i+1]

		shared := left.Points[len(left.Points)-1]
		if right.Points[0] != shared {
			// Segmentation guarantees shared boundaries; anything else is
			// a degraded hand-off worth surfacing.
			warnings = append(warnings, fmt.Sprintf(
				"segments %d/%d do not share a boundary point", i, i+1))
			continue
		}

		if left.Param != right.Param {
			gap := left.Point(boundaryParam(left, shared)).Distance(
				right.Point(boundaryParam(*right, shared)))
			if gap > opts.ContinuityTolerance {
				warnings = append(warnings, fmt.Sprintf(
					"segments %d/%d: boundary gap %.3fpx across parametrization change", i, i+1, gap))
			}
			continue
		}

		tLeft := boundaryParam(left, shared)
		tRight := boundaryParam(*right, shared)

		dF := left.F.Eval(tLeft) - right.F.Eval(tRight)
		var dG float64
		if left.Param == curve.ParamArc {
			dG = left.G.Eval(tLeft) - right.G.Eval(tRight)
		}
		gap := math.Hypot(dF, dG)
		if gap <= opts.ContinuityTolerance {
			continue
		}

		right.F = blend(right.F, tRight, dF)
		if left.Param == curve.ParamArc {
			right.G = blend(right.G, tRight, dG)
		}
		warnings = append(warnings, fmt.Sprintf(
			"segments %d/%d: blended %.3fpx boundary mismatch into segment %d", i, i+1, gap, i+1))
	}
	return warnings
}

// boundaryParam returns the parameter at which fc meets the shared
// boundary point p. For graph-form fits that is the point's coordinate on
// the independent axis; for arclength fits it is whichever end of the
// domain corresponds to p's position in the source points.
func boundaryParam(fc curve.FittedCurve, p geom.Point2D) float64 {
	switch fc.Param {
	case curve.ParamY:
		return p.Y
	case curve.ParamArc:
		a, b := fc.F.Domain()
		if fc.Points[0] == p {
			return a
		}
		return b
	default:
		return p.X
	}
}

// blendModel applies an additive boundary correction to a base model. The
// correction is delta at the boundary parameter and decays linearly to
// zero at far, so only the boundary neighbourhood moves.
type blendModel struct {
	base     curve.Model
	boundary float64
	far      float64
	delta    float64
}

func (b blendModel) weight(t float64) float64 {
	w := (t - b.far) / (b.boundary - b.far)
	if w < 0 {
		return 0
	}
	if w > 1 {
		return 1
	}
	return w
}

func (b blendModel) Eval(t float64) float64 {
	return b.base.Eval(t) + b.delta*b.weight(t)
}

func (b blendModel) Deriv(t float64) float64 {
	d := b.base.Deriv(t)
	if w := b.weight(t); w > 0 && w < 1 {
		d += b.delta / (b.boundary - b.far)
	}
	return d
}

func (b blendModel) Domain() (float64, float64) { return b.base.Domain() }

var _ curve.Model = blendModel{}

// blend wraps m so it takes on value m(boundary)+delta at the boundary
// parameter, fading out across the rest of the domain.
func blend(m curve.Model, boundary, delta float64) curve.Model {
	a, b := m.Domain()
	far := a
	if math.Abs(boundary-a) < math.Abs(boundary-b) {
		far = b
	}
	return blendModel{base: m, boundary: boundary, far: far, delta: delta}
}
