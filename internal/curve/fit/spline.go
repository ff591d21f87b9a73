package fit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/curvelab/arclength/internal/curve"
)

// fitSpline fits a smoothing natural cubic spline to (abs, ord).
//
// The smoothing parameter controls how many Laplacian smoothing passes
// are applied to the ordinates before interpolation: 0 interpolates the
// raw points exactly; larger values trade fidelity for curvature noise
// suppression. The fit score is measured against the original ordinates,
// so heavy smoothing shows up as a worse score.
func fitSpline(abs, ord []float64, smoothing float64) (curve.Model, float64, error) {
	n := len(abs)
	if n < 2 {
		return nil, 0, &curve.InsufficientPointsError{Got: n}
	}

	smoothed := smoothOrdinates(ord, smoothing)

	if n < 4 {
		// Too few points for a meaningful cubic; fall back to a straight
		// least-squares line, as the original fitting stage does.
		return fitPolynomial(abs, smoothed, 1)
	}

	spline, err := naturalCubic(abs, smoothed)
	if err != nil {
		return nil, 0, err
	}
	return spline, residualScore(spline, abs, ord), nil
}

// smoothOrdinates applies repeated Laplacian smoothing: each interior
// value moves halfway toward the mean of its neighbours, once per pass.
// The pass count is derived from the smoothing parameter.
func smoothOrdinates(ord []float64, smoothing float64) []float64 {
	out := make([]float64, len(ord))
	copy(out, ord)

	passes := int(math.Round(smoothing * 10))
	if passes <= 0 || len(ord) < 3 {
		return out
	}
	if passes > 25 {
		passes = 25
	}

	tmp := make([]float64, len(out))
	for p := 0; p < passes; p++ {
		copy(tmp, out)
		for i := 1; i < len(out)-1; i++ {
			out[i] = tmp[i] + 0.5*((tmp[i-1]+tmp[i+1])/2-tmp[i])
		}
	}
	return out
}

// naturalCubic interpolates (abs, ord) with a natural cubic spline. The
// second derivatives at the interior knots solve a tridiagonal system;
// it is assembled densely and solved with gonum, which is fine at the
// segment sizes the segmenter produces.
func naturalCubic(abs, ord []float64) (curve.Spline, error) {
	n := len(abs)
	h := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		h[i] = abs[i+1] - abs[i]
	}

	// Interior second derivatives M[1..n-2]; natural boundary M[0]=M[n-1]=0.
	m := n - 2
	a := mat.NewDense(m, m, nil)
	b := mat.NewVecDense(m, nil)
	for i := 1; i <= m; i++ {
		row := i - 1
		if row > 0 {
			a.Set(row, row-1, h[i-1])
		}
		a.Set(row, row, 2*(h[i-1]+h[i]))
		if row < m-1 {
			a.Set(row, row+1, h[i])
		}
		b.SetVec(row, 6*((ord[i+1]-ord[i])/h[i]-(ord[i]-ord[i-1])/h[i-1]))
	}

	var sol mat.VecDense
	if err := sol.SolveVec(a, b); err != nil {
		return curve.Spline{}, fmt.Errorf("spline system: %w", err)
	}

	sd := make([]float64, n)
	for i := 1; i <= m; i++ {
		sd[i] = sol.AtVec(i - 1)
	}

	knots := make([]float64, n)
	copy(knots, abs)
	coeffs := make([][4]float64, n-1)
	for i := 0; i < n-1; i++ {
		coeffs[i] = [4]float64{
			ord[i],
			(ord[i+1]-ord[i])/h[i] - h[i]*(2*sd[i]+sd[i+1])/6,
			sd[i] / 2,
			(sd[i+1] - sd[i]) / (6 * h[i]),
		}
	}
	return curve.Spline{Knots: knots, Coeffs: coeffs}, nil
}
