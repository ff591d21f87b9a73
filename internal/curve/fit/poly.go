package fit

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/curvelab/arclength/internal/curve"
)

// fitPolynomial fits a least-squares polynomial of the requested degree
// to (abs, ord). The degree is capped below the point count minus one so
// short segments never overfit; the abscissa is centered on the interval
// midpoint before building the Vandermonde matrix.
func fitPolynomial(abs, ord []float64, degree int) (curve.Model, float64, error) {
	n := len(abs)
	if degree > n-1 {
		degree = n - 1
	}
	if degree < 1 {
		degree = 1
	}

	t0 := (abs[0] + abs[n-1]) / 2

	a := mat.NewDense(n, degree+1, nil)
	b := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		u := abs[i] - t0
		pow := 1.0
		for j := 0; j <= degree; j++ {
			a.Set(i, j, pow)
			pow *= u
		}
		b.SetVec(i, ord[i])
	}

	var qr mat.QR
	qr.Factorize(a)
	var sol mat.VecDense
	if err := qr.SolveVecTo(&sol, false, b); err != nil {
		return nil, 0, fmt.Errorf("polynomial least squares: %w", err)
	}

	coeffs := make([]float64, degree+1)
	for j := range coeffs {
		coeffs[j] = sol.AtVec(j)
	}
	p := curve.Polynomial{
		Coeffs: coeffs,
		T0:     t0,
		A:      abs[0],
		B:      abs[n-1],
	}
	return p, residualScore(p, abs, ord), nil
}

// residualScore is the normalized residual sum of squares: the mean of
// the squared residuals.
func residualScore(m curve.Model, abs, ord []float64) float64 {
	sq := make([]float64, len(abs))
	for i, t := range abs {
		r := m.Eval(t) - ord[i]
		sq[i] = r * r
	}
	return stat.Mean(sq, nil)
}
