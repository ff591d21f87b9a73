// Package overlay renders analysis overlays for the presentation
// collaborator: the raw point cloud, the ordered trace and the fitted
// piecewise model drawn into one PNG.
package overlay

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/curvelab/arclength/internal/curve"
	"github.com/curvelab/arclength/internal/geom"
)

// samplesPerCurve controls how densely each fitted curve is sampled when
// drawn. The fitted models are cheap closed forms, so a generous count
// keeps the overlay smooth at any zoom.
const samplesPerCurve = 64

var (
	cloudColor = color.RGBA{R: 160, G: 160, B: 160, A: 255}
	traceColor = color.RGBA{R: 66, G: 135, B: 245, A: 255}
	modelColor = color.RGBA{R: 220, G: 57, B: 18, A: 255}
)

// Render writes a PNG overlay to path. Any of cloud, trace and model may
// be empty; whatever is present is drawn.
func Render(path string, cloud geom.PointCloud, trace geom.Polyline, model curve.PiecewiseModel) error {
	p := plot.New()
	p.Title.Text = "curve length analysis"
	p.X.Label.Text = "x (px)"
	p.Y.Label.Text = "y (px)"
	// Image pixel coordinates grow downward.
	p.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}

	if len(cloud) > 0 {
		scatter, err := plotter.NewScatter(toXYs(cloud))
		if err != nil {
			return fmt.Errorf("cloud scatter: %w", err)
		}
		scatter.GlyphStyle.Color = cloudColor
		scatter.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(scatter)
		p.Legend.Add("points", scatter)
	}

	if len(trace) > 1 {
		line, err := plotter.NewLine(toXYs(trace))
		if err != nil {
			return fmt.Errorf("trace line: %w", err)
		}
		line.Color = traceColor
		line.Width = vg.Points(0.75)
		line.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
		p.Add(line)
		p.Legend.Add("trace", line)
	}

	for i, fc := range model.Curves {
		line, err := plotter.NewLine(sampleCurve(fc))
		if err != nil {
			return fmt.Errorf("model line %d: %w", i, err)
		}
		line.Color = modelColor
		line.Width = vg.Points(1.5)
		p.Add(line)
		if i == 0 {
			p.Legend.Add("fit", line)
		}
	}

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save overlay: %w", err)
	}
	return nil
}

func toXYs(pts []geom.Point2D) plotter.XYs {
	xys := make(plotter.XYs, len(pts))
	for i, p := range pts {
		xys[i] = plotter.XY{X: p.X, Y: p.Y}
	}
	return xys
}

func sampleCurve(fc curve.FittedCurve) plotter.XYs {
	a, b := fc.Domain()
	xys := make(plotter.XYs, samplesPerCurve+1)
	for i := 0; i <= samplesPerCurve; i++ {
		t := a + (b-a)*float64(i)/samplesPerCurve
		pt := fc.Point(t)
		xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	return xys
}
