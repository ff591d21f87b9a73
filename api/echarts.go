package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// handleOverlay renders an overlay chart (HTML) of the most recent
// analysis using go-echarts: raw cloud, ordered trace and fitted model
// samples as separate scatter series. It is a debugging view; the PNG
// overlay renderer is the canonical presentation output.
func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	cloud := s.lastCloud
	out := s.lastOut
	s.mu.Unlock()

	if out == nil {
		s.writeJSONError(w, http.StatusNotFound, "no analysis available yet; POST /api/analyze first")
		return
	}

	cloudData := make([]opts.ScatterData, 0, len(cloud))
	for _, p := range cloud {
		// Negate Y so the chart matches image orientation (Y grows down).
		cloudData = append(cloudData, opts.ScatterData{Value: []interface{}{p.X, -p.Y}})
	}

	traceData := make([]opts.ScatterData, 0, len(out.Trace))
	for _, p := range out.Trace {
		traceData = append(traceData, opts.ScatterData{Value: []interface{}{p.X, -p.Y}})
	}

	var fitData []opts.ScatterData
	for _, series := range sampleModel(out.Model) {
		for _, p := range series.Points {
			fitData = append(fitData, opts.ScatterData{Value: []interface{}{p.X, -p.Y}})
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Curve Overlay", Width: "900px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{
			Title: "Curve length analysis",
			Subtitle: fmt.Sprintf("length=%.2f%s ±%.2f quality=%s",
				out.Result.Length, out.Result.Unit, out.Result.Uncertainty, out.Result.Quality),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "x (px)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "y (px)"}),
	)

	scatter.AddSeries("cloud", cloudData, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}))
	scatter.AddSeries("trace", traceData, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))
	scatter.AddSeries("fit", fitData, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 2}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
