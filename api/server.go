// Package api exposes the curve-length pipeline over HTTP: analyze a
// point cloud, browse stored results, and view a quick overlay chart.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/curvelab/arclength/internal/config"
	"github.com/curvelab/arclength/internal/curve"
	"github.com/curvelab/arclength/internal/curve/pipeline"
	"github.com/curvelab/arclength/internal/db"
	"github.com/curvelab/arclength/internal/geom"
	"github.com/curvelab/arclength/internal/units"
)

// Server handles HTTP requests for analysis and stored results.
type Server struct {
	store    *db.ResultStore
	defaults curve.Options

	// Last analysis kept for the overlay page.
	mu        sync.Mutex
	lastCloud geom.PointCloud
	lastOut   *pipeline.Output
}

// NewServer creates a Server. store may be nil, in which case results
// are computed but not persisted and the results endpoints report 404.
func NewServer(store *db.ResultStore, defaults curve.Options) *Server {
	return &Server{
		store:    store,
		defaults: defaults,
	}
}

// ServeMux returns the route table for the server.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/results", s.handleListResults)
	mux.HandleFunc("/api/results/", s.handleGetResult)
	mux.HandleFunc("/overlay", s.handleOverlay)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/", s.homeHandler)
	return mux
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("curve length analysis server\n"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// analyzeRequest is the POST /api/analyze body: a point cloud plus
// optional tuning overrides in the same schema as the config file.
type analyzeRequest struct {
	Source  string               `json:"source,omitempty"`
	Points  []geom.Point2D       `json:"points"`
	Tuning  *config.TuningConfig `json:"tuning,omitempty"`
	Persist bool                 `json:"persist,omitempty"`
}

// analyzeResponse carries the calibrated result plus the data the
// presentation layer needs for rendering: the ordered trace and sampled
// model polylines.
type analyzeResponse struct {
	Result    curve.CalibratedResult `json:"result"`
	Trace     geom.Polyline          `json:"trace"`
	Fit       []fitSeries            `json:"fit"`
	ResultID  string                 `json:"result_id,omitempty"`
	Persisted bool                   `json:"persisted"`
}

// fitSeries is one fitted curve sampled for overlay rendering.
type fitSeries struct {
	Param  curve.Parametrization `json:"param"`
	Score  float64               `json:"score"`
	Points []geom.Point2D        `json:"points"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	opts := s.defaults
	if req.Tuning != nil {
		var err error
		opts, err = req.Tuning.Apply(opts)
		if err != nil {
			s.writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	out, err := pipeline.Run(r.Context(), geom.PointCloud(req.Points), opts)
	if err != nil {
		s.writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	s.lastCloud = geom.PointCloud(req.Points)
	s.lastOut = &out
	s.mu.Unlock()

	resp := analyzeResponse{
		Result: out.Result,
		Trace:  out.Trace,
		Fit:    sampleModel(out.Model),
	}

	if req.Persist && s.store != nil {
		rec, err := db.NewAnalysisRecord(req.Source, out.Result, opts)
		if err == nil {
			err = s.store.InsertResult(rec)
		}
		if err != nil {
			log.Printf("failed to persist result: %v", err)
		} else {
			resp.ResultID = rec.ResultID
			resp.Persisted = true
		}
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.store == nil {
		s.writeJSONError(w, http.StatusNotFound, "no result store configured")
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 1000 {
			limit = v
		}
	}

	recs, err := s.store.ListResults(limit)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list results: %v", err))
		return
	}
	s.writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.store == nil {
		s.writeJSONError(w, http.StatusNotFound, "no result store configured")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/results/")
	if id == "" {
		s.writeJSONError(w, http.StatusBadRequest, "missing result id")
		return
	}

	rec, err := s.store.GetResult(id)
	if err != nil {
		s.writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}

	// Optional on-the-fly unit conversion, e.g. ?unit=cm. Pixel results
	// have no physical size and cannot be converted.
	if target := r.URL.Query().Get("unit"); target != "" && target != rec.Unit {
		if !units.IsValid(target) {
			s.writeJSONError(w, http.StatusBadRequest,
				fmt.Sprintf("invalid unit %q (valid: %s)", target, units.GetValidUnitsString()))
			return
		}
		if rec.Unit == units.PX || target == units.PX {
			s.writeJSONError(w, http.StatusBadRequest,
				fmt.Sprintf("cannot convert between %q and %q", rec.Unit, target))
			return
		}
		rec.Length = units.ConvertLength(units.ToMeters(rec.Length, rec.Unit), target)
		rec.Uncertainty = units.ConvertLength(units.ToMeters(rec.Uncertainty, rec.Unit), target)
		rec.Unit = target
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// sampleModel samples each fitted curve densely enough for overlay
// rendering without shipping model internals over the wire.
func sampleModel(model curve.PiecewiseModel) []fitSeries {
	const samples = 64
	out := make([]fitSeries, 0, len(model.Curves))
	for _, fc := range model.Curves {
		a, b := fc.Domain()
		pts := make([]geom.Point2D, samples+1)
		for i := 0; i <= samples; i++ {
			t := a + (b-a)*float64(i)/samples
			pts[i] = fc.Point(t)
		}
		out = append(out, fitSeries{Param: fc.Param, Score: fc.Score, Points: pts})
	}
	return out
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// Serve runs the HTTP server until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.ServeMux(),
	}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()
	log.Printf("listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
