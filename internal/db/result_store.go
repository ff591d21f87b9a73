package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/curvelab/arclength/internal/curve"
)

// AnalysisRecord is the flat result record persisted per pipeline run.
// It losslessly captures the exportable fields of a CalibratedResult:
// length, unit, error bound, per-segment breakdown and fit scores.
type AnalysisRecord struct {
	ResultID    string                `json:"result_id"`
	Source      string                `json:"source"`
	Length      float64               `json:"length"`
	Uncertainty float64               `json:"uncertainty"`
	Unit        string                `json:"unit"`
	PixelLength float64               `json:"pixel_length"`
	PixelError  float64               `json:"pixel_error"`
	Quality     string                `json:"quality"`
	Segments    []curve.SegmentLength `json:"segments,omitempty"`
	Warnings    []string              `json:"warnings,omitempty"`
	OptionsJSON json.RawMessage       `json:"options_json,omitempty"`
	CreatedAtNs int64                 `json:"created_at_ns"`
}

// NewAnalysisRecord flattens a calibrated result into a storable record.
func NewAnalysisRecord(source string, res curve.CalibratedResult, opts curve.Options) (*AnalysisRecord, error) {
	optsJSON, err := json.Marshal(opts)
	if err != nil {
		return nil, fmt.Errorf("marshal options: %w", err)
	}
	return &AnalysisRecord{
		Source:      source,
		Length:      res.Length,
		Uncertainty: res.Uncertainty,
		Unit:        res.Unit,
		PixelLength: res.Pixels.Total,
		PixelError:  res.Pixels.ErrorBound,
		Quality:     string(res.Quality),
		Segments:    res.Pixels.Segments,
		Warnings:    res.Warnings,
		OptionsJSON: optsJSON,
	}, nil
}

// ResultStore provides persistence for analysis records.
type ResultStore struct {
	db *sql.DB
}

// NewResultStore creates a new ResultStore.
func NewResultStore(db *DB) *ResultStore {
	return &ResultStore{db: db.DB}
}

// InsertResult creates a new record in the database. If rec.ResultID is
// empty, a new UUID is generated.
func (s *ResultStore) InsertResult(rec *AnalysisRecord) error {
	if rec.ResultID == "" {
		rec.ResultID = uuid.New().String()
	}
	if rec.CreatedAtNs == 0 {
		rec.CreatedAtNs = time.Now().UnixNano()
	}

	segments, err := json.Marshal(rec.Segments)
	if err != nil {
		return fmt.Errorf("marshal segments: %w", err)
	}
	warnings, err := json.Marshal(rec.Warnings)
	if err != nil {
		return fmt.Errorf("marshal warnings: %w", err)
	}

	query := `
		INSERT INTO analysis_results (
			result_id, source, length, uncertainty, unit,
			pixel_length, pixel_error, quality,
			segments_json, warnings_json, options_json, created_at_ns
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.Exec(query,
		rec.ResultID,
		rec.Source,
		rec.Length,
		rec.Uncertainty,
		rec.Unit,
		rec.PixelLength,
		rec.PixelError,
		rec.Quality,
		string(segments),
		string(warnings),
		nullString(string(rec.OptionsJSON)),
		rec.CreatedAtNs,
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}

	return nil
}

// GetResult retrieves a record by ID.
func (s *ResultStore) GetResult(resultID string) (*AnalysisRecord, error) {
	query := `
		SELECT result_id, source, length, uncertainty, unit,
		       pixel_length, pixel_error, quality,
		       segments_json, warnings_json, options_json, created_at_ns
		FROM analysis_results
		WHERE result_id = ?
	`
	rec, err := scanRecord(s.db.QueryRow(query, resultID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("result %s not found", resultID)
	}
	return rec, err
}

// ListResults returns the most recent records, newest first.
func (s *ResultStore) ListResults(limit int) ([]*AnalysisRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT result_id, source, length, uncertainty, unit,
		       pixel_length, pixel_error, quality,
		       segments_json, warnings_json, options_json, created_at_ns
		FROM analysis_results
		ORDER BY created_at_ns DESC
		LIMIT ?
	`
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var recs []*AnalysisRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// DeleteResult removes a record by ID.
func (s *ResultStore) DeleteResult(resultID string) error {
	res, err := s.db.Exec(`DELETE FROM analysis_results WHERE result_id = ?`, resultID)
	if err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("result %s not found", resultID)
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*AnalysisRecord, error) {
	var rec AnalysisRecord
	var segments, warnings string
	var options sql.NullString

	err := row.Scan(
		&rec.ResultID,
		&rec.Source,
		&rec.Length,
		&rec.Uncertainty,
		&rec.Unit,
		&rec.PixelLength,
		&rec.PixelError,
		&rec.Quality,
		&segments,
		&warnings,
		&options,
		&rec.CreatedAtNs,
	)
	if err != nil {
		return nil, err
	}

	if segments != "" {
		if err := json.Unmarshal([]byte(segments), &rec.Segments); err != nil {
			return nil, fmt.Errorf("unmarshal segments: %w", err)
		}
	}
	if warnings != "" {
		if err := json.Unmarshal([]byte(warnings), &rec.Warnings); err != nil {
			return nil, fmt.Errorf("unmarshal warnings: %w", err)
		}
	}
	if options.Valid {
		rec.OptionsJSON = json.RawMessage(options.String)
	}
	return &rec, nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
