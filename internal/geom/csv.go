package geom

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ReadPointCloudCSV reads a point cloud from a two-column "x,y" CSV file.
// A single header row is tolerated and skipped when the first field does
// not parse as a number.
func ReadPointCloudCSV(path string) (PointCloud, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open point cloud: %w", err)
	}
	defer f.Close()
	return ParsePointCloudCSV(f)
}

// ParsePointCloudCSV parses "x,y" rows from r. See ReadPointCloudCSV.
func ParsePointCloudCSV(r io.Reader) (PointCloud, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var cloud PointCloud
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV row: %w", err)
		}
		line++
		if len(rec) < 2 {
			return nil, fmt.Errorf("row %d: expected 2 fields, got %d", line, len(rec))
		}
		x, errX := strconv.ParseFloat(rec[0], 64)
		y, errY := strconv.ParseFloat(rec[1], 64)
		if errX != nil || errY != nil {
			// Tolerate one header row.
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("row %d: non-numeric coordinates %q,%q", line, rec[0], rec[1])
		}
		cloud = append(cloud, Point2D{X: x, Y: y})
	}
	return cloud, nil
}

// WritePointsCSV writes points as "x,y" rows with a header, the same
// layout ReadPointCloudCSV accepts.
func WritePointsCSV(w io.Writer, pts []Point2D) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y"}); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}
	for _, p := range pts {
		rec := []string{
			strconv.FormatFloat(p.X, 'g', -1, 64),
			strconv.FormatFloat(p.Y, 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePointsFile writes points to a CSV file at path.
func WritePointsFile(path string, pts []Point2D) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create CSV file: %w", err)
	}
	defer f.Close()
	return WritePointsCSV(f, pts)
}
