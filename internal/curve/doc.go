// Package curve defines the shared data model for the curve-length
// estimation pipeline: segments, fitted models, length estimates and the
// error taxonomy.
//
// The pipeline stages live in subpackages (order, segment, fit, arclen,
// calibrate) and are composed by curve/pipeline. Stage packages import
// curve and geom but never each other, mirroring a layered flow where
// each stage consumes the previous stage's output record:
//
//	PointCloud → Polyline → []Segment → PiecewiseModel → LengthEstimate → CalibratedResult
//
// Every stage is a pure function over plain data records; all tuning
// parameters travel in an explicit Options value, so independent runs can
// be parallelized without shared state.
package curve
