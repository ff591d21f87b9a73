package curve

import "fmt"

// InsufficientPointsError reports a point cloud too small to order into a
// polyline. This aborts the pipeline; there is nothing to recover.
type InsufficientPointsError struct {
	Got int
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("insufficient points: got %d, need at least 2", e.Got)
}

// DisconnectedCurveError reports that no single connected component of
// the proximity graph covers the configured fraction of the cloud. It is
// recoverable: the largest component is still usable and callers should
// continue with a degraded quality flag.
type DisconnectedCurveError struct {
	Components int     // number of connected components found
	Coverage   float64 // fraction of points covered by the largest component
}

func (e *DisconnectedCurveError) Error() string {
	return fmt.Sprintf("disconnected curve: %d components, best covers %.0f%% of points",
		e.Components, e.Coverage*100)
}

// DegenerateFitError reports that a segment's independent-variable values
// are not strictly increasing, so a graph-form fit y=f(x) is impossible.
// Callers should re-segment using arclength parametrization and retry.
type DegenerateFitError struct {
	Index int     // point index at which monotonicity breaks
	Value float64 // offending abscissa value
}

func (e *DegenerateFitError) Error() string {
	return fmt.Sprintf("degenerate fit: abscissa not strictly increasing at point %d (value %g)",
		e.Index, e.Value)
}

// InvalidScaleError reports a non-positive calibration scale. This is a
// user input error and fatal to the pipeline run.
type InvalidScaleError struct {
	Scale float64
}

func (e *InvalidScaleError) Error() string {
	return fmt.Sprintf("invalid calibration scale %g: must be > 0", e.Scale)
}
