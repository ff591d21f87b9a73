package curve

// Quality summarises the warnings a result accumulated on its way through
// the pipeline.
type Quality string

const (
	// QualityOK means no warnings were raised at any stage.
	QualityOK Quality = "ok"
	// QualityDegraded means recoverable conditions occurred (disconnected
	// cloud, non-converged quadrature, boundary reconciliation beyond the
	// continuity tolerance) and the result is best-effort.
	QualityDegraded Quality = "degraded"
	// QualityFailed means the pipeline could not produce a usable result.
	QualityFailed Quality = "failed"
)

// Worse returns the more severe of q and other.
func (q Quality) Worse(other Quality) Quality {
	if q == QualityFailed || other == QualityFailed {
		return QualityFailed
	}
	if q == QualityDegraded || other == QualityDegraded {
		return QualityDegraded
	}
	return QualityOK
}
