package metrics

import (
	"time"
)

// Status label values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// RecordOperation records a finished codec operation.
// variant and communities are only recorded on success.
func (r *Registry) RecordOperation(format, operation, variant string, communities int, duration time.Duration, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}

	r.OperationsTotal.WithLabelValues(format, operation, status).Inc()
	r.OperationDuration.WithLabelValues(format, operation).Observe(duration.Seconds())

	if err != nil {
		return
	}
	r.Communities.WithLabelValues(format, operation).Observe(float64(communities))
	r.PartitionsByKind.WithLabelValues(format, operation, variant).Inc()
}
