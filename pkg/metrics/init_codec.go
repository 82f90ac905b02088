package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initCodecMetrics() {
	r.OperationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "operations_total",
			Help:      "Total number of partition read/write operations",
		},
		[]string{"format", "operation", "status"},
	)

	r.OperationDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Partition read/write duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
		[]string{"format", "operation"},
	)

	r.Communities = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "communities",
			Help:      "Number of communities per partition read or written",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"format", "operation"},
	)

	r.PartitionsByKind = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "partitions_total",
			Help:      "Partitions successfully read or written, by clustering variant",
		},
		[]string{"format", "operation", "variant"},
	)
}
