package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SchedulesComputed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ganttcore_schedules_computed_total",
		Help: "Total number of schedule computations, labelled by project ID.",
	}, []string{"project_id"})

	CyclesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ganttcore_cycles_rejected_total",
		Help: "Total number of mutations rejected because they would close a dependency cycle.",
	})

	EditsCommitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ganttcore_edits_committed_total",
		Help: "Total number of successfully committed schedule edits.",
	})

	EditsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ganttcore_edits_rejected_total",
		Help: "Total number of rejected schedule edits, labelled by reason.",
	}, []string{"reason"})

	RequestsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ganttcore_requests_dropped_total",
		Help: "Total number of compute requests rejected due to a full queue.",
	})

	ComputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ganttcore_compute_duration_ms",
		Help:    "End-to-end schedule computation latency in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})

	QueueUtilization = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ganttcore_queue_utilization_ratio",
		Help: "Current compute queue utilization (0–1).",
	})
)
