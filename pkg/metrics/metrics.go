package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API metrics
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "plasticity_request_duration_seconds",
			Help: "Time spent waiting for Plasticity API responses",
		},
		[]string{"endpoint"},
	)

	RequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plasticity_request_errors_total",
			Help: "Total number of failed Plasticity API requests",
		},
		[]string{"endpoint", "error_type"},
	)

	// Decode metrics
	SegmentsDecoded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sapien_segments_decoded_total",
			Help: "Number of sentences and sentence groups decoded from core responses",
		},
		[]string{"segment_type"},
	)

	MalformedPayloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sapien_malformed_payloads_total",
		Help: "Number of responses that could not be parsed as JSON objects",
	})

	// Pipeline metrics
	PipelineQueueLength = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pipeline_queue_length",
		Help: "Number of documents waiting to be analyzed",
	})

	DocumentProcessingErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_processing_errors_total",
			Help: "Total number of document processing errors",
		},
		[]string{"processor", "error_type"},
	)

	// Graph metrics
	GraphNodeCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "graph_nodes_total",
			Help: "Total number of nodes in the generated graph",
		},
		[]string{"node_type"},
	)

	GraphEdgeCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "graph_edges_total",
			Help: "Total number of edges in the generated graph",
		},
		[]string{"edge_type"},
	)
)

var (
	// System metrics
	SystemMemoryUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "system_memory_bytes",
		Help: "Current system memory usage",
	})

	SystemGoroutines = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "system_goroutines",
		Help: "Number of goroutines",
	})
)

// UpdateSystemMetrics samples memory and goroutine counts.
func UpdateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	SystemMemoryUsage.Set(float64(m.Alloc))
	SystemGoroutines.Set(float64(runtime.NumGoroutine()))
}
