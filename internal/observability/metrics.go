package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	targetsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sedfit",
			Subsystem: "pipeline",
			Name:      "targets_total",
			Help:      "Targets processed, by outcome.",
		},
		[]string{"status"},
	)
	targetDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sedfit",
			Subsystem: "pipeline",
			Name:      "target_duration_seconds",
			Help:      "Per-target pipeline duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"status"},
	)
	graphNodes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "sedfit",
			Subsystem: "model",
			Name:      "graph_nodes",
			Help:      "Parameter graph size in nodes.",
			Buckets:   prometheus.LinearBuckets(8, 8, 8),
		},
	)
	kernelPixels = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "sedfit",
			Subsystem: "lsf",
			Name:      "kernel_pixels",
			Help:      "Resolution kernel size in pixels.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(targetsTotal, targetDuration, graphNodes, kernelPixels)
	})
}

func RecordTarget(status string, duration time.Duration) {
	RegisterMetrics()
	targetsTotal.WithLabelValues(status).Inc()
	targetDuration.WithLabelValues(status).Observe(duration.Seconds())
}

func RecordGraphBuild(nodes int) {
	RegisterMetrics()
	graphNodes.Observe(float64(nodes))
}

func RecordKernel(pixels int) {
	RegisterMetrics()
	kernelPixels.Observe(float64(pixels))
}
