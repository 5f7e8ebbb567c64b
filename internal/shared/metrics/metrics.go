package metrics

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "covercraft"

var (
	GenerationStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "generation_started_total", Help: "Generation requests that reached the LLM call, by document kind."},
		[]string{"kind"},
	)
	GenerationFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "generation_failed_total", Help: "Failed generation requests, by document kind and error kind."},
		[]string{"kind", "reason"},
	)
	GenerationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Latency of the upstream text-generation call.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"kind"},
	)
	QuarantinedOutputs = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "quarantined_outputs_total", Help: "Model outputs rejected by the resume schema and quarantined."},
	)
	DocumentOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "document_operations_total", Help: "Document store operations, by op and result."},
		[]string{"op", "result"},
	)
)

var registerOnce sync.Once

// RegisterCollectors registers the service collectors with reg.
func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(GenerationStarted, GenerationFailed, GenerationDuration, QuarantinedOutputs, DocumentOps)
}

// RegisterDefault registers the collectors with the default registry once per process.
func RegisterDefault() {
	registerOnce.Do(func() {
		RegisterCollectors(prometheus.DefaultRegisterer)
	})
}

// ObserveGeneration records the duration of an upstream call started at start.
func ObserveGeneration(kind string, start time.Time) {
	GenerationDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
