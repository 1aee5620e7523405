// Package telemetry records warp runs as Prometheus metrics.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder observes warp jobs. Implementations must be safe for concurrent
// use.
type Recorder interface {
	// ObserveWarp records a finished warp of the given mode.
	ObserveWarp(mode string, elapsed time.Duration, canvasPixels int)
	// ObserveFailure records a job that failed; kind is a short error class.
	ObserveFailure(mode, kind string)
}

// Nop discards observations.
type Nop struct{}

// ObserveWarp does nothing.
func (Nop) ObserveWarp(string, time.Duration, int) {}

// ObserveFailure does nothing.
func (Nop) ObserveFailure(string, string) {}

// Metrics is a Recorder backed by its own Prometheus registry.
type Metrics struct {
	reg      *prometheus.Registry
	warps    *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
	pixels   prometheus.Counter
}

// NewMetrics creates and registers the imgwarp collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		warps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "imgwarp",
			Name:      "warps_total",
			Help:      "Completed warps by mode.",
		}, []string{"mode"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "imgwarp",
			Name:      "failures_total",
			Help:      "Failed jobs by mode and error kind.",
		}, []string{"mode", "kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "imgwarp",
			Name:      "warp_duration_seconds",
			Help:      "Wall time of a single warp.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"mode"}),
		pixels: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "imgwarp",
			Name:      "canvas_pixels_total",
			Help:      "Output canvas pixels resampled.",
		}),
	}
	m.reg.MustRegister(m.warps, m.failures, m.duration, m.pixels)
	return m
}

// ObserveWarp counts the warp, records its duration and adds canvasPixels to
// imgwarp_canvas_pixels_total. canvasPixels is the full canvas, not the
// cropped output of a reflection.
func (m *Metrics) ObserveWarp(mode string, elapsed time.Duration, canvasPixels int) {
	m.warps.WithLabelValues(mode).Inc()
	m.duration.WithLabelValues(mode).Observe(elapsed.Seconds())
	m.pixels.Add(float64(canvasPixels))
}

// ObserveFailure counts a failed job under its mode and error kind.
func (m *Metrics) ObserveFailure(mode, kind string) {
	m.failures.WithLabelValues(mode, kind).Inc()
}

// Registry exposes the underlying registry, e.g. for promhttp.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// WriteFile writes the current values in the text exposition format, for
// node_exporter's textfile collector.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
