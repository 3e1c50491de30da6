// Package metrics provides Prometheus metrics for the attendance kiosk.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the kiosk's Prometheus instruments. One instance is built
// at startup and shared by the orchestrator and the web handlers.
type Metrics struct {
	registry *prometheus.Registry

	FramesProcessed prometheus.Counter
	FrameErrors     prometheus.Counter
	FacesDetected   prometheus.Counter
	MarksAccepted   prometheus.Counter
	MarksDuplicate  prometheus.Counter
	UnknownFaces    prometheus.Counter
	RosterSize      prometheus.Gauge
	PresentToday    prometheus.Gauge
}

// New creates the metrics set on its own registry, avoiding the default
// registry's Go runtime collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	auto := promauto.With(registry)

	return &Metrics{
		registry: registry,
		FramesProcessed: auto.NewCounter(prometheus.CounterOpts{
			Namespace: "kiosk",
			Name:      "frames_processed_total",
			Help:      "Total number of frames received and processed",
		}),
		FrameErrors: auto.NewCounter(prometheus.CounterOpts{
			Namespace: "kiosk",
			Name:      "frame_errors_total",
			Help:      "Total number of frames that failed to decode or encode",
		}),
		FacesDetected: auto.NewCounter(prometheus.CounterOpts{
			Namespace: "kiosk",
			Name:      "faces_detected_total",
			Help:      "Total number of faces the encoder reported across all frames",
		}),
		MarksAccepted: auto.NewCounter(prometheus.CounterOpts{
			Namespace: "kiosk",
			Name:      "marks_accepted_total",
			Help:      "Total number of first-seen-today attendance marks",
		}),
		MarksDuplicate: auto.NewCounter(prometheus.CounterOpts{
			Namespace: "kiosk",
			Name:      "marks_duplicate_total",
			Help:      "Total number of marks rejected because the name was already marked today",
		}),
		UnknownFaces: auto.NewCounter(prometheus.CounterOpts{
			Namespace: "kiosk",
			Name:      "unknown_faces_total",
			Help:      "Total number of detected faces that matched no roster entry",
		}),
		RosterSize: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: "kiosk",
			Name:      "roster_size",
			Help:      "Number of enrolled roster entries",
		}),
		PresentToday: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: "kiosk",
			Name:      "present_today",
			Help:      "Distinct names marked present today, as of the last count query",
		}),
	}
}

// Handler returns the HTTP handler serving this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
