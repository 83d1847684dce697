// Package metrics exposes Prometheus metrics for the scan pipeline
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains all Prometheus metrics for the scanner
type Metrics struct {
	registry *prometheus.Registry

	// Capture metrics
	FramesReceived prometheus.Counter
	FramesDropped  prometheus.Counter
	FrameRSSI      prometheus.Histogram

	// Decoder metrics
	FramesMatched     prometheus.Counter
	PacksTruncated    prometheus.Counter
	SlotsUnrecognized prometheus.Counter
	Messages          *prometheus.CounterVec

	// Scan metrics
	Scans     *prometheus.CounterVec
	ScanState prometheus.Gauge

	// Sink metrics
	SinkErrors *prometheus.CounterVec
}

// NewMetrics creates all metrics on a fresh registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		FramesReceived: factory.NewCounter(prometheus.CounterOpts{
			Name: "odid_frames_received_total",
			Help: "Total number of management frames received from the capture source",
		}),
		FramesDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "odid_frames_dropped_total",
			Help: "Total number of frames dropped below the RSSI threshold",
		}),
		FrameRSSI: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "odid_frame_rssi_dbm",
			Help:    "Signal strength of frames carrying Remote ID",
			Buckets: prometheus.LinearBuckets(-100, 10, 10),
		}),

		FramesMatched: factory.NewCounter(prometheus.CounterOpts{
			Name: "odid_frames_matched_total",
			Help: "Total number of frames carrying a Remote ID element",
		}),
		PacksTruncated: factory.NewCounter(prometheus.CounterOpts{
			Name: "odid_packs_truncated_total",
			Help: "Total number of message packs cut short by the frame length",
		}),
		SlotsUnrecognized: factory.NewCounter(prometheus.CounterOpts{
			Name: "odid_slots_unrecognized_total",
			Help: "Total number of message slots with an unknown type",
		}),
		Messages: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "odid_messages_total",
			Help: "Total number of decoded Remote ID messages",
		}, []string{"type"}),

		Scans: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "odid_scans_total",
			Help: "Total number of completed scan passes",
		}, []string{"result"}),
		ScanState: factory.NewGauge(prometheus.GaugeOpts{
			Name: "odid_scan_state",
			Help: "Current scan state (0 idle, 1 running, 2 failed)",
		}),

		SinkErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "odid_sink_errors_total",
			Help: "Total number of failed record sink writes",
		}, []string{"sink"}),
	}
}

// RecordFrameReceived increments the received frames counter
func (m *Metrics) RecordFrameReceived() {
	m.FramesReceived.Inc()
}

// RecordFrameDropped increments the dropped frames counter
func (m *Metrics) RecordFrameDropped() {
	m.FramesDropped.Inc()
}

// RecordMatch records a frame carrying Remote ID and its signal strength
func (m *Metrics) RecordMatch(rssi int) {
	m.FramesMatched.Inc()
	m.FrameRSSI.Observe(float64(rssi))
}

// RecordTruncated increments the truncated packs counter
func (m *Metrics) RecordTruncated() {
	m.PacksTruncated.Inc()
}

// RecordUnrecognized adds n unrecognized slots
func (m *Metrics) RecordUnrecognized(n int) {
	m.SlotsUnrecognized.Add(float64(n))
}

// RecordMessage increments the message counter for a type name
func (m *Metrics) RecordMessage(messageType string) {
	m.Messages.WithLabelValues(messageType).Inc()
}

// RecordScan records a finished scan pass
func (m *Metrics) RecordScan(err error) {
	if err != nil {
		m.Scans.WithLabelValues("failed").Inc()
		return
	}
	m.Scans.WithLabelValues("ok").Inc()
}

// SetScanState sets the scan state gauge
func (m *Metrics) SetScanState(state int) {
	m.ScanState.Set(float64(state))
}

// RecordSinkError increments the error counter of a sink
func (m *Metrics) RecordSinkError(sink string) {
	m.SinkErrors.WithLabelValues(sink).Inc()
}

// Registry returns the registry holding the metrics
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
