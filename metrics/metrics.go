// Package metrics registers the Prometheus collectors the live server
// exposes at /metrics: completion counts, response-time distribution, and
// the disk head's current position for dashboards that want to watch a run
// rather than just read its log file.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/diskscan/diskscan/internal/constants"
)

var (
	completionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "completions_total",
			Help:      "Total number of read requests completed, labeled by scheduling algorithm.",
		},
		[]string{"algorithm"},
	)

	responseTimeTicks = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "response_time_ticks",
			Help:      "Response time in ticks (completion tick minus arrival tick), labeled by scheduling algorithm.",
			Buckets:   prometheus.ExponentialBuckets(10, 2, 12),
		},
		[]string{"algorithm"},
	)

	headTrack = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "head_track",
			Help:      "Track the disk head currently occupies.",
		},
	)

	headAngle = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "head_angle_degrees",
			Help:      "Rotational angle of the disk head in degrees.",
		},
	)

	websocketConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "websocket_connections",
			Help:      "Number of open /ws/status connections.",
		},
	)
)

func init() {
	prometheus.MustRegister(completionsTotal, responseTimeTicks, headTrack, headAngle, websocketConnections)
}

// RecordCompletion records a single task's response time against the
// scheduling algorithm that served it.
func RecordCompletion(algorithm string, responseTimeTicksValue int64) {
	completionsTotal.WithLabelValues(algorithm).Inc()
	responseTimeTicks.WithLabelValues(algorithm).Observe(float64(responseTimeTicksValue))
}

// SetHeadPosition updates the gauges tracking the head's current track and
// rotational angle.
func SetHeadPosition(track, angle int) {
	headTrack.Set(float64(track))
	headAngle.Set(float64(angle))
}

// SetWebSocketConnections updates the gauge tracking open status-stream
// connections.
func SetWebSocketConnections(n int) {
	websocketConnections.Set(float64(n))
}
