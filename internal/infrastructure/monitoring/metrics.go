package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics (debug server)
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Seat registry metrics
	Seats        prometheus.Gauge
	SeatsStarted prometheus.Gauge
	GCQueueDepth prometheus.Gauge

	// Seat lifecycle metrics
	SeatStarts      prometheus.Counter
	SeatStops       prometheus.Counter
	SessionsStopped prometheus.Counter
	GCCollected     prometheus.Counter

	// Console tracking metrics
	VTSwitches  prometheus.Counter
	ACLFailures prometheus.Counter

	// Persistence metrics
	StateSaves      prometheus.Counter
	StateSaveErrors prometheus.Counter

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a new metrics collector on the default registry
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates a metrics collector registered on reg. Tests
// pass a fresh registry so repeated construction does not collide.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "usherd_http_requests_total",
				Help: "Total number of debug server HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "usherd_http_request_duration_seconds",
				Help:    "Debug server HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		// Seat registry metrics
		Seats: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "usherd_seats",
				Help: "Number of seats in the registry",
			},
		),
		SeatsStarted: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "usherd_seats_started",
				Help: "Number of started seats",
			},
		),
		GCQueueDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "usherd_gc_queue_depth",
				Help: "Number of seats queued for garbage collection",
			},
		),

		// Seat lifecycle metrics
		SeatStarts: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "usherd_seat_starts_total",
				Help: "Total number of seat starts",
			},
		),
		SeatStops: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "usherd_seat_stops_total",
				Help: "Total number of seat stops",
			},
		),
		SessionsStopped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "usherd_sessions_stopped_total",
				Help: "Total number of sessions stopped during seat shutdown",
			},
		),
		GCCollected: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "usherd_gc_collected_total",
				Help: "Total number of seats destroyed by the GC sweep",
			},
		),

		// Console tracking metrics
		VTSwitches: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "usherd_vt_switches_total",
				Help: "Total number of resolved active VT changes",
			},
		),
		ACLFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "usherd_acl_failures_total",
				Help: "Total number of failed device ACL transitions",
			},
		),

		// Persistence metrics
		StateSaves: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "usherd_state_saves_total",
				Help: "Total number of seat state file writes",
			},
		),
		StateSaveErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "usherd_state_save_errors_total",
				Help: "Total number of failed seat state file writes",
			},
		),

		// System metrics
		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "usherd_uptime_seconds",
				Help: "Daemon uptime in seconds",
			},
		),
	}

	// Start uptime updater
	go m.updateUptime()

	return m
}

// updateUptime continuously updates the uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records a debug server HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// SetSeats sets the number of seats in the registry
func (m *Metrics) SetSeats(count int) {
	m.Seats.Set(float64(count))
}

// SetSeatsStarted sets the number of started seats
func (m *Metrics) SetSeatsStarted(count int) {
	m.SeatsStarted.Set(float64(count))
}

// SetGCQueueDepth sets the garbage collection queue depth
func (m *Metrics) SetGCQueueDepth(count int) {
	m.GCQueueDepth.Set(float64(count))
}

// IncSeatStarts increments the seat starts counter
func (m *Metrics) IncSeatStarts() {
	m.SeatStarts.Inc()
}

// IncSeatStops increments the seat stops counter
func (m *Metrics) IncSeatStops() {
	m.SeatStops.Inc()
}

// IncSessionsStopped increments the stopped sessions counter
func (m *Metrics) IncSessionsStopped() {
	m.SessionsStopped.Inc()
}

// IncGCCollected increments the collected seats counter
func (m *Metrics) IncGCCollected() {
	m.GCCollected.Inc()
}

// IncVTSwitches increments the VT switch counter
func (m *Metrics) IncVTSwitches() {
	m.VTSwitches.Inc()
}

// IncACLFailures increments the ACL failure counter
func (m *Metrics) IncACLFailures() {
	m.ACLFailures.Inc()
}

// IncStateSaves increments the state save counter
func (m *Metrics) IncStateSaves() {
	m.StateSaves.Inc()
}

// IncStateSaveErrors increments the state save error counter
func (m *Metrics) IncStateSaveErrors() {
	m.StateSaveErrors.Inc()
}
