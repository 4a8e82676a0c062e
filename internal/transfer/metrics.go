package transfer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records one run for the node_exporter textfile collector.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	backedUp prometheus.Gauge
	restored *prometheus.CounterVec
	polls    prometheus.Counter
	edits    prometheus.Counter
	success  prometheus.Gauge
	lastRun  prometheus.Gauge
	duration prometheus.Gauge
}

func NewMetrics(flow string) *Metrics {
	labels := prometheus.Labels{"flow": flow}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		backedUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "camera_preset_backed_up", Help: "Presets captured by the last backup.", ConstLabels: labels,
		}),
		restored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "camera_preset_restored_total", Help: "Presets stored during restore by outcome.", ConstLabels: labels,
		}, []string{"outcome"}),
		polls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "camera_preset_position_polls_total", Help: "Live position reads during restore.", ConstLabels: labels,
		}),
		edits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "camera_preset_list_position_edits_total", Help: "List position corrections issued.", ConstLabels: labels,
		}),
		success: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "camera_preset_last_run_success", Help: "1 if the last run completed without error.", ConstLabels: labels,
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "camera_preset_last_run_timestamp_seconds", Help: "Unix time the last run finished.", ConstLabels: labels,
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "camera_preset_last_run_duration_seconds", Help: "Wall clock time of the last run.", ConstLabels: labels,
		}),
	}
	m.registry.MustRegister(m.backedUp, m.restored, m.polls, m.edits, m.success, m.lastRun, m.duration)
	return m
}

// Registry exposes the collectors for tests and for writing.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile atomically writes the metrics in text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) observeBackup(n int) {
	if m == nil {
		return
	}
	m.backedUp.Set(float64(n))
}

func (m *Metrics) observePoll() {
	if m == nil {
		return
	}
	m.polls.Inc()
}

func (m *Metrics) observeOutcome(o Outcome) {
	if m == nil {
		return
	}
	outcome := "converged"
	if !o.Converged {
		outcome = "best_effort"
	}
	m.restored.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeEdit() {
	if m == nil {
		return
	}
	m.edits.Inc()
}

func (m *Metrics) finish(start time.Time, err error) {
	if m == nil {
		return
	}
	if err == nil || IsTerminal(err) {
		m.success.Set(1)
	} else {
		m.success.Set(0)
	}
	now := time.Now()
	m.lastRun.Set(float64(now.Unix()))
	m.duration.Set(now.Sub(start).Seconds())
}
