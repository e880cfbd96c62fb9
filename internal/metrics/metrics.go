// Package metrics exposes the outcome of an analytics run as Prometheus gauges.
//
// Each run owns a private registry. The CLI writes it to a node-exporter textfile
// when --metrics-file is set:
//
//	m := metrics.NewRunMetrics()
//	m.Observe("insights", stats, callouts, duration)
//	err := m.WriteTextfile("/var/lib/node_exporter/questlog.prom")
package metrics

import (
	"fmt"
	"time"

	"github.com/huangsam/questlog/schema"
	"github.com/prometheus/client_golang/prometheus"
)

// RunMetrics holds the gauges of one run.
type RunMetrics struct {
	registry *prometheus.Registry

	Games         *prometheus.GaugeVec
	Sessions      *prometheus.GaugeVec
	Skipped       *prometheus.GaugeVec
	Duration      *prometheus.GaugeVec
	Callouts      *prometheus.GaugeVec
	LastTimestamp *prometheus.GaugeVec
}

// NewRunMetrics creates and registers the run gauges on a fresh registry.
func NewRunMetrics() *RunMetrics {
	m := &RunMetrics{
		registry: prometheus.NewRegistry(),
		Games: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "questlog_run_games",
			Help: "Games in the snapshot analyzed by the last run",
		}, []string{"command"}),
		Sessions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "questlog_run_sessions",
			Help: "Play sessions in the snapshot analyzed by the last run",
		}, []string{"command"}),
		Skipped: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "questlog_run_skipped_records",
			Help: "Records excluded from the last run's aggregates",
		}, []string{"command"}),
		Duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "questlog_run_duration_seconds",
			Help: "Wall time of the last run in seconds",
		}, []string{"command"}),
		Callouts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "questlog_run_callouts",
			Help: "Engagement callouts detected by the last run, by type",
		}, []string{"command", "type"}),
		LastTimestamp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "questlog_run_last_timestamp_seconds",
			Help: "Unix time the last run completed",
		}, []string{"command"}),
	}
	m.registry.MustRegister(m.Games, m.Sessions, m.Skipped, m.Duration, m.Callouts, m.LastTimestamp)
	return m
}

// Observe records one completed run.
func (m *RunMetrics) Observe(command string, stats schema.RunStats, callouts []schema.Callout, duration time.Duration) {
	m.Games.WithLabelValues(command).Set(float64(stats.TotalGames))
	m.Sessions.WithLabelValues(command).Set(float64(stats.TotalSessions))
	m.Skipped.WithLabelValues(command).Set(float64(stats.SkippedRecords))
	m.Duration.WithLabelValues(command).Set(duration.Seconds())
	m.LastTimestamp.WithLabelValues(command).SetToCurrentTime()

	// Every type gets a sample so a quiet run resets the previous count
	counts := map[schema.CalloutType]int{
		schema.SpikeCallout:   0,
		schema.DipCallout:     0,
		schema.BurnoutCallout: 0,
	}
	for _, c := range callouts {
		counts[c.Type]++
	}
	for typ, n := range counts {
		m.Callouts.WithLabelValues(command, string(typ)).Set(float64(n))
	}
}

// Registry returns the registry holding the run gauges.
func (m *RunMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the gauges in the text exposition format, replacing path atomically.
func (m *RunMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
