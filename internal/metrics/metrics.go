// Package metrics collects per-run counters for batch jobs and exports them in
// the Prometheus text format, for pickup by a node exporter textfile collector.
package metrics

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/omega-x/kgprep/internal/utils"
)

// Metrics bundles the counters of one kgprep invocation.
type Metrics struct {
	registry *prometheus.Registry

	RowsProcessed prometheus.Counter
	DeviceTables  prometheus.Counter
	FilesFailed   prometheus.Counter
	Warnings      *prometheus.CounterVec
	RunDuration   prometheus.Histogram
	LastRun       prometheus.Gauge
}

// New constructs metrics on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RowsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kgprep_rows_processed_total",
			Help: "Source rows read by split runs",
		}),
		DeviceTables: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kgprep_device_tables_total",
			Help: "Per-device tables produced",
		}),
		FilesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kgprep_files_failed_total",
			Help: "Input files that could not be processed",
		}),
		Warnings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kgprep_warnings_total",
				Help: "Recoverable problems by pipeline stage",
			},
			[]string{"stage"},
		),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kgprep_file_duration_seconds",
			Help:    "Time spent processing one input file",
			Buckets: prometheus.DefBuckets,
		}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "kgprep_last_run_timestamp_seconds",
			Help: "Unix time at which the last run finished",
		}),
	}
	m.registry.MustRegister(
		m.RowsProcessed,
		m.DeviceTables,
		m.FilesFailed,
		m.Warnings,
		m.RunDuration,
		m.LastRun,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveFile records one processed input file.
func (m *Metrics) ObserveFile(rows, tables int, warnings map[string]int, took time.Duration) {
	m.RowsProcessed.Add(float64(rows))
	m.DeviceTables.Add(float64(tables))
	for stage, n := range warnings {
		m.Warnings.WithLabelValues(stage).Add(float64(n))
	}
	m.RunDuration.Observe(took.Seconds())
}

// ObserveFailure records an input file that failed fatally.
func (m *Metrics) ObserveFailure() { m.FilesFailed.Inc() }

// WriteTextfile stamps the run time and writes all metrics to path.
func (m *Metrics) WriteTextfile(path string) error {
	m.LastRun.SetToCurrentTime()
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
