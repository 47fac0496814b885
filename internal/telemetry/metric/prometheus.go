package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hbr_recover"

// Run results.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultDryRun  = "dry_run"
)

// Registry holds the metrics of one recovery run.
type Registry struct {
	reg *prometheus.Registry

	RestorePoints    Gauge
	SnapshotsWritten Counter
	FilesArchived    Counter
	BytesWritten     Counter

	RunDuration Gauge
	LastSuccess Gauge
	Runs        CounterVec
}

// Counter is a cumulative metric that only increases.
type Counter interface {
	Inc()
	Add(float64)
}

// CounterVec is a Counter with labels.
type CounterVec interface {
	WithLabelValues(lvs ...string) Counter
}

// Gauge is a metric that can go up and down.
type Gauge interface {
	Set(float64)
	Inc()
	Dec()
	Add(float64)
	Sub(float64)
}

type counterVec struct {
	vec *prometheus.CounterVec
}

func (c counterVec) WithLabelValues(lvs ...string) Counter {
	return c.vec.WithLabelValues(lvs...)
}

// NewRegistry creates the run metrics on a private Prometheus registry.
func NewRegistry() *Registry {
	restorePoints := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "restore_points",
		Help:      "Restore points found in the replication index",
	})
	snapshots := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "snapshots_written_total",
		Help:      "Snapshot state files written",
	})
	archived := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "files_archived_total",
		Help:      "Source files moved to the backup folder",
	})
	bytesWritten := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bytes_written_total",
		Help:      "Bytes written to recovered files",
	})
	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Duration of the last recovery run",
	})
	lastSuccess := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix timestamp of the last successful recovery",
	})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Recovery runs by result",
	}, []string{"result"})

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		restorePoints,
		snapshots,
		archived,
		bytesWritten,
		duration,
		lastSuccess,
		runs,
	)

	return &Registry{
		reg:              reg,
		RestorePoints:    restorePoints,
		SnapshotsWritten: snapshots,
		FilesArchived:    archived,
		BytesWritten:     bytesWritten,
		RunDuration:      duration,
		LastSuccess:      lastSuccess,
		Runs:             counterVec{vec: runs},
	}
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Finish records the run result and duration. A success also sets the last
// success time to end.
func (r *Registry) Finish(result string, start, end time.Time) {
	r.RunDuration.Set(end.Sub(start).Seconds())
	r.Runs.WithLabelValues(result).Inc()
	if result == ResultSuccess {
		r.LastSuccess.Set(float64(end.Unix()))
	}
}

// WriteTextfile writes the metrics to path in the text exposition format.
// The file is replaced atomically.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
