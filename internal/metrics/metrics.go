// Package metrics records saga progress as Prometheus metrics.
//
// A CLI run is short-lived, so metrics are collected on a private registry and
// written once to a node_exporter textfile instead of being scraped.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Step results.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultSkipped = "skipped"
)

// Recorder collects saga metrics. A nil *Recorder records nothing.
type Recorder struct {
	registry *prometheus.Registry

	stepsTotal   *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
	runsTotal    *prometheus.CounterVec
	runDuration  *prometheus.HistogramVec
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		stepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sitegen",
				Subsystem: "saga",
				Name:      "steps_total",
				Help:      "Total number of saga steps by result",
			},
			[]string{"saga", "step", "result"},
		),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "sitegen",
				Subsystem: "saga",
				Name:      "step_duration_seconds",
				Help:      "Duration of saga steps in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
			},
			[]string{"saga", "step"},
		),
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sitegen",
				Subsystem: "saga",
				Name:      "runs_total",
				Help:      "Total number of saga runs by result",
			},
			[]string{"saga", "result"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "sitegen",
				Subsystem: "saga",
				Name:      "run_duration_seconds",
				Help:      "Duration of saga runs in seconds",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10), // 1s to ~8.5min
			},
			[]string{"saga"},
		),
	}

	r.registry.MustRegister(r.stepsTotal, r.stepDuration, r.runsTotal, r.runDuration)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RecordStep records one step execution. Skipped steps carry no duration.
func (r *Recorder) RecordStep(saga, step, result string, duration time.Duration) {
	if r == nil {
		return
	}
	r.stepsTotal.WithLabelValues(saga, step, result).Inc()
	if result != ResultSkipped {
		r.stepDuration.WithLabelValues(saga, step).Observe(duration.Seconds())
	}
}

// RecordRun records a completed saga run.
func (r *Recorder) RecordRun(saga string, err error, duration time.Duration) {
	if r == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	r.runsTotal.WithLabelValues(saga, result).Inc()
	r.runDuration.WithLabelValues(saga).Observe(duration.Seconds())
}

// WriteTextfile writes all metrics in the text exposition format to path.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
