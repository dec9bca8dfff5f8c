package provisioning

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Step and project result label values.
const (
	ResultSucceeded = "succeeded"
	ResultFailed    = "failed"
	ResultSkipped   = "skipped"
)

// Metrics records step and project outcomes of a run. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	stepTotal    *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
	projectTotal *prometheus.CounterVec
}

// NewMetrics creates the run metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		stepTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "deployfleet",
				Name:      "step_total",
				Help:      "Total number of setup steps by project, step and result",
			},
			[]string{"project", "step", "result"},
		),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "deployfleet",
				Name:      "step_duration_seconds",
				Help:      "Duration of executed setup steps in seconds",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~34min
			},
			[]string{"project", "step"},
		),
		projectTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "deployfleet",
				Name:      "project_total",
				Help:      "Total number of project setups by result",
			},
			[]string{"result"},
		),
	}
	m.registry.MustRegister(m.stepTotal, m.stepDuration, m.projectTotal)
	return m
}

// Registry returns the registry holding the run metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveStep records one step outcome. Duration is ignored for skipped steps.
func (m *Metrics) ObserveStep(project, step, result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.stepTotal.WithLabelValues(project, step, result).Inc()
	if result != ResultSkipped {
		m.stepDuration.WithLabelValues(project, step).Observe(duration.Seconds())
	}
}

// ObserveProject records one project setup outcome.
func (m *Metrics) ObserveProject(result string) {
	if m == nil {
		return
	}
	m.projectTotal.WithLabelValues(result).Inc()
}

// WriteTextfile writes the metrics in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
