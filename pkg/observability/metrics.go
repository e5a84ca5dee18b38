package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/seedbed/pkg/domain"
)

// Metrics exposes Prometheus instrumentation for scenario steps. Useful for
// long-running suites (smoke tests, synthetic monitoring) where per-step
// throughput and latency matter.
type Metrics struct {
	steps    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	records  prometheus.Counter
}

// NewMetrics creates and registers the seedbed collectors on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seedbed_steps_total",
				Help: "Total number of completed scenario steps",
			},
			[]string{"step"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "seedbed_step_duration_seconds",
				Help: "Duration of scenario steps",
			},
			[]string{"step"},
		),
		records: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "seedbed_records_created_total",
				Help: "Total number of records created by scenarios",
			},
		),
	}

	for _, c := range []prometheus.Collector{m.steps, m.duration, m.records} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// StepCounter returns the completed-steps counter for one step label.
func (m *Metrics) StepCounter(step string) prometheus.Counter {
	return m.steps.WithLabelValues(step)
}

// RecordsCreated returns the records-created counter.
func (m *Metrics) RecordsCreated() prometheus.Counter {
	return m.records
}

// Hooks returns lifecycle hooks that feed the collectors. Pass the result to
// seedbed.WithHooks.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnd: func(_ context.Context, e *domain.StepEvent) {
			m.steps.WithLabelValues(string(e.Step)).Inc()
			m.duration.WithLabelValues(string(e.Step)).Observe(e.Duration.Seconds())
		},
		OnRecordCreated: func(_ context.Context, _ *domain.StepEvent) {
			m.records.Inc()
		},
	}
}
