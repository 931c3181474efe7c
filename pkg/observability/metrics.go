package observability

import (
	"context"
	"errors"

	"github.com/aretw0/aria/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors fed by console hooks.
type Metrics struct {
	Commands  *prometheus.CounterVec
	Rejects   *prometheus.CounterVec
	Clears    *prometheus.CounterVec
	Pipelines *prometheus.CounterVec
	Steps     *prometheus.CounterVec
	Running   *prometheus.GaugeVec
	Duration  *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aria_commands_total",
			Help: "Commands accepted by the console, by token kind and outcome.",
		}, []string{"console", "kind", "found"}),
		Rejects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aria_commands_rejected_total",
			Help: "Commands discarded because a pipeline was running.",
		}, []string{"console"}),
		Clears: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aria_history_clears_total",
			Help: "Times the transcript was cleared.",
		}, []string{"console"}),
		Pipelines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aria_pipelines_total",
			Help: "Finished pipelines, by outcome.",
		}, []string{"console", "pipeline", "outcome"}),
		Steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aria_pipeline_steps_total",
			Help: "Timed pipeline emissions.",
		}, []string{"console", "pipeline"}),
		Running: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "aria_pipelines_running",
			Help: "Pipelines currently running.",
		}, []string{"console"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aria_pipeline_duration_seconds",
			Help:    "Wall time of finished pipelines.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40},
		}, []string{"console", "pipeline"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.Commands, m.Rejects, m.Clears, m.Pipelines, m.Steps, m.Running, m.Duration}
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCommand: func(_ context.Context, e *domain.CommandEvent) {
			kind := string(e.Kind)
			if !e.Found {
				kind = "unknown"
			}
			found := "false"
			if e.Found {
				found = "true"
			}
			m.Commands.WithLabelValues(e.Console, kind, found).Inc()
		},
		OnReject: func(_ context.Context, e *domain.CommandEvent) {
			m.Rejects.WithLabelValues(e.Console).Inc()
		},
		OnClear: func(_ context.Context, e *domain.CommandEvent) {
			m.Clears.WithLabelValues(e.Console).Inc()
		},
		OnPipelineStart: func(_ context.Context, e *domain.PipelineEvent) {
			m.Running.WithLabelValues(e.Console).Inc()
		},
		OnStep: func(_ context.Context, e *domain.PipelineEvent) {
			m.Steps.WithLabelValues(e.Console, e.Pipeline).Inc()
		},
		OnPipelineDone: func(_ context.Context, e *domain.PipelineEvent) {
			m.Running.WithLabelValues(e.Console).Dec()
			outcome := "completed"
			if e.Err != nil {
				outcome = "discarded"
			}
			m.Pipelines.WithLabelValues(e.Console, e.Pipeline, outcome).Inc()
			m.Duration.WithLabelValues(e.Console, e.Pipeline).Observe(e.Elapsed.Seconds())
		},
	}
}
