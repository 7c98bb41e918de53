package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/arbor/pkg/domain"
)

// Metrics holds the collectors fed by the engine hooks.
type Metrics struct {
	Predictions  *prometheus.CounterVec
	Rows         *prometheus.CounterVec
	PredictTime  *prometheus.HistogramVec
	Generations  *prometheus.CounterVec
	GenerateTime *prometheus.HistogramVec
	Loads        *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_predictions_total",
				Help: "Total number of predict calls",
			},
			[]string{"model", "status"},
		),
		Rows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_predicted_rows_total",
				Help: "Total number of rows evaluated",
			},
			[]string{"model"},
		),
		PredictTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arbor_predict_duration_seconds",
				Help:    "Duration of predict calls",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"model"},
		),
		Generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_generations_total",
				Help: "Total number of code generations",
			},
			[]string{"model", "language", "status"},
		),
		GenerateTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "arbor_generate_duration_seconds",
				Help: "Duration of code generations",
			},
			[]string{"language"},
		),
		Loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_model_loads_total",
				Help: "Total number of model loads",
			},
			[]string{"status"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.collectors()...)
	}
	return m
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.Predictions, m.Rows, m.PredictTime, m.Generations, m.GenerateTime, m.Loads}
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnModelLoad: func(_ context.Context, e *domain.LoadEvent) {
			m.Loads.WithLabelValues(status(e.Err)).Inc()
		},
		OnPredict: func(_ context.Context, e *domain.PredictEvent) {
			m.Predictions.WithLabelValues(e.Model, status(e.Err)).Inc()
			if e.Err == nil {
				m.Rows.WithLabelValues(e.Model).Add(float64(e.Rows))
			}
			m.PredictTime.WithLabelValues(e.Model).Observe(e.Duration.Seconds())
		},
		OnGenerate: func(_ context.Context, e *domain.GenerateEvent) {
			m.Generations.WithLabelValues(e.Model, e.Language, status(e.Err)).Inc()
			m.GenerateTime.WithLabelValues(e.Language).Observe(e.Duration.Seconds())
		},
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
