package observability_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/observability"
)

func value(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnPredict(ctx, &domain.PredictEvent{
		EventBase: domain.EventBase{Model: "iris", Duration: time.Millisecond},
		Rows:      3,
	})
	hooks.OnPredict(ctx, &domain.PredictEvent{
		EventBase: domain.EventBase{Model: "iris", Err: errors.New("bad row")},
		Rows:      1,
	})
	hooks.OnGenerate(ctx, &domain.GenerateEvent{
		EventBase: domain.EventBase{Model: "iris"},
		Language:  "python",
	})
	hooks.OnModelLoad(ctx, &domain.LoadEvent{})

	assert.Equal(t, 1.0, value(t, m.Predictions.WithLabelValues("iris", "ok")))
	assert.Equal(t, 1.0, value(t, m.Predictions.WithLabelValues("iris", "error")))
	assert.Equal(t, 3.0, value(t, m.Rows.WithLabelValues("iris")))
	assert.Equal(t, 1.0, value(t, m.Generations.WithLabelValues("iris", "python", "ok")))
	assert.Equal(t, 1.0, value(t, m.Loads.WithLabelValues("ok")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestMetrics_Unregistered(t *testing.T) {
	m := observability.NewMetrics(nil)
	assert.NotPanics(t, func() {
		m.Hooks().OnModelLoad(context.Background(), &domain.LoadEvent{})
	})
}

func TestHooks_Merge(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{OnPredict: func(context.Context, *domain.PredictEvent) { calls = append(calls, "a") }}
	b := domain.LifecycleHooks{OnPredict: func(context.Context, *domain.PredictEvent) { calls = append(calls, "b") }}

	merged := a.Merge(b)
	merged.OnPredict(context.Background(), &domain.PredictEvent{})
	assert.Equal(t, []string{"a", "b"}, calls)
	assert.Nil(t, merged.OnGenerate)
}
