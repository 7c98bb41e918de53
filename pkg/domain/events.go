package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventModelLoad EventType = "model_load"
	EventPredict   EventType = "predict"
	EventGenerate  EventType = "generate"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time     `json:"timestamp"`
	Type      EventType     `json:"type"`
	Model     string        `json:"model"`
	Duration  time.Duration `json:"duration"`
	Err       error         `json:"-"`
}

// LoadEvent reports a model fetched from a loader.
type LoadEvent struct {
	EventBase
	Nodes int `json:"nodes,omitempty"`
}

// PredictEvent reports one Predict or PredictBatch call.
type PredictEvent struct {
	EventBase
	Rows int `json:"rows"`
}

// GenerateEvent reports one code generation.
type GenerateEvent struct {
	EventBase
	Language    string `json:"language"`
	Diagnostics int    `json:"diagnostics,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnModelLoad func(context.Context, *LoadEvent)
	OnPredict   func(context.Context, *PredictEvent)
	OnGenerate  func(context.Context, *GenerateEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnModelLoad: chain(h.OnModelLoad, other.OnModelLoad),
		OnPredict:   chain(h.OnPredict, other.OnPredict),
		OnGenerate:  chain(h.OnGenerate, other.OnGenerate),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
