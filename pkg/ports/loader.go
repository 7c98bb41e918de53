package ports

import (
	"context"

	"github.com/aretw0/arbor/pkg/model"
)

// ModelLoader resolves models by name.
type ModelLoader interface {
	// Load returns the model called name.
	// Returns domain.ErrModelNotFound if there is none.
	Load(ctx context.Context, name string) (*model.Model, error)

	// List returns the names of every available model in sorted order.
	List(ctx context.Context) ([]string, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is typically used for hot-reload when serving.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying models change.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
