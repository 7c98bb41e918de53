package ports

import (
	"context"

	"github.com/aretw0/arbor/pkg/model"
)

// ModelStore persists compiled models. Every store is also a ModelLoader.
type ModelStore interface {
	ModelLoader

	// Save persists m under m.Name, replacing any previous revision.
	// Stores keep their own copy: later changes to m are not seen.
	Save(ctx context.Context, m *model.Model) error

	// Delete removes the model called name. Deleting a missing model is not an error.
	Delete(ctx context.Context, name string) error
}
