package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/model"
)

// Loader implements ports.ModelLoader over YAML definitions held in memory.
type Loader struct {
	defs map[string][]byte
}

// NewLoader creates a loader from raw YAML definitions keyed by model name.
// A definition without a name takes its key.
func NewLoader(data map[string]string) *Loader {
	defs := make(map[string][]byte)
	for k, v := range data {
		defs[k] = []byte(v)
	}
	return &Loader{defs: defs}
}

// NewFromModels creates a loader from compiled models.
// This handles the conversion to definitions automatically, improving DX for tests.
func NewFromModels(models ...*model.Model) (*Loader, error) {
	defs := make(map[string][]byte)
	for _, m := range models {
		if m.Name == "" {
			return nil, fmt.Errorf("model missing name")
		}
		data, err := model.DefinitionOf(m).Marshal()
		if err != nil {
			return nil, fmt.Errorf("failed to marshal model %s: %w", m.Name, err)
		}
		defs[m.Name] = data
	}
	return &Loader{defs: defs}, nil
}

// Load compiles the definition called name.
func (l *Loader) Load(ctx context.Context, name string) (*model.Model, error) {
	data, ok := l.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrModelNotFound, name)
	}
	def, err := model.ParseDefinition(data)
	if err != nil {
		return nil, err
	}
	if def.Name == "" {
		def.Name = name
	}
	return def.Compile()
}

// List returns all definition names.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(l.defs))
	for k := range l.defs {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
