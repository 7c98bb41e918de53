package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/aretw0/loam"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/model"
)

// Loader adapts a Loam repository to ports.ModelLoader. Each document is
// one model: markdown with frontmatter (the body holds the code), or plain
// JSON/YAML carrying a "code" key.
type Loader struct {
	Repo *loam.TypedRepository[ModelMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[ModelMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Load compiles the document called name.
func (l *Loader) Load(ctx context.Context, name string) (*model.Model, error) {
	doc, err := l.Repo.Get(ctx, name)
	if err != nil {
		// Loam reports missing documents with its own errors; confirm against the listing.
		if names, listErr := l.List(ctx); listErr == nil && !slices.Contains(names, name) {
			return nil, fmt.Errorf("%w: %s", domain.ErrModelNotFound, name)
		}
		return nil, fmt.Errorf("loam get failed for %s: %w", name, err)
	}

	def := definition(doc.ID, doc.Data, doc.Content)
	return def.Compile()
}

// definition maps a document onto a model definition.
func definition(docID string, meta ModelMetadata, content string) *model.Definition {
	name := meta.Name
	if name == "" {
		name = docID
	}
	code := meta.Code
	if strings.TrimSpace(code) == "" {
		code = stripFence(content)
	}
	return &model.Definition{
		Name:        trimExtension(name),
		Description: meta.Description,
		Inputs:      meta.Inputs,
		Code:        code,
	}
}

// stripFence unwraps a body written as one fenced code block.
func stripFence(body string) string {
	body = strings.TrimSpace(body)
	if !strings.HasPrefix(body, "```") {
		return body
	}
	body = strings.TrimPrefix(body, "```")
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	}
	return strings.TrimSuffix(strings.TrimSpace(body), "```")
}

// List lists all models in the repository.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	names := make([]string, 0, len(docs))
	for _, doc := range docs {
		// Documents are addressed by path; the frontmatter name is informational.
		name := trimExtension(doc.ID)
		if existingPath, ok := seen[name]; ok {
			return nil, fmt.Errorf("collision detected: model '%s' is defined in both '%s' and '%s'", name, existingPath, doc.ID)
		}
		seen[name] = doc.ID
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				// Coalesce bursts: one pending signal is enough to trigger a reload.
				select {
				case ch <- struct{}{}:
				default:
				}
			}
		}
	}()
	return ch, nil
}
