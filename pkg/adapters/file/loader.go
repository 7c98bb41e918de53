package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/arbor/pkg/codec"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/model"
)

// Loader implements ports.ModelLoader over a directory holding YAML model
// definitions (*.yaml, *.yml) and binary models (*.arbor). A model is named
// after its file.
type Loader struct {
	dir      string
	interval time.Duration
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithPollInterval sets how often Watch checks the directory.
func WithPollInterval(d time.Duration) LoaderOption {
	return func(l *Loader) { l.interval = d }
}

// NewLoader creates a loader for dir.
func NewLoader(dir string, opts ...LoaderOption) *Loader {
	l := &Loader{dir: dir, interval: time.Second}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var loaderExts = []string{".yaml", ".yml", Ext}

// Load compiles name.yaml, name.yml or decodes name.arbor, in that order.
func (l *Loader) Load(ctx context.Context, name string) (*model.Model, error) {
	for _, ext := range loaderExts {
		path := filepath.Join(l.dir, name+ext)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if ext == Ext {
			m, err := codec.UnmarshalModel(data)
			if err == nil {
				err = m.Validate()
			}
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", domain.ErrModelCorrupt, path, err)
			}
			return m, nil
		}
		def, err := model.ParseDefinition(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if def.Name == "" {
			def.Name = name
		}
		return def.Compile()
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrModelNotFound, name)
}

// List returns the model names found in the directory.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", l.dir, err)
	}
	seen := map[string]bool{}
	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		name := strings.TrimSuffix(entry.Name(), ext)
		if !isModelExt(ext) || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func isModelExt(ext string) bool {
	for _, e := range loaderExts {
		if e == ext {
			return true
		}
	}
	return false
}

// Watch polls the directory and signals when any model file is added,
// removed or modified. The channel is closed when ctx is done.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	last, err := l.snapshot()
	if err != nil {
		return nil, err
	}
	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				current, err := l.snapshot()
				if err != nil {
					slog.Warn("Watch: failed to scan models", "dir", l.dir, "error", err)
					continue
				}
				if !sameSnapshot(last, current) {
					last = current
					select {
					case ch <- struct{}{}:
					default:
					}
				}
			}
		}
	}()
	return ch, nil
}

func (l *Loader) snapshot() (map[string]time.Time, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, err
	}
	snap := map[string]time.Time{}
	for _, entry := range entries {
		if entry.IsDir() || !isModelExt(filepath.Ext(entry.Name())) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		snap[entry.Name()] = info.ModTime()
	}
	return snap, nil
}

func sameSnapshot(a, b map[string]time.Time) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || !w.Equal(v) {
			return false
		}
	}
	return true
}
