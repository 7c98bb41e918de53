package arbor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/loam"

	loamAdapter "github.com/aretw0/arbor/pkg/adapters/loam"
	"github.com/aretw0/arbor/pkg/codec"
	"github.com/aretw0/arbor/pkg/codegen"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/eval"
	"github.com/aretw0/arbor/pkg/model"
	"github.com/aretw0/arbor/pkg/ports"
)

// ErrReadOnly is returned by Save and Delete when the engine has no store.
var ErrReadOnly = errors.New("engine has no model store")

// Engine is the high-level entry point for the arbor library.
// It resolves models by name and predicts, generates code and serializes
// through them.
type Engine struct {
	loader      ports.ModelLoader
	store       ports.ModelStore
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	workers     int
	defaultLang string
	Name        string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks. Repeated calls add hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLoader injects a custom ModelLoader, bypassing the default Loam initialization.
func WithLoader(l ports.ModelLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithStore enables Save and Delete. When no loader is given the store also
// serves loads.
func WithStore(s ports.ModelStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithBatchWorkers bounds the concurrent evaluations of PredictBatch.
func WithBatchWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithDefaultLanguage sets the language used when Generate gets "".
func WithDefaultLanguage(lang string) Option {
	return func(e *Engine) {
		e.defaultLang = lang
	}
}

// New initializes a new arbor Engine.
// By default, it reads model definitions from a Loam repository at the given path.
// If WithLoader or WithStore is provided, repoPath can be empty and Loam is skipped.
func New(repoPath string, opts ...Option) (*Engine, error) {
	eng := &Engine{workers: 1, defaultLang: "python"}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.loader == nil && eng.store != nil {
		eng.loader = eng.store
	}

	if eng.loader == nil {
		if repoPath == "" {
			return nil, fmt.Errorf("repoPath is required when no custom loader is provided")
		}

		absPath, err := filepath.Abs(repoPath)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}

		eng.Name = filepath.Base(absPath)

		// Strict mode keeps numbers as json.Number across adapters; the engine
		// never writes definitions, so the repository is opened read-only.
		repo, err := loam.Init(absPath,
			loam.WithStrict(true),
			loam.WithReadOnly(true),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize loam: %w", err)
		}

		typedRepo := loam.NewTypedRepository[loamAdapter.ModelMetadata](repo)
		eng.loader = loamAdapter.New(typedRepo)
	} else if repoPath != "" {
		eng.Name = filepath.Base(repoPath)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("repo", eng.Name)
	}
	if eng.workers <= 0 {
		eng.workers = 1
	}

	return eng, nil
}

// Model loads a model by name.
func (e *Engine) Model(ctx context.Context, name string) (*model.Model, error) {
	start := time.Now()
	m, err := e.loader.Load(ctx, name)
	if e.hooks.OnModelLoad != nil {
		ev := &domain.LoadEvent{EventBase: e.event(domain.EventModelLoad, name, start, err)}
		if m != nil {
			ev.Nodes = m.Code.Count()
		}
		e.hooks.OnModelLoad(ctx, ev)
	}
	if err != nil {
		e.logger.Debug("model load failed", "model", name, "error", err)
		return nil, err
	}
	return m, nil
}

// Models lists the names of the available models.
func (e *Engine) Models(ctx context.Context) ([]string, error) {
	return e.loader.List(ctx)
}

// Predict loads a model and evaluates it on row. The row is checked against
// the model's signature first.
func (e *Engine) Predict(ctx context.Context, name string, row domain.Row) (domain.Variable, error) {
	m, err := e.Model(ctx, name)
	if err != nil {
		return domain.Variable{}, err
	}
	return e.PredictModel(ctx, m, row)
}

// PredictModel evaluates an already loaded model on row.
func (e *Engine) PredictModel(ctx context.Context, m *model.Model, row domain.Row) (domain.Variable, error) {
	start := time.Now()
	v, err := eval.PredictChecked(m, row)
	e.firePredict(ctx, m.Name, 1, start, err)
	if err != nil {
		e.logger.Warn("Predict: invalid row", "model", m.Name, "error", err)
	}
	return v, err
}

// PredictBatch loads a model and evaluates it on every row, with at most the
// configured number of concurrent evaluations.
func (e *Engine) PredictBatch(ctx context.Context, name string, rows []domain.Row) ([]domain.Variable, error) {
	m, err := e.Model(ctx, name)
	if err != nil {
		return nil, err
	}
	return e.PredictBatchModel(ctx, m, rows)
}

// PredictBatchModel is PredictBatch for an already loaded model.
func (e *Engine) PredictBatchModel(ctx context.Context, m *model.Model, rows []domain.Row) ([]domain.Variable, error) {
	start := time.Now()
	out, err := eval.PredictBatch(ctx, m, rows, e.workers)
	e.firePredict(ctx, m.Name, len(rows), start, err)
	if err != nil {
		e.logger.Warn("PredictBatch failed", "model", m.Name, "rows", len(rows), "error", err)
	}
	return out, err
}

// Generate loads a model and writes it as source code in lang. An empty lang
// selects the engine's default language.
func (e *Engine) Generate(ctx context.Context, name, lang string) (string, codegen.Diagnostics, error) {
	m, err := e.Model(ctx, name)
	if err != nil {
		return "", nil, err
	}
	return e.GenerateModel(ctx, m, lang)
}

// GenerateModel is Generate for an already loaded model.
func (e *Engine) GenerateModel(ctx context.Context, m *model.Model, lang string) (string, codegen.Diagnostics, error) {
	if lang == "" {
		lang = e.defaultLang
	}
	if !codegen.Known(lang) {
		e.logger.Warn("Generate: unknown language, falling back", "language", lang, "fallback", codegen.Lookup(lang).Name())
	}
	start := time.Now()
	src, diags, err := codegen.Generate(m, lang)
	if e.hooks.OnGenerate != nil {
		e.hooks.OnGenerate(ctx, &domain.GenerateEvent{
			EventBase:   e.event(domain.EventGenerate, m.Name, start, err),
			Language:    codegen.Lookup(lang).Name(),
			Diagnostics: len(diags),
		})
	}
	for _, d := range diags {
		e.logger.Debug("generate diagnostic", "model", m.Name, "diagnostic", d.String())
	}
	return src, diags, err
}

// Encode writes a model in the binary model format. When w is a
// ports.Writer it is finished after the model is written.
func (e *Engine) Encode(w io.Writer, m *model.Model, opts ...codec.Option) error {
	if err := codec.EncodeModel(w, m, opts...); err != nil {
		return err
	}
	if fw, ok := w.(ports.Writer); ok {
		return fw.Finish()
	}
	return nil
}

// Decode reads one model in the binary model format and validates it.
func (e *Engine) Decode(r io.Reader) (*model.Model, error) {
	m, err := codec.DecodeModel(r)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrModelCorrupt, err)
	}
	return m, nil
}

// Save stores a model. It requires WithStore.
func (e *Engine) Save(ctx context.Context, m *model.Model) error {
	if e.store == nil {
		return ErrReadOnly
	}
	return e.store.Save(ctx, m)
}

// Delete removes a model from the store. It requires WithStore.
func (e *Engine) Delete(ctx context.Context, name string) error {
	if e.store == nil {
		return ErrReadOnly
	}
	return e.store.Delete(ctx, name)
}

// Watch returns a channel that signals when the underlying models change.
// Returns error if the loader does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan struct{}, error) {
	if w, ok := e.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current loader does not support watching")
}

// DefaultLanguage returns the language used when Generate gets an empty id.
func (e *Engine) DefaultLanguage() string {
	return e.defaultLang
}

// Loader returns the underlying ModelLoader used by the engine.
func (e *Engine) Loader() ports.ModelLoader {
	return e.loader
}

// Store returns the model store, nil when the engine is read-only.
func (e *Engine) Store() ports.ModelStore {
	return e.store
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *slog.Logger {
	return e.logger
}

func (e *Engine) firePredict(ctx context.Context, name string, rows int, start time.Time, err error) {
	if e.hooks.OnPredict == nil {
		return
	}
	e.hooks.OnPredict(ctx, &domain.PredictEvent{
		EventBase: e.event(domain.EventPredict, name, start, err),
		Rows:      rows,
	})
}

func (e *Engine) event(typ domain.EventType, name string, start time.Time, err error) domain.EventBase {
	return domain.EventBase{
		Timestamp: start,
		Type:      typ,
		Model:     name,
		Duration:  time.Since(start),
		Err:       err,
	}
}
