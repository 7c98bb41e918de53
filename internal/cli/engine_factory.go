package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/config"
	"github.com/aretw0/arbor/pkg/adapters/badger"
	"github.com/aretw0/arbor/pkg/adapters/file"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/adapters/redis"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/persistence/middleware"
	"github.com/aretw0/arbor/pkg/ports"
)

// Closer releases whatever the engine's store holds open.
type Closer func() error

// NewEngine builds an engine for cfg: the store it names, optionally behind
// the encryption middleware, plus the logger and any extra options.
func NewEngine(cfg config.Config, logger *slog.Logger, extra ...arbor.Option) (*arbor.Engine, Closer, error) {
	opts := []arbor.Option{
		arbor.WithLogger(logger),
		arbor.WithBatchWorkers(cfg.BatchWorkers),
		arbor.WithDefaultLanguage(cfg.DefaultLanguage),
		arbor.WithLifecycleHooks(createDebugHooks(logger)),
	}
	closer := Closer(func() error { return nil })

	var store ports.ModelStore
	var loader ports.ModelLoader
	switch cfg.Store {
	case "loam", "":
		// Loam repositories are read-only; the engine loads from them directly.
	case "memory":
		store = memory.NewStore()
	case "file":
		store = file.NewStore(cfg.ModelsDir)
		loader = file.NewLoader(cfg.ModelsDir)
	case "redis":
		rs := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
			redis.WithLogger(logger),
		)
		store, closer = rs, rs.Close
	case "badger":
		bs, err := badger.Open(badger.Config{Path: cfg.Badger.Path, InMemory: cfg.Badger.InMemory, Logger: logger})
		if err != nil {
			return nil, nil, err
		}
		store, closer = bs, bs.Close
	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}

	key, err := cfg.Key()
	if err != nil {
		closer()
		return nil, nil, fmt.Errorf("invalid encryption key: %w", err)
	}
	if key != nil {
		if store == nil {
			closer()
			return nil, nil, errors.New("encryption requires a writable store")
		}
		store = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})(store)
		// Encrypted models are only readable through the middleware.
		loader = nil
	}

	if store != nil {
		opts = append(opts, arbor.WithStore(store))
	}
	if loader != nil {
		opts = append(opts, arbor.WithLoader(loader))
	}

	engine, err := arbor.New(cfg.ModelsDir, append(opts, extra...)...)
	if err != nil {
		closer()
		return nil, nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, closer, nil
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnModelLoad: func(_ context.Context, e *domain.LoadEvent) {
			logger.Debug("Model Loaded", "model", e.Model, "nodes", e.Nodes, "duration", e.Duration, "err", e.Err)
		},
		OnPredict: func(_ context.Context, e *domain.PredictEvent) {
			logger.Debug("Predict", "model", e.Model, "rows", e.Rows, "duration", e.Duration, "err", e.Err)
		},
		OnGenerate: func(_ context.Context, e *domain.GenerateEvent) {
			logger.Debug("Generate", "model", e.Model, "language", e.Language, "diagnostics", e.Diagnostics, "err", e.Err)
		},
	}
}
