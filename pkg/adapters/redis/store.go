package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/arbor/pkg/codec"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/model"
)

// DefaultPrefix namespaces every key the store and locker write.
const DefaultPrefix = "arbor:"

// Store implements ports.ModelStore using Redis. Models are kept in the
// binary wire format under <prefix>model:<name>; a ZSET at <prefix>models
// indexes them by expiry.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

type Option func(*Store)

// WithTTL sets the expiration for models.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithLogger sets the logger used to report discarded entries.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Client returns the underlying client, e.g. to share it with a Locker.
func (s *Store) Client() *backend.Client { return s.client }

func (s *Store) key(name string) string {
	return s.prefix + "model:" + name
}

func (s *Store) indexKey() string {
	return s.prefix + "models"
}

// farFuture scores models without expiry: 2100-01-01.
const farFuture = 4102444800

// Save persists the encoded model and indexes it.
func (s *Store) Save(ctx context.Context, m *model.Model) error {
	if err := m.Validate(); err != nil {
		return err
	}
	data, err := codec.MarshalModel(m)
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}

	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = farFuture
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(m.Name), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: m.Name})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load decodes the stored model. An entry that no longer decodes is
// discarded and reported as domain.ErrModelCorrupt.
func (s *Store) Load(ctx context.Context, name string) (*model.Model, error) {
	val, err := s.client.Get(ctx, s.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			// Expired keys leave their index entry behind.
			_ = s.client.ZRem(ctx, s.indexKey(), name).Err()
			return nil, domain.ErrModelNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	m, err := codec.UnmarshalModel(val)
	if err != nil {
		s.logger.Warn("Load: discarding corrupt model", "model", name, "error", err)
		if delErr := s.Delete(ctx, name); delErr != nil {
			return nil, errors.Join(fmt.Errorf("%w: %s: %w", domain.ErrModelCorrupt, name, err), delErr)
		}
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrModelCorrupt, name, err)
	}
	return m, nil
}

// Delete removes the model and its index entry.
func (s *Store) Delete(ctx context.Context, name string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(name))
	pipe.ZRem(ctx, s.indexKey(), name)
	_, err := pipe.Exec(ctx)
	return err
}

// List prunes expired index entries and returns the remaining names.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired models: %w", err)
	}

	names, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
