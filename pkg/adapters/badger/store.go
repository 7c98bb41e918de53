// Package badger stores models in an embedded Badger database.
package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/aretw0/arbor/pkg/codec"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/model"
)

// keyPrefix namespaces model entries so the database can hold other data.
var keyPrefix = []byte("model/")

// Config configures the database.
type Config struct {
	// Path is the database directory. Required unless InMemory.
	Path string
	// InMemory keeps everything in memory; nothing is written to disk.
	InMemory bool
	// Logger receives Badger's own logs. nil silences them.
	Logger *slog.Logger
}

type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Store implements ports.ModelStore on Badger. Values are the binary wire
// format of the model.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the database described by cfg.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path).WithSyncWrites(true)
	}
	opts = opts.WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &Store{db: db}, nil
}

func key(name string) []byte {
	return append(append([]byte{}, keyPrefix...), name...)
}

// Save encodes and writes m in one transaction.
func (s *Store) Save(ctx context.Context, m *model.Model) error {
	if err := m.Validate(); err != nil {
		return err
	}
	data, err := codec.MarshalModel(m)
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(m.Name), data)
	})
}

// Load reads and decodes the model called name.
func (s *Store) Load(ctx context.Context, name string) (*model.Model, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(name))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domain.ErrModelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read model %s: %w", name, err)
	}

	m, err := codec.UnmarshalModel(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrModelCorrupt, name, err)
	}
	return m, nil
}

// Delete removes the model. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(name))
	})
}

// List iterates the model keys; Badger yields them sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	names := []string{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = keyPrefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			names = append(names, string(it.Item().Key()[len(keyPrefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	return names, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
