package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/arbor/pkg/model"
)

// Watcher is the part of the engine a watch loop needs.
type Watcher interface {
	Model(ctx context.Context, name string) (*model.Model, error)
	Watch(ctx context.Context) (<-chan struct{}, error)
}

// settleDelay lets editors finish writing before the model is reloaded.
var settleDelay = 100 * time.Millisecond

// RunWatch loads name, hands it to render and repeats on every change of
// the repository until ctx is cancelled. A model that fails to load or
// render is reported and the loop waits for the next change.
func RunWatch(ctx context.Context, engine Watcher, name string, status io.Writer, logger *slog.Logger, render func(*model.Model) error) error {
	changes, err := engine.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch unavailable: %w", err)
	}

	logger.Info("Starting Watcher", "model", name)
	runWatchIteration(ctx, engine, name, status, logger, render)
	printSystemMessage(status, "Waiting for changes...")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopping watcher", "reason", context.Cause(ctx))
			return nil
		case _, ok := <-changes:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("watch channel closed")
			}
			logger.Info("Change detected, triggering reload", "model", name)
			printSystemMessage(status, "Change detected, reloading '%s'.", name)
			select {
			case <-time.After(settleDelay):
			case <-ctx.Done():
				return nil
			}
			drain(changes)
			runWatchIteration(ctx, engine, name, status, logger, render)
		}
	}
}

func runWatchIteration(ctx context.Context, engine Watcher, name string, status io.Writer, logger *slog.Logger, render func(*model.Model) error) bool {
	m, err := engine.Model(ctx, name)
	if err == nil {
		err = render(m)
	}
	if err != nil {
		logger.Error("Reload failed", "model", name, "error", err)
		printSystemMessage(status, "Error: %v", err)
		return false
	}
	return true
}

// drain discards change signals that arrived while settling.
func drain(ch <-chan struct{}) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
