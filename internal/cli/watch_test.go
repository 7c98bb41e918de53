package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/internal/testutils"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/model"
)

type fakeWatcher struct {
	changes chan struct{}
	fail    bool
}

func (f *fakeWatcher) Model(ctx context.Context, name string) (*model.Model, error) {
	if f.fail {
		return nil, domain.ErrModelNotFound
	}
	return testutils.LinearModel(), nil
}

func (f *fakeWatcher) Watch(ctx context.Context) (<-chan struct{}, error) {
	return f.changes, nil
}

func TestRunWatch_ReloadsOnChange(t *testing.T) {
	settleDelay = time.Millisecond
	w := &fakeWatcher{changes: make(chan struct{}, 1)}

	var mu sync.Mutex
	renders := 0
	rendered := make(chan struct{}, 4)
	render := func(m *model.Model) error {
		mu.Lock()
		renders++
		mu.Unlock()
		rendered <- struct{}{}
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	var status bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- RunWatch(ctx, w, "linear", &status, logging.NewNop(), render) }()

	<-rendered
	w.changes <- struct{}{}
	select {
	case <-rendered:
	case <-time.After(2 * time.Second):
		t.Fatal("no reload after change")
	}

	cancel()
	require.NoError(t, <-done)
	mu.Lock()
	assert.Equal(t, 2, renders)
	mu.Unlock()
}

func TestRunWatch_ReportsErrors(t *testing.T) {
	w := &fakeWatcher{changes: make(chan struct{}), fail: true}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var status bytes.Buffer
	err := RunWatch(ctx, w, "linear", &status, logging.NewNop(), func(*model.Model) error { return nil })
	require.NoError(t, err)
	assert.Contains(t, status.String(), "Error:")
}
