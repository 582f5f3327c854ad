package reading

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingSink struct {
	mu       sync.Mutex
	statuses []ModelStatus
}

func (s *recordingSink) PublishStatus(status ModelStatus) {
	s.mu.Lock()
	s.statuses = append(s.statuses, status)
	s.mu.Unlock()
}

func (s *recordingSink) snapshot() []ModelStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ModelStatus(nil), s.statuses...)
}

func waitForState(t *testing.T, ctrl *Controller, want StateKind) ModelStatus {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		status := ctrl.Status()
		if status.State == want {
			return status
		}
		select {
		case <-deadline:
			t.Fatalf("controller never reached state %s, currently %s", want, status.State)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestController_InitialState(t *testing.T) {
	ctrl := NewController(nil, nil, discardLogger(), ControllerConfig{})

	status := ctrl.Status()
	require.Equal(t, StateUnloaded, status.State)
	require.Zero(t, status.Progress)

	_, _, err := ctrl.SelectBackend()
	require.EqualError(t, err, "Model is not initialized.")
}

func TestController_RequestLoadIsIdempotent(t *testing.T) {
	var loads atomic.Int32
	release := make(chan struct{})
	loader := LoaderFunc(func(ctx context.Context) (LoadedBackend, error) {
		loads.Add(1)
		<-release
		return LoadedBackend{Backend: StubBackend{}, ModelPath: "/models/veil.gguf", SizeBytes: 2 << 20}, nil
	})

	ctrl := NewController(loader, nil, discardLogger(), ControllerConfig{ProgressTick: time.Hour})

	first := ctrl.RequestLoad(context.Background())
	require.Equal(t, StateLoading, first.State)
	require.InDelta(t, 0.1, first.Progress, 1e-9)

	// Further calls while loading return the snapshot without a second load.
	again := ctrl.RequestLoad(context.Background())
	require.Equal(t, StateLoading, again.State)

	_, _, err := ctrl.SelectBackend()
	require.EqualError(t, err, "Model is still loading.")

	close(release)
	loaded := waitForState(t, ctrl, StateLoaded)
	require.Equal(t, "/models/veil.gguf", loaded.ModelPath)
	require.Equal(t, int64(2<<20), loaded.ModelSizeBytes)
	require.InDelta(t, 2.0, loaded.ModelSizeMB, 1e-9)

	// Loading again once loaded is also a no-op.
	require.Equal(t, StateLoaded, ctrl.RequestLoad(context.Background()).State)
	require.Equal(t, int32(1), loads.Load())

	backend, source, err := ctrl.SelectBackend()
	require.NoError(t, err)
	require.Equal(t, SourceModel, source)
	require.NotNil(t, backend)
}

func TestController_LoadFailureStoresMessage(t *testing.T) {
	loader := LoaderFunc(func(ctx context.Context) (LoadedBackend, error) {
		return LoadedBackend{}, errors.New("model file veil.gguf not found. Looked in: override: /tmp/x (missing)")
	})

	ctrl := NewController(loader, nil, discardLogger(), ControllerConfig{ProgressTick: time.Hour})
	ctrl.RequestLoad(context.Background())

	status := waitForState(t, ctrl, StateError)
	require.Contains(t, status.Message, "veil.gguf not found")

	_, _, err := ctrl.SelectBackend()
	require.EqualError(t, err, status.Message)

	// An errored controller accepts a retry.
	require.Equal(t, StateLoading, ctrl.RequestLoad(context.Background()).State)
}

func TestController_LoaderPanicBecomesError(t *testing.T) {
	loader := LoaderFunc(func(ctx context.Context) (LoadedBackend, error) {
		panic("cgo init blew up")
	})

	ctrl := NewController(loader, nil, discardLogger(), ControllerConfig{ProgressTick: time.Hour})
	ctrl.RequestLoad(context.Background())

	status := waitForState(t, ctrl, StateError)
	require.Contains(t, status.Message, "model load task failed")
}

func TestController_SyntheticProgressAdvances(t *testing.T) {
	release := make(chan struct{})
	loader := LoaderFunc(func(ctx context.Context) (LoadedBackend, error) {
		<-release
		return LoadedBackend{Backend: StubBackend{}}, nil
	})

	sink := &recordingSink{}
	ctrl := NewController(loader, sink, discardLogger(), ControllerConfig{
		ProgressTick: 2 * time.Millisecond,
		ProgressStep: 0.15,
	})
	ctrl.RequestLoad(context.Background())

	require.Eventually(t, func() bool {
		return ctrl.Status().Progress > 0.1
	}, 2*time.Second, time.Millisecond)

	// The synthetic ramp never claims completion.
	require.Eventually(t, func() bool {
		return ctrl.Status().Progress >= 0.9
	}, 2*time.Second, time.Millisecond)
	require.LessOrEqual(t, ctrl.Status().Progress, 0.9)

	close(release)
	waitForState(t, ctrl, StateLoaded)

	statuses := sink.snapshot()
	require.GreaterOrEqual(t, len(statuses), 3)
	require.Equal(t, StateLoading, statuses[0].State)
	require.Equal(t, StateLoaded, statuses[len(statuses)-1].State)
	last := 0.0
	for _, status := range statuses[:len(statuses)-1] {
		require.Equal(t, StateLoading, status.State)
		require.GreaterOrEqual(t, status.Progress, last)
		last = status.Progress
	}
}
