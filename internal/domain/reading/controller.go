package reading

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Controller-state errors surfaced by SelectBackend. The texts are part of
// the external contract and must not change.
var (
	ErrModelLoading        = errors.New("Model is still loading.")
	ErrModelNotInitialized = errors.New("Model is not initialized.")
)

const (
	defaultProgressTick = 180 * time.Millisecond
	defaultProgressStep = 0.15

	loadingStart = 0.1
	loadingCeil  = 0.9
)

// ControllerConfig tunes the synthetic loading progress. The percentages are
// cosmetic feedback; the underlying loader exposes no telemetry.
type ControllerConfig struct {
	ProgressTick time.Duration
	ProgressStep float64
}

// Controller owns the model availability state machine. Status transitions
// are totally ordered per instance; readers always observe a fully-formed
// snapshot.
type Controller struct {
	loader Loader
	sink   StatusSink
	logger *slog.Logger
	cfg    ControllerConfig

	mu      sync.Mutex
	status  ModelStatus
	backend Backend
}

// NewController starts in the Unloaded state with the stub as the current
// backend slot.
func NewController(loader Loader, sink StatusSink, logger *slog.Logger, cfg ControllerConfig) *Controller {
	if cfg.ProgressTick <= 0 {
		cfg.ProgressTick = defaultProgressTick
	}
	if cfg.ProgressStep <= 0 {
		cfg.ProgressStep = defaultProgressStep
	}
	return &Controller{
		loader:  loader,
		sink:    sink,
		logger:  logger.With("component", "reading.controller"),
		cfg:     cfg,
		status:  ModelStatus{State: StateUnloaded},
		backend: StubBackend{},
	}
}

// Status returns the current snapshot without blocking on an in-flight load.
func (c *Controller) Status() ModelStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// RequestLoad transitions to Loading and starts the background load. A call
// while already Loading or Loaded is a no-op returning the current status,
// which keeps at most one load in flight.
func (c *Controller) RequestLoad(ctx context.Context) ModelStatus {
	c.mu.Lock()
	if c.status.State == StateLoading || c.status.State == StateLoaded {
		status := c.status
		c.mu.Unlock()
		return status
	}
	c.status = ModelStatus{State: StateLoading, Progress: loadingStart}
	status := c.status
	c.mu.Unlock()

	c.publish(status)
	go c.runLoad(ctx)
	return status
}

// SelectBackend returns the backend every generation request should invoke,
// classified as model or stub. Any non-ready state yields a distinguishable
// error instead.
func (c *Controller) SelectBackend() (Backend, Source, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.status.State {
	case StateLoaded:
		return c.backend, SourceModel, nil
	case StateLoading:
		return nil, SourceStub, ErrModelLoading
	case StateError:
		return nil, SourceStub, errors.New(c.status.Message)
	default:
		return nil, SourceStub, ErrModelNotInitialized
	}
}

type loadResult struct {
	backend LoadedBackend
	err     error
}

// runLoad races the synthetic progress ticker against the real load. The
// ticker keeps running until the load resolves, then is abandoned.
func (c *Controller) runLoad(ctx context.Context) {
	done := make(chan loadResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- loadResult{err: fmt.Errorf("model load task failed: %v", r)}
			}
		}()
		backend, err := c.loader.Load(ctx)
		done <- loadResult{backend: backend, err: err}
	}()

	ticker := time.NewTicker(c.cfg.ProgressTick)
	defer ticker.Stop()

	progress := loadingStart
	var result loadResult
	for {
		select {
		case <-ticker.C:
			if progress < loadingCeil {
				next := progress + c.cfg.ProgressStep
				if next > loadingCeil {
					next = loadingCeil
				}
				if next > progress {
					progress = next
					c.setStatus(ModelStatus{State: StateLoading, Progress: progress})
				}
			}
			continue
		case result = <-done:
		}
		break
	}

	if result.err != nil {
		c.logger.Error("model load failed", "error", result.err)
		c.setStatus(ModelStatus{State: StateError, Message: result.err.Error()})
		return
	}

	sizeBytes := result.backend.SizeBytes
	status := ModelStatus{
		State:          StateLoaded,
		ModelPath:      result.backend.ModelPath,
		ModelSizeBytes: sizeBytes,
		ModelSizeMB:    float64(sizeBytes) / (1024.0 * 1024.0),
	}
	c.mu.Lock()
	c.backend = result.backend.Backend
	c.status = status
	c.mu.Unlock()
	c.logger.Info("model loaded", "path", status.ModelPath, "sizeBytes", sizeBytes)
	c.publish(status)
}

func (c *Controller) setStatus(status ModelStatus) {
	c.mu.Lock()
	c.status = status
	c.mu.Unlock()
	c.publish(status)
}

func (c *Controller) publish(status ModelStatus) {
	if c.sink != nil {
		c.sink.PublishStatus(status)
	}
}
