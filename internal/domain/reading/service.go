package reading

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/sardonia/theveil/pkg/errors"
	"github.com/sardonia/theveil/pkg/metrics"
	"github.com/sardonia/theveil/pkg/util"
)

// Config tunes the request-handling layer. Sampling supplies the defaults
// applied when a request carries no tuning of its own.
type Config struct {
	ChunkSize      int
	ChunkDelay     time.Duration
	FallbackToStub bool
	CacheTTL       time.Duration
	HistoryLimit   int
	Sampling       SamplingParams
}

// Service exposes the five command operations plus the history read.
type Service interface {
	InitModel(ctx context.Context) ModelStatus
	ModelStatus(ctx context.Context) ModelStatus
	Generate(ctx context.Context, req Request) (Reading, error)
	GenerateStream(ctx context.Context, req Request, sink EventSink) (Reading, error)
	GenerateDashboard(ctx context.Context, req Request) (string, error)
	History(ctx context.Context, limit int) ([]HistoryEntry, error)
}

type service struct {
	cfg     Config
	ctrl    *Controller
	history HistoryRepository
	store   DashboardStore
	logger  *slog.Logger
	now     func() time.Time
}

// NewService is a wire provider for the reading domain.
func NewService(cfg Config, ctrl *Controller, history HistoryRepository, store DashboardStore, logger *slog.Logger) Service {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.ChunkDelay <= 0 {
		cfg.ChunkDelay = 40 * time.Millisecond
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 20
	}
	if samplingIsZero(cfg.Sampling) {
		cfg.Sampling = DefaultSamplingParams()
	}
	return &service{
		cfg:     cfg,
		ctrl:    ctrl,
		history: history,
		store:   store,
		logger:  logger.With("component", "reading.service"),
		now:     util.NowUTC,
	}
}

func (s *service) InitModel(ctx context.Context) ModelStatus {
	return s.ctrl.RequestLoad(ctx)
}

func (s *service) ModelStatus(context.Context) ModelStatus {
	return s.ctrl.Status()
}

func (s *service) Generate(ctx context.Context, req Request) (Reading, error) {
	req = s.withSamplingDefaults(req)
	started := s.now()

	backend, source, err := s.ctrl.SelectBackend()
	if err != nil {
		return Reading{}, err
	}

	reading, err := s.invoke(ctx, backend, source, req)
	if err != nil {
		if source != SourceModel || !s.cfg.FallbackToStub {
			return Reading{}, err
		}
		s.logger.Warn("model inference failed, falling back to stub", "error", err)
		reading = Synthesize(req, s.now())
		reading.Source = SourceStub
	}

	s.record(ctx, reading, started)
	return reading, nil
}

func (s *service) GenerateStream(ctx context.Context, req Request, sink EventSink) (Reading, error) {
	req = s.withSamplingDefaults(req)
	started := s.now()

	backend, source, err := s.ctrl.SelectBackend()
	if err != nil {
		return Reading{}, err
	}

	sink.Publish(StreamEvent{Kind: StreamStart})
	reading, err := s.invoke(ctx, backend, source, req)
	if err != nil {
		if source != SourceModel || !s.cfg.FallbackToStub {
			sink.Publish(StreamEvent{Kind: StreamEnd})
			return Reading{}, err
		}
		s.logger.Warn("model inference failed, falling back to stub", "error", err)
		reading = Synthesize(req, s.now())
		reading.Source = SourceStub
	}

	s.streamMessage(sink, reading.Message)
	sink.Publish(StreamEvent{Kind: StreamEnd})

	s.record(ctx, reading, started)
	return reading, nil
}

func (s *service) GenerateDashboard(ctx context.Context, req Request) (string, error) {
	req = s.withSamplingDefaults(req)

	key := dashboardKey(req)
	if s.store != nil {
		if payload, ok, cacheErr := s.store.Get(ctx, key); cacheErr == nil && ok {
			return payload, nil
		} else if cacheErr != nil {
			s.logger.Warn("dashboard cache read failed", "error", cacheErr)
		}
	}

	backend, source, err := s.ctrl.SelectBackend()
	if err != nil {
		return "", err
	}

	payload, err := backend.GenerateDashboardJSON(ctx, req)
	if err != nil {
		if source != SourceModel || !s.cfg.FallbackToStub {
			return "", err
		}
		s.logger.Warn("model inference failed while generating dashboard JSON", "error", err)
		fallback, marshalErr := json.Marshal(SynthesizeDashboard(req, s.now()))
		if marshalErr != nil {
			return "", apperrors.Wrap("serialization_error", "encode stub dashboard", marshalErr)
		}
		payload = string(fallback)
	}

	if s.store != nil {
		if saveErr := s.store.Save(ctx, key, payload, s.cfg.CacheTTL); saveErr != nil {
			s.logger.Warn("dashboard cache write failed", "error", saveErr)
		}
	}
	return payload, nil
}

func (s *service) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if s.history == nil {
		return nil, nil
	}
	if limit <= 0 || limit > s.cfg.HistoryLimit {
		limit = s.cfg.HistoryLimit
	}
	return s.history.Recent(ctx, limit)
}

// invoke runs the backend call and re-parses its JSON into a Reading. The
// source tag is always stamped here, never by the backend.
func (s *service) invoke(ctx context.Context, backend Backend, source Source, req Request) (Reading, error) {
	payload, err := backend.GenerateJSON(ctx, req)
	if err != nil {
		return Reading{}, err
	}
	var reading Reading
	if err := json.Unmarshal([]byte(payload), &reading); err != nil {
		return Reading{}, apperrors.Wrap("serialization_error", "model output is not valid reading JSON", err)
	}
	if err := validateReading(reading); err != nil {
		return Reading{}, apperrors.Wrap("serialization_error", "model output does not match the reading shape", err)
	}
	reading.Source = source
	return reading, nil
}

// validateReading rejects structurally valid JSON that is not a usable
// reading. Backends must fill these fields; the themes count is fixed.
func validateReading(r Reading) error {
	if len(r.Themes) != 3 {
		return fmt.Errorf("expected 3 themes, got %d", len(r.Themes))
	}
	if r.Title == "" {
		return fmt.Errorf("title is empty")
	}
	if r.Message == "" {
		return fmt.Errorf("message is empty")
	}
	if r.Sign == "" {
		return fmt.Errorf("sign is empty")
	}
	return nil
}

func (s *service) streamMessage(sink EventSink, message string) {
	for _, chunk := range chunkMessage(message, s.cfg.ChunkSize) {
		sink.Publish(StreamEvent{Kind: StreamChunk, Chunk: chunk})
		time.Sleep(s.cfg.ChunkDelay)
	}
}

func (s *service) record(ctx context.Context, reading Reading, started time.Time) {
	stats := metrics.GenerationStats{
		Source:     string(reading.Source),
		DurationMs: s.now().Sub(started).Milliseconds(),
	}
	s.logger.Info("reading served", "source", stats.Source, "sign", reading.Sign, "durationMs", stats.DurationMs)
	if s.history == nil {
		return
	}
	entry := HistoryEntry{
		ID:          uuid.NewString(),
		Date:        reading.Date,
		Sign:        reading.Sign,
		Title:       reading.Title,
		Message:     reading.Message,
		LuckyNumber: reading.LuckyNumber,
		Source:      reading.Source,
		DurationMs:  stats.DurationMs,
		CreatedAt:   s.now(),
	}
	if err := s.history.Record(ctx, entry); err != nil {
		s.logger.Warn("history record failed", "error", err)
	}
}

func (s *service) withSamplingDefaults(req Request) Request {
	if samplingIsZero(req.Sampling) {
		req.Sampling = s.cfg.Sampling
	}
	return req
}

func samplingIsZero(p SamplingParams) bool {
	return p.Temperature == 0 && p.TopP == 0 && p.TopK == 0 && p.RepeatPenalty == 0 &&
		p.MaxTokens == 0 && p.Seed == nil && len(p.Stop) == 0
}

func dashboardKey(req Request) string {
	return fmt.Sprintf("dash:%08x", SeedMaterial(req))
}
