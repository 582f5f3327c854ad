package llamacpp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	llama "github.com/go-skynet/go-llama.cpp"
	"github.com/pkoukk/tiktoken-go"

	"github.com/sardonia/theveil/internal/domain/reading"
)

const defaultEncoding = "cl100k_base"

// systemPrompt keeps chat-tuned GGUF models on strict JSON and the desired
// voice without eating much context.
const systemPrompt = "You are Veil, a warm feminine astrologer with a loving aura. You are an expert who writes premium, modern astrology. Always follow the user's schema and output STRICT JSON only (double-quoted keys/strings, no trailing commas, no markdown). End output immediately after the final '}' character."

// Config controls how the GGUF model is constructed and prompted.
type Config struct {
	ContextSize  int
	GPULayers    int
	ForceCPU     bool
	Verbose      bool
	ChatTemplate string
	SystemPrompt string
	TokEncoding  string
}

// Backend runs in-process GGUF inference. Predict calls are serialized; the
// underlying model handle is not goroutine-safe.
type Backend struct {
	mu        sync.Mutex
	model     *llama.LLama
	modelPath string
	sizeBytes int64
	cfg       Config
	logger    *slog.Logger
	encoder   *tiktoken.Tiktoken
}

// Load opens the model file and builds the inference handle. Construction is
// attempted twice: first with the tuned options, then with a minimal option
// set, since some GGUF files reject memory-mapped or f16 loading.
func Load(cfg Config, modelPath string, logger *slog.Logger) (*Backend, error) {
	info, err := os.Stat(modelPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("model file %s is missing", modelPath)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("model file %s is not readable (permission denied)", modelPath)
		}
		return nil, fmt.Errorf("failed to open model at %s: %w", modelPath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("model path %s exists but is not a file", modelPath)
	}

	if cfg.ContextSize <= 0 {
		cfg.ContextSize = 4096
	}
	gpuLayers := cfg.GPULayers
	if cfg.ForceCPU {
		gpuLayers = 0
	}

	tuned := []llama.ModelOption{
		llama.SetContext(cfg.ContextSize),
		llama.SetGPULayers(gpuLayers),
		llama.EnableF16Memory,
		llama.SetMMap(true),
	}
	model, primaryErr := llama.New(modelPath, tuned...)
	if primaryErr != nil {
		minimal := []llama.ModelOption{
			llama.SetContext(cfg.ContextSize),
			llama.SetGPULayers(gpuLayers),
		}
		var secondErr error
		model, secondErr = llama.New(modelPath, minimal...)
		if secondErr != nil {
			return nil, fmt.Errorf("failed to load GGUF model. Primary error: %v. Minimal-options fallback error: %v", primaryErr, secondErr)
		}
	}

	encoding := cfg.TokEncoding
	if encoding == "" {
		encoding = defaultEncoding
	}
	encoder, encErr := tiktoken.GetEncoding(encoding)
	if encErr != nil {
		logger.Warn("token encoding unavailable, skipping prompt estimates", "encoding", encoding, "error", encErr)
	}

	return &Backend{
		model:     model,
		modelPath: modelPath,
		sizeBytes: info.Size(),
		cfg:       cfg,
		logger:    logger.With("component", "llamacpp.backend"),
		encoder:   encoder,
	}, nil
}

// ModelPath reports where the weights were loaded from.
func (b *Backend) ModelPath() string { return b.modelPath }

// SizeBytes reports the weight file size.
func (b *Backend) SizeBytes() int64 { return b.sizeBytes }

// Close releases the model handle.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.model != nil {
		b.model.Free()
		b.model = nil
	}
}

// GenerateJSON implements reading.Backend.
func (b *Backend) GenerateJSON(ctx context.Context, req reading.Request) (string, error) {
	return b.generate(ctx, req)
}

// GenerateDashboardJSON implements reading.Backend. The caller-supplied
// prompt usually carries the strict schema and style rules; the same request
// path serves both document shapes.
func (b *Backend) GenerateDashboardJSON(ctx context.Context, req reading.Request) (string, error) {
	return b.generate(ctx, req)
}

func (b *Backend) generate(_ context.Context, req reading.Request) (string, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		prompt = fallbackPrompt(req)
	}
	full := b.assemblePrompt(prompt)

	if b.encoder != nil {
		estimate := len(b.encoder.Encode(full, nil, nil))
		b.logAt("prompt assembled", "approxTokens", estimate, "maxTokens", req.Sampling.MaxTokens)
	}

	opts := predictOptions(req.Sampling)

	b.mu.Lock()
	model := b.model
	if model == nil {
		b.mu.Unlock()
		return "", fmt.Errorf("model handle already released")
	}
	started := time.Now()
	output, err := model.Predict(full, opts...)
	elapsed := time.Since(started).Milliseconds()
	b.mu.Unlock()

	if err != nil {
		return "", fmt.Errorf("model inference failed: %w", err)
	}
	b.logger.Info("model invoke complete", "durationMs", elapsed)

	output = strings.TrimSpace(output)
	if output == "" {
		return "", fmt.Errorf("model returned empty content")
	}
	b.logAt("model output received", "bytes", len(output))
	return output, nil
}

// logAt emits at Info when verbose backend logging is on, Debug otherwise.
func (b *Backend) logAt(msg string, args ...any) {
	if b.cfg.Verbose {
		b.logger.Info(msg, args...)
		return
	}
	b.logger.Debug(msg, args...)
}

func (b *Backend) assemblePrompt(user string) string {
	system := b.cfg.SystemPrompt
	if system == "" {
		system = systemPrompt
	}
	template := b.cfg.ChatTemplate
	if template == "" {
		template = "{{system}}\n\n{{prompt}}\n"
	}
	out := strings.ReplaceAll(template, "{{system}}", system)
	return strings.ReplaceAll(out, "{{prompt}}", user)
}

func predictOptions(sampling reading.SamplingParams) []llama.PredictOption {
	opts := []llama.PredictOption{
		llama.SetTemperature(float32(sampling.Temperature)),
		llama.SetTopP(float32(sampling.TopP)),
		llama.SetTopK(sampling.TopK),
		llama.SetPenalty(float32(sampling.RepeatPenalty)),
		llama.SetTokens(sampling.MaxTokens),
	}
	if len(sampling.Stop) > 0 {
		opts = append(opts, llama.SetStopWords(sampling.Stop...))
	}
	if sampling.Seed != nil {
		opts = append(opts, llama.SetSeed(*sampling.Seed))
	}
	return opts
}

func fallbackPrompt(req reading.Request) string {
	return fmt.Sprintf(
		"You are an offline horoscope assistant. Output JSON only.\nName: %s\nBirthdate: %s\nMood: %s\nPersonality: %s\nDate: %s\nReturn a premium, soothing horoscope dashboard JSON.",
		req.Profile.Name,
		req.Profile.Birthdate,
		req.Profile.Mood,
		req.Profile.Personality,
		req.Date,
	)
}

var _ reading.Backend = (*Backend)(nil)
