package reading

import "time"

// Source classifies which backend produced a reading.
type Source string

const (
	SourceModel Source = "model"
	SourceStub  Source = "stub"
)

// Profile carries the free-text user input every reading is derived from.
type Profile struct {
	Name        string `json:"name"`
	Birthdate   string `json:"birthdate"`
	Mood        string `json:"mood"`
	Personality string `json:"personality"`
}

// SamplingParams tunes model-backed generation.
type SamplingParams struct {
	Temperature   float64  `json:"temperature"`
	TopP          float64  `json:"topP"`
	TopK          int      `json:"topK"`
	RepeatPenalty float64  `json:"repeatPenalty"`
	MaxTokens     int      `json:"maxTokens"`
	Seed          *int     `json:"seed,omitempty"`
	Stop          []string `json:"stop,omitempty"`
}

// DefaultSamplingParams returns the sampling configuration used when a caller
// supplies none. Dashboard JSON is large; low token limits frequently truncate
// output, hence the generous max.
func DefaultSamplingParams() SamplingParams {
	return SamplingParams{
		Temperature:   0.45,
		TopP:          0.9,
		TopK:          50,
		RepeatPenalty: 1.1,
		MaxTokens:     3600,
		Stop:          []string{},
	}
}

// Request describes one generation call. It is built per call and immutable
// once constructed.
type Request struct {
	Profile  Profile        `json:"profile"`
	Date     string         `json:"date"`
	Prompt   string         `json:"prompt,omitempty"`
	Sampling SamplingParams `json:"sampling"`
}

// Reading is the compact structured horoscope result returned to callers.
type Reading struct {
	Date        string   `json:"date"`
	Sign        string   `json:"sign"`
	Title       string   `json:"title"`
	Message     string   `json:"message"`
	Themes      []string `json:"themes"`
	Affirmation string   `json:"affirmation"`
	LuckyColor  string   `json:"luckyColor"`
	LuckyNumber int      `json:"luckyNumber"`
	CreatedAt   string   `json:"createdAt"`
	Source      Source   `json:"source"`
}

// StateKind enumerates the controller states.
type StateKind string

const (
	StateUnloaded StateKind = "unloaded"
	StateLoading  StateKind = "loading"
	StateLoaded   StateKind = "loaded"
	StateError    StateKind = "error"
)

// ModelStatus is an immutable snapshot of the controller state. Only the
// fields relevant to the current state are populated.
type ModelStatus struct {
	State          StateKind `json:"status"`
	Progress       float64   `json:"progress,omitempty"`
	ModelPath      string    `json:"modelPath,omitempty"`
	ModelSizeMB    float64   `json:"modelSizeMb,omitempty"`
	ModelSizeBytes int64     `json:"modelSizeBytes,omitempty"`
	Message        string    `json:"message,omitempty"`
}

// StreamEventKind enumerates the chunked-output event kinds.
type StreamEventKind string

const (
	StreamStart StreamEventKind = "start"
	StreamChunk StreamEventKind = "chunk"
	StreamEnd   StreamEventKind = "end"
)

// StreamEvent is one frame of the simulated token stream.
type StreamEvent struct {
	Kind  StreamEventKind `json:"kind"`
	Chunk string          `json:"chunk,omitempty"`
}

// EventSink receives the ordered start/chunk/end sequence for one request.
type EventSink interface {
	Publish(event StreamEvent)
}

// StatusSink receives every controller state transition.
type StatusSink interface {
	PublishStatus(status ModelStatus)
}

// HistoryEntry records one served reading for the history endpoint.
type HistoryEntry struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	Sign        string    `json:"sign"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	LuckyNumber int       `json:"luckyNumber"`
	Source      Source    `json:"source"`
	DurationMs  int64     `json:"durationMs"`
	CreatedAt   time.Time `json:"createdAt"`
}
