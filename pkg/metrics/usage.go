package metrics

// GenerationStats captures per-call telemetry for one generation request.
type GenerationStats struct {
	Source       string `json:"source"`
	DurationMs   int64  `json:"durationMs"`
	PromptTokens int    `json:"promptTokens,omitempty"`
}

// IsZero reports whether stats were ever recorded.
func (s GenerationStats) IsZero() bool {
	return s.Source == "" && s.DurationMs == 0 && s.PromptTokens == 0
}
