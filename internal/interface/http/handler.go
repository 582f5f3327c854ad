package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sardonia/theveil/internal/domain/reading"
	apperrors "github.com/sardonia/theveil/pkg/errors"
)

// Handler wires the HTTP transport to the reading service.
type Handler struct {
	readingSvc reading.Service
	hub        *StatusHub
	logger     *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(readingSvc reading.Service, hub *StatusHub, logger *slog.Logger) *Handler {
	return &Handler{
		readingSvc: readingSvc,
		hub:        hub,
		logger:     logger.With("component", "http.handler"),
	}
}

type generateRequest struct {
	Profile  reading.Profile         `json:"profile"`
	Date     string                  `json:"date"`
	Prompt   string                  `json:"prompt,omitempty"`
	Sampling *reading.SamplingParams `json:"sampling,omitempty"`
}

func (r generateRequest) toDomain() reading.Request {
	req := reading.Request{
		Profile: r.Profile,
		Date:    r.Date,
		Prompt:  r.Prompt,
	}
	if r.Sampling != nil {
		req.Sampling = *r.Sampling
	}
	return req
}

// InitModel triggers the background load unless one is already in flight.
func (h *Handler) InitModel(c *gin.Context) {
	c.JSON(http.StatusOK, h.readingSvc.InitModel(c.Request.Context()))
}

// ModelStatus is a pure read of the controller state.
func (h *Handler) ModelStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.readingSvc.ModelStatus(c.Request.Context()))
}

// ModelEvents streams controller state transitions as Server-Sent Events.
func (h *Handler) ModelEvents(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "stream_unsupported", "streaming not supported", nil))
		return
	}
	setSSEHeaders(c)

	sub := h.hub.Subscribe()
	defer h.hub.Unsubscribe(sub)

	// Replay the current status so late subscribers see a starting point.
	writeSSE(c, h.readingSvc.ModelStatus(c.Request.Context()))
	flusher.Flush()

	for {
		select {
		case status := <-sub:
			writeSSE(c, status)
			flusher.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}

// GenerateReading handles the sync generation endpoint.
func (h *Handler) GenerateReading(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	result, err := h.readingSvc.Generate(c.Request.Context(), req.toDomain())
	if err != nil {
		abortWithError(c, generationError(err))
		return
	}

	c.JSON(http.StatusOK, result)
}

// GenerateReadingStream emits the start/chunk/end sequence over SSE, closing
// with a final frame carrying the complete reading.
func (h *Handler) GenerateReadingStream(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "stream_unsupported", "streaming not supported", nil))
		return
	}
	setSSEHeaders(c)

	sink := &sseSink{c: c, flusher: flusher}
	result, err := h.readingSvc.GenerateStream(c.Request.Context(), req.toDomain(), sink)
	if err != nil {
		writeSSE(c, gin.H{"kind": "error", "message": err.Error()})
		flusher.Flush()
		return
	}

	writeSSE(c, gin.H{"kind": "reading", "reading": result})
	flusher.Flush()
}

// GenerateDashboard returns the raw dashboard JSON document.
func (h *Handler) GenerateDashboard(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	payload, err := h.readingSvc.GenerateDashboard(c.Request.Context(), req.toDomain())
	if err != nil {
		abortWithError(c, generationError(err))
		return
	}

	c.Data(http.StatusOK, "application/json", []byte(payload))
}

// ReadingHistory returns the most recently served readings.
func (h *Handler) ReadingHistory(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer", err))
			return
		}
		limit = parsed
	}

	entries, err := h.readingSvc.History(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "history_failed", errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"readings": entries})
}

// generationError maps controller-state failures to distinguishable statuses
// while preserving the exact error text.
func generationError(err error) *HTTPError {
	switch {
	case err == reading.ErrModelNotInitialized:
		return NewHTTPError(http.StatusConflict, "model_not_initialized", err.Error(), err)
	case err == reading.ErrModelLoading:
		return NewHTTPError(http.StatusServiceUnavailable, "model_loading", err.Error(), err)
	case apperrors.IsCode(err, "serialization_error"):
		return NewHTTPError(http.StatusBadGateway, "serialization_error", errMessage(err), err)
	default:
		return NewHTTPError(http.StatusBadGateway, "generation_failed", errMessage(err), err)
	}
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
