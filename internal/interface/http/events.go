package http

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/sardonia/theveil/internal/domain/reading"
)

const subscriberBuffer = 16

// StatusHub fans controller state transitions out to SSE subscribers. A slow
// subscriber drops transitions rather than blocking the controller; the most
// recent status always wins.
type StatusHub struct {
	mu   sync.Mutex
	subs map[chan reading.ModelStatus]struct{}
}

// NewStatusHub constructs the hub.
func NewStatusHub() *StatusHub {
	return &StatusHub{subs: make(map[chan reading.ModelStatus]struct{})}
}

// PublishStatus implements reading.StatusSink.
func (h *StatusHub) PublishStatus(status reading.ModelStatus) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		select {
		case sub <- status:
		default:
		}
	}
}

// Subscribe registers a new listener channel.
func (h *StatusHub) Subscribe() chan reading.ModelStatus {
	sub := make(chan reading.ModelStatus, subscriberBuffer)
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Unsubscribe removes a listener channel.
func (h *StatusHub) Unsubscribe(sub chan reading.ModelStatus) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
}

var _ reading.StatusSink = (*StatusHub)(nil)

// sseSink forwards stream events to the HTTP response as they happen.
type sseSink struct {
	c       *gin.Context
	flusher http.Flusher
}

// Publish implements reading.EventSink.
func (s *sseSink) Publish(event reading.StreamEvent) {
	writeSSE(s.c, event)
	s.flusher.Flush()
}

func setSSEHeaders(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
}

func writeSSE(c *gin.Context, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	c.Writer.Write([]byte("data: "))
	c.Writer.Write(data)
	c.Writer.Write([]byte("\n\n"))
}
