package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kamilpajak/designlens/internal/llm"
)

// SSEEmitter implements llm.ProgressEmitter by writing named Server-Sent
// Events: the event name is the progress event type, the payload the full
// event JSON. Clients can subscribe to "done" and "error" directly.
type SSEEmitter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEEmitter creates an SSEEmitter for the given ResponseWriter.
// Returns nil if the writer does not support flushing.
func NewSSEEmitter(w http.ResponseWriter) *SSEEmitter {
	f, ok := w.(http.Flusher)
	if !ok {
		return nil
	}
	return &SSEEmitter{w: w, flusher: f}
}

func setStreamHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// Emit writes one progress event and flushes it to the client.
func (e *SSEEmitter) Emit(ev llm.ProgressEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	fmt.Fprintf(e.w, "event: %s\ndata: %s\n\n", ev.Type, data)
	e.flusher.Flush()
}
