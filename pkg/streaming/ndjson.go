// Package streaming implements the run progress stream: newline-delimited
// JSON objects written and flushed as the run advances.
package streaming

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

// NDJSONWriter streams events over HTTP as one JSON object per line.
type NDJSONWriter struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	enc     *json.Encoder
	started bool
}

// NewNDJSONWriter prepares the response for NDJSON streaming and writes
// the headers. It fails when the writer cannot flush incrementally.
func NewNDJSONWriter(w http.ResponseWriter) (*NDJSONWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support flushing")
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	return &NDJSONWriter{
		w:       w,
		flusher: flusher,
		enc:     json.NewEncoder(w),
	}, nil
}

// Emit writes one event as a JSON line and flushes it to the client.
func (n *NDJSONWriter) Emit(event any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.emit(event)
}

func (n *NDJSONWriter) emit(event any) error {
	n.started = true
	// json.Encoder appends the trailing newline.
	if err := n.enc.Encode(event); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	n.flusher.Flush()
	return nil
}

// WriteError emits a terminal error object on the stream. When the
// failure happens before any event has gone out, the status code is
// still unsent, so the error line is delivered under 500 instead of
// the implicit 200.
func (n *NDJSONWriter) WriteError(err error) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.started {
		n.w.WriteHeader(http.StatusInternalServerError)
	}
	return n.emit(map[string]string{
		"type":    "error",
		"error":   "run failed",
		"details": err.Error(),
	})
}

// Buffer is an in-memory EventSink that records events in order. Useful
// for tests and for callers that want the stream replayed after the
// fact.
type Buffer struct {
	mu     sync.Mutex
	events []any
}

// NewBuffer creates an empty buffering sink.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Emit records the event.
func (b *Buffer) Emit(event any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

// Events returns the recorded events in emission order.
func (b *Buffer) Events() []any {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]any, len(b.events))
	copy(out, b.events)
	return out
}
