package llm

import (
	"fmt"
	"io"
)

// ProgressEvent represents a single progress update during a pipeline run.
type ProgressEvent struct {
	Type     string `json:"type"`               // "stage", "category", "attempt", "info", "done", "error"
	Stage    string `json:"stage,omitempty"`    // pipeline stage name
	Category string `json:"category,omitempty"` // category or group being analyzed
	Attempt  int    `json:"attempt,omitempty"`  // regeneration attempt index
	Budget   int    `json:"budget,omitempty"`   // attempt budget
	Message  string `json:"message,omitempty"`  // human-readable message
}

// ProgressEmitter receives progress events during a pipeline run.
type ProgressEmitter interface {
	Emit(event ProgressEvent)
}

// TextEmitter formats progress events as human-readable text for CLI output.
type TextEmitter struct {
	W io.Writer
}

// Emit writes a formatted progress line to the underlying writer.
func (e *TextEmitter) Emit(ev ProgressEvent) {
	switch ev.Type {
	case "stage":
		fmt.Fprintf(e.W, "[%s] %s\n", ev.Stage, ev.Message)
	case "category":
		fmt.Fprintf(e.W, "[%s]   %s: %s\n", ev.Stage, ev.Category, ev.Message)
	case "attempt":
		fmt.Fprintf(e.W, "[%s] attempt %d/%d: %s\n", ev.Stage, ev.Attempt, ev.Budget, ev.Message)
	case "info":
		fmt.Fprintf(e.W, "  %s\n", ev.Message)
	case "error":
		fmt.Fprintf(e.W, "Error: %s\n", ev.Message)
	}
}

// NopEmitter discards every event.
type NopEmitter struct{}

func (NopEmitter) Emit(ProgressEvent) {}
