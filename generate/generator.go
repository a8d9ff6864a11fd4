// Package generate defines the generation collaborator boundary: the
// interface through which the orchestrator and the summarizer submit a
// transmit-ready context and receive assistant output.
//
// The wire protocol behind a Generator (HTTP, streaming, provider SDK) is
// out of scope here; implementations live with the embedding application.
// Cancellation and deadlines arrive through the context, and a Generator
// that respects cancellation must terminate without side effects on the
// caller's log.
package generate

import (
	"context"
	"errors"

	"github.com/tailored-agentic-units/turnlog/core/history"
)

// ErrEmptyCompletion is returned by callers when a Generator produces a
// completion with no content and no tool invocations.
var ErrEmptyCompletion = errors.New("empty completion")

// Completion is one assistant reply: text content plus zero or more tool
// invocation requests to be executed by the layer above the orchestrator.
type Completion struct {
	Content     string                   `json:"content"`
	Invocations []history.ToolInvocation `json:"invocations,omitempty"`
	Model       string                   `json:"model,omitempty"`
}

// Empty reports whether the completion carries neither content nor
// invocations.
func (c Completion) Empty() bool {
	return c.Content == "" && len(c.Invocations) == 0
}

// Generator produces assistant output for an ordered sequence of turns.
type Generator interface {
	// Complete submits the turns and returns the assistant's reply.
	// Implementations must honor ctx cancellation and deadlines by
	// abandoning the call and returning ctx.Err (possibly wrapped).
	Complete(ctx context.Context, turns []history.Turn) (*Completion, error)
}
