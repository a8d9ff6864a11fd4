// Package compact implements rolling summarization: when the estimated cost
// of the live history exceeds a budget, an old span of the log is collapsed
// into a single checkpoint turn carrying a generated summary.
//
// Summarization failure is non-fatal by contract. GenerateCheckpoint returns
// an error and nothing else; the caller keeps the pre-compaction log
// unchanged and retries on the next qualifying turn. A committed checkpoint
// is immutable and is only ever superseded by a later checkpoint.
package compact

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tailored-agentic-units/turnlog/core/history"
	"github.com/tailored-agentic-units/turnlog/generate"
)

// ErrEmptySpan is returned when there are no turns after the latest
// checkpoint to summarize.
var ErrEmptySpan = errors.New("nothing to compact")

const summaryPrompt = `Summarize the following conversation history into a concise summary.
Focus on:
1. Key decisions made
2. Important context established
3. Current state of the task
4. Any pending actions

Keep the summary under 500 words.

Conversation:
%s

Summary:`

// ShouldCompact reports whether the estimated cost of the turns since the
// latest checkpoint exceeds budget. A non-positive budget disables
// compaction.
func ShouldCompact(log history.Log, budget int) bool {
	if budget <= 0 {
		return false
	}
	return CostSince(log) > budget
}

// GenerateCheckpoint asks the generation collaborator for a summary of the
// span from the latest checkpoint (exclusive) to the current tail
// (inclusive) and returns an unsequenced checkpoint turn covering exactly
// that range. The input log is never modified; on error the caller has
// nothing to undo.
//
// Callers are expected to run this under its own deadline, independent of
// the primary turn's cancellation, so a slow summary never blocks or aborts
// the main request.
func GenerateCheckpoint(ctx context.Context, g generate.Generator, log history.Log) (history.Turn, error) {
	span := liveSpan(log)
	if len(span) == 0 {
		return history.Turn{}, ErrEmptySpan
	}

	prompt := fmt.Sprintf(summaryPrompt, transcript(span))
	req := []history.Turn{history.NewTurn(history.RoleUser, prompt)}

	comp, err := g.Complete(ctx, req)
	if err != nil {
		return history.Turn{}, fmt.Errorf("generate summary: %w", err)
	}
	if comp.Empty() {
		return history.Turn{}, fmt.Errorf("generate summary: %w", generate.ErrEmptyCompletion)
	}

	covers := history.SeqRange{
		First: span[0].Seq,
		Last:  span[len(span)-1].Seq,
	}
	return history.NewCheckpoint(comp.Content, covers), nil
}

// liveSpan returns the turns strictly after the latest checkpoint.
func liveSpan(log history.Log) []history.Turn {
	start := 0
	if _, at, ok := log.LastCheckpoint(); ok {
		start = at + 1
	}
	return log.Turns[start:]
}

// transcript renders a span as role-tagged text for the summary prompt.
func transcript(span []history.Turn) string {
	parts := make([]string, 0, len(span))
	for _, t := range span {
		if t.Content == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", t.Role, t.Content))
	}
	return strings.Join(parts, "\n---\n")
}
