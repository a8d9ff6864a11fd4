// Package sanitize restores structural well-formedness of a conversation log.
//
// Aborted or interrupted turns can leave the log in a state that a
// subsequent request cannot use: tool invocations with no recorded result,
// empty assistant turns, duplicate user submissions, stacked system prompts.
// Sanitize applies a fixed ordered set of pure rewrite passes to a fixed
// point, bounded by MaxIterations, and returns a corrected copy of the log.
// The input log is never modified.
//
// Sanitize is idempotent: sanitizing an already-sanitized log returns it
// unchanged. It performs no I/O and calls no collaborators, so every pass is
// unit-testable in isolation.
package sanitize

import (
	"errors"
	"fmt"

	"github.com/tailored-agentic-units/turnlog/core/history"
)

// MaxIterations caps the rewrite loop. A log that has not stabilized after
// this many full passes is structurally corrupt rather than merely dirty.
const MaxIterations = 10

// ErrCorruptHistory signals unrecoverable structural corruption: a tool
// result referencing an invocation that never existed, or a log whose rewrite
// passes never reach a fixed point. The turn fails and the log is left
// unmodified; this is never silently repaired.
var ErrCorruptHistory = errors.New("corrupt history")

// Sanitize returns a new log with the rewrite passes applied to a fixed
// point. On error the original log is returned unchanged.
func Sanitize(log history.Log) (history.Log, error) {
	if err := checkResultReferences(log); err != nil {
		return log, err
	}

	current := log
	for range MaxIterations {
		next, changed := applyPasses(current)
		if !changed {
			return current, nil
		}
		current = next
	}

	return log, fmt.Errorf("%w: rewrite passes did not stabilize after %d iterations",
		ErrCorruptHistory, MaxIterations)
}

// checkResultReferences verifies that every tool turn resolves an invocation
// that exists somewhere in the log. A result with an unknown ID cannot be
// attributed to any turn and cannot be repaired by removal without losing
// information, so it is surfaced as corruption.
func checkResultReferences(log history.Log) error {
	known := make(map[string]bool)
	for _, t := range log.Turns {
		for _, inv := range t.Invocations {
			known[inv.ID] = true
		}
	}

	for _, t := range log.Turns {
		if t.Role == history.RoleTool && !known[t.InvocationID] {
			return fmt.Errorf("%w: tool result references unknown invocation %q",
				ErrCorruptHistory, t.InvocationID)
		}
	}
	return nil
}
