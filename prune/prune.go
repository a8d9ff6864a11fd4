// Package prune bounds the size of historical tool-call payloads while
// preserving recency. Tool results older than the retention window are
// replaced by a fixed-size placeholder; the turns keep their identity,
// position, and sequence numbers, so pruning is a size reduction and never a
// structural change.
//
// Prune is deterministic: the same log and window always yield the same
// output. Age is measured by position in the log, never by wall clock.
package prune

import (
	"fmt"

	"github.com/tailored-agentic-units/turnlog/core/history"
)

// MinUserTurns is the minimum number of user turns a log must hold before
// pruning applies. A conversation that short cannot have accumulated enough
// payload to be worth degrading.
const MinUserTurns = 2

// Placeholder returns the text substituted for a pruned tool result of n
// bytes.
func Placeholder(n int) string {
	return fmt.Sprintf("[truncated, %d bytes]", n)
}

// Prune returns a log in which tool results outside the retention window are
// replaced by Placeholder text and marked Truncated. The window counts the
// most recent turns kept at full fidelity. A non-positive window disables
// pruning, as does a log with fewer than MinUserTurns user turns.
func Prune(log history.Log, window int) history.Log {
	if window <= 0 || log.UserTurns() < MinUserTurns {
		return log
	}

	boundary := len(log.Turns) - window
	if boundary <= 0 {
		return log
	}

	changed := false
	kept := make([]history.Turn, len(log.Turns))
	copy(kept, log.Turns)

	for i := range boundary {
		t := kept[i]
		if t.Role != history.RoleTool || t.Truncated {
			continue
		}
		kept[i].Content = Placeholder(len(t.Content))
		kept[i].Truncated = true
		changed = true
	}

	if !changed {
		return log
	}
	return log.Rewrite(kept)
}
