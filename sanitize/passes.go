package sanitize

import (
	"github.com/tailored-agentic-units/turnlog/core/history"
)

// A pass is a pure Log -> Log rewrite. It reports whether it changed
// anything so the caller can detect the fixed point.
type pass func(history.Log) (history.Log, bool)

// Pass order matters: duplicate collapse and empty-assistant removal can
// expose new adjacencies for the later passes, and the loop in Sanitize
// re-runs the whole list until nothing changes.
var passes = []pass{
	collapseDuplicateUsers,
	dropEmptyAssistants,
	dedupLeadingSystem,
	dropDanglingInvocations,
}

func applyPasses(log history.Log) (history.Log, bool) {
	current := log
	changed := false
	for _, p := range passes {
		next, c := p(current)
		if c {
			current = next
			changed = true
		}
	}
	return current, changed
}

// collapseDuplicateUsers removes the earlier of two adjacent user turns with
// identical content, keeping the last. Duplicates arise when a submission is
// retried after an abort before the model ever responded.
func collapseDuplicateUsers(log history.Log) (history.Log, bool) {
	kept := make([]history.Turn, 0, len(log.Turns))
	changed := false

	for i, t := range log.Turns {
		if t.Role == history.RoleUser && i+1 < len(log.Turns) {
			next := log.Turns[i+1]
			if next.Role == history.RoleUser && next.Content == t.Content {
				changed = true
				continue
			}
		}
		kept = append(kept, t)
	}

	if !changed {
		return log, false
	}
	return log.Rewrite(kept), true
}

// dropEmptyAssistants removes assistant turns with no content and no tool
// invocations, the residue of an abort during response generation.
func dropEmptyAssistants(log history.Log) (history.Log, bool) {
	kept := make([]history.Turn, 0, len(log.Turns))
	changed := false

	for _, t := range log.Turns {
		if t.Role == history.RoleAssistant && t.Content == "" && len(t.Invocations) == 0 {
			changed = true
			continue
		}
		kept = append(kept, t)
	}

	if !changed {
		return log, false
	}
	return log.Rewrite(kept), true
}

// dedupLeadingSystem keeps only the first of the system turns leading the
// live window (after the latest checkpoint, or the whole log without one).
// Stacked system prompts accumulate when a session is resumed repeatedly.
func dedupLeadingSystem(log history.Log) (history.Log, bool) {
	start := 0
	if _, at, ok := log.LastCheckpoint(); ok {
		start = at + 1
	}

	drop := make(map[int]bool)
	seen := false
	for i := start; i < len(log.Turns); i++ {
		if log.Turns[i].Role != history.RoleSystem {
			break
		}
		if seen {
			drop[i] = true
		}
		seen = true
	}

	if len(drop) == 0 {
		return log, false
	}

	kept := make([]history.Turn, 0, len(log.Turns)-len(drop))
	for i, t := range log.Turns {
		if drop[i] {
			continue
		}
		kept = append(kept, t)
	}
	return log.Rewrite(kept), true
}

// dropDanglingInvocations removes tool invocations that were still pending
// when the next user turn began (or when the log ended), together with any
// late result turns for them. An assistant turn emptied by the removal is
// dropped entirely.
func dropDanglingInvocations(log history.Log) (history.Log, bool) {
	dangling := danglingInvocationIDs(log)
	if len(dangling) == 0 {
		return log, false
	}

	kept := make([]history.Turn, 0, len(log.Turns))
	for _, t := range log.Turns {
		switch {
		case t.Role == history.RoleTool && dangling[t.InvocationID]:
			continue
		case t.Role == history.RoleAssistant && len(t.Invocations) > 0:
			remaining := make([]history.ToolInvocation, 0, len(t.Invocations))
			for _, inv := range t.Invocations {
				if !dangling[inv.ID] {
					remaining = append(remaining, inv)
				}
			}
			if len(remaining) == len(t.Invocations) {
				kept = append(kept, t)
				continue
			}
			if len(remaining) == 0 && t.Content == "" {
				continue
			}
			if len(remaining) == 0 {
				remaining = nil
			}
			t.Invocations = remaining
			kept = append(kept, t)
		default:
			kept = append(kept, t)
		}
	}
	return log.Rewrite(kept), true
}

// danglingInvocationIDs returns the IDs of invocations with no result turn
// between their assistant turn and the next user turn. The end of the log
// counts as a boundary: a pending invocation at the tail belongs to an
// aborted turn, since sanitization only runs between turns.
func danglingInvocationIDs(log history.Log) map[string]bool {
	dangling := make(map[string]bool)

	for i, t := range log.Turns {
		for _, inv := range t.Invocations {
			if !resolvedBeforeUserTurn(log, i, inv.ID) {
				dangling[inv.ID] = true
			}
		}
	}
	return dangling
}

func resolvedBeforeUserTurn(log history.Log, from int, id string) bool {
	for _, t := range log.Turns[from+1:] {
		if t.Role == history.RoleUser {
			return false
		}
		if t.Role == history.RoleTool && t.InvocationID == id {
			return true
		}
	}
	return false
}
