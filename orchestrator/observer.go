package orchestrator

import "github.com/tailored-agentic-units/turnlog/observability"

// Orchestrator event types emitted during a logical turn.
const (
	EventTurnStart      observability.EventType = "turn.start"
	EventSanitized      observability.EventType = "turn.sanitized"
	EventAborted        observability.EventType = "turn.aborted"
	EventCommit         observability.EventType = "turn.commit"
	EventToolResult     observability.EventType = "turn.tool.result"
	EventCompacted      observability.EventType = "turn.compacted"
	EventCompactSkipped observability.EventType = "turn.compact.skipped"
	EventTurnComplete   observability.EventType = "turn.complete"
	EventError          observability.EventType = "turn.error"
)
