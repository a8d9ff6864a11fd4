package orchestrator

// State identifies where the most recent logical turn is in its lifecycle.
//
// A turn moves Idle → Submitting → AwaitingResponse → Committing → Idle.
// Aborted is terminal for a turn that hit its deadline or was cancelled
// while awaiting the collaborator; Failed is terminal for collaborator or
// sanitizer errors. Terminal states remain visible until the next turn
// starts.
type State string

const (
	StateIdle             State = "idle"
	StateSubmitting       State = "submitting"
	StateAwaitingResponse State = "awaiting_response"
	StateCommitting       State = "committing"
	StateAborted          State = "aborted"
	StateFailed           State = "failed"
)
