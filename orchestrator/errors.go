package orchestrator

import "errors"

var (
	// ErrTurnInFlight is returned when a turn is submitted while another
	// turn on the same session has not finished. Turns are never
	// interleaved; callers retry after the in-flight turn completes.
	ErrTurnInFlight = errors.New("turn already in flight")

	// ErrRequestTimeout is returned when the deadline expires while
	// awaiting the generation collaborator. The turn is recoverable: the
	// log is left valid-but-possibly-dangling and self-heals on the next
	// sanitizer pass.
	ErrRequestTimeout = errors.New("request timeout")

	// ErrCollaborator is returned when the generation collaborator fails
	// for a reason other than cancellation. The failed turn left the log
	// unmodified.
	ErrCollaborator = errors.New("collaborator failure")
)
