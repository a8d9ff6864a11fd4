package history

import "github.com/google/uuid"

// ToolInvocation is a tool call requested by an assistant turn. The result is
// recorded separately as a tool turn referencing the invocation ID; until that
// turn exists the invocation is pending.
type ToolInvocation struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// NewToolInvocation creates a ToolInvocation with a generated UUID. Providers
// that supply their own call IDs should use struct literals instead.
func NewToolInvocation(name, arguments string) ToolInvocation {
	return ToolInvocation{
		ID:        uuid.NewString(),
		Name:      name,
		Arguments: arguments,
	}
}

// InvocationState describes the result slot of a ToolInvocation as derived
// from the log.
type InvocationState string

const (
	InvocationPending   InvocationState = "pending"
	InvocationSucceeded InvocationState = "succeeded"
	InvocationFailed    InvocationState = "failed"
)

// FindInvocation locates the invocation with the given ID and the index of
// the assistant turn that carries it.
func (l Log) FindInvocation(id string) (ToolInvocation, int, bool) {
	for i, t := range l.Turns {
		for _, inv := range t.Invocations {
			if inv.ID == id {
				return inv, i, true
			}
		}
	}
	return ToolInvocation{}, 0, false
}

// InvocationState derives the result state of the invocation with the given
// ID. An invocation counts as resolved only when a tool turn with its ID
// appears after the carrying assistant turn and before the next user turn;
// a result arriving after an intervening user turn is orphaned and leaves
// the invocation pending. Unknown IDs report pending.
func (l Log) InvocationState(id string) InvocationState {
	_, at, ok := l.FindInvocation(id)
	if !ok {
		return InvocationPending
	}

	for _, t := range l.Turns[at+1:] {
		if t.Role == RoleUser {
			break
		}
		if t.Role == RoleTool && t.InvocationID == id {
			if t.Failed {
				return InvocationFailed
			}
			return InvocationSucceeded
		}
	}
	return InvocationPending
}
