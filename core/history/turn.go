// Package history defines the conversation log data model: immutable Turns
// indexed by monotonic sequence number, tool invocations with their result
// state, and checkpoint turns that supersede a contiguous span of the log.
//
// A Log is append-only from the caller's perspective. Components that need to
// correct history (the sanitizer, the pruner) produce a new Log rather than
// editing turns in place; the sequence watermark survives rewrites so numbers
// are never reused.
package history

import "time"

// Role identifies the kind of a conversation turn.
type Role string

const (
	RoleSystem     Role = "system"
	RoleUser       Role = "user"
	RoleAssistant  Role = "assistant"
	RoleTool       Role = "tool"
	RoleCheckpoint Role = "checkpoint"
)

// SeqRange is an inclusive range of sequence numbers covered by a checkpoint.
type SeqRange struct {
	First uint64 `json:"first"`
	Last  uint64 `json:"last"`
}

// Turn is a single immutable entry in the conversation log. Seq is assigned
// by Log.Append and is unique within the log.
//
// Role determines which optional fields are meaningful: assistant turns may
// carry Invocations, tool turns carry the InvocationID they resolve along
// with the Failed flag, and checkpoint turns carry the Covers range they
// supersede. Truncated marks a tool result whose payload was replaced by the
// pruner's placeholder.
type Turn struct {
	Seq          uint64           `json:"seq"`
	Role         Role             `json:"role"`
	Content      string           `json:"content"`
	Invocations  []ToolInvocation `json:"invocations,omitempty"`
	InvocationID string           `json:"invocation_id,omitempty"`
	Failed       bool             `json:"failed,omitempty"`
	Truncated    bool             `json:"truncated,omitempty"`
	Covers       *SeqRange        `json:"covers,omitempty"`
	Created      time.Time        `json:"created"`
}

// NewTurn creates an unsequenced Turn with the given role and content.
// Use struct literals or the dedicated constructors for tool and checkpoint
// turns.
//
// Example:
//
//	t := history.NewTurn(history.RoleUser, "Hello, world!")
func NewTurn(role Role, content string) Turn {
	return Turn{Role: role, Content: content, Created: time.Now().UTC()}
}

// NewToolResult creates a tool turn recording the outcome of the invocation
// identified by invocationID. Failed marks an execution error; the content is
// the error text in that case.
func NewToolResult(invocationID, content string, failed bool) Turn {
	return Turn{
		Role:         RoleTool,
		Content:      content,
		InvocationID: invocationID,
		Failed:       failed,
		Created:      time.Now().UTC(),
	}
}

// NewCheckpoint creates a checkpoint turn carrying a generated summary of the
// turns whose sequence numbers fall inside covers.
func NewCheckpoint(summary string, covers SeqRange) Turn {
	return Turn{
		Role:    RoleCheckpoint,
		Content: summary,
		Covers:  &covers,
		Created: time.Now().UTC(),
	}
}

// IsCheckpoint reports whether the turn is a checkpoint.
func (t Turn) IsCheckpoint() bool {
	return t.Role == RoleCheckpoint
}
