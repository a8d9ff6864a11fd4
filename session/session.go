// Package session manages ownership of a conversation log for the turn
// lifecycle engine. A Session owns exactly one Log plus the policy numbers
// that govern orchestration and compaction; nothing else mutates the log
// directly.
package session

import (
	"github.com/tailored-agentic-units/turnlog/core/history"
)

// Session holds one conversation log and its policy. Implementations must be
// safe for concurrent use.
type Session interface {
	// ID returns the unique session identifier.
	ID() string
	// Log returns a deep copy of the conversation log.
	Log() history.Log
	// Append assigns the next sequence number to t, commits it to the log,
	// and returns the sequenced turn. Appends are atomic per turn.
	Append(t history.Turn) history.Turn
	// SetLog installs a rewritten log, replacing the current one. Used to
	// commit a sanitizer correction; the sequence watermark is preserved by
	// the rewrite itself.
	SetLog(l history.Log)
	// Policy returns the session's orchestration and compaction parameters.
	Policy() Policy
	// Clear resets the conversation log.
	Clear()
}
