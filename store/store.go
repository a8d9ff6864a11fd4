// Package store persists conversation logs between process runs. The engine
// requires only that a loaded log deserialize into the same shape it was
// saved with; callers run the sanitizer immediately after load, so a backend
// never needs to understand log invariants.
//
// Backends are registered by name; "memory" is available by default and a
// file-backed store can be created from configuration.
package store

import (
	"context"

	"github.com/tailored-agentic-units/turnlog/core/history"
)

// Store persists logs keyed by session ID. Implementations are stateless
// with respect to log semantics and must be safe for concurrent use.
type Store interface {
	// List returns the session IDs with a stored log.
	List(ctx context.Context) ([]string, error)
	// Load retrieves the log stored for the given session ID.
	Load(ctx context.Context, sessionID string) (history.Log, error)
	// Save persists the log for the given session ID, overwriting any
	// previous snapshot.
	Save(ctx context.Context, sessionID string, log history.Log) error
	// Delete removes the stored log. Missing sessions are ignored.
	Delete(ctx context.Context, sessionID string) error
}
