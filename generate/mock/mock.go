// Package mock provides a configurable Generator test double used across the
// repository's test suites.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/tailored-agentic-units/turnlog/core/history"
	"github.com/tailored-agentic-units/turnlog/generate"
)

// Option configures a Generator.
type Option func(*Generator)

// WithCompletion sets a fixed completion returned by every Complete call.
func WithCompletion(c generate.Completion) Option {
	return func(g *Generator) {
		g.complete = func(context.Context, []history.Turn) (*generate.Completion, error) {
			copied := c
			return &copied, nil
		}
	}
}

// WithError makes every Complete call fail with err.
func WithError(err error) Option {
	return func(g *Generator) {
		g.complete = func(context.Context, []history.Turn) (*generate.Completion, error) {
			return nil, err
		}
	}
}

// WithCompleteFunc installs a custom Complete implementation.
func WithCompleteFunc(fn func(ctx context.Context, turns []history.Turn) (*generate.Completion, error)) Option {
	return func(g *Generator) { g.complete = fn }
}

// WithDelay makes Complete sleep for d before responding, honoring context
// cancellation during the wait. Used to exercise deadline handling.
func WithDelay(d time.Duration) Option {
	return func(g *Generator) { g.delay = d }
}

// Generator is a Generator implementation driven entirely by options. The
// zero configuration returns an "ok" text completion. All methods are safe
// for concurrent use.
type Generator struct {
	mu       sync.Mutex
	complete func(ctx context.Context, turns []history.Turn) (*generate.Completion, error)
	delay    time.Duration
	calls    int
	last     []history.Turn
}

// New creates a mock Generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		complete: func(context.Context, []history.Turn) (*generate.Completion, error) {
			return &generate.Completion{Content: "ok", Model: "mock"}, nil
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) Complete(ctx context.Context, turns []history.Turn) (*generate.Completion, error) {
	g.mu.Lock()
	g.calls++
	g.last = turns
	fn := g.complete
	delay := g.delay
	g.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fn(ctx, turns)
}

// Calls returns how many times Complete has been invoked.
func (g *Generator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// LastTurns returns the turns passed to the most recent Complete call.
func (g *Generator) LastTurns() []history.Turn {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}
