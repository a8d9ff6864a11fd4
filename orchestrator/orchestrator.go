// Package orchestrator drives one logical conversation turn: it self-heals
// the session log, selects and prunes the transmit context, submits it to
// the generation collaborator under a deadline, and commits the results back
// into the log. An aborted turn leaves repair to the next sanitizer pass.
//
//	o := orchestrator.New(sess, gen, orchestrator.WithStore(st))
//	result, err := o.RunTurn(ctx, "What's the weather in Boston?")
//
// Exactly one turn is in flight per session at a time. Concurrent
// submissions are rejected with ErrTurnInFlight rather than queued, because
// interleaved appends would break sequence monotonicity.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/tailored-agentic-units/turnlog/compact"
	"github.com/tailored-agentic-units/turnlog/core/history"
	"github.com/tailored-agentic-units/turnlog/generate"
	"github.com/tailored-agentic-units/turnlog/observability"
	"github.com/tailored-agentic-units/turnlog/prune"
	"github.com/tailored-agentic-units/turnlog/sanitize"
	"github.com/tailored-agentic-units/turnlog/session"
	"github.com/tailored-agentic-units/turnlog/store"
)

// Result holds the outcome of a committed turn.
type Result struct {
	Reply       string                   // Assistant text content.
	Invocations []history.ToolInvocation // Tool calls requested by the assistant, to be executed by the caller.
	Compacted   bool                     // Whether a checkpoint was appended after the commit.
}

// Option configures an Orchestrator after construction.
type Option func(*Orchestrator)

// WithObserver overrides the default NoOpObserver.
func WithObserver(o observability.Observer) Option {
	return func(or *Orchestrator) { or.observer = o }
}

// WithStore enables persistence: the session log is saved after every
// committed turn. A save failure never fails the turn; it is surfaced as an
// error-level event.
func WithStore(s store.Store) Option {
	return func(or *Orchestrator) { or.store = s }
}

// WithTurnTimeout overrides the session policy's turn deadline. Zero means
// no deadline. Intended for tests and embedders that manage deadlines
// themselves.
func WithTurnTimeout(d time.Duration) Option {
	return func(or *Orchestrator) {
		or.turnTimeout = d
		or.turnTimeoutSet = true
	}
}

// WithSummaryTimeout overrides the session policy's summarizer sub-deadline.
func WithSummaryTimeout(d time.Duration) Option {
	return func(or *Orchestrator) {
		or.summaryTimeout = d
		or.summaryTimeoutSet = true
	}
}

// Orchestrator serializes and executes logical turns for one session.
type Orchestrator struct {
	sess     session.Session
	gen      generate.Generator
	store    store.Store
	observer observability.Observer

	turnTimeout       time.Duration
	turnTimeoutSet    bool
	summaryTimeout    time.Duration
	summaryTimeoutSet bool

	// turns admits exactly one in-flight turn; TryAcquire failure maps to
	// ErrTurnInFlight.
	turns *semaphore.Weighted

	mu    sync.RWMutex
	state State
}

// New creates an Orchestrator for the given session and generation
// collaborator.
func New(sess session.Session, gen generate.Generator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		sess:     sess,
		gen:      gen,
		observer: observability.NoOpObserver{},
		turns:    semaphore.NewWeighted(1),
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Resume loads a stored session log, sanitizes it immediately, and returns
// an Orchestrator continuing that session with persistence enabled on the
// same store.
func Resume(ctx context.Context, st store.Store, sessionID string, policy session.Policy, gen generate.Generator, opts ...Option) (*Orchestrator, error) {
	log, err := st.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("resume session %q: %w", sessionID, err)
	}

	clean, err := sanitize.Sanitize(log)
	if err != nil {
		return nil, fmt.Errorf("resume session %q: %w", sessionID, err)
	}

	sess := session.Resume(sessionID, clean, policy)
	return New(sess, gen, append(opts, WithStore(st))...), nil
}

// Session returns the session this orchestrator drives.
func (o *Orchestrator) Session() session.Session {
	return o.sess
}

// State returns the lifecycle state of the most recent turn.
func (o *Orchestrator) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// RunTurn executes one logical turn. A non-empty input is appended as a user
// turn; an empty input continues the conversation from recorded tool
// results. The returned invocations, if any, are to be executed by the
// caller and recorded via RecordToolResult before the next RunTurn.
//
// On deadline expiry the turn aborts with ErrRequestTimeout and the log is
// left as-is, possibly holding a pending invocation; the next turn's
// sanitizer pass removes it. Collaborator errors surface as ErrCollaborator
// with the log unmodified for the failed turn.
func (o *Orchestrator) RunTurn(ctx context.Context, input string) (*Result, error) {
	if !o.turns.TryAcquire(1) {
		return nil, ErrTurnInFlight
	}
	defer o.turns.Release(1)

	pol := o.sess.Policy()

	o.setState(StateSubmitting)
	o.emit(ctx, EventTurnStart, observability.LevelInfo, map[string]any{
		"input_length": len(input),
	})

	if input != "" {
		o.sess.Append(history.NewTurn(history.RoleUser, input))
	}

	before := o.sess.Log()
	clean, err := sanitize.Sanitize(before)
	if err != nil {
		o.setState(StateFailed)
		o.emit(ctx, EventError, observability.LevelError, map[string]any{"error": err.Error()})
		return nil, fmt.Errorf("sanitize: %w", err)
	}
	if clean.Len() != before.Len() {
		o.emit(ctx, EventSanitized, observability.LevelVerbose, map[string]any{
			"removed_turns": before.Len() - clean.Len(),
		})
	}
	o.sess.SetLog(clean)

	transmit := prune.Prune(clean.EffectiveContext(), pol.RetentionWindow)

	o.setState(StateAwaitingResponse)
	genCtx := ctx
	if d := o.deadline(pol); d > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	comp, err := o.gen.Complete(genCtx, transmit.Turns)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			o.setState(StateAborted)
			o.emit(ctx, EventAborted, observability.LevelWarning, map[string]any{"cause": "deadline"})
			return nil, fmt.Errorf("awaiting response: %w", ErrRequestTimeout)
		case errors.Is(err, context.Canceled):
			o.setState(StateAborted)
			o.emit(ctx, EventAborted, observability.LevelWarning, map[string]any{"cause": "cancelled"})
			return nil, fmt.Errorf("awaiting response: %w", err)
		default:
			o.setState(StateFailed)
			o.emit(ctx, EventError, observability.LevelError, map[string]any{"error": err.Error()})
			return nil, fmt.Errorf("%w: generate: %v", ErrCollaborator, err)
		}
	}
	if comp.Empty() {
		o.setState(StateFailed)
		o.emit(ctx, EventError, observability.LevelError, map[string]any{"error": "empty completion"})
		return nil, fmt.Errorf("%w: %v", ErrCollaborator, generate.ErrEmptyCompletion)
	}

	o.setState(StateCommitting)
	assistant := history.NewTurn(history.RoleAssistant, comp.Content)
	assistant.Invocations = comp.Invocations
	o.sess.Append(assistant)
	o.emit(ctx, EventCommit, observability.LevelVerbose, map[string]any{
		"reply_length": len(comp.Content),
		"invocations":  len(comp.Invocations),
	})

	result := &Result{Reply: comp.Content, Invocations: comp.Invocations}

	// Compaction is deferred while tool results are still outstanding: a
	// checkpoint between an invocation and its result would cut the result
	// out of the effective context.
	if len(comp.Invocations) == 0 {
		result.Compacted = o.maybeCompact(ctx, pol)
	}

	o.persist(ctx)

	o.setState(StateIdle)
	o.emit(ctx, EventTurnComplete, observability.LevelInfo, map[string]any{
		"reply_length": len(result.Reply),
		"compacted":    result.Compacted,
	})
	return result, nil
}

// RecordToolResult appends the outcome of an invocation requested by the
// previous turn. The invocation must exist in the log; recording results for
// unknown IDs is rejected so the log cannot become unrecoverable.
func (o *Orchestrator) RecordToolResult(ctx context.Context, invocationID, content string, failed bool) error {
	if !o.turns.TryAcquire(1) {
		return ErrTurnInFlight
	}
	defer o.turns.Release(1)

	log := o.sess.Log()
	if _, _, ok := log.FindInvocation(invocationID); !ok {
		return fmt.Errorf("record tool result: unknown invocation %q", invocationID)
	}

	o.sess.Append(history.NewToolResult(invocationID, content, failed))
	o.emit(ctx, EventToolResult, observability.LevelVerbose, map[string]any{
		"invocation": invocationID,
		"failed":     failed,
	})
	return nil
}

// maybeCompact appends a checkpoint when the live history exceeds the token
// budget. The summarizer call runs detached from the turn's cancellation
// under its own sub-deadline; failure skips compaction and leaves the log
// untouched, to be retried on the next qualifying turn.
func (o *Orchestrator) maybeCompact(ctx context.Context, pol session.Policy) bool {
	log := o.sess.Log()
	if !compact.ShouldCompact(log, pol.TokenBudget) {
		return false
	}

	sumCtx := context.WithoutCancel(ctx)
	if d := o.summaryDeadline(pol); d > 0 {
		var cancel context.CancelFunc
		sumCtx, cancel = context.WithTimeout(sumCtx, d)
		defer cancel()
	}

	cp, err := compact.GenerateCheckpoint(sumCtx, o.gen, log)
	if err != nil {
		o.emit(ctx, EventCompactSkipped, observability.LevelWarning, map[string]any{
			"error": err.Error(),
		})
		return false
	}

	committed := o.sess.Append(cp)
	o.emit(ctx, EventCompacted, observability.LevelInfo, map[string]any{
		"covers_first": committed.Covers.First,
		"covers_last":  committed.Covers.Last,
	})
	return true
}

// persist saves the session log when a store is configured. The commit
// already happened in memory, so a save failure is reported but does not
// fail the turn.
func (o *Orchestrator) persist(ctx context.Context) {
	if o.store == nil {
		return
	}
	if err := o.store.Save(ctx, o.sess.ID(), o.sess.Log()); err != nil {
		o.emit(ctx, EventError, observability.LevelError, map[string]any{
			"error": fmt.Sprintf("persist: %v", err),
		})
	}
}

func (o *Orchestrator) deadline(pol session.Policy) time.Duration {
	if o.turnTimeoutSet {
		return o.turnTimeout
	}
	return pol.Timeout()
}

func (o *Orchestrator) summaryDeadline(pol session.Policy) time.Duration {
	if o.summaryTimeoutSet {
		return o.summaryTimeout
	}
	return pol.SummaryTimeout()
}

func (o *Orchestrator) emit(ctx context.Context, typ observability.EventType, level observability.Level, data map[string]any) {
	o.observer.OnEvent(ctx, observability.Event{
		Type:      typ,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "orchestrator.RunTurn",
		Session:   o.sess.ID(),
		Data:      data,
	})
}
