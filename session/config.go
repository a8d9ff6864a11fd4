package session

import "time"

// Default policy values. The token budget matches the compaction threshold
// the engine was tuned against; the retention window is in turns.
const (
	defaultTimeoutSeconds        = 120
	defaultSummaryTimeoutSeconds = 60
	defaultTokenBudget           = 40_000
	defaultRetentionWindow       = 24
)

// Policy holds the orchestration and compaction parameters owned by a
// Session. A non-positive number disables the corresponding mechanism.
type Policy struct {
	// TimeoutSeconds bounds a single turn's wait on the generation
	// collaborator. 0 disables the deadline.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`
	// SummaryTimeoutSeconds bounds the summarizer's own collaborator call,
	// independent of the turn deadline. 0 disables it.
	SummaryTimeoutSeconds int `json:"summary_timeout_seconds,omitempty"`
	// TokenBudget is the estimated-token threshold that triggers
	// compaction. 0 disables compaction.
	TokenBudget int `json:"token_budget,omitempty"`
	// RetentionWindow is the number of most recent turns kept at full
	// fidelity by the pruner. 0 disables pruning.
	RetentionWindow int `json:"retention_window,omitempty"`
}

// Timeout returns the turn deadline as a duration; zero means no deadline.
func (p Policy) Timeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// SummaryTimeout returns the summarizer sub-deadline as a duration; zero
// means no deadline.
func (p Policy) SummaryTimeout() time.Duration {
	if p.SummaryTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(p.SummaryTimeoutSeconds) * time.Second
}

// Config holds session initialization parameters.
type Config struct {
	Policy Policy `json:"policy"`
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		Policy: Policy{
			TimeoutSeconds:        defaultTimeoutSeconds,
			SummaryTimeoutSeconds: defaultSummaryTimeoutSeconds,
			TokenBudget:           defaultTokenBudget,
			RetentionWindow:       defaultRetentionWindow,
		},
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Policy.TimeoutSeconds != 0 {
		c.Policy.TimeoutSeconds = source.Policy.TimeoutSeconds
	}
	if source.Policy.SummaryTimeoutSeconds != 0 {
		c.Policy.SummaryTimeoutSeconds = source.Policy.SummaryTimeoutSeconds
	}
	if source.Policy.TokenBudget != 0 {
		c.Policy.TokenBudget = source.Policy.TokenBudget
	}
	if source.Policy.RetentionWindow != 0 {
		c.Policy.RetentionWindow = source.Policy.RetentionWindow
	}
}

// New creates a Session from configuration. Currently returns an in-memory
// session.
func New(cfg *Config) (Session, error) {
	return NewMemorySession(cfg.Policy), nil
}
