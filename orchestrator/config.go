package orchestrator

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailored-agentic-units/turnlog/generate"
	"github.com/tailored-agentic-units/turnlog/observability"
	"github.com/tailored-agentic-units/turnlog/session"
	"github.com/tailored-agentic-units/turnlog/store"
)

// Config holds initialization parameters for the engine's subsystems. Each
// section delegates to that subsystem's config-driven constructor.
type Config struct {
	Session  session.Config `json:"session"`
	Store    store.Config   `json:"store"`
	Observer string         `json:"observer,omitempty"`
}

// DefaultConfig returns a Config with defaults for all subsystems: default
// session policy, persistence disabled, the noop observer.
func DefaultConfig() Config {
	return Config{
		Session:  session.DefaultConfig(),
		Store:    store.DefaultConfig(),
		Observer: "noop",
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *Config) Merge(source *Config) {
	c.Session.Merge(&source.Session)
	c.Store.Merge(&source.Store)

	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// NewFromConfig constructs a fresh session and an Orchestrator from
// configuration: the session from the config's policy, persistence from the
// store section (disabled when the backend is empty), and the named observer
// from the registry. Explicit options are applied last and win.
func NewFromConfig(cfg *Config, gen generate.Generator, opts ...Option) (*Orchestrator, error) {
	sess, err := session.New(&cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("configure session: %w", err)
	}

	st, err := store.NewStore(&cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("configure store: %w", err)
	}

	obs, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return nil, fmt.Errorf("configure observer: %w", err)
	}

	base := []Option{WithObserver(obs)}
	if st != nil {
		base = append(base, WithStore(st))
	}
	return New(sess, gen, append(base, opts...)...), nil
}

// LoadConfig reads a JSON config file, merges it with defaults, and returns
// the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
