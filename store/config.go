package store

import "fmt"

// Config holds store initialization parameters.
type Config struct {
	// Backend selects the storage backend: "memory", "file", or any name
	// added via Register. Empty disables persistence.
	Backend string `json:"backend,omitempty"`
	// Path is the root directory for the "file" backend.
	Path string `json:"path,omitempty"`
}

// DefaultConfig returns the default store configuration (disabled).
func DefaultConfig() Config {
	return Config{}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Backend != "" {
		c.Backend = source.Backend
	}
	if source.Path != "" {
		c.Path = source.Path
	}
}

// NewStore creates a Store from configuration. Returns a nil Store when
// Backend is empty, indicating persistence is disabled.
func NewStore(cfg *Config) (Store, error) {
	switch cfg.Backend {
	case "":
		return nil, nil
	case "file":
		if cfg.Path == "" {
			return nil, fmt.Errorf("file store requires a path")
		}
		return NewFileStore(cfg.Path), nil
	default:
		return Get(cfg.Backend)
	}
}
