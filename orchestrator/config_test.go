package orchestrator_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/tailored-agentic-units/turnlog/generate"
	"github.com/tailored-agentic-units/turnlog/generate/mock"
	"github.com/tailored-agentic-units/turnlog/orchestrator"
	"github.com/tailored-agentic-units/turnlog/session"
	"github.com/tailored-agentic-units/turnlog/store"
)

func TestDefaultConfig(t *testing.T) {
	cfg := orchestrator.DefaultConfig()

	if cfg.Session.Policy.TokenBudget != 40_000 {
		t.Errorf("TokenBudget = %d, want 40000", cfg.Session.Policy.TokenBudget)
	}
	if cfg.Store.Backend != "" {
		t.Errorf("Store.Backend = %q, want persistence disabled by default", cfg.Store.Backend)
	}
	if cfg.Observer != "noop" {
		t.Errorf("Observer = %q, want %q", cfg.Observer, "noop")
	}
}

func TestConfig_Merge(t *testing.T) {
	cfg := orchestrator.DefaultConfig()
	cfg.Merge(&orchestrator.Config{
		Session:  session.Config{Policy: session.Policy{TokenBudget: 5000}},
		Store:    store.Config{Backend: "memory"},
		Observer: "slog",
	})

	if cfg.Session.Policy.TokenBudget != 5000 {
		t.Errorf("TokenBudget = %d, want 5000", cfg.Session.Policy.TokenBudget)
	}
	if cfg.Session.Policy.TimeoutSeconds != 120 {
		t.Errorf("TimeoutSeconds = %d, want default 120 preserved", cfg.Session.Policy.TimeoutSeconds)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("Store.Backend = %q, want %q", cfg.Store.Backend, "memory")
	}
	if cfg.Observer != "slog" {
		t.Errorf("Observer = %q, want %q", cfg.Observer, "slog")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"session": {"policy": {"token_budget": 8000, "retention_window": 12}},
		"store": {"backend": "memory"}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := orchestrator.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Session.Policy.TokenBudget != 8000 {
		t.Errorf("TokenBudget = %d, want 8000", cfg.Session.Policy.TokenBudget)
	}
	if cfg.Session.Policy.RetentionWindow != 12 {
		t.Errorf("RetentionWindow = %d, want 12", cfg.Session.Policy.RetentionWindow)
	}
	if cfg.Session.Policy.TimeoutSeconds != 120 {
		t.Errorf("TimeoutSeconds = %d, want default 120 merged in", cfg.Session.Policy.TimeoutSeconds)
	}
	if cfg.Observer != "noop" {
		t.Errorf("Observer = %q, want default %q merged in", cfg.Observer, "noop")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := orchestrator.LoadConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("LoadConfig of a missing file should fail")
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := orchestrator.LoadConfig(path); err == nil {
		t.Error("LoadConfig of invalid JSON should fail")
	}
}

func TestNewFromConfig(t *testing.T) {
	cfg := orchestrator.DefaultConfig()
	cfg.Store.Backend = "memory"

	gen := mock.New(mock.WithCompletion(generate.Completion{Content: "configured answer"}))
	o, err := orchestrator.NewFromConfig(&cfg, gen)
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}

	result, err := o.RunTurn(context.Background(), "question")
	if err != nil {
		t.Fatalf("RunTurn failed: %v", err)
	}
	if result.Reply != "configured answer" {
		t.Errorf("Reply = %q, want %q", result.Reply, "configured answer")
	}
}

func TestNewFromConfig_UnknownObserver(t *testing.T) {
	cfg := orchestrator.DefaultConfig()
	cfg.Observer = "nonexistent"

	if _, err := orchestrator.NewFromConfig(&cfg, mock.New()); err == nil {
		t.Error("NewFromConfig with an unknown observer should fail")
	}
}
