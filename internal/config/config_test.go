package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"quill/internal/config"
	"quill/internal/faults"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "quill", "config.toml") {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "quill")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Paths.SocketPath != filepath.Join(wantState, "quill.sock") {
		t.Fatalf("unexpected socket path: %q", cfg.Paths.SocketPath)
	}
	if cfg.Paths.APIBind != "" {
		t.Fatalf("expected API disabled by default, got %q", cfg.Paths.APIBind)
	}
	if cfg.Analysis.LongWordThreshold != 5 {
		t.Fatalf("unexpected long word threshold: %d", cfg.Analysis.LongWordThreshold)
	}
	if cfg.Dispatcher.Name != "default" || cfg.Dispatcher.QueueSize != 64 {
		t.Fatalf("unexpected dispatcher config: %+v", cfg.Dispatcher)
	}
	if cfg.RequestTimeout() != 10*time.Second {
		t.Fatalf("unexpected request timeout: %s", cfg.RequestTimeout())
	}
	if !cfg.Journal.Enabled || cfg.Journal.Retain != 1000 {
		t.Fatalf("unexpected journal config: %+v", cfg.Journal)
	}
	if cfg.JournalPath() != filepath.Join(wantState, "journal.db") {
		t.Fatalf("unexpected journal path: %q", cfg.JournalPath())
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "quill.toml")

	type payload struct {
		Paths struct {
			StateDir string `toml:"state_dir"`
			APIBind  string `toml:"api_bind"`
		} `toml:"paths"`
		Analysis struct {
			LongWordThreshold int      `toml:"long_word_threshold"`
			PositiveWords     []string `toml:"positive_words"`
		} `toml:"analysis"`
		Logging struct {
			Format string `toml:"format"`
			Level  string `toml:"level"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.StateDir = filepath.Join(tempDir, "state")
	custom.Paths.APIBind = "127.0.0.1:7490"
	custom.Analysis.LongWordThreshold = 3
	custom.Analysis.PositiveWords = []string{" Stellar", "stellar", ""}
	custom.Logging.Format = "JSON"
	custom.Logging.Level = "DEBUG"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Paths.StateDir != custom.Paths.StateDir {
		t.Fatalf("unexpected state dir: %q", cfg.Paths.StateDir)
	}
	if cfg.Paths.SocketPath != filepath.Join(custom.Paths.StateDir, "quill.sock") {
		t.Fatalf("socket path should follow state dir, got %q", cfg.Paths.SocketPath)
	}
	if cfg.Analysis.LongWordThreshold != 3 {
		t.Fatalf("unexpected threshold: %d", cfg.Analysis.LongWordThreshold)
	}
	if len(cfg.Analysis.PositiveWords) != 1 || cfg.Analysis.PositiveWords[0] != "stellar" {
		t.Fatalf("positive words not normalized: %v", cfg.Analysis.PositiveWords)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging not normalized: %+v", cfg.Logging)
	}
	if cfg.Dispatcher.QueueSize != 64 {
		t.Fatalf("unset fields should keep defaults, got queue size %d", cfg.Dispatcher.QueueSize)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	stateDir := filepath.Join(t.TempDir(), "env-state")
	t.Setenv("HOME", t.TempDir())
	t.Setenv("QUILL_STATE_DIR", stateDir)
	t.Setenv("QUILL_LOG_LEVEL", "Warn")
	t.Chdir(t.TempDir())

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.StateDir != stateDir {
		t.Fatalf("state dir = %q, want %q", cfg.Paths.StateDir, stateDir)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("log level = %q, want warn", cfg.Logging.Level)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "quill.toml")
	if err := os.WriteFile(configPath, []byte("[dispatcher]\nworkers = 4\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"negative threshold", func(c *config.Config) { c.Analysis.LongWordThreshold = -1 }, "long_word_threshold"},
		{"overlapping lexicons", func(c *config.Config) {
			c.Analysis.PositiveWords = []string{"fine"}
			c.Analysis.NegativeWords = []string{"fine"}
		}, "both positive_words and negative_words"},
		{"delimiter in word", func(c *config.Config) { c.Analysis.NegativeWords = []string{"no way"} }, "delimiter"},
		{"zero queue", func(c *config.Config) { c.Dispatcher.QueueSize = 0 }, "queue_size"},
		{"zero timeout", func(c *config.Config) { c.Dispatcher.RequestTimeoutSeconds = 0 }, "request_timeout_seconds"},
		{"negative retain", func(c *config.Config) { c.Journal.Retain = -5 }, "journal.retain"},
		{"bad bind", func(c *config.Config) { c.Paths.APIBind = "localhost" }, "api_bind"},
		{"bad level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, faults.ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestCreateSampleLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.Dispatcher.Name != "default" {
		t.Fatalf("unexpected dispatcher name: %q", cfg.Dispatcher.Name)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.Analysis.PositiveWords = []string{"stellar"}
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Dispatcher != cfg.Dispatcher || decoded.Journal != cfg.Journal {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
	if len(decoded.Analysis.PositiveWords) != 1 {
		t.Fatalf("positive words lost: %v", decoded.Analysis.PositiveWords)
	}
}
