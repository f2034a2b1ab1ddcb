package testsupport

import (
	"path/filepath"
	"testing"

	"quill/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The HTTP API is disabled unless WithAPIBind is supplied.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.SocketPath = filepath.Join(base, "quill.sock")
	cfgVal.Paths.APIBind = ""
	cfgVal.Dispatcher.Name = "test"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("invalid test config: %v", err)
	}
	return builder.cfg
}

// WithAPIBind enables the HTTP API on the given address.
func WithAPIBind(addr string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.APIBind = addr
	}
}

// WithoutJournal disables request history.
func WithoutJournal() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Journal.Enabled = false
	}
}

// WithLexicon adds extra sentiment words.
func WithLexicon(positive, negative []string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Analysis.PositiveWords = positive
		b.cfg.Analysis.NegativeWords = negative
	}
}

// WithLongWordThreshold overrides the long-word threshold.
func WithLongWordThreshold(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Analysis.LongWordThreshold = n
	}
}

// WithDispatcher overrides queue size and timeout. Zero values keep defaults.
func WithDispatcher(queueSize, timeoutSeconds int) ConfigOption {
	return func(b *configBuilder) {
		if queueSize > 0 {
			b.cfg.Dispatcher.QueueSize = queueSize
		}
		if timeoutSeconds > 0 {
			b.cfg.Dispatcher.RequestTimeoutSeconds = timeoutSeconds
		}
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
