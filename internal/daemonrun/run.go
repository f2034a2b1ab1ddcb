package daemonrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"quill/internal/config"
	"quill/internal/daemon"
	"quill/internal/faults"
	"quill/internal/ipc"
	"quill/internal/logging"
	"quill/internal/preflight"
)

// Options configures daemon process runtime behavior.
type Options struct {
	// LogLevel overrides logging.level from the config when set.
	LogLevel    string
	Development bool
	// Ready, when non-nil, is closed once the IPC socket accepts connections
	// and the dispatcher has been started.
	Ready chan<- struct{}
}

// Run hosts the quill daemon until ctx is cancelled or the process receives
// SIGINT or SIGTERM.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return faults.Wrap(faults.ErrConfiguration, "daemonrun", "run", "config is required", nil)
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	level := cfg.Logging.Level
	if strings.TrimSpace(opts.LogLevel) != "" {
		level = opts.LogLevel
	}
	loggerCfg := *cfg
	loggerCfg.Logging.Level = level
	logger, err := logging.NewFromConfig(&loggerCfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if opts.Development {
		logger = logger.With(logging.Bool("development", true))
	}

	socketPath := cfg.Paths.SocketPath
	if socketInUse(socketPath) {
		return faults.Wrap(faults.ErrAlreadyRunning, "daemonrun", "run",
			"another quill daemon is serving "+socketPath, nil)
	}

	pidPath := cfg.PIDPath()
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	logConfigSnapshot(logger, cfg)
	logPreflight(signalCtx, logger, cfg)

	d, err := daemon.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	ipcServer, err := ipc.NewServer(signalCtx, socketPath, d, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if err := d.Start(signalCtx); err != nil {
		if errors.Is(err, faults.ErrAlreadyRunning) {
			return err
		}
		logger.Warn("daemon start failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "daemon_start_failed"),
			logging.String(logging.FieldErrorHint, "check configuration and journal database access"),
			logging.String(logging.FieldImpact, "requests are rejected until `quill start` succeeds"),
		)
	}
	if opts.Ready != nil {
		close(opts.Ready)
	}

	<-signalCtx.Done()
	logger.Info("quill daemon shutting down",
		logging.String(logging.FieldEventType, "daemon_shutdown"),
	)
	return nil
}

// socketInUse reports whether a live server already answers on path.
func socketInUse(path string) bool {
	client, err := ipc.Dial(path)
	if err != nil {
		return false
	}
	_ = client.Close()
	return true
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

// logPreflight logs failed readiness checks as warnings; none are fatal.
func logPreflight(ctx context.Context, logger *slog.Logger, cfg *config.Config) {
	results := append(preflight.RunAll(ctx, cfg), preflight.CheckAPIBind(ctx, cfg.Paths.APIBind))
	for _, result := range preflight.Failed(results) {
		logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
			logging.String(logging.FieldErrorHint, "run `quill config validate` for details"),
		)
	}
}

func logConfigSnapshot(logger *slog.Logger, cfg *config.Config) {
	if logger == nil || cfg == nil {
		return
	}
	logger.Info("configuration snapshot",
		logging.String(logging.FieldEventType, "config_snapshot"),
		logging.String("state_dir", cfg.Paths.StateDir),
		logging.String("socket", cfg.Paths.SocketPath),
		logging.String("api_bind", cfg.Paths.APIBind),
		logging.Bool("api_token_present", strings.TrimSpace(cfg.Paths.APIToken) != ""),
		logging.String("dispatcher", cfg.Dispatcher.Name),
		logging.Int("queue_size", cfg.Dispatcher.QueueSize),
		logging.Duration("request_timeout", cfg.RequestTimeout()),
		logging.Bool("journal_enabled", cfg.Journal.Enabled),
		logging.Int("journal_retain", cfg.Journal.Retain),
		logging.Int("long_word_threshold", cfg.Analysis.LongWordThreshold),
		logging.Int("extra_positive_words", len(cfg.Analysis.PositiveWords)),
		logging.Int("extra_negative_words", len(cfg.Analysis.NegativeWords)),
	)
}
