package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"quill/internal/analysis"
	"quill/internal/api"
	"quill/internal/config"
	"quill/internal/dispatcher"
	"quill/internal/faults"
	"quill/internal/journal"
	"quill/internal/logging"
	"quill/internal/metrics"
)

// Daemon hosts the dispatcher and enforces single-instance execution.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	dispatcher *dispatcher.Dispatcher
	pipeline   *analysis.Pipeline
	store      *journal.Store
	history    *api.HistoryService
	registry   *prometheus.Registry

	lockPath string
	lock     *flock.Flock

	// mu serializes Start, Stop and Close.
	mu      sync.Mutex
	running atomic.Bool
	cancel  context.CancelFunc
	api     *apiServer
}

// Option customizes daemon construction.
type Option func(*options)

type options struct {
	registry *dispatcher.Registry
}

// WithDispatcherRegistry scopes the dispatcher name to registry instead of
// dispatcher.DefaultRegistry.
func WithDispatcherRegistry(registry *dispatcher.Registry) Option {
	return func(o *options) {
		o.registry = registry
	}
}

// New builds the analysis pipeline, journal and dispatcher described by cfg.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Daemon, error) {
	if cfg == nil {
		return nil, faults.Wrap(faults.ErrConfiguration, "daemon", "new", "config is required", nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	pipeline, err := analysis.FromConfig(cfg.Analysis)
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}

	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		pipeline: pipeline,
		registry: metrics.NewRegistry(),
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
	}

	dispatchOpts := []dispatcher.Option{
		dispatcher.WithQueueSize(cfg.Dispatcher.QueueSize),
		dispatcher.WithTimeout(cfg.RequestTimeout()),
		dispatcher.WithMetrics(metrics.NewDispatchMetrics(d.registry)),
	}
	if o.registry != nil {
		dispatchOpts = append(dispatchOpts, dispatcher.WithRegistry(o.registry))
	}
	if cfg.Journal.Enabled {
		store, err := journal.Open(cfg, journal.WithRetain(cfg.Journal.Retain))
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		d.store = store
		d.history = api.NewHistoryService(store)
		dispatchOpts = append(dispatchOpts, dispatcher.WithRecorder(journalRecorder{store: store}))
	}
	d.dispatcher = dispatcher.New(cfg.Dispatcher.Name, pipeline, logger, dispatchOpts...)

	srv, err := newAPIServer(cfg, d, logger)
	if err != nil {
		_ = d.store.Close()
		return nil, err
	}
	d.api = srv
	return d, nil
}

// Start acquires the daemon lock, starts the dispatcher and the optional HTTP API.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running.Load() {
		return faults.Wrap(faults.ErrAlreadyRunning, "daemon", "start", "daemon already running", nil)
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return faults.Wrap(faults.ErrAlreadyRunning, "daemon", "start", "another quill daemon instance is already running", nil)
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.dispatcher.Start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return fmt.Errorf("start dispatcher: %w", err)
	}
	if err := d.api.start(runCtx); err != nil {
		cancel()
		_ = d.dispatcher.Stop()
		_ = d.lock.Unlock()
		return err
	}

	d.cancel = cancel
	d.running.Store(true)
	d.logger.Info("quill daemon started",
		logging.String("lock", d.lockPath),
		logging.String("dispatcher", d.dispatcher.Name()),
		logging.String(logging.FieldEventType, "daemon_started"),
	)
	return nil
}

// Stop stops the dispatcher and API and releases the daemon lock.
func (d *Daemon) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopLocked()
}

func (d *Daemon) stopLocked() error {
	if !d.running.Load() {
		return faults.Wrap(faults.ErrNotRunning, "daemon", "stop", "daemon is not running", nil)
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()

	var err error
	err = multierr.Append(err, d.dispatcher.Stop())
	if unlockErr := d.lock.Unlock(); unlockErr != nil {
		logging.WarnWithContext(d.logger, "failed to release daemon lock", "daemon_lock_release_failed",
			logging.Error(unlockErr),
			logging.String(logging.FieldErrorHint, "remove "+d.lockPath+" if no daemon is running"),
		)
		err = multierr.Append(err, fmt.Errorf("release lock: %w", unlockErr))
	}
	d.running.Store(false)
	d.logger.Info("quill daemon stopped", logging.String(logging.FieldEventType, "daemon_stopped"))
	return err
}

// Close stops the daemon if needed and releases the journal.
func (d *Daemon) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var err error
	if d.running.Load() {
		err = multierr.Append(err, d.stopLocked())
	}
	if d.store != nil {
		err = multierr.Append(err, d.store.Close())
		d.store = nil
		d.history = nil
	}
	return err
}

// Running reports whether Start has succeeded and Stop has not been called.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// Dispatch forwards a request to the hosted dispatcher.
func (d *Daemon) Dispatch(ctx context.Context, req dispatcher.Request) (dispatcher.Response, error) {
	return d.dispatcher.Dispatch(ctx, req)
}

// History returns up to limit recent requests, newest first.
func (d *Daemon) History(ctx context.Context, limit int) ([]api.HistoryEntry, error) {
	if d.history == nil {
		return nil, faults.Wrap(faults.ErrConfiguration, "daemon", "history", "journal is disabled", nil)
	}
	return d.history.Recent(ctx, limit)
}

// DescribeRequest returns the history entry for requestID, or nil when absent.
func (d *Daemon) DescribeRequest(ctx context.Context, requestID string) (*api.HistoryEntry, error) {
	if d.history == nil {
		return nil, faults.Wrap(faults.ErrConfiguration, "daemon", "history", "journal is disabled", nil)
	}
	return d.history.Describe(ctx, requestID)
}

// ClearHistory removes every journal row.
func (d *Daemon) ClearHistory(ctx context.Context) (int64, error) {
	if d.store == nil {
		return 0, faults.Wrap(faults.ErrConfiguration, "daemon", "history", "journal is disabled", nil)
	}
	removed, err := d.store.Clear(ctx)
	if err != nil {
		return 0, err
	}
	d.logger.Info("history cleared", logging.Int64("removed", removed))
	return removed, nil
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) api.DaemonStatus {
	status := api.DaemonStatus{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		SocketPath:   d.cfg.Paths.SocketPath,
		LockFilePath: d.lockPath,
		APIAddress:   d.api.addr(),
		Dispatcher:   api.FromDispatcherStatus(d.dispatcher.Status()),
	}
	if d.store != nil {
		status.JournalPath = d.store.Path()
	}
	if stats, err := d.history.Stats(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			d.logger.Warn("journal stats unavailable", logging.Error(err))
		}
	} else {
		status.Journal = stats
	}
	return status
}

// MetricsRegistry exposes the daemon's Prometheus registry.
func (d *Daemon) MetricsRegistry() *prometheus.Registry {
	return d.registry
}

type journalRecorder struct {
	store *journal.Store
}

func (r journalRecorder) Record(ctx context.Context, resp dispatcher.Response) error {
	_, err := r.store.Record(ctx, api.EntryFromResponse(resp))
	return err
}
