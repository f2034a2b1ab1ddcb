package dispatcher

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"quill/internal/analysis"
	"quill/internal/faults"
	"quill/internal/logging"
	"quill/internal/metrics"
	"quill/internal/sentiment"
)

const (
	defaultQueueSize = 64
	defaultTimeout   = 10 * time.Second
	recordTimeout    = 5 * time.Second
)

// Analyzer is the text pipeline a Dispatcher routes requests to.
type Analyzer interface {
	Tokenize(text string) []string
	Sentiment(text string) sentiment.Result
	Analyze(text string) analysis.Result
}

// Recorder persists completed responses. Failures are logged and never
// affect the response returned to the caller.
type Recorder interface {
	Record(ctx context.Context, resp Response) error
}

// Dispatcher serializes requests through a single worker goroutine.
type Dispatcher struct {
	name      string
	analyzer  Analyzer
	logger    *slog.Logger
	queueSize int
	timeout   time.Duration
	registry  *Registry
	recorder  Recorder
	metrics   *metrics.DispatchMetrics
	clock     clockwork.Clock

	// lifecycle serializes Start and Stop.
	lifecycle sync.Mutex
	state     atomic.Int32

	mu        sync.RWMutex
	requests  chan *envelope
	quit      chan struct{}
	done      chan struct{}
	startedAt time.Time
	lastErr   string

	processed atomic.Uint64
	failed    atomic.Uint64
	timedOut  atomic.Uint64
}

type envelope struct {
	ctx      context.Context
	req      Request
	received time.Time
	reply    chan result
}

type result struct {
	resp Response
	err  error
}

// Option configures optional Dispatcher behavior.
type Option func(*Dispatcher)

// WithQueueSize sets the request channel capacity.
func WithQueueSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queueSize = n
		}
	}
}

// WithTimeout sets the default per-dispatch timeout applied when the caller's
// context has no earlier deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// WithRegistry replaces DefaultRegistry.
func WithRegistry(r *Registry) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.registry = r
		}
	}
}

// WithRecorder attaches a history recorder.
func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) {
		d.recorder = r
	}
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *metrics.DispatchMetrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithClock replaces the real clock, mainly for tests.
func WithClock(c clockwork.Clock) Option {
	return func(d *Dispatcher) {
		if c != nil {
			d.clock = c
		}
	}
}

// New constructs a stopped dispatcher. A nil analyzer uses the default pipeline.
func New(name string, analyzer Analyzer, logger *slog.Logger, opts ...Option) *Dispatcher {
	if name == "" {
		name = "default"
	}
	if analyzer == nil {
		analyzer = analysis.Default()
	}
	d := &Dispatcher{
		name:      name,
		analyzer:  analyzer,
		queueSize: defaultQueueSize,
		timeout:   defaultTimeout,
		registry:  DefaultRegistry,
		clock:     clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = logging.NewComponentLogger(logger, "dispatcher").With(logging.String(logging.FieldDispatcher, name))
	return d
}

// Name returns the dispatcher's registry name.
func (d *Dispatcher) Name() string {
	return d.name
}

// State returns the current lifecycle state.
func (d *Dispatcher) State() State {
	return State(d.state.Load())
}

// Start registers the dispatcher and spawns its worker.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.lifecycle.Lock()
	defer d.lifecycle.Unlock()

	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if !d.state.CompareAndSwap(int32(StateStopped), int32(StateStarting)) {
		return faults.Wrap(faults.ErrAlreadyRunning, "dispatcher", "start", "dispatcher "+d.name+" is "+d.State().String(), nil)
	}
	if err := d.registry.Register(d.name, d); err != nil {
		d.state.Store(int32(StateStopped))
		return err
	}

	requests := make(chan *envelope, d.queueSize)
	quit := make(chan struct{})
	done := make(chan struct{})

	d.mu.Lock()
	d.requests = requests
	d.quit = quit
	d.done = done
	d.startedAt = d.clock.Now()
	d.lastErr = ""
	d.mu.Unlock()

	go d.run(requests, quit, done)

	d.state.Store(int32(StateRunning))
	d.metrics.SetQueueDepth(0)
	d.logger.Info("dispatcher started",
		logging.Int("queue_size", d.queueSize),
		logging.Duration("timeout", d.timeout),
		logging.String(logging.FieldEventType, "dispatcher_started"),
	)
	return nil
}

// Stop signals the worker, waits for the in-flight request, fails anything
// still queued and releases the registry entry.
func (d *Dispatcher) Stop() error {
	d.lifecycle.Lock()
	defer d.lifecycle.Unlock()

	if !d.state.CompareAndSwap(int32(StateRunning), int32(StateStopped)) {
		return faults.Wrap(faults.ErrNotRunning, "dispatcher", "stop", "dispatcher "+d.name+" is "+d.State().String(), nil)
	}

	d.mu.RLock()
	requests, quit, done := d.requests, d.quit, d.done
	d.mu.RUnlock()

	close(quit)
	<-done

	dropped := 0
drain:
	for {
		select {
		case env := <-requests:
			env.reply <- result{err: faults.Wrap(faults.ErrNotRunning, "dispatcher", "dispatch", "dispatcher stopped before the request ran", nil)}
			dropped++
		default:
			break drain
		}
	}

	d.registry.Release(d.name, d)
	d.metrics.SetQueueDepth(0)

	attrs := []logging.Attr{logging.String(logging.FieldEventType, "dispatcher_stopped")}
	if dropped > 0 {
		attrs = append(attrs, logging.Int("dropped", dropped))
	}
	d.logger.Info("dispatcher stopped", logging.Args(attrs...)...)
	return nil
}

// Dispatch submits req and waits for its response. Routing failures such as
// an unknown kind come back as a Response with Code set and a nil error; the
// returned error is reserved for lifecycle and timeout failures.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if d.State() != StateRunning {
		return Response{}, faults.Wrap(faults.ErrNotRunning, "dispatcher", "dispatch", "dispatcher "+d.name+" is not running", nil)
	}

	d.mu.RLock()
	requests, done := d.requests, d.done
	d.mu.RUnlock()
	if requests == nil {
		return Response{}, faults.Wrap(faults.ErrNotRunning, "dispatcher", "dispatch", "dispatcher "+d.name+" is not running", nil)
	}

	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	// Cancelled on return so the worker skips abandoned requests.
	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	env := &envelope{
		ctx:      logging.WithKind(logging.WithRequestID(reqCtx, req.ID), string(req.Kind)),
		req:      req,
		received: d.clock.Now(),
		reply:    make(chan result, 1),
	}

	timer := d.clock.NewTimer(d.timeout)
	defer timer.Stop()

	select {
	case requests <- env:
		d.metrics.SetQueueDepth(len(requests))
	case <-done:
		return Response{}, faults.Wrap(faults.ErrNotRunning, "dispatcher", "dispatch", "dispatcher stopped", nil)
	case <-ctx.Done():
		return Response{}, d.timedOutError(req, ctx.Err())
	case <-timer.Chan():
		return Response{}, d.timedOutError(req, nil)
	}

	select {
	case res := <-env.reply:
		return res.resp, res.err
	case <-ctx.Done():
		return Response{}, d.timedOutError(req, ctx.Err())
	case <-timer.Chan():
		return Response{}, d.timedOutError(req, nil)
	case <-done:
		select {
		case res := <-env.reply:
			return res.resp, res.err
		default:
		}
		return Response{}, faults.Wrap(faults.ErrNotRunning, "dispatcher", "dispatch", "dispatcher stopped", nil)
	}
}

func (d *Dispatcher) timedOutError(req Request, cause error) error {
	d.timedOut.Add(1)
	d.logger.Warn("request timed out",
		logging.String(logging.FieldRequestID, req.ID),
		logging.String(logging.FieldKind, string(req.Kind)),
		logging.String(logging.FieldEventType, "dispatch_timeout"),
		logging.String(logging.FieldErrorHint, "raise dispatcher.request_timeout_seconds or shorten the input"),
	)
	msg := "request " + req.ID + " timed out after " + d.timeout.String()
	if cause != nil {
		msg = "request " + req.ID + " abandoned: " + cause.Error()
	}
	return faults.Wrap(faults.ErrTimeout, "dispatcher", "dispatch", msg, nil)
}

// Status returns a snapshot of the dispatcher.
func (d *Dispatcher) Status() Status {
	d.mu.RLock()
	defer d.mu.RUnlock()

	status := Status{
		Name:          d.name,
		State:         d.State(),
		Processed:     d.processed.Load(),
		Failed:        d.failed.Load(),
		TimedOut:      d.timedOut.Load(),
		QueueCapacity: d.queueSize,
		LastError:     d.lastErr,
	}
	if status.State == StateRunning {
		status.StartedAt = d.startedAt
		if d.requests != nil {
			status.QueueLength = len(d.requests)
		}
	}
	return status
}

func (d *Dispatcher) setLastError(msg string) {
	d.mu.Lock()
	d.lastErr = msg
	d.mu.Unlock()
}
