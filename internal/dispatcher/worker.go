package dispatcher

import (
	"context"
	"fmt"
	"runtime/debug"

	"quill/internal/faults"
	"quill/internal/logging"
	"quill/internal/textutil"
)

// run is the single worker loop. It exits once quit is closed, finishing the
// request in hand first.
func (d *Dispatcher) run(requests <-chan *envelope, quit <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-quit:
			return
		default:
		}

		select {
		case <-quit:
			return
		case env := <-requests:
			d.metrics.SetQueueDepth(len(requests))
			d.serve(env)
		}
	}
}

func (d *Dispatcher) serve(env *envelope) {
	logger := logging.WithContext(env.ctx, d.logger)
	if err := env.ctx.Err(); err != nil {
		logger.Debug("skipping abandoned request", logging.Error(err))
		return
	}

	resp := d.handle(env)

	d.processed.Add(1)
	if !resp.OK() {
		d.failed.Add(1)
		d.setLastError(resp.Code + ": " + resp.Error)
	}
	d.metrics.Observe(metricKind(resp.Kind), resp.Code, resp.Duration)
	env.reply <- result{resp: resp}

	if resp.OK() {
		logger.Debug("request handled",
			logging.Int("tokens", resp.WordCount()),
			logging.Duration("duration", resp.Duration),
		)
	} else {
		logger.Info("request failed",
			logging.String(logging.FieldErrorCode, resp.Code),
			logging.String("error_message", resp.Error),
		)
	}

	d.record(resp)
}

// handle routes one request. A panic in the analyzer is converted into an
// internal-error response so the worker survives.
func (d *Dispatcher) handle(env *envelope) (resp Response) {
	req := env.req
	start := d.clock.Now()
	resp = Response{ID: req.ID, Kind: req.Kind, ReceivedAt: env.received}

	defer func() {
		if r := recover(); r != nil {
			resp = Response{
				ID:         req.ID,
				Kind:       req.Kind,
				Code:       faults.CodeInternal,
				Error:      fmt.Sprintf("internal error: %v", r),
				ReceivedAt: env.received,
			}
			logging.ErrorWithContext(logging.WithContext(env.ctx, d.logger), "request handler panicked", "dispatch_panic",
				logging.String("panic", fmt.Sprint(r)),
				logging.String("stack", string(debug.Stack())),
				logging.String(logging.FieldErrorHint, "report the input that triggered the panic"),
			)
		}
		resp.ProcessedAt = d.clock.Now()
		resp.Duration = resp.ProcessedAt.Sub(start)
	}()

	if !req.Kind.Valid() {
		resp.Code = faults.CodeUnknownEndpoint
		resp.Error = unknownEndpointMessage
		return resp
	}

	text := req.Text
	if req.Raw != nil {
		decoded, err := textutil.Decode(req.Raw)
		if err != nil {
			resp.Code = faults.Code(err)
			resp.Error = err.Error()
			return resp
		}
		text = decoded
	}

	switch req.Kind {
	case KindTokenize:
		resp.Tokens = d.analyzer.Tokenize(text)
	case KindSentiment:
		result := d.analyzer.Sentiment(text)
		resp.Sentiment = &result
	case KindFullAnalysis:
		result := d.analyzer.Analyze(text)
		resp.Analysis = &result
	}
	return resp
}

func (d *Dispatcher) record(resp Response) {
	if d.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := d.recorder.Record(ctx, resp); err != nil {
		logging.WarnWithContext(d.logger, "failed to record request history", "journal_record_failed",
			logging.String(logging.FieldRequestID, resp.ID),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the journal database under paths.state_dir"),
			logging.String(logging.FieldImpact, "request is missing from history"),
		)
	}
}

// metricKind bounds label cardinality for unknown kinds.
func metricKind(kind Kind) string {
	if kind.Valid() {
		return string(kind)
	}
	return "unknown"
}
