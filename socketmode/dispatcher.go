package socketmode

import (
	"context"
	"sync"
	"time"

	"github.com/jonwraymond/chatops/observe"
)

// Handler processes one envelope. Handlers run on the dispatch worker,
// decoupled from the receive loop; a slow handler delays later
// envelopes but never acknowledgment or keepalive traffic.
type Handler func(ctx context.Context, env Envelope)

// AckFunc sends one acknowledgment frame back over the channel.
type AckFunc func(ctx context.Context, ack Ack) error

// DispatcherConfig configures a Dispatcher.
type DispatcherConfig struct {
	// QueueSize bounds the work queue. When full, the oldest queued
	// envelope is dropped to keep the receive loop moving.
	// Default: 64
	QueueSize int

	// DispatchTimeout bounds one envelope's trip through all handlers.
	// Default: 5s
	DispatchTimeout time.Duration

	// AckTTL bounds how long an envelope id is remembered for
	// duplicate suppression.
	// Default: 1m
	AckTTL time.Duration

	// Logger receives dispatch diagnostics.
	// Default: discard
	Logger observe.Logger

	// Metrics records per-envelope counters.
	// Default: discard
	Metrics observe.Metrics
}

// Dispatcher delivers decoded envelopes to registered handlers and
// owns the pending-acknowledgment set. An envelope is acknowledged on
// handoff, before any handler runs: the transport contract concerns
// delivery, not application outcome. A duplicate envelope id received
// while the original is still remembered is acknowledged again but
// not redelivered.
type Dispatcher struct {
	queueSize       int
	dispatchTimeout time.Duration
	ackTTL          time.Duration
	logger          observe.Logger
	metrics         observe.Metrics

	mu       sync.Mutex
	handlers map[string][]Handler
	pending  map[string]time.Time

	queue    chan Envelope
	inflight sync.WaitGroup

	now func() time.Time
}

// NewDispatcher creates a Dispatcher with defaults applied.
func NewDispatcher(config DispatcherConfig) *Dispatcher {
	if config.QueueSize <= 0 {
		config.QueueSize = 64
	}
	if config.DispatchTimeout <= 0 {
		config.DispatchTimeout = 5 * time.Second
	}
	if config.AckTTL <= 0 {
		config.AckTTL = time.Minute
	}
	if config.Logger == nil {
		config.Logger = observe.NopLogger()
	}
	if config.Metrics == nil {
		config.Metrics = observe.NopMetrics()
	}
	return &Dispatcher{
		queueSize:       config.QueueSize,
		dispatchTimeout: config.DispatchTimeout,
		ackTTL:          config.AckTTL,
		logger:          config.Logger,
		metrics:         config.Metrics,
		handlers:        make(map[string][]Handler),
		pending:         make(map[string]time.Time),
		queue:           make(chan Envelope, config.QueueSize),
		now:             time.Now,
	}
}

// On registers a handler for the given envelope type. Multiple
// handlers for one type run in registration order.
func (d *Dispatcher) On(envelopeType string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[envelopeType] = append(d.handlers[envelopeType], h)
}

// Dispatch acknowledges env and hands it to the work queue. It never
// blocks on handlers: when the queue is full the oldest queued
// envelope is dropped and logged. Called from the receive loop.
func (d *Dispatcher) Dispatch(ctx context.Context, env Envelope, send AckFunc) error {
	meta := observe.OpMeta{Component: "socketmode", Name: "dispatch"}
	d.metrics.RecordEnvelope(ctx, meta, env.Type)

	if env.RequiresAck() {
		if dup := d.markPending(env.EnvelopeID); dup {
			d.logger.Debug(ctx, "duplicate envelope",
				observe.Field{Key: "envelope_id", Value: env.EnvelopeID},
			)
			return send(ctx, NewAck(env.EnvelopeID))
		}
		if err := send(ctx, NewAck(env.EnvelopeID)); err != nil {
			return err
		}
	}

	d.enqueue(ctx, env)
	return nil
}

// markPending records the envelope id in the pending set and reports
// whether it was already present. Expired entries are swept here so
// the set stays bounded.
func (d *Dispatcher) markPending(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for k, sent := range d.pending {
		if now.Sub(sent) > d.ackTTL {
			delete(d.pending, k)
		}
	}
	if _, ok := d.pending[id]; ok {
		return true
	}
	d.pending[id] = now
	return false
}

func (d *Dispatcher) enqueue(ctx context.Context, env Envelope) {
	d.inflight.Add(1)
	for {
		select {
		case d.queue <- env:
			return
		default:
		}
		select {
		case dropped := <-d.queue:
			d.inflight.Done()
			d.logger.Warn(ctx, "work queue full, dropping oldest envelope",
				observe.Field{Key: "envelope_id", Value: dropped.EnvelopeID},
				observe.Field{Key: "envelope_type", Value: dropped.Type},
			)
		default:
		}
	}
}

// Run drains the work queue, invoking handlers under the per-envelope
// time budget. It returns when ctx is cancelled. Exactly one Run per
// Dispatcher may be active.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-d.queue:
			d.invoke(ctx, env)
			d.inflight.Done()
		}
	}
}

func (d *Dispatcher) invoke(ctx context.Context, env Envelope) {
	d.mu.Lock()
	handlers := d.handlers[env.Type]
	d.mu.Unlock()
	if len(handlers) == 0 {
		return
	}

	hctx, cancel := context.WithTimeout(ctx, d.dispatchTimeout)
	defer cancel()
	for _, h := range handlers {
		h(hctx, env)
	}
	if hctx.Err() != nil && ctx.Err() == nil {
		d.logger.Warn(ctx, "dispatch exceeded time budget",
			observe.Field{Key: "envelope_id", Value: env.EnvelopeID},
			observe.Field{Key: "envelope_type", Value: env.Type},
		)
	}
}

// Drain waits until all queued envelopes have been handled or ctx
// expires. Callers must stop feeding Dispatch first.
func (d *Dispatcher) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PendingCount returns the number of envelope ids currently remembered
// for duplicate suppression.
func (d *Dispatcher) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
