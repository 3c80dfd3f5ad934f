package socketmode

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/chatops/health"
	"github.com/jonwraymond/chatops/observe"
)

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	// Bootstrap obtains channel URLs. Required.
	Bootstrap Bootstrap

	// Dialer opens event channels.
	// Default: &WebSocketDialer{}
	Dialer Dialer

	// Dispatcher delivers envelopes to handlers.
	// Default: NewDispatcher(DispatcherConfig{})
	Dispatcher *Dispatcher

	// Reconnect configures reconnect scheduling after drops.
	Reconnect ReconnectorConfig

	// PingInterval is the keepalive probe period while connected.
	// Default: 30s
	PingInterval time.Duration

	// PingTimeout is how long to wait for a probe response before the
	// connection is considered silently dead.
	// Default: 10s
	PingTimeout time.Duration

	// DrainTimeout bounds the flush of queued envelopes during Stop.
	// Default: 5s
	DrainTimeout time.Duration

	// Logger receives lifecycle diagnostics.
	// Default: discard
	Logger observe.Logger

	// OnStateChange is invoked after every state transition, from the
	// run loop. Must not block.
	OnStateChange func(from, to State)
}

// Manager keeps one event channel alive: it bootstraps and dials the
// channel, streams envelopes into the Dispatcher, probes liveness,
// and re-establishes the channel after drops with backoff. All state
// transitions happen on the run loop goroutine; external signals
// (transport drop, keepalive miss, Stop) are observed there, never
// applied concurrently.
//
// A Manager is single-use: once Closed it cannot be restarted.
type Manager struct {
	bootstrap     Bootstrap
	dialer        Dialer
	dispatcher    *Dispatcher
	reconnector   *Reconnector
	pingInterval  time.Duration
	pingTimeout   time.Duration
	drainTimeout  time.Duration
	logger        observe.Logger
	onStateChange func(from, to State)

	mu      sync.RWMutex
	state   State
	connID  string
	err     error
	started bool

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

// NewManager creates a Manager with defaults applied.
func NewManager(config ManagerConfig) (*Manager, error) {
	if config.Bootstrap == nil {
		return nil, ErrNoBootstrap
	}
	if config.Dialer == nil {
		config.Dialer = &WebSocketDialer{}
	}
	if config.Dispatcher == nil {
		config.Dispatcher = NewDispatcher(DispatcherConfig{})
	}
	if config.PingInterval <= 0 {
		config.PingInterval = 30 * time.Second
	}
	if config.PingTimeout <= 0 {
		config.PingTimeout = 10 * time.Second
	}
	if config.DrainTimeout <= 0 {
		config.DrainTimeout = 5 * time.Second
	}
	if config.Logger == nil {
		config.Logger = observe.NopLogger()
	}
	return &Manager{
		bootstrap:     config.Bootstrap,
		dialer:        config.Dialer,
		dispatcher:    config.Dispatcher,
		reconnector:   NewReconnector(config.Reconnect),
		pingInterval:  config.PingInterval,
		pingTimeout:   config.PingTimeout,
		drainTimeout:  config.DrainTimeout,
		logger:        config.Logger,
		onStateChange: config.OnStateChange,
		state:         StateDisconnected,
		stopCh:        make(chan struct{}),
		done:          make(chan struct{}),
	}, nil
}

// On registers a handler on the underlying Dispatcher.
func (m *Manager) On(envelopeType string, h Handler) {
	m.dispatcher.On(envelopeType, h)
}

// Start opens the channel and begins streaming envelopes. It returns
// once the run loop is launched; use Done and Err to observe terminal
// failure.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.started = true
	m.mu.Unlock()

	if err := m.setState(StateConnecting); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	go func() {
		select {
		case <-m.stopCh:
			cancel()
		case <-runCtx.Done():
		}
	}()

	dispatchCtx, dispatchCancel := context.WithCancel(context.Background())
	go m.dispatcher.Run(dispatchCtx)

	go func() {
		defer cancel()
		defer dispatchCancel()
		m.run(runCtx)
	}()
	return nil
}

// Stop requests shutdown: Connected drains queued work before Closed,
// Reconnecting cancels the pending reconnect timer. Safe to call more
// than once; returns immediately, use Done to wait.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// Done is closed when the Manager reaches Closed.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// Err returns the terminal error, if any, once Done is closed. It is
// nil after a clean Stop, ErrReconnectExhausted when reconnection gave
// up, or the context error when the Start context expired.
func (m *Manager) Err() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.err
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// ConnID identifies the current physical connection in logs and
// traces. Empty before the first successful open.
func (m *Manager) ConnID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connID
}

var (
	errSessionDropped = errors.New("socketmode: session dropped")
	errSessionStopped = errors.New("socketmode: session stopped")
)

func (m *Manager) run(ctx context.Context) {
	defer close(m.done)

	for {
		conn, err := m.open(ctx)
		if err != nil {
			if m.stopping() {
				m.close(nil)
				return
			}
			if ctx.Err() != nil {
				m.close(ctx.Err())
				return
			}
			m.logger.Warn(ctx, "channel open failed",
				observe.Field{Key: "error", Value: err.Error()},
				observe.Field{Key: "attempt", Value: m.reconnector.Attempt() + 1},
			)
			if m.State() != StateReconnecting {
				if serr := m.setState(StateReconnecting); serr != nil {
					m.close(serr)
					return
				}
			}
			if !m.awaitReconnect(ctx) {
				return
			}
			continue
		}

		m.reconnector.Reset()
		if serr := m.setState(StateConnected); serr != nil {
			_ = conn.Close()
			m.close(serr)
			return
		}

		reason := m.session(ctx, conn)
		_ = conn.Close()

		if errors.Is(reason, errSessionStopped) || m.stopping() || ctx.Err() != nil {
			m.drainAndClose(ctx)
			return
		}

		m.logger.Warn(ctx, "channel dropped",
			observe.Field{Key: "conn_id", Value: m.ConnID()},
			observe.Field{Key: "reason", Value: reason.Error()},
		)
		if serr := m.setState(StateReconnecting); serr != nil {
			m.close(serr)
			return
		}
		if !m.awaitReconnect(ctx) {
			return
		}
	}
}

// open performs one bootstrap and dial. The bootstrap URL is
// single-use, so every call starts from the REST endpoint.
func (m *Manager) open(ctx context.Context) (Conn, error) {
	url, err := m.bootstrap.Open(ctx)
	if err != nil {
		return nil, err
	}
	conn, err := m.dialer.Dial(ctx, url)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	m.mu.Lock()
	m.connID = id
	m.mu.Unlock()
	m.logger.Info(ctx, "channel opened",
		observe.Field{Key: "conn_id", Value: id},
	)
	return conn, nil
}

// awaitReconnect schedules the next attempt and waits out the delay.
// It returns false when the Manager reached Closed (gave up, stopped,
// or the context expired).
func (m *Manager) awaitReconnect(ctx context.Context) bool {
	delay, err := m.reconnector.Next()
	if err != nil {
		m.logger.Error(ctx, "giving up on reconnection",
			observe.Field{Key: "attempts", Value: m.reconnector.Attempt() - 1},
		)
		m.close(err)
		return false
	}
	m.logger.Info(ctx, "reconnect scheduled",
		observe.Field{Key: "attempt", Value: m.reconnector.Attempt()},
		observe.Field{Key: "delay", Value: delay.String()},
	)

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-m.stopCh:
		m.close(nil)
		return false
	case <-ctx.Done():
		m.close(ctx.Err())
		return false
	}
}

// session runs the receive loop and keepalive probe for one physical
// connection. It returns errSessionDropped when the channel died,
// errSessionStopped on Stop, or the context error.
func (m *Manager) session(ctx context.Context, conn Conn) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		select {
		case <-m.stopCh:
			return errSessionStopped
		case <-gctx.Done():
			return gctx.Err()
		}
	})

	g.Go(func() error {
		return m.receive(gctx, conn)
	})

	g.Go(func() error {
		return m.keepalive(gctx, conn)
	})

	return g.Wait()
}

func (m *Manager) receive(ctx context.Context, conn Conn) error {
	for {
		env, err := conn.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, ErrDecode) {
				m.logger.Warn(ctx, "discarding malformed frame",
					observe.Field{Key: "error", Value: err.Error()},
				)
				continue
			}
			return errSessionDropped
		}

		switch env.Type {
		case TypeHello:
			m.logger.Info(ctx, "server hello",
				observe.Field{Key: "conn_id", Value: m.ConnID()},
			)
		case TypeDisconnect:
			// Server asks for a fresh connection.
			return errSessionDropped
		default:
			if err := m.dispatcher.Dispatch(ctx, env, conn.Send); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return errSessionDropped
			}
		}
	}
}

// keepalive probes liveness while connected. A missed probe forces a
// dropped transition even though the transport reported no error;
// this catches silently-dead connections.
func (m *Manager) keepalive(ctx context.Context, conn Conn) error {
	ticker := time.NewTicker(m.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, m.pingTimeout)
			err := conn.Ping(pctx)
			cancel()
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				m.logger.Warn(ctx, "keepalive probe missed",
					observe.Field{Key: "conn_id", Value: m.ConnID()},
					observe.Field{Key: "error", Value: err.Error()},
				)
				return errSessionDropped
			}
		}
	}
}

func (m *Manager) drainAndClose(ctx context.Context) {
	if serr := m.setState(StateDraining); serr != nil {
		m.close(serr)
		return
	}
	drainCtx, cancel := context.WithTimeout(context.Background(), m.drainTimeout)
	defer cancel()
	if err := m.dispatcher.Drain(drainCtx); err != nil {
		m.logger.Warn(ctx, "drain timed out",
			observe.Field{Key: "error", Value: err.Error()},
		)
	}
	var terminal error
	if !m.stopping() {
		terminal = ctx.Err()
	}
	m.close(terminal)
}

func (m *Manager) close(terminal error) {
	m.mu.Lock()
	m.err = terminal
	m.mu.Unlock()
	if serr := m.setState(StateClosed); serr != nil {
		m.logger.Error(context.Background(), "close transition rejected",
			observe.Field{Key: "error", Value: serr.Error()},
		)
	}
}

func (m *Manager) stopping() bool {
	select {
	case <-m.stopCh:
		return true
	default:
		return false
	}
}

// setState applies one transition. Only the run loop (and Start,
// before the loop exists) calls this, so transitions are totally
// ordered per Manager.
func (m *Manager) setState(to State) error {
	m.mu.Lock()
	from := m.state
	if err := checkTransition(from, to); err != nil {
		m.mu.Unlock()
		return err
	}
	m.state = to
	m.mu.Unlock()

	m.logger.Info(context.Background(), "connection state changed",
		observe.Field{Key: "from", Value: from.String()},
		observe.Field{Key: "to", Value: to.String()},
	)
	if m.onStateChange != nil {
		m.onStateChange(from, to)
	}
	return nil
}

// Name implements health.Checker.
func (m *Manager) Name() string {
	return "socket_mode"
}

// Check implements health.Checker.
func (m *Manager) Check(ctx context.Context) health.Result {
	switch state := m.State(); state {
	case StateConnected:
		return health.Healthy("channel connected").WithDetails(map[string]any{
			"conn_id": m.ConnID(),
		})
	case StateConnecting, StateReconnecting, StateDraining:
		return health.Degraded("channel " + state.String())
	case StateClosed:
		return health.Unhealthy("channel closed", m.Err())
	default:
		return health.Degraded("channel not started")
	}
}
