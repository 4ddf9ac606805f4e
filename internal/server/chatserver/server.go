package chatserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/yndnr/relaychat-go/internal/core/domain"
	"github.com/yndnr/relaychat-go/internal/core/service"
	"github.com/yndnr/relaychat-go/internal/storage/eventlog"
	"github.com/yndnr/relaychat-go/internal/telemetry/metric"
)

// Config holds the chat server configuration.
type Config struct {
	// Addr is the TCP listen address (default: ":9090").
	Addr string
	// FallbackOnAddrInUse binds an ephemeral port on the same host when Addr
	// is taken (default: true).
	FallbackOnAddrInUse bool
	// PollInterval bounds how long an idle read blocks before the pause gate
	// is checked again (default: 1s).
	PollInterval time.Duration
	// ReadTimeout is the timeout for reading the rest of a frame once its
	// first byte arrived (default: 30s).
	ReadTimeout time.Duration
	// WriteTimeout is the timeout for writing one frame (default: 10s).
	WriteTimeout time.Duration
	// HandshakeTimeout bounds the whole authentication dialogue (default: 2m).
	HandshakeTimeout time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:                ":9090",
		FallbackOnAddrInUse: true,
		PollInterval:        time.Second,
		ReadTimeout:         30 * time.Second,
		WriteTimeout:        10 * time.Second,
		HandshakeTimeout:    2 * time.Minute,
	}
}

// EventRecorder receives auth events and byte counts.
type EventRecorder interface {
	Record(event string, kv ...any) error
}

// Status is a snapshot of the server state.
type Status struct {
	Addr    string
	Members int
	Paused  bool
}

// Server is the chat server.
type Server struct {
	cfg      *Config
	auth     *service.AuthService
	events   EventRecorder
	metrics  *metric.Registry
	logger   *slog.Logger
	registry *Registry
	gate     *Gate

	ln      net.Listener
	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	// done receives the accept loop's error, or is closed after a clean
	// stop.
	done chan error

	connMu sync.Mutex
	conns  map[*Conn]struct{}
}

// New creates a new chat server. events and metrics may be nil.
func New(cfg *Config, auth *service.AuthService, events EventRecorder, metrics *metric.Registry, logger *slog.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		cfg:      cfg,
		auth:     auth,
		events:   events,
		metrics:  metrics,
		logger:   logger,
		registry: NewRegistry(),
		gate:     NewGate(),
		conns:    make(map[*Conn]struct{}),
		done:     make(chan error, 1),
	}
}

// Done is signalled when the accept loop ends. A failed accept loop sends
// its error; a stop through Shutdown closes the channel without a value.
// No new clients are served after Done fires, so callers should shut the
// server down.
func (s *Server) Done() <-chan error {
	return s.done
}

// Gate returns the pause gate.
func (s *Server) Gate() *Gate {
	return s.gate
}

// Registry returns the broadcast registry.
func (s *Server) Registry() *Registry {
	return s.registry
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Port returns the bound TCP port, or 0 before Listen.
func (s *Server) Port() int {
	if a, ok := s.Addr().(*net.TCPAddr); ok {
		return a.Port
	}
	return 0
}

// Status returns the current server state.
func (s *Server) Status() Status {
	st := Status{
		Members: s.registry.Len(),
		Paused:  s.gate.Paused(),
	}
	if a := s.Addr(); a != nil {
		st.Addr = a.String()
	}
	return st
}

// ChatState adapts Status for the metrics collector.
func (s *Server) ChatState() metric.ChatState {
	return metric.ChatState{
		Members: s.registry.Len(),
		Paused:  s.gate.Paused(),
	}
}

// Listen binds the listener. If the configured port is in use and
// FallbackOnAddrInUse is set, an ephemeral port on the same host is used.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		if !s.cfg.FallbackOnAddrInUse || !errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
		}
		host, _, splitErr := net.SplitHostPort(s.cfg.Addr)
		if splitErr != nil {
			return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
		}
		s.logger.Warn("port is not available, using a free port", "address", s.cfg.Addr)
		ln, err = net.Listen("tcp", net.JoinHostPort(host, "0"))
		if err != nil {
			return fmt.Errorf("listen %s: %w", net.JoinHostPort(host, "0"), err)
		}
	}
	s.ln = ln
	return nil
}

// Start binds the listener if needed and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	if s.ln == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.running.Store(true)
	s.logger.Info("chat server listening", "address", s.ln.Addr().String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(s.done)
		if err := s.acceptLoop(ctx); err != nil && s.running.Load() {
			s.logger.Error("accept loop stopped", "error", err)
			s.done <- err
		}
	}()
	return nil
}

// Shutdown closes the listener and every open connection, then waits for
// the connection goroutines to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		if s.ln != nil {
			_ = s.ln.Close()
		}
		return nil
	}
	s.cancel()

	var firstErr error
	if err := s.ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		firstErr = err
	}

	s.connMu.Lock()
	for c := range s.conns {
		_ = c.Close()
	}
	s.connMu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return firstErr
}

func (s *Server) acceptLoop(ctx context.Context) error {
	for {
		nc, err := s.ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return err
		}

		id, err := domain.GenerateConnID()
		if err != nil {
			s.logger.Error("connection id generation failed", "error", err)
			_ = nc.Close()
			continue
		}

		c := newConn(nc, id, s.cfg.WriteTimeout)
		if !s.track(c) {
			_ = c.Close()
			return nil
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(c)
			s.serveConn(ctx, c)
		}()
	}
}

func (s *Server) track(c *Conn) bool {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if !s.running.Load() {
		return false
	}
	s.conns[c] = struct{}{}
	return true
}

func (s *Server) untrack(c *Conn) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	delete(s.conns, c)
}

func (s *Server) serveConn(ctx context.Context, c *Conn) {
	defer c.Close()

	s.metrics.ConnOpened()
	defer s.metrics.ConnClosed()

	log := s.logger.With("conn_id", c.ID())
	log.Debug("connection accepted", "remote", c.RemoteAddr())

	if s.cfg.HandshakeTimeout > 0 {
		if err := c.netConn.SetReadDeadline(time.Now().Add(s.cfg.HandshakeTimeout)); err != nil {
			return
		}
	}

	name, ok := s.handshake(ctx, c)
	if !ok {
		return
	}
	c.username = name

	if !s.registry.Add(c) {
		return
	}
	defer s.registry.Remove(c)

	log.Info("user joined", "username", name, "members", s.registry.Len())
	s.readLoop(ctx, c)
}

// readLoop relays frames from c until end of stream or error.
func (s *Server) readLoop(ctx context.Context, c *Conn) {
	log := s.logger.With("conn_id", c.ID(), "username", c.Username())

	pollInterval := s.cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	readTimeout := s.cfg.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 30 * time.Second
	}

	for {
		if err := s.gate.Wait(ctx); err != nil {
			return
		}

		// First byte: bounded by the poll interval so a pause is noticed.
		if err := c.netConn.SetReadDeadline(time.Now().Add(pollInterval)); err != nil {
			return
		}
		if _, err := c.br.Peek(1); err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			s.disconnected(log, c, err)
			return
		}
		if s.gate.Paused() {
			continue
		}

		// After first byte: the rest of the frame must follow promptly.
		if err := c.netConn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			return
		}
		msg, err := c.readFrame()
		if err != nil {
			s.disconnected(log, c, err)
			return
		}

		s.record(eventlog.EventReceived, "conn", c.ID(), "bytes", len(msg))
		s.metrics.RecordReceived(len(msg))
		s.relay(log, c, msg)
	}
}

func (s *Server) disconnected(log *slog.Logger, c *Conn, err error) {
	if errors.Is(err, io.EOF) {
		s.record(eventlog.EventDisconnected, "conn", c.ID(), "user", c.Username())
		log.Info("user disconnected")
		return
	}
	if c.Closed() {
		log.Debug("connection closed")
		return
	}
	log.Warn("connection dropped", "error", err)
}

func (s *Server) relay(log *slog.Logger, sender *Conn, msg []byte) {
	payload, truncated, ok := formatRelay(sender.Username(), msg)
	if !ok {
		log.Warn("message dropped, username too long to relay")
		return
	}
	if truncated {
		log.Warn("message truncated to fit one frame", "bytes", len(msg))
	}

	delivered, failed := s.registry.Broadcast(sender, payload)
	for _, f := range failed {
		log.Warn("relay failed", "recipient", f.Conn.ID(), "error", f.Err)
		// A partial write leaves the recipient stream unusable.
		_ = f.Conn.Close()
	}
	s.metrics.RecordRelay(delivered, len(failed))
}

func (s *Server) record(event string, kv ...any) {
	if s.events == nil {
		return
	}
	if err := s.events.Record(event, kv...); err != nil {
		s.logger.Warn("event log write failed", "event", event, "error", err)
	}
}
