package chat

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"
)

// Server owns the listening socket and the coordinator loop. The
// coordinator is the only goroutine touching live and handlers; handlers
// reach it only through the teardown channel.
type Server struct {
	addr            string
	logger          *slog.Logger
	writeTimeout    time.Duration
	maxLine         int
	shutdownTimeout time.Duration

	registry    *Registry
	broadcaster *Broadcaster
	teardown    *Teardown
	handler     *Handler

	mu       sync.Mutex // guards listener and started
	listener net.Listener
	started  bool

	accepted chan net.Conn
	live     map[Handle]net.Conn
	handlers sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewServer(addr string, logger *slog.Logger, opts ...Option) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		addr:            addr,
		logger:          logger,
		maxLine:         defaultMaxLineLength,
		shutdownTimeout: defaultShutdownTimeout,
		accepted:        make(chan net.Conn),
		live:            make(map[Handle]net.Conn),
		done:            make(chan struct{}),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.registry = NewRegistry(logger)
	s.broadcaster = NewBroadcaster(s.registry, logger)
	s.teardown = NewTeardown()
	s.handler = NewHandler(s.registry, s.broadcaster, s.teardown, logger, s.maxLine)
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s, nil
}

func (s *Server) Registry() *Registry {
	return s.registry
}

// Addr returns the bound address once started, or the configured one.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	if err := s.Serve(ln); err != nil {
		_ = ln.Close()
		return err
	}
	return nil
}

// Serve runs the accept loop and the coordinator on ln in the background.
func (s *Server) Serve(ln net.Listener) error {
	if ln == nil {
		return ErrListenerRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.Err() != nil {
		return ErrServerClosed
	}
	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true
	s.listener = ln
	go s.acceptLoop(ln)
	go s.run()

	s.logger.Info("server started", "addr", ln.Addr().String())
	return nil
}

// Stop closes the listener and every live connection, then waits for the
// coordinator, which in turn waits for every handler to finish and drains
// their teardown notifications.
func (s *Server) Stop() error {
	s.logger.Info("shutting down")

	s.mu.Lock()
	s.cancel()
	ln := s.listener
	s.mu.Unlock()

	if ln == nil {
		return nil
	}
	_ = ln.Close()

	select {
	case <-s.done:
		s.logger.Info("shutdown complete")
		return nil
	case <-time.After(s.shutdownTimeout):
		s.logger.Warn("shutdown timeout reached")
		return context.DeadlineExceeded
	}
}

func (s *Server) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || s.ctx.Err() != nil {
				return
			}
			AcceptErrors.Inc()
			s.logger.Error("accept failed", "error", err)
			select {
			case <-time.After(acceptBackoff):
				continue
			case <-s.ctx.Done():
				return
			}
		}

		select {
		case s.accepted <- conn:
		case <-s.ctx.Done():
			_ = conn.Close()
			return
		}
	}
}

// run is the coordinator: it multiplexes new connections and teardown
// notifications and never polls individual sessions.
func (s *Server) run() {
	defer close(s.done)

	for {
		select {
		case conn := <-s.accepted:
			s.spawn(conn)
		case <-s.teardown.Ready():
			s.reconcile()
		case <-s.ctx.Done():
			s.closeLive()
			s.handlers.Wait()
			s.reconcile()
			return
		}
	}
}

func (s *Server) spawn(conn net.Conn) {
	sess := NewSession(conn, s.writeTimeout)
	s.live[sess.Handle] = conn
	ConnectedClients.Set(float64(len(s.live)))

	s.logger.Info("client connected", "conn", sess.Handle.String(), "remote", remoteAddr(conn))
	s.handlers.Add(1)
	go func() {
		defer s.handlers.Done()
		s.handler.HandleSession(sess)
	}()
}

func (s *Server) reconcile() {
	for _, h := range s.teardown.Drain() {
		TeardownNotifications.Inc()
		if nick, removed := s.registry.Unregister(h); removed {
			s.logger.Warn("stale registry entry removed", "conn", h.String(), "nickname", nick)
		}
		if _, ok := s.live[h]; ok {
			delete(s.live, h)
			s.logger.Info("client disconnected", "conn", h.String())
		}
	}
	ConnectedClients.Set(float64(len(s.live)))
}

// closeLive unblocks every handler; their handles come back through the
// teardown channel like any other disconnect.
func (s *Server) closeLive() {
	for _, conn := range s.live {
		_ = conn.Close()
	}
}
