package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"
)

// Server wraps http.Server with a synchronously bound listener and graceful shutdown.
// Safe for concurrent use.
type Server struct {
	mu                sync.RWMutex
	addr              string
	server            *http.Server
	listener          net.Listener
	logger            *slog.Logger
	shutdown          time.Duration
	readTimeout       time.Duration
	readHeaderTimeout time.Duration
	writeTimeout      time.Duration
	idleTimeout       time.Duration
	maxHeaderBytes    int
	tlsConfig         *tls.Config
	listenConfig      net.ListenConfig
	running           bool
	done              chan error
}

// New creates a new Server with the given address and options.
// Defaults to a short graceful shutdown timeout and a no-op logger.
func New(addr string, opts ...Option) *Server {
	s := &Server{
		addr:              addr,
		logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
		shutdown:          DefaultShutdownTimeout,
		readTimeout:       DefaultReadTimeout,
		readHeaderTimeout: DefaultReadHeaderTimeout,
		writeTimeout:      DefaultWriteTimeout,
		idleTimeout:       DefaultIdleTimeout,
		maxHeaderBytes:    DefaultMaxHeaderBytes,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return s
}

// Start binds the listener and serves handler in the background.
// It returns once the address is bound, so callers can rely on the port
// accepting connections as soon as Start returns nil.
// Serve errors are reported through Done.
func (s *Server) Start(ctx context.Context, handler http.Handler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrServerAlreadyRunning
	}
	if s.addr == "" {
		return ErrMissingAddress
	}

	ln, err := s.listenConfig.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("%w on %s: %w", ErrListen, s.addr, err)
	}
	if s.tlsConfig != nil {
		ln = tls.NewListener(ln, s.tlsConfig)
	}

	s.listener = ln
	s.server = &http.Server{
		Handler:           handler,
		ReadTimeout:       s.readTimeout,
		ReadHeaderTimeout: s.readHeaderTimeout,
		WriteTimeout:      s.writeTimeout,
		IdleTimeout:       s.idleTimeout,
		MaxHeaderBytes:    s.maxHeaderBytes,
		TLSConfig:         s.tlsConfig,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	s.running = true
	s.done = make(chan error, 1)

	srv, done := s.server, s.done
	s.logger.InfoContext(ctx, "server listening", "addr", ln.Addr().String(), "tls", s.tlsConfig != nil)

	go func() {
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
		}
		done <- err
		close(done)
	}()

	return nil
}

// Addr returns the bound listener address, or the configured address before Start.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Running reports whether the server is accepting connections.
func (s *Server) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Done returns a channel that receives the serve error (nil after a clean
// shutdown) and is then closed. Returns nil before Start.
func (s *Server) Done() <-chan error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.done
}

// Stop gracefully shuts down the server using the configured timeout and
// releases the listener. Returns immediately if the server is not running.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.server == nil {
		return nil
	}

	s.logger.Info("shutting down server gracefully", "addr", s.listener.Addr().String(), "timeout", s.shutdown)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()

	err := s.server.Shutdown(shutdownCtx)
	s.running = false

	if err != nil {
		s.logger.Error("server shutdown error", "error", err)
		// Force-close whatever is left so the port is released.
		_ = s.server.Close()
		return err
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Run provides errgroup compatibility for coordinated lifecycle management.
// Returns a function that starts the server, waits for context cancellation
// or a serve failure, and performs graceful shutdown.
func (s *Server) Run(ctx context.Context, handler http.Handler) func() error {
	return func() error {
		if err := s.Start(ctx, handler); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			if stopErr := s.Stop(); stopErr != nil {
				s.logger.Error("failed to stop server during context cancellation", "error", stopErr)
			}
			return nil
		case err := <-s.Done():
			return err
		}
	}
}

// Run is a convenience function that serves handler on addr until ctx is canceled.
func Run(ctx context.Context, addr string, handler http.Handler, opts ...Option) error {
	return New(addr, opts...).Run(ctx, handler)()
}
