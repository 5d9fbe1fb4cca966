package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jsweb-dev/jsweb/internal/logging"
	"github.com/jsweb-dev/jsweb/internal/runtimeconfig"
	"github.com/jsweb-dev/jsweb/pkg/interfaces"
)

// ErrPortInUse reports that the configured address is already bound.
var ErrPortInUse = errors.New("server: address already in use")

// Server runs the application handler with graceful shutdown on SIGINT and
// SIGTERM.
type Server struct {
	handler http.Handler
	host    string
	port    int
	grace   time.Duration
	logger  interfaces.Logger
}

// Option configures the server.
type Option func(*Server)

// WithLogger overrides the default noop logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAddress overrides the configured host and port.
func WithAddress(host string, port int) Option {
	return func(s *Server) {
		if strings.TrimSpace(host) != "" {
			s.host = host
		}
		if port > 0 {
			s.port = port
		}
	}
}

// New constructs a server for handler from the server config section.
func New(handler http.Handler, cfg runtimeconfig.ServerConfig, opts ...Option) *Server {
	s := &Server{
		handler: handler,
		host:    cfg.Host,
		port:    cfg.Port,
		grace:   time.Duration(cfg.ShutdownGraceSeconds) * time.Second,
		logger:  logging.NoOp(),
	}
	if s.grace <= 0 {
		s.grace = 10 * time.Second
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Addr returns the host:port the server binds to.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.host, fmt.Sprintf("%d", s.port))
}

// Run serves until the context is cancelled or an interrupt arrives, then
// drains in-flight requests within the shutdown grace period.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.Addr())
	if err != nil {
		if isAddrInUse(err) {
			return fmt.Errorf("%w: %s", ErrPortInUse, s.Addr())
		}
		return fmt.Errorf("server: listen on %s: %w", s.Addr(), err)
	}

	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(listener)
	}()

	s.logger.Info("server listening", "addr", s.Addr())

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "grace", s.grace.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

func isAddrInUse(err error) bool {
	if errors.Is(err, syscall.EADDRINUSE) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && strings.Contains(opErr.Error(), "address already in use")
}
