package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/shipment-packaging/config"
)

// ShutdownHook releases a resource after the server stopped accepting requests.
type ShutdownHook func(ctx context.Context) error

// Server wraps http.Server with graceful shutdown capabilities.
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	drains          []func()
	hooks           []ShutdownHook
}

// NewServer creates a new Server. The write timeout leaves room for the
// request timeout so a timed out handler can still write its 504.
func NewServer(handler http.Handler, cfg config.ServerConfig) *Server {
	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	writeTimeout := 15 * time.Second
	if cfg.RequestTimeout > 0 && cfg.RequestTimeout+5*time.Second > writeTimeout {
		writeTimeout = cfg.RequestTimeout + 5*time.Second
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    1 << 20, // 1MB
		},
		shutdownTimeout: shutdownTimeout,
	}
}

// OnShutdown registers hooks run in order after the HTTP server stopped.
func (s *Server) OnShutdown(hooks ...ShutdownHook) {
	s.hooks = append(s.hooks, hooks...)
}

// OnDrain registers callbacks run when shutdown begins, before the server
// stops accepting connections.
func (s *Server) OnDrain(fns ...func()) {
	s.drains = append(s.drains, fns...)
}

// Run starts the server and blocks until shutdown signal is received.
func (s *Server) Run() error {
	errChan := make(chan error, 1)

	go func() {
		log.Info().Str("addr", s.httpServer.Addr).Msg("Server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Received signal, initiating graceful shutdown")
	}

	return s.Shutdown()
}

// Shutdown runs the drain callbacks, stops the server, then runs the
// shutdown hooks within the same deadline. Hook errors are logged and joined.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	for _, drain := range s.drains {
		drain()
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}

	var errs []error
	for _, hook := range s.hooks {
		if err := hook(ctx); err != nil {
			log.Error().Err(err).Msg("Shutdown hook failed")
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	log.Info().Msg("Server stopped gracefully")
	return nil
}
