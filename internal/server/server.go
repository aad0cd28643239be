// package server contains the router, middleware and callback server for the OAuth login flow
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/spotify-mcp/internal/shared"
)

const shutdownTimeout = 5 * time.Second

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler is an [http.Handler] that knows which paths it serves.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// CallbackServer serves an [OAuthHandler] until it reports a result.
type CallbackServer struct {
	addr    string
	handler *OAuthHandler
	logger  *log.Logger
}

// NewCallbackServer creates a [CallbackServer] that will listen on addr.
func NewCallbackServer(addr string, h *OAuthHandler, logger *log.Logger) *CallbackServer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &CallbackServer{addr: addr, handler: h, logger: logger}
}

// Wait listens on the configured address and blocks until the callback completes or ctx ends.
func (s *CallbackServer) Wait(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve handles callbacks on ln until one arrives or ctx ends, then shuts the server down.
func (s *CallbackServer) Serve(ctx context.Context, ln net.Listener) error {
	router := NewBasicRouter()
	router.Use(Recover(s.logger), Logging(s.logger))
	router.Handler(s.handler)

	srv := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()
	s.logger.Debug("waiting for authorization callback", "addr", ln.Addr().String())

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("callback server shutdown failed", "error", err)
		}
	}()

	select {
	case res := <-s.handler.Result():
		return res.Error()
	case err := <-errc:
		return fmt.Errorf("callback server failed: %w", err)
	case <-ctx.Done():
		return fmt.Errorf("%w: no authorization callback received", shared.ErrTimeout)
	}
}
