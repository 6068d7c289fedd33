// Package server exposes the renderer over HTTP: clients post a photo and
// a configuration and get the stylized image back as a download.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/newsroom/stylize/internal/compositor"
	"github.com/newsroom/stylize/internal/encoder"
)

// MaxUploadBytes caps the size of a render request body.
const MaxUploadBytes = 32 << 20

// Server represents the HTTP server.
type Server struct {
	addr     string
	logger   *log.Logger
	registry *encoder.Registry
	opts     *compositor.Options
	server   *http.Server
}

// New creates a server listening on addr. A nil logger discards output.
func New(addr string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		addr:     addr,
		logger:   logger,
		registry: encoder.NewRegistry(),
	}
}

// SetCompositorOptions changes how uploaded photos are resampled.
func (s *Server) SetCompositorOptions(o *compositor.Options) {
	s.opts = o
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/presets", s.handlePresets)
		r.Post("/layers", s.handleLayers)
		r.Post("/render", s.handleRender)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.addr, "formats", s.registry.Available())
		errc <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}

// logRequests logs one line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}
