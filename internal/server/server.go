// Package server exposes the diagram surface and export pipeline over HTTP.
//
// The server is the glue between the stateful pieces: it owns the surface,
// the session registry, and the export orchestrator, and broadcasts surface
// activity to subscribers over server-sent events.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"archcanvas/pkg/cache"
	"archcanvas/pkg/capture"
	"archcanvas/pkg/config"
	"archcanvas/pkg/diagram"
	"archcanvas/pkg/docgen"
	"archcanvas/pkg/errors"
	"archcanvas/pkg/export"
	"archcanvas/pkg/render"
	"archcanvas/pkg/session"
	"archcanvas/pkg/storage"
)

// Timeouts for the HTTP server itself. The SSE endpoint streams
// indefinitely, so there is no write timeout.
const (
	readTimeout     = 15 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server wires the surface, session registry, and export orchestrator
// behind an HTTP API.
type Server struct {
	cfg      config.Config
	surface  *render.Surface
	sessions *session.Registry
	exporter Exporter
	layouts  *cache.Layouts
	store    storage.Store
	events   *Hub
	logger   *log.Logger

	currentMu      sync.RWMutex
	currentDiagram *diagram.Description

	http *http.Server
}

// Exporter runs one export request. *export.Orchestrator satisfies this.
type Exporter interface {
	Export(ctx context.Context, req export.Request) (export.Result, error)
	Busy() bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger. Defaults to a discard logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithExporter overrides the export orchestrator, used by tests.
func WithExporter(e Exporter) Option {
	return func(s *Server) { s.exporter = e }
}

// WithLayouts replaces the layout memoizer, primarily for tests.
func WithLayouts(l *cache.Layouts) Option {
	return func(s *Server) { s.layouts = l }
}

// WithStore sets the diagram persistence backend. Defaults to no
// persistence.
func WithStore(st storage.Store) Option {
	return func(s *Server) { s.store = st }
}

// New creates a fully wired server from configuration.
func New(cfg config.Config, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		sessions: session.NewRegistry(),
		events:   NewHub(),
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}

	s.surface = render.NewSurface(render.Callbacks{
		OnNodeActivated:       s.onNodeActivated,
		OnNodeDeleteRequested: s.onNodeDeleteRequested,
	})

	for _, opt := range opts {
		opt(s)
	}

	if s.layouts == nil {
		s.layouts = cache.NewLayouts(newLayoutCache(cfg.Cache, s.logger))
	}
	if s.store == nil {
		s.store = storage.NewNullStore()
	}

	if s.exporter == nil {
		unit := capture.New(s.surface, capture.WithLogger(s.logger))
		generator := docgen.NewClient(cfg.Docgen.URL, s.sessions)
		deliverer := export.DirDeliverer{Dir: cfg.Export.Dir}
		s.exporter = export.New(unit, generator, deliverer, export.WithLogger(s.logger))
	}

	s.http = &http.Server{
		Addr:        cfg.Server.ListenAddr,
		Handler:     s.Routes(),
		ReadTimeout: readTimeout,
	}
	return s
}

// Routes builds the HTTP router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Put("/diagram", s.handlePutDiagram)
		r.Get("/diagram", s.handleGetDiagram)
		r.Delete("/diagram", s.handleClearDiagram)
		r.Get("/diagram/svg", s.handleGetSVG)

		r.Route("/nodes/{id}", func(r chi.Router) {
			r.Post("/hover", s.handleHoverEnter)
			r.Delete("/hover", s.handleHoverLeave)
			r.Post("/activate", s.handleActivate)
			r.Post("/position", s.handleDrag)
			r.Delete("/", s.handleRequestDelete)
		})

		r.Put("/viewport", s.handleSetViewport)

		r.Post("/session", s.handleStartSession)
		r.Delete("/session", s.handleEndSession)

		r.Post("/export", s.handleExport)
		r.Get("/events", s.handleEvents)
	})

	return r
}

// ListenAndServe runs the server until the context is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if err := s.restore(ctx); err != nil {
		s.logger.Warn("could not restore persisted diagram", "err", err)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.events.Close()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := s.store.Close(shutdownCtx); err != nil {
		s.logger.Warn("closing diagram store", "err", err)
	}
	return nil
}

// restore loads the persisted diagram, if any, onto the surface.
func (s *Server) restore(ctx context.Context) error {
	d, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if d == nil {
		return nil
	}
	laid, err := s.layouts.Resolve(ctx, *d, render.AutoLayout)
	if err != nil {
		return err
	}
	if err := s.surface.SetDescription(ctx, laid); err != nil {
		return err
	}
	s.setCurrent(&laid)
	s.logger.Info("restored persisted diagram", "nodes", len(laid.Nodes), "edges", len(laid.Edges))
	return nil
}

// newLayoutCache opens the configured layout cache backend, falling back
// to a no-op cache when the backend is unavailable.
func newLayoutCache(cfg config.Cache, logger *log.Logger) cache.Cache {
	switch cfg.Backend {
	case config.CacheNone:
		return cache.NewNullCache()
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(context.Background(), cfg.RedisURL)
		if err != nil {
			logger.Warn("redis layout cache disabled", "err", err)
			return cache.NewNullCache()
		}
		return rc
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(filepath.Join(dir, "archcanvas", "layout"))
	if err != nil {
		logger.Warn("layout cache disabled", "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// Surface exposes the surface for embedding callers (the CLI view command).
func (s *Server) Surface() *render.Surface {
	return s.surface
}

// Sessions exposes the session registry.
func (s *Server) Sessions() *session.Registry {
	return s.sessions
}

func (s *Server) onNodeActivated(id string, data render.NodeData) {
	s.events.Publish(Event{Type: EventNodeActivated, Payload: nodeEventPayload{ID: id, Data: data}})
}

func (s *Server) onNodeDeleteRequested(id string) {
	s.events.Publish(Event{Type: EventNodeDeleteRequested, Payload: nodeEventPayload{ID: id}})
}

type nodeEventPayload struct {
	ID   string          `json:"id"`
	Data render.NodeData `json:"data,omitempty"`
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps structured error codes to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidDiagram, errors.ErrCodeInvalidEdge, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidSession:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeNodeNotFound, errors.ErrCodeNoDiagram:
		status = http.StatusNotFound
	case errors.ErrCodeNoViewport:
		status = http.StatusConflict
	case errors.ErrCodeExportBusy:
		status = http.StatusConflict
	case errors.ErrCodeUnauthorized:
		status = http.StatusUnauthorized
	case errors.ErrCodeNetwork, errors.ErrCodeTimeout:
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
