// Package server exposes the catalog over HTTP: public HTML pages and JSON reads, and an
// admin API guarded by HS256 bearer tokens.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/memento-gifts/memento"
	"github.com/memento-gifts/memento/render"
	"github.com/rs/cors"
)

// maxImportBytes bounds the body of an import request.
const maxImportBytes = 10 << 20

// Pinger is implemented by stores that can report their connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server serves the catalog.
type Server struct {
	catalog        *memento.Catalog
	manager        *memento.Manager
	renderer       *render.Renderer
	logger         *slog.Logger
	jwtSecret      string
	allowedOrigins []string
	baseURL        string
	now            func() time.Time
	mux            *http.ServeMux
}

// WithJWTSecret sets the HS256 secret of admin tokens. Without it the admin API answers 503.
func WithJWTSecret(secret string) func(*Server) error {
	return func(s *Server) error {
		s.jwtSecret = secret
		return nil
	}
}

// WithAllowedOrigins sets the CORS allowed origins.
func WithAllowedOrigins(origins []string) func(*Server) error {
	return func(s *Server) error {
		s.allowedOrigins = origins
		return nil
	}
}

// WithBaseURL sets the public URL used in the sitemap.
func WithBaseURL(baseURL string) func(*Server) error {
	return func(s *Server) error {
		if baseURL == "" {
			return errors.New("base url is empty")
		}
		s.baseURL = baseURL
		return nil
	}
}

// WithClock replaces time.Now, used for the footer year.
func WithClock(now func() time.Time) func(*Server) error {
	return func(s *Server) error {
		s.now = now
		return nil
	}
}

// New creates a server for the catalog and its manager.
func New(catalog *memento.Catalog, manager *memento.Manager, options ...func(*Server) error) (*Server, error) {
	renderer, err := render.NewRenderer()
	if err != nil {
		return nil, err
	}

	s := &Server{
		catalog:        catalog,
		manager:        manager,
		renderer:       renderer,
		logger:         catalog.Logger,
		allowedOrigins: []string{"*"},
		baseURL:        "http://localhost:8080",
		now:            time.Now,
		mux:            http.NewServeMux(),
	}
	for _, option := range options {
		if err := option(s); err != nil {
			return nil, fmt.Errorf("applying option on server : %w", err)
		}
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /livez", s.handleLiveness)
	s.mux.HandleFunc("GET /readyz", s.handleReadiness)

	s.mux.HandleFunc("GET /{$}", s.handleHome)
	s.mux.HandleFunc("GET /categories/{id}", s.handleCategoryPage)
	s.mux.HandleFunc("GET /experiences/{id}", s.handleExperiencePage)
	s.mux.HandleFunc("GET /sitemap.xml", s.handleSitemap)

	s.mux.HandleFunc("GET /api/categories", s.handleCategories)
	s.mux.HandleFunc("GET /api/niche-categories", s.handleNicheCategories)
	s.mux.HandleFunc("GET /api/experiences", s.handleExperiences)
	s.mux.HandleFunc("GET /api/experiences/trending", s.handleTrending)
	s.mux.HandleFunc("GET /api/experiences/featured", s.handleFeatured)
	s.mux.HandleFunc("GET /api/experiences/{id}", s.handleExperience)

	s.mux.HandleFunc("GET /api/admin/experiences", s.requireAdmin(s.handleManagerState))
	s.mux.HandleFunc("POST /api/admin/experiences", s.requireAdmin(s.handleAdd))
	s.mux.HandleFunc("PATCH /api/admin/experiences/{id}", s.requireAdmin(s.handleUpdate))
	s.mux.HandleFunc("DELETE /api/admin/experiences/{id}", s.requireAdmin(s.handleDelete))
	s.mux.HandleFunc("POST /api/admin/load", s.requireAdmin(s.handleLoad))
	s.mux.HandleFunc("POST /api/admin/reset", s.requireAdmin(s.handleReset))
	s.mux.HandleFunc("POST /api/admin/import", s.requireAdmin(s.handleImport))
	s.mux.HandleFunc("GET /api/admin/export", s.requireAdmin(s.handleExport))
}

// Handler returns the routes wrapped with request logging and CORS.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	})
	return c.Handler(s.logRequests(s.mux))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully,
// waiting at most shutdownTimeout for in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration", time.Since(start),
		)
	})
}

// readBody reads at most limit bytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
}
