// Package server implements the chordgen HTTP interface.
//
// Routes are served at the root and, when a prefix is configured, again
// under that prefix:
//
//	GET    /                index page with the chord form and presets
//	GET    /chord           diagram image, PNG unless ?format= says otherwise
//	GET    /download        the same image as an attachment
//	GET    /chords          library records, optionally filtered by ?name=
//	POST   /chords          add a chord to the library
//	GET    /chords/{id}     one library record
//	DELETE /chords/{id}     remove a library record
//	GET    /healthz         liveness and build info
//
// Diagram routes read the chord from the query string: name, s1..s6 for the
// frets, f1..f6 for the fingers, and lh/rf, which are on only when "1".
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/chordgen/pkg/library"
	"github.com/matzehuels/chordgen/pkg/observability"
	"github.com/matzehuels/chordgen/pkg/pipeline"
)

//go:embed templates/index.html
var templateFS embed.FS

// Config holds server settings.
type Config struct {
	// Prefix mounts a second copy of the routes, e.g. "/guitarchords".
	Prefix string
	// Width is the raster width for PNG and PDF output.
	Width int

	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
}

// Server serves diagrams and the chord library.
type Server struct {
	runner *pipeline.Runner
	store  library.Store
	logger *log.Logger
	cfg    Config
	index  *template.Template
}

// New creates a server. A nil logger discards output.
func New(runner *pipeline.Runner, store library.Store, logger *log.Logger, cfg Config) *Server {
	if logger == nil {
		logger = log.Default()
	}
	index := template.Must(template.New("index.html").
		Funcs(template.FuncMap{"presetURL": presetURL}).
		ParseFS(templateFS, "templates/index.html"))
	return &Server{
		runner: runner,
		store:  store,
		logger: logger,
		cfg:    cfg,
		index:  index,
	}
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)
	if s.cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}

	r.Get("/healthz", s.handleHealth)
	s.routes(r)
	if s.cfg.Prefix != "" && s.cfg.Prefix != "/" {
		r.Route(s.cfg.Prefix, s.routes)
	}
	return r
}

func (s *Server) routes(r chi.Router) {
	r.Get("/", s.handleIndex)
	r.Get("/chord", s.handleChord)
	r.Get("/download", s.handleDownload)
	r.Route("/chords", func(r chi.Router) {
		r.Get("/", s.handleListChords)
		r.Post("/", s.handleCreateChord)
		r.Get("/{id}", s.handleGetChord)
		r.Delete("/{id}", s.handleDeleteChord)
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr, "prefix", s.cfg.Prefix)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// instrument reports every request to the HTTP hooks and the debug log.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := routePattern(r)
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
