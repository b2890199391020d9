// Package server implements garden's preview server.
//
// The server renders the photo gallery with a lightbox driven entirely by
// form posts, so navigation works without script: each visitor gets a
// session cookie and their focused image is kept in a [session.Store].
// It also serves the validated content collections and the study tools.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/itsuki/garden/pkg/buildinfo"
	"github.com/itsuki/garden/pkg/config"
	"github.com/itsuki/garden/pkg/content"
	"github.com/itsuki/garden/pkg/httputil"
	"github.com/itsuki/garden/pkg/pipeline"
	"github.com/itsuki/garden/pkg/session"
	"github.com/itsuki/garden/pkg/tools"
)

const shutdownTimeout = 10 * time.Second

// Options configures a [Server]. Nil fields get working defaults.
type Options struct {
	Config   config.Config
	Site     *config.Site
	Runner   *pipeline.Runner
	Sessions session.Store
	Renderer *content.Renderer
	Logger   *log.Logger
}

// Server holds the handlers' shared state.
type Server struct {
	cfg      config.Config
	site     *config.Site
	runner   *pipeline.Runner
	sessions session.Store
	renderer *content.Renderer
	logger   *log.Logger

	flashcards *tools.Generator
	coach      *tools.Coach
}

// New returns a server for opts.
func New(opts Options) *Server {
	s := &Server{
		cfg:      opts.Config,
		site:     opts.Site,
		runner:   opts.Runner,
		sessions: opts.Sessions,
		renderer: opts.Renderer,
		logger:   opts.Logger,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.site == nil {
		s.site = config.FallbackSite()
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.sessions == nil {
		s.sessions = session.NewMemoryStore()
	}
	if s.renderer == nil {
		s.renderer = content.NewRenderer(s.runner.Cache, s.runner.Keyer, s.logger)
	}

	t := s.cfg.Tools
	s.flashcards = tools.NewGenerator(
		tools.WithGenerateDelay(t.GenerateDelay.Duration),
		tools.WithGeneratorLogger(s.logger),
	)
	s.coach = tools.NewCoach(
		tools.WithDelays(t.ScriptDelay.Duration, t.RecordDelay.Duration, t.EvaluateDelay.Duration),
		tools.WithCoachLogger(s.logger),
	)
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestLogger(s.logger))
	r.Use(middleware.Recoverer)
	if d := s.cfg.Server.Timeout.Duration; d > 0 {
		r.Use(middleware.Timeout(d))
	}

	r.Get("/healthz", s.handleHealth)

	r.Route("/gallery", func(r chi.Router) {
		r.Get("/", s.handleGallery)
		r.Post("/{action}", s.handleGalleryAction)
	})
	r.Get("/gallery.svg", s.handleGalleryArtifact(pipeline.FormatSVG))
	r.Get("/gallery.json", s.handleGalleryArtifact(pipeline.FormatJSON))

	r.Route("/content/{collection}", func(r chi.Router) {
		r.Get("/", s.handleContentList)
		r.Get("/*", s.handleContentEntry)
	})

	r.Route("/tools", func(r chi.Router) {
		r.Get("/", s.handleTools)
		r.Post("/flashcards", s.handleFlashcardsGenerate)
		r.Get("/flashcards", s.handleFlashcards)
		r.Get("/flashcards.csv", s.handleFlashcardsCSV)
		r.Post("/reading/script", s.handleReadingScript)
		r.Post("/reading/lines/{line}", s.handleReadingRecord)
		r.Get("/reading", s.handleReading)
	})

	return r
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr, "version", buildinfo.Version)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := s.sessions.Cleanup(shutdownCtx); err != nil {
		s.logger.Warn("session cleanup failed", "error", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}
