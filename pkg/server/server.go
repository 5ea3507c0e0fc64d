package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/JoelBender/bsit-tags/pkg/config"
	"github.com/JoelBender/bsit-tags/pkg/store"
)

// maxBodySize limits translation documents
const maxBodySize = 1 << 20

// Server represents the HTTP translation server
type Server struct {
	config  *config.Config
	archive *store.Archive
	logger  *slog.Logger
	metrics *Metrics
	router  *mux.Router
}

// NewServer creates a translation server. archive may be nil, in which case
// saving and listing runs is unavailable.
func NewServer(cfg *config.Config, archive *store.Archive, logger *slog.Logger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		config:  cfg,
		archive: archive,
		logger:  logger,
		metrics: NewMetrics(),
		router:  mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(s.instrument)

	s.router.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	s.router.HandleFunc("/translate", s.handleTranslate).Methods(http.MethodPost, http.MethodOptions)
	s.router.HandleFunc("/datatypes", s.handleDatatypes).Methods(http.MethodGet)
	s.router.HandleFunc("/runs", s.handleRuns).Methods(http.MethodGet)
	s.router.HandleFunc("/runs/{id}", s.handleRun).Methods(http.MethodGet)
	s.router.HandleFunc("/runs/{id}/triples", s.handleRunTriples).Methods(http.MethodGet)
	s.router.HandleFunc("/export", s.handleExport).Methods(http.MethodGet)
	s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
}

// ServeHTTP makes the server usable as an http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start serves on the configured address until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.config.Server.Addr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting translation server", "addr", s.config.Server.Addr, "archive", s.archive != nil)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down translation server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
