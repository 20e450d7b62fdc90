package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"naver-shop-crawler/config"
	"naver-shop-crawler/models"
	"naver-shop-crawler/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

const timestampLayout = "2006-01-02 15:04:05"

// Executor runs one crawl request. *naver.Runner satisfies it.
type Executor interface {
	Execute(ctx context.Context, req models.Request) (models.Response, error)
}

// Server is the HTTP front-end that runs crawls on demand.
type Server struct {
	router   *chi.Mux
	executor Executor
	cfg      *config.Config
	log      *utils.Logger
	limiter  *rate.Limiter
	crawlMu  sync.Mutex
	now      func() time.Time
}

func NewServer(executor Executor, cfg *config.Config, log *utils.Logger) *Server {
	if log == nil {
		log = utils.Discard()
	}

	limit := rate.Inf
	if cfg.RequestInterval > 0 {
		limit = rate.Every(cfg.RequestInterval)
	}

	s := &Server{
		router:   chi.NewRouter(),
		executor: executor,
		cfg:      cfg,
		log:      log,
		limiter:  rate.NewLimiter(limit, 1),
		now:      time.Now,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/crawl", s.handleCrawl)
	s.router.Post("/crawl", s.handleCrawl)
}

func (s *Server) Router() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Listening on %s", s.cfg.ListenAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(response)
}
