package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/DeafMist/premarket-digest/internal/app"
	"github.com/DeafMist/premarket-digest/internal/cache"
	"github.com/DeafMist/premarket-digest/internal/config"
	"github.com/DeafMist/premarket-digest/internal/logger"
	"github.com/DeafMist/premarket-digest/internal/models"
)

const latestKey = "latest"

func main() {
	log := logger.New("api")
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	svc, closeFn := app.NewService(&cfg.Digest, log)
	defer func() {
		if err := closeFn(); err != nil {
			log.Warn("close notifiers", slog.Any("err", err))
		}
	}()

	srv := newServer(log, svc, cache.New[models.Envelope](1, cfg.CacheTTL))

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Building a digest makes two upstream calls before the response.
		WriteTimeout: 2*cfg.HTTPTimeout + 15*time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		log.Info("api server starting", slog.String("addr", cfg.BindAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
}

type digestService interface {
	Build(ctx context.Context) models.Digest
	Deliver(ctx context.Context, d models.Digest) error
}

type server struct {
	log   *slog.Logger
	svc   digestService
	cache *cache.Cache[models.Envelope]
	now   func() time.Time
}

func newServer(log *slog.Logger, svc digestService, c *cache.Cache[models.Envelope]) *server {
	return &server{log: log, svc: svc, cache: c, now: time.Now}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/digest", s.handleDigest)
	r.Post("/digest/send", s.handleSend)
	return r
}

type sendResponse struct {
	Digest    models.Envelope `json:"digest"`
	Delivered bool            `json:"delivered"`
	Error     string          `json:"error,omitempty"`
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleDigest(w http.ResponseWriter, r *http.Request) {
	if env, ok := s.cache.Get(latestKey); ok && r.URL.Query().Get("refresh") == "" {
		writeJSON(w, http.StatusOK, env)
		return
	}

	env := s.build(r.Context())
	s.cache.Set(latestKey, env)
	writeJSON(w, http.StatusOK, env)
}

func (s *server) handleSend(w http.ResponseWriter, r *http.Request) {
	env := s.build(r.Context())
	s.cache.Set(latestKey, env)

	resp := sendResponse{Digest: env, Delivered: true}
	if err := s.svc.Deliver(r.Context(), models.Digest{Title: env.Title, Body: env.Body}); err != nil {
		s.log.Warn("delivery incomplete", slog.String("id", env.ID), slog.Any("err", err))
		resp.Delivered = false
		resp.Error = err.Error()
		writeJSON(w, http.StatusBadGateway, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) build(ctx context.Context) models.Envelope {
	d := s.svc.Build(ctx)
	env := models.NewEnvelope(uuid.NewString(), d, s.now())
	s.log.Info("digest built", slog.String("id", env.ID), slog.String("title", env.Title))
	return env
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
