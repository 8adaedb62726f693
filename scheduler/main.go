package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DeafMist/premarket-digest/internal/app"
	"github.com/DeafMist/premarket-digest/internal/config"
	"github.com/DeafMist/premarket-digest/internal/logger"
	"github.com/DeafMist/premarket-digest/internal/models"
)

type job interface {
	Run(ctx context.Context)
}

func main() {
	log := logger.New("scheduler")
	cfg, err := config.LoadScheduler()
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	log.Info("scheduler running", slog.Duration("interval", cfg.Interval))
	loop(ctx, log, &digestJob{svc: svc, log: log}, cfg.Interval)
}

// loop runs j immediately and then on every tick until ctx is done.
func loop(ctx context.Context, log *slog.Logger, j job, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.Run(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown signal received")
			return
		case <-ticker.C:
			j.Run(ctx)
		}
	}
}

type digestService interface {
	Build(ctx context.Context) models.Digest
	Deliver(ctx context.Context, d models.Digest) error
}

type digestJob struct {
	svc digestService
	log *slog.Logger
}

func (j *digestJob) Run(ctx context.Context) {
	subCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	d := j.svc.Build(subCtx)
	j.log.Info("digest built", slog.String("title", d.Title))

	if err := j.svc.Deliver(subCtx, d); err != nil {
		j.log.Warn("delivery incomplete (next run on schedule)", slog.Any("err", err))
		return
	}
	j.log.Debug("digest delivered")
}
