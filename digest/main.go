package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/DeafMist/premarket-digest/internal/app"
	"github.com/DeafMist/premarket-digest/internal/config"
	"github.com/DeafMist/premarket-digest/internal/logger"
	"github.com/DeafMist/premarket-digest/internal/models"
)

func main() {
	log := logger.New("digest")
	cfg, err := config.LoadDigest()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	svc, closeFn := app.NewService(cfg, log)
	defer func() {
		if err := closeFn(); err != nil {
			log.Warn("close notifiers", slog.Any("err", err))
		}
	}()

	// Each HTTP call has its own timeout; this only bounds the whole run.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	d := svc.Build(ctx)
	printPreview(os.Stdout, d)

	if err := svc.Deliver(ctx, d); err != nil {
		log.Warn("delivery incomplete", slog.Any("err", err))
	}
}

func printPreview(w io.Writer, d models.Digest) {
	fmt.Fprintln(w, "--- preview ---")
	fmt.Fprintln(w, d.Title)
	fmt.Fprintln(w, d.Body)
	fmt.Fprintln(w, "-----------")
}
