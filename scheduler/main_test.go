package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/premarket-digest/internal/models"
)

type countingJob struct {
	runs atomic.Int32
}

func (c *countingJob) Run(context.Context) { c.runs.Add(1) }

func TestLoopRunsImmediatelyAndOnTicks(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	j := &countingJob{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop(ctx, log, j, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return j.runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop after cancel")
	}
}

type stubService struct {
	built     int
	delivered []models.Digest
	err       error
}

func (s *stubService) Build(context.Context) models.Digest {
	s.built++
	return models.Digest{Title: "Pre-market: Nasdaq +1.00%"}
}

func (s *stubService) Deliver(_ context.Context, d models.Digest) error {
	s.delivered = append(s.delivered, d)
	return s.err
}

func TestDigestJobBuildsAndDelivers(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := &stubService{err: errors.New("relay down")}

	j := &digestJob{svc: svc, log: log}
	j.Run(context.Background())
	j.Run(context.Background())

	require.Equal(t, 2, svc.built)
	require.Len(t, svc.delivered, 2)
	require.Equal(t, "Pre-market: Nasdaq +1.00%", svc.delivered[0].Title)
}
