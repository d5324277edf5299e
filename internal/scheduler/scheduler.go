// Package scheduler closes the open round on a fixed period.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	repo "github.com/main0crine/wheel-backend/internal/repository"
)

// Closer resolves the current round with a drawn result.
type Closer interface {
	Close(ctx context.Context, result string) (int64, error)
}

// Drawer produces one weighted multiplier label per call.
type Drawer interface {
	Draw() string
}

// Scheduler runs one perpetual loop: every period it draws a result and
// closes the open round. The next bet or read re-opens a fresh round
// through the store.
type Scheduler struct {
	closer Closer
	wheel  Drawer
	period time.Duration
	log    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(closer Closer, wheel Drawer, period time.Duration, log *slog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		closer: closer,
		wheel:  wheel,
		period: period,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.loop()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return

		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Scheduler) tick() {
	result := s.wheel.Draw()
	id, err := s.closer.Close(s.ctx, result)
	switch {
	case errors.Is(err, repo.ErrNoOpenRound):
		// fresh start, nothing to close
	case err != nil:
		// keep ticking; the store owns durability, we own cadence
		s.log.Error("close round", "err", err)
	default:
		s.log.Info("round closed", "round_id", id, "result", result)
	}
}
