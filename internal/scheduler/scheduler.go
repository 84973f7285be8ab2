package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/KesienaSelahor/Forex-Prediction-App/internal/models"
)

type Refresher interface {
	Refresh(ctx context.Context) (models.Snapshot, error)
}

type Scheduler struct {
	target   Refresher
	interval time.Duration
	timeout  time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	started  atomic.Bool
	done     chan struct{}
}

// timeout bounds each refresh; zero leaves it to the parent context.
func NewScheduler(target Refresher, interval, timeout time.Duration) *Scheduler {
	return &Scheduler{
		target:   target,
		interval: interval,
		timeout:  timeout,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Begins the polling loop in a background goroutine. The loop exits when ctx
// is cancelled or Stop is called. A non-positive interval disables the loop
// and snapshots are then built on demand.
func (s *Scheduler) Start(ctx context.Context) {
	if s.interval <= 0 {
		log.Info().Msg("scheduler disabled")
		return
	}

	// Run once immediately so the cache isn't empty on first request
	s.refresh(ctx)
	s.started.Store(true)

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.refresh(ctx)
			case <-ctx.Done():
				log.Info().Msg("scheduler stopped")
				return
			case <-s.stopCh:
				log.Info().Msg("scheduler stopped")
				return
			}
		}
	}()

	log.Info().Stringer("interval", s.interval).Msg("scheduler started")
}

// Signals the background goroutine to exit and waits for it. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	if s.started.Load() {
		<-s.done
	}
}

func (s *Scheduler) refresh(ctx context.Context) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	snap, err := s.target.Refresh(ctx)
	if err != nil {
		log.Error().Err(err).Msg("scheduled refresh failed")
		return
	}
	log.Debug().Bool("live", snap.Strength.Live).Msg("cache refreshed")
}
