package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/KesienaSelahor/Forex-Prediction-App/internal/models"
)

type countingRefresher struct {
	calls int32
	err   error
}

func (c *countingRefresher) Refresh(ctx context.Context) (models.Snapshot, error) {
	atomic.AddInt32(&c.calls, 1)
	return models.Snapshot{}, c.err
}

func TestStartRefreshesImmediately(t *testing.T) {
	r := &countingRefresher{}
	s := NewScheduler(r, time.Hour, 0)

	s.Start(context.Background())
	defer s.Stop()

	assert.Equal(t, int32(1), atomic.LoadInt32(&r.calls))
}

func TestTickerKeepsRefreshing(t *testing.T) {
	r := &countingRefresher{err: errors.New("upstream down")}
	s := NewScheduler(r, 5*time.Millisecond, time.Second)

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&r.calls) >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()
	s.Stop()
}

func TestContextCancelStopsLoop(t *testing.T) {
	r := &countingRefresher{}
	s := NewScheduler(r, 5*time.Millisecond, 0)

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()

	select {
	case <-s.done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not exit after cancel")
	}

	calls := atomic.LoadInt32(&r.calls)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, calls, atomic.LoadInt32(&r.calls))
}

func TestStopWithoutStart(t *testing.T) {
	s := NewScheduler(&countingRefresher{}, time.Second, 0)
	s.Stop()
}

func TestNonPositiveIntervalDisablesLoop(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		r := &countingRefresher{}
		s := NewScheduler(r, interval, 0)

		s.Start(context.Background())
		time.Sleep(10 * time.Millisecond)
		s.Stop()

		assert.Zero(t, atomic.LoadInt32(&r.calls))
		assert.False(t, s.started.Load())
	}
}
