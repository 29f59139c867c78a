package scheduler

import (
	"context"
	"time"

	"MetricsGuard/internal/ports"
)

// DailyScheduler runs the validation job once immediately and then on a fixed
// interval. It stands in for a cron runner in daemon mode.
type DailyScheduler struct {
	interval time.Duration
	stop     chan struct{}
}

var _ ports.Scheduler = (*DailyScheduler)(nil)

// NewDailyScheduler builds a scheduler with the given run interval. A zero or
// negative interval defaults to 24 hours.
func NewDailyScheduler(interval time.Duration) *DailyScheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &DailyScheduler{interval: interval}
}

// Start runs the job now and re-runs it on every tick until Stop or context
// cancellation.
func (s *DailyScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	if s.stop != nil {
		return nil
	}

	s.stop = make(chan struct{})
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		job(time.Now())
		for {
			select {
			case t := <-ticker.C:
				job(t)
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the ticker goroutine.
func (s *DailyScheduler) Stop(ctx context.Context) error {
	if s.stop == nil {
		return nil
	}
	close(s.stop)
	s.stop = nil
	return nil
}
