package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Janitor purges ended windows from the limiter's store on a cron schedule.
type Janitor struct {
	limiter  *Limiter
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewJanitor creates a janitor. An empty schedule disables it.
func NewJanitor(limiter *Limiter, schedule string) *Janitor {
	return &Janitor{
		limiter:  limiter,
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "ratelimit.janitor"),
	}
}

// Start schedules cleanup runs until ctx is cancelled or Stop is called.
// Standard five-field expressions and descriptors such as "@every 5m" are
// accepted.
func (j *Janitor) Start(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.schedule == "" {
		j.logger.Info("cleanup schedule not configured, skipping janitor")
		return nil
	}

	if _, err := cron.ParseStandard(j.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", j.schedule, err)
	}

	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule cleanup: %w", err)
	}

	j.cron.Start()
	j.running = true
	j.logger.Info("rate limit janitor started", "schedule", j.schedule)

	go func() {
		<-ctx.Done()
		j.Stop()
	}()

	return nil
}

// RunOnce performs a single cleanup pass.
func (j *Janitor) RunOnce(ctx context.Context) {
	deleted, err := j.limiter.Cleanup(ctx)
	if err != nil {
		j.logger.Error("rate limit cleanup failed", "error", err)
		return
	}
	if deleted > 0 {
		j.logger.Debug("rate limit cleanup completed", "deleted_count", deleted)
	}
}

// Stop stops the schedule and waits for a running cleanup to finish.
func (j *Janitor) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.running {
		<-j.cron.Stop().Done()
		j.running = false
		j.logger.Info("rate limit janitor stopped")
	}
}

// IsRunning returns true if the janitor is scheduled.
func (j *Janitor) IsRunning() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}
