package scheduler

import (
	"context"
	"sync"
	"time"

	"Domain_Monitor/internal/logger"
	"Domain_Monitor/internal/models"
	"Domain_Monitor/internal/monitor"
)

// Scheduler runs the check cycle on a fixed interval. Cycles are never
// allowed to overlap: overlapping cycles race on snapshot commits, so a
// tick that arrives while a cycle is still running is skipped.
type Scheduler struct {
	monitor  monitor.Service
	logger   logger.Service
	interval time.Duration
	running  sync.Mutex
}

// New creates a new cycle scheduler
func New(monitor monitor.Service, logger logger.Service, interval time.Duration) *Scheduler {
	return &Scheduler{
		monitor:  monitor,
		logger:   logger,
		interval: interval,
	}
}

// Run ticks until the context is cancelled. The first cycle runs one full
// interval after start, matching the periodic contract.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.LogInfo(ctx, logger.OpCheckCycle, "Scheduler started", map[string]interface{}{
		"interval_minutes": s.interval.Minutes(),
	})

	for {
		select {
		case <-ctx.Done():
			s.logger.LogInfo(ctx, logger.OpCheckCycle, "Scheduler stopped", nil)
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// runOnce executes a single cycle if none is in flight
func (s *Scheduler) runOnce(ctx context.Context) {
	if !s.running.TryLock() {
		s.logger.LogError(ctx, logger.OpCheckCycle, "", "Skipping tick, previous cycle still running", models.ErrCycleInProgress, models.LogSeverityMedium, nil)
		return
	}
	defer s.running.Unlock()

	cycleCtx := logger.WithLogEvent(ctx, logger.NewInternalLogEvent())

	// CheckForChanges reports its own failures; a returned error only means
	// this tick produced no report
	_, _ = s.monitor.CheckForChanges(cycleCtx)
}
