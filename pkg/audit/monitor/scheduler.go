package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"privacyops/vantage/pkg/audit"
	"privacyops/vantage/pkg/telemetry/metrics"
)

// Scheduler runs chain verification at scheduled intervals.
type Scheduler struct {
	chain     *audit.Chain
	schedule  string
	collector *metrics.Collector
	cron      *cron.Cron
	logger    *slog.Logger

	mu      sync.Mutex
	running bool
	last    *audit.Verdict
}

// NewScheduler creates a verification scheduler. The collector is
// optional; without one the scheduler only logs.
func NewScheduler(chain *audit.Chain, schedule string, collector *metrics.Collector, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		chain:     chain,
		schedule:  schedule,
		collector: collector,
		cron:      cron.New(),
		logger:    logger.With("component", "audit.monitor"),
	}
}

// Start begins scheduled verification and runs one verification
// immediately so the metrics have a value before the first tick. The
// scheduler stops when the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("monitor already running")
	}
	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	if _, err := s.cron.AddFunc(s.schedule, func() {
		s.runVerification(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule verification: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("Audit monitor started", "schedule", s.schedule)

	go s.runVerification(ctx)
	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// runVerification executes one verification cycle.
func (s *Scheduler) runVerification(ctx context.Context) {
	start := time.Now()
	verdict, err := s.chain.Verify(ctx)
	if err != nil {
		s.logger.Error("Scheduled verification failed", "error", err)
		return
	}
	elapsed := time.Since(start)

	s.mu.Lock()
	s.last = verdict
	s.mu.Unlock()

	if s.collector != nil {
		s.collector.RecordVerification(verdict.Valid, verdict.Checked, elapsed)
	}

	if verdict.Valid {
		s.logger.Debug("Scheduled verification passed",
			"checked", verdict.Checked,
			"duration_ms", elapsed.Milliseconds())
	} else {
		s.logger.Error("Audit chain broken",
			"broken_at", verdict.BrokenAt,
			"reason", verdict.Reason,
			"detail", verdict.Detail)
	}
}

// LastVerdict returns the most recent verification result, or nil
// before the first run completes.
func (s *Scheduler) LastVerdict() *audit.Verdict {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("Audit monitor stopped")
}
