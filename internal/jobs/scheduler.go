package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultAuditSchedule runs the ledger audit every hour, on the hour.
const DefaultAuditSchedule = "0 * * * *"

// Scheduler runs the ledger audit on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	auditor *LedgerAuditor
	timeout time.Duration
	logger  *slog.Logger
}

// NewScheduler registers the audit under the standard five-field cron spec.
func NewScheduler(auditor *LedgerAuditor, spec string, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		auditor: auditor,
		timeout: 10 * time.Minute,
		logger:  logger.With("component", "scheduler"),
	}
	if _, err := s.cron.AddFunc(spec, s.runAudit); err != nil {
		return nil, fmt.Errorf("failed to schedule ledger audit %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) runAudit() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.auditor.Run(ctx); err != nil {
		s.logger.Error("Ledger audit failed", "error", err)
	}
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop stops scheduling and waits for a running audit to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
	}
}
