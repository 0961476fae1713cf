package app

import (
	"context"
	"time"

	"github.com/riskibarqy/nba-trixie/internal/platform/logging"
	"github.com/riskibarqy/nba-trixie/internal/usecase"
	"github.com/robfig/cron/v3"
)

const jobTimeout = 20 * time.Minute

type injuryRefresher interface {
	Refresh(ctx context.Context, teams []string) (usecase.RefreshSummary, error)
}

type pendingValidator interface {
	ValidatePending(ctx context.Context) (usecase.ValidationSummary, error)
}

// Scheduler runs the periodic injury refresh and pending-ticket validation.
// Jobs skip a tick while a previous run of the same job is still going.
type Scheduler struct {
	cron     *cron.Cron
	injuries injuryRefresher
	audit    pendingValidator
	logger   *logging.Logger
}

func NewScheduler(injuries injuryRefresher, audit pendingValidator, logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Scheduler{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		injuries: injuries,
		audit:    audit,
		logger:   logger.Named("scheduler"),
	}
}

// Register adds both jobs. An empty spec leaves that job out.
func (s *Scheduler) Register(injurySpec, auditSpec string) error {
	if injurySpec != "" {
		if _, err := s.cron.AddFunc(injurySpec, s.RefreshInjuries); err != nil {
			return err
		}
	}
	if auditSpec != "" {
		if _, err := s.cron.AddFunc(auditSpec, s.ValidatePending); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out with jobs still running")
	}
}

func (s *Scheduler) RefreshInjuries() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	summary, err := s.injuries.Refresh(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "scheduled injury refresh failed", "failed", len(summary.Failed), "error", err)
		return
	}
	s.logger.InfoContext(ctx, "scheduled injury refresh done", "refreshed", len(summary.Refreshed), "failed", len(summary.Failed))
}

func (s *Scheduler) ValidatePending() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	summary, err := s.audit.ValidatePending(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "scheduled ticket validation failed", "checked", summary.Checked, "error", err)
		return
	}
	s.logger.InfoContext(ctx, "scheduled ticket validation done",
		"checked", summary.Checked,
		"resolved", summary.Resolved,
		"pending", summary.Pending,
	)
}
