package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/nba-trixie/internal/domain/injury"
	"github.com/riskibarqy/nba-trixie/internal/domain/kvstore"
	"github.com/riskibarqy/nba-trixie/internal/domain/team"
	"github.com/riskibarqy/nba-trixie/internal/platform/logging"
)

type InjuryServiceConfig struct {
	TTL time.Duration
	Now func() time.Time
}

type InjuryService struct {
	feed    InjuryFeed
	store   kvstore.Store
	metrics MetricsRecorder
	logger  *logging.Logger
	ttl     time.Duration
	now     func() time.Time
}

// RefreshSummary reports how a refresh went team by team.
type RefreshSummary struct {
	Report    injury.Report `json:"report"`
	Refreshed []string      `json:"refreshed"`
	Failed    []string      `json:"failed"`
}

func NewInjuryService(feed InjuryFeed, store kvstore.Store, metrics MetricsRecorder, logger *logging.Logger, cfg InjuryServiceConfig) *InjuryService {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = injury.DefaultTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &InjuryService{
		feed:    feed,
		store:   store,
		metrics: metrics,
		logger:  logger,
		ttl:     cfg.TTL,
		now:     cfg.Now,
	}
}

// Refresh fetches rosters one team at a time and persists the merged report.
// A failed team keeps its previously stored records. Only a refresh where
// every team failed is an error.
func (s *InjuryService) Refresh(ctx context.Context, teams []string) (RefreshSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InjuryService.Refresh", attrTeamCount.Int(len(teams)))
	defer span.End()

	if s.feed == nil {
		return RefreshSummary{}, fmt.Errorf("%w: injury feed is not configured", ErrDependencyUnavailable)
	}
	codes, err := normalizeTeamCodes(teams)
	if err != nil {
		return RefreshSummary{}, err
	}

	report, err := s.read(ctx)
	if err != nil {
		spanError(span, err)
		return RefreshSummary{}, err
	}

	start := s.now()
	var summary RefreshSummary
	for _, code := range codes {
		if err := ctx.Err(); err != nil {
			return RefreshSummary{}, err
		}

		athletes, err := s.feed.FetchTeamRoster(ctx, code)
		if err != nil {
			s.logger.WarnContext(ctx, "injury roster fetch failed, skipping team", "team", code, "error", err)
			s.metrics.InjuryFetchFailed(code)
			summary.Failed = append(summary.Failed, code)
			continue
		}
		report.Set(code, recordsFromAthletes(athletes))
		summary.Refreshed = append(summary.Refreshed, code)
	}
	s.metrics.ObservePipeline("injury_refresh", s.now().Sub(start))

	if len(summary.Refreshed) == 0 {
		return summary, fmt.Errorf("%w: injury feed failed for all %d teams", ErrDependencyUnavailable, len(codes))
	}

	report.FetchedAt = s.now().UTC()
	if err := kvstore.PutJSON(ctx, s.store, kvstore.KeyInjuries, report); err != nil {
		return summary, fmt.Errorf("persist injury report: %w", err)
	}

	s.logger.InfoContext(ctx, "injury report refreshed",
		"teams", len(summary.Refreshed),
		"failed", len(summary.Failed),
		"blocked", report.BlockedCount(),
	)
	summary.Report = report
	return summary, nil
}

// Load returns the stored report, or an empty one when nothing is stored or
// the store cannot be read.
func (s *InjuryService) Load(ctx context.Context) injury.Report {
	report, err := s.read(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "load injury report failed, using empty report", "error", err)
		return injury.NewReport()
	}
	return report
}

// read separates a store failure from a missing or undecodable report, which
// both read as empty.
func (s *InjuryService) read(ctx context.Context) (injury.Report, error) {
	raw, ok, err := s.store.Get(ctx, kvstore.KeyInjuries)
	if err != nil {
		return injury.Report{}, fmt.Errorf("%w: load injury report: %v", ErrDependencyUnavailable, err)
	}
	report := injury.NewReport()
	if !ok || len(raw) == 0 {
		return report, nil
	}
	if err := sonic.Unmarshal(raw, &report); err != nil || report.Teams == nil {
		if err != nil {
			s.logger.WarnContext(ctx, "injury report undecodable, starting empty", "error", err)
		}
		return injury.NewReport(), nil
	}
	return report, nil
}

// Stale is advisory; callers decide whether to refresh.
func (s *InjuryService) Stale(report injury.Report) bool {
	return report.Stale(s.ttl, s.now())
}

func recordsFromAthletes(athletes []ExternalAthlete) []injury.Record {
	records := make([]injury.Record, 0)
	for _, a := range athletes {
		name := strings.TrimSpace(a.Name)
		if name == "" || !injury.ShouldRecord(a.Status, len(a.Injuries)) {
			continue
		}

		status, details, date := a.Status, "", ""
		if len(a.Injuries) > 0 {
			first := a.Injuries[0]
			if strings.TrimSpace(first.Status) != "" {
				status = first.Status
			}
			details, date = first.Details, first.Date
		}
		records = append(records, injury.NewRecord(name, status, details, date))
	}
	return records
}

func normalizeTeamCodes(teams []string) ([]string, error) {
	if len(teams) == 0 {
		return team.All(), nil
	}

	seen := make(map[string]struct{}, len(teams))
	out := make([]string, 0, len(teams))
	for _, raw := range teams {
		code := team.Normalize(raw)
		if !team.Known(code) {
			return nil, fmt.Errorf("%w: unknown team %q", ErrInvalidInput, raw)
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out, nil
}
