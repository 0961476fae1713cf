package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/nba-trixie/internal/domain/game"
	"github.com/riskibarqy/nba-trixie/internal/domain/team"
	"github.com/riskibarqy/nba-trixie/internal/platform/logging"
)

const dateLayout = "2006-01-02"

// ScheduledGame is one game as supplied by the caller. Spread and Total are
// optional; missing values are taken from the odds feed when one is set.
type ScheduledGame struct {
	GameID         string    `json:"game_id"`
	Home           string    `json:"home" validate:"required"`
	Away           string    `json:"away" validate:"required"`
	Spread         *float64  `json:"spread,omitempty"`
	Total          *float64  `json:"total,omitempty"`
	StartTime      time.Time `json:"start_time"`
	HomeBackToBack bool      `json:"home_back_to_back"`
	AwayBackToBack bool      `json:"away_back_to_back"`
}

type SlateService struct {
	odds   OddsFeed
	logger *logging.Logger
}

func NewSlateService(odds OddsFeed, logger *logging.Logger) *SlateService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SlateService{odds: odds, logger: logger}
}

// BuildGames turns the schedule into game contexts. Numeric upstream ids are
// kept; anything else gets the synthetic "away@home" id.
func (s *SlateService) BuildGames(ctx context.Context, date string, schedule []ScheduledGame) ([]game.Context, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SlateService.BuildGames",
		attrSlateDate.String(date),
		attrGameCount.Int(len(schedule)),
	)
	defer span.End()

	if _, err := time.Parse(dateLayout, strings.TrimSpace(date)); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if len(schedule) == 0 {
		return nil, fmt.Errorf("%w: at least one game is required", ErrInvalidInput)
	}

	lines := s.gameLines(ctx, date)

	seen := make(map[string]struct{}, len(schedule))
	out := make([]game.Context, 0, len(schedule))
	for _, item := range schedule {
		home, away := team.Normalize(item.Home), team.Normalize(item.Away)
		if !team.Known(home) || !team.Known(away) {
			return nil, fmt.Errorf("%w: unknown team in %s @ %s", ErrInvalidInput, item.Away, item.Home)
		}
		if home == away {
			return nil, fmt.Errorf("%w: %s cannot play itself", ErrInvalidInput, home)
		}

		var spread, total float64
		start := item.StartTime
		if line, ok := lines[home+"|"+away]; ok {
			spread, total = line.Spread, line.Total
			if start.IsZero() {
				start = line.StartTime
			}
		}
		if item.Spread != nil {
			spread = *item.Spread
		}
		if item.Total != nil {
			total = *item.Total
		}

		g := game.New(item.GameID, home, away, spread, total, start)
		g.HomeBackToBack = item.HomeBackToBack
		g.AwayBackToBack = item.AwayBackToBack
		if _, dup := seen[g.GameID]; dup {
			return nil, fmt.Errorf("%w: duplicate game %s", ErrInvalidInput, g.GameID)
		}
		seen[g.GameID] = struct{}{}
		out = append(out, g)
	}
	return out, nil
}

// Props lists offered player props for an odds-feed event. Feed failures
// degrade to an empty list.
func (s *SlateService) Props(ctx context.Context, eventID string) ([]ExternalProp, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SlateService.Props", attrEventID.String(eventID))
	defer span.End()

	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}
	if s.odds == nil {
		return nil, fmt.Errorf("%w: odds feed is not configured", ErrDependencyUnavailable)
	}

	props, err := s.odds.FetchPlayerProps(ctx, eventID)
	if err != nil {
		s.logger.WarnContext(ctx, "player props fetch failed", "event_id", eventID, "error", err)
		return []ExternalProp{}, nil
	}
	return props, nil
}

func (s *SlateService) gameLines(ctx context.Context, date string) map[string]ExternalGameLine {
	out := make(map[string]ExternalGameLine)
	if s.odds == nil {
		return out
	}

	lines, err := s.odds.FetchGames(ctx, date)
	if err != nil {
		s.logger.WarnContext(ctx, "odds games fetch failed, using schedule values", "date", date, "error", err)
		return out
	}
	for _, line := range lines {
		out[team.Normalize(line.Home)+"|"+team.Normalize(line.Away)] = line
	}
	return out
}
