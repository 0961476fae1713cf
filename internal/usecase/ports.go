package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/nba-trixie/internal/domain/market"
)

// InjuryFeed reads one team's roster with availability fields.
type InjuryFeed interface {
	FetchTeamRoster(ctx context.Context, teamCode string) ([]ExternalAthlete, error)
}

// BoxScoreFeed returns the raw per-game summary payload.
type BoxScoreFeed interface {
	FetchGameSummary(ctx context.Context, gameID string) ([]byte, error)
}

// OddsFeed is optional; a nil feed leaves spreads and totals as scheduled.
type OddsFeed interface {
	FetchGames(ctx context.Context, date string) ([]ExternalGameLine, error)
	FetchPlayerProps(ctx context.Context, eventID string) ([]ExternalProp, error)
}

type ExternalAthlete struct {
	Name     string
	Status   string
	Injuries []ExternalInjury
}

type ExternalInjury struct {
	Status  string
	Details string
	Date    string
}

// ExternalGameLine carries the spread from the home team's perspective.
type ExternalGameLine struct {
	EventID   string    `json:"event_id"`
	Home      string    `json:"home"`
	Away      string    `json:"away"`
	Spread    float64   `json:"spread"`
	Total     float64   `json:"total"`
	StartTime time.Time `json:"start_time"`
}

type ExternalProp struct {
	EventID string        `json:"event_id"`
	Player  string        `json:"player"`
	Market  market.Market `json:"market"`
	Line    float64       `json:"line"`
	Odds    float64       `json:"odds"`
}
