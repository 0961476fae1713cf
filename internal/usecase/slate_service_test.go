package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/nba-trixie/internal/domain/game"
	"github.com/riskibarqy/nba-trixie/internal/domain/market"
	usecasemock "github.com/riskibarqy/nba-trixie/internal/mocks/usecase"
	"github.com/riskibarqy/nba-trixie/internal/platform/logging"
	"github.com/riskibarqy/nba-trixie/internal/usecase"
	"github.com/stretchr/testify/mock"
)

func TestSlateService_BuildGamesMergesOdds(t *testing.T) {
	t.Parallel()

	odds := usecasemock.NewOddsFeed(t)
	odds.On("FetchGames", mock.Anything, "2025-11-15").
		Return([]usecase.ExternalGameLine{
			{EventID: "evt-1", Home: "Boston Celtics", Away: "New York Knicks", Spread: -13.5, Total: 224.5},
		}, nil).
		Once()

	total := 231.0
	service := usecase.NewSlateService(odds, logging.NewNop())
	games, err := service.BuildGames(context.Background(), "2025-11-15", []usecase.ScheduledGame{
		{GameID: "0022400123", Home: "BOS", Away: "ny"},
		{Home: "DEN", Away: "LAL", Total: &total, AwayBackToBack: true},
	})
	if err != nil {
		t.Fatalf("build games: %v", err)
	}

	if games[0].GameID != "0022400123" || games[0].Spread != -13.5 || games[0].BlowoutRisk != game.BlowoutHigh {
		t.Fatalf("expected odds merged into first game, got %+v", games[0])
	}
	if games[1].GameID != "LAL@DEN" || games[1].Total != 231 || !games[1].AwayBackToBack {
		t.Fatalf("expected synthetic id and schedule values, got %+v", games[1])
	}
}

func TestSlateService_BuildGamesOddsFailureFallsBack(t *testing.T) {
	t.Parallel()

	odds := usecasemock.NewOddsFeed(t)
	odds.On("FetchGames", mock.Anything, "2025-11-15").Return(nil, errors.New("status=429")).Once()

	spread := -4.0
	service := usecase.NewSlateService(odds, logging.NewNop())
	games, err := service.BuildGames(context.Background(), "2025-11-15", []usecase.ScheduledGame{
		{GameID: "0022400124", Home: "DEN", Away: "LAL", Spread: &spread},
	})
	if err != nil {
		t.Fatalf("build games: %v", err)
	}
	if games[0].Spread != -4 || games[0].BlowoutRisk != game.BlowoutLow {
		t.Fatalf("unexpected game %+v", games[0])
	}
}

func TestSlateService_BuildGamesValidation(t *testing.T) {
	t.Parallel()

	service := usecase.NewSlateService(nil, logging.NewNop())
	cases := []struct {
		name     string
		date     string
		schedule []usecase.ScheduledGame
	}{
		{name: "bad date", date: "Nov 15", schedule: []usecase.ScheduledGame{{Home: "BOS", Away: "NYK"}}},
		{name: "empty", date: "2025-11-15"},
		{name: "unknown team", date: "2025-11-15", schedule: []usecase.ScheduledGame{{Home: "BOS", Away: "XXX"}}},
		{name: "self", date: "2025-11-15", schedule: []usecase.ScheduledGame{{Home: "BOS", Away: "celtics"}}},
		{name: "duplicate", date: "2025-11-15", schedule: []usecase.ScheduledGame{{Home: "BOS", Away: "NYK"}, {Home: "BOS", Away: "NYK"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := service.BuildGames(context.Background(), tc.date, tc.schedule); !errors.Is(err, usecase.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestSlateService_Props(t *testing.T) {
	t.Parallel()

	odds := usecasemock.NewOddsFeed(t)
	odds.On("FetchPlayerProps", mock.Anything, "evt-1").
		Return([]usecase.ExternalProp{{EventID: "evt-1", Player: "Jalen Brunson", Market: market.PTS, Line: 26.5, Odds: 1.87}}, nil).
		Once()
	odds.On("FetchPlayerProps", mock.Anything, "evt-2").Return(nil, errors.New("status=500")).Once()

	service := usecase.NewSlateService(odds, logging.NewNop())
	props, err := service.Props(context.Background(), "evt-1")
	if err != nil || len(props) != 1 {
		t.Fatalf("expected one prop, got %d err=%v", len(props), err)
	}
	props, err = service.Props(context.Background(), "evt-2")
	if err != nil || len(props) != 0 {
		t.Fatalf("expected empty props on feed failure, got %d err=%v", len(props), err)
	}

	if _, err := usecase.NewSlateService(nil, logging.NewNop()).Props(context.Background(), "evt-1"); !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
