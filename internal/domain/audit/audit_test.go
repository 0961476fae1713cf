package audit

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/nba-trixie/internal/domain/market"
	"github.com/riskibarqy/nba-trixie/internal/domain/prop"
)

var fixedNow = time.Date(2025, 11, 16, 8, 0, 0, 0, time.UTC)

func summary(completed bool, athletes string) []byte {
	return []byte(fmt.Sprintf(`{
		"header": {"competitions": [{"status": {"type": {"completed": %t, "state": "post"}}}]},
		"boxscore": {"players": [{
			"team": {"abbreviation": "BOS"},
			"statistics": [{
				"labels": ["MIN", "FG", "3PT", "FT", "REB", "AST", "TO", "STL", "BLK", "PTS"],
				"athletes": [%s]
			}]
		}]}
	}`, completed, athletes))
}

const doeLine = `{"athlete": {"displayName": "J. Doe"}, "stats": ["34", "8-15", "3-7", "3-4", "6", "5", "2", "1", "0", "22"]}`

func singleLegTicket(gameID string, m market.Market, line float64) Ticket {
	return Ticket{
		ID:     "t1",
		Status: StatusPending,
		Legs: []LegResult{
			{Player: "J. Doe", Team: "BOS", GameID: gameID, Market: m, Line: line, Status: StatusPending},
		},
	}
}

func staticFetch(payload []byte, calls *int) FetchFunc {
	return func(ctx context.Context, gameID string) ([]byte, error) {
		*calls++
		return payload, nil
	}
}

func TestValidate_CompletedGameResolvesWin(t *testing.T) {
	t.Parallel()

	calls := 0
	v := NewValidator(staticFetch(summary(true, doeLine), &calls), func() time.Time { return fixedNow })

	got, err := v.Validate(context.Background(), singleLegTicket("401585001", market.PTS, 20))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got.Legs[0].Status != StatusWin || got.Status != StatusWin {
		t.Fatalf("expected WIN, got leg=%s ticket=%s", got.Legs[0].Status, got.Status)
	}
	if got.Legs[0].Actual == nil || *got.Legs[0].Actual != 22 {
		t.Fatalf("expected actual 22, got %v", got.Legs[0].Actual)
	}
	if got.ValidatedAt == nil || !got.ValidatedAt.Equal(fixedNow) {
		t.Fatalf("expected validated_at to be stamped")
	}
}

func TestValidate_IncompleteGameStaysPending(t *testing.T) {
	t.Parallel()

	calls := 0
	v := NewValidator(staticFetch(summary(false, doeLine), &calls), nil)

	got, err := v.Validate(context.Background(), singleLegTicket("401585001", market.PTS, 20))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got.Legs[0].Status != StatusPending || got.Status != StatusPending {
		t.Fatalf("incomplete game must stay PENDING, got leg=%s ticket=%s", got.Legs[0].Status, got.Status)
	}
}

func TestResolveLeg_Cases(t *testing.T) {
	t.Parallel()

	completed, err := ParseBoxScore("401585001", summary(true, doeLine))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	tests := []struct {
		name       string
		leg        LegResult
		wantStatus Status
		wantActual float64
	}{
		{name: "threes made from made-attempted", leg: LegResult{Player: "J. Doe", Market: market.ThreePM, Line: 2.5, Status: StatusPending}, wantStatus: StatusWin, wantActual: 3},
		{name: "combo sums components", leg: LegResult{Player: "J Doe", Market: market.PTSAST, Line: 28, Status: StatusPending}, wantStatus: StatusLoss, wantActual: 27},
		{name: "pra", leg: LegResult{Player: "J. Doe", Market: market.PRA, Line: 33, Status: StatusPending}, wantStatus: StatusWin, wantActual: 33},
		{name: "missing player in final game", leg: LegResult{Player: "Someone Else", Market: market.PTS, Line: 10, Status: StatusPending}, wantStatus: StatusLoss, wantActual: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ResolveLeg(tt.leg, completed)
			if got.Status != tt.wantStatus {
				t.Fatalf("status got=%s want=%s", got.Status, tt.wantStatus)
			}
			if got.Actual == nil || *got.Actual != tt.wantActual {
				t.Fatalf("actual got=%v want=%v", got.Actual, tt.wantActual)
			}
		})
	}
}

func TestResolveLeg_MissingLabelStaysPending(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"header": {"competitions": [{"status": {"type": {"completed": true}}}]},
		"boxscore": {"players": [{"team": {"abbreviation": "BOS"}, "statistics": [{
			"labels": ["MIN", "PTS"],
			"athletes": [{"athlete": {"displayName": "J. Doe"}, "stats": ["30", "18"]}]
		}]}]}
	}`)
	box, err := ParseBoxScore("401585001", raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	got := ResolveLeg(LegResult{Player: "J. Doe", Market: market.REB, Line: 5, Status: StatusPending}, box)
	if got.Status != StatusPending || got.Actual != nil {
		t.Fatalf("schema drift must keep the leg pending, got %+v", got)
	}
}

func TestValidate_SyntheticGameAndFetchCache(t *testing.T) {
	t.Parallel()

	calls := 0
	v := NewValidator(staticFetch(summary(false, doeLine), &calls), nil)

	ticket := Ticket{ID: "t2", Status: StatusPending, Legs: []LegResult{
		{Player: "J. Doe", GameID: "401585001", Market: market.PTS, Line: 20, Status: StatusPending},
		{Player: "J. Doe", GameID: "401585001", Market: market.AST, Line: 4, Status: StatusPending},
		{Player: "Other", GameID: "NYK@BOS", Market: market.PTS, Line: 10, Status: StatusPending},
	}}

	if _, err := v.Validate(context.Background(), ticket); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if _, err := v.Validate(context.Background(), ticket); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single fetch for one real game, got %d", calls)
	}
}

func TestValidate_FetchFailureKeepsPending(t *testing.T) {
	t.Parallel()

	boom := errors.New("upstream 503")
	v := NewValidator(func(ctx context.Context, gameID string) ([]byte, error) {
		return nil, boom
	}, nil)

	got, err := v.Validate(context.Background(), singleLegTicket("401585001", market.PTS, 20))
	if !errors.Is(err, boom) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if got.Status != StatusPending || got.Legs[0].Status != StatusPending {
		t.Fatalf("fetch failure must not resolve the ticket: %+v", got)
	}
}

func TestDeriveStatus(t *testing.T) {
	t.Parallel()

	leg := func(s Status) LegResult { return LegResult{Status: s} }
	tests := []struct {
		legs []LegResult
		want Status
	}{
		{legs: []LegResult{leg(StatusWin), leg(StatusWin)}, want: StatusWin},
		{legs: []LegResult{leg(StatusWin), leg(StatusLoss), leg(StatusPending)}, want: StatusLoss},
		{legs: []LegResult{leg(StatusWin), leg(StatusPending)}, want: StatusPending},
		{legs: nil, want: StatusPending},
	}
	for _, tt := range tests {
		if got := DeriveStatus(tt.legs); got != tt.want {
			t.Fatalf("DeriveStatus=%s want=%s", got, tt.want)
		}
	}
}

func TestTicket_TransitionMonotone(t *testing.T) {
	t.Parallel()

	for _, to := range []Status{StatusWin, StatusLoss, StatusVoid} {
		ticket := Ticket{Status: StatusPending}
		if err := ticket.Transition(to, fixedNow); err != nil {
			t.Fatalf("PENDING->%s must be allowed: %v", to, err)
		}
	}

	won := Ticket{Status: StatusWin}
	if err := won.Transition(StatusPending, fixedNow); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("WIN->PENDING must be rejected, got %v", err)
	}
	lost := Ticket{Status: StatusLoss}
	if err := lost.Transition(StatusWin, fixedNow); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("LOSS->WIN must be rejected, got %v", err)
	}
}

func TestLog_InsertDedupAndCap(t *testing.T) {
	t.Parallel()

	log := NewLog(nil, 3)
	for i := 0; i < 5; i++ {
		if !log.Insert(Ticket{ID: fmt.Sprintf("t%d", i), Status: StatusPending}) {
			t.Fatalf("expected insert of t%d", i)
		}
	}
	if len(log.Tickets) != 3 || log.Tickets[0].ID != "t4" {
		t.Fatalf("expected newest-first capped log, got %+v", log.Tickets)
	}
	if log.Insert(Ticket{ID: "t4"}) {
		t.Fatalf("duplicate insert must return false")
	}
	if got := len(NewLog(make([]Ticket, 600), 0).Tickets); got != DefaultCapacity {
		t.Fatalf("expected default cap %d, got %d", DefaultCapacity, got)
	}
}

func TestNewTicket_IDMatchesTrixie(t *testing.T) {
	t.Parallel()

	legs := []prop.Leg{
		{Player: "A", Team: "BOS", GameID: "1", GameInfo: "NYK @ BOS", Market: market.PTS, Line: 20, Odds: 1.8, Tier: prop.TierMid},
		{Player: "B", Team: "NYK", GameID: "1", GameInfo: "NYK @ BOS", Market: market.REB, Line: 8, Odds: 1.5, Tier: prop.TierFloor},
		{Player: "C", Team: "LAL", GameID: "2", GameInfo: "LAL @ DEN", Market: market.AST, Line: 6, Odds: 2.2, Tier: prop.TierCeiling},
	}
	trixie, err := prop.NewTrixie(prop.Balanced, "balanced_mix", legs)
	if err != nil {
		t.Fatalf("new trixie: %v", err)
	}

	ticket, err := NewTicket(trixie, "test", fixedNow)
	if err != nil {
		t.Fatalf("new ticket: %v", err)
	}
	if ticket.ID != trixie.ID || ticket.Status != StatusPending || len(ticket.Legs) != 3 {
		t.Fatalf("unexpected ticket: %+v", ticket)
	}
	if ticket.TotalOdd != trixie.TotalOdd {
		t.Fatalf("total odd mismatch: %v vs %v", ticket.TotalOdd, trixie.TotalOdd)
	}
}
