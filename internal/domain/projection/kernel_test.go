package projection

import (
	"math"
	"testing"
	"time"

	"github.com/riskibarqy/nba-trixie/internal/domain/dvp"
	"github.com/riskibarqy/nba-trixie/internal/domain/game"
	"github.com/riskibarqy/nba-trixie/internal/domain/injury"
	"github.com/riskibarqy/nba-trixie/internal/domain/pace"
	"github.com/riskibarqy/nba-trixie/internal/domain/player"
	"github.com/riskibarqy/nba-trixie/internal/domain/vacuum"
)

func fixture() ([]game.Context, []player.Line) {
	games := []game.Context{
		game.New("0022400123", "HOU", "DAL", -4.5, 228, time.Date(2025, 11, 15, 0, 30, 0, 0, time.UTC)),
	}
	lines := []player.Line{
		{DisplayName: "Starting PG", Team: "HOU", Position: "PG", Status: player.StatusOut, IsStarter: true, Stats: player.Stats{Min: 32, Pts: 20, Ast: 7}},
		{DisplayName: "Backup PG", Team: "HOU", Position: "PG", Status: player.StatusActive, Stats: player.Stats{Min: 18, Pts: 10, Ast: 4, Stl: 1}},
		{DisplayName: "Wing", Team: "HOU", Position: "SF", Status: player.StatusActive, IsStarter: true, Stats: player.Stats{Min: 34, Pts: 22, Reb: 6, Ast: 3}},
		{DisplayName: "Questionable Big", Team: "HOU", Position: "C", Status: player.StatusActive, Stats: player.Stats{Min: 14, Pts: 6, Reb: 5}},
		{DisplayName: "Luka Guard", Team: "dal", Position: "PG", Status: player.StatusActive, IsStarter: true, Stats: player.Stats{Min: 36, Pts: 30, Reb: 8, Ast: 9}},
	}
	return games, lines
}

func TestKernel_ProjectAppliesPaceVacuumAndBlocking(t *testing.T) {
	t.Parallel()

	report := injury.NewReport()
	report.Set("HOU", []injury.Record{injury.NewRecord("Questionable Big", "Questionable", "Ankle", "2025-11-14")})

	ranks := dvp.NewTable()
	ranks.Set("DAL", "PG", 27)

	games, lines := fixture()
	kernel := NewKernel(pace.DefaultTable(), ranks, nil, report)
	result := kernel.Project(games, lines)

	if len(result.Blocked) != 2 {
		t.Fatalf("expected two blocked players, got %v", result.Blocked)
	}
	for _, p := range result.Players {
		if p.Name() == "Starting PG" || p.Name() == "Questionable Big" {
			t.Fatalf("blocked player projected: %s", p.Name())
		}
	}

	factor := pace.DefaultTable().Factor("HOU", "DAL")
	backup := find(t, result.Players, "Backup PG")
	if !backup.HasVacuum() || backup.Vacuum.Type != vacuum.TypeDirectBackup {
		t.Fatalf("expected direct backup vacuum, got %+v", backup.Vacuum)
	}
	if want := 10 * factor * 1.25; math.Abs(backup.Adjusted.Pts-want) > 1e-9 {
		t.Fatalf("unexpected adjusted pts: got=%v want=%v", backup.Adjusted.Pts, want)
	}
	if backup.Adjusted.Min != 18 {
		t.Fatalf("minutes must be preserved, got %v", backup.Adjusted.Min)
	}
	if backup.DvPRank != 27 || math.Abs(backup.MatchupScore-9.99) > 1e-9 {
		t.Fatalf("unexpected matchup: rank=%d score=%v", backup.DvPRank, backup.MatchupScore)
	}
	if backup.Opponent != "DAL" || !backup.Home {
		t.Fatalf("unexpected opponent wiring: %+v", backup)
	}

	guard := find(t, result.Players, "Luka Guard")
	if guard.Team() != "DAL" || guard.Home {
		t.Fatalf("away player normalized incorrectly: %+v", guard.Line)
	}
	if guard.MatchupScore != dvp.MatchupScore(dvp.NeutralRank) {
		t.Fatalf("missing dvp entry must be neutral, got %v", guard.MatchupScore)
	}
	if guard.CeilingRatio < 0.85 || guard.CeilingRatio > 1.5 {
		t.Fatalf("ceiling ratio out of range: %v", guard.CeilingRatio)
	}
}

func TestKernel_VolumeBoostBounded(t *testing.T) {
	t.Parallel()

	if got := capBoost(vacuum.MaxBoost, 1.15); math.Abs(got*1.15-MaxVolumeBoost) > 1e-9 {
		t.Fatalf("expected combined boost %v, got %v", MaxVolumeBoost, got*1.15)
	}
	if got := capBoost(1.25, 1.0); got != 1.25 {
		t.Fatalf("expected untouched boost, got %v", got)
	}
}

func TestKernel_AdjustedStatsNonNegative(t *testing.T) {
	t.Parallel()

	games, lines := fixture()
	result := NewKernel(pace.DefaultTable(), dvp.NewTable(), nil, injury.NewReport()).Project(games, lines)
	for _, p := range result.Players {
		s := p.Adjusted
		if s.Pts < 0 || s.Reb < 0 || s.Ast < 0 || s.ThreePM < 0 || s.Stl < 0 || s.Blk < 0 {
			t.Fatalf("negative adjusted stats for %s: %+v", p.Name(), s)
		}
		if math.Abs(s.Min-p.Line.Stats.Min) > 2 {
			t.Fatalf("minutes drifted for %s", p.Name())
		}
		if p.GameID != "0022400123" {
			t.Fatalf("missing game id for %s", p.Name())
		}
	}
}

func find(t *testing.T, players []Player, name string) Player {
	t.Helper()
	for _, p := range players {
		if p.Name() == name {
			return p
		}
	}
	t.Fatalf("player %s not projected", name)
	return Player{}
}
