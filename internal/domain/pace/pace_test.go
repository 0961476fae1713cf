package pace

import (
	"math"
	"testing"

	"github.com/riskibarqy/nba-trixie/internal/domain/player"
)

func TestFactor_BoundsAndDefaults(t *testing.T) {
	t.Parallel()

	table := Table{LeagueAverage: 100, ByTeam: map[string]float64{"AAA": 130, "BBB": 125, "CCC": 60, "DDD": 62, "EEE": 102}}

	if got := table.Factor("AAA", "BBB"); got != 1.15 {
		t.Fatalf("expected upper clip 1.15, got %v", got)
	}
	if got := table.Factor("CCC", "DDD"); got != 0.85 {
		t.Fatalf("expected lower clip 0.85, got %v", got)
	}
	if got := table.Factor("EEE", "ZZZ"); math.Abs(got-1.01) > 1e-9 {
		t.Fatalf("unknown team must read league average, got %v", got)
	}
}

func TestFactor_NormalizesTeamVariants(t *testing.T) {
	t.Parallel()

	table := DefaultTable()
	if table.Factor("gs", "ny") != table.Factor("GSW", "NYK") {
		t.Fatalf("feed variants must resolve to the same teams")
	}
}

func TestAdjust_HalfDeltaForDefensiveStats(t *testing.T) {
	t.Parallel()

	in := player.Stats{Min: 34, Pts: 20, Reb: 6, Ast: 4, ThreePM: 2, Stl: 1, Blk: 2}
	got := Adjust(in, 1.10)

	if got.Min != in.Min {
		t.Fatalf("minutes must not scale")
	}
	if math.Abs(got.Pts-22) > 1e-9 {
		t.Fatalf("unexpected pts %v", got.Pts)
	}
	if math.Abs(got.Stl-1.05) > 1e-9 || math.Abs(got.Blk-2.1) > 1e-9 {
		t.Fatalf("stl/blk must scale by 1+(f-1)/2, got stl=%v blk=%v", got.Stl, got.Blk)
	}

	clipped := Adjust(in, 2.0)
	if math.Abs(clipped.Pts-23) > 1e-9 {
		t.Fatalf("factor must be clipped to 1.15 before scaling, got %v", clipped.Pts)
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	merged := DefaultTable().Merge(Table{LeagueAverage: 100.2, ByTeam: map[string]float64{"bos": 104, "MIA": 0}})
	if merged.LeagueAverage != 100.2 {
		t.Fatalf("unexpected league average %v", merged.LeagueAverage)
	}
	if merged.Pace("BOS") != 104 {
		t.Fatalf("override must win, got %v", merged.Pace("BOS"))
	}
	if merged.Pace("MIA") != DefaultTable().Pace("MIA") {
		t.Fatalf("zero override must be ignored")
	}
}
