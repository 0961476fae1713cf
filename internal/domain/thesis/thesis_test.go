package thesis

import (
	"strings"
	"testing"

	"github.com/riskibarqy/nba-trixie/internal/domain/market"
	"github.com/riskibarqy/nba-trixie/internal/domain/player"
	"github.com/riskibarqy/nba-trixie/internal/domain/projection"
	"github.com/riskibarqy/nba-trixie/internal/domain/vacuum"
)

func projected(stats player.Stats, rank int) projection.Player {
	return projection.Player{
		Line:     player.Line{DisplayName: "Test Guard", Team: "BOS", Position: "SG", Stats: stats},
		Opponent: "WAS",
		Adjusted: stats,
		DvPRank:  rank,
	}
}

func TestGenerate_DvPExploiterRanksFirst(t *testing.T) {
	t.Parallel()

	theses := Generate(projected(player.Stats{Min: 31, Pts: 16, Reb: 3, Ast: 3}, 27))

	want := map[Type]bool{DVPExploiter: false, HighCeiling: false, MinutesSafe: false}
	for _, th := range theses {
		if _, ok := want[th.Type]; ok {
			want[th.Type] = true
		}
	}
	for typ, found := range want {
		if !found {
			t.Fatalf("expected %s in %+v", typ, theses)
		}
	}

	top := theses[0]
	if top.Type != DVPExploiter || top.WinRate != 0.78 {
		t.Fatalf("expected DVPExploiter first, got %+v", top)
	}
	if !strings.Contains(top.Reason, "#27") {
		t.Fatalf("reason must cite the rank, got %q", top.Reason)
	}
	for i := 1; i < len(theses); i++ {
		if theses[i-1].WinRate < theses[i].WinRate {
			t.Fatalf("theses not sorted: %+v", theses)
		}
	}
}

func TestGenerate_VacuumOutranksEverything(t *testing.T) {
	t.Parallel()

	p := projected(player.Stats{Min: 31, Pts: 16}, 27)
	p.Vacuum = &vacuum.Entry{Boost: 1.25, Type: vacuum.TypeDirectBackup, Reason: "Starter OUT: direct backup at G (+25%)"}

	theses := Generate(p)
	if theses[0].Type != VacuumOpportunity || theses[0].WinRate != 0.85 {
		t.Fatalf("expected vacuum thesis first, got %+v", theses[0])
	}
	if theses[0].Reason != p.Vacuum.Reason || strings.Count(theses[0].Reason, "%") != 1 {
		t.Fatalf("expected the vacuum reason verbatim, got %q", theses[0].Reason)
	}
}

func TestGenerate_FallbackOnQuietLine(t *testing.T) {
	t.Parallel()

	theses := Generate(projected(player.Stats{Min: 14, Pts: 4, Reb: 6, Ast: 1}, 10))
	if len(theses) != 1 {
		t.Fatalf("expected single fallback thesis, got %+v", theses)
	}
	if theses[0].Type != ScorerLine || theses[0].Market != market.REB || theses[0].Confidence != FallbackConfidence {
		t.Fatalf("unexpected fallback: %+v", theses[0])
	}
}

func TestGenerate_RuleScoredRates(t *testing.T) {
	t.Parallel()

	theses := Generate(projected(player.Stats{Min: 30, Pts: 10, Reb: 20, ThreePM: 3.5, Stl: 0.5, Blk: 2.5}, 10))

	rates := map[Type]float64{}
	for _, th := range theses {
		rates[th.Type] = th.WinRate
	}
	if rates[GlassCleaner] != 0.80 {
		t.Fatalf("glass cleaner rate must cap at 0.80, got %v", rates[GlassCleaner])
	}
	if got := rates[Sniper]; got < 0.479 || got > 0.481 {
		t.Fatalf("unexpected sniper rate: %v", got)
	}
	if got := rates[DefensiveAnchor]; got < 0.50 || got > 0.501 {
		t.Fatalf("unexpected defensive anchor rate: %v", got)
	}
}

func TestBest_ComboUsesComponentTheses(t *testing.T) {
	t.Parallel()

	theses := Generate(projected(player.Stats{Min: 34, Pts: 18, Ast: 8}, 12))

	best, ok := Best(theses, market.PTSAST)
	if !ok {
		t.Fatalf("expected a thesis for PTS+AST")
	}
	if best.Market != market.PTS && best.Market != market.AST {
		t.Fatalf("unexpected market for combo: %+v", best)
	}
	if _, ok := Best(theses, market.BLK); ok {
		t.Fatalf("expected no BLK thesis")
	}
}
