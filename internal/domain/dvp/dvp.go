package dvp

import (
	"math"

	"github.com/riskibarqy/nba-trixie/internal/domain/player"
	"github.com/riskibarqy/nba-trixie/internal/domain/team"
)

const (
	MinRank     = 1
	MaxRank     = 30
	NeutralRank = 15
)

// Table holds defense-versus-position ranks: opponent -> position -> rank,
// 1 = toughest defense, 30 = most generous.
type Table struct {
	Ranks map[string]map[player.Position]int `json:"dvp" yaml:"ranks"`
}

func NewTable() Table {
	return Table{Ranks: make(map[string]map[player.Position]int)}
}

// Set stores a rank clamped to [1, 30].
func (t *Table) Set(opponent string, pos player.Position, rank int) {
	if t.Ranks == nil {
		t.Ranks = make(map[string]map[player.Position]int)
	}
	code := team.Normalize(opponent)
	if t.Ranks[code] == nil {
		t.Ranks[code] = make(map[player.Position]int)
	}
	t.Ranks[code][pos.Primary()] = ClampRank(rank)
}

// Rank returns the clamped rank, or the neutral 15 when missing.
func (t Table) Rank(opponent string, pos player.Position) int {
	byPos, ok := t.Ranks[team.Normalize(opponent)]
	if !ok {
		return NeutralRank
	}
	rank, ok := byPos[pos.Primary()]
	if !ok || rank == 0 {
		return NeutralRank
	}
	return ClampRank(rank)
}

// MatchupScore returns (30 - rank) * 3.33 for the opponent and position.
func (t Table) MatchupScore(opponent string, pos player.Position) float64 {
	return MatchupScore(t.Rank(opponent, pos))
}

func ClampRank(rank int) int {
	if rank < MinRank {
		return MinRank
	}
	if rank > MaxRank {
		return MaxRank
	}
	return rank
}

// MatchupScore maps a rank to [0, 100]; the neutral rank lands near 50.
func MatchupScore(rank int) float64 {
	score := float64(MaxRank-ClampRank(rank)) * 3.33
	return math.Min(100, math.Max(0, score))
}

// Merge overlays other onto a copy of t.
func (t Table) Merge(other Table) Table {
	out := NewTable()
	for opp, byPos := range t.Ranks {
		for pos, rank := range byPos {
			out.Set(opp, pos, rank)
		}
	}
	for opp, byPos := range other.Ranks {
		for pos, rank := range byPos {
			out.Set(opp, pos, rank)
		}
	}
	return out
}
