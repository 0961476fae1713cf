package thesis

import (
	"fmt"
	"math"
	"sort"

	"github.com/riskibarqy/nba-trixie/internal/domain/market"
	"github.com/riskibarqy/nba-trixie/internal/domain/projection"
)

type Type string

const (
	VacuumOpportunity Type = "VacuumOpportunity"
	DVPExploiter      Type = "DVPExploiter"
	HighCeiling       Type = "HighCeiling"
	MinutesSafe       Type = "MinutesSafe"
	PlaymakerEdge     Type = "PlaymakerEdge"
	ScorerLine        Type = "ScorerLine"
	GlassCleaner      Type = "GlassCleaner"
	Sniper            Type = "Sniper"
	DefensiveAnchor   Type = "DefensiveAnchor"
)

// Empirical hit rates for the fixed-rate theses.
const (
	vacuumWinRate    = 0.85
	dvpWinRate       = 0.78
	ceilingWinRate   = 0.75
	minutesWinRate   = 0.67
	playmakerWinRate = 0.50
	scorerWinRate    = 0.33

	FallbackConfidence = 0.55
	// ExploitableRank is the opponent DvP rank from which a matchup is soft.
	ExploitableRank    = 25
)

// Thesis is one justification for a market on a projected player.
type Thesis struct {
	Type          Type          `json:"type"`
	Market        market.Market `json:"market"`
	Reason        string        `json:"reason"`
	WinRate       float64       `json:"win_rate"`
	Confidence    float64       `json:"confidence"`
	SuggestedLine float64       `json:"suggested_line"`
}

// Generate returns the ranked, de-duplicated thesis list. It never returns an
// empty list.
func Generate(p projection.Player) []Thesis {
	s := p.Adjusted
	var out []Thesis

	if p.HasVacuum() {
		m := primaryMarket(p)
		out = append(out, Thesis{
			Type:          VacuumOpportunity,
			Market:        m,
			Reason:        p.Vacuum.Reason,
			WinRate:       vacuumWinRate,
			Confidence:    0.90,
			SuggestedLine: suggest(m.Value(s)),
		})
	}
	if p.DvPRank >= ExploitableRank {
		out = append(out, Thesis{
			Type:          DVPExploiter,
			Market:        market.PTS,
			Reason:        fmt.Sprintf("%s allows the #%d most to %s", p.Opponent, p.DvPRank, p.Line.Position.Primary()),
			WinRate:       dvpWinRate,
			Confidence:    0.80,
			SuggestedLine: suggest(s.Pts),
		})
	}
	if s.Pts >= 15 && s.Min >= 30 {
		out = append(out, Thesis{
			Type:          HighCeiling,
			Market:        market.PTS,
			Reason:        fmt.Sprintf("%.0f min role with a %.1f point ceiling", s.Min, p.Ceiling.Abs.Pts),
			WinRate:       ceilingWinRate,
			Confidence:    0.75,
			SuggestedLine: suggest(s.Pts),
		})
	}
	if s.Min >= 28 && s.Pts >= 12 {
		out = append(out, Thesis{
			Type:          MinutesSafe,
			Market:        market.PTS,
			Reason:        fmt.Sprintf("Locked into %.0f minutes, %.1f PTS L5", s.Min, s.Pts),
			WinRate:       minutesWinRate,
			Confidence:    0.80,
			SuggestedLine: suggest(s.Pts),
		})
	}
	if s.Ast >= 7 && s.Min >= 26 {
		out = append(out, Thesis{
			Type:          PlaymakerEdge,
			Market:        market.AST,
			Reason:        fmt.Sprintf("Primary creator at %.1f AST", s.Ast),
			WinRate:       playmakerWinRate,
			Confidence:    0.65,
			SuggestedLine: suggest(s.Ast),
		})
	}
	if s.Pts >= 12 && s.Min >= 24 {
		out = append(out, Thesis{
			Type:          ScorerLine,
			Market:        market.PTS,
			Reason:        fmt.Sprintf("Steady scorer at %.1f PTS", s.Pts),
			WinRate:       scorerWinRate,
			Confidence:    0.60,
			SuggestedLine: suggest(s.Pts),
		})
	}
	if s.Reb >= 8 {
		rate := clamp(0.45+(s.Reb-8)*0.04, 0.45, 0.80)
		out = append(out, Thesis{
			Type:          GlassCleaner,
			Market:        market.REB,
			Reason:        fmt.Sprintf("Owns the glass at %.1f REB", s.Reb),
			WinRate:       rate,
			Confidence:    rate,
			SuggestedLine: suggest(s.Reb),
		})
	}
	if s.ThreePM >= 2.5 {
		rate := clamp(0.40+(s.ThreePM-2.5)*0.08, 0.40, 0.72)
		out = append(out, Thesis{
			Type:          Sniper,
			Market:        market.ThreePM,
			Reason:        fmt.Sprintf("Volume shooter at %.1f 3PM", s.ThreePM),
			WinRate:       rate,
			Confidence:    rate,
			SuggestedLine: suggestHalf(s.ThreePM),
		})
	}
	if stocks := s.Stl + s.Blk; stocks >= 1.8 {
		rate := clamp(0.38+(stocks-1.8)*0.1, 0.38, 0.65)
		m, v := market.STL, s.Stl
		if s.Blk > s.Stl {
			m, v = market.BLK, s.Blk
		}
		out = append(out, Thesis{
			Type:          DefensiveAnchor,
			Market:        m,
			Reason:        fmt.Sprintf("Defensive anchor at %.1f STL+BLK", stocks),
			WinRate:       rate,
			Confidence:    rate,
			SuggestedLine: suggestHalf(v),
		})
	}

	if len(out) == 0 {
		out = append(out, Fallback(p))
	}
	return rank(out)
}

// Fallback is the ScorerLine-style thesis built on the player's largest stat.
func Fallback(p projection.Player) Thesis {
	m := primaryMarket(p)
	v := m.Value(p.Adjusted)
	return Thesis{
		Type:          ScorerLine,
		Market:        m,
		Reason:        fmt.Sprintf("Averaging %.1f %s over L5", v, m),
		WinRate:       scorerWinRate,
		Confidence:    FallbackConfidence,
		SuggestedLine: suggest(v),
	}
}

// ForMarket keeps the theses relevant to m. Sum markets accept the theses of
// their components.
func ForMarket(theses []Thesis, m market.Market) []Thesis {
	allowed := map[market.Market]bool{m: true}
	for _, part := range m.Components() {
		allowed[part] = true
	}

	var out []Thesis
	for _, t := range theses {
		if allowed[t.Market] {
			out = append(out, t)
		}
	}
	return out
}

// Best returns the highest win-rate thesis for m.
func Best(theses []Thesis, m market.Market) (Thesis, bool) {
	filtered := ForMarket(theses, m)
	if len(filtered) == 0 {
		return Thesis{}, false
	}
	return rank(filtered)[0], true
}

func rank(theses []Thesis) []Thesis {
	seen := make(map[Type]bool, len(theses))
	out := make([]Thesis, 0, len(theses))
	for _, t := range theses {
		if seen[t.Type] {
			continue
		}
		seen[t.Type] = true
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].WinRate > out[j].WinRate
	})
	return out
}

func primaryMarket(p projection.Player) market.Market {
	s := p.Adjusted
	switch {
	case s.Pts >= s.Reb && s.Pts >= s.Ast:
		return market.PTS
	case s.Reb >= s.Ast:
		return market.REB
	default:
		return market.AST
	}
}

func suggest(v float64) float64 {
	return math.Max(1, math.Floor(v*0.9))
}

func suggestHalf(v float64) float64 {
	return math.Max(0.5, math.Floor(v*0.9)+0.5)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
