package prop

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/nba-trixie/internal/domain/archetype"
	"github.com/riskibarqy/nba-trixie/internal/domain/game"
	"github.com/riskibarqy/nba-trixie/internal/domain/market"
	"github.com/riskibarqy/nba-trixie/internal/domain/thesis"
)

type RiskProfile string

const (
	Conservative RiskProfile = "CONSERVATIVE"
	Balanced     RiskProfile = "BALANCED"
	Aggressive   RiskProfile = "AGGRESSIVE"
)

// Profiles lists every risk profile in generation order.
func Profiles() []RiskProfile {
	return []RiskProfile{Conservative, Balanced, Aggressive}
}

func ParseRiskProfile(raw string) (RiskProfile, error) {
	switch RiskProfile(strings.ToUpper(strings.TrimSpace(raw))) {
	case Conservative:
		return Conservative, nil
	case Balanced:
		return Balanced, nil
	case Aggressive:
		return Aggressive, nil
	default:
		return "", fmt.Errorf("unknown risk profile %q", raw)
	}
}

// Index is the profile position used to derive its RNG stream.
func (p RiskProfile) Index() int {
	switch p {
	case Conservative:
		return 0
	case Balanced:
		return 1
	default:
		return 2
	}
}

type Tier string

const (
	TierFloor   Tier = "FLOOR"
	TierMid     Tier = "MID"
	TierCeiling Tier = "CEILING"
)

// Tiers lists risk tiers from safest to most aggressive.
func Tiers() []Tier {
	return []Tier{TierFloor, TierMid, TierCeiling}
}

// Leg is one player-market-line-odds selection.
type Leg struct {
	PlayerID       string              `json:"player_id,omitempty"`
	Player         string              `json:"player"`
	Team           string              `json:"team"`
	GameID         string              `json:"game_id"`
	Opponent       string              `json:"opponent"`
	Market         market.Market       `json:"market"`
	Line           float64             `json:"line"`
	ComponentLines []float64           `json:"component_lines,omitempty"`
	Odds           float64             `json:"odds"`
	Tier           Tier                `json:"risk"`
	ThesisText     string              `json:"thesis_text"`
	ThesisKind     thesis.Type         `json:"thesis_kind"`
	MarketDisplay  string              `json:"market_display"`
	QualityScore   float64             `json:"quality_score"`
	GameInfo       string              `json:"game_info"`
	MatchupScore   float64             `json:"matchup_score"`
	CeilingRatio   float64             `json:"ceiling_ratio"`
	BlowoutRisk    game.BlowoutRisk    `json:"blowout_risk"`
	Role           archetype.Role      `json:"role"`
	RiskLevel      archetype.RiskLevel `json:"risk_level"`
	Minutes        float64             `json:"minutes"`
	ProjectedMean  float64             `json:"projected_mean"`
	WinRate        float64             `json:"win_rate"`
	Probability    float64             `json:"probability,omitempty"`
	FairOdds       float64             `json:"fair_odds,omitempty"`
	Edge           float64             `json:"edge,omitempty"`
}

// PoolCombo groups every two-stat sum market into one pool.
const PoolCombo market.Market = "COMBO"

// Pool is the market family a leg competes in.
func (l Leg) Pool() market.Market {
	if l.Market.IsCombo() {
		return PoolCombo
	}
	return l.Market
}
