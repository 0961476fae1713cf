package composer

import (
	"math"

	"github.com/riskibarqy/nba-trixie/internal/domain/prop"
)

const (
	gameDiversityBonus = 0.5
	tierDiversityBonus = 0.3

	blowoutPenalty      = -1.0
	weakMatchupPenalty  = -0.5
	strongMatchupBonus  = 0.8
	weakMatchupScore    = 40.0
	strongMatchupScore  = 70.0
	playerRotationDecay = 0.25
	teamRotationDecay   = 0.15
)

// ScoreOriginal is mean leg quality plus game and tier diversity bonuses.
func ScoreOriginal(legs []prop.Leg) float64 {
	if len(legs) == 0 {
		return 0
	}

	var quality float64
	games := make(map[string]struct{})
	tiers := make(map[prop.Tier]struct{})
	for _, leg := range legs {
		quality += leg.QualityScore
		games[leg.GameID] = struct{}{}
		tiers[leg.Tier] = struct{}{}
	}

	return quality/float64(len(legs)) +
		float64(len(games))*gameDiversityBonus +
		float64(len(tiers))*tierDiversityBonus
}

// ContextAdjustment sums the per-leg blowout and matchup terms.
func ContextAdjustment(legs []prop.Leg) float64 {
	var adj float64
	for _, leg := range legs {
		if leg.BlowoutRisk.AtLeastHigh() {
			adj += blowoutPenalty
		}
		switch {
		case leg.MatchupScore < weakMatchupScore:
			adj += weakMatchupPenalty
		case leg.MatchupScore > strongMatchupScore:
			adj += strongMatchupBonus
		}
	}
	return adj
}

// rotationFactor decays a combination that reuses already picked players or
// teams.
func rotationFactor(legs []prop.Leg, playerUsage, teamUsage map[string]int) float64 {
	maxPlayer, maxTeam := 0, 0
	for _, leg := range legs {
		if n := playerUsage[leg.Player]; n > maxPlayer {
			maxPlayer = n
		}
		if n := teamUsage[leg.Team]; n > maxTeam {
			maxTeam = n
		}
	}

	return math.Pow(1-playerRotationDecay, float64(maxPlayer)) *
		math.Pow(1-teamRotationDecay, float64(maxTeam)/2)
}
