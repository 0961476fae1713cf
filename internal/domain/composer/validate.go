package composer

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/nba-trixie/internal/domain/prop"
)

const (
	MaxLegsPerGame = 2
	MaxLegsPerTeam = 2
)

var (
	ErrDuplicatePlayer = errors.New("duplicate player")
	ErrGameLimit       = errors.New("too many legs from one game")
	ErrTeamLimit       = errors.New("too many legs from one team")
	ErrRiskMix         = errors.New("risk mix does not fit profile")
)

// Validate rejects combinations that break the diversity rules or the
// profile's risk mix.
func Validate(legs []prop.Leg, profile prop.RiskProfile) error {
	players := make(map[string]struct{}, len(legs))
	games := make(map[string]int, len(legs))
	teams := make(map[string]int, len(legs))
	tiers := make(map[prop.Tier]int, len(legs))

	for _, leg := range legs {
		if _, ok := players[leg.Player]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicatePlayer, leg.Player)
		}
		players[leg.Player] = struct{}{}

		games[leg.GameID]++
		if games[leg.GameID] > MaxLegsPerGame {
			return fmt.Errorf("%w: %s", ErrGameLimit, leg.GameID)
		}
		teams[leg.Team]++
		if teams[leg.Team] > MaxLegsPerTeam {
			return fmt.Errorf("%w: %s", ErrTeamLimit, leg.Team)
		}
		tiers[leg.Tier]++
	}

	switch profile {
	case prop.Conservative:
		if tiers[prop.TierFloor] < 2 {
			return fmt.Errorf("%w: conservative needs 2 FLOOR legs, got %d", ErrRiskMix, tiers[prop.TierFloor])
		}
	case prop.Aggressive:
		if tiers[prop.TierCeiling] < 1 {
			return fmt.Errorf("%w: aggressive needs a CEILING leg", ErrRiskMix)
		}
	}

	return nil
}
