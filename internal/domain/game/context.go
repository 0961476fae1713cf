package game

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/riskibarqy/nba-trixie/internal/domain/team"
)

type BlowoutRisk string

const (
	BlowoutLow     BlowoutRisk = "LOW"
	BlowoutMedium  BlowoutRisk = "MEDIUM"
	BlowoutHigh    BlowoutRisk = "HIGH"
	BlowoutExtreme BlowoutRisk = "EXTREME"
)

const (
	MinPaceFactor = 0.85
	MaxPaceFactor = 1.15
)

// BlowoutRiskFromSpread labels a game by the absolute point spread.
func BlowoutRiskFromSpread(spreadAbs float64) BlowoutRisk {
	switch {
	case spreadAbs < 8:
		return BlowoutLow
	case spreadAbs < 12:
		return BlowoutMedium
	case spreadAbs < 15:
		return BlowoutHigh
	default:
		return BlowoutExtreme
	}
}

// AtLeastHigh reports HIGH or EXTREME.
func (r BlowoutRisk) AtLeastHigh() bool {
	return r == BlowoutHigh || r == BlowoutExtreme
}

// Context is one scheduled game with its betting line and derived fields.
type Context struct {
	GameID         string      `json:"game_id"`
	Home           string      `json:"home"`
	Away           string      `json:"away"`
	Spread         float64     `json:"spread"`
	Total          float64     `json:"total"`
	StartTime      time.Time   `json:"start_time"`
	SpreadAbs      float64     `json:"spread_abs"`
	BlowoutRisk    BlowoutRisk `json:"blowout_risk"`
	PaceFactor     float64     `json:"pace_factor"`
	HomeBackToBack bool        `json:"home_back_to_back"`
	AwayBackToBack bool        `json:"away_back_to_back"`
}

// New builds a Context with derived fields filled. An empty or non-numeric
// upstream id is replaced with the synthetic "away@home" form.
func New(gameID, home, away string, spread, total float64, start time.Time) Context {
	home = team.Normalize(home)
	away = team.Normalize(away)

	id := strings.TrimSpace(gameID)
	if !isNumeric(id) {
		id = SyntheticID(away, home)
	}

	spreadAbs := math.Abs(spread)
	return Context{
		GameID:      id,
		Home:        home,
		Away:        away,
		Spread:      spread,
		Total:       total,
		StartTime:   start,
		SpreadAbs:   spreadAbs,
		BlowoutRisk: BlowoutRiskFromSpread(spreadAbs),
		PaceFactor:  1.0,
	}
}

// WithPaceFactor returns a copy carrying factor clipped to the allowed band.
func (c Context) WithPaceFactor(factor float64) Context {
	c.PaceFactor = ClampPaceFactor(factor)
	return c
}

func ClampPaceFactor(factor float64) float64 {
	if math.IsNaN(factor) || factor <= 0 {
		return 1.0
	}
	return math.Min(MaxPaceFactor, math.Max(MinPaceFactor, factor))
}

func SyntheticID(away, home string) string {
	return fmt.Sprintf("%s@%s", strings.ToUpper(away), strings.ToUpper(home))
}

// IsSynthetic reports ids that cannot be resolved against the score feed.
func IsSynthetic(id string) bool {
	return !isNumeric(strings.TrimSpace(id))
}

func (c Context) Involves(teamCode string) bool {
	return c.Home == teamCode || c.Away == teamCode
}

// Opponent returns the other side of the game for teamCode.
func (c Context) Opponent(teamCode string) (string, bool) {
	switch teamCode {
	case c.Home:
		return c.Away, true
	case c.Away:
		return c.Home, true
	default:
		return "", false
	}
}

func (c Context) IsHome(teamCode string) bool {
	return c.Home == teamCode
}

// BackToBack reports whether teamCode plays on the second night of a back-to-back.
func (c Context) BackToBack(teamCode string) bool {
	if c.IsHome(teamCode) {
		return c.HomeBackToBack
	}
	return c.AwayBackToBack
}

// RestAdvantage reports teamCode rested while its opponent is on a back-to-back.
func (c Context) RestAdvantage(teamCode string) bool {
	if c.IsHome(teamCode) {
		return !c.HomeBackToBack && c.AwayBackToBack
	}
	return !c.AwayBackToBack && c.HomeBackToBack
}

// Info renders the short "AWY @ HOM" label carried by legs and tickets.
func (c Context) Info() string {
	return c.Away + " @ " + c.Home
}

func isNumeric(v string) bool {
	if v == "" {
		return false
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
