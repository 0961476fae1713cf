package prop

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/nba-trixie/internal/platform/id"
)

// Composition summarizes the spread of a trixie.
type Composition struct {
	DistinctGames int          `json:"distinct_games"`
	RiskMix       map[Tier]int `json:"risk_mix"`
	UniquePlayers int          `json:"unique_players"`
}

// Trixie is a 3+ leg parlay ready for display and audit.
type Trixie struct {
	ID            string      `json:"id"`
	Category      RiskProfile `json:"category"`
	SubCategory   string      `json:"sub_category"`
	Legs          []Leg       `json:"legs"`
	TotalOdd      float64     `json:"total_odd"`
	PlayerSet     []string    `json:"player_set"`
	Composition   Composition `json:"composition"`
	GameInfo      string      `json:"game_info"`
	ScoreOriginal float64     `json:"score_original"`
	ScoreAdjusted float64     `json:"score_adjusted"`
	ScoreFinal    float64     `json:"score_final"`
}

type idLeg struct {
	Name   string  `json:"name"`
	Team   string  `json:"team"`
	Market string  `json:"market"`
	Line   float64 `json:"line"`
	Odds   float64 `json:"odds"`
}

type idPayload struct {
	Category    string  `json:"category"`
	SubCategory string  `json:"sub_category"`
	GameInfo    string  `json:"game_info"`
	Legs        []idLeg `json:"legs"`
}

// NewTrixie assembles the derived fields and the content ID.
func NewTrixie(category RiskProfile, subCategory string, legs []Leg) (Trixie, error) {
	if len(legs) == 0 {
		return Trixie{}, fmt.Errorf("trixie needs at least one leg")
	}

	t := Trixie{
		Category:    category,
		SubCategory: subCategory,
		Legs:        append([]Leg(nil), legs...),
		TotalOdd:    TotalOdd(legs),
		PlayerSet:   playerSet(legs),
		Composition: Compose(legs),
		GameInfo:    GameInfo(legs),
	}

	ticketID, err := TicketID(t.Category, t.SubCategory, t.GameInfo, t.Legs)
	if err != nil {
		return Trixie{}, err
	}
	t.ID = ticketID
	return t, nil
}

// TicketID hashes category, sub-category, game info and the legs sorted by
// (name, market). Leg order does not change the ID.
func TicketID(category RiskProfile, subCategory, gameInfo string, legs []Leg) (string, error) {
	payload := idPayload{
		Category:    string(category),
		SubCategory: subCategory,
		GameInfo:    gameInfo,
		Legs:        make([]idLeg, 0, len(legs)),
	}
	for _, leg := range legs {
		payload.Legs = append(payload.Legs, idLeg{
			Name:   leg.Player,
			Team:   leg.Team,
			Market: string(leg.Market),
			Line:   leg.Line,
			Odds:   leg.Odds,
		})
	}
	sort.Slice(payload.Legs, func(i, j int) bool {
		if payload.Legs[i].Name != payload.Legs[j].Name {
			return payload.Legs[i].Name < payload.Legs[j].Name
		}
		return payload.Legs[i].Market < payload.Legs[j].Market
	})

	value, err := id.ContentHash(payload)
	if err != nil {
		return "", fmt.Errorf("hash trixie: %w", err)
	}
	return value, nil
}

// TotalOdd is the product of leg odds rounded to two decimals.
func TotalOdd(legs []Leg) float64 {
	product := decimal.NewFromInt(1)
	for _, leg := range legs {
		product = product.Mul(decimal.NewFromFloat(leg.Odds))
	}
	value, _ := product.Round(2).Float64()
	return value
}

func Compose(legs []Leg) Composition {
	games := make(map[string]struct{})
	players := make(map[string]struct{})
	mix := make(map[Tier]int)
	for _, leg := range legs {
		games[leg.GameID] = struct{}{}
		players[leg.Player] = struct{}{}
		mix[leg.Tier]++
	}
	return Composition{
		DistinctGames: len(games),
		RiskMix:       mix,
		UniquePlayers: len(players),
	}
}

// GameInfo joins the distinct game labels in sorted order.
func GameInfo(legs []Leg) string {
	seen := make(map[string]struct{})
	var labels []string
	for _, leg := range legs {
		if _, ok := seen[leg.GameInfo]; ok || leg.GameInfo == "" {
			continue
		}
		seen[leg.GameInfo] = struct{}{}
		labels = append(labels, leg.GameInfo)
	}
	sort.Strings(labels)
	return strings.Join(labels, " | ")
}

func playerSet(legs []Leg) []string {
	out := make([]string, 0, len(legs))
	for _, leg := range legs {
		out = append(out, leg.Player)
	}
	sort.Strings(out)
	return out
}
