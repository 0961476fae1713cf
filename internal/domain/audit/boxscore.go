package audit

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/nba-trixie/internal/domain/market"
	"github.com/riskibarqy/nba-trixie/internal/domain/player"
)

var ErrSchemaDrift = errors.New("box score schema drift")

// Turnovers has no prop market but is read for completeness.
const Turnovers market.Market = "TO"

var labelMarkets = map[string]market.Market{
	"PTS": market.PTS,
	"REB": market.REB,
	"AST": market.AST,
	"STL": market.STL,
	"BLK": market.BLK,
	"3PT": market.ThreePM,
	"3PM": market.ThreePM,
	"TO":  Turnovers,
}

type summaryPayload struct {
	Header struct {
		Competitions []struct {
			Status struct {
				Type struct {
					Completed bool `json:"completed"`
				} `json:"type"`
			} `json:"status"`
		} `json:"competitions"`
	} `json:"header"`
	Boxscore struct {
		Players []struct {
			Team struct {
				Abbreviation string `json:"abbreviation"`
			} `json:"team"`
			Statistics []struct {
				Labels   []string `json:"labels"`
				Athletes []struct {
					Athlete struct {
						DisplayName string `json:"displayName"`
					} `json:"athlete"`
					Stats []string `json:"stats"`
				} `json:"athletes"`
			} `json:"statistics"`
		} `json:"players"`
	} `json:"boxscore"`
}

// PlayerBox is one athlete's parsed stat line.
type PlayerBox struct {
	Name  string
	Team  string
	Stats map[market.Market]float64
}

// Stat reads a market, summing the components of sum markets. It reports
// false when any component label was missing.
func (p PlayerBox) Stat(m market.Market) (float64, bool) {
	var total float64
	for _, part := range m.Components() {
		v, ok := p.Stats[part]
		if !ok {
			return 0, false
		}
		total += v
	}
	return total, true
}

// BoxScore is a parsed game summary.
type BoxScore struct {
	GameID    string
	Completed bool
	Players   map[string]PlayerBox
}

// ParseBoxScore reads a game summary payload.
func ParseBoxScore(gameID string, raw []byte) (*BoxScore, error) {
	var payload summaryPayload
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode summary for game %s: %v", ErrSchemaDrift, gameID, err)
	}

	box := &BoxScore{GameID: gameID, Players: make(map[string]PlayerBox)}
	if len(payload.Header.Competitions) > 0 {
		box.Completed = payload.Header.Competitions[0].Status.Type.Completed
	}

	for _, side := range payload.Boxscore.Players {
		for _, group := range side.Statistics {
			index := make(map[market.Market]int, len(group.Labels))
			for i, label := range group.Labels {
				if m, ok := labelMarkets[strings.ToUpper(strings.TrimSpace(label))]; ok {
					index[m] = i
				}
			}

			for _, athlete := range group.Athletes {
				name := athlete.Athlete.DisplayName
				key := player.CanonicalizeName(name)
				if key == "" {
					continue
				}
				line, ok := box.Players[key]
				if !ok {
					line = PlayerBox{Name: name, Team: side.Team.Abbreviation, Stats: make(map[market.Market]float64)}
				}
				for m, i := range index {
					if i >= len(athlete.Stats) {
						continue
					}
					if v, ok := parseStat(athlete.Stats[i]); ok {
						line.Stats[m] = v
					}
				}
				box.Players[key] = line
			}
		}
	}

	return box, nil
}

// Find locates an athlete with the shared fuzzy name rule.
func (b *BoxScore) Find(name string) (PlayerBox, bool) {
	key := player.CanonicalizeName(name)
	if line, ok := b.Players[key]; ok {
		return line, true
	}

	keys := make([]string, 0, len(b.Players))
	for k := range b.Players {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if player.NamesMatch(k, key) {
			return b.Players[k], true
		}
	}
	return PlayerBox{}, false
}

// parseStat reads "12" or the made part of "3-7".
func parseStat(raw string) (float64, bool) {
	value := strings.TrimSpace(raw)
	if idx := strings.Index(value, "-"); idx > 0 {
		value = value[:idx]
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
