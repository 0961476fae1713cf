package pace

import (
	"github.com/riskibarqy/nba-trixie/internal/domain/game"
	"github.com/riskibarqy/nba-trixie/internal/domain/player"
	"github.com/riskibarqy/nba-trixie/internal/domain/team"
)

const LeagueAverage = 99.5

// Table maps team code to possessions per 48 minutes.
type Table struct {
	LeagueAverage float64            `json:"league_avg_pace" yaml:"league_average"`
	ByTeam        map[string]float64 `json:"pace" yaml:"teams"`
}

// DefaultTable is a season-to-date snapshot used when nothing is persisted.
func DefaultTable() Table {
	return Table{
		LeagueAverage: LeagueAverage,
		ByTeam: map[string]float64{
			"ATL": 101.9, "BOS": 97.8, "BKN": 97.4, "CHA": 98.9, "CHI": 101.2,
			"CLE": 100.4, "DAL": 100.1, "DEN": 99.6, "DET": 100.6, "GSW": 100.2,
			"HOU": 98.4, "IND": 102.1, "LAC": 97.6, "LAL": 100.0, "MEM": 103.6,
			"MIA": 97.3, "MIL": 99.9, "MIN": 98.1, "NOP": 99.8, "NYK": 97.5,
			"OKC": 100.9, "ORL": 96.9, "PHI": 98.0, "PHX": 98.9, "POR": 99.7,
			"SAC": 99.4, "SAS": 101.0, "TOR": 100.3, "UTA": 100.5, "WAS": 101.5,
		},
	}
}

func (t Table) leagueAverage() float64 {
	if t.LeagueAverage > 0 {
		return t.LeagueAverage
	}
	return LeagueAverage
}

// Pace returns the team's pace, or the league average when unknown.
func (t Table) Pace(teamCode string) float64 {
	if v, ok := t.ByTeam[team.Normalize(teamCode)]; ok && v > 0 {
		return v
	}
	return t.leagueAverage()
}

// Factor is (pace_home + pace_away) / (2 * league_avg), clipped to [0.85, 1.15].
func (t Table) Factor(home, away string) float64 {
	raw := (t.Pace(home) + t.Pace(away)) / (2 * t.leagueAverage())
	return game.ClampPaceFactor(raw)
}

// Apply stamps the pace factor on a game.
func (t Table) Apply(g game.Context) game.Context {
	return g.WithPaceFactor(t.Factor(g.Home, g.Away))
}

// Merge overlays non-zero entries from other onto a copy of t.
func (t Table) Merge(other Table) Table {
	out := Table{LeagueAverage: t.LeagueAverage, ByTeam: make(map[string]float64, len(t.ByTeam))}
	for k, v := range t.ByTeam {
		out.ByTeam[k] = v
	}
	if other.LeagueAverage > 0 {
		out.LeagueAverage = other.LeagueAverage
	}
	for k, v := range other.ByTeam {
		if v > 0 {
			out.ByTeam[team.Normalize(k)] = v
		}
	}
	return out
}

// Adjust scales volume stats by the clipped factor; stl/blk take half the
// deviation and minutes are not scaled.
func Adjust(s player.Stats, factor float64) player.Stats {
	return s.ScaleVolume(game.ClampPaceFactor(factor))
}
