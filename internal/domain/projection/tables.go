package projection

import (
	"github.com/riskibarqy/nba-trixie/internal/domain/archetype"
	"github.com/riskibarqy/nba-trixie/internal/domain/ceiling"
	"github.com/riskibarqy/nba-trixie/internal/domain/dvp"
	"github.com/riskibarqy/nba-trixie/internal/domain/injury"
	"github.com/riskibarqy/nba-trixie/internal/domain/pace"
	"github.com/riskibarqy/nba-trixie/internal/domain/player"
	"github.com/riskibarqy/nba-trixie/internal/domain/team"
)

// Tables is the reference data behind a projection run. It is the shape of
// the persisted team_advanced blob and of the optional YAML tables file.
type Tables struct {
	LeagueAveragePace float64                            `json:"league_avg_pace,omitempty" yaml:"league_avg_pace"`
	Pace              map[string]float64                 `json:"pace,omitempty" yaml:"pace"`
	DvP               map[string]map[player.Position]int `json:"dvp,omitempty" yaml:"dvp"`
	Ceiling           map[archetype.Tag]ceiling.Profile  `json:"ceiling_profiles,omitempty" yaml:"ceiling_profiles"`
}

func (t Tables) Empty() bool {
	return t.LeagueAveragePace <= 0 && len(t.Pace) == 0 && len(t.DvP) == 0 && len(t.Ceiling) == 0
}

// Overlay returns a copy of t with the entries of other on top. Team keys
// are normalized so "lakers" and "LAL" address the same row.
func (t Tables) Overlay(other Tables) Tables {
	out := Tables{
		LeagueAveragePace: t.LeagueAveragePace,
		Pace:              make(map[string]float64, len(t.Pace)+len(other.Pace)),
		DvP:               make(map[string]map[player.Position]int, len(t.DvP)+len(other.DvP)),
		Ceiling:           make(map[archetype.Tag]ceiling.Profile, len(t.Ceiling)+len(other.Ceiling)),
	}
	if other.LeagueAveragePace > 0 {
		out.LeagueAveragePace = other.LeagueAveragePace
	}
	for _, src := range []Tables{t, other} {
		for code, v := range src.Pace {
			out.Pace[team.Normalize(code)] = v
		}
		for code, byPos := range src.DvP {
			code = team.Normalize(code)
			if out.DvP[code] == nil {
				out.DvP[code] = make(map[player.Position]int, len(byPos))
			}
			for pos, rank := range byPos {
				out.DvP[code][pos] = rank
			}
		}
		for tag, profile := range src.Ceiling {
			out.Ceiling[tag] = profile
		}
	}
	return out
}

func (t Tables) PaceTable() pace.Table {
	return pace.DefaultTable().Merge(pace.Table{LeagueAverage: t.LeagueAveragePace, ByTeam: t.Pace})
}

func (t Tables) DvPTable() dvp.Table {
	return dvp.NewTable().Merge(dvp.Table{Ranks: t.DvP})
}

// Kernel builds a projection kernel over the built-in defaults with t applied.
func (t Tables) Kernel(report injury.Report) *Kernel {
	return NewKernel(t.PaceTable(), t.DvPTable(), ceiling.NewEngine().WithOverrides(t.Ceiling), report)
}
