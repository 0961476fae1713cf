package projection

import (
	"github.com/riskibarqy/nba-trixie/internal/domain/archetype"
	"github.com/riskibarqy/nba-trixie/internal/domain/ceiling"
	"github.com/riskibarqy/nba-trixie/internal/domain/dvp"
	"github.com/riskibarqy/nba-trixie/internal/domain/game"
	"github.com/riskibarqy/nba-trixie/internal/domain/injury"
	"github.com/riskibarqy/nba-trixie/internal/domain/pace"
	"github.com/riskibarqy/nba-trixie/internal/domain/player"
	"github.com/riskibarqy/nba-trixie/internal/domain/team"
	"github.com/riskibarqy/nba-trixie/internal/domain/vacuum"
)

// MaxVolumeBoost bounds pace × vacuum on any volume stat.
const MaxVolumeBoost = 1.72

// Player is a line enriched with tonight's context.
type Player struct {
	Line         player.Line         `json:"line"`
	GameID       string              `json:"game_id"`
	Opponent     string              `json:"opponent"`
	Home         bool                `json:"home"`
	Adjusted     player.Stats        `json:"adjusted_stats"`
	PaceFactor   float64             `json:"pace_factor"`
	Vacuum       *vacuum.Entry       `json:"vacuum,omitempty"`
	DvPRank      int                 `json:"dvp_rank"`
	MatchupScore float64             `json:"matchup_score"`
	CeilingRatio float64             `json:"ceiling_ratio"`
	Ceiling      ceiling.Projection  `json:"ceiling"`
	Archetypes   []archetype.Scored  `json:"archetypes"`
	Role         archetype.Role      `json:"role"`
	RiskLevel    archetype.RiskLevel `json:"risk_level"`
	BlowoutRisk  game.BlowoutRisk    `json:"blowout_risk"`
	Game         game.Context        `json:"-"`
}

func (p Player) Name() string {
	return p.Line.DisplayName
}

func (p Player) Team() string {
	return p.Line.Team
}

func (p Player) HasVacuum() bool {
	return p.Vacuum != nil && p.Vacuum.Boost > 1
}

// Tags lists archetype tags, strongest first.
func (p Player) Tags() []archetype.Tag {
	return archetype.Tags(p.Archetypes)
}

// Result is one projection run. Blocked names the players withheld because of
// injury status.
type Result struct {
	Players []Player `json:"players"`
	Blocked []string `json:"blocked"`
}

// Kernel fuses the reference tables and injury report into projections.
type Kernel struct {
	Pace     pace.Table
	DvP      dvp.Table
	Ceiling  *ceiling.Engine
	Injuries injury.Report
}

func NewKernel(paceTable pace.Table, dvpTable dvp.Table, engine *ceiling.Engine, report injury.Report) *Kernel {
	if engine == nil {
		engine = ceiling.NewEngine()
	}
	return &Kernel{
		Pace:     paceTable,
		DvP:      dvpTable,
		Ceiling:  engine,
		Injuries: report,
	}
}

// IsOut reports whether a line must not be emitted tonight.
func (k *Kernel) IsOut(line player.Line) bool {
	if line.Status.Unavailable() {
		return true
	}
	return k.Injuries.IsBlocked(line.DisplayName, line.Team)
}

// Project walks every game in order and projects both rosters. Output order
// follows the game order, then roster order.
func (k *Kernel) Project(games []game.Context, lines []player.Line) Result {
	rosters := make(map[string][]player.Line)
	for _, line := range lines {
		line.Team = team.Normalize(line.Team)
		if line.Key == "" {
			line.Key = player.CanonicalizeName(line.DisplayName)
		}
		rosters[line.Team] = append(rosters[line.Team], line)
	}

	var result Result
	for _, g := range games {
		g = k.Pace.Apply(g)
		for _, code := range []string{g.Home, g.Away} {
			players, blocked := k.projectTeam(g, code, rosters[code])
			result.Players = append(result.Players, players...)
			result.Blocked = append(result.Blocked, blocked...)
		}
	}
	return result
}

func (k *Kernel) projectTeam(g game.Context, code string, roster []player.Line) ([]Player, []string) {
	if len(roster) == 0 {
		return nil, nil
	}

	matrix := vacuum.Build(roster, k.IsOut)
	opponent, _ := g.Opponent(code)

	absentees := 0
	for _, line := range roster {
		if k.IsOut(line) {
			absentees++
		}
	}
	if listed := len(k.Injuries.Absentees(code)); listed > absentees {
		absentees = listed
	}

	ctx := ceiling.Context{
		TeamAbsentees: absentees,
		PaceFactor:    g.PaceFactor,
		BackToBack:    g.BackToBack(code),
		Away:          !g.IsHome(code),
		RestAdvantage: g.RestAdvantage(code),
		Total:         g.Total,
		SpreadAbs:     g.SpreadAbs,
	}

	var (
		players []Player
		blocked []string
	)
	for _, line := range roster {
		if k.IsOut(line) {
			blocked = append(blocked, line.DisplayName)
			continue
		}

		adjusted := pace.Adjust(line.Stats, g.PaceFactor)
		var vac *vacuum.Entry
		if entry, ok := matrix.Lookup(line); ok {
			entry.Boost = capBoost(entry.Boost, g.PaceFactor)
			adjusted = vacuum.Apply(adjusted, entry)
			vac = &entry
		}

		scored := archetype.Classify(line)
		role, risk := archetype.ClassifyRole(line)
		rank := k.DvP.Rank(opponent, line.Position)
		ceil := k.Ceiling.Project(adjusted, archetype.Tags(scored), ctx)

		players = append(players, Player{
			Line:         line,
			GameID:       g.GameID,
			Opponent:     opponent,
			Home:         g.IsHome(code),
			Adjusted:     adjusted,
			PaceFactor:   g.PaceFactor,
			Vacuum:       vac,
			DvPRank:      rank,
			MatchupScore: dvp.MatchupScore(rank),
			CeilingRatio: ceil.Ratio,
			Ceiling:      ceil,
			Archetypes:   scored,
			Role:         role,
			RiskLevel:    risk,
			BlowoutRisk:  g.BlowoutRisk,
			Game:         g,
		})
	}

	return players, blocked
}

// capBoost shrinks the vacuum share so pace × vacuum stays within MaxVolumeBoost.
func capBoost(boost, paceFactor float64) float64 {
	if paceFactor <= 0 {
		return boost
	}
	if paceFactor*boost > MaxVolumeBoost {
		boost = MaxVolumeBoost / paceFactor
	}
	if boost < 1 {
		return 1
	}
	return boost
}
