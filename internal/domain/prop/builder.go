package prop

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/riskibarqy/nba-trixie/internal/domain/market"
	"github.com/riskibarqy/nba-trixie/internal/domain/projection"
	"github.com/riskibarqy/nba-trixie/internal/domain/thesis"
)

const (
	MinOdds      = 1.20
	MaxOdds      = 3.50
	MinComboOdds = 1.80
	MaxComboOdds = 4.00

	comboPtsFloor   = 12.0
	comboOtherFloor = 5.0
)

var tierBaseOdds = map[Tier]float64{
	TierFloor:   1.40,
	TierMid:     1.80,
	TierCeiling: 2.20,
}

var tierWeights = map[RiskProfile][3]float64{
	Conservative: {0.60, 0.35, 0.05},
	Balanced:     {0.30, 0.45, 0.25},
	Aggressive:   {0.10, 0.35, 0.55},
}

var ptsMultipliers = map[RiskProfile][3]float64{
	Conservative: {0.75, 0.85, 0.95},
	Balanced:     {0.80, 0.92, 1.05},
	Aggressive:   {0.85, 1.00, 1.15},
}

var comboBaseOdds = map[RiskProfile]float64{
	Conservative: 2.20,
	Balanced:     2.35,
	Aggressive:   2.50,
}

// TierWeights returns the profile's FLOOR/MID/CEILING probabilities after
// context reweighting, normalized to sum to one.
func TierWeights(p projection.Player, profile RiskProfile) [3]float64 {
	w, ok := tierWeights[profile]
	if !ok {
		w = tierWeights[Balanced]
	}

	switch {
	case p.MatchupScore >= 65:
		w[2] *= 1.3
		w[0] *= 0.8
	case p.MatchupScore <= 35:
		w[0] *= 1.3
		w[2] *= 0.7
	}
	if p.BlowoutRisk.AtLeastHigh() {
		w[0] *= 1.4
		w[2] *= 0.7
	}
	switch {
	case p.CeilingRatio > 1.3:
		w[2] *= 1.3
	case p.CeilingRatio > 0 && p.CeilingRatio < 0.9:
		w[0] *= 1.3
	}

	total := w[0] + w[1] + w[2]
	if total <= 0 {
		return [3]float64{0, 1, 0}
	}
	for i := range w {
		w[i] /= total
	}
	return w
}

// SelectTier samples a tier from the reweighted distribution. A nil rng
// picks the most likely tier.
func SelectTier(p projection.Player, profile RiskProfile, rng *rand.Rand) Tier {
	w := TierWeights(p, profile)
	tiers := Tiers()

	if rng == nil {
		best := 0
		for i := range w {
			if w[i] > w[best] {
				best = i
			}
		}
		return tiers[best]
	}

	draw := rng.Float64()
	var acc float64
	for i, weight := range w {
		acc += weight
		if draw < acc {
			return tiers[i]
		}
	}
	return tiers[len(tiers)-1]
}

// Multiplier is the line multiplier for (market, profile, tier). REB and AST
// sit slightly above the points ladder.
func Multiplier(m market.Market, profile RiskProfile, tier Tier) float64 {
	ladder, ok := ptsMultipliers[profile]
	if !ok {
		ladder = ptsMultipliers[Balanced]
	}
	v := ladder[tierIndex(tier)]
	if m == market.REB || m == market.AST {
		v += 0.05
	}
	return v
}

// RoundLine applies the per-market rounding rule to a raw line.
func RoundLine(m market.Market, raw float64) float64 {
	switch m {
	case market.STL, market.BLK:
		if raw >= 1.25 {
			return 1.5
		}
		return 1.0
	case market.ThreePM:
		return math.Max(0.5, halfPoint(raw))
	case market.REB, market.AST:
		return math.Max(1, halfPoint(raw))
	default:
		return math.Max(1, math.Round(raw))
	}
}

// Odds prices a single-market leg. It is deterministic for its inputs.
func Odds(tier Tier, multiplier, ceilingRatio float64) float64 {
	odds := tierBaseOdds[tier] + 0.5*math.Abs(multiplier-1.0)
	switch {
	case ceilingRatio > 1.2:
		odds -= 0.10
	case ceilingRatio > 0 && ceilingRatio < 0.9:
		odds += 0.15
	}
	return round2(clamp(odds, MinOdds, MaxOdds))
}

// ComboOdds prices a two-stat sum leg from the profile base and matchup.
func ComboOdds(profile RiskProfile, matchupScore float64) float64 {
	base, ok := comboBaseOdds[profile]
	if !ok {
		base = comboBaseOdds[Balanced]
	}
	return round2(clamp(base*(0.9+matchupScore/500), MinComboOdds, MaxComboOdds))
}

// Quality ranks a leg inside its pool.
func Quality(p projection.Player, winRate float64) float64 {
	return winRate*6 + p.MatchupScore/25 + (p.CeilingRatio-1)*4 + p.Role.QualityBonus()
}

// Builder turns projected players into concrete legs.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// Build creates a leg for the market. It reports false when the market has no
// usable average or a combo component misses its floor.
func (b *Builder) Build(p projection.Player, m market.Market, profile RiskProfile, rng *rand.Rand) (Leg, bool) {
	if !m.Valid() {
		return Leg{}, false
	}
	if m.IsCombo() {
		return b.buildCombo(p, m, profile, rng)
	}

	avg := m.Value(p.Adjusted)
	if avg <= 0 {
		return Leg{}, false
	}

	tier := SelectTier(p, profile, rng)
	mult := Multiplier(m, profile, tier)
	line := RoundLine(m, avg*mult)

	leg := b.base(p, m, avg)
	leg.Tier = tier
	leg.Line = line
	leg.Odds = Odds(tier, mult, p.CeilingRatio)
	leg.MarketDisplay = market.Display(m, line, nil)
	return leg, true
}

func (b *Builder) buildCombo(p projection.Player, m market.Market, profile RiskProfile, rng *rand.Rand) (Leg, bool) {
	parts := m.Components()
	for _, part := range parts {
		floor := comboOtherFloor
		if part == market.PTS {
			floor = comboPtsFloor
		}
		if part.Value(p.Adjusted) < floor {
			return Leg{}, false
		}
	}

	tier := SelectTier(p, profile, rng)
	lines := make([]float64, 0, len(parts))
	var total float64
	for _, part := range parts {
		line := RoundLine(part, part.Value(p.Adjusted)*Multiplier(part, profile, tier))
		lines = append(lines, line)
		total += line
	}

	leg := b.base(p, m, m.Value(p.Adjusted))
	leg.Tier = tier
	leg.Line = total
	leg.ComponentLines = lines
	leg.Odds = ComboOdds(profile, p.MatchupScore)
	leg.MarketDisplay = market.Display(m, total, lines)
	return leg, true
}

func (b *Builder) base(p projection.Player, m market.Market, avg float64) Leg {
	text, kind, winRate := thesisFor(p, m, avg)
	return Leg{
		PlayerID:      p.Line.PlayerID,
		Player:        p.Name(),
		Team:          p.Team(),
		GameID:        p.GameID,
		Opponent:      p.Opponent,
		Market:        m,
		ThesisText:    text,
		ThesisKind:    kind,
		QualityScore:  Quality(p, winRate),
		GameInfo:      p.Game.Info(),
		MatchupScore:  p.MatchupScore,
		CeilingRatio:  p.CeilingRatio,
		BlowoutRisk:   p.BlowoutRisk,
		Role:          p.Role,
		RiskLevel:     p.RiskLevel,
		Minutes:       p.Adjusted.Min,
		ProjectedMean: avg,
		WinRate:       winRate,
	}
}

func thesisFor(p projection.Player, m market.Market, avg float64) (string, thesis.Type, float64) {
	if best, ok := thesis.Best(thesis.Generate(p), m); ok {
		return best.Reason, best.Type, best.WinRate
	}
	fallback := thesis.Fallback(p)
	return fmt.Sprintf("Averaging %.1f %s over L5", avg, m), thesis.ScorerLine, fallback.WinRate
}

func tierIndex(t Tier) int {
	switch t {
	case TierFloor:
		return 0
	case TierCeiling:
		return 2
	default:
		return 1
	}
}

func halfPoint(v float64) float64 {
	whole := math.Floor(v)
	if v-whole >= 0.5 {
		return whole + 0.5
	}
	return whole
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
