package composer

import (
	"hash/fnv"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/riskibarqy/nba-trixie/internal/domain/market"
	"github.com/riskibarqy/nba-trixie/internal/domain/projection"
	"github.com/riskibarqy/nba-trixie/internal/domain/prop"
)

const (
	DefaultMaxCombinations = 20
	DefaultMinMinutes      = 18.0
	LegsPerTrixie          = 3

	perStrategyLimit = 20
	maxAttempts      = 400
	highCeilingRatio = 1.3
)

// Strategy names double as trixie sub-categories.
const (
	StrategyBalancedMix = "balanced_mix"
	StrategyHighCeiling = "high_ceiling"
	StrategySafeMix     = "safe_mix"
)

var poolOrder = []market.Market{market.PTS, market.AST, market.REB, prop.PoolCombo}

var poolFloors = map[market.Market]float64{
	market.PTS: 10,
	market.AST: 4,
	market.REB: 5,
}

var topK = map[prop.RiskProfile]int{
	prop.Conservative: 12,
	prop.Balanced:     16,
	prop.Aggressive:   20,
}

var diversityQuota = []struct {
	tier prop.Tier
	min  int
}{
	{tier: prop.TierFloor, min: 2},
	{tier: prop.TierMid, min: 3},
	{tier: prop.TierCeiling, min: 4},
}

var strategies = map[prop.RiskProfile][]string{
	prop.Conservative: {StrategySafeMix, StrategyBalancedMix},
	prop.Balanced:     {StrategyBalancedMix, StrategySafeMix, StrategyHighCeiling},
	prop.Aggressive:   {StrategyHighCeiling, StrategyBalancedMix},
}

type Config struct {
	MaxCombinations int
	MinMinutes      float64
}

// Input is one slate: the date and every projected player.
type Input struct {
	Date    string
	GameIDs []string
	Players []projection.Player
}

func (in Input) gameIDs() []string {
	if len(in.GameIDs) > 0 {
		return in.GameIDs
	}
	seen := make(map[string]struct{})
	var ids []string
	for _, p := range in.Players {
		if _, ok := seen[p.GameID]; ok || p.GameID == "" {
			continue
		}
		seen[p.GameID] = struct{}{}
		ids = append(ids, p.GameID)
	}
	return ids
}

// Composer builds the day's trixies per risk profile.
type Composer struct {
	builder *prop.Builder
	cfg     Config
}

func New(cfg Config) *Composer {
	if cfg.MaxCombinations <= 0 {
		cfg.MaxCombinations = DefaultMaxCombinations
	}
	if cfg.MinMinutes <= 0 {
		cfg.MinMinutes = DefaultMinMinutes
	}
	return &Composer{builder: prop.NewBuilder(), cfg: cfg}
}

// Seed hashes the sorted game ids and the calendar date.
func Seed(gameIDs []string, date string) uint32 {
	ids := append([]string(nil), gameIDs...)
	sort.Strings(ids)

	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.Join(ids, ",") + "|" + date))
	return h.Sum32()
}

// Compose returns the selected trixies for one profile ordered by final score.
func (c *Composer) Compose(in Input, profile prop.RiskProfile) ([]prop.Trixie, error) {
	rng := rand.New(rand.NewPCG(uint64(Seed(in.gameIDs(), in.Date)), uint64(profile.Index()+1)))

	pools := c.buildPools(in.Players, profile, rng)
	for key, legs := range pools {
		pools[key] = selectPool(legs, topK[profile])
	}

	seen := make(map[string]struct{})
	var candidates []prop.Trixie
	for _, strategy := range strategies[profile] {
		for _, legs := range c.runStrategy(strategy, pools, profile, rng) {
			trixie, err := prop.NewTrixie(profile, strategy, legs)
			if err != nil {
				return nil, err
			}
			if _, ok := seen[trixie.ID]; ok {
				continue
			}
			seen[trixie.ID] = struct{}{}

			trixie.ScoreOriginal = ScoreOriginal(legs)
			trixie.ScoreAdjusted = trixie.ScoreOriginal + ContextAdjustment(legs)
			candidates = append(candidates, trixie)
		}
	}

	return selectWithRotation(candidates, c.cfg.MaxCombinations), nil
}

// ComposeAll runs Compose for each profile and concatenates in profile order.
func (c *Composer) ComposeAll(in Input, profiles []prop.RiskProfile) ([]prop.Trixie, error) {
	var out []prop.Trixie
	for _, profile := range profiles {
		trixies, err := c.Compose(in, profile)
		if err != nil {
			return nil, err
		}
		out = append(out, trixies...)
	}
	return out, nil
}

func (c *Composer) buildPools(players []projection.Player, profile prop.RiskProfile, rng *rand.Rand) map[market.Market][]prop.Leg {
	ordered := append([]projection.Player(nil), players...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].GameID != ordered[j].GameID {
			return ordered[i].GameID < ordered[j].GameID
		}
		if ordered[i].Team() != ordered[j].Team() {
			return ordered[i].Team() < ordered[j].Team()
		}
		return ordered[i].Name() < ordered[j].Name()
	})

	pools := make(map[market.Market][]prop.Leg, len(poolOrder))
	for _, p := range ordered {
		if p.Adjusted.Min < c.cfg.MinMinutes || p.GameID == "" {
			continue
		}
		for _, m := range []market.Market{market.PTS, market.AST, market.REB} {
			if m.Value(p.Adjusted) < poolFloors[m] {
				continue
			}
			if leg, ok := c.builder.Build(p, m, profile, rng); ok {
				pools[m] = append(pools[m], leg)
			}
		}
		for _, m := range []market.Market{market.PTSAST, market.PTSREB} {
			if leg, ok := c.builder.Build(p, m, profile, rng); ok {
				pools[prop.PoolCombo] = append(pools[prop.PoolCombo], leg)
			}
		}
	}
	return pools
}

// selectPool keeps the top k legs by quality, then tops up each tier quota
// from the remainder.
func selectPool(legs []prop.Leg, k int) []prop.Leg {
	sorted := append([]prop.Leg(nil), legs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].QualityScore != sorted[j].QualityScore {
			return sorted[i].QualityScore > sorted[j].QualityScore
		}
		if sorted[i].Player != sorted[j].Player {
			return sorted[i].Player < sorted[j].Player
		}
		return sorted[i].Market < sorted[j].Market
	})
	if k <= 0 || len(sorted) <= k {
		return sorted
	}

	kept := append([]prop.Leg(nil), sorted[:k]...)
	rest := sorted[k:]
	counts := make(map[prop.Tier]int)
	for _, leg := range kept {
		counts[leg.Tier]++
	}

	used := make([]bool, len(rest))
	for _, quota := range diversityQuota {
		for i, leg := range rest {
			if counts[quota.tier] >= quota.min {
				break
			}
			if used[i] || leg.Tier != quota.tier {
				continue
			}
			used[i] = true
			kept = append(kept, leg)
			counts[quota.tier]++
		}
	}
	return kept
}

func (c *Composer) runStrategy(name string, pools map[market.Market][]prop.Leg, profile prop.RiskProfile, rng *rand.Rand) [][]prop.Leg {
	switch name {
	case StrategyBalancedMix:
		return balancedMix(pools, profile, rng)
	case StrategyHighCeiling:
		return filteredMix(pools, profile, rng, func(leg prop.Leg) bool {
			return leg.CeilingRatio > highCeilingRatio
		}, 2)
	case StrategySafeMix:
		return filteredMix(pools, profile, rng, func(leg prop.Leg) bool {
			return leg.Tier == prop.TierFloor || leg.Tier == prop.TierMid
		}, 1)
	default:
		return nil
	}
}

// balancedMix samples one leg per market, cycling markets when fewer than
// three pools are populated.
func balancedMix(pools map[market.Market][]prop.Leg, profile prop.RiskProfile, rng *rand.Rand) [][]prop.Leg {
	var markets []market.Market
	total := 0
	for _, m := range poolOrder {
		if n := len(pools[m]); n > 0 {
			markets = append(markets, m)
			total += n
		}
	}
	if total < LegsPerTrixie {
		return nil
	}

	acc := newAccumulator(profile)
	for attempt := 0; attempt < maxAttempts && !acc.full(); attempt++ {
		order := rng.Perm(len(markets))
		legs := make([]prop.Leg, 0, LegsPerTrixie)
		for i := 0; i < LegsPerTrixie; i++ {
			pool := pools[markets[order[i%len(order)]]]
			legs = append(legs, pool[rng.IntN(len(pool))])
		}
		acc.offer(legs)
	}
	return acc.combos
}

// filteredMix samples three distinct legs from the candidates passing keep
// and requires at least minMarkets distinct pools per combination.
func filteredMix(pools map[market.Market][]prop.Leg, profile prop.RiskProfile, rng *rand.Rand, keep func(prop.Leg) bool, minMarkets int) [][]prop.Leg {
	var candidates []prop.Leg
	for _, m := range poolOrder {
		for _, leg := range pools[m] {
			if keep(leg) {
				candidates = append(candidates, leg)
			}
		}
	}
	if len(candidates) < LegsPerTrixie {
		return nil
	}

	acc := newAccumulator(profile)
	for attempt := 0; attempt < maxAttempts && !acc.full(); attempt++ {
		idx := rng.Perm(len(candidates))[:LegsPerTrixie]
		legs := make([]prop.Leg, 0, LegsPerTrixie)
		markets := make(map[market.Market]struct{})
		for _, i := range idx {
			legs = append(legs, candidates[i])
			markets[candidates[i].Pool()] = struct{}{}
		}
		if len(markets) < minMarkets {
			continue
		}
		acc.offer(legs)
	}
	return acc.combos
}

type accumulator struct {
	profile prop.RiskProfile
	seen    map[string]struct{}
	combos  [][]prop.Leg
}

func newAccumulator(profile prop.RiskProfile) *accumulator {
	return &accumulator{profile: profile, seen: make(map[string]struct{})}
}

func (a *accumulator) full() bool {
	return len(a.combos) >= perStrategyLimit
}

func (a *accumulator) offer(legs []prop.Leg) {
	if Validate(legs, a.profile) != nil {
		return
	}
	key := comboKey(legs)
	if _, ok := a.seen[key]; ok {
		return
	}
	a.seen[key] = struct{}{}
	a.combos = append(a.combos, legs)
}

func comboKey(legs []prop.Leg) string {
	parts := make([]string, 0, len(legs))
	for _, leg := range legs {
		parts = append(parts, leg.Player+"|"+string(leg.Market))
	}
	sort.Strings(parts)
	return strings.Join(parts, ";")
}

// selectWithRotation greedily picks the best remaining trixie and decays
// the rest by player and team reuse.
func selectWithRotation(candidates []prop.Trixie, limit int) []prop.Trixie {
	remaining := append([]prop.Trixie(nil), candidates...)
	for i := range remaining {
		remaining[i].ScoreFinal = remaining[i].ScoreAdjusted
	}

	playerUsage := make(map[string]int)
	teamUsage := make(map[string]int)
	var picked []prop.Trixie

	for len(remaining) > 0 && len(picked) < limit {
		best := 0
		for i := 1; i < len(remaining); i++ {
			if better(remaining[i], remaining[best]) {
				best = i
			}
		}

		choice := remaining[best]
		picked = append(picked, choice)
		remaining = append(remaining[:best], remaining[best+1:]...)

		for _, leg := range choice.Legs {
			playerUsage[leg.Player]++
			teamUsage[leg.Team]++
		}
		for i := range remaining {
			remaining[i].ScoreFinal = remaining[i].ScoreAdjusted * rotationFactor(remaining[i].Legs, playerUsage, teamUsage)
		}
	}

	sort.SliceStable(picked, func(i, j int) bool {
		return better(picked[i], picked[j])
	})
	return picked
}

func better(a, b prop.Trixie) bool {
	if a.ScoreFinal != b.ScoreFinal {
		return a.ScoreFinal > b.ScoreFinal
	}
	return a.ID < b.ID
}
