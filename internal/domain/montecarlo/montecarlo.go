package montecarlo

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/rand/v2"

	"github.com/sourcegraph/conc/iter"

	"github.com/riskibarqy/nba-trixie/internal/domain/market"
	"github.com/riskibarqy/nba-trixie/internal/domain/prop"
)

const (
	DefaultSamples       = 5000
	MaxFairOdds          = 99.0
	ValueEdge            = 0.02
	DefaultKellyFraction = 0.25
)

var defaultCV = map[market.Market]float64{
	market.PTS:     0.25,
	market.REB:     0.35,
	market.AST:     0.40,
	market.ThreePM: 0.50,
	market.STL:     0.80,
	market.BLK:     0.80,
	market.PRA:     0.30,
}

// DefaultCV returns the coefficient of variation used for the market.
func DefaultCV(m market.Market) float64 {
	if cv, ok := defaultCV[m]; ok {
		return cv
	}
	return defaultCV[market.PRA]
}

// Quote is the pricing of one over line.
type Quote struct {
	Market      market.Market `json:"market"`
	Mean        float64       `json:"mean"`
	Line        float64       `json:"line"`
	Samples     int           `json:"samples"`
	Probability float64       `json:"probability"`
	FairOdds    float64       `json:"fair_odds"`
	OfferedOdds float64       `json:"offered_odds,omitempty"`
	Edge        float64       `json:"edge"`
	Value       bool          `json:"value"`
}

type Simulator struct {
	Samples int
}

func NewSimulator(samples int) *Simulator {
	if samples <= 0 {
		samples = DefaultSamples
	}
	return &Simulator{Samples: samples}
}

// OverProbability is the fraction of samples at or above the threshold of the
// line. A half line needs the next integer; an integer line needs itself.
// cv <= 0 selects the market default.
func (s *Simulator) OverProbability(mean, line float64, m market.Market, cv float64) float64 {
	if mean <= 0 {
		return 0
	}
	if cv <= 0 {
		cv = DefaultCV(m)
	}

	threshold := math.Ceil(line)
	rng := rand.New(rand.NewPCG(seed(m, mean), uint64(s.Samples)))

	hits := 0
	for i := 0; i < s.Samples; i++ {
		var v float64
		if m.IsRareCount() {
			v = float64(poisson(rng, mean))
		} else {
			v = math.Max(0, mean+rng.NormFloat64()*mean*cv)
		}
		if v >= threshold {
			hits++
		}
	}
	return float64(hits) / float64(s.Samples)
}

// Price builds a full quote against the offered odds.
func (s *Simulator) Price(mean, line float64, m market.Market, cv, offered float64) Quote {
	p := s.OverProbability(mean, line, m, cv)
	q := Quote{
		Market:      m,
		Mean:        mean,
		Line:        line,
		Samples:     s.Samples,
		Probability: p,
		FairOdds:    FairOdds(p),
		OfferedOdds: offered,
	}
	if offered > 0 {
		q.Edge = Edge(p, offered)
		q.Value = q.Edge > ValueEdge
	}
	return q
}

// PriceLegs fills probability, fair odds and edge on every leg. Each leg has
// its own RNG stream so the result does not depend on scheduling.
func (s *Simulator) PriceLegs(legs []prop.Leg) []prop.Leg {
	return iter.Map(legs, func(leg *prop.Leg) prop.Leg {
		out := *leg
		q := s.Price(out.ProjectedMean, out.Line, out.Market, 0, out.Odds)
		out.Probability = q.Probability
		out.FairOdds = q.FairOdds
		out.Edge = q.Edge
		return out
	})
}

func FairOdds(p float64) float64 {
	if p <= 0 {
		return MaxFairOdds
	}
	return math.Min(MaxFairOdds, 1/p)
}

func Edge(p, offered float64) float64 {
	return p*offered - 1
}

// Kelly returns the fractional Kelly stake share, floored at zero.
func Kelly(p, offered, fraction float64) float64 {
	if offered <= 1 {
		return 0
	}
	if fraction <= 0 {
		fraction = DefaultKellyFraction
	}
	b := offered - 1
	f := fraction * (p*b - (1 - p)) / b
	return math.Max(0, f)
}

// poisson uses Knuth's multiplication method; means here stay small.
func poisson(rng *rand.Rand, mean float64) int {
	limit := math.Exp(-mean)
	k := 0
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}

func seed(m market.Market, mean float64) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(m))
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(mean))
	_, _ = h.Write(buf[:])
	return h.Sum64()
}
