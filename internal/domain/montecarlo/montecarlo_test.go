package montecarlo

import (
	"math"
	"testing"

	"github.com/riskibarqy/nba-trixie/internal/domain/market"
	"github.com/riskibarqy/nba-trixie/internal/domain/prop"
)

func TestOverProbability_NormalPoints(t *testing.T) {
	t.Parallel()

	sim := NewSimulator(DefaultSamples)

	atMean := sim.OverProbability(20, 20, market.PTS, 0.25)
	if math.Abs(atMean-0.50) > 0.02 {
		t.Fatalf("expected ~0.50 at the mean, got %v", atMean)
	}
	high := sim.OverProbability(20, 25, market.PTS, 0.25)
	if math.Abs(high-0.16) > 0.02 {
		t.Fatalf("expected ~0.16 one sigma up, got %v", high)
	}
}

func TestOverProbability_MonotoneInLine(t *testing.T) {
	t.Parallel()

	sim := NewSimulator(DefaultSamples)
	for _, m := range []market.Market{market.PTS, market.REB, market.ThreePM, market.STL} {
		prev := 1.0
		for line := 0.5; line <= 30; line += 0.5 {
			p := sim.OverProbability(12, line, m, 0)
			if p > prev {
				t.Fatalf("%s: probability rose from %v to %v at line %v", m, prev, p, line)
			}
			prev = p
		}
	}
}

func TestOverProbability_HalfLineThreshold(t *testing.T) {
	t.Parallel()

	sim := NewSimulator(DefaultSamples)
	if a, b := sim.OverProbability(2, 1.5, market.BLK, 0), sim.OverProbability(2, 2, market.BLK, 0); a != b {
		t.Fatalf("1.5 and 2 must share the >=2 threshold: %v vs %v", a, b)
	}
	if got := sim.OverProbability(0, 0.5, market.STL, 0); got != 0 {
		t.Fatalf("zero mean must give zero probability, got %v", got)
	}
}

func TestPrice_FairOddsAndEdge(t *testing.T) {
	t.Parallel()

	q := NewSimulator(DefaultSamples).Price(20, 20, market.PTS, 0.25, 2.2)
	if math.Abs(q.FairOdds-1/q.Probability) > 1e-9 {
		t.Fatalf("unexpected fair odds: %+v", q)
	}
	if math.Abs(q.Edge-(q.Probability*2.2-1)) > 1e-9 || !q.Value {
		t.Fatalf("expected positive value edge: %+v", q)
	}
	if FairOdds(0) != MaxFairOdds || FairOdds(0.001) != MaxFairOdds {
		t.Fatalf("fair odds must cap at %v", MaxFairOdds)
	}
}

func TestKelly(t *testing.T) {
	t.Parallel()

	if got := Kelly(0.6, 2.0, 0.25); math.Abs(got-0.05) > 1e-9 {
		t.Fatalf("unexpected kelly: %v", got)
	}
	if got := Kelly(0.3, 2.0, 0.25); got != 0 {
		t.Fatalf("negative edge must stake nothing, got %v", got)
	}
	if got := Kelly(0.6, 1.0, 0.25); got != 0 {
		t.Fatalf("even odds of 1.0 must stake nothing, got %v", got)
	}
}

func TestPriceLegs_DeterministicAndOrderFree(t *testing.T) {
	t.Parallel()

	legs := []prop.Leg{
		{Player: "A", Market: market.PTS, ProjectedMean: 24, Line: 22, Odds: 1.85},
		{Player: "B", Market: market.ThreePM, ProjectedMean: 2.8, Line: 2.5, Odds: 2.1},
		{Player: "C", Market: market.REB, ProjectedMean: 9, Line: 8.5, Odds: 1.9},
	}
	sim := NewSimulator(2000)

	first := sim.PriceLegs(legs)
	second := sim.PriceLegs([]prop.Leg{legs[2], legs[0], legs[1]})

	if first[0].Probability != second[1].Probability || first[2].Probability != second[0].Probability {
		t.Fatalf("pricing must not depend on leg order")
	}
	for _, leg := range first {
		if leg.Probability <= 0 || leg.Probability >= 1 {
			t.Fatalf("unexpected probability for %s: %v", leg.Player, leg.Probability)
		}
	}
}
