package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/nba-trixie/internal/domain/market"
	"github.com/riskibarqy/nba-trixie/internal/domain/montecarlo"
)

type QuoteInput struct {
	Market        market.Market
	Mean          float64
	Line          float64
	CV            float64
	OfferedOdds   float64
	KellyFraction float64
}

type QuoteOutput struct {
	montecarlo.Quote
	Stake float64 `json:"kelly_stake"`
}

// PricingService prices a single over with the Monte Carlo model.
type PricingService struct {
	sim *montecarlo.Simulator
}

func NewPricingService(samples int) *PricingService {
	return &PricingService{sim: montecarlo.NewSimulator(samples)}
}

func (s *PricingService) Quote(ctx context.Context, in QuoteInput) (QuoteOutput, error) {
	_, span := startUsecaseSpan(ctx, "usecase.PricingService.Quote")
	defer span.End()

	if !in.Market.Valid() {
		return QuoteOutput{}, fmt.Errorf("%w: unknown market %q", ErrInvalidInput, in.Market)
	}
	if in.Mean < 0 || in.Line < 0 {
		return QuoteOutput{}, fmt.Errorf("%w: mean and line must be >= 0", ErrInvalidInput)
	}
	if in.OfferedOdds != 0 && in.OfferedOdds <= 1 {
		return QuoteOutput{}, fmt.Errorf("%w: offered odds must be > 1", ErrInvalidInput)
	}

	fraction := in.KellyFraction
	if fraction <= 0 {
		fraction = montecarlo.DefaultKellyFraction
	}

	q := s.sim.Price(in.Mean, in.Line, in.Market, in.CV, in.OfferedOdds)
	out := QuoteOutput{Quote: q}
	if in.OfferedOdds > 0 {
		out.Stake = montecarlo.Kelly(q.Probability, in.OfferedOdds, fraction)
	}
	return out, nil
}
