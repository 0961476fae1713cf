package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/nba-trixie/internal/domain/game"
)

// FetchFunc returns the raw summary payload for a game.
type FetchFunc func(ctx context.Context, gameID string) ([]byte, error)

// Validator reconciles tickets against final box scores. It caches each box
// score for its lifetime, so create one per validation run.
type Validator struct {
	fetch FetchFunc
	now   func() time.Time
	boxes map[string]*BoxScore
	fails map[string]error
}

func NewValidator(fetch FetchFunc, now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{
		fetch: fetch,
		now:   now,
		boxes: make(map[string]*BoxScore),
		fails: make(map[string]error),
	}
}

// Validate resolves the ticket's pending legs. Fetch or parse failures leave
// the affected legs PENDING and are returned joined next to the ticket.
func (v *Validator) Validate(ctx context.Context, t Ticket) (Ticket, error) {
	if t.Status != StatusPending {
		return t, nil
	}

	var errs []error
	legs := append([]LegResult(nil), t.Legs...)
	for i, leg := range legs {
		if leg.Status != StatusPending || game.IsSynthetic(leg.GameID) {
			continue
		}

		box, err := v.box(ctx, leg.GameID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		legs[i] = ResolveLeg(leg, box)
	}
	t.Legs = legs

	if next := DeriveStatus(legs); next != StatusPending {
		if err := t.Transition(next, v.now()); err != nil {
			errs = append(errs, err)
		}
	}

	return t, errors.Join(errs...)
}

func (v *Validator) box(ctx context.Context, gameID string) (*BoxScore, error) {
	if box, ok := v.boxes[gameID]; ok {
		return box, nil
	}
	if err, ok := v.fails[gameID]; ok {
		return nil, err
	}

	raw, err := v.fetch(ctx, gameID)
	if err != nil {
		err = fmt.Errorf("fetch box score %s: %w", gameID, err)
		v.fails[gameID] = err
		return nil, err
	}
	box, err := ParseBoxScore(gameID, raw)
	if err != nil {
		v.fails[gameID] = err
		return nil, err
	}

	v.boxes[gameID] = box
	return box, nil
}

// ResolveLeg settles one leg against a box score. Incomplete games and
// missing stat labels keep the leg PENDING; a completed game without the
// player is a LOSS with zero.
func ResolveLeg(leg LegResult, box *BoxScore) LegResult {
	if box == nil || !box.Completed || leg.Status != StatusPending {
		return leg
	}

	line, found := box.Find(leg.Player)
	if !found {
		zero := 0.0
		leg.Actual = &zero
		leg.Status = StatusLoss
		return leg
	}

	actual, ok := line.Stat(leg.Market)
	if !ok {
		return leg
	}
	leg.Actual = &actual
	if actual >= leg.Line {
		leg.Status = StatusWin
	} else {
		leg.Status = StatusLoss
	}
	return leg
}
