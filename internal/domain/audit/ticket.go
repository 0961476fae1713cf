package audit

import (
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/nba-trixie/internal/domain/market"
	"github.com/riskibarqy/nba-trixie/internal/domain/prop"
)

// DefaultCapacity is how many recent tickets the log retains.
const DefaultCapacity = 500

type Status string

const (
	StatusPending Status = "PENDING"
	StatusWin     Status = "WIN"
	StatusLoss    Status = "LOSS"
	StatusVoid    Status = "VOID"
)

var ErrInvalidTransition = errors.New("invalid ticket status transition")

func (s Status) Final() bool {
	return s == StatusWin || s == StatusLoss || s == StatusVoid
}

// LegResult is a leg as stored on a ticket, with its reconciliation state.
type LegResult struct {
	Player         string        `json:"player"`
	Team           string        `json:"team"`
	GameID         string        `json:"game_id"`
	Market         market.Market `json:"market"`
	Line           float64       `json:"line"`
	ComponentLines []float64     `json:"component_lines,omitempty"`
	Odds           float64       `json:"odds"`
	Tier           prop.Tier     `json:"risk"`
	MarketDisplay  string        `json:"market_display"`
	ThesisText     string        `json:"thesis_text,omitempty"`
	Actual         *float64      `json:"actual_value"`
	Status         Status        `json:"status"`
}

// Ticket is one logged trixie.
type Ticket struct {
	ID          string      `json:"id"`
	Timestamp   time.Time   `json:"timestamp"`
	Status      Status      `json:"status"`
	Category    string      `json:"category"`
	SubCategory string      `json:"sub_category"`
	TotalOdd    float64     `json:"total_odd"`
	Source      string      `json:"source"`
	GameInfo    string      `json:"game_info"`
	Legs        []LegResult `json:"legs"`
	ValidatedAt *time.Time  `json:"validated_at,omitempty"`
}

// NewTicket converts a trixie into a PENDING ticket. The id is recomputed
// from content so tickets logged from edited trixies stay consistent.
func NewTicket(t prop.Trixie, source string, now time.Time) (Ticket, error) {
	if len(t.Legs) == 0 {
		return Ticket{}, fmt.Errorf("ticket needs at least one leg")
	}

	ticketID, err := prop.TicketID(t.Category, t.SubCategory, t.GameInfo, t.Legs)
	if err != nil {
		return Ticket{}, err
	}

	legs := make([]LegResult, 0, len(t.Legs))
	for _, leg := range t.Legs {
		legs = append(legs, LegResult{
			Player:         leg.Player,
			Team:           leg.Team,
			GameID:         leg.GameID,
			Market:         leg.Market,
			Line:           leg.Line,
			ComponentLines: leg.ComponentLines,
			Odds:           leg.Odds,
			Tier:           leg.Tier,
			MarketDisplay:  leg.MarketDisplay,
			ThesisText:     leg.ThesisText,
			Status:         StatusPending,
		})
	}

	totalOdd := t.TotalOdd
	if totalOdd <= 0 {
		totalOdd = prop.TotalOdd(t.Legs)
	}

	return Ticket{
		ID:          ticketID,
		Timestamp:   now.UTC(),
		Status:      StatusPending,
		Category:    string(t.Category),
		SubCategory: t.SubCategory,
		TotalOdd:    totalOdd,
		Source:      source,
		GameInfo:    t.GameInfo,
		Legs:        legs,
	}, nil
}

// DeriveStatus: any LOSS is LOSS, all WIN is WIN, anything else is PENDING.
func DeriveStatus(legs []LegResult) Status {
	if len(legs) == 0 {
		return StatusPending
	}
	wins := 0
	for _, leg := range legs {
		switch leg.Status {
		case StatusLoss:
			return StatusLoss
		case StatusWin:
			wins++
		}
	}
	if wins == len(legs) {
		return StatusWin
	}
	return StatusPending
}

// Transition moves a ticket out of PENDING. Final states never change.
func (t *Ticket) Transition(to Status, now time.Time) error {
	if t.Status == to {
		return nil
	}
	if t.Status != StatusPending || !to.Final() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, to)
	}
	t.Status = to
	at := now.UTC()
	t.ValidatedAt = &at
	return nil
}

// Log is the capped, newest-first ticket list.
type Log struct {
	Tickets  []Ticket
	Capacity int
}

func NewLog(tickets []Ticket, capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	l := &Log{Tickets: tickets, Capacity: capacity}
	l.trim()
	return l
}

// Insert puts t at the front and trims to capacity. A known id is a no-op.
func (l *Log) Insert(t Ticket) bool {
	if _, ok := l.Find(t.ID); ok {
		return false
	}
	l.Tickets = append([]Ticket{t}, l.Tickets...)
	l.trim()
	return true
}

func (l *Log) Find(ticketID string) (int, bool) {
	for i, t := range l.Tickets {
		if t.ID == ticketID {
			return i, true
		}
	}
	return -1, false
}

// Replace swaps the stored ticket with the same id.
func (l *Log) Replace(t Ticket) bool {
	idx, ok := l.Find(t.ID)
	if !ok {
		return false
	}
	l.Tickets[idx] = t
	return true
}

// Pending lists the ids of tickets still awaiting results, newest first.
func (l *Log) Pending() []string {
	var out []string
	for _, t := range l.Tickets {
		if t.Status == StatusPending {
			out = append(out, t.ID)
		}
	}
	return out
}

func (l *Log) trim() {
	if len(l.Tickets) > l.Capacity {
		l.Tickets = l.Tickets[:l.Capacity]
	}
}
