package game

import (
	"testing"
	"time"
)

func TestBlowoutRiskFromSpread(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spread float64
		want   BlowoutRisk
	}{
		{spread: 0, want: BlowoutLow},
		{spread: 7.5, want: BlowoutLow},
		{spread: 8, want: BlowoutMedium},
		{spread: 11.5, want: BlowoutMedium},
		{spread: 12, want: BlowoutHigh},
		{spread: 14.5, want: BlowoutHigh},
		{spread: 15, want: BlowoutExtreme},
	}
	for _, tt := range tests {
		if got := BlowoutRiskFromSpread(tt.spread); got != tt.want {
			t.Fatalf("BlowoutRiskFromSpread(%v)=%s want=%s", tt.spread, got, tt.want)
		}
	}
}

func TestNew_DerivesFields(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 11, 15, 0, 30, 0, 0, time.UTC)
	g := New("0022400123", "ny", "gs", -12.5, 228.5, start)

	if g.GameID != "0022400123" {
		t.Fatalf("numeric id must be kept, got %q", g.GameID)
	}
	if g.Home != "NYK" || g.Away != "GSW" {
		t.Fatalf("teams must be normalized, got home=%s away=%s", g.Home, g.Away)
	}
	if g.SpreadAbs != 12.5 || g.BlowoutRisk != BlowoutHigh {
		t.Fatalf("unexpected spread derivation: abs=%v risk=%s", g.SpreadAbs, g.BlowoutRisk)
	}
	if g.PaceFactor != 1.0 {
		t.Fatalf("expected neutral pace factor, got %v", g.PaceFactor)
	}
	if g.Info() != "GSW @ NYK" {
		t.Fatalf("unexpected info %q", g.Info())
	}
}

func TestNew_SyntheticID(t *testing.T) {
	t.Parallel()

	g := New("", "BOS", "MIA", 3, 220, time.Time{})
	if g.GameID != "MIA@BOS" {
		t.Fatalf("expected synthetic id, got %q", g.GameID)
	}
	if !IsSynthetic(g.GameID) || IsSynthetic("0022400123") {
		t.Fatalf("unexpected IsSynthetic result")
	}
}

func TestWithPaceFactor_Clips(t *testing.T) {
	t.Parallel()

	g := New("1", "BOS", "MIA", 0, 0, time.Time{})
	if got := g.WithPaceFactor(1.4).PaceFactor; got != MaxPaceFactor {
		t.Fatalf("expected clip to %v, got %v", MaxPaceFactor, got)
	}
	if got := g.WithPaceFactor(0.5).PaceFactor; got != MinPaceFactor {
		t.Fatalf("expected clip to %v, got %v", MinPaceFactor, got)
	}
}

func TestRestFlags(t *testing.T) {
	t.Parallel()

	g := New("1", "BOS", "MIA", 0, 0, time.Time{})
	g.AwayBackToBack = true

	if !g.BackToBack("MIA") || g.BackToBack("BOS") {
		t.Fatalf("unexpected back-to-back flags")
	}
	if !g.RestAdvantage("BOS") || g.RestAdvantage("MIA") {
		t.Fatalf("unexpected rest advantage flags")
	}
	if opp, ok := g.Opponent("MIA"); !ok || opp != "BOS" {
		t.Fatalf("unexpected opponent %q", opp)
	}
}
