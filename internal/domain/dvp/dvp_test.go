package dvp

import (
	"math"
	"testing"
)

func TestRank_ClampsAndDefaults(t *testing.T) {
	t.Parallel()

	table := NewTable()
	table.Set("BOS", "PG", 0)
	table.Set("BOS", "C", 45)
	table.Set("ny", "SG", 27)

	if got := table.Rank("BOS", "PG"); got != 1 {
		t.Fatalf("rank below 1 must clamp to 1, got %d", got)
	}
	if got := table.Rank("BOS", "C"); got != 30 {
		t.Fatalf("rank above 30 must clamp to 30, got %d", got)
	}
	if got := table.Rank("NYK", "SG"); got != 27 {
		t.Fatalf("team variants must resolve, got %d", got)
	}
	if got := table.Rank("MIA", "PF"); got != NeutralRank {
		t.Fatalf("missing opponent must be neutral, got %d", got)
	}
	if got := table.Rank("BOS", "SF"); got != NeutralRank {
		t.Fatalf("missing position must be neutral, got %d", got)
	}
	if got := table.Rank("NYK", "SG-SF"); got != 27 {
		t.Fatalf("hyphenated position must use its primary slot, got %d", got)
	}
}

func TestMatchupScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rank int
		want float64
	}{
		{rank: 30, want: 0},
		{rank: 15, want: 49.95},
		{rank: 1, want: 96.57},
		{rank: 27, want: 9.99},
		{rank: -3, want: 96.57},
	}
	for _, tt := range tests {
		if got := MatchupScore(tt.rank); math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("MatchupScore(%d)=%v want=%v", tt.rank, got, tt.want)
		}
	}
}
