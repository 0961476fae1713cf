package injury

import (
	"testing"
	"time"
)

func TestIsBlockingStatus(t *testing.T) {
	t.Parallel()

	blocking := []string{"Out", "Doubtful", "Questionable", "Day-To-Day", "Injured Reserve", "Post-surgery"}
	for _, status := range blocking {
		if !IsBlockingStatus(status) {
			t.Fatalf("expected %q to block", status)
		}
	}
	for _, status := range []string{"Active", "Probable", ""} {
		if IsBlockingStatus(status) {
			t.Fatalf("expected %q not to block", status)
		}
	}
}

func TestShouldRecord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status   string
		injuries int
		want     bool
	}{
		{status: "active", injuries: 0, want: false},
		{status: "Active", injuries: 1, want: true},
		{status: "day-to-day", injuries: 0, want: true},
		{status: "Suspended", injuries: 0, want: true},
		{status: "", injuries: 0, want: false},
	}
	for _, tt := range tests {
		if got := ShouldRecord(tt.status, tt.injuries); got != tt.want {
			t.Fatalf("ShouldRecord(%q,%d)=%v want=%v", tt.status, tt.injuries, got, tt.want)
		}
	}
}

func TestReport_IsBlockedFuzzyMatch(t *testing.T) {
	t.Parallel()

	report := NewReport()
	report.Set("gs", []Record{
		NewRecord("Gary Payton II", "Out", "Calf", "2025-11-14"),
		NewRecord("Draymond Green", "Probable", "Back", "2025-11-14"),
	})
	report.Set("MEM", []Record{
		NewRecord("Jaren Jackson Jr.", "Questionable", "Knee", "2025-11-14"),
	})

	tests := []struct {
		name string
		team string
		want bool
	}{
		{name: "Gary Payton", team: "GSW", want: true},
		{name: "Gary Payton II", team: "gs", want: true},
		{name: "Draymond Green", team: "GSW", want: false},
		{name: "Jaren Jackson", team: "MEM", want: true},
		{name: "Jaren Jackson", team: "", want: true},
		{name: "Jaren Jackson", team: "GSW", want: false},
		{name: "Stephen Curry", team: "GSW", want: false},
	}
	for _, tt := range tests {
		if got := report.IsBlocked(tt.name, tt.team); got != tt.want {
			t.Fatalf("IsBlocked(%q,%q)=%v want=%v", tt.name, tt.team, got, tt.want)
		}
	}

	if got := len(report.Absentees("GSW")); got != 1 {
		t.Fatalf("expected one GSW absentee, got %d", got)
	}
	if got := report.BlockedCount(); got != 2 {
		t.Fatalf("expected two blocked players, got %d", got)
	}
}

func TestReport_Stale(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 11, 15, 12, 0, 0, 0, time.UTC)
	report := NewReport()
	if !report.Stale(DefaultTTL, now) {
		t.Fatalf("never-fetched report must be stale")
	}

	report.FetchedAt = now.Add(-2 * time.Hour)
	if report.Stale(DefaultTTL, now) {
		t.Fatalf("2h old report must be fresh under 3h ttl")
	}
	report.FetchedAt = now.Add(-4 * time.Hour)
	if !report.Stale(DefaultTTL, now) {
		t.Fatalf("4h old report must be stale under 3h ttl")
	}
}
