package injury

import (
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/nba-trixie/internal/domain/player"
	"github.com/riskibarqy/nba-trixie/internal/domain/team"
)

// DefaultTTL is advisory; refresh is always caller-driven.
const DefaultTTL = 3 * time.Hour

var blockingTokens = []string{"out", "doubt", "quest", "day", "injur", "surg"}

var recordTokens = []string{"day", "quest", "doubt", "out"}

// Record is one listed player on a team's injury report.
type Record struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Details string `json:"details"`
	Date    string `json:"date"`
}

// Blocking reports whether the status rules the player out of leg emission.
func (r Record) Blocking() bool {
	return IsBlockingStatus(r.Status)
}

func IsBlockingStatus(status string) bool {
	value := strings.ToLower(status)
	for _, token := range blockingTokens {
		if strings.Contains(value, token) {
			return true
		}
	}
	return false
}

// ShouldRecord decides whether a roster athlete belongs on the report: any
// listed injury, a non-"active" status, or availability text hinting at absence.
func ShouldRecord(status string, injuryCount int) bool {
	if injuryCount > 0 {
		return true
	}
	value := strings.ToLower(strings.TrimSpace(status))
	if value == "" {
		return false
	}
	if value != "active" {
		return true
	}
	for _, token := range recordTokens {
		if strings.Contains(value, token) {
			return true
		}
	}
	return false
}

// NewRecord builds a record with its canonical name key.
func NewRecord(name, status, details, date string) Record {
	return Record{
		Key:     player.CanonicalizeName(name),
		Name:    strings.TrimSpace(name),
		Status:  strings.TrimSpace(status),
		Details: strings.TrimSpace(details),
		Date:    strings.TrimSpace(date),
	}
}

// Report is the persisted registry: per-team ordered records plus fetch time.
type Report struct {
	Teams     map[string][]Record `json:"teams"`
	FetchedAt time.Time           `json:"fetched_at"`
}

func NewReport() Report {
	return Report{Teams: make(map[string][]Record)}
}

// Set replaces a team's records, normalizing the team code.
func (r *Report) Set(teamCode string, records []Record) {
	if r.Teams == nil {
		r.Teams = make(map[string][]Record)
	}
	r.Teams[team.Normalize(teamCode)] = append([]Record(nil), records...)
}

// Stale reports whether the report is older than ttl. Advisory only.
func (r Report) Stale(ttl time.Duration, now time.Time) bool {
	if r.FetchedAt.IsZero() {
		return true
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return now.Sub(r.FetchedAt) > ttl
}

// Lookup finds the record for a player using bidirectional substring match on
// canonical keys. An empty team searches every team in code order.
func (r Report) Lookup(name, teamCode string) (Record, bool) {
	key := player.CanonicalizeName(name)
	if key == "" {
		return Record{}, false
	}

	teams := []string{team.Normalize(teamCode)}
	if strings.TrimSpace(teamCode) == "" {
		teams = r.teamCodes()
	}

	for _, code := range teams {
		for _, rec := range r.Teams[code] {
			recKey := rec.Key
			if recKey == "" {
				recKey = player.CanonicalizeName(rec.Name)
			}
			if recKey == "" {
				continue
			}
			if strings.Contains(recKey, key) || strings.Contains(key, recKey) {
				return rec, true
			}
		}
	}

	return Record{}, false
}

// IsBlocked reports a matched record whose status is blocking.
func (r Report) IsBlocked(name, teamCode string) bool {
	rec, ok := r.Lookup(name, teamCode)
	return ok && rec.Blocking()
}

// Absentees lists the blocking records for a team.
func (r Report) Absentees(teamCode string) []Record {
	var out []Record
	for _, rec := range r.Teams[team.Normalize(teamCode)] {
		if rec.Blocking() {
			out = append(out, rec)
		}
	}
	return out
}

// BlockedCount counts blocking records across all teams.
func (r Report) BlockedCount() int {
	total := 0
	for _, records := range r.Teams {
		for _, rec := range records {
			if rec.Blocking() {
				total++
			}
		}
	}
	return total
}

func (r Report) teamCodes() []string {
	codes := make([]string, 0, len(r.Teams))
	for code := range r.Teams {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
