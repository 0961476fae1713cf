package vacuum

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/riskibarqy/nba-trixie/internal/domain/player"
)

// Type labels how a beneficiary inherits an absentee's workload.
type Type string

const (
	TypeDirectBackup      Type = "direct_backup"
	TypeUsageAbsorber     Type = "usage_absorber"
	TypeRotationExpansion Type = "rotation_expansion"
)

const (
	DirectBackupBoost      = 1.25
	UsageAbsorberBoost     = 1.10
	RotationExpansionBoost = 1.12
	MaxBoost               = 1.50

	// ImpactMinutes marks a non-starter as an impact player when absent.
	ImpactMinutes = 24.0
)

func (t Type) priority() int {
	switch t {
	case TypeDirectBackup:
		return 3
	case TypeUsageAbsorber:
		return 2
	case TypeRotationExpansion:
		return 1
	default:
		return 0
	}
}

// Entry is the accumulated vacuum tag for one beneficiary.
type Entry struct {
	Boost   float64  `json:"boost"`
	Type    Type     `json:"type"`
	Source  string   `json:"source_absentee"`
	Reason  string   `json:"reason"`
	Sources []string `json:"sources,omitempty"`
}

// Matrix maps a beneficiary key to its vacuum entry.
type Matrix map[string]Entry

// Lookup returns the entry for a player line.
func (m Matrix) Lookup(line player.Line) (Entry, bool) {
	entry, ok := m[Key(line)]
	return entry, ok
}

// Add merges a new boost into the matrix. Deltas add and the total is capped
// at MaxBoost; the stronger tag type wins.
func (m Matrix) Add(key string, boost float64, kind Type, source, reason string) {
	prev, ok := m[key]
	if !ok {
		m[key] = Entry{
			Boost:   math.Min(MaxBoost, boost),
			Type:    kind,
			Source:  source,
			Reason:  reason,
			Sources: []string{source},
		}
		return
	}

	prev.Boost = math.Min(MaxBoost, prev.Boost+(boost-1.0))
	if kind.priority() > prev.Type.priority() {
		prev.Type = kind
		prev.Reason = reason
	}
	prev.Sources = append(prev.Sources, source)
	m[key] = prev
}

// OutFunc reports whether a roster line is unavailable tonight.
type OutFunc func(line player.Line) bool

// Build computes the vacuum matrix for a single team's roster. Lines from
// other teams must not be mixed in.
func Build(roster []player.Line, isOut OutFunc) Matrix {
	if isOut == nil {
		isOut = func(line player.Line) bool { return line.Status.Unavailable() }
	}

	matrix := make(Matrix)
	var absentees, active []player.Line
	for _, line := range roster {
		if isOut(line) {
			if line.IsStarter || line.Stats.Min >= ImpactMinutes {
				absentees = append(absentees, line)
			}
			continue
		}
		active = append(active, line)
	}
	if len(absentees) == 0 {
		return matrix
	}

	sortByMinutes(absentees)
	sortByMinutes(active)

	for _, absent := range absentees {
		source := absent.DisplayName
		group := absent.Position.Group()

		backup, found := directBackup(active, group)
		if found {
			matrix.Add(Key(backup), DirectBackupBoost, TypeDirectBackup, source,
				fmt.Sprintf("%s OUT: direct backup at %s (+%d%%)", source, group, pct(DirectBackupBoost)))
		} else if rotation, ok := firstBench(active); ok {
			matrix.Add(Key(rotation), RotationExpansionBoost, TypeRotationExpansion, source,
				fmt.Sprintf("%s OUT: rotation expands (+%d%%)", source, pct(RotationExpansionBoost)))
		}

		for _, starter := range active {
			if !starter.IsStarter {
				continue
			}
			key := Key(starter)
			if entry, ok := matrix[key]; ok && entry.Type == TypeDirectBackup {
				continue
			}
			matrix.Add(key, UsageAbsorberBoost, TypeUsageAbsorber, source,
				fmt.Sprintf("%s OUT: absorbs usage (+%d%%)", source, pct(UsageAbsorberBoost)))
		}
	}

	return matrix
}

// Apply scales volume stats by the entry boost. Minutes stay as they are and
// steals/blocks take half the delta.
func Apply(s player.Stats, entry Entry) player.Stats {
	if entry.Boost <= 1 {
		return s
	}
	return s.ScaleVolume(entry.Boost)
}

// Key identifies a player inside the matrix.
func Key(line player.Line) string {
	if key := strings.TrimSpace(line.Key); key != "" {
		return key
	}
	return player.CanonicalizeName(line.DisplayName)
}

func directBackup(active []player.Line, group string) (player.Line, bool) {
	for _, line := range active {
		if !line.IsStarter && line.Position.Group() == group {
			return line, true
		}
	}
	return player.Line{}, false
}

func firstBench(active []player.Line) (player.Line, bool) {
	for _, line := range active {
		if !line.IsStarter {
			return line, true
		}
	}
	return player.Line{}, false
}

func sortByMinutes(lines []player.Line) {
	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].Stats.Min != lines[j].Stats.Min {
			return lines[i].Stats.Min > lines[j].Stats.Min
		}
		return Key(lines[i]) < Key(lines[j])
	})
}

func pct(boost float64) int {
	return int(math.Round((boost - 1) * 100))
}
