package player

import (
	"fmt"
	"strings"
)

// Position is the listed roster position (PG/SG/SF/PF/C or a hyphenated pair).
type Position string

const (
	PositionPG Position = "PG"
	PositionSG Position = "SG"
	PositionSF Position = "SF"
	PositionPF Position = "PF"
	PositionC  Position = "C"
)

// Primary returns the first listed position of a hyphenated pair, mapping
// the generic G/F labels to their usual primary slot.
func (p Position) Primary() Position {
	value := strings.ToUpper(strings.TrimSpace(string(p)))
	if idx := strings.IndexAny(value, "-/"); idx > 0 {
		value = value[:idx]
	}
	switch value {
	case "G":
		return PositionSG
	case "F":
		return PositionSF
	default:
		return Position(value)
	}
}

// Group collapses a position into the G/F/C buckets used for backup lookup.
// C, F-C and C-F share the C bucket.
func (p Position) Group() string {
	value := strings.ToUpper(strings.TrimSpace(string(p)))
	switch value {
	case "C", "F-C", "C-F":
		return "C"
	}
	switch p.Primary() {
	case PositionPG, PositionSG:
		return "G"
	case PositionC:
		return "C"
	default:
		return "F"
	}
}

type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusGTD     Status = "GTD"
	StatusOut     Status = "OUT"
	StatusInjured Status = "INJ"
)

// ParseStatus maps free-form availability text to a Status. Empty text is ACTIVE.
func ParseStatus(raw string) Status {
	value := strings.ToUpper(strings.TrimSpace(raw))
	switch {
	case value == "" || value == "ACTIVE":
		return StatusActive
	case value == "INJ" || strings.Contains(value, "INJUR"):
		return StatusInjured
	case value == "OUT" || strings.Contains(value, "OUT"):
		return StatusOut
	case value == "GTD" || strings.Contains(value, "QUEST") || strings.Contains(value, "DOUBT") || strings.Contains(value, "DAY"):
		return StatusGTD
	default:
		return StatusActive
	}
}

// Unavailable reports whether the listed status rules the player out.
func (s Status) Unavailable() bool {
	return s == StatusOut || s == StatusInjured
}

// Stats holds per-game averages for the evaluation window.
type Stats struct {
	Min     float64 `json:"min"`
	Pts     float64 `json:"pts"`
	Reb     float64 `json:"reb"`
	Ast     float64 `json:"ast"`
	ThreePM float64 `json:"3pm"`
	Stl     float64 `json:"stl"`
	Blk     float64 `json:"blk"`
}

func (s Stats) PRA() float64 {
	return s.Pts + s.Reb + s.Ast
}

// ScaleVolume multiplies counting stats by factor. Steals and blocks take half
// of the deviation from 1.0 and minutes are left untouched.
func (s Stats) ScaleVolume(factor float64) Stats {
	half := 1 + (factor-1)/2
	return Stats{
		Min:     s.Min,
		Pts:     nonNegative(s.Pts * factor),
		Reb:     nonNegative(s.Reb * factor),
		Ast:     nonNegative(s.Ast * factor),
		ThreePM: nonNegative(s.ThreePM * factor),
		Stl:     nonNegative(s.Stl * half),
		Blk:     nonNegative(s.Blk * half),
	}
}

// Line is one player row for the most recent evaluation window (L5).
type Line struct {
	PlayerID    string   `json:"player_id"`
	DisplayName string   `json:"display_name"`
	Key         string   `json:"key"`
	Team        string   `json:"team"`
	Position    Position `json:"position"`
	Status      Status   `json:"status"`
	IsStarter   bool     `json:"is_starter"`
	Stats       Stats    `json:"stats"`
	PtsCV       float64  `json:"pts_cv"`
	RebCV       float64  `json:"reb_cv"`
	AstCV       float64  `json:"ast_cv"`
	MinCV       float64  `json:"min_cv"`
}

func (l Line) Validate() error {
	if strings.TrimSpace(l.DisplayName) == "" {
		return fmt.Errorf("player display name is required")
	}
	if strings.TrimSpace(l.Team) == "" {
		return fmt.Errorf("player team is required for %s", l.DisplayName)
	}
	if l.Stats.Min < 0 {
		return fmt.Errorf("player minutes must be >= 0 for %s", l.DisplayName)
	}

	return nil
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
