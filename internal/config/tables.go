package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/riskibarqy/nba-trixie/internal/domain/projection"
	"github.com/riskibarqy/nba-trixie/internal/domain/team"
	"gopkg.in/yaml.v3"
)

// LoadTables reads reference tables from a YAML file. An empty path returns
// empty tables so built-in defaults apply.
//
//	league_avg_pace: 99.5
//	pace:
//	  IND: 103.8
//	dvp:
//	  WAS: {PG: 30, C: 28}
//	ceiling_profiles:
//	  VolumeShooter: {base: 1.3, injury_boost: 1.4, pace_boost: 1.36}
func LoadTables(path string) (projection.Tables, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return projection.Tables{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return projection.Tables{}, fmt.Errorf("read tables file %s: %w", path, err)
	}

	var tables projection.Tables
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&tables); err != nil {
		return projection.Tables{}, fmt.Errorf("decode tables file %s: %w", path, err)
	}

	if err := validateTables(tables); err != nil {
		return projection.Tables{}, fmt.Errorf("tables file %s: %w", path, err)
	}
	return tables, nil
}

func validateTables(t projection.Tables) error {
	if t.LeagueAveragePace < 0 {
		return fmt.Errorf("league_avg_pace must be >= 0")
	}
	for code, v := range t.Pace {
		if !team.Known(team.Normalize(code)) {
			return fmt.Errorf("pace: unknown team %q", code)
		}
		if v <= 0 {
			return fmt.Errorf("pace for %s must be > 0", code)
		}
	}
	for code := range t.DvP {
		if !team.Known(team.Normalize(code)) {
			return fmt.Errorf("dvp: unknown team %q", code)
		}
	}
	for tag, profile := range t.Ceiling {
		if profile.Base <= 0 || profile.InjuryBoost <= 0 || profile.PaceBoost <= 0 {
			return fmt.Errorf("ceiling profile %s must have positive multipliers", tag)
		}
	}
	return nil
}
