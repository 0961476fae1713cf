package player

import (
	"strconv"
	"strings"
)

// Canonical record keys. Rows from different feeds are mapped onto these at
// ingress; everything downstream reads only the canonical names.
const (
	KeyPlayerID = "player_id"
	KeyName     = "display_name"
	KeyTeam     = "team"
	KeyPosition = "position"
	KeyStatus   = "status"
	KeyStarter  = "is_starter"
	KeyMin      = "min_L5"
	KeyPts      = "pts_L5"
	KeyReb      = "reb_L5"
	KeyAst      = "ast_L5"
	Key3PM      = "3pm_L5"
	KeyStl      = "stl_L5"
	KeyBlk      = "blk_L5"
	KeyPtsCV    = "pts_cv"
	KeyRebCV    = "reb_cv"
	KeyAstCV    = "ast_cv"
	KeyMinCV    = "min_cv"
)

var keyAliases = map[string][]string{
	KeyPlayerID: {"player_id", "id", "PLAYER_ID", "athlete_id"},
	KeyName:     {"display_name", "name", "player", "PLAYER_NAME", "player_name", "fullName", "displayName"},
	KeyTeam:     {"team", "TEAM", "team_abbreviation", "TEAM_ABBREVIATION", "tm"},
	KeyPosition: {"position", "pos", "POS", "POSITION"},
	KeyStatus:   {"status", "STATUS", "availability"},
	KeyStarter:  {"is_starter", "starter", "STARTER", "started"},
	KeyMin:      {"min_L5", "min_avg", "MIN", "mpg", "minutes"},
	KeyPts:      {"pts_L5", "pts_avg", "PTS", "ppg", "points"},
	KeyReb:      {"reb_L5", "reb_avg", "REB", "rpg", "rebounds"},
	KeyAst:      {"ast_L5", "ast_avg", "AST", "apg", "assists"},
	Key3PM:      {"3pm_L5", "fg3m_L5", "3pm_avg", "FG3M", "3PM", "tpm", "threes"},
	KeyStl:      {"stl_L5", "stl_avg", "STL", "spg", "steals"},
	KeyBlk:      {"blk_L5", "blk_avg", "BLK", "bpg", "blocks"},
	KeyPtsCV:    {"pts_cv", "PTS_CV"},
	KeyRebCV:    {"reb_cv", "REB_CV"},
	KeyAstCV:    {"ast_cv", "AST_CV"},
	KeyMinCV:    {"min_cv", "MIN_CV"},
}

// Float reads a canonical numeric key from a heterogeneous record, accepting
// any of its known source names. Absent or unparsable values read as 0.
func Float(rec map[string]any, canonical string) float64 {
	for _, key := range aliasesOf(canonical) {
		raw, ok := rec[key]
		if !ok || raw == nil {
			continue
		}
		if v, ok := toFloat(raw); ok {
			return v
		}
	}
	return 0
}

// String reads a canonical text key from a heterogeneous record.
func String(rec map[string]any, canonical string) string {
	for _, key := range aliasesOf(canonical) {
		raw, ok := rec[key]
		if !ok || raw == nil {
			continue
		}
		switch typed := raw.(type) {
		case string:
			if v := strings.TrimSpace(typed); v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(typed, 'f', -1, 64)
		case int:
			return strconv.Itoa(typed)
		case int64:
			return strconv.FormatInt(typed, 10)
		}
	}
	return ""
}

func Bool(rec map[string]any, canonical string) bool {
	for _, key := range aliasesOf(canonical) {
		raw, ok := rec[key]
		if !ok || raw == nil {
			continue
		}
		switch typed := raw.(type) {
		case bool:
			return typed
		case string:
			v, err := strconv.ParseBool(strings.TrimSpace(typed))
			if err == nil {
				return v
			}
		default:
			if f, ok := toFloat(typed); ok {
				return f != 0
			}
		}
	}
	return false
}

// FromRecord builds a Line from a feed row, applying the canonical key map.
func FromRecord(rec map[string]any) Line {
	name := String(rec, KeyName)
	team := String(rec, KeyTeam)

	return Line{
		PlayerID:    String(rec, KeyPlayerID),
		DisplayName: name,
		Key:         CanonicalizeName(name),
		Team:        strings.ToUpper(team),
		Position:    Position(strings.ToUpper(String(rec, KeyPosition))),
		Status:      ParseStatus(String(rec, KeyStatus)),
		IsStarter:   Bool(rec, KeyStarter),
		Stats: Stats{
			Min:     nonNegative(Float(rec, KeyMin)),
			Pts:     nonNegative(Float(rec, KeyPts)),
			Reb:     nonNegative(Float(rec, KeyReb)),
			Ast:     nonNegative(Float(rec, KeyAst)),
			ThreePM: nonNegative(Float(rec, Key3PM)),
			Stl:     nonNegative(Float(rec, KeyStl)),
			Blk:     nonNegative(Float(rec, KeyBlk)),
		},
		PtsCV: nonNegative(Float(rec, KeyPtsCV)),
		RebCV: nonNegative(Float(rec, KeyRebCV)),
		AstCV: nonNegative(Float(rec, KeyAstCV)),
		MinCV: nonNegative(Float(rec, KeyMinCV)),
	}
}

func aliasesOf(canonical string) []string {
	if aliases, ok := keyAliases[canonical]; ok {
		return aliases
	}
	return []string{canonical}
}

func toFloat(raw any) (float64, bool) {
	switch typed := raw.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case string:
		v, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}
