package market

import (
	"strings"
)

// Parse maps a free-form provider market string onto a canonical tag.
// Unknown strings return false and the caller skips the prop.
func Parse(raw string) (Market, bool) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return "", false
	}

	if m := Market(strings.ToUpper(strings.ReplaceAll(value, " ", ""))); m.Valid() {
		return m, true
	}

	if containsAny(value, "pts+reb+ast", "pts + reb + ast", "points + rebounds + assists", "pra") {
		return PRA, true
	}
	// Threes first: "3 point field goals" also contains "point".
	if containsAny(value, "three", "3pt", "3-pt", "3pm", "3 point", "3-point", "3 pointers") {
		return ThreePM, true
	}

	hasPts := containsAny(value, "point", "pts")
	hasReb := containsAny(value, "rebound", "reb")
	hasAst := containsAny(value, "assist", "ast")

	switch {
	case hasPts && hasReb && hasAst:
		return PRA, true
	case hasPts && hasAst:
		return PTSAST, true
	case hasPts && hasReb:
		return PTSREB, true
	case hasReb && hasAst:
		return REBAST, true
	case hasPts:
		return PTS, true
	case hasReb:
		return REB, true
	case hasAst:
		return AST, true
	case containsAny(value, "steal", "stl"):
		return STL, true
	case containsAny(value, "block", "blk"):
		return BLK, true
	default:
		return "", false
	}
}

// ParseSpecialLabel splits an odds-feed specials label into player name and
// market. Accepted shapes are "<player> (<market>)" and "<market> - <player>".
func ParseSpecialLabel(label string) (string, Market, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", "", false
	}

	if open := strings.LastIndex(label, "("); open > 0 && strings.HasSuffix(label, ")") {
		name := strings.TrimSpace(label[:open])
		m, ok := Parse(label[open+1 : len(label)-1])
		if ok && name != "" {
			return name, m, true
		}
		return "", "", false
	}

	if sep := strings.Index(label, " - "); sep > 0 {
		m, ok := Parse(label[:sep])
		name := strings.TrimSpace(label[sep+3:])
		if ok && name != "" {
			return name, m, true
		}
	}

	return "", "", false
}

func containsAny(value string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(value, needle) {
			return true
		}
	}
	return false
}
