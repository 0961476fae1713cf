package market

import (
	"math"
	"strconv"
	"strings"

	"github.com/riskibarqy/nba-trixie/internal/domain/player"
)

// Market is a canonical player-prop market tag.
type Market string

const (
	PTS     Market = "PTS"
	REB     Market = "REB"
	AST     Market = "AST"
	ThreePM Market = "3PM"
	STL     Market = "STL"
	BLK     Market = "BLK"
	PRA     Market = "PRA"
	PTSAST  Market = "PTS+AST"
	PTSREB  Market = "PTS+REB"
	REBAST  Market = "REB+AST"
)

var components = map[Market][]Market{
	PRA:    {PTS, REB, AST},
	PTSAST: {PTS, AST},
	PTSREB: {PTS, REB},
	REBAST: {REB, AST},
}

// Components decomposes a sum market into its single-stat parts. Single-stat
// markets return themselves.
func (m Market) Components() []Market {
	if parts, ok := components[m]; ok {
		return append([]Market(nil), parts...)
	}
	return []Market{m}
}

// IsCombo reports a two-stat sum market such as PTS+AST. PRA is a sum market
// but is priced and displayed as a single line.
func (m Market) IsCombo() bool {
	return m == PTSAST || m == PTSREB || m == REBAST
}

// IsRareCount reports markets modelled as Poisson counts.
func (m Market) IsRareCount() bool {
	return m == ThreePM || m == STL || m == BLK
}

func (m Market) Valid() bool {
	switch m {
	case PTS, REB, AST, ThreePM, STL, BLK, PRA, PTSAST, PTSREB, REBAST:
		return true
	default:
		return false
	}
}

// Value reads the market from a stat line. Sum markets are decomposed
// explicitly; there is no fallback lookup by lower-cased tag.
func (m Market) Value(s player.Stats) float64 {
	switch m {
	case PTS:
		return s.Pts
	case REB:
		return s.Reb
	case AST:
		return s.Ast
	case ThreePM:
		return s.ThreePM
	case STL:
		return s.Stl
	case BLK:
		return s.Blk
	}

	parts, ok := components[m]
	if !ok {
		return 0
	}
	var total float64
	for _, part := range parts {
		total += part.Value(s)
	}
	return total
}

// Display renders "<ceil(line)>+ <market>" or, for combos, one chunk per
// component joined with " & ".
func Display(m Market, line float64, componentLines []float64) string {
	if m.IsCombo() && len(componentLines) == len(m.Components()) {
		parts := m.Components()
		chunks := make([]string, 0, len(parts))
		for i, part := range parts {
			chunks = append(chunks, displayChunk(part, componentLines[i]))
		}
		return strings.Join(chunks, " & ")
	}
	return displayChunk(m, line)
}

func displayChunk(m Market, line float64) string {
	return strconv.Itoa(int(math.Ceil(line))) + "+ " + string(m)
}
