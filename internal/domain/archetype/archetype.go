package archetype

import (
	"sort"

	"github.com/riskibarqy/nba-trixie/internal/domain/player"
)

type Tag string

const (
	PaintBeast      Tag = "PaintBeast"
	VolumeShooter   Tag = "VolumeShooter"
	Distributor     Tag = "Distributor"
	GlassBanger     Tag = "GlassBanger"
	PerimeterLock   Tag = "PerimeterLock"
	ClutchPerformer Tag = "ClutchPerformer"
	TransitionDemon Tag = "TransitionDemon"
	FoulMerchant    Tag = "FoulMerchant"
)

const (
	MinConfidence = 0.6
	MaxTags       = 3

	// minMinutes keeps garbage-time samples from producing per-36 noise.
	minMinutes = 10.0
)

type Role string

const (
	RoleStar        Role = "star"
	RoleStarter     Role = "starter"
	RoleBenchScorer Role = "bench_scorer"
	RoleRotation    Role = "rotation"
	RoleDeepBench   Role = "deep_bench"
)

type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskVeryHigh RiskLevel = "VERY_HIGH"
)

// QualityBonus is the role contribution to a leg's quality score.
func (r Role) QualityBonus() float64 {
	switch r {
	case RoleStar:
		return 1.0
	case RoleStarter:
		return 0.5
	case RoleBenchScorer:
		return 0.3
	case RoleDeepBench:
		return -0.5
	default:
		return 0
	}
}

// Scored is one archetype with its rule confidence.
type Scored struct {
	Tag        Tag     `json:"tag"`
	Confidence float64 `json:"confidence"`
}

type per36 struct {
	min, pts, reb, ast, threes, stl, blk float64
}

type criterion struct {
	value     func(per36) float64
	threshold float64
	weight    float64
}

type rule struct {
	tag      Tag
	groups   map[string]bool
	criteria []criterion
}

var (
	guards     = map[string]bool{"G": true}
	wings      = map[string]bool{"G": true, "F": true}
	frontcourt = map[string]bool{"F": true, "C": true}
	anyPos     = map[string]bool{"G": true, "F": true, "C": true}
)

func pts(p per36) float64    { return p.pts }
func reb(p per36) float64    { return p.reb }
func ast(p per36) float64    { return p.ast }
func threes(p per36) float64 { return p.threes }
func stl(p per36) float64    { return p.stl }
func blk(p per36) float64    { return p.blk }
func mins(p per36) float64   { return p.min }

var rules = []rule{
	{tag: PaintBeast, groups: frontcourt, criteria: []criterion{{pts, 22, 0.5}, {reb, 10, 0.3}, {blk, 1.2, 0.2}}},
	{tag: VolumeShooter, groups: wings, criteria: []criterion{{threes, 3.5, 0.6}, {pts, 22, 0.4}}},
	{tag: Distributor, groups: wings, criteria: []criterion{{ast, 8, 0.8}, {pts, 15, 0.2}}},
	{tag: GlassBanger, groups: frontcourt, criteria: []criterion{{reb, 12, 0.8}, {blk, 1.5, 0.2}}},
	{tag: PerimeterLock, groups: wings, criteria: []criterion{{stl, 1.8, 0.7}, {threes, 1.5, 0.3}}},
	{tag: ClutchPerformer, groups: anyPos, criteria: []criterion{{pts, 26, 0.6}, {mins, 34, 0.4}}},
	{tag: TransitionDemon, groups: guards, criteria: []criterion{{stl, 1.5, 0.4}, {pts, 20, 0.3}, {ast, 5, 0.3}}},
	{tag: FoulMerchant, groups: anyPos, criteria: []criterion{{pts, 25, 0.7}, {reb, 7, 0.3}}},
}

// Classify scores every archetype for the line and keeps up to MaxTags with
// confidence at or above MinConfidence, strongest first.
func Classify(line player.Line) []Scored {
	s := line.Stats
	if s.Min < minMinutes {
		return nil
	}

	scale := 36 / s.Min
	rates := per36{
		min:    s.Min,
		pts:    s.Pts * scale,
		reb:    s.Reb * scale,
		ast:    s.Ast * scale,
		threes: s.ThreePM * scale,
		stl:    s.Stl * scale,
		blk:    s.Blk * scale,
	}
	group := line.Position.Group()

	var out []Scored
	for _, r := range rules {
		if !r.groups[group] {
			continue
		}
		confidence := score(rates, r.criteria)
		if confidence >= MinConfidence {
			out = append(out, Scored{Tag: r.tag, Confidence: confidence})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	if len(out) > MaxTags {
		out = out[:MaxTags]
	}
	return out
}

func score(rates per36, criteria []criterion) float64 {
	var total float64
	for _, c := range criteria {
		ratio := c.value(rates) / c.threshold
		if ratio > 1 {
			ratio = 1
		}
		if ratio < 0 {
			ratio = 0
		}
		total += ratio * c.weight
	}
	if total > 1 {
		return 1
	}
	return total
}

// Tags returns only the tag names of a classification.
func Tags(scored []Scored) []Tag {
	out := make([]Tag, 0, len(scored))
	for _, s := range scored {
		out = append(out, s.Tag)
	}
	return out
}

// ClassifyRole derives the rotation role and its paired risk level.
func ClassifyRole(line player.Line) (Role, RiskLevel) {
	s := line.Stats
	switch {
	case line.IsStarter && s.PRA() >= 35 && s.Min >= 32:
		return RoleStar, RiskLow
	case line.IsStarter:
		return RoleStarter, RiskMedium
	case s.Pts >= 12:
		return RoleBenchScorer, RiskMedium
	case s.Min >= 15:
		return RoleRotation, RiskHigh
	default:
		return RoleDeepBench, RiskVeryHigh
	}
}
