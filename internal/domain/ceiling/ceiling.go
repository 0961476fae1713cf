package ceiling

import (
	"math"

	"github.com/riskibarqy/nba-trixie/internal/domain/archetype"
	"github.com/riskibarqy/nba-trixie/internal/domain/player"
)

const (
	MinRatio   = 0.85
	MaxRatio   = 1.50
	MinPenalty = 0.6
	MaxPenalty = 1.2

	// HighPaceFactor is where pace starts pushing the ceiling up.
	HighPaceFactor = 1.03
	HighTotal      = 235.0
	BlowoutSpread  = 12.0
)

const (
	backToBackPenalty = 0.90
	travelPenalty     = 0.95
	restBonus         = 1.05
	homeBonus         = 1.03
	highTotalBonus    = 1.08
	blowoutPenalty    = 0.85
)

// Profile holds the ceiling multipliers of one archetype.
type Profile struct {
	Base        float64 `json:"base" yaml:"base"`
	InjuryBoost float64 `json:"injury_boost" yaml:"injury_boost"`
	PaceBoost   float64 `json:"pace_boost" yaml:"pace_boost"`
}

var DefaultProfile = Profile{Base: 1.20, InjuryBoost: 1.28, PaceBoost: 1.25}

func DefaultProfiles() map[archetype.Tag]Profile {
	return map[archetype.Tag]Profile{
		archetype.PaintBeast:      {Base: 1.18, InjuryBoost: 1.28, PaceBoost: 1.24},
		archetype.VolumeShooter:   {Base: 1.30, InjuryBoost: 1.40, PaceBoost: 1.36},
		archetype.Distributor:     {Base: 1.20, InjuryBoost: 1.30, PaceBoost: 1.27},
		archetype.GlassBanger:     {Base: 1.15, InjuryBoost: 1.24, PaceBoost: 1.20},
		archetype.PerimeterLock:   {Base: 1.12, InjuryBoost: 1.20, PaceBoost: 1.18},
		archetype.ClutchPerformer: {Base: 1.25, InjuryBoost: 1.35, PaceBoost: 1.30},
		archetype.TransitionDemon: {Base: 1.22, InjuryBoost: 1.30, PaceBoost: 1.34},
		archetype.FoulMerchant:    {Base: 1.20, InjuryBoost: 1.30, PaceBoost: 1.24},
	}
}

// Context is the game situation of one player.
type Context struct {
	TeamAbsentees int
	PaceFactor    float64
	BackToBack    bool
	Away          bool
	RestAdvantage bool
	Total         float64
	SpreadAbs     float64
}

// Values is one ceiling band for the headline stats.
type Values struct {
	Pts float64 `json:"pts"`
	Reb float64 `json:"reb"`
	Ast float64 `json:"ast"`
	PRA float64 `json:"pra"`
}

// Projection is the ceiling output for one player.
type Projection struct {
	Profile    Profile `json:"profile"`
	Penalty    float64 `json:"context_penalty"`
	Multiplier float64 `json:"multiplier"`
	Ratio      float64 `json:"ceiling_ratio"`
	P90        Values  `json:"ceil_90"`
	P95        Values  `json:"ceil_95"`
	Abs        Values  `json:"ceil_abs"`
}

type Engine struct {
	Profiles map[archetype.Tag]Profile
	Default  Profile
}

func NewEngine() *Engine {
	return &Engine{Profiles: DefaultProfiles(), Default: DefaultProfile}
}

// WithOverrides returns a copy with the given profiles replacing defaults.
func (e *Engine) WithOverrides(overrides map[archetype.Tag]Profile) *Engine {
	profiles := make(map[archetype.Tag]Profile, len(e.Profiles)+len(overrides))
	for tag, profile := range e.Profiles {
		profiles[tag] = profile
	}
	for tag, profile := range overrides {
		if profile.Base <= 0 {
			continue
		}
		profiles[tag] = profile
	}
	return &Engine{Profiles: profiles, Default: e.Default}
}

// ProfileFor picks the profile of the strongest tag that has one.
func (e *Engine) ProfileFor(tags []archetype.Tag) Profile {
	for _, tag := range tags {
		if profile, ok := e.Profiles[tag]; ok {
			return profile
		}
	}
	return e.Default
}

// Penalty multiplies the situational factors and clamps to [0.6, 1.2].
func Penalty(ctx Context) float64 {
	p := 1.0
	if ctx.BackToBack {
		p *= backToBackPenalty
	}
	if ctx.Away {
		p *= travelPenalty
	} else {
		p *= homeBonus
	}
	if ctx.RestAdvantage {
		p *= restBonus
	}
	if ctx.Total >= HighTotal {
		p *= highTotalBonus
	}
	if ctx.SpreadAbs >= BlowoutSpread {
		p *= blowoutPenalty
	}
	return clamp(p, MinPenalty, MaxPenalty)
}

// Multiplier computes the effective ceiling multiplier before clamping.
func Multiplier(profile Profile, ctx Context) float64 {
	m := profile.Base
	if ctx.TeamAbsentees >= 2 {
		m += profile.InjuryBoost - profile.Base
	}
	if ctx.PaceFactor >= HighPaceFactor {
		m += (profile.PaceBoost - profile.Base) * 0.5
	}
	return m * Penalty(ctx)
}

// Project computes the ceiling bands for adjusted stats.
func (e *Engine) Project(stats player.Stats, tags []archetype.Tag, ctx Context) Projection {
	profile := e.ProfileFor(tags)
	m := Multiplier(profile, ctx)
	ratio := clamp(m, MinRatio, MaxRatio)

	p90 := 1 + (ratio-1)*0.7
	p95 := 1 + (ratio-1)*0.9

	return Projection{
		Profile:    profile,
		Penalty:    Penalty(ctx),
		Multiplier: m,
		Ratio:      ratio,
		P90:        band(stats, p90),
		P95:        band(stats, p95),
		Abs:        band(stats, ratio),
	}
}

func band(s player.Stats, factor float64) Values {
	v := Values{
		Pts: math.Max(0, s.Pts*factor),
		Reb: math.Max(0, s.Reb*factor),
		Ast: math.Max(0, s.Ast*factor),
	}
	v.PRA = v.Pts + v.Reb + v.Ast
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
