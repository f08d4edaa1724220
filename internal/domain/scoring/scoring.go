// Package scoring computes how desirable a hero is as the next pick given the
// heroes already drafted on both sides.
//
// The score is a sum of independent signals (position overlap, role
// saturation, phase alignment, explicit counters and synergies, role and tag
// pair rules) divided by displayScale. Every lookup miss contributes zero.
package scoring

import (
	"math"

	"github.com/okian/drafter/internal/domain/model"
)

const (
	displayScale = 10

	carrySaturationPenalty   = 100
	supportSaturationPenalty = 50
	supportSaturationAllies  = 2

	explicitWeight = 2.0
	phaseWeight    = 10.0

	weakPreferenceTop     = 40.0
	weakPreferenceFactor  = 0.55
	narrowMarginThreshold = 15.0
	narrowMarginFactor    = 0.75
)

// basePenalty is the position-overlap penalty before scaling.
var basePenalty = map[string]float64{
	model.Pos1: 120,
	model.Pos2: 110,
	model.Pos3: 90,
	model.Pos4: 70,
	model.Pos5: 60,
}

const defaultBasePenalty = 60

// Input is one candidate evaluation.
type Input struct {
	Hero    *model.Hero
	Allies  []string
	Enemies []string
	// EnemyPhase is the enemy roster's aggregated game phase. Callers compute
	// it once per request and reuse it for every candidate.
	EnemyPhase model.GamePhase
}

// Breakdown holds each signal's raw contribution before display scaling.
type Breakdown struct {
	Position       int `json:"position"`
	RoleSaturation int `json:"role_saturation"`
	Phase          int `json:"phase"`
	PhaseBias      int `json:"phase_bias"`
	Counters       int `json:"counters"`
	Synergies      int `json:"synergies"`
	RolePairs      int `json:"role_pairs"`
	TagSynergies   int `json:"tag_synergies"`
	TagCounters    int `json:"tag_counters"`
}

// Total is the raw sum of all signals.
func (b Breakdown) Total() int {
	return b.Position + b.RoleSaturation + b.Phase + b.PhaseBias + b.Counters +
		b.Synergies + b.RolePairs + b.TagSynergies + b.TagCounters
}

// Final is the displayed score: Total divided by 10, truncated toward zero.
func (b Breakdown) Final() int {
	return b.Total() / displayScale
}

// Engine scores candidates against one catalog. It holds no mutable state
// and is safe for concurrent use.
type Engine struct {
	catalog *model.Catalog
}

// NewEngine binds an engine to a loaded catalog.
func NewEngine(c *model.Catalog) *Engine {
	return &Engine{catalog: c}
}

// Score returns the displayed score for in.
func (e *Engine) Score(in Input) int {
	return e.Breakdown(in).Final()
}

// Breakdown evaluates every signal for in.
func (e *Engine) Breakdown(in Input) Breakdown {
	if in.Hero == nil {
		return Breakdown{}
	}
	allies := e.known(in.Allies)
	enemies := e.known(in.Enemies)

	b := Breakdown{
		Position:       positionPenalty(in.Hero, allies),
		RoleSaturation: roleSaturation(in.Hero, allies),
		Counters:       explicitCounters(in.Hero, in.Enemies, e.catalog),
		Synergies:      explicitSynergies(in.Hero, in.Allies),
		RolePairs:      rolePairs(in.Hero, allies, e.catalog.Roles),
		TagSynergies:   tagSynergies(in.Hero, allies, e.catalog.Synergies),
		TagCounters:    tagCounters(in.Hero, enemies, e.catalog.Synergies),
	}
	b.Phase, b.PhaseBias = phaseAlignment(in.Hero, in.EnemyPhase, e.catalog.Synergies.PhaseBias)
	return b
}

// known resolves roster names to heroes, dropping unknown names.
func (e *Engine) known(roster []string) []*model.Hero {
	out := make([]*model.Hero, 0, len(roster))
	for _, name := range roster {
		if h := e.catalog.Hero(name); h != nil {
			out = append(out, h)
		}
	}
	return out
}

// PrimaryPosition returns the hero's strongest slot, its weight and the margin
// over the runner-up slot.
func PrimaryPosition(h *model.Hero) (slot string, top, margin float64, ok bool) {
	slot, top, second, ok := h.Positions.Primary()
	return slot, top, top - second, ok
}

func positionPenalty(hero *model.Hero, allies []*model.Hero) int {
	slot, top, margin, ok := PrimaryPosition(hero)
	if !ok {
		return 0
	}

	taken := 0
	for _, a := range allies {
		if s, _, _, ok := PrimaryPosition(a); ok && s == slot {
			taken++
		}
	}
	allowed := 1
	if model.IsSupportSlot(slot) {
		allowed = 2
	}
	if taken < allowed {
		return 0
	}

	flex := 1.0
	switch {
	case top < weakPreferenceTop:
		flex = weakPreferenceFactor
	case margin < narrowMarginThreshold:
		flex = narrowMarginFactor
	}

	base, ok := basePenalty[slot]
	if !ok {
		base = defaultBasePenalty
	}
	weight := math.Min(math.Max(top/100, 0), 1)
	return -int(math.Round(base * flex * weight))
}

func roleSaturation(hero *model.Hero, allies []*model.Hero) int {
	counts := make(map[string]int)
	for _, a := range allies {
		for _, r := range a.UniqueRoles() {
			counts[r]++
		}
	}

	score := 0
	if hero.HasRole(model.RoleCarry) && counts[model.RoleCarry] >= 1 {
		score -= carrySaturationPenalty
	}
	if hero.HasRole(model.RoleSupport) && counts[model.RoleSupport] >= supportSaturationAllies {
		score -= supportSaturationPenalty
	}
	return score
}

// phaseAlignment rewards strength in the phases where the enemy is
// concentrated. With no enemy phase signal the hero's late game is added flat.
func phaseAlignment(hero *model.Hero, enemy model.GamePhase, bias map[string]map[string]int) (phase, tagBias int) {
	total := float64(enemy.Total())
	if total <= 0 {
		return hero.GamePhase.Late, 0
	}

	weights := []struct {
		name     string
		w        float64
		strength int
	}{
		{model.PhaseEarly, float64(enemy.Early) / total, hero.GamePhase.Early},
		{model.PhaseMid, float64(enemy.Mid) / total, hero.GamePhase.Mid},
		{model.PhaseLate, float64(enemy.Late) / total, hero.GamePhase.Late},
	}

	tags := hero.UniqueTags()
	for _, p := range weights {
		phase += int(float64(p.strength) * p.w * phaseWeight)
		m := bias[p.name]
		for _, t := range tags {
			if v, ok := m[t]; ok {
				tagBias += int(math.Round(float64(v) * p.w))
			}
		}
	}
	return phase, tagBias
}

// explicitCounters combines the hero's own counter table with every enemy's
// table read from the opposite direction.
func explicitCounters(hero *model.Hero, enemies []string, c *model.Catalog) int {
	score := 0
	for _, name := range enemies {
		if v, ok := hero.ExplicitCounters[name]; ok {
			score += int(v * explicitWeight)
		}
		if enemy := c.Hero(name); enemy != nil {
			if v, ok := enemy.ExplicitCounters[hero.Name]; ok {
				score -= int(v * explicitWeight)
			}
		}
	}
	return score
}

func explicitSynergies(hero *model.Hero, allies []string) int {
	score := 0
	for _, name := range allies {
		if v, ok := hero.ExplicitSynergies[name]; ok {
			score += int(v * explicitWeight)
		}
	}
	return score
}

func rolePairs(hero *model.Hero, allies []*model.Hero, rules model.RoleRules) int {
	score := 0
	roles := hero.UniqueRoles()
	for _, a := range allies {
		for _, r1 := range roles {
			for _, r2 := range a.UniqueRoles() {
				if v, ok := model.PairValue(rules.RoleSynergies, r1, r2); ok {
					score += v
				}
				if v, ok := model.PairValue(rules.RoleConflicts, r1, r2); ok {
					score += v
				}
			}
		}
	}
	return score
}

func tagSynergies(hero *model.Hero, allies []*model.Hero, rules model.SynergyRules) int {
	score := 0
	tags := hero.UniqueTags()
	for _, a := range allies {
		for _, t1 := range tags {
			for _, t2 := range a.UniqueTags() {
				if v, ok := model.PairValue(rules.TagSynergies, t1, t2); ok {
					score += v
				}
			}
		}
	}
	return score
}

// tagCounters checks only the "enemy_tag+candidate_tag" direction.
func tagCounters(hero *model.Hero, enemies []*model.Hero, rules model.SynergyRules) int {
	score := 0
	tags := hero.UniqueTags()
	for _, en := range enemies {
		for _, t1 := range tags {
			for _, t2 := range en.UniqueTags() {
				if v, ok := rules.TagCounters[model.PairKey(t2, t1)]; ok {
					score += v
				}
			}
		}
	}
	return score
}
