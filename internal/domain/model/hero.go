// Package model contains the hero catalog and rule tables shared by the
// scoring and explanation engines.
package model

// Phase names used as keys of SynergyRules.PhaseBias.
const (
	PhaseEarly = "early"
	PhaseMid   = "mid"
	PhaseLate  = "late"
)

// Role tags the scorer treats specially.
const (
	RoleCarry   = "carry"
	RoleSupport = "support"
)

// GamePhase is an early/mid/late strength profile. It is used both per hero
// and as a team aggregate.
type GamePhase struct {
	Early int `json:"early" yaml:"early"`
	Mid   int `json:"mid" yaml:"mid"`
	Late  int `json:"late" yaml:"late"`
}

// Add returns the element-wise sum of p and o.
func (p GamePhase) Add(o GamePhase) GamePhase {
	return GamePhase{Early: p.Early + o.Early, Mid: p.Mid + o.Mid, Late: p.Late + o.Late}
}

// Total is the sum of all three phases.
func (p GamePhase) Total() int { return p.Early + p.Mid + p.Late }

// Hero is one playable character. Heroes are immutable once loaded.
type Hero struct {
	Name             string    `json:"name" yaml:"name"`
	PrimaryAttribute string    `json:"primary_attribute" yaml:"primary_attribute"`
	Roles            []string  `json:"roles" yaml:"roles"`
	Tags             []string  `json:"tags" yaml:"tags"`
	Positions        Positions `json:"positions" yaml:"positions"`
	GamePhase        GamePhase `json:"game_phase" yaml:"game_phase"`
	// ExplicitCounters and ExplicitSynergies are authored from this hero's
	// point of view. Scoring combines them with the opposing hero's entries.
	ExplicitCounters  map[string]float64 `json:"explicit_counters" yaml:"explicit_counters"`
	ExplicitSynergies map[string]float64 `json:"explicit_synergies" yaml:"explicit_synergies"`
}

// HasRole reports whether role is one of the hero's roles.
func (h *Hero) HasRole(role string) bool {
	for _, r := range h.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// UniqueRoles returns the hero's roles with duplicates removed, in first
// occurrence order.
func (h *Hero) UniqueRoles() []string {
	return unique(h.Roles)
}

// UniqueTags returns the hero's tags with duplicates removed, in first
// occurrence order.
func (h *Hero) UniqueTags() []string {
	return unique(h.Tags)
}

func unique(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
