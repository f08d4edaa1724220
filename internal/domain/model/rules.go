package model

// RoleRules holds global role pair deltas keyed by "roleA+roleB".
type RoleRules struct {
	RoleConflicts map[string]int `json:"role_conflicts" yaml:"role_conflicts"`
	RoleSynergies map[string]int `json:"role_synergies" yaml:"role_synergies"`
}

// SynergyRules holds tag pair deltas and per-phase tag weights.
type SynergyRules struct {
	TagSynergies map[string]int `json:"tag_synergies" yaml:"tag_synergies"`
	TagCounters  map[string]int `json:"tag_counters" yaml:"tag_counters"`
	// PhaseBias maps a phase name to tag weights. Never nil after loading.
	PhaseBias map[string]map[string]int `json:"phase_bias" yaml:"phase_bias"`
}

// PairKey builds the "a+b" key used by the rule tables.
func PairKey(a, b string) string {
	return a + "+" + b
}

// PairValue looks up "a+b" and falls back to "b+a". Authorship of the rule
// tables is not guaranteed to be symmetric.
func PairValue(m map[string]int, a, b string) (int, bool) {
	if v, ok := m[PairKey(a, b)]; ok {
		return v, true
	}
	v, ok := m[PairKey(b, a)]
	return v, ok
}
