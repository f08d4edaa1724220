package loader

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/drafter/internal/domain/model"
)

// On-disk shapes. Pointer fields distinguish an absent key from a zero value
// so required fields can be enforced.

type heroRecord struct {
	Name              *string             `json:"name" yaml:"name"`
	PrimaryAttribute  *string             `json:"primary_attribute" yaml:"primary_attribute"`
	Roles             *[]string           `json:"roles" yaml:"roles"`
	Tags              *[]string           `json:"tags" yaml:"tags"`
	Positions         *map[string]float64 `json:"positions" yaml:"positions"`
	GamePhase         *phaseRecord        `json:"game_phase" yaml:"game_phase"`
	ExplicitCounters  *map[string]float64 `json:"explicit_counters" yaml:"explicit_counters"`
	ExplicitSynergies *map[string]float64 `json:"explicit_synergies" yaml:"explicit_synergies"`
}

type phaseRecord struct {
	Early *int `json:"early" yaml:"early"`
	Mid   *int `json:"mid" yaml:"mid"`
	Late  *int `json:"late" yaml:"late"`
}

type roleRulesRecord struct {
	RoleConflicts *map[string]int `json:"role_conflicts" yaml:"role_conflicts"`
	RoleSynergies *map[string]int `json:"role_synergies" yaml:"role_synergies"`
}

type synergyRulesRecord struct {
	TagSynergies *map[string]int           `json:"tag_synergies" yaml:"tag_synergies"`
	TagCounters  *map[string]int           `json:"tag_counters" yaml:"tag_counters"`
	PhaseBias    map[string]map[string]int `json:"phase_bias" yaml:"phase_bias"`
}

// decode unmarshals data into v. YAML is used for .yaml/.yml files, JSON for
// everything else.
func decode(path string, data []byte, v any) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, v)
	default:
		return json.Unmarshal(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")), v)
	}
}

func (r *heroRecord) toHero(path string) (*model.Hero, error) {
	switch {
	case r.Name == nil:
		return nil, missing(path, "name")
	case r.PrimaryAttribute == nil:
		return nil, missing(path, "primary_attribute")
	case r.Roles == nil:
		return nil, missing(path, "roles")
	case r.Tags == nil:
		return nil, missing(path, "tags")
	case r.Positions == nil:
		return nil, missing(path, "positions")
	case r.GamePhase == nil:
		return nil, missing(path, "game_phase")
	case r.ExplicitCounters == nil:
		return nil, missing(path, "explicit_counters")
	case r.ExplicitSynergies == nil:
		return nil, missing(path, "explicit_synergies")
	}
	if strings.TrimSpace(*r.Name) == "" {
		return nil, invalid(path, "name must not be empty")
	}
	phase, err := r.GamePhase.toPhase(path)
	if err != nil {
		return nil, err
	}
	return &model.Hero{
		Name:              *r.Name,
		PrimaryAttribute:  *r.PrimaryAttribute,
		Roles:             *r.Roles,
		Tags:              *r.Tags,
		Positions:         nonNil(*r.Positions),
		GamePhase:         phase,
		ExplicitCounters:  nonNil(*r.ExplicitCounters),
		ExplicitSynergies: nonNil(*r.ExplicitSynergies),
	}, nil
}

func (p *phaseRecord) toPhase(path string) (model.GamePhase, error) {
	switch {
	case p.Early == nil:
		return model.GamePhase{}, missing(path, "game_phase.early")
	case p.Mid == nil:
		return model.GamePhase{}, missing(path, "game_phase.mid")
	case p.Late == nil:
		return model.GamePhase{}, missing(path, "game_phase.late")
	}
	if *p.Early < 0 || *p.Mid < 0 || *p.Late < 0 {
		return model.GamePhase{}, invalid(path, "game_phase values must be non-negative")
	}
	return model.GamePhase{Early: *p.Early, Mid: *p.Mid, Late: *p.Late}, nil
}

func (r *roleRulesRecord) toRules(path string) (model.RoleRules, error) {
	switch {
	case r.RoleConflicts == nil:
		return model.RoleRules{}, missing(path, "role_conflicts")
	case r.RoleSynergies == nil:
		return model.RoleRules{}, missing(path, "role_synergies")
	}
	return model.RoleRules{
		RoleConflicts: nonNil(*r.RoleConflicts),
		RoleSynergies: nonNil(*r.RoleSynergies),
	}, nil
}

func (r *synergyRulesRecord) toRules(path string) (model.SynergyRules, error) {
	switch {
	case r.TagSynergies == nil:
		return model.SynergyRules{}, missing(path, "tag_synergies")
	case r.TagCounters == nil:
		return model.SynergyRules{}, missing(path, "tag_counters")
	}
	return model.SynergyRules{
		TagSynergies: nonNil(*r.TagSynergies),
		TagCounters:  nonNil(*r.TagCounters),
		PhaseBias:    nonNil(r.PhaseBias),
	}, nil
}

func nonNil[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return map[K]V{}
	}
	return m
}
