// Package fixtures writes small on-disk data directories for tests.
package fixtures

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/drafter/internal/domain/loader"
)

// Hero is the on-disk hero record. Nil maps and slices are written as empty
// values so every required field is present.
type Hero struct {
	Name              string             `json:"name"`
	PrimaryAttribute  string             `json:"primary_attribute"`
	Roles             []string           `json:"roles"`
	Tags              []string           `json:"tags"`
	Positions         map[string]float64 `json:"positions"`
	GamePhase         Phase              `json:"game_phase"`
	ExplicitCounters  map[string]float64 `json:"explicit_counters"`
	ExplicitSynergies map[string]float64 `json:"explicit_synergies"`
}

// Phase is the on-disk game phase record.
type Phase struct {
	Early int `json:"early"`
	Mid   int `json:"mid"`
	Late  int `json:"late"`
}

func (h Hero) normalized() Hero {
	if h.PrimaryAttribute == "" {
		h.PrimaryAttribute = "str"
	}
	if h.Roles == nil {
		h.Roles = []string{}
	}
	if h.Tags == nil {
		h.Tags = []string{}
	}
	if h.Positions == nil {
		h.Positions = map[string]float64{}
	}
	if h.ExplicitCounters == nil {
		h.ExplicitCounters = map[string]float64{}
	}
	if h.ExplicitSynergies == nil {
		h.ExplicitSynergies = map[string]float64{}
	}
	return h
}

// Draft is the four hero catalog used across service and HTTP tests:
// A is an early game carry, B a support, C a pos_3 hero that counters A,
// D a mid laner with no matchup data.
func Draft() []Hero {
	return []Hero{
		{Name: "A", PrimaryAttribute: "agi", Roles: []string{"carry"}, Positions: map[string]float64{"pos_1": 90}, GamePhase: Phase{Early: 9}},
		{Name: "B", PrimaryAttribute: "int", Roles: []string{"support"}, Positions: map[string]float64{"pos_5": 80}},
		{Name: "C", PrimaryAttribute: "str", Positions: map[string]float64{"pos_3": 85}, ExplicitCounters: map[string]float64{"A": 6}},
		{Name: "D", PrimaryAttribute: "all", Positions: map[string]float64{"pos_2": 70}},
	}
}

// WriteHero writes h as <dir>/<name>.json and returns the path.
func WriteHero(tb testing.TB, dir string, h Hero) string {
	tb.Helper()
	return writeJSON(tb, filepath.Join(dir, h.Name+".json"), h.normalized())
}

// WriteFile writes raw content to dir/name and returns the path.
func WriteFile(tb testing.TB, dir, name, content string) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
	return path
}

// DataDir lays out heroes/, roles.json and synergies.json under a fresh
// temp directory and returns the loader paths. Empty rule tables are used.
func DataDir(tb testing.TB, heroes ...Hero) (string, loader.Paths) {
	tb.Helper()
	root := tb.TempDir()
	p := loader.Paths{
		HeroesDir:     filepath.Join(root, "heroes"),
		RolesFile:     filepath.Join(root, "roles.json"),
		SynergiesFile: filepath.Join(root, "synergies.json"),
	}
	if err := os.MkdirAll(p.HeroesDir, 0o755); err != nil {
		tb.Fatalf("mkdir heroes: %v", err)
	}
	for _, h := range heroes {
		WriteHero(tb, p.HeroesDir, h)
	}
	writeJSON(tb, p.RolesFile, map[string]any{
		"role_conflicts": map[string]int{},
		"role_synergies": map[string]int{},
	})
	writeJSON(tb, p.SynergiesFile, map[string]any{
		"tag_synergies": map[string]int{},
		"tag_counters":  map[string]int{},
	})
	return root, p
}

func writeJSON(tb testing.TB, path string, v any) string {
	tb.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		tb.Fatalf("marshal %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
	return path
}
