// Package explain produces the short human-readable reasons shown next to a
// recommended hero. Reasons are independent of the numeric score.
package explain

import (
	"fmt"

	"github.com/okian/drafter/internal/domain/model"
)

const (
	counterThreshold = 2.0
	strongPhase      = 8
)

// Explain lists why hero is worth considering against enemies. The result is
// deduplicated with the first occurrence kept.
func Explain(hero *model.Hero, enemies []string, heroes map[string]*model.Hero) []string {
	if hero == nil {
		return nil
	}
	var reasons []string

	for _, enemy := range enemies {
		if v, ok := hero.ExplicitCounters[enemy]; ok {
			switch {
			case v < -counterThreshold:
				reasons = append(reasons, fmt.Sprintf("Weak against %s", enemy))
			case v > counterThreshold:
				reasons = append(reasons, fmt.Sprintf("counters %s", enemy))
			}
		}

		// The enemy's own table, read in reverse.
		if e, ok := heroes[enemy]; ok && e != nil {
			if v, ok := e.ExplicitCounters[hero.Name]; ok {
				switch {
				case v < -counterThreshold:
					reasons = append(reasons, fmt.Sprintf("Counters %s", enemy))
				case v > counterThreshold:
					reasons = append(reasons, fmt.Sprintf("Weak against %s", enemy))
				}
			}
		}
	}

	switch {
	case hero.GamePhase.Early >= strongPhase:
		reasons = append(reasons, "Strong early game")
	case hero.GamePhase.Late >= strongPhase:
		reasons = append(reasons, "Strong late game")
	}

	return dedupe(reasons)
}

func dedupe(in []string) []string {
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
