// Package types contains the read shapes returned to API and CLI callers.
package types

// Recommendation is one ranked pick suggestion.
type Recommendation struct {
	Rank    int      `json:"rank"`
	Hero    string   `json:"hero_name"`
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// HeroEntry is the summary used for hero pickers.
type HeroEntry struct {
	Name             string             `json:"name"`
	PrimaryAttribute string             `json:"primary_attr"`
	Positions        map[string]float64 `json:"positions"`
}

// DraftResult carries suggestions for both sides of one draft.
type DraftResult struct {
	Radiant []Recommendation `json:"radiant"`
	Dire    []Recommendation `json:"dire"`
}
