// Package recommend ranks the heroes still available in a draft.
package recommend

import (
	"sort"

	"github.com/okian/drafter/internal/domain/explain"
	"github.com/okian/drafter/internal/domain/model"
	"github.com/okian/drafter/internal/domain/scoring"
	"github.com/okian/drafter/internal/domain/types"
)

// Drafter owns a loaded catalog and answers recommendation requests against
// it. A Drafter never mutates its catalog, so concurrent calls are safe.
type Drafter struct {
	catalog *model.Catalog
	engine  *scoring.Engine
}

// New wraps a loaded catalog.
func New(c *model.Catalog) *Drafter {
	if c == nil {
		c = &model.Catalog{Heroes: map[string]*model.Hero{}}
	}
	return &Drafter{catalog: c, engine: scoring.NewEngine(c)}
}

// Catalog returns the catalog the drafter was built from.
func (d *Drafter) Catalog() *model.Catalog { return d.catalog }

// Len returns the number of heroes in the catalog.
func (d *Drafter) Len() int { return d.catalog.Len() }

// Hero looks up a hero by name.
func (d *Drafter) Hero(name string) *model.Hero { return d.catalog.Hero(name) }

// Heroes returns every hero. Order is unspecified.
func (d *Drafter) Heroes() []*model.Hero {
	out := make([]*model.Hero, 0, len(d.catalog.Heroes))
	for _, h := range d.catalog.Heroes {
		out = append(out, h)
	}
	return out
}

// TeamPhase aggregates the game phase of a roster.
func (d *Drafter) TeamPhase(roster []string) model.GamePhase {
	return d.catalog.TeamPhase(roster)
}

// Recommend ranks every hero not already picked by either side and returns
// at most limit of them. Higher scores come first; equal scores are ordered
// by hero name. Unknown names in either roster are ignored.
func (d *Drafter) Recommend(enemies, allies []string, limit int) []types.Recommendation {
	if limit <= 0 {
		return []types.Recommendation{}
	}

	picked := make(map[string]struct{}, len(enemies)+len(allies))
	for _, n := range enemies {
		picked[n] = struct{}{}
	}
	for _, n := range allies {
		picked[n] = struct{}{}
	}

	enemyPhase := d.TeamPhase(enemies)
	out := make([]types.Recommendation, 0, d.Len())
	for _, name := range d.catalog.Names() {
		if _, ok := picked[name]; ok {
			continue
		}
		h := d.catalog.Heroes[name]
		score := d.engine.Score(scoring.Input{
			Hero:       h,
			Allies:     allies,
			Enemies:    enemies,
			EnemyPhase: enemyPhase,
		})
		reasons := explain.Explain(h, enemies, d.catalog.Heroes)
		if reasons == nil {
			reasons = []string{}
		}
		out = append(out, types.Recommendation{Hero: name, Score: score, Reasons: reasons})
	}

	// Names() is sorted, so a stable sort on score alone breaks ties by name.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })

	if len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Breakdown returns the per-signal contributions for one hero. ok is false
// when the hero is unknown.
func (d *Drafter) Breakdown(name string, enemies, allies []string) (scoring.Breakdown, bool) {
	h := d.catalog.Hero(name)
	if h == nil {
		return scoring.Breakdown{}, false
	}
	return d.engine.Breakdown(scoring.Input{
		Hero:       h,
		Allies:     allies,
		Enemies:    enemies,
		EnemyPhase: d.TeamPhase(enemies),
	}), true
}
