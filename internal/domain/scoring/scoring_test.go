package scoring_test

import (
	"testing"

	"github.com/okian/drafter/internal/domain/model"
	"github.com/okian/drafter/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

// hero builds a hero with empty tables so tests only set what they exercise.
func hero(name string, mutate ...func(h *model.Hero)) *model.Hero {
	h := &model.Hero{
		Name:              name,
		Positions:         model.Positions{},
		ExplicitCounters:  map[string]float64{},
		ExplicitSynergies: map[string]float64{},
	}
	for _, m := range mutate {
		m(h)
	}
	return h
}

func roles(r ...string) func(*model.Hero) { return func(h *model.Hero) { h.Roles = r } }
func tags(t ...string) func(*model.Hero)  { return func(h *model.Hero) { h.Tags = t } }
func pos(slot string, w float64) func(*model.Hero) {
	return func(h *model.Hero) { h.Positions[slot] = w }
}
func phase(e, m, l int) func(*model.Hero) {
	return func(h *model.Hero) { h.GamePhase = model.GamePhase{Early: e, Mid: m, Late: l} }
}
func counters(name string, v float64) func(*model.Hero) {
	return func(h *model.Hero) { h.ExplicitCounters[name] = v }
}
func synergy(name string, v float64) func(*model.Hero) {
	return func(h *model.Hero) { h.ExplicitSynergies[name] = v }
}

func catalog(heroes ...*model.Hero) *model.Catalog {
	c := &model.Catalog{
		Heroes: make(map[string]*model.Hero, len(heroes)),
		Roles: model.RoleRules{
			RoleConflicts: map[string]int{},
			RoleSynergies: map[string]int{},
		},
		Synergies: model.SynergyRules{
			TagSynergies: map[string]int{},
			TagCounters:  map[string]int{},
			PhaseBias:    map[string]map[string]int{},
		},
	}
	for _, h := range heroes {
		c.Heroes[h.Name] = h
	}
	return c
}

func TestExplicitCounters(t *testing.T) {
	Convey("Given two otherwise identical heroes, one authored to counter the enemy", t, func() {
		c := catalog(
			hero("X"),
			hero("Hunter", counters("X", 5)),
			hero("Plain"),
		)
		eng := scoring.NewEngine(c)
		enemies := []string{"X"}
		enemyPhase := c.TeamPhase(enemies)

		hunter := eng.Breakdown(scoring.Input{Hero: c.Hero("Hunter"), Enemies: enemies, EnemyPhase: enemyPhase})
		plain := eng.Breakdown(scoring.Input{Hero: c.Hero("Plain"), Enemies: enemies, EnemyPhase: enemyPhase})

		Convey("Then the counter term is value times two", func() {
			So(hunter.Counters, ShouldEqual, 10)
			So(plain.Counters, ShouldEqual, 0)
		})

		Convey("Then the displayed scores differ by exactly 5*2/10", func() {
			So(hunter.Final()-plain.Final(), ShouldEqual, 1)
		})
	})

	Convey("Given an enemy whose own table names the candidate", t, func() {
		Convey("When the enemy says it counters the candidate", func() {
			c := catalog(hero("X", counters("H", 4)), hero("H"))
			b := scoring.NewEngine(c).Breakdown(scoring.Input{Hero: c.Hero("H"), Enemies: []string{"X"}})
			So(b.Counters, ShouldEqual, -8)
		})

		Convey("When the enemy says it is weak to the candidate", func() {
			c := catalog(hero("X", counters("H", -2.6)), hero("H"))
			b := scoring.NewEngine(c).Breakdown(scoring.Input{Hero: c.Hero("H"), Enemies: []string{"X"}})
			So(b.Counters, ShouldEqual, 5)
		})

		Convey("When both directions are authored both apply", func() {
			c := catalog(hero("X", counters("H", 1.5)), hero("H", counters("X", 3)))
			b := scoring.NewEngine(c).Breakdown(scoring.Input{Hero: c.Hero("H"), Enemies: []string{"X"}})
			So(b.Counters, ShouldEqual, 6-3)
		})
	})

	Convey("Given an enemy name the catalog does not know", t, func() {
		c := catalog(hero("H", counters("Ghost", 3)))
		b := scoring.NewEngine(c).Breakdown(scoring.Input{Hero: c.Hero("H"), Enemies: []string{"Ghost"}})

		Convey("Then the candidate's own entry still counts", func() {
			So(b.Counters, ShouldEqual, 6)
		})
	})
}

func TestExplicitSynergies(t *testing.T) {
	Convey("Given a hero with a synergy entry for an ally", t, func() {
		c := catalog(hero("B"), hero("H", synergy("B", 3.5), synergy("Nobody", 9)))
		b := scoring.NewEngine(c).Breakdown(scoring.Input{Hero: c.Hero("H"), Allies: []string{"B"}})

		Convey("Then only drafted allies contribute, doubled and truncated", func() {
			So(b.Synergies, ShouldEqual, 7)
		})
	})
}

func TestPositionPenalty(t *testing.T) {
	Convey("Given an ally already playing the primary carry slot", t, func() {
		ally := hero("Ally", pos(model.Pos1, 90))

		Convey("When the candidate strongly prefers the same slot", func() {
			c := catalog(ally, hero("H", pos(model.Pos1, 80), pos(model.Pos2, 10)))
			b := scoring.NewEngine(c).Breakdown(scoring.Input{Hero: c.Hero("H"), Allies: []string{"Ally"}})
			So(b.Position, ShouldEqual, -96)
		})

		Convey("When the candidate's top weight is weak", func() {
			c := catalog(ally, hero("H", pos(model.Pos1, 35)))
			b := scoring.NewEngine(c).Breakdown(scoring.Input{Hero: c.Hero("H"), Allies: []string{"Ally"}})
			So(b.Position, ShouldEqual, -23) // 120 * 0.55 * 0.35
		})

		Convey("When the candidate is flexible between two slots", func() {
			c := catalog(ally, hero("H", pos(model.Pos1, 60), pos(model.Pos2, 50)))
			b := scoring.NewEngine(c).Breakdown(scoring.Input{Hero: c.Hero("H"), Allies: []string{"Ally"}})
			So(b.Position, ShouldEqual, -54) // 120 * 0.75 * 0.6
		})

		Convey("When the candidate plays another slot", func() {
			c := catalog(ally, hero("H", pos(model.Pos3, 85)))
			b := scoring.NewEngine(c).Breakdown(scoring.Input{Hero: c.Hero("H"), Allies: []string{"Ally"}})
			So(b.Position, ShouldEqual, 0)
		})

		Convey("When the candidate's weight exceeds 100 it is clamped", func() {
			c := catalog(ally, hero("H", pos(model.Pos1, 150)))
			b := scoring.NewEngine(c).Breakdown(scoring.Input{Hero: c.Hero("H"), Allies: []string{"Ally"}})
			So(b.Position, ShouldEqual, -120)
		})
	})

	Convey("Given support slots that allow two heroes", t, func() {
		candidate := hero("H", pos(model.Pos5, 80))

		Convey("When one ally holds the slot there is no penalty", func() {
			c := catalog(hero("S1", pos(model.Pos5, 70)), candidate)
			b := scoring.NewEngine(c).Breakdown(scoring.Input{Hero: candidate, Allies: []string{"S1"}})
			So(b.Position, ShouldEqual, 0)
		})

		Convey("When two allies hold the slot the penalty applies", func() {
			c := catalog(hero("S1", pos(model.Pos5, 70)), hero("S2", pos(model.Pos5, 90)), candidate)
			b := scoring.NewEngine(c).Breakdown(scoring.Input{Hero: candidate, Allies: []string{"S1", "S2"}})
			So(b.Position, ShouldEqual, -48) // 60 * 1.0 * 0.8
		})
	})
}

func TestRoleSaturation(t *testing.T) {
	Convey("Given allies with core roles", t, func() {
		c := catalog(
			hero("Carry1", roles("carry")),
			hero("Sup1", roles("support")),
			hero("Sup2", roles("support", "support")),
			hero("NewCarry", roles("carry", "carry")),
			hero("NewSup", roles("support")),
		)
		eng := scoring.NewEngine(c)

		Convey("When a carry is already drafted a second carry is penalized once", func() {
			b := eng.Breakdown(scoring.Input{Hero: c.Hero("NewCarry"), Allies: []string{"Carry1"}})
			So(b.RoleSaturation, ShouldEqual, -100)
		})

		Convey("When one support is drafted another support is fine", func() {
			b := eng.Breakdown(scoring.Input{Hero: c.Hero("NewSup"), Allies: []string{"Sup1"}})
			So(b.RoleSaturation, ShouldEqual, 0)
		})

		Convey("When two supports are drafted a third is penalized", func() {
			b := eng.Breakdown(scoring.Input{Hero: c.Hero("NewSup"), Allies: []string{"Sup1", "Sup2"}})
			So(b.RoleSaturation, ShouldEqual, -50)
		})

		Convey("When one ally lists support twice it still counts as one", func() {
			b := eng.Breakdown(scoring.Input{Hero: c.Hero("NewSup"), Allies: []string{"Sup2"}})
			So(b.RoleSaturation, ShouldEqual, 0)
		})
	})
}

func TestPhaseAlignment(t *testing.T) {
	Convey("Given an enemy team concentrated in the early game", t, func() {
		c := catalog(
			hero("E1", phase(2, 1, 1)),
			hero("H", phase(8, 4, 0), tags("pusher", "pusher")),
		)
		c.Synergies.PhaseBias = map[string]map[string]int{
			"early": {"pusher": 10},
			"late":  {"pusher": 6},
		}
		eng := scoring.NewEngine(c)
		enemies := []string{"E1"}
		b := eng.Breakdown(scoring.Input{Hero: c.Hero("H"), Enemies: enemies, EnemyPhase: c.TeamPhase(enemies)})

		Convey("Then strength is weighted by the enemy's phase share", func() {
			So(b.Phase, ShouldEqual, 40+10) // 8*0.5*10 + 4*0.25*10
		})

		Convey("Then tag phase bias is rounded per phase", func() {
			So(b.PhaseBias, ShouldEqual, 5+2) // round(10*0.5) + round(6*0.25)
		})
	})

	Convey("Given no enemy phase signal", t, func() {
		c := catalog(hero("H", phase(9, 1, 7), tags("pusher")))
		c.Synergies.PhaseBias = map[string]map[string]int{"late": {"pusher": 50}}
		b := scoring.NewEngine(c).Breakdown(scoring.Input{Hero: c.Hero("H")})

		Convey("Then the late game strength is added flat and bias is skipped", func() {
			So(b.Phase, ShouldEqual, 7)
			So(b.PhaseBias, ShouldEqual, 0)
		})
	})
}

func TestRoleAndTagRules(t *testing.T) {
	Convey("Given role and tag rule tables", t, func() {
		c := catalog(
			hero("SupAlly", roles("support"), tags("disabler")),
			hero("CarryAlly", roles("carry")),
			hero("Illusionist", tags("illusion")),
			hero("Blaster", tags("aoe")),
			hero("H", roles("carry"), tags("ganker", "aoe")),
		)
		c.Roles.RoleSynergies["support+carry"] = 15
		c.Roles.RoleConflicts["carry+carry"] = -40
		c.Synergies.TagSynergies["disabler+ganker"] = 12
		c.Synergies.TagCounters["illusion+aoe"] = 20
		eng := scoring.NewEngine(c)

		Convey("When pairing with a support ally the reversed key is found", func() {
			b := eng.Breakdown(scoring.Input{Hero: c.Hero("H"), Allies: []string{"SupAlly"}})
			So(b.RolePairs, ShouldEqual, 15)
			So(b.TagSynergies, ShouldEqual, 12)
		})

		Convey("When pairing with another carry the conflict applies", func() {
			b := eng.Breakdown(scoring.Input{Hero: c.Hero("H"), Allies: []string{"CarryAlly"}})
			So(b.RolePairs, ShouldEqual, -40)
			So(b.RoleSaturation, ShouldEqual, -100)
		})

		Convey("When the enemy tag is keyed first the counter applies", func() {
			b := eng.Breakdown(scoring.Input{Hero: c.Hero("H"), Enemies: []string{"Illusionist"}})
			So(b.TagCounters, ShouldEqual, 20)
		})

		Convey("When only the reverse direction would match nothing applies", func() {
			b := eng.Breakdown(scoring.Input{Hero: c.Hero("Illusionist"), Enemies: []string{"Blaster"}})
			So(b.TagCounters, ShouldEqual, 0)
		})
	})
}

func TestFinalScore(t *testing.T) {
	Convey("Given a raw total that is negative and not a multiple of ten", t, func() {
		b := scoring.Breakdown{Counters: -15}

		Convey("Then the display score truncates toward zero", func() {
			So(b.Total(), ShouldEqual, -15)
			So(b.Final(), ShouldEqual, -1)
		})
	})

	Convey("Given unknown roster names and a nil hero", t, func() {
		c := catalog(hero("H", phase(0, 0, 3)))
		eng := scoring.NewEngine(c)

		Convey("Then unknown names contribute nothing", func() {
			b := eng.Breakdown(scoring.Input{Hero: c.Hero("H"), Allies: []string{"Nope"}, Enemies: []string{"Ghost"}})
			So(b, ShouldResemble, scoring.Breakdown{Phase: 3})
		})

		Convey("Then a nil hero scores zero", func() {
			So(eng.Score(scoring.Input{}), ShouldEqual, 0)
		})
	})

	Convey("Given the same inputs twice", t, func() {
		c := catalog(
			hero("A", roles("carry"), pos(model.Pos1, 90), phase(9, 0, 0)),
			hero("C", pos(model.Pos3, 85), counters("A", 6), phase(1, 2, 3)),
		)
		eng := scoring.NewEngine(c)
		in := scoring.Input{Hero: c.Hero("C"), Enemies: []string{"A"}, EnemyPhase: c.TeamPhase([]string{"A"})}

		Convey("Then the score is identical", func() {
			So(eng.Score(in), ShouldEqual, eng.Score(in))
			So(eng.Score(in), ShouldEqual, (12+10)/10)
		})
	})
}
