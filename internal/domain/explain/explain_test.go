package explain_test

import (
	"testing"

	"github.com/okian/drafter/internal/domain/explain"
	"github.com/okian/drafter/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func newHero(name string, p model.GamePhase, counters map[string]float64) *model.Hero {
	if counters == nil {
		counters = map[string]float64{}
	}
	return &model.Hero{Name: name, GamePhase: p, ExplicitCounters: counters}
}

func TestExplainPhase(t *testing.T) {
	Convey("Given heroes with strong phases", t, func() {
		Convey("When early is 9 and the rest zero", func() {
			h := newHero("H", model.GamePhase{Early: 9}, nil)
			So(explain.Explain(h, nil, nil), ShouldResemble, []string{"Strong early game"})
		})

		Convey("When only late is 9", func() {
			h := newHero("H", model.GamePhase{Late: 9}, nil)
			So(explain.Explain(h, nil, nil), ShouldResemble, []string{"Strong late game"})
		})

		Convey("When both are strong only early is reported", func() {
			h := newHero("H", model.GamePhase{Early: 8, Late: 10}, nil)
			So(explain.Explain(h, nil, nil), ShouldResemble, []string{"Strong early game"})
		})

		Convey("When neither reaches the threshold", func() {
			h := newHero("H", model.GamePhase{Early: 7, Mid: 9, Late: 7}, nil)
			So(explain.Explain(h, nil, nil), ShouldBeEmpty)
		})
	})
}

func TestExplainCounters(t *testing.T) {
	Convey("Given a candidate and enemies with authored matchups", t, func() {
		heroes := map[string]*model.Hero{
			"Axe":       newHero("Axe", model.GamePhase{}, map[string]float64{"H": -5}),
			"Pudge":     newHero("Pudge", model.GamePhase{}, map[string]float64{"H": 3}),
			"Sniper":    newHero("Sniper", model.GamePhase{}, map[string]float64{"H": 2}),
			"Anti-Mage": newHero("Anti-Mage", model.GamePhase{}, nil),
		}
		h := newHero("H", model.GamePhase{}, map[string]float64{
			"Anti-Mage": 4,
			"Pudge":     -3,
			"Sniper":    -2,
		})
		heroes["H"] = h

		reasons := explain.Explain(h, []string{"Anti-Mage", "Axe", "Pudge", "Sniper"}, heroes)

		Convey("Then own entries and reversed enemy entries are explained", func() {
			So(reasons, ShouldResemble, []string{
				"counters Anti-Mage",
				"Counters Axe",
				"Weak against Pudge",
			})
		})

		Convey("Then values at the threshold are silent", func() {
			So(reasons, ShouldNotContain, "Weak against Sniper")
		})
	})

	Convey("Given an enemy missing from the catalog", t, func() {
		h := newHero("H", model.GamePhase{}, map[string]float64{"Ghost": 5})
		So(explain.Explain(h, []string{"Ghost"}, map[string]*model.Hero{}), ShouldResemble, []string{"counters Ghost"})
	})

	Convey("Given a nil hero", t, func() {
		So(explain.Explain(nil, []string{"A"}, nil), ShouldBeNil)
	})
}

func TestExplainDedupes(t *testing.T) {
	Convey("Given an enemy listed twice", t, func() {
		h := newHero("H", model.GamePhase{}, map[string]float64{"Axe": 5})
		reasons := explain.Explain(h, []string{"Axe", "Axe"}, nil)
		So(reasons, ShouldResemble, []string{"counters Axe"})
	})
}
