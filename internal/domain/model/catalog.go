package model

import "sort"

// Catalog is the loaded hero set plus the global rule tables. It is built
// once by the loader and only read afterwards, so it is safe to share
// between goroutines.
type Catalog struct {
	Heroes    map[string]*Hero
	Roles     RoleRules
	Synergies SynergyRules
}

// Hero returns the hero with the given name, or nil.
func (c *Catalog) Hero(name string) *Hero {
	if c == nil {
		return nil
	}
	return c.Heroes[name]
}

// Len returns the number of heroes.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Heroes)
}

// Names returns every hero name in ascending order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.Heroes))
	for n := range c.Heroes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// TeamPhase sums the game phase of every known hero in roster. Unknown names
// contribute nothing.
func (c *Catalog) TeamPhase(roster []string) GamePhase {
	var p GamePhase
	for _, name := range roster {
		if h := c.Hero(name); h != nil {
			p = p.Add(h.GamePhase)
		}
	}
	return p
}
