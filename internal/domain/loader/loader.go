// Package loader materializes the hero catalog and rule tables from disk.
//
// A load is all-or-nothing: the first unreadable or malformed record aborts
// it with a *LoadError naming the file, and no partial catalog is returned.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/okian/drafter/internal/domain/model"
	"github.com/okian/drafter/pkg/logger"
)

// Paths locates the three inputs of a load.
type Paths struct {
	HeroesDir     string
	RolesFile     string
	SynergiesFile string
}

// Option configures a load.
type Option func(*options)

type options struct {
	logger logger.Logger
}

// WithLogger reports duplicate names and skipped entries to l.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{logger: logger.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Load reads every hero record under p.HeroesDir plus the two rule tables.
// A cancelled ctx stops the load between files with ctx's error.
func Load(ctx context.Context, p Paths, opts ...Option) (*model.Catalog, error) {
	heroes, err := LoadHeroes(ctx, p.HeroesDir, opts...)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	roles, err := LoadRoleRules(p.RolesFile)
	if err != nil {
		return nil, err
	}
	synergies, err := LoadSynergyRules(p.SynergiesFile)
	if err != nil {
		return nil, err
	}
	return &model.Catalog{Heroes: heroes, Roles: roles, Synergies: synergies}, nil
}

// LoadHeroes reads one hero per file in dir, in lexical file order.
// Subdirectories and hidden files are skipped. When two files declare the
// same name the later one wins.
func LoadHeroes(ctx context.Context, dir string, opts ...Option) (map[string]*model.Hero, error) {
	o := newOptions(opts)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, newLoadError(dir, ErrUnreadable, err)
	}

	heroes := make(map[string]*model.Hero, len(entries))
	source := make(map[string]string, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("load heroes: %w", err)
		}
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			o.logger.Debug(ctx, "skipping hero directory entry", logger.String("entry", e.Name()))
			continue
		}
		path := filepath.Join(dir, e.Name())
		hero, err := loadHero(path)
		if err != nil {
			return nil, err
		}
		if prev, ok := source[hero.Name]; ok {
			o.logger.Warn(ctx, "duplicate hero name; later record wins",
				logger.String("hero", hero.Name),
				logger.String("previous", prev),
				logger.String("file", path),
			)
		}
		heroes[hero.Name] = hero
		source[hero.Name] = path
	}
	return heroes, nil
}

func loadHero(path string) (*model.Hero, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newLoadError(path, ErrUnreadable, err)
	}
	var rec heroRecord
	if err := decode(path, data, &rec); err != nil {
		return nil, newLoadError(path, ErrMalformed, err)
	}
	return rec.toHero(path)
}

// LoadRoleRules reads the role conflict/synergy table.
func LoadRoleRules(path string) (model.RoleRules, error) {
	var rec roleRulesRecord
	if err := readRecord(path, &rec); err != nil {
		return model.RoleRules{}, err
	}
	return rec.toRules(path)
}

// LoadSynergyRules reads the tag synergy/counter table. phase_bias is
// optional and defaults to empty.
func LoadSynergyRules(path string) (model.SynergyRules, error) {
	var rec synergyRulesRecord
	if err := readRecord(path, &rec); err != nil {
		return model.SynergyRules{}, err
	}
	return rec.toRules(path)
}

func readRecord(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newLoadError(path, ErrUnreadable, err)
	}
	if err := decode(path, data, v); err != nil {
		return newLoadError(path, ErrMalformed, err)
	}
	return nil
}
