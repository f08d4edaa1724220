// Package main provides the draftctl CLI entry point.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/drafter/internal/config"
	"github.com/okian/drafter/internal/domain/loader"
	"github.com/okian/drafter/internal/domain/recommend"
	"github.com/okian/drafter/pkg/logger"
)

var version = "dev"

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// globals holds configuration shared by every subcommand. Flags given on
// the command line override values from DRAFTER_* and the config file.
type globals struct {
	cfg     *config.Config
	verbose bool
	stderr  io.Writer

	dataDir       string
	heroesDir     string
	rolesFile     string
	synergiesFile string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globals{stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "draftctl",
		Short: "Draft pick recommendations from the command line",
		Long: `draftctl loads the hero catalog and rule tables from a data directory and
ranks the heroes still available given the picks on both sides.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.resolve(cmd)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.dataDir, "data-dir", "", "Data directory (default from DRAFTER_DATA_DIR or \"data\")")
	pf.StringVar(&g.heroesDir, "heroes-dir", "", "Hero records directory, relative to --data-dir")
	pf.StringVar(&g.rolesFile, "roles", "", "Role rules file, relative to --data-dir")
	pf.StringVar(&g.synergiesFile, "synergies", "", "Synergy rules file, relative to --data-dir")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "Log loader details to stderr")

	rootCmd.AddCommand(
		newRecommendCmd(g),
		newHeroesCmd(g),
		newFreshnessCmd(g),
	)
	return rootCmd
}

func (g *globals) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	pf := cmd.Flags()
	if pf.Changed("data-dir") {
		cfg.DataDir = g.dataDir
	}
	if pf.Changed("heroes-dir") {
		cfg.HeroesDir = g.heroesDir
	}
	if pf.Changed("roles") {
		cfg.RolesFile = g.rolesFile
	}
	if pf.Changed("synergies") {
		cfg.SynergiesFile = g.synergiesFile
	}
	g.cfg = cfg

	level := "warn"
	if g.verbose {
		level = "debug"
	}
	return logger.SetLevelString(level)
}

func (g *globals) logger() logger.Logger {
	return logger.New(g.stderr, false).Named("draftctl")
}

// load reads the catalog named by the resolved configuration.
func (g *globals) load(ctx context.Context) (*recommend.Drafter, error) {
	catalog, err := loader.Load(ctx, loader.Paths{
		HeroesDir:     g.cfg.HeroesPath(),
		RolesFile:     g.cfg.RolesPath(),
		SynergiesFile: g.cfg.SynergiesPath(),
	}, loader.WithLogger(g.logger()))
	if err != nil {
		return nil, err
	}
	return recommend.New(catalog), nil
}
