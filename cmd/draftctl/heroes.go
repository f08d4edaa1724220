package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/okian/drafter/internal/domain/recommend"
	"github.com/okian/drafter/internal/domain/scoring"
	"github.com/okian/drafter/internal/domain/types"
)

func newHeroesCmd(g *globals) *cobra.Command {
	var outputFmt string

	cmd := &cobra.Command{
		Use:   "heroes",
		Short: "List the hero catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := g.load(cmd.Context())
			if err != nil {
				return err
			}
			return runHeroes(cmd.OutOrStdout(), d, outputFmt)
		},
	}
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")
	return cmd
}

func runHeroes(w io.Writer, d *recommend.Drafter, outputFmt string) error {
	heroes := d.Heroes()
	sort.Slice(heroes, func(i, j int) bool { return heroes[i].Name < heroes[j].Name })

	switch outputFmt {
	case "json":
		entries := make([]types.HeroEntry, len(heroes))
		for i, h := range heroes {
			entries[i] = types.HeroEntry{Name: h.Name, PrimaryAttribute: h.PrimaryAttribute, Positions: h.Positions}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "text":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "HERO\tATTR\tPOSITION")
		for _, h := range heroes {
			slot := "-"
			if s, top, _, ok := scoring.PrimaryPosition(h); ok {
				slot = fmt.Sprintf("%s (%.0f)", s, top)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", h.Name, h.PrimaryAttribute, slot)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", outputFmt)
	}
}
