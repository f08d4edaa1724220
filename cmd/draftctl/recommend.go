package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/okian/drafter/internal/domain/recommend"
	"github.com/okian/drafter/internal/domain/scoring"
	"github.com/okian/drafter/internal/domain/types"
)

type recommendOpts struct {
	enemies   []string
	allies    []string
	limit     int
	explain   bool
	outputFmt string
}

func newRecommendCmd(g *globals) *cobra.Command {
	var opts recommendOpts

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank the heroes still available for your side",
		Example: `  draftctl recommend --enemies "Anti-Mage,Lion" --allies Axe --limit 5
  draftctl recommend --enemies Pudge --explain --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("limit") {
				opts.limit = g.cfg.DefaultLimit
			}
			if opts.limit < 0 {
				return errors.New("--limit must not be negative")
			}
			d, err := g.load(cmd.Context())
			if err != nil {
				return err
			}
			warnUnknown(g.stderr, d, opts.enemies, opts.allies)
			return runRecommend(cmd.OutOrStdout(), d, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.enemies, "enemies", nil, "Enemy picks, comma separated")
	cmd.Flags().StringSliceVar(&opts.allies, "allies", nil, "Allied picks, comma separated")
	cmd.Flags().IntVar(&opts.limit, "limit", 10, "Maximum number of recommendations")
	cmd.Flags().BoolVar(&opts.explain, "explain", false, "Show the per-signal score breakdown")
	cmd.Flags().StringVar(&opts.outputFmt, "output", "text", "Output format: text or json")
	return cmd
}

// explained adds the raw breakdown to a recommendation for --explain.
type explained struct {
	types.Recommendation
	Breakdown *scoring.Breakdown `json:"breakdown,omitempty"`
}

func runRecommend(w io.Writer, d *recommend.Drafter, opts recommendOpts) error {
	recs := d.Recommend(opts.enemies, opts.allies, opts.limit)
	out := make([]explained, len(recs))
	for i, r := range recs {
		out[i].Recommendation = r
		if opts.explain {
			if b, ok := d.Breakdown(r.Hero, opts.enemies, opts.allies); ok {
				out[i].Breakdown = &b
			}
		}
	}

	switch opts.outputFmt {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "text":
		return writeRecommendations(w, out)
	default:
		return fmt.Errorf("unknown output format %q", opts.outputFmt)
	}
}

func writeRecommendations(w io.Writer, recs []explained) error {
	if len(recs) == 0 {
		_, err := fmt.Fprintln(w, "no heroes available")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tHERO\tSCORE\tREASONS")
	for _, r := range recs {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", r.Rank, r.Hero, r.Score, strings.Join(r.Reasons, "; "))
		if b := r.Breakdown; b != nil {
			fmt.Fprintf(tw, "\t\t\tposition=%d roles=%d phase=%d phase_bias=%d counters=%d synergies=%d role_pairs=%d tag_synergies=%d tag_counters=%d total=%d\n",
				b.Position, b.RoleSaturation, b.Phase, b.PhaseBias, b.Counters, b.Synergies,
				b.RolePairs, b.TagSynergies, b.TagCounters, b.Total())
		}
	}
	return tw.Flush()
}

func warnUnknown(w io.Writer, d *recommend.Drafter, rosters ...[]string) {
	for _, roster := range rosters {
		for _, name := range roster {
			if d.Hero(name) == nil {
				fmt.Fprintf(w, "warning: unknown hero %q ignored\n", name)
			}
		}
	}
}
