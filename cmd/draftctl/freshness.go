package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/drafter/internal/adapters/dataset"
)

var errStale = errors.New("dataset is stale")

func newFreshnessCmd(g *globals) *cobra.Command {
	var failStale bool

	cmd := &cobra.Command{
		Use:   "freshness",
		Short: "Report whether the scraped dataset is recent enough",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := dataset.CheckFreshness(g.cfg.DatasetPath(), g.cfg.DatasetMaxAge, time.Now())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			switch {
			case !f.Exists:
				fmt.Fprintf(w, "stale: %s does not exist\n", f.Path)
			case f.Fresh:
				fmt.Fprintf(w, "fresh: %s is %s old\n", f.Path, f.Age.Round(time.Minute))
			default:
				fmt.Fprintf(w, "stale: %s is %s old (max %s)\n", f.Path, f.Age.Round(time.Minute), g.cfg.DatasetMaxAge)
			}
			if failStale && !f.Fresh {
				return errStale
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&failStale, "fail-stale", false, "Exit non-zero when the dataset is stale")
	return cmd
}
