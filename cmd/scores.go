package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citymood/citymood-cli/internal/cityscore"
	"github.com/citymood/citymood-cli/internal/store"
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Compute per-day city scores",
	Long: `Aggregate the ledger into per-(date, city) scores and write
city_scores.csv plus the latest-day snapshot city_scores_latest.csv under the
outputs directory.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		rows, err := st.Ledger(ctx)
		if err != nil {
			return err
		}
		teams, err := st.Teams(ctx)
		if err != nil {
			return err
		}
		cities, err := st.Cities(ctx)
		if err != nil {
			return err
		}

		scores := cityscore.New(teams, cities).Compute(rows)
		latest := cityscore.Latest(scores)

		out := store.NewOutputWriter(cfg.Data.OutputsDir())
		if err := out.WriteCityScores("city_scores.csv", scores); err != nil {
			return err
		}
		if err := out.WriteCityScores("city_scores_latest.csv", latest); err != nil {
			return err
		}

		fmt.Printf("Computed scores: all=%d, latest=%d → %s\n", len(scores), len(latest), cfg.Data.OutputsDir())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scoresCmd)
}
