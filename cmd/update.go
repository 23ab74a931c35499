package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citymood/citymood-cli/internal/cityscore"
	"github.com/citymood/citymood-cli/internal/ledger"
	"github.com/citymood/citymood-cli/internal/rollup"
	"github.com/citymood/citymood-cli/internal/scoring"
	"github.com/citymood/citymood-cli/internal/store"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Run the full daily pipeline",
	Long: `Run the end-to-end daily pipeline: seed the data tree, reload the
historical feeds (idempotent), merge yesterday's snapshot, rebuild the ledger,
recompute city scores, and rewrite all rollup outputs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := seedCmd.RunE(cmd, args); err != nil {
			return err
		}
		if err := loadCmd.RunE(cmd, args); err != nil {
			return err
		}
		if err := snapshotCmd.RunE(cmd, args); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		games, err := st.Games(ctx)
		if err != nil {
			return err
		}
		rows, err := ledger.Build(games, scoring.FromConfig(cfg.Scoring))
		if err != nil {
			return err
		}
		if err := st.ReplaceLedger(ctx, rows); err != nil {
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

		out := store.NewOutputWriter(cfg.Data.OutputsDir())

		scores := cityscore.New(teams, cities).Compute(rows)
		if err := out.WriteCityScores("city_scores.csv", scores); err != nil {
			return err
		}
		if err := out.WriteCityScores("city_scores_latest.csv", cityscore.Latest(scores)); err != nil {
			return err
		}

		engine := rollup.NewEngine(teams)
		if err := out.WriteTeamRollups("team_rollup_weekly.csv", engine.Team(rows, rollup.Weekly)); err != nil {
			return err
		}
		if err := out.WriteTeamRollups("team_rollup_monthly.csv", engine.Team(rows, rollup.Monthly)); err != nil {
			return err
		}
		if err := out.WriteCityRollups("city_rollup_weekly.csv", engine.City(rows, rollup.Weekly)); err != nil {
			return err
		}
		if err := out.WriteCityRollups("city_rollup_monthly.csv", engine.City(rows, rollup.Monthly)); err != nil {
			return err
		}
		since, _ := cmd.Flags().GetString("daily-since")
		daily, err := engine.Daily(rows, since)
		if err != nil {
			return err
		}
		if err := out.WriteCityDaily("city_daily_7d.csv", daily); err != nil {
			return err
		}

		fmt.Printf("Update complete: %d games, %d ledger rows, %d score rows\n", len(games), len(rows), len(scores))
		return nil
	},
}

func init() {
	updateCmd.Flags().String("date", "", "ISO date to snapshot (default: yesterday in snapshot.timezone)")
	updateCmd.Flags().String("daily-since", "", "drop ledger rows before this ISO date in the daily series")
	rootCmd.AddCommand(updateCmd)
}
