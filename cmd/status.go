package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show table sizes and recent ingest runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		cities, err := st.Cities(ctx)
		if err != nil {
			return err
		}
		teams, err := st.Teams(ctx)
		if err != nil {
			return err
		}
		games, err := st.Games(ctx)
		if err != nil {
			return err
		}
		rows, err := st.Ledger(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("cities: %d\nteams: %d\ngames: %d\nledger rows: %d\n\n",
			len(cities), len(teams), len(games), len(rows))

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := st.ListRuns(ctx, limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No ingest runs recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STARTED\tFEED\tSTATUS\tCITIES\tTEAMS\tGAMES\tERROR")
		for _, run := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
				run.StartedAt.Format(time.RFC3339), run.Feed, run.Status,
				run.Counts.Cities, run.Counts.Teams, run.Counts.Games,
				truncate(run.Error, 60))
		}
		return w.Flush()
	},
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func init() {
	statusCmd.Flags().Int("limit", 20, "maximum number of runs to show")
	rootCmd.AddCommand(statusCmd)
}
