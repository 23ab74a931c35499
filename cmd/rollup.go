package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/citymood/citymood-cli/internal/model"
	"github.com/citymood/citymood-cli/internal/resolve"
	"github.com/citymood/citymood-cli/internal/rollup"
	"github.com/citymood/citymood-cli/internal/store"
)

var rollupCmd = &cobra.Command{
	Use:   "rollup",
	Short: "Build weekly/monthly rollups and the daily city series",
	Long: `Aggregate the ledger into weekly and monthly rollups per team and per
city, plus the calendar-dense daily city series with trailing 7-day sums.
Writes team_rollup_weekly.csv, team_rollup_monthly.csv, city_rollup_weekly.csv,
city_rollup_monthly.csv, and city_daily_7d.csv under the outputs directory.`,
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

		engine := rollup.NewEngine(teams)
		out := store.NewOutputWriter(cfg.Data.OutputsDir())

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

		fmt.Printf("Wrote weekly/monthly rollups and daily series → %s\n", cfg.Data.OutputsDir())
		return nil
	},
}

// -- rollup teams --

var rollupTeamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "Monthly rollup for one selected team per league",
	Long: `Combine the monthly index scores of one chosen team per league into a
single series. All four leagues must be selected by canonical team id.`,
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

		sel := rollup.Selection{}
		for _, league := range []model.League{model.LeagueNHL, model.LeagueNBA, model.LeagueMLB, model.LeagueNFL} {
			v, _ := cmd.Flags().GetString(string(league))
			sel[league] = v
		}

		monthly, err := rollup.NewEngine(teams).SelectedMonthly(rows, sel)
		if err != nil {
			return err
		}

		outPath, _ := cmd.Flags().GetString("out")
		if outPath == "" {
			outPath = filepath.Join(cfg.Data.OutputsDir(), selectionFilename(sel, time.Now()))
		}
		if err := writeMonthlyTotals(outPath, monthly); err != nil {
			return err
		}

		fmt.Printf("Monthly rows: %d → %s\n", len(monthly), outPath)
		return nil
	},
}

// selectionFilename encodes the selection and run date into the output name,
// e.g. monthly_20230301_nhl-x_nba-y_mlb-z_nfl-w.csv.
func selectionFilename(sel rollup.Selection, now time.Time) string {
	parts := []string{"monthly", now.Format("20060102")}
	for _, league := range []model.League{model.LeagueNHL, model.LeagueNBA, model.LeagueMLB, model.LeagueNFL} {
		parts = append(parts, string(league)+"-"+resolve.Slugify(sel[league]))
	}
	return strings.Join(parts, "_") + ".csv"
}

// writeMonthlyTotals writes the selection series to an arbitrary path, which
// may live outside the outputs directory when --out is set.
func writeMonthlyTotals(path string, monthly []rollup.MonthlyTotal) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "rollup teams: create dir %s", filepath.Dir(path))
	}
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "rollup teams: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	records := [][]string{{"month_end", "month", "total_index_score", "games"}}
	for _, m := range monthly {
		records = append(records, []string{m.MonthEnd, m.Month, strconv.Itoa(m.TotalIndexScore), strconv.Itoa(m.Games)})
	}
	if err := w.WriteAll(records); err != nil {
		return eris.Wrapf(err, "rollup teams: write %s", path)
	}
	return nil
}

func init() {
	rollupCmd.Flags().String("daily-since", "", "drop ledger rows before this ISO date in the daily series")
	rollupTeamsCmd.Flags().String("nhl", "", "NHL team id (e.g., nhl_new-york-rangers)")
	rollupTeamsCmd.Flags().String("nba", "", "NBA team id (e.g., nba_NYK)")
	rollupTeamsCmd.Flags().String("mlb", "", "MLB team id (e.g., mlb_NYN)")
	rollupTeamsCmd.Flags().String("nfl", "", "NFL team id (e.g., nfl_new-york-giants)")
	rollupTeamsCmd.Flags().String("out", "", "output CSV path (default: auto-named under outputs)")
	rollupCmd.AddCommand(rollupTeamsCmd)
	rootCmd.AddCommand(rollupCmd)
}
