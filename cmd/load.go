package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/citymood/citymood-cli/internal/ingest"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load historical league feeds into the canonical tables",
	Long: `Load raw league feed files into the canonical city, team, and game tables.

By default all four feeds run (nhl_games, nba_games, mlb_games, nfl_games).
Use --feeds to restrict to specific feeds. Re-running over the same input is
idempotent: already-known games are skipped.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		resolver, err := initResolver()
		if err != nil {
			return err
		}

		feedsFlag, _ := cmd.Flags().GetString("feeds")
		var names []string
		if feedsFlag != "" {
			names = strings.Split(feedsFlag, ",")
			for i := range names {
				names[i] = strings.TrimSpace(names[i])
			}
		}

		registry := ingest.NewRegistry(cfg)
		feeds, err := registry.Select(names)
		if err != nil {
			return err
		}

		merger := ingest.NewMerger(st)
		var loaded, failed int
		for _, feed := range feeds {
			run, err := merger.Ingest(ctx, feed, resolver)
			if err != nil {
				zap.L().Error("feed failed", zap.String("feed", feed.Name()), zap.Error(err))
				failed++
				continue
			}
			fmt.Printf("%s: +%d cities, +%d teams, +%d games\n",
				feed.Name(), run.Counts.Cities, run.Counts.Teams, run.Counts.Games)
			loaded++
		}

		zap.L().Info("load complete", zap.Int("loaded", loaded), zap.Int("failed", failed))
		if loaded == 0 && failed > 0 {
			return eris.New("load: all feeds failed")
		}
		return nil
	},
}

func init() {
	loadCmd.Flags().String("feeds", "", "comma-separated feed names (e.g., nhl_games,mlb_games)")
	rootCmd.AddCommand(loadCmd)
}
