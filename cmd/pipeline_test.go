package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readOutput(t *testing.T, name string) [][]string {
	t.Helper()
	f, err := os.Open(filepath.Join(cfg.Data.OutputsDir(), name))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestPipeline_LoadLedgerScoresRollup(t *testing.T) {
	setTestConfig(t)

	writeRaw(t, "nhl.csv",
		"Date,Away,AwayGoals,Home,HomeGoals,Type\n"+
			"2023-03-01,Vegas Golden Knights,4,Toronto Maple Leafs,2,Regular Season\n"+
			"2023-03-02,Toronto Maple Leafs,5,Vegas Golden Knights,1,Playoffs Round 1\n")

	require.NoError(t, seedCmd.RunE(seedCmd, nil))
	require.NoError(t, loadCmd.Flags().Set("feeds", "nhl_games"))
	t.Cleanup(func() { _ = loadCmd.Flags().Set("feeds", "") })
	require.NoError(t, loadCmd.RunE(loadCmd, nil))
	require.NoError(t, ledgerCmd.RunE(ledgerCmd, nil))
	require.NoError(t, scoresCmd.RunE(scoresCmd, nil))
	require.NoError(t, rollupCmd.RunE(rollupCmd, nil))

	// Ledger: two games expand to four perspective rows in canonical order.
	ledgerRows := readOutput(t, filepath.Join("..", "processed", "team_game_results.csv"))
	require.Len(t, ledgerRows, 5)
	assert.Equal(t, "2023-03-01", ledgerRows[1][1])
	assert.Equal(t, "nhl_toronto-maple-leafs", ledgerRows[1][4], "team_id sorts first within the game")

	// City scores: playoff win on day two puts Toronto at +3.
	scores := readOutput(t, "city_scores.csv")
	require.Len(t, scores, 5)
	latest := readOutput(t, "city_scores_latest.csv")
	require.Len(t, latest, 3)
	assert.Equal(t, []string{"2023-03-02", "toronto", "Toronto", "3", "1", "0", "1", "0"}, latest[1])
	assert.Equal(t, []string{"2023-03-02", "vegas", "Vegas", "-3", "0", "1", "0", "1"}, latest[2])

	// Rollups: both games land in the same week.
	weekly := readOutput(t, "city_rollup_weekly.csv")
	require.Len(t, weekly, 3)
	assert.Equal(t, []string{"toronto", "2023-02-27", "0", "2", "2"}, weekly[1])
	assert.Equal(t, []string{"vegas", "2023-02-27", "0", "-2", "2"}, weekly[2])

	daily := readOutput(t, "city_daily_7d.csv")
	require.Len(t, daily, 5, "two days per city plus header")
}

func TestPipeline_RollupTeamsSelection(t *testing.T) {
	setTestConfig(t)

	writeRaw(t, "nhl.csv",
		"Date,Away,AwayGoals,Home,HomeGoals,Type\n"+
			"2023-03-01,Vegas Golden Knights,4,Toronto Maple Leafs,2,Regular Season\n")

	require.NoError(t, seedCmd.RunE(seedCmd, nil))
	require.NoError(t, loadCmd.Flags().Set("feeds", "nhl_games"))
	t.Cleanup(func() { _ = loadCmd.Flags().Set("feeds", "") })
	require.NoError(t, loadCmd.RunE(loadCmd, nil))
	require.NoError(t, ledgerCmd.RunE(ledgerCmd, nil))

	outPath := filepath.Join(cfg.Data.OutputsDir(), "selection.csv")
	for flag, value := range map[string]string{
		"nhl": "nhl_vegas-golden-knights",
		"nba": "nba_TOR",
		"mlb": "mlb_NYA",
		"nfl": "nfl_buffalo-bills",
		"out": outPath,
	} {
		require.NoError(t, rollupTeamsCmd.Flags().Set(flag, value))
	}
	require.NoError(t, rollupTeamsCmd.RunE(rollupTeamsCmd, nil))

	rows := readOutput(t, "selection.csv")
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"month_end", "month", "total_index_score", "games"}, rows[0])
	assert.Equal(t, []string{"2023-03-31", "2023-03-01", "1", "1"}, rows[1])
}

func TestPipeline_UpdateDailySince(t *testing.T) {
	setTestConfig(t)

	writeRaw(t, "nhl.csv",
		"Date,Away,AwayGoals,Home,HomeGoals,Type\n"+
			"2023-03-01,Vegas Golden Knights,4,Toronto Maple Leafs,2,Regular Season\n"+
			"2023-03-02,Toronto Maple Leafs,5,Vegas Golden Knights,1,Playoffs Round 1\n")

	require.NoError(t, updateCmd.Flags().Set("date", "2023-03-05"))
	require.NoError(t, updateCmd.Flags().Set("daily-since", "2023-03-02"))
	t.Cleanup(func() {
		_ = updateCmd.Flags().Set("date", "")
		_ = updateCmd.Flags().Set("daily-since", "")
	})

	// Only the NHL raw file exists; the other feeds fail their runs without
	// aborting the pipeline.
	require.NoError(t, updateCmd.RunE(updateCmd, nil))

	// The cutoff drops March 1st from the daily series.
	daily := readOutput(t, "city_daily_7d.csv")
	require.Len(t, daily, 3)
	assert.Equal(t, "2023-03-02", daily[1][0])
	assert.Equal(t, "2023-03-02", daily[2][0])

	// An empty snapshot for the target day was created and merged as a no-op.
	snapshot := filepath.Join(cfg.Data.DailyDir(), "2023-03-05.csv")
	_, err := os.Stat(snapshot)
	require.NoError(t, err)

	latest := readOutput(t, "city_scores_latest.csv")
	require.Len(t, latest, 3)
	assert.Equal(t, []string{"2023-03-02", "toronto", "Toronto", "3", "1", "0", "1", "0"}, latest[1])
}
