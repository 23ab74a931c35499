package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citymood/citymood-cli/internal/config"
	"github.com/citymood/citymood-cli/internal/model"
	"github.com/citymood/citymood-cli/internal/rollup"
)

// setTestConfig points the global config at a temp data tree with default
// scoring weights and the csv store driver.
func setTestConfig(t *testing.T) *config.Config {
	t.Helper()
	prev := cfg
	t.Cleanup(func() { cfg = prev })

	cfg = &config.Config{}
	cfg.Data.Dir = t.TempDir()
	cfg.Store.Driver = "csv"
	cfg.Scoring = config.ScoringConfig{RegularWin: 1, RegularLoss: -1, PlayoffWin: 3, PlayoffLoss: -3}
	cfg.Feeds.NHLGames = "nhl.csv"
	cfg.Feeds.NBAGames = "nba.csv"
	cfg.Feeds.NBARoster = "nba_teams.csv"
	cfg.Feeds.MLBGames = "mlb.csv"
	cfg.Feeds.MLBNames = "mlb_names.csv"
	cfg.Feeds.NFLGames = "nfl.csv"
	cfg.Snapshot.Timezone = "UTC"
	return cfg
}

func writeRaw(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Data.Dir, name), []byte(content), 0o644))
}

func TestSelectionFilename(t *testing.T) {
	sel := rollup.Selection{
		model.LeagueNHL: "nhl_new-york-rangers",
		model.LeagueNBA: "nba_NYK",
		model.LeagueMLB: "mlb_NYN",
		model.LeagueNFL: "nfl_new-york-giants",
	}
	now := time.Date(2023, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t,
		"monthly_20230301_nhl-nhl_new-york-rangers_nba-nba_nyk_mlb-mlb_nyn_nfl-nfl_new-york-giants.csv",
		selectionFilename(sel, now))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "0123456789...", truncate("0123456789abc", 10))
}

func TestInitResolver_BadFile(t *testing.T) {
	setTestConfig(t)
	cfg.Resolve.NicknamesFile = filepath.Join(cfg.Data.Dir, "absent.yaml")

	_, err := initResolver()
	assert.Error(t, err)
}

func TestInitStore_BadDriver(t *testing.T) {
	setTestConfig(t)
	cfg.Store.Driver = "postgres"

	_, err := initStore(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store driver")
}
