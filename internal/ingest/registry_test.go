package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citymood/citymood-cli/internal/config"
)

func testConfig(dir string) *config.Config {
	cfg := &config.Config{}
	cfg.Data.Dir = dir
	cfg.Feeds.NHLGames = "nhl.csv"
	cfg.Feeds.NBAGames = "nba.csv"
	cfg.Feeds.NBARoster = "nba_teams.csv"
	cfg.Feeds.MLBGames = "mlb.csv"
	cfg.Feeds.MLBNames = "mlb_names.csv"
	cfg.Feeds.NFLGames = "nfl.csv"
	return cfg
}

func TestRegistry_AllNames(t *testing.T) {
	r := NewRegistry(testConfig(t.TempDir()))
	assert.Equal(t, []string{"nhl_games", "nba_games", "mlb_games", "nfl_games"}, r.AllNames())
}

func TestRegistry_Select(t *testing.T) {
	r := NewRegistry(testConfig(t.TempDir()))

	all, err := r.Select(nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	some, err := r.Select([]string{"mlb_games"})
	require.NoError(t, err)
	require.Len(t, some, 1)
	assert.Equal(t, "mlb_games", some[0].Name())

	_, err = r.Select([]string{"nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown feed")
}
