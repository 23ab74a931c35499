package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, "csv", cfg.Store.Driver)
	assert.Equal(t, 1, cfg.Scoring.RegularWin)
	assert.Equal(t, -1, cfg.Scoring.RegularLoss)
	assert.Equal(t, 3, cfg.Scoring.PlayoffWin)
	assert.Equal(t, -3, cfg.Scoring.PlayoffLoss)
	assert.Equal(t, "US/Eastern", cfg.Snapshot.Timezone)
	assert.Equal(t, "nhl_season_games.csv", cfg.Feeds.NHLGames)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CITYMOOD_STORE_DRIVER", "sqlite")
	t.Setenv("CITYMOOD_DATA_DIR", "/tmp/citymood-data")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "/tmp/citymood-data", cfg.Data.Dir)
}

func TestDataConfig_Dirs(t *testing.T) {
	d := DataConfig{Dir: "data"}
	assert.Equal(t, "data/processed", d.ProcessedDir())
	assert.Equal(t, "data/daily", d.DailyDir())
	assert.Equal(t, "data/outputs", d.OutputsDir())
}

func TestValidate_Store(t *testing.T) {
	cfg := &Config{Store: StoreConfig{Driver: "csv"}}
	assert.NoError(t, cfg.Validate("store"))

	cfg.Store.Driver = "postgres"
	err := cfg.Validate("store")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store driver")

	cfg.Store = StoreConfig{Driver: "sqlite"}
	err = cfg.Validate("store")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.path")
}

func TestValidate_Provider(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Validate("provider"))

	cfg.Provider.BaseURL = "https://example.com/api"
	assert.NoError(t, cfg.Validate("provider"))
}
