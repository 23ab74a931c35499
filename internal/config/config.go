package config

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data     DataConfig     `yaml:"data" mapstructure:"data"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Scoring  ScoringConfig  `yaml:"scoring" mapstructure:"scoring"`
	Resolve  ResolveConfig  `yaml:"resolve" mapstructure:"resolve"`
	Feeds    FeedsConfig    `yaml:"feeds" mapstructure:"feeds"`
	Snapshot SnapshotConfig `yaml:"snapshot" mapstructure:"snapshot"`
	Provider ProviderConfig `yaml:"provider" mapstructure:"provider"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the on-disk data tree. Raw feed files live directly in
// Dir; canonical tables under processed/, daily snapshots under daily/, and
// derived aggregates under outputs/.
type DataConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// ProcessedDir returns the canonical-table directory.
func (d DataConfig) ProcessedDir() string { return filepath.Join(d.Dir, "processed") }

// DailyDir returns the daily snapshot directory.
func (d DataConfig) DailyDir() string { return filepath.Join(d.Dir, "daily") }

// OutputsDir returns the derived-aggregate directory.
func (d DataConfig) OutputsDir() string { return filepath.Join(d.Dir, "outputs") }

// StoreConfig configures the canonical-table backend.
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"` // "csv" or "sqlite"
	Path   string `yaml:"path" mapstructure:"path"`     // sqlite database path; unused for csv
}

// ScoringConfig holds the four outcome weights. Weighted scores use the
// absolute value of these, signed by the base outcome.
type ScoringConfig struct {
	RegularWin  int `yaml:"regular_season_win" mapstructure:"regular_season_win"`
	RegularLoss int `yaml:"regular_season_loss" mapstructure:"regular_season_loss"`
	PlayoffWin  int `yaml:"playoff_win" mapstructure:"playoff_win"`
	PlayoffLoss int `yaml:"playoff_loss" mapstructure:"playoff_loss"`
}

// ResolveConfig configures entity resolution.
type ResolveConfig struct {
	// NicknamesFile optionally overrides the curated multi-word nickname
	// sets with a YAML file mapping league -> list of nickname suffixes.
	NicknamesFile string `yaml:"nicknames_file" mapstructure:"nicknames_file"`
}

// FeedsConfig names the raw input files, relative to the data dir.
type FeedsConfig struct {
	NHLGames  string `yaml:"nhl_games" mapstructure:"nhl_games"`
	NBAGames  string `yaml:"nba_games" mapstructure:"nba_games"`
	NBARoster string `yaml:"nba_roster" mapstructure:"nba_roster"`
	MLBGames  string `yaml:"mlb_games" mapstructure:"mlb_games"`
	MLBNames  string `yaml:"mlb_names" mapstructure:"mlb_names"`
	NFLGames  string `yaml:"nfl_games" mapstructure:"nfl_games"`
}

// SnapshotConfig configures the daily snapshot path.
type SnapshotConfig struct {
	// Timezone decides what "yesterday" means; defaults to US/Eastern since
	// late games end after midnight UTC.
	Timezone string `yaml:"timezone" mapstructure:"timezone"`
}

// ProviderConfig holds settings for the external results provider used to
// populate daily snapshots. An empty key disables fetching; the snapshot
// stays empty and the pipeline remains green.
type ProviderConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	APIKey      string  `yaml:"api_key" mapstructure:"api_key"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Burst       int     `yaml:"burst" mapstructure:"burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CITYMOOD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.dir", "data")
	v.SetDefault("store.driver", "csv")
	v.SetDefault("store.path", "data/citymood.db")
	v.SetDefault("scoring.regular_season_win", 1)
	v.SetDefault("scoring.regular_season_loss", -1)
	v.SetDefault("scoring.playoff_win", 3)
	v.SetDefault("scoring.playoff_loss", -3)
	v.SetDefault("feeds.nhl_games", "nhl_season_games.csv")
	v.SetDefault("feeds.nba_games", "nba_regular_season_totals.csv")
	v.SetDefault("feeds.nba_roster", "nba_teams.csv")
	v.SetDefault("feeds.mlb_games", "mlb_game_info.csv")
	v.SetDefault("feeds.mlb_names", "mlb_current_names.csv")
	v.SetDefault("feeds.nfl_games", "nfl_scores.csv")
	v.SetDefault("snapshot.timezone", "US/Eastern")
	v.SetDefault("provider.base_url", "https://www.thesportsdb.com/api/v1/json")
	v.SetDefault("provider.timeout_secs", 30)
	v.SetDefault("provider.rate_per_sec", 2)
	v.SetDefault("provider.burst", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that settings required by the named area are present.
func (c *Config) Validate(area string) error {
	switch area {
	case "store":
		if c.Store.Driver != "csv" && c.Store.Driver != "sqlite" {
			return eris.Errorf("config: unsupported store driver %q (valid: csv, sqlite)", c.Store.Driver)
		}
		if c.Store.Driver == "sqlite" && c.Store.Path == "" {
			return eris.New("config: store.path is required for the sqlite driver")
		}
	case "provider":
		if c.Provider.BaseURL == "" {
			return eris.New("config: provider.base_url is required")
		}
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
