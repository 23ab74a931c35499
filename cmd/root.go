package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/citymood/citymood-cli/internal/config"
	"github.com/citymood/citymood-cli/internal/resolve"
	"github.com/citymood/citymood-cli/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "citymood",
	Short: "City happiness scores from sports results",
	Long:  "Ingests raw league feeds, resolves teams to cities, scores outcomes, and materializes the ledger, rollups, and daily city scores.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// initStore validates store settings and opens the configured backend with
// its schema migrated.
func initStore(ctx context.Context) (store.Store, error) {
	if err := cfg.Validate("store"); err != nil {
		return nil, err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// initResolver builds a resolver with the configured nickname overrides.
func initResolver() (*resolve.Resolver, error) {
	nicknames := resolve.DefaultNicknames()
	if cfg.Resolve.NicknamesFile != "" {
		loaded, err := resolve.LoadNicknames(cfg.Resolve.NicknamesFile)
		if err != nil {
			return nil, err
		}
		nicknames = loaded
	}
	return resolve.NewResolver(nicknames), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
