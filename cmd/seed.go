package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the data tree and empty canonical tables",
	Long:  "Creates the data, processed, daily, and outputs directories and migrates the store schema. Existing tables are left untouched.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		for _, dir := range []string{cfg.Data.Dir, cfg.Data.DailyDir(), cfg.Data.OutputsDir()} {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return eris.Wrapf(err, "seed: create dir %s", dir)
			}
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		fmt.Printf("Seeded data tree under %s (store driver: %s)\n", cfg.Data.Dir, cfg.Store.Driver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
