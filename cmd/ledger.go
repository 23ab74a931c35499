package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/citymood/citymood-cli/internal/ledger"
	"github.com/citymood/citymood-cli/internal/scoring"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Rebuild the per-team game ledger",
	Long: `Rebuild the team_game_results ledger from the canonical game table.

The ledger is fully derived: every game expands to two perspective rows with
index and weighted scores, sorted by (date, league, game_id, team_id). The
previous ledger is replaced wholesale.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		games, err := st.Games(ctx)
		if err != nil {
			return err
		}

		rows, err := ledger.Build(games, scoring.FromConfig(cfg.Scoring))
		if err != nil {
			return eris.Wrap(err, "ledger: build")
		}
		if err := st.ReplaceLedger(ctx, rows); err != nil {
			return err
		}

		fmt.Printf("Ledger rebuilt: %d games, %d rows\n", len(games), len(rows))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ledgerCmd)
}
