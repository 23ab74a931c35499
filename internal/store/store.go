// Package store persists the canonical tables (cities, teams, games), the
// derived ledger, and the ingest-run log. Two backends implement the same
// interface: flat CSV files (the default, byte-stable across runs) and a
// SQLite database.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/citymood/citymood-cli/internal/config"
	"github.com/citymood/citymood-cli/internal/model"
)

// ErrMissingInput marks a required canonical table that does not exist yet.
// Stages fail immediately on it: downstream work cannot run on a gap.
var ErrMissingInput = eris.New("store: missing input")

// ErrSchema marks a table whose header lacks a structurally required column.
// Detected before any row is processed, so a failed stage transforms nothing.
var ErrSchema = eris.New("store: schema error")

// Store is the persistence interface for the pipeline. Cities and teams are
// append-only by id; games are append-only with keep-first dedup by game id;
// the ledger is fully derived and replaced wholesale on recompute.
type Store interface {
	// Canonical tables
	Cities(ctx context.Context) ([]model.City, error)
	Teams(ctx context.Context) ([]model.Team, error)
	Games(ctx context.Context) ([]model.Game, error)
	AppendCities(ctx context.Context, rows []model.City) (int, error)
	AppendTeams(ctx context.Context, rows []model.Team) (int, error)
	AppendGames(ctx context.Context, rows []model.Game) (int, error)

	// Ledger
	Ledger(ctx context.Context) ([]model.TeamGameResult, error)
	ReplaceLedger(ctx context.Context, rows []model.TeamGameResult) error

	// Ingest-run log
	StartRun(ctx context.Context, feed string) (*model.IngestRun, error)
	CompleteRun(ctx context.Context, runID string, counts model.IngestCounts) error
	FailRun(ctx context.Context, runID string, runErr error) error
	ListRuns(ctx context.Context, limit int) ([]model.IngestRun, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open constructs the configured store backend.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Store.Driver {
	case "csv":
		return NewCSV(cfg.Data.ProcessedDir()), nil
	case "sqlite":
		return NewSQLite(cfg.Store.Path)
	default:
		return nil, eris.Errorf("store: unsupported store driver %q", cfg.Store.Driver)
	}
}
