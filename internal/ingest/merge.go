package ingest

import (
	"context"

	"go.uber.org/zap"

	"github.com/citymood/citymood-cli/internal/model"
	"github.com/citymood/citymood-cli/internal/resolve"
	"github.com/citymood/citymood-cli/internal/store"
)

// Merger runs feeds and merges their batches into the store. Every run is
// recorded in the ingest run log, including failures.
type Merger struct {
	store store.Store
}

// NewMerger creates a merger writing through the given store.
func NewMerger(s store.Store) *Merger {
	return &Merger{store: s}
}

// Ingest loads one feed and merges its batch. The returned run carries the
// per-table added counts; rows skipped by keep-first dedup are not counted.
func (m *Merger) Ingest(ctx context.Context, feed Feed, r *resolve.Resolver) (*model.IngestRun, error) {
	run, err := m.store.StartRun(ctx, feed.Name())
	if err != nil {
		return nil, err
	}

	batch, err := feed.Load(ctx, r)
	if err != nil {
		return run, m.fail(ctx, run, err)
	}

	counts, err := m.merge(ctx, batch)
	if err != nil {
		return run, m.fail(ctx, run, err)
	}

	if err := m.store.CompleteRun(ctx, run.ID, counts); err != nil {
		return run, err
	}
	run.Status = model.RunStatusComplete
	run.Counts = counts

	zap.L().Info("feed ingested",
		zap.String("feed", feed.Name()),
		zap.Int("cities_added", counts.Cities),
		zap.Int("teams_added", counts.Teams),
		zap.Int("games_added", counts.Games))
	return run, nil
}

// IngestBatch merges a pre-built batch under the given run name. Used for
// daily snapshots, whose rows are already canonical.
func (m *Merger) IngestBatch(ctx context.Context, name string, batch *Batch) (*model.IngestRun, error) {
	run, err := m.store.StartRun(ctx, name)
	if err != nil {
		return nil, err
	}

	counts, err := m.merge(ctx, batch)
	if err != nil {
		return run, m.fail(ctx, run, err)
	}

	if err := m.store.CompleteRun(ctx, run.ID, counts); err != nil {
		return run, err
	}
	run.Status = model.RunStatusComplete
	run.Counts = counts
	return run, nil
}

func (m *Merger) merge(ctx context.Context, batch *Batch) (model.IngestCounts, error) {
	var counts model.IngestCounts
	var err error

	if counts.Cities, err = m.store.AppendCities(ctx, batch.Cities); err != nil {
		return counts, err
	}
	if counts.Teams, err = m.store.AppendTeams(ctx, batch.Teams); err != nil {
		return counts, err
	}
	if counts.Games, err = m.store.AppendGames(ctx, batch.Games); err != nil {
		return counts, err
	}
	return counts, nil
}

func (m *Merger) fail(ctx context.Context, run *model.IngestRun, cause error) error {
	zap.L().Error("feed ingest failed", zap.String("feed", run.Feed), zap.Error(cause))
	if err := m.store.FailRun(ctx, run.ID, cause); err != nil {
		zap.L().Warn("recording failed run", zap.String("run_id", run.ID), zap.Error(err))
	}
	return cause
}
