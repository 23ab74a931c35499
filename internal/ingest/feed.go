// Package ingest turns raw league feed files into canonical city, team and
// game rows and merges them into the store with keep-first semantics.
package ingest

import (
	"context"
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/citymood/citymood-cli/internal/model"
	"github.com/citymood/citymood-cli/internal/resolve"
	"github.com/citymood/citymood-cli/internal/store"
)

// Batch is the output of one feed load: new canonical rows, not yet merged.
// Rows are unique within the batch; the store applies keep-first dedup
// against what is already persisted.
type Batch struct {
	Cities []model.City
	Teams  []model.Team
	Games  []model.Game
}

// Feed defines the interface each raw league feed must implement.
type Feed interface {
	// Name returns the unique identifier for this feed (e.g., "nhl_games").
	Name() string

	// League returns the league this feed covers.
	League() model.League

	// Load reads the raw file(s), resolves identities through the resolver,
	// and returns the batch of canonical rows. Missing files and missing
	// structural columns abort the load; malformed individual rows degrade
	// per-row.
	Load(ctx context.Context, r *resolve.Resolver) (*Batch, error)
}

// readFeed reads a raw feed CSV, validates the structurally required columns,
// and returns a column index plus the data rows.
func readFeed(path string, required []string) (map[string]int, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, eris.Wrapf(store.ErrMissingInput, "ingest: %s", path)
		}
		return nil, nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, eris.Wrapf(err, "ingest: read %s", path)
	}
	if len(records) == 0 {
		return nil, nil, eris.Wrapf(store.ErrSchema, "ingest: %s is empty", path)
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, nil, eris.Wrapf(store.ErrSchema, "ingest: %s missing column %q", path, name)
		}
	}

	// Rows shorter than the header cannot be indexed by column. Drop them
	// so one truncated row does not abort the whole feed.
	rows := records[1:]
	kept := rows[:0]
	for _, row := range rows {
		if len(row) < len(records[0]) {
			continue
		}
		kept = append(kept, row)
	}
	if dropped := len(rows) - len(kept); dropped > 0 {
		zap.L().Warn("short rows skipped", zap.String("path", path), zap.Int("rows", dropped))
	}
	return col, kept, nil
}

// parseOptionalInt parses a score cell. Empty or malformed cells come back
// nil; some feeds carry integer scores as floats ("4.0").
func parseOptionalInt(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if v, err := strconv.Atoi(raw); err == nil {
		return &v
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	v := int(f)
	return &v
}

// dateOnly strips a trailing time component ("2023-03-01 00:00:00").
func dateOnly(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// batchBuilder accumulates canonical rows, keeping cities and teams unique
// within the batch.
type batchBuilder struct {
	batch   Batch
	cityIDs map[string]bool
	teamIDs map[string]bool
}

func newBatchBuilder() *batchBuilder {
	return &batchBuilder{
		cityIDs: make(map[string]bool),
		teamIDs: make(map[string]bool),
	}
}

func (b *batchBuilder) addResolution(res resolve.Resolution, league model.League) {
	if res.CityID != "" && !b.cityIDs[res.CityID] {
		b.cityIDs[res.CityID] = true
		b.batch.Cities = append(b.batch.Cities, res.City())
	}
	if res.TeamID != "" && !b.teamIDs[res.TeamID] {
		b.teamIDs[res.TeamID] = true
		b.batch.Teams = append(b.batch.Teams, res.Team(league))
	}
}

func (b *batchBuilder) addGame(g model.Game) {
	b.batch.Games = append(b.batch.Games, g)
}

func (b *batchBuilder) build() *Batch {
	return &b.batch
}
