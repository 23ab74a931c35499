package ingest

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/citymood/citymood-cli/internal/model"
)

var snapshotHeader = []string{
	"game_id", "date", "league", "season_type",
	"home_team_id", "away_team_id", "home_score", "away_score", "winning_team_id",
}

// Snapshotter manages the per-day game snapshot files under the daily
// directory. A snapshot always exists for a processed day, even when no
// games were fetched, so the update pipeline stays green without a provider.
type Snapshotter struct {
	dir string
}

// NewSnapshotter creates a snapshotter rooted at dir.
func NewSnapshotter(dir string) *Snapshotter {
	return &Snapshotter{dir: dir}
}

// Path returns the snapshot file path for an ISO date.
func (s *Snapshotter) Path(date string) string {
	return filepath.Join(s.dir, date+".csv")
}

// Ensure creates an empty snapshot (header only) for the date if none
// exists, and returns its path.
func (s *Snapshotter) Ensure(date string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "snapshot: create dir %s", s.dir)
	}
	path := s.Path(date)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	return path, s.writeAtomic(path, [][]string{snapshotHeader})
}

// Write replaces the snapshot for the date with the given games.
func (s *Snapshotter) Write(date string, games []model.Game) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return eris.Wrapf(err, "snapshot: create dir %s", s.dir)
	}
	records := [][]string{snapshotHeader}
	for _, g := range games {
		records = append(records, []string{
			g.ID, g.Date, string(g.League), string(g.SeasonType),
			g.HomeTeamID, g.AwayTeamID,
			formatSnapshotScore(g.HomeScore), formatSnapshotScore(g.AwayScore),
			g.WinningTeamID,
		})
	}
	return s.writeAtomic(s.Path(date), records)
}

// writeAtomic writes records to path via a temp file in the same directory,
// so a crash mid-write never leaves a truncated snapshot behind.
func (s *Snapshotter) writeAtomic(path string, records [][]string) error {
	tmp, err := os.CreateTemp(s.dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return eris.Wrapf(err, "snapshot: temp file for %s", path)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(records); err != nil {
		tmp.Close()
		return eris.Wrapf(err, "snapshot: write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrapf(err, "snapshot: close %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return eris.Wrapf(err, "snapshot: rename %s", path)
	}
	return nil
}

// Read parses a snapshot file into canonical game rows.
func (s *Snapshotter) Read(date string) ([]model.Game, error) {
	col, rows, err := readFeed(s.Path(date), snapshotHeader)
	if err != nil {
		return nil, err
	}
	games := make([]model.Game, 0, len(rows))
	for _, row := range rows {
		games = append(games, model.Game{
			ID:            row[col["game_id"]],
			Date:          row[col["date"]],
			League:        model.League(row[col["league"]]),
			SeasonType:    model.SeasonType(row[col["season_type"]]),
			HomeTeamID:    row[col["home_team_id"]],
			AwayTeamID:    row[col["away_team_id"]],
			HomeScore:     parseOptionalInt(row[col["home_score"]]),
			AwayScore:     parseOptionalInt(row[col["away_score"]]),
			WinningTeamID: row[col["winning_team_id"]],
		})
	}
	return games, nil
}

func formatSnapshotScore(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// Yesterday returns yesterday's ISO date in the given timezone. Sports days
// are anchored to a US timezone since late games end after midnight UTC.
func Yesterday(timezone string, now time.Time) (string, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return "", eris.Wrapf(err, "snapshot: load timezone %q", timezone)
	}
	return now.In(loc).AddDate(0, 0, -1).Format(model.ISODate), nil
}
