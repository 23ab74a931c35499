package store

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/citymood/citymood-cli/internal/model"
)

const (
	citiesFile = "cities.csv"
	teamsFile  = "teams.csv"
	gamesFile  = "games.csv"
	ledgerFile = "team_game_results.csv"
	runsFile   = "ingest_runs.csv"
)

var (
	cityHeader   = []string{"city_id", "city_name", "state", "country", "slug"}
	teamHeader   = []string{"team_id", "team_name", "league", "city_id", "city_name", "start_date", "end_date", "alt_names"}
	gameHeader   = []string{"game_id", "date", "league", "season_type", "home_team_id", "away_team_id", "home_score", "away_score", "winning_team_id"}
	ledgerHeader = []string{"game_id", "date", "league", "season_type", "team_id", "opponent_team_id", "is_home",
		"team_score", "opponent_score", "result", "index_score", "weighted_score", "week_start", "month_start"}
	runHeader = []string{"id", "feed", "status", "started_at", "completed_at", "cities_added", "teams_added", "games_added", "error"}
)

// CSVStore persists canonical tables as flat CSV files under one directory.
// Every write replaces the whole file atomically (temp file + rename), so a
// failed stage never leaves a partial table behind.
type CSVStore struct {
	dir string
}

// NewCSV creates a CSV store rooted at dir.
func NewCSV(dir string) *CSVStore {
	return &CSVStore{dir: dir}
}

// Migrate creates the directory and any missing table files with headers.
// Existing files are left untouched.
func (s *CSVStore) Migrate(_ context.Context) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return eris.Wrapf(err, "csvstore: create dir %s", s.dir)
	}
	for file, header := range map[string][]string{
		citiesFile: cityHeader,
		teamsFile:  teamHeader,
		gamesFile:  gameHeader,
		ledgerFile: ledgerHeader,
		runsFile:   runHeader,
	} {
		path := filepath.Join(s.dir, file)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := writeAtomic(path, [][]string{header}); err != nil {
			return err
		}
	}
	return nil
}

func (s *CSVStore) Close() error { return nil }

// readTable reads a CSV file, validates that every required column is
// present, and returns a column index plus the data rows.
func readTable(path string, required []string) (map[string]int, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, eris.Wrapf(ErrMissingInput, "csvstore: %s", path)
		}
		return nil, nil, eris.Wrapf(err, "csvstore: open %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, eris.Wrapf(err, "csvstore: read %s", path)
	}
	if len(records) == 0 {
		return nil, nil, eris.Wrapf(ErrSchema, "csvstore: %s is empty", path)
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[name] = i
	}
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, nil, eris.Wrapf(ErrSchema, "csvstore: %s missing column %q", path, name)
		}
	}

	// Rows shorter than the header cannot be indexed by column; skip them.
	rows := records[1:]
	kept := rows[:0]
	for _, row := range rows {
		if len(row) >= len(records[0]) {
			kept = append(kept, row)
		}
	}
	return col, kept, nil
}

// writeAtomic writes records to path via a temp file in the same directory.
func writeAtomic(path string, records [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return eris.Wrapf(err, "csvstore: temp file for %s", path)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(records); err != nil {
		tmp.Close()
		return eris.Wrapf(err, "csvstore: write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrapf(err, "csvstore: close %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return eris.Wrapf(err, "csvstore: rename %s", path)
	}
	return nil
}

// appendKeepFirst merges new rows into an existing table file, skipping any
// row whose id (first header column) is already present. Stored rows are
// never rewritten, so repeated ingestion is byte-idempotent.
func (s *CSVStore) appendKeepFirst(file string, header []string, newRows [][]string) (int, error) {
	path := filepath.Join(s.dir, file)
	if err := s.Migrate(context.Background()); err != nil {
		return 0, err
	}

	col, existing, err := readTable(path, header)
	if err != nil {
		return 0, err
	}

	idCol := col[header[0]]
	seen := make(map[string]bool, len(existing))
	for _, row := range existing {
		seen[row[idCol]] = true
	}

	records := make([][]string, 0, 1+len(existing)+len(newRows))
	records = append(records, header)
	records = append(records, existing...)

	added := 0
	for _, row := range newRows {
		if seen[row[0]] {
			continue
		}
		seen[row[0]] = true
		records = append(records, row)
		added++
	}

	if added == 0 {
		return 0, nil
	}
	return added, writeAtomic(path, records)
}

func (s *CSVStore) Cities(_ context.Context) ([]model.City, error) {
	col, rows, err := readTable(filepath.Join(s.dir, citiesFile), cityHeader)
	if err != nil {
		return nil, err
	}
	out := make([]model.City, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.City{
			ID:      r[col["city_id"]],
			Name:    r[col["city_name"]],
			State:   r[col["state"]],
			Country: r[col["country"]],
			Slug:    r[col["slug"]],
		})
	}
	return out, nil
}

func (s *CSVStore) AppendCities(_ context.Context, rows []model.City) (int, error) {
	records := make([][]string, 0, len(rows))
	for _, c := range rows {
		records = append(records, []string{c.ID, c.Name, c.State, c.Country, c.Slug})
	}
	return s.appendKeepFirst(citiesFile, cityHeader, records)
}

func (s *CSVStore) Teams(_ context.Context) ([]model.Team, error) {
	col, rows, err := readTable(filepath.Join(s.dir, teamsFile), teamHeader)
	if err != nil {
		return nil, err
	}
	out := make([]model.Team, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Team{
			ID:        r[col["team_id"]],
			Name:      r[col["team_name"]],
			League:    model.League(r[col["league"]]),
			CityID:    r[col["city_id"]],
			CityName:  r[col["city_name"]],
			StartDate: r[col["start_date"]],
			EndDate:   r[col["end_date"]],
			AltNames:  r[col["alt_names"]],
		})
	}
	return out, nil
}

func (s *CSVStore) AppendTeams(_ context.Context, rows []model.Team) (int, error) {
	records := make([][]string, 0, len(rows))
	for _, t := range rows {
		records = append(records, []string{
			t.ID, t.Name, string(t.League), t.CityID, t.CityName, t.StartDate, t.EndDate, t.AltNames,
		})
	}
	return s.appendKeepFirst(teamsFile, teamHeader, records)
}

func (s *CSVStore) Games(_ context.Context) ([]model.Game, error) {
	col, rows, err := readTable(filepath.Join(s.dir, gamesFile), gameHeader)
	if err != nil {
		return nil, err
	}
	out := make([]model.Game, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Game{
			ID:            r[col["game_id"]],
			Date:          r[col["date"]],
			League:        model.League(r[col["league"]]),
			SeasonType:    model.SeasonType(r[col["season_type"]]),
			HomeTeamID:    r[col["home_team_id"]],
			AwayTeamID:    r[col["away_team_id"]],
			HomeScore:     parseScore(r[col["home_score"]]),
			AwayScore:     parseScore(r[col["away_score"]]),
			WinningTeamID: r[col["winning_team_id"]],
		})
	}
	return out, nil
}

func (s *CSVStore) AppendGames(_ context.Context, rows []model.Game) (int, error) {
	records := make([][]string, 0, len(rows))
	for _, g := range rows {
		records = append(records, encodeGame(g))
	}
	return s.appendKeepFirst(gamesFile, gameHeader, records)
}

func encodeGame(g model.Game) []string {
	return []string{
		g.ID, g.Date, string(g.League), string(g.SeasonType),
		g.HomeTeamID, g.AwayTeamID,
		formatScore(g.HomeScore), formatScore(g.AwayScore),
		g.WinningTeamID,
	}
}

func (s *CSVStore) Ledger(_ context.Context) ([]model.TeamGameResult, error) {
	col, rows, err := readTable(filepath.Join(s.dir, ledgerFile), ledgerHeader)
	if err != nil {
		return nil, err
	}
	out := make([]model.TeamGameResult, 0, len(rows))
	for _, r := range rows {
		indexScore, err := strconv.Atoi(r[col["index_score"]])
		if err != nil {
			return nil, eris.Wrapf(err, "csvstore: ledger index_score %q", r[col["index_score"]])
		}
		weightedScore, err := strconv.Atoi(r[col["weighted_score"]])
		if err != nil {
			return nil, eris.Wrapf(err, "csvstore: ledger weighted_score %q", r[col["weighted_score"]])
		}
		out = append(out, model.TeamGameResult{
			GameID:         r[col["game_id"]],
			Date:           r[col["date"]],
			League:         model.League(r[col["league"]]),
			SeasonType:     model.SeasonType(r[col["season_type"]]),
			TeamID:         r[col["team_id"]],
			OpponentTeamID: r[col["opponent_team_id"]],
			IsHome:         r[col["is_home"]] == "true",
			TeamScore:      parseScore(r[col["team_score"]]),
			OpponentScore:  parseScore(r[col["opponent_score"]]),
			Result:         model.Result(r[col["result"]]),
			IndexScore:     indexScore,
			WeightedScore:  weightedScore,
			WeekStart:      r[col["week_start"]],
			MonthStart:     r[col["month_start"]],
		})
	}
	return out, nil
}

func (s *CSVStore) ReplaceLedger(_ context.Context, rows []model.TeamGameResult) error {
	records := make([][]string, 0, 1+len(rows))
	records = append(records, ledgerHeader)
	for _, r := range rows {
		records = append(records, []string{
			r.GameID, r.Date, string(r.League), string(r.SeasonType),
			r.TeamID, r.OpponentTeamID, strconv.FormatBool(r.IsHome),
			formatScore(r.TeamScore), formatScore(r.OpponentScore),
			string(r.Result), strconv.Itoa(r.IndexScore), strconv.Itoa(r.WeightedScore),
			r.WeekStart, r.MonthStart,
		})
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return eris.Wrapf(err, "csvstore: create dir %s", s.dir)
	}
	return writeAtomic(filepath.Join(s.dir, ledgerFile), records)
}

func (s *CSVStore) StartRun(ctx context.Context, feed string) (*model.IngestRun, error) {
	if err := s.Migrate(ctx); err != nil {
		return nil, err
	}
	run := &model.IngestRun{
		ID:        uuid.New().String(),
		Feed:      feed,
		Status:    model.RunStatusRunning,
		StartedAt: time.Now().UTC().Truncate(time.Second),
	}
	path := filepath.Join(s.dir, runsFile)
	_, rows, err := readTable(path, runHeader)
	if err != nil {
		return nil, err
	}
	records := append([][]string{runHeader}, rows...)
	records = append(records, encodeRun(run))
	if err := writeAtomic(path, records); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *CSVStore) CompleteRun(ctx context.Context, runID string, counts model.IngestCounts) error {
	return s.updateRun(runID, func(run *model.IngestRun) {
		now := time.Now().UTC().Truncate(time.Second)
		run.Status = model.RunStatusComplete
		run.CompletedAt = &now
		run.Counts = counts
	})
}

func (s *CSVStore) FailRun(ctx context.Context, runID string, runErr error) error {
	return s.updateRun(runID, func(run *model.IngestRun) {
		now := time.Now().UTC().Truncate(time.Second)
		run.Status = model.RunStatusFailed
		run.CompletedAt = &now
		if runErr != nil {
			run.Error = runErr.Error()
		}
	})
}

func (s *CSVStore) updateRun(runID string, apply func(*model.IngestRun)) error {
	path := filepath.Join(s.dir, runsFile)
	col, rows, err := readTable(path, runHeader)
	if err != nil {
		return err
	}

	found := false
	records := [][]string{runHeader}
	for _, row := range rows {
		if row[col["id"]] == runID {
			run, err := decodeRun(col, row)
			if err != nil {
				return err
			}
			apply(run)
			row = encodeRun(run)
			found = true
		}
		records = append(records, row)
	}
	if !found {
		return eris.Errorf("csvstore: ingest run %s not found", runID)
	}
	return writeAtomic(path, records)
}

func (s *CSVStore) ListRuns(_ context.Context, limit int) ([]model.IngestRun, error) {
	col, rows, err := readTable(filepath.Join(s.dir, runsFile), runHeader)
	if err != nil {
		return nil, err
	}

	out := make([]model.IngestRun, 0, len(rows))
	// Most recent first: rows are appended in start order.
	for i := len(rows) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		run, err := decodeRun(col, rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *run)
	}
	return out, nil
}

func encodeRun(run *model.IngestRun) []string {
	completed := ""
	if run.CompletedAt != nil {
		completed = run.CompletedAt.Format(time.RFC3339)
	}
	return []string{
		run.ID, run.Feed, string(run.Status),
		run.StartedAt.Format(time.RFC3339), completed,
		strconv.Itoa(run.Counts.Cities), strconv.Itoa(run.Counts.Teams), strconv.Itoa(run.Counts.Games),
		run.Error,
	}
}

func decodeRun(col map[string]int, row []string) (*model.IngestRun, error) {
	started, err := time.Parse(time.RFC3339, row[col["started_at"]])
	if err != nil {
		return nil, eris.Wrapf(err, "csvstore: run started_at %q", row[col["started_at"]])
	}
	run := &model.IngestRun{
		ID:        row[col["id"]],
		Feed:      row[col["feed"]],
		Status:    model.RunStatus(row[col["status"]]),
		StartedAt: started,
		Error:     row[col["error"]],
	}
	if raw := row[col["completed_at"]]; raw != "" {
		completed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, eris.Wrapf(err, "csvstore: run completed_at %q", raw)
		}
		run.CompletedAt = &completed
	}
	for name, dst := range map[string]*int{
		"cities_added": &run.Counts.Cities,
		"teams_added":  &run.Counts.Teams,
		"games_added":  &run.Counts.Games,
	} {
		v, err := strconv.Atoi(row[col[name]])
		if err != nil {
			return nil, eris.Wrapf(err, "csvstore: run %s %q", name, row[col[name]])
		}
		*dst = v
	}
	return run, nil
}

func formatScore(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func parseScore(raw string) *int {
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}
