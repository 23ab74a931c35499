package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/citymood/citymood-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. Keep-first dedup
// maps onto INSERT OR IGNORE against the primary key; read order matches the
// CSV backend (insertion order for canonical tables, canonical sort for the
// ledger).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS cities (
	city_id   TEXT PRIMARY KEY,
	city_name TEXT NOT NULL,
	state     TEXT NOT NULL DEFAULT '',
	country   TEXT NOT NULL DEFAULT '',
	slug      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS teams (
	team_id    TEXT PRIMARY KEY,
	team_name  TEXT NOT NULL,
	league     TEXT NOT NULL,
	city_id    TEXT NOT NULL,
	city_name  TEXT NOT NULL DEFAULT '',
	start_date TEXT NOT NULL DEFAULT '',
	end_date   TEXT NOT NULL DEFAULT '',
	alt_names  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS games (
	game_id         TEXT PRIMARY KEY,
	date            TEXT NOT NULL,
	league          TEXT NOT NULL,
	season_type     TEXT NOT NULL,
	home_team_id    TEXT NOT NULL,
	away_team_id    TEXT NOT NULL,
	home_score      INTEGER,
	away_score      INTEGER,
	winning_team_id TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS team_game_results (
	game_id          TEXT NOT NULL,
	date             TEXT NOT NULL,
	league           TEXT NOT NULL,
	season_type      TEXT NOT NULL,
	team_id          TEXT NOT NULL,
	opponent_team_id TEXT NOT NULL,
	is_home          INTEGER NOT NULL,
	team_score       INTEGER,
	opponent_score   INTEGER,
	result           TEXT NOT NULL DEFAULT '',
	index_score      INTEGER NOT NULL,
	weighted_score   INTEGER NOT NULL,
	week_start       TEXT NOT NULL,
	month_start      TEXT NOT NULL,
	PRIMARY KEY (game_id, team_id)
);

CREATE TABLE IF NOT EXISTS ingest_runs (
	id           TEXT PRIMARY KEY,
	feed         TEXT NOT NULL,
	status       TEXT NOT NULL,
	started_at   TEXT NOT NULL,
	completed_at TEXT,
	cities_added INTEGER NOT NULL DEFAULT 0,
	teams_added  INTEGER NOT NULL DEFAULT 0,
	games_added  INTEGER NOT NULL DEFAULT 0,
	error        TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_games_date ON games(date);
CREATE INDEX IF NOT EXISTS idx_tgr_team ON team_game_results(team_id);
CREATE INDEX IF NOT EXISTS idx_runs_feed ON ingest_runs(feed);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Cities(ctx context.Context) ([]model.City, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT city_id, city_name, state, country, slug FROM cities ORDER BY rowid`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query cities")
	}
	defer rows.Close()

	var out []model.City
	for rows.Next() {
		var c model.City
		if err := rows.Scan(&c.ID, &c.Name, &c.State, &c.Country, &c.Slug); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan city")
		}
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate cities")
}

func (s *SQLiteStore) AppendCities(ctx context.Context, cities []model.City) (int, error) {
	added := 0
	for _, c := range cities {
		res, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO cities (city_id, city_name, state, country, slug) VALUES (?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.State, c.Country, c.Slug,
		)
		if err != nil {
			return added, eris.Wrapf(err, "sqlite: insert city %s", c.ID)
		}
		n, _ := res.RowsAffected()
		added += int(n)
	}
	return added, nil
}

func (s *SQLiteStore) Teams(ctx context.Context) ([]model.Team, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT team_id, team_name, league, city_id, city_name, start_date, end_date, alt_names
		 FROM teams ORDER BY rowid`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query teams")
	}
	defer rows.Close()

	var out []model.Team
	for rows.Next() {
		var t model.Team
		var league string
		if err := rows.Scan(&t.ID, &t.Name, &league, &t.CityID, &t.CityName, &t.StartDate, &t.EndDate, &t.AltNames); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan team")
		}
		t.League = model.League(league)
		out = append(out, t)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate teams")
}

func (s *SQLiteStore) AppendTeams(ctx context.Context, teams []model.Team) (int, error) {
	added := 0
	for _, t := range teams {
		res, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO teams (team_id, team_name, league, city_id, city_name, start_date, end_date, alt_names)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Name, string(t.League), t.CityID, t.CityName, t.StartDate, t.EndDate, t.AltNames,
		)
		if err != nil {
			return added, eris.Wrapf(err, "sqlite: insert team %s", t.ID)
		}
		n, _ := res.RowsAffected()
		added += int(n)
	}
	return added, nil
}

func (s *SQLiteStore) Games(ctx context.Context) ([]model.Game, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, date, league, season_type, home_team_id, away_team_id, home_score, away_score, winning_team_id
		 FROM games ORDER BY rowid`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query games")
	}
	defer rows.Close()

	var out []model.Game
	for rows.Next() {
		var g model.Game
		var league, season string
		var homeScore, awayScore sql.NullInt64
		if err := rows.Scan(&g.ID, &g.Date, &league, &season, &g.HomeTeamID, &g.AwayTeamID,
			&homeScore, &awayScore, &g.WinningTeamID); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan game")
		}
		g.League = model.League(league)
		g.SeasonType = model.SeasonType(season)
		g.HomeScore = nullableInt(homeScore)
		g.AwayScore = nullableInt(awayScore)
		out = append(out, g)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate games")
}

func (s *SQLiteStore) AppendGames(ctx context.Context, games []model.Game) (int, error) {
	added := 0
	for _, g := range games {
		res, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO games (game_id, date, league, season_type, home_team_id, away_team_id, home_score, away_score, winning_team_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			g.ID, g.Date, string(g.League), string(g.SeasonType), g.HomeTeamID, g.AwayTeamID,
			sqlScore(g.HomeScore), sqlScore(g.AwayScore), g.WinningTeamID,
		)
		if err != nil {
			return added, eris.Wrapf(err, "sqlite: insert game %s", g.ID)
		}
		n, _ := res.RowsAffected()
		added += int(n)
	}
	return added, nil
}

func (s *SQLiteStore) Ledger(ctx context.Context) ([]model.TeamGameResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, date, league, season_type, team_id, opponent_team_id, is_home,
		        team_score, opponent_score, result, index_score, weighted_score, week_start, month_start
		 FROM team_game_results
		 ORDER BY date, league, game_id, team_id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query ledger")
	}
	defer rows.Close()

	var out []model.TeamGameResult
	for rows.Next() {
		var r model.TeamGameResult
		var league, season, result string
		var teamScore, oppScore sql.NullInt64
		if err := rows.Scan(&r.GameID, &r.Date, &league, &season, &r.TeamID, &r.OpponentTeamID, &r.IsHome,
			&teamScore, &oppScore, &result, &r.IndexScore, &r.WeightedScore, &r.WeekStart, &r.MonthStart); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan ledger row")
		}
		r.League = model.League(league)
		r.SeasonType = model.SeasonType(season)
		r.Result = model.Result(result)
		r.TeamScore = nullableInt(teamScore)
		r.OpponentScore = nullableInt(oppScore)
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate ledger")
}

func (s *SQLiteStore) ReplaceLedger(ctx context.Context, ledgerRows []model.TeamGameResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin replace ledger")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM team_game_results`); err != nil {
		return eris.Wrap(err, "sqlite: clear ledger")
	}
	for _, r := range ledgerRows {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO team_game_results (game_id, date, league, season_type, team_id, opponent_team_id, is_home,
			   team_score, opponent_score, result, index_score, weighted_score, week_start, month_start)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.GameID, r.Date, string(r.League), string(r.SeasonType), r.TeamID, r.OpponentTeamID, r.IsHome,
			sqlScore(r.TeamScore), sqlScore(r.OpponentScore), string(r.Result),
			r.IndexScore, r.WeightedScore, r.WeekStart, r.MonthStart,
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert ledger row %s/%s", r.GameID, r.TeamID)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit replace ledger")
}

func (s *SQLiteStore) StartRun(ctx context.Context, feed string) (*model.IngestRun, error) {
	run := &model.IngestRun{
		ID:        uuid.New().String(),
		Feed:      feed,
		Status:    model.RunStatusRunning,
		StartedAt: time.Now().UTC().Truncate(time.Second),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ingest_runs (id, feed, status, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Feed, string(run.Status), run.StartedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: insert ingest run for %s", feed)
	}
	return run, nil
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, counts model.IngestCounts) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE ingest_runs SET status = ?, completed_at = ?, cities_added = ?, teams_added = ?, games_added = ?
		 WHERE id = ?`,
		string(model.RunStatusComplete), time.Now().UTC().Format(time.RFC3339),
		counts.Cities, counts.Teams, counts.Games, runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete ingest run %s", runID)
	}
	return checkRunUpdated(res, runID)
}

func (s *SQLiteStore) FailRun(ctx context.Context, runID string, runErr error) error {
	msg := ""
	if runErr != nil {
		msg = runErr.Error()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE ingest_runs SET status = ?, completed_at = ?, error = ? WHERE id = ?`,
		string(model.RunStatusFailed), time.Now().UTC().Format(time.RFC3339), msg, runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: fail ingest run %s", runID)
	}
	return checkRunUpdated(res, runID)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.IngestRun, error) {
	q := `SELECT id, feed, status, started_at, completed_at, cities_added, teams_added, games_added, error
	      FROM ingest_runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query ingest runs")
	}
	defer rows.Close()

	var out []model.IngestRun
	for rows.Next() {
		var run model.IngestRun
		var status, started string
		var completed sql.NullString
		if err := rows.Scan(&run.ID, &run.Feed, &status, &started, &completed,
			&run.Counts.Cities, &run.Counts.Teams, &run.Counts.Games, &run.Error); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan ingest run")
		}
		run.Status = model.RunStatus(status)
		if run.StartedAt, err = time.Parse(time.RFC3339, started); err != nil {
			return nil, eris.Wrapf(err, "sqlite: run started_at %q", started)
		}
		if completed.Valid && completed.String != "" {
			t, err := time.Parse(time.RFC3339, completed.String)
			if err != nil {
				return nil, eris.Wrapf(err, "sqlite: run completed_at %q", completed.String)
			}
			run.CompletedAt = &t
		}
		out = append(out, run)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate ingest runs")
}

func checkRunUpdated(res sql.Result, runID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: ingest run %s not found", runID)
	}
	return nil
}

func sqlScore(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
