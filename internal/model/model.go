// Package model defines the canonical data types shared across the pipeline:
// cities, teams, games, the per-team-per-game ledger, and derived aggregates.
//
// Dates are carried as ISO "YYYY-MM-DD" strings throughout. The canonical
// tables are flat and sorted, and ISO date strings sort correctly as text,
// which keeps the persisted output byte-stable across runs.
package model

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// League identifies a source league.
type League string

const (
	LeagueNHL League = "nhl"
	LeagueNBA League = "nba"
	LeagueMLB League = "mlb"
	LeagueNFL League = "nfl"
)

// ParseLeague converts a string like "nhl" into a League.
func ParseLeague(s string) (League, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nhl":
		return LeagueNHL, nil
	case "nba":
		return LeagueNBA, nil
	case "mlb":
		return LeagueMLB, nil
	case "nfl":
		return LeagueNFL, nil
	default:
		return "", eris.Errorf("model: unknown league %q (valid: nhl, nba, mlb, nfl)", s)
	}
}

// SeasonType distinguishes regular-season games from playoff games.
type SeasonType string

const (
	SeasonRegular SeasonType = "regular"
	SeasonPlayoff SeasonType = "playoff"
)

// SeasonTypeFromLabel maps a raw feed label (e.g. "Regular Season",
// "Playoffs Round 1") onto a SeasonType. Anything mentioning playoffs is a
// playoff game; everything else is regular season.
func SeasonTypeFromLabel(label string) SeasonType {
	if strings.Contains(strings.ToLower(label), "playoff") {
		return SeasonPlayoff
	}
	return SeasonRegular
}

// Result is the team-perspective game outcome. Empty means the outcome is
// unknown (missing scores) or the game was a tie.
type Result string

const (
	ResultWin  Result = "W"
	ResultLoss Result = "L"
	ResultNone Result = ""
)

// City is a canonical city row. CityID is a deterministic slug of the city
// name (optionally suffixed with a state code); two raw names that slugify
// identically are the same city.
type City struct {
	ID      string
	Name    string
	State   string
	Country string
	Slug    string
}

// Team is a canonical team row. TeamID is namespaced by league so the same
// nickname in two leagues never collides. StartDate/EndDate and AltNames are
// placeholders for relocation history and are not interpreted by the pipeline.
type Team struct {
	ID        string
	Name      string
	League    League
	CityID    string
	CityName  string
	StartDate string
	EndDate   string
	AltNames  string
}

// Game is a canonical game row. GameID is the idempotence anchor: the same
// physical event always produces the same id across re-ingestions. Scores
// are nil when unknown, in which case WinningTeamID is empty.
type Game struct {
	ID            string
	Date          string
	League        League
	SeasonType    SeasonType
	HomeTeamID    string
	AwayTeamID    string
	HomeScore     *int
	AwayScore     *int
	WinningTeamID string
}

// Decisive reports whether the game has both scores and a recorded winner.
func (g Game) Decisive() bool {
	return g.HomeScore != nil && g.AwayScore != nil && g.WinningTeamID != ""
}

// TeamGameResult is one ledger row: a single game seen from one team's
// perspective. Every game expands to exactly two rows.
type TeamGameResult struct {
	GameID         string
	Date           string
	League         League
	SeasonType     SeasonType
	TeamID         string
	OpponentTeamID string
	IsHome         bool
	TeamScore      *int
	OpponentScore  *int
	Result         Result
	IndexScore     int
	WeightedScore  int
	WeekStart      string
	MonthStart     string
}

// Rollup is a time-bucketed aggregate over ledger rows for one grouping key
// (a team within a league, or a city) and one period start date.
type Rollup struct {
	League           League // empty for city rollups
	GroupID          string // team_id or city_id
	PeriodStart      string
	IndexScoreSum    int
	WeightedScoreSum int
	Games            int
}

// CityScore is the per-(date, city) aggregate consumed by renderers.
type CityScore struct {
	Date          string
	CityID        string
	CityName      string
	Score         int
	Wins          int
	Losses        int
	PlayoffWins   int
	PlayoffLosses int
}

// CityDaily is one row of the calendar-dense per-city daily series with
// trailing 7-day sums. Days without games are present with zero sums.
type CityDaily struct {
	Date       string
	CityID     string
	IndexSum   int
	Games      int
	IndexSum7d int
	Games7d    int
}

// RunStatus tracks the lifecycle of one ingest run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// IngestCounts records how many rows an ingest run added to each canonical
// table. Rows skipped by keep-first dedup are not counted.
type IngestCounts struct {
	Cities int
	Teams  int
	Games  int
}

// IngestRun is one recorded ingest execution for a feed.
type IngestRun struct {
	ID          string
	Feed        string
	Status      RunStatus
	StartedAt   time.Time
	CompletedAt *time.Time
	Counts      IngestCounts
	Error       string
}

// ISODate is the date layout used everywhere in the pipeline.
const ISODate = "2006-01-02"

// ParseDate parses an ISO "YYYY-MM-DD" date string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(ISODate, s)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "model: parse date %q", s)
	}
	return t, nil
}
