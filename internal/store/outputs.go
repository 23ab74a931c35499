package store

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/citymood/citymood-cli/internal/model"
)

// Derived outputs (rollups, city scores, daily series) are recomputed from
// the canonical tables on every run, so they are whole-file atomic writes
// rather than Store appends.

// OutputWriter writes derived CSV artifacts under a single outputs directory.
type OutputWriter struct {
	dir string
}

// NewOutputWriter creates a writer rooted at dir. The directory is created on
// first write.
func NewOutputWriter(dir string) *OutputWriter {
	return &OutputWriter{dir: dir}
}

func (w *OutputWriter) write(file string, records [][]string) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return eris.Wrapf(err, "outputs: create dir %s", w.dir)
	}
	return writeAtomic(filepath.Join(w.dir, file), records)
}

// WriteTeamRollups writes time-bucketed team aggregates, one file per period
// granularity (e.g. team_weekly.csv).
func (w *OutputWriter) WriteTeamRollups(file string, rollups []model.Rollup) error {
	records := [][]string{{"league", "team_id", "period_start", "index_score_sum", "weighted_score_sum", "games"}}
	for _, r := range rollups {
		records = append(records, []string{
			string(r.League), r.GroupID, r.PeriodStart,
			strconv.Itoa(r.IndexScoreSum), strconv.Itoa(r.WeightedScoreSum), strconv.Itoa(r.Games),
		})
	}
	return w.write(file, records)
}

// WriteCityRollups writes time-bucketed city aggregates.
func (w *OutputWriter) WriteCityRollups(file string, rollups []model.Rollup) error {
	records := [][]string{{"city_id", "period_start", "index_score_sum", "weighted_score_sum", "games"}}
	for _, r := range rollups {
		records = append(records, []string{
			r.GroupID, r.PeriodStart,
			strconv.Itoa(r.IndexScoreSum), strconv.Itoa(r.WeightedScoreSum), strconv.Itoa(r.Games),
		})
	}
	return w.write(file, records)
}

// WriteCityScores writes the per-(date, city) score table.
func (w *OutputWriter) WriteCityScores(file string, scores []model.CityScore) error {
	records := [][]string{{"date", "city_id", "city_name", "score", "wins", "losses", "playoff_wins", "playoff_losses"}}
	for _, s := range scores {
		records = append(records, []string{
			s.Date, s.CityID, s.CityName,
			strconv.Itoa(s.Score),
			strconv.Itoa(s.Wins), strconv.Itoa(s.Losses),
			strconv.Itoa(s.PlayoffWins), strconv.Itoa(s.PlayoffLosses),
		})
	}
	return w.write(file, records)
}

// WriteCityDaily writes the calendar-dense per-city daily series with
// trailing 7-day sums.
func (w *OutputWriter) WriteCityDaily(file string, rows []model.CityDaily) error {
	records := [][]string{{"date", "city_id", "index_sum", "games", "index_sum_7d", "games_7d"}}
	for _, r := range rows {
		records = append(records, []string{
			r.Date, r.CityID,
			strconv.Itoa(r.IndexSum), strconv.Itoa(r.Games),
			strconv.Itoa(r.IndexSum7d), strconv.Itoa(r.Games7d),
		})
	}
	return w.write(file, records)
}
