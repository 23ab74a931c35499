// Package ledger expands canonical games into the per-team-per-game fact
// table. Every game becomes exactly two rows, one per perspective, with
// derived week and month bucket keys and a fixed canonical sort order.
package ledger

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/citymood/citymood-cli/internal/model"
	"github.com/citymood/citymood-cli/internal/scoring"
)

// Build expands games into ledger rows sorted by (date, league, game_id,
// team_id). Downstream consumers diff the persisted ledger, so this ordering
// must stay byte-stable.
func Build(games []model.Game, weights scoring.Weights) ([]model.TeamGameResult, error) {
	rows := make([]model.TeamGameResult, 0, len(games)*2)

	for _, g := range games {
		weekStart, monthStart, err := Buckets(g.Date)
		if err != nil {
			return nil, eris.Wrapf(err, "ledger: game %s", g.ID)
		}

		home, away := scoring.Score(g, weights)

		rows = append(rows, model.TeamGameResult{
			GameID:         g.ID,
			Date:           g.Date,
			League:         g.League,
			SeasonType:     g.SeasonType,
			TeamID:         g.HomeTeamID,
			OpponentTeamID: g.AwayTeamID,
			IsHome:         true,
			TeamScore:      g.HomeScore,
			OpponentScore:  g.AwayScore,
			Result:         home.Result,
			IndexScore:     home.IndexScore,
			WeightedScore:  home.WeightedScore,
			WeekStart:      weekStart,
			MonthStart:     monthStart,
		}, model.TeamGameResult{
			GameID:         g.ID,
			Date:           g.Date,
			League:         g.League,
			SeasonType:     g.SeasonType,
			TeamID:         g.AwayTeamID,
			OpponentTeamID: g.HomeTeamID,
			IsHome:         false,
			TeamScore:      g.AwayScore,
			OpponentScore:  g.HomeScore,
			Result:         away.Result,
			IndexScore:     away.IndexScore,
			WeightedScore:  away.WeightedScore,
			WeekStart:      weekStart,
			MonthStart:     monthStart,
		})
	}

	Sort(rows)
	return rows, nil
}

// Sort orders ledger rows by the canonical (date, league, game_id, team_id)
// key.
func Sort(rows []model.TeamGameResult) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.League != b.League {
			return a.League < b.League
		}
		if a.GameID != b.GameID {
			return a.GameID < b.GameID
		}
		return a.TeamID < b.TeamID
	})
}
