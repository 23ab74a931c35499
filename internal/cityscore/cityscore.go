// Package cityscore aggregates ledger rows into the per-day city standings
// consumed by external renderers.
package cityscore

import (
	"sort"
	"strings"

	"github.com/citymood/citymood-cli/internal/model"
)

// Aggregator computes city scores over fixed team and city reference tables.
type Aggregator struct {
	teamCity map[string]string
	cityName map[string]string
}

// New creates an aggregator from the canonical team and city tables.
func New(teams []model.Team, cities []model.City) *Aggregator {
	a := &Aggregator{
		teamCity: make(map[string]string, len(teams)),
		cityName: make(map[string]string, len(cities)),
	}
	for _, t := range teams {
		a.teamCity[t.ID] = t.CityID
	}
	for _, c := range cities {
		a.cityName[c.ID] = c.Name
	}
	return a
}

// Compute aggregates ledger rows per (date, city): the score is the sum of
// weighted scores, alongside win/loss counts split by season type. Rows for
// teams without a city mapping are dropped. Output is sorted by date
// ascending, then score descending, so each day reads as a standings table.
func (a *Aggregator) Compute(rows []model.TeamGameResult) []model.CityScore {
	type key struct {
		date   string
		cityID string
	}
	acc := make(map[key]*model.CityScore)
	for _, r := range rows {
		cityID, ok := a.teamCity[r.TeamID]
		if !ok || cityID == "" {
			continue
		}
		k := key{date: r.Date, cityID: cityID}
		s, ok := acc[k]
		if !ok {
			s = &model.CityScore{Date: r.Date, CityID: cityID, CityName: a.cityName[cityID]}
			acc[k] = s
		}

		s.Score += r.WeightedScore
		playoff := strings.EqualFold(string(r.SeasonType), string(model.SeasonPlayoff))
		switch r.Result {
		case model.ResultWin:
			s.Wins++
			if playoff {
				s.PlayoffWins++
			}
		case model.ResultLoss:
			s.Losses++
			if playoff {
				s.PlayoffLosses++
			}
		}
	}

	out := make([]model.CityScore, 0, len(acc))
	for _, s := range acc {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.CityID < b.CityID
	})
	return out
}

// Latest returns the rows for the most recent date of an already-computed
// score table.
func Latest(scores []model.CityScore) []model.CityScore {
	if len(scores) == 0 {
		return nil
	}
	max := ""
	for _, s := range scores {
		if s.Date > max {
			max = s.Date
		}
	}
	var out []model.CityScore
	for _, s := range scores {
		if s.Date == max {
			out = append(out, s)
		}
	}
	return out
}
