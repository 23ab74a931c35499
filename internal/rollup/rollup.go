// Package rollup aggregates ledger rows into weekly and monthly totals for
// teams and cities, plus the calendar-dense daily city series.
package rollup

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/citymood/citymood-cli/internal/model"
)

// Period selects the ledger bucket a rollup groups by.
type Period string

const (
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

// ParsePeriod converts a string like "weekly" into a Period.
func ParsePeriod(s string) (Period, error) {
	switch s {
	case "weekly":
		return Weekly, nil
	case "monthly":
		return Monthly, nil
	default:
		return "", eris.Errorf("rollup: unknown period %q (valid: weekly, monthly)", s)
	}
}

func (p Period) bucket(r model.TeamGameResult) string {
	if p == Monthly {
		return r.MonthStart
	}
	return r.WeekStart
}

// Engine computes rollups over a fixed team-to-city mapping.
type Engine struct {
	teamCity map[string]string
}

// NewEngine creates an engine from the canonical team table.
func NewEngine(teams []model.Team) *Engine {
	m := make(map[string]string, len(teams))
	for _, t := range teams {
		m[t.ID] = t.CityID
	}
	return &Engine{teamCity: m}
}

// Team aggregates ledger rows per (league, team, period). Output is sorted
// by (league, team_id, period_start) so repeated runs produce identical
// files.
func (e *Engine) Team(rows []model.TeamGameResult, period Period) []model.Rollup {
	type key struct {
		league model.League
		teamID string
		start  string
	}
	acc := make(map[key]*model.Rollup)
	for _, r := range rows {
		k := key{league: r.League, teamID: r.TeamID, start: period.bucket(r)}
		agg, ok := acc[k]
		if !ok {
			agg = &model.Rollup{League: k.league, GroupID: k.teamID, PeriodStart: k.start}
			acc[k] = agg
		}
		agg.IndexScoreSum += r.IndexScore
		agg.WeightedScoreSum += r.WeightedScore
		agg.Games++
	}
	return sortRollups(acc)
}

// City aggregates ledger rows per (city, period) by mapping each team to its
// city. Rows for teams without a city mapping are dropped. Output is sorted
// by (city_id, period_start).
func (e *Engine) City(rows []model.TeamGameResult, period Period) []model.Rollup {
	type key struct {
		cityID string
		start  string
	}
	acc := make(map[key]*model.Rollup)
	for _, r := range rows {
		cityID, ok := e.teamCity[r.TeamID]
		if !ok || cityID == "" {
			continue
		}
		k := key{cityID: cityID, start: period.bucket(r)}
		agg, ok := acc[k]
		if !ok {
			agg = &model.Rollup{GroupID: k.cityID, PeriodStart: k.start}
			acc[k] = agg
		}
		agg.IndexScoreSum += r.IndexScore
		agg.WeightedScoreSum += r.WeightedScore
		agg.Games++
	}
	return sortRollups(acc)
}

func sortRollups[K comparable](acc map[K]*model.Rollup) []model.Rollup {
	out := make([]model.Rollup, 0, len(acc))
	for _, agg := range acc {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.League != b.League {
			return a.League < b.League
		}
		if a.GroupID != b.GroupID {
			return a.GroupID < b.GroupID
		}
		return a.PeriodStart < b.PeriodStart
	})
	return out
}

// Selection names one team per league for the monthly selection rollup.
type Selection map[model.League]string

// MonthlyTotal is one month of combined scores for a team selection.
type MonthlyTotal struct {
	MonthEnd        string
	Month           string
	TotalIndexScore int
	Games           int
}

// SelectedMonthly combines the monthly index scores of one chosen team per
// league into a single series. All four leagues must be selected.
func (e *Engine) SelectedMonthly(rows []model.TeamGameResult, sel Selection) ([]MonthlyTotal, error) {
	for _, league := range []model.League{model.LeagueNHL, model.LeagueNBA, model.LeagueMLB, model.LeagueNFL} {
		if sel[league] == "" {
			return nil, eris.Errorf("rollup: selection missing a %s team", league)
		}
	}

	acc := make(map[string]*MonthlyTotal)
	for _, r := range rows {
		if sel[r.League] != r.TeamID {
			continue
		}
		agg, ok := acc[r.MonthStart]
		if !ok {
			end, err := monthEnd(r.MonthStart)
			if err != nil {
				return nil, err
			}
			agg = &MonthlyTotal{Month: r.MonthStart, MonthEnd: end}
			acc[r.MonthStart] = agg
		}
		agg.TotalIndexScore += r.IndexScore
		agg.Games++
	}

	out := make([]MonthlyTotal, 0, len(acc))
	for _, agg := range acc {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

func monthEnd(monthStart string) (string, error) {
	t, err := model.ParseDate(monthStart)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 1, -1).Format(model.ISODate), nil
}
