package rollup

import (
	"sort"

	"github.com/citymood/citymood-cli/internal/model"
)

// Window is the trailing span of the rolling daily sums, in calendar days.
const Window = 7

// Daily builds the per-city daily series with trailing sums over calendar
// days. Each city's series is densified from its first to its last game day,
// so days without games appear with zero sums and still age games out of the
// window. The minimum period is one day: the first days of a series carry
// partial-window sums rather than gaps. A non-empty since date (ISO) drops
// earlier ledger rows before aggregating.
func (e *Engine) Daily(rows []model.TeamGameResult, since string) ([]model.CityDaily, error) {
	type key struct {
		cityID string
		date   string
	}
	acc := make(map[key]*model.CityDaily)
	for _, r := range rows {
		cityID, ok := e.teamCity[r.TeamID]
		if !ok || cityID == "" {
			continue
		}
		if since != "" && r.Date < since {
			continue
		}
		k := key{cityID: cityID, date: r.Date}
		d, ok := acc[k]
		if !ok {
			d = &model.CityDaily{Date: r.Date, CityID: cityID}
			acc[k] = d
		}
		d.IndexSum += r.IndexScore
		d.Games++
	}

	byCity := make(map[string][]model.CityDaily)
	for _, d := range acc {
		byCity[d.CityID] = append(byCity[d.CityID], *d)
	}
	cityIDs := make([]string, 0, len(byCity))
	for id := range byCity {
		cityIDs = append(cityIDs, id)
	}
	sort.Strings(cityIDs)

	var out []model.CityDaily
	for _, id := range cityIDs {
		series, err := densify(byCity[id])
		if err != nil {
			return nil, err
		}
		out = append(out, roll(series)...)
	}
	return out, nil
}

// densify fills calendar gaps between a city's first and last game day with
// zero rows.
func densify(days []model.CityDaily) ([]model.CityDaily, error) {
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	first, err := model.ParseDate(days[0].Date)
	if err != nil {
		return nil, err
	}
	last, err := model.ParseDate(days[len(days)-1].Date)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]model.CityDaily, len(days))
	for _, d := range days {
		byDate[d.Date] = d
	}

	var out []model.CityDaily
	for t := first; !t.After(last); t = t.AddDate(0, 0, 1) {
		date := t.Format(model.ISODate)
		if d, ok := byDate[date]; ok {
			out = append(out, d)
			continue
		}
		out = append(out, model.CityDaily{Date: date, CityID: days[0].CityID})
	}
	return out, nil
}

// roll computes trailing sums over a dense series.
func roll(series []model.CityDaily) []model.CityDaily {
	for i := range series {
		lo := i - Window + 1
		if lo < 0 {
			lo = 0
		}
		sum, games := 0, 0
		for j := lo; j <= i; j++ {
			sum += series[j].IndexSum
			games += series[j].Games
		}
		series[i].IndexSum7d = sum
		series[i].Games7d = games
	}
	return series
}
