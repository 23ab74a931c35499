package rollup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citymood/citymood-cli/internal/model"
)

func dailyRow(date, teamID string, index int) model.TeamGameResult {
	return model.TeamGameResult{
		GameID: "g_" + date + "_" + teamID, Date: date,
		League: model.LeagueNHL, SeasonType: model.SeasonRegular,
		TeamID: teamID, IndexScore: index, WeightedScore: index,
	}
}

func TestEngine_DailyWindowAgesOut(t *testing.T) {
	e := NewEngine(testTeams())

	// Games on day 1 and day 10 of an 11-day span: the gap is zero-filled
	// and the first game ages out of the 7-day window before the second.
	rows := []model.TeamGameResult{
		dailyRow("2023-03-01", "nhl_toronto-maple-leafs", 1),
		dailyRow("2023-03-10", "nhl_toronto-maple-leafs", -1),
	}

	got, err := e.Daily(rows, "")
	require.NoError(t, err)
	require.Len(t, got, 10)

	byDate := make(map[string]model.CityDaily, len(got))
	for _, d := range got {
		assert.Equal(t, "toronto", d.CityID)
		byDate[d.Date] = d
	}

	assert.Equal(t, 1, byDate["2023-03-01"].IndexSum7d)
	assert.Equal(t, 1, byDate["2023-03-01"].Games7d)

	// Day 7 still holds the first game in its window; day 8 does not.
	assert.Equal(t, 1, byDate["2023-03-07"].IndexSum7d)
	assert.Equal(t, 0, byDate["2023-03-08"].IndexSum7d)
	assert.Equal(t, 0, byDate["2023-03-08"].Games7d)

	// Gap days exist with zero same-day sums.
	assert.Equal(t, 0, byDate["2023-03-05"].IndexSum)
	assert.Equal(t, 0, byDate["2023-03-05"].Games)

	assert.Equal(t, -1, byDate["2023-03-10"].IndexSum7d)
	assert.Equal(t, 1, byDate["2023-03-10"].Games7d)
}

func TestEngine_DailyMultipleGamesSameDay(t *testing.T) {
	e := NewEngine(testTeams())
	rows := []model.TeamGameResult{
		dailyRow("2023-03-01", "nhl_toronto-maple-leafs", 1),
		dailyRow("2023-03-01", "nba_TOR", 1),
		dailyRow("2023-03-02", "nhl_toronto-maple-leafs", -1),
	}

	got, err := e.Daily(rows, "")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, model.CityDaily{Date: "2023-03-01", CityID: "toronto",
		IndexSum: 2, Games: 2, IndexSum7d: 2, Games7d: 2}, got[0])
	assert.Equal(t, model.CityDaily{Date: "2023-03-02", CityID: "toronto",
		IndexSum: -1, Games: 1, IndexSum7d: 1, Games7d: 3}, got[1])
}

func TestEngine_DailySinceCutoff(t *testing.T) {
	e := NewEngine(testTeams())
	rows := []model.TeamGameResult{
		dailyRow("2021-11-01", "nhl_toronto-maple-leafs", 1),
		dailyRow("2023-03-01", "nhl_toronto-maple-leafs", -1),
	}

	got, err := e.Daily(rows, "2022-01-01")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2023-03-01", got[0].Date)
}

func TestEngine_DailySortedByCity(t *testing.T) {
	e := NewEngine(testTeams())
	rows := []model.TeamGameResult{
		dailyRow("2023-03-01", "nhl_vegas-golden-knights", 1),
		dailyRow("2023-03-01", "nhl_toronto-maple-leafs", -1),
	}

	got, err := e.Daily(rows, "")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "toronto", got[0].CityID)
	assert.Equal(t, "vegas", got[1].CityID)
}
