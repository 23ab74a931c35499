package cityscore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citymood/citymood-cli/internal/model"
)

func testAggregator() *Aggregator {
	teams := []model.Team{
		{ID: "nhl_toronto-maple-leafs", CityID: "toronto"},
		{ID: "nba_TOR", CityID: "toronto"},
		{ID: "nhl_vegas-golden-knights", CityID: "vegas"},
	}
	cities := []model.City{
		{ID: "toronto", Name: "Toronto"},
		{ID: "vegas", Name: "Vegas"},
	}
	return New(teams, cities)
}

func row(date, teamID string, season model.SeasonType, result model.Result, weighted int) model.TeamGameResult {
	return model.TeamGameResult{
		GameID: "g_" + date + "_" + teamID, Date: date,
		League: model.LeagueNHL, SeasonType: season,
		TeamID: teamID, Result: result, WeightedScore: weighted,
	}
}

func TestAggregator_Compute(t *testing.T) {
	a := testAggregator()
	rows := []model.TeamGameResult{
		row("2023-03-01", "nhl_toronto-maple-leafs", model.SeasonRegular, model.ResultWin, 1),
		row("2023-03-01", "nba_TOR", model.SeasonRegular, model.ResultLoss, -1),
		row("2023-03-01", "nhl_vegas-golden-knights", model.SeasonPlayoff, model.ResultWin, 3),
		// Unknown team: dropped.
		row("2023-03-01", "mlb_XXX", model.SeasonRegular, model.ResultWin, 1),
	}

	got := a.Compute(rows)
	require.Len(t, got, 2)

	// Same day sorts by score descending.
	vegas := got[0]
	assert.Equal(t, model.CityScore{Date: "2023-03-01", CityID: "vegas", CityName: "Vegas",
		Score: 3, Wins: 1, PlayoffWins: 1}, vegas)

	toronto := got[1]
	assert.Equal(t, 0, toronto.Score)
	assert.Equal(t, 1, toronto.Wins)
	assert.Equal(t, 1, toronto.Losses)
	assert.Zero(t, toronto.PlayoffWins)
	assert.Zero(t, toronto.PlayoffLosses)
}

func TestAggregator_ComputeIndecisiveRows(t *testing.T) {
	a := testAggregator()
	rows := []model.TeamGameResult{
		// Result known but no scores (NBA style): counts as a win with zero
		// weighted score.
		row("2023-03-01", "nba_TOR", model.SeasonRegular, model.ResultWin, 0),
		// Unknown outcome: counts as a game for neither column.
		row("2023-03-01", "nhl_toronto-maple-leafs", model.SeasonRegular, model.ResultNone, 0),
	}

	got := a.Compute(rows)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Wins)
	assert.Zero(t, got[0].Losses)
	assert.Zero(t, got[0].Score)
}

func TestLatest(t *testing.T) {
	a := testAggregator()
	rows := []model.TeamGameResult{
		row("2023-03-01", "nhl_toronto-maple-leafs", model.SeasonRegular, model.ResultWin, 1),
		row("2023-03-02", "nhl_toronto-maple-leafs", model.SeasonRegular, model.ResultLoss, -1),
		row("2023-03-02", "nhl_vegas-golden-knights", model.SeasonRegular, model.ResultWin, 1),
	}

	scores := a.Compute(rows)
	latest := Latest(scores)
	require.Len(t, latest, 2)
	for _, s := range latest {
		assert.Equal(t, "2023-03-02", s.Date)
	}

	assert.Nil(t, Latest(nil))
}
