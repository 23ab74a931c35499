package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citymood/citymood-cli/internal/model"
	"github.com/citymood/citymood-cli/internal/scoring"
)

func intp(v int) *int { return &v }

// The NHL scenario: Vegas wins 4-2 in Toronto.
func vegasToronto() model.Game {
	return model.Game{
		ID:            "nhl_2023-03-01_vegas-golden-knights_toronto-maple-leafs",
		Date:          "2023-03-01",
		League:        model.LeagueNHL,
		SeasonType:    model.SeasonRegular,
		HomeTeamID:    "nhl_toronto-maple-leafs",
		AwayTeamID:    "nhl_vegas-golden-knights",
		HomeScore:     intp(2),
		AwayScore:     intp(4),
		WinningTeamID: "nhl_vegas-golden-knights",
	}
}

func TestBuild_TwoRowsPerGame(t *testing.T) {
	rows, err := Build([]model.Game{vegasToronto()}, scoring.Default())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byTeam := map[string]model.TeamGameResult{}
	for _, r := range rows {
		byTeam[r.TeamID] = r
	}

	vegas := byTeam["nhl_vegas-golden-knights"]
	assert.Equal(t, model.ResultWin, vegas.Result)
	assert.Equal(t, 1, vegas.IndexScore)
	assert.Equal(t, 1, vegas.WeightedScore)
	assert.False(t, vegas.IsHome)
	assert.Equal(t, 4, *vegas.TeamScore)
	assert.Equal(t, 2, *vegas.OpponentScore)
	assert.Equal(t, "nhl_toronto-maple-leafs", vegas.OpponentTeamID)

	toronto := byTeam["nhl_toronto-maple-leafs"]
	assert.Equal(t, model.ResultLoss, toronto.Result)
	assert.Equal(t, -1, toronto.IndexScore)
	assert.Equal(t, -1, toronto.WeightedScore)
	assert.True(t, toronto.IsHome)
}

func TestBuild_Buckets(t *testing.T) {
	rows, err := Build([]model.Game{vegasToronto()}, scoring.Default())
	require.NoError(t, err)

	// 2023-03-01 is a Wednesday; the week began Monday 2023-02-27.
	assert.Equal(t, "2023-02-27", rows[0].WeekStart)
	assert.Equal(t, "2023-03-01", rows[0].MonthStart)
}

func TestBuild_IncompleteGame(t *testing.T) {
	g := vegasToronto()
	g.HomeScore = nil
	g.WinningTeamID = ""

	rows, err := Build([]model.Game{g}, scoring.Default())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	for _, r := range rows {
		assert.Equal(t, model.ResultNone, r.Result)
		assert.Zero(t, r.IndexScore)
		assert.Zero(t, r.WeightedScore)
	}
}

func TestBuild_SortOrder(t *testing.T) {
	g1 := vegasToronto()
	g2 := vegasToronto()
	g2.ID = "mlb_2023-02-28_NYN_BOS"
	g2.Date = "2023-02-28"
	g2.League = model.LeagueMLB
	g2.HomeTeamID = "mlb_BOS"
	g2.AwayTeamID = "mlb_NYN"
	g2.WinningTeamID = "mlb_NYN"

	rows, err := Build([]model.Game{g1, g2}, scoring.Default())
	require.NoError(t, err)
	require.Len(t, rows, 4)

	// Earlier date first, then team_id within the game.
	assert.Equal(t, "2023-02-28", rows[0].Date)
	assert.Equal(t, "mlb_BOS", rows[0].TeamID)
	assert.Equal(t, "mlb_NYN", rows[1].TeamID)
	assert.Equal(t, "2023-03-01", rows[2].Date)
	assert.Equal(t, "nhl_toronto-maple-leafs", rows[2].TeamID)
}

func TestBuild_BadDate(t *testing.T) {
	g := vegasToronto()
	g.Date = "03/01/2023"

	_, err := Build([]model.Game{g}, scoring.Default())
	assert.Error(t, err)
}

func TestWeekStart_AllWeekdays(t *testing.T) {
	// Monday 2024-01-01 anchors the whole week.
	for day := 1; day <= 7; day++ {
		d := time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, "2024-01-01", WeekStart(d).Format(model.ISODate), d.Weekday().String())
	}
	// Next Monday starts a new week.
	d := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-08", WeekStart(d).Format(model.ISODate))
}

func TestMonthStart(t *testing.T) {
	d := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2023-12-01", MonthStart(d).Format(model.ISODate))
}
