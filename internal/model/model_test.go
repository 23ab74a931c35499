package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLeague_Valid(t *testing.T) {
	for raw, want := range map[string]League{
		"nhl":  LeagueNHL,
		"NBA":  LeagueNBA,
		" mlb": LeagueMLB,
		"Nfl":  LeagueNFL,
	} {
		got, err := ParseLeague(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestParseLeague_Unknown(t *testing.T) {
	_, err := ParseLeague("xfl")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown league")
}

func TestSeasonTypeFromLabel(t *testing.T) {
	assert.Equal(t, SeasonRegular, SeasonTypeFromLabel("Regular Season"))
	assert.Equal(t, SeasonPlayoff, SeasonTypeFromLabel("Playoffs"))
	assert.Equal(t, SeasonPlayoff, SeasonTypeFromLabel("Stanley Cup Playoff Round 2"))
	assert.Equal(t, SeasonRegular, SeasonTypeFromLabel(""))
}

func TestGame_Decisive(t *testing.T) {
	four, two := 4, 2

	g := Game{HomeScore: &two, AwayScore: &four, WinningTeamID: "nhl_vegas-golden-knights"}
	assert.True(t, g.Decisive())

	assert.False(t, Game{HomeScore: &two, AwayScore: &four}.Decisive())
	assert.False(t, Game{WinningTeamID: "x"}.Decisive())
	assert.False(t, Game{}.Decisive())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2023-03-01")
	require.NoError(t, err)
	assert.Equal(t, 2023, d.Year())

	_, err = ParseDate("03/01/2023")
	assert.Error(t, err)
}
