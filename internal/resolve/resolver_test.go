package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/citymood/citymood-cli/internal/model"
)

func newTestResolver() *Resolver {
	return NewResolver(DefaultNicknames())
}

func TestResolveName_NHL(t *testing.T) {
	r := newTestResolver()

	res := r.ResolveName(model.LeagueNHL, "Vegas Golden Knights")
	assert.Equal(t, "nhl_vegas-golden-knights", res.TeamID)
	assert.Equal(t, "vegas", res.CityID)
	assert.Equal(t, "Vegas", res.CityName)
	assert.Equal(t, "Golden Knights", res.Nickname)
	assert.Equal(t, OutcomeResolved, res.Outcome)
}

func TestResolveName_MultiwordCity(t *testing.T) {
	r := newTestResolver()

	res := r.ResolveName(model.LeagueNHL, "New York Rangers")
	assert.Equal(t, "nhl_new-york-rangers", res.TeamID)
	assert.Equal(t, "new-york", res.CityID)
	assert.Equal(t, "New York", res.CityName)
}

func TestResolveCode_Mapped(t *testing.T) {
	r := newTestResolver()
	r.SetCodeTable(model.LeagueMLB, CodeTable{
		"NYN": {City: "New York", State: "NY"},
	})

	res := r.ResolveCode(model.LeagueMLB, "NYN")
	assert.Equal(t, "mlb_NYN", res.TeamID)
	assert.Equal(t, "new-york-ny", res.CityID)
	assert.Equal(t, "New York NYN", res.TeamName)
	assert.Equal(t, "NYN", res.AltName)
	assert.Equal(t, OutcomeResolved, res.Outcome)
}

func TestResolveCode_Unmapped(t *testing.T) {
	r := newTestResolver()

	res := r.ResolveCode(model.LeagueMLB, "ZZZ")
	assert.Equal(t, OutcomePlaceholder, res.Outcome)
	assert.Equal(t, "mlb_ZZZ", res.TeamID)
	assert.Equal(t, "zzz", res.CityID)
	assert.Equal(t, "ZZZ", res.CityName)
}

func TestResolveCode_Nickname(t *testing.T) {
	r := newTestResolver()
	r.SetCodeTable(model.LeagueNBA, RosterCodeTable([]RosterEntry{
		{Abbrev: "NYK", Nickname: "Knicks", City: "New York", AltID: "1610612752"},
	}))

	res := r.ResolveCode(model.LeagueNBA, "NYK")
	assert.Equal(t, "nba_NYK", res.TeamID)
	assert.Equal(t, "New York Knicks", res.TeamName)
	assert.Equal(t, "new-york", res.CityID)
}

func TestResolution_CityAndTeam(t *testing.T) {
	r := newTestResolver()

	res := r.ResolveName(model.LeagueNHL, "Toronto Maple Leafs")

	city := res.City()
	assert.Equal(t, "toronto", city.ID)
	assert.Equal(t, "USA", city.Country)
	assert.Equal(t, city.ID, city.Slug)

	team := res.Team(model.LeagueNHL)
	assert.Equal(t, "nhl_toronto-maple-leafs", team.ID)
	assert.Equal(t, model.LeagueNHL, team.League)
	assert.Equal(t, "toronto", team.CityID)
	assert.Equal(t, "Maple Leafs", team.AltNames)
}

// Two raw strings that slugify identically resolve to the same city.
func TestResolveName_CitySlugConvergence(t *testing.T) {
	r := newTestResolver()

	a := r.ResolveName(model.LeagueNHL, "Montréal Canadiens")
	b := r.ResolveName(model.LeagueNHL, "Montreal Canadiens")
	assert.Equal(t, a.CityID, b.CityID)
	assert.Equal(t, "montreal", a.CityID)
}
