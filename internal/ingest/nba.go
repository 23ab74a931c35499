package ingest

import (
	"context"
	"sort"
	"strings"

	"github.com/citymood/citymood-cli/internal/model"
	"github.com/citymood/citymood-cli/internal/resolve"
)

// NBAFeed loads the per-team NBA box-score file. Each game appears as two
// long rows keyed by GAME_ID, with the side encoded in a MATCHUP string
// ("GSW @ POR" or "BKN vs. PHI") and the outcome in a WL column. The feed
// carries no scores, so games are never decisive; the winner comes from WL.
// A companion roster file seeds teams and cities by abbreviation.
type NBAFeed struct {
	gamesPath  string
	rosterPath string
}

// NewNBAFeed creates the NBA feed reading games from gamesPath and the
// roster reference from rosterPath.
func NewNBAFeed(gamesPath, rosterPath string) *NBAFeed {
	return &NBAFeed{gamesPath: gamesPath, rosterPath: rosterPath}
}

func (f *NBAFeed) Name() string { return "nba_games" }

func (f *NBAFeed) League() model.League { return model.LeagueNBA }

// nbaGame accumulates the per-team rows for one GAME_ID.
type nbaGame struct {
	date   string
	winner string
	sides  map[[2]string]int // (away, home) candidate votes
}

func (f *NBAFeed) Load(_ context.Context, r *resolve.Resolver) (*Batch, error) {
	roster, err := resolve.ReadRoster(f.rosterPath)
	if err != nil {
		return nil, err
	}
	r.SetCodeTable(model.LeagueNBA, resolve.RosterCodeTable(roster))

	col, rows, err := readFeed(f.gamesPath, []string{"TEAM_ABBREVIATION", "GAME_ID", "GAME_DATE", "MATCHUP", "WL"})
	if err != nil {
		return nil, err
	}

	b := newBatchBuilder()
	for _, entry := range roster {
		if entry.Abbrev == "" {
			continue
		}
		b.addResolution(r.ResolveCode(model.LeagueNBA, entry.Abbrev), model.LeagueNBA)
	}

	games := make(map[string]*nbaGame)
	for _, row := range rows {
		gameID := strings.TrimSpace(row[col["GAME_ID"]])
		if gameID == "" {
			continue
		}
		g, ok := games[gameID]
		if !ok {
			g = &nbaGame{sides: make(map[[2]string]int)}
			games[gameID] = g
		}

		if g.date == "" {
			g.date = dateOnly(row[col["GAME_DATE"]])
		}
		if g.winner == "" && strings.TrimSpace(row[col["WL"]]) == "W" {
			g.winner = strings.TrimSpace(row[col["TEAM_ABBREVIATION"]])
		}
		if away, home, ok := parseMatchup(row[col["MATCHUP"]]); ok {
			g.sides[[2]string{away, home}]++
		}
	}

	gameIDs := make([]string, 0, len(games))
	for id := range games {
		gameIDs = append(gameIDs, id)
	}
	sort.Strings(gameIDs)

	for _, id := range gameIDs {
		g := games[id]
		away, home, ok := g.pickSides()
		if !ok {
			continue
		}

		awayRes := r.ResolveCode(model.LeagueNBA, away)
		homeRes := r.ResolveCode(model.LeagueNBA, home)
		b.addResolution(awayRes, model.LeagueNBA)
		b.addResolution(homeRes, model.LeagueNBA)

		winner := ""
		if g.winner != "" {
			winner = r.ResolveCode(model.LeagueNBA, g.winner).TeamID
		}

		b.addGame(model.Game{
			ID:            "nba_" + id,
			Date:          g.date,
			League:        model.LeagueNBA,
			SeasonType:    model.SeasonRegular,
			HomeTeamID:    homeRes.TeamID,
			AwayTeamID:    awayRes.TeamID,
			WinningTeamID: winner,
		})
	}
	return b.build(), nil
}

// pickSides returns the (away, home) pair with the most votes across the
// game's rows. Both perspectives of a well-formed game agree, so this is a
// majority vote that also tolerates a single malformed matchup string. Ties
// break lexicographically to keep the result reproducible.
func (g *nbaGame) pickSides() (string, string, bool) {
	best := [2]string{}
	bestVotes := 0
	for pair, votes := range g.sides {
		if votes > bestVotes || (votes == bestVotes && lessPair(pair, best)) {
			best = pair
			bestVotes = votes
		}
	}
	if bestVotes == 0 {
		return "", "", false
	}
	return best[0], best[1], true
}

func lessPair(a, b [2]string) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	return a[1] < b[1]
}

// parseMatchup splits "AWY @ HOM" or "HOM vs. AWY" into (away, home).
func parseMatchup(m string) (away, home string, ok bool) {
	if left, right, found := strings.Cut(m, "@"); found {
		return strings.TrimSpace(left), strings.TrimSpace(right), true
	}
	if left, right, found := strings.Cut(m, "vs."); found {
		return strings.TrimSpace(right), strings.TrimSpace(left), true
	}
	return "", "", false
}
