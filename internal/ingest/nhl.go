package ingest

import (
	"context"

	"github.com/citymood/citymood-cli/internal/model"
	"github.com/citymood/citymood-cli/internal/resolve"
)

// NHLFeed loads the wide NHL season file: one row per game with full team
// names and goal totals.
type NHLFeed struct {
	gamesPath string
}

// NewNHLFeed creates the NHL feed reading from gamesPath.
func NewNHLFeed(gamesPath string) *NHLFeed {
	return &NHLFeed{gamesPath: gamesPath}
}

func (f *NHLFeed) Name() string { return "nhl_games" }

func (f *NHLFeed) League() model.League { return model.LeagueNHL }

func (f *NHLFeed) Load(_ context.Context, r *resolve.Resolver) (*Batch, error) {
	col, rows, err := readFeed(f.gamesPath, []string{"Date", "Away", "AwayGoals", "Home", "HomeGoals", "Type"})
	if err != nil {
		return nil, err
	}

	b := newBatchBuilder()
	for _, row := range rows {
		if row[col["Away"]] == "" || row[col["Home"]] == "" {
			continue
		}
		b.addGame(nameFeedGame(b, r, model.LeagueNHL, nameFeedRow{
			date:      dateOnly(row[col["Date"]]),
			away:      row[col["Away"]],
			home:      row[col["Home"]],
			awayScore: parseOptionalInt(row[col["AwayGoals"]]),
			homeScore: parseOptionalInt(row[col["HomeGoals"]]),
			season:    model.SeasonTypeFromLabel(row[col["Type"]]),
		}))
	}
	return b.build(), nil
}

// nameFeedRow is one raw game from a wide, full-name feed (NHL, NFL).
type nameFeedRow struct {
	date      string
	away      string
	home      string
	awayScore *int
	homeScore *int
	season    model.SeasonType
}

// nameFeedGame resolves both sides of a full-name game row, registers their
// city and team rows, and builds the canonical game. The winner comes from
// comparing scores; a tie or missing score leaves it empty.
func nameFeedGame(b *batchBuilder, r *resolve.Resolver, league model.League, row nameFeedRow) model.Game {
	away := r.ResolveName(league, row.away)
	home := r.ResolveName(league, row.home)
	b.addResolution(away, league)
	b.addResolution(home, league)

	winner := ""
	if row.awayScore != nil && row.homeScore != nil {
		switch {
		case *row.awayScore > *row.homeScore:
			winner = away.TeamID
		case *row.homeScore > *row.awayScore:
			winner = home.TeamID
		}
	}

	return model.Game{
		ID:            string(league) + "_" + row.date + "_" + resolve.Slugify(row.away) + "_" + resolve.Slugify(row.home),
		Date:          row.date,
		League:        league,
		SeasonType:    row.season,
		HomeTeamID:    home.TeamID,
		AwayTeamID:    away.TeamID,
		HomeScore:     row.homeScore,
		AwayScore:     row.awayScore,
		WinningTeamID: winner,
	}
}
