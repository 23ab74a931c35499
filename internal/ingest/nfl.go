package ingest

import (
	"context"
	"strings"
	"time"

	"github.com/citymood/citymood-cli/internal/model"
	"github.com/citymood/citymood-cli/internal/resolve"
)

// NFLFeed loads the wide NFL scores file: one row per game with full team
// names and point totals. Ties are possible and leave the winner empty.
type NFLFeed struct {
	gamesPath string
}

// NewNFLFeed creates the NFL feed reading from gamesPath.
func NewNFLFeed(gamesPath string) *NFLFeed {
	return &NFLFeed{gamesPath: gamesPath}
}

func (f *NFLFeed) Name() string { return "nfl_games" }

func (f *NFLFeed) League() model.League { return model.LeagueNFL }

func (f *NFLFeed) Load(_ context.Context, r *resolve.Resolver) (*Batch, error) {
	col, rows, err := readFeed(f.gamesPath, []string{"schedule_date", "team_home", "score_home", "team_away", "score_away"})
	if err != nil {
		return nil, err
	}
	playoffCol, hasPlayoff := col["schedule_playoff"]

	b := newBatchBuilder()
	for _, row := range rows {
		if row[col["team_home"]] == "" || row[col["team_away"]] == "" {
			continue
		}

		season := model.SeasonRegular
		if hasPlayoff && strings.EqualFold(strings.TrimSpace(row[playoffCol]), "true") {
			season = model.SeasonPlayoff
		}

		b.addGame(nameFeedGame(b, r, model.LeagueNFL, nameFeedRow{
			date:      nflDate(row[col["schedule_date"]]),
			away:      row[col["team_away"]],
			home:      row[col["team_home"]],
			awayScore: parseOptionalInt(row[col["score_away"]]),
			homeScore: parseOptionalInt(row[col["score_home"]]),
			season:    season,
		}))
	}
	return b.build(), nil
}

// nflDate normalizes the schedule date to ISO form. The feed mixes ISO dates
// with US-style "9/10/2015".
func nflDate(raw string) string {
	raw = dateOnly(raw)
	if _, err := time.Parse(model.ISODate, raw); err == nil {
		return raw
	}
	if t, err := time.Parse("1/2/2006", raw); err == nil {
		return t.Format(model.ISODate)
	}
	return raw
}
