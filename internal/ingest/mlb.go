package ingest

import (
	"context"
	"sort"
	"strings"

	"github.com/citymood/citymood-cli/internal/model"
	"github.com/citymood/citymood-cli/internal/resolve"
)

// MLBFeed loads the retrosheet-style MLB game file. Teams appear as retro
// codes ("NYA", "SLN"); the companion current-names file maps codes to
// cities. Dates arrive as yyyymmdd and the winner as a visitor flag.
type MLBFeed struct {
	gamesPath string
	namesPath string
}

// NewMLBFeed creates the MLB feed reading games from gamesPath and the
// code-to-city reference from namesPath.
func NewMLBFeed(gamesPath, namesPath string) *MLBFeed {
	return &MLBFeed{gamesPath: gamesPath, namesPath: namesPath}
}

func (f *MLBFeed) Name() string { return "mlb_games" }

func (f *MLBFeed) League() model.League { return model.LeagueMLB }

func (f *MLBFeed) Load(_ context.Context, r *resolve.Resolver) (*Batch, error) {
	table, err := resolve.ReadRetroNames(f.namesPath)
	if err != nil {
		return nil, err
	}
	r.SetCodeTable(model.LeagueMLB, table)

	col, rows, err := readFeed(f.gamesPath, []string{"Date", "VT", "HT", "VT Score", "HT Score", "Game Winner"})
	if err != nil {
		return nil, err
	}

	// Seed city and team rows from the codes observed in the games, in
	// sorted order so the append order is reproducible.
	codes := make(map[string]bool)
	for _, row := range rows {
		if c := strings.TrimSpace(row[col["VT"]]); c != "" {
			codes[c] = true
		}
		if c := strings.TrimSpace(row[col["HT"]]); c != "" {
			codes[c] = true
		}
	}
	sortedCodes := make([]string, 0, len(codes))
	for c := range codes {
		sortedCodes = append(sortedCodes, c)
	}
	sort.Strings(sortedCodes)

	b := newBatchBuilder()
	resolutions := make(map[string]resolve.Resolution, len(sortedCodes))
	for _, code := range sortedCodes {
		res := r.ResolveCode(model.LeagueMLB, code)
		resolutions[code] = res
		b.addResolution(res, model.LeagueMLB)
	}

	for _, row := range rows {
		vt := strings.TrimSpace(row[col["VT"]])
		ht := strings.TrimSpace(row[col["HT"]])
		if vt == "" || ht == "" {
			continue
		}

		date := mlbDate(strings.TrimSpace(row[col["Date"]]))
		awayScore := parseOptionalInt(row[col["VT Score"]])
		homeScore := parseOptionalInt(row[col["HT Score"]])
		winnerFlag := parseOptionalInt(row[col["Game Winner"]])

		away := resolutions[vt]
		home := resolutions[ht]

		winner := ""
		if winnerFlag != nil && awayScore != nil && homeScore != nil {
			if *winnerFlag == 1 {
				winner = away.TeamID
			} else {
				winner = home.TeamID
			}
		}

		b.addGame(model.Game{
			ID:            "mlb_" + date + "_" + vt + "_" + ht,
			Date:          date,
			League:        model.LeagueMLB,
			SeasonType:    model.SeasonRegular,
			HomeTeamID:    home.TeamID,
			AwayTeamID:    away.TeamID,
			HomeScore:     homeScore,
			AwayScore:     awayScore,
			WinningTeamID: winner,
		})
	}
	return b.build(), nil
}

// mlbDate converts yyyymmdd to ISO form; anything else passes through.
func mlbDate(raw string) string {
	if len(raw) != 8 {
		return raw
	}
	return raw[0:4] + "-" + raw[4:6] + "-" + raw[6:8]
}
