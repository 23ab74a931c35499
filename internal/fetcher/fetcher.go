// Package fetcher pulls finished games for a single day from the external
// results provider and turns them into canonical rows for the daily
// snapshot.
package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/citymood/citymood-cli/internal/config"
	"github.com/citymood/citymood-cli/internal/ingest"
	"github.com/citymood/citymood-cli/internal/model"
	"github.com/citymood/citymood-cli/internal/resolve"
)

// providerLeagues maps our leagues onto the provider's league labels, in the
// order the snapshot lists them.
var providerLeagues = []struct {
	league model.League
	label  string
}{
	{model.LeagueNHL, "NHL"},
	{model.LeagueNBA, "NBA"},
	{model.LeagueMLB, "MLB"},
	{model.LeagueNFL, "NFL"},
}

// Client fetches day results from the provider. All requests share one rate
// limiter; league fetches for a day run concurrently under it.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	limiter *rate.Limiter
}

// New creates a client from provider configuration.
func New(cfg config.ProviderConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	perSec := rate.Limit(cfg.RatePerSec)
	if perSec <= 0 {
		perSec = 2
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		limiter: rate.NewLimiter(perSec, burst),
	}
}

// Enabled reports whether an API key is configured. Without one the daily
// snapshot stays empty and the pipeline remains green.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// event is one provider game row.
type event struct {
	ID        string `json:"idEvent"`
	Date      string `json:"dateEvent"`
	HomeTeam  string `json:"strHomeTeam"`
	AwayTeam  string `json:"strAwayTeam"`
	HomeScore string `json:"intHomeScore"`
	AwayScore string `json:"intAwayScore"`
}

type eventsResponse struct {
	Events []event `json:"events"`
}

// FetchDay fetches all four leagues for one ISO date and resolves the events
// into a canonical batch. League requests run concurrently; the batch is
// assembled in a fixed league order so the snapshot is reproducible.
func (c *Client) FetchDay(ctx context.Context, date string, r *resolve.Resolver) (*ingest.Batch, error) {
	if !c.Enabled() {
		return nil, eris.New("fetcher: no provider api key configured")
	}

	results := make([][]event, len(providerLeagues))
	g, gctx := errgroup.WithContext(ctx)
	for i, pl := range providerLeagues {
		i, pl := i, pl
		g.Go(func() error {
			events, err := c.eventsDay(gctx, date, pl.label)
			if err != nil {
				return err
			}
			results[i] = events
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch := &ingest.Batch{}
	for i, pl := range providerLeagues {
		games := buildGames(r, pl.league, results[i], batch)
		zap.L().Debug("provider day fetched",
			zap.String("league", string(pl.league)),
			zap.String("date", date),
			zap.Int("games", games))
	}
	return batch, nil
}

func (c *Client) eventsDay(ctx context.Context, date, label string) ([]event, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "fetcher: rate limit wait")
	}

	u := fmt.Sprintf("%s/%s/eventsday.php?d=%s&l=%s", c.baseURL, url.PathEscape(c.apiKey), url.QueryEscape(date), url.QueryEscape(label))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: build request for %s", label)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: fetch %s %s", label, date)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("fetcher: %s %s returned status %d", label, date, resp.StatusCode)
	}

	var body eventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, eris.Wrapf(err, "fetcher: decode %s %s", label, date)
	}
	return body.Events, nil
}

// buildGames resolves provider events for one league into canonical rows,
// appending to the batch. It returns the number of games added.
func buildGames(r *resolve.Resolver, league model.League, events []event, batch *ingest.Batch) int {
	added := 0
	for _, ev := range events {
		if ev.HomeTeam == "" || ev.AwayTeam == "" || ev.Date == "" {
			continue
		}
		home := r.ResolveName(league, ev.HomeTeam)
		away := r.ResolveName(league, ev.AwayTeam)
		addResolution(batch, away, league)
		addResolution(batch, home, league)

		homeScore := parseScore(ev.HomeScore)
		awayScore := parseScore(ev.AwayScore)
		winner := ""
		if homeScore != nil && awayScore != nil {
			switch {
			case *homeScore > *awayScore:
				winner = home.TeamID
			case *awayScore > *homeScore:
				winner = away.TeamID
			}
		}

		batch.Games = append(batch.Games, model.Game{
			ID:            string(league) + "_" + ev.Date + "_" + resolve.Slugify(ev.AwayTeam) + "_" + resolve.Slugify(ev.HomeTeam),
			Date:          ev.Date,
			League:        league,
			SeasonType:    model.SeasonRegular,
			HomeTeamID:    home.TeamID,
			AwayTeamID:    away.TeamID,
			HomeScore:     homeScore,
			AwayScore:     awayScore,
			WinningTeamID: winner,
		})
		added++
	}
	return added
}

func addResolution(batch *ingest.Batch, res resolve.Resolution, league model.League) {
	if !hasCity(batch.Cities, res.CityID) {
		batch.Cities = append(batch.Cities, res.City())
	}
	if !hasTeam(batch.Teams, res.TeamID) {
		batch.Teams = append(batch.Teams, res.Team(league))
	}
}

func hasCity(cities []model.City, id string) bool {
	for _, c := range cities {
		if c.ID == id {
			return true
		}
	}
	return false
}

func hasTeam(teams []model.Team, id string) bool {
	for _, t := range teams {
		if t.ID == id {
			return true
		}
	}
	return false
}

func parseScore(raw string) *int {
	if raw == "" {
		return nil
	}
	var v int
	if _, err := fmt.Sscanf(raw, "%d", &v); err != nil {
		return nil
	}
	return &v
}
