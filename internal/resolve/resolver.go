package resolve

import (
	"strings"

	"github.com/citymood/citymood-cli/internal/model"
)

// Outcome tags how an identity was resolved. Placeholder resolutions come
// from unmapped codes and keep the pipeline counting games instead of
// dropping them.
type Outcome string

const (
	OutcomeResolved    Outcome = "resolved"
	OutcomePlaceholder Outcome = "placeholder"
)

// Resolution is the canonical identity derived from one raw team token.
type Resolution struct {
	TeamID   string
	TeamName string
	CityID   string
	CityName string
	State    string
	Nickname string
	AltName  string
	Outcome  Outcome
}

// City materializes the canonical city row for this resolution.
func (r Resolution) City() model.City {
	return model.City{
		ID:      r.CityID,
		Name:    r.CityName,
		State:   r.State,
		Country: "USA",
		Slug:    r.CityID,
	}
}

// Team materializes the canonical team row for this resolution.
func (r Resolution) Team(league model.League) model.Team {
	return model.Team{
		ID:       r.TeamID,
		Name:     r.TeamName,
		League:   league,
		CityID:   r.CityID,
		CityName: r.CityName,
		AltNames: r.AltName,
	}
}

// Resolver holds the build-once lookup state for a single ingest pass:
// nickname tables for name-based leagues and code tables for code-based
// leagues. It is stage-scoped, not a process-wide singleton.
type Resolver struct {
	nicknames NicknameSets
	codes     map[model.League]CodeTable
}

// NewResolver creates a resolver with the given nickname tables.
func NewResolver(nicknames NicknameSets) *Resolver {
	return &Resolver{
		nicknames: nicknames,
		codes:     make(map[model.League]CodeTable),
	}
}

// SetCodeTable installs the code reference table for a league.
func (r *Resolver) SetCodeTable(league model.League, table CodeTable) {
	r.codes[league] = table
}

// ResolveName resolves a full "City Nickname" team name for a name-based
// league. Name-based resolution always succeeds: the city comes out of the
// split heuristic and the team id is the league-prefixed slug of the full
// name.
func (r *Resolver) ResolveName(league model.League, fullName string) Resolution {
	fullName = strings.TrimSpace(fullName)
	city, nick := SplitCityNickname(fullName, r.nicknames[league])
	return Resolution{
		TeamID:   string(league) + "_" + Slugify(fullName),
		TeamName: fullName,
		CityID:   Slugify(city),
		CityName: city,
		Nickname: nick,
		AltName:  nick,
		Outcome:  OutcomeResolved,
	}
}

// ResolveCode resolves a league-native team code through the league's code
// table. An unmapped code degrades to a placeholder identity: the raw code
// stands in for the city so the game is preserved.
func (r *Resolver) ResolveCode(league model.League, code string) Resolution {
	code = strings.TrimSpace(code)
	entry, ok := r.codes[league][code]
	if !ok || entry.City == "" {
		return Resolution{
			TeamID:   string(league) + "_" + code,
			TeamName: code,
			CityID:   strings.ToLower(code),
			CityName: code,
			AltName:  code,
			Outcome:  OutcomePlaceholder,
		}
	}

	teamName := strings.TrimSpace(entry.City + " " + firstNonEmpty(entry.Nickname, code))
	return Resolution{
		TeamID:   string(league) + "_" + code,
		TeamName: teamName,
		CityID:   CitySlug(entry.City, entry.State),
		CityName: entry.City,
		State:    entry.State,
		Nickname: entry.Nickname,
		AltName:  code,
		Outcome:  OutcomeResolved,
	}
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
