package resolve

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/citymood/citymood-cli/internal/model"
)

// multiword nickname suffixes per league. This is a finite curated table, not
// a parser: a full name is split at the longest matching suffix, and only
// these entries may match. City names never appear here, so multi-word cities
// ("New York", "Los Angeles") are handled by the last-space fallback.
var defaultNicknames = map[model.League][]string{
	model.LeagueNHL: {
		"Maple Leafs",
		"Blue Jackets",
		"Golden Knights",
		"Red Wings",
	},
	model.LeagueNFL: {
		"Football Team", // historical Washington name
		"Commanders",
		"49ers",
	},
}

// NicknameSets holds the per-league multi-word nickname tables.
type NicknameSets map[model.League][]string

// DefaultNicknames returns a copy of the built-in nickname tables.
func DefaultNicknames() NicknameSets {
	out := make(NicknameSets, len(defaultNicknames))
	for lg, nicks := range defaultNicknames {
		out[lg] = append([]string(nil), nicks...)
	}
	return out
}

// LoadNicknames reads a YAML file mapping league names to nickname suffix
// lists and merges it over the defaults. Leagues absent from the file keep
// their built-in table.
func LoadNicknames(path string) (NicknameSets, error) {
	sets := DefaultNicknames()
	if path == "" {
		return sets, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "resolve: read nicknames file %s", path)
	}

	var fileSets map[string][]string
	if err := yaml.Unmarshal(raw, &fileSets); err != nil {
		return nil, eris.Wrapf(err, "resolve: parse nicknames file %s", path)
	}

	for name, nicks := range fileSets {
		lg, err := model.ParseLeague(name)
		if err != nil {
			return nil, eris.Wrapf(err, "resolve: nicknames file %s", path)
		}
		sets[lg] = nicks
	}
	return sets, nil
}

// SplitCityNickname splits a full "City Nickname" team name. The nickname
// table is checked first, longest suffix wins; otherwise the name splits at
// its last space. Single-token names come back with an empty nickname.
func SplitCityNickname(fullName string, nicknames []string) (city, nickname string) {
	name := strings.TrimSpace(fullName)
	if name == "" {
		return "", ""
	}

	best := ""
	for _, nick := range nicknames {
		if strings.HasSuffix(name, nick) && len(nick) > len(best) {
			best = nick
		}
	}
	if best != "" {
		return strings.TrimSpace(strings.TrimSuffix(name, best)), best
	}

	if idx := strings.LastIndex(name, " "); idx >= 0 {
		return name[:idx], name[idx+1:]
	}
	return name, ""
}
