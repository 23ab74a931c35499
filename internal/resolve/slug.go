// Package resolve maps raw per-league team identifiers onto canonical city
// and team identities. Name-based leagues split "City Nickname" strings using
// a curated multi-word nickname table; code-based leagues go through external
// reference tables. Resolution never fails on unknown input: it degrades to a
// tagged placeholder identity so no game is dropped.
package resolve

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify converts a display name into a lowercase hyphenated slug:
// "St. Louis" -> "st-louis", "Montréal" -> "montreal". Diacritics are folded
// so the same city reported with and without accents gets one identity.
func Slugify(text string) string {
	s := strings.TrimSpace(text)
	if folded, _, err := transform.String(deaccent, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.Join(strings.Fields(s), "-")
	return s
}

// CitySlug builds a city_id from a city name and optional state code. The
// state suffix disambiguates cities that share a name across leagues.
func CitySlug(city, state string) string {
	base := Slugify(city)
	if base == "" {
		return ""
	}
	if st := Slugify(state); st != "" {
		return base + "-" + st
	}
	return base
}
