package resolve

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// CodeEntry maps one league-native code to its city and optional nickname.
type CodeEntry struct {
	City     string
	State    string
	Nickname string
}

// CodeTable maps league-native team codes (MLB retro codes, NBA
// abbreviations) to cities.
type CodeTable map[string]CodeEntry

// ReadRetroNames parses a historical-names reference file (headerless CSV).
// Column 1 carries the retro code used in the game feed; the last two columns
// carry city and state. Later rows for the same code win, so the mapping
// reflects each franchise's current identity.
func ReadRetroNames(path string) (CodeTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "resolve: open retro names %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	table := make(CodeTable)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "resolve: read retro names %s", path)
		}
		if len(row) < 2 {
			continue
		}
		retro := strings.TrimSpace(row[1])
		if retro == "" {
			continue
		}
		table[retro] = CodeEntry{
			City:  strings.TrimSpace(row[len(row)-2]),
			State: strings.TrimSpace(row[len(row)-1]),
		}
	}
	return table, nil
}

// RosterEntry is one row of a league roster reference table.
type RosterEntry struct {
	Abbrev   string
	Nickname string
	City     string
	AltID    string
}

// ReadRoster parses a roster reference CSV with header columns
// teamId, abbreviation, teamName, simpleName, location.
func ReadRoster(path string) ([]RosterEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "resolve: open roster %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "resolve: read roster %s", path)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"teamId", "abbreviation", "teamName", "location"} {
		if _, ok := col[required]; !ok {
			return nil, eris.Errorf("resolve: roster %s missing column %q", path, required)
		}
	}

	entries := make([]RosterEntry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		entries = append(entries, RosterEntry{
			Abbrev:   strings.TrimSpace(row[col["abbreviation"]]),
			Nickname: strings.TrimSpace(row[col["teamName"]]),
			City:     strings.TrimSpace(row[col["location"]]),
			AltID:    strings.TrimSpace(row[col["teamId"]]),
		})
	}
	return entries, nil
}

// RosterCodeTable converts roster entries into a code table keyed by
// abbreviation.
func RosterCodeTable(entries []RosterEntry) CodeTable {
	table := make(CodeTable, len(entries))
	for _, e := range entries {
		if e.Abbrev == "" {
			continue
		}
		table[e.Abbrev] = CodeEntry{City: e.City, Nickname: e.Nickname}
	}
	return table
}
