// Package roster defines the canonical shapes shared by the index builder,
// the enrichment pipeline, and the serving API: statistics schemas, header
// alias lists, and the immutable per-player statistics record.
//
// Source files come from different exporters with inconsistent headers, so
// every field access goes through case-insensitive alias probing instead of
// direct map lookups.
package roster

import "strings"

// Schema is an ordered list of statistics column names. Order matters: it is
// the column order appended to enriched output files.
type Schema []string

var (
	// SeasonTotals matches the FBref standard-stats export: appearances,
	// minutes, goals, assists, penalties taken, yellow and red cards.
	SeasonTotals = Schema{"partite", "minuti", "goal", "assist", "rigori", "gialli", "rossi"}

	// MatchRatings matches the per-season ratings export: games rated,
	// average rating, fantasy average, own goals.
	MatchRatings = Schema{"Pv", "Mv", "Fm", "Au"}
)

// Contains reports whether the schema holds the given column name,
// case-insensitively.
func (s Schema) Contains(name string) bool {
	for _, f := range s {
		if strings.EqualFold(f, name) {
			return true
		}
	}
	return false
}

// Accepted header aliases, probed in order and matched case-insensitively.
var (
	NameAliases = []string{"player", "nome", "giocatore"}
	TeamAliases = []string{"team", "squadra", "squad"}
)

// Record is one player-season statistics entry. First and Last are
// normalized identity tokens (Last is the surname index key), Team is the
// normalized team token (may be empty in team-optional sources), and Stats
// maps schema fields to string-encoded values defaulting to "0". Records are
// never mutated after construction.
type Record struct {
	First string
	Last  string
	Team  string
	Stats map[string]string
}

// Stat returns the record's value for a schema field, or "0" when the field
// is absent or blank.
func (r *Record) Stat(field string) string {
	v := strings.TrimSpace(r.Stats[field])
	if v == "" {
		return "0"
	}
	return v
}

// Lookup probes a header-keyed row for a single key, case-insensitively.
func Lookup(row map[string]string, key string) string {
	if v, ok := row[key]; ok {
		return v
	}
	for k, v := range row {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// Probe returns the first non-blank value among the aliases, or "".
func Probe(row map[string]string, aliases []string) string {
	for _, alias := range aliases {
		if v := strings.TrimSpace(Lookup(row, alias)); v != "" {
			return v
		}
	}
	return ""
}
