// Package match implements the record-linkage engine: it builds surname
// indexes over a statistics source and resolves noisy name strings (plus an
// optional team hint) to at most one statistics record.
package match

import (
	"log/slog"
	"strings"

	"github.com/fantalink/fantalink-data/internal/normalize"
	"github.com/fantalink/fantalink-data/internal/roster"
)

// BuildOptions controls index construction.
type BuildOptions struct {
	// Schema enumerates the statistics fields extracted from each row.
	Schema roster.Schema

	// RequireTeam skips rows without a team column. When false, teamless
	// rows are still indexed, but only in the global map.
	RequireTeam bool
}

// Index holds the two lookup structures the resolver queries: a team-scoped
// surname map and a global surname map. Both preserve insertion order within
// each key, and the first-inserted record is the tie-break default. An Index
// is read-only after BuildIndex returns.
type Index struct {
	teams  map[string]map[string][]*roster.Record
	global map[string][]*roster.Record
	schema roster.Schema
	size   int
}

// BuildIndex consumes raw header-keyed rows and builds both indexes.
// Rows missing a usable name are skipped silently: they are header echoes or
// garbage lines, not errors. Missing stat columns default to "0".
func BuildIndex(rows []map[string]string, opts BuildOptions, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	ix := &Index{
		teams:  make(map[string]map[string][]*roster.Record),
		global: make(map[string][]*roster.Record),
		schema: opts.Schema,
	}

	skipped := 0
	for _, row := range rows {
		rec, ok := buildRecord(row, opts)
		if !ok {
			skipped++
			continue
		}
		ix.add(rec)
	}

	logger.Info("Index built",
		"records", ix.size, "teams", len(ix.teams),
		"surnames", len(ix.global), "skipped", skipped)
	return ix
}

// buildRecord extracts one statistics record from a raw row. The second
// return value is false when the row carries no usable identity.
func buildRecord(row map[string]string, opts BuildOptions) (*roster.Record, bool) {
	name := roster.Probe(row, roster.NameAliases)
	if name == "" {
		return nil, false
	}
	tokens := normalize.Tokens(name)
	if len(tokens) == 0 {
		return nil, false
	}

	team := normalize.Name(roster.Probe(row, roster.TeamAliases))
	if team == "" && opts.RequireTeam {
		return nil, false
	}

	stats := make(map[string]string, len(opts.Schema))
	for _, field := range opts.Schema {
		v := roster.Lookup(row, field)
		if strings.TrimSpace(v) == "" {
			v = "0"
		}
		stats[field] = v
	}

	return &roster.Record{
		First: tokens[0],
		Last:  tokens[len(tokens)-1],
		Team:  team,
		Stats: stats,
	}, true
}

func (ix *Index) add(rec *roster.Record) {
	if rec.Team != "" {
		byLast, ok := ix.teams[rec.Team]
		if !ok {
			byLast = make(map[string][]*roster.Record)
			ix.teams[rec.Team] = byLast
		}
		byLast[rec.Last] = append(byLast[rec.Last], rec)
	}
	ix.global[rec.Last] = append(ix.global[rec.Last], rec)
	ix.size++
}

// Len returns the number of indexed records.
func (ix *Index) Len() int { return ix.size }

// Schema returns the statistics schema the index was built with.
func (ix *Index) Schema() roster.Schema { return ix.schema }

// HasTeam reports whether the normalized team token is present in the
// team-scoped index.
func (ix *Index) HasTeam(team string) bool {
	_, ok := ix.teams[team]
	return ok
}
