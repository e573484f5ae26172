package enrich

import (
	"log/slog"

	"github.com/fantalink/fantalink-data/internal/match"
	"github.com/fantalink/fantalink-data/internal/normalize"
	"github.com/fantalink/fantalink-data/internal/roster"
)

// Mode selects when a row's statistics are (over)written.
type Mode int

const (
	// Always resolves every row and overwrites its statistics fields.
	Always Mode = iota

	// IfMissing resolves a row only when every schema field currently
	// evaluates as zero or blank. Rows with any populated value are
	// authoritative and left untouched.
	IfMissing

	// ExistingOnly updates only columns already present in the row and
	// never introduces new ones; the target schema stays exactly as read.
	ExistingOnly
)

// String implements fmt.Stringer for log output.
func (m Mode) String() string {
	switch m {
	case Always:
		return "always"
	case IfMissing:
		return "if-missing"
	case ExistingOnly:
		return "existing-only"
	default:
		return "unknown"
	}
}

// Options configures an enrichment run.
type Options struct {
	Schema roster.Schema
	Mode   Mode
}

// Enrich resolves each target row against the index and merges the matched
// record's statistics into a copy of the row. Rows the resolver cannot place
// keep their "0" defaults. The index is never mutated; the input rows are
// never mutated either — each output row is a fresh map.
func Enrich(rows []map[string]string, ix *match.Index, opts Options, logger *slog.Logger) ([]map[string]string, Result) {
	if logger == nil {
		logger = slog.Default()
	}

	out := make([]map[string]string, 0, len(rows))
	var result Result

	for _, src := range rows {
		row := make(map[string]string, len(src)+len(opts.Schema))
		for k, v := range src {
			row[k] = v
		}
		enrichRow(row, ix, opts, &result)
		out = append(out, row)
		result.RowsProcessed++
	}

	logger.Info("Enrichment complete", "mode", opts.Mode, "summary", result.Summary())
	return out, result
}

func enrichRow(row map[string]string, ix *match.Index, opts Options, result *Result) {
	// Guarantee the full schema up front, so a miss still yields a
	// complete row. ExistingOnly keeps the target schema as-is.
	if opts.Mode != ExistingOnly {
		for _, field := range opts.Schema {
			if _, ok := row[field]; !ok {
				row[field] = "0"
			}
		}
	}

	if opts.Mode == IfMissing && !allZero(row, opts.Schema) {
		result.Preserved++
		return
	}

	name := roster.Probe(row, roster.NameAliases)
	if name == "" {
		result.Defaulted++
		return
	}
	team := normalize.Name(roster.Probe(row, roster.TeamAliases))

	rec := ix.Resolve(team, name)
	if rec == nil {
		result.Defaulted++
		return
	}

	for _, field := range opts.Schema {
		if opts.Mode == ExistingOnly {
			if _, ok := row[field]; !ok {
				continue
			}
		}
		row[field] = rec.Stat(field)
	}
	result.Matched++
}

// allZero reports whether every schema field present in the row evaluates as
// zero or blank.
func allZero(row map[string]string, schema roster.Schema) bool {
	for _, field := range schema {
		if !normalize.IsZero(row[field]) {
			return false
		}
	}
	return true
}
