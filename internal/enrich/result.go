// Package enrich merges resolved statistics into target roster rows,
// degrading unmatched rows to zero-valued defaults so the output schema is
// always complete.
package enrich

import "fmt"

// Result tracks counts and row-level problems from one enrichment run.
// Row-level problems never abort the run; they are accumulated here and
// reported at the end.
type Result struct {
	RowsProcessed int
	Matched       int
	Defaulted     int
	Preserved     int
	Errors        []string
}

// AddErrorf records a formatted row-level error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"rows=%d matched=%d defaulted=%d preserved=%d errors=%d",
		r.RowsProcessed, r.Matched, r.Defaulted, r.Preserved, len(r.Errors),
	)
}
