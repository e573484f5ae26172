package match

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/fantalink/fantalink-data/internal/normalize"
	"github.com/fantalink/fantalink-data/internal/roster"
)

// fuzzyCutoff is the minimum surname similarity (0–1) accepted by the fuzzy
// fallback. Below it a lookup is a miss, never a wrong record.
const fuzzyCutoff = 0.78

// Resolve finds the statistics record best matching a raw name, preferring
// the team-scoped index when teamHint (an already-normalized team token) is
// known. Passes run in a fixed order: team-scoped exact/prefix, global
// exact/prefix, fuzzy surname fallback inside whichever map is being
// searched. Returns nil when nothing matches; never errors.
func (ix *Index) Resolve(teamHint, rawName string) *roster.Record {
	tokens := normalize.Tokens(rawName)
	if len(tokens) == 0 {
		return nil
	}

	if teamHint != "" {
		if byLast, ok := ix.teams[teamHint]; ok {
			if rec := findInMap(byLast, tokens); rec != nil {
				return rec
			}
		}
	}
	return findInMap(ix.global, tokens)
}

// findInMap searches one surname map for the given name tokens.
//
// Candidate (first, last) pairs: multi-token names are tried both ways
// round, since some sources list the surname first. For each pair with an
// exact surname key, the first record whose first name starts with the
// candidate first token wins; failing that, the first-inserted record under
// that surname. Only when no pair has an exact surname key does the fuzzy
// surname fallback run.
func findInMap(byLast map[string][]*roster.Record, tokens []string) *roster.Record {
	first, last := tokens[0], tokens[len(tokens)-1]
	pairs := [][2]string{{first, last}}
	if len(tokens) > 1 {
		pairs = append(pairs, [2]string{last, first})
	}

	for _, pair := range pairs {
		recs, ok := byLast[pair[1]]
		if !ok {
			continue
		}
		for _, rec := range recs {
			if strings.HasPrefix(rec.First, pair[0]) {
				return rec
			}
		}
		// No first-name prefix match: the earliest record under this
		// surname is the stated tie-break.
		return recs[0]
	}

	if key := closestSurname(last, byLast); key != "" {
		return byLast[key][0]
	}
	return nil
}

// closestSurname returns the surname key most similar to target, or "" when
// no key reaches the cutoff. Ties on similarity break to the
// lexicographically smaller key so results do not depend on map iteration
// order.
func closestSurname(target string, byLast map[string][]*roster.Record) string {
	best := ""
	bestScore := 0.0
	for key := range byLast {
		score := similarity(target, key)
		if score < fuzzyCutoff {
			continue
		}
		if score > bestScore || (score == bestScore && (best == "" || key < best)) {
			best = key
			bestScore = score
		}
	}
	return best
}

// similarity maps Levenshtein distance onto a 0–1 scale: 1 is identical,
// 0 shares nothing.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}
