package scrape

import (
	"strings"

	"github.com/fantalink/fantalink-data/internal/csvio"
)

// columnMap renames FBref standard-stats columns to the source schema the
// index builder expects. Unmapped columns are dropped.
var columnMap = map[string]string{
	"Player": "player",
	"Squad":  "squad",
	"Pos":    "pos",
	"MP":     "partite",
	"Min":    "minuti",
	"Gls":    "goal",
	"Ast":    "assist",
	"PKatt":  "rigori",
	"CrdY":   "gialli",
	"CrdR":   "rossi",
}

// outputColumns fixes the column order of the generated stats file.
var outputColumns = []string{
	"player", "squad", "pos",
	"partite", "minuti", "goal", "assist", "rigori", "gialli", "rossi",
}

// roleMap translates FBref position codes to the Italian role abbreviations
// the rest of the dataset uses.
var roleMap = map[string]string{
	"GK": "P",
	"DF": "DC",
	"MF": "CC",
	"FW": "A",
}

// TranslateRole converts a position field like "GK,DF" into "P/DC".
// Unknown codes pass through unchanged.
func TranslateRole(pos string) string {
	parts := strings.Split(pos, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if abbr, ok := roleMap[p]; ok {
			p = abbr
		}
		out = append(out, p)
	}
	return strings.Join(out, "/")
}

// ToStatsTable converts an extracted FBref table into the delimited source
// table consumed by the index builder: columns renamed per columnMap, roles
// translated, rows without a player name dropped.
func ToStatsTable(t *Table) *csvio.Table {
	out := &csvio.Table{Columns: append([]string(nil), outputColumns...)}

	for _, raw := range t.Rows {
		player := strings.TrimSpace(t.At(raw, "Player"))
		if player == "" || player == "Player" {
			continue
		}
		row := make(map[string]string, len(outputColumns))
		for from, to := range columnMap {
			row[to] = strings.TrimSpace(t.At(raw, from))
		}
		row["pos"] = TranslateRole(row["pos"])
		out.Rows = append(out.Rows, row)
	}
	return out
}
