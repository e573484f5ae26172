package roster

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fantalink/fantalink-data/internal/csvio"
	"github.com/fantalink/fantalink-data/internal/normalize"
)

// Player is one row of the served dataset: the enriched CSV row keyed by
// header name, plus the regenerated sequential id.
type Player struct {
	ID     int               `json:"id"`
	Fields map[string]string `json:"fields"`
}

// Dataset is the roster the API serves, loaded from an enriched CSV at
// startup. Reads dominate; the occasional add/delete persists back to the
// same file (sequential ids regenerated) before the in-memory view is
// updated, so the file never gets ahead of what clients see. Filtering uses
// the same normalization as the matching engine, so "Josè" and "jose" find
// the same rows.
type Dataset struct {
	mu      sync.RWMutex
	path    string
	delim   rune
	columns []string
	players []Player
}

// LoadDataset reads the CSV the API serves. A missing file is fatal for the
// server, matching the pipeline's source-missing semantics.
func LoadDataset(path string, delim rune) (*Dataset, error) {
	t, err := csvio.Read(path, delim)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	ds := &Dataset{path: path, delim: delim, columns: t.Columns}
	for i, row := range t.Rows {
		ds.players = append(ds.players, Player{ID: i + 1, Fields: row})
	}
	return ds, nil
}

// Columns returns the dataset's header in file order.
func (d *Dataset) Columns() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.columns
}

// Len returns the number of players.
func (d *Dataset) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.players)
}

// Players returns rows filtered by an optional team token and an optional
// free-text query. Both filters are normalized; the query matches as a
// substring of the normalized name.
func (d *Dataset) Players(team, query string) []Player {
	d.mu.RLock()
	defer d.mu.RUnlock()

	teamTok := normalize.Name(team)
	queryTok := normalize.Name(query)

	if teamTok == "" && queryTok == "" {
		return append([]Player(nil), d.players...)
	}

	var out []Player
	for _, p := range d.players {
		if teamTok != "" && normalize.Name(Probe(p.Fields, TeamAliases)) != teamTok {
			continue
		}
		if queryTok != "" && !strings.Contains(normalize.Name(Probe(p.Fields, NameAliases)), queryTok) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// PlayerByID returns the player with the given sequential id, or false.
func (d *Dataset) PlayerByID(id int) (Player, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if id < 1 || id > len(d.players) {
		return Player{}, false
	}
	return d.players[id-1], true
}

// AddPlayer appends a row, persists the dataset, and returns the stored
// player with its assigned id. Fields outside the current header become new
// columns. The row must carry a name under one of the accepted aliases.
func (d *Dataset) AddPlayer(fields map[string]string) (Player, error) {
	if Probe(fields, NameAliases) == "" {
		return Player{}, fmt.Errorf("player row has no name field (want one of %v)", NameAliases)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	columns := append([]string(nil), d.columns...)
	for field := range fields {
		known := false
		for _, col := range columns {
			if col == field {
				known = true
				break
			}
		}
		if !known {
			columns = append(columns, field)
		}
	}

	row := make(map[string]string, len(fields))
	for k, v := range fields {
		row[k] = v
	}
	players := append(append([]Player(nil), d.players...), Player{ID: len(d.players) + 1, Fields: row})

	if err := persist(d.path, d.delim, columns, players); err != nil {
		return Player{}, err
	}
	d.columns = columns
	d.players = players
	return players[len(players)-1], nil
}

// DeletePlayer removes the row with the given sequential id, renumbers the
// remaining rows from 1, and persists. Returns false when no such id exists.
func (d *Dataset) DeletePlayer(id int) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if id < 1 || id > len(d.players) {
		return false, nil
	}

	players := make([]Player, 0, len(d.players)-1)
	for _, p := range d.players {
		if p.ID == id {
			continue
		}
		p.ID = len(players) + 1
		players = append(players, p)
	}

	if err := persist(d.path, d.delim, d.columns, players); err != nil {
		return false, err
	}
	d.players = players
	return true, nil
}

// persist writes the current view back to the dataset file. csvio.Write
// regenerates the id column and replaces the file atomically, so a failed
// persist leaves both the file and (because the caller only commits on
// success) the in-memory view unchanged.
func persist(path string, delim rune, columns []string, players []Player) error {
	table := &csvio.Table{Columns: columns}
	for _, p := range players {
		table.Rows = append(table.Rows, p.Fields)
	}
	if err := csvio.Write(path, table, delim); err != nil {
		return fmt.Errorf("persist dataset: %w", err)
	}
	return nil
}
