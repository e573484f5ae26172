// Package csvio reads and writes the delimited tables the pipeline consumes
// and produces. Sources disagree on delimiters (`,` vs `;`), so the
// delimiter is always explicit. Output files regenerate the identity column
// as a 1-based sequence.
package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// idColumn is the regenerated identity column name.
const idColumn = "id"

// Table is an in-memory delimited table: an ordered header plus rows keyed
// by header name.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// Read loads a delimited file with a header row. An unopenable file is a
// fatal error for the caller's whole run; short or ragged rows are padded
// with empty values rather than rejected. Any pre-existing id column is
// dropped — output ids are regenerated on write.
func Read(path string, delim rune) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = delim
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	header := records[0]
	t := &Table{Columns: make([]string, 0, len(header))}
	for _, col := range header {
		col = strings.TrimSpace(col)
		if col == "" || strings.EqualFold(col, idColumn) {
			continue
		}
		t.Columns = append(t.Columns, col)
	}

	for _, record := range records[1:] {
		row := make(map[string]string, len(t.Columns))
		for i, col := range header {
			col = strings.TrimSpace(col)
			if col == "" || strings.EqualFold(col, idColumn) {
				continue
			}
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// EnsureColumns appends any columns not already in the header, preserving
// the original column order ahead of the new ones.
func (t *Table) EnsureColumns(cols ...string) {
	for _, col := range cols {
		if !t.hasColumn(col) {
			t.Columns = append(t.Columns, col)
		}
	}
}

// RenameColumns rewrites header names (and row keys) per the mapping.
// Columns not in the mapping keep their name.
func (t *Table) RenameColumns(mapping map[string]string) {
	renamed := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		if to, ok := mapping[col]; ok {
			renamed[i] = to
		} else {
			renamed[i] = col
		}
	}
	for ri, row := range t.Rows {
		next := make(map[string]string, len(row))
		for k, v := range row {
			if to, ok := mapping[k]; ok {
				k = to
			}
			next[k] = v
		}
		t.Rows[ri] = next
	}
	t.Columns = renamed
}

func (t *Table) hasColumn(name string) bool {
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// Write emits the table with a regenerated sequential id column starting at
// 1, followed by the header columns in order. The output is staged in a
// temporary file in the destination directory and renamed over path only
// after every row has been written, so a failed run leaves any previous file
// at path untouched and never leaves a partial one. That makes in-place
// rewrites safe.
func Write(path string, t *Table, delim rune) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	w := csv.NewWriter(tmp)
	w.Comma = delim

	header := append([]string{idColumn}, t.Columns...)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range t.Rows {
		record := make([]string, 0, len(header))
		record = append(record, strconv.Itoa(i+1))
		for _, col := range t.Columns {
			record = append(record, row[col])
		}
		if err := w.Write(record); err != nil {
			tmp.Close()
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// WriteTimestamped writes the table to dir/<prefix>_<YYYYMMDD_HHMMSS>.csv,
// creating dir if needed, and returns the full path written.
func WriteTimestamped(dir, prefix string, t *Table, delim rune) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir %s: %w", dir, err)
	}
	name := fmt.Sprintf("%s_%s.csv", prefix, time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := Write(path, t, delim); err != nil {
		return "", err
	}
	return path, nil
}
