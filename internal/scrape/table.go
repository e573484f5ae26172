package scrape

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Table is a raw extracted HTML table: one header row plus data rows of cell
// text. Multi-level headers are flattened to the last header row.
type Table struct {
	Header []string
	Rows   [][]string
}

// ExtractTable finds the <table> with the given id and returns its cells.
// FBref wraps secondary tables in HTML comments, so comment markers are
// stripped before parsing.
func ExtractTable(page []byte, tableID string) (*Table, error) {
	page = bytes.ReplaceAll(page, []byte("<!--"), nil)
	page = bytes.ReplaceAll(page, []byte("-->"), nil)

	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	table := findTable(doc, tableID)
	if table == nil {
		return nil, fmt.Errorf("table %q not found", tableID)
	}

	t := &Table{}
	for _, tr := range findRows(table) {
		cells := cellText(tr)
		if len(cells) == 0 {
			continue
		}
		switch {
		case inHead(tr):
			// Keep only the last header row: FBref stacks a grouping
			// row above the real column names.
			t.Header = cells
		case isRepeatedHeader(tr):
			// Mid-table header echoes carry class="thead".
		default:
			t.Rows = append(t.Rows, cells)
		}
	}

	if len(t.Header) == 0 {
		return nil, fmt.Errorf("table %q has no header row", tableID)
	}
	return t, nil
}

// At returns the cell under the named header column for a data row, or ""
// when the row is short or the column unknown.
func (t *Table) At(row []string, column string) string {
	for i, h := range t.Header {
		if h == column && i < len(row) {
			return row[i]
		}
	}
	return ""
}

func findTable(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && n.Data == "table" && attr(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findTable(c, id); found != nil {
			return found
		}
	}
	return nil
}

func findRows(table *html.Node) []*html.Node {
	var rows []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			rows = append(rows, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(table)
	return rows
}

func cellText(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, strings.TrimSpace(text(c)))
		}
	}
	return cells
}

func inHead(tr *html.Node) bool {
	for p := tr.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == "thead" {
			return true
		}
	}
	return false
}

func isRepeatedHeader(tr *html.Node) bool {
	return strings.Contains(attr(tr, "class"), "thead")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(text(c))
	}
	return b.String()
}
