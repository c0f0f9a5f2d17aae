// Package table extracts rendered HTML tables into plain cell matrices and
// formats them for export.
package table

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultMarkerClass matches tables produced by the notebook renderer.
const DefaultMarkerClass = "dataframe"

// Snapshot is one table captured from a rendered page: ordered rows of
// ordered cell strings. Header and body cells are treated uniformly. A
// snapshot is derived once per export and never mutated.
type Snapshot struct {
	// Page is the site-relative path of the page the table came from.
	Page string
	// Index is the 1-based position of the table on its page.
	Index int
	Rows  [][]string
}

// Extract collects all tables carrying the marker class from a parsed
// document, in document order. An empty marker matches every table.
func Extract(doc *html.Node, page, markerClass string) []*Snapshot {
	var snaps []*Snapshot
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Table {
			if markerClass == "" || HasClass(n, markerClass) {
				snaps = append(snaps, &Snapshot{
					Page:  page,
					Index: len(snaps) + 1,
					Rows:  extractRows(n),
				})
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return snaps
}

// HasClass reports whether the node's class attribute contains the given
// class token.
func HasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, token := range strings.Fields(a.Val) {
			if token == class {
				return true
			}
		}
	}
	return false
}

func extractRows(tableNode *html.Node) [][]string {
	var rows [][]string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Tr {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.DataAtom == atom.Th || c.DataAtom == atom.Td) {
					cells = append(cells, CellText(c))
				}
			}
			rows = append(rows, cells)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(tableNode)
	return rows
}

// CellText returns the node's text content with internal whitespace runs
// collapsed to single spaces and edges trimmed. NBSP counts as whitespace.
func CellText(n *html.Node) string {
	var buf bytes.Buffer
	var collect func(n *html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

// FormatCSV serializes rows with minimal quoting: a cell is quoted only when
// it contains a comma, a quote character or a line break, and embedded quotes
// are doubled. This is the smallest escaping that still round-trips through a
// CSV parser.
func FormatCSV(rows [][]string) string {
	var sb strings.Builder
	for i, row := range rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for j, cell := range row {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(csvCell(cell))
		}
	}
	sb.WriteByte('\n')
	return sb.String()
}

func csvCell(cell string) string {
	if !strings.ContainsAny(cell, ",\"\n\r") {
		return cell
	}
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}

// FormatTSV joins cells with tabs and rows with newlines, without any
// escaping. Spreadsheet paste targets tolerate this as long as no cell itself
// contains a tab or newline, which cell normalization already guarantees.
func FormatTSV(rows [][]string) string {
	var sb strings.Builder
	for i, row := range rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strings.Join(row, "\t"))
	}
	return sb.String()
}
