package site

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/table"
)

// ClassExportToolbar marks an inserted export button bar.
const ClassExportToolbar = "table-export"

// toolbarButtons are the actions offered above each exportable table.
var toolbarButtons = []struct {
	class string
	label string
}{
	{"table-export-csv", "CSV"},
	{"table-export-xlsx", "Excel"},
	{"table-export-copy", "Kopieren"},
}

// AddExportToolbars inserts a button bar before every marked table on the
// page and returns how many bars were added. Re-running it is safe: a table
// that already has a toolbar sibling is left alone.
func AddExportToolbars(p *Page, markerClass string) int {
	var tables []*html.Node
	walk(p.Doc, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Table {
			if markerClass == "" || table.HasClass(n, markerClass) {
				tables = append(tables, n)
			}
			return false
		}
		return true
	})

	added := 0
	for _, tbl := range tables {
		if hasToolbarSibling(tbl) || tbl.Parent == nil {
			continue
		}
		tbl.Parent.InsertBefore(newToolbar(), tbl)
		added++
	}
	return added
}

// hasToolbarSibling checks the nearest preceding element sibling for an
// existing toolbar, skipping whitespace-only text nodes.
func hasToolbarSibling(tbl *html.Node) bool {
	for sib := tbl.PrevSibling; sib != nil; sib = sib.PrevSibling {
		switch sib.Type {
		case html.TextNode:
			if isWhitespace(sib.Data) {
				continue
			}
			return false
		case html.ElementNode:
			return hasClass(sib, ClassExportToolbar)
		default:
			continue
		}
	}
	return false
}

func isWhitespace(s string) bool {
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}

func newToolbar() *html.Node {
	bar := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
		Attr:     []html.Attribute{{Key: "class", Val: ClassExportToolbar}},
	}
	for _, btn := range toolbarButtons {
		button := &html.Node{
			Type:     html.ElementNode,
			Data:     "button",
			DataAtom: atom.Button,
			Attr: []html.Attribute{
				{Key: "class", Val: btn.class},
				{Key: "type", Val: "button"},
			},
		}
		button.AppendChild(&html.Node{Type: html.TextNode, Data: btn.label})
		bar.AppendChild(button)
	}
	return bar
}
