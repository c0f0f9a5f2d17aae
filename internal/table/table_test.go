package table

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parse(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	require.NoError(t, err)
	return doc
}

func TestExtract(t *testing.T) {
	doc := parse(t, `<html><body>
		<table class="dataframe"><thead>
			<tr><th>Sparte</th><th>Objekte</th></tr>
		</thead><tbody>
			<tr><td>Archiv</td><td>12 345</td></tr>
			<tr><td>Bibliothek</td><td>678</td></tr>
		</tbody></table>
		<table><tr><td>unmarked</td></tr></table>
	</body></html>`)

	snaps := Extract(doc, "stats/sparten.html", DefaultMarkerClass)
	require.Len(t, snaps, 1)
	assert.Equal(t, 1, snaps[0].Index)
	assert.Equal(t, [][]string{
		{"Sparte", "Objekte"},
		{"Archiv", "12 345"},
		{"Bibliothek", "678"},
	}, snaps[0].Rows)
}

func TestExtractAllTablesWithoutMarker(t *testing.T) {
	doc := parse(t, `<table><tr><td>a</td></tr></table><table><tr><td>b</td></tr></table>`)
	snaps := Extract(doc, "p.html", "")
	require.Len(t, snaps, 2)
	assert.Equal(t, 1, snaps[0].Index)
	assert.Equal(t, 2, snaps[1].Index)
}

func TestCellTextNormalization(t *testing.T) {
	// Whitespace runs, newlines and NBSP collapse to single spaces.
	doc := parse(t, "<table class=\"dataframe\"><tr><td>  ein \n\t wert mit   raum </td></tr></table>")
	snaps := Extract(doc, "p.html", DefaultMarkerClass)
	require.Len(t, snaps, 1)
	assert.Equal(t, "ein wert mit raum", snaps[0].Rows[0][0])
}

func TestCellTextNestedMarkup(t *testing.T) {
	doc := parse(t, `<table class="dataframe"><tr><td><a href="#">link <b>fett</b></a></td></tr></table>`)
	snaps := Extract(doc, "p.html", DefaultMarkerClass)
	assert.Equal(t, "link fett", snaps[0].Rows[0][0])
}

func TestFormatCSVRoundTrip(t *testing.T) {
	rows := [][]string{
		{"plain", "with,comma", `with"quote`},
		{"line\nbreak", "both,\"and\"", ""},
	}

	parsed, err := csv.NewReader(strings.NewReader(FormatCSV(rows))).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, rows, parsed)
}

func TestFormatCSVMinimalQuoting(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want string
	}{
		{
			name: "plain cells unquoted",
			rows: [][]string{{"a", "b"}},
			want: "a,b\n",
		},
		{
			name: "comma forces quotes",
			rows: [][]string{{"a,b", "c"}},
			want: "\"a,b\",c\n",
		},
		{
			name: "embedded quote doubled",
			rows: [][]string{{`say "hi"`}},
			want: "\"say \"\"hi\"\"\"\n",
		},
		{
			name: "newline forces quotes",
			rows: [][]string{{"a\nb"}},
			want: "\"a\nb\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCSV(tt.rows))
		})
	}
}

func TestFormatTSV(t *testing.T) {
	rows := [][]string{{"a", "b"}, {"c", "d"}}
	assert.Equal(t, "a\tb\nc\td", FormatTSV(rows))
}

func TestExportBaseName(t *testing.T) {
	tests := []struct {
		name string
		page string
		want string
	}{
		{"strips html suffix", "stats/sparten.html", "sparten"},
		{"sanitizes unsafe runes", "stats/zeit reihen (2020).html", "zeit_reihen__2020_"},
		{"keeps dots dashes underscores", "ab.c_d-e.html", "ab.c_d-e"},
		{"empty falls back", "", "table"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExportBaseName(tt.page))
		})
	}
}

func TestSnapshotFileName(t *testing.T) {
	snap := &Snapshot{Page: "stats/sparten.html", Index: 2}
	assert.Equal(t, "sparten-2.csv", snap.FileName(".csv"))
}
