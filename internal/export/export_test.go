package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/site"
	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/table"
)

func sampleSnapshot() *table.Snapshot {
	return &table.Snapshot{
		Page:  "stats/sparten.html",
		Index: 1,
		Rows: [][]string{
			{"Sparte", "Objekte"},
			{"Archiv", "12345"},
		},
	}
}

func TestByFormat(t *testing.T) {
	for _, format := range []string{"csv", "tsv", "xlsx"} {
		e, err := ByFormat(format)
		require.NoError(t, err)
		assert.NotNil(t, e)
	}
	_, err := ByFormat("pdf")
	assert.Error(t, err)
}

func TestCSVExport(t *testing.T) {
	data, err := CSV{}.Export(sampleSnapshot())
	require.NoError(t, err)
	assert.Equal(t, "Sparte,Objekte\nArchiv,12345\n", string(data))
	assert.Equal(t, ".csv", CSV{}.Extension())
	assert.Equal(t, "text/csv", CSV{}.MimeType())
}

func TestTSVExport(t *testing.T) {
	data, err := TSV{}.Export(sampleSnapshot())
	require.NoError(t, err)
	assert.Equal(t, "Sparte\tObjekte\nArchiv\t12345", string(data))
}

func TestXLSXExport(t *testing.T) {
	data, err := XLSX{}.Export(sampleSnapshot())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Sparte", "Objekte"},
		{"Archiv", "12345"},
	}, rows)
}

func TestToFile(t *testing.T) {
	outDir := t.TempDir()
	path, err := ToFile(CSV{}, sampleSnapshot(), outDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "sparten-1.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Sparte,Objekte\nArchiv,12345\n", string(data))
}

func TestSiteBatchExport(t *testing.T) {
	dir := t.TempDir()
	page := `<html><body>
		<table class="dataframe"><tr><td>a</td></tr></table>
		<table class="dataframe"><tr><td>b</td></tr></table>
	</body></html>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sparten.html"), []byte(page), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leer.html"), []byte("<html><body></body></html>"), 0o644))

	s, err := site.Load(dir)
	require.NoError(t, err)

	outDir := t.TempDir()
	results, err := Site(context.Background(), s, CSV{}, "dataframe", outDir, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, r := range results {
		_, err := os.Stat(r.Path)
		assert.NoError(t, err)
	}
}
