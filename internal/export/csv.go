package export

import (
	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/table"
)

// CSV exports a snapshot as comma-separated values with minimal quoting.
type CSV struct{}

func (CSV) Export(snap *table.Snapshot) ([]byte, error) {
	return []byte(table.FormatCSV(snap.Rows)), nil
}

func (CSV) Extension() string { return ".csv" }

func (CSV) MimeType() string { return "text/csv" }

// TSV exports a snapshot as tab-separated values, the format spreadsheet
// applications expect on paste.
type TSV struct{}

func (TSV) Export(snap *table.Snapshot) ([]byte, error) {
	return []byte(table.FormatTSV(snap.Rows)), nil
}

func (TSV) Extension() string { return ".tsv" }

func (TSV) MimeType() string { return "text/tab-separated-values" }
