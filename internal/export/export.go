// Package export writes table snapshots to downloadable formats and to the
// system clipboard.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/table"
)

// Exporter converts one table snapshot into an output format.
type Exporter interface {
	// Export renders the snapshot to the target format.
	Export(snap *table.Snapshot) ([]byte, error)

	// Extension returns the file extension including the dot.
	Extension() string

	// MimeType returns the MIME type of the exported format.
	MimeType() string
}

// ByFormat returns the exporter for a format name ("csv", "tsv" or "xlsx").
func ByFormat(format string) (Exporter, error) {
	switch format {
	case "csv":
		return CSV{}, nil
	case "tsv":
		return TSV{}, nil
	case "xlsx":
		return XLSX{}, nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// ToFile exports a snapshot into outDir using the snapshot's derived file
// name and returns the written path.
func ToFile(e Exporter, snap *table.Snapshot, outDir string) (string, error) {
	data, err := e.Export(snap)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(outDir, snap.FileName(e.Extension()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
