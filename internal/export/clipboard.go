package export

import (
	"fmt"
	"io"

	"github.com/atotto/clipboard"

	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/table"
)

// CopyTSV places the snapshot on the system clipboard as tab-separated text.
// Clipboard access is best effort: on failure the formatted text is written
// to fallback (when non-nil) and the error is reported so the caller can
// show a status message instead of aborting.
func CopyTSV(snap *table.Snapshot, fallback io.Writer) error {
	text := table.FormatTSV(snap.Rows)
	if err := clipboard.WriteAll(text); err != nil {
		if fallback != nil {
			fmt.Fprintln(fallback, text)
		}
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}
