package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/export"
	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/table"
)

var exportCmd = &cobra.Command{
	Use:   "export [page]",
	Short: "Export rendered tables to CSV, Excel or the clipboard",
	Long: `Exports the marked tables of a page, or of the whole site when no
page is given. With --clipboard a single table is copied as tab-separated
text instead of written to a file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("site-dir", "", "site directory (overrides config)")
	exportCmd.Flags().String("format", "csv", "export format: csv, tsv or xlsx")
	exportCmd.Flags().StringP("out", "o", "", "output directory (overrides config)")
	exportCmd.Flags().Int("table", 0, "1-based table index (0 = all tables of the page)")
	exportCmd.Flags().Bool("clipboard", false, "copy one table to the clipboard as TSV")
}

func runExport(cmd *cobra.Command, args []string) error {
	dirFlag, _ := cmd.Flags().GetString("site-dir")
	format, _ := cmd.Flags().GetString("format")
	outDir, _ := cmd.Flags().GetString("out")
	tableIndex, _ := cmd.Flags().GetInt("table")
	toClipboard, _ := cmd.Flags().GetBool("clipboard")

	if outDir == "" {
		outDir = cfg.Export.OutputDir
	}

	s, err := loadSite(dirFlag)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		if toClipboard {
			return fmt.Errorf("--clipboard needs a specific page")
		}
		exporter, err := export.ByFormat(format)
		if err != nil {
			return err
		}
		results, err := export.Site(context.Background(), s, exporter, cfg.Site.TableMarker, outDir, cfg.Export.Workers)
		if err != nil {
			return err
		}
		for _, r := range results {
			logger.WithField("page", r.Page).Info(r.Path)
		}
		fmt.Printf("%d Tabellen exportiert\n", len(results))
		return nil
	}

	page := s.PageByRel(args[0])
	if page == nil {
		return fmt.Errorf("page %s not found in %s", args[0], s.Dir)
	}

	snaps := table.Extract(page.Doc, page.Rel, cfg.Site.TableMarker)
	if len(snaps) == 0 {
		fmt.Println("Keine Tabellen auf dieser Seite")
		return nil
	}

	if toClipboard {
		if tableIndex == 0 {
			tableIndex = 1
		}
		if tableIndex > len(snaps) {
			return fmt.Errorf("page has only %d tables", len(snaps))
		}
		if err := export.CopyTSV(snaps[tableIndex-1], os.Stdout); err != nil {
			// Best effort: the content already went to stdout as fallback.
			logger.WithError(err).Warn("Kopieren fehlgeschlagen")
			return nil
		}
		fmt.Println("Tabelle kopiert")
		return nil
	}

	exporter, err := export.ByFormat(format)
	if err != nil {
		return err
	}
	for _, snap := range snaps {
		if tableIndex != 0 && snap.Index != tableIndex {
			continue
		}
		path, err := export.ToFile(exporter, snap, outDir)
		if err != nil {
			return err
		}
		fmt.Println(path)
	}
	return nil
}
