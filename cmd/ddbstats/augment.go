package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/site"
)

var augmentCmd = &cobra.Command{
	Use:   "augment",
	Short: "Insert export toolbars above marked tables",
	Long: `Adds a button bar (CSV, Excel, copy) above every marked table of
every page. Running it again on an already augmented site changes nothing.`,
	RunE: runAugment,
}

func init() {
	augmentCmd.Flags().String("site-dir", "", "site directory (overrides config)")
	augmentCmd.Flags().Bool("dry-run", false, "report what would change without writing")
}

func runAugment(cmd *cobra.Command, args []string) error {
	dirFlag, _ := cmd.Flags().GetString("site-dir")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	s, err := loadSite(dirFlag)
	if err != nil {
		return err
	}

	total := 0
	for _, page := range s.Pages {
		added := site.AddExportToolbars(page, cfg.Site.TableMarker)
		if added > 0 {
			logger.WithFields(map[string]interface{}{
				"page":  page.Rel,
				"added": added,
			}).Debug("toolbars inserted")
			total += added
			if !dryRun {
				if err := page.Save(); err != nil {
					return err
				}
			}
		}
	}

	if dryRun {
		fmt.Printf("%d Tabellen ohne Toolbar gefunden\n", total)
	} else {
		fmt.Printf("%d Toolbars eingefügt\n", total)
	}
	return nil
}
