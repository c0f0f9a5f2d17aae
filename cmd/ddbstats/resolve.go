package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/resolver"
	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/site"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <page> [YYYY-MM-DD]",
	Short: "Pin a single notebook page to a date (legacy mode)",
	Long: `For pages carrying their own date-picker container instead of the
global history control: resolves the latest commit of that page's notebook
at or before the given date and updates the page's own links. Without a
date the links return to the live branch.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().String("site-dir", "", "site directory (overrides config)")
}

func runResolve(cmd *cobra.Command, args []string) error {
	dirFlag, _ := cmd.Flags().GetString("site-dir")

	s, err := loadSite(dirFlag)
	if err != nil {
		return err
	}

	page := s.PageByRel(args[0])
	if page == nil {
		return fmt.Errorf("page %s not found", args[0])
	}

	// Legacy mode only applies when no global control exists anywhere.
	if _, err := resolver.New(s, newHistoryClient()); err == nil {
		return fmt.Errorf("site has a global history control; use 'pin' instead")
	}

	controls := site.FindDateControls(page)
	if len(controls) == 0 {
		fmt.Println("Seite hat keinen Datumswähler")
		return nil
	}

	if len(args) == 1 {
		for _, control := range controls {
			resolver.RestoreNotebook(page, control)
		}
		if err := page.Save(); err != nil {
			return err
		}
		fmt.Println("Links auf aktuellen Stand zurückgesetzt")
		return nil
	}

	day, err := time.Parse("2006-01-02", args[1])
	if err != nil {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", args[1])
	}

	client := newHistoryClient()
	for _, control := range controls {
		if err := resolver.ResolveNotebook(context.Background(), page, control, client, day); err != nil {
			// The page already fell back to branch URLs with a status
			// message; just surface the cause.
			logger.WithError(err).Warn("Auflösung fehlgeschlagen")
		}
	}

	if err := page.Save(); err != nil {
		return err
	}
	fmt.Printf("Seite %s auf %s aufgelöst\n", args[0], args[1])
	return nil
}
