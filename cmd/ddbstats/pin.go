package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/resolver"
)

var pinCmd = &cobra.Command{
	Use:   "pin [YYYY-MM-DD]",
	Short: "Repoint all launch links at a historical day",
	Long: `Rewrites every launch block of the site so its links (Colab,
Binder, nbviewer, GitHub, raw download) point at the revision recorded for
the given day. "pin --live" returns the links to the configured branch.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPin,
}

func init() {
	pinCmd.Flags().String("site-dir", "", "site directory (overrides config)")
	pinCmd.Flags().Bool("live", false, "restore the live branch links")
	pinCmd.Flags().Bool("no-cache", false, "bypass the history cache")
}

func runPin(cmd *cobra.Command, args []string) error {
	dirFlag, _ := cmd.Flags().GetString("site-dir")
	live, _ := cmd.Flags().GetBool("live")
	noCache, _ := cmd.Flags().GetBool("no-cache")

	if !live && len(args) == 0 {
		return fmt.Errorf("give a day to pin or --live to restore")
	}

	s, err := loadSite(dirFlag)
	if err != nil {
		return err
	}

	r, err := resolver.New(s, newHistoryClient())
	if err != nil {
		return fmt.Errorf("this site has no history control; use 'resolve' for per-notebook pages")
	}

	if live {
		// A fresh process has no cached originals; Clear recomputes the
		// branch URLs, which is the documented fallback.
		r.LoadCached(nil)
		r.Clear()
		if err := s.Save(); err != nil {
			return err
		}
		fmt.Println("Links auf aktuellen Stand zurückgesetzt")
		return nil
	}

	ctx := context.Background()
	options, err := fetchDayOptions(ctx, newHistoryClient(), r.Control().Slug, r.Control().HistoryPath, noCache)
	if err != nil {
		// The selector stays usable with zero options; for the CLI that
		// means reporting the failure and leaving branch URLs in place.
		r.Load(ctx)
		if saveErr := s.Save(); saveErr != nil {
			return saveErr
		}
		return fmt.Errorf("fetch history: %w", err)
	}
	r.LoadCached(options)

	if err := r.Select(args[0]); err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return err
	}
	fmt.Printf("Links auf %s gesetzt (%s)\n", args[0], r.Status())
	return nil
}
