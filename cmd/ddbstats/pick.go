package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/resolver"
	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/tui"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick a history day interactively and pin the site to it",
	RunE:  runPick,
}

func init() {
	pickCmd.Flags().String("site-dir", "", "site directory (overrides config)")
	pickCmd.Flags().Bool("no-cache", false, "bypass the history cache")
}

func runPick(cmd *cobra.Command, args []string) error {
	dirFlag, _ := cmd.Flags().GetString("site-dir")
	noCache, _ := cmd.Flags().GetBool("no-cache")

	s, err := loadSite(dirFlag)
	if err != nil {
		return err
	}

	r, err := resolver.New(s, newHistoryClient())
	if err != nil {
		return fmt.Errorf("this site has no history control")
	}

	options, err := fetchDayOptions(context.Background(), newHistoryClient(), r.Control().Slug, r.Control().HistoryPath, noCache)
	if err != nil {
		return fmt.Errorf("fetch history: %w", err)
	}
	r.LoadCached(options)

	revision, live, accepted, err := tui.Pick(options)
	if err != nil {
		return err
	}
	if !accepted {
		fmt.Println("Abgebrochen")
		return nil
	}

	if live {
		r.Clear()
	} else if err := r.Select(revision.Day); err != nil {
		return err
	}

	if err := s.Save(); err != nil {
		return err
	}
	fmt.Println(r.Status())
	return nil
}
