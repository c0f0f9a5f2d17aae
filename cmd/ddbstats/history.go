package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the selectable notebook history days",
	Long: `Queries the commit history of the configured tracking file and
prints one line per calendar day, newest first, with the revision that day
maps to.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Bool("json", false, "emit JSON instead of a table")
	historyCmd.Flags().Bool("no-cache", false, "bypass the history cache")
	historyCmd.Flags().String("slug", "", "repository slug (overrides config)")
	historyCmd.Flags().String("path", "", "tracking file path (overrides config)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	slug, _ := cmd.Flags().GetString("slug")
	path, _ := cmd.Flags().GetString("path")

	if slug == "" {
		slug = cfg.Repo.Slug
	}
	if path == "" {
		path = cfg.Repo.HistoryPath
	}

	revisions, err := fetchDayOptions(context.Background(), newHistoryClient(), slug, path, noCache)
	if err != nil {
		return fmt.Errorf("fetch history: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(revisions)
	}

	if len(revisions) == 0 {
		fmt.Println("Keine Historie gefunden")
		return nil
	}
	for _, r := range revisions {
		short := r.SHA
		if len(short) > 10 {
			short = short[:10]
		}
		fmt.Printf("%s  %s\n", r.Day, short)
	}
	return nil
}
