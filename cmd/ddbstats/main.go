package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/config"
	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/github"
	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/site"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	cfgFile string
	verbose bool
	logger  *logrus.Logger
	cfg     *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ddbstats",
	Short: "Tooling for the DDBlabs statistics notebook site",
	Long: `ddbstats maintains the rendered statistics site: it exports the
analytical tables to CSV/Excel, attaches export toolbars to the pages, and
repoints the notebook launch links (Colab, Binder, nbviewer, GitHub, raw
download) at historical commits of the notebooks.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logrus.New()
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			logger.WithError(err).Warn("Failed to load config, using defaults")
			cfg = config.Default()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .ddbstats/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.SetVersionTemplate(`ddbstats {{.Version}}
Build time: ` + BuildTime + `
Git commit: ` + GitCommit + `
`)

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(augmentCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(pinCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(pickCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configureCmd)
}

// loadSite parses the configured site directory, honoring a per-command
// override.
func loadSite(dirFlag string) (*site.Site, error) {
	dir := cfg.Site.Dir
	if dirFlag != "" {
		dir = dirFlag
	}
	return site.Load(dir)
}

// newHistoryClient builds the GitHub client with the resolved token.
func newHistoryClient() *github.Client {
	return github.NewClient(cfg.ResolveToken(), cfg.GitHub.RateLimit)
}

// fetchDayOptions returns the day options for the configured tracking file,
// consulting the disk cache unless noCache is set. Cache trouble is logged
// and degraded to a direct fetch, never fatal.
func fetchDayOptions(ctx context.Context, client *github.Client, slug, historyPath string, noCache bool) ([]github.DayRevision, error) {
	if !noCache {
		cache, err := github.OpenHistoryCache(cfg.Cache.Path, cfg.Cache.TTL)
		if err != nil {
			logger.WithError(err).Debug("history cache unavailable")
		} else {
			defer cache.Close()
			if revisions, ok := cache.Get(slug, historyPath); ok {
				logger.WithField("count", len(revisions)).Debug("day options from cache")
				return revisions, nil
			}
			revisions, err := client.DayRevisions(ctx, slug, historyPath)
			if err != nil {
				return nil, err
			}
			if err := cache.Put(slug, historyPath, revisions); err != nil {
				logger.WithError(err).Debug("failed to store day options in cache")
			}
			return revisions, nil
		}
	}
	return client.DayRevisions(ctx, slug, historyPath)
}
