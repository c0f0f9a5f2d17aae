package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/resolver"
	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Preview the site locally with live export and history endpoints",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("site-dir", "", "site directory (overrides config)")
	serveCmd.Flags().String("addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	dirFlag, _ := cmd.Flags().GetString("site-dir")
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.Server.Addr
	}

	s, err := loadSite(dirFlag)
	if err != nil {
		return err
	}

	// Sites without a global history control still get page serving and
	// table export; the history endpoints answer 404.
	r, err := resolver.New(s, newHistoryClient())
	if err != nil {
		logger.Info("No history control found, serving without history endpoints")
		r = nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(addr, logger, s, r, cfg.Site.TableMarker)
	return srv.Start(ctx)
}
