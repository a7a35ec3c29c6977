package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/qops/missionctl/internal/calendar"
	"github.com/qops/missionctl/internal/dashboard"
	"github.com/qops/missionctl/internal/db"
	"github.com/qops/missionctl/internal/profit"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Mission Control API server",
		Long:  "Migrates the schema and serves the JSON API until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int) error {
	cfg, gdb, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	if err := db.AutoMigrate(gdb); err != nil {
		return err
	}

	notifier, err := buildNotifier(cfg)
	if err != nil {
		return err
	}

	deps := dashboard.Deps{
		DB:           gdb,
		GmailAccount: cfg.Gmail.Account,
		Notifier:     notifier,
	}
	if cfg.Profit.SheetID != "" {
		deps.Profit = profit.NewClient(cfg.Profit.SheetID, cfg.Profit.GID)
	}
	if cfg.Calendar.ClientID != "" {
		deps.Calendar = calendar.NewClient(cfg.Calendar.ClientID, cfg.Calendar.ClientSecret, cfg.Calendar.RedirectURL)
	}

	if port <= 0 {
		port = cfg.Server.Port
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	return dashboard.Start(ctx, dashboard.StartOpts{
		Deps: deps,
		Port: port,
		Out:  cmd.OutOrStdout(),
	})
}
