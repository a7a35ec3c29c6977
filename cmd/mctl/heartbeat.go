package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/qops/missionctl/internal/presence"
)

func newHeartbeatCmd() *cobra.Command {
	var (
		configPath string
		status     string
		task       string
		interval   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "heartbeat",
		Short: "Record a liveness ping for the worker",
		Long: `Writes a heartbeat to the presence register. Single shot by default;
with --interval, keeps pinging until interrupted. Omitting --task leaves the
previously recorded task untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var currentTask *string
			if cmd.Flags().Changed("task") {
				currentTask = &task
			}
			return runHeartbeat(cmd, configPath, status, currentTask, interval)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	cmd.Flags().StringVar(&status, "status", "", "worker status (default online)")
	cmd.Flags().StringVar(&task, "task", "", "what the worker is doing right now")
	cmd.Flags().DurationVar(&interval, "interval", 0, "repeat every interval (e.g. 30s); 0 pings once")
	return cmd
}

func runHeartbeat(cmd *cobra.Command, configPath, status string, currentTask *string, interval time.Duration) error {
	out := cmd.OutOrStdout()

	_, gdb, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	ping := func() error {
		result, err := presence.Heartbeat(gdb, status, currentTask)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Heartbeat recorded: %s at %d\n", result.Status, result.Timestamp)
		return nil
	}

	if err := ping(); err != nil {
		return err
	}
	if interval <= 0 {
		return nil
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := ping(); err != nil {
				return err
			}
		case sig := <-sigCh:
			fmt.Fprintf(out, "\nReceived %s, stopping heartbeat loop.\n", sig)
			return nil
		}
	}
}
