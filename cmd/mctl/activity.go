package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/qops/missionctl/internal/activity"
	"github.com/qops/missionctl/internal/models"
)

func newActivityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Inspect and prune the activity log",
	}

	cmd.AddCommand(newActivityTailCmd())
	cmd.AddCommand(newActivityPurgeCmd())
	return cmd
}

func newActivityTailCmd() *cobra.Command {
	var (
		configPath string
		limit      int
		eventType  string
	)

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Print recent activity events, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runActivityTail(cmd, configPath, limit, eventType)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of events to print")
	cmd.Flags().StringVar(&eventType, "type", "", "only events of this type")
	return cmd
}

func runActivityTail(cmd *cobra.Command, configPath string, limit int, eventType string) error {
	out := cmd.OutOrStdout()

	_, gdb, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	var events []models.ActivityEvent
	if eventType != "" {
		events, err = activity.ListByType(gdb, eventType, limit)
	} else {
		events, err = activity.List(gdb, limit)
	}
	if err != nil {
		return err
	}

	if len(events) == 0 {
		fmt.Fprintln(out, "No activity recorded.")
		return nil
	}
	for _, e := range events {
		ts := time.UnixMilli(e.Timestamp).Format("2006-01-02 15:04:05")
		who := e.AgentName
		if who == "" {
			who = "-"
		}
		fmt.Fprintf(out, "%s  %-18s %-10s %s\n", ts, e.Type, who, e.Action)
	}
	return nil
}

func newActivityPurgeCmd() *cobra.Command {
	var (
		configPath string
		days       int
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete activity events older than a retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runActivityPurge(cmd, configPath, days, yes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	cmd.Flags().IntVar(&days, "older-than-days", 0, "delete events older than this many days (required)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	cmd.MarkFlagRequired("older-than-days")
	return cmd
}

func runActivityPurge(cmd *cobra.Command, configPath string, days int, skipConfirm bool) error {
	out := cmd.OutOrStdout()

	if days <= 0 {
		return fmt.Errorf("--older-than-days must be a positive integer")
	}

	_, gdb, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	if !skipConfirm {
		target := fmt.Sprintf("activity older than %d days", days)
		if !confirmReset(cmd, target) {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	deleted, err := activity.Clear(gdb, days)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Deleted %d events\n", deleted)
	return nil
}
