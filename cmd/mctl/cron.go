package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/qops/missionctl/internal/cronjobs"
)

func newCronCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cron",
		Short: "Cron registry maintenance",
	}

	cmd.AddCommand(newCronTickCmd())
	cmd.AddCommand(newCronListCmd())
	return cmd
}

func newCronTickCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "tick",
		Short: "Recompute the next run time for active jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCronTick(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	return cmd
}

func runCronTick(cmd *cobra.Command, configPath string) error {
	_, gdb, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	updated, err := cronjobs.Tick(gdb)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recomputed next run for %d jobs\n", updated)
	return nil
}

func newCronListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print registered cron jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCronList(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	return cmd
}

func runCronList(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	_, gdb, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	jobs, err := cronjobs.List(gdb)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		fmt.Fprintln(out, "No cron jobs registered.")
		return nil
	}
	for _, j := range jobs {
		next := "-"
		if j.NextRun > 0 {
			next = time.UnixMilli(j.NextRun).Format("2006-01-02 15:04")
		}
		fmt.Fprintf(out, "%-24s %-16s %-8s next %s (runs: %d)\n", j.Name, j.Schedule, j.Status, next, j.RunCount)
	}
	return nil
}
