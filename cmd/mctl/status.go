package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/qops/missionctl/internal/presence"
)

func newStatusCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the presence register and derived liveness",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	return cmd
}

func runStatus(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	_, gdb, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	online, err := presence.Online(gdb, time.Now())
	if err != nil {
		return err
	}
	if online {
		fmt.Fprintln(out, "Worker: ONLINE")
	} else {
		fmt.Fprintln(out, "Worker: OFFLINE")
	}

	entries, err := presence.GetAll(gdb)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No status keys recorded yet.")
		return nil
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		e := entries[k]
		updated := time.UnixMilli(e.UpdatedAt).Format(time.RFC3339)
		fmt.Fprintf(out, "  %-16s %s (updated %s)\n", k, e.Value, updated)
	}
	return nil
}
