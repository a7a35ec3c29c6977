package main

import (
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/qops/missionctl/internal/config"
	"github.com/qops/missionctl/internal/notify"
)

const defaultConfigPath = "missionctl.yaml"

// loadConfig reads the config file. A missing file at the default path falls
// back to defaults (local sqlite); an explicit path must exist.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) && path == defaultConfigPath {
		return config.Default(), nil
	}
	return config.Load(path)
}

// connectFromConfig loads the config and opens the store it names.
func connectFromConfig(path string) (*config.Config, *gorm.DB, error) {
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, nil, err
	}
	gdb, err := cfg.Open()
	if err != nil {
		return nil, nil, err
	}
	return cfg, gdb, nil
}

// buildNotifier assembles the urgent-item notifier from config. Returns nil
// when no channel is configured.
func buildNotifier(cfg *config.Config) (notify.Notifier, error) {
	var notifiers []notify.Notifier
	if cfg.Slack.Token != "" {
		notifiers = append(notifiers, notify.NewSlackNotifier(cfg.Slack.Token, cfg.Slack.Channel))
	}
	if cfg.Discord.Token != "" {
		d, err := notify.NewDiscordNotifier(cfg.Discord.Token, cfg.Discord.ChannelID)
		if err != nil {
			return nil, fmt.Errorf("discord notifier: %w", err)
		}
		notifiers = append(notifiers, d)
	}
	if len(notifiers) == 0 {
		return nil, nil
	}
	return notify.NewMulti(notifiers...), nil
}
