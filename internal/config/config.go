// Package config provides YAML-based configuration loading for Mission Control.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/qops/missionctl/internal/db"
)

// Config is the top-level Mission Control configuration, loaded from
// missionctl.yaml.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	DB       DBConfig       `yaml:"db"`
	Agents   []AgentConfig  `yaml:"agents"`
	Gmail    GmailConfig    `yaml:"gmail"`
	Profit   ProfitConfig   `yaml:"profit"`
	Slack    SlackConfig    `yaml:"slack"`
	Discord  DiscordConfig  `yaml:"discord"`
	Calendar CalendarConfig `yaml:"calendar"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DBConfig selects the store. sqlite uses Path; mysql uses Host/Port/Database.
type DBConfig struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
}

// AgentConfig describes one agent in the seeded roster.
type AgentConfig struct {
	Name             string   `yaml:"name"`
	Role             string   `yaml:"role"`
	Responsibilities []string `yaml:"responsibilities"`
	Avatar           string   `yaml:"avatar"`
}

// GmailConfig names the account drafts are sent from.
type GmailConfig struct {
	Account string `yaml:"account"`
}

// ProfitConfig identifies the published metrics sheet.
type ProfitConfig struct {
	SheetID string `yaml:"sheet_id"`
	GID     string `yaml:"gid"`
}

// SlackConfig holds the bot token and channel for urgent notifications.
type SlackConfig struct {
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"`
}

// DiscordConfig holds the bot token and channel for urgent notifications.
type DiscordConfig struct {
	Token     string `yaml:"token"`
	ChannelID string `yaml:"channel_id"`
}

// CalendarConfig holds the Google OAuth application credentials.
type CalendarConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is present: a local
// sqlite store and the standard port, no integrations.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.DB.Driver == "" {
		c.DB.Driver = db.DriverSQLite
	}
	if c.DB.Driver == db.DriverSQLite && c.DB.Path == "" {
		c.DB.Path = "missionctl.db"
	}
	if c.DB.Driver == db.DriverMySQL {
		if c.DB.Host == "" {
			c.DB.Host = "127.0.0.1"
		}
		if c.DB.Port == 0 {
			c.DB.Port = 3306
		}
		if c.DB.Database == "" {
			c.DB.Database = "missionctl"
		}
	}
	if c.Profit.GID == "" {
		c.Profit.GID = "0"
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.DB.Driver != db.DriverSQLite && c.DB.Driver != db.DriverMySQL {
		errs = append(errs, fmt.Sprintf("db.driver must be %q or %q", db.DriverSQLite, db.DriverMySQL))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 1 and 65535")
	}
	for i, a := range c.Agents {
		if a.Name == "" {
			errs = append(errs, fmt.Sprintf("agents[%d].name is required", i))
		}
		if a.Role == "" {
			errs = append(errs, fmt.Sprintf("agents[%d].role is required", i))
		}
	}
	if c.Slack.Token != "" && c.Slack.Channel == "" {
		errs = append(errs, "slack.channel is required when slack.token is set")
	}
	if c.Discord.Token != "" && c.Discord.ChannelID == "" {
		errs = append(errs, "discord.channel_id is required when discord.token is set")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Open connects to the store named by the config.
func (c *Config) Open() (*gorm.DB, error) {
	return db.Open(c.DB.Driver, c.DB.Path, c.DB.Host, c.DB.Port, c.DB.Database)
}

// AgentSeeds converts the configured roster into db seeds.
func (c *Config) AgentSeeds() []db.AgentSeed {
	seeds := make([]db.AgentSeed, 0, len(c.Agents))
	for _, a := range c.Agents {
		seeds = append(seeds, db.AgentSeed{
			Name:             a.Name,
			Role:             a.Role,
			Responsibilities: a.Responsibilities,
			Avatar:           a.Avatar,
		})
	}
	return seeds
}
