// Package config defines the marktask configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level marktask configuration.
type Config struct {
	Vault       string         `yaml:"vault"`
	Tag         string         `yaml:"tag"`
	JSON        bool           `yaml:"json"`
	ShowOverdue bool           `yaml:"show_overdue"`
	Status      string         `yaml:"status"` // all, open, done
	Listen      string         `yaml:"listen"`
	Telegram    TelegramConfig `yaml:"telegram"`
	Discord     DiscordConfig  `yaml:"discord"`
	Calendar    CalendarConfig `yaml:"calendar"`
}

// TelegramConfig configures the chat bot.
type TelegramConfig struct {
	Token string `yaml:"token"`
}

// DiscordConfig configures the Discord bot.
type DiscordConfig struct {
	Token string `yaml:"token"`
}

// CalendarConfig configures the Google Calendar export.
type CalendarConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	ID              string `yaml:"id"`
}

// Default returns a config with sensible defaults.
func Default() *Config {
	return &Config{
		Status: "all",
		Listen: ":8080",
		Calendar: CalendarConfig{
			ID: "primary",
		},
	}
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "marktask", "config.yaml")
}

// Load reads a YAML config file over the defaults. A missing file is not
// an error unless the path was given explicitly.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("MARKTASK_VAULT"); v != "" {
		c.Vault = v
	}
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv("DISCORD_TOKEN"); v != "" {
		c.Discord.Token = v
	}
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" && c.Calendar.CredentialsFile == "" {
		c.Calendar.CredentialsFile = v
	}
}
