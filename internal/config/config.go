package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/diegoclair/qotd-bot/internal/domain"
	"github.com/spf13/viper"
)

const (
	PlatformDiscord = "discord"
	PlatformSlack   = "slack"

	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

type Config struct {
	BotToken            string
	QotdChannelID       string
	ModerationChannelID string
	RolePingID          string
	PostHour            int
	Platform            string
	GuildID             string
	SlackSigningSecret  string
	StorageBackend      string
	DataDir             string
	DatabasePath        string
	Port                string
	Timezone            string
	LogLevel            string
}

// keys maps each setting to the environment variables that may carry it.
// The names without underscores are the ones the first deployments used.
var keys = map[string][]string{
	"bot_token":            {"BOT_TOKEN", "BOTTOKEN"},
	"qotd_channel":         {"QOTD_CHANNEL", "QOTDCHANNEL"},
	"moderation_channel":   {"MODERATION_CHANNEL", "MODERATIONCHANNEL"},
	"role_ping":            {"ROLE_PING", "ROLEPING"},
	"post_hour":            {"POST_HOUR", "POSTATHOUR"},
	"platform":             {"PLATFORM"},
	"guild_id":             {"GUILD_ID"},
	"slack_signing_secret": {"SLACK_SIGNING_SECRET"},
	"storage_backend":      {"STORAGE_BACKEND"},
	"data_dir":             {"DATA_DIR"},
	"database_path":        {"DATABASE_PATH"},
	"port":                 {"PORT"},
	"timezone":             {"TIMEZONE"},
	"log_level":            {"LOG_LEVEL"},
}

// Load reads config.yaml from the working directory when present and lets
// environment variables override it. The returned config is validated.
func Load() (*Config, error) {
	return load(newViper(), (*Config).Validate)
}

// LoadStorage is Load for commands that only touch the queue stores. Chat
// credentials and channel IDs may be missing.
func LoadStorage() (*Config, error) {
	return load(newViper(), (*Config).ValidateStorage)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	return v
}

func load(v *viper.Viper, validate func(*Config) error) (*Config, error) {
	v.SetDefault("post_hour", domain.DefaultPostHour)
	v.SetDefault("platform", PlatformDiscord)
	v.SetDefault("storage_backend", BackendFile)
	v.SetDefault("data_dir", ".")
	v.SetDefault("database_path", "./qotd.db")
	v.SetDefault("port", "3000")
	v.SetDefault("log_level", "info")

	for key, envs := range keys {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	postHour, err := parseHour(v.GetString("post_hour"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BotToken:            strings.TrimSpace(v.GetString("bot_token")),
		QotdChannelID:       strings.TrimSpace(v.GetString("qotd_channel")),
		ModerationChannelID: strings.TrimSpace(v.GetString("moderation_channel")),
		RolePingID:          strings.TrimSpace(v.GetString("role_ping")),
		PostHour:            postHour,
		Platform:            strings.ToLower(strings.TrimSpace(v.GetString("platform"))),
		GuildID:             strings.TrimSpace(v.GetString("guild_id")),
		SlackSigningSecret:  strings.TrimSpace(v.GetString("slack_signing_secret")),
		StorageBackend:      strings.ToLower(strings.TrimSpace(v.GetString("storage_backend"))),
		DataDir:             v.GetString("data_dir"),
		DatabasePath:        v.GetString("database_path"),
		Port:                v.GetString("port"),
		Timezone:            strings.TrimSpace(v.GetString("timezone")),
		LogLevel:            strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports every missing or invalid setting at once
func (c *Config) Validate() error {
	var errs []error

	required := []struct {
		value string
		env   string
		what  string
	}{
		{c.BotToken, "BOT_TOKEN", "bot token"},
		{c.QotdChannelID, "QOTD_CHANNEL", "question of the day channel"},
		{c.ModerationChannelID, "MODERATION_CHANNEL", "moderation channel"},
		{c.RolePingID, "ROLE_PING", "role to mention"},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("no %s set: add %s to .env or the environment", r.what, r.env))
		}
	}

	switch c.Platform {
	case PlatformDiscord:
	case PlatformSlack:
		if c.SlackSigningSecret == "" {
			errs = append(errs, errors.New("no SLACK_SIGNING_SECRET set: required when PLATFORM=slack"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown PLATFORM %q: use %s or %s", c.Platform, PlatformDiscord, PlatformSlack))
	}

	errs = append(errs, c.ValidateStorage())

	return errors.Join(errs...)
}

// ValidateStorage checks only the settings the stores and the schedule read
func (c *Config) ValidateStorage() error {
	var errs []error

	if c.PostHour < 0 || c.PostHour > 23 {
		errs = append(errs, fmt.Errorf("POST_HOUR must be between 0 and 23, got %d", c.PostHour))
	}

	switch c.StorageBackend {
	case BackendFile, BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q: use %s or %s", c.StorageBackend, BackendFile, BackendSQLite))
	}

	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Location resolves the time zone the post hour is read in; empty means local time
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func parseHour(raw string) (int, error) {
	hour, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("POST_HOUR must be an integer, got %q", raw)
	}
	return hour, nil
}
