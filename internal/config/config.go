package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. LANGSEED_TELEGRAM_TOKEN
const EnvPrefix = "LANGSEED"

// Config holds all configuration for the application
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Remote    RemoteConfig    `mapstructure:"remote"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Log       LogConfig       `mapstructure:"log"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

// DatabaseConfig holds the local SQLite database location
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// RemoteConfig holds the optional Postgres mirror
type RemoteConfig struct {
	DSN string `mapstructure:"dsn"`
}

// Enabled reports whether a remote mirror is configured
func (r RemoteConfig) Enabled() bool {
	return r.DSN != ""
}

// TelegramConfig holds bot credentials
type TelegramConfig struct {
	Token  string `mapstructure:"token"`
	ChatID int64  `mapstructure:"chat_id"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AnalyticsConfig holds attempt log settings
type AnalyticsConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load reads configuration from the optional config file, .env files and
// environment variables. Environment variables win over the file.
func Load(configFile string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading %s: %w", f, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("langseed")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "data/langseed.db")
	v.SetDefault("remote.dsn", "")
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("analytics.timeout", "10s")
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Analytics.Timeout <= 0 {
		return fmt.Errorf("analytics.timeout must be positive")
	}
	return nil
}

// RequireTelegram checks the bot credentials are set
func (c *Config) RequireTelegram() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram.token is not set (LANGSEED_TELEGRAM_TOKEN)")
	}
	if c.Telegram.ChatID == 0 {
		return fmt.Errorf("telegram.chat_id is not set (LANGSEED_TELEGRAM_CHAT_ID)")
	}
	return nil
}
