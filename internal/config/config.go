// Package config loads newsrelay settings from flags, environment, .env and
// an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingCredential is returned when the Telegram bot token is not set.
var ErrMissingCredential = errors.New("missing credential: TELEGRAM_BOT_TOKEN is not set")

// EnvPrefix prefixes every environment override, e.g. NEWSRELAY_STORE_BACKEND.
const EnvPrefix = "NEWSRELAY"

// TokenEnv is the conventional variable holding the bot token.
const TokenEnv = "TELEGRAM_BOT_TOKEN"

// Config is the complete runtime configuration.
type Config struct {
	Feed     FeedConfig     `mapstructure:"feed"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Store    StoreConfig    `mapstructure:"store"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	Schedule string         `mapstructure:"schedule" validate:"required"`
}

// FeedConfig describes the news source.
type FeedConfig struct {
	Name            string `mapstructure:"name" validate:"required"`
	ListingURL      string `mapstructure:"listing_url" validate:"required,url"`
	ArticleSelector string `mapstructure:"article_selector" validate:"required"`
}

// TelegramConfig describes the destination chat.
type TelegramConfig struct {
	Token          string `mapstructure:"token"`
	ChatID         string `mapstructure:"chat_id" validate:"required"`
	APIBase        string `mapstructure:"api_base" validate:"required,url"`
	DisablePreview bool   `mapstructure:"disable_preview"`
}

// StoreConfig selects the watermark backend.
type StoreConfig struct {
	Backend string `mapstructure:"backend" validate:"oneof=file sqlite postgres"`
	Path    string `mapstructure:"path" validate:"required_unless=Backend postgres"`
	DSN     string `mapstructure:"dsn" validate:"required_if=Backend postgres"`
}

// FetchConfig tunes page downloads.
type FetchConfig struct {
	UserAgent   string        `mapstructure:"user_agent"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxBodySize string        `mapstructure:"max_body_size" validate:"bytesize"`
}

// MaxBodyBytes parses MaxBodySize ("5MB", "512KiB"). Empty means no limit.
func (f FetchConfig) MaxBodyBytes() (int, error) {
	if f.MaxBodySize == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(f.MaxBodySize)
	if err != nil {
		return 0, fmt.Errorf("fetch.max_body_size: %w", err)
	}
	return int(n), nil
}

// SetDefaults registers the default of every key. Keys need a default for
// environment overrides to reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("feed.name", "archlinux")
	v.SetDefault("feed.listing_url", "https://archlinux.org/news/")
	v.SetDefault("feed.article_selector", "div.article-content")

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", "-1001823767670")
	v.SetDefault("telegram.api_base", "https://api.telegram.org")
	v.SetDefault("telegram.disable_preview", true)

	v.SetDefault("store.backend", "file")
	v.SetDefault("store.path", "last_title.txt")
	v.SetDefault("store.dsn", "")

	v.SetDefault("fetch.user_agent", "")
	v.SetDefault("fetch.timeout", 30*time.Second)
	v.SetDefault("fetch.max_body_size", "10MB")

	v.SetDefault("schedule", "@every 30m")
}

// BindEnv enables NEWSRELAY_* overrides and maps TELEGRAM_BOT_TOKEN onto
// telegram.token.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("telegram.token", EnvPrefix+"_TELEGRAM_TOKEN", TokenEnv)
}

// LoadDotenv loads variables from the given .env files (default ".env")
// without overriding the environment. Missing files are skipped.
func LoadDotenv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// RequireCredential reports ErrMissingCredential when no bot token is set.
func (c *Config) RequireCredential() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return ErrMissingCredential
	}
	return nil
}
