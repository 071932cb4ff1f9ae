package relay

import (
	"log/slog"
	"time"

	"github.com/jmylchreest/newsrelay/pkg/cleaner"
	"github.com/jmylchreest/newsrelay/pkg/fetcher"
	"github.com/jmylchreest/newsrelay/pkg/notifier"
	"github.com/jmylchreest/newsrelay/pkg/store"
)

// DefaultListingURL is the Arch Linux news index.
const DefaultListingURL = "https://archlinux.org/news/"

// Config holds all Relay configuration.
type Config struct {
	ListingURL string
	DryRun     bool

	// Settings for the default fetcher
	UserAgent   string
	Timeout     time.Duration
	MaxBodySize int

	// Collaborators. Fetcher, Cleaner and Parser have defaults; Store is
	// required and Notifier is required unless DryRun is set.
	Fetcher  fetcher.Fetcher
	Cleaner  cleaner.Cleaner
	Parser   Parser
	Notifier notifier.Notifier
	Store    store.Store
	Logger   *slog.Logger
}

// DefaultConfig returns the configuration for the Arch Linux news feed.
func DefaultConfig() Config {
	return Config{
		ListingURL: DefaultListingURL,
		Timeout:    30 * time.Second,
	}
}

// Option configures a Relay.
type Option func(*Config)

// WithListingURL sets the news index page.
func WithListingURL(url string) Option {
	return func(c *Config) {
		c.ListingURL = url
	}
}

// WithDryRun builds messages without sending them or moving the watermark.
func WithDryRun(enabled bool) Option {
	return func(c *Config) {
		c.DryRun = enabled
	}
}

// WithUserAgent sets the HTTP user agent of the default fetcher.
func WithUserAgent(ua string) Option {
	return func(c *Config) {
		c.UserAgent = ua
	}
}

// WithTimeout sets the request timeout of the default fetcher.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithMaxBodySize limits page sizes accepted by the default fetcher.
func WithMaxBodySize(n int) Option {
	return func(c *Config) {
		c.MaxBodySize = n
	}
}

// WithFetcher injects a custom fetcher.
func WithFetcher(f fetcher.Fetcher) Option {
	return func(c *Config) {
		c.Fetcher = f
	}
}

// WithCleaner replaces the Telegram content normalizer.
func WithCleaner(cl cleaner.Cleaner) Option {
	return func(c *Config) {
		c.Cleaner = cl
	}
}

// WithParser injects a custom listing/article parser.
func WithParser(p Parser) Option {
	return func(c *Config) {
		c.Parser = p
	}
}

// WithNotifier sets where messages are delivered.
func WithNotifier(n notifier.Notifier) Option {
	return func(c *Config) {
		c.Notifier = n
	}
}

// WithStore sets the watermark store.
func WithStore(s store.Store) Option {
	return func(c *Config) {
		c.Store = s
	}
}

// WithLogger sets the logger. Defaults to the process logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}
