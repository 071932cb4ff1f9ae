package commands

import (
	"context"
	"fmt"

	"github.com/jmylchreest/newsrelay/internal/config"
	"github.com/jmylchreest/newsrelay/internal/logger"
	"github.com/jmylchreest/newsrelay/internal/version"
	"github.com/jmylchreest/newsrelay/pkg/listing"
	"github.com/jmylchreest/newsrelay/pkg/notifier"
	"github.com/jmylchreest/newsrelay/pkg/relay"
	"github.com/jmylchreest/newsrelay/pkg/store"
)

// openStore opens the configured watermark backend.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	st, err := store.Open(ctx, store.Config{
		Backend: cfg.Store.Backend,
		Path:    cfg.Store.Path,
		DSN:     cfg.Store.DSN,
		Feed:    cfg.Feed.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Store.Backend, err)
	}
	return st, nil
}

// newRelay assembles a Relay from configuration. Without dryRun the bot
// token must be present.
func newRelay(cfg *config.Config, st store.Store, dryRun bool) (*relay.Relay, error) {
	maxBody, err := cfg.Fetch.MaxBodyBytes()
	if err != nil {
		return nil, err
	}

	userAgent := cfg.Fetch.UserAgent
	if userAgent == "" {
		userAgent = version.UserAgent()
	}

	opts := []relay.Option{
		relay.WithListingURL(cfg.Feed.ListingURL),
		relay.WithUserAgent(userAgent),
		relay.WithTimeout(cfg.Fetch.Timeout),
		relay.WithMaxBodySize(maxBody),
		relay.WithParser(listing.NewParser(listing.Selectors{Article: cfg.Feed.ArticleSelector})),
		relay.WithStore(st),
		relay.WithDryRun(dryRun),
		relay.WithLogger(logger.With("feed", cfg.Feed.Name)),
	}

	if !dryRun {
		if err := cfg.RequireCredential(); err != nil {
			return nil, err
		}
		tg, err := notifier.NewTelegram(notifier.TelegramConfig{
			Token:          cfg.Telegram.Token,
			ChatID:         cfg.Telegram.ChatID,
			APIBase:        cfg.Telegram.APIBase,
			DisablePreview: cfg.Telegram.DisablePreview,
			Timeout:        cfg.Fetch.Timeout,
		})
		if err != nil {
			return nil, err
		}
		opts = append(opts, relay.WithNotifier(tg))
	}

	return relay.New(opts...)
}
