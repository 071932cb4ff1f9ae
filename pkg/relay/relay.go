// Package relay runs one news sync: detect unseen listing entries, turn each
// into a Telegram message, deliver them oldest-first and advance the
// watermark.
package relay

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rs/xid"

	"github.com/jmylchreest/newsrelay/internal/logger"
	"github.com/jmylchreest/newsrelay/pkg/cleaner"
	"github.com/jmylchreest/newsrelay/pkg/delta"
	"github.com/jmylchreest/newsrelay/pkg/fetcher"
	"github.com/jmylchreest/newsrelay/pkg/listing"
	"github.com/jmylchreest/newsrelay/pkg/notifier"
)

// Parser extracts entries from the listing page and the article body from
// a detail page. *listing.Parser implements it.
type Parser interface {
	ParseListing(doc string) ([]listing.Entry, error)
	ParseArticle(doc string) (string, error)
}

// Result describes a completed (or aborted) run.
type Result struct {
	RunID     string             `json:"run_id" yaml:"run_id"`
	Watermark string             `json:"watermark" yaml:"watermark"`
	Entries   []listing.Entry    `json:"entries" yaml:"entries"`   // new entries, newest-first
	Messages  []notifier.Message `json:"messages" yaml:"messages"` // delivery order, oldest-first
	Sent      int                `json:"sent" yaml:"sent"`
	Candidate *string            `json:"candidate,omitempty" yaml:"candidate,omitempty"`
	Committed bool               `json:"committed" yaml:"committed"`
	DryRun    bool               `json:"dry_run" yaml:"dry_run"`
	Duration  time.Duration      `json:"duration" yaml:"duration"`
}

// Relay wires the fetcher, parser, normalizer, notifier and store.
type Relay struct {
	fetcher  fetcher.Fetcher
	cleaner  cleaner.Cleaner
	parser   Parser
	notifier notifier.Notifier
	config   Config
	log      *slog.Logger
}

// New creates a Relay.
func New(opts ...Option) (*Relay, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Store == nil {
		return nil, errors.New("relay: a watermark store is required")
	}
	if cfg.Notifier == nil && !cfg.DryRun {
		return nil, errors.New("relay: a notifier is required unless dry run is enabled")
	}
	if cfg.ListingURL == "" {
		return nil, errors.New("relay: listing URL is required")
	}

	f := cfg.Fetcher
	if f == nil {
		f = fetcher.NewStatic(fetcher.StaticConfig{
			UserAgent:   cfg.UserAgent,
			Timeout:     cfg.Timeout,
			MaxBodySize: cfg.MaxBodySize,
		})
	}

	var cl cleaner.Cleaner = cfg.Cleaner
	if cl == nil {
		cl = cleaner.NewTelegram()
	}

	p := cfg.Parser
	if p == nil {
		p = listing.NewParser()
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Logger()
	}

	return &Relay{
		fetcher:  f,
		cleaner:  cl,
		parser:   p,
		notifier: cfg.Notifier,
		config:   cfg,
		log:      log,
	}, nil
}

// Run performs one sync. Any failure aborts the run and is returned as a
// *StageError; the watermark is only written after every message was
// delivered. The returned Result is non-nil even on error and reflects the
// progress made.
func (r *Relay) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: xid.New().String(), DryRun: r.config.DryRun}
	log := r.log.With("run_id", res.RunID)
	defer func() { res.Duration = time.Since(start) }()

	watermark, err := r.config.Store.Read(ctx)
	if err != nil {
		return res, stageErr(StageReadWatermark, "", err)
	}
	res.Watermark = watermark

	entries, err := r.listing(ctx)
	if err != nil {
		return res, err
	}

	fresh, candidate := delta.Detect(entries, watermark)
	res.Entries = fresh
	res.Candidate = candidate
	log.Info("listing checked", "entries", len(entries), "new", len(fresh), "watermark", watermark)

	if len(fresh) == 0 {
		return res, nil
	}

	msgs := make([]notifier.Message, 0, len(fresh))
	for _, e := range fresh {
		msg, err := r.message(ctx, log, e)
		if err != nil {
			return res, err
		}
		msgs = append(msgs, msg)
	}
	res.Messages = delta.Oldest(msgs)

	if r.config.DryRun {
		log.Info("dry run, nothing sent", "messages", len(res.Messages), "candidate", *candidate)
		return res, nil
	}

	for _, msg := range res.Messages {
		if err := r.notifier.Send(ctx, msg); err != nil {
			return res, stageErr(StageSend, msg.Title, err)
		}
		res.Sent++
		log.Info("message sent", "title", msg.Title, "notifier", r.notifier.Name())
	}

	if err := r.config.Store.Write(ctx, *candidate); err != nil {
		return res, stageErr(StageWriteWatermark, *candidate, err)
	}
	res.Committed = true
	log.Info("watermark advanced", "from", watermark, "to", *candidate, "duration", time.Since(start))

	return res, nil
}

// Bootstrap writes the newest listing title as the watermark without
// sending anything, so the first real run only delivers later news.
func (r *Relay) Bootstrap(ctx context.Context) (string, error) {
	entries, err := r.listing(ctx)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", stageErr(StageParseListing, "", errors.New("listing is empty"))
	}

	title := entries[0].Title
	if err := r.config.Store.Write(ctx, title); err != nil {
		return "", stageErr(StageWriteWatermark, title, err)
	}
	r.log.Info("watermark initialized", "title", title)
	return title, nil
}

// Close releases the fetcher.
func (r *Relay) Close() error {
	if r.fetcher != nil {
		return r.fetcher.Close()
	}
	return nil
}

func (r *Relay) listing(ctx context.Context) ([]listing.Entry, error) {
	page, err := r.fetcher.Fetch(ctx, r.config.ListingURL, fetcher.Options{})
	if err != nil {
		return nil, stageErr(StageFetchListing, "", err)
	}
	entries, err := r.parser.ParseListing(page.HTML)
	if err != nil {
		return nil, stageErr(StageParseListing, "", err)
	}
	return entries, nil
}

func (r *Relay) message(ctx context.Context, log *slog.Logger, e listing.Entry) (notifier.Message, error) {
	articleURL, err := listing.ResolveURL(r.config.ListingURL, e.Href)
	if err != nil {
		return notifier.Message{}, stageErr(StageFetchArticle, e.Title, err)
	}

	page, err := r.fetcher.Fetch(ctx, articleURL, fetcher.Options{})
	if err != nil {
		return notifier.Message{}, stageErr(StageFetchArticle, e.Title, err)
	}

	inner, err := r.parser.ParseArticle(page.HTML)
	if err != nil {
		return notifier.Message{}, stageErr(StageParseArticle, e.Title, err)
	}

	body, err := r.cleaner.Clean(inner)
	if err != nil {
		return notifier.Message{}, stageErr(StageNormalize, e.Title, err)
	}

	log.Debug("article normalized",
		"title", e.Title,
		"cleaner", r.cleaner.Name(),
		"input_size", len(inner),
		"output_size", len(body))

	return notifier.Message{
		Title:  e.Title,
		URL:    articleURL,
		Author: e.Author,
		Body:   body,
	}, nil
}
