package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jmylchreest/newsrelay/internal/logger"
)

// DefaultAPIBase is the public Telegram Bot API endpoint.
const DefaultAPIBase = "https://api.telegram.org"

// TelegramConfig configures the Telegram notifier.
type TelegramConfig struct {
	Token          string
	ChatID         string
	APIBase        string        // default: DefaultAPIBase
	DisablePreview bool          // suppress link previews
	Timeout        time.Duration // default: 30s
	HTTPClient     *http.Client  // overrides Timeout when set
}

// Telegram sends messages through the Bot API sendMessage method in HTML
// parse mode.
type Telegram struct {
	cfg        TelegramConfig
	endpoint   string
	httpClient *http.Client
}

// sendMessageRequest is the sendMessage payload.
type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// apiResponse is the envelope of every Bot API response.
type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}

// NewTelegram creates a Telegram notifier.
func NewTelegram(cfg TelegramConfig) (*Telegram, error) {
	if cfg.Token == "" {
		return nil, errors.New("telegram: bot token is required")
	}
	if cfg.ChatID == "" {
		return nil, errors.New("telegram: chat id is required")
	}
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Telegram{
		cfg:        cfg,
		endpoint:   strings.TrimRight(cfg.APIBase, "/") + "/bot" + cfg.Token + "/sendMessage",
		httpClient: client,
	}, nil
}

// Send posts msg to the configured chat.
func (t *Telegram) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(sendMessageRequest{
		ChatID:                t.cfg.ChatID,
		Text:                  Format(msg),
		ParseMode:             "HTML",
		DisableWebPagePreview: t.cfg.DisablePreview,
	})
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		// the endpoint embeds the token, never include it in errors
		return errors.New("telegram: invalid API endpoint")
	}
	req.Header.Set("Content-Type", "application/json")

	logger.Debug("sending telegram message", "chat_id", t.cfg.ChatID, "title", msg.Title, "text_size", len(payload))

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: redact(err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}

	var apiResp apiResponse
	decodeErr := json.Unmarshal(body, &apiResp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || (decodeErr == nil && !apiResp.OK) {
		return &TransportError{
			StatusCode:  resp.StatusCode,
			Description: apiResp.Description,
			Body:        string(body),
		}
	}

	return nil
}

// Name returns the notifier type.
func (t *Telegram) Name() string {
	return "telegram"
}

// redact strips the request URL, which contains the bot token, from
// net/http errors.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
