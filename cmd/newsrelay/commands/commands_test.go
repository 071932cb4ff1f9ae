package commands

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/jmylchreest/newsrelay/internal/config"
	"github.com/jmylchreest/newsrelay/pkg/store"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("NEWSRELAY_TELEGRAM_TOKEN", "")
	v := viper.New()
	config.SetDefaults(v)
	config.BindEnv(v)
	cfg, err := config.Load(v)
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	return cfg
}

func TestNewRelay_RequiresToken(t *testing.T) {
	cfg := testConfig(t)

	_, err := newRelay(cfg, store.NewMemory(), false)
	if !errors.Is(err, config.ErrMissingCredential) {
		t.Errorf("newRelay() error = %v, want ErrMissingCredential", err)
	}

	// dry runs never talk to Telegram
	r, err := newRelay(cfg, store.NewMemory(), true)
	if err != nil {
		t.Fatalf("newRelay(dryRun) error = %v", err)
	}
	_ = r.Close()

	cfg.Telegram.Token = "123:abc"
	r, err = newRelay(cfg, store.NewMemory(), false)
	if err != nil {
		t.Fatalf("newRelay() with token error = %v", err)
	}
	_ = r.Close()
}

func TestNewRelay_BadBodySize(t *testing.T) {
	cfg := testConfig(t)
	cfg.Fetch.MaxBodySize = "huge"
	if _, err := newRelay(cfg, store.NewMemory(), true); err == nil {
		t.Error("expected error for unparsable max body size")
	}
}

func TestCronLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	l := cronLogger{log: slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}

	l.Info("skip", "entry", 1)
	l.Error(errors.New("boom"), "panic", "entry", 2)

	out := buf.String()
	for _, want := range []string{"level=DEBUG msg=skip entry=1", "level=ERROR msg=panic entry=2 error=boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}
