package cleaner

import (
	"errors"
	"strings"
	"testing"
)

// upperCleaner is a test cleaner that upper-cases its input
type upperCleaner struct{}

func (c *upperCleaner) Clean(html string) (string, error) {
	return strings.ToUpper(html), nil
}

func (c *upperCleaner) Name() string {
	return "upper"
}

// errorCleaner is a test cleaner that always returns an error
type errorCleaner struct{}

func (c *errorCleaner) Clean(html string) (string, error) {
	return "", errors.New("test error")
}

func (c *errorCleaner) Name() string {
	return "error"
}

// --- ChainCleaner Tests ---

func TestChainCleaner_Empty(t *testing.T) {
	c := NewChain()

	input := "unchanged content"
	got, err := c.Clean(input)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	if got != input {
		t.Errorf("Clean() = %q, want %q", got, input)
	}
}

func TestChainCleaner_Order(t *testing.T) {
	// trim runs before upper, so the rewrite rule sees lowercase text
	c := NewChain(NewTrim(), NewRewrite(Rule{Old: "a", New: "b"}), &upperCleaner{})

	got, err := c.Clean("  a-a  ")
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if got != "B-B" {
		t.Errorf("Clean() = %q, want %q", got, "B-B")
	}
}

func TestChainCleaner_ErrorPropagation(t *testing.T) {
	c := NewChain(NewTrim(), &errorCleaner{}, &upperCleaner{})

	_, err := c.Clean("test")
	if err == nil {
		t.Fatal("expected error to propagate")
	}

	if !strings.Contains(err.Error(), "error: test error") {
		t.Errorf("expected error naming the failing cleaner, got %v", err)
	}
}

func TestChainCleaner_Name(t *testing.T) {
	tests := []struct {
		name     string
		cleaners []Cleaner
		want     string
	}{
		{"empty", []Cleaner{}, "chain()"},
		{"single", []Cleaner{NewTrim()}, "chain(trim)"},
		{"double", []Cleaner{NewLineBreak(), NewTrim()}, "chain(linebreak->trim)"},
		{"nil_dropped", []Cleaner{nil, NewTrim(), nil}, "chain(trim)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChain(tt.cleaners...)
			if got := c.Name(); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewTelegram_Name(t *testing.T) {
	want := "chain(linebreak->rewrite->trim)"
	tg := NewTelegram()
	if got := tg.Name(); got != want {
		t.Errorf("Name() = %q, want %q", got, want)
	}
	if tg.Len() != 3 {
		t.Errorf("Len() = %d, want 3", tg.Len())
	}
}
