package cleaner

import (
	"fmt"
	"strings"
)

// ChainCleaner runs cleaners one after another, feeding each the previous
// output.
type ChainCleaner struct {
	passes []Cleaner
	name   string
}

// NewChain builds a chain from passes in order; nil entries are dropped.
//
//	telegram := cleaner.NewChain(
//	    cleaner.NewLineBreak(),
//	    cleaner.NewRewrite(cleaner.TelegramRules...),
//	    cleaner.NewTrim(),
//	)
func NewChain(passes ...Cleaner) *ChainCleaner {
	kept := make([]Cleaner, 0, len(passes))
	names := make([]string, 0, len(passes))
	for _, p := range passes {
		if p == nil {
			continue
		}
		kept = append(kept, p)
		names = append(names, p.Name())
	}
	return &ChainCleaner{passes: kept, name: "chain(" + strings.Join(names, "->") + ")"}
}

// Clean stops at the first failing pass and prefixes its error with the
// pass name, e.g. "linebreak: invalid text encoding at byte 3".
func (c *ChainCleaner) Clean(content string) (string, error) {
	out := content
	for _, p := range c.passes {
		next, err := p.Clean(out)
		if err != nil {
			return "", fmt.Errorf("%s: %w", p.Name(), err)
		}
		out = next
	}
	return out, nil
}

// Name lists the passes, e.g. "chain(linebreak->rewrite->trim)".
func (c *ChainCleaner) Name() string {
	return c.name
}

// Len reports the number of passes.
func (c *ChainCleaner) Len() int {
	return len(c.passes)
}
