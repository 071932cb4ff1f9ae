package cleaner

import (
	"strings"
)

// Rule is a literal substring replacement.
type Rule struct {
	Old string
	New string
}

// TelegramRules flattens paragraph, list and line-break markup. Telegram's
// HTML mode accepts only a handful of inline tags, so block structure is
// expressed with newlines and "- " bullets instead.
//
// Rules are applied in order; "<ul>\n" must run before any rule that could
// consume its newline. Both spellings of the line-break tag are listed since
// bodies re-serialized by golang.org/x/net/html use "<br/>".
var TelegramRules = []Rule{
	{Old: "<p>", New: ""},
	{Old: "</p>", New: "\n"},
	{Old: "<ul>\n", New: ""},
	{Old: "</ul>", New: ""},
	{Old: "<li>", New: "- "},
	{Old: "</li>", New: ""},
	{Old: "<br>", New: ""},
	{Old: "<br/>", New: ""},
	{Old: "</pre>\n", New: "</pre>\n\n"},
}

// RewriteCleaner applies an ordered list of literal replacements. Each rule
// replaces every occurrence in the output of the previous rule.
type RewriteCleaner struct {
	rules []Rule
}

// NewRewrite creates a RewriteCleaner applying rules in the given order.
func NewRewrite(rules ...Rule) *RewriteCleaner {
	return &RewriteCleaner{rules: append([]Rule(nil), rules...)}
}

// Clean applies every rule in order.
func (c *RewriteCleaner) Clean(html string) (string, error) {
	for _, r := range c.rules {
		if r.Old == "" {
			continue
		}
		html = strings.ReplaceAll(html, r.Old, r.New)
	}
	return html, nil
}

// Rules returns a copy of the rules in application order.
func (c *RewriteCleaner) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// Name returns the cleaner type.
func (c *RewriteCleaner) Name() string {
	return "rewrite"
}

// TrimCleaner strips leading and trailing whitespace.
type TrimCleaner struct{}

// NewTrim creates a TrimCleaner.
func NewTrim() *TrimCleaner {
	return &TrimCleaner{}
}

// Clean trims surrounding whitespace.
func (c *TrimCleaner) Clean(html string) (string, error) {
	return strings.TrimSpace(html), nil
}

// Name returns the cleaner type.
func (c *TrimCleaner) Name() string {
	return "trim"
}

// NewTelegram returns the article body pipeline: soft line breaks become
// spaces, block markup is flattened with TelegramRules, and the result is
// trimmed. The line-break pass has to see the original tags, so it runs
// first.
func NewTelegram() *ChainCleaner {
	return NewChain(
		NewLineBreak(),
		NewRewrite(TelegramRules...),
		NewTrim(),
	)
}
