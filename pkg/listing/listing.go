// Package listing parses a news index page into entries and extracts article
// bodies from detail pages.
package listing

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Entry is one row of the news listing.
type Entry struct {
	Title  string `json:"title" yaml:"title"`
	Author string `json:"author" yaml:"author"`
	Href   string `json:"href" yaml:"href"` // detail path as found in the listing, usually relative
}

// ErrStructure indicates an expected element was not found in fetched HTML.
// Check with errors.Is(err, listing.ErrStructure).
var ErrStructure = errors.New("unexpected page structure")

// ParseError describes which element was missing. Content holds the raw
// document that failed to parse.
type ParseError struct {
	What    string
	Row     int // 0-based row index, -1 when not row specific
	Content string
}

func (e *ParseError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("%v: row %d: missing %s", ErrStructure, e.Row, e.What)
	}
	return fmt.Sprintf("%v: missing %s", ErrStructure, e.What)
}

// Unwrap allows errors.Is(err, ErrStructure) to work.
func (e *ParseError) Unwrap() error {
	return ErrStructure
}

// Selectors locates listing and article elements.
type Selectors struct {
	Table      string // container of the listing rows; first match is used
	Row        string
	Cell       string
	TitleCell  int // index of the cell holding <a href>title</a>
	AuthorCell int
	Article    string // article body container on detail pages
}

// DefaultSelectors matches the archlinux.org news pages.
func DefaultSelectors() Selectors {
	return Selectors{
		Table:      "tbody",
		Row:        "tr",
		Cell:       "td",
		TitleCell:  1,
		AuthorCell: 2,
		Article:    "div.article-content",
	}
}

// Parser extracts entries and article bodies.
type Parser struct {
	sel Selectors
}

// NewParser creates a parser. Empty selector fields fall back to
// DefaultSelectors.
func NewParser(sel ...Selectors) *Parser {
	s := DefaultSelectors()
	if len(sel) > 0 {
		s = merge(s, sel[0])
	}
	return &Parser{sel: s}
}

func merge(def, s Selectors) Selectors {
	if s.Table != "" {
		def.Table = s.Table
	}
	if s.Row != "" {
		def.Row = s.Row
	}
	if s.Cell != "" {
		def.Cell = s.Cell
	}
	if s.TitleCell != 0 || s.AuthorCell != 0 {
		def.TitleCell = s.TitleCell
		def.AuthorCell = s.AuthorCell
	}
	if s.Article != "" {
		def.Article = s.Article
	}
	return def
}

// Selectors returns the effective selectors.
func (p *Parser) Selectors() Selectors {
	return p.sel
}

// ParseListing returns the listing entries in page order (newest first on
// the default source).
func (p *Parser) ParseListing(doc string) ([]Entry, error) {
	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parsing listing: %w", err)
	}

	table := d.Find(p.sel.Table).First()
	if table.Length() == 0 {
		return nil, &ParseError{What: "listing table " + p.sel.Table, Row: -1, Content: doc}
	}

	minCells := max(p.sel.TitleCell, p.sel.AuthorCell) + 1

	var entries []Entry
	var parseErr error
	table.Find(p.sel.Row).EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find(p.sel.Cell)
		if cells.Length() < minCells {
			parseErr = &ParseError{What: fmt.Sprintf("cell %d", minCells-1), Row: i, Content: doc}
			return false
		}

		link := cells.Eq(p.sel.TitleCell).Find("a").First()
		if link.Length() == 0 {
			parseErr = &ParseError{What: "title link", Row: i, Content: doc}
			return false
		}
		title, ok := firstText(link)
		if !ok {
			parseErr = &ParseError{What: "title text", Row: i, Content: doc}
			return false
		}
		href, ok := link.Attr("href")
		if !ok {
			parseErr = &ParseError{What: "title href", Row: i, Content: doc}
			return false
		}
		author, ok := firstText(cells.Eq(p.sel.AuthorCell))
		if !ok {
			parseErr = &ParseError{What: "author text", Row: i, Content: doc}
			return false
		}

		entries = append(entries, Entry{Title: title, Author: author, Href: href})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return entries, nil
}

// ParseArticle returns the inner HTML of the article container.
func (p *Parser) ParseArticle(doc string) (string, error) {
	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return "", fmt.Errorf("parsing article: %w", err)
	}

	container := d.Find(p.sel.Article).First()
	if container.Length() == 0 {
		return "", &ParseError{What: "article container " + p.sel.Article, Row: -1, Content: doc}
	}

	inner, err := container.Html()
	if err != nil {
		return "", fmt.Errorf("serializing article: %w", err)
	}
	return inner, nil
}

// ResolveURL makes an entry's href absolute against the listing URL.
func ResolveURL(base, href string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parsing href %q: %w", href, err)
	}
	return b.ResolveReference(ref).String(), nil
}

// firstText returns the first text node under the selection's first element,
// in document order.
func firstText(s *goquery.Selection) (string, bool) {
	if len(s.Nodes) == 0 {
		return "", false
	}
	return findText(s.Nodes[0])
}

func findText(n *html.Node) (string, bool) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			return c.Data, true
		}
		if t, ok := findText(c); ok {
			return t, true
		}
	}
	return "", false
}
