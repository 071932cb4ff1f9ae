package listing

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// readTestdata reads a file from the testdata directory
func readTestdata(t *testing.T, filename string) string {
	t.Helper()
	path := filepath.Join("testdata", filename)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read testdata %s: %v", filename, err)
	}
	return string(data)
}

func TestParser_ParseListing(t *testing.T) {
	doc := readTestdata(t, "listing.html")

	entries, err := NewParser().ParseListing(doc)
	if err != nil {
		t.Fatalf("ParseListing() error = %v", err)
	}

	want := []Entry{
		{
			Title:  "The sshd service needs to be restarted after upgrading to openSSH 9.8p1",
			Author: "Robin Candau",
			Href:   "/news/sshd-needs-restarting/",
		},
		{
			Title:  "Arch Linux 2024 Leader Election Results",
			Author: "Christian Heusel",
			Href:   "/news/arch-linux-2024-leader-election-results/",
		},
		{
			Title:  "GRUB & bootloader upgrade",
			Author: "Tobias Powalowski",
			Href:   "/news/grub-2-12rc1-1-requires-manual-intervention/",
		},
	}

	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d: %+v", len(entries), len(want), entries)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestParser_ParseListing_EmptyTable(t *testing.T) {
	entries, err := NewParser().ParseListing("<table><tbody></tbody></table>")
	if err != nil {
		t.Fatalf("ParseListing() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %+v", entries)
	}
}

func TestParser_ParseListing_StructureErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		what    string
		wantRow int
	}{
		{
			name:    "no_table",
			doc:     "<html><body><p>Service Unavailable</p></body></html>",
			what:    "listing table",
			wantRow: -1,
		},
		{
			name:    "too_few_cells",
			doc:     "<table><tbody><tr><td>2024-01-01</td><td><a href=\"/a\">A</a></td></tr></tbody></table>",
			what:    "cell 2",
			wantRow: 0,
		},
		{
			name: "missing_link",
			doc: "<table><tbody>" +
				"<tr><td>d</td><td><a href=\"/a\">A</a></td><td>x</td></tr>" +
				"<tr><td>d</td><td>B</td><td>y</td></tr>" +
				"</tbody></table>",
			what:    "title link",
			wantRow: 1,
		},
		{
			name:    "missing_href",
			doc:     "<table><tbody><tr><td>d</td><td><a>A</a></td><td>x</td></tr></tbody></table>",
			what:    "title href",
			wantRow: 0,
		},
		{
			name:    "empty_title",
			doc:     "<table><tbody><tr><td>d</td><td><a href=\"/a\"></a></td><td>x</td></tr></tbody></table>",
			what:    "title text",
			wantRow: 0,
		},
		{
			name:    "empty_author",
			doc:     "<table><tbody><tr><td>d</td><td><a href=\"/a\">A</a></td><td></td></tr></tbody></table>",
			what:    "author text",
			wantRow: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser().ParseListing(tt.doc)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrStructure) {
				t.Errorf("expected ErrStructure, got %v", err)
			}

			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if !strings.Contains(pe.What, tt.what) {
				t.Errorf("What = %q, want it to contain %q", pe.What, tt.what)
			}
			if pe.Row != tt.wantRow {
				t.Errorf("Row = %d, want %d", pe.Row, tt.wantRow)
			}
			if pe.Content != tt.doc {
				t.Error("ParseError should carry the raw document")
			}
		})
	}
}

func TestParser_ParseArticle(t *testing.T) {
	doc := readTestdata(t, "article.html")

	body, err := NewParser().ParseArticle(doc)
	if err != nil {
		t.Fatalf("ParseArticle() error = %v", err)
	}

	if !strings.HasPrefix(body, "<p>After upgrading to <code>openssh-9.8p1</code>") {
		t.Errorf("body should start with the first paragraph, got %q", body)
	}
	if !strings.Contains(body, "connections.\nWhen upgrading") {
		t.Error("body should keep the raw in-paragraph newline")
	}
	if !strings.Contains(body, "</pre>\n<p>Affected setups:</p>\n<ul>\n<li>remote hosts</li>") {
		t.Errorf("body should keep block adjacency, got %q", body)
	}
	if strings.Contains(body, "article-content") || strings.Contains(body, "timestamp") {
		t.Error("body should contain only the container's children")
	}
}

func TestParser_ParseArticle_MissingContainer(t *testing.T) {
	doc := "<html><body><div class=\"other\">nope</div></body></html>"

	_, err := NewParser().ParseArticle(doc)
	if !errors.Is(err, ErrStructure) {
		t.Fatalf("expected ErrStructure, got %v", err)
	}

	var pe *ParseError
	if !errors.As(err, &pe) || pe.Content != doc {
		t.Error("ParseError should carry the raw page")
	}
}

func TestNewParser_CustomSelectors(t *testing.T) {
	p := NewParser(Selectors{Article: "main.post"})

	sel := p.Selectors()
	if sel.Article != "main.post" {
		t.Errorf("Article = %q, want %q", sel.Article, "main.post")
	}
	if sel.Table != "tbody" || sel.TitleCell != 1 || sel.AuthorCell != 2 {
		t.Errorf("unset fields should keep defaults, got %+v", sel)
	}

	body, err := p.ParseArticle("<main class=\"post\"><p>hi</p></main>")
	if err != nil {
		t.Fatalf("ParseArticle() error = %v", err)
	}
	if body != "<p>hi</p>" {
		t.Errorf("body = %q, want %q", body, "<p>hi</p>")
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		base, href, want string
	}{
		{"https://archlinux.org/news/", "/news/foo/", "https://archlinux.org/news/foo/"},
		{"https://archlinux.org/news/", "bar/", "https://archlinux.org/news/bar/"},
		{"https://archlinux.org/news/", "https://example.com/x", "https://example.com/x"},
	}

	for _, tt := range tests {
		got, err := ResolveURL(tt.base, tt.href)
		if err != nil {
			t.Fatalf("ResolveURL(%q, %q) error = %v", tt.base, tt.href, err)
		}
		if got != tt.want {
			t.Errorf("ResolveURL(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
		}
	}
}

func TestParseError_Error(t *testing.T) {
	err := &ParseError{What: "title link", Row: 3}
	want := "unexpected page structure: row 3: missing title link"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
