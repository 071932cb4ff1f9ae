package delta

import (
	"reflect"
	"testing"

	"github.com/jmylchreest/newsrelay/pkg/listing"
)

func entries(titles ...string) []listing.Entry {
	out := make([]listing.Entry, len(titles))
	for i, t := range titles {
		out[i] = listing.Entry{Title: t, Author: "author " + t, Href: "/news/" + t + "/"}
	}
	return out
}

func titles(es []listing.Entry) []string {
	if es == nil {
		return nil
	}
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Title
	}
	return out
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name          string
		listing       []listing.Entry
		watermark     string
		wantNew       []string
		wantCandidate string // "" means nil
	}{
		{
			name:      "empty_listing",
			listing:   nil,
			watermark: "A",
		},
		{
			name:      "nothing_new",
			listing:   entries("A", "B", "C"),
			watermark: "A",
		},
		{
			name:          "partial_match",
			listing:       entries("A", "B", "C", "D"),
			watermark:     "C",
			wantNew:       []string{"A", "B"},
			wantCandidate: "A",
		},
		{
			name:          "no_match_all_new",
			listing:       entries("A", "B", "C"),
			watermark:     "Z",
			wantNew:       []string{"A", "B", "C"},
			wantCandidate: "A",
		},
		{
			name:          "match_last",
			listing:       entries("A", "B", "C"),
			watermark:     "C",
			wantNew:       []string{"A", "B"},
			wantCandidate: "A",
		},
		{
			// the scan stops at the first match
			name:          "duplicate_titles",
			listing:       entries("A", "B", "A", "C"),
			watermark:     "B",
			wantNew:       []string{"A"},
			wantCandidate: "A",
		},
		{
			name:          "empty_watermark",
			listing:       entries("A"),
			watermark:     "",
			wantNew:       []string{"A"},
			wantCandidate: "A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fresh, candidate := Detect(tt.listing, tt.watermark)

			if got := titles(fresh); !reflect.DeepEqual(got, tt.wantNew) {
				t.Errorf("new = %v, want %v", got, tt.wantNew)
			}

			switch {
			case tt.wantCandidate == "" && candidate != nil:
				t.Errorf("candidate = %q, want nil", *candidate)
			case tt.wantCandidate != "" && candidate == nil:
				t.Errorf("candidate = nil, want %q", tt.wantCandidate)
			case candidate != nil && *candidate != tt.wantCandidate:
				t.Errorf("candidate = %q, want %q", *candidate, tt.wantCandidate)
			}
		})
	}
}

func TestDetect_PreservesEntries(t *testing.T) {
	in := entries("A", "B")
	fresh, _ := Detect(in, "B")

	if len(fresh) != 1 || fresh[0] != in[0] {
		t.Errorf("expected the full entry to be returned, got %+v", fresh)
	}
}

func TestOldest(t *testing.T) {
	in := entries("X", "Y", "Z")
	got := Oldest(in)

	if want := []string{"Z", "Y", "X"}; !reflect.DeepEqual(titles(got), want) {
		t.Errorf("Oldest() = %v, want %v", titles(got), want)
	}
	if in[0].Title != "X" {
		t.Error("Oldest() should not modify its input")
	}
	if got := Oldest([]int{}); len(got) != 0 {
		t.Errorf("Oldest(empty) = %v", got)
	}
}
