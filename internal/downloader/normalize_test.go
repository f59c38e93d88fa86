package downloader

import (
	"reflect"
	"testing"
)

func TestParseDialect(t *testing.T) {
	cases := []struct {
		input   string
		want    Dialect
		wantErr bool
	}{
		{input: "none", want: DialectNone},
		{input: "", want: DialectNone},
		{input: "Chat", want: DialectChat},
		{input: "mix", want: DialectMix},
		{input: "nightcore", want: DialectNightcore},
		{input: "playlist", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseDialect(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNormalizeChatSingleLine(t *testing.T) {
	raw := "[12:01] alice: Daft Punk - Around the World"
	got := Normalize(raw, DialectChat, Normalized{})

	wantQueries := []string{"Daft Punk - Around the World"}
	if !reflect.DeepEqual(got.Queries, wantQueries) {
		t.Fatalf("queries = %v, want %v", got.Queries, wantQueries)
	}
	if got.Text != "Daft Punk - Around the World\n" {
		t.Fatalf("text = %q", got.Text)
	}
}

func TestNormalizeChatMultiLineMessage(t *testing.T) {
	raw := "[12:01] alice: Daft Punk -\nAround the World\n[12:02] bob: One More Time"
	got := Normalize(raw, DialectChat, Normalized{})

	want := []string{"Daft Punk - Around the World", "One More Time"}
	if !reflect.DeepEqual(got.Queries, want) {
		t.Fatalf("queries = %v, want %v", got.Queries, want)
	}
}

func TestNormalizeChatIgnoresUnmatchedLines(t *testing.T) {
	raw := "some noise\n[12:01] alice: Song One\njoined the room\n"
	got := Normalize(raw, DialectChat, Normalized{})

	// "joined the room" follows the matched line without a new stamp, so
	// it is folded into the open message.
	want := []string{"Song One joined the room"}
	if !reflect.DeepEqual(got.Queries, want) {
		t.Fatalf("queries = %v, want %v", got.Queries, want)
	}
}

func TestNormalizeChatFallsBackToFreeform(t *testing.T) {
	raw := "just a song title"
	got := Normalize(raw, DialectChat, Normalized{Text: "old", Queries: []string{"old"}})

	if got.Text != "oldjust a song title" {
		t.Fatalf("text = %q", got.Text)
	}
	want := []string{"oldjust a song title"}
	if !reflect.DeepEqual(got.Queries, want) {
		t.Fatalf("queries = %v, want %v", got.Queries, want)
	}
}

func TestNormalizeMixListing(t *testing.T) {
	raw := "Best Mix 2020 Tracklist\n" +
		"Around the World\n" +
		"Daft Punk\n" +
		"3:45\n" +
		"\n" +
		"\n" +
		"One More Time\n" +
		"Daft Punk\n" +
		"4:20\n"
	got := Normalize(raw, DialectMix, Normalized{})

	want := []string{"Around the World - Daft Punk", "One More Time - Daft Punk"}
	if !reflect.DeepEqual(got.Queries, want) {
		t.Fatalf("queries = %v, want %v", got.Queries, want)
	}
}

func TestNormalizeMixFallsBackWhenEmpty(t *testing.T) {
	raw := "Subscribe for more\n3:45\n"
	got := Normalize(raw, DialectMix, Normalized{})

	if !reflect.DeepEqual(got.Queries, []string{"Subscribe for more", "3:45", ""}) {
		t.Fatalf("queries = %v", got.Queries)
	}
}

func TestNormalizeNightcore(t *testing.T) {
	raw := "0:00 First Song\n3:45 Second Song\n1:02:03 Third Song\n\n"
	got := Normalize(raw, DialectNightcore, Normalized{})

	want := []string{"First Song", "Second Song", "Third Song"}
	if !reflect.DeepEqual(got.Queries, want) {
		t.Fatalf("queries = %v, want %v", got.Queries, want)
	}
}

// New matches come first in the accumulated text but last in the query
// list. Both orders are part of the observed contract.
func TestNormalizeAccumulationAsymmetry(t *testing.T) {
	prev := Normalized{Text: "Older Song\n", Queries: []string{"Older Song"}}
	raw := "[12:01] alice: Newer Song"
	got := Normalize(raw, DialectChat, prev)

	if got.Text != "Newer Song\nOlder Song\n" {
		t.Fatalf("text = %q: new matches should be prepended", got.Text)
	}
	want := []string{"Older Song", "Newer Song"}
	if !reflect.DeepEqual(got.Queries, want) {
		t.Fatalf("queries = %v: new matches should be appended", got.Queries)
	}
}

func TestNormalizeFreeformKeepsEmptyLines(t *testing.T) {
	got := Normalize("a\n\nb", DialectNone, Normalized{})
	want := []string{"a", "", "b"}
	if !reflect.DeepEqual(got.Queries, want) {
		t.Fatalf("queries = %v, want %v", got.Queries, want)
	}
}

func TestCleanQueries(t *testing.T) {
	got := CleanQueries([]string{" a ", "", "  ", "b"})
	want := []string{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
