package downloader

import (
	"encoding/json"
	"testing"
)

func searchPayload(t *testing.T, raw string) map[string]any {
	t.Helper()
	var decoded map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return decoded
}

func TestExtractSearchCandidates(t *testing.T) {
	payload := searchPayload(t, `{
		"contents": {"twoColumnSearchResultsRenderer": {"primaryContents": {"sectionListRenderer": {"contents": [
			{"itemSectionRenderer": {"contents": [
				{"shelfRenderer": {"title": {"simpleText": "People also watched"}}},
				{"videoRenderer": {
					"videoId": "abc123",
					"title": {"runs": [{"text": "First "}, {"text": "Result"}]},
					"lengthText": {"simpleText": "3:45"}
				}},
				{"videoRenderer": {
					"videoId": "def456",
					"title": {"simpleText": "Live Show"}
				}},
				{"videoRenderer": {
					"title": {"simpleText": "no id, dropped"}
				}}
			]}},
			{"itemSectionRenderer": {"contents": [
				{"videoRenderer": {
					"videoId": "ghi789",
					"title": {"simpleText": "Second Section"},
					"lengthText": {"simpleText": "1:02:03"}
				}}
			]}}
		]}}}}
	}`)

	got := extractSearchCandidates(payload)
	want := []Candidate{
		{ID: "abc123", Title: "First Result", DurationText: "3:45"},
		{ID: "def456", Title: "Live Show"},
		{ID: "ghi789", Title: "Second Section", DurationText: "1:02:03"},
	}

	if len(got) != len(want) {
		t.Fatalf("got %d candidates, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("candidate %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestExtractSearchCandidatesEmptyPayload(t *testing.T) {
	if got := extractSearchCandidates(map[string]any{}); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestRunsText(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple text", input: `{"simpleText": "hello"}`, want: "hello"},
		{name: "joined runs", input: `{"runs": [{"text": "a"}, {"text": "b"}]}`, want: "ab"},
		{name: "not a map", input: `"plain"`, want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var value any
			if err := json.Unmarshal([]byte(tc.input), &value); err != nil {
				t.Fatalf("bad fixture: %v", err)
			}
			if got := runsText(value); got != tc.want {
				t.Fatalf("runsText = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCandidateWatchURL(t *testing.T) {
	c := Candidate{ID: "abc123"}
	want := "https://www.youtube.com/watch?v=abc123"
	if got := c.WatchURL(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
