package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielrz/musicfetch/internal/downloader"
)

type fakeSearch struct {
	candidates map[string][]downloader.Candidate
	err        error
}

func (f *fakeSearch) Search(_ context.Context, keyword string) ([]downloader.Candidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates[keyword], nil
}

func newTestServer(search downloader.SearchClient) *httptest.Server {
	handler := NewServer(search, Config{
		MaxDuration: downloader.DefaultMaxDuration,
		MaxResults:  downloader.DefaultArtistResults,
		Timeout:     5 * time.Second,
	}).Handler()
	return httptest.NewServer(handler)
}

func TestStatusEndpoint(t *testing.T) {
	server := newTestServer(&fakeSearch{})
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/status")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if payload["status"] != "ok" {
		t.Fatalf("payload = %v", payload)
	}
}

func TestDownloadRejectsMissingAndInvalidReferences(t *testing.T) {
	server := newTestServer(&fakeSearch{})
	defer server.Close()

	cases := []struct {
		name string
		path string
	}{
		{name: "missing url", path: "/api/download"},
		{name: "too short id", path: "/api/download?url=abc"},
		{name: "not a video reference", path: "/api/download?url=https://example.com/nope"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Get(server.URL + tc.path)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			var payload map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
				t.Fatalf("decoding: %v", err)
			}
			if payload["error"] == "" {
				t.Fatal("expected structured error payload")
			}
		})
	}
}

func TestDownloadMethodNotAllowed(t *testing.T) {
	server := newTestServer(&fakeSearch{})
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/download", "application/json", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", resp.StatusCode)
	}
}

func TestResolveFirstFitPerQuery(t *testing.T) {
	search := &fakeSearch{candidates: map[string][]downloader.Candidate{
		"song one": {
			{ID: "long", Title: "a mix", DurationText: "45:00"},
			{ID: "abc12345678", Title: "Song One", DurationText: "3:45"},
		},
		"song two": {
			{ID: "def12345678", Title: "Song Two", DurationText: "2:30"},
		},
		"song miss": {
			{ID: "nope", Title: "Endless", DurationText: "59:00"},
		},
	}}
	server := newTestServer(search)
	defer server.Close()

	body := `{"queries": ["song one", "song two", "song miss"]}`
	resp, err := http.Post(server.URL+"/api/resolve", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var payload resolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(payload.Results) != 2 {
		t.Fatalf("got %d results, want 2: %+v", len(payload.Results), payload.Results)
	}
	if payload.Results[0].ID != "abc12345678" || payload.Results[1].ID != "def12345678" {
		t.Fatalf("results = %+v", payload.Results)
	}
	if payload.Results[0].DurationSeconds != 225 {
		t.Fatalf("duration = %d, want 225", payload.Results[0].DurationSeconds)
	}
	if !strings.Contains(payload.Results[0].URL, "watch?v=abc12345678") {
		t.Fatalf("url = %q", payload.Results[0].URL)
	}
}

func TestResolveArtistMode(t *testing.T) {
	search := &fakeSearch{candidates: map[string][]downloader.Candidate{
		"daft punk": {
			{ID: "a1234567890", Title: "One", DurationText: "3:00"},
			{ID: "b1234567890", Title: "Mix", DurationText: "55:00"},
			{ID: "c1234567890", Title: "Two", DurationText: "4:00"},
		},
	}}
	server := newTestServer(search)
	defer server.Close()

	body := `{"artist": "daft punk", "maxResults": 5}`
	resp, err := http.Post(server.URL+"/api/resolve", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var payload resolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(payload.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(payload.Results))
	}
}

func TestResolveRejectsEmptyRequest(t *testing.T) {
	server := newTestServer(&fakeSearch{})
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/resolve", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestResolveUpstreamFailureIsBadGateway(t *testing.T) {
	search := &fakeSearch{err: downloader.CategorizedError{
		Category: downloader.CategoryUpstream,
		Err:      context.DeadlineExceeded,
	}}
	server := newTestServer(search)
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/resolve", "application/json", strings.NewReader(`{"queries":["x"]}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}
}
