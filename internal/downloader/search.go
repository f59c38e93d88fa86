package downloader

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"
)

// Candidate is one search result as reported by the search provider.
// DurationText carries the raw clock string ("3:45"); it is empty when the
// provider reported no length (live streams, premieres).
type Candidate struct {
	ID           string
	Title        string
	DurationText string
}

// WatchURL returns the canonical watch URL for the candidate.
func (c Candidate) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + c.ID
}

// SearchClient returns an ordered candidate list for a keyword. The order
// is the provider's; nothing downstream re-ranks it.
type SearchClient interface {
	Search(ctx context.Context, keyword string) ([]Candidate, error)
}

type innertubeConfig struct {
	apiKey  string
	context map[string]any
}

// InnertubeSearch queries the public YouTube search endpoint using the API
// key and client context scraped from the result page markup.
type InnertubeSearch struct {
	Timeout time.Duration

	mu  sync.Mutex
	cfg *innertubeConfig
}

// NewInnertubeSearch builds a search client with the given per-request timeout.
func NewInnertubeSearch(timeout time.Duration) *InnertubeSearch {
	return &InnertubeSearch{Timeout: timeout}
}

var ytcfgRE = regexp.MustCompile(`(?s)ytcfg\.set\((\{.*?\})\);`)

func (s *InnertubeSearch) config(ctx context.Context) (*innertubeConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg != nil {
		return s.cfg, nil
	}

	client := newHTTPClient(s.Timeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://www.youtube.com/", nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, upstreamf("fetching search config: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, upstreamf("unexpected response %d from YouTube", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, upstreamf("reading search config: %w", err)
	}

	match := ytcfgRE.FindSubmatch(body)
	if match == nil {
		return nil, upstreamf("ytcfg.set data not found in YouTube page")
	}

	var cfg struct {
		APIKey  string         `json:"INNERTUBE_API_KEY"`
		Context map[string]any `json:"INNERTUBE_CONTEXT"`
	}
	if err := json.Unmarshal(match[1], &cfg); err != nil {
		return nil, upstreamf("decoding innertube config: %w", err)
	}
	if cfg.APIKey == "" || len(cfg.Context) == 0 {
		return nil, upstreamf("missing innertube config in YouTube page")
	}

	s.cfg = &innertubeConfig{apiKey: cfg.APIKey, context: cfg.Context}
	return s.cfg, nil
}

// Search posts the keyword to the innertube search endpoint and extracts
// the video results in the order the response lists them.
func (s *InnertubeSearch) Search(ctx context.Context, keyword string) ([]Candidate, error) {
	cfg, err := s.config(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"context": cfg.context,
		"query":   keyword,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	client := newHTTPClient(s.Timeout)
	endpoint := "https://www.youtube.com/youtubei/v1/search?key=" + cfg.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, upstreamf("searching %q: %w", keyword, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, upstreamf("unexpected response %d from YouTube search", resp.StatusCode)
	}

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, upstreamf("decoding search response: %w", err)
	}

	candidates := extractSearchCandidates(decoded)
	if len(candidates) == 0 {
		if errMsg := getString(getPath(decoded, "error", "message")); errMsg != "" {
			return nil, upstreamf("YouTube search error: %s", errMsg)
		}
	}
	return candidates, nil
}

// extractSearchCandidates walks the two-column search layout and collects
// every videoRenderer in response order. Shelf and ad renderers have no
// videoRenderer key and fall through.
func extractSearchCandidates(payload map[string]any) []Candidate {
	sections := asSlice(getPath(payload,
		"contents", "twoColumnSearchResultsRenderer", "primaryContents",
		"sectionListRenderer", "contents"))

	var candidates []Candidate
	for _, section := range sections {
		items := asSlice(getPath(asMap(section), "itemSectionRenderer", "contents"))
		for _, item := range items {
			renderer := asMap(asMap(item)["videoRenderer"])
			if renderer == nil {
				continue
			}
			candidate := Candidate{
				ID:           getString(renderer["videoId"]),
				Title:        runsText(renderer["title"]),
				DurationText: getString(getPath(renderer, "lengthText", "simpleText")),
			}
			if candidate.ID == "" {
				continue
			}
			candidates = append(candidates, candidate)
		}
	}
	return candidates
}

// runsText joins the text runs of a title node.
func runsText(value any) string {
	node := asMap(value)
	if node == nil {
		return ""
	}
	if simple := getString(node["simpleText"]); simple != "" {
		return simple
	}
	var b strings.Builder
	for _, run := range asSlice(node["runs"]) {
		b.WriteString(getString(asMap(run)["text"]))
	}
	return b.String()
}

func asMap(value any) map[string]any {
	if value == nil {
		return nil
	}
	m, _ := value.(map[string]any)
	return m
}

func asSlice(value any) []any {
	if value == nil {
		return nil
	}
	s, _ := value.([]any)
	return s
}

func getPath(value map[string]any, keys ...string) any {
	var current any = value
	for _, key := range keys {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = m[key]
	}
	return current
}

func getString(value any) string {
	if value == nil {
		return ""
	}
	s, _ := value.(string)
	return s
}

var _ SearchClient = (*InnertubeSearch)(nil)
