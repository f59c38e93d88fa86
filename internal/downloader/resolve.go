package downloader

import (
	"context"
	"time"
)

// Defaults carried over from the original service: songs longer than ten
// minutes are assumed to be mixes or full albums, and an artist query
// yields at most 25 tracks.
const (
	DefaultMaxDuration   = 10 * time.Minute
	DefaultArtistResults = 25
)

// ResolvedVideo is the single candidate chosen for a query.
type ResolvedVideo struct {
	ID       string
	Title    string
	Duration time.Duration
}

// WatchURL returns the canonical watch URL for the resolved video.
func (v ResolvedVideo) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}

// Resolver picks candidates for queries under a duration bound.
type Resolver struct {
	Client      SearchClient
	MaxDuration time.Duration
	Printer     *Printer
}

// NewResolver wires a resolver to a search client. A zero maxDuration
// falls back to the default bound.
func NewResolver(client SearchClient, maxDuration time.Duration, printer *Printer) *Resolver {
	if maxDuration <= 0 {
		maxDuration = DefaultMaxDuration
	}
	if printer == nil {
		printer = newPrinter(Options{Quiet: true})
	}
	return &Resolver{Client: client, MaxDuration: maxDuration, Printer: printer}
}

// Resolve scans the provider's candidate list in order and returns the
// first candidate within the duration bound. Candidates without a usable
// duration are skipped. A clean miss returns ok=false with a nil error;
// only transport failures are errors.
func (r *Resolver) Resolve(ctx context.Context, query string) (ResolvedVideo, bool, error) {
	candidates, err := r.Client.Search(ctx, query)
	if err != nil {
		return ResolvedVideo{}, false, err
	}

	for _, candidate := range candidates {
		duration, ok := r.candidateDuration(candidate)
		if !ok || duration > r.MaxDuration {
			continue
		}
		return ResolvedVideo{
			ID:       candidate.ID,
			Title:    candidate.Title,
			Duration: duration,
		}, true, nil
	}

	r.Printer.Log(LogWarn, "no suitable video found for: "+query)
	return ResolvedVideo{}, false, nil
}

// ResolveArtist runs one broad query and collects up to maxResults
// candidates under the duration bound, in provider order.
func (r *Resolver) ResolveArtist(ctx context.Context, artist string, maxResults int) ([]ResolvedVideo, error) {
	if maxResults <= 0 {
		maxResults = DefaultArtistResults
	}
	candidates, err := r.Client.Search(ctx, artist)
	if err != nil {
		return nil, err
	}

	var videos []ResolvedVideo
	for _, candidate := range candidates {
		duration, ok := r.candidateDuration(candidate)
		if !ok || duration > r.MaxDuration {
			continue
		}
		videos = append(videos, ResolvedVideo{
			ID:       candidate.ID,
			Title:    candidate.Title,
			Duration: duration,
		})
		if len(videos) >= maxResults {
			break
		}
	}

	if len(videos) == 0 {
		r.Printer.Log(LogWarn, "no suitable videos found for artist: "+artist)
	}
	return videos, nil
}

// candidateDuration parses the candidate's clock string. Missing or
// malformed strings exclude the candidate without failing the resolution.
func (r *Resolver) candidateDuration(candidate Candidate) (time.Duration, bool) {
	if candidate.DurationText == "" {
		return 0, false
	}
	duration, err := parseClock(candidate.DurationText)
	if err != nil {
		r.Printer.Log(LogWarn, "unrecognized duration for "+candidate.ID+": "+candidate.DurationText)
		return 0, false
	}
	return duration, true
}
