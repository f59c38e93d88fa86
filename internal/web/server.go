package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielrz/musicfetch/internal/downloader"
)

const maxRequestBodyBytes = 1 << 20 // 1 MiB

// Config sizes the collaborators behind the HTTP handlers.
type Config struct {
	MaxDuration time.Duration
	MaxResults  int
	Timeout     time.Duration
}

// Server exposes the resolve and download operations over HTTP.
type Server struct {
	resolver  *downloader.Resolver
	deliverer *downloader.Deliverer
	cfg       Config
}

// NewServer wires the HTTP boundary to a search client.
func NewServer(search downloader.SearchClient, cfg Config) *Server {
	if cfg.Timeout == 0 {
		cfg.Timeout = 3 * time.Minute
	}
	return &Server{
		resolver:  downloader.NewResolver(search, cfg.MaxDuration, nil),
		deliverer: downloader.NewDeliverer(cfg.Timeout, nil),
		cfg:       cfg,
	}
}

// ResolveRequest is the body of POST /api/resolve.
type ResolveRequest struct {
	Queries            []string `json:"queries"`
	Artist             string   `json:"artist,omitempty"`
	MaxDurationMinutes float64  `json:"maxDurationMinutes,omitempty"`
	MaxResults         int      `json:"maxResults,omitempty"`
}

type resolvedItem struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	URL             string `json:"url"`
	DurationSeconds int    `json:"duration_seconds"`
}

type resolveResponse struct {
	Results []resolvedItem `json:"results"`
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/download", s.handleDownload)
	mux.HandleFunc("/api/resolve", s.handleResolve)
	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return mux
}

// handleDownload streams one transcoded MP3. The reference arrives as the
// "url" (or "v") query parameter; invalid or missing references get a 400,
// downstream failures a 5xx, both with a structured payload.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	reference := r.URL.Query().Get("url")
	if reference == "" {
		reference = r.URL.Query().Get("v")
	}
	if reference == "" {
		writeJSONError(w, http.StatusBadRequest, "missing url parameter")
		return
	}

	id, err := downloader.ValidateReference(reference)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid video reference")
		return
	}

	info, err := s.deliverer.Info(r.Context(), id)
	if err != nil {
		writeJSONError(w, httpStatusFor(err), err.Error())
		return
	}

	filename := downloader.SanitizeTitle(info.Title) + ".mp3"
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Type", "audio/mpeg")

	video := downloader.ResolvedVideo{ID: id, Title: info.Title}
	sink := &countingWriter{w: w}
	if _, err := s.deliverer.Deliver(r.Context(), video, sink); err != nil {
		if sink.n > 0 {
			// Headers are already on the wire; nothing sane left to send.
			return
		}
		w.Header().Del("Content-Disposition")
		w.Header().Set("Content-Type", "application/json")
		writeJSONError(w, httpStatusFor(err), fmt.Sprintf("failed to download and convert audio %s", downloader.SanitizeTitle(info.Title)))
		return
	}
}

type countingWriter struct {
	w http.ResponseWriter
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// handleResolve turns a query list (or one artist keyword) into watch URLs
// under the duration bound, mirroring the search half of the pipeline.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ResolveRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Queries) == 0 && strings.TrimSpace(req.Artist) == "" {
		writeJSONError(w, http.StatusBadRequest, "queries or artist is required")
		return
	}

	resolver := s.resolver
	if req.MaxDurationMinutes > 0 {
		bound := time.Duration(req.MaxDurationMinutes * float64(time.Minute))
		resolver = downloader.NewResolver(s.resolver.Client, bound, nil)
	}

	var resp resolveResponse
	if artist := strings.TrimSpace(req.Artist); artist != "" {
		maxResults := req.MaxResults
		if maxResults <= 0 {
			maxResults = s.cfg.MaxResults
		}
		videos, err := resolver.ResolveArtist(r.Context(), artist, maxResults)
		if err != nil {
			writeJSONError(w, httpStatusFor(err), err.Error())
			return
		}
		for _, v := range videos {
			resp.Results = append(resp.Results, resolvedVideoItem(v))
		}
	} else {
		for _, query := range downloader.CleanQueries(req.Queries) {
			video, found, err := resolver.Resolve(r.Context(), query)
			if err != nil {
				writeJSONError(w, httpStatusFor(err), err.Error())
				return
			}
			if !found {
				continue
			}
			resp.Results = append(resp.Results, resolvedVideoItem(video))
		}
	}

	if resp.Results == nil {
		resp.Results = []resolvedItem{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func resolvedVideoItem(v downloader.ResolvedVideo) resolvedItem {
	return resolvedItem{
		ID:              v.ID,
		Title:           v.Title,
		URL:             v.WatchURL(),
		DurationSeconds: int(v.Duration.Seconds()),
	}
}

// ListenAndServe runs the server until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, search downloader.SearchClient, cfg Config) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           NewServer(search, cfg).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func httpStatusFor(err error) int {
	switch downloader.CategoryOf(err) {
	case downloader.CategoryInvalidReference:
		return http.StatusBadRequest
	case downloader.CategoryUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
